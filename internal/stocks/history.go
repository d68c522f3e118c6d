package stocks

import (
	"context"
	"strings"
	"time"

	"marketdash/internal/market"
	"marketdash/internal/yahoo"
)

// HistoryOptions selects the window and shape of a history request. Start and
// End (YYYY-MM-DD) override Period when both are set.
type HistoryOptions struct {
	Period   string
	Start    string
	End      string
	Interval string
	OHLC     bool
}

// History fetches and normalizes a historical price series. An empty
// upstream series is not found, never an empty slice: callers must be able
// to distinguish "no data in range" from a legitimate series.
func (s *Service) History(ctx context.Context, symbol string, opts HistoryOptions) (*market.Series, error) {
	symbol = strings.ToUpper(symbol)
	if opts.Period == "" {
		opts.Period = "1mo"
	}
	if opts.Interval == "" {
		opts.Interval = "1d"
	}

	params := yahoo.ChartParams{Range: opts.Period, Interval: opts.Interval}
	period := opts.Period
	if opts.Start != "" && opts.End != "" {
		start, err := time.Parse("2006-01-02", opts.Start)
		if err != nil {
			return nil, market.ErrNotFound
		}
		end, err := time.Parse("2006-01-02", opts.End)
		if err != nil {
			return nil, market.ErrNotFound
		}
		params.Start = start.Unix()
		params.End = end.Unix()
		period = opts.Start + " to " + opts.End
	}

	res, err := s.yahoo.Chart(ctx, symbol, params)
	if err != nil {
		return nil, err
	}

	series := normalizeHistory(res, opts.OHLC, s.loadLocation(res.Meta.ExchangeTimezoneName))
	if series == nil {
		return nil, market.ErrNotFound
	}
	series.Metadata.Symbol = symbol
	series.Metadata.Period = period
	series.Metadata.Interval = opts.Interval
	series.Metadata.Currency = defaultString(res.Meta.Currency, "USD")
	series.Metadata.LastUpdated = s.now().Format(time.RFC3339)
	return series, nil
}

// normalizeHistory converts chart arrays into an ordered point series.
// Upstream bars are already time-ordered and are never reordered. In line
// shape a bar without a close is dropped; in OHLC shape missing components
// stay null so a gap is never mistaken for a zero price. Missing volume is 0.
func normalizeHistory(res *yahoo.ChartResult, ohlc bool, loc *time.Location) *market.Series {
	if res == nil || len(res.Timestamp) == 0 || len(res.Indicators.Quote) == 0 {
		return nil
	}
	quote := res.Indicators.Quote[0]

	bar := func(arr []*float64, i int) *float64 {
		if i >= len(arr) || arr[i] == nil {
			return nil
		}
		v := market.Round2(*arr[i])
		return &v
	}
	volume := func(i int) int64 {
		if i >= len(quote.Volume) || quote.Volume[i] == nil {
			return 0
		}
		return *quote.Volume[i]
	}

	series := &market.Series{}
	series.Metadata.OHLC = ohlc
	if ohlc {
		points := make([]market.OHLCPoint, 0, len(res.Timestamp))
		for i, ts := range res.Timestamp {
			v := volume(i)
			points = append(points, market.OHLCPoint{
				Datetime: time.Unix(ts, 0).In(loc).Format(time.RFC3339),
				Open:     bar(quote.Open, i),
				High:     bar(quote.High, i),
				Low:      bar(quote.Low, i),
				Close:    bar(quote.Close, i),
				Volume:   &v,
			})
		}
		if len(points) == 0 {
			return nil
		}
		series.Data = points
		return series
	}

	points := make([]market.LinePoint, 0, len(res.Timestamp))
	for i, ts := range res.Timestamp {
		closePrice := bar(quote.Close, i)
		if closePrice == nil {
			continue
		}
		points = append(points, market.LinePoint{
			Datetime: time.Unix(ts, 0).In(loc).Format(time.RFC3339),
			Price:    *closePrice,
			Volume:   volume(i),
		})
	}
	if len(points) == 0 {
		return nil
	}
	series.Data = points
	return series
}
