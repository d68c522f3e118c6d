package crypto

import (
	"context"
	"strings"
	"time"

	"marketdash/internal/market"
)

// History returns a price/volume point series for one coin. The upstream
// sends prices and volumes as two parallel arrays paired by position, not by
// timestamp matching; a shorter volume array pads with zeroes. That pairing
// is the upstream contract and is preserved exactly.
func (s *Service) History(ctx context.Context, id, days, interval string) (*market.Series, error) {
	id = strings.ToLower(id)
	chart, err := s.client.MarketChart(ctx, id, days, interval)
	if err != nil {
		return nil, err
	}
	if len(chart.Prices) == 0 {
		return nil, market.ErrNotFound
	}

	points := make([]market.LinePoint, 0, len(chart.Prices))
	for i, pair := range chart.Prices {
		var volume int64
		if i < len(chart.TotalVolumes) {
			volume = int64(chart.TotalVolumes[i][1])
		}
		points = append(points, market.LinePoint{
			Datetime: msToISO(pair[0]),
			Price:    market.Round2(pair[1]),
			Volume:   volume,
		})
	}

	series := &market.Series{Data: points}
	series.Metadata.ID = id
	series.Metadata.Days = days
	series.Metadata.Interval = interval
	series.Metadata.Currency = "USD"
	series.Metadata.OHLC = false
	series.Metadata.LastUpdated = s.now().Format(time.RFC3339)
	return series, nil
}

// OHLC returns a candlestick series for one coin. The upstream OHLC endpoint
// carries no volume data and none is synthesized.
func (s *Service) OHLC(ctx context.Context, id, days string) (*market.Series, error) {
	id = strings.ToLower(id)
	rows, err := s.client.OHLC(ctx, id, days)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, market.ErrNotFound
	}

	points := make([]market.OHLCPoint, 0, len(rows))
	for _, row := range rows {
		open := market.Round2(row[1])
		high := market.Round2(row[2])
		low := market.Round2(row[3])
		closePrice := market.Round2(row[4])
		points = append(points, market.OHLCPoint{
			Datetime: msToISO(row[0]),
			Open:     &open,
			High:     &high,
			Low:      &low,
			Close:    &closePrice,
		})
	}

	series := &market.Series{Data: points}
	series.Metadata.ID = id
	series.Metadata.Days = days
	series.Metadata.Currency = "USD"
	series.Metadata.OHLC = true
	series.Metadata.LastUpdated = s.now().Format(time.RFC3339)
	return series, nil
}

// msToISO formats an upstream millisecond timestamp as ISO-8601 UTC.
func msToISO(ms float64) string {
	return time.UnixMilli(int64(ms)).UTC().Format(time.RFC3339)
}
