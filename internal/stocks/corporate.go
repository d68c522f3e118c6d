package stocks

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"marketdash/internal/market"
	"marketdash/internal/yahoo"
)

// Splits returns the split history, newest first. Ratios render as "4:1" for
// forward splits and "1:10" for reverse splits.
func (s *Service) Splits(ctx context.Context, symbol string) ([]market.Split, error) {
	symbol = strings.ToUpper(symbol)
	res, err := s.yahoo.Chart(ctx, symbol, yahoo.ChartParams{
		Range:    "max",
		Interval: "1mo",
		Events:   true,
	})
	if err != nil {
		return nil, err
	}

	splits := make([]market.Split, 0)
	if res.Events != nil {
		for _, ev := range res.Events.Splits {
			if ev.Denominator == 0 {
				continue
			}
			factor := ev.Numerator / ev.Denominator
			splits = append(splits, market.Split{
				Date:        time.Unix(ev.Date, 0).UTC().Format("2006-01-02"),
				Ratio:       splitRatio(factor),
				SplitFactor: factor,
			})
		}
	}
	sort.Slice(splits, func(i, j int) bool { return splits[i].Date > splits[j].Date })
	return splits, nil
}

func splitRatio(factor float64) string {
	if factor > 1 {
		return fmt.Sprintf("%d:1", int(factor))
	}
	return fmt.Sprintf("1:%d", int(1/factor))
}

// Dividends returns the dividend history within the named window (1y, 3y,
// 5y or max), newest first, amounts rounded to 4 decimals.
func (s *Service) Dividends(ctx context.Context, symbol, period string) (*market.DividendHistory, error) {
	symbol = strings.ToUpper(symbol)
	res, err := s.yahoo.Chart(ctx, symbol, yahoo.ChartParams{
		Range:    "max",
		Interval: "1mo",
		Events:   true,
	})
	if err != nil {
		return nil, err
	}

	var cutoff time.Time
	switch period {
	case "max":
		// no cutoff
	case "3y":
		cutoff = s.now().AddDate(-3, 0, 0)
	case "5y":
		cutoff = s.now().AddDate(-5, 0, 0)
	default:
		cutoff = s.now().AddDate(-1, 0, 0)
	}

	dividends := make([]market.Dividend, 0)
	if res.Events != nil {
		for _, ev := range res.Events.Dividends {
			paid := time.Unix(ev.Date, 0).UTC()
			if !cutoff.IsZero() && paid.Before(cutoff) {
				continue
			}
			dividends = append(dividends, market.Dividend{
				Date:    paid.Format("2006-01-02"),
				Amount:  market.Round4(ev.Amount),
				Year:    paid.Year(),
				Quarter: fmt.Sprintf("Q%d", (int(paid.Month())-1)/3+1),
			})
		}
	}
	sort.Slice(dividends, func(i, j int) bool { return dividends[i].Date > dividends[j].Date })

	history := &market.DividendHistory{Dividends: dividends}
	history.Metadata.Currency = defaultString(res.Meta.Currency, "USD")
	history.Metadata.Symbol = symbol
	return history, nil
}
