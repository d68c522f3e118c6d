package stocks

import (
	"context"
	"strings"
	"time"

	"marketdash/internal/market"
	"marketdash/internal/yahoo"
)

// Quote returns a point-in-time trading snapshot for one symbol.
func (s *Service) Quote(ctx context.Context, symbol string) (*market.Quote, error) {
	symbol = strings.ToUpper(symbol)
	qs, err := s.yahoo.QuoteSummary(ctx, symbol,
		yahoo.ModulePrice, yahoo.ModuleSummaryDetail, yahoo.ModuleKeyStatistics, yahoo.ModuleQuoteType)
	if err != nil {
		return nil, err
	}

	price := qs.Price
	if price == nil {
		return nil, market.ErrNotFound
	}
	current, ok := price.RegularMarketPrice.Float()
	if !ok || current == 0 {
		return nil, market.ErrNotFound
	}
	detail := qs.SummaryDetail
	if detail == nil {
		detail = &yahoo.SummaryDetailModule{}
	}

	var change, changePercent float64
	previous, hasPrevious := price.RegularMarketPreviousClose.Float()
	if !hasPrevious {
		previous, hasPrevious = detail.PreviousClose.Float()
	}
	if hasPrevious {
		change = current - previous
		changePercent = market.PercentChange(change, previous)
	}

	name := defaultString(price.LongName, defaultString(price.ShortName, symbol))
	timezone := "America/New_York"
	if qs.QuoteType != nil && qs.QuoteType.TimeZoneFullName != "" {
		timezone = qs.QuoteType.TimeZoneFullName
	}

	quote := &market.Quote{
		Symbol:        symbol,
		Name:          name,
		Price:         market.Round2(current),
		Change:        market.Round2(change),
		ChangePercent: market.Round2(changePercent),
		Volume:        price.RegularMarketVolume.Int64(),
		AvgVolume:     detail.AverageVolume.Int64(),
		Currency:      defaultString(price.Currency, "USD"),
		Exchange:      defaultString(strings.ToUpper(price.Exchange), market.NA),
		Timezone:      timezone,
		MarketState:   defaultString(price.MarketState, "UNKNOWN"),
		LastUpdated:   s.now().Format(time.RFC3339),
	}
	if hasPrevious {
		v := market.Round2(previous)
		quote.PreviousClose = &v
	}
	if high, ok := price.RegularMarketDayHigh.Float(); ok {
		v := market.Round2(high)
		quote.DayHigh = &v
	}
	if low, ok := price.RegularMarketDayLow.Float(); ok {
		v := market.Round2(low)
		quote.DayLow = &v
	}
	if mcap, ok := price.MarketCap.Float(); ok {
		v := int64(mcap)
		quote.MarketCap = &v
	}
	if qs.KeyStatistics != nil {
		if shares, ok := qs.KeyStatistics.SharesOutstanding.Float(); ok {
			v := int64(shares)
			quote.SharesOutstanding = &v
		}
	}
	return quote, nil
}
