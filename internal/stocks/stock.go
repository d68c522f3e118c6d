package stocks

import (
	"context"
	"strings"

	"marketdash/internal/market"
	"marketdash/internal/yahoo"
)

// Exchange-code membership tables for market classification. Anything not
// listed is classified OTHER.
var (
	usExchanges = map[string]struct{}{
		"NYQ": {}, "NAS": {}, "NMS": {}, "ASE": {}, "PCX": {}, "BATS": {}, "ARCX": {},
	}
	euExchanges = map[string]struct{}{
		"AMS": {}, "XETRA": {}, "FRA": {}, "PAR": {}, "LSE": {}, "SWX": {},
		"VIE": {}, "MIL": {}, "BRU": {}, "STO": {}, "CPH": {}, "HEL": {}, "MCE": {},
	}
)

// classifyMarket maps an exchange code to a market bucket and the currency to
// report: US always trades in USD, EU and OTHER keep the upstream currency
// with EUR and USD defaults respectively.
func classifyMarket(exchange, upstreamCurrency string) (string, string) {
	if _, ok := usExchanges[exchange]; ok {
		return "US", "USD"
	}
	if _, ok := euExchanges[exchange]; ok {
		return "EU", defaultString(upstreamCurrency, "EUR")
	}
	return "OTHER", defaultString(upstreamCurrency, "USD")
}

func defaultString(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// Stock fetches and normalizes one equity record. full selects the detail
// record; the basic record is a fixed listing subset. A symbol without a
// current price is not found, every other missing field degrades to a
// default or the "N/A" sentinel.
func (s *Service) Stock(ctx context.Context, symbol string, full bool) (*market.Stock, error) {
	symbol = strings.ToUpper(symbol)
	modules := []string{yahoo.ModulePrice, yahoo.ModuleSummaryDetail}
	if full {
		modules = append(modules, yahoo.ModuleSummaryProfile, yahoo.ModuleKeyStatistics)
	}

	qs, err := s.yahoo.QuoteSummary(ctx, symbol, modules...)
	if err != nil {
		return nil, err
	}
	return normalizeStock(qs, symbol, full)
}

func normalizeStock(qs *yahoo.QuoteSummary, symbol string, full bool) (*market.Stock, error) {
	price := qs.Price
	detail := qs.SummaryDetail
	if detail == nil {
		detail = &yahoo.SummaryDetailModule{}
	}
	if price == nil {
		return nil, market.ErrNotFound
	}
	current, ok := price.RegularMarketPrice.Float()
	if !ok || current == 0 {
		return nil, market.ErrNotFound
	}

	exchange := strings.ToUpper(price.Exchange)
	marketBucket, currency := classifyMarket(exchange, price.Currency)

	previous := current
	if v, ok := price.RegularMarketPreviousClose.Float(); ok {
		previous = v
	} else if v, ok := detail.PreviousClose.Float(); ok {
		previous = v
	}
	change := current - previous

	volume := price.RegularMarketVolume.Int64()
	if volume == 0 {
		volume = detail.Volume.Int64()
	}
	marketCap := price.MarketCap.Int64()
	if marketCap == 0 {
		marketCap = detail.MarketCap.Int64()
	}

	stock := &market.Stock{
		Symbol:           symbol,
		Name:             defaultString(price.LongName, symbol),
		Price:            market.Round2(current),
		Change:           market.Round2(change),
		ChangePercent:    market.Round2(market.PercentChange(change, previous)),
		Volume:           volume,
		MarketCap:        marketCap,
		Market:           marketBucket,
		Currency:         currency,
		DayHigh:          market.Round2(price.RegularMarketDayHigh.Or(detail.DayHigh.Or(0))),
		DayLow:           market.Round2(price.RegularMarketDayLow.Or(detail.DayLow.Or(0))),
		FiftyTwoWeekHigh: market.Round2(detail.FiftyTwoWeekHigh.Or(0)),
		FiftyTwoWeekLow:  market.Round2(detail.FiftyTwoWeekLow.Or(0)),
	}
	if !full {
		return stock, nil
	}

	prev := market.Round2(previous)
	open := market.Round2(price.RegularMarketOpen.Or(detail.Open.Or(0)))
	avgVolume := detail.AverageVolume.Int64()
	stock.PreviousClose = &prev
	stock.OpenPrice = &open
	stock.AvgVolume = &avgVolume
	stock.PERatio = naOrRound2(detail.TrailingPE, 1)
	stock.DividendYield = naOrRound2(detail.DividendYield, 100)
	stock.Exchange = exchange

	keyStats := qs.KeyStatistics
	if keyStats == nil {
		keyStats = &yahoo.KeyStatisticsModule{}
	}
	stock.EPS = naOrRound2(keyStats.TrailingEps, 1)
	beta := detail.Beta
	if beta == nil {
		beta = keyStats.Beta
	}
	stock.Beta = naOrRound2(beta, 1)

	profile := qs.SummaryProfile
	if profile == nil {
		profile = &yahoo.SummaryProfileModule{}
	}
	stock.Sector = defaultString(profile.Sector, market.NA)
	stock.Industry = defaultString(profile.Industry, market.NA)
	stock.Website = &profile.Website
	stock.BusinessSummary = &profile.LongBusinessSummary

	return stock, nil
}

// naOrRound2 maps an optional ratio field to a rounded number, scaled by
// factor, or to the "N/A" sentinel. A raw zero counts as absent: Yahoo emits
// zeros for ratios it cannot compute.
func naOrRound2(v *yahoo.Value, factor float64) any {
	f, ok := v.Float()
	if !ok || f == 0 {
		return market.NA
	}
	return market.Round2(f * factor)
}
