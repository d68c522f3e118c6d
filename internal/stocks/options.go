package stocks

import (
	"context"
	"fmt"
	"strings"
	"time"

	"marketdash/internal/market"
	"marketdash/internal/yahoo"
)

// Options returns the options chain for one expiration. When the requested
// expiration is not listed, the closest available date is selected; ties go
// to the first-encountered date. This is a best-effort heuristic, not a
// guaranteed contract. No expiration at all means the chain is not found.
func (s *Service) Options(ctx context.Context, symbol, expiration string) (*market.OptionsChain, error) {
	symbol = strings.ToUpper(symbol)
	chain, err := s.yahoo.Options(ctx, symbol, 0)
	if err != nil {
		return nil, err
	}
	if len(chain.ExpirationDates) == 0 || len(chain.Options) == 0 {
		return nil, market.ErrNotFound
	}

	selected := selectExpiration(chain.ExpirationDates, expiration)
	if selected != chain.Options[0].ExpirationDate {
		chain, err = s.yahoo.Options(ctx, symbol, selected)
		if err != nil {
			return nil, err
		}
		if len(chain.Options) == 0 {
			return nil, market.ErrNotFound
		}
	}

	out := &market.OptionsChain{
		AvailableExpirations: make([]string, len(chain.ExpirationDates)),
		Calls:                normalizeContracts(chain.Options[0].Calls),
		Puts:                 normalizeContracts(chain.Options[0].Puts),
	}
	for i, date := range chain.ExpirationDates {
		out.AvailableExpirations[i] = expirationString(date)
	}
	out.Metadata.Expiration = expirationString(selected)
	out.Metadata.Symbol = symbol
	out.Metadata.Currency = chainCurrency(chain)
	return out, nil
}

// selectExpiration picks the requested date when available, otherwise the
// listed date closest to it. Unparseable input falls back to the nearest
// expiration.
func selectExpiration(available []int64, requested string) int64 {
	if requested == "" {
		return available[0]
	}
	target, err := time.Parse("2006-01-02", requested)
	if err != nil {
		return available[0]
	}

	best := available[0]
	bestDistance := time.Duration(1<<63 - 1)
	for _, date := range available {
		distance := time.Unix(date, 0).UTC().Sub(target)
		if distance < 0 {
			distance = -distance
		}
		if distance < bestDistance {
			best = date
			bestDistance = distance
		}
	}
	return best
}

func expirationString(date int64) string {
	return time.Unix(date, 0).UTC().Format("2006-01-02")
}

func normalizeContracts(rows []yahoo.OptionRow) []market.OptionContract {
	contracts := make([]market.OptionContract, 0, len(rows))
	for _, row := range rows {
		lastPrice := market.Round2(row.LastPrice)
		change := market.Round2(row.Change)

		// changePercent is recomputed from the previous price so that a zero
		// previous price yields 0, never Inf.
		var changePercent float64
		if previous := row.LastPrice - row.Change; previous != 0 {
			changePercent = market.Round2(row.Change / previous * 100)
		}

		contract := market.OptionContract{
			ContractName:           contractName(row),
			LastTradeDateTimestamp: row.LastTradeDate,
			Strike:                 row.Strike,
			LastPrice:              lastPrice,
			Change:                 change,
			ChangePercent:          changePercent,
		}
		if row.Bid != nil {
			contract.Bid = market.Round2(*row.Bid)
		}
		if row.Ask != nil {
			contract.Ask = market.Round2(*row.Ask)
		}
		if row.Volume != nil {
			contract.Volume = *row.Volume
		}
		if row.OpenInterest != nil {
			contract.OpenInterest = *row.OpenInterest
		}
		if row.ImpliedVolatility != nil {
			contract.ImpliedVolatility = market.Round2(*row.ImpliedVolatility * 100)
		}
		contracts = append(contracts, contract)
	}
	return contracts
}

func contractName(row yahoo.OptionRow) string {
	if row.ContractSymbol != "" {
		return row.ContractSymbol
	}
	return fmt.Sprintf("%s%08d", expirationString(row.Expiration), int(row.Strike))
}

func chainCurrency(chain *yahoo.OptionChain) string {
	for _, exp := range chain.Options {
		for _, row := range exp.Calls {
			if row.Currency != "" {
				return row.Currency
			}
		}
		for _, row := range exp.Puts {
			if row.Currency != "" {
				return row.Currency
			}
		}
	}
	return "USD"
}
