package stocks

import (
	"context"
	"sort"
	"strings"
	"unicode"

	"marketdash/internal/market"
	"marketdash/internal/yahoo"
)

// statementModule picks the quoteSummary module for a statement type.
func statementModule(statementType string, quarterly bool) string {
	switch statementType {
	case "balance":
		if quarterly {
			return yahoo.ModuleBalanceHistoryQuarterly
		}
		return yahoo.ModuleBalanceHistory
	case "cashflow":
		if quarterly {
			return yahoo.ModuleCashflowHistoryQuarterly
		}
		return yahoo.ModuleCashflowHistory
	default:
		if quarterly {
			return yahoo.ModuleIncomeHistoryQuarterly
		}
		return yahoo.ModuleIncomeHistory
	}
}

// Financials returns one financial statement across reporting periods.
// Line items are keyed snake_case; each key maps to one value per period
// with nil for cells the upstream does not report.
func (s *Service) Financials(ctx context.Context, symbol, statementType string, quarterly bool) (*market.Financials, error) {
	symbol = strings.ToUpper(symbol)
	qs, err := s.yahoo.QuoteSummary(ctx, symbol, statementModule(statementType, quarterly))
	if err != nil {
		return nil, err
	}

	var statements []yahoo.Statement
	switch statementType {
	case "balance":
		if quarterly && qs.BalanceQuarterly != nil {
			statements = qs.BalanceQuarterly.Statements
		} else if qs.BalanceHistory != nil {
			statements = qs.BalanceHistory.Statements
		}
	case "cashflow":
		if quarterly && qs.CashflowQuarterly != nil {
			statements = qs.CashflowQuarterly.Statements
		} else if qs.CashflowHistory != nil {
			statements = qs.CashflowHistory.Statements
		}
	default:
		statementType = "income"
		if quarterly && qs.IncomeQuarterly != nil {
			statements = qs.IncomeQuarterly.Statements
		} else if qs.IncomeHistory != nil {
			statements = qs.IncomeHistory.Statements
		}
	}
	if len(statements) == 0 {
		return nil, market.ErrNotFound
	}

	result := &market.Financials{
		Symbol:    symbol,
		Type:      statementType,
		Quarterly: quarterly,
		Periods:   make([]string, len(statements)),
		Data:      make(map[string][]*int64),
	}

	keys := make(map[string]struct{})
	for i, stmt := range statements {
		if end, ok := stmt.Value("endDate"); ok {
			result.Periods[i] = end.Fmt
		}
		for field := range stmt {
			if field == "endDate" || field == "maxAge" {
				continue
			}
			keys[field] = struct{}{}
		}
	}

	ordered := make([]string, 0, len(keys))
	for field := range keys {
		ordered = append(ordered, field)
	}
	sort.Strings(ordered)

	for _, field := range ordered {
		values := make([]*int64, len(statements))
		for i, stmt := range statements {
			if v, ok := stmt.Value(field); ok {
				n := v.Int64()
				values[i] = &n
			}
		}
		result.Data[snakeCase(field)] = values
	}
	return result, nil
}

// snakeCase converts a camelCase field name like totalRevenue to
// total_revenue.
func snakeCase(field string) string {
	var b strings.Builder
	for i, r := range field {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Holders returns institutional ownership rows plus the major-holders
// breakdown.
func (s *Service) Holders(ctx context.Context, symbol string) (*market.Holders, error) {
	symbol = strings.ToUpper(symbol)
	qs, err := s.yahoo.QuoteSummary(ctx, symbol,
		yahoo.ModuleInstitutionOwnership, yahoo.ModuleMajorHoldersBreakdown)
	if err != nil {
		return nil, err
	}

	holders := &market.Holders{
		Institutional: make([]market.InstitutionalHolder, 0),
		Major:         make(map[string]any),
	}
	if qs.InstitutionOwnership != nil {
		for _, owner := range qs.InstitutionOwnership.OwnershipList {
			row := market.InstitutionalHolder{
				Holder:                defaultString(owner.Organization, "Unknown"),
				Shares:                owner.Position.Int64(),
				DateReportedTimestamp: owner.ReportDate.Int64(),
				PercentOut:            naOrRound2(owner.PctHeld, 100),
				Value:                 owner.Value.Int64(),
			}
			holders.Institutional = append(holders.Institutional, row)
		}
	}
	if major := qs.MajorHolders; major != nil {
		if v, ok := major.InsidersPercentHeld.Float(); ok {
			holders.Major["insiders_percent_held"] = market.Round2(v * 100)
		}
		if v, ok := major.InstitutionsPercentHeld.Float(); ok {
			holders.Major["institutions_percent_held"] = market.Round2(v * 100)
		}
		if v, ok := major.InstitutionsFloatPercentHeld.Float(); ok {
			holders.Major["institutions_float_percent_held"] = market.Round2(v * 100)
		}
		if v, ok := major.InstitutionsCount.Float(); ok {
			holders.Major["institutions_count"] = int64(v)
		}
	}
	if len(holders.Institutional) == 0 && len(holders.Major) == 0 {
		return nil, market.ErrNotFound
	}
	return holders, nil
}
