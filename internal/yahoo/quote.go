package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"marketdash/internal/market"
)

// Module names accepted by QuoteSummary.
const (
	ModulePrice          = "price"
	ModuleSummaryDetail  = "summaryDetail"
	ModuleSummaryProfile = "summaryProfile"
	ModuleKeyStatistics  = "defaultKeyStatistics"
	ModuleFinancialData  = "financialData"
	ModuleQuoteType      = "quoteType"

	ModuleIncomeHistory            = "incomeStatementHistory"
	ModuleIncomeHistoryQuarterly   = "incomeStatementHistoryQuarterly"
	ModuleBalanceHistory           = "balanceSheetHistory"
	ModuleBalanceHistoryQuarterly  = "balanceSheetHistoryQuarterly"
	ModuleCashflowHistory          = "cashflowStatementHistory"
	ModuleCashflowHistoryQuarterly = "cashflowStatementHistoryQuarterly"
	ModuleInstitutionOwnership     = "institutionOwnership"
	ModuleMajorHoldersBreakdown    = "majorHoldersBreakdown"
)

// PriceModule carries the realtime quote block.
type PriceModule struct {
	Symbol                     string `json:"symbol"`
	ShortName                  string `json:"shortName"`
	LongName                   string `json:"longName"`
	Currency                   string `json:"currency"`
	ExchangeName               string `json:"exchangeName"`
	Exchange                   string `json:"exchange"`
	QuoteType                  string `json:"quoteType"`
	MarketState                string `json:"marketState"`
	RegularMarketPrice         *Value `json:"regularMarketPrice"`
	RegularMarketPreviousClose *Value `json:"regularMarketPreviousClose"`
	RegularMarketOpen          *Value `json:"regularMarketOpen"`
	RegularMarketDayHigh       *Value `json:"regularMarketDayHigh"`
	RegularMarketDayLow        *Value `json:"regularMarketDayLow"`
	RegularMarketVolume        *Value `json:"regularMarketVolume"`
	MarketCap                  *Value `json:"marketCap"`
	RegularMarketTime          int64  `json:"regularMarketTime"`
}

type SummaryDetailModule struct {
	PreviousClose        *Value `json:"previousClose"`
	Open                 *Value `json:"open"`
	DayHigh              *Value `json:"dayHigh"`
	DayLow               *Value `json:"dayLow"`
	Volume               *Value `json:"volume"`
	AverageVolume        *Value `json:"averageVolume"`
	MarketCap            *Value `json:"marketCap"`
	FiftyTwoWeekHigh     *Value `json:"fiftyTwoWeekHigh"`
	FiftyTwoWeekLow      *Value `json:"fiftyTwoWeekLow"`
	TrailingPE           *Value `json:"trailingPE"`
	ForwardPE            *Value `json:"forwardPE"`
	DividendYield        *Value `json:"dividendYield"`
	DividendRate         *Value `json:"dividendRate"`
	Beta                 *Value `json:"beta"`
	Bid                  *Value `json:"bid"`
	Ask                  *Value `json:"ask"`
	FiftyDayAverage      *Value `json:"fiftyDayAverage"`
	TwoHundredDayAverage *Value `json:"twoHundredDayAverage"`
}

type SummaryProfileModule struct {
	Sector              string `json:"sector"`
	Industry            string `json:"industry"`
	Website             string `json:"website"`
	Country             string `json:"country"`
	City                string `json:"city"`
	FullTimeEmployees   int64  `json:"fullTimeEmployees"`
	LongBusinessSummary string `json:"longBusinessSummary"`
}

type KeyStatisticsModule struct {
	TrailingEps       *Value `json:"trailingEps"`
	ForwardEps        *Value `json:"forwardEps"`
	SharesOutstanding *Value `json:"sharesOutstanding"`
	FloatShares       *Value `json:"floatShares"`
	BookValue         *Value `json:"bookValue"`
	PriceToBook       *Value `json:"priceToBook"`
	PegRatio          *Value `json:"pegRatio"`
	Beta              *Value `json:"beta"`
}

type FinancialDataModule struct {
	TotalRevenue      *Value `json:"totalRevenue"`
	RevenueGrowth     *Value `json:"revenueGrowth"`
	GrossMargins      *Value `json:"grossMargins"`
	ProfitMargins     *Value `json:"profitMargins"`
	ReturnOnEquity    *Value `json:"returnOnEquity"`
	TotalCash         *Value `json:"totalCash"`
	TotalDebt         *Value `json:"totalDebt"`
	FreeCashflow      *Value `json:"freeCashflow"`
	TargetMeanPrice   *Value `json:"targetMeanPrice"`
	RecommendationKey string `json:"recommendationKey"`
}

type QuoteTypeModule struct {
	Symbol           string `json:"symbol"`
	QuoteType        string `json:"quoteType"`
	Exchange         string `json:"exchange"`
	TimeZoneFullName string `json:"timeZoneFullName"`
	ShortName        string `json:"shortName"`
	LongName         string `json:"longName"`
}

// Statement is one financial statement period: field name to {raw, fmt}
// value. Kept raw because the set of line items varies per symbol.
type Statement map[string]json.RawMessage

// Value decodes one line item, reporting whether it was present and numeric.
func (s Statement) Value(field string) (*Value, bool) {
	raw, ok := s[field]
	if !ok {
		return nil, false
	}
	var v Value
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, false
	}
	return &v, true
}

type IncomeStatementHistory struct {
	Statements []Statement `json:"incomeStatementHistory"`
}

type BalanceSheetHistory struct {
	Statements []Statement `json:"balanceSheetStatements"`
}

type CashflowStatementHistory struct {
	Statements []Statement `json:"cashflowStatements"`
}

type InstitutionOwner struct {
	Organization string `json:"organization"`
	ReportDate   *Value `json:"reportDate"`
	PctHeld      *Value `json:"pctHeld"`
	Position     *Value `json:"position"`
	Value        *Value `json:"value"`
}

type InstitutionOwnershipModule struct {
	OwnershipList []InstitutionOwner `json:"ownershipList"`
}

type MajorHoldersModule struct {
	InsidersPercentHeld          *Value `json:"insidersPercentHeld"`
	InstitutionsPercentHeld      *Value `json:"institutionsPercentHeld"`
	InstitutionsFloatPercentHeld *Value `json:"institutionsFloatPercentHeld"`
	InstitutionsCount            *Value `json:"institutionsCount"`
}

// QuoteSummary is the decoded result of one quoteSummary call. Only the
// modules that were requested are non-nil.
type QuoteSummary struct {
	Price                *PriceModule                `json:"price"`
	SummaryDetail        *SummaryDetailModule        `json:"summaryDetail"`
	SummaryProfile       *SummaryProfileModule       `json:"summaryProfile"`
	KeyStatistics        *KeyStatisticsModule        `json:"defaultKeyStatistics"`
	FinancialData        *FinancialDataModule        `json:"financialData"`
	QuoteType            *QuoteTypeModule            `json:"quoteType"`
	IncomeHistory        *IncomeStatementHistory     `json:"incomeStatementHistory"`
	IncomeQuarterly      *IncomeStatementHistory     `json:"incomeStatementHistoryQuarterly"`
	BalanceHistory       *BalanceSheetHistory        `json:"balanceSheetHistory"`
	BalanceQuarterly     *BalanceSheetHistory        `json:"balanceSheetHistoryQuarterly"`
	CashflowHistory      *CashflowStatementHistory   `json:"cashflowStatementHistory"`
	CashflowQuarterly    *CashflowStatementHistory   `json:"cashflowStatementHistoryQuarterly"`
	InstitutionOwnership *InstitutionOwnershipModule `json:"institutionOwnership"`
	MajorHolders         *MajorHoldersModule         `json:"majorHoldersBreakdown"`
}

type quoteSummaryEnvelope struct {
	QuoteSummary struct {
		Result []*QuoteSummary `json:"result"`
		Error  *apiError       `json:"error"`
	} `json:"quoteSummary"`
}

// QuoteSummary fetches the requested modules for one symbol. An empty result
// set, or an upstream error block, means the symbol does not exist.
func (c *Client) QuoteSummary(ctx context.Context, symbol string, modules ...string) (*QuoteSummary, error) {
	params := url.Values{}
	params.Set("modules", strings.Join(modules, ","))

	var env quoteSummaryEnvelope
	endpoint := "/v10/finance/quoteSummary/" + url.PathEscape(symbol)
	if err := c.get(ctx, endpoint, params, &env); err != nil {
		return nil, err
	}
	if env.QuoteSummary.Error != nil {
		return nil, fmt.Errorf("%w: %s", market.ErrNotFound, env.QuoteSummary.Error.Description)
	}
	if len(env.QuoteSummary.Result) == 0 {
		return nil, market.ErrNotFound
	}
	return env.QuoteSummary.Result[0], nil
}
