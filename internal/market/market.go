package market

import (
	"errors"
	"math"
)

// Sentinel errors shared by every upstream client and service.
// ErrUnavailable covers transport failures, non-200 responses, upstream rate
// limiting and malformed payloads; callers map it to a 500-class response.
// ErrNotFound means the upstream answered but has no usable record; callers
// map it to 404.
var (
	ErrUnavailable = errors.New("upstream unavailable")
	ErrNotFound    = errors.New("not found")
)

// NA is the sentinel for full-detail fields that cannot be computed.
// It distinguishes "field not applicable" from "fetch failed".
const NA = "N/A"

// Round2 rounds monetary values to 2 decimal places. All prices, changes and
// percentages pass through here exactly once before leaving a service.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Round4 rounds per-share dividend amounts to 4 decimal places.
func Round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

// PercentChange computes change/previous*100, defined as 0 when previous is
// zero so a missing previous close can never produce NaN or Inf.
func PercentChange(change, previous float64) float64 {
	if previous == 0 {
		return 0
	}
	return change / previous * 100
}

// Stock is the canonical equity record. Basic records carry the first block
// only; full records additionally populate the pointer/any extension fields,
// which are omitted from JSON when nil.
type Stock struct {
	Symbol           string  `json:"symbol"`
	Name             string  `json:"name"`
	Price            float64 `json:"price"`
	Change           float64 `json:"change"`
	ChangePercent    float64 `json:"changePercent"`
	Volume           int64   `json:"volume"`
	MarketCap        int64   `json:"marketCap"`
	Market           string  `json:"market"`
	Currency         string  `json:"currency"`
	DayHigh          float64 `json:"dayHigh"`
	DayLow           float64 `json:"dayLow"`
	FiftyTwoWeekHigh float64 `json:"fiftyTwoWeekHigh"`
	FiftyTwoWeekLow  float64 `json:"fiftyTwoWeekLow"`

	// Full-detail extension. The any-typed fields hold either a rounded
	// number or the "N/A" sentinel.
	PreviousClose   *float64 `json:"previousClose,omitempty"`
	OpenPrice       *float64 `json:"openPrice,omitempty"`
	AvgVolume       *int64   `json:"avgVolume,omitempty"`
	PERatio         any      `json:"peRatio,omitempty"`
	EPS             any      `json:"eps,omitempty"`
	DividendYield   any      `json:"dividendYield,omitempty"`
	Beta            any      `json:"beta,omitempty"`
	Exchange        string   `json:"exchange,omitempty"`
	Sector          string   `json:"sector,omitempty"`
	Industry        string   `json:"industry,omitempty"`
	Website         *string  `json:"website,omitempty"`
	BusinessSummary *string  `json:"businessSummary,omitempty"`
}

// Crypto is the canonical cryptocurrency record. As with Stock, the pointer
// fields form the extension blocks: the listing extension is populated for
// market listings and full detail, the detail extension for full detail only.
type Crypto struct {
	ID            string  `json:"id"`
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"changePercent"`
	MarketCap     float64 `json:"marketCap"`
	Volume        float64 `json:"volume"`
	Image         string  `json:"image,omitempty"`
	Rank          int     `json:"rank,omitempty"`
	High24h       float64 `json:"high24h"`
	Low24h        float64 `json:"low24h"`

	// Listing extension (market listings and full detail).
	ChangePercent7d   *float64 `json:"changePercent7d,omitempty"`
	CirculatingSupply *float64 `json:"circulatingSupply,omitempty"`
	TotalSupply       *float64 `json:"totalSupply,omitempty"`
	ATH               *float64 `json:"ath,omitempty"`
	ATHChangePercent  *float64 `json:"athChangePercent,omitempty"`

	// Detail extension (full detail only).
	MaxSupply        *float64 `json:"maxSupply,omitempty"`
	ATHDate          string   `json:"athDate,omitempty"`
	ATL              *float64 `json:"atl,omitempty"`
	ATLChangePercent *float64 `json:"atlChangePercent,omitempty"`
	ATLDate          string   `json:"atlDate,omitempty"`
	ChangePercent30d *float64 `json:"changePercent30d,omitempty"`
	ChangePercent1y  *float64 `json:"changePercent1y,omitempty"`
	Description      *string  `json:"description,omitempty"`
	Homepage         string   `json:"homepage,omitempty"`
	GenesisDate      string   `json:"genesisDate,omitempty"`
	Categories       []string `json:"categories,omitempty"`
}

// LinePoint is one time-series sample in line-chart shape.
type LinePoint struct {
	Datetime string  `json:"datetime"`
	Price    float64 `json:"price"`
	Volume   int64   `json:"volume"`
}

// OHLCPoint is one time-series sample in candlestick shape. Price fields are
// pointers so a missing bar component serializes as null rather than a fake
// zero price. Volume is omitted entirely for sources that carry none.
type OHLCPoint struct {
	Datetime string   `json:"datetime"`
	Open     *float64 `json:"open,omitempty"`
	High     *float64 `json:"high,omitempty"`
	Low      *float64 `json:"low,omitempty"`
	Close    *float64 `json:"close,omitempty"`
	Volume   *int64   `json:"volume,omitempty"`
}

// SeriesMeta describes a normalized historical series.
type SeriesMeta struct {
	Symbol      string `json:"symbol,omitempty"`
	ID          string `json:"id,omitempty"`
	Period      string `json:"period,omitempty"`
	Days        string `json:"days,omitempty"`
	Interval    string `json:"interval,omitempty"`
	Currency    string `json:"currency"`
	OHLC        bool   `json:"ohlc"`
	LastUpdated string `json:"lastUpdated"`
}

// Series is a normalized historical series. Data is either []LinePoint or
// []OHLCPoint, selected once by the ohlc flag and never mixed. An empty
// upstream result yields a nil *Series (ErrNotFound), never an empty Data.
type Series struct {
	Data     any        `json:"data"`
	Metadata SeriesMeta `json:"metadata"`
}

// Quote is a point-in-time trading snapshot for an equity.
type Quote struct {
	Symbol            string   `json:"symbol"`
	Name              string   `json:"name"`
	Price             float64  `json:"price"`
	Change            float64  `json:"change"`
	ChangePercent     float64  `json:"changePercent"`
	PreviousClose     *float64 `json:"previousClose"`
	DayHigh           *float64 `json:"dayHigh"`
	DayLow            *float64 `json:"dayLow"`
	Volume            int64    `json:"volume"`
	AvgVolume         int64    `json:"avgVolume"`
	MarketCap         *int64   `json:"marketCap"`
	SharesOutstanding *int64   `json:"sharesOutstanding"`
	Currency          string   `json:"currency"`
	Exchange          string   `json:"exchange"`
	Timezone          string   `json:"timezone"`
	MarketState       string   `json:"marketState"`
	LastUpdated       string   `json:"lastUpdated"`
}

// Split is one historical stock split.
type Split struct {
	Date        string  `json:"date"`
	Ratio       string  `json:"ratio"`
	SplitFactor float64 `json:"splitFactor"`
}

// Dividend is one historical dividend payment.
type Dividend struct {
	Date    string  `json:"date"`
	Amount  float64 `json:"amount"`
	Year    int     `json:"year"`
	Quarter string  `json:"quarter"`
}

// DividendHistory is the dividend list plus its metadata envelope.
type DividendHistory struct {
	Dividends []Dividend `json:"dividends"`
	Metadata  struct {
		Currency string `json:"currency"`
		Symbol   string `json:"symbol"`
	} `json:"metadata"`
}

// Financials is one financial statement across reporting periods. Data maps
// snake_case line items to one value per period (nil for missing cells).
type Financials struct {
	Symbol    string              `json:"symbol"`
	Type      string              `json:"type"`
	Quarterly bool                `json:"quarterly"`
	Periods   []string            `json:"periods"`
	Data      map[string][]*int64 `json:"data"`
}

// InstitutionalHolder is one row of institutional ownership.
type InstitutionalHolder struct {
	Holder                string  `json:"holder"`
	Shares                int64   `json:"shares"`
	DateReportedTimestamp int64   `json:"dateReportedTimestamp"`
	PercentOut            any     `json:"percentOut"`
	Value                 int64   `json:"value"`
}

// Holders bundles institutional rows with the major-holders breakdown.
type Holders struct {
	Institutional []InstitutionalHolder `json:"institutional"`
	Major         map[string]any        `json:"major"`
}

// OptionContract is one call or put row in an options chain.
type OptionContract struct {
	ContractName           string  `json:"contractName"`
	LastTradeDateTimestamp int64   `json:"lastTradeDateTimestamp"`
	Strike                 float64 `json:"strike"`
	LastPrice              float64 `json:"lastPrice"`
	Bid                    float64 `json:"bid"`
	Ask                    float64 `json:"ask"`
	Change                 float64 `json:"change"`
	ChangePercent          float64 `json:"changePercent"`
	Volume                 int64   `json:"volume"`
	OpenInterest           int64   `json:"openInterest"`
	ImpliedVolatility      float64 `json:"impliedVolatility"`
}

// OptionsChain is the chain for one expiration plus the available dates.
type OptionsChain struct {
	AvailableExpirations []string         `json:"availableExpirations"`
	Calls                []OptionContract `json:"calls"`
	Puts                 []OptionContract `json:"puts"`
	Metadata             struct {
		Expiration string `json:"expiration"`
		Symbol     string `json:"symbol"`
		Currency   string `json:"currency"`
	} `json:"metadata"`
}

// NewsItem is one normalized news article.
type NewsItem struct {
	Title         string `json:"title"`
	Link          string `json:"link"`
	Published     int64  `json:"published"`
	Publisher     string `json:"publisher"`
	Summary       string `json:"summary"`
	Thumbnail     string `json:"thumbnail"`
	Category      string `json:"category,omitempty"`
	RelatedSymbol string `json:"relatedSymbol,omitempty"`
}

// Index is one market index snapshot.
type Index struct {
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"changePercent"`
	DayHigh       float64 `json:"dayHigh"`
	DayLow        float64 `json:"dayLow"`
	Volume        int64   `json:"volume"`
	Currency      string  `json:"currency"`
	Exchange      string  `json:"exchange"`
	MarketState   string  `json:"marketState"`
}

// MarketSummary counts index directions for a coarse sentiment readout.
type MarketSummary struct {
	TotalIndices     int    `json:"totalIndices"`
	MarketsUp        int    `json:"marketsUp"`
	MarketsDown      int    `json:"marketsDown"`
	MarketsUnchanged int    `json:"marketsUnchanged"`
	MarketSentiment  string `json:"marketSentiment"`
}

// Indices is the full market-indices response.
type Indices struct {
	Indices       map[string]Index `json:"indices"`
	LastUpdated   string           `json:"lastUpdated"`
	MarketSummary MarketSummary    `json:"marketSummary"`
}

// SearchResult is one crypto search hit.
type SearchResult struct {
	ID     string `json:"id"`
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
	Image  string `json:"image,omitempty"`
	Rank   int    `json:"rank,omitempty"`
}
