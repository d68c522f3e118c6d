package stocks

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"marketdash/internal/config"
	"marketdash/internal/httpx"
	"marketdash/internal/market"
	"marketdash/internal/marketcap"
	"marketdash/internal/yahoo"
)

func val(f float64) *yahoo.Value {
	return &yahoo.Value{Raw: f}
}

func quoteSummaryFixture(price, previous float64, exchange string) *yahoo.QuoteSummary {
	return &yahoo.QuoteSummary{
		Price: &yahoo.PriceModule{
			Symbol:                     "TEST",
			LongName:                   "Test Corp",
			Currency:                   "USD",
			Exchange:                   exchange,
			RegularMarketPrice:         val(price),
			RegularMarketPreviousClose: val(previous),
			RegularMarketVolume:        val(1_000_000),
			MarketCap:                  val(2_000_000_000),
		},
		SummaryDetail: &yahoo.SummaryDetailModule{
			FiftyTwoWeekHigh: val(120),
			FiftyTwoWeekLow:  val(80),
		},
	}
}

func TestNormalizeStock_ChangeAndPercent(t *testing.T) {
	t.Parallel()

	// Arrange: previous close 100, current price 110
	qs := quoteSummaryFixture(110, 100, "NMS")

	// Act
	stock, err := normalizeStock(qs, "TEST", false)
	require.NoError(t, err)

	// Assert
	require.InEpsilon(t, 110.0, stock.Price, 0.0001)
	require.InEpsilon(t, 10.0, stock.Change, 0.0001)
	require.InEpsilon(t, 10.0, stock.ChangePercent, 0.0001)
	require.Equal(t, "US", stock.Market)
	require.Equal(t, "USD", stock.Currency)
	require.Equal(t, int64(1_000_000), stock.Volume)
}

func TestNormalizeStock_ZeroPreviousCloseGuard(t *testing.T) {
	t.Parallel()

	qs := quoteSummaryFixture(110, 0, "NMS")

	stock, err := normalizeStock(qs, "TEST", false)
	require.NoError(t, err)

	// A zero previous close must never produce NaN or Inf.
	require.InEpsilon(t, 110.0, stock.Change, 0.0001)
	require.Equal(t, 0.0, stock.ChangePercent)
}

func TestNormalizeStock_NoPriceIsNotFound(t *testing.T) {
	t.Parallel()

	qs := &yahoo.QuoteSummary{Price: &yahoo.PriceModule{Symbol: "TEST"}}

	stock, err := normalizeStock(qs, "TEST", false)
	require.Nil(t, stock)
	require.True(t, errors.Is(err, market.ErrNotFound))
}

func TestNormalizeStock_MarketClassification(t *testing.T) {
	t.Parallel()

	cases := []struct {
		exchange string
		currency string
		market   string
		want     string
	}{
		{"NMS", "USD", "US", "USD"},
		{"NYQ", "EUR", "US", "USD"}, // US is always USD
		{"PAR", "", "EU", "EUR"},
		{"PAR", "EUR", "EU", "EUR"},
		{"JPX", "JPY", "OTHER", "JPY"},
		{"JPX", "", "OTHER", "USD"},
	}
	for _, tc := range cases {
		m, c := classifyMarket(tc.exchange, tc.currency)
		require.Equal(t, tc.market, m, "exchange %s", tc.exchange)
		require.Equal(t, tc.want, c, "exchange %s", tc.exchange)
	}
}

func TestNormalizeStock_FullExtensionDegradesToNA(t *testing.T) {
	t.Parallel()

	// Arrange: no ratios, no profile at all
	qs := quoteSummaryFixture(110, 100, "NMS")

	// Act
	stock, err := normalizeStock(qs, "TEST", true)
	require.NoError(t, err)

	// Assert: missing extension fields degrade, the record still returns
	require.Equal(t, market.NA, stock.PERatio)
	require.Equal(t, market.NA, stock.EPS)
	require.Equal(t, market.NA, stock.DividendYield)
	require.Equal(t, market.NA, stock.Beta)
	require.Equal(t, market.NA, stock.Sector)
	require.NotNil(t, stock.PreviousClose)
	require.InEpsilon(t, 100.0, *stock.PreviousClose, 0.0001)
}

func TestNormalizeStock_FullRatios(t *testing.T) {
	t.Parallel()

	qs := quoteSummaryFixture(110, 100, "NMS")
	qs.SummaryDetail.TrailingPE = val(34.6789)
	qs.SummaryDetail.DividendYield = val(0.0043)
	qs.KeyStatistics = &yahoo.KeyStatisticsModule{TrailingEps: val(6.412)}
	qs.SummaryProfile = &yahoo.SummaryProfileModule{Sector: "Technology"}

	stock, err := normalizeStock(qs, "TEST", true)
	require.NoError(t, err)

	require.Equal(t, 34.68, stock.PERatio)
	require.Equal(t, 0.43, stock.DividendYield) // fraction scaled to percent
	require.Equal(t, 6.41, stock.EPS)
	require.Equal(t, "Technology", stock.Sector)
}

func TestNormalizeStock_BasicHasNoExtension(t *testing.T) {
	t.Parallel()

	qs := quoteSummaryFixture(110, 100, "NMS")
	qs.SummaryDetail.TrailingPE = val(30)

	stock, err := normalizeStock(qs, "TEST", false)
	require.NoError(t, err)

	require.Nil(t, stock.PreviousClose)
	require.Nil(t, stock.PERatio)
	require.Empty(t, stock.Sector)
}

func chartFixture(timestamps []int64, closes []*float64, volumes []*int64) *yahoo.ChartResult {
	res := &yahoo.ChartResult{Timestamp: timestamps}
	res.Meta.Currency = "USD"
	res.Indicators.Quote = []yahoo.ChartQuote{{
		Open:   closes,
		High:   closes,
		Low:    closes,
		Close:  closes,
		Volume: volumes,
	}}
	return res
}

func fp(f float64) *float64 { return &f }
func ip(i int64) *int64     { return &i }

func TestNormalizeHistory_LineShape(t *testing.T) {
	t.Parallel()

	// Arrange: middle bar has no close and no volume
	res := chartFixture(
		[]int64{1717200000, 1717286400, 1717372800},
		[]*float64{fp(194.031), nil, fp(196.8999)},
		[]*int64{ip(100), nil, ip(300)},
	)

	// Act
	series := normalizeHistory(res, false, time.UTC)
	require.NotNil(t, series)

	// Assert: nil-close bars are dropped in line shape, volume defaults to 0
	points := series.Data.([]market.LinePoint)
	require.Len(t, points, 2)
	require.InEpsilon(t, 194.03, points[0].Price, 0.0001)
	require.InEpsilon(t, 196.9, points[1].Price, 0.0001)
	require.Equal(t, int64(100), points[0].Volume)
	require.False(t, series.Metadata.OHLC)
}

func TestNormalizeHistory_OHLCKeepsNulls(t *testing.T) {
	t.Parallel()

	res := chartFixture(
		[]int64{1717200000, 1717286400},
		[]*float64{fp(194.03), nil},
		[]*int64{ip(100), nil},
	)

	series := normalizeHistory(res, true, time.UTC)
	require.NotNil(t, series)

	// A gap stays null; it is never zero-filled or dropped.
	points := series.Data.([]market.OHLCPoint)
	require.Len(t, points, 2)
	require.NotNil(t, points[0].Close)
	require.Nil(t, points[1].Close)
	require.Equal(t, int64(0), *points[1].Volume)
	require.True(t, series.Metadata.OHLC)
}

func TestNormalizeHistory_EmptyIsNil(t *testing.T) {
	t.Parallel()

	require.Nil(t, normalizeHistory(chartFixture(nil, nil, nil), false, time.UTC))
	require.Nil(t, normalizeHistory(nil, false, time.UTC))
}

func TestSelectExpiration(t *testing.T) {
	t.Parallel()

	day := int64(86400)
	base := time.Date(2025, 9, 5, 0, 0, 0, 0, time.UTC).Unix()
	available := []int64{base, base + 7*day, base + 14*day}

	// Exact match
	require.Equal(t, base+7*day, selectExpiration(available, "2025-09-12"))
	// Closest available
	require.Equal(t, base+7*day, selectExpiration(available, "2025-09-11"))
	// Equidistant: first-encountered wins
	require.Equal(t, base, selectExpiration(available, "2025-09-08"))
	require.Equal(t, base, selectExpiration(available, ""))
	require.Equal(t, base, selectExpiration(available, "not-a-date"))
}

func TestSplitRatio(t *testing.T) {
	t.Parallel()

	require.Equal(t, "4:1", splitRatio(4))
	require.Equal(t, "20:1", splitRatio(20))
	require.Equal(t, "1:10", splitRatio(0.1))
}

func TestSnakeCase(t *testing.T) {
	t.Parallel()

	require.Equal(t, "total_revenue", snakeCase("totalRevenue"))
	require.Equal(t, "net_income", snakeCase("netIncome"))
	require.Equal(t, "ebit", snakeCase("ebit"))
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	indices := map[string]market.Index{
		"a": {Change: 1.2},
		"b": {Change: -0.5},
		"c": {Change: 2.1},
		"d": {Change: 0},
	}
	summary := summarize(indices)
	require.Equal(t, 4, summary.TotalIndices)
	require.Equal(t, 2, summary.MarketsUp)
	require.Equal(t, 1, summary.MarketsDown)
	require.Equal(t, 1, summary.MarketsUnchanged)
	require.Equal(t, "bullish", summary.MarketSentiment)
}

func TestNormalizeArticle_PicksSmallestThumbnail(t *testing.T) {
	t.Parallel()

	// Resolutions arrive in no particular order; the narrowest wins.
	article := yahoo.NewsArticle{
		Title:     "Markets rally",
		Link:      "https://news.example/1",
		Publisher: "Newswire",
		Thumbnail: &yahoo.Thumbnail{Resolutions: []yahoo.ThumbnailImage{
			{URL: "https://img.example/large.png", Width: 1280, Height: 720},
			{URL: "https://img.example/small.png", Width: 140, Height: 140},
			{URL: "https://img.example/medium.png", Width: 640, Height: 360},
		}},
	}

	item := normalizeArticle(article)
	require.Equal(t, "https://img.example/small.png", item.Thumbnail)
}

// newFixtureService wires a Service against one httptest server that plays
// both the ranking page and the Yahoo API.
func newFixtureService(t *testing.T, handler http.HandlerFunc) *Service {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	hc := httpx.New(5 * time.Second)

	cfg := config.Default().Stocks
	cfg.MarketCapURL = srv.URL
	cfg.FallbackSymbols = nil
	scraper := marketcap.New(marketcap.Config{URL: srv.URL}, hc, logger)
	yc := yahoo.New(yahoo.Config{BaseURL: srv.URL}, hc, logger)
	return New(cfg, yc, scraper, logger)
}

func TestPopular_KeepsFailedRows(t *testing.T) {
	t.Parallel()

	// Arrange: ranking page lists two symbols; only GOOD has quote data
	rankingPage := `<html><body>
		<div class="company-code">GOOD</div>
		<div class="company-code">BAD</div>
	</body></html>`
	goodQuote := `{"quoteSummary":{"result":[{
		"price":{"symbol":"GOOD","longName":"Good Corp","currency":"USD","exchange":"NMS",
			"regularMarketPrice":{"raw":50},"regularMarketPreviousClose":{"raw":40}},
		"summaryDetail":{}
	}],"error":null}}`

	svc := newFixtureService(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.Contains(r.URL.Path, "/quoteSummary/GOOD"):
			w.Write([]byte(goodQuote))
		case strings.Contains(r.URL.Path, "/quoteSummary/BAD"):
			w.WriteHeader(http.StatusNotFound)
		default:
			w.Write([]byte(rankingPage))
		}
	})

	// Act
	rows, err := svc.Popular(context.Background(), 2)
	require.NoError(t, err)

	// Assert: the failed symbol keeps its rank position as an error row
	require.Len(t, rows, 2)
	require.NotNil(t, rows[0].Stock)
	require.Equal(t, "GOOD", rows[0].Stock.Symbol)
	require.InEpsilon(t, 25.0, rows[0].Stock.ChangePercent, 0.0001)
	require.Nil(t, rows[1].Stock)
	require.Contains(t, rows[1].Err, "BAD")
}

func TestPopularList_SkipsFailedRows(t *testing.T) {
	t.Parallel()

	rankingPage := `<html><body>
		<div class="company-code">GOOD</div>
		<div class="company-code">BAD</div>
	</body></html>`
	goodQuote := `{"quoteSummary":{"result":[{
		"price":{"symbol":"GOOD","longName":"Good Corp","currency":"USD","exchange":"NMS",
			"regularMarketPrice":{"raw":50}},
		"summaryDetail":{}
	}],"error":null}}`

	svc := newFixtureService(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.Contains(r.URL.Path, "/quoteSummary/GOOD"):
			w.Write([]byte(goodQuote))
		case strings.Contains(r.URL.Path, "/quoteSummary/BAD"):
			w.WriteHeader(http.StatusNotFound)
		default:
			w.Write([]byte(rankingPage))
		}
	})

	entries, err := svc.PopularList(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "GOOD", entries[0].Symbol)
	require.Equal(t, "Good Corp", entries[0].Name)
	require.InEpsilon(t, 50.0, entries[0].Price, 0.0001)
}
