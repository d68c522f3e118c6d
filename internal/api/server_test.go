package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"marketdash/internal/config"
	"marketdash/internal/market"
	"marketdash/internal/stocks"
)

// fakeStocks implements StockService with per-method function fields; a nil
// field reports not found.
type fakeStocks struct {
	popularSymbols func(ctx context.Context, n int) ([]string, error)
	popular        func(ctx context.Context, n int) ([]stocks.PopularRow, error)
	popularList    func(ctx context.Context, n int) ([]stocks.ListEntry, error)
	stock          func(ctx context.Context, symbol string, full bool) (*market.Stock, error)
	history        func(ctx context.Context, symbol string, opts stocks.HistoryOptions) (*market.Series, error)
	quote          func(ctx context.Context, symbol string) (*market.Quote, error)
	splits         func(ctx context.Context, symbol string) ([]market.Split, error)
	dividends      func(ctx context.Context, symbol, period string) (*market.DividendHistory, error)
	financials     func(ctx context.Context, symbol, statementType string, quarterly bool) (*market.Financials, error)
	holders        func(ctx context.Context, symbol string) (*market.Holders, error)
	options        func(ctx context.Context, symbol, expiration string) (*market.OptionsChain, error)
	news           func(ctx context.Context, symbol string, limit int) ([]market.NewsItem, error)
	marketNews     func(ctx context.Context, limit int) ([]market.NewsItem, error)
	indices        func(ctx context.Context) (*market.Indices, error)
}

func (f *fakeStocks) PopularSymbols(ctx context.Context, n int) ([]string, error) {
	if f.popularSymbols == nil {
		return nil, market.ErrNotFound
	}
	return f.popularSymbols(ctx, n)
}

func (f *fakeStocks) Popular(ctx context.Context, n int) ([]stocks.PopularRow, error) {
	if f.popular == nil {
		return nil, market.ErrNotFound
	}
	return f.popular(ctx, n)
}

func (f *fakeStocks) PopularList(ctx context.Context, n int) ([]stocks.ListEntry, error) {
	if f.popularList == nil {
		return nil, market.ErrNotFound
	}
	return f.popularList(ctx, n)
}

func (f *fakeStocks) Stock(ctx context.Context, symbol string, full bool) (*market.Stock, error) {
	if f.stock == nil {
		return nil, market.ErrNotFound
	}
	return f.stock(ctx, symbol, full)
}

func (f *fakeStocks) History(ctx context.Context, symbol string, opts stocks.HistoryOptions) (*market.Series, error) {
	if f.history == nil {
		return nil, market.ErrNotFound
	}
	return f.history(ctx, symbol, opts)
}

func (f *fakeStocks) Quote(ctx context.Context, symbol string) (*market.Quote, error) {
	if f.quote == nil {
		return nil, market.ErrNotFound
	}
	return f.quote(ctx, symbol)
}

func (f *fakeStocks) Splits(ctx context.Context, symbol string) ([]market.Split, error) {
	if f.splits == nil {
		return nil, market.ErrNotFound
	}
	return f.splits(ctx, symbol)
}

func (f *fakeStocks) Dividends(ctx context.Context, symbol, period string) (*market.DividendHistory, error) {
	if f.dividends == nil {
		return nil, market.ErrNotFound
	}
	return f.dividends(ctx, symbol, period)
}

func (f *fakeStocks) Financials(ctx context.Context, symbol, statementType string, quarterly bool) (*market.Financials, error) {
	if f.financials == nil {
		return nil, market.ErrNotFound
	}
	return f.financials(ctx, symbol, statementType, quarterly)
}

func (f *fakeStocks) Holders(ctx context.Context, symbol string) (*market.Holders, error) {
	if f.holders == nil {
		return nil, market.ErrNotFound
	}
	return f.holders(ctx, symbol)
}

func (f *fakeStocks) Options(ctx context.Context, symbol, expiration string) (*market.OptionsChain, error) {
	if f.options == nil {
		return nil, market.ErrNotFound
	}
	return f.options(ctx, symbol, expiration)
}

func (f *fakeStocks) News(ctx context.Context, symbol string, limit int) ([]market.NewsItem, error) {
	if f.news == nil {
		return nil, market.ErrNotFound
	}
	return f.news(ctx, symbol, limit)
}

func (f *fakeStocks) MarketNews(ctx context.Context, limit int) ([]market.NewsItem, error) {
	if f.marketNews == nil {
		return nil, market.ErrNotFound
	}
	return f.marketNews(ctx, limit)
}

func (f *fakeStocks) Indices(ctx context.Context) (*market.Indices, error) {
	if f.indices == nil {
		return nil, market.ErrNotFound
	}
	return f.indices(ctx)
}

// fakeCrypto implements CryptoService the same way.
type fakeCrypto struct {
	top      func(ctx context.Context, n int) ([]market.Crypto, error)
	coin     func(ctx context.Context, id string, full bool) (*market.Crypto, error)
	search   func(ctx context.Context, query string) ([]market.SearchResult, error)
	bySymbol func(ctx context.Context, symbol string) (*market.Crypto, error)
	history  func(ctx context.Context, id, days, interval string) (*market.Series, error)
	ohlc     func(ctx context.Context, id, days string) (*market.Series, error)
}

func (f *fakeCrypto) Top(ctx context.Context, n int) ([]market.Crypto, error) {
	if f.top == nil {
		return nil, market.ErrNotFound
	}
	return f.top(ctx, n)
}

func (f *fakeCrypto) Coin(ctx context.Context, id string, full bool) (*market.Crypto, error) {
	if f.coin == nil {
		return nil, market.ErrNotFound
	}
	return f.coin(ctx, id, full)
}

func (f *fakeCrypto) Search(ctx context.Context, query string) ([]market.SearchResult, error) {
	if f.search == nil {
		return nil, market.ErrNotFound
	}
	return f.search(ctx, query)
}

func (f *fakeCrypto) BySymbol(ctx context.Context, symbol string) (*market.Crypto, error) {
	if f.bySymbol == nil {
		return nil, market.ErrNotFound
	}
	return f.bySymbol(ctx, symbol)
}

func (f *fakeCrypto) History(ctx context.Context, id, days, interval string) (*market.Series, error) {
	if f.history == nil {
		return nil, market.ErrNotFound
	}
	return f.history(ctx, id, days, interval)
}

func (f *fakeCrypto) OHLC(ctx context.Context, id, days string) (*market.Series, error) {
	if f.ohlc == nil {
		return nil, market.ErrNotFound
	}
	return f.ohlc(ctx, id, days)
}

func newTestServer(stockSvc StockService, cryptoSvc CryptoService) *Server {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return New(config.Default(), stockSvc, cryptoSvc, logger)
}

func doRequest(t *testing.T, srv *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	t.Parallel()

	srv := newTestServer(&fakeStocks{}, &fakeCrypto{})
	rec := doRequest(t, srv, "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestHandleStock(t *testing.T) {
	t.Parallel()

	// Arrange
	var gotFull bool
	fake := &fakeStocks{
		stock: func(_ context.Context, symbol string, full bool) (*market.Stock, error) {
			gotFull = full
			return &market.Stock{Symbol: symbol, Price: 110, Change: 10, ChangePercent: 10}, nil
		},
	}
	srv := newTestServer(fake, &fakeCrypto{})

	// Act
	rec := doRequest(t, srv, "/api/stock/aapl?full-data")

	// Assert: symbol is uppercased, the presence flag is honored
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, gotFull)
	var stock market.Stock
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stock))
	require.Equal(t, "AAPL", stock.Symbol)
}

func TestHandleStock_NotFoundIs404(t *testing.T) {
	t.Parallel()

	srv := newTestServer(&fakeStocks{}, &fakeCrypto{})
	rec := doRequest(t, srv, "/api/stock/ZZZZ")
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Contains(t, rec.Body.String(), "ZZZZ")
}

func TestHandleStock_UpstreamFailureIs500(t *testing.T) {
	t.Parallel()

	fake := &fakeStocks{
		stock: func(context.Context, string, bool) (*market.Stock, error) {
			return nil, market.ErrUnavailable
		},
	}
	srv := newTestServer(fake, &fakeCrypto{})
	rec := doRequest(t, srv, "/api/stock/AAPL")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHandleStockHistory_InvalidPeriodIs400(t *testing.T) {
	t.Parallel()

	srv := newTestServer(&fakeStocks{}, &fakeCrypto{})
	rec := doRequest(t, srv, "/api/stock/AAPL/history?period=2mo")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "invalid period")
}

func TestHandleStockHistory_DataOnly(t *testing.T) {
	t.Parallel()

	fake := &fakeStocks{
		history: func(_ context.Context, _ string, opts stocks.HistoryOptions) (*market.Series, error) {
			series := &market.Series{Data: []market.LinePoint{{Datetime: "2024-01-02T00:00:00Z", Price: 194.03}}}
			series.Metadata.OHLC = opts.OHLC
			return series, nil
		},
	}
	srv := newTestServer(fake, &fakeCrypto{})

	rec := doRequest(t, srv, "/api/stock/AAPL/history?data-only")
	require.Equal(t, http.StatusOK, rec.Code)

	// data-only strips the metadata envelope
	var points []market.LinePoint
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &points))
	require.Len(t, points, 1)
	require.NotContains(t, rec.Body.String(), "metadata")
}

func TestHandleStockHistory_BadDateIs400(t *testing.T) {
	t.Parallel()

	srv := newTestServer(&fakeStocks{}, &fakeCrypto{})
	rec := doRequest(t, srv, "/api/stock/AAPL/history?start=2024/01/01&end=2024-02-01")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlePopularStocks_ClampsTop(t *testing.T) {
	t.Parallel()

	var gotN int
	fake := &fakeStocks{
		popular: func(_ context.Context, n int) ([]stocks.PopularRow, error) {
			gotN = n
			return []stocks.PopularRow{}, nil
		},
	}
	srv := newTestServer(fake, &fakeCrypto{})

	doRequest(t, srv, "/api/stocks/popular?top=500")
	require.Equal(t, 100, gotN)

	doRequest(t, srv, "/api/stocks/popular?top=junk")
	require.Equal(t, 10, gotN)
}

func TestHandlePopularStocksList_SymbolsOnly(t *testing.T) {
	t.Parallel()

	fake := &fakeStocks{
		popularSymbols: func(context.Context, int) ([]string, error) {
			return []string{"NVDA", "AAPL"}, nil
		},
	}
	srv := newTestServer(fake, &fakeCrypto{})

	rec := doRequest(t, srv, "/api/stocks/popular/list?symbols-only")
	require.Equal(t, http.StatusOK, rec.Code)

	var symbols []string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &symbols))
	require.Equal(t, []string{"NVDA", "AAPL"}, symbols)
}

func TestHandleStockSearch_EmptyQueryIsEmptyList(t *testing.T) {
	t.Parallel()

	srv := newTestServer(&fakeStocks{}, &fakeCrypto{})
	rec := doRequest(t, srv, "/api/stocks/search?q=")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, "[]", rec.Body.String())
}

func TestHandleStockSearch_FailureIsEmptyList(t *testing.T) {
	t.Parallel()

	// Search never errors outward; a miss is an empty result.
	srv := newTestServer(&fakeStocks{}, &fakeCrypto{})
	rec := doRequest(t, srv, "/api/stocks/search?q=ZZZZ")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, "[]", rec.Body.String())
}

func TestHandleDividends_InvalidPeriodIs400(t *testing.T) {
	t.Parallel()

	srv := newTestServer(&fakeStocks{}, &fakeCrypto{})
	rec := doRequest(t, srv, "/api/stock/AAPL/dividends?period=2y")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleFinancials_TypeAndQuarterly(t *testing.T) {
	t.Parallel()

	var gotType string
	var gotQuarterly bool
	fake := &fakeStocks{
		financials: func(_ context.Context, symbol, statementType string, quarterly bool) (*market.Financials, error) {
			gotType = statementType
			gotQuarterly = quarterly
			return &market.Financials{Symbol: symbol, Type: statementType}, nil
		},
	}
	srv := newTestServer(fake, &fakeCrypto{})

	rec := doRequest(t, srv, "/api/stock/AAPL/financials?type=cashflow&quarterly")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "cashflow", gotType)
	require.True(t, gotQuarterly)

	rec = doRequest(t, srv, "/api/stock/AAPL/financials?type=equity")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleCryptoHistory_InvalidDaysIs400(t *testing.T) {
	t.Parallel()

	srv := newTestServer(&fakeStocks{}, &fakeCrypto{})
	rec := doRequest(t, srv, "/api/crypto/bitcoin/history?days=60")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "invalid days")
}

func TestHandleCryptoHistory_OHLCFlagSelectsEndpoint(t *testing.T) {
	t.Parallel()

	var ohlcCalled, historyCalled bool
	fake := &fakeCrypto{
		ohlc: func(_ context.Context, id, days string) (*market.Series, error) {
			ohlcCalled = true
			series := &market.Series{Data: []market.OHLCPoint{}}
			series.Metadata.OHLC = true
			return series, nil
		},
		history: func(_ context.Context, id, days, interval string) (*market.Series, error) {
			historyCalled = true
			return &market.Series{Data: []market.LinePoint{}}, nil
		},
	}
	srv := newTestServer(&fakeStocks{}, fake)

	doRequest(t, srv, "/api/crypto/bitcoin/history?days=30&ohlc")
	require.True(t, ohlcCalled)
	require.False(t, historyCalled)

	doRequest(t, srv, "/api/crypto/bitcoin/history?days=30")
	require.True(t, historyCalled)
}

func TestHandleCryptoBySymbol_FullDataRefetches(t *testing.T) {
	t.Parallel()

	var coinCalls []string
	fake := &fakeCrypto{
		bySymbol: func(_ context.Context, symbol string) (*market.Crypto, error) {
			return &market.Crypto{ID: "bitcoin", Symbol: symbol}, nil
		},
		coin: func(_ context.Context, id string, full bool) (*market.Crypto, error) {
			coinCalls = append(coinCalls, id)
			require.True(t, full)
			description := "The first cryptocurrency."
			return &market.Crypto{ID: id, Description: &description}, nil
		},
	}
	srv := newTestServer(&fakeStocks{}, fake)

	rec := doRequest(t, srv, "/api/crypto/symbol/btc?full-data")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, []string{"bitcoin"}, coinCalls)
	require.Contains(t, rec.Body.String(), "description")
}

func TestHandleCryptoPopularList_SymbolsOnlyReturnsIDs(t *testing.T) {
	t.Parallel()

	fake := &fakeCrypto{
		top: func(context.Context, int) ([]market.Crypto, error) {
			return []market.Crypto{
				{ID: "bitcoin", Symbol: "BTC", Name: "Bitcoin", Price: 64250.33},
				{ID: "ethereum", Symbol: "ETH", Name: "Ethereum", Price: 3120.04},
			}, nil
		},
	}
	srv := newTestServer(&fakeStocks{}, fake)

	rec := doRequest(t, srv, "/api/crypto/popular/list?symbols-only")
	var ids []string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ids))
	require.Equal(t, []string{"bitcoin", "ethereum"}, ids)

	rec = doRequest(t, srv, "/api/crypto/popular/list")
	var entries []cryptoListEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	require.Len(t, entries, 2)
	require.Equal(t, "BTC", entries[0].Symbol)
}
