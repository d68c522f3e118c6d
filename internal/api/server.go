package api

import (
	"context"
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"marketdash/internal/config"
	"marketdash/internal/market"
	"marketdash/internal/stocks"
)

// StockService is the equity surface the handlers depend on.
type StockService interface {
	PopularSymbols(ctx context.Context, n int) ([]string, error)
	Popular(ctx context.Context, n int) ([]stocks.PopularRow, error)
	PopularList(ctx context.Context, n int) ([]stocks.ListEntry, error)
	Stock(ctx context.Context, symbol string, full bool) (*market.Stock, error)
	History(ctx context.Context, symbol string, opts stocks.HistoryOptions) (*market.Series, error)
	Quote(ctx context.Context, symbol string) (*market.Quote, error)
	Splits(ctx context.Context, symbol string) ([]market.Split, error)
	Dividends(ctx context.Context, symbol, period string) (*market.DividendHistory, error)
	Financials(ctx context.Context, symbol, statementType string, quarterly bool) (*market.Financials, error)
	Holders(ctx context.Context, symbol string) (*market.Holders, error)
	Options(ctx context.Context, symbol, expiration string) (*market.OptionsChain, error)
	News(ctx context.Context, symbol string, limit int) ([]market.NewsItem, error)
	MarketNews(ctx context.Context, limit int) ([]market.NewsItem, error)
	Indices(ctx context.Context) (*market.Indices, error)
}

// CryptoService is the cryptocurrency surface the handlers depend on.
type CryptoService interface {
	Top(ctx context.Context, n int) ([]market.Crypto, error)
	Coin(ctx context.Context, id string, full bool) (*market.Crypto, error)
	Search(ctx context.Context, query string) ([]market.SearchResult, error)
	BySymbol(ctx context.Context, symbol string) (*market.Crypto, error)
	History(ctx context.Context, id, days, interval string) (*market.Series, error)
	OHLC(ctx context.Context, id, days string) (*market.Series, error)
}

// Server routes HTTP requests to the market services.
type Server struct {
	cfg    config.Config
	stocks StockService
	crypto CryptoService
	logger *logrus.Logger
	router *mux.Router
}

func New(cfg config.Config, stockSvc StockService, cryptoSvc CryptoService, logger *logrus.Logger) *Server {
	s := &Server{
		cfg:    cfg,
		stocks: stockSvc,
		crypto: cryptoSvc,
		logger: logger,
		router: mux.NewRouter(),
	}
	s.routes()
	return s
}

// Handler returns the router wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	var h http.Handler = s.router
	h = handlers.CompressHandler(h)
	h = handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
	)(h)
	h = s.logRequests(h)
	h = s.recoverPanics(h)
	h = requestID(h)
	return h
}

func (s *Server) routes() {
	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	api := s.router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/stocks/search", s.handleStockSearch).Methods(http.MethodGet)
	api.HandleFunc("/stocks/popular", s.handlePopularStocks).Methods(http.MethodGet)
	api.HandleFunc("/stocks/popular/list", s.handlePopularStocksList).Methods(http.MethodGet)
	api.HandleFunc("/stock/{symbol}", s.handleStock).Methods(http.MethodGet)
	api.HandleFunc("/stock/{symbol}/history", s.handleStockHistory).Methods(http.MethodGet)
	api.HandleFunc("/stock/{symbol}/quote", s.handleQuote).Methods(http.MethodGet)
	api.HandleFunc("/stock/{symbol}/splits", s.handleSplits).Methods(http.MethodGet)
	api.HandleFunc("/stock/{symbol}/dividends", s.handleDividends).Methods(http.MethodGet)
	api.HandleFunc("/stock/{symbol}/financials", s.handleFinancials).Methods(http.MethodGet)
	api.HandleFunc("/stock/{symbol}/holders", s.handleHolders).Methods(http.MethodGet)
	api.HandleFunc("/stock/{symbol}/options", s.handleOptions).Methods(http.MethodGet)
	api.HandleFunc("/stock/{symbol}/news", s.handleStockNews).Methods(http.MethodGet)
	api.HandleFunc("/market/indices", s.handleIndices).Methods(http.MethodGet)
	api.HandleFunc("/market/news", s.handleMarketNews).Methods(http.MethodGet)

	api.HandleFunc("/crypto/search", s.handleCryptoSearch).Methods(http.MethodGet)
	api.HandleFunc("/crypto/popular", s.handlePopularCryptos).Methods(http.MethodGet)
	api.HandleFunc("/crypto/popular/list", s.handlePopularCryptosList).Methods(http.MethodGet)
	api.HandleFunc("/crypto/symbol/{symbol}", s.handleCryptoBySymbol).Methods(http.MethodGet)
	api.HandleFunc("/crypto/{id}", s.handleCrypto).Methods(http.MethodGet)
	api.HandleFunc("/crypto/{id}/history", s.handleCryptoHistory).Methods(http.MethodGet)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
