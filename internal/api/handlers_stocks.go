package api

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"marketdash/internal/stocks"
)

func (s *Server) handleStockSearch(w http.ResponseWriter, r *http.Request) {
	query := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("q")))
	if query == "" {
		respondJSON(w, http.StatusOK, []any{})
		return
	}
	// Search is best-effort by symbol: anything that fails to resolve is an
	// empty result, not an error.
	stock, err := s.stocks.Stock(r.Context(), query, false)
	if err != nil {
		respondJSON(w, http.StatusOK, []any{})
		return
	}
	respondJSON(w, http.StatusOK, stock)
}

func (s *Server) handlePopularStocks(w http.ResponseWriter, r *http.Request) {
	top := clampTop(r.URL.Query().Get("top"), s.cfg.Stocks.DefaultTop, s.cfg.Stocks.MaxTop)
	rows, err := s.stocks.Popular(r.Context(), top)
	if err != nil {
		s.fail(w, r, err, "failed to fetch popular stocks")
		return
	}
	respondJSON(w, http.StatusOK, rows)
}

func (s *Server) handlePopularStocksList(w http.ResponseWriter, r *http.Request) {
	top := clampTop(r.URL.Query().Get("top"), s.cfg.Stocks.DefaultTop, s.cfg.Stocks.MaxTop)

	if hasFlag(r, "symbols-only") {
		symbols, err := s.stocks.PopularSymbols(r.Context(), top)
		if err != nil {
			s.fail(w, r, err, "failed to fetch popular stocks list")
			return
		}
		respondJSON(w, http.StatusOK, symbols)
		return
	}

	entries, err := s.stocks.PopularList(r.Context(), top)
	if err != nil {
		s.fail(w, r, err, "failed to fetch popular stocks list")
		return
	}
	respondJSON(w, http.StatusOK, entries)
}

func (s *Server) handleStock(w http.ResponseWriter, r *http.Request) {
	symbol := strings.ToUpper(mux.Vars(r)["symbol"])
	stock, err := s.stocks.Stock(r.Context(), symbol, hasFlag(r, "full-data"))
	if err != nil {
		s.fail(w, r, err, "stock "+symbol+" not found or data unavailable")
		return
	}
	respondJSON(w, http.StatusOK, stock)
}

func (s *Server) handleStockHistory(w http.ResponseWriter, r *http.Request) {
	symbol := strings.ToUpper(mux.Vars(r)["symbol"])
	q := r.URL.Query()

	opts := stocks.HistoryOptions{
		Period:   q.Get("period"),
		Start:    q.Get("start"),
		End:      q.Get("end"),
		Interval: q.Get("interval"),
		OHLC:     hasFlag(r, "ohlc"),
	}
	if opts.Period == "" {
		opts.Period = "1mo"
	}
	if opts.Interval == "" {
		opts.Interval = "1d"
	}

	if err := validatePeriod(opts.Period); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validateInterval(opts.Interval); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if opts.Start != "" && opts.End != "" {
		if err := validateDate(opts.Start); err != nil {
			respondError(w, http.StatusBadRequest, "start "+err.Error())
			return
		}
		if err := validateDate(opts.End); err != nil {
			respondError(w, http.StatusBadRequest, "end "+err.Error())
			return
		}
	}

	series, err := s.stocks.History(r.Context(), symbol, opts)
	if err != nil {
		s.fail(w, r, err, "no historical data available for "+symbol)
		return
	}
	if hasFlag(r, "data-only") {
		respondJSON(w, http.StatusOK, series.Data)
		return
	}
	respondJSON(w, http.StatusOK, series)
}

func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
	symbol := strings.ToUpper(mux.Vars(r)["symbol"])
	quote, err := s.stocks.Quote(r.Context(), symbol)
	if err != nil {
		s.fail(w, r, err, "no quote data available for "+symbol)
		return
	}
	respondJSON(w, http.StatusOK, quote)
}

func (s *Server) handleSplits(w http.ResponseWriter, r *http.Request) {
	symbol := strings.ToUpper(mux.Vars(r)["symbol"])
	splits, err := s.stocks.Splits(r.Context(), symbol)
	if err != nil {
		s.fail(w, r, err, "no split data available for "+symbol)
		return
	}
	respondJSON(w, http.StatusOK, splits)
}

func (s *Server) handleDividends(w http.ResponseWriter, r *http.Request) {
	symbol := strings.ToUpper(mux.Vars(r)["symbol"])
	period := r.URL.Query().Get("period")
	if period == "" {
		period = "5y"
	}
	if err := validateDividendPeriod(period); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	dividends, err := s.stocks.Dividends(r.Context(), symbol, period)
	if err != nil {
		s.fail(w, r, err, "no dividend data available for "+symbol)
		return
	}
	respondJSON(w, http.StatusOK, dividends)
}

func (s *Server) handleFinancials(w http.ResponseWriter, r *http.Request) {
	symbol := strings.ToUpper(mux.Vars(r)["symbol"])
	statementType := r.URL.Query().Get("type")
	if statementType == "" {
		statementType = "income"
	}
	if err := validateStatementType(statementType); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	financials, err := s.stocks.Financials(r.Context(), symbol, statementType, hasFlag(r, "quarterly"))
	if err != nil {
		s.fail(w, r, err, "no financial data available for "+symbol)
		return
	}
	respondJSON(w, http.StatusOK, financials)
}

func (s *Server) handleHolders(w http.ResponseWriter, r *http.Request) {
	symbol := strings.ToUpper(mux.Vars(r)["symbol"])
	holders, err := s.stocks.Holders(r.Context(), symbol)
	if err != nil {
		s.fail(w, r, err, "no institutional holder data available for "+symbol)
		return
	}
	respondJSON(w, http.StatusOK, holders)
}

func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	symbol := strings.ToUpper(mux.Vars(r)["symbol"])
	chain, err := s.stocks.Options(r.Context(), symbol, r.URL.Query().Get("expiration"))
	if err != nil {
		s.fail(w, r, err, "no options data available for "+symbol)
		return
	}
	respondJSON(w, http.StatusOK, chain)
}

func (s *Server) handleStockNews(w http.ResponseWriter, r *http.Request) {
	symbol := strings.ToUpper(mux.Vars(r)["symbol"])
	limit := clampLimit(r.URL.Query().Get("limit"), 10, 50)
	news, err := s.stocks.News(r.Context(), symbol, limit)
	if err != nil {
		s.fail(w, r, err, "no news available for "+symbol)
		return
	}
	respondJSON(w, http.StatusOK, news)
}

func (s *Server) handleIndices(w http.ResponseWriter, r *http.Request) {
	indices, err := s.stocks.Indices(r.Context())
	if err != nil {
		s.fail(w, r, err, "no market indices data available")
		return
	}
	respondJSON(w, http.StatusOK, indices)
}

func (s *Server) handleMarketNews(w http.ResponseWriter, r *http.Request) {
	limit := clampLimit(r.URL.Query().Get("limit"), 20, 50)
	news, err := s.stocks.MarketNews(r.Context(), limit)
	if err != nil {
		s.fail(w, r, err, "no market news available")
		return
	}
	respondJSON(w, http.StatusOK, news)
}
