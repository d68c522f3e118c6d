package api

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"marketdash/internal/market"
)

func (s *Server) handleCryptoSearch(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		respondJSON(w, http.StatusOK, []any{})
		return
	}
	results, err := s.crypto.Search(r.Context(), query)
	if err != nil {
		s.fail(w, r, err, "no results for "+query)
		return
	}
	respondJSON(w, http.StatusOK, results)
}

func (s *Server) handlePopularCryptos(w http.ResponseWriter, r *http.Request) {
	top := clampTop(r.URL.Query().Get("top"), s.cfg.Crypto.DefaultTop, s.cfg.Crypto.MaxTop)
	coins, err := s.crypto.Top(r.Context(), top)
	if err != nil {
		s.fail(w, r, err, "failed to fetch popular cryptocurrencies")
		return
	}
	respondJSON(w, http.StatusOK, coins)
}

// cryptoListEntry is the dropdown row of the popular-cryptos list.
type cryptoListEntry struct {
	ID     string  `json:"id"`
	Symbol string  `json:"symbol"`
	Name   string  `json:"name"`
	Price  float64 `json:"price"`
	Image  string  `json:"image,omitempty"`
}

func (s *Server) handlePopularCryptosList(w http.ResponseWriter, r *http.Request) {
	top := clampTop(r.URL.Query().Get("top"), s.cfg.Crypto.DefaultTop, s.cfg.Crypto.MaxTop)
	coins, err := s.crypto.Top(r.Context(), top)
	if err != nil {
		s.fail(w, r, err, "failed to fetch popular cryptos list")
		return
	}

	if hasFlag(r, "symbols-only") {
		ids := make([]string, len(coins))
		for i, coin := range coins {
			ids[i] = coin.ID
		}
		respondJSON(w, http.StatusOK, ids)
		return
	}

	entries := make([]cryptoListEntry, len(coins))
	for i, coin := range coins {
		entries[i] = cryptoListEntry{
			ID:     coin.ID,
			Symbol: coin.Symbol,
			Name:   coin.Name,
			Price:  coin.Price,
			Image:  coin.Image,
		}
	}
	respondJSON(w, http.StatusOK, entries)
}

func (s *Server) handleCrypto(w http.ResponseWriter, r *http.Request) {
	id := strings.ToLower(mux.Vars(r)["id"])
	coin, err := s.crypto.Coin(r.Context(), id, hasFlag(r, "full-data"))
	if err != nil {
		s.fail(w, r, err, "cryptocurrency "+id+" not found or data unavailable")
		return
	}
	respondJSON(w, http.StatusOK, coin)
}

func (s *Server) handleCryptoHistory(w http.ResponseWriter, r *http.Request) {
	id := strings.ToLower(mux.Vars(r)["id"])
	q := r.URL.Query()

	days := q.Get("days")
	if days == "" {
		days = "30"
	}
	if err := validateCryptoDays(days); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var series *market.Series
	var err error
	if hasFlag(r, "ohlc") {
		series, err = s.crypto.OHLC(r.Context(), id, days)
	} else {
		series, err = s.crypto.History(r.Context(), id, days, q.Get("interval"))
	}
	if err != nil {
		s.fail(w, r, err, "no historical data available for "+id)
		return
	}

	if hasFlag(r, "data-only") {
		respondJSON(w, http.StatusOK, series.Data)
		return
	}
	respondJSON(w, http.StatusOK, series)
}

func (s *Server) handleCryptoBySymbol(w http.ResponseWriter, r *http.Request) {
	symbol := strings.ToUpper(mux.Vars(r)["symbol"])
	coin, err := s.crypto.BySymbol(r.Context(), symbol)
	if err != nil {
		s.fail(w, r, err, "cryptocurrency with symbol "+symbol+" not found")
		return
	}
	if hasFlag(r, "full-data") {
		coin, err = s.crypto.Coin(r.Context(), coin.ID, true)
		if err != nil {
			s.fail(w, r, err, "cryptocurrency with symbol "+symbol+" not found")
			return
		}
	}
	respondJSON(w, http.StatusOK, coin)
}
