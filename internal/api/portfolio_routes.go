package api

import (
	"net/http"
	"strings"

	"CoinPulse/internal/model"
)

type watchlistResponse struct {
	IDs   []string     `json:"ids"`
	Coins []model.Coin `json:"coins"`
}

type toggleResponse struct {
	ID          string `json:"id"`
	Watchlisted bool   `json:"watchlisted"`
}

func (s *Server) handleWatchlist(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, watchlistResponse{
		IDs:   s.dash.Watchlist(),
		Coins: s.dash.WatchlistedCoins(),
	})
}

func (s *Server) handleWatchlistToggle(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		writeError(w, http.StatusBadRequest, "coin id is required")
		return
	}
	writeJSON(w, http.StatusOK, toggleResponse{ID: id, Watchlisted: s.dash.ToggleWatchlist(id)})
}

func (s *Server) handlePortfolio(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.dash.PortfolioSummary())
}
