package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"CoinPulse/internal/model"
)

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.dash.Snapshot())
}

// handleCoins serves ?q= (name or symbol substring) and ?sort= (market_cap,
// price, change; anything else keeps provider order).
func (s *Server) handleCoins(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	writeJSON(w, http.StatusOK, s.dash.FilteredSortedCoins(q.Get("q"), q.Get("sort")))
}

func (s *Server) handleCoinDetail(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	detail, ok := s.dash.CoinDetail(id)
	if !ok {
		writeError(w, http.StatusNotFound, "coin not found: "+id)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (s *Server) handleSparkline(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	points, ok := s.dash.ScaledSparkline(id)
	if !ok {
		writeError(w, http.StatusNotFound, "coin not found: "+id)
		return
	}
	writeJSON(w, http.StatusOK, points)
}

type refreshResponse struct {
	Status   string          `json:"status"`
	Snapshot *model.Snapshot `json:"snapshot,omitempty"`
}

// refreshWaitTimeout bounds ?wait=true below the server's WriteTimeout.
const refreshWaitTimeout = 20 * time.Second

// handleRefresh triggers a refresh. With ?wait=true it blocks until both
// feeds have completed, or refreshWaitTimeout passes, and returns the
// resulting snapshot.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	wait, _ := strconv.ParseBool(r.URL.Query().Get("wait"))
	if !wait {
		s.dash.TriggerManualRefresh()
		writeJSON(w, http.StatusAccepted, refreshResponse{Status: "refresh triggered"})
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), s.refreshTimeout)
	defer cancel()
	if err := s.dash.RefreshNow(ctx); err != nil {
		writeError(w, http.StatusGatewayTimeout, "refresh did not complete: "+err.Error())
		return
	}
	snap := s.dash.Snapshot()
	writeJSON(w, http.StatusOK, refreshResponse{Status: "refreshed", Snapshot: &snap})
}
