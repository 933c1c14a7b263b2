package api

import (
	"net/http"
	"time"

	"CoinPulse/internal/model"
)

type healthResponse struct {
	Status    string             `json:"status"`
	Timestamp string             `json:"timestamp"`
	State     model.SyncState    `json:"state"`
	Feeds     []model.FeedStatus `json:"feeds"`
}

// handleHealth reports "degraded" while any feed is failing; the status code
// stays 200.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	feeds := s.dash.Health()
	status := "ok"
	for _, f := range feeds {
		if f.ConsecutiveFailures > 0 {
			status = "degraded"
			break
		}
	}

	writeJSON(w, http.StatusOK, healthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		State:     s.dash.Snapshot().State,
		Feeds:     feeds,
	})
}
