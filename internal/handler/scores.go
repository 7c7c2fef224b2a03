package handler

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/sakif/donation-raffle/internal/service"
)

// ScoresHandler serves the synchronization trigger and the three read-only
// leaderboard endpoints the front-end polls.
type ScoresHandler struct {
	scores *service.ScoreService
	logger *slog.Logger
}

// NewScoresHandler creates a ScoresHandler.
func NewScoresHandler(scores *service.ScoreService, logger *slog.Logger) *ScoresHandler {
	return &ScoresHandler{scores: scores, logger: logger}
}

// HandleSyncScores handles GET /sync-scores.
//
// GET with a side effect is unusual, but it is the wire contract this
// system shipped with — the original trigger was an operator pasting the
// URL into a browser. Kept for compatibility; the route is also reachable
// as an authenticated admin call.
//
// Responses:
//
//	200 {"message": ..., "updated": N}
//	500 {"error": ...} — row-store failure, possibly mid-pass (partial update)
func (h *ScoresHandler) HandleSyncScores(w http.ResponseWriter, r *http.Request) {
	updated, err := h.scores.Synchronize(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Message string `json:"message"`
		Updated int    `json:"updated"`
	}{
		Message: fmt.Sprintf("Scores synchronized (%d records updated)", updated),
		Updated: updated,
	})
}

// HandleTopDonors handles GET /top-donors.
// Always returns a JSON array — [] when nothing is approved yet, never null.
func (h *ScoresHandler) HandleTopDonors(w http.ResponseWriter, r *http.Request) {
	standings, err := h.scores.TopDonors(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, standings)
}

// HandleTopReferrals handles GET /top-referrals.
func (h *ScoresHandler) HandleTopReferrals(w http.ResponseWriter, r *http.Request) {
	standings, err := h.scores.TopReferrals(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, standings)
}

// HandleTopScores handles GET /top-scores.
func (h *ScoresHandler) HandleTopScores(w http.ResponseWriter, r *http.Request) {
	records, err := h.scores.TopScores(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}
