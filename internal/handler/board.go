package handler

import (
	"html/template"
	"log/slog"
	"net/http"
	"path/filepath"
	"time"
)

// BoardHandler serves the public leaderboard page and the campaign metadata
// endpoint that drives its countdown timer.
//
// It holds parsed templates so we don't re-parse them on every request.
type BoardHandler struct {
	templates *template.Template
	deadline  time.Time
	logger    *slog.Logger
}

// NewBoardHandler creates a BoardHandler and parses the HTML templates.
//
// TEMPLATE COMPOSITION:
// base.html defines the page shell with a {{template "content" .}}
// placeholder; board.html fills it via {{define "content"}}...{{end}}.
// Parsing them together lets them reference each other.
func NewBoardHandler(templateDir string, deadline time.Time, logger *slog.Logger) (*BoardHandler, error) {
	tmpl, err := template.ParseFiles(
		filepath.Join(templateDir, "base.html"),
		filepath.Join(templateDir, "board.html"),
	)
	if err != nil {
		return nil, err
	}

	return &BoardHandler{
		templates: tmpl,
		deadline:  deadline,
		logger:    logger,
	}, nil
}

// HandleBoard serves the main page: registration form, donation form, the
// three leaderboard tables (filled by polling JS), and the countdown.
func (h *BoardHandler) HandleBoard(w http.ResponseWriter, r *http.Request) {
	data := map[string]interface{}{
		"Title":    "Donation Raffle",
		"Deadline": h.deadline.Format(time.RFC3339),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	if err := h.templates.ExecuteTemplate(w, "base", data); err != nil {
		h.logger.Error("failed to render board template",
			slog.String("error", err.Error()),
		)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// HandleCampaign handles GET /campaign.
//
// The countdown used to be hardcoded client-side as "30 days from whenever
// you loaded the page", which meant every visitor saw a different deadline.
// Serving it from config makes the timer mean something.
func (h *BoardHandler) HandleCampaign(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Deadline string `json:"deadline"`
	}{
		Deadline: h.deadline.Format(time.RFC3339),
	})
}
