package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/donation-raffle/internal/apperror"
	"github.com/sakif/donation-raffle/internal/auth"
	"github.com/sakif/donation-raffle/internal/service"
)

// AdminHandler serves the operator API: login, the pending-submissions
// review queue, and approval/rejection of donations and referrals.
//
// Everything here except HandleLogin sits behind auth.RequireOperator —
// the router enforces that, not the handlers.
type AdminHandler struct {
	intake  *service.IntakeService
	tokens  *auth.TokenService
	keyHash string
	logger  *slog.Logger
}

// NewAdminHandler creates an AdminHandler.
// keyHash is the bcrypt hash of the operator key (OPERATOR_KEY_HASH).
func NewAdminHandler(intake *service.IntakeService, tokens *auth.TokenService, keyHash string, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		intake:  intake,
		tokens:  tokens,
		keyHash: keyHash,
		logger:  logger,
	}
}

type loginRequest struct {
	Key string `json:"key"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// HandleLogin handles POST /admin/login.
//
// A correct operator key earns a short-lived JWT for the rest of the admin
// API. Wrong key and malformed body both come back as 401 with the same
// message — no hints about which part failed.
func (h *AdminHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Key == "" {
		h.unauthorized(w)
		return
	}

	if err := auth.VerifyOperatorKey(h.keyHash, req.Key); err != nil {
		if !errors.Is(err, auth.ErrBadKey) {
			// Malformed hash in the environment — log loudly, still 401.
			h.logger.Error("operator key hash is unusable", slog.String("error", err.Error()))
		}
		h.logger.Warn("operator login rejected", slog.String("remote", r.RemoteAddr))
		h.unauthorized(w)
		return
	}

	token, err := h.tokens.Generate("operator")
	if err != nil {
		h.logger.Error("failed to issue operator token", slog.String("error", err.Error()))
		writeError(w, errors.New("token generation failed"))
		return
	}

	h.logger.Info("operator logged in", slog.String("remote", r.RemoteAddr))
	writeJSON(w, http.StatusOK, loginResponse{Token: token})
}

// HandlePending handles GET /admin/pending — the review queue.
func (h *AdminHandler) HandlePending(w http.ResponseWriter, r *http.Request) {
	pending, err := h.intake.Pending(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pending)
}

type donationStatusRequest struct {
	TxID   string `json:"txid"`
	Status string `json:"status"`
}

// HandleDonationStatus handles POST /admin/donations/status.
// Body: {"txid": "...", "status": "Approved"|"Rejected"}.
func (h *AdminHandler) HandleDonationStatus(w http.ResponseWriter, r *http.Request) {
	var req donationStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.ValidationFailed("body", "invalid JSON body"))
		return
	}

	if err := h.intake.SetDonationStatus(r.Context(), req.TxID, req.Status); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "Donation status updated"})
}

type referralStatusRequest struct {
	RefUID string `json:"refUID"`
	Email  string `json:"email"`
	Status string `json:"status"`
}

// HandleReferralStatus handles POST /admin/referrals/status.
// Body: {"refUID": "...", "email": "...", "status": "Approved"|"Rejected"}.
func (h *AdminHandler) HandleReferralStatus(w http.ResponseWriter, r *http.Request) {
	var req referralStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.ValidationFailed("body", "invalid JSON body"))
		return
	}

	if err := h.intake.SetReferralStatus(r.Context(), req.RefUID, req.Email, req.Status); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "Referral status updated"})
}

func (h *AdminHandler) unauthorized(w http.ResponseWriter) {
	writeJSON(w, http.StatusUnauthorized, ErrorResponse{
		Error:   "unauthorized",
		Message: "invalid operator key",
	})
}
