// Package handler contains HTTP request handlers for the raffle API.
//
// HANDLER RESPONSIBILITIES:
// 1. Parse the incoming HTTP request (body, path params)
// 2. Call the service layer
// 3. Write the HTTP response (status code, headers, JSON)
//
// Handlers contain NO business rules — validation, uniqueness, scoring and
// status transitions all live in internal/service. If a handler grows an if
// statement about raffle semantics, it's in the wrong layer.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sakif/donation-raffle/internal/apperror"
	"github.com/sakif/donation-raffle/internal/service"
)

// IntakeHandler serves the participant-facing write endpoints:
// registration and donation submission.
type IntakeHandler struct {
	intake *service.IntakeService
	logger *slog.Logger
}

// NewIntakeHandler creates an IntakeHandler.
func NewIntakeHandler(intake *service.IntakeService, logger *slog.Logger) *IntakeHandler {
	return &IntakeHandler{intake: intake, logger: logger}
}

// registerRequest is the body of POST /register.
//
// Decoding into a typed struct is how "email must be a string" gets
// enforced: a JSON number or object in the email field fails the decode and
// comes back as 400 before the service ever runs.
type registerRequest struct {
	Email string `json:"email"`
}

type registerResponse struct {
	UID string `json:"uid"`
}

// HandleRegister handles POST /register.
//
// Responses:
//
//	200 {"uid": "..."}  — registered
//	400 {"error": ...}  — missing/malformed email
//	409 {"error": ...}  — email already registered
func (h *IntakeHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.ValidationFailed("body", "invalid JSON body"))
		return
	}

	p, err := h.intake.Register(r.Context(), req.Email)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, registerResponse{UID: p.UID})
}

// donateRequest is the body of POST /donate. RefUID is optional — when
// present, a referral row is recorded alongside the donation.
type donateRequest struct {
	TxID   string  `json:"txid"`
	Email  string  `json:"email"`
	RefUID string  `json:"refUID"`
	Amount float64 `json:"amount"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// HandleDonate handles POST /donate.
//
// Responses:
//
//	200 {"message": ...} — recorded as Pending, awaiting operator approval
//	400 {"error": ...}   — missing txid/email or non-positive amount
func (h *IntakeHandler) HandleDonate(w http.ResponseWriter, r *http.Request) {
	var req donateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.ValidationFailed("body", "invalid JSON body"))
		return
	}

	if _, err := h.intake.Donate(r.Context(), req.TxID, req.Email, req.RefUID, req.Amount); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{
		Message: "Donation recorded and awaiting approval",
	})
}
