// Package service contains the business logic layer of the application.
//
// THE THREE-LAYER ARCHITECTURE:
//
//	Handler (HTTP layer)     → parses requests, writes responses
//	Service (Business layer) → validates, enforces rules, orchestrates
//	Repository (Data layer)  → reads/writes the row-store
//
// The services take repository INTERFACES, not the concrete sqlite type.
// Tests pass hand-written in-memory mocks; main.go passes the real thing.
// Neither the services nor the handlers ever see a SQL statement.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/donation-raffle/internal/apperror"
	"github.com/sakif/donation-raffle/internal/model"
	"github.com/sakif/donation-raffle/internal/repository"
)

// IntakeService handles everything that writes donation-raffle submissions:
// participant registration, donation/referral intake, and the operator-side
// status transitions that promote Pending rows to Approved or Rejected.
type IntakeService struct {
	participants repository.ParticipantRepository
	donations    repository.DonationRepository
	referrals    repository.ReferralRepository
	logger       *slog.Logger
}

// NewIntakeService creates an IntakeService.
func NewIntakeService(
	participants repository.ParticipantRepository,
	donations repository.DonationRepository,
	referrals repository.ReferralRepository,
	logger *slog.Logger,
) *IntakeService {
	return &IntakeService{
		participants: participants,
		donations:    donations,
		referrals:    referrals,
		logger:       logger,
	}
}

// Register creates a participant for the given email and returns it.
//
// Registration is injective on email: for any two calls with the same
// email, exactly one succeeds and the other gets a Conflict — regardless of
// order. The check-then-insert below has a race window, but the UNIQUE
// constraint in the repository closes it (the loser's insert comes back as
// Conflict too).
//
// Validation is deliberately minimal: a trimmed, non-empty string with an
// "@" passes. The raffle never emails participants from this service — the
// address is an identity key, not a verified mailbox.
func (s *IntakeService) Register(ctx context.Context, email string) (*model.Participant, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, apperror.ValidationFailed("email", "email is required")
	}
	if !strings.Contains(email, "@") {
		return nil, apperror.ValidationFailed("email", "email is not valid")
	}

	_, err := s.participants.GetParticipantByEmail(ctx, email)
	if err == nil {
		return nil, apperror.Conflict("participant", email)
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		s.logger.Error("failed to look up participant",
			slog.String("email", email),
			slog.String("error", err.Error()),
		)
		return nil, apperror.Upstream("registering participant", err)
	}

	p := &model.Participant{Email: email}
	if err := s.participants.CreateParticipant(ctx, p); err != nil {
		// A concurrent registration may have slipped in between the lookup
		// and the insert — surface that as the same Conflict the lookup
		// would have produced.
		if errors.Is(err, apperror.ErrConflict) {
			return nil, err
		}
		s.logger.Error("failed to create participant",
			slog.String("email", email),
			slog.String("error", err.Error()),
		)
		return nil, apperror.Upstream("registering participant", err)
	}

	s.logger.Info("participant registered",
		slog.String("uid", p.UID),
		slog.String("email", p.Email),
	)

	return p, nil
}

// Donate records a donation submission, and a referral alongside it when a
// referral code was attached. Both rows start life as Pending — nothing
// scores until an operator approves it.
//
// refUID is NOT checked against the participants table. A mistyped referral
// code is stored as-is and simply never earns the bonus: the sync pass
// credits whatever key the row carries, and a key nobody owns is invisible
// on the board. Cheap to validate, deliberately left loose — rejecting the
// donation over a bad referral code would punish the donor for the
// referrer's typo.
//
// If the donation lands but the referral append fails, the donation stays.
// There is no transaction spanning the two tables; the caller sees the
// error and can resubmit with just the referral... by donating again. In
// practice the operator spots the orphan during review.
func (s *IntakeService) Donate(ctx context.Context, txid, email, refUID string, amount float64) (*model.Donation, error) {
	txid = strings.TrimSpace(txid)
	email = strings.TrimSpace(email)
	refUID = strings.TrimSpace(refUID)

	if txid == "" {
		return nil, apperror.ValidationFailed("txid", "transaction id is required")
	}
	if email == "" {
		return nil, apperror.ValidationFailed("email", "email is required")
	}
	if amount <= 0 {
		return nil, apperror.ValidationFailed("amount", "amount must be a positive number")
	}

	d := &model.Donation{
		Email:  email,
		TxID:   txid,
		Amount: amount,
		Status: model.StatusPending,
	}
	if err := s.donations.CreateDonation(ctx, d); err != nil {
		s.logger.Error("failed to create donation",
			slog.String("txid", txid),
			slog.String("error", err.Error()),
		)
		return nil, apperror.Upstream("recording donation", err)
	}

	if refUID != "" {
		r := &model.Referral{
			RefUID: refUID,
			Email:  email,
			Status: model.StatusPending,
		}
		if err := s.referrals.CreateReferral(ctx, r); err != nil {
			s.logger.Error("failed to create referral",
				slog.String("refUID", refUID),
				slog.String("error", err.Error()),
			)
			return nil, apperror.Upstream("recording referral", err)
		}
	}

	s.logger.Info("donation submitted",
		slog.String("txid", txid),
		slog.String("email", email),
		slog.Float64("amount", amount),
		slog.Bool("hasReferral", refUID != ""),
	)

	return d, nil
}

// PendingSubmissions returns everything waiting for operator review.
type PendingSubmissions struct {
	Donations []model.Donation `json:"donations"`
	Referrals []model.Referral `json:"referrals"`
}

// Pending lists all Pending donations and referrals for the operator view.
func (s *IntakeService) Pending(ctx context.Context) (*PendingSubmissions, error) {
	donations, err := s.donations.ListDonationsByStatus(ctx, model.StatusPending)
	if err != nil {
		return nil, apperror.Upstream("listing pending donations", err)
	}
	referrals, err := s.referrals.ListReferralsByStatus(ctx, model.StatusPending)
	if err != nil {
		return nil, apperror.Upstream("listing pending referrals", err)
	}

	return &PendingSubmissions{Donations: donations, Referrals: referrals}, nil
}

// SetDonationStatus moves a donation to Approved or Rejected.
// Any other target status is a validation error — rows never go back to Pending.
func (s *IntakeService) SetDonationStatus(ctx context.Context, txid, status string) error {
	txid = strings.TrimSpace(txid)
	if txid == "" {
		return apperror.ValidationFailed("txid", "transaction id is required")
	}
	if err := validateStatusTransition(status); err != nil {
		return err
	}

	if err := s.donations.UpdateDonationStatus(ctx, txid, status); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return err
		}
		return apperror.Upstream("updating donation status", err)
	}

	s.logger.Info("donation status updated",
		slog.String("txid", txid),
		slog.String("status", status),
	)
	return nil
}

// SetReferralStatus moves a referral to Approved or Rejected.
func (s *IntakeService) SetReferralStatus(ctx context.Context, refUID, email, status string) error {
	refUID = strings.TrimSpace(refUID)
	email = strings.TrimSpace(email)
	if refUID == "" {
		return apperror.ValidationFailed("refUID", "referrer uid is required")
	}
	if email == "" {
		return apperror.ValidationFailed("email", "email is required")
	}
	if err := validateStatusTransition(status); err != nil {
		return err
	}

	if err := s.referrals.UpdateReferralStatus(ctx, refUID, email, status); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return err
		}
		return apperror.Upstream("updating referral status", err)
	}

	s.logger.Info("referral status updated",
		slog.String("refUID", refUID),
		slog.String("email", email),
		slog.String("status", status),
	)
	return nil
}

func validateStatusTransition(status string) error {
	if status != model.StatusApproved && status != model.StatusRejected {
		return apperror.ValidationFailed("status",
			fmt.Sprintf("status must be %q or %q", model.StatusApproved, model.StatusRejected))
	}
	return nil
}
