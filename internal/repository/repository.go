// Package repository defines the storage interfaces for the raffle's four
// named tables: participants, donations, referrals, and scores.
//
// The original deployment of this system used a spreadsheet as its database,
// with one sheet per table and handlers appending and updating row ranges
// directly. These interfaces are that row-store contract made explicit:
// each table gets read, append, and update operations and nothing more.
// Any backend that preserves the schema can sit behind them — the shipped
// implementation is SQLite (see repository/sqlite), but the services never
// know that.
//
// Deliberately NOT in the contract: transactions. The synchronization pass
// does read-then-write against the scores table with no isolation, same as
// the spreadsheet original. That lost-update window is a documented
// property of the system, not something the repository layer papers over.
package repository

import (
	"context"

	"github.com/sakif/donation-raffle/internal/model"
)

// Method names carry the table name (CreateParticipant, not Create) because
// the SQLite backend implements all four interfaces on one type — plain
// Create would collide across tables.

type ParticipantRepository interface {
	// CreateParticipant appends a new participant. Returns apperror.ErrConflict
	// if a participant with the same email already exists.
	CreateParticipant(ctx context.Context, p *model.Participant) error
	// GetParticipantByEmail returns apperror.ErrNotFound when no participant matches.
	GetParticipantByEmail(ctx context.Context, email string) (*model.Participant, error)
}

type DonationRepository interface {
	CreateDonation(ctx context.Context, d *model.Donation) error
	// ListDonations returns every donation row, oldest first. The
	// synchronization pass and the leaderboards both scan the full table and
	// filter by status themselves — that full-scan shape is part of the contract.
	ListDonations(ctx context.Context) ([]model.Donation, error)
	ListDonationsByStatus(ctx context.Context, status string) ([]model.Donation, error)
	// UpdateDonationStatus flips the approval status of every donation with
	// the given txid. Returns apperror.ErrNotFound if no row matches.
	UpdateDonationStatus(ctx context.Context, txid, status string) error
}

type ReferralRepository interface {
	CreateReferral(ctx context.Context, r *model.Referral) error
	ListReferrals(ctx context.Context) ([]model.Referral, error)
	ListReferralsByStatus(ctx context.Context, status string) ([]model.Referral, error)
	UpdateReferralStatus(ctx context.Context, refUID, email, status string) error
}

type ScoreRepository interface {
	// GetScore returns apperror.ErrNotFound when no record exists for the key.
	GetScore(ctx context.Context, key string) (*model.ScoreRecord, error)
	CreateScore(ctx context.Context, rec *model.ScoreRecord) error
	UpdateScore(ctx context.Context, rec *model.ScoreRecord) error
	// ListScores returns every score record in no particular order — callers sort.
	ListScores(ctx context.Context) ([]model.ScoreRecord, error)
}
