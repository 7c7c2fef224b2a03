package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/sakif/donation-raffle/internal/apperror"
	"github.com/sakif/donation-raffle/internal/model"
	"github.com/sakif/donation-raffle/internal/repository"
)

var _ repository.ReferralRepository = (*DB)(nil)

// CreateReferral appends a new referral row.
// Same append-only shape as donations — see donation.go for the reasoning.
func (db *DB) CreateReferral(ctx context.Context, r *model.Referral) error {
	r.SubmittedAt = time.Now()
	if r.Status == "" {
		r.Status = model.StatusPending
	}

	res, err := db.conn.ExecContext(ctx,
		`INSERT INTO referrals (ref_uid, email, submitted_at, status)
		 VALUES (?, ?, ?, ?)`,
		r.RefUID,
		r.Email,
		r.SubmittedAt,
		r.Status,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating referral: %w", err)
	}

	r.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading referral id: %w", err)
	}

	return nil
}

// ListReferrals returns every referral row, oldest first.
func (db *DB) ListReferrals(ctx context.Context) ([]model.Referral, error) {
	return db.queryReferrals(ctx,
		`SELECT id, ref_uid, email, submitted_at, status
		 FROM referrals
		 ORDER BY id`)
}

// ListReferralsByStatus returns referrals whose status matches exactly.
func (db *DB) ListReferralsByStatus(ctx context.Context, status string) ([]model.Referral, error) {
	return db.queryReferrals(ctx,
		`SELECT id, ref_uid, email, submitted_at, status
		 FROM referrals
		 WHERE status = ?
		 ORDER BY id`, status)
}

func (db *DB) queryReferrals(ctx context.Context, query string, args ...any) ([]model.Referral, error) {
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing referrals: %w", err)
	}
	defer rows.Close()

	referrals := []model.Referral{}
	for rows.Next() {
		var r model.Referral
		if err := rows.Scan(
			&r.ID, &r.RefUID, &r.Email, &r.SubmittedAt, &r.Status,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning referral row: %w", err)
		}
		referrals = append(referrals, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating referrals: %w", err)
	}

	return referrals, nil
}

// UpdateReferralStatus sets the status of the referral identified by the
// (refUID, email) pair — referrals have no txid, so the pair is the closest
// thing to a natural key the table has.
func (db *DB) UpdateReferralStatus(ctx context.Context, refUID, email, status string) error {
	result, err := db.conn.ExecContext(ctx,
		`UPDATE referrals SET status = ? WHERE ref_uid = ? AND email = ?`,
		status, refUID, email,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating referral %s/%s: %w", refUID, email, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("referral", refUID+"/"+email)
	}

	return nil
}
