package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/sakif/donation-raffle/internal/apperror"
	"github.com/sakif/donation-raffle/internal/model"
	"github.com/sakif/donation-raffle/internal/repository"
)

var _ repository.DonationRepository = (*DB)(nil)

// CreateDonation appends a new donation row.
//
// The caller decides the status (intake always passes Pending if empty).
// Donations have no natural primary key — the same txid can legitimately be
// resubmitted — so we let SQLite's AUTOINCREMENT assign the row ID, same as
// a sheet append takes the next free row.
func (db *DB) CreateDonation(ctx context.Context, d *model.Donation) error {
	d.SubmittedAt = time.Now()
	if d.Status == "" {
		d.Status = model.StatusPending
	}

	res, err := db.conn.ExecContext(ctx,
		`INSERT INTO donations (email, txid, amount, submitted_at, status)
		 VALUES (?, ?, ?, ?, ?)`,
		d.Email,
		d.TxID,
		d.Amount,
		d.SubmittedAt,
		d.Status,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating donation: %w", err)
	}

	// LastInsertId is reliable for SQLite AUTOINCREMENT columns.
	d.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading donation id: %w", err)
	}

	return nil
}

// ListDonations returns every donation row, oldest first.
//
// Yes, the whole table. The synchronization pass and the top-donors
// leaderboard both want a full scan with in-process filtering — that is the
// row-store contract this system was built on, and at raffle scale (a few
// thousand rows) it is nowhere near a bottleneck.
func (db *DB) ListDonations(ctx context.Context) ([]model.Donation, error) {
	return db.queryDonations(ctx,
		`SELECT id, email, txid, amount, submitted_at, status
		 FROM donations
		 ORDER BY id`)
}

// ListDonationsByStatus returns donations whose status matches exactly.
// Status comparison is case-sensitive — "approved" matches nothing.
func (db *DB) ListDonationsByStatus(ctx context.Context, status string) ([]model.Donation, error) {
	return db.queryDonations(ctx,
		`SELECT id, email, txid, amount, submitted_at, status
		 FROM donations
		 WHERE status = ?
		 ORDER BY id`, status)
}

// queryDonations runs a SELECT over the donations table and scans the rows.
//
// 1. defer rows.Close() — ABSOLUTELY CRITICAL:
//    sql.Rows holds a database connection from the pool. If you forget to
//    Close(), that connection is never returned to the pool. After enough
//    leaked connections, your app runs out and hangs forever.
//
// 2. Always check rows.Err() after the loop — it catches errors that
//    happened DURING iteration (connection dropping mid-scan, etc.).
func (db *DB) queryDonations(ctx context.Context, query string, args ...any) ([]model.Donation, error) {
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing donations: %w", err)
	}
	defer rows.Close()

	donations := []model.Donation{}
	for rows.Next() {
		var d model.Donation
		if err := rows.Scan(
			&d.ID, &d.Email, &d.TxID, &d.Amount,
			&d.SubmittedAt, &d.Status,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning donation row: %w", err)
		}
		donations = append(donations, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating donations: %w", err)
	}

	return donations, nil
}

// UpdateDonationStatus sets the status of every donation with the given txid.
//
// RowsAffected() tells us how many rows were changed by the UPDATE.
// If 0 rows were affected, the WHERE clause didn't match anything → not found.
func (db *DB) UpdateDonationStatus(ctx context.Context, txid, status string) error {
	result, err := db.conn.ExecContext(ctx,
		`UPDATE donations SET status = ? WHERE txid = ?`,
		status, txid,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating donation %s: %w", txid, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("donation", txid)
	}

	return nil
}
