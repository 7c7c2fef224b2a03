package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sakif/donation-raffle/internal/apperror"
	"github.com/sakif/donation-raffle/internal/model"
	"github.com/sakif/donation-raffle/internal/repository"
)

var _ repository.ScoreRepository = (*DB)(nil)

// GetScore retrieves the score record for one key (email or participant UID).
// Returns apperror.ErrNotFound if the key has never scored.
func (db *DB) GetScore(ctx context.Context, key string) (*model.ScoreRecord, error) {
	var rec model.ScoreRecord

	err := db.conn.QueryRowContext(ctx,
		`SELECT key, score, updated_at FROM scores WHERE key = ?`,
		key,
	).Scan(&rec.Key, &rec.Score, &rec.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("score", key)
		}
		return nil, fmt.Errorf("sqlite: getting score %s: %w", key, err)
	}

	return &rec, nil
}

// CreateScore inserts a fresh score record.
//
// NOTE ON ATOMICITY — READ THIS BEFORE "IMPROVING" IT:
// The synchronization pass does Get → add → Update/Create with no
// transaction around the pair, exactly like the spreadsheet-backed original
// (read a cell, write a cell). Two overlapping synchronization runs can
// therefore lose an update. That race is an accepted property of the
// system: sync is operator-triggered and effectively single-writer. An
// UPSERT with `score = score + ?` would close the window but silently
// change the documented contract, so we don't.
func (db *DB) CreateScore(ctx context.Context, rec *model.ScoreRecord) error {
	rec.UpdatedAt = time.Now()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO scores (key, score, updated_at) VALUES (?, ?, ?)`,
		rec.Key, rec.Score, rec.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating score %s: %w", rec.Key, err)
	}

	return nil
}

// UpdateScore overwrites the stored score for rec.Key.
func (db *DB) UpdateScore(ctx context.Context, rec *model.ScoreRecord) error {
	rec.UpdatedAt = time.Now()

	result, err := db.conn.ExecContext(ctx,
		`UPDATE scores SET score = ?, updated_at = ? WHERE key = ?`,
		rec.Score, rec.UpdatedAt, rec.Key,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating score %s: %w", rec.Key, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("score", rec.Key)
	}

	return nil
}

// ListScores returns every score record. Callers sort — the leaderboard
// order (score descending) is a presentation decision, not a storage one.
func (db *DB) ListScores(ctx context.Context) ([]model.ScoreRecord, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT key, score, updated_at FROM scores`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing scores: %w", err)
	}
	defer rows.Close()

	records := []model.ScoreRecord{}
	for rows.Next() {
		var rec model.ScoreRecord
		if err := rows.Scan(&rec.Key, &rec.Score, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning score row: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating scores: %w", err)
	}

	return records, nil
}
