package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/donation-raffle/internal/apperror"
	"github.com/sakif/donation-raffle/internal/model"
	"github.com/sakif/donation-raffle/internal/repository"
)

// COMPILE-TIME INTERFACE CHECK:
// This line verifies AT COMPILE TIME that *DB implements repository.ParticipantRepository.
//
// How it works:
//   - `var _ X = (*Y)(nil)` creates a nil pointer of type *Y
//   - It assigns it to a variable of type X (the interface)
//   - If *Y doesn't implement X, the compiler errors immediately
//   - The `_` means we don't actually use the variable — it's just a check
//
// Without this, you'd only discover a missing method when you try to pass
// *DB to something that expects ParticipantRepository — which could be much later.
var _ repository.ParticipantRepository = (*DB)(nil)

// CreateParticipant inserts a new participant.
//
// ID GENERATION WITH xid:
// xid generates globally unique IDs that are:
//   - 20 chars, URL-safe (no special characters)
//   - Sortable by creation time (they start with a timestamp)
//   - Example: "cv37rs3pp9olc6atsptg"
//
// The UID doubles as the participant's referral code, so it ends up in
// shared links — short and URL-safe matters here.
//
// The service checks for an existing email before calling Create, but two
// concurrent registrations can both pass that check. The UNIQUE constraint
// on email is the backstop: the second insert fails and is translated to
// apperror.Conflict, so exactly one of the two callers wins.
func (db *DB) CreateParticipant(ctx context.Context, p *model.Participant) error {
	p.UID = xid.New().String()
	p.RegisteredAt = time.Now()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO participants (uid, email, registered_at)
		 VALUES (?, ?, ?)`,
		p.UID,
		p.Email,
		p.RegisteredAt,
	)
	if err != nil {
		// modernc.org/sqlite reports constraint violations as plain errors
		// with "UNIQUE constraint failed" in the message — there's no typed
		// error to check against, so we match on the text.
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return apperror.Conflict("participant", p.Email)
		}
		return fmt.Errorf("sqlite: creating participant: %w", err)
	}

	return nil
}

// GetParticipantByEmail retrieves a participant by email.
// Returns apperror.ErrNotFound if no participant has registered that email.
func (db *DB) GetParticipantByEmail(ctx context.Context, email string) (*model.Participant, error) {
	var p model.Participant

	err := db.conn.QueryRowContext(ctx,
		`SELECT uid, email, registered_at
		 FROM participants
		 WHERE email = ?`,
		email,
	).Scan(
		&p.UID,
		&p.Email,
		&p.RegisteredAt,
	)
	if err != nil {
		// sql.ErrNoRows is a sentinel error — we check with ==
		// (not errors.Is, because database/sql doesn't wrap it)
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("participant", email)
		}
		return nil, fmt.Errorf("sqlite: getting participant %s: %w", email, err)
	}

	return &p, nil
}
