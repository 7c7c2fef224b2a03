// Package sqlite implements the repository interfaces using SQLite as the storage backend.
//
// WHY SQLITE FOR A "SPREADSHEET" SYSTEM?
// The first version of this raffle stored everything in a Google Sheet —
// one named range per table, rows appended and updated over the Sheets API.
// SQLite keeps the exact same shape (four flat tables, append and update,
// no joins required) while removing the network round-trip and the service
// credentials. Each repository method still corresponds one-to-one to a
// sheet operation: List is a range read, Create is an append, UpdateStatus
// and score updates are cell writes.
//
// WHY modernc.org/sqlite INSTEAD OF github.com/mattn/go-sqlite3?
// mattn/go-sqlite3 uses CGo (calls C code from Go), which means you need a C compiler
// installed and cross-compilation becomes painful. modernc.org/sqlite is a pure Go
// translation of the SQLite C code — no C compiler needed, works everywhere Go works.
//
// DATABASE/SQL OVERVIEW:
// Go's standard library provides "database/sql" — a generic interface for SQL databases.
// It works with any database through "drivers" (SQLite, Postgres, MySQL, etc.).
// Key types:
//   - sql.DB      — a connection pool (NOT a single connection!)
//   - sql.Tx      — a transaction
//   - sql.Row     — a single result row
//   - sql.Rows    — multiple result rows (must be closed!)
//
// The pattern is always:
//  1. sql.Open(driverName, dataSourceName) → creates a pool
//  2. db.QueryContext / db.ExecContext     → runs queries
//  3. rows.Scan(&field1, &field2)          → reads results into Go variables
package sqlite

import (
	"database/sql"
	"fmt"

	// BLANK IMPORT:
	// The underscore import `_ "modernc.org/sqlite"` is a "side-effect only" import.
	// It doesn't give us any symbols to use directly. Instead, the sqlite package's
	// init() function registers itself with database/sql as a driver named "sqlite".
	// After this import, sql.Open("sqlite", ...) knows how to talk to SQLite.
	//
	// This is Go's plugin pattern — database drivers register themselves at init time.
	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection pool and provides repository methods.
//
// One struct implements all four repository interfaces (participants,
// donations, referrals, scores) — they share a connection pool and a
// lifecycle, so splitting them into four types would only add wiring.
type DB struct {
	conn *sql.DB
}

// New creates a new SQLite database connection and runs migrations.
//
// dbPath examples:
//   - "data/raffle.db"  → file-based database (persistent)
//   - ":memory:"        → in-memory database (great for tests, lost on close)
//
// CONNECTION POOL:
// sql.Open() does NOT actually open a connection — it just creates a pool manager.
// The first real connection happens when you run your first query.
// We call db.Ping() to force an immediate connection and verify it works.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// Ping verifies the connection actually works.
	// Without this, a bad path or permissions issue would only surface
	// on the first query — which is much harder to debug.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL (Write-Ahead Logging) mode:
	// Default SQLite locks the entire database during writes.
	// WAL mode allows concurrent reads WHILE a write is happening.
	// This is critical for a web server where multiple requests hit the DB.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the database connection pool.
//
// ALWAYS DEFER CLOSE:
// Wherever you call New(), immediately defer Close():
//
//	db, err := sqlite.New("data/raffle.db")
//	if err != nil { ... }
//	defer db.Close()
//
// This ensures the connection is cleaned up even if a panic occurs.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the four tables.
//
// The column layout mirrors the original sheet ranges:
//
//	Participants[uid, email, timestamp]
//	Donations[email, txid, amount, timestamp, status]
//	Referrals[refUID, email, timestamp, status]
//	Scores[email, score, timestamp]
//
// CREATE TABLE IF NOT EXISTS is idempotent — safe to run on every startup.
func (db *DB) migrate() error {
	// The email UNIQUE constraint is the registration invariant: no two
	// participants share an email. The repository surfaces violations as
	// apperror.Conflict, so the rule holds even under concurrent registers.
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS participants (
			uid           TEXT PRIMARY KEY,
			email         TEXT NOT NULL UNIQUE,
			registered_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating participants table: %w", err)
	}

	// Donations and referrals are append-only logs. No foreign keys on
	// email/ref_uid — the original sheet had none, and the system tolerates
	// dangling references silently (they just never score).
	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS donations (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			email        TEXT NOT NULL,
			txid         TEXT NOT NULL,
			amount       REAL NOT NULL,
			submitted_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			status       TEXT NOT NULL DEFAULT 'Pending'
		);
		CREATE INDEX IF NOT EXISTS idx_donations_status ON donations(status);
	`)
	if err != nil {
		return fmt.Errorf("creating donations table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS referrals (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			ref_uid      TEXT NOT NULL,
			email        TEXT NOT NULL,
			submitted_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			status       TEXT NOT NULL DEFAULT 'Pending'
		);
		CREATE INDEX IF NOT EXISTS idx_referrals_status ON referrals(status);
	`)
	if err != nil {
		return fmt.Errorf("creating referrals table: %w", err)
	}

	// One score row per key (email or participant UID). Derived state —
	// droppable and recomputable from the two tables above.
	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS scores (
			key        TEXT PRIMARY KEY,
			score      INTEGER NOT NULL DEFAULT 0,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating scores table: %w", err)
	}

	return nil
}
