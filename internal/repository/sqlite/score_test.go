package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/sakif/donation-raffle/internal/apperror"
	"github.com/sakif/donation-raffle/internal/model"
)

func TestCreateScoreAndGetScore(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	rec := &model.ScoreRecord{Key: "donor@example.com", Score: 12}
	if err := db.CreateScore(ctx, rec); err != nil {
		t.Fatalf("CreateScore() error = %v", err)
	}
	if rec.UpdatedAt.IsZero() {
		t.Error("CreateScore() did not set rec.UpdatedAt")
	}

	found, err := db.GetScore(ctx, "donor@example.com")
	if err != nil {
		t.Fatalf("GetScore() error = %v", err)
	}
	if found.Score != 12 {
		t.Errorf("Score = %d, want 12", found.Score)
	}
}

func TestGetScore_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.GetScore(context.Background(), "nobody@example.com")

	if err == nil {
		t.Fatal("GetScore() should have returned an error for unknown key")
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetScore() error = %v, want ErrNotFound", err)
	}
}

func TestUpdateScore(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	rec := &model.ScoreRecord{Key: "donor@example.com", Score: 12}
	if err := db.CreateScore(ctx, rec); err != nil {
		t.Fatalf("CreateScore() error = %v", err)
	}

	// The exact read-then-write sequence the sync pass performs.
	rec.Score += 15
	if err := db.UpdateScore(ctx, rec); err != nil {
		t.Fatalf("UpdateScore() error = %v", err)
	}

	found, err := db.GetScore(ctx, "donor@example.com")
	if err != nil {
		t.Fatalf("GetScore() after update error = %v", err)
	}
	if found.Score != 27 {
		t.Errorf("Score after update = %d, want 27", found.Score)
	}
}

func TestUpdateScore_NotFound(t *testing.T) {
	db := newTestDB(t)

	rec := &model.ScoreRecord{Key: "nobody@example.com", Score: 5}
	err := db.UpdateScore(context.Background(), rec)

	if err == nil {
		t.Fatal("UpdateScore() should have returned an error for unknown key")
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("UpdateScore() error = %v, want ErrNotFound", err)
	}
}

func TestListScores(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	// Empty table → empty (non-nil) slice.
	records, err := db.ListScores(ctx)
	if err != nil {
		t.Fatalf("ListScores() error = %v", err)
	}
	if records == nil {
		t.Error("ListScores() returned nil, want empty slice")
	}

	for _, rec := range []model.ScoreRecord{
		{Key: "a@example.com", Score: 10},
		{Key: "b@example.com", Score: 20},
	} {
		rec := rec
		if err := db.CreateScore(ctx, &rec); err != nil {
			t.Fatalf("CreateScore(%s) error = %v", rec.Key, err)
		}
	}

	records, err = db.ListScores(ctx)
	if err != nil {
		t.Fatalf("ListScores() error = %v", err)
	}
	if len(records) != 2 {
		t.Errorf("ListScores() returned %d records, want 2", len(records))
	}
}
