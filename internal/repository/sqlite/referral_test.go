package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/sakif/donation-raffle/internal/apperror"
	"github.com/sakif/donation-raffle/internal/model"
)

func submitTestReferral(t *testing.T, db *DB, refUID, email string) *model.Referral {
	t.Helper()
	r := &model.Referral{RefUID: refUID, Email: email}
	if err := db.CreateReferral(context.Background(), r); err != nil {
		t.Fatalf("failed to create test referral: %v", err)
	}
	return r
}

func TestCreateReferral(t *testing.T) {
	db := newTestDB(t)

	r := &model.Referral{RefUID: "ref-abc", Email: "newdonor@example.com"}

	err := db.CreateReferral(context.Background(), r)
	if err != nil {
		t.Fatalf("CreateReferral() error = %v", err)
	}

	if r.ID == 0 {
		t.Error("CreateReferral() did not set r.ID")
	}
	if r.SubmittedAt.IsZero() {
		t.Error("CreateReferral() did not set r.SubmittedAt")
	}
	if r.Status != model.StatusPending {
		t.Errorf("Status = %q, want %q", r.Status, model.StatusPending)
	}
}

func TestListReferrals_Empty(t *testing.T) {
	db := newTestDB(t)

	referrals, err := db.ListReferrals(context.Background())
	if err != nil {
		t.Fatalf("ListReferrals() error = %v", err)
	}

	if referrals == nil {
		t.Error("ListReferrals() returned nil, want empty slice")
	}
	if len(referrals) != 0 {
		t.Errorf("ListReferrals() returned %d rows, want 0", len(referrals))
	}
}

func TestListReferralsByStatus(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	submitTestReferral(t, db, "ref-a", "one@example.com")
	approved := submitTestReferral(t, db, "ref-b", "two@example.com")
	if err := db.UpdateReferralStatus(ctx, approved.RefUID, approved.Email, model.StatusApproved); err != nil {
		t.Fatalf("UpdateReferralStatus() error = %v", err)
	}

	got, err := db.ListReferralsByStatus(ctx, model.StatusApproved)
	if err != nil {
		t.Fatalf("ListReferralsByStatus() error = %v", err)
	}

	if len(got) != 1 {
		t.Fatalf("ListReferralsByStatus() returned %d rows, want 1", len(got))
	}
	if got[0].RefUID != "ref-b" {
		t.Errorf("RefUID = %q, want %q", got[0].RefUID, "ref-b")
	}
}

func TestUpdateReferralStatus_MatchesPair(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	// Same referrer, two different referred emails. Updating one pair must
	// leave the other row untouched.
	submitTestReferral(t, db, "ref-a", "one@example.com")
	submitTestReferral(t, db, "ref-a", "two@example.com")

	if err := db.UpdateReferralStatus(ctx, "ref-a", "one@example.com", model.StatusApproved); err != nil {
		t.Fatalf("UpdateReferralStatus() error = %v", err)
	}

	approved, err := db.ListReferralsByStatus(ctx, model.StatusApproved)
	if err != nil {
		t.Fatalf("ListReferralsByStatus() error = %v", err)
	}
	if len(approved) != 1 {
		t.Fatalf("got %d approved rows, want 1", len(approved))
	}
	if approved[0].Email != "one@example.com" {
		t.Errorf("approved Email = %q, want %q", approved[0].Email, "one@example.com")
	}
}

func TestUpdateReferralStatus_NotFound(t *testing.T) {
	db := newTestDB(t)

	err := db.UpdateReferralStatus(context.Background(), "ref-missing", "x@example.com", model.StatusApproved)

	if err == nil {
		t.Fatal("UpdateReferralStatus() should have returned an error for unknown pair")
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("UpdateReferralStatus() error = %v, want ErrNotFound", err)
	}
}
