package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sakif/donation-raffle/internal/handler"
	"github.com/sakif/donation-raffle/internal/model"
)

// seedApprovedDonation pushes a donation through the intake service and
// approves it, same as an operator would.
func seedApprovedDonation(t *testing.T, stack *testStack, txid, email string, amount float64) {
	t.Helper()
	ctx := context.Background()
	if _, err := stack.intake.Donate(ctx, txid, email, "", amount); err != nil {
		t.Fatalf("failed to seed donation: %v", err)
	}
	if err := stack.intake.SetDonationStatus(ctx, txid, model.StatusApproved); err != nil {
		t.Fatalf("failed to approve donation: %v", err)
	}
}

func TestScoresHandler_HandleSyncScores(t *testing.T) {
	stack := newTestStack(t)
	h := handler.NewScoresHandler(stack.scores, testLogger())

	t.Run("nothing approved", func(t *testing.T) {
		rr := getReq(h.HandleSyncScores, "/sync-scores")

		assert.Equal(t, http.StatusOK, rr.Code)

		var res struct {
			Message string `json:"message"`
			Updated int    `json:"updated"`
		}
		err := json.NewDecoder(rr.Body).Decode(&res)
		assert.NoError(t, err)
		assert.Equal(t, 0, res.Updated)
	})

	t.Run("approved donation scores on sync", func(t *testing.T) {
		seedApprovedDonation(t, stack, "tx-sync", "donor@example.com", 7)

		rr := getReq(h.HandleSyncScores, "/sync-scores")

		assert.Equal(t, http.StatusOK, rr.Code)

		var res struct {
			Updated int `json:"updated"`
		}
		err := json.NewDecoder(rr.Body).Decode(&res)
		assert.NoError(t, err)
		assert.Equal(t, 1, res.Updated)

		// 7 lands in the [5, 10] tier → 12 points on the score board.
		rr = getReq(h.HandleTopScores, "/top-scores")
		assert.Equal(t, http.StatusOK, rr.Code)

		var scores []struct {
			Email string `json:"email"`
			Score int    `json:"score"`
		}
		err = json.NewDecoder(rr.Body).Decode(&scores)
		assert.NoError(t, err)
		assert.Len(t, scores, 1)
		assert.Equal(t, "donor@example.com", scores[0].Email)
		assert.Equal(t, 12, scores[0].Score)
	})
}

func TestScoresHandler_HandleTopDonors(t *testing.T) {
	stack := newTestStack(t)
	h := handler.NewScoresHandler(stack.scores, testLogger())

	t.Run("empty board serializes as array", func(t *testing.T) {
		rr := getReq(h.HandleTopDonors, "/top-donors")

		assert.Equal(t, http.StatusOK, rr.Code)
		// The front-end iterates the response — it must be [], never null.
		assert.Equal(t, "[]", strings.TrimSpace(rr.Body.String()))
	})

	t.Run("wire shape mirrors uid/chances", func(t *testing.T) {
		seedApprovedDonation(t, stack, "tx-1", "donor@example.com", 25)

		rr := getReq(h.HandleTopDonors, "/top-donors")
		assert.Equal(t, http.StatusOK, rr.Code)

		var donors []struct {
			UID     string `json:"uid"`
			Email   string `json:"email"`
			Chances int    `json:"chances"`
			Total   int    `json:"total"`
		}
		err := json.NewDecoder(rr.Body).Decode(&donors)
		assert.NoError(t, err)
		assert.Len(t, donors, 1)
		assert.Equal(t, "donor@example.com", donors[0].Email)
		assert.Equal(t, donors[0].Email, donors[0].UID)
		assert.Equal(t, 63, donors[0].Total)
		assert.Equal(t, donors[0].Total, donors[0].Chances)
	})
}

func TestScoresHandler_HandleTopReferrals(t *testing.T) {
	stack := newTestStack(t)
	h := handler.NewScoresHandler(stack.scores, testLogger())
	ctx := context.Background()

	t.Run("empty board serializes as array", func(t *testing.T) {
		rr := getReq(h.HandleTopReferrals, "/top-referrals")

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "[]", strings.TrimSpace(rr.Body.String()))
	})

	t.Run("counts approved referrals per referrer", func(t *testing.T) {
		for _, email := range []string{"a@example.com", "b@example.com"} {
			if _, err := stack.intake.Donate(ctx, "tx-"+email, email, "ref-busy", 10); err != nil {
				t.Fatalf("failed to seed referral: %v", err)
			}
			if err := stack.intake.SetReferralStatus(ctx, "ref-busy", email, model.StatusApproved); err != nil {
				t.Fatalf("failed to approve referral: %v", err)
			}
		}

		rr := getReq(h.HandleTopReferrals, "/top-referrals")
		assert.Equal(t, http.StatusOK, rr.Code)

		var referrers []struct {
			UID   string `json:"uid"`
			Count int    `json:"count"`
		}
		err := json.NewDecoder(rr.Body).Decode(&referrers)
		assert.NoError(t, err)
		assert.Len(t, referrers, 1)
		assert.Equal(t, "ref-busy", referrers[0].UID)
		assert.Equal(t, 2, referrers[0].Count)
	})
}

func TestScoresHandler_HandleTopScores_Empty(t *testing.T) {
	stack := newTestStack(t)
	h := handler.NewScoresHandler(stack.scores, testLogger())

	rr := getReq(h.HandleTopScores, "/top-scores")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rr.Body.String()))
}
