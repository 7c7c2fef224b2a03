package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"

	"github.com/sakif/donation-raffle/internal/auth"
	"github.com/sakif/donation-raffle/internal/handler"
	"github.com/sakif/donation-raffle/internal/model"
)

const testOperatorKey = "correct-horse-battery"

// newAdminStack builds the admin handler plus the token service it issues
// tokens from. bcrypt.MinCost keeps the hash fast — cost only matters in
// production.
func newAdminStack(t *testing.T) (*testStack, *handler.AdminHandler, *auth.TokenService) {
	t.Helper()
	stack := newTestStack(t)

	hash, err := bcrypt.GenerateFromPassword([]byte(testOperatorKey), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash test key: %v", err)
	}
	tokens, err := auth.NewTokenService("test-secret-at-least-16-chars")
	if err != nil {
		t.Fatalf("failed to create token service: %v", err)
	}

	h := handler.NewAdminHandler(stack.intake, tokens, string(hash), testLogger())
	return stack, h, tokens
}

func TestAdminHandler_HandleLogin(t *testing.T) {
	_, h, _ := newAdminStack(t)

	t.Run("correct key", func(t *testing.T) {
		rr := postJSON(h.HandleLogin, "/admin/login", `{"key":"correct-horse-battery"}`)

		assert.Equal(t, http.StatusOK, rr.Code)

		var res struct {
			Token string `json:"token"`
		}
		err := json.NewDecoder(rr.Body).Decode(&res)
		assert.NoError(t, err)
		assert.NotEmpty(t, res.Token)
	})

	t.Run("wrong key", func(t *testing.T) {
		rr := postJSON(h.HandleLogin, "/admin/login", `{"key":"guessing"}`)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		// Same 401 as a wrong key — no hint about which part failed.
		rr := postJSON(h.HandleLogin, "/admin/login", `{"key":`)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestAdminHandler_StatusUpdates(t *testing.T) {
	stack, h, _ := newAdminStack(t)
	ctx := context.Background()

	if _, err := stack.intake.Donate(ctx, "tx-review", "donor@example.com", "ref-abc", 10); err != nil {
		t.Fatalf("failed to seed donation: %v", err)
	}

	t.Run("pending queue lists both rows", func(t *testing.T) {
		rr := getReq(h.HandlePending, "/admin/pending")

		assert.Equal(t, http.StatusOK, rr.Code)

		var res struct {
			Donations []model.Donation `json:"donations"`
			Referrals []model.Referral `json:"referrals"`
		}
		err := json.NewDecoder(rr.Body).Decode(&res)
		assert.NoError(t, err)
		assert.Len(t, res.Donations, 1)
		assert.Len(t, res.Referrals, 1)
	})

	t.Run("approve donation", func(t *testing.T) {
		rr := postJSON(h.HandleDonationStatus, "/admin/donations/status",
			`{"txid":"tx-review","status":"Approved"}`)
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("reject referral", func(t *testing.T) {
		rr := postJSON(h.HandleReferralStatus, "/admin/referrals/status",
			`{"refUID":"ref-abc","email":"donor@example.com","status":"Rejected"}`)
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("queue drains after review", func(t *testing.T) {
		rr := getReq(h.HandlePending, "/admin/pending")

		var res struct {
			Donations []model.Donation `json:"donations"`
			Referrals []model.Referral `json:"referrals"`
		}
		err := json.NewDecoder(rr.Body).Decode(&res)
		assert.NoError(t, err)
		assert.Empty(t, res.Donations)
		assert.Empty(t, res.Referrals)
	})

	t.Run("unknown txid", func(t *testing.T) {
		rr := postJSON(h.HandleDonationStatus, "/admin/donations/status",
			`{"txid":"tx-missing","status":"Approved"}`)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("illegal status", func(t *testing.T) {
		rr := postJSON(h.HandleDonationStatus, "/admin/donations/status",
			`{"txid":"tx-review","status":"Pending"}`)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

// TestAdminRoutes_RequireOperator checks the middleware contract from the
// outside: no token or a garbage token is 401, a freshly issued token passes.
func TestAdminRoutes_RequireOperator(t *testing.T) {
	_, h, tokens := newAdminStack(t)

	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireOperator(tokens))
		r.Get("/admin/pending", h.HandlePending)
	})

	t.Run("no token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin/pending", nil)
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin/pending", nil)
		req.Header.Set("Authorization", "Bearer not-a-jwt")
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("valid token", func(t *testing.T) {
		token, err := tokens.Generate("operator")
		assert.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/admin/pending", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})
}
