package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

var errNoToken = errors.New("auth: missing bearer token")

// contextKey is an unexported type used for context keys in this package.
//
// WHY A CUSTOM TYPE FOR CONTEXT KEYS?
// context.WithValue uses any as the key type. If you use a plain string like
// context.WithValue(ctx, "operator", name), ANY package that knows the string
// can read or shadow your value. Using a package-private type prevents
// collisions: only THIS package can create a key of type contextKey.
type contextKey string

const operatorKey contextKey = "operator"

// RequireOperator is a middleware that guards the admin routes.
//
// It reads the JWT from the Authorization header ("Bearer <token>"),
// validates it, and stores the operator name in the request context. If the
// token is missing or invalid, it returns 401 Unauthorized and stops the
// request chain.
//
// Bearer header rather than a cookie: the admin API is driven from curl and
// scripts, not a browser session, so a header the caller sets explicitly is
// the simpler contract.
func RequireOperator(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			operator, err := extractOperator(r, tokens)
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				http.Error(w, `{"error":"unauthorized","message":"valid operator token required"}`, http.StatusUnauthorized)
				return
			}

			// Store the operator name in context so handlers can log it
			ctx := context.WithValue(r.Context(), operatorKey, operator)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OperatorFromContext retrieves the authenticated operator's name from the
// request context.
//
// Returns ("", false) if the request did not pass RequireOperator.
func OperatorFromContext(ctx context.Context) (string, bool) {
	name, ok := ctx.Value(operatorKey).(string)
	return name, ok && name != ""
}

// extractOperator reads the Authorization header and validates the token.
func extractOperator(r *http.Request, tokens *TokenService) (string, error) {
	header := r.Header.Get("Authorization")
	tokenStr, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || tokenStr == "" {
		return "", errNoToken
	}
	return tokens.Validate(tokenStr)
}
