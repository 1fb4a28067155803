package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	adminauth "github.com/nomadtreasures/adminauth"
)

type adminIDContextKey struct{}

// AdminIDFromContext returns the authenticated admin's user ID injected by
// [Guard].
func AdminIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(adminIDContextKey{}).(int64)
	return id, ok
}

// Guard wraps a handler so it only runs for requests carrying a valid admin
// session token. Every rejection is the same 401 JSON envelope; the
// response never says whether the token was absent, malformed, expired, or
// revoked.
func Guard(engine *adminauth.Engine) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if engine == nil {
				unauthorized(w)
				return
			}

			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				unauthorized(w)
				return
			}

			userID, err := engine.Validate(r.Context(), token)
			if err != nil {
				unauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), adminIDContextKey{}, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

type rejection struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// unauthorized writes the one rejection body every guarded endpoint
// answers with.
func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(rejection{Success: false, Error: "Invalid or expired token"})
}

func bearerToken(value string) (string, bool) {
	const bearer = "Bearer "
	if len(value) <= len(bearer) || !strings.EqualFold(value[:len(bearer)], bearer) {
		return "", false
	}

	token := value[len(bearer):]
	if token == "" {
		return "", false
	}

	return token, true
}
