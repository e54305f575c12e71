package authapi

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"visaslot/cmd/internal/auth/token"
	"visaslot/cmd/internal/web"
)

type ctxKey int

const userIDKey ctxKey = iota

// RequireAuth verifies the bearer access token and injects the user id into
// the request context. Access-token validity is stateless: signature and
// expiry only, no store round trip.
func RequireAuth(codec *token.Codec) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearerToken(r)
			if raw == "" {
				web.ErrorCoded(w, http.StatusUnauthorized, "Access token is missing", web.CodeAccessTokenMissing)
				return
			}

			claims, err := codec.VerifyAccess(raw, time.Now().UTC())
			if err != nil {
				if errors.Is(err, token.ErrExpired) {
					web.ErrorCoded(w, http.StatusUnauthorized, "Access token has expired", web.CodeAccessTokenExpired)
					return
				}
				web.ErrorCoded(w, http.StatusUnauthorized, "Access token is invalid", web.CodeAccessTokenInvalid)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, claims.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserID returns the authenticated user id set by RequireAuth.
func UserID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok
}

func bearerToken(r *http.Request) string {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if raw == "" {
		return ""
	}
	parts := strings.SplitN(raw, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
