package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/saulo-duarte/prepmate-api/internal/config"
)

type ctxKey struct{}

var ErrNoClaims = errors.New("no claims in context")

func GetClaimsFromContext(ctx context.Context) (*Claims, error) {
	claims, ok := ctx.Value(ctxKey{}).(*Claims)
	if !ok || claims == nil {
		return nil, ErrNoClaims
	}
	return claims, nil
}

// RequireAdmin rejects requests without a valid admin bearer token.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := config.WithContext(r.Context())

		header := r.Header.Get("Authorization")
		tokenStr, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(tokenStr) == "" {
			config.Message(w, http.StatusUnauthorized, "Admin token required")
			return
		}

		claims, err := ValidateJWT(strings.TrimSpace(tokenStr))
		if err != nil {
			log.WithError(err).Warn("rejected admin token")
			config.Message(w, http.StatusUnauthorized, "Invalid admin token")
			return
		}
		if claims.Role != RoleAdmin {
			config.Message(w, http.StatusForbidden, "Admin role required")
			return
		}

		ctx := context.WithValue(r.Context(), ctxKey{}, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
