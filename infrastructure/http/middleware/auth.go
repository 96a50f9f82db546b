package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/verdeo/auth-service/application/port/outbound"
	"github.com/verdeo/auth-service/infrastructure/http/response"
)

type contextKey string

const claimsKey contextKey = "auth_claims"

type AuthMiddleware struct {
	tokens outbound.TokenService
}

func NewAuthMiddleware(tokens outbound.TokenService) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// RequireAuth validates the bearer token and rejects anything that is not a
// currently valid access token (a refresh token never authorizes API calls).
func (m *AuthMiddleware) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			response.Unauthorized(w, "authorization header required")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			response.Unauthorized(w, "invalid authorization header format")
			return
		}

		claims, err := m.tokens.Decode(parts[1])
		if err != nil {
			response.Unauthorized(w, "invalid or expired token")
			return
		}
		if claims.Purpose != outbound.TokenPurposeAccess {
			response.Unauthorized(w, "access token required")
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey, claims)
		next(w, r.WithContext(ctx))
	}
}

// ClaimsFrom returns the access-token claims stored by RequireAuth.
func ClaimsFrom(ctx context.Context) (*outbound.TokenClaims, bool) {
	claims, ok := ctx.Value(claimsKey).(*outbound.TokenClaims)
	return claims, ok
}
