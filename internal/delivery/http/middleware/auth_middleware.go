package middleware

import (
	"context"
	"net/http"
	"strings"

	"clinic-scheduler/pkg/jwt"
	"clinic-scheduler/pkg/response"

	"github.com/google/uuid"
)

type claimsKey struct{}

// TokenChecker reports whether an issued access token is still valid
type TokenChecker interface {
	Exists(ctx context.Context, tokenType jwt.TokenType, userID uuid.UUID, tokenID string) (bool, error)
}

type AuthMiddleware struct {
	jwtService   *jwt.JWTService
	tokenChecker TokenChecker
}

func NewAuthMiddleware(jwtService *jwt.JWTService, tokenChecker TokenChecker) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService:   jwtService,
		tokenChecker: tokenChecker,
	}
}

// Authenticate accepts only live access tokens: signed, unexpired and still
// present in the token store.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			response.Unauthorized(w, "Authorization header is required")
			return
		}
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || raw == "" {
			response.Unauthorized(w, "Invalid authorization header format")
			return
		}

		claims, err := m.jwtService.Parse(raw, jwt.AccessToken)
		if err != nil {
			response.Unauthorized(w, "Invalid or expired token")
			return
		}

		live, err := m.tokenChecker.Exists(r.Context(), jwt.AccessToken, claims.UserID, claims.TokenID)
		if err != nil {
			response.InternalServerError(w, "Failed to validate token")
			return
		}
		if !live {
			response.Unauthorized(w, "Token has been revoked")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
	})
}

// WithClaims attaches the caller identity to ctx
func WithClaims(ctx context.Context, claims *jwt.Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

func claimsFrom(ctx context.Context) (*jwt.Claims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(*jwt.Claims)
	return claims, ok && claims != nil
}

func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	claims, ok := claimsFrom(ctx)
	if !ok {
		return uuid.Nil, false
	}
	return claims.UserID, true
}

func GetRoleIDFromContext(ctx context.Context) (int, bool) {
	claims, ok := claimsFrom(ctx)
	if !ok {
		return 0, false
	}
	return claims.RoleID, true
}

func GetTokenIDFromContext(ctx context.Context) (string, bool) {
	claims, ok := claimsFrom(ctx)
	if !ok {
		return "", false
	}
	return claims.TokenID, true
}
