package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/savorly/savorly/internal/infrastructure/http/respond"
	"github.com/savorly/savorly/internal/infrastructure/monitoring"
	"github.com/savorly/savorly/internal/ports/outbound"
	"github.com/savorly/savorly/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
)

type contextKey string

const (
	claimsKey contextKey = "claims"
	tokenKey  contextKey = "access_token"
)

// Authenticate requires a valid bearer access token and stores its claims
// in the request context
func (m *Middleware) Authenticate(tokens outbound.TokenService) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				respond.Error(w, r, m.logger, errors.NewUnauthorizedError("Authorization header required"))
				return
			}

			claims, err := tokens.ValidateAccessToken(r.Context(), token)
			if err != nil {
				respond.Error(w, r, m.logger, errors.NewUnauthorizedError("Invalid or expired token"))
				return
			}

			monitoring.AddSpanAttributes(r.Context(), attribute.String("enduser.id", claims.UserID.String()))

			ctx := WithClaims(r.Context(), claims, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}

// WithClaims stores verified token claims and the raw token in ctx
func WithClaims(ctx context.Context, claims *outbound.TokenClaims, token string) context.Context {
	ctx = context.WithValue(ctx, claimsKey, claims)
	return context.WithValue(ctx, tokenKey, token)
}

// ClaimsFromContext returns the claims stored by Authenticate
func ClaimsFromContext(ctx context.Context) (*outbound.TokenClaims, bool) {
	claims, ok := ctx.Value(claimsKey).(*outbound.TokenClaims)
	return claims, ok && claims != nil
}

// TokenFromContext returns the raw access token stored by Authenticate
func TokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenKey).(string)
	return token, ok
}
