package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/hal-directory/backend/internal/domain/entities"
	apperrors "github.com/hal-directory/backend/pkg/errors"
)

type principalKey struct{}

// Authenticator resolves a bearer token to a principal
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (entities.Principal, error)
}

// RequireAuth rejects requests without a valid bearer token and stores the
// principal in the request context
func RequireAuth(auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				writeError(w, http.StatusUnauthorized, "Not authenticated")
				return
			}

			principal, err := auth.Authenticate(r.Context(), token)
			if err != nil {
				var appErr *apperrors.AppError
				if errors.As(err, &appErr) && appErr.Type == apperrors.ErrorTypeUnauthorized {
					writeError(w, http.StatusUnauthorized, appErr.Message)
					return
				}
				writeError(w, http.StatusInternalServerError, "internal server error")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
		})
	}
}

// WithPrincipal returns a copy of ctx carrying principal
func WithPrincipal(ctx context.Context, principal entities.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, principal)
}

// PrincipalFromContext returns the authenticated principal, if any
func PrincipalFromContext(ctx context.Context) (entities.Principal, bool) {
	principal, ok := ctx.Value(principalKey{}).(entities.Principal)
	return principal, ok
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func writeError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	if code == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", "Bearer")
	}
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
