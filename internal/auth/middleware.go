package auth

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/coreos/go-oidc/v3/oidc"
)

type contextKey string

const userIDKey contextKey = "user_id"

// NewVerifier builds an OIDC token verifier from the OIDC_ISSUER env var.
// Returns nil when no issuer is configured, in which case all requests are
// treated as anonymous.
func NewVerifier() (*oidc.IDTokenVerifier, error) {
	issuer := os.Getenv("OIDC_ISSUER") // e.g. http://auth.ticketly.com:8080/realms/event-registration
	if issuer == "" {
		return nil, nil
	}

	provider, err := oidc.NewProvider(context.Background(), issuer)
	if err != nil {
		return nil, fmt.Errorf("failed to create OIDC provider: %w", err)
	}

	// SkipClientIDCheck: tokens from any client in the realm are accepted.
	return provider.Verifier(&oidc.Config{
		SkipClientIDCheck: true,
	}), nil
}

// Optional verifies a Bearer token when one is presented and attaches the
// subject to the request context. Requests without a token pass through as
// anonymous; registration then resolves them to a guest identity from the
// attendee email. A token that is present but invalid is still rejected.
func Optional(verifier *oidc.IDTokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" || verifier == nil {
				next.ServeHTTP(w, r)
				return
			}

			rawToken, err := ExtractTokenFromRequest(r)
			if err != nil {
				http.Error(w, err.Error(), http.StatusUnauthorized)
				return
			}

			idToken, err := verifier.Verify(r.Context(), rawToken)
			if err != nil {
				http.Error(w, fmt.Sprintf("invalid token: %v", err), http.StatusUnauthorized)
				return
			}

			var claims struct {
				Sub string `json:"sub"`
			}
			if err := idToken.Claims(&claims); err != nil {
				http.Error(w, "failed to parse claims", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), claims.Sub)))
		})
	}
}

// Require wraps Optional and additionally rejects anonymous requests. Used
// for the registration-listing endpoints.
func Require(verifier *oidc.IDTokenVerifier) func(http.Handler) http.Handler {
	optional := Optional(verifier)
	return func(next http.Handler) http.Handler {
		return optional(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if UserID(r.Context()) == "" {
				http.Error(w, "missing Authorization header", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		}))
	}
}

// WithUserID returns a context carrying an authenticated user ID.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserID extracts the authenticated user ID from the context; empty means
// anonymous.
func UserID(ctx context.Context) string {
	if uid, ok := ctx.Value(userIDKey).(string); ok {
		return uid
	}
	return ""
}
