package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"

	"github.com/Podhive/MVP/pkg/logger"
	"github.com/Podhive/MVP/pkg/token"
)

const identityKey contextKey = "identity"

// Identity is the authenticated caller attached to the request context.
type Identity struct {
	UserID string
	Role   string
}

// IdentityFrom extracts the caller identity set by RequireAuth.
func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}

// RequireAuth verifies the bearer token and attaches the caller identity.
// Applied per-route at registration, not globally, since most read
// endpoints are public.
func RequireAuth(tokens *token.Service, log *logger.Logger, next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		raw := bearerToken(r)
		if raw == "" {
			writeAuthError(w, http.StatusUnauthorized, "Authentication required")
			return
		}

		claims, err := tokens.Verify(raw)
		if err != nil {
			log.Warn("Rejected invalid token",
				"request_id", requestIDFrom(r.Context()),
				"path", r.URL.Path,
			)
			writeAuthError(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), identityKey, Identity{
			UserID: claims.UserID,
			Role:   claims.Role,
		})
		next(w, r.WithContext(ctx), ps)
	}
}

// RequireRole gates a route on the caller's role. Must wrap inside
// RequireAuth.
func RequireRole(role string, next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		id, ok := IdentityFrom(r.Context())
		if !ok {
			writeAuthError(w, http.StatusUnauthorized, "Authentication required")
			return
		}
		if id.Role != role {
			writeAuthError(w, http.StatusForbidden, "Access denied")
			return
		}
		next(w, r, ps)
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func writeAuthError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"error":"` + message + `"}`))
}
