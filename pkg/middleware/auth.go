package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	apperrors "github.com/bally3399/chord001-monograms/pkg/errors"
	"github.com/bally3399/chord001-monograms/pkg/httputil"
	"github.com/bally3399/chord001-monograms/pkg/logger"
)

type contextKeyType string

const (
	viewerIDKey     contextKeyType = "viewer_id"
	adminSessionKey contextKeyType = "admin_session"
)

// AdminSessionHeader carries the opaque admin session token.
const AdminSessionHeader = "X-Admin-Session"

// TokenVerifier validates a bearer token and returns the viewer ID it was issued to.
type TokenVerifier func(token string) (viewerID string, err error)

// SessionChecker reports whether an admin session token is currently valid.
type SessionChecker func(ctx context.Context, token string) (bool, error)

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	if h == "" {
		return "", false
	}
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(token) == "" {
		return "", true
	}
	return strings.TrimSpace(token), true
}

// Authenticate resolves the viewer from an optional Bearer token. Requests
// without a token continue as anonymous; a present but invalid token is 401.
func Authenticate(verify TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, present := bearerToken(r)
			if !present {
				next.ServeHTTP(w, r)
				return
			}
			if token == "" {
				httputil.WriteError(w, r, apperrors.Unauthorized("invalid authorization header format"), nil)
				return
			}

			viewerID, err := verify(token)
			if err != nil || viewerID == "" {
				httputil.WriteError(w, r, apperrors.Unauthorized("invalid or expired token"), nil)
				return
			}

			ctx := context.WithValue(r.Context(), viewerIDKey, viewerID)
			ctx = logger.WithViewerID(ctx, viewerID)
			ctx = logger.NewContext(ctx, logger.FromContext(ctx).With(slog.String("viewer_id", viewerID)))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireViewer rejects anonymous requests with 401.
func RequireViewer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ViewerIDFromContext(r.Context()) == "" {
			httputil.WriteError(w, r, apperrors.NotAuthenticated(), nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin admits requests carrying a live admin session token.
func RequireAdmin(check SessionChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get(AdminSessionHeader)
			if token == "" {
				httputil.WriteError(w, r, apperrors.Unauthorized("admin session required"), nil)
				return
			}

			ok, err := check(r.Context(), token)
			if err != nil {
				httputil.WriteError(w, r, apperrors.Wrap(apperrors.ErrServiceUnavail, "check admin session"), nil)
				return
			}
			if !ok {
				httputil.WriteError(w, r, apperrors.Unauthorized("admin session expired"), nil)
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), adminSessionKey, token)))
		})
	}
}

// ViewerIDFromContext returns the authenticated viewer ID, or "" for anonymous requests.
func ViewerIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(viewerIDKey).(string); ok {
		return id
	}
	return ""
}

// AdminSessionFromContext returns the admin session token admitted by RequireAdmin.
func AdminSessionFromContext(ctx context.Context) string {
	if tok, ok := ctx.Value(adminSessionKey).(string); ok {
		return tok
	}
	return ""
}

// WithViewerID stores a viewer ID in ctx. Used by handler tests.
func WithViewerID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, viewerIDKey, id)
}
