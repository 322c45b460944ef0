package middleware

import (
	"context"
	"net/http"

	"deptportal/internal/domain/auth"
	"deptportal/internal/platform/logging"
	"deptportal/internal/requestctx"
	"deptportal/internal/session"
)

type ctxKey string

const ctxKeySession ctxKey = "session"

// SessionSource resolves the browser session behind a request.
type SessionSource interface {
	Get(r *http.Request) (session.Session, bool)
}

// LoadSession attaches the session, when there is one, and forwards its API
// token to outbound calls.
func LoadSession(source SessionSource) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, ok := source.Get(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}
			ctx := WithSession(r.Context(), sess)
			ctx = requestctx.WithAPIToken(ctx, sess.Token)
			log := logging.FromContext(ctx).With().Str("role", sess.Role).Logger()
			next.ServeHTTP(w, r.WithContext(log.WithContext(ctx)))
		})
	}
}

func WithSession(ctx context.Context, sess session.Session) context.Context {
	return context.WithValue(ctx, ctxKeySession, sess)
}

func GetSession(ctx context.Context) (session.Session, bool) {
	sess, ok := ctx.Value(ctxKeySession).(session.Session)
	return sess, ok
}

// RequireSession redirects anonymous requests to the login page.
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetSession(r.Context()); !ok {
			http.Redirect(w, r, auth.RouteLogin, http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole lets through sessions holding role and sends any other signed-in
// user to their own landing page.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, ok := GetSession(r.Context())
			if !ok {
				http.Redirect(w, r, auth.RouteLogin, http.StatusSeeOther)
				return
			}
			if sess.Role == role {
				next.ServeHTTP(w, r)
				return
			}
			landing, err := auth.LandingRoute(sess.Role)
			if err != nil {
				landing = auth.RouteLogin
			}
			logging.FromContext(r.Context()).Warn().
				Str("want", role).
				Str("path", r.URL.Path).
				Msg("role mismatch, redirecting")
			http.Redirect(w, r, landing, http.StatusSeeOther)
		})
	}
}
