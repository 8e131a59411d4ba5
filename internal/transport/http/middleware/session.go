package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"hrmweb/internal/requestctx"
	"hrmweb/internal/session"
)

// Session loads the cookie-bound session, if any, into the request
// context. A stale cookie is cleared.
func Session(manager *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := manager.Load(r)
			switch {
			case err == nil:
				r = r.WithContext(requestctx.WithSession(r.Context(), sess))
			case errors.Is(err, session.ErrNotFound):
				if _, cookieErr := r.Cookie(session.CookieName); cookieErr == nil {
					manager.ClearCookie(w)
				}
			default:
				slog.Warn("session load failed", "requestId", GetRequestID(r.Context()), "err", err)
			}
			next.ServeHTTP(w, r)
		})
	}
}

func GetSession(r *http.Request) (*session.Session, bool) {
	return requestctx.GetSession(r.Context())
}
