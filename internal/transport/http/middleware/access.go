package middleware

import (
	"net/http"
	"net/url"

	"hrmweb/internal/domain/auth"
	"hrmweb/internal/session"
)

const LoginPath = "/login"

// RequireAuth sends anonymous visitors to the login page, remembering
// where they were headed for GET requests.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, ok := GetSession(r)
		if !ok || sess.State() != session.Authenticated {
			RedirectToLogin(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireScreen lets through only roles allowed on screen; others get
// deny, which renders the 403 page.
func RequireScreen(screen string, deny http.Handler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, ok := GetSession(r)
			if !ok || sess.State() != session.Authenticated {
				RedirectToLogin(w, r)
				return
			}
			if !auth.CanAccess(sess.User.Role, screen) {
				deny.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func RedirectToLogin(w http.ResponseWriter, r *http.Request) {
	target := LoginPath
	if r.Method == http.MethodGet && r.URL.Path != "/" {
		target += "?next=" + url.QueryEscape(r.URL.RequestURI())
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
