package middleware

import (
	"net/http"
	"strings"
)

const googleIdentityOrigin = "https://accounts.google.com"

// SecureHeaders sets the browser hardening headers. allowGoogle opens the
// CSP for the Google Identity Services button on the login page.
func SecureHeaders(isProd, allowGoogle bool) func(http.Handler) http.Handler {
	scriptSrc := []string{"'self'"}
	frameSrc := []string{"'none'"}
	connectSrc := []string{"'self'"}
	if allowGoogle {
		scriptSrc = append(scriptSrc, googleIdentityOrigin+"/gsi/client")
		frameSrc = []string{googleIdentityOrigin}
		connectSrc = append(connectSrc, googleIdentityOrigin+"/gsi/")
	}
	csp := strings.Join([]string{
		"default-src 'self'",
		"base-uri 'self'",
		"form-action 'self'",
		"frame-ancestors 'none'",
		"object-src 'none'",
		"img-src 'self' data:",
		"style-src 'self' 'unsafe-inline'",
		"script-src " + strings.Join(scriptSrc, " "),
		"frame-src " + strings.Join(frameSrc, " "),
		"connect-src " + strings.Join(connectSrc, " "),
	}, "; ")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			headers := w.Header()
			headers.Set("X-Content-Type-Options", "nosniff")
			headers.Set("X-Frame-Options", "DENY")
			headers.Set("Referrer-Policy", "same-origin")
			headers.Set("Permissions-Policy", "geolocation=(), microphone=(), camera=(), payment=()")
			headers.Set("Content-Security-Policy", csp)
			if allowGoogle {
				headers.Set("Cross-Origin-Opener-Policy", "same-origin-allow-popups")
			} else {
				headers.Set("Cross-Origin-Opener-Policy", "same-origin")
			}
			headers.Set("Cross-Origin-Resource-Policy", "same-origin")
			headers.Set("Cache-Control", "no-store")
			if isProd {
				headers.Set("Strict-Transport-Security", "max-age=63072000; includeSubDomains; preload")
			}
			next.ServeHTTP(w, r)
		})
	}
}
