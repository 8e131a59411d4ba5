package middleware

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"hrmweb/internal/requestctx"
	"hrmweb/internal/session"
)

func loginPost(email, addr string) *http.Request {
	form := url.Values{"email": {email}, "password": {"x"}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.RemoteAddr = addr
	return req
}

func TestRateLimitUsesSessionUserBeforeIPFallback(t *testing.T) {
	limited := RateLimit(1, time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	sess := &session.Session{ID: "s1", Token: "tok", User: session.User{ID: "user-1"}}

	first := httptest.NewRequest(http.MethodPost, "/payroll/generate", nil)
	first = first.WithContext(requestctx.WithSession(first.Context(), sess))
	first.RemoteAddr = "198.51.100.11:2222"
	firstRec := httptest.NewRecorder()
	limited.ServeHTTP(firstRec, first)
	if firstRec.Code != http.StatusNoContent {
		t.Fatalf("expected first request to pass, got %d", firstRec.Code)
	}

	second := httptest.NewRequest(http.MethodPost, "/payroll/generate", nil)
	second = second.WithContext(requestctx.WithSession(second.Context(), sess))
	second.RemoteAddr = "198.51.100.12:3333"
	secondRec := httptest.NewRecorder()
	limited.ServeHTTP(secondRec, second)
	if secondRec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected second request to be throttled by user key, got %d", secondRec.Code)
	}
	if secondRec.Header().Get("Retry-After") == "" {
		t.Fatal("expected Retry-After header")
	}
}

func TestLoginRateLimitByEmailAcrossIPs(t *testing.T) {
	calls := 0
	limited := LoginRateLimit(1, time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	limited.ServeHTTP(rec, loginPost("A@example.com", "203.0.113.10:4444"))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected first attempt to pass, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	limited.ServeHTTP(rec, loginPost("a@example.com", "203.0.113.99:5555"))
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected same e-mail to be throttled from another ip, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	limited.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/login", nil))
	if rec.Code != http.StatusNoContent || calls != 2 {
		t.Fatalf("expected GET to bypass the limiter, got %d after %d calls", rec.Code, calls)
	}
}

func TestRateLimitCustomDeny(t *testing.T) {
	deny := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	limited := LoginRateLimit(1, time.Minute, WithDeny(deny))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	limited.ServeHTTP(httptest.NewRecorder(), loginPost("x@example.com", "192.0.2.1:1"))
	rec := httptest.NewRecorder()
	limited.ServeHTTP(rec, loginPost("x@example.com", "192.0.2.1:1"))
	if rec.Code != http.StatusTeapot {
		t.Fatalf("expected custom deny, got %d", rec.Code)
	}
}
