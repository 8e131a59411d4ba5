package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"hrmweb/internal/platform/config"
)

func newTestApp(t *testing.T, backend http.Handler) *App {
	t.Helper()
	api := httptest.NewServer(backend)
	t.Cleanup(api.Close)

	cfg := config.FromEnv()
	cfg.Environment = "test"
	cfg.APIBaseURL = api.URL + "/api/v1"
	cfg.SessionStore = config.SessionStoreMemory
	cfg.SessionSecret = ""
	cfg.SessionSweepSchedule = "@every 1h"
	cfg.ToastTimeout = time.Minute

	app, err := New(t.Context(), cfg)
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	t.Cleanup(app.Close)
	return app
}

func serve(app *App, method, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestHealthAndReady(t *testing.T) {
	app := newTestApp(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	if rec := serve(app, http.MethodGet, "/healthz"); rec.Code != http.StatusOK {
		t.Fatalf("healthz: %d", rec.Code)
	}
	rec := serve(app, http.MethodGet, "/readyz")
	if rec.Code != http.StatusOK {
		t.Fatalf("readyz: %d %s", rec.Code, rec.Body.String())
	}
}

func TestReadyFailsWhenBackendIsDown(t *testing.T) {
	app := newTestApp(t, http.NotFoundHandler())
	app.Client.BaseURL = "http://127.0.0.1:1/api/v1"

	rec := serve(app, http.MethodGet, "/readyz")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestAnonymousPagesRedirectToLogin(t *testing.T) {
	app := newTestApp(t, http.NotFoundHandler())

	for _, path := range []string{"/dashboard", "/leaves", "/admin/roles", "/payroll"} {
		rec := serve(app, http.MethodGet, path)
		if rec.Code != http.StatusSeeOther || !strings.HasPrefix(rec.Header().Get("Location"), "/login?next=") {
			t.Fatalf("%s: expected login redirect, got %d %q", path, rec.Code, rec.Header().Get("Location"))
		}
	}
	if rec := serve(app, http.MethodGet, "/login"); rec.Code != http.StatusOK {
		t.Fatalf("login page: %d", rec.Code)
	}
}

func TestStaticNotFoundAndHeaders(t *testing.T) {
	app := newTestApp(t, http.NotFoundHandler())

	rec := serve(app, http.MethodGet, "/static/app.js")
	if rec.Code != http.StatusOK {
		t.Fatalf("static: %d", rec.Code)
	}
	if rec.Header().Get("X-Frame-Options") != "DENY" || rec.Header().Get("X-Request-ID") == "" {
		t.Fatal("expected security headers and request id")
	}

	rec = serve(app, http.MethodGet, "/no-such-page")
	if rec.Code != http.StatusNotFound || !strings.Contains(rec.Body.String(), "Page not found") {
		t.Fatalf("expected 404 page, got %d", rec.Code)
	}
}

func TestMetricsIncludesJobs(t *testing.T) {
	app := newTestApp(t, http.NotFoundHandler())

	rec := serve(app, http.MethodGet, "/internal/metrics")
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics: %d", rec.Code)
	}
	var body struct {
		Data map[string]any `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"upstreamCallsTotal", "toastSessions", "jobs"} {
		if _, ok := body.Data[key]; !ok {
			t.Fatalf("expected %s in metrics", key)
		}
	}
}

func TestNotificationsRequireSession(t *testing.T) {
	app := newTestApp(t, http.NotFoundHandler())

	if rec := serve(app, http.MethodGet, "/notifications/toast"); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
