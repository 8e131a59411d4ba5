// Package handlertest wires page handlers to a fake backend for tests.
package handlertest

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"hrmweb/internal/apiclient"
	"hrmweb/internal/domain/audit"
	"hrmweb/internal/notify"
	"hrmweb/internal/session"
	"hrmweb/internal/transport/http/middleware"
	"hrmweb/internal/transport/http/shared"
	"hrmweb/internal/transport/http/views"
)

const APIPrefix = "/api/v1"

// Backend is a chi-routed stand-in for the REST backend. It records the
// Authorization header of every call.
type Backend struct {
	Router chi.Router
	Server *httptest.Server

	mu    sync.Mutex
	calls []Call
}

type Call struct {
	Method        string
	Path          string
	Query         url.Values
	Authorization string
}

func NewBackend(t testing.TB) *Backend {
	t.Helper()
	b := &Backend{Router: chi.NewRouter()}
	b.Server = httptest.NewServer(http.StripPrefix(APIPrefix, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.calls = append(b.calls, Call{
			Method:        r.Method,
			Path:          r.URL.Path,
			Query:         r.URL.Query(),
			Authorization: r.Header.Get("Authorization"),
		})
		b.mu.Unlock()
		b.Router.ServeHTTP(w, r)
	})))
	t.Cleanup(b.Server.Close)
	return b
}

func (b *Backend) URL() string {
	return b.Server.URL + APIPrefix
}

func (b *Backend) Calls() []Call {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Call, len(b.calls))
	copy(out, b.calls)
	return out
}

// Count reports how many calls hit method and path.
func (b *Backend) Count(method, path string) int {
	n := 0
	for _, c := range b.Calls() {
		if c.Method == method && c.Path == path {
			n++
		}
	}
	return n
}

// JSON writes data inside the backend's success envelope.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"success": status < 400, "data": data})
}

func Fail(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "message": message})
}

type Harness struct {
	T        *testing.T
	Backend  *Backend
	Client   *apiclient.Client
	Store    *session.MemoryStore
	Sessions *session.Manager
	Toasts   *notify.Hub
	Audit    *audit.Service
	Web      *shared.Web
	Router   chi.Router
}

func New(t *testing.T) *Harness {
	t.Helper()
	backend := NewBackend(t)
	store := session.NewMemoryStore()
	sessions := session.NewManager(store, time.Hour, false)
	toasts := notify.NewHub(time.Minute)
	web := shared.NewWeb(views.MustRenderer(), sessions, toasts, "")
	web.Audit = audit.NewService(audit.NewMemoryStore(100))
	client := apiclient.New(backend.URL(), 5*time.Second, nil)
	client.OnUnauthorized = web.Unauthorized

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Session(sessions))
	return &Harness{
		T:        t,
		Backend:  backend,
		Client:   client,
		Store:    store,
		Sessions: sessions,
		Toasts:   toasts,
		Audit:    web.Audit,
		Web:      web,
		Router:   router,
	}
}

// Login creates an authenticated session directly in the store.
func (h *Harness) Login(role string) *http.Cookie {
	h.T.Helper()
	rec := httptest.NewRecorder()
	user := session.User{ID: "user-" + role, Name: "Test " + role, Email: role + "@example.com", Role: role}
	if _, err := h.Sessions.Start(h.T.Context(), rec, "token-"+role, user); err != nil {
		h.T.Fatalf("start session: %v", err)
	}
	for _, c := range rec.Result().Cookies() {
		if c.Name == session.CookieName {
			return c
		}
	}
	h.T.Fatal("no session cookie")
	return nil
}

// Session returns the stored session behind cookie, or nil once it is gone.
func (h *Harness) Session(cookie *http.Cookie) *session.Session {
	sess, err := h.Store.Get(h.T.Context(), cookie.Value)
	if err != nil {
		return nil
	}
	return sess
}

// Toast returns the visible toast of the session behind cookie.
func (h *Harness) Toast(cookie *http.Cookie) (notify.Toast, bool) {
	return h.Toasts.For(cookie.Value).Current()
}

func (h *Harness) Do(req *http.Request, cookie *http.Cookie) *httptest.ResponseRecorder {
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	h.Router.ServeHTTP(rec, req)
	return rec
}

func (h *Harness) Get(path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	return h.Do(httptest.NewRequest(http.MethodGet, path, nil), cookie)
}

func (h *Harness) PostForm(path string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return h.Do(req, cookie)
}

type File struct {
	Field string
	Name  string
	Data  []byte
}

func (h *Harness) PostMultipart(path string, fields url.Values, files []File, cookie *http.Cookie) *httptest.ResponseRecorder {
	h.T.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for key, values := range fields {
		for _, v := range values {
			if err := mw.WriteField(key, v); err != nil {
				h.T.Fatal(err)
			}
		}
	}
	for _, f := range files {
		part, err := mw.CreateFormFile(f.Field, f.Name)
		if err != nil {
			h.T.Fatal(err)
		}
		if _, err := part.Write(f.Data); err != nil {
			h.T.Fatal(err)
		}
	}
	if err := mw.Close(); err != nil {
		h.T.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return h.Do(req, cookie)
}
