package apiclient

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"hrmweb/internal/platform/metrics"
	"hrmweb/internal/requestctx"
	"hrmweb/internal/session"
)

func authedContext(token string) context.Context {
	sess := &session.Session{ID: "s1", Token: token, User: session.User{ID: "u1"}}
	return requestctx.WithSession(context.Background(), sess)
}

func TestBearerTokenAndRequestIDAttached(t *testing.T) {
	var gotAuth, gotReqID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotReqID = r.Header.Get("X-Request-ID")
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"success":true,"data":{"id":"e1"}}`)
	}))
	defer srv.Close()

	client := New(srv.URL, time.Second, metrics.New())
	ctx := requestctx.WithRequestID(authedContext("tok-123"), "req-9")

	var out struct {
		ID string `json:"id"`
	}
	if err := client.Get(ctx, "/employees/e1", nil, &out); err != nil {
		t.Fatalf("get: %v", err)
	}
	if gotAuth != "Bearer tok-123" {
		t.Fatalf("expected bearer header, got %q", gotAuth)
	}
	if gotReqID != "req-9" {
		t.Fatalf("expected propagated request id, got %q", gotReqID)
	}
	if out.ID != "e1" {
		t.Fatalf("expected envelope data decoded, got %+v", out)
	}
}

func TestAnonymousRequestHasNoAuthorization(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = io.WriteString(w, `{}`)
	}))
	defer srv.Close()

	client := New(srv.URL, time.Second, nil)
	if err := client.Post(context.Background(), "/auth/login", map[string]string{"email": "a"}, nil); err != nil {
		t.Fatalf("post: %v", err)
	}
	if gotAuth != "" {
		t.Fatalf("expected no authorization header, got %q", gotAuth)
	}
}

func TestUnauthorizedOnProtectedEndpointInvalidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"message":"token expired"}`)
	}))
	defer srv.Close()

	var calls int32
	client := New(srv.URL, time.Second, nil)
	client.OnUnauthorized = func(ctx context.Context) { atomic.AddInt32(&calls, 1) }

	err := client.Get(authedContext("tok"), "/leaves/applications", nil, nil)
	if !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
	if KindOf(err) != KindUnauthorized {
		t.Fatalf("expected unauthorized kind, got %s", KindOf(err))
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Fatalf("expected one invalidation, got %d", calls)
	}
}

func TestUnauthorizedOnAuthEndpointsIsInline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"message":"Invalid email or password"}`)
	}))
	defer srv.Close()

	var calls int32
	client := New(srv.URL, time.Second, nil)
	client.OnUnauthorized = func(ctx context.Context) { atomic.AddInt32(&calls, 1) }

	for _, path := range []string{"/auth/login", "/auth/register", "/auth/me"} {
		err := client.Post(context.Background(), path, map[string]string{}, nil)
		if errors.Is(err, ErrSessionExpired) {
			t.Fatalf("%s: 401 must not be treated as session expiry", path)
		}
		apiErr, ok := AsError(err)
		if !ok || apiErr.Kind != KindUnauthorized || apiErr.Message != "Invalid email or password" {
			t.Fatalf("%s: unexpected error %v", path, err)
		}
	}
	if atomic.LoadInt32(&calls) != 0 {
		t.Fatalf("auth endpoints must not invalidate the session, got %d calls", calls)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantKind   Kind
		wantFields int
		wantMsg    string
	}{
		{name: "field list", status: 400, body: `{"message":"Validation failed","errors":[{"field":"email","message":"Email already exists"}]}`, wantKind: KindValidation, wantFields: 1, wantMsg: "Validation failed"},
		{name: "nested details", status: 400, body: `{"success":false,"error":{"code":"validation_error","message":"payload validation failed","details":{"fields":[{"field":"startDate","reason":"must be a valid date"}]}}}`, wantKind: KindValidation, wantFields: 1, wantMsg: "payload validation failed"},
		{name: "plain 400", status: 400, body: `{"message":"bad input"}`, wantKind: KindClient, wantMsg: "bad input"},
		{name: "forbidden", status: 403, body: `{"error":"insufficient permissions"}`, wantKind: KindForbidden, wantMsg: "insufficient permissions"},
		{name: "not found", status: 404, body: ``, wantKind: KindNotFound, wantMsg: "not found"},
		{name: "conflict", status: 409, body: `{"message":"already approved"}`, wantKind: KindConflict, wantMsg: "already approved"},
		{name: "server", status: 502, body: `<html>`, wantKind: KindServer, wantMsg: "bad gateway"},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got := Classify(&Response{Status: tc.status, Body: []byte(tc.body)})
			if got.Kind != tc.wantKind {
				t.Fatalf("expected kind %s, got %s", tc.wantKind, got.Kind)
			}
			if len(got.Fields) != tc.wantFields {
				t.Fatalf("expected %d fields, got %+v", tc.wantFields, got.Fields)
			}
			if got.Message != tc.wantMsg {
				t.Fatalf("expected message %q, got %q", tc.wantMsg, got.Message)
			}
		})
	}
}

func TestTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	collector := metrics.New()
	client := New(url, time.Second, collector)
	err := client.Get(context.Background(), "/employees", nil, nil)
	if KindOf(err) != KindTransport {
		t.Fatalf("expected transport error, got %v", err)
	}
	if collector.Snapshot()["upstreamTransportTotal"].(uint64) != 1 {
		t.Fatal("expected transport failure to be recorded")
	}
}

func TestDownloadReadsFilename(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("format") != "csv" {
			t.Errorf("expected format query, got %q", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="attendance-2026-03.csv"`)
		_, _ = io.WriteString(w, "date,status\n")
	}))
	defer srv.Close()

	client := New(srv.URL, time.Second, nil)
	file, err := client.Download(authedContext("tok"), "/attendance/export", map[string][]string{"format": {"csv"}})
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	if file.Name != "attendance-2026-03.csv" || file.ContentType != "text/csv" || string(file.Body) != "date,status\n" {
		t.Fatalf("unexpected file %+v", file)
	}
}

func TestUploadSendsMultipart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
			return
		}
		if r.FormValue("documentType") != "aadhaar" {
			t.Errorf("unexpected field %q", r.FormValue("documentType"))
		}
		file, header, err := r.FormFile("document")
		if err != nil {
			t.Errorf("form file: %v", err)
			return
		}
		defer file.Close()
		body, _ := io.ReadAll(file)
		if header.Filename != "id.pdf" || string(body) != "%PDF" {
			t.Errorf("unexpected file %s %q", header.Filename, body)
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	client := New(srv.URL, time.Second, nil)
	form := &Multipart{
		Fields: map[string]string{"documentType": "aadhaar"},
		Files:  []FilePart{{Field: "document", FileName: "id.pdf", ContentType: "application/pdf", Data: []byte("%PDF")}},
	}
	if err := client.Upload(authedContext("tok"), "/employees/e1/documents", form, nil); err != nil {
		t.Fatalf("upload: %v", err)
	}
}

func TestDecodeBareDocument(t *testing.T) {
	var out []string
	if err := Decode(&Response{Status: 200, Body: []byte(`["a","b"]`)}, &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if strings.Join(out, ",") != "a,b" {
		t.Fatalf("unexpected %v", out)
	}
}
