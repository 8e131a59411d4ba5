package recruitment

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"hrmweb/internal/apiclient"
	"hrmweb/internal/forms"
)

func TestValidateRequiresResume(t *testing.T) {
	errs := Validate(NewCandidate{Name: "Ada", Email: "ada@example.com", Position: "Engineer"}, nil)
	if errs.Get("resume") == "" {
		t.Fatalf("expected resume error, got %v", errs)
	}
	errs = Validate(NewCandidate{Email: "nope"}, &forms.PendingUpload{Data: []byte("x")})
	if errs.Get("name") == "" || errs.Get("email") == "" || errs.Get("resume") != "" {
		t.Fatalf("unexpected errors %v", errs)
	}
}

func TestCreateSendsResume(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_, header, err := r.FormFile("resume")
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_ = json.NewEncoder(w).Encode(Candidate{
			ID:        "c1",
			Email:     r.FormValue("email"),
			ResumeURL: "/files/" + header.Filename,
			Status:    StatusApplied,
		})
	}))
	defer srv.Close()

	svc := NewService(apiclient.New(srv.URL, time.Second, nil))
	got, err := svc.Create(t.Context(), NewCandidate{Name: "Ada", Email: " ADA@example.com ", Position: "Engineer"},
		forms.PendingUpload{FileName: "cv.pdf", ContentType: "application/pdf", Data: []byte("%PDF")})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if got.Email != "ada@example.com" || got.ResumeURL != "/files/cv.pdf" {
		t.Fatalf("unexpected candidate %+v", got)
	}
}
