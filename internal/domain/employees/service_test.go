package employees

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"hrmweb/internal/apiclient"
	"hrmweb/internal/forms"
)

func newService(t *testing.T, routes func(r chi.Router)) *Service {
	t.Helper()
	router := chi.NewRouter()
	routes(router)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return NewService(apiclient.New(srv.URL, time.Second, nil))
}

func TestListSendsQuery(t *testing.T) {
	svc := newService(t, func(r chi.Router) {
		r.Get("/employees", func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			if q.Get("search") != "ada" || q.Get("page") != "2" || q.Get("limit") != "20" {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			_, _ = w.Write([]byte(`{"data":{"items":[{"id":"e1","firstName":"Ada"}],"total":21}}`))
		})
	})

	page, err := svc.List(t.Context(), ListQuery{Search: "ada", Page: 2})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Total != 21 || page.Items[0].FullName() != "Ada" {
		t.Fatalf("unexpected page %+v", page)
	}
}

func TestCreateReturnsGeneratedPassword(t *testing.T) {
	svc := newService(t, func(r chi.Router) {
		r.Post("/employees", func(w http.ResponseWriter, r *http.Request) {
			var body NewEmployee
			_ = json.NewDecoder(r.Body).Decode(&body)
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"employee":          map[string]any{"id": "e9", "email": body.Email},
				"generatedPassword": "Tmp#1234",
			})
		})
	})

	created, err := svc.Create(t.Context(), NewEmployee{Email: "new@example.com"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Employee.ID != "e9" || created.GeneratedPassword != "Tmp#1234" {
		t.Fatalf("unexpected created %+v", created)
	}
}

func TestUploadDocumentIsMultipart(t *testing.T) {
	svc := newService(t, func(r chi.Router) {
		r.Post("/employees/{id}/documents", func(w http.ResponseWriter, r *http.Request) {
			if err := r.ParseMultipartForm(1 << 20); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			file, header, err := r.FormFile("file")
			if err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			data, _ := io.ReadAll(file)
			_ = json.NewEncoder(w).Encode(Document{
				ID:       chi.URLParam(r, "id") + "-" + r.FormValue("type"),
				FileName: header.Filename + ":" + string(data),
				Status:   DocumentPending,
			})
		})
	})

	doc, err := svc.UploadDocument(t.Context(), "e1", forms.PendingUpload{
		Kind: "resume", FileName: "cv.pdf", ContentType: "application/pdf", Data: []byte("pdf"),
	})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if doc.ID != "e1-resume" || doc.FileName != "cv.pdf:pdf" {
		t.Fatalf("unexpected document %+v", doc)
	}
}

func TestAllPagesThroughDirectory(t *testing.T) {
	calls := 0
	svc := newService(t, func(r chi.Router) {
		r.Get("/employees", func(w http.ResponseWriter, r *http.Request) {
			calls++
			if r.URL.Query().Get("page") == "1" {
				items := make([]Employee, 200)
				for i := range items {
					items[i].ID = "p1"
				}
				_ = json.NewEncoder(w).Encode(map[string]any{"items": items, "total": 201})
				return
			}
			_, _ = w.Write([]byte(`{"items":[{"id":"last"}],"total":201}`))
		})
	})

	all, err := svc.All(t.Context(), ListQuery{})
	if err != nil {
		t.Fatalf("all: %v", err)
	}
	if len(all) != 201 || all[200].ID != "last" || calls != 2 {
		t.Fatalf("unexpected export rows=%d calls=%d", len(all), calls)
	}
}
