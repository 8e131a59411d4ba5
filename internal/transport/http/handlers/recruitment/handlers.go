package recruitmenthandler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"hrmweb/internal/domain/auth"
	"hrmweb/internal/domain/recruitment"
	"hrmweb/internal/forms"
	"hrmweb/internal/transport/http/middleware"
	"hrmweb/internal/transport/http/shared"
	"hrmweb/internal/transport/http/views"
)

const listPath = "/recruitment/candidates"

type Handler struct {
	Web            *shared.Web
	Service        *recruitment.Service
	MaxUploadBytes int64
}

func NewHandler(web *shared.Web, service *recruitment.Service, maxUploadBytes int64) *Handler {
	return &Handler{Web: web, Service: service, MaxUploadBytes: maxUploadBytes}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	deny := h.Web.Forbidden()
	r.Route(listPath, func(r chi.Router) {
		r.Use(middleware.RequireScreen(auth.ScreenCandidates, deny))
		r.Get("/", h.handleList)
		r.Post("/", h.handleCreate)
	})
}

var candidateStep = forms.Step{Fields: []forms.Field{
	{Name: "name", Label: "Full name", Required: true},
	{Name: "email", Label: "Email", Type: "email", Required: true},
	{Name: "phone", Label: "Phone", Type: "tel"},
	{Name: "position", Label: "Position", Required: true},
	{Name: "resume", Label: "Résumé", Type: "file", Required: true},
}}

func statusOptions() []forms.Option {
	out := make([]forms.Option, 0, len(recruitment.Statuses))
	for _, s := range recruitment.Statuses {
		out = append(out, forms.Option{Value: s, Label: shared.Label(s)})
	}
	return out
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	h.renderList(w, r, http.StatusOK, nil, nil)
}

// renderList shows candidates, optionally narrowed to one pipeline status,
// with the add-candidate form below.
func (h *Handler) renderList(w http.ResponseWriter, r *http.Request, status int, values forms.Values, errs forms.FieldErrors) {
	page := h.Web.Page(r, "Candidates", listPath)
	candidates, err := h.Service.List(r.Context())
	if err != nil {
		h.Web.FailPage(w, r, page, err)
		return
	}
	filter := strings.TrimSpace(r.URL.Query().Get("status"))

	table := &views.Table{
		Columns: []string{"Name", "Email", "Position", "Applied", "Résumé", "Status"},
		Empty:   "No candidates yet.",
	}
	if filter != "" {
		table.Empty = "No " + strings.ToLower(shared.Label(filter)) + " candidates."
	}
	for _, c := range candidates {
		if filter != "" && c.Status != filter {
			continue
		}
		resume := views.Cell{Text: "-"}
		if c.ResumeURL != "" {
			resume = views.Cell{Text: "Download", Link: c.ResumeURL}
		}
		applied := "-"
		if c.AppliedAt != nil {
			applied = shared.Date(c.AppliedAt.Format("2006-01-02"))
		}
		table.Rows = append(table.Rows, views.Row{Cells: []views.Cell{
			{Text: c.Name},
			{Text: c.Email},
			{Text: c.Position},
			{Text: applied},
			resume,
			{Text: shared.Label(c.Status), Badge: true},
		}})
	}

	page.Content = views.Screen{
		Heading: "Candidates",
		Sections: []views.Section{
			{Form: &views.Form{
				Action: listPath,
				Method: http.MethodGet,
				Inline: true,
				Submit: "Filter",
				Fields: []views.FormField{{Name: "status", Label: "Status", Type: "select", Value: filter, Options: statusOptions()}},
			}, Table: table},
			{Title: "Add candidate", Form: &views.Form{
				Action:    listPath,
				Submit:    "Add candidate",
				Multipart: true,
				Fields:    views.FieldsFromStep(candidateStep, values, errs),
			}},
		},
	}
	h.Web.Render(w, status, views.PageScreen, page)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	if err := shared.ParseForm(r, h.MaxUploadBytes); err != nil {
		h.Web.Error(r, "The form could not be read. The file may be too large.")
		shared.Redirect(w, r, listPath)
		return
	}
	values := shared.FormValues(r)
	candidate := recruitment.NewCandidate{
		Name:     values.Get("name"),
		Email:    values.Get("email"),
		Phone:    values.Get("phone"),
		Position: values.Get("position"),
	}
	resume, err := shared.ReadUpload(r, "resume", "resume", h.MaxUploadBytes)
	if err != nil {
		errs := forms.FieldErrors{}
		msg := "The file could not be read."
		if errors.Is(err, shared.ErrUploadTooLarge) {
			msg = "The file is too large."
		}
		errs.Add("resume", msg)
		h.renderList(w, r, http.StatusUnprocessableEntity, values, errs)
		return
	}
	if errs := recruitment.Validate(candidate, resume); errs.Any() {
		h.renderList(w, r, http.StatusUnprocessableEntity, values, errs)
		return
	}

	created, err := h.Service.Create(r.Context(), candidate, *resume)
	if err != nil {
		if errs, ok := forms.FromAPI(err); ok {
			h.renderList(w, r, http.StatusUnprocessableEntity, values, errs)
			return
		}
		h.Web.Fail(w, r, err, listPath)
		return
	}
	name := created.Name
	if name == "" {
		name = strings.TrimSpace(candidate.Name)
	}
	h.Web.Success(r, name+" was added to the pipeline.")
	shared.Redirect(w, r, listPath)
}
