package helpdeskhandler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"hrmweb/internal/domain/auth"
	"hrmweb/internal/domain/helpdesk"
	"hrmweb/internal/forms"
	"hrmweb/internal/transport/http/middleware"
	"hrmweb/internal/transport/http/shared"
	"hrmweb/internal/transport/http/views"
)

const listPath = "/helpdesk"

type Handler struct {
	Web     *shared.Web
	Service *helpdesk.Service
}

func NewHandler(web *shared.Web, service *helpdesk.Service) *Handler {
	return &Handler{Web: web, Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	deny := h.Web.Forbidden()
	r.Route("/helpdesk", func(r chi.Router) {
		r.With(middleware.RequireScreen(auth.ScreenHelpdesk, deny)).Get("/", h.handleList)
		r.With(middleware.RequireScreen(auth.ScreenHelpdesk, deny)).Post("/", h.handleCreate)
		r.Route("/{ticketID}", func(r chi.Router) {
			r.With(middleware.RequireScreen(auth.ScreenHelpdesk, deny)).Get("/", h.handleDetail)
			r.With(middleware.RequireScreen(auth.ScreenHelpdesk, deny)).Post("/comments", h.handleComment)
			r.With(middleware.RequireScreen(auth.ScreenHelpdeskTri, deny)).Post("/status", h.handleStatus)
		})
	})
}

var ticketStep = forms.Step{Fields: []forms.Field{
	{Name: "subject", Label: "Subject", Required: true},
	{Name: "category", Label: "Category", Type: "select", Required: true, Options: shared.Options(helpdesk.Categories)},
	{Name: "priority", Label: "Priority", Type: "select", Options: shared.Options(helpdesk.Priorities)},
	{Name: "description", Label: "Description", Type: "textarea", Required: true},
}}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	h.renderList(w, r, http.StatusOK, forms.Values{"priority": "medium"}, nil)
}

func (h *Handler) renderList(w http.ResponseWriter, r *http.Request, status int, values forms.Values, errs forms.FieldErrors) {
	page := h.Web.Page(r, "Helpdesk", listPath)
	filter := strings.TrimSpace(r.URL.Query().Get("status"))
	tickets, err := h.Service.List(r.Context(), filter)
	if err != nil {
		h.Web.FailPage(w, r, page, err)
		return
	}
	empty := "No tickets yet."
	if filter != "" {
		empty = "No " + strings.ToLower(shared.Label(filter)) + " tickets."
	}
	table := &views.Table{
		Columns: []string{"Ticket", "Subject", "Category", "Priority", "Raised by", "Status"},
		Empty:   empty,
	}
	for _, t := range tickets {
		number := t.TicketNumber
		if number == "" {
			number = t.ID
		}
		table.Rows = append(table.Rows, views.Row{Cells: []views.Cell{
			{Text: number, Link: listPath + "/" + t.ID},
			{Text: t.Subject},
			{Text: shared.Label(t.Category)},
			{Text: shared.Label(t.Priority), Badge: true},
			{Text: t.RaisedByName},
			{Text: shared.Label(t.Status), Badge: true},
		}})
	}
	page.Content = views.Screen{
		Heading: "Helpdesk",
		Sections: []views.Section{
			{Title: "Raise a ticket", Form: &views.Form{
				Action: listPath,
				Submit: "Submit ticket",
				Fields: views.FieldsFromStep(ticketStep, values, errs),
			}},
			{Title: "Tickets", Form: &views.Form{
				Action: listPath,
				Method: http.MethodGet,
				Inline: true,
				Submit: "Filter",
				Fields: []views.FormField{
					{Name: "status", Label: "Status", Type: "select", Value: filter, Options: shared.Options(helpdesk.Statuses)},
				},
			}, Table: table},
		},
	}
	h.Web.Render(w, status, views.PageScreen, page)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.Web.Error(r, shared.MsgFailed)
		shared.Redirect(w, r, listPath)
		return
	}
	values := shared.FormValues(r)
	ticket := helpdesk.NewTicket{
		Subject:     values.Get("subject"),
		Description: values.Get("description"),
		Category:    values.Get("category"),
		Priority:    values.Get("priority"),
	}
	if errs := helpdesk.Validate(ticket); errs.Any() {
		h.renderList(w, r, http.StatusUnprocessableEntity, values, errs)
		return
	}
	created, err := h.Service.Create(r.Context(), ticket)
	if err != nil {
		if errs, ok := forms.FromAPI(err); ok {
			h.renderList(w, r, http.StatusUnprocessableEntity, values, errs)
			return
		}
		h.Web.Fail(w, r, err, listPath)
		return
	}
	msg := "Ticket raised."
	if created.TicketNumber != "" {
		msg = "Ticket " + created.TicketNumber + " raised."
	}
	h.Web.Success(r, msg)
	shared.Redirect(w, r, listPath)
}

func (h *Handler) handleDetail(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "ticketID")
	page := h.Web.Page(r, "Ticket", listPath)
	t, err := h.Service.Get(r.Context(), id)
	if err != nil {
		h.Web.FailPage(w, r, page, err)
		return
	}
	base := listPath + "/" + t.ID
	heading := t.Subject
	if t.TicketNumber != "" {
		heading = t.TicketNumber + ": " + t.Subject
	}
	page.Title = heading

	comments := &views.Table{Columns: []string{"From", "When", "Message"}, Empty: "No comments yet."}
	for _, c := range t.Comments {
		comments.Rows = append(comments.Rows, views.Row{Cells: views.Text(c.AuthorName, shared.DateTime(c.CreatedAt), c.Message)})
	}

	var actions []views.Action
	if auth.CanAccess(shared.Role(r), auth.ScreenHelpdeskTri) {
		for _, next := range helpdesk.NextStatuses(t.Status) {
			actions = append(actions, views.Action{
				Label:  "Mark " + strings.ToLower(shared.Label(next)),
				URL:    base + "/status",
				Method: http.MethodPost,
				Hidden: []views.Hidden{{Name: "status", Value: next}},
			})
		}
	}
	actions = append(actions, views.Action{Label: "Back to tickets", URL: listPath, Variant: "secondary"})

	h.Web.Screen(w, r, page, views.Screen{
		Heading: heading,
		Actions: actions,
		Sections: []views.Section{
			{Details: []views.Detail{
				{Label: "Status", Value: shared.Label(t.Status)},
				{Label: "Category", Value: shared.Label(t.Category)},
				{Label: "Priority", Value: shared.Label(t.Priority)},
				{Label: "Raised by", Value: t.RaisedByName},
				{Label: "Raised", Value: shared.DateTime(t.CreatedAt)},
				{Label: "Description", Value: t.Description},
			}},
			{Title: "Comments", Table: comments},
			{Title: "Add comment", Form: &views.Form{
				Action: base + "/comments",
				Submit: "Comment",
				Fields: []views.FormField{{Name: "message", Label: "Message", Type: "textarea", Required: true}},
			}},
		},
	})
}

func (h *Handler) handleComment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "ticketID")
	back := listPath + "/" + id
	if err := r.ParseForm(); err != nil {
		h.Web.Error(r, shared.MsgFailed)
		shared.Redirect(w, r, back)
		return
	}
	message := strings.TrimSpace(r.PostForm.Get("message"))
	if message == "" {
		h.Web.Error(r, "Write a comment first.")
		shared.Redirect(w, r, back)
		return
	}
	if _, err := h.Service.AddComment(r.Context(), id, message); err != nil {
		h.Web.Fail(w, r, err, back)
		return
	}
	h.Web.Success(r, "Comment added.")
	shared.Redirect(w, r, back)
}

func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "ticketID")
	back := listPath + "/" + id
	if err := r.ParseForm(); err != nil {
		h.Web.Error(r, shared.MsgFailed)
		shared.Redirect(w, r, back)
		return
	}
	status := r.PostForm.Get("status")
	v := forms.NewValidator()
	v.Required("status", status, "Choose a status.")
	v.Enum("status", status, helpdesk.Statuses, "Unknown ticket status.")
	if errs := v.Errors(); errs.Any() {
		h.Web.Error(r, shared.FirstError(errs))
		shared.Redirect(w, r, back)
		return
	}
	if err := h.Service.UpdateStatus(r.Context(), id, status); err != nil {
		h.Web.Fail(w, r, err, back)
		return
	}
	h.Web.Success(r, "Ticket marked "+strings.ToLower(shared.Label(status))+".")
	shared.Redirect(w, r, back)
}
