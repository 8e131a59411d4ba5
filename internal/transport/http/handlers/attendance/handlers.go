package attendancehandler

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"hrmweb/internal/domain/attendance"
	"hrmweb/internal/domain/auth"
	"hrmweb/internal/forms"
	"hrmweb/internal/transport/http/middleware"
	"hrmweb/internal/transport/http/shared"
	"hrmweb/internal/transport/http/views"
)

const pagePath = "/attendance"

type Handler struct {
	Web     *shared.Web
	Service *attendance.Service
	now     func() time.Time
}

func NewHandler(web *shared.Web, service *attendance.Service) *Handler {
	return &Handler{Web: web, Service: service, now: time.Now}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	deny := h.Web.Forbidden()
	r.Route("/attendance", func(r chi.Router) {
		r.With(middleware.RequireScreen(auth.ScreenAttendance, deny)).Get("/", h.handlePage)
		r.With(middleware.RequireScreen(auth.ScreenAttendance, deny)).Post("/check-in", h.handleCheckIn)
		r.With(middleware.RequireScreen(auth.ScreenAttendance, deny)).Post("/check-out", h.handleCheckOut)
		r.With(middleware.RequireScreen(auth.ScreenAttendanceEx, deny)).Get("/export", h.handleExport)
	})
}

func queryOf(r *http.Request) attendance.Query {
	q := attendance.Query{
		From:       strings.TrimSpace(r.URL.Query().Get("from")),
		To:         strings.TrimSpace(r.URL.Query().Get("to")),
		EmployeeID: strings.TrimSpace(r.URL.Query().Get("employeeId")),
	}
	if _, ok := forms.ParseDateValue(q.From); !ok {
		q.From = ""
	}
	if _, ok := forms.ParseDateValue(q.To); !ok {
		q.To = ""
	}
	return q
}

func (h *Handler) handlePage(w http.ResponseWriter, r *http.Request) {
	page := h.Web.Page(r, "Attendance", pagePath)
	today, err := h.Service.Today(r.Context())
	if err != nil {
		h.Web.FailPage(w, r, page, err)
		return
	}
	query := queryOf(r)
	records, err := h.Service.List(r.Context(), query)
	if err != nil {
		h.Web.FailPage(w, r, page, err)
		return
	}

	role := shared.Role(r)
	team := auth.CanAccess(role, auth.ScreenAttendanceEx)
	now := h.now()

	status := "Not checked in"
	if today.CheckIn != nil {
		status = shared.Label(today.Status)
	}
	todaySection := views.Section{
		Title: "Today",
		Cards: []views.Card{
			{Label: "Status", Value: status},
			{Label: "Checked in", Value: shared.Clock(today.CheckIn)},
			{Label: "Checked out", Value: shared.Clock(today.CheckOut)},
			{Label: "Worked", Value: attendance.FormatDuration(attendance.WorkDuration(today, now))},
		},
	}

	var actions []views.Action
	switch {
	case today.CheckIn == nil:
		actions = append(actions, views.Action{Label: "Check in", URL: pagePath + "/check-in", Method: http.MethodPost})
	case attendance.CheckedIn(today):
		actions = append(actions, views.Action{Label: "Check out", URL: pagePath + "/check-out", Method: http.MethodPost})
	}
	if team {
		exportURL := pagePath + "/export"
		if r.URL.RawQuery != "" {
			exportURL += "?" + r.URL.RawQuery
		}
		actions = append(actions, views.Action{Label: "Export", URL: exportURL, Variant: "secondary"})
	}

	columns := []string{"Date", "Check in", "Check out", "Hours", "Status"}
	if team {
		columns = append([]string{"Employee"}, columns...)
	}
	table := &views.Table{Columns: columns, Empty: "No attendance recorded for this period."}
	for _, rec := range records {
		cells := []views.Cell{
			{Text: shared.Date(rec.Date)},
			{Text: shared.Clock(rec.CheckIn)},
			{Text: shared.Clock(rec.CheckOut)},
			{Text: attendance.FormatDuration(attendance.WorkDuration(rec, now))},
			{Text: shared.Label(rec.Status), Badge: true},
		}
		if team {
			cells = append([]views.Cell{{Text: rec.EmployeeName}}, cells...)
		}
		table.Rows = append(table.Rows, views.Row{Cells: cells})
	}

	filters := []views.FormField{
		{Name: "from", Label: "From", Type: "date", Value: query.From},
		{Name: "to", Label: "To", Type: "date", Value: query.To},
	}
	if team {
		filters = append(filters, views.FormField{Name: "employeeId", Label: "Employee ID", Value: query.EmployeeID})
	}

	h.Web.Screen(w, r, page, views.Screen{
		Heading: "Attendance",
		Actions: actions,
		Sections: []views.Section{
			todaySection,
			{Title: "History", Form: &views.Form{Action: pagePath, Method: http.MethodGet, Inline: true, Submit: "Filter", Fields: filters}, Table: table},
		},
	})
}

func (h *Handler) handleCheckIn(w http.ResponseWriter, r *http.Request) {
	if _, err := h.Service.CheckIn(r.Context()); err != nil {
		h.Web.Fail(w, r, err, pagePath)
		return
	}
	h.Web.Success(r, "Checked in.")
	shared.Redirect(w, r, pagePath)
}

func (h *Handler) handleCheckOut(w http.ResponseWriter, r *http.Request) {
	if _, err := h.Service.CheckOut(r.Context()); err != nil {
		h.Web.Fail(w, r, err, pagePath)
		return
	}
	h.Web.Success(r, "Checked out.")
	shared.Redirect(w, r, pagePath)
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	file, err := h.Service.Export(r.Context(), queryOf(r))
	if err != nil {
		h.Web.Fail(w, r, err, pagePath)
		return
	}
	shared.Download(w, file, "attendance.csv")
}
