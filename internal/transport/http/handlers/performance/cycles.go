package performancehandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrmweb/internal/domain/performance"
	"hrmweb/internal/forms"
	"hrmweb/internal/transport/http/shared"
	"hrmweb/internal/transport/http/views"
)

var cycleStep = forms.Step{Fields: []forms.Field{
	{Name: "name", Label: "Name", Required: true, Placeholder: "H1 2026"},
	{Name: "startDate", Label: "Starts", Type: "date", Required: true},
	{Name: "endDate", Label: "Ends", Type: "date", Required: true},
}}

func (h *Handler) handleCycles(w http.ResponseWriter, r *http.Request) {
	h.renderCycles(w, r, http.StatusOK, nil, nil)
}

func (h *Handler) renderCycles(w http.ResponseWriter, r *http.Request, status int, values forms.Values, errs forms.FieldErrors) {
	page := h.Web.Page(r, "Review cycles", cyclesPath)
	cycles, err := h.Service.Cycles(r.Context())
	if err != nil {
		h.Web.FailPage(w, r, page, err)
		return
	}
	table := &views.Table{Columns: []string{"Cycle", "Starts", "Ends", "Status"}, Empty: "No review cycles yet."}
	for _, c := range cycles {
		row := views.Row{Cells: []views.Cell{
			{Text: c.Name},
			{Text: shared.Date(c.StartDate)},
			{Text: shared.Date(c.EndDate)},
			{Text: shared.Label(c.Status), Badge: true},
		}}
		if next := performance.NextCycleStatus(c.Status); next != "" {
			label := "Activate"
			if next == performance.ReviewCycleStatusClosed {
				label = "Close"
			}
			row.Actions = []views.Action{{
				Label:   label,
				URL:     cyclesPath + "/" + c.ID + "/status",
				Method:  http.MethodPost,
				Confirm: label + " " + c.Name + "?",
				Hidden:  []views.Hidden{{Name: "status", Value: next}},
			}}
		}
		table.Rows = append(table.Rows, row)
	}
	page.Content = views.Screen{
		Heading: "Review cycles",
		Sections: []views.Section{
			{Table: table},
			{Title: "New cycle", Form: &views.Form{
				Action: cyclesPath,
				Submit: "Create cycle",
				Fields: views.FieldsFromStep(cycleStep, values, errs),
			}},
		},
	}
	h.Web.Render(w, status, views.PageScreen, page)
}

func (h *Handler) handleCreateCycle(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.Web.Error(r, shared.MsgFailed)
		shared.Redirect(w, r, cyclesPath)
		return
	}
	values := shared.FormValues(r)
	cycle := performance.ReviewCycle{
		Name:      values.Get("name"),
		StartDate: values.Get("startDate"),
		EndDate:   values.Get("endDate"),
		Status:    performance.ReviewCycleStatusDraft,
	}
	if errs := performance.ValidateCycle(cycle); errs.Any() {
		h.renderCycles(w, r, http.StatusUnprocessableEntity, values, errs)
		return
	}
	if _, err := h.Service.CreateCycle(r.Context(), cycle); err != nil {
		if errs, ok := forms.FromAPI(err); ok {
			h.renderCycles(w, r, http.StatusUnprocessableEntity, values, errs)
			return
		}
		h.Web.Fail(w, r, err, cyclesPath)
		return
	}
	h.Web.Success(r, "Review cycle "+cycle.Name+" created.")
	shared.Redirect(w, r, cyclesPath)
}

func (h *Handler) handleCycleStatus(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.Web.Error(r, shared.MsgFailed)
		shared.Redirect(w, r, cyclesPath)
		return
	}
	status := r.PostForm.Get("status")
	v := forms.NewValidator()
	v.Required("status", status, "Choose a status.")
	v.Enum("status", status, performance.CycleStatuses, "Unknown cycle status.")
	if errs := v.Errors(); errs.Any() {
		h.Web.Error(r, shared.FirstError(errs))
		shared.Redirect(w, r, cyclesPath)
		return
	}
	if err := h.Service.SetCycleStatus(r.Context(), chi.URLParam(r, "cycleID"), status); err != nil {
		h.Web.Fail(w, r, err, cyclesPath)
		return
	}
	h.Web.Success(r, "Cycle is now "+shared.Label(status)+".")
	shared.Redirect(w, r, cyclesPath)
}
