package performancehandler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"hrmweb/internal/domain/performance"
	"hrmweb/internal/forms"
	"hrmweb/internal/transport/http/shared"
	"hrmweb/internal/transport/http/views"
)

var goalStep = forms.Step{Fields: []forms.Field{
	{Name: "title", Label: "Title", Required: true},
	{Name: "description", Label: "Description", Type: "textarea"},
	{Name: "metric", Label: "Success metric"},
	{Name: "dueDate", Label: "Due date", Type: "date", Required: true},
	{Name: "weight", Label: "Weight (%)", Type: "number"},
}}

func (h *Handler) handleGoals(w http.ResponseWriter, r *http.Request) {
	h.renderGoals(w, r, http.StatusOK, nil, nil)
}

func (h *Handler) renderGoals(w http.ResponseWriter, r *http.Request, status int, values forms.Values, errs forms.FieldErrors) {
	page := h.Web.Page(r, "Goals", goalsPath)
	goals, err := h.Service.Goals(r.Context())
	if err != nil {
		h.Web.FailPage(w, r, page, err)
		return
	}
	table := &views.Table{
		Columns: []string{"Goal", "Owner", "Due", "Weight", "Progress", "Status"},
		Empty:   "No goals set yet.",
	}
	for _, g := range goals {
		row := views.Row{Cells: []views.Cell{
			{Text: g.Title},
			{Text: g.EmployeeName},
			{Text: shared.Date(g.DueDate)},
			{Text: shared.Number(g.Weight) + "%"},
			{Text: shared.Number(g.Progress) + "%"},
			{Text: shared.Label(g.Status), Badge: true},
		}}
		if g.Status != performance.GoalStatusCompleted {
			row.Actions = []views.Action{{
				Label:  "Update",
				URL:    goalsPath + "/" + g.ID + "/progress",
				Method: http.MethodPost,
				Input:  &views.FormField{Name: "progress", Label: "Progress", Type: "number", Value: shared.Number(g.Progress), Required: true},
			}}
		}
		table.Rows = append(table.Rows, row)
	}
	page.Content = views.Screen{
		Heading: "Goals",
		Sections: []views.Section{
			{Table: table},
			{Title: "New goal", Form: &views.Form{
				Action: goalsPath,
				Submit: "Add goal",
				Fields: views.FieldsFromStep(goalStep, values, errs),
			}},
		},
	}
	h.Web.Render(w, status, views.PageScreen, page)
}

func (h *Handler) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.Web.Error(r, shared.MsgFailed)
		shared.Redirect(w, r, goalsPath)
		return
	}
	values := shared.FormValues(r)
	goal := performance.Goal{
		Title:       values.Get("title"),
		Description: values.Get("description"),
		Metric:      values.Get("metric"),
		DueDate:     values.Get("dueDate"),
		Status:      performance.GoalStatusActive,
	}
	errs := forms.FieldErrors{}
	if raw := values.Get("weight"); raw != "" {
		weight, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			errs.Add("weight", "must be a number")
		}
		goal.Weight = weight
	}
	for field, msg := range performance.ValidateGoal(goal) {
		errs.Add(field, msg)
	}
	if errs.Any() {
		h.renderGoals(w, r, http.StatusUnprocessableEntity, values, errs)
		return
	}
	if _, err := h.Service.CreateGoal(r.Context(), goal); err != nil {
		if apiErrs, ok := forms.FromAPI(err); ok {
			h.renderGoals(w, r, http.StatusUnprocessableEntity, values, apiErrs)
			return
		}
		h.Web.Fail(w, r, err, goalsPath)
		return
	}
	h.Web.Success(r, "Goal added.")
	shared.Redirect(w, r, goalsPath)
}

func (h *Handler) handleGoalProgress(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.Web.Error(r, shared.MsgFailed)
		shared.Redirect(w, r, goalsPath)
		return
	}
	progress, ok := performance.ParseProgress(r.PostForm.Get("progress"))
	if !ok {
		h.Web.Error(r, "Progress must be between 0 and 100.")
		shared.Redirect(w, r, goalsPath)
		return
	}
	if err := h.Service.UpdateGoalProgress(r.Context(), chi.URLParam(r, "goalID"), progress); err != nil {
		h.Web.Fail(w, r, err, goalsPath)
		return
	}
	h.Web.Success(r, "Progress updated to "+shared.Number(progress)+"%.")
	shared.Redirect(w, r, goalsPath)
}
