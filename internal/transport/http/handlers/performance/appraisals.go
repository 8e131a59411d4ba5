package performancehandler

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"hrmweb/internal/domain/auth"
	"hrmweb/internal/domain/performance"
	"hrmweb/internal/forms"
	"hrmweb/internal/transport/http/shared"
	"hrmweb/internal/transport/http/views"
)

func (h *Handler) handleAppraisals(w http.ResponseWriter, r *http.Request) {
	h.renderAppraisals(w, r, http.StatusOK, nil, nil)
}

// renderAppraisals lists appraisal cycles and the appraisals of the cycle
// picked with ?cycle=, defaulting to the first one.
func (h *Handler) renderAppraisals(w http.ResponseWriter, r *http.Request, status int, values forms.Values, errs forms.FieldErrors) {
	page := h.Web.Page(r, "Appraisals", appraisalsPath)
	ctx := r.Context()
	cycles, err := h.Service.AppraisalCycles(ctx)
	if err != nil {
		h.Web.FailPage(w, r, page, err)
		return
	}
	approver := auth.CanAccess(shared.Role(r), auth.ScreenAppraisalOK)

	selected := strings.TrimSpace(r.URL.Query().Get("cycle"))
	if selected == "" && len(cycles) > 0 {
		selected = cycles[0].ID
	}
	cycleTable := &views.Table{Columns: []string{"Cycle", "Effective", "Status"}, Empty: "No appraisal cycles yet."}
	selectedName := ""
	for _, c := range cycles {
		if c.ID == selected {
			selectedName = c.Name
		}
		cycleTable.Rows = append(cycleTable.Rows, views.Row{Cells: []views.Cell{
			{Text: c.Name, Link: appraisalsPath + "?cycle=" + url.QueryEscape(c.ID)},
			{Text: shared.Date(c.EffectiveDate)},
			{Text: shared.Label(c.Status), Badge: true},
		}})
	}
	sections := []views.Section{{Title: "Cycles", Table: cycleTable}}

	if selectedName != "" {
		appraisals, err := h.Service.Appraisals(ctx, selected)
		if err != nil {
			h.Web.FailPage(w, r, page, err)
			return
		}
		sections = append(sections, views.Section{Title: selectedName, Table: appraisalTable(appraisals, approver)})
	}

	if approver {
		reviewCycles, err := h.Service.Cycles(ctx)
		if err != nil {
			h.Web.FailPage(w, r, page, err)
			return
		}
		options := make([]forms.Option, 0, len(reviewCycles))
		for _, c := range reviewCycles {
			options = append(options, forms.Option{Value: c.ID, Label: c.Name})
		}
		step := forms.Step{Fields: []forms.Field{
			{Name: "name", Label: "Name", Required: true},
			{Name: "reviewCycleId", Label: "Based on review cycle", Type: "select", Options: options},
			{Name: "effectiveDate", Label: "Effective from", Type: "date", Required: true},
		}}
		sections = append(sections, views.Section{Title: "New appraisal cycle", Form: &views.Form{
			Action: appraisalsPath + "/cycles",
			Submit: "Create cycle",
			Fields: views.FieldsFromStep(step, values, errs),
		}})
	}

	page.Content = views.Screen{Heading: "Appraisals", Sections: sections}
	h.Web.Render(w, status, views.PageScreen, page)
}

func appraisalTable(appraisals []performance.Appraisal, approver bool) *views.Table {
	table := &views.Table{
		Columns: []string{"Employee", "Rating", "Current CTC", "Increment", "Proposed CTC", "Status"},
		Empty:   "No appraisals in this cycle.",
	}
	for _, a := range appraisals {
		row := views.Row{Cells: []views.Cell{
			{Text: a.EmployeeName},
			{Text: rating(a.ReviewRating)},
			{Text: shared.Amount(a.CurrentCTC, "")},
			{Text: shared.Number(a.ProposedIncrementPct) + "%"},
			{Text: shared.Amount(a.ProposedCTC, "")},
			{Text: shared.Label(a.Status), Badge: true},
		}}
		base := appraisalsPath + "/" + a.ID
		if a.Status == performance.AppraisalStatusPending || a.Status == performance.AppraisalStatusProposed {
			row.Actions = append(row.Actions, views.Action{
				Label:  "Propose",
				URL:    base + "/propose",
				Method: http.MethodPost,
				Input:  &views.FormField{Name: "incrementPercent", Label: "Increment %", Type: "number", Value: shared.Number(a.ProposedIncrementPct), Required: true},
			})
		}
		if approver && a.Status == performance.AppraisalStatusProposed {
			row.Actions = append(row.Actions,
				views.Action{Label: "Approve", URL: base + "/approve", Method: http.MethodPost},
				views.Action{Label: "Reject", URL: base + "/reject", Method: http.MethodPost, Variant: "danger", Confirm: "Reject the proposal for " + a.EmployeeName + "?"},
			)
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}

func (h *Handler) handleCreateAppraisalCycle(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.Web.Error(r, shared.MsgFailed)
		shared.Redirect(w, r, appraisalsPath)
		return
	}
	values := shared.FormValues(r)
	cycle := performance.AppraisalCycle{
		Name:          values.Get("name"),
		ReviewCycleID: values.Get("reviewCycleId"),
		EffectiveDate: values.Get("effectiveDate"),
	}
	v := forms.NewValidator()
	v.Required("name", cycle.Name, "Name is required.")
	v.Required("effectiveDate", cycle.EffectiveDate, "Effective date is required.")
	v.Date("effectiveDate", cycle.EffectiveDate)
	if errs := v.Errors(); errs.Any() {
		h.renderAppraisals(w, r, http.StatusUnprocessableEntity, values, errs)
		return
	}
	created, err := h.Service.CreateAppraisalCycle(r.Context(), cycle)
	if err != nil {
		if errs, ok := forms.FromAPI(err); ok {
			h.renderAppraisals(w, r, http.StatusUnprocessableEntity, values, errs)
			return
		}
		h.Web.Fail(w, r, err, appraisalsPath)
		return
	}
	h.Web.Success(r, "Appraisal cycle "+cycle.Name+" created.")
	shared.Redirect(w, r, appraisalsPath+"?cycle="+url.QueryEscape(created.ID))
}

// back returns to the cycle the action was taken from.
func back(r *http.Request) string {
	if ref, err := url.Parse(r.Referer()); err == nil && ref.Path == appraisalsPath && ref.Query().Get("cycle") != "" {
		return appraisalsPath + "?cycle=" + url.QueryEscape(ref.Query().Get("cycle"))
	}
	return appraisalsPath
}

func (h *Handler) handlePropose(w http.ResponseWriter, r *http.Request) {
	target := back(r)
	if err := r.ParseForm(); err != nil {
		h.Web.Error(r, shared.MsgFailed)
		shared.Redirect(w, r, target)
		return
	}
	pct, ok := performance.ParseIncrement(r.PostForm.Get("incrementPercent"))
	if !ok {
		h.Web.Error(r, "Increment must be between 0 and 100 percent.")
		shared.Redirect(w, r, target)
		return
	}
	if err := h.Service.ProposeIncrement(r.Context(), chi.URLParam(r, "appraisalID"), pct); err != nil {
		h.Web.Fail(w, r, err, target)
		return
	}
	h.Web.Success(r, "Increment of "+shared.Number(pct)+"% proposed.")
	shared.Redirect(w, r, target)
}

func (h *Handler) handleApproveAppraisal(w http.ResponseWriter, r *http.Request) {
	target := back(r)
	if err := h.Service.ApproveAppraisal(r.Context(), chi.URLParam(r, "appraisalID")); err != nil {
		h.Web.Fail(w, r, err, target)
		return
	}
	h.Web.Success(r, "Appraisal approved.")
	shared.Redirect(w, r, target)
}

func (h *Handler) handleRejectAppraisal(w http.ResponseWriter, r *http.Request) {
	target := back(r)
	if err := h.Service.RejectAppraisal(r.Context(), chi.URLParam(r, "appraisalID")); err != nil {
		h.Web.Fail(w, r, err, target)
		return
	}
	h.Web.Success(r, "Appraisal rejected.")
	shared.Redirect(w, r, target)
}
