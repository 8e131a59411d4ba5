package leavehandler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"hrmweb/internal/domain/auth"
	"hrmweb/internal/domain/leave"
	"hrmweb/internal/forms"
	"hrmweb/internal/transport/http/middleware"
	"hrmweb/internal/transport/http/shared"
	"hrmweb/internal/transport/http/views"
)

const (
	pagePath  = "/leaves"
	typesPath = "/leaves/types"
)

type Handler struct {
	Web     *shared.Web
	Service *leave.Service
}

func NewHandler(web *shared.Web, service *leave.Service) *Handler {
	return &Handler{Web: web, Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	deny := h.Web.Forbidden()
	r.Route("/leaves", func(r chi.Router) {
		r.With(middleware.RequireScreen(auth.ScreenLeaves, deny)).Get("/", h.handlePage)
		r.With(middleware.RequireScreen(auth.ScreenLeaves, deny)).Post("/apply", h.handleApply)
		r.With(middleware.RequireScreen(auth.ScreenLeaves, deny)).Post("/{applicationID}/cancel", h.handleCancel)
		r.With(middleware.RequireScreen(auth.ScreenLeaveApprove, deny)).Post("/{applicationID}/approve", h.handleApprove)
		r.With(middleware.RequireScreen(auth.ScreenLeaveApprove, deny)).Post("/{applicationID}/reject", h.handleReject)
		r.With(middleware.RequireScreen(auth.ScreenLeaveExport, deny)).Get("/export", h.handleExport)
		r.With(middleware.RequireScreen(auth.ScreenLeaveAdmin, deny)).Get("/types", h.handleTypes)
		r.With(middleware.RequireScreen(auth.ScreenLeaveAdmin, deny)).Post("/types", h.handleCreateType)
		r.With(middleware.RequireScreen(auth.ScreenLeaveAdmin, deny)).Post("/policies", h.handleCreatePolicy)
	})
}

// posted is a form echoed back after a failed submit.
type posted struct {
	values forms.Values
	errs   forms.FieldErrors
}

func applyStep(types []leave.LeaveType) forms.Step {
	options := make([]forms.Option, 0, len(types))
	for _, lt := range types {
		options = append(options, forms.Option{Value: lt.ID, Label: lt.Name})
	}
	return forms.Step{Fields: []forms.Field{
		{Name: "leaveTypeId", Label: "Leave type", Type: "select", Required: true, Options: options},
		{Name: "fromDate", Label: "From", Type: "date", Required: true},
		{Name: "toDate", Label: "To", Type: "date", Required: true},
		{Name: "halfDay", Label: "Half day", Type: "checkbox"},
		{Name: "halfDaySession", Label: "Session", Type: "select", Options: shared.Options(leave.HalfDaySessions)},
		{Name: "reason", Label: "Reason", Type: "textarea", Required: true},
	}}
}

func (h *Handler) handlePage(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, r, http.StatusOK, posted{})
}

// renderPage loads the caller's own applications once and the approval
// queue only for roles that decide on leave.
func (h *Handler) renderPage(w http.ResponseWriter, r *http.Request, status int, apply posted) {
	page := h.Web.Page(r, "Leave", pagePath)
	ctx := r.Context()
	types, err := h.Service.Types(ctx)
	if err != nil {
		h.Web.FailPage(w, r, page, err)
		return
	}
	balances, err := h.Service.Balances(ctx)
	if err != nil {
		h.Web.FailPage(w, r, page, err)
		return
	}
	mine, err := h.Service.MyApplications(ctx)
	if err != nil {
		h.Web.FailPage(w, r, page, err)
		return
	}
	role := shared.Role(r)
	var pending []leave.Application
	approver := auth.CanAccess(role, auth.ScreenLeaveApprove)
	if approver {
		if pending, err = h.Service.PendingApprovals(ctx); err != nil {
			h.Web.FailPage(w, r, page, err)
			return
		}
	}

	balanceCards := make([]views.Card, 0, len(balances))
	for _, b := range balances {
		balanceCards = append(balanceCards, views.Card{
			Label: b.LeaveTypeName,
			Value: shared.Number(b.Available) + " of " + shared.Number(b.Allocated) + " days",
		})
	}

	own := &views.Table{
		Columns: []string{"Type", "From", "To", "Days", "Status", "Reason"},
		Empty:   "You have not applied for leave yet.",
	}
	for _, app := range mine {
		reason := app.Reason
		if app.RejectionReason != "" {
			reason = "Rejected: " + app.RejectionReason
		}
		row := views.Row{Cells: []views.Cell{
			{Text: app.LeaveTypeName},
			{Text: shared.Date(app.FromDate)},
			{Text: shared.Date(app.ToDate)},
			{Text: days(app)},
			{Text: app.Status, Badge: true},
			{Text: reason},
		}}
		if leave.Cancellable(app) {
			row.Actions = []views.Action{{
				Label:   "Cancel",
				URL:     pagePath + "/" + app.ID + "/cancel",
				Method:  http.MethodPost,
				Confirm: "Cancel this leave application?",
				Variant: "danger",
			}}
		}
		own.Rows = append(own.Rows, row)
	}

	values := apply.values
	if values == nil {
		values = forms.Values{"halfDaySession": leave.SessionFirstHalf}
	}
	sections := []views.Section{
		{Title: "Balance", Cards: balanceCards, Note: emptyNote(len(balances), "No leave balance available.")},
		{Title: "Apply for leave", Form: &views.Form{
			Action: pagePath + "/apply",
			Submit: "Apply",
			Fields: views.FieldsFromStep(applyStep(types), values, apply.errs),
		}},
		{Title: "My applications", Table: own},
	}
	if approver {
		sections = append(sections, views.Section{Title: "Pending approvals", Table: approvalsTable(pending)})
	}

	var actions []views.Action
	if auth.CanAccess(role, auth.ScreenLeaveAdmin) {
		actions = append(actions, views.Action{Label: "Leave types", URL: typesPath, Variant: "secondary"})
	}
	if auth.CanAccess(role, auth.ScreenLeaveExport) {
		actions = append(actions, views.Action{Label: "Export", URL: pagePath + "/export", Variant: "secondary"})
	}

	page.Content = views.Screen{Heading: "Leave", Actions: actions, Sections: sections}
	h.Web.Render(w, status, views.PageScreen, page)
}

func approvalsTable(pending []leave.Application) *views.Table {
	table := &views.Table{
		Columns: []string{"Employee", "Type", "From", "To", "Days", "Reason"},
		Empty:   "Nothing is waiting for your approval.",
	}
	for _, app := range pending {
		row := views.Row{Cells: []views.Cell{
			{Text: app.EmployeeName},
			{Text: app.LeaveTypeName},
			{Text: shared.Date(app.FromDate)},
			{Text: shared.Date(app.ToDate)},
			{Text: days(app)},
			{Text: app.Reason},
		}}
		if leave.Decidable(app) {
			base := pagePath + "/" + app.ID
			row.Actions = []views.Action{
				{Label: "Approve", URL: base + "/approve", Method: http.MethodPost},
				{Label: "Reject", URL: base + "/reject", Method: http.MethodPost, Variant: "danger",
					Input: &views.FormField{Name: "reason", Label: "Reason", Placeholder: "Reason", Required: true}},
			}
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}

func days(app leave.Application) string {
	out := shared.Number(app.Days)
	if app.HalfDay {
		out += " (" + shared.Label(app.HalfDaySession) + ")"
	}
	return out
}

func emptyNote(n int, note string) string {
	if n == 0 {
		return note
	}
	return ""
}

func (h *Handler) handleApply(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.Web.Error(r, shared.MsgFailed)
		shared.Redirect(w, r, pagePath)
		return
	}
	values := shared.FormValues(r)
	app := leave.Normalize(leave.NewApplication{
		LeaveTypeID:    values.Get("leaveTypeId"),
		FromDate:       values.Get("fromDate"),
		ToDate:         values.Get("toDate"),
		HalfDay:        values.Get("halfDay") == "true",
		HalfDaySession: values.Get("halfDaySession"),
		Reason:         values.Get("reason"),
	})
	values["toDate"] = app.ToDate
	if errs := leave.Validate(app); errs.Any() {
		h.renderPage(w, r, http.StatusUnprocessableEntity, posted{values: values, errs: errs})
		return
	}
	if _, err := h.Service.Apply(r.Context(), app); err != nil {
		if errs, ok := forms.FromAPI(err); ok {
			h.renderPage(w, r, http.StatusUnprocessableEntity, posted{values: values, errs: errs})
			return
		}
		h.Web.Fail(w, r, err, pagePath)
		return
	}
	requested, _ := leave.RequestedDays(app)
	h.Web.Success(r, "Leave applied for "+shared.Number(requested)+" day(s).")
	shared.Redirect(w, r, pagePath)
}

func (h *Handler) handleCancel(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Cancel(r.Context(), chi.URLParam(r, "applicationID")); err != nil {
		h.Web.Fail(w, r, err, pagePath)
		return
	}
	h.Web.Success(r, "Leave application cancelled.")
	shared.Redirect(w, r, pagePath)
}

func (h *Handler) handleApprove(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Approve(r.Context(), chi.URLParam(r, "applicationID")); err != nil {
		h.Web.Fail(w, r, err, pagePath)
		return
	}
	h.Web.Success(r, "Leave approved.")
	shared.Redirect(w, r, pagePath)
}

func (h *Handler) handleReject(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.Web.Error(r, shared.MsgFailed)
		shared.Redirect(w, r, pagePath)
		return
	}
	reason := strings.TrimSpace(r.PostForm.Get("reason"))
	if reason == "" {
		h.Web.Error(r, "Give a reason for rejecting the application.")
		shared.Redirect(w, r, pagePath)
		return
	}
	if err := h.Service.Reject(r.Context(), chi.URLParam(r, "applicationID"), reason); err != nil {
		h.Web.Fail(w, r, err, pagePath)
		return
	}
	h.Web.Success(r, "Leave rejected.")
	shared.Redirect(w, r, pagePath)
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	q := leave.ExportQuery{
		From:   strings.TrimSpace(r.URL.Query().Get("from")),
		To:     strings.TrimSpace(r.URL.Query().Get("to")),
		Status: strings.TrimSpace(r.URL.Query().Get("status")),
	}
	file, err := h.Service.Export(r.Context(), q)
	if err != nil {
		h.Web.Fail(w, r, err, pagePath)
		return
	}
	shared.Download(w, file, "leaves.csv")
}

var typeStep = forms.Step{Fields: []forms.Field{
	{Name: "name", Label: "Name", Required: true},
	{Name: "code", Label: "Code", Required: true, Placeholder: "CL"},
	{Name: "daysPerYear", Label: "Days per year", Type: "number", Required: true},
	{Name: "isPaid", Label: "Paid", Type: "checkbox"},
	{Name: "carryForward", Label: "Carry forward", Type: "checkbox"},
}}

var accrualPeriods = []string{"monthly", "quarterly", "yearly"}

func policyStep(types []leave.LeaveType) forms.Step {
	options := make([]forms.Option, 0, len(types))
	for _, lt := range types {
		options = append(options, forms.Option{Value: lt.ID, Label: lt.Name})
	}
	return forms.Step{Fields: []forms.Field{
		{Name: "name", Label: "Name", Required: true},
		{Name: "leaveTypeId", Label: "Leave type", Type: "select", Required: true, Options: options},
		{Name: "entitlement", Label: "Entitlement (days)", Type: "number", Required: true},
		{Name: "accrualRate", Label: "Accrual rate", Type: "number"},
		{Name: "accrualPeriod", Label: "Accrual period", Type: "select", Options: shared.Options(accrualPeriods)},
		{Name: "carryOverLimit", Label: "Carry-over limit", Type: "number"},
		{Name: "requiresHrApproval", Label: "Requires HR approval", Type: "checkbox"},
	}}
}

func (h *Handler) handleTypes(w http.ResponseWriter, r *http.Request) {
	h.renderTypes(w, r, http.StatusOK, posted{}, posted{})
}

func (h *Handler) renderTypes(w http.ResponseWriter, r *http.Request, status int, typeForm, policyForm posted) {
	page := h.Web.Page(r, "Leave types", pagePath)
	types, err := h.Service.Types(r.Context())
	if err != nil {
		h.Web.FailPage(w, r, page, err)
		return
	}
	policies, err := h.Service.Policies(r.Context())
	if err != nil {
		h.Web.FailPage(w, r, page, err)
		return
	}

	typeTable := &views.Table{
		Columns: []string{"Name", "Code", "Days per year", "Paid", "Carry forward"},
		Empty:   "No leave types defined.",
	}
	for _, lt := range types {
		typeTable.Rows = append(typeTable.Rows, views.Row{Cells: views.Text(
			lt.Name, lt.Code, shared.Number(lt.DaysPerYear), yesNo(lt.IsPaid), yesNo(lt.CarryForward),
		)})
	}
	policyTable := &views.Table{
		Columns: []string{"Name", "Leave type", "Entitlement", "Accrual", "Carry-over", "HR approval"},
		Empty:   "No leave policies defined.",
	}
	for _, p := range policies {
		accrual := "-"
		if p.AccrualRate > 0 {
			accrual = shared.Number(p.AccrualRate) + " " + p.AccrualPeriod
		}
		policyTable.Rows = append(policyTable.Rows, views.Row{Cells: views.Text(
			p.Name, p.LeaveTypeName, shared.Number(p.Entitlement), accrual, shared.Number(p.CarryOver), yesNo(p.RequiresHRApproval),
		)})
	}

	page.Content = views.Screen{
		Heading: "Leave types and policies",
		Actions: []views.Action{{Label: "Back to leave", URL: pagePath, Variant: "secondary"}},
		Sections: []views.Section{
			{Title: "Leave types", Table: typeTable},
			{Title: "New leave type", Form: &views.Form{
				Action: typesPath,
				Submit: "Create type",
				Fields: views.FieldsFromStep(typeStep, typeForm.values, typeForm.errs),
			}},
			{Title: "Policies", Table: policyTable},
			{Title: "New policy", Form: &views.Form{
				Action: pagePath + "/policies",
				Submit: "Create policy",
				Fields: views.FieldsFromStep(policyStep(types), policyForm.values, policyForm.errs),
			}},
		},
	}
	h.Web.Render(w, status, views.PageScreen, page)
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

func (h *Handler) handleCreateType(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.Web.Error(r, shared.MsgFailed)
		shared.Redirect(w, r, typesPath)
		return
	}
	values := shared.FormValues(r)
	v := forms.NewValidator()
	v.Required("name", values.Get("name"), "Name is required.")
	v.Required("code", values.Get("code"), "Code is required.")
	v.Required("daysPerYear", values.Get("daysPerYear"), "Days per year is required.")
	perYear, _ := v.Positive("daysPerYear", values.Get("daysPerYear"))
	if errs := v.Errors(); errs.Any() {
		h.renderTypes(w, r, http.StatusUnprocessableEntity, posted{values: values, errs: errs}, posted{})
		return
	}
	lt := leave.LeaveType{
		Name:         values.Get("name"),
		Code:         strings.ToUpper(values.Get("code")),
		DaysPerYear:  perYear,
		IsPaid:       values.Get("isPaid") == "true",
		CarryForward: values.Get("carryForward") == "true",
	}
	if _, err := h.Service.CreateType(r.Context(), lt); err != nil {
		if errs, ok := forms.FromAPI(err); ok {
			h.renderTypes(w, r, http.StatusUnprocessableEntity, posted{values: values, errs: errs}, posted{})
			return
		}
		h.Web.Fail(w, r, err, typesPath)
		return
	}
	h.Web.Success(r, "Leave type "+lt.Name+" created.")
	shared.Redirect(w, r, typesPath)
}

func (h *Handler) handleCreatePolicy(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.Web.Error(r, shared.MsgFailed)
		shared.Redirect(w, r, typesPath)
		return
	}
	values := shared.FormValues(r)
	v := forms.NewValidator()
	v.Required("name", values.Get("name"), "Name is required.")
	v.Required("leaveTypeId", values.Get("leaveTypeId"), "Choose a leave type.")
	v.Required("entitlement", values.Get("entitlement"), "Entitlement is required.")
	entitlement, _ := v.Positive("entitlement", values.Get("entitlement"))
	rate := optionalNumber(v, "accrualRate", values.Get("accrualRate"))
	carry := optionalNumber(v, "carryOverLimit", values.Get("carryOverLimit"))
	v.Enum("accrualPeriod", values.Get("accrualPeriod"), accrualPeriods, "Unknown accrual period.")
	if errs := v.Errors(); errs.Any() {
		h.renderTypes(w, r, http.StatusUnprocessableEntity, posted{}, posted{values: values, errs: errs})
		return
	}
	policy := leave.LeavePolicy{
		Name:               values.Get("name"),
		LeaveTypeID:        values.Get("leaveTypeId"),
		Entitlement:        entitlement,
		AccrualRate:        rate,
		AccrualPeriod:      values.Get("accrualPeriod"),
		CarryOver:          carry,
		RequiresHRApproval: values.Get("requiresHrApproval") == "true",
	}
	if _, err := h.Service.CreatePolicy(r.Context(), policy); err != nil {
		if errs, ok := forms.FromAPI(err); ok {
			h.renderTypes(w, r, http.StatusUnprocessableEntity, posted{}, posted{values: values, errs: errs})
			return
		}
		h.Web.Fail(w, r, err, typesPath)
		return
	}
	h.Web.Success(r, "Leave policy "+policy.Name+" created.")
	shared.Redirect(w, r, typesPath)
}

// optionalNumber accepts an empty value as zero.
func optionalNumber(v *forms.Validator, field, raw string) float64 {
	if raw == "" {
		return 0
	}
	n, err := strconv.ParseFloat(raw, 64)
	if err != nil || n < 0 {
		v.Add(field, "must be zero or a positive number")
		return 0
	}
	return n
}
