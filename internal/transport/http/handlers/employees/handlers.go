package employeeshandler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"hrmweb/internal/domain/auth"
	"hrmweb/internal/domain/employees"
	"hrmweb/internal/domain/org"
	"hrmweb/internal/forms"
	"hrmweb/internal/requestctx"
	"hrmweb/internal/transport/http/middleware"
	"hrmweb/internal/transport/http/shared"
	"hrmweb/internal/transport/http/views"
)

const (
	listPath       = "/employees"
	credentialsKey = "credentials"
	maxPageSize    = 100
)

type Handler struct {
	Web            *shared.Web
	Service        *employees.Service
	Org            *org.Service
	MaxUploadBytes int64
}

func NewHandler(web *shared.Web, service *employees.Service, orgSvc *org.Service, maxUploadBytes int64) *Handler {
	return &Handler{Web: web, Service: service, Org: orgSvc, MaxUploadBytes: maxUploadBytes}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	deny := h.Web.Forbidden()
	r.Route("/employees", func(r chi.Router) {
		r.With(middleware.RequireScreen(auth.ScreenEmployees, deny)).Get("/", h.handleList)
		r.With(middleware.RequireScreen(auth.ScreenEmployeeXLSX, deny)).Get("/export.xlsx", h.handleExport)
		r.With(middleware.RequireScreen(auth.ScreenOnboarding, deny)).Get("/new", h.handleWizard)
		r.With(middleware.RequireScreen(auth.ScreenOnboarding, deny)).Post("/new", h.handleWizardStep)
		r.Route("/{employeeID}", func(r chi.Router) {
			r.With(middleware.RequireScreen(auth.ScreenEmployees, deny)).Get("/", h.handleDetail)
			r.With(middleware.RequireScreen(auth.ScreenOnboarding, deny)).Post("/delete", h.handleDelete)
			r.With(middleware.RequireScreen(auth.ScreenOnboarding, deny)).Post("/documents", h.handleUploadDocument)
			r.With(middleware.RequireScreen(auth.ScreenOnboarding, deny)).Post("/documents/{documentID}/verify", h.handleVerifyDocument)
		})
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	page := h.Web.Page(r, "Employees", listPath)
	paging := shared.ParsePagination(r, employees.DefaultPageSize, maxPageSize)
	query := employees.ListQuery{
		Search: strings.TrimSpace(r.URL.Query().Get("search")),
		Status: strings.TrimSpace(r.URL.Query().Get("status")),
		Page:   paging.Page,
		Limit:  paging.Limit,
	}
	result, err := h.Service.List(r.Context(), query)
	if err != nil {
		h.Web.FailPage(w, r, page, err)
		return
	}
	page.Dialog = h.takeCredentials(r)

	role := shared.Role(r)
	canManage := auth.CanAccess(role, auth.ScreenOnboarding)
	empty := "No employees have been added yet."
	if query.Search != "" || query.Status != "" {
		empty = "No employees match your search."
	}
	table := &views.Table{
		Columns: []string{"Code", "Name", "E-mail", "Department", "Designation", "Status"},
		Empty:   empty,
	}
	for _, emp := range result.Items {
		row := views.Row{Cells: []views.Cell{
			{Text: emp.EmployeeCode},
			{Text: emp.FullName(), Link: listPath + "/" + emp.ID},
			{Text: emp.Email},
			{Text: emp.JobInfo.DepartmentName},
			{Text: emp.JobInfo.DesignationName},
			{Text: shared.Label(emp.EmploymentDetails.Status), Badge: true},
		}}
		if canManage {
			row.Actions = []views.Action{{
				Label:   "Delete",
				URL:     listPath + "/" + emp.ID + "/delete",
				Method:  http.MethodPost,
				Confirm: "Delete " + emp.FullName() + "?",
				Variant: "danger",
			}}
		}
		table.Rows = append(table.Rows, row)
	}

	total := result.Total
	if total == 0 {
		total = len(result.Items)
	}
	pages := paging.Pages(total)
	pager := &views.Pager{Page: paging.Page, Pages: pages}
	if paging.Page > 1 {
		pager.PrevURL = shared.PageURL(r, paging.Page-1)
	}
	if paging.Page < pages {
		pager.NextURL = shared.PageURL(r, paging.Page+1)
	}

	var actions []views.Action
	if canManage {
		actions = append(actions, views.Action{Label: "Add employee", URL: listPath + "/new"})
	}
	if auth.CanAccess(role, auth.ScreenEmployeeXLSX) {
		actions = append(actions, views.Action{Label: "Export XLSX", URL: listPath + "/export.xlsx", Variant: "secondary"})
	}

	h.Web.Screen(w, r, page, views.Screen{
		Heading:  "Employees",
		Subtitle: strconv.Itoa(total) + " people",
		Actions:  actions,
		Sections: []views.Section{
			{Form: &views.Form{
				Action: listPath,
				Method: http.MethodGet,
				Inline: true,
				Submit: "Search",
				Fields: []views.FormField{
					{Name: "search", Label: "Search", Type: "search", Value: query.Search, Placeholder: "Name, e-mail or code"},
					{Name: "status", Label: "Status", Type: "select", Value: query.Status, Options: shared.Options([]string{
						employees.StatusActive, employees.StatusProbation, employees.StatusNotice, employees.StatusTerminated,
					})},
				},
			}},
			{Table: table, Pager: pager},
		},
	})
}

// takeCredentials pops the one-time credentials of a just-created employee.
// The session is saved immediately so a reload never shows them again.
func (h *Handler) takeCredentials(r *http.Request) *views.Dialog {
	sess := shared.Session(r)
	raw, ok := sess.TakeOnce(credentialsKey)
	if !ok {
		return nil
	}
	h.Web.SaveSession(r, sess)
	var creds employees.Credentials
	if err := json.Unmarshal([]byte(raw), &creds); err != nil {
		slog.Warn("stored credentials unreadable", "err", err, "requestId", requestctx.GetRequestID(r.Context()))
		return nil
	}
	return credentialsDialog(creds, listPath)
}

func credentialsDialog(creds employees.Credentials, closeURL string) *views.Dialog {
	return &views.Dialog{
		Title:   "Employee login created",
		Message: "Share these credentials with the employee. They will not be shown again.",
		Lines: []views.Detail{
			{Label: "E-mail", Value: creds.Email},
			{Label: "Password", Value: creds.Password},
		},
		CloseURL: closeURL,
	}
}

func (h *Handler) handleDetail(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "employeeID")
	page := h.Web.Page(r, "Employee", listPath)
	emp, err := h.Service.Get(r.Context(), id)
	if err != nil {
		h.Web.FailPage(w, r, page, err)
		return
	}
	page.Title = emp.FullName()
	canManage := auth.CanAccess(shared.Role(r), auth.ScreenOnboarding)
	base := listPath + "/" + emp.ID

	docs := &views.Table{
		Columns: []string{"Type", "File", "Uploaded", "Status", "Remarks"},
		Empty:   "No documents uploaded.",
	}
	for _, doc := range emp.Documents {
		row := views.Row{Cells: []views.Cell{
			{Text: shared.Label(doc.Type)},
			{Text: doc.FileName, Link: doc.URL},
			{Text: shared.DateTime(doc.UploadedAt)},
			{Text: shared.Label(doc.Status), Badge: true},
			{Text: doc.Remarks},
		}}
		if canManage && doc.Status == employees.DocumentPending {
			verifyURL := base + "/documents/" + doc.ID + "/verify"
			row.Actions = []views.Action{
				{Label: "Verify", URL: verifyURL, Method: http.MethodPost, Hidden: []views.Hidden{{Name: "status", Value: employees.DocumentVerified}}},
				{Label: "Reject", URL: verifyURL, Method: http.MethodPost, Variant: "danger",
					Hidden: []views.Hidden{{Name: "status", Value: employees.DocumentRejected}},
					Input:  &views.FormField{Name: "remarks", Label: "Remarks", Placeholder: "Reason", Required: true}},
			}
		}
		docs.Rows = append(docs.Rows, row)
	}

	sections := []views.Section{
		{Title: "Personal", Details: []views.Detail{
			{Label: "Employee code", Value: emp.EmployeeCode},
			{Label: "E-mail", Value: emp.Email},
			{Label: "Phone", Value: emp.Phone},
			{Label: "Date of birth", Value: shared.Date(emp.DateOfBirth)},
			{Label: "Gender", Value: shared.Label(emp.Gender)},
			{Label: "Address", Value: emp.Address},
		}},
		{Title: "Job", Details: []views.Detail{
			{Label: "Department", Value: emp.JobInfo.DepartmentName},
			{Label: "Designation", Value: emp.JobInfo.DesignationName},
			{Label: "Location", Value: emp.JobInfo.LocationName},
			{Label: "Manager", Value: emp.JobInfo.ManagerName},
			{Label: "Employment type", Value: shared.Label(emp.EmploymentDetails.EmploymentType)},
			{Label: "Joined", Value: shared.Date(emp.EmploymentDetails.JoiningDate)},
			{Label: "Probation ends", Value: shared.Date(emp.EmploymentDetails.ProbationEndDate)},
			{Label: "Status", Value: shared.Label(emp.EmploymentDetails.Status)},
		}},
		{Title: "Documents", Table: docs},
	}
	if canManage {
		sections = append(sections, views.Section{Title: "Upload document", Form: &views.Form{
			Action:    base + "/documents",
			Multipart: true,
			Submit:    "Upload",
			Fields: []views.FormField{
				{Name: "type", Label: "Document type", Type: "select", Required: true, Options: shared.Options(employees.DocumentKinds)},
				{Name: "file", Label: "File", Type: "file", Required: true},
			},
		}})
	}
	h.Web.Screen(w, r, page, views.Screen{
		Heading:  emp.FullName(),
		Subtitle: emp.EmployeeCode,
		Actions:  []views.Action{{Label: "Back to list", URL: listPath, Variant: "secondary"}},
		Sections: sections,
	})
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "employeeID")
	if err := h.Service.Delete(r.Context(), id); err != nil {
		h.Web.Fail(w, r, err, listPath)
		return
	}
	h.Web.Success(r, "Employee deleted.")
	shared.Redirect(w, r, listPath)
}

func (h *Handler) handleUploadDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "employeeID")
	back := listPath + "/" + id
	if err := shared.ParseForm(r, h.MaxUploadBytes); err != nil {
		h.Web.Error(r, "The upload could not be read.")
		shared.Redirect(w, r, back)
		return
	}
	kind := r.PostForm.Get("type")
	v := forms.NewValidator()
	v.Required("type", kind, "Choose a document type.")
	v.Enum("type", kind, employees.DocumentKinds, "Unknown document type.")
	upload, err := shared.ReadUpload(r, "file", kind, h.MaxUploadBytes)
	if err != nil {
		v.Add("file", "The file is too large or unreadable.")
	} else if upload == nil {
		v.Add("file", "Choose a file to upload.")
	}
	if errs := v.Errors(); errs.Any() {
		h.Web.Error(r, shared.FirstError(errs))
		shared.Redirect(w, r, back)
		return
	}
	if _, err := h.Service.UploadDocument(r.Context(), id, *upload); err != nil {
		h.Web.Fail(w, r, err, back)
		return
	}
	h.Web.Success(r, "Document uploaded.")
	shared.Redirect(w, r, back)
}

func (h *Handler) handleVerifyDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "employeeID")
	back := listPath + "/" + id
	if err := r.ParseForm(); err != nil {
		h.Web.Error(r, shared.MsgFailed)
		shared.Redirect(w, r, back)
		return
	}
	verification := employees.Verification{
		Status:  r.PostForm.Get("status"),
		Remarks: strings.TrimSpace(r.PostForm.Get("remarks")),
	}
	v := forms.NewValidator()
	v.Enum("status", verification.Status, []string{employees.DocumentVerified, employees.DocumentRejected}, "Unknown verification status.")
	if verification.Status == employees.DocumentRejected {
		v.Required("remarks", verification.Remarks, "Give a reason for rejecting the document.")
	}
	if errs := v.Errors(); errs.Any() {
		h.Web.Error(r, shared.FirstError(errs))
		shared.Redirect(w, r, back)
		return
	}
	if err := h.Service.VerifyDocument(r.Context(), id, chi.URLParam(r, "documentID"), verification); err != nil {
		h.Web.Fail(w, r, err, back)
		return
	}
	h.Web.Success(r, "Document "+verification.Status+".")
	shared.Redirect(w, r, back)
}
