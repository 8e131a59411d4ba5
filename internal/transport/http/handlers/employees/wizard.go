package employeeshandler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"hrmweb/internal/apiclient"
	"hrmweb/internal/domain/employees"
	"hrmweb/internal/domain/org"
	"hrmweb/internal/forms"
	"hrmweb/internal/requestctx"
	"hrmweb/internal/transport/http/middleware"
	"hrmweb/internal/transport/http/shared"
	"hrmweb/internal/transport/http/views"
)

const (
	wizardPath = "/employees/new"
	wizardKey  = "wizard:employee"
)

// restoreWizard loads the onboarding wizard saved in the session. A
// corrupt state starts over rather than failing the page.
func (h *Handler) restoreWizard(r *http.Request, lookups employees.Lookups) *forms.Wizard {
	steps := employees.OnboardingSteps(lookups)
	state, _ := shared.Session(r).Get(wizardKey)
	wiz, err := forms.RestoreWizard(state, steps...)
	if err != nil {
		slog.Warn("discarding onboarding state", "err", err, "requestId", requestctx.GetRequestID(r.Context()))
		return forms.NewWizard(steps...)
	}
	return wiz
}

func (h *Handler) saveWizard(r *http.Request, wiz *forms.Wizard) {
	sess := shared.Session(r)
	state, err := wiz.State()
	if err != nil {
		slog.Warn("encode onboarding state failed", "err", err)
		return
	}
	sess.Set(wizardKey, state)
	h.Web.SaveSession(r, sess)
}

func (h *Handler) clearWizard(r *http.Request) {
	sess := shared.Session(r)
	sess.Delete(wizardKey)
	h.Web.SaveSession(r, sess)
}

func (h *Handler) lookups(ctx context.Context) (employees.Lookups, error) {
	departments, err := h.Org.Departments(ctx)
	if err != nil {
		return employees.Lookups{}, err
	}
	designations, err := h.Org.Designations(ctx)
	if err != nil {
		return employees.Lookups{}, err
	}
	locations, err := h.Org.Locations(ctx)
	if err != nil {
		return employees.Lookups{}, err
	}
	people, err := h.Service.All(ctx, employees.ListQuery{})
	if err != nil {
		return employees.Lookups{}, err
	}
	managers := make([]forms.Option, 0, len(people))
	for _, p := range people {
		managers = append(managers, forms.Option{Value: p.ID, Label: p.FullName()})
	}
	return employees.Lookups{
		Departments:  org.DepartmentOptions(departments),
		Designations: org.DesignationOptions(designations),
		Locations:    org.LocationOptions(locations),
		Managers:     managers,
	}, nil
}

func (h *Handler) handleWizard(w http.ResponseWriter, r *http.Request) {
	h.renderWizard(w, r, http.StatusOK, nil, nil, "")
}

// renderWizard shows the current step. Lookups are only fetched for
// rendering; step validation does not depend on them.
func (h *Handler) renderWizard(w http.ResponseWriter, r *http.Request, status int, wiz *forms.Wizard, errs forms.FieldErrors, message string) {
	page := h.Web.Page(r, "New employee", listPath)
	lookups, err := h.lookups(r.Context())
	if err != nil {
		h.Web.FailPage(w, r, page, err)
		return
	}
	steps := employees.OnboardingSteps(lookups)
	if wiz == nil {
		wiz = h.restoreWizard(r, lookups)
	} else {
		wiz.Steps = steps
	}

	view := views.WizardView{
		Heading: "New employee",
		CanBack: !wiz.IsFirst(),
		IsLast:  wiz.IsLast(),
		Message: message,
		Form: views.Form{
			Action:    wizardPath,
			Multipart: true,
			Fields:    views.FieldsFromStep(wiz.Step(), wiz.Values, errs),
		},
	}
	for i, step := range wiz.Steps {
		view.Steps = append(view.Steps, views.WizardStep{Title: step.Title, Current: i == wiz.Current, Done: i < wiz.Current})
	}
	page.Content = view
	h.Web.Render(w, status, views.PageWizard, page)
}

func (h *Handler) handleWizardStep(w http.ResponseWriter, r *http.Request) {
	if err := shared.ParseForm(r, h.MaxUploadBytes); err != nil {
		h.Web.Error(r, "The form could not be read. Files may be too large.")
		shared.Redirect(w, r, wizardPath)
		return
	}
	wiz := h.restoreWizard(r, employees.Lookups{})
	input := shared.FormValues(r)

	switch r.PostForm.Get("action") {
	case "cancel":
		h.clearWizard(r)
		shared.Redirect(w, r, listPath)
	case "back":
		wiz.Merge(input)
		wiz.Back()
		h.saveWizard(r, wiz)
		shared.Redirect(w, r, wizardPath)
	case "submit":
		h.submitWizard(w, r, wiz, input)
	default:
		errs, err := wiz.Advance(input)
		h.saveWizard(r, wiz)
		if errors.Is(err, forms.ErrStepIncomplete) {
			h.renderWizard(w, r, http.StatusUnprocessableEntity, wiz, errs, "Fix the highlighted fields to continue.")
			return
		}
		shared.Redirect(w, r, wizardPath)
	}
}

// submitWizard creates the employee, then uploads the attached documents
// as a second wave. Upload failures are reported one by one and do not
// undo the creation.
func (h *Handler) submitWizard(w http.ResponseWriter, r *http.Request, wiz *forms.Wizard, input forms.Values) {
	if wiz.IsLast() {
		wiz.Merge(input)
	}
	values, errs, err := wiz.Complete()
	if err != nil {
		h.saveWizard(r, wiz)
		h.renderWizard(w, r, http.StatusUnprocessableEntity, wiz, errs, "Some earlier steps are incomplete.")
		return
	}

	var queue forms.UploadQueue
	uploadErrs := forms.FieldErrors{}
	for _, kind := range employees.DocumentKinds {
		field := "doc_" + kind
		upload, err := shared.ReadUpload(r, field, kind, h.MaxUploadBytes)
		if err != nil {
			uploadErrs.Add(field, "The file is too large or unreadable.")
			continue
		}
		if upload != nil {
			queue.Add(*upload)
		}
	}
	if uploadErrs.Any() {
		h.saveWizard(r, wiz)
		h.renderWizard(w, r, http.StatusUnprocessableEntity, wiz, uploadErrs, "Some files could not be attached.")
		return
	}

	created, err := h.Service.Create(r.Context(), employees.Payload(values))
	if err != nil {
		if fieldErrs, ok := forms.FromAPI(err); ok {
			mapped := employees.WizardErrors(fieldErrs)
			wiz.ShowErrors(mapped)
			h.saveWizard(r, wiz)
			h.renderWizard(w, r, http.StatusUnprocessableEntity, wiz, mapped, "The server rejected some fields.")
			return
		}
		h.saveWizard(r, wiz)
		h.Web.Fail(w, r, err, wizardPath)
		return
	}

	employeeID := created.Employee.ID
	results := queue.FlushUntil(r.Context(), func(ctx context.Context, upload forms.PendingUpload) error {
		_, err := h.Service.UploadDocument(ctx, employeeID, upload)
		return err
	}, func(err error) bool { return errors.Is(err, apiclient.ErrSessionExpired) })
	failed := forms.FailedUploads(results)
	for _, f := range failed {
		if errors.Is(f.Err, apiclient.ErrSessionExpired) {
			h.renderCreatedAfterExpiry(w, r, created)
			return
		}
	}

	h.Web.Success(r, created.Employee.FullName()+" was added.")
	for _, f := range failed {
		slog.Warn("onboarding upload failed",
			"employeeId", employeeID,
			"file", f.Upload.FileName,
			"requestId", requestctx.GetRequestID(r.Context()),
			"err", f.Err,
		)
		h.Web.Error(r, "Could not upload "+f.Upload.FileName+". Add it from the employee page.")
	}

	sess := shared.Session(r)
	sess.Delete(wizardKey)
	if created.GeneratedPassword != "" {
		raw, err := json.Marshal(employees.Credentials{Email: created.Employee.Email, Password: created.GeneratedPassword})
		if err == nil {
			sess.PutOnce(credentialsKey, string(raw))
		}
	}
	h.Web.SaveSession(r, sess)
	shared.Redirect(w, r, listPath)
}

// renderCreatedAfterExpiry answers when the session ended between creating
// the employee and uploading the documents. Nothing can be kept in the
// session any more, so the generated credentials are shown in this response.
func (h *Handler) renderCreatedAfterExpiry(w http.ResponseWriter, r *http.Request, created employees.Created) {
	slog.Warn("session expired during onboarding uploads",
		"employeeId", created.Employee.ID,
		"requestId", requestctx.GetRequestID(r.Context()),
	)
	h.Web.Sessions.ClearCookie(w)
	signIn := middleware.LoginPath + "?next=" + url.QueryEscape(listPath)
	page := h.Web.Page(r, "Employee added", listPath)
	if created.GeneratedPassword != "" {
		page.Dialog = credentialsDialog(employees.Credentials{Email: created.Employee.Email, Password: created.GeneratedPassword}, signIn)
	}
	h.Web.Screen(w, r, page, views.Screen{
		Heading: "Employee added",
		Actions: []views.Action{{Label: "Sign in", URL: signIn}},
		Sections: []views.Section{{
			Note: created.Employee.FullName() + " was added, but your session expired before the documents were uploaded. Sign in again and add them from the employee page.",
		}},
	})
}
