package performancehandler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"hrmweb/internal/domain/auth"
	"hrmweb/internal/domain/employees"
	"hrmweb/internal/domain/performance"
	"hrmweb/internal/forms"
	"hrmweb/internal/transport/http/shared"
	"hrmweb/internal/transport/http/views"
)

func ratingOptions() []forms.Option {
	out := make([]forms.Option, 0, performance.MaxRating-performance.MinRating+1)
	for i := performance.MinRating; i <= performance.MaxRating; i++ {
		out = append(out, forms.Option{Value: strconv.Itoa(i), Label: strconv.Itoa(i)})
	}
	return out
}

func rating(value float64) string {
	if value <= 0 {
		return "-"
	}
	return shared.Number(value) + " / " + strconv.Itoa(performance.MaxRating)
}

func (h *Handler) handleReviews(w http.ResponseWriter, r *http.Request) {
	h.renderReviews(w, r, http.StatusOK, nil, nil)
}

func (h *Handler) renderReviews(w http.ResponseWriter, r *http.Request, status int, values forms.Values, errs forms.FieldErrors) {
	page := h.Web.Page(r, "Reviews", reviewsPath)
	reviews, err := h.Service.Reviews(r.Context())
	if err != nil {
		h.Web.FailPage(w, r, page, err)
		return
	}
	table := &views.Table{
		Columns: []string{"Employee", "Reviewer", "Cycle", "Rating", "Status"},
		Empty:   "No reviews yet.",
	}
	for _, rv := range reviews {
		table.Rows = append(table.Rows, views.Row{Cells: []views.Cell{
			{Text: rv.EmployeeName, Link: reviewsPath + "/" + rv.ID},
			{Text: rv.ReviewerName},
			{Text: rv.CycleName},
			{Text: rating(rv.Rating)},
			{Text: shared.Label(rv.Status), Badge: true},
		}})
	}
	sections := []views.Section{{Table: table}}

	if auth.CanAccess(shared.Role(r), auth.ScreenReviewWrite) {
		cycles, err := h.Service.Cycles(r.Context())
		if err != nil {
			h.Web.FailPage(w, r, page, err)
			return
		}
		people, err := h.Employees.All(r.Context(), employees.ListQuery{Status: employees.StatusActive})
		if err != nil {
			h.Web.FailPage(w, r, page, err)
			return
		}
		var cycleOptions []forms.Option
		for _, c := range cycles {
			if c.Status == performance.ReviewCycleStatusActive {
				cycleOptions = append(cycleOptions, forms.Option{Value: c.ID, Label: c.Name})
			}
		}
		peopleOptions := make([]forms.Option, 0, len(people))
		for _, p := range people {
			peopleOptions = append(peopleOptions, forms.Option{Value: p.ID, Label: p.FullName()})
		}
		step := forms.Step{Fields: []forms.Field{
			{Name: "cycleId", Label: "Cycle", Type: "select", Required: true, Options: cycleOptions},
			{Name: "employeeId", Label: "Employee", Type: "select", Required: true, Options: peopleOptions},
		}}
		section := views.Section{Title: "Start a review", Form: &views.Form{
			Action: reviewsPath,
			Inline: true,
			Submit: "Start review",
			Fields: views.FieldsFromStep(step, values, errs),
		}}
		if len(cycleOptions) == 0 {
			section.Note = "Activate a review cycle before starting reviews."
		}
		sections = append(sections, section)
	}

	page.Content = views.Screen{Heading: "Performance reviews", Sections: sections}
	h.Web.Render(w, status, views.PageScreen, page)
}

func (h *Handler) handleCreateReview(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.Web.Error(r, shared.MsgFailed)
		shared.Redirect(w, r, reviewsPath)
		return
	}
	values := shared.FormValues(r)
	review := performance.NewReview{CycleID: values.Get("cycleId"), EmployeeID: values.Get("employeeId")}
	v := forms.NewValidator()
	v.Required("cycleId", review.CycleID, "Choose a cycle.")
	v.Required("employeeId", review.EmployeeID, "Choose an employee.")
	if errs := v.Errors(); errs.Any() {
		h.renderReviews(w, r, http.StatusUnprocessableEntity, values, errs)
		return
	}
	created, err := h.Service.CreateReview(r.Context(), review)
	if err != nil {
		if errs, ok := forms.FromAPI(err); ok {
			h.renderReviews(w, r, http.StatusUnprocessableEntity, values, errs)
			return
		}
		h.Web.Fail(w, r, err, reviewsPath)
		return
	}
	h.Web.Success(r, "Review started.")
	target := reviewsPath
	if created.ID != "" {
		target += "/" + created.ID
	}
	shared.Redirect(w, r, target)
}

func (h *Handler) findReview(r *http.Request, id string) (performance.Review, bool, error) {
	reviews, err := h.Service.Reviews(r.Context())
	if err != nil {
		return performance.Review{}, false, err
	}
	for _, rv := range reviews {
		if rv.ID == id {
			return rv, true, nil
		}
	}
	return performance.Review{}, false, nil
}

// handleReview shows one review. The reviewer submits a draft; the reviewed
// employee acknowledges a submitted one.
func (h *Handler) handleReview(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "reviewID")
	page := h.Web.Page(r, "Review", reviewsPath)
	rv, found, err := h.findReview(r, id)
	if err != nil {
		h.Web.FailPage(w, r, page, err)
		return
	}
	if !found {
		h.Web.NotFound().ServeHTTP(w, r)
		return
	}
	sess := shared.Session(r)
	userID := ""
	if sess != nil {
		userID = sess.User.ID
	}
	base := reviewsPath + "/" + rv.ID

	var actions []views.Action
	if rv.Status == performance.ReviewStatusSubmitted && rv.EmployeeID == userID {
		actions = append(actions, views.Action{Label: "Acknowledge", URL: base + "/acknowledge", Method: http.MethodPost})
	}
	actions = append(actions, views.Action{Label: "Back to reviews", URL: reviewsPath, Variant: "secondary"})

	sections := []views.Section{{Details: []views.Detail{
		{Label: "Employee", Value: rv.EmployeeName},
		{Label: "Reviewer", Value: rv.ReviewerName},
		{Label: "Cycle", Value: rv.CycleName},
		{Label: "Rating", Value: rating(rv.Rating)},
		{Label: "Comments", Value: rv.Comments},
		{Label: "Status", Value: shared.Label(rv.Status)},
	}}}
	canWrite := auth.CanAccess(shared.Role(r), auth.ScreenReviewWrite)
	if canWrite && rv.Status == performance.ReviewStatusDraft && rv.EmployeeID != userID {
		sections = append(sections, views.Section{Title: "Submit review", Form: &views.Form{
			Action: base + "/submit",
			Submit: "Submit",
			Fields: []views.FormField{
				{Name: "rating", Label: "Rating", Type: "select", Required: true, Options: ratingOptions()},
				{Name: "comments", Label: "Comments", Type: "textarea", Required: true},
			},
		}})
	}

	page.Title = "Review of " + rv.EmployeeName
	h.Web.Screen(w, r, page, views.Screen{Heading: page.Title, Subtitle: rv.CycleName, Actions: actions, Sections: sections})
}

func (h *Handler) handleSubmitReview(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "reviewID")
	back := reviewsPath + "/" + id
	if err := r.ParseForm(); err != nil {
		h.Web.Error(r, shared.MsgFailed)
		shared.Redirect(w, r, back)
		return
	}
	score, ok := performance.ParseRating(r.PostForm.Get("rating"))
	comments := strings.TrimSpace(r.PostForm.Get("comments"))
	switch {
	case !ok:
		h.Web.Error(r, "Rating must be between 1 and 5.")
		shared.Redirect(w, r, back)
		return
	case comments == "":
		h.Web.Error(r, "Add comments to the review.")
		shared.Redirect(w, r, back)
		return
	}
	if err := h.Service.SubmitReview(r.Context(), id, performance.Submission{Rating: score, Comments: comments}); err != nil {
		h.Web.Fail(w, r, err, back)
		return
	}
	h.Web.Success(r, "Review submitted.")
	shared.Redirect(w, r, back)
}

func (h *Handler) handleAcknowledgeReview(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "reviewID")
	back := reviewsPath + "/" + id
	if err := h.Service.AcknowledgeReview(r.Context(), id); err != nil {
		h.Web.Fail(w, r, err, back)
		return
	}
	h.Web.Success(r, "Review acknowledged.")
	shared.Redirect(w, r, back)
}
