package views

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"hrmweb/internal/forms"
	"hrmweb/internal/notify"
)

func render(t *testing.T, name string, page Page) string {
	t.Helper()
	rec := httptest.NewRecorder()
	MustRenderer().Render(rec, http.StatusOK, name, page)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	return rec.Body.String()
}

func TestEmptyTableRendersEmptyState(t *testing.T) {
	body := render(t, PageScreen, Page{
		Title: "Leaves",
		User:  &UserBadge{Name: "Ann", Role: "Employee"},
		Content: Screen{Heading: "Leaves", Sections: []Section{{
			Title: "My applications",
			Table: &Table{Columns: []string{"Type", "From"}, Empty: "You have not applied for leave yet."},
		}}},
	})
	if !strings.Contains(body, "You have not applied for leave yet.") {
		t.Fatal("expected empty-state message")
	}
	if strings.Contains(body, "<tbody>") {
		t.Fatal("empty table must not render a body")
	}
}

func TestTableRowsAndActions(t *testing.T) {
	body := render(t, PageScreen, Page{
		Title: "Leaves",
		Content: Screen{Heading: "Leaves", Sections: []Section{{
			Table: &Table{
				Columns: []string{"Employee", "Status"},
				Rows: []Row{{
					Cells: []Cell{{Text: "Ann <b>", Link: "/employees/1"}, {Text: "Pending", Badge: true}},
					Actions: []Action{{Label: "Reject", URL: "/leaves/9/reject", Method: http.MethodPost, Confirm: "Sure?",
						Input: &FormField{Name: "reason", Label: "Reason", Required: true}}},
				}},
			},
		}}},
	})
	for _, want := range []string{`href="/employees/1"`, "Ann &lt;b&gt;", "badge-pending", `action="/leaves/9/reject"`, `data-confirm="Sure?"`, `name="reason"`} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in body", want)
		}
	}
}

func TestLayoutShowsToastAndDialog(t *testing.T) {
	toast := notify.Toast{ID: "t1", Level: notify.LevelSuccess, Message: "Saved", ExpiresAt: time.Now().Add(time.Second)}
	body := render(t, PageScreen, Page{
		Title:   "Employees",
		User:    &UserBadge{Name: "Hana", Role: "HR"},
		Toast:   &toast,
		Dialog:  &Dialog{Title: "Employee credentials", Lines: []Detail{{Label: "Password", Value: "s3cret"}}, CloseURL: "/employees"},
		Content: Screen{Heading: "Employees"},
	})
	for _, want := range []string{"toast-success", "Saved", "Employee credentials", "s3cret", `data-stream="/notifications/stream"`} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in body", want)
		}
	}
}

func TestPageErrorStateReplacesContent(t *testing.T) {
	body := render(t, PageScreen, Page{
		Title:   "Payroll",
		Error:   "Could not load payslips.",
		Content: Screen{Heading: "should not render"},
	})
	if !strings.Contains(body, "Could not load payslips.") || strings.Contains(body, "should not render") {
		t.Fatal("expected error state instead of content")
	}
}

func TestWizardRendersFieldErrors(t *testing.T) {
	step := forms.Step{Name: "personal", Title: "Personal", Fields: []forms.Field{
		{Name: "firstName", Label: "First name", Required: true},
		{Name: "gender", Label: "Gender", Type: "select", Options: []forms.Option{{Value: "female", Label: "Female"}}},
	}}
	fields := FieldsFromStep(step, forms.Values{"gender": "female"}, forms.FieldErrors{"firstName": "First name is required"})
	body := render(t, PageWizard, Page{
		Title: "New employee",
		Content: WizardView{
			Heading: "New employee",
			Steps:   []WizardStep{{Title: "Personal", Current: true}, {Title: "Job"}},
			Form:    Form{Action: "/employees/new", Fields: fields},
		},
	})
	for _, want := range []string{"First name is required", `value="female" selected`, `value="next"`} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in body", want)
		}
	}
	if strings.Contains(body, `value="back"`) {
		t.Fatal("first step must not offer back")
	}
}

func TestUnknownTemplate(t *testing.T) {
	rec := httptest.NewRecorder()
	MustRenderer().Render(rec, http.StatusOK, "missing.html", Page{})
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}
