package payrollhandler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"hrmweb/internal/domain/auth"
	"hrmweb/internal/domain/payroll"
	"hrmweb/internal/notify"
	"hrmweb/internal/transport/http/handlers/handlertest"
)

func setup(t *testing.T) *handlertest.Harness {
	t.Helper()
	h := handlertest.New(t)
	handler := NewHandler(h.Web, payroll.NewService(h.Client), "Acme Corp")
	handler.now = func() time.Time { return time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC) }
	handler.RegisterRoutes(h.Router)
	return h
}

var slips = []payroll.Payslip{
	{ID: "s1", EmployeeName: "Ann Lee", Month: 2, Year: 2026, GrossSalary: 50000, TotalDeductions: 5000, NetSalary: 45000, Currency: "INR", Status: payroll.PayslipStatusGenerated},
	{ID: "s2", EmployeeName: "Bo Ng", Month: 2, Year: 2026, GrossSalary: 30000, TotalDeductions: 3000, NetSalary: 27000, Currency: "INR", Status: payroll.PayslipStatusPaid},
}

func TestRegisterForHRShowsSummaryAndDefaultsToPreviousMonth(t *testing.T) {
	h := setup(t)
	h.Backend.Router.Get("/payroll/payslips", func(w http.ResponseWriter, r *http.Request) {
		handlertest.JSON(w, http.StatusOK, slips)
	})

	rec := h.Get(pagePath+"?month=2&year=2026", h.Login(auth.RoleHR))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"INR 72,000.00", "Ann Lee", `<option value="2" selected>February</option>`, `value="2026"`} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in register", want)
		}
	}
	calls := h.Backend.Calls()
	if len(calls) != 1 || calls[0].Query.Get("month") != "2" || calls[0].Query.Get("year") != "2026" {
		t.Fatalf("expected period filter forwarded, got %+v", calls)
	}
}

func TestEmployeeSeesOwnPayslipsOnly(t *testing.T) {
	h := setup(t)
	h.Backend.Router.Get("/payroll/my-payslips", func(w http.ResponseWriter, r *http.Request) {
		handlertest.JSON(w, http.StatusOK, slips[:1])
	})

	rec := h.Get(pagePath, h.Login(auth.RoleEmployee))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "February 2026") || strings.Contains(body, "Generate payroll") {
		t.Fatal("expected own payslips without the generate form")
	}
	if n := h.Backend.Count(http.MethodGet, "/payroll/payslips"); n != 0 {
		t.Fatalf("employee must not load the register, got %d calls", n)
	}

	rec = h.PostForm(pagePath+"/generate", url.Values{"month": {"2"}, "year": {"2026"}}, h.Login(auth.RoleEmployee))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for employee generate, got %d", rec.Code)
	}
}

func TestGenerateReportsResult(t *testing.T) {
	h := setup(t)
	var got payroll.GenerateRequest
	h.Backend.Router.Post("/payroll/generate", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		handlertest.JSON(w, http.StatusOK, payroll.GenerateResult{Generated: 12, Skipped: 1, Warnings: []string{"1 employee has no salary structure"}})
	})
	cookie := h.Login(auth.RoleAdmin)

	rec := h.PostForm(pagePath+"/generate", url.Values{"month": {"2"}, "year": {"2026"}}, cookie)
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != pagePath+"?month=2&year=2026" {
		t.Fatalf("expected redirect to the period, got %d %q", rec.Code, rec.Header().Get("Location"))
	}
	if got.Month != 2 || got.Year != 2026 {
		t.Fatalf("unexpected request %+v", got)
	}
	toast, ok := h.Toast(cookie)
	if !ok || toast.Level != notify.LevelWarning || !strings.Contains(toast.Message, "12 payslip(s), 1 skipped") {
		t.Fatalf("unexpected toast %+v", toast)
	}
}

func TestGenerateRejectsBadPeriod(t *testing.T) {
	h := setup(t)
	h.Backend.Router.Get("/payroll/payslips", func(w http.ResponseWriter, r *http.Request) {
		handlertest.JSON(w, http.StatusOK, nil)
	})

	rec := h.PostForm(pagePath+"/generate", url.Values{"month": {"13"}, "year": {"1999"}}, h.Login(auth.RoleHR))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Choose a month.") || !strings.Contains(body, "Enter a year between 2000 and 2100.") {
		t.Fatal("expected period field errors")
	}
	if n := h.Backend.Count(http.MethodPost, "/payroll/generate"); n != 0 {
		t.Fatalf("expected no generate call, got %d", n)
	}
}

func TestPayslipPDF(t *testing.T) {
	h := setup(t)
	h.Backend.Router.Get("/payroll/payslips/{id}", func(w http.ResponseWriter, r *http.Request) {
		handlertest.JSON(w, http.StatusOK, slips[0])
	})

	rec := h.Get(pdfURL("s1"), h.Login(auth.RoleEmployee))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Header().Get("Content-Type") != "application/pdf" {
		t.Fatalf("unexpected content type %q", rec.Header().Get("Content-Type"))
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")) {
		t.Fatal("expected a PDF document")
	}
	if !strings.Contains(rec.Header().Get("Content-Disposition"), "payslip-2026-02.pdf") {
		t.Fatalf("unexpected disposition %q", rec.Header().Get("Content-Disposition"))
	}
}

func TestPayslipNotFound(t *testing.T) {
	h := setup(t)
	h.Backend.Router.Get("/payroll/payslips/{id}", func(w http.ResponseWriter, r *http.Request) {
		handlertest.Fail(w, http.StatusNotFound, "payslip not found")
	})

	rec := h.Get(pdfURL("missing"), h.Login(auth.RoleEmployee))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
