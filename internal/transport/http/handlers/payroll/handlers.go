package payrollhandler

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"hrmweb/internal/domain/auth"
	"hrmweb/internal/domain/payroll"
	"hrmweb/internal/forms"
	"hrmweb/internal/notify"
	"hrmweb/internal/requestctx"
	"hrmweb/internal/transport/http/middleware"
	"hrmweb/internal/transport/http/shared"
	"hrmweb/internal/transport/http/views"
)

const pagePath = "/payroll"

type Handler struct {
	Web     *shared.Web
	Service *payroll.Service
	Company string
	now     func() time.Time
}

func NewHandler(web *shared.Web, service *payroll.Service, company string) *Handler {
	return &Handler{Web: web, Service: service, Company: company, now: time.Now}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	deny := h.Web.Forbidden()
	r.Route("/payroll", func(r chi.Router) {
		r.With(middleware.RequireScreen(auth.ScreenPayroll, deny)).Get("/", h.handlePage)
		r.With(middleware.RequireScreen(auth.ScreenPayroll, deny)).Get("/payslips/{payslipID}/pdf", h.handlePayslipPDF)
		r.With(middleware.RequireScreen(auth.ScreenPayrollRun, deny)).Post("/generate", h.handleGenerate)
		r.With(middleware.RequireScreen(auth.ScreenPayrollEx, deny)).Get("/export", h.handleExport)
	})
}

// period reads month and year from the query; values out of range are ignored.
func period(r *http.Request) (int, int) {
	month, _ := strconv.Atoi(strings.TrimSpace(r.URL.Query().Get("month")))
	year, _ := strconv.Atoi(strings.TrimSpace(r.URL.Query().Get("year")))
	if month < 1 || month > 12 {
		month = 0
	}
	if year < 2000 || year > 2100 {
		year = 0
	}
	return month, year
}

func monthOptions() []forms.Option {
	out := make([]forms.Option, 0, 12)
	for m := time.January; m <= time.December; m++ {
		out = append(out, forms.Option{Value: strconv.Itoa(int(m)), Label: m.String()})
	}
	return out
}

func itoa(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}

func (h *Handler) handlePage(w http.ResponseWriter, r *http.Request) {
	if auth.CanAccess(shared.Role(r), auth.ScreenPayrollRun) {
		month, year := payroll.PreviousPeriod(h.now())
		h.renderRegister(w, r, http.StatusOK, forms.Values{"month": itoa(month), "year": itoa(year)}, nil)
		return
	}
	h.renderMine(w, r)
}

func (h *Handler) renderMine(w http.ResponseWriter, r *http.Request) {
	page := h.Web.Page(r, "Payroll", pagePath)
	slips, err := h.Service.MyPayslips(r.Context())
	if err != nil {
		h.Web.FailPage(w, r, page, err)
		return
	}
	table := &views.Table{
		Columns: []string{"Period", "Gross", "Deductions", "Net", "Status"},
		Empty:   "No payslips have been issued to you yet.",
	}
	for _, slip := range slips {
		table.Rows = append(table.Rows, views.Row{
			Cells: []views.Cell{
				{Text: slip.Period()},
				{Text: shared.Amount(slip.GrossSalary, slip.Currency)},
				{Text: shared.Amount(slip.TotalDeductions, slip.Currency)},
				{Text: shared.Amount(slip.NetSalary, slip.Currency)},
				{Text: shared.Label(slip.Status), Badge: true},
			},
			Actions: []views.Action{{Label: "PDF", URL: pdfURL(slip.ID), Variant: "secondary"}},
		})
	}
	h.Web.Screen(w, r, page, views.Screen{
		Heading:  "My payslips",
		Sections: []views.Section{{Table: table}},
	})
}

func pdfURL(id string) string {
	return pagePath + "/payslips/" + id + "/pdf"
}

// renderRegister shows the organization register for the filtered month
// with the generate form.
func (h *Handler) renderRegister(w http.ResponseWriter, r *http.Request, status int, generate forms.Values, errs forms.FieldErrors) {
	page := h.Web.Page(r, "Payroll", pagePath)
	month, year := period(r)
	slips, err := h.Service.Payslips(r.Context(), month, year)
	if err != nil {
		h.Web.FailPage(w, r, page, err)
		return
	}
	summary := payroll.Summarize(slips)

	table := &views.Table{
		Columns: []string{"Employee", "Period", "Gross", "Deductions", "Net", "Status"},
		Empty:   "No payslips for this period. Generate payroll to create them.",
	}
	for _, slip := range slips {
		table.Rows = append(table.Rows, views.Row{
			Cells: []views.Cell{
				{Text: slip.EmployeeName},
				{Text: slip.Period()},
				{Text: shared.Amount(slip.GrossSalary, slip.Currency)},
				{Text: shared.Amount(slip.TotalDeductions, slip.Currency)},
				{Text: shared.Amount(slip.NetSalary, slip.Currency)},
				{Text: shared.Label(slip.Status), Badge: true},
			},
			Actions: []views.Action{{Label: "PDF", URL: pdfURL(slip.ID), Variant: "secondary"}},
		})
	}

	var actions []views.Action
	if auth.CanAccess(shared.Role(r), auth.ScreenPayrollEx) {
		exportURL := pagePath + "/export"
		if r.URL.RawQuery != "" {
			exportURL += "?" + r.URL.RawQuery
		}
		actions = append(actions, views.Action{Label: "Export", URL: exportURL, Variant: "secondary"})
	}

	generateStep := forms.Step{Fields: []forms.Field{
		{Name: "month", Label: "Month", Type: "select", Required: true, Options: monthOptions()},
		{Name: "year", Label: "Year", Type: "number", Required: true},
	}}
	page.Content = views.Screen{
		Heading: "Payroll",
		Actions: actions,
		Sections: []views.Section{
			{Title: "Summary", Cards: []views.Card{
				{Label: "Employees", Value: strconv.Itoa(summary.EmployeeCount)},
				{Label: "Gross", Value: shared.Amount(summary.TotalGross, summary.Currency)},
				{Label: "Deductions", Value: shared.Amount(summary.TotalDeductions, summary.Currency)},
				{Label: "Net", Value: shared.Amount(summary.TotalNet, summary.Currency)},
			}},
			{Title: "Generate payroll", Note: "Payroll is calculated by the payroll service for every active employee.", Form: &views.Form{
				Action: pagePath + "/generate",
				Inline: true,
				Submit: "Generate",
				Fields: views.FieldsFromStep(generateStep, generate, errs),
			}},
			{Title: "Payslips", Form: &views.Form{
				Action: pagePath,
				Method: http.MethodGet,
				Inline: true,
				Submit: "Filter",
				Fields: []views.FormField{
					{Name: "month", Label: "Month", Type: "select", Value: itoa(month), Options: monthOptions()},
					{Name: "year", Label: "Year", Type: "number", Value: itoa(year)},
				},
			}, Table: table},
		},
	}
	h.Web.Render(w, status, views.PageScreen, page)
}

func (h *Handler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.Web.Error(r, shared.MsgFailed)
		shared.Redirect(w, r, pagePath)
		return
	}
	values := shared.FormValues(r)
	month, monthErr := strconv.Atoi(values.Get("month"))
	year, yearErr := strconv.Atoi(values.Get("year"))
	errs := forms.FieldErrors{}
	if monthErr != nil || month < 1 || month > 12 {
		errs.Add("month", "Choose a month.")
	}
	if yearErr != nil || payroll.ValidPeriod(1, year) != nil {
		errs.Add("year", "Enter a year between 2000 and 2100.")
	}
	if errs.Any() {
		h.renderRegister(w, r, http.StatusUnprocessableEntity, values, errs)
		return
	}

	result, err := h.Service.Generate(r.Context(), payroll.GenerateRequest{Month: month, Year: year})
	if err != nil {
		h.Web.Fail(w, r, err, pagePath)
		return
	}
	target := fmt.Sprintf("%s?month=%d&year=%d", pagePath, month, year)
	msg := fmt.Sprintf("Payroll generated for %s %d: %d payslip(s)", time.Month(month), year, result.Generated)
	if result.Skipped > 0 {
		msg += fmt.Sprintf(", %d skipped", result.Skipped)
	}
	if len(result.Warnings) > 0 {
		h.Web.Notify(r, notify.LevelWarning, msg+". "+result.Warnings[0])
	} else {
		h.Web.Success(r, msg+".")
	}
	shared.Redirect(w, r, target)
}

func (h *Handler) handlePayslipPDF(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "payslipID")
	slip, err := h.Service.Payslip(r.Context(), id)
	if err != nil {
		h.Web.FailPage(w, r, h.Web.Page(r, "Payslip", pagePath), err)
		return
	}
	var buf bytes.Buffer
	if err := payroll.WritePayslipPDF(&buf, slip, h.Company); err != nil {
		slog.Error("payslip pdf render failed", "payslipId", id, "err", err, "requestId", requestctx.GetRequestID(r.Context()))
		h.Web.Error(r, "The payslip PDF could not be produced.")
		shared.Redirect(w, r, pagePath)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", fmt.Sprintf("payslip-%d-%02d.pdf", slip.Year, slip.Month)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	month, year := period(r)
	file, err := h.Service.Export(r.Context(), month, year)
	if err != nil {
		h.Web.Fail(w, r, err, pagePath)
		return
	}
	shared.Download(w, file, "payroll.csv")
}
