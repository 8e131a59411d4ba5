package payroll

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
)

// WritePayslipPDF renders a payslip fetched from the backend. Figures are
// printed as received; nothing is recomputed.
func WritePayslipPDF(w io.Writer, slip Payslip, company string) error {
	currency := slip.Currency
	if currency == "" {
		currency = "INR"
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Payslip %s", slip.Period()), true)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	if company != "" {
		pdf.CellFormat(0, 10, company, "", 1, "L", false, 0, "")
	}
	pdf.Cell(40, 10, "Payslip")
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Employee: %s", slip.EmployeeName))
	pdf.Ln(7)
	if slip.EmployeeCode != "" {
		pdf.Cell(0, 8, fmt.Sprintf("Employee code: %s", slip.EmployeeCode))
		pdf.Ln(7)
	}
	if slip.Designation != "" {
		pdf.Cell(0, 8, fmt.Sprintf("Designation: %s", slip.Designation))
		pdf.Ln(7)
	}
	pdf.Cell(0, 8, fmt.Sprintf("Period: %s", slip.Period()))
	pdf.Ln(10)

	lineTable(pdf, "Earnings", slip.Earnings, currency)
	lineTable(pdf, "Deductions", slip.Deductions, currency)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Gross: %.2f %s", slip.GrossSalary, currency))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Deductions: %.2f %s", slip.TotalDeductions, currency))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Net: %.2f %s", slip.NetSalary, currency))

	return pdf.Output(w)
}

func lineTable(pdf *gofpdf.Fpdf, title string, lines []Line, currency string) {
	if len(lines) == 0 {
		return
	}
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(120, 8, title, "B", 0, "L", false, 0, "")
	pdf.CellFormat(50, 8, "Amount ("+currency+")", "B", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	for _, line := range lines {
		pdf.CellFormat(120, 7, line.Name, "", 0, "L", false, 0, "")
		pdf.CellFormat(50, 7, fmt.Sprintf("%.2f", line.Amount), "", 1, "R", false, 0, "")
	}
	pdf.Ln(4)
}
