package payroll

import (
	"bytes"
	"errors"
	"testing"
	"time"
)

func TestValidPeriod(t *testing.T) {
	cases := []struct {
		month, year int
		ok          bool
	}{
		{1, 2026, true},
		{12, 2026, true},
		{0, 2026, false},
		{13, 2026, false},
		{5, 1999, false},
	}
	for _, tc := range cases {
		err := ValidPeriod(tc.month, tc.year)
		if tc.ok && err != nil {
			t.Fatalf("%d/%d: unexpected error %v", tc.month, tc.year, err)
		}
		if !tc.ok && !errors.Is(err, ErrInvalidPeriod) {
			t.Fatalf("%d/%d: expected ErrInvalidPeriod, got %v", tc.month, tc.year, err)
		}
	}
}

func TestPreviousPeriod(t *testing.T) {
	month, year := PreviousPeriod(time.Date(2026, 1, 31, 10, 0, 0, 0, time.UTC))
	if month != 12 || year != 2025 {
		t.Fatalf("expected 12/2025, got %d/%d", month, year)
	}
	month, year = PreviousPeriod(time.Date(2026, 3, 31, 10, 0, 0, 0, time.UTC))
	if month != 2 || year != 2026 {
		t.Fatalf("expected 2/2026, got %d/%d", month, year)
	}
}

func TestSummarize(t *testing.T) {
	sum := Summarize([]Payslip{
		{GrossSalary: 1000, TotalDeductions: 100, NetSalary: 900, Currency: "INR"},
		{GrossSalary: 500, TotalDeductions: 50, NetSalary: 450, Currency: "INR"},
	})
	if sum.EmployeeCount != 2 || sum.TotalNet != 1350 || sum.Currency != "INR" {
		t.Fatalf("unexpected summary %+v", sum)
	}
	mixed := Summarize([]Payslip{{Currency: "INR"}, {Currency: "USD"}})
	if mixed.Currency != "" {
		t.Fatalf("expected no currency for mixed register, got %q", mixed.Currency)
	}
}

func TestWritePayslipPDF(t *testing.T) {
	var buf bytes.Buffer
	slip := Payslip{
		EmployeeName:    "Ada Lovelace",
		EmployeeCode:    "EMP-001",
		Month:           3,
		Year:            2026,
		Earnings:        []Line{{Name: "Basic", Amount: 50000}, {Name: "HRA", Amount: 20000}},
		Deductions:      []Line{{Name: "PF", Amount: 6000}},
		GrossSalary:     70000,
		TotalDeductions: 6000,
		NetSalary:       64000,
	}
	if err := WritePayslipPDF(&buf, slip, "Acme"); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
		t.Fatalf("output is not a PDF: %q", buf.Bytes()[:8])
	}
	if slip.Period() != "March 2026" {
		t.Fatalf("unexpected period %q", slip.Period())
	}
}
