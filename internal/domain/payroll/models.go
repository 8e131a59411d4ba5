package payroll

import (
	"fmt"
	"time"
)

type Line struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

type Payslip struct {
	ID              string     `json:"id"`
	EmployeeID      string     `json:"employeeId"`
	EmployeeName    string     `json:"employeeName"`
	EmployeeCode    string     `json:"employeeCode,omitempty"`
	Designation     string     `json:"designation,omitempty"`
	Month           int        `json:"month"`
	Year            int        `json:"year"`
	Earnings        []Line     `json:"earnings,omitempty"`
	Deductions      []Line     `json:"deductions,omitempty"`
	GrossSalary     float64    `json:"grossSalary"`
	TotalDeductions float64    `json:"totalDeductions"`
	NetSalary       float64    `json:"netSalary"`
	Currency        string     `json:"currency,omitempty"`
	Status          string     `json:"status"`
	GeneratedAt     *time.Time `json:"generatedAt,omitempty"`
}

// Period renders the payslip month, e.g. "March 2026".
func (p Payslip) Period() string {
	if p.Month < 1 || p.Month > 12 {
		return fmt.Sprintf("%d", p.Year)
	}
	return fmt.Sprintf("%s %d", time.Month(p.Month).String(), p.Year)
}

type GenerateRequest struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

type GenerateResult struct {
	Generated int      `json:"generated"`
	Skipped   int      `json:"skipped"`
	Warnings  []string `json:"warnings,omitempty"`
}

// PeriodSummary totals a payslip register for display.
type PeriodSummary struct {
	TotalGross      float64
	TotalDeductions float64
	TotalNet        float64
	EmployeeCount   int
	Currency        string
}
