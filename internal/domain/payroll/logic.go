package payroll

import "time"

// ValidPeriod checks a month/year pair before it is sent to the backend.
func ValidPeriod(month, year int) error {
	if month < 1 || month > 12 || year < 2000 || year > 2100 {
		return ErrInvalidPeriod
	}
	return nil
}

// PreviousPeriod is the default month offered on the generate form.
func PreviousPeriod(now time.Time) (int, int) {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	prev := first.AddDate(0, -1, 0)
	return int(prev.Month()), prev.Year()
}

// Summarize adds up the server-computed figures of a register. Mixed
// currencies leave Currency empty.
func Summarize(slips []Payslip) PeriodSummary {
	var out PeriodSummary
	for i, slip := range slips {
		out.TotalGross += slip.GrossSalary
		out.TotalDeductions += slip.TotalDeductions
		out.TotalNet += slip.NetSalary
		out.EmployeeCount++
		if i == 0 {
			out.Currency = slip.Currency
		} else if out.Currency != slip.Currency {
			out.Currency = ""
		}
	}
	return out
}
