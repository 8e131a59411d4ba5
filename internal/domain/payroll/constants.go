package payroll

const (
	PayslipStatusDraft     = "draft"
	PayslipStatusGenerated = "generated"
	PayslipStatusPaid      = "paid"

	LineTypeEarning   = "earning"
	LineTypeDeduction = "deduction"
)
