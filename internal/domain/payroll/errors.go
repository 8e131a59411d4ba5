package payroll

import "errors"

var (
	ErrInvalidPeriod = errors.New("payroll month or year out of range")
)
