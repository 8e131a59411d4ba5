package attendance

import "time"

const (
	StatusPresent = "present"
	StatusAbsent  = "absent"
	StatusHalfDay = "half_day"
	StatusOnLeave = "on_leave"
	StatusLate    = "late"
	StatusHoliday = "holiday"
)

type Record struct {
	ID           string     `json:"id"`
	EmployeeID   string     `json:"employeeId"`
	EmployeeName string     `json:"employeeName,omitempty"`
	Date         string     `json:"date"`
	CheckIn      *time.Time `json:"checkIn,omitempty"`
	CheckOut     *time.Time `json:"checkOut,omitempty"`
	Status       string     `json:"status"`
	WorkHours    float64    `json:"workHours"`
}

type Query struct {
	From       string
	To         string
	EmployeeID string
}
