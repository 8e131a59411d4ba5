package leave

import "time"

const (
	StatusPending   = "Pending"
	StatusApproved  = "Approved"
	StatusRejected  = "Rejected"
	StatusCancelled = "Cancelled"
)

const (
	SessionFirstHalf  = "first_half"
	SessionSecondHalf = "second_half"
)

var HalfDaySessions = []string{SessionFirstHalf, SessionSecondHalf}

type LeaveType struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Code         string  `json:"code"`
	DaysPerYear  float64 `json:"daysPerYear"`
	IsPaid       bool    `json:"isPaid"`
	CarryForward bool    `json:"carryForward"`
}

type LeavePolicy struct {
	ID                 string  `json:"id"`
	Name               string  `json:"name"`
	LeaveTypeID        string  `json:"leaveTypeId"`
	LeaveTypeName      string  `json:"leaveTypeName,omitempty"`
	AccrualRate        float64 `json:"accrualRate"`
	AccrualPeriod      string  `json:"accrualPeriod"`
	Entitlement        float64 `json:"entitlement"`
	CarryOver          float64 `json:"carryOverLimit"`
	RequiresHRApproval bool    `json:"requiresHrApproval"`
}

type Application struct {
	ID              string     `json:"id"`
	EmployeeID      string     `json:"employeeId"`
	EmployeeName    string     `json:"employeeName,omitempty"`
	LeaveTypeID     string     `json:"leaveTypeId"`
	LeaveTypeName   string     `json:"leaveTypeName,omitempty"`
	FromDate        string     `json:"fromDate"`
	ToDate          string     `json:"toDate"`
	HalfDay         bool       `json:"halfDay"`
	HalfDaySession  string     `json:"halfDaySession,omitempty"`
	Days            float64    `json:"days"`
	Reason          string     `json:"reason"`
	Status          string     `json:"status"`
	RejectionReason string     `json:"rejectionReason,omitempty"`
	AppliedAt       *time.Time `json:"appliedAt,omitempty"`
}

type NewApplication struct {
	LeaveTypeID    string `json:"leaveTypeId"`
	FromDate       string `json:"fromDate"`
	ToDate         string `json:"toDate"`
	HalfDay        bool   `json:"halfDay"`
	HalfDaySession string `json:"halfDaySession,omitempty"`
	Reason         string `json:"reason"`
}

type Balance struct {
	LeaveTypeID   string  `json:"leaveTypeId"`
	LeaveTypeName string  `json:"leaveTypeName"`
	Allocated     float64 `json:"allocated"`
	Used          float64 `json:"used"`
	Pending       float64 `json:"pending"`
	Available     float64 `json:"available"`
}

type ExportQuery struct {
	From   string
	To     string
	Status string
}
