package reports

// Stats is the backend's dashboard aggregate. Fields a role cannot see are
// left zero by the backend.
type Stats struct {
	TotalEmployees   int     `json:"totalEmployees"`
	PresentToday     int     `json:"presentToday"`
	OnLeaveToday     int     `json:"onLeaveToday"`
	PendingLeaves    int     `json:"pendingLeaves"`
	PendingApprovals int     `json:"pendingApprovals"`
	OpenTickets      int     `json:"openTickets"`
	LeaveBalance     float64 `json:"leaveBalance"`
	PayslipCount     int     `json:"payslipCount"`
	GoalCount        int     `json:"goalCount"`
	TeamGoals        int     `json:"teamGoals"`
	ReviewTasks      int     `json:"reviewTasks"`
	ReviewCycles     int     `json:"reviewCycles"`
	PayrollStatus    string  `json:"payrollStatus"`
}

type Card struct {
	Label string
	Value string
	Link  string
}
