package performance

type Goal struct {
	ID           string  `json:"id"`
	EmployeeID   string  `json:"employeeId"`
	EmployeeName string  `json:"employeeName,omitempty"`
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	Metric       string  `json:"metric"`
	DueDate      string  `json:"dueDate"`
	Weight       float64 `json:"weight"`
	Status       string  `json:"status"`
	Progress     float64 `json:"progress"`
}

type ReviewCycle struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Status    string `json:"status"`
}

type Review struct {
	ID           string  `json:"id"`
	CycleID      string  `json:"cycleId"`
	CycleName    string  `json:"cycleName,omitempty"`
	EmployeeID   string  `json:"employeeId"`
	EmployeeName string  `json:"employeeName,omitempty"`
	ReviewerID   string  `json:"reviewerId"`
	ReviewerName string  `json:"reviewerName,omitempty"`
	Rating       float64 `json:"rating"`
	Comments     string  `json:"comments"`
	Status       string  `json:"status"`
}

type NewReview struct {
	CycleID    string `json:"cycleId"`
	EmployeeID string `json:"employeeId"`
}

type Submission struct {
	Rating   float64 `json:"rating"`
	Comments string  `json:"comments"`
}

type AppraisalCycle struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	ReviewCycleID string `json:"reviewCycleId,omitempty"`
	EffectiveDate string `json:"effectiveDate"`
	Status        string `json:"status"`
}

type Appraisal struct {
	ID                   string  `json:"id"`
	CycleID              string  `json:"cycleId"`
	EmployeeID           string  `json:"employeeId"`
	EmployeeName         string  `json:"employeeName,omitempty"`
	ReviewRating         float64 `json:"reviewRating"`
	CurrentCTC           float64 `json:"currentCtc"`
	ProposedIncrementPct float64 `json:"proposedIncrementPercent"`
	ProposedCTC          float64 `json:"proposedCtc"`
	Status               string  `json:"status"`
}
