package recruitment

import "time"

const (
	StatusApplied   = "applied"
	StatusScreening = "screening"
	StatusInterview = "interview"
	StatusOffered   = "offered"
	StatusHired     = "hired"
	StatusRejected  = "rejected"
)

var Statuses = []string{StatusApplied, StatusScreening, StatusInterview, StatusOffered, StatusHired, StatusRejected}

type Candidate struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Phone     string     `json:"phone,omitempty"`
	Position  string     `json:"position"`
	Status    string     `json:"status"`
	ResumeURL string     `json:"resumeUrl,omitempty"`
	AppliedAt *time.Time `json:"appliedAt,omitempty"`
}

type NewCandidate struct {
	Name     string
	Email    string
	Phone    string
	Position string
}
