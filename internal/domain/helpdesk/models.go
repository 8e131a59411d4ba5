package helpdesk

import "time"

const (
	StatusOpen       = "open"
	StatusInProgress = "in_progress"
	StatusResolved   = "resolved"
	StatusClosed     = "closed"
)

var (
	Categories = []string{"it", "hr", "payroll", "facilities", "other"}
	Priorities = []string{"low", "medium", "high", "urgent"}
	Statuses   = []string{StatusOpen, StatusInProgress, StatusResolved, StatusClosed}
)

type Comment struct {
	ID         string     `json:"id"`
	AuthorID   string     `json:"authorId"`
	AuthorName string     `json:"authorName"`
	Message    string     `json:"message"`
	CreatedAt  *time.Time `json:"createdAt,omitempty"`
}

type Ticket struct {
	ID           string     `json:"id"`
	TicketNumber string     `json:"ticketNumber"`
	Subject      string     `json:"subject"`
	Description  string     `json:"description"`
	Category     string     `json:"category"`
	Priority     string     `json:"priority"`
	Status       string     `json:"status"`
	RaisedBy     string     `json:"raisedBy"`
	RaisedByName string     `json:"raisedByName,omitempty"`
	AssignedTo   string     `json:"assignedTo,omitempty"`
	Comments     []Comment  `json:"comments,omitempty"`
	CreatedAt    *time.Time `json:"createdAt,omitempty"`
}

type NewTicket struct {
	Subject     string `json:"subject"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Priority    string `json:"priority"`
}
