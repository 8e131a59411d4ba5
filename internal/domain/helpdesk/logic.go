package helpdesk

import (
	"strings"

	"hrmweb/internal/forms"
)

func Validate(t NewTicket) forms.FieldErrors {
	v := forms.NewValidator()
	v.Required("subject", t.Subject, "subject is required")
	v.Required("description", t.Description, "description is required")
	v.Required("category", t.Category, "category is required")
	v.Enum("category", t.Category, Categories, "unknown category")
	v.Enum("priority", t.Priority, Priorities, "unknown priority")
	if len(strings.TrimSpace(t.Subject)) > 200 {
		v.Add("subject", "must be at most 200 characters")
	}
	return v.Errors()
}

// NextStatuses lists the transitions offered to triage staff.
func NextStatuses(current string) []string {
	switch current {
	case StatusOpen:
		return []string{StatusInProgress, StatusResolved, StatusClosed}
	case StatusInProgress:
		return []string{StatusResolved, StatusClosed}
	case StatusResolved:
		return []string{StatusClosed, StatusOpen}
	default:
		return nil
	}
}
