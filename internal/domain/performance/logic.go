package performance

import (
	"strconv"
	"strings"

	"hrmweb/internal/forms"
)

const (
	MinRating = 1
	MaxRating = 5
)

func ValidateGoal(g Goal) forms.FieldErrors {
	v := forms.NewValidator()
	v.Required("title", g.Title, "title is required")
	v.Required("dueDate", g.DueDate, "due date is required")
	v.Date("dueDate", g.DueDate)
	if g.Weight < 0 || g.Weight > 100 {
		v.Add("weight", "must be between 0 and 100")
	}
	return v.Errors()
}

func ValidateCycle(c ReviewCycle) forms.FieldErrors {
	v := forms.NewValidator()
	v.Required("name", c.Name, "name is required")
	v.Required("startDate", c.StartDate, "start date is required")
	v.Required("endDate", c.EndDate, "end date is required")
	start, okStart := v.Date("startDate", c.StartDate)
	end, okEnd := v.Date("endDate", c.EndDate)
	if okStart && okEnd {
		v.DateOrder("startDate", start, "endDate", end)
	}
	return v.Errors()
}

// ParseProgress reads a goal progress percentage in [0, 100].
func ParseProgress(raw string) (float64, bool) {
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || value < 0 || value > 100 {
		return 0, false
	}
	return value, true
}

// ParseRating reads a review rating on the 1..5 scale.
func ParseRating(raw string) (float64, bool) {
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || value < MinRating || value > MaxRating {
		return 0, false
	}
	return value, true
}

// ParseIncrement reads a proposed increment percentage. Zero is allowed;
// negative increments are not.
func ParseIncrement(raw string) (float64, bool) {
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || value < 0 || value > 100 {
		return 0, false
	}
	return value, true
}

// NextCycleStatus is the single forward transition offered for a cycle.
func NextCycleStatus(current string) string {
	switch current {
	case ReviewCycleStatusDraft:
		return ReviewCycleStatusActive
	case ReviewCycleStatusActive:
		return ReviewCycleStatusClosed
	default:
		return ""
	}
}
