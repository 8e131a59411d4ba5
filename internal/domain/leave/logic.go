package leave

import (
	"errors"
	"strings"
	"time"

	"hrmweb/internal/forms"
)

// CalculateDays returns inclusive day count between start and end.
func CalculateDays(start, end time.Time) (float64, error) {
	if end.Before(start) {
		return 0, errors.New("end date before start date")
	}
	return end.Sub(start).Hours()/24 + 1, nil
}

// RequestedDays is the day count shown next to the form; the backend
// computes the authoritative figure.
func RequestedDays(app NewApplication) (float64, error) {
	if app.HalfDay {
		return 0.5, nil
	}
	start, err := forms.ParseDate(app.FromDate)
	if err != nil {
		return 0, err
	}
	end, err := forms.ParseDate(app.ToDate)
	if err != nil {
		return 0, err
	}
	return CalculateDays(start, end)
}

// Normalize forces a half-day application onto a single date and drops
// the session when the application spans full days.
func Normalize(app NewApplication) NewApplication {
	app.LeaveTypeID = strings.TrimSpace(app.LeaveTypeID)
	app.FromDate = strings.TrimSpace(app.FromDate)
	app.ToDate = strings.TrimSpace(app.ToDate)
	app.Reason = strings.TrimSpace(app.Reason)
	if app.HalfDay {
		app.ToDate = app.FromDate
		if app.HalfDaySession == "" {
			app.HalfDaySession = SessionFirstHalf
		}
		return app
	}
	app.HalfDaySession = ""
	return app
}

// Validate checks presence and shape of a normalized application.
func Validate(app NewApplication) forms.FieldErrors {
	v := forms.NewValidator()
	v.Required("leaveTypeId", app.LeaveTypeID, "leave type is required")
	v.Required("fromDate", app.FromDate, "start date is required")
	v.Required("toDate", app.ToDate, "end date is required")
	v.Required("reason", app.Reason, "reason is required")
	from, okFrom := v.Date("fromDate", app.FromDate)
	to, okTo := v.Date("toDate", app.ToDate)
	if okFrom && okTo {
		v.DateOrder("fromDate", from, "toDate", to)
	}
	if app.HalfDay {
		v.Enum("halfDaySession", app.HalfDaySession, HalfDaySessions, "must be first or second half")
	}
	return v.Errors()
}

// Cancellable reports whether the applicant may still withdraw.
func Cancellable(app Application) bool {
	return strings.EqualFold(app.Status, StatusPending)
}

// Decidable reports whether an approver may still approve or reject.
func Decidable(app Application) bool {
	return strings.EqualFold(app.Status, StatusPending)
}
