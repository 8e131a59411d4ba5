package attendance

import (
	"fmt"
	"time"
)

// WorkDuration is the running time from check-in to check-out, or to now
// while the employee is still checked in.
func WorkDuration(rec Record, now time.Time) time.Duration {
	if rec.CheckIn == nil {
		return 0
	}
	end := now
	if rec.CheckOut != nil {
		end = *rec.CheckOut
	}
	if end.Before(*rec.CheckIn) {
		return 0
	}
	return end.Sub(*rec.CheckIn)
}

func CheckedIn(rec Record) bool {
	return rec.CheckIn != nil && rec.CheckOut == nil
}

func FormatDuration(d time.Duration) string {
	if d <= 0 {
		return "0h 00m"
	}
	d = d.Truncate(time.Minute)
	hours := int(d / time.Hour)
	minutes := int((d % time.Hour) / time.Minute)
	return fmt.Sprintf("%dh %02dm", hours, minutes)
}
