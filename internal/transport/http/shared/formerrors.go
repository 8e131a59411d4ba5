package shared

import (
	"sort"

	"hrmweb/internal/forms"
)

// FirstError picks the message of the alphabetically first field, for
// forms that report problems as a single toast.
func FirstError(errs forms.FieldErrors) string {
	if len(errs) == 0 {
		return MsgFailed
	}
	fields := make([]string, 0, len(errs))
	for field := range errs {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return errs[fields[0]]
}
