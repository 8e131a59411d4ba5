package forms

import (
	"errors"

	"hrmweb/internal/apiclient"
)

var (
	ErrStepIncomplete = errors.New("step has missing or invalid fields")
	ErrInvalidState   = errors.New("invalid form state")
)

// FieldErrors maps a form field name to the message shown under it.
type FieldErrors map[string]string

func (f FieldErrors) Add(field, message string) {
	if field == "" || message == "" {
		return
	}
	if _, exists := f[field]; !exists {
		f[field] = message
	}
}

func (f FieldErrors) Get(field string) string {
	return f[field]
}

func (f FieldErrors) Any() bool {
	return len(f) > 0
}

// FromAPI maps a backend validation failure onto form fields by name. It
// reports false when the backend gave no field list, in which case the
// caller falls back to a generic failure notification.
func FromAPI(err error) (FieldErrors, bool) {
	apiErr, ok := apiclient.AsError(err)
	if !ok || len(apiErr.Fields) == 0 {
		return nil, false
	}
	out := FieldErrors{}
	for _, fe := range apiErr.Fields {
		out.Add(fe.Field, fe.Message)
	}
	return out, true
}
