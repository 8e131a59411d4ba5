package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type Kind string

const (
	KindTransport    Kind = "transport"
	KindUnauthorized Kind = "unauthorized"
	KindValidation   Kind = "validation"
	KindForbidden    Kind = "forbidden"
	KindNotFound     Kind = "not_found"
	KindConflict     Kind = "conflict"
	KindClient       Kind = "client"
	KindServer       Kind = "server"
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type Error struct {
	Kind    Kind
	Status  int
	Code    string
	Message string
	Fields  []FieldError
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Status > 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.Status)
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf reports the taxonomy bucket of err; unknown errors count as transport failures.
func KindOf(err error) Kind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindTransport
}

func AsError(err error) (*Error, bool) {
	var apiErr *Error
	ok := errors.As(err, &apiErr)
	return apiErr, ok
}

type errorBody struct {
	Message string          `json:"message"`
	Error   json.RawMessage `json:"error"`
	Errors  []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
		Msg     string `json:"msg"`
		Reason  string `json:"reason"`
	} `json:"errors"`
}

type nestedError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details struct {
		Fields []struct {
			Field  string `json:"field"`
			Reason string `json:"reason"`
		} `json:"fields"`
	} `json:"details"`
}

// Classify turns a non-2xx response into an *Error, picking up the server's
// message and per-field list when the body carries one.
func Classify(resp *Response) *Error {
	out := &Error{Status: resp.Status}
	parseErrorBody(resp.Body, out)

	switch {
	case resp.Status == http.StatusUnauthorized:
		out.Kind = KindUnauthorized
	case resp.Status == http.StatusForbidden:
		out.Kind = KindForbidden
	case resp.Status == http.StatusNotFound:
		out.Kind = KindNotFound
	case resp.Status == http.StatusConflict:
		out.Kind = KindConflict
	case resp.Status >= 500:
		out.Kind = KindServer
	case resp.Status >= 400 && len(out.Fields) > 0:
		out.Kind = KindValidation
	default:
		out.Kind = KindClient
	}
	if out.Message == "" {
		out.Message = strings.ToLower(http.StatusText(resp.Status))
	}
	return out
}

func parseErrorBody(raw []byte, out *Error) {
	var body errorBody
	if err := json.Unmarshal(raw, &body); err != nil {
		return
	}
	out.Message = strings.TrimSpace(body.Message)
	for _, fe := range body.Errors {
		msg := firstNonEmpty(fe.Message, fe.Msg, fe.Reason)
		if fe.Field == "" || msg == "" {
			continue
		}
		out.Fields = append(out.Fields, FieldError{Field: fe.Field, Message: msg})
	}

	if len(body.Error) == 0 {
		return
	}
	var asString string
	if err := json.Unmarshal(body.Error, &asString); err == nil {
		if out.Message == "" {
			out.Message = strings.TrimSpace(asString)
		}
		return
	}
	var nested nestedError
	if err := json.Unmarshal(body.Error, &nested); err != nil {
		return
	}
	out.Code = nested.Code
	if out.Message == "" {
		out.Message = strings.TrimSpace(nested.Message)
	}
	for _, f := range nested.Details.Fields {
		if f.Field == "" || f.Reason == "" {
			continue
		}
		out.Fields = append(out.Fields, FieldError{Field: f.Field, Message: f.Reason})
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
