package forms

import (
	"context"
	"errors"
	"testing"

	"hrmweb/internal/apiclient"
)

func testSteps() []Step {
	return []Step{
		{Name: "personal", Title: "Personal", Fields: []Field{
			{Name: "firstName", Label: "First name", Type: "text", Required: true},
			{Name: "email", Label: "Email", Type: "email", Required: true},
		}},
		{Name: "job", Title: "Job", Fields: []Field{
			{Name: "departmentId", Label: "Department", Type: "select", Required: true},
			{Name: "joiningDate", Label: "Joining date", Type: "date", Required: true},
		}},
		{Name: "documents", Title: "Documents", Fields: []Field{
			{Name: "resume", Label: "Resume", Type: "file"},
		}},
	}
}

func TestAdvanceBlockedOnMissingRequiredField(t *testing.T) {
	w := NewWizard(testSteps()...)

	errs, err := w.Advance(Values{"firstName": "Asha"})
	if !errors.Is(err, ErrStepIncomplete) {
		t.Fatalf("expected ErrStepIncomplete, got %v", err)
	}
	if errs.Get("email") != "Email is required" {
		t.Fatalf("expected email error, got %v", errs)
	}
	if w.Current != 0 {
		t.Fatalf("wizard must stay on the first step, at %d", w.Current)
	}

	if _, err := w.Advance(Values{"firstName": "Asha", "email": "asha@example.com"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.Current != 1 {
		t.Fatalf("expected second step, got %d", w.Current)
	}
}

func TestAdvanceRejectsMalformedValues(t *testing.T) {
	w := NewWizard(testSteps()...)
	errs, err := w.Advance(Values{"firstName": "Asha", "email": "not-an-email"})
	if err == nil || errs.Get("email") == "" {
		t.Fatalf("expected email format error, got %v", errs)
	}
}

func TestMergeOnlyTouchesCurrentStep(t *testing.T) {
	w := NewWizard(testSteps()...)
	w.Merge(Values{"firstName": "Asha", "departmentId": "d1"})
	if _, ok := w.Values["departmentId"]; ok {
		t.Fatal("values of later steps must not be merged early")
	}
}

func TestStateRoundTripAndComplete(t *testing.T) {
	w := NewWizard(testSteps()...)
	if _, err := w.Advance(Values{"firstName": "Asha", "email": "asha@example.com"}); err != nil {
		t.Fatalf("advance: %v", err)
	}
	state, err := w.State()
	if err != nil {
		t.Fatalf("state: %v", err)
	}

	restored, err := RestoreWizard(state, testSteps()...)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if restored.Current != 1 || restored.Values.Get("firstName") != "Asha" {
		t.Fatalf("unexpected restored wizard %+v", restored)
	}
	if _, err := restored.Advance(Values{"departmentId": "d1", "joiningDate": "2026-04-01"}); err != nil {
		t.Fatalf("advance: %v", err)
	}
	if !restored.IsLast() {
		t.Fatal("expected last step")
	}

	values, errs, err := restored.Complete()
	if err != nil {
		t.Fatalf("complete: %v %v", err, errs)
	}
	if values.Get("departmentId") != "d1" || values.Get("email") != "asha@example.com" {
		t.Fatalf("unexpected payload %v", values)
	}
}

func TestRestoreWizardRejectsBadState(t *testing.T) {
	if _, err := RestoreWizard(`{"current":7}`, testSteps()...); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
	if _, err := RestoreWizard(`{`, testSteps()...); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
}

func TestShowErrorsJumpsToOwningStep(t *testing.T) {
	w := NewWizard(testSteps()...)
	w.Current = 2
	w.ShowErrors(FieldErrors{"joiningDate": "too early", "unknown": "x"})
	if w.Current != 1 {
		t.Fatalf("expected step 1, got %d", w.Current)
	}
}

func TestStepCheck(t *testing.T) {
	step := Step{Name: "dates", Fields: []Field{
		{Name: "from", Label: "From", Type: "date", Required: true},
		{Name: "to", Label: "To", Type: "date", Required: true},
	}, Check: func(values Values, v *Validator) {
		from, _ := ParseDate(values.Get("from"))
		to, _ := ParseDate(values.Get("to"))
		v.DateOrder("from", from, "to", to)
	}}
	w := NewWizard(step)
	errs, err := w.Advance(Values{"from": "2026-05-10", "to": "2026-05-01"})
	if err == nil || errs.Get("to") == "" {
		t.Fatalf("expected date order error, got %v", errs)
	}
}

func TestFromAPI(t *testing.T) {
	err := &apiclient.Error{Kind: apiclient.KindValidation, Fields: []apiclient.FieldError{
		{Field: "email", Message: "Email already exists"},
		{Field: "email", Message: "second message ignored"},
	}}
	errs, ok := FromAPI(err)
	if !ok || errs.Get("email") != "Email already exists" {
		t.Fatalf("unexpected mapping %v %v", errs, ok)
	}

	if _, ok := FromAPI(&apiclient.Error{Kind: apiclient.KindServer}); ok {
		t.Fatal("errors without field list must not map")
	}
	if _, ok := FromAPI(errors.New("boom")); ok {
		t.Fatal("non-api errors must not map")
	}
}

func TestUploadQueueFlush(t *testing.T) {
	var q UploadQueue
	q.Add(PendingUpload{FileName: "empty.pdf"})
	q.Add(PendingUpload{FileName: "a.pdf", Data: []byte("a")})
	q.Add(PendingUpload{FileName: "b.pdf", Data: []byte("b")})
	if q.Len() != 2 {
		t.Fatalf("empty files must be skipped, got %d", q.Len())
	}

	var sent []string
	results := q.Flush(context.Background(), func(_ context.Context, item PendingUpload) error {
		sent = append(sent, item.FileName)
		if item.FileName == "b.pdf" {
			return errors.New("too large")
		}
		return nil
	})
	if len(sent) != 2 {
		t.Fatalf("expected every upload attempted once, got %v", sent)
	}
	failed := FailedUploads(results)
	if len(failed) != 1 || failed[0].Upload.FileName != "b.pdf" {
		t.Fatalf("unexpected failures %+v", failed)
	}
	if q.Len() != 0 {
		t.Fatal("queue must be empty after flush")
	}
}

func TestUploadQueueFlushUntilStops(t *testing.T) {
	halt := errors.New("halt")
	var q UploadQueue
	for _, name := range []string{"a.pdf", "b.pdf", "c.pdf"} {
		q.Add(PendingUpload{FileName: name, Data: []byte(name)})
	}

	var sent []string
	results := q.FlushUntil(context.Background(), func(_ context.Context, item PendingUpload) error {
		sent = append(sent, item.FileName)
		if item.FileName == "a.pdf" {
			return halt
		}
		return nil
	}, func(err error) bool { return errors.Is(err, halt) })
	if len(sent) != 1 {
		t.Fatalf("expected the queue to stop after a.pdf, got %v", sent)
	}
	if len(results) != 3 || !errors.Is(results[0].Err, halt) {
		t.Fatalf("unexpected results %+v", results)
	}
	for _, r := range results[1:] {
		if !errors.Is(r.Err, ErrUploadSkipped) {
			t.Fatalf("expected %s skipped, got %v", r.Upload.FileName, r.Err)
		}
	}
}
