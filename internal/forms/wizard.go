package forms

import (
	"encoding/json"
	"fmt"
	"strings"
)

type Option struct {
	Value string
	Label string
}

type Field struct {
	Name        string
	Label       string
	Type        string
	Required    bool
	Placeholder string
	Options     []Option
}

type Step struct {
	Name   string
	Title  string
	Fields []Field
	// Check adds cross-field rules for the step on top of required-ness.
	Check func(values Values, v *Validator)
}

type Values map[string]string

func (v Values) Get(name string) string {
	return strings.TrimSpace(v[name])
}

// Wizard walks a multi-step form. Each step is validated on its own when
// advancing; the full payload is only assembled by Complete.
type Wizard struct {
	Steps   []Step
	Current int
	Values  Values
}

type wizardState struct {
	Current int    `json:"current"`
	Values  Values `json:"values"`
}

func NewWizard(steps ...Step) *Wizard {
	return &Wizard{Steps: steps, Values: Values{}}
}

// RestoreWizard rebuilds a wizard from state saved with State.
func RestoreWizard(state string, steps ...Step) (*Wizard, error) {
	w := NewWizard(steps...)
	if strings.TrimSpace(state) == "" {
		return w, nil
	}
	var saved wizardState
	if err := json.Unmarshal([]byte(state), &saved); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}
	if saved.Current < 0 || saved.Current >= len(steps) {
		return nil, ErrInvalidState
	}
	w.Current = saved.Current
	if saved.Values != nil {
		w.Values = saved.Values
	}
	return w, nil
}

func (w *Wizard) State() (string, error) {
	raw, err := json.Marshal(wizardState{Current: w.Current, Values: w.Values})
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func (w *Wizard) Step() Step {
	return w.Steps[w.Current]
}

func (w *Wizard) IsFirst() bool { return w.Current == 0 }
func (w *Wizard) IsLast() bool  { return w.Current == len(w.Steps)-1 }

// Merge stores the submitted values of the current step's fields only.
func (w *Wizard) Merge(input Values) {
	for _, f := range w.Step().Fields {
		if f.Type == "file" {
			continue
		}
		w.Values[f.Name] = strings.TrimSpace(input[f.Name])
	}
}

// Advance merges input for the current step and moves forward. A step with
// a missing required field blocks and reports the field.
func (w *Wizard) Advance(input Values) (FieldErrors, error) {
	w.Merge(input)
	if errs := w.validateStep(w.Current); errs.Any() {
		return errs, ErrStepIncomplete
	}
	if !w.IsLast() {
		w.Current++
	}
	return nil, nil
}

func (w *Wizard) Back() {
	if w.Current > 0 {
		w.Current--
	}
}

// Complete validates every step and returns the assembled values. On
// failure the wizard jumps to the first failing step.
func (w *Wizard) Complete() (Values, FieldErrors, error) {
	for i := range w.Steps {
		if errs := w.validateStep(i); errs.Any() {
			w.Current = i
			return nil, errs, ErrStepIncomplete
		}
	}
	out := make(Values, len(w.Values))
	for k, v := range w.Values {
		out[k] = v
	}
	return out, nil, nil
}

// StepOf returns the index of the step owning field, or -1.
func (w *Wizard) StepOf(field string) int {
	for i, s := range w.Steps {
		for _, f := range s.Fields {
			if f.Name == field {
				return i
			}
		}
	}
	return -1
}

// ShowErrors moves the wizard to the earliest step that owns one of errs.
func (w *Wizard) ShowErrors(errs FieldErrors) {
	earliest := -1
	for field := range errs {
		if idx := w.StepOf(field); idx >= 0 && (earliest < 0 || idx < earliest) {
			earliest = idx
		}
	}
	if earliest >= 0 {
		w.Current = earliest
	}
}

func (w *Wizard) validateStep(idx int) FieldErrors {
	step := w.Steps[idx]
	v := NewValidator()
	for _, f := range step.Fields {
		if f.Required && f.Type != "file" {
			v.Required(f.Name, w.Values[f.Name], f.Label+" is required")
		}
		if f.Type == "email" {
			v.Email(f.Name, w.Values[f.Name])
		}
		if f.Type == "date" {
			v.Date(f.Name, w.Values[f.Name])
		}
	}
	if step.Check != nil {
		step.Check(w.Values, v)
	}
	return v.Errors()
}
