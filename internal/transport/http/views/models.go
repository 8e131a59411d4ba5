package views

import (
	"hrmweb/internal/forms"
	"hrmweb/internal/notify"
)

const DefaultEmpty = "Nothing to show yet."

type NavItem struct {
	Label  string
	URL    string
	Active bool
}

type UserBadge struct {
	Name  string
	Email string
	Role  string
}

// Page is the layout model shared by every screen.
type Page struct {
	Title          string
	User           *UserBadge
	Nav            []NavItem
	Toast          *notify.Toast
	Error          string
	Dialog         *Dialog
	RequestID      string
	GoogleClientID string
	Content        any
}

type Screen struct {
	Heading  string
	Subtitle string
	Actions  []Action
	Sections []Section
}

type Section struct {
	Title   string
	Note    string
	Cards   []Card
	Details []Detail
	Form    *Form
	Table   *Table
	Pager   *Pager
}

type Card struct {
	Label string
	Value string
	Link  string
}

type Detail struct {
	Label string
	Value string
	Link  string
}

type Table struct {
	Columns []string
	Rows    []Row

	// Empty is shown in place of the table when Rows is empty.
	Empty string
}

func (t *Table) EmptyMessage() string {
	if t.Empty == "" {
		return DefaultEmpty
	}
	return t.Empty
}

type Row struct {
	Cells   []Cell
	Actions []Action
}

type Cell struct {
	Text string
	Link string

	// Badge renders the text as a status pill.
	Badge bool
}

func Text(values ...string) []Cell {
	out := make([]Cell, 0, len(values))
	for _, v := range values {
		out = append(out, Cell{Text: v})
	}
	return out
}

// Action is a link (GET) or a one-button form (POST).
type Action struct {
	Label   string
	URL     string
	Method  string
	Confirm string
	Hidden  []Hidden
	Variant string

	// Input adds one visible field to a POST action, e.g. a rejection reason.
	Input *FormField
}

func (a Action) IsPost() bool {
	return a.Method != "" && a.Method != "GET"
}

type Hidden struct {
	Name  string
	Value string
}

// Form posts unless Method is GET, as for search and filter forms.
type Form struct {
	Action    string
	Method    string
	Submit    string
	Multipart bool
	Inline    bool
	Fields    []FormField
	Hidden    []Hidden
}

type FormField struct {
	Name        string
	Label       string
	Type        string
	Value       string
	Placeholder string
	Options     []forms.Option
	Required    bool
	Checked     bool
	Error       string
}

type Pager struct {
	Page    int
	Pages   int
	PrevURL string
	NextURL string
}

type Dialog struct {
	Title    string
	Message  string
	Lines    []Detail
	CloseURL string
}

type WizardStep struct {
	Title   string
	Current bool
	Done    bool
}

type WizardView struct {
	Heading string
	Steps   []WizardStep
	Form    Form
	CanBack bool
	IsLast  bool
	Message string
}

type LoginView struct {
	Email          string
	Next           string
	Error          string
	GoogleClientID string
	LoginURI       string
	CSRFToken      string
}

func (f Form) HTTPMethod() string {
	if f.Method == "GET" {
		return "get"
	}
	return "post"
}

// FieldsFromStep renders a wizard step's fields with saved values and errors.
func FieldsFromStep(step forms.Step, values forms.Values, errs forms.FieldErrors) []FormField {
	out := make([]FormField, 0, len(step.Fields))
	for _, f := range step.Fields {
		field := FormField{
			Name:        f.Name,
			Label:       f.Label,
			Type:        f.Type,
			Placeholder: f.Placeholder,
			Options:     f.Options,
			Required:    f.Required,
			Error:       errs.Get(f.Name),
		}
		if f.Type != "file" {
			field.Value = values[f.Name]
		}
		if f.Type == "checkbox" {
			field.Checked = values[f.Name] == "true" || values[f.Name] == "on"
		}
		out = append(out, field)
	}
	return out
}
