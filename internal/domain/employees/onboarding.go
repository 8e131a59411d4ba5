package employees

import (
	"strings"

	"hrmweb/internal/forms"
)

// Lookups feed the select boxes of the onboarding wizard.
type Lookups struct {
	Departments  []forms.Option
	Designations []forms.Option
	Locations    []forms.Option
	Managers     []forms.Option
}

func options(values []string) []forms.Option {
	out := make([]forms.Option, 0, len(values))
	for _, v := range values {
		out = append(out, forms.Option{Value: v, Label: strings.ReplaceAll(v, "_", " ")})
	}
	return out
}

// OnboardingSteps is the employee creation wizard. Documents are
// collected on the last step and uploaded once the record exists.
func OnboardingSteps(lookups Lookups) []forms.Step {
	docFields := make([]forms.Field, 0, len(DocumentKinds))
	for _, kind := range DocumentKinds {
		docFields = append(docFields, forms.Field{
			Name:  "doc_" + kind,
			Label: strings.ReplaceAll(kind, "_", " "),
			Type:  "file",
		})
	}

	return []forms.Step{
		{
			Name:  "personal",
			Title: "Personal details",
			Fields: []forms.Field{
				{Name: "firstName", Label: "First name", Type: "text", Required: true},
				{Name: "lastName", Label: "Last name", Type: "text", Required: true},
				{Name: "email", Label: "Work e-mail", Type: "email", Required: true},
				{Name: "phone", Label: "Phone", Type: "tel", Required: true},
				{Name: "dateOfBirth", Label: "Date of birth", Type: "date"},
				{Name: "gender", Label: "Gender", Type: "select", Options: options(Genders)},
				{Name: "address", Label: "Address", Type: "textarea"},
			},
		},
		{
			Name:  "job",
			Title: "Job information",
			Fields: []forms.Field{
				{Name: "departmentId", Label: "Department", Type: "select", Required: true, Options: lookups.Departments},
				{Name: "designationId", Label: "Designation", Type: "select", Required: true, Options: lookups.Designations},
				{Name: "locationId", Label: "Location", Type: "select", Required: true, Options: lookups.Locations},
				{Name: "managerId", Label: "Reporting manager", Type: "select", Options: lookups.Managers},
			},
		},
		{
			Name:  "employment",
			Title: "Employment details",
			Fields: []forms.Field{
				{Name: "employmentType", Label: "Employment type", Type: "select", Required: true, Options: options(EmploymentTypes)},
				{Name: "joiningDate", Label: "Joining date", Type: "date", Required: true},
				{Name: "probationEndDate", Label: "Probation ends", Type: "date"},
			},
			Check: func(values forms.Values, v *forms.Validator) {
				v.Enum("employmentType", values.Get("employmentType"), EmploymentTypes, "must be one of "+strings.Join(EmploymentTypes, ", "))
				joined, okJoin := forms.ParseDateValue(values.Get("joiningDate"))
				probation, okProbation := forms.ParseDateValue(values.Get("probationEndDate"))
				if okJoin && okProbation {
					v.DateOrder("joiningDate", joined, "probationEndDate", probation)
				}
			},
		},
		{
			Name:  "statutory",
			Title: "Statutory & bank",
			Fields: []forms.Field{
				{Name: "pan", Label: "PAN", Type: "text"},
				{Name: "pfNumber", Label: "PF number", Type: "text"},
				{Name: "esiNumber", Label: "ESI number", Type: "text"},
				{Name: "uan", Label: "UAN", Type: "text"},
				{Name: "taxRegime", Label: "Tax regime", Type: "select", Options: options(TaxRegimes)},
				{Name: "bankAccount", Label: "Bank account", Type: "text"},
				{Name: "ifsc", Label: "IFSC", Type: "text"},
			},
			Check: func(values forms.Values, v *forms.Validator) {
				v.Enum("taxRegime", values.Get("taxRegime"), TaxRegimes, "must be old or new")
			},
		},
		{
			Name:   "documents",
			Title:  "Documents",
			Fields: docFields,
		},
	}
}

// Payload assembles the creation request from completed wizard values.
func Payload(values forms.Values) NewEmployee {
	return NewEmployee{
		FirstName:   values.Get("firstName"),
		LastName:    values.Get("lastName"),
		Email:       strings.ToLower(values.Get("email")),
		Phone:       values.Get("phone"),
		DateOfBirth: values.Get("dateOfBirth"),
		Gender:      values.Get("gender"),
		Address:     values.Get("address"),
		JobInfo: JobInfo{
			DepartmentID:  values.Get("departmentId"),
			DesignationID: values.Get("designationId"),
			LocationID:    values.Get("locationId"),
			ManagerID:     values.Get("managerId"),
		},
		EmploymentDetails: EmploymentDetails{
			EmploymentType:   values.Get("employmentType"),
			JoiningDate:      values.Get("joiningDate"),
			ProbationEndDate: values.Get("probationEndDate"),
		},
		Statutory: Statutory{
			PAN:         strings.ToUpper(values.Get("pan")),
			PFNumber:    values.Get("pfNumber"),
			ESINumber:   values.Get("esiNumber"),
			UAN:         values.Get("uan"),
			TaxRegime:   values.Get("taxRegime"),
			BankAccount: values.Get("bankAccount"),
			IFSC:        strings.ToUpper(values.Get("ifsc")),
		},
	}
}

// DocumentKindOf maps a wizard file field back to its document kind.
func DocumentKindOf(field string) (string, bool) {
	kind, ok := strings.CutPrefix(field, "doc_")
	if !ok {
		return "", false
	}
	for _, known := range DocumentKinds {
		if known == kind {
			return kind, true
		}
	}
	return "", false
}

// WizardErrors maps backend payload paths such as "jobInfo.departmentId"
// onto wizard field names.
func WizardErrors(errs forms.FieldErrors) forms.FieldErrors {
	out := forms.FieldErrors{}
	for path, msg := range errs {
		name := path
		if idx := strings.LastIndexByte(path, '.'); idx >= 0 {
			name = path[idx+1:]
		}
		out.Add(name, msg)
	}
	return out
}
