package employees

import "time"

const (
	StatusActive     = "active"
	StatusProbation  = "probation"
	StatusNotice     = "notice"
	StatusTerminated = "terminated"
)

const (
	DocumentPending  = "pending"
	DocumentVerified = "verified"
	DocumentRejected = "rejected"
)

var EmploymentTypes = []string{"full_time", "part_time", "contract", "intern"}

var Genders = []string{"male", "female", "other"}

var TaxRegimes = []string{"old", "new"}

// DocumentKinds are the attachment slots offered during onboarding and on
// the employee page.
var DocumentKinds = []string{"resume", "id_proof", "address_proof", "offer_letter", "education"}

type JobInfo struct {
	DepartmentID    string `json:"departmentId,omitempty"`
	DepartmentName  string `json:"departmentName,omitempty"`
	DesignationID   string `json:"designationId,omitempty"`
	DesignationName string `json:"designationName,omitempty"`
	LocationID      string `json:"locationId,omitempty"`
	LocationName    string `json:"locationName,omitempty"`
	ManagerID       string `json:"managerId,omitempty"`
	ManagerName     string `json:"managerName,omitempty"`
}

type EmploymentDetails struct {
	EmploymentType   string `json:"employmentType,omitempty"`
	JoiningDate      string `json:"joiningDate,omitempty"`
	ProbationEndDate string `json:"probationEndDate,omitempty"`
	Status           string `json:"status,omitempty"`
}

type Statutory struct {
	PAN         string `json:"pan,omitempty"`
	PFNumber    string `json:"pfNumber,omitempty"`
	ESINumber   string `json:"esiNumber,omitempty"`
	UAN         string `json:"uan,omitempty"`
	TaxRegime   string `json:"taxRegime,omitempty"`
	BankAccount string `json:"bankAccount,omitempty"`
	IFSC        string `json:"ifsc,omitempty"`
}

type Document struct {
	ID         string     `json:"id"`
	Type       string     `json:"type"`
	FileName   string     `json:"fileName"`
	URL        string     `json:"url,omitempty"`
	Status     string     `json:"status"`
	Remarks    string     `json:"remarks,omitempty"`
	UploadedAt *time.Time `json:"uploadedAt,omitempty"`
}

type Employee struct {
	ID                string            `json:"id"`
	EmployeeCode      string            `json:"employeeCode"`
	FirstName         string            `json:"firstName"`
	LastName          string            `json:"lastName"`
	Email             string            `json:"email"`
	Phone             string            `json:"phone"`
	DateOfBirth       string            `json:"dateOfBirth,omitempty"`
	Gender            string            `json:"gender,omitempty"`
	Address           string            `json:"address,omitempty"`
	JobInfo           JobInfo           `json:"jobInfo"`
	EmploymentDetails EmploymentDetails `json:"employmentDetails"`
	Statutory         Statutory         `json:"statutory"`
	Documents         []Document        `json:"documents,omitempty"`
	CreatedAt         *time.Time        `json:"createdAt,omitempty"`
}

func (e Employee) FullName() string {
	switch {
	case e.FirstName == "":
		return e.LastName
	case e.LastName == "":
		return e.FirstName
	default:
		return e.FirstName + " " + e.LastName
	}
}

type NewEmployee struct {
	FirstName         string            `json:"firstName"`
	LastName          string            `json:"lastName"`
	Email             string            `json:"email"`
	Phone             string            `json:"phone"`
	DateOfBirth       string            `json:"dateOfBirth,omitempty"`
	Gender            string            `json:"gender,omitempty"`
	Address           string            `json:"address,omitempty"`
	JobInfo           JobInfo           `json:"jobInfo"`
	EmploymentDetails EmploymentDetails `json:"employmentDetails"`
	Statutory         Statutory         `json:"statutory"`
}

// Created is the creation response. GeneratedPassword is only present
// when the backend provisioned a login for the new employee.
type Created struct {
	Employee          Employee `json:"employee"`
	GeneratedPassword string   `json:"generatedPassword,omitempty"`
}

// Credentials are shown once to the operator after onboarding.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ListQuery struct {
	Search       string
	DepartmentID string
	Status       string
	Page         int
	Limit        int
}

type Verification struct {
	Status  string `json:"status"`
	Remarks string `json:"remarks,omitempty"`
}
