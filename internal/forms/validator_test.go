package forms

import "testing"

func TestValidatorCollectsSortedIssues(t *testing.T) {
	v := NewValidator()
	v.Required("name", " ", "name is required")
	v.Enum("priority", "urgent", []string{"low", "medium", "high"}, "priority is invalid")
	v.Email("email", "bad@")
	v.Positive("amount", "-1")
	v.Date("dob", "31/01/2000")

	issues := v.Issues()
	if len(issues) != 5 {
		t.Fatalf("expected 5 issues, got %+v", issues)
	}
	if issues[0].Field != "amount" || issues[len(issues)-1].Field != "priority" {
		t.Fatalf("issues must be sorted by field, got %+v", issues)
	}
}

func TestValidatorAcceptsValidInput(t *testing.T) {
	v := NewValidator()
	v.Required("name", "Asha", "name is required")
	v.Enum("priority", "High", []string{"low", "medium", "high"}, "priority is invalid")
	v.Email("email", "asha@example.com")
	if _, ok := v.Positive("amount", "12.5"); !ok {
		t.Fatal("expected positive number")
	}
	if _, ok := v.Date("dob", "2000-01-31"); !ok {
		t.Fatal("expected valid date")
	}
	if v.HasIssues() {
		t.Fatalf("unexpected issues %+v", v.Issues())
	}
}
