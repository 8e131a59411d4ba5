package helpdesk

import "testing"

func TestValidate(t *testing.T) {
	errs := Validate(NewTicket{Category: "coffee", Priority: "meh"})
	for _, field := range []string{"subject", "description", "category", "priority"} {
		if errs.Get(field) == "" {
			t.Fatalf("expected error on %s, got %v", field, errs)
		}
	}
	if errs := Validate(NewTicket{Subject: "VPN", Description: "down", Category: "it"}); errs.Any() {
		t.Fatalf("unexpected errors %v", errs)
	}
}

func TestNextStatuses(t *testing.T) {
	if got := NextStatuses(StatusOpen); len(got) != 3 {
		t.Fatalf("unexpected transitions from open: %v", got)
	}
	if got := NextStatuses(StatusClosed); got != nil {
		t.Fatalf("closed tickets are final, got %v", got)
	}
}
