package performance

import "testing"

func TestValidateCycle(t *testing.T) {
	errs := ValidateCycle(ReviewCycle{Name: "H1", StartDate: "2026-06-30", EndDate: "2026-01-01"})
	if errs.Get("startDate") == "" || errs.Get("endDate") == "" {
		t.Fatalf("expected date order errors, got %v", errs)
	}
	if errs := ValidateCycle(ReviewCycle{Name: "H1", StartDate: "2026-01-01", EndDate: "2026-06-30"}); errs.Any() {
		t.Fatalf("unexpected errors %v", errs)
	}
}

func TestValidateGoal(t *testing.T) {
	errs := ValidateGoal(Goal{Weight: 120, DueDate: "soon"})
	for _, field := range []string{"title", "dueDate", "weight"} {
		if errs.Get(field) == "" {
			t.Fatalf("expected error on %s, got %v", field, errs)
		}
	}
}

func TestParsers(t *testing.T) {
	cases := []struct {
		name  string
		parse func(string) (float64, bool)
		raw   string
		ok    bool
	}{
		{"progress", ParseProgress, "45", true},
		{"progress over", ParseProgress, "101", false},
		{"rating", ParseRating, "4.5", true},
		{"rating zero", ParseRating, "0", false},
		{"increment zero", ParseIncrement, "0", true},
		{"increment negative", ParseIncrement, "-2", false},
		{"garbage", ParseIncrement, "ten", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, ok := tc.parse(tc.raw); ok != tc.ok {
				t.Fatalf("parse(%q) ok=%v, want %v", tc.raw, ok, tc.ok)
			}
		})
	}
}

func TestNextCycleStatus(t *testing.T) {
	if NextCycleStatus(ReviewCycleStatusDraft) != ReviewCycleStatusActive {
		t.Fatal("draft should activate")
	}
	if NextCycleStatus(ReviewCycleStatusClosed) != "" {
		t.Fatal("closed cycle has no next status")
	}
}
