package shared

import (
	"net/http/httptest"
	"testing"

	"hrmweb/internal/forms"
)

func TestParsePagination(t *testing.T) {
	r := httptest.NewRequest("GET", "/employees?page=3&limit=500", nil)
	p := ParsePagination(r, 20, 100)
	if p.Page != 3 || p.Limit != 100 {
		t.Fatalf("unexpected pagination %+v", p)
	}
	if got := p.Pages(250); got != 3 {
		t.Fatalf("expected 3 pages, got %d", got)
	}
	if got := p.Pages(0); got != 1 {
		t.Fatalf("expected a single empty page, got %d", got)
	}

	r = httptest.NewRequest("GET", "/employees?page=-1", nil)
	if p := ParsePagination(r, 20, 100); p.Page != 1 || p.Limit != 20 {
		t.Fatalf("expected defaults, got %+v", p)
	}
}

func TestPageURLKeepsFilters(t *testing.T) {
	r := httptest.NewRequest("GET", "/employees?search=ann&page=1", nil)
	if got := PageURL(r, 2); got != "/employees?page=2&search=ann" {
		t.Fatalf("unexpected url %q", got)
	}
}

func TestFormatters(t *testing.T) {
	cases := []struct {
		name string
		got  string
		want string
	}{
		{"date", Date("2026-03-01"), "01 Mar 2026"},
		{"rfc3339", Date("2026-03-01T10:00:00Z"), "01 Mar 2026"},
		{"empty date", Date(""), "-"},
		{"garbage date", Date("soon"), "soon"},
		{"amount", Amount(1234567.5, "INR"), "INR 1,234,567.50"},
		{"small amount", Amount(12, ""), "12.00"},
		{"negative", Amount(-1000, ""), "-1,000.00"},
		{"label", Label("in_progress"), "In progress"},
		{"input date", InputDate("2026-03-01T00:00:00Z"), "2026-03-01"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.got != tc.want {
				t.Fatalf("got %q, want %q", tc.got, tc.want)
			}
		})
	}
}

func TestFirstError(t *testing.T) {
	errs := forms.FieldErrors{}
	if got := FirstError(errs); got != MsgFailed {
		t.Fatalf("expected fallback, got %q", got)
	}
	errs.Add("reason", "reason is required")
	errs.Add("amount", "must be a positive number")
	if got := FirstError(errs); got != "must be a positive number" {
		t.Fatalf("expected first field by name, got %q", got)
	}
}
