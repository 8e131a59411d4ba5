package leavehandler

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"

	"hrmweb/internal/domain/auth"
	"hrmweb/internal/domain/leave"
	"hrmweb/internal/notify"
	"hrmweb/internal/transport/http/handlers/handlertest"
)

type fakeLeave struct {
	mu       sync.Mutex
	applied  []leave.NewApplication
	rejected map[string]string
	mine     []leave.Application
	pending  []leave.Application
}

func setup(t *testing.T) (*handlertest.Harness, *fakeLeave) {
	t.Helper()
	h := handlertest.New(t)
	NewHandler(h.Web, leave.NewService(h.Client)).RegisterRoutes(h.Router)

	f := &fakeLeave{rejected: map[string]string{}}
	b := h.Backend.Router
	b.Get("/leaves/types", func(w http.ResponseWriter, r *http.Request) {
		handlertest.JSON(w, http.StatusOK, []leave.LeaveType{{ID: "cl", Name: "Casual", Code: "CL", DaysPerYear: 12}})
	})
	b.Get("/leaves/balance", func(w http.ResponseWriter, r *http.Request) {
		handlertest.JSON(w, http.StatusOK, []leave.Balance{{LeaveTypeID: "cl", LeaveTypeName: "Casual", Allocated: 12, Available: 9.5}})
	})
	b.Get("/leaves/applications", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		handlertest.JSON(w, http.StatusOK, f.mine)
	})
	b.Get("/leaves/applications/pending", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		handlertest.JSON(w, http.StatusOK, f.pending)
	})
	b.Post("/leaves/applications", func(w http.ResponseWriter, r *http.Request) {
		var in leave.NewApplication
		_ = json.NewDecoder(r.Body).Decode(&in)
		f.mu.Lock()
		f.applied = append(f.applied, in)
		f.mu.Unlock()
		handlertest.JSON(w, http.StatusCreated, leave.Application{ID: "a1", Status: leave.StatusPending})
	})
	b.Patch("/leaves/applications/{id}/reject", func(w http.ResponseWriter, r *http.Request) {
		var in map[string]string
		_ = json.NewDecoder(r.Body).Decode(&in)
		f.mu.Lock()
		f.rejected[chi.URLParam(r, "id")] = in["reason"]
		f.mu.Unlock()
		handlertest.JSON(w, http.StatusOK, nil)
	})
	return h, f
}

func TestApplyHalfDayForcesEndDateToStart(t *testing.T) {
	h, f := setup(t)
	cookie := h.Login(auth.RoleEmployee)

	rec := h.PostForm(pagePath+"/apply", url.Values{
		"leaveTypeId":    {"cl"},
		"fromDate":       {"2026-04-10"},
		"toDate":         {"2026-04-14"},
		"halfDay":        {"true"},
		"halfDaySession": {leave.SessionSecondHalf},
		"reason":         {"Dentist"},
	}, cookie)
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != pagePath {
		t.Fatalf("expected redirect, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(f.applied) != 1 {
		t.Fatalf("expected one application, got %d", len(f.applied))
	}
	got := f.applied[0]
	if got.ToDate != "2026-04-10" || got.HalfDaySession != leave.SessionSecondHalf {
		t.Fatalf("expected half day on a single date, got %+v", got)
	}
	toast, ok := h.Toast(cookie)
	if !ok || toast.Level != notify.LevelSuccess || !strings.Contains(toast.Message, "0.5") {
		t.Fatalf("expected success toast for half a day, got %+v", toast)
	}
}

func TestApplyShowsFieldErrorsWithoutCallingBackend(t *testing.T) {
	h, f := setup(t)

	rec := h.PostForm(pagePath+"/apply", url.Values{
		"leaveTypeId": {"cl"},
		"fromDate":    {"2026-04-14"},
		"toDate":      {"2026-04-10"},
	}, h.Login(auth.RoleEmployee))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"reason is required", "must be on or before toDate"} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in page", want)
		}
	}
	if len(f.applied) != 0 {
		t.Fatal("invalid application must not reach the backend")
	}
}

func TestPendingApprovalsFetchedOnlyForApprovers(t *testing.T) {
	cases := []struct {
		role      string
		wantCalls int
	}{
		{auth.RoleEmployee, 0},
		{auth.RoleManager, 1},
		{auth.RoleHR, 1},
	}
	for _, tc := range cases {
		t.Run(tc.role, func(t *testing.T) {
			h, f := setup(t)
			f.pending = []leave.Application{{ID: "p1", EmployeeName: "Ann Lee", LeaveTypeName: "Casual", Status: leave.StatusPending, Days: 2}}

			rec := h.Get(pagePath, h.Login(tc.role))
			if rec.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", rec.Code)
			}
			if n := h.Backend.Count(http.MethodGet, "/leaves/applications"); n != 1 {
				t.Fatalf("expected one own-applications fetch, got %d", n)
			}
			if n := h.Backend.Count(http.MethodGet, "/leaves/applications/pending"); n != tc.wantCalls {
				t.Fatalf("expected %d pending fetches, got %d", tc.wantCalls, n)
			}
			if shown := strings.Contains(rec.Body.String(), "Ann Lee"); shown != (tc.wantCalls == 1) {
				t.Fatalf("pending row shown = %v", shown)
			}
		})
	}
}

func TestOwnApplicationsCancelOnlyWhilePending(t *testing.T) {
	h, f := setup(t)
	f.mine = []leave.Application{
		{ID: "a1", LeaveTypeName: "Casual", Status: leave.StatusPending, Days: 1},
		{ID: "a2", LeaveTypeName: "Casual", Status: leave.StatusRejected, RejectionReason: "Release week", Days: 1},
	}

	body := h.Get(pagePath, h.Login(auth.RoleEmployee)).Body.String()
	if !strings.Contains(body, pagePath+"/a1/cancel") {
		t.Fatal("expected cancel action for the pending application")
	}
	if strings.Contains(body, pagePath+"/a2/cancel") {
		t.Fatal("rejected application must not be cancellable")
	}
	if !strings.Contains(body, "Rejected: Release week") {
		t.Fatal("expected rejection reason")
	}
}

func TestRejectRequiresReason(t *testing.T) {
	h, f := setup(t)
	cookie := h.Login(auth.RoleManager)

	rec := h.PostForm(pagePath+"/p1/reject", url.Values{"reason": {"  "}}, cookie)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect, got %d", rec.Code)
	}
	if toast, _ := h.Toast(cookie); toast.Level != notify.LevelError {
		t.Fatalf("expected error toast, got %+v", toast)
	}
	if len(f.rejected) != 0 {
		t.Fatal("reject without reason must not reach the backend")
	}

	h.PostForm(pagePath+"/p1/reject", url.Values{"reason": {"Team offsite"}}, cookie)
	if f.rejected["p1"] != "Team offsite" {
		t.Fatalf("expected reason forwarded, got %v", f.rejected)
	}

	rec = h.PostForm(pagePath+"/p1/reject", url.Values{"reason": {"x"}}, h.Login(auth.RoleEmployee))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for employee, got %d", rec.Code)
	}
}

func TestCreateTypeValidation(t *testing.T) {
	h, _ := setup(t)
	h.Backend.Router.Get("/leaves/policies", func(w http.ResponseWriter, r *http.Request) {
		handlertest.JSON(w, http.StatusOK, []leave.LeavePolicy{})
	})

	rec := h.PostForm(typesPath, url.Values{"name": {"Sick"}, "daysPerYear": {"-1"}}, h.Login(auth.RoleHR))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Code is required.") || !strings.Contains(body, "must be a positive number") {
		t.Fatal("expected field errors for code and days")
	}
	if n := h.Backend.Count(http.MethodPost, "/leaves/types"); n != 0 {
		t.Fatalf("expected no backend call, got %d", n)
	}

	rec = h.Get(typesPath, h.Login(auth.RoleManager))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for manager, got %d", rec.Code)
	}
}
