package adminhandler

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"hrmweb/internal/domain/audit"
	"hrmweb/internal/domain/auth"
	"hrmweb/internal/domain/org"
	"hrmweb/internal/transport/http/handlers/handlertest"
)

func setup(t *testing.T) *handlertest.Harness {
	t.Helper()
	h := handlertest.New(t)
	NewHandler(h.Web, auth.NewService(h.Client), org.NewService(h.Client)).RegisterRoutes(h.Router)
	b := h.Backend.Router
	b.Get("/roles", func(w http.ResponseWriter, r *http.Request) {
		handlertest.JSON(w, http.StatusOK, []auth.Role{
			{ID: "r1", Name: "Recruiter", Permissions: []string{"employees.read"}},
		})
	})
	b.Get("/permissions", func(w http.ResponseWriter, r *http.Request) {
		handlertest.JSON(w, http.StatusOK, []auth.Permission{
			{Key: "employees.read"},
			{Key: "employees.write"},
			{Key: "payroll.run"},
		})
	})
	b.Get("/departments", func(w http.ResponseWriter, r *http.Request) {
		handlertest.JSON(w, http.StatusOK, []org.Department{{ID: "d1", Name: "Engineering", Code: "ENG"}})
	})
	b.Get("/designations", func(w http.ResponseWriter, r *http.Request) {
		handlertest.JSON(w, http.StatusOK, []org.Designation{{ID: "g1", Name: "Engineer", Level: 2, DepartmentID: "d1"}})
	})
	return h
}

func TestRoleMatrixRendersGrantedPermissions(t *testing.T) {
	h := setup(t)

	rec := h.Get(rolesPath+"?role=r1", h.Login(auth.RoleAdmin))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `value="employees.read" checked`) {
		t.Fatal("expected granted permission checked")
	}
	if strings.Contains(body, `value="payroll.run" checked`) {
		t.Fatal("payroll.run is not granted")
	}
	if !strings.Contains(body, rolesPath+"/r1/permissions") {
		t.Fatal("expected matrix form for the selected role")
	}
}

func TestSavePermissionsDropsUnknownKeys(t *testing.T) {
	h := setup(t)
	var got map[string][]string
	h.Backend.Router.Put("/roles/{id}/permissions", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		handlertest.JSON(w, http.StatusOK, nil)
	})

	rec := h.PostForm(rolesPath+"/r1/permissions", url.Values{
		"permissions": {"payroll.run", "employees.read", "root.everything", "payroll.run"},
	}, h.Login(auth.RoleAdmin))
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != rolesPath+"?role=r1" {
		t.Fatalf("expected redirect back to the matrix, got %d %q", rec.Code, rec.Header().Get("Location"))
	}
	want := []string{"employees.read", "payroll.run"}
	if len(got["permissions"]) != len(want) || got["permissions"][0] != want[0] || got["permissions"][1] != want[1] {
		t.Fatalf("expected %v, got %v", want, got["permissions"])
	}
}

func TestRolesScreenAdminOnly(t *testing.T) {
	h := setup(t)
	if rec := h.Get(rolesPath, h.Login(auth.RoleHR)); rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for hr, got %d", rec.Code)
	}
	if rec := h.Get("/admin/departments", h.Login(auth.RoleHR)); rec.Code != http.StatusOK {
		t.Fatalf("expected hr to manage departments, got %d", rec.Code)
	}
	if rec := h.Get("/admin/departments", h.Login(auth.RoleManager)); rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for manager, got %d", rec.Code)
	}
}

func TestDesignationsShowDepartmentNames(t *testing.T) {
	h := setup(t)

	body := h.Get("/admin/designations", h.Login(auth.RoleAdmin)).Body.String()
	if !strings.Contains(body, "<td>Engineering</td>") {
		t.Fatal("expected department name resolved for designation")
	}
	if !strings.Contains(body, `<option value="d1"`) {
		t.Fatal("expected department options in the create form")
	}
}

func TestCreateLocationRequiresFields(t *testing.T) {
	h := setup(t)
	var got org.Location
	h.Backend.Router.Get("/locations", func(w http.ResponseWriter, r *http.Request) {
		handlertest.JSON(w, http.StatusOK, []org.Location{})
	})
	h.Backend.Router.Post("/locations", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		handlertest.JSON(w, http.StatusCreated, got)
	})
	cookie := h.Login(auth.RoleHR)

	rec := h.PostForm("/admin/locations", url.Values{"name": {"HQ"}}, cookie)
	if rec.Code != http.StatusUnprocessableEntity || !strings.Contains(rec.Body.String(), "City is required.") {
		t.Fatalf("expected 422 with field error, got %d", rec.Code)
	}

	rec = h.PostForm("/admin/locations", url.Values{"name": {"HQ"}, "city": {"Pune"}, "country": {"India"}}, cookie)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect, got %d", rec.Code)
	}
	if got.City != "Pune" || got.Country != "India" {
		t.Fatalf("unexpected payload %+v", got)
	}
}

func TestDeleteConflictShowsBackendMessage(t *testing.T) {
	h := setup(t)
	h.Backend.Router.Delete("/departments/{id}", func(w http.ResponseWriter, r *http.Request) {
		handlertest.Fail(w, http.StatusConflict, "Department still has employees")
	})
	cookie := h.Login(auth.RoleAdmin)

	rec := h.PostForm("/admin/departments/d1/delete", nil, cookie)
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/admin/departments" {
		t.Fatalf("expected redirect, got %d", rec.Code)
	}
	if toast, ok := h.Toast(cookie); !ok || toast.Message != "Department still has employees" {
		t.Fatalf("unexpected toast %+v", toast)
	}
}

func TestAuditTrailFiltersByAction(t *testing.T) {
	h := setup(t)
	ctx := context.Background()
	h.Audit.Record(ctx, audit.Event{ActorEmail: "ann@example.com", Action: audit.ActionLogin, Detail: "hr"})
	h.Audit.Record(ctx, audit.Event{ActorEmail: "mallory@example.com", Action: audit.ActionLoginFailed, Detail: "unauthorized"})

	rec := h.Get(auditPath+"?action=login_failed", h.Login(auth.RoleAdmin))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "mallory@example.com") {
		t.Fatal("expected the failed sign-in row")
	}
	if strings.Contains(body, "ann@example.com") {
		t.Fatal("filtered out event must not be listed")
	}
	if !strings.Contains(body, auditPath+"/export?action=login_failed") {
		t.Fatal("expected export link to carry the filter")
	}

	rec = h.Get(auditPath, h.Login(auth.RoleHR))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for hr, got %d", rec.Code)
	}
}

func TestAuditExportIsCSV(t *testing.T) {
	h := setup(t)
	h.Audit.Record(context.Background(), audit.Event{ActorID: "u9", ActorEmail: "ann@example.com", Action: audit.ActionRoleDeleted, Subject: "r1"})

	rec := h.Get(auditPath+"/export", h.Login(auth.RoleAdmin))
	if rec.Code != http.StatusOK || rec.Header().Get("Content-Type") != "text/csv" {
		t.Fatalf("expected csv, got %d %q", rec.Code, rec.Header().Get("Content-Type"))
	}
	if !strings.Contains(rec.Header().Get("Content-Disposition"), "audit-events.csv") {
		t.Fatalf("unexpected disposition %q", rec.Header().Get("Content-Disposition"))
	}
	rows, err := csv.NewReader(rec.Body).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(rows) != 2 || rows[1][4] != audit.ActionRoleDeleted || rows[1][5] != "r1" {
		t.Fatalf("unexpected rows %v", rows)
	}
}

func TestRoleDeleteIsAudited(t *testing.T) {
	h := setup(t)
	h.Backend.Router.Delete("/roles/{id}", func(w http.ResponseWriter, r *http.Request) {
		handlertest.JSON(w, http.StatusOK, nil)
	})

	h.PostForm(rolesPath+"/r1/delete", nil, h.Login(auth.RoleAdmin))
	events, total, err := h.Audit.Page(context.Background(), audit.Filter{Action: audit.ActionRoleDeleted}, 10, 0)
	if err != nil || total != 1 {
		t.Fatalf("expected one audit event, got %d (%v)", total, err)
	}
	if events[0].Subject != "r1" || events[0].ActorID != "user-admin" {
		t.Fatalf("unexpected event %+v", events[0])
	}
}
