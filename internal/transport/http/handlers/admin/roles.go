package adminhandler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"hrmweb/internal/domain/audit"
	"hrmweb/internal/domain/auth"
	"hrmweb/internal/forms"
	"hrmweb/internal/transport/http/shared"
	"hrmweb/internal/transport/http/views"
)

const rolesPath = "/admin/roles"

var roleStep = forms.Step{Fields: []forms.Field{
	{Name: "name", Label: "Role name", Required: true},
	{Name: "description", Label: "Description"},
}}

func (h *Handler) handleRoles(w http.ResponseWriter, r *http.Request) {
	h.renderRoles(w, r, http.StatusOK, nil, nil)
}

// renderRoles lists roles and, for the role picked with ?role=, its
// permission matrix.
func (h *Handler) renderRoles(w http.ResponseWriter, r *http.Request, status int, values forms.Values, errs forms.FieldErrors) {
	page := h.Web.Page(r, "Roles and permissions", rolesPath)
	roles, err := h.Auth.Roles(r.Context())
	if err != nil {
		h.Web.FailPage(w, r, page, err)
		return
	}
	selected := strings.TrimSpace(r.URL.Query().Get("role"))

	table := &views.Table{Columns: []string{"Role", "Description", "Permissions"}, Empty: "No roles defined."}
	var current *auth.Role
	for i, role := range roles {
		if role.ID == selected {
			current = &roles[i]
		}
		table.Rows = append(table.Rows, views.Row{
			Cells: []views.Cell{
				{Text: role.Name, Link: rolesPath + "?role=" + role.ID},
				{Text: role.Description},
				{Text: shared.Number(float64(len(role.Permissions)))},
			},
			Actions: []views.Action{{
				Label:   "Delete",
				URL:     rolesPath + "/" + role.ID + "/delete",
				Method:  http.MethodPost,
				Confirm: "Delete role " + role.Name + "?",
				Variant: "danger",
			}},
		})
	}

	sections := []views.Section{
		{Title: "Roles", Table: table},
		{Title: "New role", Form: &views.Form{
			Action: rolesPath,
			Submit: "Create role",
			Fields: views.FieldsFromStep(roleStep, values, errs),
		}},
	}
	if current != nil {
		perms, err := h.Auth.Permissions(r.Context())
		if err != nil {
			h.Web.FailPage(w, r, page, err)
			return
		}
		sections = append(sections, matrixSection(auth.BuildMatrix(*current, perms)))
	} else if selected != "" {
		sections[0].Note = "That role no longer exists."
	}

	page.Content = views.Screen{Heading: "Roles and permissions", Sections: sections}
	h.Web.Render(w, status, views.PageScreen, page)
}

func matrixSection(m auth.Matrix) views.Section {
	var fields []views.FormField
	for _, row := range m.Rows {
		for _, cell := range row.Cells {
			fields = append(fields, views.FormField{
				Name:    "permissions",
				Label:   shared.Label(row.Module) + ": " + cell.Label,
				Type:    "checkbox",
				Value:   cell.Key,
				Checked: cell.Checked,
			})
		}
	}
	note := ""
	if len(fields) == 0 {
		note = "The backend reported no permissions."
	}
	return views.Section{
		Title: "Permissions for " + m.RoleName,
		Note:  note,
		Form: &views.Form{
			Action: rolesPath + "/" + m.RoleID + "/permissions",
			Submit: "Save permissions",
			Fields: fields,
		},
	}
}

func (h *Handler) handleCreateRole(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.Web.Error(r, shared.MsgFailed)
		shared.Redirect(w, r, rolesPath)
		return
	}
	values := shared.FormValues(r)
	role := auth.NewRole{Name: values.Get("name"), Description: values.Get("description")}
	v := forms.NewValidator()
	v.Required("name", role.Name, "Role name is required.")
	if errs := v.Errors(); errs.Any() {
		h.renderRoles(w, r, http.StatusUnprocessableEntity, values, errs)
		return
	}
	created, err := h.Auth.CreateRole(r.Context(), role)
	if err != nil {
		if errs, ok := forms.FromAPI(err); ok {
			h.renderRoles(w, r, http.StatusUnprocessableEntity, values, errs)
			return
		}
		h.Web.Fail(w, r, err, rolesPath)
		return
	}
	h.Web.Record(r, audit.Event{Action: audit.ActionRoleCreated, Subject: created.ID, Detail: role.Name})
	h.Web.Success(r, "Role "+role.Name+" created.")
	shared.Redirect(w, r, rolesPath+"?role="+created.ID)
}

func (h *Handler) handleDeleteRole(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "roleID")
	if err := h.Auth.DeleteRole(r.Context(), id); err != nil {
		h.Web.Fail(w, r, err, rolesPath)
		return
	}
	h.Web.Record(r, audit.Event{Action: audit.ActionRoleDeleted, Subject: id})
	h.Web.Success(r, "Role deleted.")
	shared.Redirect(w, r, rolesPath)
}

// handleSavePermissions replaces the role's grants with the checked boxes.
// Keys the backend did not advertise are dropped.
func (h *Handler) handleSavePermissions(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "roleID")
	back := rolesPath + "?role=" + id
	if err := r.ParseForm(); err != nil {
		h.Web.Error(r, shared.MsgFailed)
		shared.Redirect(w, r, back)
		return
	}
	perms, err := h.Auth.Permissions(r.Context())
	if err != nil {
		h.Web.Fail(w, r, err, back)
		return
	}
	selected := auth.SelectedPermissions(perms, r.PostForm["permissions"])
	if err := h.Auth.SetRolePermissions(r.Context(), id, selected); err != nil {
		h.Web.Fail(w, r, err, back)
		return
	}
	h.Web.Record(r, audit.Event{Action: audit.ActionRolePermissions, Subject: id, Detail: strings.Join(selected, ",")})
	h.Web.Success(r, "Permissions saved.")
	shared.Redirect(w, r, back)
}
