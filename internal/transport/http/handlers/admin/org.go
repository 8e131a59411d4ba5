package adminhandler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"hrmweb/internal/domain/org"
	"hrmweb/internal/forms"
	"hrmweb/internal/transport/http/shared"
	"hrmweb/internal/transport/http/views"
)

type orgItem struct {
	ID    string
	Name  string
	Cells []string
}

// orgList describes one metadata screen; departments, designations and
// locations differ only in fields and columns.
type orgList struct {
	path    string
	title   string
	noun    string
	columns []string
	empty   string
	step    func(ctx context.Context) (forms.Step, error)
	load    func(ctx context.Context) ([]orgItem, error)
	create  func(ctx context.Context, values forms.Values) error
	delete  func(ctx context.Context, id string) error
}

func staticStep(fields ...forms.Field) func(context.Context) (forms.Step, error) {
	return func(context.Context) (forms.Step, error) {
		return forms.Step{Fields: fields}, nil
	}
}

func (h *Handler) orgLists() []orgList {
	return []orgList{
		{
			path:    "/departments",
			title:   "Departments",
			noun:    "Department",
			columns: []string{"Name", "Code", "Head", "Description"},
			empty:   "No departments yet.",
			step: staticStep(
				forms.Field{Name: "name", Label: "Name", Required: true},
				forms.Field{Name: "code", Label: "Code", Required: true, Placeholder: "ENG"},
				forms.Field{Name: "description", Label: "Description", Type: "textarea"},
			),
			load: func(ctx context.Context) ([]orgItem, error) {
				items, err := h.Org.Departments(ctx)
				out := make([]orgItem, 0, len(items))
				for _, d := range items {
					out = append(out, orgItem{ID: d.ID, Name: d.Name, Cells: []string{d.Name, d.Code, d.HeadName, d.Description}})
				}
				return out, err
			},
			create: func(ctx context.Context, values forms.Values) error {
				_, err := h.Org.CreateDepartment(ctx, org.Department{
					Name:        values.Get("name"),
					Code:        values.Get("code"),
					Description: values.Get("description"),
				})
				return err
			},
			delete: h.Org.DeleteDepartment,
		},
		{
			path:    "/designations",
			title:   "Designations",
			noun:    "Designation",
			columns: []string{"Name", "Level", "Department"},
			empty:   "No designations yet.",
			step: func(ctx context.Context) (forms.Step, error) {
				depts, err := h.Org.Departments(ctx)
				if err != nil {
					return forms.Step{}, err
				}
				return forms.Step{Fields: []forms.Field{
					{Name: "name", Label: "Name", Required: true},
					{Name: "level", Label: "Level", Type: "number"},
					{Name: "departmentId", Label: "Department", Type: "select", Options: org.DepartmentOptions(depts)},
				}}, nil
			},
			load: func(ctx context.Context) ([]orgItem, error) {
				items, err := h.Org.Designations(ctx)
				if err != nil {
					return nil, err
				}
				depts, err := h.Org.Departments(ctx)
				if err != nil {
					return nil, err
				}
				names := make(map[string]string, len(depts))
				for _, d := range depts {
					names[d.ID] = d.Name
				}
				out := make([]orgItem, 0, len(items))
				for _, d := range items {
					level := ""
					if d.Level > 0 {
						level = strconv.Itoa(d.Level)
					}
					out = append(out, orgItem{ID: d.ID, Name: d.Name, Cells: []string{d.Name, level, names[d.DepartmentID]}})
				}
				return out, nil
			},
			create: func(ctx context.Context, values forms.Values) error {
				level, _ := strconv.Atoi(values.Get("level"))
				_, err := h.Org.CreateDesignation(ctx, org.Designation{
					Name:         values.Get("name"),
					Level:        level,
					DepartmentID: values.Get("departmentId"),
				})
				return err
			},
			delete: h.Org.DeleteDesignation,
		},
		{
			path:    "/locations",
			title:   "Locations",
			noun:    "Location",
			columns: []string{"Name", "City", "Country", "Address"},
			empty:   "No locations yet.",
			step: staticStep(
				forms.Field{Name: "name", Label: "Name", Required: true},
				forms.Field{Name: "city", Label: "City", Required: true},
				forms.Field{Name: "country", Label: "Country", Required: true},
				forms.Field{Name: "address", Label: "Address", Type: "textarea"},
			),
			load: func(ctx context.Context) ([]orgItem, error) {
				items, err := h.Org.Locations(ctx)
				out := make([]orgItem, 0, len(items))
				for _, l := range items {
					out = append(out, orgItem{ID: l.ID, Name: l.Name, Cells: []string{l.Name, l.City, l.Country, l.Address}})
				}
				return out, err
			},
			create: func(ctx context.Context, values forms.Values) error {
				_, err := h.Org.CreateLocation(ctx, org.Location{
					Name:    values.Get("name"),
					City:    values.Get("city"),
					Country: values.Get("country"),
					Address: values.Get("address"),
				})
				return err
			},
			delete: h.Org.DeleteLocation,
		},
	}
}

func (l orgList) url() string {
	return "/admin" + l.path
}

func (h *Handler) handleOrgList(l orgList) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.renderOrg(w, r, l, http.StatusOK, nil, nil)
	}
}

func (h *Handler) renderOrg(w http.ResponseWriter, r *http.Request, l orgList, status int, values forms.Values, errs forms.FieldErrors) {
	page := h.Web.Page(r, l.title, l.url())
	items, err := l.load(r.Context())
	if err != nil {
		h.Web.FailPage(w, r, page, err)
		return
	}
	step, err := l.step(r.Context())
	if err != nil {
		h.Web.FailPage(w, r, page, err)
		return
	}
	table := &views.Table{Columns: l.columns, Empty: l.empty}
	for _, item := range items {
		table.Rows = append(table.Rows, views.Row{
			Cells: views.Text(item.Cells...),
			Actions: []views.Action{{
				Label:   "Delete",
				URL:     l.url() + "/" + item.ID + "/delete",
				Method:  http.MethodPost,
				Confirm: "Delete " + item.Name + "?",
				Variant: "danger",
			}},
		})
	}
	page.Content = views.Screen{
		Heading: l.title,
		Actions: orgTabs(h.orgLists(), l),
		Sections: []views.Section{
			{Table: table},
			{Title: "New " + l.noun, Form: &views.Form{
				Action: l.url(),
				Submit: "Create",
				Fields: views.FieldsFromStep(step, values, errs),
			}},
		},
	}
	h.Web.Render(w, status, views.PageScreen, page)
}

func orgTabs(lists []orgList, current orgList) []views.Action {
	out := make([]views.Action, 0, len(lists)-1)
	for _, l := range lists {
		if l.path != current.path {
			out = append(out, views.Action{Label: l.title, URL: l.url(), Variant: "secondary"})
		}
	}
	return out
}

func (h *Handler) handleOrgCreate(l orgList) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			h.Web.Error(r, shared.MsgFailed)
			shared.Redirect(w, r, l.url())
			return
		}
		values := shared.FormValues(r)
		step, err := l.step(r.Context())
		if err != nil {
			h.Web.Fail(w, r, err, l.url())
			return
		}
		v := forms.NewValidator()
		for _, f := range step.Fields {
			if f.Required {
				v.Required(f.Name, values.Get(f.Name), f.Label+" is required.")
			}
		}
		if errs := v.Errors(); errs.Any() {
			h.renderOrg(w, r, l, http.StatusUnprocessableEntity, values, errs)
			return
		}
		if err := l.create(r.Context(), values); err != nil {
			if errs, ok := forms.FromAPI(err); ok {
				h.renderOrg(w, r, l, http.StatusUnprocessableEntity, values, errs)
				return
			}
			h.Web.Fail(w, r, err, l.url())
			return
		}
		h.Web.Success(r, l.noun+" "+values.Get("name")+" created.")
		shared.Redirect(w, r, l.url())
	}
}

func (h *Handler) handleOrgDelete(l orgList) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := l.delete(r.Context(), chi.URLParam(r, "itemID")); err != nil {
			h.Web.Fail(w, r, err, l.url())
			return
		}
		h.Web.Success(r, l.noun+" deleted.")
		shared.Redirect(w, r, l.url())
	}
}
