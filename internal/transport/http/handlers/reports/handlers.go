package reportshandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrmweb/internal/domain/auth"
	"hrmweb/internal/domain/leave"
	"hrmweb/internal/domain/reports"
	"hrmweb/internal/transport/http/middleware"
	"hrmweb/internal/transport/http/shared"
	"hrmweb/internal/transport/http/views"
)

type Handler struct {
	Web     *shared.Web
	Reports *reports.Service
	Auth    *auth.Service
	Leave   *leave.Service
}

func NewHandler(web *shared.Web, reportsSvc *reports.Service, authSvc *auth.Service, leaveSvc *leave.Service) *Handler {
	return &Handler{Web: web, Reports: reportsSvc, Auth: authSvc, Leave: leaveSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	deny := h.Web.Forbidden()
	r.With(middleware.RequireScreen(auth.ScreenDashboard, deny)).Get("/dashboard", h.handleDashboard)
	r.With(middleware.RequireScreen(auth.ScreenProfile, deny)).Get("/profile", h.handleProfile)
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	page := h.Web.Page(r, "Dashboard", "/dashboard")
	stats, err := h.Reports.Stats(r.Context())
	if err != nil {
		h.Web.FailPage(w, r, page, err)
		return
	}
	sess := shared.Session(r)
	cards := reports.Cards(sess.User.Role, stats)
	out := make([]views.Card, 0, len(cards))
	for _, c := range cards {
		out = append(out, views.Card{Label: c.Label, Value: c.Value, Link: c.Link})
	}
	h.Web.Screen(w, r, page, views.Screen{
		Heading:  "Welcome, " + sess.User.Name,
		Subtitle: auth.RoleLabel(sess.User.Role) + " dashboard",
		Sections: []views.Section{{Cards: out}},
	})
}

func (h *Handler) handleProfile(w http.ResponseWriter, r *http.Request) {
	page := h.Web.Page(r, "My profile", "/profile")
	me, err := h.Auth.Me(r.Context())
	if err != nil {
		h.Web.FailPage(w, r, page, err)
		return
	}
	balances, err := h.Leave.Balances(r.Context())
	if err != nil {
		h.Web.FailPage(w, r, page, err)
		return
	}

	table := &views.Table{
		Columns: []string{"Leave type", "Allocated", "Used", "Pending", "Available"},
		Empty:   "No leave balances have been allocated yet.",
	}
	for _, b := range balances {
		table.Rows = append(table.Rows, views.Row{Cells: views.Text(
			b.LeaveTypeName, shared.Number(b.Allocated), shared.Number(b.Used), shared.Number(b.Pending), shared.Number(b.Available),
		)})
	}
	h.Web.Screen(w, r, page, views.Screen{
		Heading: me.Name,
		Sections: []views.Section{
			{Title: "Account", Details: []views.Detail{
				{Label: "E-mail", Value: me.Email},
				{Label: "Role", Value: auth.RoleLabel(me.Role)},
			}},
			{Title: "Leave balance", Table: table},
		},
	})
}
