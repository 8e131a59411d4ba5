package adminhandler

import (
	"github.com/go-chi/chi/v5"

	"hrmweb/internal/domain/auth"
	"hrmweb/internal/domain/org"
	"hrmweb/internal/transport/http/middleware"
	"hrmweb/internal/transport/http/shared"
)

// Handler serves the administration screens: roles with their permission
// matrix, the organization metadata lists and the audit trail.
type Handler struct {
	Web  *shared.Web
	Auth *auth.Service
	Org  *org.Service
}

func NewHandler(web *shared.Web, authSvc *auth.Service, orgSvc *org.Service) *Handler {
	return &Handler{Web: web, Auth: authSvc, Org: orgSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	deny := h.Web.Forbidden()
	r.Route("/admin", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireScreen(auth.ScreenRoles, deny))
			r.Get("/roles", h.handleRoles)
			r.Post("/roles", h.handleCreateRole)
			r.Post("/roles/{roleID}/delete", h.handleDeleteRole)
			r.Post("/roles/{roleID}/permissions", h.handleSavePermissions)
		})
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireScreen(auth.ScreenAudit, deny))
			r.Get("/audit", h.handleAudit)
			r.Get("/audit/export", h.handleAuditExport)
		})
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireScreen(auth.ScreenOrg, deny))
			for _, list := range h.orgLists() {
				r.Get(list.path, h.handleOrgList(list))
				r.Post(list.path, h.handleOrgCreate(list))
				r.Post(list.path+"/{itemID}/delete", h.handleOrgDelete(list))
			}
		})
	})
}
