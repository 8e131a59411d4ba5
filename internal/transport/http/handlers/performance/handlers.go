package performancehandler

import (
	"github.com/go-chi/chi/v5"

	"hrmweb/internal/domain/auth"
	"hrmweb/internal/domain/employees"
	"hrmweb/internal/domain/performance"
	"hrmweb/internal/transport/http/middleware"
	"hrmweb/internal/transport/http/shared"
)

const (
	goalsPath      = "/performance/goals"
	cyclesPath     = "/performance/cycles"
	reviewsPath    = "/performance/reviews"
	appraisalsPath = "/appraisals"
)

type Handler struct {
	Web       *shared.Web
	Service   *performance.Service
	Employees *employees.Service
}

func NewHandler(web *shared.Web, service *performance.Service, employeesSvc *employees.Service) *Handler {
	return &Handler{Web: web, Service: service, Employees: employeesSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	deny := h.Web.Forbidden()
	r.Route("/performance", func(r chi.Router) {
		r.With(middleware.RequireScreen(auth.ScreenGoals, deny)).Get("/goals", h.handleGoals)
		r.With(middleware.RequireScreen(auth.ScreenGoals, deny)).Post("/goals", h.handleCreateGoal)
		r.With(middleware.RequireScreen(auth.ScreenGoals, deny)).Post("/goals/{goalID}/progress", h.handleGoalProgress)

		r.With(middleware.RequireScreen(auth.ScreenCycles, deny)).Get("/cycles", h.handleCycles)
		r.With(middleware.RequireScreen(auth.ScreenCycles, deny)).Post("/cycles", h.handleCreateCycle)
		r.With(middleware.RequireScreen(auth.ScreenCycles, deny)).Post("/cycles/{cycleID}/status", h.handleCycleStatus)

		r.With(middleware.RequireScreen(auth.ScreenReviews, deny)).Get("/reviews", h.handleReviews)
		r.With(middleware.RequireScreen(auth.ScreenReviewWrite, deny)).Post("/reviews", h.handleCreateReview)
		r.With(middleware.RequireScreen(auth.ScreenReviews, deny)).Get("/reviews/{reviewID}", h.handleReview)
		r.With(middleware.RequireScreen(auth.ScreenReviewWrite, deny)).Post("/reviews/{reviewID}/submit", h.handleSubmitReview)
		r.With(middleware.RequireScreen(auth.ScreenReviews, deny)).Post("/reviews/{reviewID}/acknowledge", h.handleAcknowledgeReview)
	})
	r.Route("/appraisals", func(r chi.Router) {
		r.With(middleware.RequireScreen(auth.ScreenAppraisals, deny)).Get("/", h.handleAppraisals)
		r.With(middleware.RequireScreen(auth.ScreenAppraisalOK, deny)).Post("/cycles", h.handleCreateAppraisalCycle)
		r.With(middleware.RequireScreen(auth.ScreenAppraisals, deny)).Post("/{appraisalID}/propose", h.handlePropose)
		r.With(middleware.RequireScreen(auth.ScreenAppraisalOK, deny)).Post("/{appraisalID}/approve", h.handleApproveAppraisal)
		r.With(middleware.RequireScreen(auth.ScreenAppraisalOK, deny)).Post("/{appraisalID}/reject", h.handleRejectAppraisal)
	})
}
