package shared

import (
	"context"
	"errors"
	"log/slog"
	"mime"
	"net/http"

	"hrmweb/internal/apiclient"
	"hrmweb/internal/domain/audit"
	"hrmweb/internal/domain/auth"
	"hrmweb/internal/notify"
	"hrmweb/internal/requestctx"
	"hrmweb/internal/session"
	"hrmweb/internal/transport/http/middleware"
	"hrmweb/internal/transport/http/views"
)

const (
	MsgFailed    = "Something went wrong. Please try again."
	MsgForbidden = "You do not have permission to do that."
	MsgNotFound  = "The record no longer exists."
	MsgConflict  = "The record was changed by someone else. Reload and try again."
)

type navEntry struct {
	label  string
	url    string
	screen string
}

var navigation = []navEntry{
	{"Dashboard", "/dashboard", auth.ScreenDashboard},
	{"Attendance", "/attendance", auth.ScreenAttendance},
	{"Leaves", "/leaves", auth.ScreenLeaves},
	{"Payroll", "/payroll", auth.ScreenPayroll},
	{"Helpdesk", "/helpdesk", auth.ScreenHelpdesk},
	{"Goals", "/performance/goals", auth.ScreenGoals},
	{"Reviews", "/performance/reviews", auth.ScreenReviews},
	{"Review cycles", "/performance/cycles", auth.ScreenCycles},
	{"Employees", "/employees", auth.ScreenEmployees},
	{"Appraisals", "/appraisals", auth.ScreenAppraisals},
	{"Candidates", "/recruitment/candidates", auth.ScreenCandidates},
	{"Organization", "/admin/departments", auth.ScreenOrg},
	{"Roles", "/admin/roles", auth.ScreenRoles},
	{"Audit", "/admin/audit", auth.ScreenAudit},
}

// Web bundles what every page handler needs to render and to report
// outcomes back to the user.
type Web struct {
	Views          *views.Renderer
	Sessions       *session.Manager
	Toasts         *notify.Hub
	GoogleClientID string

	// Audit is optional; without it nothing is recorded.
	Audit *audit.Service
}

func NewWeb(renderer *views.Renderer, sessions *session.Manager, toasts *notify.Hub, googleClientID string) *Web {
	return &Web{Views: renderer, Sessions: sessions, Toasts: toasts, GoogleClientID: googleClientID}
}

// Unauthorized is the API client's 401 hook: the backend no longer
// accepts the token, so the session ends for every later request too.
func (web *Web) Unauthorized(ctx context.Context) {
	sess, ok := requestctx.GetSession(ctx)
	if !ok {
		return
	}
	if err := web.Sessions.Invalidate(ctx, sess.ID); err != nil {
		slog.Warn("session invalidate failed", "err", err, "requestId", requestctx.GetRequestID(ctx))
	}
	if web.Toasts != nil {
		web.Toasts.Drop(sess.ID)
	}
	if sess.Token != "" {
		web.Audit.Record(ctx, audit.Event{
			ActorID:    sess.User.ID,
			ActorEmail: sess.User.Email,
			Action:     audit.ActionSessionExpired,
			RequestID:  requestctx.GetRequestID(ctx),
		})
	}
	sess.Token = ""
}

// Record audits an action of the current request. Actor fields left empty
// are taken from the session.
func (web *Web) Record(r *http.Request, evt audit.Event) {
	if sess := Session(r); sess != nil && evt.ActorID == "" && evt.ActorEmail == "" {
		evt.ActorID = sess.User.ID
		evt.ActorEmail = sess.User.Email
	}
	evt.RequestID = requestctx.GetRequestID(r.Context())
	evt.IP = middleware.ClientIP(r)
	web.Audit.Record(r.Context(), evt)
}

// Session returns the caller's session; routes behind RequireAuth always have one.
func Session(r *http.Request) *session.Session {
	sess, _ := requestctx.GetSession(r.Context())
	return sess
}

func Role(r *http.Request) string {
	if sess := Session(r); sess != nil {
		return sess.User.Role
	}
	return ""
}

func (web *Web) Page(r *http.Request, title, active string) views.Page {
	page := views.Page{
		Title:     title,
		RequestID: requestctx.GetRequestID(r.Context()),
	}
	sess := Session(r)
	if sess == nil || sess.State() != session.Authenticated {
		return page
	}
	page.User = &views.UserBadge{Name: sess.User.Name, Email: sess.User.Email, Role: auth.RoleLabel(sess.User.Role)}
	for _, entry := range navigation {
		if auth.CanAccess(sess.User.Role, entry.screen) {
			page.Nav = append(page.Nav, views.NavItem{Label: entry.label, URL: entry.url, Active: entry.url == active})
		}
	}
	if web.Toasts != nil {
		if toast, ok := web.Toasts.For(sess.ID).Current(); ok {
			page.Toast = &toast
		}
	}
	return page
}

func (web *Web) Render(w http.ResponseWriter, status int, name string, page views.Page) {
	web.Views.Render(w, status, name, page)
}

func (web *Web) Screen(w http.ResponseWriter, r *http.Request, page views.Page, screen views.Screen) {
	page.Content = screen
	web.Render(w, http.StatusOK, views.PageScreen, page)
}

// Redirect finishes a POST so the browser re-issues the page's reads.
func Redirect(w http.ResponseWriter, r *http.Request, target string) {
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (web *Web) Notify(r *http.Request, level notify.Level, message string) {
	sess := Session(r)
	if sess == nil || web.Toasts == nil {
		return
	}
	web.Toasts.For(sess.ID).Publish(level, message)
}

func (web *Web) Success(r *http.Request, message string) {
	web.Notify(r, notify.LevelSuccess, message)
}

func (web *Web) Error(r *http.Request, message string) {
	web.Notify(r, notify.LevelError, message)
}

// SaveSession persists session data changed by a handler.
func (web *Web) SaveSession(r *http.Request, sess *session.Session) {
	if err := web.Sessions.Save(r.Context(), sess); err != nil {
		slog.Warn("session save failed", "err", err, "requestId", requestctx.GetRequestID(r.Context()))
	}
}

// Message is the toast text for a failed backend call.
func Message(err error) string {
	apiErr, ok := apiclient.AsError(err)
	if !ok {
		return MsgFailed
	}
	switch apiErr.Kind {
	case apiclient.KindForbidden:
		return MsgForbidden
	case apiclient.KindNotFound:
		return MsgNotFound
	case apiclient.KindConflict:
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return MsgConflict
	case apiclient.KindValidation, apiclient.KindClient:
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return MsgFailed
	default:
		return MsgFailed
	}
}

// Expired reports whether err ended the session. When it did, the stale
// cookie is cleared and the browser is sent to the login page.
func (web *Web) Expired(w http.ResponseWriter, r *http.Request, err error) bool {
	if !errors.Is(err, apiclient.ErrSessionExpired) {
		return false
	}
	web.Sessions.ClearCookie(w)
	middleware.RedirectToLogin(w, r)
	return true
}

// Fail reports a failed mutation with a toast and redirects to back. Field
// errors are the caller's business; Fail only sees what is left.
func (web *Web) Fail(w http.ResponseWriter, r *http.Request, err error, back string) {
	if web.Expired(w, r, err) {
		return
	}
	slog.Warn("backend mutation failed",
		"path", r.URL.Path,
		"kind", apiclient.KindOf(err),
		"requestId", requestctx.GetRequestID(r.Context()),
		"err", err,
	)
	web.Error(r, Message(err))
	Redirect(w, r, back)
}

// FailPage renders the page's error state after a failed read.
func (web *Web) FailPage(w http.ResponseWriter, r *http.Request, page views.Page, err error) {
	if web.Expired(w, r, err) {
		return
	}
	slog.Warn("backend read failed",
		"path", r.URL.Path,
		"kind", apiclient.KindOf(err),
		"requestId", requestctx.GetRequestID(r.Context()),
		"err", err,
	)
	status := http.StatusBadGateway
	page.Error = "Could not load this page. " + Message(err)
	switch apiclient.KindOf(err) {
	case apiclient.KindForbidden:
		status = http.StatusForbidden
		page.Error = MsgForbidden
	case apiclient.KindNotFound:
		status = http.StatusNotFound
		page.Error = "Not found."
	}
	web.Render(w, status, views.PageScreen, page)
}

// Forbidden renders the 403 page for a signed-in user without the role.
func (web *Web) Forbidden() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page := web.Page(r, "Access denied", "")
		page.Content = views.Screen{Heading: "Access denied", Subtitle: "Your role does not have access to this page."}
		web.Render(w, http.StatusForbidden, views.PageError, page)
	})
}

func (web *Web) NotFound() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page := web.Page(r, "Not found", "")
		page.Content = views.Screen{Heading: "Page not found", Subtitle: "There is nothing at this address."}
		web.Render(w, http.StatusNotFound, views.PageError, page)
	})
}

// InternalError is the page shown after a recovered panic.
func (web *Web) InternalError() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page := web.Page(r, "Something went wrong", "")
		page.Content = views.Screen{Heading: "Something went wrong", Subtitle: "The page could not be shown. Try again in a moment."}
		web.Render(w, http.StatusInternalServerError, views.PageError, page)
	})
}

// Download streams a backend export to the browser.
func Download(w http.ResponseWriter, file *apiclient.File, fallbackName string) {
	name := file.Name
	if name == "" {
		name = fallbackName
	}
	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(file.Body)
}
