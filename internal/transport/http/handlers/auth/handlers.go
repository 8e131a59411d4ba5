package authhandler

import (
	"crypto/subtle"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"hrmweb/internal/apiclient"
	"hrmweb/internal/domain/audit"
	"hrmweb/internal/domain/auth"
	"hrmweb/internal/forms"
	"hrmweb/internal/requestctx"
	"hrmweb/internal/session"
	"hrmweb/internal/transport/http/middleware"
	"hrmweb/internal/transport/http/shared"
	"hrmweb/internal/transport/http/views"
)

const (
	homePath        = "/dashboard"
	googleLoginPath = "/login/google"
	googleCSRFName  = "g_csrf_token"

	msgBadCredentials = "Invalid e-mail or password."
	msgThrottled      = "Too many sign-in attempts. Wait a minute and try again."
)

type Handler struct {
	Web            *shared.Web
	Service        *auth.Service
	LoginPerMinute int
}

func NewHandler(web *shared.Web, service *auth.Service, loginPerMinute int) *Handler {
	return &Handler{Web: web, Service: service, LoginPerMinute: loginPerMinute}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	limit := middleware.LoginRateLimit(h.LoginPerMinute, time.Minute, middleware.WithDeny(http.HandlerFunc(h.handleThrottled)))
	r.Get("/", h.handleRoot)
	r.Get("/login", h.handleLoginPage)
	r.With(limit).Post("/login", h.handleLogin)
	r.With(limit).Post(googleLoginPath, h.handleGoogleLogin)
	r.Post("/logout", h.handleLogout)
}

func (h *Handler) handleRoot(w http.ResponseWriter, r *http.Request) {
	if authenticated(r) {
		shared.Redirect(w, r, homePath)
		return
	}
	shared.Redirect(w, r, middleware.LoginPath)
}

func (h *Handler) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	if authenticated(r) {
		shared.Redirect(w, r, safeNext(r.URL.Query().Get("next")))
		return
	}
	h.renderLogin(w, r, http.StatusOK, views.LoginView{Next: safeNext(r.URL.Query().Get("next"))})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderLogin(w, r, http.StatusBadRequest, views.LoginView{Error: "Invalid form submission."})
		return
	}
	req := auth.LoginRequest{
		Email:    strings.TrimSpace(r.PostForm.Get("email")),
		Password: r.PostForm.Get("password"),
		MFACode:  strings.TrimSpace(r.PostForm.Get("mfaCode")),
	}
	view := views.LoginView{Email: req.Email, Next: safeNext(r.PostForm.Get("next"))}

	v := forms.NewValidator()
	v.Required("email", req.Email, "E-mail is required.")
	v.Email("email", req.Email)
	v.Required("password", req.Password, "Password is required.")
	if errs := v.Errors(); errs.Any() {
		view.Error = firstMessage(errs)
		h.renderLogin(w, r, http.StatusBadRequest, view)
		return
	}

	result, err := h.Service.Login(r.Context(), req)
	if err != nil {
		status, message := loginFailure(err)
		slog.Info("login rejected", "kind", apiclient.KindOf(err), "requestId", requestctx.GetRequestID(r.Context()))
		h.Web.Record(r, audit.Event{ActorEmail: req.Email, Action: audit.ActionLoginFailed, Detail: string(apiclient.KindOf(err))})
		view.Error = message
		h.renderLogin(w, r, status, view)
		return
	}
	h.startSession(w, r, result, view.Next)
}

// handleGoogleLogin receives the Google Identity Services redirect post.
// The credential is only trusted after the double-submit CSRF check.
func (h *Handler) handleGoogleLogin(w http.ResponseWriter, r *http.Request) {
	if h.Web.GoogleClientID == "" {
		h.Web.NotFound().ServeHTTP(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		h.renderLogin(w, r, http.StatusBadRequest, views.LoginView{Error: "Invalid Google sign-in response."})
		return
	}
	cookie, err := r.Cookie(googleCSRFName)
	posted := r.PostForm.Get(googleCSRFName)
	if err != nil || cookie.Value == "" || subtle.ConstantTimeCompare([]byte(cookie.Value), []byte(posted)) != 1 {
		slog.Warn("google login csrf mismatch", "requestId", requestctx.GetRequestID(r.Context()))
		h.renderLogin(w, r, http.StatusBadRequest, views.LoginView{Error: "Google sign-in could not be verified."})
		return
	}
	credential := r.PostForm.Get("credential")
	if credential == "" {
		h.renderLogin(w, r, http.StatusBadRequest, views.LoginView{Error: "Google sign-in returned no credential."})
		return
	}
	result, err := h.Service.GoogleLogin(r.Context(), credential)
	if err != nil {
		status, message := loginFailure(err)
		if status == http.StatusUnauthorized {
			message = "This Google account is not allowed to sign in."
		}
		h.Web.Record(r, audit.Event{Action: audit.ActionLoginFailed, Subject: "google", Detail: string(apiclient.KindOf(err))})
		h.renderLogin(w, r, status, views.LoginView{Error: message})
		return
	}
	h.startSession(w, r, result, homePath)
}

func (h *Handler) startSession(w http.ResponseWriter, r *http.Request, result auth.LoginResult, next string) {
	if old, ok := requestctx.GetSession(r.Context()); ok {
		_ = h.Web.Sessions.Invalidate(r.Context(), old.ID)
		h.Web.Toasts.Drop(old.ID)
	}
	role := result.User.Role
	if role == "" {
		role, _ = session.TokenRole(result.Token)
	}
	user := session.User{ID: result.User.ID, Name: result.User.Name, Email: result.User.Email, Role: auth.NormalizeRole(role)}
	sess, err := h.Web.Sessions.Start(r.Context(), w, result.Token, user)
	if err != nil {
		slog.Error("session start failed", "err", err, "requestId", requestctx.GetRequestID(r.Context()))
		h.renderLogin(w, r, http.StatusInternalServerError, views.LoginView{Email: user.Email, Error: shared.MsgFailed})
		return
	}
	h.Web.Record(r, audit.Event{ActorID: user.ID, ActorEmail: user.Email, Action: audit.ActionLogin, Detail: user.Role})
	name := user.Name
	if name == "" {
		name = user.Email
	}
	h.Web.Toasts.For(sess.ID).Success("Welcome back, " + name + ".")
	shared.Redirect(w, r, next)
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	sess, ok := requestctx.GetSession(r.Context())
	if !ok {
		h.Web.Sessions.ClearCookie(w)
		shared.Redirect(w, r, middleware.LoginPath)
		return
	}
	if sess.State() == session.Authenticated {
		h.Web.Record(r, audit.Event{Action: audit.ActionLogout})
		if err := h.Service.Logout(r.Context()); err != nil && !errors.Is(err, apiclient.ErrSessionExpired) {
			slog.Warn("backend logout failed", "err", err, "requestId", requestctx.GetRequestID(r.Context()))
		}
	}
	if err := h.Web.Sessions.Destroy(r.Context(), w, sess.ID); err != nil {
		slog.Warn("session destroy failed", "err", err, "requestId", requestctx.GetRequestID(r.Context()))
	}
	h.Web.Toasts.Drop(sess.ID)
	shared.Redirect(w, r, middleware.LoginPath)
}

func (h *Handler) handleThrottled(w http.ResponseWriter, r *http.Request) {
	h.renderLogin(w, r, http.StatusTooManyRequests, views.LoginView{
		Email: strings.TrimSpace(r.PostFormValue("email")),
		Error: msgThrottled,
	})
}

func (h *Handler) renderLogin(w http.ResponseWriter, r *http.Request, status int, view views.LoginView) {
	view.GoogleClientID = h.Web.GoogleClientID
	if view.GoogleClientID != "" {
		view.LoginURI = absoluteURL(r, googleLoginPath)
	}
	page := h.Web.Page(r, "Sign in", "")
	page.Content = view
	h.Web.Render(w, status, views.PageLogin, page)
}

// loginFailure maps a failed login call to an inline message. A 401 here
// means bad credentials, never an expired session.
func loginFailure(err error) (int, string) {
	if errors.Is(err, auth.ErrNoToken) {
		return http.StatusBadGateway, shared.MsgFailed
	}
	apiErr, ok := apiclient.AsError(err)
	if !ok {
		return http.StatusBadGateway, shared.MsgFailed
	}
	switch apiErr.Kind {
	case apiclient.KindUnauthorized:
		return http.StatusUnauthorized, msgBadCredentials
	case apiclient.KindForbidden:
		if apiErr.Message != "" {
			return http.StatusForbidden, apiErr.Message
		}
		return http.StatusForbidden, "This account is disabled."
	case apiclient.KindValidation, apiclient.KindClient:
		if apiErr.Message != "" {
			return http.StatusBadRequest, apiErr.Message
		}
		return http.StatusBadRequest, msgBadCredentials
	default:
		return http.StatusBadGateway, shared.MsgFailed
	}
}

func authenticated(r *http.Request) bool {
	sess, ok := requestctx.GetSession(r.Context())
	return ok && sess.State() == session.Authenticated
}

// safeNext keeps post-login redirects on this site.
func safeNext(next string) string {
	next = strings.TrimSpace(next)
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return homePath
	}
	if strings.HasPrefix(next, middleware.LoginPath) {
		return homePath
	}
	return next
}

func absoluteURL(r *http.Request, path string) string {
	scheme := "http"
	if r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https") {
		scheme = "https"
	}
	return scheme + "://" + r.Host + path
}

func firstMessage(errs forms.FieldErrors) string {
	for _, field := range []string{"email", "password"} {
		if msg := errs.Get(field); msg != "" {
			if field == "email" && !strings.HasSuffix(msg, ".") {
				return "E-mail " + msg + "."
			}
			return msg
		}
	}
	return msgBadCredentials
}
