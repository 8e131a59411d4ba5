package notificationshandler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"hrmweb/internal/notify"
	"hrmweb/internal/requestctx"
	"hrmweb/internal/session"
	"hrmweb/internal/transport/http/api"
	"hrmweb/internal/transport/http/shared"
)

const heartbeatInterval = 20 * time.Second

// Handler exposes the session's toast to scripts: a poll endpoint, an early
// dismiss and a server-sent event stream.
type Handler struct {
	Toasts    *notify.Hub
	heartbeat time.Duration
}

func NewHandler(toasts *notify.Hub) *Handler {
	return &Handler{Toasts: toasts, heartbeat: heartbeatInterval}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/notifications", func(r chi.Router) {
		r.Get("/toast", h.handleCurrent)
		r.Post("/toast/{toastID}/dismiss", h.handleDismiss)
		r.Get("/stream", h.handleStream)
	})
}

func (h *Handler) broadcaster(w http.ResponseWriter, r *http.Request) (*notify.Broadcaster, bool) {
	sess := shared.Session(r)
	if sess.State() != session.Authenticated {
		api.Fail(w, r, http.StatusUnauthorized, "unauthorized", "sign in required")
		return nil, false
	}
	return h.Toasts.For(sess.ID), true
}

func (h *Handler) handleCurrent(w http.ResponseWriter, r *http.Request) {
	b, ok := h.broadcaster(w, r)
	if !ok {
		return
	}
	toast, visible := b.Current()
	if !visible {
		api.Success(w, r, nil)
		return
	}
	api.Success(w, r, toast)
}

func (h *Handler) handleDismiss(w http.ResponseWriter, r *http.Request) {
	b, ok := h.broadcaster(w, r)
	if !ok {
		return
	}
	dismissed := b.Dismiss(chi.URLParam(r, "toastID"))
	if api.WantsJSON(r) {
		api.Success(w, r, map[string]bool{"dismissed": dismissed})
		return
	}
	target := "/"
	if ref := r.Referer(); ref != "" {
		target = ref
	}
	shared.Redirect(w, r, target)
}

// handleStream pushes every later toast as a "toast" event until the client
// goes away. Comment lines keep idle proxies from closing the connection.
func (h *Handler) handleStream(w http.ResponseWriter, r *http.Request) {
	b, ok := h.broadcaster(w, r)
	if !ok {
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		api.Fail(w, r, http.StatusNotImplemented, "stream_unsupported", "streaming is not supported")
		return
	}
	toasts, unsubscribe := b.Subscribe()
	defer unsubscribe()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	if toast, visible := b.Current(); visible {
		if err := writeEvent(w, toast); err != nil {
			return
		}
	}
	flusher.Flush()

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()
	for {
		select {
		case <-r.Context().Done():
			return
		case toast, open := <-toasts:
			if !open {
				return
			}
			if err := writeEvent(w, toast); err != nil {
				slog.Debug("toast stream closed", "err", err, "requestId", requestctx.GetRequestID(r.Context()))
				return
			}
			flusher.Flush()
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func writeEvent(w http.ResponseWriter, toast notify.Toast) error {
	data, err := json.Marshal(toast)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "id: %s\nevent: toast\ndata: %s\n\n", toast.ID, data)
	return err
}
