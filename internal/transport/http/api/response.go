// Package api writes the small JSON surface of the web server: toast polling,
// health probes and metrics.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"hrmweb/internal/requestctx"
)

type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type Envelope struct {
	Success   bool   `json:"success"`
	Data      any    `json:"data,omitempty"`
	Error     *Error `json:"error,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, payload Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Warn("write json failed", "err", err)
	}
}

func Success(w http.ResponseWriter, r *http.Request, data any) {
	WriteJSON(w, http.StatusOK, Envelope{Success: true, Data: data, RequestID: requestctx.GetRequestID(r.Context())})
}

func Fail(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	WriteJSON(w, status, Envelope{Success: false, Error: &Error{Code: code, Message: message}, RequestID: requestctx.GetRequestID(r.Context())})
}

// WantsJSON reports a script caller rather than a plain form post.
func WantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}
