package adminhandler

import (
	"encoding/csv"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"hrmweb/internal/domain/audit"
	"hrmweb/internal/forms"
	"hrmweb/internal/requestctx"
	"hrmweb/internal/transport/http/shared"
	"hrmweb/internal/transport/http/views"
)

const (
	auditPath        = "/admin/audit"
	auditExportLimit = 5000
)

func auditFilter(r *http.Request) audit.Filter {
	q := r.URL.Query()
	filter := audit.Filter{Actor: strings.TrimSpace(q.Get("actor"))}
	for _, action := range audit.Actions {
		if q.Get("action") == action {
			filter.Action = action
		}
	}
	return filter
}

func actionOptions() []forms.Option {
	out := make([]forms.Option, 0, len(audit.Actions))
	for _, action := range audit.Actions {
		out = append(out, forms.Option{Value: action, Label: shared.Label(action)})
	}
	return out
}

func (h *Handler) handleAudit(w http.ResponseWriter, r *http.Request) {
	page := h.Web.Page(r, "Audit trail", auditPath)
	if h.Web.Audit == nil {
		h.Web.Screen(w, r, page, views.Screen{
			Heading:  "Audit trail",
			Sections: []views.Section{{Note: "Audit recording is not enabled on this server."}},
		})
		return
	}
	filter := auditFilter(r)
	paging := shared.ParsePagination(r, 50, 200)
	events, total, err := h.Web.Audit.Page(r.Context(), filter, paging.Limit, (paging.Page-1)*paging.Limit)
	if err != nil {
		slog.Error("audit list failed", "err", err, "requestId", requestctx.GetRequestID(r.Context()))
		h.Web.Screen(w, r, page, views.Screen{
			Heading:  "Audit trail",
			Sections: []views.Section{{Note: "The audit trail could not be loaded."}},
		})
		return
	}

	table := &views.Table{
		Columns: []string{"When", "Actor", "Action", "Subject", "Detail", "IP"},
		Empty:   "No audit events match.",
	}
	for _, evt := range events {
		actor := evt.ActorEmail
		if actor == "" {
			actor = evt.ActorID
		}
		table.Rows = append(table.Rows, views.Row{Cells: []views.Cell{
			{Text: shared.DateTime(&evt.CreatedAt)},
			{Text: actor},
			{Text: shared.Label(evt.Action), Badge: true},
			{Text: evt.Subject},
			{Text: evt.Detail},
			{Text: evt.IP},
		}})
	}
	pages := paging.Pages(total)
	pager := &views.Pager{Page: paging.Page, Pages: pages}
	if paging.Page > 1 {
		pager.PrevURL = shared.PageURL(r, paging.Page-1)
	}
	if paging.Page < pages {
		pager.NextURL = shared.PageURL(r, paging.Page+1)
	}

	exportURL := auditPath + "/export"
	if r.URL.RawQuery != "" {
		exportURL += "?" + r.URL.RawQuery
	}
	h.Web.Screen(w, r, page, views.Screen{
		Heading: "Audit trail",
		Actions: []views.Action{{Label: "Export CSV", URL: exportURL, Variant: "secondary"}},
		Sections: []views.Section{{
			Form: &views.Form{
				Action: auditPath,
				Method: http.MethodGet,
				Inline: true,
				Submit: "Filter",
				Fields: []views.FormField{
					{Name: "action", Label: "Action", Type: "select", Value: filter.Action, Options: actionOptions()},
					{Name: "actor", Label: "Actor", Value: filter.Actor, Placeholder: "e-mail or user id"},
				},
			},
			Table: table,
			Pager: pager,
		}},
	})
}

func (h *Handler) handleAuditExport(w http.ResponseWriter, r *http.Request) {
	if h.Web.Audit == nil {
		h.Web.NotFound().ServeHTTP(w, r)
		return
	}
	events, _, err := h.Web.Audit.Page(r.Context(), auditFilter(r), auditExportLimit, 0)
	if err != nil {
		slog.Error("audit export failed", "err", err, "requestId", requestctx.GetRequestID(r.Context()))
		h.Web.Error(r, "The audit trail could not be exported.")
		shared.Redirect(w, r, auditPath)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=audit-events.csv")
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"id", "created_at", "actor_id", "actor_email", "action", "subject", "detail", "request_id", "ip"}); err != nil {
		slog.Warn("audit export header failed", "err", err)
	}
	for _, evt := range events {
		if err := writer.Write([]string{evt.ID, evt.CreatedAt.UTC().Format(time.RFC3339), evt.ActorID, evt.ActorEmail, evt.Action, evt.Subject, evt.Detail, evt.RequestID, evt.IP}); err != nil {
			slog.Warn("audit export row failed", "err", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		slog.Warn("audit export flush failed", "err", err)
	}
}
