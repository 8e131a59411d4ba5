// Package audit keeps a trail of security-relevant actions taken through the
// web tier: sign-ins, sign-outs, expired sessions and role changes.
package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

const (
	ActionLogin           = "login"
	ActionLoginFailed     = "login_failed"
	ActionLogout          = "logout"
	ActionSessionExpired  = "session_expired"
	ActionRoleCreated     = "role_created"
	ActionRoleDeleted     = "role_deleted"
	ActionRolePermissions = "role_permissions_changed"
)

var Actions = []string{
	ActionLogin,
	ActionLoginFailed,
	ActionLogout,
	ActionSessionExpired,
	ActionRoleCreated,
	ActionRoleDeleted,
	ActionRolePermissions,
}

type Event struct {
	ID         string    `json:"id"`
	ActorID    string    `json:"actorId"`
	ActorEmail string    `json:"actorEmail"`
	Action     string    `json:"action"`
	Subject    string    `json:"subject,omitempty"`
	Detail     string    `json:"detail,omitempty"`
	RequestID  string    `json:"requestId"`
	IP         string    `json:"ip"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Filter narrows a listing. Actor matches the actor's id or e-mail.
type Filter struct {
	Action string
	Actor  string
}

type Store interface {
	Insert(ctx context.Context, evt Event) error
	Count(ctx context.Context, filter Filter) (int, error)
	List(ctx context.Context, filter Filter, limit, offset int) ([]Event, error)
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type Service struct {
	Store Store
	now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{Store: store, now: time.Now}
}

// Record stores evt. A failing store never fails the action being audited;
// the event still reaches the log.
func (s *Service) Record(ctx context.Context, evt Event) {
	if s == nil {
		return
	}
	if evt.ID == "" {
		evt.ID = uuid.NewString()
	}
	if evt.CreatedAt.IsZero() {
		evt.CreatedAt = s.now().UTC()
	}
	slog.Info("audit", "action", evt.Action, "actorId", evt.ActorID, "actorEmail", evt.ActorEmail, "subject", evt.Subject, "requestId", evt.RequestID)
	if err := s.Store.Insert(ctx, evt); err != nil {
		slog.Warn("audit insert failed", "action", evt.Action, "err", err, "requestId", evt.RequestID)
	}
}

// Page returns one page of matching events, newest first, with the total.
func (s *Service) Page(ctx context.Context, filter Filter, limit, offset int) ([]Event, int, error) {
	total, err := s.Store.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	events, err := s.Store.List(ctx, filter, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

// Prune drops events older than retention. A zero retention keeps everything.
func (s *Service) Prune(ctx context.Context, retention time.Duration) (int64, error) {
	if s == nil || retention <= 0 {
		return 0, nil
	}
	return s.Store.DeleteBefore(ctx, s.now().UTC().Add(-retention))
}
