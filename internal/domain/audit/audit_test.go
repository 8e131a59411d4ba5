package audit

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestMemoryStoreNewestFirstWithFilters(t *testing.T) {
	svc := NewService(NewMemoryStore(10))
	ctx := t.Context()
	svc.Record(ctx, Event{Action: ActionLogin, ActorID: "u1", ActorEmail: "ann@example.com"})
	svc.Record(ctx, Event{Action: ActionLoginFailed, ActorEmail: "Bob@example.com"})
	svc.Record(ctx, Event{Action: ActionLogout, ActorID: "u1", ActorEmail: "ann@example.com"})

	events, total, err := svc.Page(ctx, Filter{Actor: "u1"}, 10, 0)
	if err != nil {
		t.Fatal(err)
	}
	if total != 2 || len(events) != 2 || events[0].Action != ActionLogout {
		t.Fatalf("unexpected page %d %+v", total, events)
	}
	if events[0].ID == "" || events[0].CreatedAt.IsZero() {
		t.Fatal("expected id and timestamp filled")
	}

	events, total, _ = svc.Page(ctx, Filter{Actor: "bob@example.com"}, 10, 0)
	if total != 1 || events[0].Action != ActionLoginFailed {
		t.Fatalf("expected case-insensitive e-mail match, got %+v", events)
	}

	events, total, _ = svc.Page(ctx, Filter{}, 1, 1)
	if total != 3 || len(events) != 1 || events[0].Action != ActionLoginFailed {
		t.Fatalf("unexpected offset page %+v", events)
	}
}

func TestMemoryStoreDropsOldest(t *testing.T) {
	store := NewMemoryStore(2)
	for _, action := range []string{ActionLogin, ActionLogout, ActionRoleCreated} {
		_ = store.Insert(t.Context(), Event{Action: action, CreatedAt: time.Now()})
	}
	events, _ := store.List(t.Context(), Filter{}, 0, 0)
	if len(events) != 2 || events[1].Action != ActionLogout {
		t.Fatalf("expected the two newest, got %+v", events)
	}
}

type failingStore struct{ MemoryStore }

func (*failingStore) Insert(context.Context, Event) error { return errors.New("db down") }

func TestRecordSurvivesStoreFailure(t *testing.T) {
	svc := NewService(&failingStore{})
	svc.Record(t.Context(), Event{Action: ActionLogin})

	var nilSvc *Service
	nilSvc.Record(t.Context(), Event{Action: ActionLogin})
}

func TestBuildQueryNumbersPlaceholders(t *testing.T) {
	query, args := buildQuery("SELECT COUNT(1)", Filter{Action: ActionLogin, Actor: "ann@example.com"})
	if !strings.Contains(query, "action = $1") || !strings.Contains(query, "actor_id = $2 OR lower(actor_email) = lower($2)") {
		t.Fatalf("unexpected query %q", query)
	}
	if len(args) != 2 {
		t.Fatalf("expected two args, got %v", args)
	}

	query, args = buildQuery("SELECT 1", Filter{})
	if strings.Contains(query, "$") || len(args) != 0 {
		t.Fatalf("unexpected unfiltered query %q %v", query, args)
	}
}

func TestPruneDropsExpiredEvents(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	svc := NewService(NewMemoryStore(10))
	svc.now = func() time.Time { return now }
	ctx := t.Context()
	svc.Record(ctx, Event{Action: ActionLogin, CreatedAt: now.Add(-48 * time.Hour)})
	svc.Record(ctx, Event{Action: ActionLogout, CreatedAt: now.Add(-time.Hour)})

	removed, err := svc.Prune(ctx, 24*time.Hour)
	if err != nil || removed != 1 {
		t.Fatalf("expected one pruned event, got %d (%v)", removed, err)
	}
	events, total, _ := svc.Page(ctx, Filter{}, 10, 0)
	if total != 1 || events[0].Action != ActionLogout {
		t.Fatalf("unexpected survivors %+v", events)
	}

	if removed, _ := svc.Prune(ctx, 0); removed != 0 {
		t.Fatal("zero retention must keep everything")
	}
}
