package session

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	cryptoutil "hrmweb/internal/platform/crypto"
	"hrmweb/internal/platform/db"
)

func TestPostgresStoreRoundTrip(t *testing.T) {
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, dbURL)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer pool.Close()
	if err := db.Migrate(ctx, pool, filepath.Join("..", "..", "migrations")); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	crypto, err := cryptoutil.New("test-session-secret")
	if err != nil {
		t.Fatalf("crypto: %v", err)
	}
	store := NewPostgresStore(pool, crypto)

	sess := &Session{
		ID:        "pg-" + time.Now().Format("150405.000000000"),
		Token:     "backend-token",
		User:      User{ID: "u1", Name: "Ravi", Email: "ravi@example.com", Role: "manager"},
		CreatedAt: time.Now().UTC(),
		ExpiresAt: time.Now().UTC().Add(time.Hour),
	}
	sess.Set("wizard", "{}")
	sess.PutOnce("credentials", `{"password":"Temp#1234"}`)
	if err := store.Save(ctx, sess); err != nil {
		t.Fatalf("save: %v", err)
	}
	var dataEnc []byte
	if err := pool.QueryRow(ctx, "SELECT data_enc FROM web_sessions WHERE id = $1", sess.ID).Scan(&dataEnc); err != nil {
		t.Fatalf("read row: %v", err)
	}
	if len(dataEnc) == 0 || bytes.Contains(dataEnc, []byte("Temp#1234")) {
		t.Fatal("expected session data sealed at rest")
	}

	got, err := store.Get(ctx, sess.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Token != "backend-token" || got.User.Role != "manager" {
		t.Fatalf("unexpected session %+v", got)
	}
	if value, _ := got.Get("wizard"); value != "{}" {
		t.Fatalf("expected data round trip, got %q", value)
	}

	if err := store.Delete(ctx, sess.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Get(ctx, sess.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
