package session

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	cryptoutil "hrmweb/internal/platform/crypto"
)

func TestValkeyStoreRoundTrip(t *testing.T) {
	uri := os.Getenv("TEST_VALKEY_URL")
	if uri == "" {
		t.Skip("TEST_VALKEY_URL not set")
	}

	client, err := NewValkeyClient(uri)
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	defer client.Close()

	crypto, _ := cryptoutil.New("test-session-secret")
	store := NewValkeyStore(client, crypto)
	ctx := context.Background()

	sess := &Session{
		ID:        "vk-" + time.Now().Format("150405.000000000"),
		Token:     "backend-token",
		User:      User{ID: "u2", Role: "employee"},
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(time.Minute),
	}
	sess.PutOnce("credentials", `{"password":"Temp#1234"}`)
	if err := store.Save(ctx, sess); err != nil {
		t.Fatalf("save: %v", err)
	}
	raw, err := client.Do(ctx, client.B().Get().Key(valkeyKeyPrefix+sess.ID).Build()).ToString()
	if err != nil {
		t.Fatalf("raw get: %v", err)
	}
	if strings.Contains(raw, "Temp#1234") {
		t.Fatal("expected session data sealed at rest")
	}
	got, err := store.Get(ctx, sess.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Token != "backend-token" {
		t.Fatalf("unexpected token %q", got.Token)
	}
	if _, ok := got.TakeOnce("credentials"); !ok {
		t.Fatal("expected sealed data to round trip")
	}
	if err := store.Delete(ctx, sess.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Get(ctx, sess.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
