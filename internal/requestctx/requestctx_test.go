package requestctx

import (
	"context"
	"testing"

	"hrmweb/internal/session"
)

func TestRequestID(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-1")
	if GetRequestID(ctx) != "req-1" {
		t.Fatal("expected request id")
	}
	if GetRequestID(context.Background()) != "" {
		t.Fatal("expected empty request id")
	}
}

func TestTokenOnlyForAuthenticatedSession(t *testing.T) {
	if Token(context.Background()) != "" {
		t.Fatal("anonymous context must not carry a token")
	}

	anon := &session.Session{ID: "s1"}
	if Token(WithSession(context.Background(), anon)) != "" {
		t.Fatal("session without token is unauthenticated")
	}

	authed := &session.Session{ID: "s2", Token: "tok", User: session.User{ID: "u1", Role: "employee"}}
	if Token(WithSession(context.Background(), authed)) != "tok" {
		t.Fatal("expected token from authenticated session")
	}

	if _, ok := GetSession(WithSession(context.Background(), nil)); ok {
		t.Fatal("nil session must be reported as missing")
	}
}
