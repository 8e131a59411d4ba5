package requestctx

import (
	"context"

	"hrmweb/internal/session"
)

type ctxKey string

const (
	requestIDKey ctxKey = "request_id"
	sessionKey   ctxKey = "session"
)

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

func GetRequestID(ctx context.Context) string {
	if value, ok := ctx.Value(requestIDKey).(string); ok {
		return value
	}
	return ""
}

// WithSession attaches the caller's session. A nil session means anonymous.
func WithSession(ctx context.Context, sess *session.Session) context.Context {
	return context.WithValue(ctx, sessionKey, sess)
}

func GetSession(ctx context.Context) (*session.Session, bool) {
	sess, ok := ctx.Value(sessionKey).(*session.Session)
	if !ok || sess == nil {
		return nil, false
	}
	return sess, true
}

// Token returns the backend bearer token of the authenticated caller, if any.
func Token(ctx context.Context) string {
	if sess, ok := GetSession(ctx); ok && sess.State() == session.Authenticated {
		return sess.Token
	}
	return ""
}
