package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"net/http"
	"time"
)

const CookieName = "hrm_session"

type Manager struct {
	Store  Store
	TTL    time.Duration
	Secure bool
	now    func() time.Time
}

func NewManager(store Store, ttl time.Duration, secure bool) *Manager {
	return &Manager{Store: store, TTL: ttl, Secure: secure, now: time.Now}
}

// Load resolves the request's session cookie. ErrNotFound covers a missing
// cookie as well as an unknown or expired session.
func (m *Manager) Load(r *http.Request) (*Session, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return nil, ErrNotFound
	}
	sess, err := m.Store.Get(r.Context(), cookie.Value)
	if err != nil {
		return nil, err
	}
	if sess.Expired(m.now()) {
		_ = m.Store.Delete(r.Context(), sess.ID)
		return nil, ErrNotFound
	}
	return sess, nil
}

// Start moves the caller to Authenticated: it persists token and user and
// sets the cookie. The session never outlives the token's own exp claim.
func (m *Manager) Start(ctx context.Context, w http.ResponseWriter, token string, user User) (*Session, error) {
	if token == "" {
		return nil, ErrNoToken
	}
	id, err := newSessionID()
	if err != nil {
		return nil, err
	}
	now := m.now()
	expires := now.Add(m.TTL)
	if exp, ok := TokenExpiry(token); ok && exp.Before(expires) {
		expires = exp
	}
	sess := &Session{
		ID:        id,
		Token:     token,
		User:      user,
		CreatedAt: now,
		ExpiresAt: expires,
	}
	if err := m.Store.Save(ctx, sess); err != nil {
		return nil, err
	}
	http.SetCookie(w, m.cookie(id, expires))
	return sess, nil
}

func (m *Manager) Save(ctx context.Context, sess *Session) error {
	return m.Store.Save(ctx, sess)
}

// Destroy removes the session and clears the cookie (explicit logout).
func (m *Manager) Destroy(ctx context.Context, w http.ResponseWriter, id string) error {
	http.SetCookie(w, m.expiredCookie())
	if id == "" {
		return nil
	}
	return m.Store.Delete(ctx, id)
}

// Invalidate removes the session server-side only. Used when the backend
// answers 401; the stale cookie is cleared on the redirect to /login.
func (m *Manager) Invalidate(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	err := m.Store.Delete(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	return err
}

func (m *Manager) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, m.expiredCookie())
}

func (m *Manager) Sweep(ctx context.Context) (int, error) {
	return m.Store.DeleteExpired(ctx, m.now())
}

func (m *Manager) cookie(value string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   m.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func (m *Manager) expiredCookie() *http.Cookie {
	c := m.cookie("", time.Unix(0, 0))
	c.MaxAge = -1
	return c
}

func newSessionID() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
