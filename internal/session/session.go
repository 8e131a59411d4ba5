package session

import (
	"errors"
	"time"
)

var (
	ErrNotFound = errors.New("session not found")
	ErrNoToken  = errors.New("session token is required")
)

type State int

const (
	Unauthenticated State = iota
	Authenticated
)

func (s State) String() string {
	if s == Authenticated {
		return "authenticated"
	}
	return "unauthenticated"
}

// User is the identity returned by the backend at login or /auth/me.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Session replaces the browser's local-storage token+user pair. It exists
// only between a successful login and logout or the first 401.
type Session struct {
	ID        string            `json:"id"`
	Token     string            `json:"-"`
	User      User              `json:"user"`
	Data      map[string]string `json:"data,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
	ExpiresAt time.Time         `json:"expiresAt"`
}

func (s *Session) State() State {
	if s == nil || s.Token == "" {
		return Unauthenticated
	}
	return Authenticated
}

func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

func (s *Session) Set(key, value string) {
	if s.Data == nil {
		s.Data = map[string]string{}
	}
	s.Data[key] = value
}

func (s *Session) Get(key string) (string, bool) {
	value, ok := s.Data[key]
	return value, ok
}

func (s *Session) Delete(key string) {
	delete(s.Data, key)
}

// PutOnce stores a value that is handed out by exactly one TakeOnce call.
func (s *Session) PutOnce(key, value string) {
	s.Set(onceKey(key), value)
}

func (s *Session) TakeOnce(key string) (string, bool) {
	value, ok := s.Get(onceKey(key))
	if ok {
		s.Delete(onceKey(key))
	}
	return value, ok
}

func onceKey(key string) string {
	return "once:" + key
}

func (s *Session) clone() *Session {
	out := *s
	if s.Data != nil {
		out.Data = make(map[string]string, len(s.Data))
		for k, v := range s.Data {
			out.Data[k] = v
		}
	}
	return &out
}
