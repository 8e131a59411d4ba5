package auth

import (
	"encoding/json"
	"strings"
)

// User is the backend's view of the signed-in account.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (u *User) UnmarshalJSON(raw []byte) error {
	var wire struct {
		ID        string          `json:"id"`
		MongoID   string          `json:"_id"`
		Name      string          `json:"name"`
		FirstName string          `json:"firstName"`
		LastName  string          `json:"lastName"`
		Email     string          `json:"email"`
		Role      json.RawMessage `json:"role"`
	}
	if err := json.Unmarshal(raw, &wire); err != nil {
		return err
	}
	u.ID = wire.ID
	if u.ID == "" {
		u.ID = wire.MongoID
	}
	u.Name = wire.Name
	if u.Name == "" {
		u.Name = strings.TrimSpace(wire.FirstName + " " + wire.LastName)
	}
	u.Email = wire.Email
	// An absent role stays empty so the caller can fall back to the token.
	if name := roleName(wire.Role); name != "" {
		u.Role = NormalizeRole(name)
	}
	return nil
}

// roleName accepts the role either as a string or as an embedded role
// document with a name.
func roleName(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var name string
	if err := json.Unmarshal(raw, &name); err == nil {
		return name
	}
	var doc struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(raw, &doc); err == nil {
		return doc.Name
	}
	return ""
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	MFACode  string `json:"mfaCode,omitempty"`
}

type LoginResult struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

func (r *LoginResult) UnmarshalJSON(raw []byte) error {
	var wire struct {
		Token       string `json:"token"`
		AccessToken string `json:"accessToken"`
		User        *User  `json:"user"`
	}
	if err := json.Unmarshal(raw, &wire); err != nil {
		return err
	}
	r.Token = wire.Token
	if r.Token == "" {
		r.Token = wire.AccessToken
	}
	r.User = wire.User
	return nil
}

type Permission struct {
	ID          string `json:"id"`
	Key         string `json:"key"`
	Module      string `json:"module"`
	Description string `json:"description"`
}

type Role struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Permissions []string `json:"permissions"`
}

type NewRole struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}
