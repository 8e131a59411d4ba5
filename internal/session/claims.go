package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenExpiry reads the exp claim of a backend JWT without verifying it.
// The signature belongs to the backend; the value only bounds how long the
// frontend keeps the session around.
func TokenExpiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// TokenRole reads the role claim of a backend JWT without verifying it. The
// claim may be a plain string or an object carrying a name.
func TokenRole(token string) (string, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return "", false
	}
	switch role := claims["role"].(type) {
	case string:
		return role, role != ""
	case map[string]any:
		name, _ := role["name"].(string)
		return name, name != ""
	}
	return "", false
}
