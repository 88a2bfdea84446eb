package models

import "strings"

// Login methods
const (
	LoginPassword = "password"
	LoginOIDC     = "oidc"
)

// User is the operator behind a session. Password logins share one
// anonymous identity; OIDC logins carry the provider's claims.
type User struct {
	Sub     string `json:"sub"` // OIDC subject identifier, empty for password logins
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
	Method  string `json:"method"`
}

// DisplayName returns the best human-readable identifier for the user.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	for _, s := range []string{u.Name, u.Email, u.Sub} {
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	if u.Method == LoginPassword {
		return "operator"
	}
	return ""
}
