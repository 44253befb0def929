package domain

import "time"

// TokenTTL bounds how long an issued token may be used. Expiry is
// evaluated lazily at point of use; no timer revokes sessions.
const TokenTTL = 12 * time.Hour

// Session represents one authenticated operator at the terminal.
// At most one session exists per username; state lives in process
// memory only and is lost on restart.
type Session struct {
	Username      string    `json:"username"`
	Token         string    `json:"token"`
	TokenIssuedAt time.Time `json:"token_issued_at"`
	Workplace     string    `json:"workplace"`
}

// TokenValid reports whether the session token is still usable at the
// given reference time.
func (s *Session) TokenValid(reference time.Time) bool {
	if s == nil || s.Token == "" {
		return false
	}
	if reference.IsZero() {
		reference = time.Now()
	}
	return reference.Sub(s.TokenIssuedAt) < TokenTTL
}
