package repository

import (
	"github.com/woodline/shopterm/domain"
)

// SessionStore keeps the terminal's authenticated operators. Mutated both
// from the interaction loop (workplace selection) and from worker
// goroutines (token refresh), so implementations must serialize access.
type SessionStore interface {
	// Lookup returns the session for a username, if present.
	Lookup(username string) (*domain.Session, bool)
	// CurrentToken returns the token only while it is fresh; a stale or
	// missing token reads as absent and the caller must re-authorize.
	CurrentToken(username string) (string, bool)
	// Upsert creates a session with an empty workplace or refreshes the
	// token and its issue timestamp in place.
	Upsert(username, token string)
	// SetWorkplace assigns the confirmed workplace to an existing session.
	SetWorkplace(username, workplace string)
	// Remove drops a session, e.g. when secondary auth rejects the partner.
	Remove(username string)
	// Contains reports whether a session exists for the username.
	Contains(username string) bool
	// AllWithWorkplace returns crew entries for every session with a
	// non-empty workplace, in insertion order.
	AllWithWorkplace() []domain.Employee
	// First returns the first-inserted session. Its token authorizes all
	// crew-wide calls on this shared terminal.
	First() (*domain.Session, bool)
	// Len returns the number of sessions.
	Len() int
}
