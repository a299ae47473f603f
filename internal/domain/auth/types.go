package auth

// Package auth contains domain-level types for credentials and sessions.
// It is pure and free of framework/adapter concerns.

import "time"

// AttrUID is the session attribute carrying the authenticated username.
// A session without it is anonymous.
const AttrUID = "uid"

// Session is the server-side record persisted for a browser session.
// ID is an opaque session identifier (random, URL-safe); clients hold only
// the identifier, never the record.
type Session struct {
	ID          string            `json:"id"`
	Attributes  map[string]string `json:"attributes,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	LastAccess  time.Time         `json:"last_access"`
	IdleTimeout time.Duration     `json:"idle_timeout"`
	ExpiresAt   time.Time         `json:"expires_at"`
}

// UID returns the authenticated username, or "" for anonymous sessions.
func (s Session) UID() string { return s.Attributes[AttrUID] }

// IsAnonymous returns true if no user has authenticated on this session.
func (s Session) IsAnonymous() bool { return s.UID() == "" }

// IdleDeadline returns the instant the session idles out if never touched again.
func (s Session) IdleDeadline() time.Time {
	if s.IdleTimeout <= 0 {
		return s.ExpiresAt
	}
	return s.LastAccess.Add(s.IdleTimeout)
}

// Expired reports whether the session is past its idle or absolute timeout.
func (s Session) Expired(now time.Time) bool {
	if !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt) {
		return true
	}
	return now.After(s.IdleDeadline())
}

// StoredCredential is a credential record read from the external credential
// store. The record is read-only to this application; hashing parameters
// travel with it so verification can reproduce them exactly.
type StoredCredential struct {
	Username   string
	Hash       []byte
	PublicSalt []byte
	Algorithm  string
	Iterations int
}

// HashedSecret is the output of hashing a secret: the derived hash plus the
// parameters needed to verify it later. PublicSalt is fresh per call and
// stored alongside the hash; the private salt is service configuration and
// deliberately absent here.
type HashedSecret struct {
	Hash       []byte
	PublicSalt []byte
	Algorithm  string
	Iterations int
}

// RequestState is the authentication state of an inbound request as seen by
// the access filters.
type RequestState struct {
	// Path is the request path being resolved.
	Path string
	// Session is the live session attached to the request, if any.
	Session *Session
	// Remembered is true when the request carries a valid remember-me token
	// instead of (or in addition to) a primary session.
	Remembered bool
}

// Authenticated returns true for a live, non-anonymous session.
func (r RequestState) Authenticated() bool {
	return r.Session != nil && !r.Session.IsAnonymous()
}
