package domain

import (
	"errors"
	"time"
)

// Authentication failures surfaced by the directory client. The HTTP layer
// reports all three to the user as a generic "unable to authenticate";
// the distinction exists for logging and metrics only.
var (
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrDirectoryUnavailable = errors.New("directory service unavailable")
	ErrDirectoryTimeout     = errors.New("directory request timed out")
)

// Authorization failures raised by the session gate.
var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrForbidden        = errors.New("access forbidden")
	ErrSessionNotFound  = errors.New("session not found")
)

// Session is the server-side record persisted for an authenticated user.
// ID is an opaque identifier carried in the browser cookie; the record
// itself lives in the external session store until logout or TTL expiry.
//
// A session is either fully populated (identity and exactly one role) or it
// does not exist; no partial state is ever written.
type Session struct {
	ID        string    `json:"id"`
	Identity  Identity  `json:"identity"`
	Role      Role      `json:"role"`
	LoginAt   time.Time `json:"login_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session has passed its expiry at time now.
func (s Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
