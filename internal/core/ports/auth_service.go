package ports

import (
	"context"

	"github.com/feas-hq/allocation-system/internal/core/domain"
)

// AuthService owns the session lifecycle: login, session retrieval, logout
// and API token issuance.
type AuthService interface {
	// Login authenticates against the directory (or the configured
	// superadmin bypass), resolves the role and persists a new session.
	// On any failure the session store is left untouched.
	Login(ctx context.Context, username, password string) (*domain.Session, error)

	// GetSession loads a live session by ID. Expired or missing sessions
	// yield domain.ErrSessionNotFound.
	GetSession(ctx context.Context, id string) (*domain.Session, error)

	// Logout removes the session synchronously. Unknown IDs are a no-op.
	Logout(ctx context.Context, id string) error

	// IssueToken mints a short-lived bearer token carrying the session's
	// identity and role, for programmatic access to the data API.
	IssueToken(sess *domain.Session) (string, error)

	// VerifyToken validates a bearer token and reconstructs the principal it
	// carries. Invalid or expired tokens yield domain.ErrNotAuthenticated.
	VerifyToken(token string) (*domain.Session, error)
}
