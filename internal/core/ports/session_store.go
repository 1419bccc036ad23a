package ports

import (
	"context"

	"github.com/feas-hq/allocation-system/internal/core/domain"
)

// SessionStore persists authenticated sessions in an external key/value
// store. Saving is atomic per key: a session is either fully written or
// absent, never partial. Get returns domain.ErrSessionNotFound for missing
// or expired entries.
type SessionStore interface {
	Save(ctx context.Context, sess domain.Session) error
	Get(ctx context.Context, id string) (domain.Session, error)
	Delete(ctx context.Context, id string) error
}
