package ports

import (
	"context"

	"github.com/feas-hq/allocation-system/internal/core/domain"
)

// DirectoryClient talks to the external LDAP/AD directory. Implementations
// open one connection per call and release it on every exit path; failures
// are converted to the domain auth sentinels, never surfaced raw.
type DirectoryClient interface {
	// Authenticate binds with the user's own credentials and returns the
	// directory attributes for the bound entry. Returns
	// domain.ErrInvalidCredentials, domain.ErrDirectoryUnavailable or
	// domain.ErrDirectoryTimeout on failure.
	Authenticate(ctx context.Context, username, password string) (*domain.Identity, error)

	// Reportees returns the direct reports of the entry identified by
	// managerDN, using the configured service credential.
	Reportees(ctx context.Context, managerDN string) ([]domain.Reportee, error)

	// Browse walks the configured user subtree with the service credential,
	// streaming entries to fn. Used by the directory sync.
	Browse(ctx context.Context, fn func(domain.Identity) error) error
}
