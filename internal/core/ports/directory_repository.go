package ports

import (
	"context"

	"github.com/feas-hq/allocation-system/internal/core/domain"
)

// DirectoryRepository persists the periodic snapshot of directory entries so
// reportee and employee-directory lookups do not require a live bind.
type DirectoryRepository interface {
	// Upsert writes or refreshes one snapshot entry, keyed by username.
	Upsert(ctx context.Context, entry domain.Identity) error

	// FindByUsername loads a snapshot entry. A missing entry returns
	// (nil, nil), not an error.
	FindByUsername(ctx context.Context, username string) (*domain.Identity, error)

	// ReporteesOf lists snapshot entries whose manager DN matches.
	ReporteesOf(ctx context.Context, managerDN string) ([]domain.Reportee, error)

	// Search matches entries by name, username or mail prefix.
	Search(ctx context.Context, query string, limit int) ([]domain.Identity, error)

	// Count returns the number of snapshot entries.
	Count(ctx context.Context) (int64, error)
}
