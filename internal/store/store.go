package store

import (
	"context"

	"github.com/driftlab/driftwatch/internal/models"
)

// Store defines the persistence operations for startups and their
// append-only snapshot history. Consumers should depend on this interface
// rather than the concrete *DB type to facilitate testing with mocks.
type Store interface {
	// EnsureStartup upserts the startup row on first sight.
	EnsureStartup(ctx context.Context, id string) error
	// LatestVersion returns the highest committed version for the startup,
	// or 0 when no snapshot exists.
	LatestVersion(ctx context.Context, id string) (int, error)
	// Latest returns the most recent committed snapshot, or
	// apperr.ErrNotFound when the startup has no history yet.
	Latest(ctx context.Context, id string) (*models.Snapshot, error)
	// Append commits a snapshot. A duplicate (startup_id, version) pair
	// fails with apperr.ErrVersionConflict and writes nothing.
	Append(ctx context.Context, snap models.Snapshot) error
	// History returns all committed snapshots ordered by version ascending.
	History(ctx context.Context, id string) ([]models.Snapshot, error)
	// ListStartups returns all known startups with their latest version.
	ListStartups(ctx context.Context) ([]models.StartupInfo, error)
	Close() error
}

// Verify *DB satisfies Store at compile time.
var _ Store = (*DB)(nil)
