package gamblingdb

import (
	"context"

	"github.com/uptrace/bun"
)

// Repository defines the contract for gambling stats persistence.
type Repository interface {
	// GetStats retrieves a player's record.
	GetStats(ctx context.Context, db bun.IDB, userID string) (*Stats, error)

	// EnsureStatsForUpdate creates an empty record if missing and returns it locked.
	EnsureStatsForUpdate(ctx context.Context, db bun.IDB, userID string) (*Stats, error)

	// SaveStats writes every counter of stats.
	SaveStats(ctx context.Context, db bun.IDB, stats *Stats) error

	// TopByNetWinnings returns the biggest winners.
	TopByNetWinnings(ctx context.Context, db bun.IDB, limit int) ([]Stats, error)
}
