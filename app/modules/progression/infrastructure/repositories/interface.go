package progressiondb

import (
	"context"
	"time"

	"github.com/uptrace/bun"
)

// Wallet is the part of the player store other modules move currency through.
type Wallet interface {
	// GetPlayer retrieves a player by Discord user ID.
	GetPlayer(ctx context.Context, db bun.IDB, userID string) (*Player, error)

	// AdjustGold atomically adds delta (which may be negative) and returns the new
	// balance. Returns ErrInsufficientFunds instead of going below zero.
	AdjustGold(ctx context.Context, db bun.IDB, userID string, delta int64) (int64, error)

	// AdjustHeirloom is AdjustGold for heirloom points.
	AdjustHeirloom(ctx context.Context, db bun.IDB, userID string, delta int64) (int64, error)
}

// Repository defines the contract for player persistence.
type Repository interface {
	Wallet

	// GetPlayerForUpdate locks the player row for the rest of the transaction.
	GetPlayerForUpdate(ctx context.Context, db bun.IDB, userID string) (*Player, error)

	// EnsurePlayer creates the player if missing and returns the locked row.
	EnsurePlayer(ctx context.Context, db bun.IDB, userID, username string) (*Player, error)

	// UpdatePlayer writes the progression columns of player.
	UpdatePlayer(ctx context.Context, db bun.IDB, player *Player) error

	// Leaderboard returns players ordered by retirements, level, then total EXP.
	Leaderboard(ctx context.Context, db bun.IDB, limit int) ([]Player, error)

	// ListDecayCandidates locks players whose daily multiplier may decay at now.
	ListDecayCandidates(ctx context.Context, db bun.IDB, now time.Time, idle time.Duration) ([]Player, error)

	// SetDailyMultiplier stores a decayed multiplier and the decay time.
	SetDailyMultiplier(ctx context.Context, db bun.IDB, userID string, multiplier float64, decayedAt time.Time) error

	// ListPlayers returns every player ordered by user ID.
	ListPlayers(ctx context.Context, db bun.IDB) ([]Player, error)
}
