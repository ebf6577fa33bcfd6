package lotterydb

import (
	"context"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Repository defines the contract for lottery persistence.
type Repository interface {
	// OpenRoundForUpdate returns the open round, creating it if needed, locked
	// for the rest of the transaction.
	OpenRoundForUpdate(ctx context.Context, db bun.IDB) (*Round, error)

	// GetOpenRound returns the open round without creating one.
	GetOpenRound(ctx context.Context, db bun.IDB) (*Round, error)

	// CreateRound opens a new round seeded with seedPot.
	CreateRound(ctx context.Context, db bun.IDB, seedPot int64) (*Round, error)

	// CloseRound stores the outcome of a drawn round.
	CloseRound(ctx context.Context, db bun.IDB, round *Round) error

	// GetEntry returns a player's entry in a round.
	GetEntry(ctx context.Context, db bun.IDB, roundID uuid.UUID, userID string) (*Entry, error)

	// AddTickets upserts the entry and returns the player's new ticket count.
	AddTickets(ctx context.Context, db bun.IDB, roundID uuid.UUID, userID string, n int) (int, error)

	// IncrementTickets adds n to the round's total.
	IncrementTickets(ctx context.Context, db bun.IDB, roundID uuid.UUID, n int) error

	// ListEntries returns a round's entries ordered by user ID.
	ListEntries(ctx context.Context, db bun.IDB, roundID uuid.UUID) ([]Entry, error)

	// History returns the most recently drawn rounds.
	History(ctx context.Context, db bun.IDB, limit int) ([]Round, error)
}
