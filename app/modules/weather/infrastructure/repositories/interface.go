package weatherdb

import (
	"context"

	"github.com/uptrace/bun"
)

// Repository defines the contract for weather persistence.
type Repository interface {
	// GetStates returns the current state of every region.
	GetStates(ctx context.Context, db bun.IDB) ([]State, error)

	// GetState returns one region's state.
	GetState(ctx context.Context, db bun.IDB, region string) (*State, error)

	// UpsertState stores a region's state.
	UpsertState(ctx context.Context, db bun.IDB, state *State) error

	// AppendLog records a tick for a region.
	AppendLog(ctx context.Context, db bun.IDB, log *Log) error

	// RecentLogs returns a region's latest logs, oldest first.
	RecentLogs(ctx context.Context, db bun.IDB, region string, limit int) ([]Log, error)

	// AppendTimeLog records the Malta time of a tick.
	AppendTimeLog(ctx context.Context, db bun.IDB, log *TimeLog) error
}
