package maildb

import (
	"context"

	"github.com/uptrace/bun"
)

// Repository persists which emails were forwarded.
type Repository interface {
	IsForwarded(ctx context.Context, db bun.IDB, key string) (bool, error)
	// RecordForward reports false when the key was already present.
	RecordForward(ctx context.Context, db bun.IDB, fwd *Forward) (bool, error)
}
