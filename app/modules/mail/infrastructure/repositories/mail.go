package maildb

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new mail repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

func (r *Impl) IsForwarded(ctx context.Context, db bun.IDB, key string) (bool, error) {
	db = r.resolveDB(db)
	exists, err := db.NewSelect().
		Model((*Forward)(nil)).
		Where("message_key = ?", key).
		Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check mail forward: %w", err)
	}
	return exists, nil
}

func (r *Impl) RecordForward(ctx context.Context, db bun.IDB, fwd *Forward) (bool, error) {
	db = r.resolveDB(db)
	res, err := db.NewInsert().
		Model(fwd).
		On("CONFLICT (message_key) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to record mail forward: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return n > 0, nil
}
