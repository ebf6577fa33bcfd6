package gamblingdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

// ErrNotFound is returned when a player has no gambling record.
var ErrNotFound = errors.New("gambling stats not found")

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new gambling stats repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

// GetStats retrieves a player's record.
func (r *Impl) GetStats(ctx context.Context, db bun.IDB, userID string) (*Stats, error) {
	db = r.resolveDB(db)
	stats := new(Stats)
	err := db.NewSelect().
		Model(stats).
		Where("user_id = ?", userID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get gambling stats: %w", err)
	}
	return stats, nil
}

// EnsureStatsForUpdate creates an empty record if missing and returns it locked.
func (r *Impl) EnsureStatsForUpdate(ctx context.Context, db bun.IDB, userID string) (*Stats, error) {
	db = r.resolveDB(db)
	_, err := db.NewInsert().
		Model(&Stats{UserID: userID}).
		On("CONFLICT (user_id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure gambling stats: %w", err)
	}

	stats := new(Stats)
	err = db.NewSelect().
		Model(stats).
		Where("user_id = ?", userID).
		For("UPDATE").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to lock gambling stats: %w", err)
	}
	return stats, nil
}

// SaveStats writes every counter of stats.
func (r *Impl) SaveStats(ctx context.Context, db bun.IDB, stats *Stats) error {
	db = r.resolveDB(db)
	stats.UpdatedAt = time.Now().UTC()
	_, err := db.NewUpdate().
		Model(stats).
		ExcludeColumn("user_id", "created_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to save gambling stats: %w", err)
	}
	return nil
}

// TopByNetWinnings returns the biggest winners.
func (r *Impl) TopByNetWinnings(ctx context.Context, db bun.IDB, limit int) ([]Stats, error) {
	db = r.resolveDB(db)
	var out []Stats
	err := db.NewSelect().
		Model(&out).
		Where("games_played > 0").
		OrderExpr("net_winnings DESC, games_played DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list gambling stats: %w", err)
	}
	return out, nil
}
