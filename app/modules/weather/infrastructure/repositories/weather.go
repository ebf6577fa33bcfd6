package weatherdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"

	"github.com/uptrace/bun"
)

// ErrNotFound is returned when a region has no stored state.
var ErrNotFound = errors.New("weather state not found")

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new weather repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

func (r *Impl) GetStates(ctx context.Context, db bun.IDB) ([]State, error) {
	db = r.resolveDB(db)
	var out []State
	if err := db.NewSelect().Model(&out).Order("region ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to list weather states: %w", err)
	}
	return out, nil
}

func (r *Impl) GetState(ctx context.Context, db bun.IDB, region string) (*State, error) {
	db = r.resolveDB(db)
	state := new(State)
	err := db.NewSelect().
		Model(state).
		Where("region = ?", region).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get weather state: %w", err)
	}
	return state, nil
}

// UpsertState replaces the region's row.
func (r *Impl) UpsertState(ctx context.Context, db bun.IDB, state *State) error {
	db = r.resolveDB(db)
	_, err := db.NewInsert().
		Model(state).
		On("CONFLICT (region) DO UPDATE").
		Set("condition = EXCLUDED.condition").
		Set("temperature = EXCLUDED.temperature").
		Set("cloud_cover = EXCLUDED.cloud_cover").
		Set("wind_speed = EXCLUDED.wind_speed").
		Set("narrative = EXCLUDED.narrative").
		Set("malta_minutes = EXCLUDED.malta_minutes").
		Set("updated_at = NOW()").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to upsert weather state: %w", err)
	}
	return nil
}

func (r *Impl) AppendLog(ctx context.Context, db bun.IDB, log *Log) error {
	db = r.resolveDB(db)
	if _, err := db.NewInsert().Model(log).Exec(ctx); err != nil {
		return fmt.Errorf("failed to append weather log: %w", err)
	}
	return nil
}

// RecentLogs selects newest first and reverses for charting.
func (r *Impl) RecentLogs(ctx context.Context, db bun.IDB, region string, limit int) ([]Log, error) {
	db = r.resolveDB(db)
	var out []Log
	err := db.NewSelect().
		Model(&out).
		Where("region = ?", region).
		Order("id DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list weather logs: %w", err)
	}
	slices.Reverse(out)
	return out, nil
}

func (r *Impl) AppendTimeLog(ctx context.Context, db bun.IDB, log *TimeLog) error {
	db = r.resolveDB(db)
	if _, err := db.NewInsert().Model(log).Exec(ctx); err != nil {
		return fmt.Errorf("failed to append malta time log: %w", err)
	}
	return nil
}
