package progressiondb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

var (
	// ErrNotFound is returned when a player is not found.
	ErrNotFound = errors.New("player not found")
	// ErrInsufficientFunds is returned when a debit would take a balance below zero.
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new player repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

// resolveDB returns the provided db handle, falling back to the repository's
// default connection if db is nil.
func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

// GetPlayer retrieves a player by Discord user ID.
func (r *Impl) GetPlayer(ctx context.Context, db bun.IDB, userID string) (*Player, error) {
	db = r.resolveDB(db)
	player := new(Player)
	err := db.NewSelect().
		Model(player).
		Where("user_id = ?", userID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get player: %w", err)
	}
	return player, nil
}

// GetPlayerForUpdate retrieves and locks a player row.
func (r *Impl) GetPlayerForUpdate(ctx context.Context, db bun.IDB, userID string) (*Player, error) {
	db = r.resolveDB(db)
	player := new(Player)
	err := db.NewSelect().
		Model(player).
		Where("user_id = ?", userID).
		For("UPDATE").
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock player: %w", err)
	}
	return player, nil
}

// EnsurePlayer inserts a fresh player if needed, refreshes the username when
// one is given, and returns the locked row.
func (r *Impl) EnsurePlayer(ctx context.Context, db bun.IDB, userID, username string) (*Player, error) {
	db = r.resolveDB(db)
	player := &Player{
		UserID:          userID,
		Username:        username,
		Level:           1,
		DailyMultiplier: 1,
	}
	_, err := db.NewInsert().
		Model(player).
		On("CONFLICT (user_id) DO UPDATE").
		Set("username = COALESCE(NULLIF(EXCLUDED.username, ''), p.username)").
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure player: %w", err)
	}
	return r.GetPlayerForUpdate(ctx, db, userID)
}

// UpdatePlayer writes the progression columns of player.
func (r *Impl) UpdatePlayer(ctx context.Context, db bun.IDB, player *Player) error {
	db = r.resolveDB(db)
	player.UpdatedAt = time.Now().UTC()
	res, err := db.NewUpdate().
		Model(player).
		Column(
			"username", "level", "exp", "total_exp", "retirements", "heirloom_points",
			"daily_multiplier", "last_message_at", "last_daily_at", "last_decay_at",
			"message_count", "updated_at",
		).
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update player: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// AdjustGold moves gold with a single conditional UPDATE so concurrent handlers
// cannot overdraw.
func (r *Impl) AdjustGold(ctx context.Context, db bun.IDB, userID string, delta int64) (int64, error) {
	return r.adjust(ctx, db, "gold", userID, delta)
}

// AdjustHeirloom moves heirloom points the same way.
func (r *Impl) AdjustHeirloom(ctx context.Context, db bun.IDB, userID string, delta int64) (int64, error) {
	return r.adjust(ctx, db, "heirloom_points", userID, delta)
}

func (r *Impl) adjust(ctx context.Context, db bun.IDB, column, userID string, delta int64) (int64, error) {
	db = r.resolveDB(db)
	var balance int64
	err := db.NewUpdate().
		Model((*Player)(nil)).
		Set("? = ? + ?", bun.Ident(column), bun.Ident(column), delta).
		Set("updated_at = ?", time.Now().UTC()).
		Where("user_id = ?", userID).
		Where("? + ? >= 0", bun.Ident(column), delta).
		Returning("?", bun.Ident(column)).
		Scan(ctx, &balance)
	if err == nil {
		return balance, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("failed to adjust %s: %w", column, err)
	}

	exists, err := db.NewSelect().
		Model((*Player)(nil)).
		Where("user_id = ?", userID).
		Exists(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to check player: %w", err)
	}
	if !exists {
		return 0, ErrNotFound
	}
	return 0, ErrInsufficientFunds
}

// Leaderboard returns the top players.
func (r *Impl) Leaderboard(ctx context.Context, db bun.IDB, limit int) ([]Player, error) {
	db = r.resolveDB(db)
	var players []Player
	err := db.NewSelect().
		Model(&players).
		OrderExpr("retirements DESC, level DESC, total_exp DESC, user_id ASC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get leaderboard: %w", err)
	}
	return players, nil
}

// ListDecayCandidates locks idle players whose multiplier is above the floor.
// Rows locked by a concurrent award are skipped and picked up next sweep.
func (r *Impl) ListDecayCandidates(ctx context.Context, db bun.IDB, now time.Time, idle time.Duration) ([]Player, error) {
	db = r.resolveDB(db)
	cutoff := now.Add(-idle)
	var players []Player
	err := db.NewSelect().
		Model(&players).
		Where("daily_multiplier > 1").
		WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("last_message_at IS NULL").WhereOr("last_message_at <= ?", cutoff)
		}).
		WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("last_decay_at IS NULL").WhereOr("last_decay_at <= ?", cutoff)
		}).
		Order("user_id ASC").
		For("UPDATE SKIP LOCKED").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list decay candidates: %w", err)
	}
	return players, nil
}

// SetDailyMultiplier stores a decayed multiplier.
func (r *Impl) SetDailyMultiplier(ctx context.Context, db bun.IDB, userID string, multiplier float64, decayedAt time.Time) error {
	db = r.resolveDB(db)
	_, err := db.NewUpdate().
		Model((*Player)(nil)).
		Set("daily_multiplier = ?", multiplier).
		Set("last_decay_at = ?", decayedAt).
		Set("updated_at = ?", time.Now().UTC()).
		Where("user_id = ?", userID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to set daily multiplier: %w", err)
	}
	return nil
}

// ListPlayers returns every player.
func (r *Impl) ListPlayers(ctx context.Context, db bun.IDB) ([]Player, error) {
	db = r.resolveDB(db)
	var players []Player
	if err := db.NewSelect().Model(&players).Order("user_id ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	return players, nil
}
