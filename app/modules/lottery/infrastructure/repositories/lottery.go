package lotterydb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	lotterydomain "github.com/Black-And-White-Club/malta-bot/app/modules/lottery/domain"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ErrNotFound is returned when a round or entry does not exist.
var ErrNotFound = errors.New("lottery record not found")

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new lottery repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

// OpenRoundForUpdate lazily creates the open round. The partial unique index on
// status makes concurrent creators collapse onto one row.
func (r *Impl) OpenRoundForUpdate(ctx context.Context, db bun.IDB) (*Round, error) {
	db = r.resolveDB(db)
	_, err := db.NewInsert().
		Model(&Round{ID: uuid.New(), Status: lotterydomain.StatusOpen}).
		On("CONFLICT (status) WHERE status = 'open' DO NOTHING").
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure open round: %w", err)
	}

	round := new(Round)
	err = db.NewSelect().
		Model(round).
		Where("status = ?", lotterydomain.StatusOpen).
		For("UPDATE").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to lock open round: %w", err)
	}
	return round, nil
}

// GetOpenRound retrieves the open round.
func (r *Impl) GetOpenRound(ctx context.Context, db bun.IDB) (*Round, error) {
	db = r.resolveDB(db)
	round := new(Round)
	err := db.NewSelect().
		Model(round).
		Where("status = ?", lotterydomain.StatusOpen).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get open round: %w", err)
	}
	return round, nil
}

// CreateRound inserts a new open round.
func (r *Impl) CreateRound(ctx context.Context, db bun.IDB, seedPot int64) (*Round, error) {
	db = r.resolveDB(db)
	round := &Round{
		ID:       uuid.New(),
		Status:   lotterydomain.StatusOpen,
		SeedPot:  seedPot,
		Pot:      seedPot,
		OpenedAt: time.Now().UTC(),
	}
	if _, err := db.NewInsert().Model(round).Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to create round: %w", err)
	}
	return round, nil
}

// CloseRound writes status, winner, pot and draw time.
func (r *Impl) CloseRound(ctx context.Context, db bun.IDB, round *Round) error {
	db = r.resolveDB(db)
	_, err := db.NewUpdate().
		Model(round).
		Column("status", "winner_user_id", "pot", "total_tickets", "drawn_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to close round: %w", err)
	}
	return nil
}

// GetEntry retrieves one entry.
func (r *Impl) GetEntry(ctx context.Context, db bun.IDB, roundID uuid.UUID, userID string) (*Entry, error) {
	db = r.resolveDB(db)
	entry := new(Entry)
	err := db.NewSelect().
		Model(entry).
		Where("round_id = ?", roundID).
		Where("user_id = ?", userID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get entry: %w", err)
	}
	return entry, nil
}

// AddTickets inserts or tops up an entry.
func (r *Impl) AddTickets(ctx context.Context, db bun.IDB, roundID uuid.UUID, userID string, n int) (int, error) {
	db = r.resolveDB(db)
	entry := &Entry{RoundID: roundID, UserID: userID, Tickets: n}
	err := db.NewInsert().
		Model(entry).
		On("CONFLICT (round_id, user_id) DO UPDATE").
		Set("tickets = le.tickets + EXCLUDED.tickets").
		Set("updated_at = NOW()").
		Returning("tickets").
		Scan(ctx, &entry.Tickets)
	if err != nil {
		return 0, fmt.Errorf("failed to add tickets: %w", err)
	}
	return entry.Tickets, nil
}

// IncrementTickets bumps the round total.
func (r *Impl) IncrementTickets(ctx context.Context, db bun.IDB, roundID uuid.UUID, n int) error {
	db = r.resolveDB(db)
	_, err := db.NewUpdate().
		Model((*Round)(nil)).
		Set("total_tickets = total_tickets + ?", n).
		Where("id = ?", roundID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to increment round tickets: %w", err)
	}
	return nil
}

// ListEntries returns every entry of a round.
func (r *Impl) ListEntries(ctx context.Context, db bun.IDB, roundID uuid.UUID) ([]Entry, error) {
	db = r.resolveDB(db)
	var out []Entry
	err := db.NewSelect().
		Model(&out).
		Where("round_id = ?", roundID).
		Order("user_id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	return out, nil
}

// History lists drawn rounds, newest first.
func (r *Impl) History(ctx context.Context, db bun.IDB, limit int) ([]Round, error) {
	db = r.resolveDB(db)
	var out []Round
	err := db.NewSelect().
		Model(&out).
		Where("status = ?", lotterydomain.StatusDrawn).
		Order("drawn_at DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list lottery history: %w", err)
	}
	return out, nil
}
