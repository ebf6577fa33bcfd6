package shopdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

var (
	// ErrNotFound is returned when a player does not hold an item.
	ErrNotFound = errors.New("inventory item not found")
	// ErrNotEnoughItems is returned when removing more than is held.
	ErrNotEnoughItems = errors.New("not enough items")
)

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new inventory repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

// ListInventory returns every holding of userID.
func (r *Impl) ListInventory(ctx context.Context, db bun.IDB, userID string) ([]InventoryItem, error) {
	db = r.resolveDB(db)
	var out []InventoryItem
	err := db.NewSelect().
		Model(&out).
		Where("user_id = ?", userID).
		Where("quantity > 0").
		Order("item_id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory: %w", err)
	}
	return out, nil
}

// GetItem retrieves one holding.
func (r *Impl) GetItem(ctx context.Context, db bun.IDB, userID, itemID string) (*InventoryItem, error) {
	db = r.resolveDB(db)
	item := new(InventoryItem)
	err := db.NewSelect().
		Model(item).
		Where("user_id = ?", userID).
		Where("item_id = ?", itemID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get inventory item: %w", err)
	}
	return item, nil
}

// AddItem inserts or tops up a holding.
func (r *Impl) AddItem(ctx context.Context, db bun.IDB, userID, itemID string, quantity int) (int, error) {
	db = r.resolveDB(db)
	var total int
	err := db.NewInsert().
		Model(&InventoryItem{UserID: userID, ItemID: itemID, Quantity: quantity}).
		On("CONFLICT (user_id, item_id) DO UPDATE").
		Set("quantity = inv.quantity + EXCLUDED.quantity").
		Set("updated_at = NOW()").
		Returning("quantity").
		Scan(ctx, &total)
	if err != nil {
		return 0, fmt.Errorf("failed to add inventory item: %w", err)
	}
	return total, nil
}

// RemoveItem locks the holding before decrementing it.
func (r *Impl) RemoveItem(ctx context.Context, db bun.IDB, userID, itemID string, quantity int) (int, error) {
	db = r.resolveDB(db)
	item := new(InventoryItem)
	err := db.NewSelect().
		Model(item).
		Where("user_id = ?", userID).
		Where("item_id = ?", itemID).
		For("UPDATE").
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrNotEnoughItems
		}
		return 0, fmt.Errorf("failed to lock inventory item: %w", err)
	}
	if item.Quantity < quantity {
		return 0, ErrNotEnoughItems
	}

	left := item.Quantity - quantity
	if left == 0 {
		_, err = db.NewDelete().
			Model(item).
			WherePK().
			Exec(ctx)
		if err != nil {
			return 0, fmt.Errorf("failed to delete inventory item: %w", err)
		}
		return 0, nil
	}

	item.Quantity = left
	item.UpdatedAt = time.Now().UTC()
	_, err = db.NewUpdate().
		Model(item).
		Column("quantity", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to remove inventory item: %w", err)
	}
	return left, nil
}
