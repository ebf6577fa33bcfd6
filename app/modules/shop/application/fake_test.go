package shopservice

import (
	"context"
	"sort"

	progressionservice "github.com/Black-And-White-Club/malta-bot/app/modules/progression/application"
	progressiondb "github.com/Black-And-White-Club/malta-bot/app/modules/progression/infrastructure/repositories"
	shopdb "github.com/Black-And-White-Club/malta-bot/app/modules/shop/infrastructure/repositories"
	"github.com/uptrace/bun"
)

// ------------------------
// Fake Inventory Repo
// ------------------------

// FakeInventoryRepo keeps one player's holdings keyed by item ID.
type FakeInventoryRepo struct {
	trace []string
	Items map[string]int

	AddItemFunc func(ctx context.Context, db bun.IDB, userID, itemID string, quantity int) (int, error)
}

func NewFakeInventoryRepo() *FakeInventoryRepo {
	return &FakeInventoryRepo{trace: []string{}, Items: map[string]int{}}
}

func (f *FakeInventoryRepo) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeInventoryRepo) ListInventory(_ context.Context, _ bun.IDB, userID string) ([]shopdb.InventoryItem, error) {
	f.record("ListInventory")
	out := []shopdb.InventoryItem{}
	for id, q := range f.Items {
		out = append(out, shopdb.InventoryItem{UserID: userID, ItemID: id, Quantity: q})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ItemID < out[j].ItemID })
	return out, nil
}

func (f *FakeInventoryRepo) GetItem(_ context.Context, _ bun.IDB, userID, itemID string) (*shopdb.InventoryItem, error) {
	f.record("GetItem")
	q, ok := f.Items[itemID]
	if !ok {
		return nil, shopdb.ErrNotFound
	}
	return &shopdb.InventoryItem{UserID: userID, ItemID: itemID, Quantity: q}, nil
}

func (f *FakeInventoryRepo) AddItem(ctx context.Context, db bun.IDB, userID, itemID string, quantity int) (int, error) {
	f.record("AddItem")
	if f.AddItemFunc != nil {
		return f.AddItemFunc(ctx, db, userID, itemID, quantity)
	}
	f.Items[itemID] += quantity
	return f.Items[itemID], nil
}

func (f *FakeInventoryRepo) RemoveItem(_ context.Context, _ bun.IDB, _ string, itemID string, quantity int) (int, error) {
	f.record("RemoveItem")
	if f.Items[itemID] < quantity {
		return 0, shopdb.ErrNotEnoughItems
	}
	f.Items[itemID] -= quantity
	left := f.Items[itemID]
	if left == 0 {
		delete(f.Items, itemID)
	}
	return left, nil
}

func (f *FakeInventoryRepo) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

var _ shopdb.Repository = (*FakeInventoryRepo)(nil)

// ------------------------
// Fake Wallet
// ------------------------

type FakeWallet struct {
	Gold     map[string]int64
	Heirloom map[string]int64
}

func NewFakeWallet() *FakeWallet {
	return &FakeWallet{Gold: map[string]int64{}, Heirloom: map[string]int64{}}
}

func (f *FakeWallet) GetPlayer(_ context.Context, _ bun.IDB, userID string) (*progressiondb.Player, error) {
	gold, ok := f.Gold[userID]
	if !ok {
		return nil, progressiondb.ErrNotFound
	}
	return &progressiondb.Player{UserID: userID, Level: 1, Gold: gold, HeirloomPoints: f.Heirloom[userID], DailyMultiplier: 1}, nil
}

func (f *FakeWallet) AdjustGold(_ context.Context, _ bun.IDB, userID string, delta int64) (int64, error) {
	return f.adjust(f.Gold, userID, delta)
}

func (f *FakeWallet) AdjustHeirloom(_ context.Context, _ bun.IDB, userID string, delta int64) (int64, error) {
	return f.adjust(f.Heirloom, userID, delta)
}

func (f *FakeWallet) adjust(balances map[string]int64, userID string, delta int64) (int64, error) {
	if _, ok := f.Gold[userID]; !ok {
		return 0, progressiondb.ErrNotFound
	}
	if balances[userID]+delta < 0 {
		return 0, progressiondb.ErrInsufficientFunds
	}
	balances[userID] += delta
	return balances[userID], nil
}

var _ progressiondb.Wallet = (*FakeWallet)(nil)

// ------------------------
// Fake Effects
// ------------------------

type FakeEffects struct {
	trace []string

	GrantExpFunc   func(ctx context.Context, db bun.IDB, userID string, exp int64) (*progressionservice.LevelUp, error)
	BoostDailyFunc func(ctx context.Context, db bun.IDB, userID string, delta float64) (float64, error)
}

func (f *FakeEffects) GrantExp(ctx context.Context, db bun.IDB, userID string, exp int64) (*progressionservice.LevelUp, error) {
	f.trace = append(f.trace, "GrantExp")
	if f.GrantExpFunc != nil {
		return f.GrantExpFunc(ctx, db, userID, exp)
	}
	return &progressionservice.LevelUp{UserID: userID, OldLevel: 1, NewLevel: 1}, nil
}

func (f *FakeEffects) BoostDaily(ctx context.Context, db bun.IDB, userID string, delta float64) (float64, error) {
	f.trace = append(f.trace, "BoostDaily")
	if f.BoostDailyFunc != nil {
		return f.BoostDailyFunc(ctx, db, userID, delta)
	}
	return 1 + delta, nil
}

var _ progressionservice.Effects = (*FakeEffects)(nil)
