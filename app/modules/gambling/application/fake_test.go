package gamblingservice

import (
	"context"

	gamblingdb "github.com/Black-And-White-Club/malta-bot/app/modules/gambling/infrastructure/repositories"
	progressiondb "github.com/Black-And-White-Club/malta-bot/app/modules/progression/infrastructure/repositories"
	"github.com/uptrace/bun"
)

// ------------------------
// Fake Stats Repo
// ------------------------

type FakeStatsRepo struct {
	trace []string

	GetStatsFunc             func(ctx context.Context, db bun.IDB, userID string) (*gamblingdb.Stats, error)
	EnsureStatsForUpdateFunc func(ctx context.Context, db bun.IDB, userID string) (*gamblingdb.Stats, error)
	SaveStatsFunc            func(ctx context.Context, db bun.IDB, stats *gamblingdb.Stats) error
	TopByNetWinningsFunc     func(ctx context.Context, db bun.IDB, limit int) ([]gamblingdb.Stats, error)
}

func NewFakeStatsRepo() *FakeStatsRepo {
	return &FakeStatsRepo{trace: []string{}}
}

func (f *FakeStatsRepo) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeStatsRepo) GetStats(ctx context.Context, db bun.IDB, userID string) (*gamblingdb.Stats, error) {
	f.record("GetStats")
	if f.GetStatsFunc != nil {
		return f.GetStatsFunc(ctx, db, userID)
	}
	return nil, gamblingdb.ErrNotFound
}

func (f *FakeStatsRepo) EnsureStatsForUpdate(ctx context.Context, db bun.IDB, userID string) (*gamblingdb.Stats, error) {
	f.record("EnsureStatsForUpdate")
	if f.EnsureStatsForUpdateFunc != nil {
		return f.EnsureStatsForUpdateFunc(ctx, db, userID)
	}
	return &gamblingdb.Stats{UserID: userID}, nil
}

func (f *FakeStatsRepo) SaveStats(ctx context.Context, db bun.IDB, stats *gamblingdb.Stats) error {
	f.record("SaveStats")
	if f.SaveStatsFunc != nil {
		return f.SaveStatsFunc(ctx, db, stats)
	}
	return nil
}

func (f *FakeStatsRepo) TopByNetWinnings(ctx context.Context, db bun.IDB, limit int) ([]gamblingdb.Stats, error) {
	f.record("TopByNetWinnings")
	if f.TopByNetWinningsFunc != nil {
		return f.TopByNetWinningsFunc(ctx, db, limit)
	}
	return nil, nil
}

func (f *FakeStatsRepo) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

var _ gamblingdb.Repository = (*FakeStatsRepo)(nil)

// ------------------------
// Fake Wallet
// ------------------------

// FakeWallet keeps balances in memory and refuses overdrafts like the real store.
type FakeWallet struct {
	trace    []string
	Gold     map[string]int64
	Heirloom map[string]int64
	Err      error
}

func NewFakeWallet() *FakeWallet {
	return &FakeWallet{trace: []string{}, Gold: map[string]int64{}, Heirloom: map[string]int64{}}
}

func (f *FakeWallet) GetPlayer(_ context.Context, _ bun.IDB, userID string) (*progressiondb.Player, error) {
	f.trace = append(f.trace, "GetPlayer")
	gold, ok := f.Gold[userID]
	if !ok {
		return nil, progressiondb.ErrNotFound
	}
	return &progressiondb.Player{UserID: userID, Level: 1, Gold: gold, HeirloomPoints: f.Heirloom[userID], DailyMultiplier: 1}, nil
}

func (f *FakeWallet) AdjustGold(_ context.Context, _ bun.IDB, userID string, delta int64) (int64, error) {
	f.trace = append(f.trace, "AdjustGold")
	return f.adjust(f.Gold, userID, delta)
}

func (f *FakeWallet) AdjustHeirloom(_ context.Context, _ bun.IDB, userID string, delta int64) (int64, error) {
	f.trace = append(f.trace, "AdjustHeirloom")
	return f.adjust(f.Heirloom, userID, delta)
}

func (f *FakeWallet) adjust(balances map[string]int64, userID string, delta int64) (int64, error) {
	if f.Err != nil {
		return 0, f.Err
	}
	if _, ok := f.Gold[userID]; !ok {
		return 0, progressiondb.ErrNotFound
	}
	if balances[userID]+delta < 0 {
		return 0, progressiondb.ErrInsufficientFunds
	}
	balances[userID] += delta
	return balances[userID], nil
}

func (f *FakeWallet) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

var _ progressiondb.Wallet = (*FakeWallet)(nil)
