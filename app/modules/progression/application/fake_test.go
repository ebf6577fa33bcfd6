package progressionservice

import (
	"context"
	"time"

	progressiondb "github.com/Black-And-White-Club/malta-bot/app/modules/progression/infrastructure/repositories"
	"github.com/uptrace/bun"
)

// ------------------------
// Fake Player Repo
// ------------------------

type FakePlayerRepo struct {
	trace []string

	GetPlayerFunc           func(ctx context.Context, db bun.IDB, userID string) (*progressiondb.Player, error)
	AdjustGoldFunc          func(ctx context.Context, db bun.IDB, userID string, delta int64) (int64, error)
	AdjustHeirloomFunc      func(ctx context.Context, db bun.IDB, userID string, delta int64) (int64, error)
	GetPlayerForUpdateFunc  func(ctx context.Context, db bun.IDB, userID string) (*progressiondb.Player, error)
	EnsurePlayerFunc        func(ctx context.Context, db bun.IDB, userID, username string) (*progressiondb.Player, error)
	UpdatePlayerFunc        func(ctx context.Context, db bun.IDB, player *progressiondb.Player) error
	LeaderboardFunc         func(ctx context.Context, db bun.IDB, limit int) ([]progressiondb.Player, error)
	ListDecayCandidatesFunc func(ctx context.Context, db bun.IDB, now time.Time, idle time.Duration) ([]progressiondb.Player, error)
	SetDailyMultiplierFunc  func(ctx context.Context, db bun.IDB, userID string, multiplier float64, decayedAt time.Time) error
	ListPlayersFunc         func(ctx context.Context, db bun.IDB) ([]progressiondb.Player, error)
}

func NewFakePlayerRepo() *FakePlayerRepo {
	return &FakePlayerRepo{
		trace: []string{},
	}
}

func (f *FakePlayerRepo) record(step string) {
	f.trace = append(f.trace, step)
}

// --- Repository Interface Implementation ---

func (f *FakePlayerRepo) GetPlayer(ctx context.Context, db bun.IDB, userID string) (*progressiondb.Player, error) {
	f.record("GetPlayer")
	if f.GetPlayerFunc != nil {
		return f.GetPlayerFunc(ctx, db, userID)
	}
	return nil, progressiondb.ErrNotFound
}

func (f *FakePlayerRepo) AdjustGold(ctx context.Context, db bun.IDB, userID string, delta int64) (int64, error) {
	f.record("AdjustGold")
	if f.AdjustGoldFunc != nil {
		return f.AdjustGoldFunc(ctx, db, userID, delta)
	}
	return delta, nil
}

func (f *FakePlayerRepo) AdjustHeirloom(ctx context.Context, db bun.IDB, userID string, delta int64) (int64, error) {
	f.record("AdjustHeirloom")
	if f.AdjustHeirloomFunc != nil {
		return f.AdjustHeirloomFunc(ctx, db, userID, delta)
	}
	return delta, nil
}

func (f *FakePlayerRepo) GetPlayerForUpdate(ctx context.Context, db bun.IDB, userID string) (*progressiondb.Player, error) {
	f.record("GetPlayerForUpdate")
	if f.GetPlayerForUpdateFunc != nil {
		return f.GetPlayerForUpdateFunc(ctx, db, userID)
	}
	return nil, progressiondb.ErrNotFound
}

func (f *FakePlayerRepo) EnsurePlayer(ctx context.Context, db bun.IDB, userID, username string) (*progressiondb.Player, error) {
	f.record("EnsurePlayer")
	if f.EnsurePlayerFunc != nil {
		return f.EnsurePlayerFunc(ctx, db, userID, username)
	}
	return &progressiondb.Player{UserID: userID, Username: username, Level: 1, DailyMultiplier: 1}, nil
}

func (f *FakePlayerRepo) UpdatePlayer(ctx context.Context, db bun.IDB, player *progressiondb.Player) error {
	f.record("UpdatePlayer")
	if f.UpdatePlayerFunc != nil {
		return f.UpdatePlayerFunc(ctx, db, player)
	}
	return nil
}

func (f *FakePlayerRepo) Leaderboard(ctx context.Context, db bun.IDB, limit int) ([]progressiondb.Player, error) {
	f.record("Leaderboard")
	if f.LeaderboardFunc != nil {
		return f.LeaderboardFunc(ctx, db, limit)
	}
	return nil, nil
}

func (f *FakePlayerRepo) ListDecayCandidates(ctx context.Context, db bun.IDB, now time.Time, idle time.Duration) ([]progressiondb.Player, error) {
	f.record("ListDecayCandidates")
	if f.ListDecayCandidatesFunc != nil {
		return f.ListDecayCandidatesFunc(ctx, db, now, idle)
	}
	return nil, nil
}

func (f *FakePlayerRepo) SetDailyMultiplier(ctx context.Context, db bun.IDB, userID string, multiplier float64, decayedAt time.Time) error {
	f.record("SetDailyMultiplier")
	if f.SetDailyMultiplierFunc != nil {
		return f.SetDailyMultiplierFunc(ctx, db, userID, multiplier, decayedAt)
	}
	return nil
}

func (f *FakePlayerRepo) ListPlayers(ctx context.Context, db bun.IDB) ([]progressiondb.Player, error) {
	f.record("ListPlayers")
	if f.ListPlayersFunc != nil {
		return f.ListPlayersFunc(ctx, db)
	}
	return nil, nil
}

// --- Accessors for assertions ---

func (f *FakePlayerRepo) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

// Ensure the fake actually satisfies the interface
var _ progressiondb.Repository = (*FakePlayerRepo)(nil)
