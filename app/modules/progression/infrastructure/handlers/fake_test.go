package progressionhandlers

import (
	"context"
	"time"

	progressionservice "github.com/Black-And-White-Club/malta-bot/app/modules/progression/application"
	progressiondb "github.com/Black-And-White-Club/malta-bot/app/modules/progression/infrastructure/repositories"
	"github.com/uptrace/bun"
)

// ------------------------
// Fake Progression Service
// ------------------------

type FakeProgressionService struct {
	trace []string

	AwardMessageFunc     func(ctx context.Context, msg progressionservice.MessageInput) (progressionservice.AwardResult, error)
	GetStatsFunc         func(ctx context.Context, userID string) (progressionservice.PlayerStats, error)
	RetireFunc           func(ctx context.Context, userID string, confirm bool) (progressionservice.RetireResult, error)
	LeaderboardFunc      func(ctx context.Context, limit int) ([]progressionservice.LeaderboardEntry, error)
	DecayMultipliersFunc func(ctx context.Context) (int, error)
	AdjustGoldFunc       func(ctx context.Context, userID string, delta int64) (int64, error)
	ListPlayersFunc      func(ctx context.Context) ([]progressiondb.Player, error)
	GrantExpFunc         func(ctx context.Context, db bun.IDB, userID string, exp int64) (*progressionservice.LevelUp, error)
	BoostDailyFunc       func(ctx context.Context, db bun.IDB, userID string, delta float64) (float64, error)
}

func NewFakeProgressionService() *FakeProgressionService {
	return &FakeProgressionService{
		trace: []string{},
	}
}

func (f *FakeProgressionService) record(step string) {
	f.trace = append(f.trace, step)
}

// --- Service Interface Implementation ---

func (f *FakeProgressionService) AwardMessage(ctx context.Context, msg progressionservice.MessageInput) (progressionservice.AwardResult, error) {
	f.record("AwardMessage")
	if f.AwardMessageFunc != nil {
		return f.AwardMessageFunc(ctx, msg)
	}
	return progressionservice.AwardResult{}, nil
}

func (f *FakeProgressionService) GetStats(ctx context.Context, userID string) (progressionservice.PlayerStats, error) {
	f.record("GetStats")
	if f.GetStatsFunc != nil {
		return f.GetStatsFunc(ctx, userID)
	}
	return progressionservice.PlayerStats{}, progressiondb.ErrNotFound
}

func (f *FakeProgressionService) Retire(ctx context.Context, userID string, confirm bool) (progressionservice.RetireResult, error) {
	f.record("Retire")
	if f.RetireFunc != nil {
		return f.RetireFunc(ctx, userID, confirm)
	}
	return progressionservice.RetireResult{}, nil
}

func (f *FakeProgressionService) Leaderboard(ctx context.Context, limit int) ([]progressionservice.LeaderboardEntry, error) {
	f.record("Leaderboard")
	if f.LeaderboardFunc != nil {
		return f.LeaderboardFunc(ctx, limit)
	}
	return nil, nil
}

func (f *FakeProgressionService) DecayMultipliers(ctx context.Context) (int, error) {
	f.record("DecayMultipliers")
	if f.DecayMultipliersFunc != nil {
		return f.DecayMultipliersFunc(ctx)
	}
	return 0, nil
}

func (f *FakeProgressionService) HappyHourStatus(now time.Time) progressionservice.HappyHourStatus {
	f.record("HappyHourStatus")
	return progressionservice.HappyHourStatus{NextStart: now.Add(time.Hour)}
}

func (f *FakeProgressionService) AdjustGold(ctx context.Context, userID string, delta int64) (int64, error) {
	f.record("AdjustGold")
	if f.AdjustGoldFunc != nil {
		return f.AdjustGoldFunc(ctx, userID, delta)
	}
	return delta, nil
}

func (f *FakeProgressionService) ListPlayers(ctx context.Context) ([]progressiondb.Player, error) {
	f.record("ListPlayers")
	if f.ListPlayersFunc != nil {
		return f.ListPlayersFunc(ctx)
	}
	return nil, nil
}

func (f *FakeProgressionService) GrantExp(ctx context.Context, db bun.IDB, userID string, exp int64) (*progressionservice.LevelUp, error) {
	f.record("GrantExp")
	if f.GrantExpFunc != nil {
		return f.GrantExpFunc(ctx, db, userID, exp)
	}
	return &progressionservice.LevelUp{UserID: userID}, nil
}

func (f *FakeProgressionService) BoostDaily(ctx context.Context, db bun.IDB, userID string, delta float64) (float64, error) {
	f.record("BoostDaily")
	if f.BoostDailyFunc != nil {
		return f.BoostDailyFunc(ctx, db, userID, delta)
	}
	return 1 + delta, nil
}

// --- Accessors for assertions ---

func (f *FakeProgressionService) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

// Ensure the fake actually satisfies the interface
var _ progressionservice.Service = (*FakeProgressionService)(nil)
