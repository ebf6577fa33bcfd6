package adminservice

import (
	"context"
	"time"

	lotteryservice "github.com/Black-And-White-Club/malta-bot/app/modules/lottery/application"
	progressiondb "github.com/Black-And-White-Club/malta-bot/app/modules/progression/infrastructure/repositories"
	weatherservice "github.com/Black-And-White-Club/malta-bot/app/modules/weather/application"
	"github.com/Black-And-White-Club/malta-bot/internal/queue"
	"github.com/riverqueue/river"
	"github.com/uptrace/bun"
)

// ------------------------
// Fake Player Repo
// ------------------------

// FakePlayerRepo stores balances in memory. Unused Repository methods panic.
type FakePlayerRepo struct {
	progressiondb.Repository
	trace []string

	Players map[string]*progressiondb.Player

	ListPlayersFunc func(ctx context.Context, db bun.IDB) ([]progressiondb.Player, error)
}

func NewFakePlayerRepo() *FakePlayerRepo {
	return &FakePlayerRepo{trace: []string{}, Players: map[string]*progressiondb.Player{}}
}

func (f *FakePlayerRepo) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakePlayerRepo) EnsurePlayer(_ context.Context, _ bun.IDB, userID, username string) (*progressiondb.Player, error) {
	f.record("EnsurePlayer")
	p, ok := f.Players[userID]
	if !ok {
		p = &progressiondb.Player{UserID: userID, Username: username, Level: 1}
		f.Players[userID] = p
	}
	cp := *p
	return &cp, nil
}

func (f *FakePlayerRepo) AdjustGold(_ context.Context, _ bun.IDB, userID string, delta int64) (int64, error) {
	f.record("AdjustGold")
	p, ok := f.Players[userID]
	if !ok {
		return 0, progressiondb.ErrNotFound
	}
	if p.Gold+delta < 0 {
		return p.Gold, progressiondb.ErrInsufficientFunds
	}
	p.Gold += delta
	return p.Gold, nil
}

func (f *FakePlayerRepo) ListPlayers(ctx context.Context, db bun.IDB) ([]progressiondb.Player, error) {
	f.record("ListPlayers")
	if f.ListPlayersFunc != nil {
		return f.ListPlayersFunc(ctx, db)
	}
	var out []progressiondb.Player
	for _, p := range f.Players {
		out = append(out, *p)
	}
	return out, nil
}

func (f *FakePlayerRepo) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

// ------------------------
// Fake Queue
// ------------------------

// FakeQueue records scheduled jobs.
type FakeQueue struct {
	queue.QueueService

	Scheduled []river.JobArgs
	At        []time.Time
	Pending   []queue.JobInfo
	Err       error
}

func (f *FakeQueue) ScheduleAt(_ context.Context, args river.JobArgs, at time.Time) (int64, error) {
	if f.Err != nil {
		return 0, f.Err
	}
	f.Scheduled = append(f.Scheduled, args)
	f.At = append(f.At, at)
	return int64(len(f.Scheduled)), nil
}

func (f *FakeQueue) PendingJobs(_ context.Context, _ ...string) ([]queue.JobInfo, error) {
	return f.Pending, f.Err
}

// ------------------------
// Stub services
// ------------------------

type stubLottery struct {
	lotteryservice.Service
	draws int
}

func (s *stubLottery) Draw(context.Context) (lotteryservice.DrawResult, error) {
	s.draws++
	return lotteryservice.DrawResult{Pot: 500}, nil
}

type stubWeather struct {
	weatherservice.Service
	ticks int
}

func (s *stubWeather) Tick(context.Context) (weatherservice.Bulletin, error) {
	s.ticks++
	return weatherservice.Bulletin{}, nil
}
