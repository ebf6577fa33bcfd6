package lotteryservice

import (
	"context"
	"sort"

	lotterydb "github.com/Black-And-White-Club/malta-bot/app/modules/lottery/infrastructure/repositories"
	progressiondb "github.com/Black-And-White-Club/malta-bot/app/modules/progression/infrastructure/repositories"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ------------------------
// Fake Lottery Repo
// ------------------------

// FakeLotteryRepo keeps one open round and its entries in memory.
type FakeLotteryRepo struct {
	trace []string

	Open    *lotterydb.Round
	Entries map[string]int
	Closed  []lotterydb.Round

	OpenRoundForUpdateFunc func(ctx context.Context, db bun.IDB) (*lotterydb.Round, error)
	AddTicketsFunc         func(ctx context.Context, db bun.IDB, roundID uuid.UUID, userID string, n int) (int, error)
	HistoryFunc            func(ctx context.Context, db bun.IDB, limit int) ([]lotterydb.Round, error)
}

func NewFakeLotteryRepo() *FakeLotteryRepo {
	return &FakeLotteryRepo{trace: []string{}, Entries: map[string]int{}}
}

func (f *FakeLotteryRepo) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeLotteryRepo) OpenRoundForUpdate(ctx context.Context, db bun.IDB) (*lotterydb.Round, error) {
	f.record("OpenRoundForUpdate")
	if f.OpenRoundForUpdateFunc != nil {
		return f.OpenRoundForUpdateFunc(ctx, db)
	}
	if f.Open == nil {
		f.Open = &lotterydb.Round{ID: uuid.New(), Status: "open"}
	}
	return f.Open, nil
}

func (f *FakeLotteryRepo) GetOpenRound(_ context.Context, _ bun.IDB) (*lotterydb.Round, error) {
	f.record("GetOpenRound")
	if f.Open == nil {
		return nil, lotterydb.ErrNotFound
	}
	return f.Open, nil
}

func (f *FakeLotteryRepo) CreateRound(_ context.Context, _ bun.IDB, seedPot int64) (*lotterydb.Round, error) {
	f.record("CreateRound")
	f.Open = &lotterydb.Round{ID: uuid.New(), Status: "open", SeedPot: seedPot, Pot: seedPot}
	f.Entries = map[string]int{}
	return f.Open, nil
}

func (f *FakeLotteryRepo) CloseRound(_ context.Context, _ bun.IDB, round *lotterydb.Round) error {
	f.record("CloseRound")
	f.Closed = append(f.Closed, *round)
	return nil
}

func (f *FakeLotteryRepo) GetEntry(_ context.Context, _ bun.IDB, roundID uuid.UUID, userID string) (*lotterydb.Entry, error) {
	f.record("GetEntry")
	n, ok := f.Entries[userID]
	if !ok {
		return nil, lotterydb.ErrNotFound
	}
	return &lotterydb.Entry{RoundID: roundID, UserID: userID, Tickets: n}, nil
}

func (f *FakeLotteryRepo) AddTickets(ctx context.Context, db bun.IDB, roundID uuid.UUID, userID string, n int) (int, error) {
	f.record("AddTickets")
	if f.AddTicketsFunc != nil {
		return f.AddTicketsFunc(ctx, db, roundID, userID, n)
	}
	f.Entries[userID] += n
	return f.Entries[userID], nil
}

func (f *FakeLotteryRepo) IncrementTickets(_ context.Context, _ bun.IDB, _ uuid.UUID, n int) error {
	f.record("IncrementTickets")
	if f.Open != nil {
		f.Open.TotalTickets += n
	}
	return nil
}

func (f *FakeLotteryRepo) ListEntries(_ context.Context, _ bun.IDB, roundID uuid.UUID) ([]lotterydb.Entry, error) {
	f.record("ListEntries")
	out := make([]lotterydb.Entry, 0, len(f.Entries))
	for id, n := range f.Entries {
		out = append(out, lotterydb.Entry{RoundID: roundID, UserID: id, Tickets: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func (f *FakeLotteryRepo) History(ctx context.Context, db bun.IDB, limit int) ([]lotterydb.Round, error) {
	f.record("History")
	if f.HistoryFunc != nil {
		return f.HistoryFunc(ctx, db, limit)
	}
	return f.Closed, nil
}

func (f *FakeLotteryRepo) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

var _ lotterydb.Repository = (*FakeLotteryRepo)(nil)

// ------------------------
// Fake Wallet
// ------------------------

type FakeWallet struct {
	Gold map[string]int64
	Err  error
}

func NewFakeWallet() *FakeWallet {
	return &FakeWallet{Gold: map[string]int64{}}
}

func (f *FakeWallet) GetPlayer(_ context.Context, _ bun.IDB, userID string) (*progressiondb.Player, error) {
	gold, ok := f.Gold[userID]
	if !ok {
		return nil, progressiondb.ErrNotFound
	}
	return &progressiondb.Player{UserID: userID, Level: 1, Gold: gold, DailyMultiplier: 1}, nil
}

func (f *FakeWallet) AdjustGold(_ context.Context, _ bun.IDB, userID string, delta int64) (int64, error) {
	if f.Err != nil {
		return 0, f.Err
	}
	gold, ok := f.Gold[userID]
	if !ok {
		return 0, progressiondb.ErrNotFound
	}
	if gold+delta < 0 {
		return 0, progressiondb.ErrInsufficientFunds
	}
	f.Gold[userID] = gold + delta
	return f.Gold[userID], nil
}

func (f *FakeWallet) AdjustHeirloom(context.Context, bun.IDB, string, int64) (int64, error) {
	return 0, nil
}

var _ progressiondb.Wallet = (*FakeWallet)(nil)
