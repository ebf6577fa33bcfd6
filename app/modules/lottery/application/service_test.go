package lotteryservice

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	lotterydomain "github.com/Black-And-White-Club/malta-bot/app/modules/lottery/domain"
	lotterydb "github.com/Black-And-White-Club/malta-bot/app/modules/lottery/infrastructure/repositories"
	progressiondb "github.com/Black-And-White-Club/malta-bot/app/modules/progression/infrastructure/repositories"
	"github.com/Black-And-White-Club/malta-bot/internal/clock"
	"github.com/Black-And-White-Club/malta-bot/internal/events"
	"github.com/Black-And-White-Club/malta-bot/internal/observability/metrics"
	"github.com/Black-And-White-Club/malta-bot/internal/queue"
	"github.com/Black-And-White-Club/malta-bot/internal/random"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace/noop"
)

// Wednesday.
var testNow = time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC)

func newTestService(repo *FakeLotteryRepo, wallet *FakeWallet, rng random.Source) *LotteryService {
	return NewLotteryService(repo, wallet, rng, lotterydomain.DefaultRules, nil,
		slog.Default(), metrics.NewNoop(), noop.NewTracerProvider().Tracer("test"), nil, clock.NewFakeClock(testNow))
}

func TestBuy(t *testing.T) {
	tests := []struct {
		name        string
		gold        map[string]int64
		held        int
		n           int
		walletErr   error
		wantErrIs   error
		wantTickets int
		wantBalance int64
		wantTrace   []string
	}{
		{
			name:        "first purchase",
			gold:        map[string]int64{"1": 1000},
			n:           4,
			wantTickets: 4,
			wantBalance: 800,
			wantTrace:   []string{"OpenRoundForUpdate", "GetEntry", "AddTickets", "IncrementTickets"},
		},
		{
			name:        "tops up an entry to the cap",
			gold:        map[string]int64{"1": 1000},
			held:        90,
			n:           10,
			wantTickets: 100,
			wantBalance: 500,
			wantTrace:   []string{"OpenRoundForUpdate", "GetEntry", "AddTickets", "IncrementTickets"},
		},
		{
			name:      "over the cap",
			gold:      map[string]int64{"1": 10000},
			held:      95,
			n:         6,
			wantErrIs: lotterydomain.ErrTicketLimit,
			wantTrace: []string{"OpenRoundForUpdate", "GetEntry"},
		},
		{
			name:      "zero tickets",
			gold:      map[string]int64{"1": 1000},
			n:         0,
			wantErrIs: lotterydomain.ErrInvalidTicketCount,
			wantTrace: []string{},
		},
		{
			name:      "not enough gold",
			gold:      map[string]int64{"1": 99},
			n:         2,
			wantErrIs: lotterydomain.ErrNotEnoughGold,
			wantTrace: []string{"OpenRoundForUpdate", "GetEntry"},
		},
		{
			name:      "unknown player",
			gold:      map[string]int64{},
			n:         1,
			wantErrIs: progressiondb.ErrNotFound,
			wantTrace: []string{"OpenRoundForUpdate", "GetEntry"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := NewFakeLotteryRepo()
			if tt.held > 0 {
				repo.Entries["1"] = tt.held
			}
			wallet := NewFakeWallet()
			for k, v := range tt.gold {
				wallet.Gold[k] = v
			}

			got, err := newTestService(repo, wallet, random.New(1)).Buy(context.Background(), "1", tt.n)
			assert.Equal(t, tt.wantTrace, repo.Trace())

			if tt.wantErrIs != nil {
				assert.ErrorIs(t, err, tt.wantErrIs)
				assert.Equal(t, tt.gold["1"], wallet.Gold["1"])
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantTickets, got.UserTickets)
			assert.Equal(t, tt.wantBalance, got.Balance)
			assert.Equal(t, int64(tt.n)*50, got.Cost)
			assert.Equal(t, int64(tt.n)*50, got.Pot)
		})
	}
}

func TestBuy_StoreFailure(t *testing.T) {
	repo := NewFakeLotteryRepo()
	repo.AddTicketsFunc = func(context.Context, bun.IDB, uuid.UUID, string, int) (int, error) {
		return 0, errors.New("connection reset")
	}
	wallet := NewFakeWallet()
	wallet.Gold["1"] = 500

	_, err := newTestService(repo, wallet, random.New(1)).Buy(context.Background(), "1", 1)
	assert.Error(t, err)
}

func TestDraw(t *testing.T) {
	t.Run("pays the winner and opens the next round", func(t *testing.T) {
		repo := NewFakeLotteryRepo()
		repo.Open = &lotterydb.Round{ID: uuid.New(), Status: "open", SeedPot: 100, TotalTickets: 4, OpenedAt: testNow.Add(-72 * time.Hour)}
		repo.Entries = map[string]int{"b": 3, "a": 1}
		wallet := NewFakeWallet()
		wallet.Gold["a"] = 0
		wallet.Gold["b"] = 10
		first := repo.Open.ID

		// Slots a,b,b,b: index 2 is b.
		res, err := newTestService(repo, wallet, &random.Fixed{Ints: []int{2}}).Draw(context.Background())
		require.NoError(t, err)

		assert.Equal(t, first, res.RoundID)
		assert.Equal(t, "b", res.Draw.WinnerUserID)
		assert.Equal(t, int64(300), res.Pot)
		assert.False(t, res.RolledOver)
		assert.Equal(t, int64(310), wallet.Gold["b"])
		assert.Equal(t, int64(310), res.WinnerGold)

		require.Len(t, repo.Closed, 1)
		assert.Equal(t, lotterydomain.StatusDrawn, repo.Closed[0].Status)
		assert.Equal(t, "b", repo.Closed[0].WinnerUserID)
		assert.True(t, repo.Closed[0].DrawnAt.Equal(testNow))

		assert.NotEqual(t, first, repo.Open.ID)
		assert.Equal(t, res.NextRoundID, repo.Open.ID)
		assert.Equal(t, int64(0), repo.Open.SeedPot)
		assert.Equal(t, []string{"OpenRoundForUpdate", "ListEntries", "CloseRound", "CreateRound"}, repo.Trace())
	})

	t.Run("empty round rolls the pot over", func(t *testing.T) {
		repo := NewFakeLotteryRepo()
		repo.Open = &lotterydb.Round{ID: uuid.New(), Status: "open", SeedPot: 750}

		res, err := newTestService(repo, NewFakeWallet(), random.New(1)).Draw(context.Background())
		require.NoError(t, err)

		assert.True(t, res.RolledOver)
		assert.False(t, res.Draw.HasWinner())
		assert.Equal(t, int64(750), res.Pot)
		assert.Equal(t, int64(750), repo.Open.SeedPot)
		require.Len(t, repo.Closed, 1)
		assert.Empty(t, repo.Closed[0].WinnerUserID)
	})

	t.Run("payout failure aborts", func(t *testing.T) {
		repo := NewFakeLotteryRepo()
		repo.Entries = map[string]int{"a": 1}
		wallet := NewFakeWallet()
		wallet.Err = errors.New("deadlock detected")

		_, err := newTestService(repo, wallet, random.New(1)).Draw(context.Background())
		assert.Error(t, err)
		assert.Empty(t, repo.Closed)
	})
}

func TestDrawResult_Event(t *testing.T) {
	id := uuid.New()
	res := DrawResult{
		RoundID: id,
		Draw:    lotterydomain.Draw{WinnerUserID: "7", WinnerTickets: 2, TotalTickets: 10, Participants: 4},
		Pot:     500,
		DrawnAt: testNow,
	}
	ev := res.Event()
	assert.Equal(t, events.LotteryDrawnV1, ev.Topic)
	payload, ok := ev.Payload.(events.LotteryDrawnPayloadV1)
	require.True(t, ok)
	assert.Equal(t, id.String(), payload.RoundID)
	assert.Equal(t, "7", payload.WinnerUserID)
	assert.Equal(t, 4, payload.Participants)
}

func TestInfo(t *testing.T) {
	malta, err := time.LoadLocation("Europe/Malta")
	require.NoError(t, err)
	schedule, err := queue.ParseCron("0 20 * * 0", malta)
	require.NoError(t, err)

	repo := NewFakeLotteryRepo()
	repo.Open = &lotterydb.Round{ID: uuid.New(), Status: "open", SeedPot: 200, TotalTickets: 10}
	repo.Entries["1"] = 4

	svc := NewLotteryService(repo, NewFakeWallet(), random.New(1), lotterydomain.DefaultRules, schedule,
		slog.Default(), metrics.NewNoop(), nil, nil, clock.NewFakeClock(testNow))

	info, err := svc.Info(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, int64(700), info.Pot)
	assert.Equal(t, 4, info.UserTickets)
	assert.InDelta(t, 0.4, info.Odds, 1e-9)
	assert.True(t, info.NextDraw.Equal(time.Date(2026, 3, 8, 20, 0, 0, 0, malta)), "got %s", info.NextDraw)

	info, err = svc.Info(context.Background(), "2")
	require.NoError(t, err)
	assert.Equal(t, 0, info.UserTickets)
	assert.Equal(t, 0.0, info.Odds)
}

func TestHistory_ClampsLimit(t *testing.T) {
	repo := NewFakeLotteryRepo()
	var got int
	repo.HistoryFunc = func(_ context.Context, _ bun.IDB, limit int) ([]lotterydb.Round, error) {
		got = limit
		return nil, nil
	}
	svc := newTestService(repo, NewFakeWallet(), random.New(1))

	_, err := svc.History(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, lotterydomain.DefaultHistorySize, got)

	_, err = svc.History(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, 5, got)
}
