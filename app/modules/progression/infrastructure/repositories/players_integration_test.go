//go:build integration

package progressiondb

import (
	"context"
	"sync"
	"testing"
	"time"

	progressionmigrations "github.com/Black-And-White-Club/malta-bot/app/modules/progression/infrastructure/repositories/migrations"
	"github.com/Black-And-White-Club/malta-bot/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun/migrate"
)

func TestPlayerRepository(t *testing.T) {
	db := testutils.NewTestDB(t, map[string]*migrate.Migrations{
		"progression": progressionmigrations.Migrations,
	})
	repo := NewRepository(db)
	gen := testutils.NewDataGenerator(42)
	ctx := context.Background()

	t.Run("ensure creates then refreshes username", func(t *testing.T) {
		testutils.TruncateTables(t, db, "players")
		id := gen.DiscordID()

		p, err := repo.EnsurePlayer(ctx, nil, id, "first")
		require.NoError(t, err)
		assert.Equal(t, 1, p.Level)
		assert.Equal(t, 1.0, p.DailyMultiplier)

		p, err = repo.EnsurePlayer(ctx, nil, id, "renamed")
		require.NoError(t, err)
		assert.Equal(t, "renamed", p.Username)

		p, err = repo.EnsurePlayer(ctx, nil, id, "")
		require.NoError(t, err)
		assert.Equal(t, "renamed", p.Username)
	})

	t.Run("adjust gold never overdraws", func(t *testing.T) {
		testutils.TruncateTables(t, db, "players")
		id := gen.DiscordID()
		_, err := repo.EnsurePlayer(ctx, nil, id, gen.Username())
		require.NoError(t, err)

		balance, err := repo.AdjustGold(ctx, nil, id, 100)
		require.NoError(t, err)
		assert.Equal(t, int64(100), balance)

		_, err = repo.AdjustGold(ctx, nil, id, -101)
		assert.ErrorIs(t, err, ErrInsufficientFunds)

		_, err = repo.AdjustGold(ctx, nil, gen.DiscordID(), 10)
		assert.ErrorIs(t, err, ErrNotFound)

		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, _ = repo.AdjustGold(ctx, nil, id, -10)
			}()
		}
		wg.Wait()

		p, err := repo.GetPlayer(ctx, nil, id)
		require.NoError(t, err)
		assert.Equal(t, int64(0), p.Gold)
	})

	t.Run("leaderboard ordering", func(t *testing.T) {
		testutils.TruncateTables(t, db, "players")
		ids := []string{gen.DiscordID(), gen.DiscordID(), gen.DiscordID()}
		for _, id := range ids {
			_, err := repo.EnsurePlayer(ctx, nil, id, gen.Username())
			require.NoError(t, err)
		}

		p0, _ := repo.GetPlayer(ctx, nil, ids[0])
		p0.Level = 30
		require.NoError(t, repo.UpdatePlayer(ctx, nil, p0))

		p1, _ := repo.GetPlayer(ctx, nil, ids[1])
		p1.Retirements = 1
		require.NoError(t, repo.UpdatePlayer(ctx, nil, p1))

		top, err := repo.Leaderboard(ctx, nil, 2)
		require.NoError(t, err)
		require.Len(t, top, 2)
		assert.Equal(t, ids[1], top[0].UserID)
		assert.Equal(t, ids[0], top[1].UserID)
	})

	t.Run("decay candidates", func(t *testing.T) {
		testutils.TruncateTables(t, db, "players")
		now := time.Now().UTC()
		idle, active, recent := gen.DiscordID(), gen.DiscordID(), gen.DiscordID()

		for _, tc := range []struct {
			id          string
			lastMessage time.Time
			lastDecay   *time.Time
		}{
			{idle, now.Add(-48 * time.Hour), nil},
			{active, now.Add(-time.Hour), nil},
			{recent, now.Add(-72 * time.Hour), ptrTime(now.Add(-time.Hour))},
		} {
			p, err := repo.EnsurePlayer(ctx, nil, tc.id, gen.Username())
			require.NoError(t, err)
			p.DailyMultiplier = 3
			p.LastMessageAt = &tc.lastMessage
			p.LastDecayAt = tc.lastDecay
			require.NoError(t, repo.UpdatePlayer(ctx, nil, p))
		}

		candidates, err := repo.ListDecayCandidates(ctx, nil, now, 24*time.Hour)
		require.NoError(t, err)
		require.Len(t, candidates, 1)
		assert.Equal(t, idle, candidates[0].UserID)

		require.NoError(t, repo.SetDailyMultiplier(ctx, nil, idle, 2, now))
		p, err := repo.GetPlayer(ctx, nil, idle)
		require.NoError(t, err)
		assert.Equal(t, 2.0, p.DailyMultiplier)
		require.NotNil(t, p.LastDecayAt)
	})
}

func ptrTime(t time.Time) *time.Time { return &t }
