//go:build integration

package lotterydb

import (
	"context"
	"testing"
	"time"

	lotterydomain "github.com/Black-And-White-Club/malta-bot/app/modules/lottery/domain"
	lotterymigrations "github.com/Black-And-White-Club/malta-bot/app/modules/lottery/infrastructure/repositories/migrations"
	"github.com/Black-And-White-Club/malta-bot/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun/migrate"
)

func TestLotteryRepository(t *testing.T) {
	db := testutils.NewTestDB(t, map[string]*migrate.Migrations{
		"lottery": lotterymigrations.Migrations,
	})
	repo := NewRepository(db)
	gen := testutils.NewDataGenerator(11)
	ctx := context.Background()

	testutils.TruncateTables(t, db, "lottery_entries", "lottery_rounds")

	_, err := repo.GetOpenRound(ctx, nil)
	assert.ErrorIs(t, err, ErrNotFound)

	round, err := repo.OpenRoundForUpdate(ctx, nil)
	require.NoError(t, err)
	again, err := repo.OpenRoundForUpdate(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, round.ID, again.ID, "open round is created once")

	alice, bob := "100"+gen.DiscordID()[3:], "200"+gen.DiscordID()[3:]
	n, err := repo.AddTickets(ctx, nil, round.ID, bob, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	n, err = repo.AddTickets(ctx, nil, round.ID, bob, 2)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	_, err = repo.AddTickets(ctx, nil, round.ID, alice, 1)
	require.NoError(t, err)
	require.NoError(t, repo.IncrementTickets(ctx, nil, round.ID, 6))

	entries, err := repo.ListEntries(ctx, nil, round.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, alice, entries[0].UserID)

	entry, err := repo.GetEntry(ctx, nil, round.ID, bob)
	require.NoError(t, err)
	assert.Equal(t, 5, entry.Tickets)

	round.Status = lotterydomain.StatusDrawn
	round.WinnerUserID = bob
	round.TotalTickets = 6
	round.Pot = 300
	round.DrawnAt = time.Now().UTC()
	require.NoError(t, repo.CloseRound(ctx, nil, round))

	next, err := repo.CreateRound(ctx, nil, 0)
	require.NoError(t, err)
	assert.NotEqual(t, round.ID, next.ID)

	history, err := repo.History(ctx, nil, 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, bob, history[0].WinnerUserID)
	assert.Equal(t, int64(300), history[0].Pot)
}
