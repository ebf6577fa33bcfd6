package lotterydomain

import (
	"testing"

	"github.com/Black-And-White-Club/malta-bot/internal/random"
	"github.com/stretchr/testify/assert"
)

func TestCheckPurchase(t *testing.T) {
	tests := []struct {
		name string
		held int
		n    int
		want error
	}{
		{name: "first ticket", held: 0, n: 1},
		{name: "fills the cap", held: 40, n: 60},
		{name: "over the cap", held: 40, n: 61, want: ErrTicketLimit},
		{name: "zero tickets", held: 0, n: 0, want: ErrInvalidTicketCount},
		{name: "negative tickets", held: 3, n: -2, want: ErrInvalidTicketCount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, DefaultRules.CheckPurchase(tt.held, tt.n), tt.want)
		})
	}
}

func TestPot(t *testing.T) {
	assert.Equal(t, int64(500), DefaultRules.Cost(10))
	assert.Equal(t, int64(1250), DefaultRules.Pot(250, 20))
	assert.Equal(t, int64(0), DefaultRules.Pot(0, 0))
}

func TestPickWinner(t *testing.T) {
	entries := []Entry{
		{UserID: "300", Tickets: 1},
		{UserID: "100", Tickets: 2},
		{UserID: "200", Tickets: 0},
		{UserID: "150", Tickets: 3},
	}

	// Slots ordered by user ID: 100,100,150,150,150,300.
	tests := []struct {
		index      int
		wantUser   string
		wantTicket int
	}{
		{index: 0, wantUser: "100", wantTicket: 2},
		{index: 1, wantUser: "100", wantTicket: 2},
		{index: 2, wantUser: "150", wantTicket: 3},
		{index: 4, wantUser: "150", wantTicket: 3},
		{index: 5, wantUser: "300", wantTicket: 1},
	}

	for _, tt := range tests {
		draw := PickWinner(entries, &random.Fixed{Ints: []int{tt.index}})
		assert.Equal(t, tt.wantUser, draw.WinnerUserID, "index %d", tt.index)
		assert.Equal(t, tt.wantTicket, draw.WinnerTickets)
		assert.Equal(t, 6, draw.TotalTickets)
		assert.Equal(t, 3, draw.Participants)
		assert.True(t, draw.HasWinner())
	}
}

func TestPickWinner_NoTickets(t *testing.T) {
	draw := PickWinner(nil, random.New(1))
	assert.False(t, draw.HasWinner())
	assert.Equal(t, 0, draw.TotalTickets)

	draw = PickWinner([]Entry{{UserID: "1", Tickets: 0}}, random.New(1))
	assert.False(t, draw.HasWinner())
	assert.Equal(t, 0, draw.Participants)
}

func TestPickWinner_IsUniformOverTickets(t *testing.T) {
	entries := []Entry{{UserID: "a", Tickets: 1}, {UserID: "b", Tickets: 3}}
	src := random.New(7)
	wins := map[string]int{}
	const n = 40000
	for i := 0; i < n; i++ {
		wins[PickWinner(entries, src).WinnerUserID]++
	}
	assert.InDelta(t, 0.25, float64(wins["a"])/n, 0.01)
	assert.InDelta(t, 0.75, float64(wins["b"])/n, 0.01)
}

func TestOdds(t *testing.T) {
	assert.Equal(t, 0.0, Odds(0, 10))
	assert.Equal(t, 0.0, Odds(3, 0))
	assert.InDelta(t, 0.3, Odds(3, 10), 1e-9)
}
