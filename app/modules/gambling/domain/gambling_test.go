package gamblingdomain

import (
	"testing"

	"github.com/Black-And-White-Club/malta-bot/internal/random"
	"github.com/stretchr/testify/assert"
)

func TestCheckBet(t *testing.T) {
	tests := []struct {
		name    string
		amount  int64
		balance int64
		want    error
	}{
		{name: "minimum bet", amount: 10, balance: 10},
		{name: "maximum bet", amount: 5000, balance: 9000},
		{name: "too small", amount: 9, balance: 100, want: ErrBetTooSmall},
		{name: "too large", amount: 5001, balance: 10000, want: ErrBetTooLarge},
		{name: "more than balance", amount: 100, balance: 99, want: ErrNotEnoughGold},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, DefaultTable.CheckBet(tt.amount, tt.balance), tt.want)
		})
	}
}

func TestFlip(t *testing.T) {
	src := &random.Fixed{Floats: []float64{0.0, 0.4799, 0.48, 0.99}}
	got := []bool{}
	for i := 0; i < 4; i++ {
		got = append(got, DefaultTable.Flip(src))
	}
	assert.Equal(t, []bool{true, true, false, false}, got)
}

func TestFlip_WinRateConverges(t *testing.T) {
	src := random.New(42)
	wins := 0
	const n = 100000
	for i := 0; i < n; i++ {
		if DefaultTable.Flip(src) {
			wins++
		}
	}
	assert.InDelta(t, 0.48, float64(wins)/n, 0.01)
}

func TestDelta(t *testing.T) {
	assert.Equal(t, int64(250), Delta(250, true))
	assert.Equal(t, int64(-250), Delta(250, false))
}

func TestRecordApply(t *testing.T) {
	var r Record
	r = r.Apply(100, true)
	r = r.Apply(200, true)
	r = r.Apply(50, false)
	r = r.Apply(500, false)
	r = r.Apply(10, true)

	assert.Equal(t, Record{
		GamesPlayed:   5,
		Wins:          3,
		Losses:        2,
		TotalWagered:  860,
		NetWinnings:   100 + 200 - 50 - 500 + 10,
		BiggestWin:    200,
		BiggestLoss:   500,
		CurrentStreak: 1,
		BestStreak:    2,
	}, r)
	assert.InDelta(t, 0.6, r.WinRate(), 1e-9)
}

func TestTableValidate(t *testing.T) {
	assert.NoError(t, DefaultTable.Validate())
	assert.ErrorIs(t, Table{WinChance: 1}.Validate(), ErrInvalidWinRatio)
}
