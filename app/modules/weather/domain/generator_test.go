package weatherdomain

import (
	"math"
	"strings"
	"testing"

	"github.com/Black-And-White-Club/malta-bot/internal/random"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransitionWeights(t *testing.T) {
	t.Run("summer boosts clear and damps rain", func(t *testing.T) {
		w := TransitionWeights(Clear, Summer, Inland, 12)
		assert.InDelta(t, 75, w[Clear], 1e-9)
		assert.InDelta(t, 3*0.4, w[Drizzle], 1e-9)
	})

	t.Run("winter favours wet conditions", func(t *testing.T) {
		w := TransitionWeights(Cloudy, Winter, Inland, 12)
		assert.InDelta(t, 15, w[Rain], 1e-9)
	})

	t.Run("island fog and coastal wind", func(t *testing.T) {
		assert.InDelta(t, 4*1.8, TransitionWeights(Clear, Spring, Island, 12)[Fog], 1e-9)
		assert.InDelta(t, 15, TransitionWeights(Clear, Spring, Coastal, 12)[Windy], 1e-9)
	})

	t.Run("highland wet in autumn storms", func(t *testing.T) {
		w := TransitionWeights(Rain, Autumn, Highland, 12)
		assert.InDelta(t, 12*1.3*1.2, w[Thunderstorm], 1e-9)
	})

	t.Run("no snow outside winter", func(t *testing.T) {
		_, ok := TransitionWeights(Snow, Spring, Highland, 3)[Snow]
		assert.False(t, ok)
	})

	t.Run("no snow in a warm winter", func(t *testing.T) {
		// Coastal winter afternoon target is well above freezing.
		_, ok := TransitionWeights(Overcast, Winter, Coastal, 15)[Snow]
		assert.False(t, ok)
	})

	t.Run("snow in a cold highland winter night", func(t *testing.T) {
		// 12 - 2 - 4 - 6 = 0 at 03:00.
		w := TransitionWeights(Overcast, Winter, Highland, 3)
		assert.Greater(t, w[Snow], 0.0)
	})

	t.Run("unknown previous condition falls back to clear", func(t *testing.T) {
		assert.Equal(t, TransitionWeights(Clear, Spring, Inland, 12), TransitionWeights("hail", Spring, Inland, 12))
	})
}

func TestPickCondition(t *testing.T) {
	weights := map[Condition]float64{Clear: 1, Rain: 1, Snow: 2}
	tests := []struct {
		roll float64
		want Condition
	}{
		{roll: 0, want: Clear},
		{roll: 0.3, want: Rain},
		{roll: 0.6, want: Snow},
		{roll: 0.999999, want: Snow},
	}
	for _, tt := range tests {
		got := PickCondition(weights, &random.Fixed{Floats: []float64{tt.roll}})
		assert.Equal(t, tt.want, got, "roll %v", tt.roll)
	}

	assert.Equal(t, Clear, PickCondition(nil, &random.Fixed{}))
}

func TestSmooth(t *testing.T) {
	assert.Equal(t, 24.0, Smooth(20, 30, true))
	assert.Equal(t, 16.0, Smooth(20, 10, true))
	assert.Equal(t, 21.3, Smooth(20, 21.26, true))
	assert.Equal(t, 30.0, Smooth(20, 30, false))
}

func TestDiurnal(t *testing.T) {
	assert.InDelta(t, 0, Diurnal(9), 1e-9)
	assert.InDelta(t, 4, Diurnal(15), 1e-9)
	assert.InDelta(t, -4, Diurnal(3), 1e-9)
}

func TestGenerator_Next(t *testing.T) {
	gen := NewGenerator(random.New(42))
	region := Region{Name: "Dingli", Climate: Highland}

	var prev *State
	for i := 0; i < 500; i++ {
		at := FromMinutes(int64(i) * 7 * MinutesPerDay / 3)
		state := gen.Next(region, prev, at)

		require.True(t, state.Condition.Valid())
		cloud := state.Condition.CloudRange()
		assert.GreaterOrEqual(t, float64(state.CloudCover), cloud.Min)
		assert.LessOrEqual(t, float64(state.CloudCover), cloud.Max)

		wind := state.Condition.WindRange()
		assert.GreaterOrEqual(t, float64(state.WindSpeed), wind.Min)
		assert.LessOrEqual(t, float64(state.WindSpeed), wind.Max)

		if prev != nil {
			assert.LessOrEqual(t, math.Abs(state.Temperature-prev.Temperature), MaxTempStep+1e-9)
		}
		if state.Condition == Snow {
			assert.Equal(t, Winter, at.Season())
		}
		assert.Equal(t, math.Round(state.Temperature*10)/10, state.Temperature)
		assert.Contains(t, state.Narrative, "Dingli")

		s := state
		prev = &s
	}
}

func TestFeel(t *testing.T) {
	cases := map[float64]string{-3: "freezing", 0: "freezing", 5: "cold", 12: "cool", 20: "mild", 28: "warm", 35: "scorching"}
	for temp, want := range cases {
		assert.Equal(t, want, Feel(temp), "temp %v", temp)
	}
}

func TestNarrator_Describe(t *testing.T) {
	n := NewNarrator(&random.Fixed{Ints: []int{0}})
	text := n.Describe(State{Region: "Valletta", Condition: Thunderstorm, Temperature: 14.2, WindSpeed: 44}, Night)

	assert.Contains(t, text, "Valletta")
	assert.Contains(t, text, "14.2°C")
	assert.Contains(t, text, "44 km/h")
	assert.False(t, strings.Contains(text, "{"), "unreplaced placeholder in %q", text)

	for _, c := range Conditions {
		for _, p := range []Period{Night, Dawn, Day, Dusk} {
			text := n.Describe(State{Region: "Gozo", Condition: c, Temperature: 10}, p)
			assert.Contains(t, text, "Gozo", "%s/%s", c, p)
		}
	}
}
