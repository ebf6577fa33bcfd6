package weatherdomain

import (
	"math"

	"github.com/Black-And-White-Club/malta-bot/internal/random"
)

const (
	// MaxTempStep bounds the change in temperature per tick.
	MaxTempStep = 4.0
	// TempNoise is the half-width of the uniform temperature noise.
	TempNoise = 1.5
	// SnowThreshold is the highest target temperature at which snow may fall.
	SnowThreshold = 2.0
)

var seasonBase = map[Season]float64{
	Winter: 12,
	Spring: 17,
	Summer: 28,
	Autumn: 21,
}

// State is a region's weather at one tick.
type State struct {
	Region      string
	Condition   Condition
	Temperature float64
	CloudCover  int
	WindSpeed   int
	Narrative   string
}

// ClimateOffset is the temperature offset of a climate in a season.
func ClimateOffset(c Climate, s Season) float64 {
	switch c {
	case Coastal:
		return 1
	case Inland:
		if s == Summer {
			return 2
		}
		return 0
	case Highland:
		return -2
	}
	return 0
}

// Diurnal is the daily temperature swing, peaking mid-afternoon.
func Diurnal(hour int) float64 {
	return 4 * math.Sin(2*math.Pi*float64(hour-9)/24)
}

// TargetTemperature is the noiseless temperature for a condition at a time.
func TargetTemperature(c Climate, s Season, hour int, cond Condition) float64 {
	return seasonBase[s] + ClimateOffset(c, s) + Diurnal(hour) + cond.TemperatureModifier()
}

// TransitionWeights returns the adjusted weights for the next condition.
// Snow is dropped unless it is winter and the target temperature is cold enough.
func TransitionWeights(prev Condition, s Season, c Climate, hour int) map[Condition]float64 {
	base, ok := transitions[prev]
	if !ok {
		base = transitions[Clear]
	}

	out := make(map[Condition]float64, len(base))
	for cond, w := range base {
		switch {
		case s == Winter && cond.Wet():
			w *= 1.5
		case s == Winter && cond == Clear:
			w *= 0.7
		case s == Summer && cond == Clear:
			w *= 1.5
		case s == Summer && cond.Wet():
			w *= 0.4
		}
		if s == Autumn && cond == Thunderstorm {
			w *= 1.3
		}

		switch {
		case c == Island && cond == Fog:
			w *= 1.8
		case c == Coastal && cond == Windy:
			w *= 1.5
		case c == Highland && cond.Wet():
			w *= 1.2
		}

		if cond == Snow && (s != Winter || TargetTemperature(c, s, hour, Snow) > SnowThreshold) {
			continue
		}
		out[cond] = w
	}
	return out
}

// PickCondition draws from weights in table order.
func PickCondition(weights map[Condition]float64, src random.Source) Condition {
	total := 0.0
	for _, cond := range Conditions {
		total += weights[cond]
	}
	if total <= 0 {
		return Clear
	}

	roll := src.Float64() * total
	for _, cond := range Conditions {
		w := weights[cond]
		if w <= 0 {
			continue
		}
		if roll < w {
			return cond
		}
		roll -= w
	}
	// Float rounding can leave roll at the very top of the range.
	for i := len(Conditions) - 1; i >= 0; i-- {
		if weights[Conditions[i]] > 0 {
			return Conditions[i]
		}
	}
	return Clear
}

// Smooth limits the move from prev to next and rounds to 0.1.
func Smooth(prev, next float64, hasPrev bool) float64 {
	if hasPrev {
		next = math.Max(prev-MaxTempStep, math.Min(prev+MaxTempStep, next))
	}
	return math.Round(next*10) / 10
}

// Generator advances a region's weather by one tick.
type Generator struct {
	src       random.Source
	narrative *Narrator
}

// NewGenerator returns a Generator drawing from src.
func NewGenerator(src random.Source) *Generator {
	return &Generator{src: src, narrative: NewNarrator(src)}
}

// Next computes the state following prev. A nil prev starts from clear skies.
func (g *Generator) Next(region Region, prev *State, at MaltaTime) State {
	season := at.Season()
	prevCond := Clear
	if prev != nil {
		prevCond = prev.Condition
	}

	cond := PickCondition(TransitionWeights(prevCond, season, region.Climate, at.Hour), g.src)

	cloud := cond.CloudRange()
	wind := cond.WindRange()

	temp := TargetTemperature(region.Climate, season, at.Hour, cond) + random.Uniform(g.src, -TempNoise, TempNoise)
	if prev != nil {
		temp = Smooth(prev.Temperature, temp, true)
	} else {
		temp = Smooth(0, temp, false)
	}

	state := State{
		Region:      region.Name,
		Condition:   cond,
		Temperature: temp,
		CloudCover:  int(math.Round(random.Uniform(g.src, cloud.Min, cloud.Max))),
		WindSpeed:   int(math.Round(random.Uniform(g.src, wind.Min, wind.Max))),
	}
	state.Narrative = g.narrative.Describe(state, at.Period())
	return state
}
