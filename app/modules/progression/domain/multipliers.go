package progressiondomain

import (
	"math"
	"time"
)

const (
	MinDailyMultiplier  = 1.0
	MaxDailyMultiplier  = 5.0
	DailyMultiplierStep = 0.5
	DecayStep           = 1.0
	// DecayAfter is both the idle time before a decay and the gap between decays.
	DecayAfter = 24 * time.Hour

	GenerationalStep          = 0.03
	MaxGenerationalMultiplier = 1.48

	HappyHourMultiplier = 2.0

	BaseExpPerMessage  = 20
	BaseGoldPerMessage = 5
)

// ClampDaily keeps a daily multiplier inside [1, 5].
func ClampDaily(m float64) float64 {
	return math.Max(MinDailyMultiplier, math.Min(MaxDailyMultiplier, m))
}

// SameDay reports whether a and b fall on the same calendar day in loc.
func SameDay(a, b time.Time, loc *time.Location) bool {
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}

// BumpDaily raises the multiplier on the first rewarded message of a new day.
func BumpDaily(current float64, lastDaily *time.Time, now time.Time, loc *time.Location) (float64, bool) {
	if lastDaily != nil && SameDay(*lastDaily, now, loc) {
		return ClampDaily(current), false
	}
	return ClampDaily(current + DailyMultiplierStep), true
}

// Decay applies one decay step when the player has been idle for DecayAfter and
// was not decayed within the last DecayAfter.
func Decay(current float64, lastMessage, lastDecay *time.Time, now time.Time) (float64, bool) {
	if current <= MinDailyMultiplier {
		return MinDailyMultiplier, false
	}
	if lastMessage != nil && now.Sub(*lastMessage) < DecayAfter {
		return current, false
	}
	if lastDecay != nil && now.Sub(*lastDecay) < DecayAfter {
		return current, false
	}
	return ClampDaily(current - DecayStep), true
}

// GenerationalMultiplier is min(1 + 0.03 × retirements, 1.48).
func GenerationalMultiplier(retirements int) float64 {
	if retirements < 0 {
		retirements = 0
	}
	m := 1 + GenerationalStep*float64(retirements)
	// 1 + 0.03×16 is not exactly 1.48 in binary.
	m = math.Round(m*100) / 100
	return math.Min(m, MaxGenerationalMultiplier)
}

// EffectiveMultiplier combines every multiplier that applies to a gain.
func EffectiveMultiplier(daily, generational float64, happyHour bool) float64 {
	m := ClampDaily(daily) * generational
	if happyHour {
		m *= HappyHourMultiplier
	}
	return m
}

// ComputeGain returns floor(base × daily × generational × happyHour).
func ComputeGain(base int64, daily, generational float64, happyHour bool) int64 {
	// The epsilon absorbs products like 20 × 1.5 × 1.03 = 30.899999…
	return int64(math.Floor(float64(base)*EffectiveMultiplier(daily, generational, happyHour) + 1e-9))
}
