package progressiondomain

import "time"

// HappyHour is a daily window, in Location, during which gains are doubled.
type HappyHour struct {
	StartHour int
	Duration  time.Duration
	Location  *time.Location
}

func (h HappyHour) loc() *time.Location {
	if h.Location == nil {
		return time.UTC
	}
	return h.Location
}

// windowStart returns the most recent start at or before now.
func (h HappyHour) windowStart(now time.Time) time.Time {
	local := now.In(h.loc())
	start := time.Date(local.Year(), local.Month(), local.Day(), h.StartHour, 0, 0, 0, h.loc())
	if local.Before(start) {
		start = start.AddDate(0, 0, -1)
	}
	return start
}

// Active reports whether now is inside a window. Windows may cross midnight.
func (h HappyHour) Active(now time.Time) bool {
	if h.Duration <= 0 {
		return false
	}
	start := h.windowStart(now)
	return now.Before(start.Add(h.Duration))
}

// EndsAt returns the end of the window containing now, or the zero time.
func (h HappyHour) EndsAt(now time.Time) time.Time {
	if !h.Active(now) {
		return time.Time{}
	}
	return h.windowStart(now).Add(h.Duration)
}

// NextStart returns the next window start strictly after now.
func (h HappyHour) NextStart(now time.Time) time.Time {
	return h.windowStart(now).AddDate(0, 0, 1)
}
