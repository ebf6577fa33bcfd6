// Package weatherdomain simulates Malta's in-world calendar and weather.
package weatherdomain

import (
	"fmt"
	"time"
)

const (
	MinutesPerHour = 60
	HoursPerDay    = 24
	DaysPerMonth   = 30
	MonthsPerYear  = 12
	DaysPerWeek    = 7

	MinutesPerDay  = MinutesPerHour * HoursPerDay
	MinutesPerYear = MinutesPerDay * DaysPerMonth * MonthsPerYear

	// EpochYear is the in-world year at the world epoch.
	EpochYear = 1530
)

// DefaultRealEpoch is the real instant mapped to the world epoch.
var DefaultRealEpoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// MonthNames are the Maltese month names, Jannar first.
var MonthNames = [MonthsPerYear]string{
	"Jannar", "Frar", "Marzu", "April", "Mejju", "Ġunju",
	"Lulju", "Awwissu", "Settembru", "Ottubru", "Novembru", "Diċembru",
}

// WeekdayNames are the Maltese weekday names. The world epoch is a Monday.
var WeekdayNames = [DaysPerWeek]string{
	"It-Tnejn", "It-Tlieta", "L-Erbgħa", "Il-Ħamis", "Il-Ġimgħa", "Is-Sibt", "Il-Ħadd",
}

// Season of the in-world year.
type Season string

const (
	Winter Season = "Winter"
	Spring Season = "Spring"
	Summer Season = "Summer"
	Autumn Season = "Autumn"
)

// SeasonOf maps a month (1-12) to its season.
func SeasonOf(month int) Season {
	switch month {
	case 12, 1, 2:
		return Winter
	case 3, 4, 5:
		return Spring
	case 6, 7, 8:
		return Summer
	}
	return Autumn
}

// Period of the in-world day.
type Period string

const (
	Night Period = "Night"
	Dawn  Period = "Dawn"
	Day   Period = "Day"
	Dusk  Period = "Dusk"
)

// PeriodOf maps an hour (0-23) to its period.
func PeriodOf(hour int) Period {
	switch {
	case hour >= 21 || hour < 5:
		return Night
	case hour < 8:
		return Dawn
	case hour < 18:
		return Day
	}
	return Dusk
}

// MaltaTime is a decomposed in-world instant.
type MaltaTime struct {
	// Minutes since the world epoch.
	Minutes int64
	Year    int
	Month   int
	Day     int
	Weekday int
	Hour    int
	Minute  int
}

// FromMinutes decomposes minutes since the world epoch. Negative values clamp
// to the epoch.
func FromMinutes(minutes int64) MaltaTime {
	if minutes < 0 {
		minutes = 0
	}
	days := minutes / MinutesPerDay
	inDay := minutes % MinutesPerDay
	year := days / (DaysPerMonth * MonthsPerYear)
	inYear := days % (DaysPerMonth * MonthsPerYear)

	return MaltaTime{
		Minutes: minutes,
		Year:    EpochYear + int(year),
		Month:   int(inYear/DaysPerMonth) + 1,
		Day:     int(inYear%DaysPerMonth) + 1,
		Weekday: int(days % DaysPerWeek),
		Hour:    int(inDay / MinutesPerHour),
		Minute:  int(inDay % MinutesPerHour),
	}
}

// Converter maps real time onto Malta time.
type Converter struct {
	RealEpoch time.Time
	Scale     float64
}

// NewConverter returns a converter; a zero epoch or non-positive scale falls
// back to the defaults.
func NewConverter(realEpoch time.Time, scale float64) Converter {
	if realEpoch.IsZero() {
		realEpoch = DefaultRealEpoch
	}
	if scale <= 0 {
		scale = 4
	}
	return Converter{RealEpoch: realEpoch, Scale: scale}
}

// At returns the Malta time at the real instant t.
func (c Converter) At(t time.Time) MaltaTime {
	elapsed := t.Sub(c.RealEpoch).Minutes() * c.Scale
	return FromMinutes(int64(elapsed))
}

func (m MaltaTime) MonthName() string   { return MonthNames[m.Month-1] }
func (m MaltaTime) WeekdayName() string { return WeekdayNames[m.Weekday] }
func (m MaltaTime) Season() Season      { return SeasonOf(m.Month) }
func (m MaltaTime) Period() Period      { return PeriodOf(m.Hour) }

// String renders e.g. "It-Tnejn 1 Jannar 1530, 00:00".
func (m MaltaTime) String() string {
	return fmt.Sprintf("%s %d %s %d, %02d:%02d", m.WeekdayName(), m.Day, m.MonthName(), m.Year, m.Hour, m.Minute)
}
