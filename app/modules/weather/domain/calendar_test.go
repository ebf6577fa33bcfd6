package weatherdomain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromMinutes(t *testing.T) {
	tests := []struct {
		name    string
		minutes int64
		want    MaltaTime
		str     string
	}{
		{
			name:    "epoch",
			minutes: 0,
			want:    MaltaTime{Year: 1530, Month: 1, Day: 1, Weekday: 0},
			str:     "It-Tnejn 1 Jannar 1530, 00:00",
		},
		{
			name:    "negative clamps to epoch",
			minutes: -500,
			want:    MaltaTime{Year: 1530, Month: 1, Day: 1},
			str:     "It-Tnejn 1 Jannar 1530, 00:00",
		},
		{
			name:    "second day mid afternoon",
			minutes: MinutesPerDay + 15*60 + 30,
			want:    MaltaTime{Minutes: MinutesPerDay + 15*60 + 30, Year: 1530, Month: 1, Day: 2, Weekday: 1, Hour: 15, Minute: 30},
			str:     "It-Tlieta 2 Jannar 1530, 15:30",
		},
		{
			name:    "first day of the next year",
			minutes: MinutesPerYear,
			want:    MaltaTime{Minutes: MinutesPerYear, Year: 1531, Month: 1, Day: 1, Weekday: 360 % 7},
			str:     "Il-Ħamis 1 Jannar 1531, 00:00",
		},
		{
			name:    "last day of the year",
			minutes: MinutesPerYear - 1,
			want:    MaltaTime{Minutes: MinutesPerYear - 1, Year: 1530, Month: 12, Day: 30, Weekday: 359 % 7, Hour: 23, Minute: 59},
			str:     "L-Erbgħa 30 Diċembru 1530, 23:59",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromMinutes(tt.minutes)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.str, got.String())
		})
	}
}

func TestConverter_At(t *testing.T) {
	epoch := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewConverter(epoch, 4)

	// One real day is four Malta days.
	got := c.At(epoch.Add(24 * time.Hour))
	assert.Equal(t, 5, got.Day)
	assert.Equal(t, 0, got.Hour)

	// Fifteen real minutes is one Malta hour.
	got = c.At(epoch.Add(15 * time.Minute))
	assert.Equal(t, 1, got.Hour)

	assert.Equal(t, 1530, c.At(epoch.Add(-time.Hour)).Year)
}

func TestNewConverter_Defaults(t *testing.T) {
	c := NewConverter(time.Time{}, 0)
	assert.Equal(t, DefaultRealEpoch, c.RealEpoch)
	assert.Equal(t, 4.0, c.Scale)
}

func TestSeasonAndPeriod(t *testing.T) {
	seasons := map[int]Season{1: Winter, 2: Winter, 3: Spring, 5: Spring, 6: Summer, 8: Summer, 9: Autumn, 11: Autumn, 12: Winter}
	for month, want := range seasons {
		assert.Equal(t, want, SeasonOf(month), "month %d", month)
	}

	periods := map[int]Period{0: Night, 4: Night, 5: Dawn, 7: Dawn, 8: Day, 17: Day, 18: Dusk, 20: Dusk, 21: Night, 23: Night}
	for hour, want := range periods {
		assert.Equal(t, want, PeriodOf(hour), "hour %d", hour)
	}
}

func TestFindRegion(t *testing.T) {
	r, err := FindRegion(DefaultRegions, "  gozo ")
	assert.NoError(t, err)
	assert.Equal(t, Island, r.Climate)

	_, err = FindRegion(DefaultRegions, "Atlantis")
	assert.ErrorIs(t, err, ErrUnknownRegion)
}

func TestParseClimate(t *testing.T) {
	c, err := ParseClimate("Highland")
	assert.NoError(t, err)
	assert.Equal(t, Highland, c)

	_, err = ParseClimate("tropical")
	assert.ErrorIs(t, err, ErrUnknownClimate)
}
