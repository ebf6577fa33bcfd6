package charts

import (
	"bytes"
	"image/png"
	"testing"

	weatherdomain "github.com/Black-And-White-Club/malta-bot/app/modules/weather/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func TestTemperature(t *testing.T) {
	tests := []struct {
		name   string
		points []Point
	}{
		{name: "no points renders placeholder"},
		{name: "one point renders placeholder", points: []Point{{MaltaMinutes: 60, Temperature: 14}}},
		{
			name: "series",
			points: []Point{
				{MaltaMinutes: 0, Temperature: 12.1},
				{MaltaMinutes: 60, Temperature: 13.4},
				{MaltaMinutes: 120, Temperature: 15.0},
			},
		},
		{
			name: "flat series",
			points: []Point{
				{MaltaMinutes: 0, Temperature: 20},
				{MaltaMinutes: 60, Temperature: 20},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			png, err := Temperature("Valletta", tt.points, DefaultPalette)
			require.NoError(t, err)
			assert.True(t, bytes.HasPrefix(png, pngMagic))
		})
	}
}

func TestTemperature_SparseHistoryUsesPlaceholder(t *testing.T) {
	out, err := Temperature("Gozo", []Point{{MaltaMinutes: 60, Temperature: 12.3}}, DefaultPalette)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 400, img.Bounds().Dx())
	assert.Equal(t, 200, img.Bounds().Dy())
}

func TestMaltaTimeFormatter(t *testing.T) {
	assert.Equal(t, "2 Jan 15:00", maltaTimeFormatter(float64(weatherdomain.MinutesPerDay+15*60)))
	assert.Equal(t, "", maltaTimeFormatter("x"))
}
