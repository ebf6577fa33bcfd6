// Package charts renders weather history as PNG images.
package charts

import (
	"bytes"
	"fmt"
	"math"

	weatherdomain "github.com/Black-And-White-Club/malta-bot/app/modules/weather/domain"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Point is one temperature reading at a Malta time.
type Point struct {
	MaltaMinutes int64
	Temperature  float64
}

// Palette colours the chart.
type Palette struct {
	Background drawing.Color
	Line       drawing.Color
	Dot        drawing.Color
	Text       drawing.Color
}

// DefaultPalette is limestone and Maltese red.
var DefaultPalette = Palette{
	Background: drawing.ColorFromHex("f4ecd8"),
	Line:       drawing.ColorFromHex("cf142b"),
	Dot:        drawing.ColorFromHex("1f3a5f"),
	Text:       drawing.ColorFromHex("2b2b2b"),
}

// Temperature draws a line chart of points. Fewer than two points render a
// placeholder.
func Temperature(region string, points []Point, palette Palette) ([]byte, error) {
	if len(points) < 2 {
		return renderPlaceholder(fmt.Sprintf("Not enough readings for %s yet", region), palette)
	}

	xValues := make([]float64, len(points))
	yValues := make([]float64, len(points))
	lo, hi := math.Inf(1), math.Inf(-1)
	for i, p := range points {
		xValues[i] = float64(p.MaltaMinutes)
		yValues[i] = p.Temperature
		lo = math.Min(lo, p.Temperature)
		hi = math.Max(hi, p.Temperature)
	}

	series := chart.ContinuousSeries{
		Name:    region,
		XValues: xValues,
		YValues: yValues,
		Style: chart.Style{
			StrokeColor: palette.Line,
			StrokeWidth: 2,
			DotWidth:    3,
			DotColor:    palette.Dot,
		},
	}

	graph := chart.Chart{
		Title:  region + " temperature",
		Width:  800,
		Height: 400,
		TitleStyle: chart.Style{
			FontColor: palette.Text,
		},
		Background: chart.Style{
			FillColor: palette.Background,
			Padding:   chart.Box{Top: 40, Left: 10, Right: 10, Bottom: 10},
		},
		Canvas: chart.Style{
			FillColor: palette.Background,
		},
		XAxis: chart.XAxis{
			Name:           "Malta time",
			ValueFormatter: maltaTimeFormatter,
			Style: chart.Style{
				FontColor: palette.Text,
			},
		},
		YAxis: chart.YAxis{
			Name: "°C",
			Style: chart.Style{
				FontColor: palette.Text,
			},
			Range: &chart.ContinuousRange{
				Min: math.Floor(lo) - 1,
				Max: math.Ceil(hi) + 1,
			},
		},
		Series: []chart.Series{series},
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("failed to render temperature chart: %w", err)
	}
	return buffer.Bytes(), nil
}

func maltaTimeFormatter(v interface{}) string {
	f, ok := v.(float64)
	if !ok {
		return ""
	}
	mt := weatherdomain.FromMinutes(int64(f))
	return fmt.Sprintf("%d %.3s %02d:00", mt.Day, mt.MonthName(), mt.Hour)
}

// renderPlaceholder draws msg on an empty canvas. go-chart needs one visible
// series and non-zero ranges, so a transparent two-point series carries them.
func renderPlaceholder(msg string, palette Palette) ([]byte, error) {
	unit := &chart.ContinuousRange{Min: 0, Max: 1}
	graph := chart.Chart{
		Width:  400,
		Height: 200,
		Background: chart.Style{
			FillColor: palette.Background,
		},
		Canvas: chart.Style{
			FillColor: palette.Background,
		},
		XAxis: chart.XAxis{
			Style: chart.Style{Hidden: true},
			Range: unit,
		},
		YAxis: chart.YAxis{
			Style: chart.Style{Hidden: true},
			Range: unit,
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				XValues: []float64{0, 1},
				YValues: []float64{0, 1},
				Style: chart.Style{
					StrokeColor: drawing.ColorTransparent,
					StrokeWidth: 1,
				},
			},
		},
		Elements: []chart.Renderable{
			func(r chart.Renderer, cb chart.Box, defaults chart.Style) {
				r.SetFont(defaults.Font)
				r.SetFontColor(palette.Text)
				r.SetFontSize(12.0)
				tb := r.MeasureText(msg)
				r.Text(msg, (cb.Width()-tb.Width())/2, (cb.Height()+tb.Height())/2)
			},
		},
	}
	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("failed to render placeholder: %w", err)
	}
	return buffer.Bytes(), nil
}
