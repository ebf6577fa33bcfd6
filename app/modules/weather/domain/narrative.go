package weatherdomain

import (
	"fmt"
	"strings"

	"github.com/Black-And-White-Club/malta-bot/internal/random"
)

// Feel describes a temperature in words.
func Feel(temp float64) string {
	switch {
	case temp <= 0:
		return "freezing"
	case temp < 10:
		return "cold"
	case temp < 18:
		return "cool"
	case temp < 25:
		return "mild"
	case temp < 32:
		return "warm"
	}
	return "scorching"
}

type template struct {
	conds   []Condition
	periods []Period
	text    string
}

func (t template) matches(c Condition, p Period) bool {
	okCond := false
	for _, tc := range t.conds {
		if tc == c {
			okCond = true
			break
		}
	}
	if !okCond {
		return false
	}
	if len(t.periods) == 0 {
		return true
	}
	for _, tp := range t.periods {
		if tp == p {
			return true
		}
	}
	return false
}

var templates = []template{
	{conds: []Condition{Clear}, periods: []Period{Day}, text: "Sunlight pours over the limestone of {region}. A {feel} {temp}°C with {wind} km/h breezes."},
	{conds: []Condition{Clear}, periods: []Period{Night}, text: "Stars glitter above {region}. The air is {feel} at {temp}°C."},
	{conds: []Condition{Clear}, periods: []Period{Dawn, Dusk}, text: "Golden light washes across {region}. A {feel} {temp}°C."},
	{conds: []Condition{Clear, PartlyCloudy}, text: "Fair skies over {region}, {temp}°C and {feel}."},
	{conds: []Condition{PartlyCloudy}, text: "Clouds drift lazily across {region}. It feels {feel} at {temp}°C."},
	{conds: []Condition{Cloudy, Overcast}, text: "A grey lid sits over {region}. {temp}°C, {feel}, wind {wind} km/h."},
	{conds: []Condition{Overcast}, periods: []Period{Night}, text: "No moon tonight over {region}. A {feel} {temp}°C under heavy cloud."},
	{conds: []Condition{Fog}, text: "Fog rolls in over {region}; the bastions vanish into white. {temp}°C and {feel}."},
	{conds: []Condition{Fog}, periods: []Period{Dawn}, text: "Morning mist clings to the fields of {region}. {temp}°C."},
	{conds: []Condition{Drizzle}, text: "A fine drizzle settles on {region}. {temp}°C, {feel}."},
	{conds: []Condition{Rain}, text: "Rain drums on the rooftops of {region}. {temp}°C with {wind} km/h gusts."},
	{conds: []Condition{Rain}, periods: []Period{Night}, text: "Rain hisses through the dark streets of {region}. A {feel} {temp}°C."},
	{conds: []Condition{Thunderstorm}, text: "Thunder cracks over {region}! Lightning forks into the sea. {temp}°C, winds {wind} km/h."},
	{conds: []Condition{Windy}, text: "The wind howls through {region} at {wind} km/h. A {feel} {temp}°C."},
	{conds: []Condition{Snow}, text: "Snow falls on {region}, a rare sight. A {feel} {temp}°C."},
}

// Narrator picks and fills a narrative template.
type Narrator struct {
	src random.Source
}

func NewNarrator(src random.Source) *Narrator {
	return &Narrator{src: src}
}

// Describe returns a one-line description of s during period p.
func (n *Narrator) Describe(s State, p Period) string {
	var candidates []template
	for _, t := range templates {
		if t.matches(s.Condition, p) {
			candidates = append(candidates, t)
		}
	}
	if len(candidates) == 0 {
		return fmt.Sprintf("%s in %s, %.1f°C.", s.Condition.Label(), s.Region, s.Temperature)
	}

	chosen := candidates[n.src.Intn(len(candidates))]
	return strings.NewReplacer(
		"{region}", s.Region,
		"{temp}", fmt.Sprintf("%.1f", s.Temperature),
		"{feel}", Feel(s.Temperature),
		"{wind}", fmt.Sprintf("%d", s.WindSpeed),
	).Replace(chosen.text)
}
