package weatherdomain

// Condition is the sky over a region.
type Condition string

const (
	Clear        Condition = "clear"
	PartlyCloudy Condition = "partly_cloudy"
	Cloudy       Condition = "cloudy"
	Overcast     Condition = "overcast"
	Fog          Condition = "fog"
	Drizzle      Condition = "drizzle"
	Rain         Condition = "rain"
	Thunderstorm Condition = "thunderstorm"
	Windy        Condition = "windy"
	Snow         Condition = "snow"
)

// Conditions lists every condition in table order.
var Conditions = []Condition{
	Clear, PartlyCloudy, Cloudy, Overcast, Fog, Drizzle, Rain, Thunderstorm, Windy, Snow,
}

// Range is an inclusive numeric interval.
type Range struct {
	Min, Max float64
}

type profile struct {
	emoji   string
	label   string
	cloud   Range
	wind    Range
	tempMod float64
	wet     bool
}

var profiles = map[Condition]profile{
	Clear:        {emoji: "☀️", label: "Clear", cloud: Range{0, 10}, wind: Range{0, 20}, tempMod: 1},
	PartlyCloudy: {emoji: "⛅", label: "Partly cloudy", cloud: Range{20, 50}, wind: Range{0, 20}, tempMod: 0.5},
	Cloudy:       {emoji: "☁️", label: "Cloudy", cloud: Range{50, 80}, wind: Range{0, 20}, tempMod: -0.5},
	Overcast:     {emoji: "🌥️", label: "Overcast", cloud: Range{85, 100}, wind: Range{0, 20}, tempMod: -1},
	Fog:          {emoji: "🌫️", label: "Fog", cloud: Range{70, 100}, wind: Range{0, 20}, tempMod: -1.5},
	Drizzle:      {emoji: "🌦️", label: "Drizzle", cloud: Range{70, 95}, wind: Range{0, 20}, tempMod: -1.5, wet: true},
	Rain:         {emoji: "🌧️", label: "Rain", cloud: Range{80, 100}, wind: Range{15, 35}, tempMod: -2.5, wet: true},
	Thunderstorm: {emoji: "⛈️", label: "Thunderstorm", cloud: Range{90, 100}, wind: Range{30, 60}, tempMod: -3, wet: true},
	Windy:        {emoji: "💨", label: "Windy", cloud: Range{10, 60}, wind: Range{35, 70}, tempMod: -1.5},
	Snow:         {emoji: "❄️", label: "Snow", cloud: Range{85, 100}, wind: Range{0, 20}, tempMod: -6},
}

// Valid reports whether c is a known condition.
func (c Condition) Valid() bool {
	_, ok := profiles[c]
	return ok
}

func (c Condition) Emoji() string { return profiles[c].emoji }

func (c Condition) Label() string {
	if p, ok := profiles[c]; ok {
		return p.label
	}
	return string(c)
}

// Wet reports drizzle, rain and thunderstorms.
func (c Condition) Wet() bool { return profiles[c].wet }

// CloudRange is the cloud cover percentage allowed for c.
func (c Condition) CloudRange() Range { return profiles[c].cloud }

// WindRange is the wind speed in km/h allowed for c.
func (c Condition) WindRange() Range { return profiles[c].wind }

// TemperatureModifier shifts the temperature under c.
func (c Condition) TemperatureModifier() float64 { return profiles[c].tempMod }

// transitions holds the base weights from a previous condition to the next.
var transitions = map[Condition]map[Condition]float64{
	Clear: {
		Clear: 50, PartlyCloudy: 25, Cloudy: 8, Fog: 4, Windy: 10, Drizzle: 3,
	},
	PartlyCloudy: {
		Clear: 25, PartlyCloudy: 30, Cloudy: 20, Overcast: 5, Windy: 10, Drizzle: 7, Fog: 3,
	},
	Cloudy: {
		PartlyCloudy: 20, Cloudy: 25, Overcast: 20, Drizzle: 12, Rain: 10, Windy: 8, Fog: 5,
	},
	Overcast: {
		Cloudy: 20, Overcast: 25, Drizzle: 18, Rain: 20, Thunderstorm: 5, Fog: 5, Snow: 7,
	},
	Fog: {
		Fog: 25, Clear: 20, PartlyCloudy: 20, Cloudy: 20, Overcast: 10, Drizzle: 5,
	},
	Drizzle: {
		Drizzle: 25, Rain: 20, Cloudy: 20, Overcast: 20, PartlyCloudy: 10, Snow: 5,
	},
	Rain: {
		Rain: 30, Drizzle: 20, Thunderstorm: 12, Overcast: 20, Cloudy: 13, Snow: 5,
	},
	Thunderstorm: {
		Thunderstorm: 20, Rain: 40, Overcast: 20, Windy: 15, Cloudy: 5,
	},
	Windy: {
		Windy: 30, Clear: 25, PartlyCloudy: 25, Cloudy: 15, Rain: 5,
	},
	Snow: {
		Snow: 30, Overcast: 30, Cloudy: 20, Drizzle: 10, Rain: 10,
	},
}
