// Package events defines the domain events exchanged between modules over the event bus.
package events

import "time"

const (
	// ProgressionLevelUpV1 is published when a player gains one or more levels.
	ProgressionLevelUpV1 = "malta.progression.level_up.v1"
	// ProgressionRetiredV1 is published when a player retires.
	ProgressionRetiredV1 = "malta.progression.retired.v1"
	// ProgressionHappyHourV1 is published when Happy Hour opens.
	ProgressionHappyHourV1 = "malta.progression.happy_hour.v1"
	// LotteryDrawnV1 is published after every draw, with or without a winner.
	LotteryDrawnV1 = "malta.lottery.drawn.v1"
	// WeatherUpdatedV1 is published after each simulation tick.
	WeatherUpdatedV1 = "malta.weather.updated.v1"
)

// AllTopics lists every topic, used by the NATS mirror.
var AllTopics = []string{
	ProgressionLevelUpV1,
	ProgressionRetiredV1,
	ProgressionHappyHourV1,
	LotteryDrawnV1,
	WeatherUpdatedV1,
}

// LevelUpPayloadV1 describes a level change.
type LevelUpPayloadV1 struct {
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	OldLevel  int       `json:"old_level"`
	NewLevel  int       `json:"new_level"`
	GoldBonus int64     `json:"gold_bonus"`
	ChannelID string    `json:"channel_id,omitempty"`
	GuildID   string    `json:"guild_id,omitempty"`
	Source    string    `json:"source"`
	At        time.Time `json:"at"`
}

// RetiredPayloadV1 describes a retirement.
type RetiredPayloadV1 struct {
	UserID                 string    `json:"user_id"`
	Username               string    `json:"username"`
	RetiredAtLevel         int       `json:"retired_at_level"`
	HeirloomAwarded        int64     `json:"heirloom_awarded"`
	Retirements            int       `json:"retirements"`
	GenerationalMultiplier float64   `json:"generational_multiplier"`
	At                     time.Time `json:"at"`
}

// HappyHourPayloadV1 announces the Happy Hour window.
type HappyHourPayloadV1 struct {
	StartsAt   time.Time `json:"starts_at"`
	EndsAt     time.Time `json:"ends_at"`
	Multiplier float64   `json:"multiplier"`
}

// LotteryDrawnPayloadV1 describes a finished lottery round.
type LotteryDrawnPayloadV1 struct {
	RoundID       string    `json:"round_id"`
	WinnerUserID  string    `json:"winner_user_id,omitempty"`
	Pot           int64     `json:"pot"`
	TotalTickets  int       `json:"total_tickets"`
	WinnerTickets int       `json:"winner_tickets"`
	Participants  int       `json:"participants"`
	RolledOver    bool      `json:"rolled_over"`
	DrawnAt       time.Time `json:"drawn_at"`
}

// RegionWeatherV1 is one region's state inside a weather bulletin.
type RegionWeatherV1 struct {
	Region      string  `json:"region"`
	Condition   string  `json:"condition"`
	Temperature float64 `json:"temperature"`
	CloudCover  int     `json:"cloud_cover"`
	WindSpeed   int     `json:"wind_speed"`
	Narrative   string  `json:"narrative"`
}

// WeatherUpdatedPayloadV1 is the bulletin produced by a weather tick.
type WeatherUpdatedPayloadV1 struct {
	MaltaTime string            `json:"malta_time"`
	Season    string            `json:"season"`
	Regions   []RegionWeatherV1 `json:"regions"`
	At        time.Time         `json:"at"`
}
