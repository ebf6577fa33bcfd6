package weatherdb

import (
	"time"

	"github.com/uptrace/bun"
)

// State is the latest weather of a region.
type State struct {
	bun.BaseModel `bun:"table:weather_states,alias:ws"`

	Region       string    `bun:"region,pk"`
	Condition    string    `bun:"condition,notnull"`
	Temperature  float64   `bun:"temperature,notnull"`
	CloudCover   int       `bun:"cloud_cover,notnull"`
	WindSpeed    int       `bun:"wind_speed,notnull"`
	Narrative    string    `bun:"narrative,notnull"`
	MaltaMinutes int64     `bun:"malta_minutes,notnull"`
	UpdatedAt    time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

// Log is one tick of one region.
type Log struct {
	bun.BaseModel `bun:"table:weather_logs,alias:wl"`

	ID           int64     `bun:"id,pk,autoincrement"`
	Region       string    `bun:"region,notnull"`
	Condition    string    `bun:"condition,notnull"`
	Temperature  float64   `bun:"temperature,notnull"`
	CloudCover   int       `bun:"cloud_cover,notnull"`
	WindSpeed    int       `bun:"wind_speed,notnull"`
	MaltaMinutes int64     `bun:"malta_minutes,notnull"`
	CreatedAt    time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

// TimeLog records the Malta time at each tick.
type TimeLog struct {
	bun.BaseModel `bun:"table:malta_time_logs,alias:mtl"`

	ID           int64     `bun:"id,pk,autoincrement"`
	MaltaMinutes int64     `bun:"malta_minutes,notnull"`
	Display      string    `bun:"display,notnull"`
	Season       string    `bun:"season,notnull"`
	RealTime     time.Time `bun:"real_time,notnull"`
}
