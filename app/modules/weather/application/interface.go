package weatherservice

import (
	"context"
	"time"

	weatherdomain "github.com/Black-And-White-Club/malta-bot/app/modules/weather/domain"
	weatherdb "github.com/Black-And-White-Club/malta-bot/app/modules/weather/infrastructure/repositories"
	"github.com/Black-And-White-Club/malta-bot/internal/eventbus"
	"github.com/Black-And-White-Club/malta-bot/internal/events"
)

// Service defines the contract for the weather simulation.
type Service interface {
	// MaltaTime returns the in-world time now.
	MaltaTime() weatherdomain.MaltaTime

	// Regions returns the simulated regions.
	Regions() []weatherdomain.Region

	// Tick advances every region by one step and persists the result.
	Tick(ctx context.Context) (Bulletin, error)

	// Current returns one region's latest report.
	Current(ctx context.Context, region string) (Report, error)

	// All returns the latest report of every region that has one.
	All(ctx context.Context) ([]Report, error)

	// History returns up to limit logs of a region, oldest first.
	History(ctx context.Context, region string, limit int) ([]weatherdb.Log, error)
}

// Report is a region's stored weather.
type Report struct {
	weatherdomain.State
	MaltaTime weatherdomain.MaltaTime
	UpdatedAt time.Time
}

// Bulletin is the outcome of one tick.
type Bulletin struct {
	Time   weatherdomain.MaltaTime
	States []weatherdomain.State
	At     time.Time
}

// Event is the weather.updated.v1 event for the bulletin.
func (b Bulletin) Event() eventbus.Result {
	regions := make([]events.RegionWeatherV1, len(b.States))
	for i, s := range b.States {
		regions[i] = events.RegionWeatherV1{
			Region:      s.Region,
			Condition:   string(s.Condition),
			Temperature: s.Temperature,
			CloudCover:  s.CloudCover,
			WindSpeed:   s.WindSpeed,
			Narrative:   s.Narrative,
		}
	}
	return eventbus.Result{
		Topic: events.WeatherUpdatedV1,
		Payload: events.WeatherUpdatedPayloadV1{
			MaltaTime: b.Time.String(),
			Season:    string(b.Time.Season()),
			Regions:   regions,
			At:        b.At,
		},
	}
}
