package weatherjobs

import (
	"context"
	"fmt"
	"log/slog"

	weatherservice "github.com/Black-And-White-Club/malta-bot/app/modules/weather/application"
	"github.com/Black-And-White-Club/malta-bot/internal/eventbus"
	"github.com/Black-And-White-Club/malta-bot/internal/observability/attr"
	"github.com/riverqueue/river"
)

// TickArgs advances the weather simulation.
type TickArgs struct {
	RequestedBy string `json:"requested_by,omitempty"`
}

func (TickArgs) Kind() string { return "weather_tick" }

// TickWorker ticks the simulation and publishes the bulletin.
type TickWorker struct {
	river.WorkerDefaults[TickArgs]
	service   weatherservice.Service
	publisher eventbus.Publisher
	logger    *slog.Logger
}

func NewTickWorker(service weatherservice.Service, publisher eventbus.Publisher, logger *slog.Logger) *TickWorker {
	return &TickWorker{service: service, publisher: publisher, logger: logger}
}

func (w *TickWorker) Work(ctx context.Context, job *river.Job[TickArgs]) error {
	bulletin, err := w.service.Tick(ctx)
	if err != nil {
		return fmt.Errorf("weather tick failed: %w", err)
	}

	w.logger.InfoContext(ctx, "Weather tick job finished",
		attr.Int64("job_id", job.ID),
		attr.String("requested_by", job.Args.RequestedBy),
		attr.String("malta_time", bulletin.Time.String()),
	)

	// The tick is committed; retrying would advance the weather twice.
	if err := w.publisher.PublishResults(ctx, []eventbus.Result{bulletin.Event()}); err != nil {
		w.logger.ErrorContext(ctx, "Failed to publish weather bulletin", attr.Error(err))
	}
	return nil
}
