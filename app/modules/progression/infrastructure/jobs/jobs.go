package progressionjobs

import (
	"context"
	"fmt"
	"log/slog"

	progressionservice "github.com/Black-And-White-Club/malta-bot/app/modules/progression/application"
	progressiondomain "github.com/Black-And-White-Club/malta-bot/app/modules/progression/domain"
	"github.com/Black-And-White-Club/malta-bot/internal/clock"
	"github.com/Black-And-White-Club/malta-bot/internal/eventbus"
	"github.com/Black-And-White-Club/malta-bot/internal/events"
	"github.com/Black-And-White-Club/malta-bot/internal/observability/attr"
	"github.com/riverqueue/river"
)

// DecayArgs triggers a multiplier decay sweep.
type DecayArgs struct{}

func (DecayArgs) Kind() string { return "progression_decay" }

// HappyHourArgs triggers the Happy Hour announcement.
type HappyHourArgs struct{}

func (HappyHourArgs) Kind() string { return "progression_happy_hour" }

// DecayWorker runs DecayMultipliers.
type DecayWorker struct {
	river.WorkerDefaults[DecayArgs]
	service progressionservice.Service
	logger  *slog.Logger
}

func NewDecayWorker(service progressionservice.Service, logger *slog.Logger) *DecayWorker {
	return &DecayWorker{service: service, logger: logger}
}

func (w *DecayWorker) Work(ctx context.Context, job *river.Job[DecayArgs]) error {
	n, err := w.service.DecayMultipliers(ctx)
	if err != nil {
		return fmt.Errorf("decay sweep failed: %w", err)
	}
	if n > 0 {
		w.logger.InfoContext(ctx, "Decayed daily multipliers",
			attr.Int64("job_id", job.ID),
			attr.Int("players", n),
		)
	}
	return nil
}

// HappyHourWorker publishes the Happy Hour announcement when the window is open.
type HappyHourWorker struct {
	river.WorkerDefaults[HappyHourArgs]
	service   progressionservice.Service
	publisher eventbus.Publisher
	clock     clock.Clock
	logger    *slog.Logger
}

func NewHappyHourWorker(service progressionservice.Service, publisher eventbus.Publisher, clk clock.Clock, logger *slog.Logger) *HappyHourWorker {
	if clk == nil {
		clk = clock.RealClock{}
	}
	return &HappyHourWorker{service: service, publisher: publisher, clock: clk, logger: logger}
}

func (w *HappyHourWorker) Work(ctx context.Context, job *river.Job[HappyHourArgs]) error {
	return w.AnnounceHappyHour(ctx)
}

// AnnounceHappyHour publishes the Happy Hour event if the window is open now.
func (w *HappyHourWorker) AnnounceHappyHour(ctx context.Context) error {
	now := w.clock.NowUTC()
	status := w.service.HappyHourStatus(now)
	if !status.Active {
		w.logger.WarnContext(ctx, "Happy Hour job fired outside the window", attr.Time("now", now))
		return nil
	}

	return w.publisher.PublishResults(ctx, []eventbus.Result{{
		Topic: events.ProgressionHappyHourV1,
		Payload: events.HappyHourPayloadV1{
			StartsAt:   now,
			EndsAt:     status.EndsAt,
			Multiplier: progressiondomain.HappyHourMultiplier,
		},
	}})
}

// HappyHourCron is the cron expression firing at the start of Happy Hour.
func HappyHourCron(startHour int) string {
	return fmt.Sprintf("0 %d * * *", startHour)
}
