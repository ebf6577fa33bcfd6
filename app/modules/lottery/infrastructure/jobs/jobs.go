package lotteryjobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	lotteryservice "github.com/Black-And-White-Club/malta-bot/app/modules/lottery/application"
	"github.com/Black-And-White-Club/malta-bot/internal/eventbus"
	"github.com/Black-And-White-Club/malta-bot/internal/observability/attr"
	"github.com/riverqueue/river"
)

// Draw reasons.
const (
	ReasonWeekly    = "weekly"
	ReasonAdmin     = "admin"
	ReasonScheduled = "scheduled"
)

// DrawArgs triggers a lottery draw. Scheduled draws carry their time so two
// draws at different times are not deduplicated.
type DrawArgs struct {
	Reason      string    `json:"reason"`
	RequestedBy string    `json:"requested_by,omitempty"`
	At          time.Time `json:"at,omitempty"`
}

func (DrawArgs) Kind() string { return "lottery_draw" }

// DrawWorker draws the open round and publishes the result.
type DrawWorker struct {
	river.WorkerDefaults[DrawArgs]
	service   lotteryservice.Service
	publisher eventbus.Publisher
	logger    *slog.Logger
}

func NewDrawWorker(service lotteryservice.Service, publisher eventbus.Publisher, logger *slog.Logger) *DrawWorker {
	return &DrawWorker{service: service, publisher: publisher, logger: logger}
}

func (w *DrawWorker) Work(ctx context.Context, job *river.Job[DrawArgs]) error {
	res, err := w.service.Draw(ctx)
	if err != nil {
		return fmt.Errorf("lottery draw failed: %w", err)
	}

	w.logger.InfoContext(ctx, "Lottery draw job finished",
		attr.Int64("job_id", job.ID),
		attr.String("reason", job.Args.Reason),
		attr.String("requested_by", job.Args.RequestedBy),
		attr.String("round_id", res.RoundID.String()),
	)

	// The round is already committed; a retry would draw the next one.
	if err := w.publisher.PublishResults(ctx, []eventbus.Result{res.Event()}); err != nil {
		w.logger.ErrorContext(ctx, "Failed to publish lottery result",
			attr.String("round_id", res.RoundID.String()),
			attr.Error(err),
		)
	}
	return nil
}
