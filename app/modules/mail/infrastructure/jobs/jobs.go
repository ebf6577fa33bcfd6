package mailjobs

import (
	"context"
	"fmt"
	"log/slog"

	mailservice "github.com/Black-And-White-Club/malta-bot/app/modules/mail/application"
	"github.com/Black-And-White-Club/malta-bot/internal/observability/attr"
	"github.com/riverqueue/river"
)

// PollArgs checks the applications mailbox.
type PollArgs struct{}

func (PollArgs) Kind() string { return "mail_poll" }

// PollWorker runs one mailbox poll.
type PollWorker struct {
	river.WorkerDefaults[PollArgs]
	service mailservice.Service
	logger  *slog.Logger
}

func NewPollWorker(service mailservice.Service, logger *slog.Logger) *PollWorker {
	return &PollWorker{service: service, logger: logger}
}

func (w *PollWorker) Work(ctx context.Context, job *river.Job[PollArgs]) error {
	res, err := w.service.Poll(ctx)
	if err != nil {
		return fmt.Errorf("mail poll failed: %w", err)
	}
	if res.Matched > 0 {
		w.logger.InfoContext(ctx, "Mail poll finished",
			attr.Int64("job_id", job.ID),
			attr.Int("matched", res.Matched),
			attr.Int("forwarded", res.Forwarded),
			attr.Int("duplicates", res.Duplicates),
			attr.Int("failed", res.Failed),
		)
	}
	return nil
}
