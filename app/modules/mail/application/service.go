package mailservice

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Black-And-White-Club/malta-bot/app/modules/mail/infrastructure/mailbox"
	maildb "github.com/Black-And-White-Club/malta-bot/app/modules/mail/infrastructure/repositories"
	"github.com/Black-And-White-Club/malta-bot/internal/observability/attr"
	"github.com/Black-And-White-Club/malta-bot/internal/observability/metrics"
	"github.com/Black-And-White-Club/malta-bot/internal/operation"
	"github.com/Black-And-White-Club/malta-bot/internal/results"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace"
)

// MailService implements the Service interface.
type MailService struct {
	open      mailbox.Opener
	repo      maildb.Repository
	forwarder Forwarder
	filter    string
	logger    *slog.Logger
	metrics   metrics.MailMetrics
	tracer    trace.Tracer
	db        *bun.DB
}

var _ Service = (*MailService)(nil)

// NewMailService creates a new MailService.
func NewMailService(
	open mailbox.Opener,
	repo maildb.Repository,
	forwarder Forwarder,
	filter string,
	logger *slog.Logger,
	metrics metrics.MailMetrics,
	tracer trace.Tracer,
	db *bun.DB,
) *MailService {
	return &MailService{
		open:      open,
		repo:      repo,
		forwarder: forwarder,
		filter:    filter,
		logger:    logger,
		metrics:   metrics,
		tracer:    tracer,
		db:        db,
	}
}

func (s *MailService) telemetry() operation.Telemetry {
	return operation.Telemetry{
		Service: "mail",
		Logger:  s.logger,
		Metrics: s.metrics,
		Tracer:  s.tracer,
	}
}

// Poll leaves an email unread when forwarding it fails so the next poll retries it.
func (s *MailService) Poll(ctx context.Context) (PollResult, error) {
	return operation.Unwrap(operation.WithTelemetry(ctx, s.telemetry(), "Poll", s.filter, func(ctx context.Context) (results.OperationResult[PollResult, error], error) {
		box, err := s.open(ctx)
		if err != nil {
			return results.OperationResult[PollResult, error]{}, fmt.Errorf("failed to open mailbox: %w", err)
		}
		defer func() {
			if err := box.Close(); err != nil {
				s.logger.WarnContext(ctx, "Failed to close mailbox", attr.Error(err))
			}
		}()

		apps, err := box.Unseen(ctx, s.filter)
		if err != nil {
			return results.OperationResult[PollResult, error]{}, err
		}

		var res PollResult
		var done []uint32
		for _, app := range apps {
			res.Matched++
			key := app.Key()

			seen, err := s.repo.IsForwarded(ctx, s.dbOrNil(), key)
			if err != nil {
				return results.OperationResult[PollResult, error]{}, err
			}
			if seen {
				res.Duplicates++
				done = append(done, app.UID)
				continue
			}

			if err := s.forwarder.Forward(ctx, app); err != nil {
				res.Failed++
				s.logger.ErrorContext(ctx, "Failed to forward application email",
					attr.String("message_key", key),
					attr.Error(err),
				)
				continue
			}

			if _, err := s.repo.RecordForward(ctx, s.dbOrNil(), &maildb.Forward{
				MessageKey: key,
				Subject:    app.Subject,
				Sender:     app.From,
				ReceivedAt: app.Date,
			}); err != nil {
				return results.OperationResult[PollResult, error]{}, err
			}
			res.Forwarded++
			done = append(done, app.UID)

			s.logger.InfoContext(ctx, "Application email forwarded",
				attr.String("message_key", key),
				attr.String("subject", app.Subject),
			)
		}

		if err := box.MarkSeen(ctx, done); err != nil {
			return results.OperationResult[PollResult, error]{}, err
		}
		if res.Forwarded > 0 {
			s.metrics.RecordMailForwarded(ctx, res.Forwarded)
		}
		return results.SuccessResult[PollResult, error](res), nil
	}))
}

// dbOrNil avoids handing repositories a typed-nil *bun.DB.
func (s *MailService) dbOrNil() bun.IDB {
	if s.db == nil {
		return nil
	}
	return s.db
}
