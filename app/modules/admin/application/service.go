package adminservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Black-And-White-Club/malta-bot/app/modules/admin/infrastructure/export"
	lotteryservice "github.com/Black-And-White-Club/malta-bot/app/modules/lottery/application"
	lotteryjobs "github.com/Black-And-White-Club/malta-bot/app/modules/lottery/infrastructure/jobs"
	progressiondb "github.com/Black-And-White-Club/malta-bot/app/modules/progression/infrastructure/repositories"
	weatherservice "github.com/Black-And-White-Club/malta-bot/app/modules/weather/application"
	"github.com/Black-And-White-Club/malta-bot/internal/clock"
	"github.com/Black-And-White-Club/malta-bot/internal/discord"
	"github.com/Black-And-White-Club/malta-bot/internal/observability/attr"
	"github.com/Black-And-White-Club/malta-bot/internal/observability/metrics"
	"github.com/Black-And-White-Club/malta-bot/internal/operation"
	"github.com/Black-And-White-Club/malta-bot/internal/queue"
	"github.com/Black-And-White-Club/malta-bot/internal/results"
	"github.com/bwmarrin/discordgo"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace"
)

var (
	// ErrEmptyMessage is returned when the source message has nothing to copy.
	ErrEmptyMessage = errors.New("message has no content or embeds")
	// ErrZeroAmount is returned by Give for a zero adjustment.
	ErrZeroAmount = errors.New("amount must not be zero")
)

// AdminService implements the Service interface.
type AdminService struct {
	players   progressiondb.Repository
	lottery   lotteryservice.Service
	weather   weatherservice.Service
	jobs      queue.QueueService
	messenger discord.Messenger
	parser    *clock.Parser
	location  *time.Location
	logger    *slog.Logger
	metrics   metrics.OperationMetrics
	tracer    trace.Tracer
	db        *bun.DB
	clock     clock.Clock
}

var _ Service = (*AdminService)(nil)

// Deps bundles the collaborators of AdminService.
type Deps struct {
	Players   progressiondb.Repository
	Lottery   lotteryservice.Service
	Weather   weatherservice.Service
	Queue     queue.QueueService
	Messenger discord.Messenger
	Location  *time.Location
	Logger    *slog.Logger
	Metrics   metrics.OperationMetrics
	Tracer    trace.Tracer
	DB        *bun.DB
	Clock     clock.Clock
}

// NewAdminService creates a new AdminService.
func NewAdminService(d Deps) *AdminService {
	if d.Clock == nil {
		d.Clock = clock.RealClock{}
	}
	if d.Location == nil {
		d.Location = time.UTC
	}
	return &AdminService{
		players:   d.Players,
		lottery:   d.Lottery,
		weather:   d.Weather,
		jobs:      d.Queue,
		messenger: d.Messenger,
		parser:    clock.NewParser(),
		location:  d.Location,
		logger:    d.Logger,
		metrics:   d.Metrics,
		tracer:    d.Tracer,
		db:        d.DB,
		clock:     d.Clock,
	}
}

func (s *AdminService) telemetry() operation.Telemetry {
	return operation.Telemetry{
		Service: "admin",
		Logger:  s.logger,
		Metrics: s.metrics,
		Tracer:  s.tracer,
	}
}

func (s *AdminService) CopyMessage(ctx context.Context, sourceChannelID, messageID, targetChannelID string) error {
	_, err := operation.Unwrap(operation.WithTelemetry(ctx, s.telemetry(), "CopyMessage", messageID, func(ctx context.Context) (results.OperationResult[bool, error], error) {
		msg, err := s.messenger.Fetch(ctx, sourceChannelID, messageID)
		if err != nil {
			return results.OperationResult[bool, error]{}, fmt.Errorf("failed to fetch message %s: %w", messageID, err)
		}
		if msg.Content == "" && len(msg.Embeds) == 0 {
			return results.FailureResult[bool, error](ErrEmptyMessage), nil
		}

		if _, err := s.messenger.Send(ctx, targetChannelID, &discordgo.MessageSend{
			Content: msg.Content,
			Embeds:  msg.Embeds,
		}); err != nil {
			return results.OperationResult[bool, error]{}, fmt.Errorf("failed to repost message: %w", err)
		}

		s.logger.InfoContext(ctx, "Message copied",
			attr.ExtractCorrelationID(ctx),
			attr.String("message_id", messageID),
			attr.String("source_channel", sourceChannelID),
			attr.String("target_channel", targetChannelID),
		)
		return results.SuccessResult[bool, error](true), nil
	}))
	return err
}

// Give creates the player if needed so gold can be granted before they chat.
func (s *AdminService) Give(ctx context.Context, userID, username string, amount int64) (Grant, error) {
	return operation.Unwrap(operation.WithTelemetry(ctx, s.telemetry(), "Give", userID, func(ctx context.Context) (results.OperationResult[Grant, error], error) {
		if amount == 0 {
			return results.FailureResult[Grant, error](ErrZeroAmount), nil
		}
		return operation.RunInTx(ctx, s.db, func(ctx context.Context, db bun.IDB) (results.OperationResult[Grant, error], error) {
			player, err := s.players.EnsurePlayer(ctx, db, userID, username)
			if err != nil {
				return results.OperationResult[Grant, error]{}, err
			}

			applied := amount
			if applied < -player.Gold {
				applied = -player.Gold
			}
			balance := player.Gold
			if applied != 0 {
				balance, err = s.players.AdjustGold(ctx, db, userID, applied)
				if err != nil {
					return results.OperationResult[Grant, error]{}, fmt.Errorf("failed to adjust gold: %w", err)
				}
			}

			s.logger.InfoContext(ctx, "Admin adjusted gold",
				attr.ExtractCorrelationID(ctx),
				attr.UserID(userID),
				attr.Int64("requested", amount),
				attr.Int64("applied", applied),
				attr.Int64("balance", balance),
			)
			return results.SuccessResult[Grant, error](Grant{UserID: userID, Requested: amount, Applied: applied, Balance: balance}), nil
		})
	}))
}

func (s *AdminService) ExportPlayers(ctx context.Context) (Export, error) {
	return operation.Unwrap(operation.WithTelemetry(ctx, s.telemetry(), "ExportPlayers", "players", func(ctx context.Context) (results.OperationResult[Export, error], error) {
		players, err := s.players.ListPlayers(ctx, nil)
		if err != nil {
			return results.OperationResult[Export, error]{}, err
		}
		data, err := export.PlayersXLSX(players, s.location)
		if err != nil {
			return results.OperationResult[Export, error]{}, err
		}
		return results.SuccessResult[Export, error](Export{
			Filename: "players_" + s.clock.Now().In(s.location).Format("20060102_1504") + ".xlsx",
			Data:     data,
			Players:  len(players),
		}), nil
	}))
}

func (s *AdminService) DrawNow(ctx context.Context) (lotteryservice.DrawResult, error) {
	return s.lottery.Draw(ctx)
}

// ScheduleDraw parses when in the configured timezone.
func (s *AdminService) ScheduleDraw(ctx context.Context, when, requestedBy string) (ScheduledDraw, error) {
	return operation.Unwrap(operation.WithTelemetry(ctx, s.telemetry(), "ScheduleDraw", requestedBy, func(ctx context.Context) (results.OperationResult[ScheduledDraw, error], error) {
		at, err := s.parser.ParseFuture(when, s.location, s.clock)
		if err != nil {
			return results.FailureResult[ScheduledDraw, error](err), nil
		}

		jobID, err := s.jobs.ScheduleAt(ctx, lotteryjobs.DrawArgs{
			Reason:      lotteryjobs.ReasonScheduled,
			RequestedBy: requestedBy,
			At:          at,
		}, at)
		if err != nil {
			return results.OperationResult[ScheduledDraw, error]{}, err
		}
		return results.SuccessResult[ScheduledDraw, error](ScheduledDraw{JobID: jobID, At: at}), nil
	}))
}

func (s *AdminService) ForceWeather(ctx context.Context) (weatherservice.Bulletin, error) {
	return s.weather.Tick(ctx)
}

func (s *AdminService) PendingJobs(ctx context.Context) ([]queue.JobInfo, error) {
	return s.jobs.PendingJobs(ctx)
}
