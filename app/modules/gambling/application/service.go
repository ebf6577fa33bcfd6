package gamblingservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	gamblingdomain "github.com/Black-And-White-Club/malta-bot/app/modules/gambling/domain"
	gamblingdb "github.com/Black-And-White-Club/malta-bot/app/modules/gambling/infrastructure/repositories"
	progressiondb "github.com/Black-And-White-Club/malta-bot/app/modules/progression/infrastructure/repositories"
	"github.com/Black-And-White-Club/malta-bot/internal/clock"
	"github.com/Black-And-White-Club/malta-bot/internal/observability/attr"
	"github.com/Black-And-White-Club/malta-bot/internal/observability/metrics"
	"github.com/Black-And-White-Club/malta-bot/internal/operation"
	"github.com/Black-And-White-Club/malta-bot/internal/random"
	"github.com/Black-And-White-Club/malta-bot/internal/results"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace"
)

// GamblingService implements the Service interface.
type GamblingService struct {
	repo    gamblingdb.Repository
	wallet  progressiondb.Wallet
	rng     random.Source
	table   gamblingdomain.Table
	logger  *slog.Logger
	metrics metrics.GamblingMetrics
	tracer  trace.Tracer
	db      *bun.DB
	clock   clock.Clock
}

var _ Service = (*GamblingService)(nil)

// NewGamblingService creates a new GamblingService.
func NewGamblingService(
	repo gamblingdb.Repository,
	wallet progressiondb.Wallet,
	rng random.Source,
	table gamblingdomain.Table,
	logger *slog.Logger,
	metrics metrics.GamblingMetrics,
	tracer trace.Tracer,
	db *bun.DB,
	clk clock.Clock,
) *GamblingService {
	if clk == nil {
		clk = clock.RealClock{}
	}
	return &GamblingService{
		repo:    repo,
		wallet:  wallet,
		rng:     rng,
		table:   table,
		logger:  logger,
		metrics: metrics,
		tracer:  tracer,
		db:      db,
		clock:   clk,
	}
}

func (s *GamblingService) telemetry() operation.Telemetry {
	return operation.Telemetry{
		Service: "gambling",
		Logger:  s.logger,
		Metrics: s.metrics,
		Tracer:  s.tracer,
	}
}

// Table returns the rules in force.
func (s *GamblingService) Table() gamblingdomain.Table {
	return s.table
}

// Gamble settles one coin-flip bet. Gold and stats move in one transaction.
func (s *GamblingService) Gamble(ctx context.Context, userID string, amount int64) (BetResult, error) {
	return operation.Unwrap(operation.WithTelemetry(ctx, s.telemetry(), "Gamble", userID, func(ctx context.Context) (results.OperationResult[BetResult, error], error) {
		return operation.RunInTx(ctx, s.db, func(ctx context.Context, db bun.IDB) (results.OperationResult[BetResult, error], error) {
			return s.gambleLogic(ctx, db, userID, amount)
		})
	}))
}

func (s *GamblingService) gambleLogic(ctx context.Context, db bun.IDB, userID string, amount int64) (results.OperationResult[BetResult, error], error) {
	player, err := s.wallet.GetPlayer(ctx, db, userID)
	if err != nil {
		if errors.Is(err, progressiondb.ErrNotFound) {
			return results.FailureResult[BetResult, error](err), nil
		}
		return results.OperationResult[BetResult, error]{}, fmt.Errorf("failed to load player: %w", err)
	}

	if err := s.table.CheckBet(amount, player.Gold); err != nil {
		return results.FailureResult[BetResult, error](err), nil
	}

	won := s.table.Flip(s.rng)
	delta := gamblingdomain.Delta(amount, won)

	balance, err := s.wallet.AdjustGold(ctx, db, userID, delta)
	if err != nil {
		// Another handler spent the gold between the read and the debit.
		if errors.Is(err, progressiondb.ErrInsufficientFunds) {
			return results.FailureResult[BetResult, error](gamblingdomain.ErrNotEnoughGold), nil
		}
		return results.OperationResult[BetResult, error]{}, fmt.Errorf("failed to settle bet: %w", err)
	}

	stats, err := s.repo.EnsureStatsForUpdate(ctx, db, userID)
	if err != nil {
		return results.OperationResult[BetResult, error]{}, err
	}
	record := stats.Record().Apply(amount, won)
	stats.SetRecord(record)
	stats.LastPlayedAt = s.clock.NowUTC()
	if err := s.repo.SaveStats(ctx, db, stats); err != nil {
		return results.OperationResult[BetResult, error]{}, err
	}

	s.metrics.RecordBet(ctx, amount, won)
	s.logger.InfoContext(ctx, "Bet settled",
		attr.ExtractCorrelationID(ctx),
		attr.UserID(userID),
		attr.Int64("amount", amount),
		attr.Bool("won", won),
		attr.Int64("balance", balance),
	)

	return results.SuccessResult[BetResult, error](BetResult{
		UserID:  userID,
		Amount:  amount,
		Won:     won,
		Delta:   delta,
		Balance: balance,
		Record:  record,
	}), nil
}

// GetStats returns a player's gambling record.
func (s *GamblingService) GetStats(ctx context.Context, userID string) (gamblingdomain.Record, error) {
	return operation.Unwrap(operation.WithTelemetry(ctx, s.telemetry(), "GetStats", userID, func(ctx context.Context) (results.OperationResult[gamblingdomain.Record, error], error) {
		stats, err := s.repo.GetStats(ctx, nil, userID)
		if err != nil {
			if errors.Is(err, gamblingdb.ErrNotFound) {
				return results.FailureResult[gamblingdomain.Record, error](err), nil
			}
			return results.OperationResult[gamblingdomain.Record, error]{}, err
		}
		return results.SuccessResult[gamblingdomain.Record, error](stats.Record()), nil
	}))
}

// TopWinners returns the players with the highest net winnings.
func (s *GamblingService) TopWinners(ctx context.Context, limit int) ([]gamblingdb.Stats, error) {
	if limit <= 0 || limit > 25 {
		limit = 10
	}
	return operation.Unwrap(operation.WithTelemetry(ctx, s.telemetry(), "TopWinners", fmt.Sprint(limit), func(ctx context.Context) (results.OperationResult[[]gamblingdb.Stats, error], error) {
		stats, err := s.repo.TopByNetWinnings(ctx, nil, limit)
		if err != nil {
			return results.OperationResult[[]gamblingdb.Stats, error]{}, err
		}
		return results.SuccessResult[[]gamblingdb.Stats, error](stats), nil
	}))
}
