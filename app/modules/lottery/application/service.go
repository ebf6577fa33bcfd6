package lotteryservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	lotterydomain "github.com/Black-And-White-Club/malta-bot/app/modules/lottery/domain"
	lotterydb "github.com/Black-And-White-Club/malta-bot/app/modules/lottery/infrastructure/repositories"
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

// LotteryService implements the Service interface.
type LotteryService struct {
	repo     lotterydb.Repository
	wallet   progressiondb.Wallet
	rng      random.Source
	rules    lotterydomain.Rules
	schedule Schedule
	logger   *slog.Logger
	metrics  metrics.LotteryMetrics
	tracer   trace.Tracer
	db       *bun.DB
	clock    clock.Clock
}

var _ Service = (*LotteryService)(nil)

// NewLotteryService creates a new LotteryService. schedule may be nil when no
// weekly draw is configured.
func NewLotteryService(
	repo lotterydb.Repository,
	wallet progressiondb.Wallet,
	rng random.Source,
	rules lotterydomain.Rules,
	schedule Schedule,
	logger *slog.Logger,
	metrics metrics.LotteryMetrics,
	tracer trace.Tracer,
	db *bun.DB,
	clk clock.Clock,
) *LotteryService {
	if clk == nil {
		clk = clock.RealClock{}
	}
	return &LotteryService{
		repo:     repo,
		wallet:   wallet,
		rng:      rng,
		rules:    rules,
		schedule: schedule,
		logger:   logger,
		metrics:  metrics,
		tracer:   tracer,
		db:       db,
		clock:    clk,
	}
}

func (s *LotteryService) telemetry() operation.Telemetry {
	return operation.Telemetry{
		Service: "lottery",
		Logger:  s.logger,
		Metrics: s.metrics,
		Tracer:  s.tracer,
	}
}

func (s *LotteryService) Rules() lotterydomain.Rules {
	return s.rules
}

// Buy locks the open round, so purchases and draws serialize on it.
func (s *LotteryService) Buy(ctx context.Context, userID string, n int) (Purchase, error) {
	return operation.Unwrap(operation.WithTelemetry(ctx, s.telemetry(), "Buy", userID, func(ctx context.Context) (results.OperationResult[Purchase, error], error) {
		return operation.RunInTx(ctx, s.db, func(ctx context.Context, db bun.IDB) (results.OperationResult[Purchase, error], error) {
			return s.buyLogic(ctx, db, userID, n)
		})
	}))
}

func (s *LotteryService) buyLogic(ctx context.Context, db bun.IDB, userID string, n int) (results.OperationResult[Purchase, error], error) {
	if n <= 0 {
		return results.FailureResult[Purchase, error](lotterydomain.ErrInvalidTicketCount), nil
	}

	round, err := s.repo.OpenRoundForUpdate(ctx, db)
	if err != nil {
		return results.OperationResult[Purchase, error]{}, err
	}

	held := 0
	entry, err := s.repo.GetEntry(ctx, db, round.ID, userID)
	switch {
	case err == nil:
		held = entry.Tickets
	case !errors.Is(err, lotterydb.ErrNotFound):
		return results.OperationResult[Purchase, error]{}, err
	}

	if err := s.rules.CheckPurchase(held, n); err != nil {
		return results.FailureResult[Purchase, error](err), nil
	}

	cost := s.rules.Cost(n)
	balance, err := s.wallet.AdjustGold(ctx, db, userID, -cost)
	if err != nil {
		switch {
		case errors.Is(err, progressiondb.ErrNotFound):
			return results.FailureResult[Purchase, error](err), nil
		case errors.Is(err, progressiondb.ErrInsufficientFunds):
			return results.FailureResult[Purchase, error](lotterydomain.ErrNotEnoughGold), nil
		}
		return results.OperationResult[Purchase, error]{}, fmt.Errorf("failed to debit tickets: %w", err)
	}

	total, err := s.repo.AddTickets(ctx, db, round.ID, userID, n)
	if err != nil {
		return results.OperationResult[Purchase, error]{}, err
	}
	if err := s.repo.IncrementTickets(ctx, db, round.ID, n); err != nil {
		return results.OperationResult[Purchase, error]{}, err
	}

	s.metrics.RecordTicketsSold(ctx, n)
	s.logger.InfoContext(ctx, "Lottery tickets bought",
		attr.ExtractCorrelationID(ctx),
		attr.UserID(userID),
		attr.String("round_id", round.ID.String()),
		attr.Int("tickets", n),
		attr.Int64("cost", cost),
	)

	return results.SuccessResult[Purchase, error](Purchase{
		RoundID:     round.ID,
		Bought:      n,
		Cost:        cost,
		UserTickets: total,
		Balance:     balance,
		Pot:         s.rules.Pot(round.SeedPot, round.TotalTickets+n),
	}), nil
}

// Info creates the open round on first use.
func (s *LotteryService) Info(ctx context.Context, userID string) (RoundInfo, error) {
	return operation.Unwrap(operation.WithTelemetry(ctx, s.telemetry(), "Info", userID, func(ctx context.Context) (results.OperationResult[RoundInfo, error], error) {
		return operation.RunInTx(ctx, s.db, func(ctx context.Context, db bun.IDB) (results.OperationResult[RoundInfo, error], error) {
			round, err := s.repo.OpenRoundForUpdate(ctx, db)
			if err != nil {
				return results.OperationResult[RoundInfo, error]{}, err
			}

			mine := 0
			entry, err := s.repo.GetEntry(ctx, db, round.ID, userID)
			switch {
			case err == nil:
				mine = entry.Tickets
			case !errors.Is(err, lotterydb.ErrNotFound):
				return results.OperationResult[RoundInfo, error]{}, err
			}

			info := RoundInfo{
				RoundID:      round.ID,
				Pot:          s.rules.Pot(round.SeedPot, round.TotalTickets),
				TotalTickets: round.TotalTickets,
				UserTickets:  mine,
				Odds:         lotterydomain.Odds(mine, round.TotalTickets),
				OpenedAt:     round.OpenedAt,
			}
			if s.schedule != nil {
				info.NextDraw = s.schedule.Next(s.clock.Now())
			}
			return results.SuccessResult[RoundInfo, error](info), nil
		})
	}))
}

func (s *LotteryService) History(ctx context.Context, limit int) ([]lotterydb.Round, error) {
	if limit <= 0 || limit > 25 {
		limit = lotterydomain.DefaultHistorySize
	}
	return operation.Unwrap(operation.WithTelemetry(ctx, s.telemetry(), "History", fmt.Sprint(limit), func(ctx context.Context) (results.OperationResult[[]lotterydb.Round, error], error) {
		rounds, err := s.repo.History(ctx, nil, limit)
		if err != nil {
			return results.OperationResult[[]lotterydb.Round, error]{}, err
		}
		return results.SuccessResult[[]lotterydb.Round, error](rounds), nil
	}))
}

// Draw settles the open round. With no tickets the pot rolls into the next round.
func (s *LotteryService) Draw(ctx context.Context) (DrawResult, error) {
	return operation.Unwrap(operation.WithTelemetry(ctx, s.telemetry(), "Draw", "open", func(ctx context.Context) (results.OperationResult[DrawResult, error], error) {
		return operation.RunInTx(ctx, s.db, func(ctx context.Context, db bun.IDB) (results.OperationResult[DrawResult, error], error) {
			return s.drawLogic(ctx, db)
		})
	}))
}

func (s *LotteryService) drawLogic(ctx context.Context, db bun.IDB) (results.OperationResult[DrawResult, error], error) {
	round, err := s.repo.OpenRoundForUpdate(ctx, db)
	if err != nil {
		return results.OperationResult[DrawResult, error]{}, err
	}

	rows, err := s.repo.ListEntries(ctx, db, round.ID)
	if err != nil {
		return results.OperationResult[DrawResult, error]{}, err
	}
	entries := make([]lotterydomain.Entry, len(rows))
	for i, r := range rows {
		entries[i] = lotterydomain.Entry{UserID: r.UserID, Tickets: r.Tickets}
	}

	draw := lotterydomain.PickWinner(entries, s.rng)
	pot := s.rules.Pot(round.SeedPot, draw.TotalTickets)
	now := s.clock.NowUTC()

	res := DrawResult{
		RoundID: round.ID,
		Draw:    draw,
		Pot:     pot,
		DrawnAt: now,
	}

	nextSeed := int64(0)
	if draw.HasWinner() {
		balance, err := s.wallet.AdjustGold(ctx, db, draw.WinnerUserID, pot)
		if err != nil {
			return results.OperationResult[DrawResult, error]{}, fmt.Errorf("failed to pay lottery winner: %w", err)
		}
		res.WinnerGold = balance
	} else {
		res.RolledOver = true
		nextSeed = pot
	}

	round.Status = lotterydomain.StatusDrawn
	round.WinnerUserID = draw.WinnerUserID
	round.TotalTickets = draw.TotalTickets
	round.Pot = pot
	round.DrawnAt = now
	if err := s.repo.CloseRound(ctx, db, round); err != nil {
		return results.OperationResult[DrawResult, error]{}, err
	}

	next, err := s.repo.CreateRound(ctx, db, nextSeed)
	if err != nil {
		return results.OperationResult[DrawResult, error]{}, err
	}
	res.NextRoundID = next.ID

	s.metrics.RecordDraw(ctx, pot, draw.HasWinner())
	s.logger.InfoContext(ctx, "Lottery drawn",
		attr.ExtractCorrelationID(ctx),
		attr.String("round_id", round.ID.String()),
		attr.String("winner", draw.WinnerUserID),
		attr.Int64("pot", pot),
		attr.Int("tickets", draw.TotalTickets),
		attr.Bool("rolled_over", res.RolledOver),
		attr.Duration("round_length", now.Sub(round.OpenedAt)),
	)

	return results.SuccessResult[DrawResult, error](res), nil
}
