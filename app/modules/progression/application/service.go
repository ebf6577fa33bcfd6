package progressionservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	progressiondomain "github.com/Black-And-White-Club/malta-bot/app/modules/progression/domain"
	progressiondb "github.com/Black-And-White-Club/malta-bot/app/modules/progression/infrastructure/repositories"
	"github.com/Black-And-White-Club/malta-bot/internal/clock"
	"github.com/Black-And-White-Club/malta-bot/internal/observability/attr"
	"github.com/Black-And-White-Club/malta-bot/internal/observability/metrics"
	"github.com/Black-And-White-Club/malta-bot/internal/operation"
	"github.com/Black-And-White-Club/malta-bot/internal/results"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace"
)

const (
	DefaultLeaderboardSize = 10
	MaxLeaderboardSize     = 25
)

// Config holds the tunables of the progression rules.
type Config struct {
	Cooldown        time.Duration
	IgnoredChannels []string
	HappyHourStart  int
	HappyHourLength time.Duration
	Location        *time.Location
}

// ProgressionService implements the Service interface.
type ProgressionService struct {
	repo      progressiondb.Repository
	logger    *slog.Logger
	metrics   metrics.ProgressionMetrics
	tracer    trace.Tracer
	db        *bun.DB
	clock     clock.Clock
	rules     progressiondomain.MessageRules
	happyHour progressiondomain.HappyHour
	loc       *time.Location
}

var _ Service = (*ProgressionService)(nil)

// NewProgressionService creates a new ProgressionService.
func NewProgressionService(
	repo progressiondb.Repository,
	logger *slog.Logger,
	metrics metrics.ProgressionMetrics,
	tracer trace.Tracer,
	db *bun.DB,
	clk clock.Clock,
	cfg Config,
) *ProgressionService {
	if logger == nil {
		logger = slog.Default()
	}
	if clk == nil {
		clk = clock.RealClock{}
	}
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	return &ProgressionService{
		repo:    repo,
		logger:  logger,
		metrics: metrics,
		tracer:  tracer,
		db:      db,
		clock:   clk,
		rules:   progressiondomain.NewMessageRules(cfg.Cooldown, cfg.IgnoredChannels),
		happyHour: progressiondomain.HappyHour{
			StartHour: cfg.HappyHourStart,
			Duration:  cfg.HappyHourLength,
			Location:  loc,
		},
		loc: loc,
	}
}

func (s *ProgressionService) telemetry() operation.Telemetry {
	return operation.Telemetry{
		Service: "progression",
		Logger:  s.logger,
		Metrics: s.metrics,
		Tracer:  s.tracer,
	}
}

// AwardMessage grants EXP and gold for an eligible message.
func (s *ProgressionService) AwardMessage(ctx context.Context, msg MessageInput) (AwardResult, error) {
	if reason := s.rules.Precheck(msg.Bot, msg.GuildID, msg.ChannelID, msg.Content); reason != progressiondomain.SkipNone {
		return AwardResult{Reason: reason}, nil
	}

	return operation.Unwrap(operation.WithTelemetry(ctx, s.telemetry(), "AwardMessage", msg.UserID, func(ctx context.Context) (results.OperationResult[AwardResult, error], error) {
		return operation.RunInTx(ctx, s.db, func(ctx context.Context, db bun.IDB) (results.OperationResult[AwardResult, error], error) {
			return s.awardMessageLogic(ctx, db, msg)
		})
	}))
}

func (s *ProgressionService) awardMessageLogic(ctx context.Context, db bun.IDB, msg MessageInput) (results.OperationResult[AwardResult, error], error) {
	player, err := s.repo.EnsurePlayer(ctx, db, msg.UserID, msg.Username)
	if err != nil {
		return results.OperationResult[AwardResult, error]{}, fmt.Errorf("failed to load player: %w", err)
	}

	now := s.clock.NowUTC()
	if s.rules.OnCooldown(player.LastMessageAt, now) {
		return results.SuccessResult[AwardResult, error](AwardResult{
			Reason:   progressiondomain.SkipCooldown,
			OldLevel: player.Level,
			NewLevel: player.Level,
		}), nil
	}

	daily, bumped := progressiondomain.BumpDaily(player.DailyMultiplier, player.LastDailyAt, now, s.loc)
	if bumped {
		player.LastDailyAt = &now
	}
	player.DailyMultiplier = daily

	happy := s.happyHour.Active(now)
	generational := progressiondomain.GenerationalMultiplier(player.Retirements)
	exp := progressiondomain.ComputeGain(progressiondomain.BaseExpPerMessage, daily, generational, happy)
	gold := progressiondomain.ComputeGain(progressiondomain.BaseGoldPerMessage, daily, generational, happy)

	progress, change := progressiondomain.AddExp(progressiondomain.Progress{Level: player.Level, Exp: player.Exp}, exp)
	player.Level = progress.Level
	player.Exp = progress.Exp
	player.TotalExp += change.Applied
	player.LastMessageAt = &now
	player.MessageCount++

	if err := s.repo.UpdatePlayer(ctx, db, player); err != nil {
		return results.OperationResult[AwardResult, error]{}, fmt.Errorf("failed to save player: %w", err)
	}
	if _, err := s.repo.AdjustGold(ctx, db, player.UserID, gold+change.GoldBonus); err != nil {
		return results.OperationResult[AwardResult, error]{}, fmt.Errorf("failed to credit gold: %w", err)
	}

	s.metrics.RecordExpAwarded(ctx, change.Applied, happy)
	if change.Leveled() {
		s.metrics.RecordLevelUp(ctx, change.NewLevel)
	}

	return results.SuccessResult[AwardResult, error](AwardResult{
		Awarded:         true,
		ExpGained:       change.Applied,
		GoldGained:      gold,
		LevelBonus:      change.GoldBonus,
		OldLevel:        change.OldLevel,
		NewLevel:        change.NewLevel,
		HappyHour:       happy,
		DailyBumped:     bumped,
		DailyMultiplier: daily,
	}), nil
}

// GetStats returns a player's progression summary.
func (s *ProgressionService) GetStats(ctx context.Context, userID string) (PlayerStats, error) {
	return operation.Unwrap(operation.WithTelemetry(ctx, s.telemetry(), "GetStats", userID, func(ctx context.Context) (results.OperationResult[PlayerStats, error], error) {
		player, err := s.repo.GetPlayer(ctx, nil, userID)
		if err != nil {
			if errors.Is(err, progressiondb.ErrNotFound) {
				return results.FailureResult[PlayerStats, error](err), nil
			}
			return results.OperationResult[PlayerStats, error]{}, err
		}
		return results.SuccessResult[PlayerStats, error](s.statsFor(player)), nil
	}))
}

func (s *ProgressionService) statsFor(p *progressiondb.Player) PlayerStats {
	hh := s.HappyHourStatus(s.clock.NowUTC())
	generational := progressiondomain.GenerationalMultiplier(p.Retirements)
	return PlayerStats{
		UserID:                 p.UserID,
		Username:               p.Username,
		Level:                  p.Level,
		Exp:                    p.Exp,
		ExpToNext:              progressiondomain.ExpToNext(p.Level),
		TotalExp:               p.TotalExp,
		Gold:                   p.Gold,
		HeirloomPoints:         p.HeirloomPoints,
		Retirements:            p.Retirements,
		MessageCount:           p.MessageCount,
		DailyMultiplier:        p.DailyMultiplier,
		GenerationalMultiplier: generational,
		EffectiveMultiplier:    progressiondomain.EffectiveMultiplier(p.DailyMultiplier, generational, hh.Active),
		HappyHour:              hh,
	}
}

// HappyHourStatus reports the Happy Hour window around now.
func (s *ProgressionService) HappyHourStatus(now time.Time) HappyHourStatus {
	return HappyHourStatus{
		Active:    s.happyHour.Active(now),
		EndsAt:    s.happyHour.EndsAt(now),
		NextStart: s.happyHour.NextStart(now),
	}
}

// Retire resets the player's level for heirloom points.
func (s *ProgressionService) Retire(ctx context.Context, userID string, confirm bool) (RetireResult, error) {
	return operation.Unwrap(operation.WithTelemetry(ctx, s.telemetry(), "Retire", userID, func(ctx context.Context) (results.OperationResult[RetireResult, error], error) {
		return operation.RunInTx(ctx, s.db, func(ctx context.Context, db bun.IDB) (results.OperationResult[RetireResult, error], error) {
			return s.retireLogic(ctx, db, userID, confirm)
		})
	}))
}

func (s *ProgressionService) retireLogic(ctx context.Context, db bun.IDB, userID string, confirm bool) (results.OperationResult[RetireResult, error], error) {
	player, err := s.repo.GetPlayerForUpdate(ctx, db, userID)
	if err != nil {
		if errors.Is(err, progressiondb.ErrNotFound) {
			return results.FailureResult[RetireResult, error](err), nil
		}
		return results.OperationResult[RetireResult, error]{}, err
	}

	if err := progressiondomain.CheckRetire(player.Level, confirm); err != nil {
		return results.FailureResult[RetireResult, error](err), nil
	}

	oldLevel := player.Level
	heirloom := progressiondomain.HeirloomPoints(oldLevel)

	player.Level = 1
	player.Exp = 0
	player.Retirements++
	player.HeirloomPoints += heirloom
	player.DailyMultiplier = progressiondomain.MinDailyMultiplier

	if err := s.repo.UpdatePlayer(ctx, db, player); err != nil {
		return results.OperationResult[RetireResult, error]{}, fmt.Errorf("failed to save retirement: %w", err)
	}

	s.metrics.RecordRetirement(ctx, heirloom)
	s.logger.InfoContext(ctx, "Player retired",
		attr.ExtractCorrelationID(ctx),
		attr.UserID(userID),
		attr.Int("old_level", oldLevel),
		attr.Int64("heirloom_awarded", heirloom),
		attr.Int("retirements", player.Retirements),
	)

	return results.SuccessResult[RetireResult, error](RetireResult{
		UserID:                    player.UserID,
		Username:                  player.Username,
		OldLevel:                  oldLevel,
		HeirloomAwarded:           heirloom,
		HeirloomTotal:             player.HeirloomPoints,
		Retirements:               player.Retirements,
		NewGenerationalMultiplier: progressiondomain.GenerationalMultiplier(player.Retirements),
	}), nil
}

// Leaderboard returns the top players; limit is clamped to [1, 25].
func (s *ProgressionService) Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 {
		limit = DefaultLeaderboardSize
	}
	if limit > MaxLeaderboardSize {
		limit = MaxLeaderboardSize
	}

	return operation.Unwrap(operation.WithTelemetry(ctx, s.telemetry(), "Leaderboard", fmt.Sprint(limit), func(ctx context.Context) (results.OperationResult[[]LeaderboardEntry, error], error) {
		players, err := s.repo.Leaderboard(ctx, nil, limit)
		if err != nil {
			return results.OperationResult[[]LeaderboardEntry, error]{}, err
		}
		entries := make([]LeaderboardEntry, len(players))
		for i, p := range players {
			entries[i] = LeaderboardEntry{
				Rank:        i + 1,
				UserID:      p.UserID,
				Username:    p.Username,
				Level:       p.Level,
				Retirements: p.Retirements,
				TotalExp:    p.TotalExp,
			}
		}
		return results.SuccessResult[[]LeaderboardEntry, error](entries), nil
	}))
}

// DecayMultipliers lowers the daily multiplier of idle players.
func (s *ProgressionService) DecayMultipliers(ctx context.Context) (int, error) {
	return operation.Unwrap(operation.WithTelemetry(ctx, s.telemetry(), "DecayMultipliers", "sweep", func(ctx context.Context) (results.OperationResult[int, error], error) {
		return operation.RunInTx(ctx, s.db, func(ctx context.Context, db bun.IDB) (results.OperationResult[int, error], error) {
			now := s.clock.NowUTC()
			candidates, err := s.repo.ListDecayCandidates(ctx, db, now, progressiondomain.DecayAfter)
			if err != nil {
				return results.OperationResult[int, error]{}, err
			}

			decayed := 0
			for _, p := range candidates {
				next, ok := progressiondomain.Decay(p.DailyMultiplier, p.LastMessageAt, p.LastDecayAt, now)
				if !ok {
					continue
				}
				if err := s.repo.SetDailyMultiplier(ctx, db, p.UserID, next, now); err != nil {
					return results.OperationResult[int, error]{}, err
				}
				decayed++
			}

			s.metrics.RecordMultiplierDecay(ctx, decayed)
			return results.SuccessResult[int, error](decayed), nil
		})
	}))
}

// AdjustGold credits or debits gold.
func (s *ProgressionService) AdjustGold(ctx context.Context, userID string, delta int64) (int64, error) {
	return operation.Unwrap(operation.WithTelemetry(ctx, s.telemetry(), "AdjustGold", userID, func(ctx context.Context) (results.OperationResult[int64, error], error) {
		balance, err := s.repo.AdjustGold(ctx, nil, userID, delta)
		if err != nil {
			if errors.Is(err, progressiondb.ErrNotFound) || errors.Is(err, progressiondb.ErrInsufficientFunds) {
				return results.FailureResult[int64, error](err), nil
			}
			return results.OperationResult[int64, error]{}, err
		}
		return results.SuccessResult[int64, error](balance), nil
	}))
}

// ListPlayers returns every player.
func (s *ProgressionService) ListPlayers(ctx context.Context) ([]progressiondb.Player, error) {
	return operation.Unwrap(operation.WithTelemetry(ctx, s.telemetry(), "ListPlayers", "all", func(ctx context.Context) (results.OperationResult[[]progressiondb.Player, error], error) {
		players, err := s.repo.ListPlayers(ctx, nil)
		if err != nil {
			return results.OperationResult[[]progressiondb.Player, error]{}, err
		}
		return results.SuccessResult[[]progressiondb.Player, error](players), nil
	}))
}

// GrantExp adds EXP inside the caller's transaction.
func (s *ProgressionService) GrantExp(ctx context.Context, db bun.IDB, userID string, exp int64) (*LevelUp, error) {
	player, err := s.repo.GetPlayerForUpdate(ctx, db, userID)
	if err != nil {
		return nil, err
	}

	progress, change := progressiondomain.AddExp(progressiondomain.Progress{Level: player.Level, Exp: player.Exp}, exp)
	player.Level = progress.Level
	player.Exp = progress.Exp
	player.TotalExp += change.Applied

	if err := s.repo.UpdatePlayer(ctx, db, player); err != nil {
		return nil, fmt.Errorf("failed to save player: %w", err)
	}
	if change.GoldBonus > 0 {
		if _, err := s.repo.AdjustGold(ctx, db, userID, change.GoldBonus); err != nil {
			return nil, fmt.Errorf("failed to credit level bonus: %w", err)
		}
	}
	if change.Leveled() {
		s.metrics.RecordLevelUp(ctx, change.NewLevel)
	}

	return &LevelUp{
		UserID:    player.UserID,
		Username:  player.Username,
		OldLevel:  change.OldLevel,
		NewLevel:  change.NewLevel,
		GoldBonus: change.GoldBonus,
	}, nil
}

// BoostDaily raises the daily multiplier inside the caller's transaction.
func (s *ProgressionService) BoostDaily(ctx context.Context, db bun.IDB, userID string, delta float64) (float64, error) {
	player, err := s.repo.GetPlayerForUpdate(ctx, db, userID)
	if err != nil {
		return 0, err
	}
	player.DailyMultiplier = progressiondomain.ClampDaily(player.DailyMultiplier + delta)
	if err := s.repo.UpdatePlayer(ctx, db, player); err != nil {
		return 0, fmt.Errorf("failed to save player: %w", err)
	}
	return player.DailyMultiplier, nil
}
