package shopservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	progressionservice "github.com/Black-And-White-Club/malta-bot/app/modules/progression/application"
	progressiondb "github.com/Black-And-White-Club/malta-bot/app/modules/progression/infrastructure/repositories"
	shopdomain "github.com/Black-And-White-Club/malta-bot/app/modules/shop/domain"
	shopdb "github.com/Black-And-White-Club/malta-bot/app/modules/shop/infrastructure/repositories"
	"github.com/Black-And-White-Club/malta-bot/internal/observability/attr"
	"github.com/Black-And-White-Club/malta-bot/internal/observability/metrics"
	"github.com/Black-And-White-Club/malta-bot/internal/operation"
	"github.com/Black-And-White-Club/malta-bot/internal/results"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace"
)

// ShopService implements the Service interface.
type ShopService struct {
	repo    shopdb.Repository
	wallet  progressiondb.Wallet
	effects progressionservice.Effects
	logger  *slog.Logger
	metrics metrics.ShopMetrics
	tracer  trace.Tracer
	db      *bun.DB
}

var _ Service = (*ShopService)(nil)

// NewShopService creates a new ShopService. Item effects are applied through
// effects inside the shop's transaction.
func NewShopService(
	repo shopdb.Repository,
	wallet progressiondb.Wallet,
	effects progressionservice.Effects,
	logger *slog.Logger,
	metrics metrics.ShopMetrics,
	tracer trace.Tracer,
	db *bun.DB,
) *ShopService {
	return &ShopService{
		repo:    repo,
		wallet:  wallet,
		effects: effects,
		logger:  logger,
		metrics: metrics,
		tracer:  tracer,
		db:      db,
	}
}

func (s *ShopService) telemetry() operation.Telemetry {
	return operation.Telemetry{
		Service: "shop",
		Logger:  s.logger,
		Metrics: s.metrics,
		Tracer:  s.tracer,
	}
}

func (s *ShopService) Catalog() []shopdomain.Item {
	return shopdomain.Catalog
}

// adjust moves the item's currency.
func (s *ShopService) adjust(ctx context.Context, db bun.IDB, userID string, currency shopdomain.Currency, delta int64) (int64, error) {
	if currency == shopdomain.Heirloom {
		return s.wallet.AdjustHeirloom(ctx, db, userID, delta)
	}
	return s.wallet.AdjustGold(ctx, db, userID, delta)
}

func (s *ShopService) Buy(ctx context.Context, userID, itemID string, quantity int) (Trade, error) {
	return operation.Unwrap(operation.WithTelemetry(ctx, s.telemetry(), "Buy", userID, func(ctx context.Context) (results.OperationResult[Trade, error], error) {
		return operation.RunInTx(ctx, s.db, func(ctx context.Context, db bun.IDB) (results.OperationResult[Trade, error], error) {
			item, err := shopdomain.Find(itemID)
			if err != nil {
				return results.FailureResult[Trade, error](err), nil
			}
			if err := shopdomain.CheckQuantity(quantity); err != nil {
				return results.FailureResult[Trade, error](err), nil
			}

			cost := item.Cost(quantity)
			balance, err := s.adjust(ctx, db, userID, item.Currency, -cost)
			if err != nil {
				switch {
				case errors.Is(err, progressiondb.ErrNotFound):
					return results.FailureResult[Trade, error](err), nil
				case errors.Is(err, progressiondb.ErrInsufficientFunds):
					return results.FailureResult[Trade, error](shopdomain.ErrNotEnoughBalance), nil
				}
				return results.OperationResult[Trade, error]{}, fmt.Errorf("failed to charge for %s: %w", item.ID, err)
			}

			owned, err := s.repo.AddItem(ctx, db, userID, item.ID, quantity)
			if err != nil {
				return results.OperationResult[Trade, error]{}, err
			}

			s.metrics.RecordPurchase(ctx, item.ID, quantity)
			s.logger.InfoContext(ctx, "Item bought",
				attr.ExtractCorrelationID(ctx),
				attr.UserID(userID),
				attr.String("item_id", item.ID),
				attr.Int("quantity", quantity),
				attr.Int64("cost", cost),
				attr.String("currency", string(item.Currency)),
			)

			return results.SuccessResult[Trade, error](Trade{
				Item:     item,
				Quantity: quantity,
				Amount:   cost,
				Balance:  balance,
				Owned:    owned,
			}), nil
		})
	}))
}

func (s *ShopService) Sell(ctx context.Context, userID, itemID string, quantity int) (Trade, error) {
	return operation.Unwrap(operation.WithTelemetry(ctx, s.telemetry(), "Sell", userID, func(ctx context.Context) (results.OperationResult[Trade, error], error) {
		return operation.RunInTx(ctx, s.db, func(ctx context.Context, db bun.IDB) (results.OperationResult[Trade, error], error) {
			item, err := shopdomain.Find(itemID)
			if err != nil {
				return results.FailureResult[Trade, error](err), nil
			}
			if err := shopdomain.CheckQuantity(quantity); err != nil {
				return results.FailureResult[Trade, error](err), nil
			}
			if !item.Sellable() {
				return results.FailureResult[Trade, error](shopdomain.ErrNotSellable), nil
			}

			left, err := s.repo.RemoveItem(ctx, db, userID, item.ID, quantity)
			if err != nil {
				if errors.Is(err, shopdb.ErrNotEnoughItems) {
					return results.FailureResult[Trade, error](shopdomain.ErrNotEnoughItems), nil
				}
				return results.OperationResult[Trade, error]{}, err
			}

			refund := item.Refund(quantity)
			balance, err := s.wallet.AdjustGold(ctx, db, userID, refund)
			if err != nil {
				return results.OperationResult[Trade, error]{}, fmt.Errorf("failed to refund %s: %w", item.ID, err)
			}

			s.logger.InfoContext(ctx, "Item sold",
				attr.ExtractCorrelationID(ctx),
				attr.UserID(userID),
				attr.String("item_id", item.ID),
				attr.Int("quantity", quantity),
				attr.Int64("refund", refund),
			)

			return results.SuccessResult[Trade, error](Trade{
				Item:     item,
				Quantity: quantity,
				Amount:   refund,
				Balance:  balance,
				Owned:    left,
			}), nil
		})
	}))
}

// Use removes the item and applies its effect in one transaction. Effect
// failures are returned as errors so the item is not lost.
func (s *ShopService) Use(ctx context.Context, userID, itemID string) (UseResult, error) {
	return operation.Unwrap(operation.WithTelemetry(ctx, s.telemetry(), "Use", userID, func(ctx context.Context) (results.OperationResult[UseResult, error], error) {
		return operation.RunInTx(ctx, s.db, func(ctx context.Context, db bun.IDB) (results.OperationResult[UseResult, error], error) {
			item, err := shopdomain.Find(itemID)
			if err != nil {
				return results.FailureResult[UseResult, error](err), nil
			}
			if !item.Usable() {
				return results.FailureResult[UseResult, error](shopdomain.ErrNotUsable), nil
			}

			left, err := s.repo.RemoveItem(ctx, db, userID, item.ID, 1)
			if err != nil {
				if errors.Is(err, shopdb.ErrNotEnoughItems) {
					return results.FailureResult[UseResult, error](shopdomain.ErrNotEnoughItems), nil
				}
				return results.OperationResult[UseResult, error]{}, err
			}

			res := UseResult{Item: item, Remaining: left}
			switch item.Effect.Type {
			case shopdomain.EffectExp:
				lvl, err := s.effects.GrantExp(ctx, db, userID, item.Effect.Exp)
				if err != nil {
					return results.OperationResult[UseResult, error]{}, fmt.Errorf("failed to apply %s: %w", item.ID, err)
				}
				res.ExpGranted = item.Effect.Exp
				res.LevelUp = lvl
			case shopdomain.EffectDailyBoost:
				m, err := s.effects.BoostDaily(ctx, db, userID, item.Effect.DailyBoost)
				if err != nil {
					return results.OperationResult[UseResult, error]{}, fmt.Errorf("failed to apply %s: %w", item.ID, err)
				}
				res.DailyMultiplier = m
			}

			s.metrics.RecordItemUsed(ctx, item.ID)
			s.logger.InfoContext(ctx, "Item used",
				attr.ExtractCorrelationID(ctx),
				attr.UserID(userID),
				attr.String("item_id", item.ID),
				attr.Bool("leveled", res.LevelUp.Leveled()),
			)
			return results.SuccessResult[UseResult, error](res), nil
		})
	}))
}

// Inventory skips rows for items no longer in the catalog.
func (s *ShopService) Inventory(ctx context.Context, userID string) ([]Holding, error) {
	return operation.Unwrap(operation.WithTelemetry(ctx, s.telemetry(), "Inventory", userID, func(ctx context.Context) (results.OperationResult[[]Holding, error], error) {
		rows, err := s.repo.ListInventory(ctx, nil, userID)
		if err != nil {
			return results.OperationResult[[]Holding, error]{}, err
		}
		out := make([]Holding, 0, len(rows))
		for _, r := range rows {
			item, err := shopdomain.Find(r.ItemID)
			if err != nil {
				s.logger.WarnContext(ctx, "Inventory holds an unknown item",
					attr.UserID(userID),
					attr.String("item_id", r.ItemID),
				)
				continue
			}
			out = append(out, Holding{Item: item, Quantity: r.Quantity, AcquiredAt: r.AcquiredAt})
		}
		return results.SuccessResult[[]Holding, error](out), nil
	}))
}
