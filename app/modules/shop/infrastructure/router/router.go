package shoprouter

import (
	"context"
	"fmt"
	"log/slog"

	shophandlers "github.com/Black-And-White-Club/malta-bot/app/modules/shop/infrastructure/handlers"
	"github.com/Black-And-White-Club/malta-bot/internal/discord"
)

// ShopRouter registers /shop and /inventory.
type ShopRouter struct {
	logger   *slog.Logger
	commands *discord.Router
}

// NewShopRouter creates a new ShopRouter.
func NewShopRouter(logger *slog.Logger, commands *discord.Router) *ShopRouter {
	return &ShopRouter{logger: logger, commands: commands}
}

// Configure sets up the router with handlers.
func (r *ShopRouter) Configure(_ context.Context, handlers shophandlers.Handlers) error {
	if err := r.commands.Register(shophandlers.ShopCommand(), map[string]discord.HandlerFunc{
		"open": handlers.HandleOpen,
		"buy":  handlers.HandleBuy,
		"sell": handlers.HandleSell,
	}); err != nil {
		return fmt.Errorf("failed to register /shop: %w", err)
	}
	if err := r.commands.Register(shophandlers.InventoryCommand(), map[string]discord.HandlerFunc{
		"show": handlers.HandleShow,
		"use":  handlers.HandleUse,
	}); err != nil {
		return fmt.Errorf("failed to register /inventory: %w", err)
	}

	r.logger.Info("Shop module commands registered successfully")
	return nil
}
