package adminrouter

import (
	"context"
	"fmt"
	"log/slog"

	adminhandlers "github.com/Black-And-White-Club/malta-bot/app/modules/admin/infrastructure/handlers"
	"github.com/Black-And-White-Club/malta-bot/internal/discord"
)

// AdminRouter registers /admin behind the admin check.
type AdminRouter struct {
	logger      *slog.Logger
	commands    *discord.Router
	adminRoleID string
}

// NewAdminRouter creates a new AdminRouter.
func NewAdminRouter(logger *slog.Logger, commands *discord.Router, adminRoleID string) *AdminRouter {
	return &AdminRouter{
		logger:      logger,
		commands:    commands,
		adminRoleID: adminRoleID,
	}
}

// Configure sets up the router with handlers.
func (r *AdminRouter) Configure(_ context.Context, handlers adminhandlers.Handlers) error {
	err := r.commands.Register(adminhandlers.Command(), map[string]discord.HandlerFunc{
		"post":    handlers.HandlePost,
		"give":    handlers.HandleGive,
		"export":  handlers.HandleExport,
		"draw":    handlers.HandleDraw,
		"weather": handlers.HandleWeather,
		"jobs":    handlers.HandleJobs,
	}, discord.RequireAdmin(r.adminRoleID))
	if err != nil {
		return fmt.Errorf("failed to register /admin: %w", err)
	}
	r.commands.Defer("admin export", "admin weather")

	r.logger.Info("Admin module handlers registered successfully",
		slog.Bool("admin_role_configured", r.adminRoleID != ""),
	)
	return nil
}
