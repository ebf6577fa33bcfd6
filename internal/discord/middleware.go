package discord

import (
	"context"
	"math"

	"github.com/Black-And-White-Club/malta-bot/internal/ratelimit"
)

// HandlerFunc handles one command.
type HandlerFunc func(ctx context.Context, cmd *Command) (*Response, error)

// Middleware wraps a HandlerFunc.
type Middleware func(next HandlerFunc) HandlerFunc

// RequireAdmin rejects members without the admin role or Administrator permission.
func RequireAdmin(adminRoleID string) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, cmd *Command) (*Response, error) {
			if !cmd.User.IsAdmin(adminRoleID) {
				return Ephemeral("You need the admin role to use this command."), nil
			}
			return next(ctx, cmd)
		}
	}
}

// RateLimit rejects users who exceed limiter.
func RateLimit(limiter *ratelimit.Keyed) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, cmd *Command) (*Response, error) {
			if wait := limiter.RetryAfter(cmd.User.ID); wait > 0 {
				return Ephemeral("Slow down! Try again in %.0fs.", math.Ceil(wait.Seconds())), nil
			}
			if !limiter.Allow(cmd.User.ID) {
				return Ephemeral("Slow down! Try again in a moment."), nil
			}
			return next(ctx, cmd)
		}
	}
}

// Chain applies middlewares so the first one runs outermost.
func Chain(h HandlerFunc, mws ...Middleware) HandlerFunc {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}
