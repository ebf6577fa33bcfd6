package adminhandlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	adminservice "github.com/Black-And-White-Club/malta-bot/app/modules/admin/application"
	"github.com/Black-And-White-Club/malta-bot/internal/clock"
	"github.com/Black-And-White-Club/malta-bot/internal/discord"
	"github.com/Black-And-White-Club/malta-bot/internal/eventbus"
	"github.com/bwmarrin/discordgo"
	"go.opentelemetry.io/otel/trace"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Handlers defines the admin command handlers.
type Handlers interface {
	HandlePost(ctx context.Context, cmd *discord.Command) (*discord.Response, error)
	HandleGive(ctx context.Context, cmd *discord.Command) (*discord.Response, error)
	HandleExport(ctx context.Context, cmd *discord.Command) (*discord.Response, error)
	HandleDraw(ctx context.Context, cmd *discord.Command) (*discord.Response, error)
	HandleWeather(ctx context.Context, cmd *discord.Command) (*discord.Response, error)
	HandleJobs(ctx context.Context, cmd *discord.Command) (*discord.Response, error)
}

// AdminHandlers implements the Handlers interface.
type AdminHandlers struct {
	service adminservice.Service
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewAdminHandlers creates a new AdminHandlers instance.
func NewAdminHandlers(service adminservice.Service, logger *slog.Logger, tracer trace.Tracer) Handlers {
	return &AdminHandlers{
		service: service,
		logger:  logger,
		tracer:  tracer,
	}
}

// HandlePost answers /admin post message_id channel [source].
func (h *AdminHandlers) HandlePost(ctx context.Context, cmd *discord.Command) (*discord.Response, error) {
	messageID, _ := cmd.String("message_id")
	target, _ := cmd.String("channel")
	source, ok := cmd.String("source")
	if !ok || source == "" {
		source = cmd.ChannelID
	}

	err := h.service.CopyMessage(ctx, source, messageID, target)
	if errors.Is(err, adminservice.ErrEmptyMessage) {
		return nil, discord.Userf("That message has nothing I can copy.")
	}
	if err != nil {
		return nil, err
	}
	return discord.Ephemeral("Posted message %s in %s.", messageID, discord.ChannelMention(target)), nil
}

// HandleGive answers /admin give user amount.
func (h *AdminHandlers) HandleGive(ctx context.Context, cmd *discord.Command) (*discord.Response, error) {
	userID, username := cmd.UserOr("user")
	amount, _ := cmd.Int("amount")

	grant, err := h.service.Give(ctx, userID, username, amount)
	if errors.Is(err, adminservice.ErrZeroAmount) {
		return nil, discord.Userf("Give a non-zero amount.")
	}
	if err != nil {
		return nil, err
	}

	msg := fmt.Sprintf("%s gave %d gold to %s.", discord.Mention(cmd.User.ID), grant.Applied, discord.Mention(userID))
	if grant.Applied < 0 {
		msg = fmt.Sprintf("%s took %d gold from %s.", discord.Mention(cmd.User.ID), -grant.Applied, discord.Mention(userID))
	}
	msg += fmt.Sprintf(" Balance: %d gold.", grant.Balance)
	if grant.Clamped() {
		msg += " (clamped at zero)"
	}
	return discord.Reply("%s", msg), nil
}

// HandleExport answers /admin export with an xlsx attachment.
func (h *AdminHandlers) HandleExport(ctx context.Context, _ *discord.Command) (*discord.Response, error) {
	exp, err := h.service.ExportPlayers(ctx)
	if err != nil {
		return nil, err
	}
	return &discord.Response{
		Content:   fmt.Sprintf("Exported %d players.", exp.Players),
		Ephemeral: true,
		Files: []*discordgo.File{{
			Name:        exp.Filename,
			ContentType: xlsxContentType,
			Reader:      bytes.NewReader(exp.Data),
		}},
	}, nil
}

// HandleDraw answers /admin draw [when].
func (h *AdminHandlers) HandleDraw(ctx context.Context, cmd *discord.Command) (*discord.Response, error) {
	when, _ := cmd.String("when")
	if strings.TrimSpace(when) == "" {
		res, err := h.service.DrawNow(ctx)
		if err != nil {
			return nil, err
		}
		resp := discord.Ephemeral("Lottery drawn: %d gold pot.", res.Pot)
		resp.Events = []eventbus.Result{res.Event()}
		return resp, nil
	}

	sched, err := h.service.ScheduleDraw(ctx, when, cmd.User.ID)
	switch {
	case errors.Is(err, clock.ErrNotInFuture):
		return nil, discord.Userf("%q is in the past.", when)
	case errors.Is(err, clock.ErrUnrecognized):
		return nil, discord.Userf("I couldn't understand %q. Try \"tomorrow at 8pm\" or \"in 2 hours\".", when)
	case err != nil:
		return nil, err
	}
	return discord.Ephemeral("Lottery draw scheduled for <t:%d:F> (job %d).", sched.At.Unix(), sched.JobID), nil
}

// HandleWeather answers /admin weather.
func (h *AdminHandlers) HandleWeather(ctx context.Context, _ *discord.Command) (*discord.Response, error) {
	bulletin, err := h.service.ForceWeather(ctx)
	if err != nil {
		return nil, err
	}
	resp := discord.Ephemeral("Weather advanced to %s.", bulletin.Time.String())
	resp.Events = []eventbus.Result{bulletin.Event()}
	return resp, nil
}

// HandleJobs answers /admin jobs.
func (h *AdminHandlers) HandleJobs(ctx context.Context, _ *discord.Command) (*discord.Response, error) {
	jobs, err := h.service.PendingJobs(ctx)
	if err != nil {
		return nil, err
	}
	if len(jobs) == 0 {
		return discord.Ephemeral("No jobs are queued."), nil
	}

	var b strings.Builder
	for _, j := range jobs {
		at := j.ScheduledAt
		if at == "" {
			at = "now"
		}
		fmt.Fprintf(&b, "`#%d` **%s** · %s · %s\n", j.ID, j.Kind, j.State, at)
	}
	resp := discord.EmbedReply(discord.NewEmbed("🗓️ Queued jobs", discord.Truncate(b.String(), 4000), discord.ColorGrey))
	resp.Ephemeral = true
	return resp, nil
}
