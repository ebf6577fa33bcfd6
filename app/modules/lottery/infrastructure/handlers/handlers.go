package lotteryhandlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	lotteryservice "github.com/Black-And-White-Club/malta-bot/app/modules/lottery/application"
	lotterydomain "github.com/Black-And-White-Club/malta-bot/app/modules/lottery/domain"
	progressiondb "github.com/Black-And-White-Club/malta-bot/app/modules/progression/infrastructure/repositories"
	"github.com/Black-And-White-Club/malta-bot/internal/discord"
	"github.com/Black-And-White-Club/malta-bot/internal/events"
	"github.com/Black-And-White-Club/malta-bot/internal/observability/attr"
	"github.com/bwmarrin/discordgo"
	"go.opentelemetry.io/otel/trace"
)

// Handlers defines the lottery command and event handlers.
type Handlers interface {
	HandleBuy(ctx context.Context, cmd *discord.Command) (*discord.Response, error)
	HandleInfo(ctx context.Context, cmd *discord.Command) (*discord.Response, error)
	HandleHistory(ctx context.Context, cmd *discord.Command) (*discord.Response, error)

	HandleDrawn(ctx context.Context, payload *events.LotteryDrawnPayloadV1) error
}

// LotteryHandlers implements the Handlers interface.
type LotteryHandlers struct {
	service   lotteryservice.Service
	messenger discord.Messenger
	channelID string
	location  *time.Location
	logger    *slog.Logger
	tracer    trace.Tracer
}

// NewLotteryHandlers creates a new LotteryHandlers instance. Results are
// announced on channelID.
func NewLotteryHandlers(
	service lotteryservice.Service,
	messenger discord.Messenger,
	channelID string,
	location *time.Location,
	logger *slog.Logger,
	tracer trace.Tracer,
) Handlers {
	if location == nil {
		location = time.UTC
	}
	return &LotteryHandlers{
		service:   service,
		messenger: messenger,
		channelID: channelID,
		location:  location,
		logger:    logger,
		tracer:    tracer,
	}
}

// HandleBuy answers /lottery buy amount.
func (h *LotteryHandlers) HandleBuy(ctx context.Context, cmd *discord.Command) (*discord.Response, error) {
	amount, ok := cmd.Int("amount")
	if !ok {
		return nil, discord.Userf("Tell me how many tickets to buy, e.g. `/lottery buy amount:5`.")
	}

	rules := h.service.Rules()
	res, err := h.service.Buy(ctx, cmd.User.ID, int(amount))
	switch {
	case errors.Is(err, progressiondb.ErrNotFound):
		return nil, discord.Userf("You have no gold yet. Chat a little to earn some!")
	case errors.Is(err, lotterydomain.ErrInvalidTicketCount):
		return nil, discord.Userf("You need to buy at least one ticket.")
	case errors.Is(err, lotterydomain.ErrTicketLimit):
		return nil, discord.Userf("You can hold at most %d tickets per round.", rules.MaxTickets)
	case errors.Is(err, lotterydomain.ErrNotEnoughGold):
		return nil, discord.Userf("%d tickets cost %d gold, which you don't have.", amount, rules.Cost(int(amount)))
	case err != nil:
		return nil, err
	}

	embed := discord.NewEmbed("🎟️ Tickets bought",
		fmt.Sprintf("%s bought **%d** ticket(s) for %d gold.", discord.Mention(cmd.User.ID), res.Bought, res.Cost),
		discord.ColorGold)
	embed.Fields = []*discordgo.MessageEmbedField{
		discord.Field("Your tickets", fmt.Sprint(res.UserTickets), true),
		discord.Field("Pot", fmt.Sprintf("%d gold", res.Pot), true),
		discord.Field("Balance", fmt.Sprintf("%d gold", res.Balance), true),
	}
	return discord.EmbedReply(embed), nil
}

// HandleInfo answers /lottery info.
func (h *LotteryHandlers) HandleInfo(ctx context.Context, cmd *discord.Command) (*discord.Response, error) {
	info, err := h.service.Info(ctx, cmd.User.ID)
	if err != nil {
		return nil, err
	}

	next := "not scheduled"
	if !info.NextDraw.IsZero() {
		next = fmt.Sprintf("<t:%d:F> (<t:%d:R>)", info.NextDraw.Unix(), info.NextDraw.Unix())
	}

	embed := discord.NewEmbed("🎰 Lottery", fmt.Sprintf("Tickets cost %d gold.", h.service.Rules().TicketPrice), discord.ColorGold)
	embed.Fields = []*discordgo.MessageEmbedField{
		discord.Field("Pot", fmt.Sprintf("%d gold", info.Pot), true),
		discord.Field("Tickets sold", fmt.Sprint(info.TotalTickets), true),
		discord.Field("Your tickets", fmt.Sprint(info.UserTickets), true),
		discord.Field("Your odds", fmt.Sprintf("%.2f%%", info.Odds*100), true),
		discord.Field("Next draw", next, false),
	}
	return discord.EmbedReply(embed), nil
}

// HandleHistory answers /lottery history.
func (h *LotteryHandlers) HandleHistory(ctx context.Context, _ *discord.Command) (*discord.Response, error) {
	rounds, err := h.service.History(ctx, lotterydomain.DefaultHistorySize)
	if err != nil {
		return nil, err
	}
	if len(rounds) == 0 {
		return discord.Ephemeral("No lottery has been drawn yet."), nil
	}

	var b strings.Builder
	for _, r := range rounds {
		date := r.DrawnAt.In(h.location).Format("02 Jan 2006")
		if r.WinnerUserID == "" {
			fmt.Fprintf(&b, "**%s** · no tickets, %d gold rolled over\n", date, r.Pot)
			continue
		}
		fmt.Fprintf(&b, "**%s** · %s won %d gold (%d tickets sold)\n", date, discord.Mention(r.WinnerUserID), r.Pot, r.TotalTickets)
	}
	return discord.EmbedReply(discord.NewEmbed("📜 Lottery history", b.String(), discord.ColorGold)), nil
}

// HandleDrawn announces a draw on the lottery channel.
func (h *LotteryHandlers) HandleDrawn(ctx context.Context, payload *events.LotteryDrawnPayloadV1) error {
	_, err := h.messenger.Send(ctx, h.channelID, &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{drawnEmbed(payload)},
	})
	if errors.Is(err, discord.ErrNoChannel) {
		h.logger.WarnContext(ctx, "No lottery channel configured, draw not announced",
			attr.ExtractCorrelationID(ctx),
			attr.String("round_id", payload.RoundID),
		)
		return nil
	}
	return err
}

func drawnEmbed(p *events.LotteryDrawnPayloadV1) *discordgo.MessageEmbed {
	if p.RolledOver {
		e := discord.NewEmbed("🎰 No winner this week",
			fmt.Sprintf("Nobody bought a ticket. The %d gold pot rolls over to the next round!", p.Pot),
			discord.ColorGrey)
		return discord.WithFooter(e, "Round "+p.RoundID, p.DrawnAt)
	}

	e := discord.NewEmbed("🎉 Lottery winner!",
		fmt.Sprintf("%s wins **%d gold** with %d of %d tickets!", discord.Mention(p.WinnerUserID), p.Pot, p.WinnerTickets, p.TotalTickets),
		discord.ColorGold)
	e.Fields = []*discordgo.MessageEmbedField{
		discord.Field("Players", fmt.Sprint(p.Participants), true),
		discord.Field("Odds", fmt.Sprintf("%.2f%%", lotterydomain.Odds(p.WinnerTickets, p.TotalTickets)*100), true),
	}
	return discord.WithFooter(e, "Round "+p.RoundID, p.DrawnAt)
}
