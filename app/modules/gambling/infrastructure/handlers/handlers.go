package gamblinghandlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	gamblingservice "github.com/Black-And-White-Club/malta-bot/app/modules/gambling/application"
	gamblingdomain "github.com/Black-And-White-Club/malta-bot/app/modules/gambling/domain"
	gamblingdb "github.com/Black-And-White-Club/malta-bot/app/modules/gambling/infrastructure/repositories"
	progressiondb "github.com/Black-And-White-Club/malta-bot/app/modules/progression/infrastructure/repositories"
	"github.com/Black-And-White-Club/malta-bot/internal/discord"
	"github.com/bwmarrin/discordgo"
	"go.opentelemetry.io/otel/trace"
)

// Handlers defines the gambling command handlers.
type Handlers interface {
	HandleGamble(ctx context.Context, cmd *discord.Command) (*discord.Response, error)
	HandleStats(ctx context.Context, cmd *discord.Command) (*discord.Response, error)
}

// GamblingHandlers implements the Handlers interface.
type GamblingHandlers struct {
	service gamblingservice.Service
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewGamblingHandlers creates a new GamblingHandlers instance.
func NewGamblingHandlers(service gamblingservice.Service, logger *slog.Logger, tracer trace.Tracer) Handlers {
	return &GamblingHandlers{
		service: service,
		logger:  logger,
		tracer:  tracer,
	}
}

// HandleGamble answers /gamble amount.
func (h *GamblingHandlers) HandleGamble(ctx context.Context, cmd *discord.Command) (*discord.Response, error) {
	amount, ok := cmd.Int("amount")
	if !ok {
		return nil, discord.Userf("Tell me how much gold to bet, e.g. `/gamble amount:100`.")
	}

	table := h.service.Table()
	res, err := h.service.Gamble(ctx, cmd.User.ID, amount)
	switch {
	case errors.Is(err, progressiondb.ErrNotFound):
		return nil, discord.Userf("You have no gold yet. Chat a little to earn some!")
	case errors.Is(err, gamblingdomain.ErrBetTooSmall):
		return nil, discord.Userf("The minimum bet is %d gold.", table.MinBet)
	case errors.Is(err, gamblingdomain.ErrBetTooLarge):
		return nil, discord.Userf("The maximum bet is %d gold.", table.MaxBet)
	case errors.Is(err, gamblingdomain.ErrNotEnoughGold):
		return nil, discord.Userf("You don't have %d gold to bet.", amount)
	case err != nil:
		return nil, err
	}

	var embed *discordgo.MessageEmbed
	if res.Won {
		embed = discord.NewEmbed("🪙 Heads! You win", fmt.Sprintf("%s won **%d gold**.", discord.Mention(res.UserID), res.Amount), discord.ColorGreen)
	} else {
		embed = discord.NewEmbed("🪙 Tails! You lose", fmt.Sprintf("%s lost **%d gold**.", discord.Mention(res.UserID), res.Amount), discord.ColorRed)
	}
	embed.Fields = []*discordgo.MessageEmbedField{
		discord.Field("Balance", fmt.Sprintf("%d gold", res.Balance), true),
		discord.Field("Streak", streakText(res.Record.CurrentStreak), true),
	}
	return discord.EmbedReply(embed), nil
}

// HandleStats answers /gamblestats [user].
func (h *GamblingHandlers) HandleStats(ctx context.Context, cmd *discord.Command) (*discord.Response, error) {
	userID, _ := cmd.UserOr("user")

	rec, err := h.service.GetStats(ctx, userID)
	if err != nil {
		if errors.Is(err, gamblingdb.ErrNotFound) {
			return nil, discord.Userf("%s has never gambled.", discord.Mention(userID))
		}
		return nil, err
	}

	embed := discord.NewEmbed("Gambling record", discord.Mention(userID), discord.ColorGold)
	embed.Fields = []*discordgo.MessageEmbedField{
		discord.Field("Games", fmt.Sprint(rec.GamesPlayed), true),
		discord.Field("Wins / Losses", fmt.Sprintf("%d / %d", rec.Wins, rec.Losses), true),
		discord.Field("Win rate", fmt.Sprintf("%.1f%%", rec.WinRate()*100), true),
		discord.Field("Wagered", fmt.Sprint(rec.TotalWagered), true),
		discord.Field("Net", fmt.Sprintf("%+d", rec.NetWinnings), true),
		discord.Field("Biggest win / loss", fmt.Sprintf("%d / %d", rec.BiggestWin, rec.BiggestLoss), true),
		discord.Field("Current streak", streakText(rec.CurrentStreak), true),
		discord.Field("Best streak", fmt.Sprintf("%d wins", rec.BestStreak), true),
	}
	return discord.EmbedReply(embed), nil
}

func streakText(streak int64) string {
	switch {
	case streak > 0:
		return fmt.Sprintf("%d win(s)", streak)
	case streak < 0:
		return fmt.Sprintf("%d loss(es)", -streak)
	}
	return "none"
}
