package progressionhandlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	progressionservice "github.com/Black-And-White-Club/malta-bot/app/modules/progression/application"
	progressiondomain "github.com/Black-And-White-Club/malta-bot/app/modules/progression/domain"
	progressiondb "github.com/Black-And-White-Club/malta-bot/app/modules/progression/infrastructure/repositories"
	"github.com/Black-And-White-Club/malta-bot/internal/clock"
	"github.com/Black-And-White-Club/malta-bot/internal/discord"
	"github.com/Black-And-White-Club/malta-bot/internal/eventbus"
	"github.com/Black-And-White-Club/malta-bot/internal/events"
	"github.com/Black-And-White-Club/malta-bot/internal/observability/attr"
	"github.com/bwmarrin/discordgo"
	"go.opentelemetry.io/otel/trace"
)

// Config holds the channels and roles the handlers post to.
type Config struct {
	GuildID          string
	LevelUpChannelID string
	GeneralChannelID string
	// LevelRoles maps a level to the role granted on reaching it.
	LevelRoles map[int]string
	Location   *time.Location
}

// ProgressionHandlers implements the Handlers interface.
type ProgressionHandlers struct {
	service   progressionservice.Service
	messenger discord.Messenger
	logger    *slog.Logger
	tracer    trace.Tracer
	clock     clock.Clock
	cfg       Config
}

// NewProgressionHandlers creates a new ProgressionHandlers instance.
func NewProgressionHandlers(
	service progressionservice.Service,
	messenger discord.Messenger,
	logger *slog.Logger,
	tracer trace.Tracer,
	clk clock.Clock,
	cfg Config,
) Handlers {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if clk == nil {
		clk = clock.RealClock{}
	}
	return &ProgressionHandlers{
		service:   service,
		messenger: messenger,
		logger:    logger,
		tracer:    tracer,
		clock:     clk,
		cfg:       cfg,
	}
}

// HandleStats answers /crpg stats [user].
func (h *ProgressionHandlers) HandleStats(ctx context.Context, cmd *discord.Command) (*discord.Response, error) {
	userID, username := cmd.UserOr("user")

	stats, err := h.service.GetStats(ctx, userID)
	if err != nil {
		if errors.Is(err, progressiondb.ErrNotFound) {
			return nil, discord.Userf("%s has not earned any EXP yet.", discord.Mention(userID))
		}
		return nil, err
	}
	if stats.Username == "" {
		stats.Username = username
	}
	return discord.EmbedReply(statsEmbed(stats, h.clock.Now())), nil
}

// HandleLeaderboard answers /crpg leaderboard [size].
func (h *ProgressionHandlers) HandleLeaderboard(ctx context.Context, cmd *discord.Command) (*discord.Response, error) {
	size, _ := cmd.Int("size")

	entries, err := h.service.Leaderboard(ctx, int(size))
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return discord.Reply("Nobody has earned any EXP yet. Start chatting!"), nil
	}
	return discord.EmbedReply(leaderboardEmbed(entries, h.clock.Now())), nil
}

// HandleRetire answers /crpg retire confirm:<bool>.
func (h *ProgressionHandlers) HandleRetire(ctx context.Context, cmd *discord.Command) (*discord.Response, error) {
	confirm, _ := cmd.Bool("confirm")

	res, err := h.service.Retire(ctx, cmd.User.ID, confirm)
	switch {
	case errors.Is(err, progressiondb.ErrNotFound):
		return nil, discord.Userf("You have no character yet. Chat a little first!")
	case errors.Is(err, progressiondomain.ErrBelowRetireLevel):
		return nil, discord.Userf("You must reach level %d before you can retire.", progressiondomain.MinRetireLevel)
	case errors.Is(err, progressiondomain.ErrRetireNotConfirm):
		return nil, discord.Userf("Retiring resets you to level 1. Run `/crpg retire confirm:true` to go ahead.")
	case err != nil:
		return nil, err
	}

	if res.Username == "" {
		res.Username = cmd.User.Username
	}

	embed := discord.NewEmbed("Retirement", fmt.Sprintf("%s retired at level %d.", discord.Mention(res.UserID), res.OldLevel), discord.ColorPurple)
	embed.Fields = []*discordgo.MessageEmbedField{
		discord.Field("Heirloom awarded", fmt.Sprintf("%d (total %d)", res.HeirloomAwarded, res.HeirloomTotal), true),
		discord.Field("Retirements", fmt.Sprint(res.Retirements), true),
		discord.Field("Generational multiplier", fmt.Sprintf("×%.2f", res.NewGenerationalMultiplier), true),
	}

	resp := discord.EmbedReply(embed)
	resp.Events = []eventbus.Result{{
		Topic: events.ProgressionRetiredV1,
		Payload: events.RetiredPayloadV1{
			UserID:                 res.UserID,
			Username:               res.Username,
			RetiredAtLevel:         res.OldLevel,
			HeirloomAwarded:        res.HeirloomAwarded,
			Retirements:            res.Retirements,
			GenerationalMultiplier: res.NewGenerationalMultiplier,
			At:                     h.clock.NowUTC(),
		},
	}}
	return resp, nil
}

// HandleMultiplier answers /crpg multiplier.
func (h *ProgressionHandlers) HandleMultiplier(ctx context.Context, cmd *discord.Command) (*discord.Response, error) {
	stats, err := h.service.GetStats(ctx, cmd.User.ID)
	if err != nil {
		if errors.Is(err, progressiondb.ErrNotFound) {
			return nil, discord.Userf("You have no character yet. Chat a little first!")
		}
		return nil, err
	}
	return discord.EmbedReply(multiplierEmbed(stats, h.cfg.Location)), nil
}

// HandleMessage awards EXP for an ordinary guild message.
func (h *ProgressionHandlers) HandleMessage(ctx context.Context, msg *discord.Message) ([]eventbus.Result, error) {
	res, err := h.service.AwardMessage(ctx, progressionservice.MessageInput{
		MessageID: msg.ID,
		UserID:    msg.Author.ID,
		Username:  msg.Author.Username,
		GuildID:   msg.GuildID,
		ChannelID: msg.ChannelID,
		Content:   msg.Content,
		Bot:       msg.Bot,
	})
	if err != nil {
		return nil, err
	}
	if !res.Awarded || res.LevelsGained() <= 0 {
		return nil, nil
	}

	return []eventbus.Result{{
		Topic: events.ProgressionLevelUpV1,
		Payload: events.LevelUpPayloadV1{
			UserID:    msg.Author.ID,
			Username:  msg.Author.Username,
			OldLevel:  res.OldLevel,
			NewLevel:  res.NewLevel,
			GoldBonus: res.LevelBonus,
			ChannelID: msg.ChannelID,
			GuildID:   msg.GuildID,
			Source:    "message",
			At:        h.clock.NowUTC(),
		},
	}}, nil
}

// HandleLevelUp announces level-ups and grants level roles.
func (h *ProgressionHandlers) HandleLevelUp(ctx context.Context, payload *events.LevelUpPayloadV1) error {
	channelID := h.cfg.LevelUpChannelID
	if channelID == "" {
		channelID = payload.ChannelID
	}

	embed := discord.NewEmbed("Level up!", levelUpText(payload), discord.ColorGold)
	if _, err := h.messenger.Send(ctx, channelID, &discordgo.MessageSend{Embeds: []*discordgo.MessageEmbed{embed}}); err != nil {
		if errors.Is(err, discord.ErrNoChannel) {
			h.logger.DebugContext(ctx, "No level-up channel configured", attr.ExtractCorrelationID(ctx))
		} else {
			return err
		}
	}

	guildID := payload.GuildID
	if guildID == "" {
		guildID = h.cfg.GuildID
	}
	if guildID == "" {
		return nil
	}
	for _, roleID := range RolesBetween(h.cfg.LevelRoles, payload.OldLevel, payload.NewLevel) {
		if err := h.messenger.AddRole(ctx, guildID, payload.UserID, roleID); err != nil {
			h.logger.WarnContext(ctx, "Failed to grant level role",
				attr.ExtractCorrelationID(ctx),
				attr.UserID(payload.UserID),
				attr.String("role_id", roleID),
				attr.Error(err),
			)
		}
	}
	return nil
}

// HandleRetired announces retirements.
func (h *ProgressionHandlers) HandleRetired(ctx context.Context, payload *events.RetiredPayloadV1) error {
	text := fmt.Sprintf("%s has retired at level %d after %d generation(s). Their descendants now earn ×%.2f.",
		discord.Mention(payload.UserID), payload.RetiredAtLevel, payload.Retirements, payload.GenerationalMultiplier)
	if payload.HeirloomAwarded > 0 {
		text += fmt.Sprintf(" They passed down %d heirloom point(s).", payload.HeirloomAwarded)
	}

	embed := discord.WithFooter(discord.NewEmbed("A hero retires", text, discord.ColorPurple), "Malta RPG", payload.At)
	if _, err := h.messenger.Send(ctx, h.cfg.LevelUpChannelID, &discordgo.MessageSend{Embeds: []*discordgo.MessageEmbed{embed}}); err != nil {
		if errors.Is(err, discord.ErrNoChannel) {
			return nil
		}
		return err
	}
	return nil
}

// HandleHappyHour announces the start of Happy Hour.
func (h *ProgressionHandlers) HandleHappyHour(ctx context.Context, payload *events.HappyHourPayloadV1) error {
	text := fmt.Sprintf("All EXP and gold are multiplied by ×%g until %s!",
		payload.Multiplier, payload.EndsAt.In(h.cfg.Location).Format("15:04"))

	embed := discord.NewEmbed("🍻 Happy Hour has begun", text, discord.ColorMaltese)
	if _, err := h.messenger.Send(ctx, h.cfg.GeneralChannelID, &discordgo.MessageSend{Embeds: []*discordgo.MessageEmbed{embed}}); err != nil {
		if errors.Is(err, discord.ErrNoChannel) {
			h.logger.DebugContext(ctx, "No general channel configured for Happy Hour", attr.ExtractCorrelationID(ctx))
			return nil
		}
		return err
	}
	return nil
}

// RolesBetween returns the role ids for levels in (from, to], lowest level first.
func RolesBetween(roles map[int]string, from, to int) []string {
	levels := make([]int, 0, len(roles))
	for level := range roles {
		if level > from && level <= to {
			levels = append(levels, level)
		}
	}
	sort.Ints(levels)

	out := make([]string, 0, len(levels))
	for _, level := range levels {
		if id := roles[level]; id != "" {
			out = append(out, id)
		}
	}
	return out
}

func levelUpText(p *events.LevelUpPayloadV1) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s reached **level %d**", discord.Mention(p.UserID), p.NewLevel)
	if gained := p.NewLevel - p.OldLevel; gained > 1 {
		fmt.Fprintf(&b, " (+%d levels)", gained)
	}
	b.WriteString("!")
	if p.GoldBonus > 0 {
		fmt.Fprintf(&b, " Bonus: **%d gold**.", p.GoldBonus)
	}
	if p.NewLevel >= progressiondomain.MaxLevel {
		b.WriteString(" That is the level cap. Time to think about retirement.")
	}
	return b.String()
}
