package shophandlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	progressiondb "github.com/Black-And-White-Club/malta-bot/app/modules/progression/infrastructure/repositories"
	shopservice "github.com/Black-And-White-Club/malta-bot/app/modules/shop/application"
	shopdomain "github.com/Black-And-White-Club/malta-bot/app/modules/shop/domain"
	"github.com/Black-And-White-Club/malta-bot/internal/clock"
	"github.com/Black-And-White-Club/malta-bot/internal/discord"
	"github.com/Black-And-White-Club/malta-bot/internal/eventbus"
	"github.com/Black-And-White-Club/malta-bot/internal/events"
	"go.opentelemetry.io/otel/trace"
)

// Handlers defines the shop and inventory command handlers.
type Handlers interface {
	HandleOpen(ctx context.Context, cmd *discord.Command) (*discord.Response, error)
	HandleBuy(ctx context.Context, cmd *discord.Command) (*discord.Response, error)
	HandleSell(ctx context.Context, cmd *discord.Command) (*discord.Response, error)
	HandleShow(ctx context.Context, cmd *discord.Command) (*discord.Response, error)
	HandleUse(ctx context.Context, cmd *discord.Command) (*discord.Response, error)
}

// ShopHandlers implements the Handlers interface.
type ShopHandlers struct {
	service shopservice.Service
	logger  *slog.Logger
	tracer  trace.Tracer
	clock   clock.Clock
}

// NewShopHandlers creates a new ShopHandlers instance.
func NewShopHandlers(service shopservice.Service, logger *slog.Logger, tracer trace.Tracer, clk clock.Clock) Handlers {
	if clk == nil {
		clk = clock.RealClock{}
	}
	return &ShopHandlers{
		service: service,
		logger:  logger,
		tracer:  tracer,
		clock:   clk,
	}
}

// userError maps shop failures to replies.
func userError(err error, item string, quantity int) error {
	switch {
	case errors.Is(err, progressiondb.ErrNotFound):
		return discord.Userf("You have no purse yet. Chat a little to earn some gold!")
	case errors.Is(err, shopdomain.ErrUnknownItem):
		return discord.Userf("There is no item called `%s`.", item)
	case errors.Is(err, shopdomain.ErrInvalidQuantity):
		return discord.Userf("Quantity must be between 1 and %d.", shopdomain.MaxQuantity)
	case errors.Is(err, shopdomain.ErrNotEnoughBalance):
		return discord.Userf("You can't afford that.")
	case errors.Is(err, shopdomain.ErrNotSellable):
		return discord.Userf("The shop does not buy back heirloom items.")
	case errors.Is(err, shopdomain.ErrNotUsable):
		return discord.Userf("That item can't be used.")
	case errors.Is(err, shopdomain.ErrNotEnoughItems):
		return discord.Userf("You don't have %d of that item.", quantity)
	}
	return err
}

func quantity(cmd *discord.Command) int {
	if q, ok := cmd.Int("quantity"); ok {
		return int(q)
	}
	return 1
}

func price(item shopdomain.Item) string {
	if item.Currency == shopdomain.Heirloom {
		return fmt.Sprintf("%d heirloom", item.Price)
	}
	return fmt.Sprintf("%d gold", item.Price)
}

// HandleOpen answers /shop open.
func (h *ShopHandlers) HandleOpen(_ context.Context, _ *discord.Command) (*discord.Response, error) {
	embed := discord.NewEmbed("🛒 Is-Suq", "Buy with `/shop buy`, use consumables with `/inventory use`.", discord.ColorMaltese)
	for _, item := range h.service.Catalog() {
		value := fmt.Sprintf("%s\n**%s** · %s", item.Description, price(item), item.Kind)
		if item.Usable() {
			value += " · " + item.Effect.Describe()
		}
		embed.Fields = append(embed.Fields, discord.Field(item.Display(), value, false))
	}
	return discord.EmbedReply(embed), nil
}

// HandleBuy answers /shop buy item [quantity].
func (h *ShopHandlers) HandleBuy(ctx context.Context, cmd *discord.Command) (*discord.Response, error) {
	itemID, _ := cmd.String("item")
	q := quantity(cmd)

	res, err := h.service.Buy(ctx, cmd.User.ID, itemID, q)
	if err != nil {
		return nil, userError(err, itemID, q)
	}
	return discord.Reply("%s bought %d× %s for %d %s. You now own %d (balance: %d).",
		discord.Mention(cmd.User.ID), res.Quantity, res.Item.Display(), res.Amount, res.Item.Currency, res.Owned, res.Balance), nil
}

// HandleSell answers /shop sell item [quantity].
func (h *ShopHandlers) HandleSell(ctx context.Context, cmd *discord.Command) (*discord.Response, error) {
	itemID, _ := cmd.String("item")
	q := quantity(cmd)

	res, err := h.service.Sell(ctx, cmd.User.ID, itemID, q)
	if err != nil {
		return nil, userError(err, itemID, q)
	}
	return discord.Reply("%s sold %d× %s for %d gold. %d left (balance: %d).",
		discord.Mention(cmd.User.ID), res.Quantity, res.Item.Display(), res.Amount, res.Owned, res.Balance), nil
}

// HandleShow answers /inventory show [user].
func (h *ShopHandlers) HandleShow(ctx context.Context, cmd *discord.Command) (*discord.Response, error) {
	userID, _ := cmd.UserOr("user")

	holdings, err := h.service.Inventory(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(holdings) == 0 {
		return discord.Ephemeral("%s has no items.", discord.Mention(userID)), nil
	}

	var b strings.Builder
	for _, hl := range holdings {
		fmt.Fprintf(&b, "%s × **%d**", hl.Item.Display(), hl.Quantity)
		if hl.Item.Usable() {
			fmt.Fprintf(&b, " (%s)", hl.Item.Effect.Describe())
		}
		b.WriteString("\n")
	}
	return discord.EmbedReply(discord.NewEmbed("🎒 Inventory", discord.Mention(userID)+"\n\n"+b.String(), discord.ColorBlue)), nil
}

// HandleUse answers /inventory use item. A level gain is published like a
// message level-up.
func (h *ShopHandlers) HandleUse(ctx context.Context, cmd *discord.Command) (*discord.Response, error) {
	itemID, _ := cmd.String("item")

	res, err := h.service.Use(ctx, cmd.User.ID, itemID)
	if err != nil {
		return nil, userError(err, itemID, 1)
	}

	var text string
	switch res.Item.Effect.Type {
	case shopdomain.EffectExp:
		text = fmt.Sprintf("%s used %s and gained **%d EXP**.", discord.Mention(cmd.User.ID), res.Item.Display(), res.ExpGranted)
	case shopdomain.EffectDailyBoost:
		text = fmt.Sprintf("%s used %s. Daily multiplier is now **×%.2f**.", discord.Mention(cmd.User.ID), res.Item.Display(), res.DailyMultiplier)
	}
	resp := discord.Reply("%s %d left.", text, res.Remaining)

	if res.LevelUp.Leveled() {
		username := res.LevelUp.Username
		if username == "" {
			username = cmd.User.Username
		}
		resp.Events = []eventbus.Result{{
			Topic: events.ProgressionLevelUpV1,
			Payload: events.LevelUpPayloadV1{
				UserID:    cmd.User.ID,
				Username:  username,
				OldLevel:  res.LevelUp.OldLevel,
				NewLevel:  res.LevelUp.NewLevel,
				GoldBonus: res.LevelUp.GoldBonus,
				ChannelID: cmd.ChannelID,
				GuildID:   cmd.GuildID,
				Source:    "item",
				At:        h.clock.NowUTC(),
			},
		}}
	}
	return resp, nil
}
