package shophandlers

import (
	shopdomain "github.com/Black-And-White-Club/malta-bot/app/modules/shop/domain"
	"github.com/bwmarrin/discordgo"
)

func ptr[T any](v T) *T { return &v }

func itemChoices(filter func(shopdomain.Item) bool) []*discordgo.ApplicationCommandOptionChoice {
	var out []*discordgo.ApplicationCommandOptionChoice
	for _, item := range shopdomain.Catalog {
		if filter != nil && !filter(item) {
			continue
		}
		out = append(out, &discordgo.ApplicationCommandOptionChoice{Name: item.Name, Value: item.ID})
	}
	return out
}

func itemOption(filter func(shopdomain.Item) bool) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "item",
		Description: "Item",
		Required:    true,
		Choices:     itemChoices(filter),
	}
}

func quantityOption() *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionInteger,
		Name:        "quantity",
		Description: "How many (1-99, default 1)",
		MinValue:    ptr(1.0),
		MaxValue:    shopdomain.MaxQuantity,
	}
}

// ShopCommand is the /shop definition.
func ShopCommand() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "shop",
		Description: "The Maltese market",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "open",
				Description: "Browse the items for sale",
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "buy",
				Description: "Buy an item",
				Options:     []*discordgo.ApplicationCommandOption{itemOption(nil), quantityOption()},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "sell",
				Description: "Sell gold items back for half price",
				Options:     []*discordgo.ApplicationCommandOption{itemOption(shopdomain.Item.Sellable), quantityOption()},
			},
		},
	}
}

// InventoryCommand is the /inventory definition.
func InventoryCommand() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "inventory",
		Description: "Your items",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "show",
				Description: "List the items a player holds",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionUser,
						Name:        "user",
						Description: "Player to look up (defaults to you)",
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "use",
				Description: "Consume an item",
				Options:     []*discordgo.ApplicationCommandOption{itemOption(shopdomain.Item.Usable)},
			},
		},
	}
}
