package lotteryhandlers

import (
	lotterydomain "github.com/Black-And-White-Club/malta-bot/app/modules/lottery/domain"
	"github.com/bwmarrin/discordgo"
)

func ptr[T any](v T) *T { return &v }

// Command is the /lottery definition.
func Command(rules lotterydomain.Rules) *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "lottery",
		Description: "The weekly Maltese lottery",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "buy",
				Description: "Buy tickets for the current round",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionInteger,
						Name:        "amount",
						Description: "Number of tickets",
						Required:    true,
						MinValue:    ptr(1.0),
						MaxValue:    float64(rules.MaxTickets),
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "info",
				Description: "Pot, tickets and your odds",
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "history",
				Description: "The last drawn rounds",
			},
		},
	}
}
