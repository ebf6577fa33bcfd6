package gamblinghandlers

import (
	"fmt"

	gamblingdomain "github.com/Black-And-White-Club/malta-bot/app/modules/gambling/domain"
	"github.com/bwmarrin/discordgo"
)

// GambleCommand is the /gamble definition for table.
func GambleCommand(table gamblingdomain.Table) *discordgo.ApplicationCommand {
	minBet := float64(table.MinBet)
	return &discordgo.ApplicationCommand{
		Name:        "gamble",
		Description: fmt.Sprintf("Flip a coin for gold (%.0f%% to win, even money)", table.WinChance*100),
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "amount",
				Description: fmt.Sprintf("Gold to bet (%d-%d)", table.MinBet, table.MaxBet),
				Required:    true,
				MinValue:    &minBet,
				MaxValue:    float64(table.MaxBet),
			},
		},
	}
}

// StatsCommand is the /gamblestats definition.
func StatsCommand() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "gamblestats",
		Description: "Gambling record",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionUser,
				Name:        "user",
				Description: "Player to look up (defaults to you)",
			},
		},
	}
}
