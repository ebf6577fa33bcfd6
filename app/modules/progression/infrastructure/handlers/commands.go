package progressionhandlers

import "github.com/bwmarrin/discordgo"

func ptr[T any](v T) *T { return &v }

// Command is the /crpg definition.
func Command() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "crpg",
		Description: "Your Malta RPG character",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "stats",
				Description: "Level, EXP, gold and multipliers",
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
				Name:        "leaderboard",
				Description: "Top players by retirements, level and EXP",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionInteger,
						Name:        "size",
						Description: "Number of players to show (1-25)",
						MinValue:    ptr(1.0),
						MaxValue:    25,
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "retire",
				Description: "Reset to level 1 for heirloom points and a permanent multiplier",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionBoolean,
						Name:        "confirm",
						Description: "Set to true to confirm the reset",
						Required:    true,
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "multiplier",
				Description: "Your current multipliers and Happy Hour",
			},
		},
	}
}
