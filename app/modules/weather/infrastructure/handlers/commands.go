package weatherhandlers

import (
	weatherdomain "github.com/Black-And-White-Club/malta-bot/app/modules/weather/domain"
	"github.com/bwmarrin/discordgo"
)

// maxChoices is Discord's limit on option choices.
const maxChoices = 25

func regionOption(regions []weatherdomain.Region) *discordgo.ApplicationCommandOption {
	opt := &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "region",
		Description: "Region of Malta",
		Required:    true,
	}
	for i, r := range regions {
		if i == maxChoices {
			break
		}
		opt.Choices = append(opt.Choices, &discordgo.ApplicationCommandOptionChoice{Name: r.Name, Value: r.Name})
	}
	return opt
}

// WeatherCommand is the /weather definition.
func WeatherCommand(regions []weatherdomain.Region) *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "weather",
		Description: "Weather across Malta",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "now",
				Description: "Current weather in a region",
				Options:     []*discordgo.ApplicationCommandOption{regionOption(regions)},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "all",
				Description: "Current weather in every region",
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "history",
				Description: "Temperature chart for a region",
				Options:     []*discordgo.ApplicationCommandOption{regionOption(regions)},
			},
		},
	}
}

// TimeCommand is the /time definition.
func TimeCommand() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "time",
		Description: "The time in Malta",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "now",
				Description: "Current Malta date, time and season",
			},
		},
	}
}
