package adminhandlers

import "github.com/bwmarrin/discordgo"

// Command is the /admin definition.
func Command() *discordgo.ApplicationCommand {
	perms := int64(discordgo.PermissionManageServer)
	return &discordgo.ApplicationCommand{
		Name:                     "admin",
		Description:              "Server administration",
		DefaultMemberPermissions: &perms,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "post",
				Description: "Copy a message into another channel",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "message_id",
						Description: "ID of the message to copy",
						Required:    true,
					},
					{
						Type:         discordgo.ApplicationCommandOptionChannel,
						Name:         "channel",
						Description:  "Where to post it",
						Required:     true,
						ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildText, discordgo.ChannelTypeGuildNews},
					},
					{
						Type:        discordgo.ApplicationCommandOptionChannel,
						Name:        "source",
						Description: "Channel the message is in (default: this one)",
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "give",
				Description: "Give or take gold",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionUser,
						Name:        "user",
						Description: "Player",
						Required:    true,
					},
					{
						Type:        discordgo.ApplicationCommandOptionInteger,
						Name:        "amount",
						Description: "Gold to add; negative to take",
						Required:    true,
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "export",
				Description: "Download every player as a spreadsheet",
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "draw",
				Description: "Draw the lottery now or at a later time",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "when",
						Description: `e.g. "tomorrow at 8pm"; leave empty to draw now`,
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "weather",
				Description: "Advance the weather now",
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "jobs",
				Description: "List queued background jobs",
			},
		},
	}
}
