package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// Session is the subset of *discordgo.Session the bot uses.
type Session interface {
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessage(channelID, messageID string, options ...discordgo.RequestOption) (*discordgo.Message, error)
	GuildMemberRoleAdd(guildID, userID, roleID string, options ...discordgo.RequestOption) error
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
	InteractionResponseEdit(interaction *discordgo.Interaction, newresp *discordgo.WebhookEdit, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ApplicationCommandBulkOverwrite(appID string, guildID string, commands []*discordgo.ApplicationCommand, options ...discordgo.RequestOption) ([]*discordgo.ApplicationCommand, error)
}

var _ Session = (*discordgo.Session)(nil)

// Messenger is what module announcers and admin commands use to talk to Discord
// outside of a command reply.
type Messenger interface {
	Send(ctx context.Context, channelID string, msg *discordgo.MessageSend) (*discordgo.Message, error)
	Fetch(ctx context.Context, channelID, messageID string) (*discordgo.Message, error)
	AddRole(ctx context.Context, guildID, userID, roleID string) error
}

// SessionMessenger implements Messenger on top of a Session.
type SessionMessenger struct {
	session Session
}

// NewSessionMessenger wraps s.
func NewSessionMessenger(s Session) *SessionMessenger {
	return &SessionMessenger{session: s}
}

var _ Messenger = (*SessionMessenger)(nil)

func (m *SessionMessenger) Send(ctx context.Context, channelID string, msg *discordgo.MessageSend) (*discordgo.Message, error) {
	if channelID == "" {
		return nil, ErrNoChannel
	}
	out, err := m.session.ChannelMessageSendComplex(channelID, msg, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to send message to %s: %w", channelID, err)
	}
	return out, nil
}

func (m *SessionMessenger) Fetch(ctx context.Context, channelID, messageID string) (*discordgo.Message, error) {
	msg, err := m.session.ChannelMessage(channelID, messageID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch message %s from %s: %w", messageID, channelID, err)
	}
	return msg, nil
}

func (m *SessionMessenger) AddRole(ctx context.Context, guildID, userID, roleID string) error {
	if err := m.session.GuildMemberRoleAdd(guildID, userID, roleID, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to add role %s to %s: %w", roleID, userID, err)
	}
	return nil
}
