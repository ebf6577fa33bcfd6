package discord

import (
	"context"

	"github.com/Black-And-White-Club/malta-bot/internal/eventbus"
	"github.com/bwmarrin/discordgo"
)

// ------------------------
// Fake Session
// ------------------------

type FakeSession struct {
	trace []string

	Sent      []*discordgo.MessageSend
	Responses []*discordgo.InteractionResponse
	Edits     []*discordgo.WebhookEdit

	ChannelMessageSendComplexFunc       func(channelID string, data *discordgo.MessageSend) (*discordgo.Message, error)
	ChannelMessageFunc                  func(channelID, messageID string) (*discordgo.Message, error)
	GuildMemberRoleAddFunc              func(guildID, userID, roleID string) error
	InteractionRespondFunc              func(i *discordgo.Interaction, resp *discordgo.InteractionResponse) error
	InteractionResponseEditFunc         func(i *discordgo.Interaction, edit *discordgo.WebhookEdit) (*discordgo.Message, error)
	ApplicationCommandBulkOverwriteFunc func(appID, guildID string, cmds []*discordgo.ApplicationCommand) ([]*discordgo.ApplicationCommand, error)
}

func (f *FakeSession) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeSession) ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.record("ChannelMessageSendComplex")
	f.Sent = append(f.Sent, data)
	if f.ChannelMessageSendComplexFunc != nil {
		return f.ChannelMessageSendComplexFunc(channelID, data)
	}
	return &discordgo.Message{ID: "sent", ChannelID: channelID, Content: data.Content}, nil
}

func (f *FakeSession) ChannelMessage(channelID, messageID string, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.record("ChannelMessage")
	if f.ChannelMessageFunc != nil {
		return f.ChannelMessageFunc(channelID, messageID)
	}
	return &discordgo.Message{ID: messageID, ChannelID: channelID}, nil
}

func (f *FakeSession) GuildMemberRoleAdd(guildID, userID, roleID string, _ ...discordgo.RequestOption) error {
	f.record("GuildMemberRoleAdd")
	if f.GuildMemberRoleAddFunc != nil {
		return f.GuildMemberRoleAddFunc(guildID, userID, roleID)
	}
	return nil
}

func (f *FakeSession) InteractionRespond(i *discordgo.Interaction, resp *discordgo.InteractionResponse, _ ...discordgo.RequestOption) error {
	f.record("InteractionRespond")
	f.Responses = append(f.Responses, resp)
	if f.InteractionRespondFunc != nil {
		return f.InteractionRespondFunc(i, resp)
	}
	return nil
}

func (f *FakeSession) InteractionResponseEdit(i *discordgo.Interaction, edit *discordgo.WebhookEdit, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.record("InteractionResponseEdit")
	f.Edits = append(f.Edits, edit)
	if f.InteractionResponseEditFunc != nil {
		return f.InteractionResponseEditFunc(i, edit)
	}
	return &discordgo.Message{ID: "edited", ChannelID: i.ChannelID}, nil
}

func (f *FakeSession) ApplicationCommandBulkOverwrite(appID, guildID string, cmds []*discordgo.ApplicationCommand, _ ...discordgo.RequestOption) ([]*discordgo.ApplicationCommand, error) {
	f.record("ApplicationCommandBulkOverwrite")
	if f.ApplicationCommandBulkOverwriteFunc != nil {
		return f.ApplicationCommandBulkOverwriteFunc(appID, guildID, cmds)
	}
	return cmds, nil
}

func (f *FakeSession) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

var _ Session = (*FakeSession)(nil)

// ------------------------
// Fake Publisher
// ------------------------

type FakePublisher struct {
	Published []eventbus.Result
	Err       error
}

func (f *FakePublisher) PublishResults(_ context.Context, results []eventbus.Result) error {
	f.Published = append(f.Published, results...)
	return f.Err
}

var _ eventbus.Publisher = (*FakePublisher)(nil)
