// Package discordtest provides Discord test doubles shared by module tests.
package discordtest

import (
	"context"
	"sync"

	"github.com/Black-And-White-Club/malta-bot/internal/discord"
	"github.com/Black-And-White-Club/malta-bot/internal/eventbus"
	"github.com/bwmarrin/discordgo"
)

// SentMessage is one message passed to FakeMessenger.Send.
type SentMessage struct {
	ChannelID string
	Message   *discordgo.MessageSend
}

// RoleGrant is one FakeMessenger.AddRole call.
type RoleGrant struct {
	GuildID string
	UserID  string
	RoleID  string
}

// FakeMessenger records outgoing Discord traffic.
type FakeMessenger struct {
	mu    sync.Mutex
	trace []string

	Sent  []SentMessage
	Roles []RoleGrant

	SendFunc    func(ctx context.Context, channelID string, msg *discordgo.MessageSend) (*discordgo.Message, error)
	FetchFunc   func(ctx context.Context, channelID, messageID string) (*discordgo.Message, error)
	AddRoleFunc func(ctx context.Context, guildID, userID, roleID string) error
}

func NewFakeMessenger() *FakeMessenger {
	return &FakeMessenger{trace: []string{}}
}

func (f *FakeMessenger) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeMessenger) Send(ctx context.Context, channelID string, msg *discordgo.MessageSend) (*discordgo.Message, error) {
	f.mu.Lock()
	f.record("Send")
	f.Sent = append(f.Sent, SentMessage{ChannelID: channelID, Message: msg})
	fn := f.SendFunc
	f.mu.Unlock()
	if fn != nil {
		return fn(ctx, channelID, msg)
	}
	if channelID == "" {
		return nil, discord.ErrNoChannel
	}
	return &discordgo.Message{ID: "sent", ChannelID: channelID, Content: msg.Content}, nil
}

func (f *FakeMessenger) Fetch(ctx context.Context, channelID, messageID string) (*discordgo.Message, error) {
	f.mu.Lock()
	f.record("Fetch")
	fn := f.FetchFunc
	f.mu.Unlock()
	if fn != nil {
		return fn(ctx, channelID, messageID)
	}
	return &discordgo.Message{ID: messageID, ChannelID: channelID}, nil
}

func (f *FakeMessenger) AddRole(ctx context.Context, guildID, userID, roleID string) error {
	f.mu.Lock()
	f.record("AddRole")
	f.Roles = append(f.Roles, RoleGrant{GuildID: guildID, UserID: userID, RoleID: roleID})
	fn := f.AddRoleFunc
	f.mu.Unlock()
	if fn != nil {
		return fn(ctx, guildID, userID, roleID)
	}
	return nil
}

func (f *FakeMessenger) Trace() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

var _ discord.Messenger = (*FakeMessenger)(nil)

// FakePublisher collects published events.
type FakePublisher struct {
	mu        sync.Mutex
	Published []eventbus.Result
	Err       error
}

func (f *FakePublisher) PublishResults(_ context.Context, results []eventbus.Result) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Published = append(f.Published, results...)
	return f.Err
}

var _ eventbus.Publisher = (*FakePublisher)(nil)

// SlashCommand builds a Command as the router would for a slash invocation.
func SlashCommand(name, sub string, user discord.User, options map[string]any) *discord.Command {
	if options == nil {
		options = map[string]any{}
	}
	return &discord.Command{
		ID:        "interaction-" + name,
		GuildID:   "guild-1",
		ChannelID: "channel-1",
		User:      user,
		Name:      name,
		Sub:       sub,
		Source:    discord.SourceSlash,
		Options:   options,
		Usernames: map[string]string{},
	}
}
