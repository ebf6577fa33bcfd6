package discord

import (
	"errors"
	"fmt"

	"github.com/Black-And-White-Club/malta-bot/internal/eventbus"
	"github.com/bwmarrin/discordgo"
)

// ErrNoChannel is returned when a message target channel is not configured.
var ErrNoChannel = errors.New("no channel configured")

// Source tells handlers where a command came from.
type Source string

const (
	SourceSlash  Source = "slash"
	SourcePrefix Source = "prefix"
)

// User is the invoking member.
type User struct {
	ID          string
	Username    string
	Roles       []string
	Permissions int64
}

// IsAdmin reports whether the member holds adminRoleID or the Administrator permission.
func (u User) IsAdmin(adminRoleID string) bool {
	if u.Permissions&discordgo.PermissionAdministrator != 0 {
		return true
	}
	if adminRoleID == "" {
		return false
	}
	for _, r := range u.Roles {
		if r == adminRoleID {
			return true
		}
	}
	return false
}

// Command is a parsed slash or prefix command.
type Command struct {
	ID        string
	GuildID   string
	ChannelID string
	User      User
	Name      string
	Sub       string
	Source    Source
	// Options holds string, int64, float64 or bool values keyed by option name.
	// User, channel and role options are stored as their snowflake id.
	Options map[string]any
	// Usernames holds display names for users mentioned in options, when known.
	Usernames map[string]string
}

// Key is the dispatch key for the command.
func (c *Command) Key() string {
	return commandKey(c.Name, c.Sub)
}

func commandKey(name, sub string) string {
	if sub == "" {
		return name
	}
	return name + " " + sub
}

func (c *Command) String(name string) (string, bool) {
	v, ok := c.Options[name].(string)
	return v, ok
}

func (c *Command) Int(name string) (int64, bool) {
	v, ok := c.Options[name].(int64)
	return v, ok
}

func (c *Command) Float(name string) (float64, bool) {
	switch v := c.Options[name].(type) {
	case float64:
		return v, true
	case int64:
		return float64(v), true
	}
	return 0, false
}

func (c *Command) Bool(name string) (bool, bool) {
	v, ok := c.Options[name].(bool)
	return v, ok
}

// UserOr returns the user option, or the invoking user when the option is absent.
func (c *Command) UserOr(name string) (id, username string) {
	if v, ok := c.String(name); ok && v != "" {
		return v, c.Usernames[v]
	}
	return c.User.ID, c.User.Username
}

// Response is a command reply. Events are published after the reply is sent.
type Response struct {
	Content   string
	Embeds    []*discordgo.MessageEmbed
	Files     []*discordgo.File
	Ephemeral bool
	Events    []eventbus.Result
}

// Reply builds a public text response.
func Reply(format string, args ...any) *Response {
	return &Response{Content: fmt.Sprintf(format, args...)}
}

// Ephemeral builds a response only the invoker sees.
func Ephemeral(format string, args ...any) *Response {
	return &Response{Content: fmt.Sprintf(format, args...), Ephemeral: true}
}

// EmbedReply builds a public embed response.
func EmbedReply(embeds ...*discordgo.MessageEmbed) *Response {
	return &Response{Embeds: embeds}
}

// UserError is an error whose message is safe to show to the invoker.
type UserError struct {
	Message string
}

func (e *UserError) Error() string { return e.Message }

// Userf builds a UserError.
func Userf(format string, args ...any) error {
	return &UserError{Message: fmt.Sprintf(format, args...)}
}

// Message is a guild message seen by message listeners.
type Message struct {
	ID        string
	GuildID   string
	ChannelID string
	Author    User
	Bot       bool
	Content   string
}
