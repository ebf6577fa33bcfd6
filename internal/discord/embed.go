package discord

import (
	"time"

	"github.com/bwmarrin/discordgo"
)

// Embed colours shared by the modules.
const (
	ColorGold    = 0xF1C40F
	ColorGreen   = 0x2ECC71
	ColorRed     = 0xE74C3C
	ColorBlue    = 0x3498DB
	ColorPurple  = 0x9B59B6
	ColorGrey    = 0x95A5A6
	ColorMaltese = 0xCF142B
)

// NewEmbed starts an embed.
func NewEmbed(title, description string, color int) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       title,
		Description: description,
		Color:       color,
	}
}

// Field builds an embed field.
func Field(name, value string, inline bool) *discordgo.MessageEmbedField {
	return &discordgo.MessageEmbedField{Name: name, Value: value, Inline: inline}
}

// WithFooter sets the footer text and timestamp.
func WithFooter(e *discordgo.MessageEmbed, text string, at time.Time) *discordgo.MessageEmbed {
	e.Footer = &discordgo.MessageEmbedFooter{Text: text}
	if !at.IsZero() {
		e.Timestamp = at.UTC().Format(time.RFC3339)
	}
	return e
}

// Mention formats a user mention.
func Mention(userID string) string {
	return "<@" + userID + ">"
}

// ChannelMention formats a channel mention.
func ChannelMention(channelID string) string {
	return "<#" + channelID + ">"
}

// Truncate shortens s to at most n runes, marking the cut with an ellipsis.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
