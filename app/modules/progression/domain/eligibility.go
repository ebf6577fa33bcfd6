package progressiondomain

import (
	"strings"
	"time"
	"unicode/utf8"
)

// MinMessageLength is the shortest message content that earns anything.
const MinMessageLength = 3

// SkipReason explains why a message earned nothing.
type SkipReason string

const (
	SkipNone           SkipReason = ""
	SkipBot            SkipReason = "bot"
	SkipDirectMessage  SkipReason = "direct_message"
	SkipIgnoredChannel SkipReason = "ignored_channel"
	SkipTooShort       SkipReason = "too_short"
	SkipCooldown       SkipReason = "cooldown"
)

// MessageRules decides which messages are eligible for rewards.
type MessageRules struct {
	Cooldown        time.Duration
	IgnoredChannels map[string]struct{}
}

// NewMessageRules builds rules from a list of ignored channel ids.
func NewMessageRules(cooldown time.Duration, ignored []string) MessageRules {
	set := make(map[string]struct{}, len(ignored))
	for _, id := range ignored {
		if id = strings.TrimSpace(id); id != "" {
			set[id] = struct{}{}
		}
	}
	return MessageRules{Cooldown: cooldown, IgnoredChannels: set}
}

// Precheck rejects messages that never earn, before any player lookup.
func (r MessageRules) Precheck(bot bool, guildID, channelID, content string) SkipReason {
	switch {
	case bot:
		return SkipBot
	case guildID == "":
		return SkipDirectMessage
	}
	if _, ignored := r.IgnoredChannels[channelID]; ignored {
		return SkipIgnoredChannel
	}
	if utf8.RuneCountInString(strings.TrimSpace(content)) < MinMessageLength {
		return SkipTooShort
	}
	return SkipNone
}

// OnCooldown reports whether a message at now is inside the posting cooldown.
func (r MessageRules) OnCooldown(lastMessage *time.Time, now time.Time) bool {
	if lastMessage == nil {
		return false
	}
	return now.Sub(*lastMessage) < r.Cooldown
}
