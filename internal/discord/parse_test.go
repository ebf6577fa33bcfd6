package discord

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDefs() map[string]*discordgo.ApplicationCommand {
	lottery := &discordgo.ApplicationCommand{
		Name: "lottery",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type: discordgo.ApplicationCommandOptionSubCommand,
				Name: "buy",
				Options: []*discordgo.ApplicationCommandOption{
					{Type: discordgo.ApplicationCommandOptionInteger, Name: "amount", Required: true},
				},
			},
			{Type: discordgo.ApplicationCommandOptionSubCommand, Name: "info"},
		},
	}
	admin := &discordgo.ApplicationCommand{
		Name: "admin",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type: discordgo.ApplicationCommandOptionSubCommand,
				Name: "post",
				Options: []*discordgo.ApplicationCommandOption{
					{Type: discordgo.ApplicationCommandOptionString, Name: "message_id", Required: true},
					{Type: discordgo.ApplicationCommandOptionChannel, Name: "channel", Required: true},
				},
			},
			{
				Type: discordgo.ApplicationCommandOptionSubCommand,
				Name: "draw",
				Options: []*discordgo.ApplicationCommandOption{
					{Type: discordgo.ApplicationCommandOptionString, Name: "when"},
				},
			},
			{
				Type: discordgo.ApplicationCommandOptionSubCommand,
				Name: "give",
				Options: []*discordgo.ApplicationCommandOption{
					{Type: discordgo.ApplicationCommandOptionUser, Name: "user", Required: true},
					{Type: discordgo.ApplicationCommandOptionInteger, Name: "amount", Required: true},
				},
			},
		},
	}
	gamble := &discordgo.ApplicationCommand{
		Name: "gamble",
		Options: []*discordgo.ApplicationCommandOption{
			{Type: discordgo.ApplicationCommandOptionInteger, Name: "amount", Required: true},
		},
	}
	return map[string]*discordgo.ApplicationCommand{
		lottery.Name: lottery,
		admin.Name:   admin,
		gamble.Name:  gamble,
	}
}

func TestParsePrefix(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		wantKey     string
		wantOptions map[string]any
		wantErr     error
		wantUserErr bool
	}{
		{
			name:        "subcommand with integer",
			content:     "!lottery buy 5",
			wantKey:     "lottery buy",
			wantOptions: map[string]any{"amount": int64(5)},
		},
		{
			name:        "top-level option with thousands separator",
			content:     "!gamble 1,000",
			wantKey:     "gamble",
			wantOptions: map[string]any{"amount": int64(1000)},
		},
		{
			name:        "channel mention and string",
			content:     "!admin post 1234 <#5678>",
			wantKey:     "admin post",
			wantOptions: map[string]any{"message_id": "1234", "channel": "5678"},
		},
		{
			name:        "user mention with nickname marker",
			content:     "!admin give <@!42> -100",
			wantKey:     "admin give",
			wantOptions: map[string]any{"user": "42", "amount": int64(-100)},
		},
		{
			name:        "last string swallows the rest",
			content:     "!admin draw tomorrow at 8pm",
			wantKey:     "admin draw",
			wantOptions: map[string]any{"when": "tomorrow at 8pm"},
		},
		{
			name:        "optional option omitted",
			content:     "!lottery info",
			wantKey:     "lottery info",
			wantOptions: map[string]any{},
		},
		{name: "no prefix", content: "hello there", wantErr: ErrNotACommand},
		{name: "unknown command", content: "!dance", wantErr: ErrNotACommand},
		{name: "missing required", content: "!lottery buy", wantUserErr: true},
		{name: "bad integer", content: "!lottery buy lots", wantUserErr: true},
		{name: "unknown subcommand", content: "!lottery steal", wantUserErr: true},
		{name: "bad mention", content: "!admin give bob 5", wantUserErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, err := ParsePrefix(tt.content, "!", testDefs())
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			if tt.wantUserErr {
				var userErr *UserError
				assert.ErrorAs(t, err, &userErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantKey, cmd.Key())
			assert.Equal(t, SourcePrefix, cmd.Source)
			if diff := cmp.Diff(tt.wantOptions, cmd.Options); diff != "" {
				t.Errorf("options mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestConvertOption_Choices(t *testing.T) {
	opt := &discordgo.ApplicationCommandOption{
		Type: discordgo.ApplicationCommandOptionString,
		Name: "item",
		Choices: []*discordgo.ApplicationCommandOptionChoice{
			{Name: "EXP Tonic", Value: "exp_tonic"},
		},
	}

	v, err := convertOption(opt, "EXP_TONIC")
	require.NoError(t, err)
	assert.Equal(t, "exp_tonic", v)

	_, err = convertOption(opt, "potion")
	assert.Error(t, err)
}
