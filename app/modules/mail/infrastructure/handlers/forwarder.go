package mailhandlers

import (
	"context"
	"fmt"
	"log/slog"

	mailservice "github.com/Black-And-White-Club/malta-bot/app/modules/mail/application"
	maildomain "github.com/Black-And-White-Club/malta-bot/app/modules/mail/domain"
	"github.com/Black-And-White-Club/malta-bot/internal/discord"
	"github.com/bwmarrin/discordgo"
)

// ApplicationForwarder posts application emails to the applications channel.
type ApplicationForwarder struct {
	messenger discord.Messenger
	channelID string
	logger    *slog.Logger
}

var _ mailservice.Forwarder = (*ApplicationForwarder)(nil)

func NewApplicationForwarder(messenger discord.Messenger, channelID string, logger *slog.Logger) *ApplicationForwarder {
	return &ApplicationForwarder{messenger: messenger, channelID: channelID, logger: logger}
}

func (f *ApplicationForwarder) Forward(ctx context.Context, app maildomain.Application) error {
	if _, err := f.messenger.Send(ctx, f.channelID, &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{ApplicationEmbed(app)},
	}); err != nil {
		return fmt.Errorf("failed to post application: %w", err)
	}
	return nil
}

// ApplicationEmbed renders one email.
func ApplicationEmbed(app maildomain.Application) *discordgo.MessageEmbed {
	subject := app.Subject
	if subject == "" {
		subject = "(no subject)"
	}
	body := app.Body
	if body == "" {
		body = "*Empty message*"
	}

	e := discord.NewEmbed("📨 "+discord.Truncate(subject, 240), discord.Truncate(body, maildomain.MaxBody), discord.ColorBlue)
	from := app.From
	if from == "" {
		from = "unknown"
	}
	e.Fields = append(e.Fields, discord.Field("From", discord.Truncate(from, 1024), true))
	if !app.Date.IsZero() {
		e.Fields = append(e.Fields, discord.Field("Received", fmt.Sprintf("<t:%d:f>", app.Date.Unix()), true))
	}
	return discord.WithFooter(e, "Application email", app.Date)
}
