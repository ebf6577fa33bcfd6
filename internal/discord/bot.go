package discord

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Black-And-White-Club/malta-bot/internal/observability/attr"
	"github.com/bwmarrin/discordgo"
)

// Bot owns the gateway session and feeds events to the Router.
type Bot struct {
	session *discordgo.Session
	router  *Router
	logger  *slog.Logger
	appID   string
	guildID string

	mu  sync.RWMutex
	ctx context.Context
}

// NewBot creates the session. Nothing connects until Open.
func NewBot(token, appID, guildID string, router *Router, logger *slog.Logger) (*Bot, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsMessageContent

	b := &Bot{
		session: session,
		router:  router,
		logger:  logger.With(attr.String("component", "discord")),
		appID:   appID,
		guildID: guildID,
		ctx:     context.Background(),
	}

	session.AddHandler(b.onReady)
	session.AddHandler(func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		b.router.HandleInteraction(b.context(), s, i)
	})
	session.AddHandler(func(s *discordgo.Session, m *discordgo.MessageCreate) {
		if s.State != nil && s.State.User != nil && m.Author != nil && m.Author.ID == s.State.User.ID {
			return
		}
		b.router.HandleMessage(b.context(), s, m)
	})

	return b, nil
}

// Messenger returns a Messenger backed by this bot's session.
func (b *Bot) Messenger() Messenger {
	return NewSessionMessenger(b.session)
}

func (b *Bot) context() context.Context {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.ctx
}

// Open connects to the gateway. ctx is the parent of every handler context.
func (b *Bot) Open(ctx context.Context) error {
	b.mu.Lock()
	b.ctx = ctx
	b.mu.Unlock()

	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open discord session: %w", err)
	}
	b.logger.InfoContext(ctx, "Discord session opened")
	return nil
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	ctx := b.context()
	appID := b.appID
	if appID == "" && r.Application != nil {
		appID = r.Application.ID
	}
	username := ""
	if r.User != nil {
		username = r.User.Username
		if appID == "" {
			appID = r.User.ID
		}
	}

	b.logger.InfoContext(ctx, "Discord ready",
		attr.String("user", username),
		attr.Int("guilds", len(r.Guilds)),
	)

	if err := SyncCommands(ctx, s, appID, b.guildID, b.router.Commands()); err != nil {
		b.logger.ErrorContext(ctx, "Failed to register application commands", attr.Error(err))
	}
}

// SyncCommands overwrites the registered application commands. An empty guildID
// registers them globally.
func SyncCommands(ctx context.Context, s Session, appID, guildID string, cmds []*discordgo.ApplicationCommand) error {
	registered, err := s.ApplicationCommandBulkOverwrite(appID, guildID, cmds, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to overwrite application commands: %w", err)
	}
	if len(registered) != len(cmds) {
		return fmt.Errorf("registered %d of %d application commands", len(registered), len(cmds))
	}
	return nil
}

// Close disconnects from the gateway.
func (b *Bot) Close() error {
	b.logger.Info("Closing Discord session")
	return b.session.Close()
}
