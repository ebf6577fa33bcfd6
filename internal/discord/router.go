package discord

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/Black-And-White-Club/malta-bot/internal/eventbus"
	"github.com/Black-And-White-Club/malta-bot/internal/observability/attr"
	"github.com/bwmarrin/discordgo"
	"go.opentelemetry.io/otel/trace"
)

const genericErrorReply = "Something went wrong while handling that command. Please try again later."

// MessageListener observes ordinary guild messages (EXP awards).
type MessageListener func(ctx context.Context, msg *Message) ([]eventbus.Result, error)

// Router dispatches slash and prefix commands to module handlers and publishes
// the events handlers return.
type Router struct {
	mu        sync.RWMutex
	defs      map[string]*discordgo.ApplicationCommand
	order     []string
	handlers  map[string]HandlerFunc
	deferred  map[string]bool
	listeners []MessageListener

	prefix    string
	publisher eventbus.Publisher
	logger    *slog.Logger
	tracer    trace.Tracer
}

// NewRouter creates a Router for the given prefix ("!").
func NewRouter(prefix string, publisher eventbus.Publisher, logger *slog.Logger, tracer trace.Tracer) *Router {
	return &Router{
		defs:      map[string]*discordgo.ApplicationCommand{},
		handlers:  map[string]HandlerFunc{},
		deferred:  map[string]bool{},
		prefix:    prefix,
		publisher: publisher,
		logger:    logger,
		tracer:    tracer,
	}
}

// Register adds a command definition and its handlers. For commands with
// subcommands, handlers is keyed by subcommand name; otherwise use the "" key.
// Middlewares wrap every handler of the command.
func (r *Router) Register(def *discordgo.ApplicationCommand, handlers map[string]HandlerFunc, mws ...Middleware) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.defs[def.Name]; exists {
		return fmt.Errorf("command %q already registered", def.Name)
	}

	if hasSubcommands(def) {
		for _, sub := range subcommandNames(def) {
			if _, ok := handlers[sub]; !ok {
				return fmt.Errorf("command %q: no handler for subcommand %q", def.Name, sub)
			}
		}
	} else if _, ok := handlers[""]; !ok {
		return fmt.Errorf("command %q: no handler", def.Name)
	}

	r.defs[def.Name] = def
	r.order = append(r.order, def.Name)
	for sub, h := range handlers {
		r.handlers[commandKey(def.Name, sub)] = Chain(h, mws...)
	}
	return nil
}

// Defer marks command keys ("admin export") whose slash replies are
// acknowledged first and then edited in once the handler returns, so the
// handler may run past Discord's three second response window.
func (r *Router) Defer(keys ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, k := range keys {
		r.deferred[k] = true
	}
}

func (r *Router) isDeferred(key string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.deferred[key]
}

// AddMessageListener registers a listener for non-command guild messages.
func (r *Router) AddMessageListener(l MessageListener) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners = append(r.listeners, l)
}

// Commands returns the definitions in registration order.
func (r *Router) Commands() []*discordgo.ApplicationCommand {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*discordgo.ApplicationCommand, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.defs[name])
	}
	return out
}

// Dispatch runs the handler for cmd and always returns a response to send.
func (r *Router) Dispatch(ctx context.Context, cmd *Command) *Response {
	r.mu.RLock()
	h, ok := r.handlers[cmd.Key()]
	r.mu.RUnlock()
	if !ok {
		return Ephemeral("Unknown command.")
	}

	ctx = attr.WithCorrelationID(ctx, cmd.ID)
	if r.tracer != nil {
		var span trace.Span
		ctx, span = r.tracer.Start(ctx, "discord."+strings.ReplaceAll(cmd.Key(), " ", "."))
		defer span.End()
	}

	r.logger.DebugContext(ctx, "Dispatching command",
		attr.ExtractCorrelationID(ctx),
		attr.String("command", cmd.Key()),
		attr.UserID(cmd.User.ID),
		attr.String("source", string(cmd.Source)),
	)

	resp, err := h(ctx, cmd)
	if err != nil {
		var userErr *UserError
		if errors.As(err, &userErr) {
			return &Response{Content: userErr.Message, Ephemeral: true}
		}
		r.logger.ErrorContext(ctx, "Command handler failed",
			attr.ExtractCorrelationID(ctx),
			attr.String("command", cmd.Key()),
			attr.UserID(cmd.User.ID),
			attr.Error(err),
		)
		return &Response{Content: genericErrorReply, Ephemeral: true}
	}
	if resp == nil {
		resp = Ephemeral("Done.")
	}
	return resp
}

func (r *Router) publish(ctx context.Context, events []eventbus.Result) {
	if len(events) == 0 || r.publisher == nil {
		return
	}
	if err := r.publisher.PublishResults(ctx, events); err != nil {
		r.logger.ErrorContext(ctx, "Failed to publish handler events",
			attr.ExtractCorrelationID(ctx),
			attr.Int("count", len(events)),
			attr.Error(err),
		)
	}
}

// HandleInteraction answers an application command interaction.
func (r *Router) HandleInteraction(ctx context.Context, s Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	cmd := CommandFromInteraction(i.Interaction)
	ctx = attr.WithCorrelationID(ctx, cmd.ID)

	if r.isDeferred(cmd.Key()) {
		r.respondDeferred(ctx, s, i, cmd)
		return
	}

	resp := r.Dispatch(ctx, cmd)
	data := &discordgo.InteractionResponseData{
		Content: resp.Content,
		Embeds:  resp.Embeds,
		Files:   resp.Files,
	}
	if resp.Ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}

	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	}, discordgo.WithContext(ctx))
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to respond to interaction",
			attr.ExtractCorrelationID(ctx),
			attr.String("command", cmd.Key()),
			attr.Error(err),
		)
	}

	r.publish(ctx, resp.Events)
}

// respondDeferred acknowledges the interaction before running the handler and
// edits the reply in afterwards. The acknowledgement is public, so Ephemeral
// is ignored for deferred commands.
func (r *Router) respondDeferred(ctx context.Context, s Session, i *discordgo.InteractionCreate, cmd *Command) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	}, discordgo.WithContext(ctx))
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to defer interaction",
			attr.ExtractCorrelationID(ctx),
			attr.String("command", cmd.Key()),
			attr.Error(err),
		)
		return
	}

	resp := r.Dispatch(ctx, cmd)
	edit := &discordgo.WebhookEdit{
		Content: &resp.Content,
		Files:   resp.Files,
	}
	if len(resp.Embeds) > 0 {
		edit.Embeds = &resp.Embeds
	}

	if _, err := s.InteractionResponseEdit(i.Interaction, edit, discordgo.WithContext(ctx)); err != nil {
		r.logger.ErrorContext(ctx, "Failed to edit deferred interaction",
			attr.ExtractCorrelationID(ctx),
			attr.String("command", cmd.Key()),
			attr.Error(err),
		)
	}

	r.publish(ctx, resp.Events)
}

// HandleMessage routes prefix commands and feeds every other guild message to
// the listeners.
func (r *Router) HandleMessage(ctx context.Context, s Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.ID == "" {
		return
	}
	ctx = attr.WithCorrelationID(ctx, m.ID)

	msg := MessageFromCreate(m)

	if !msg.Bot {
		r.mu.RLock()
		defs := r.defs
		r.mu.RUnlock()

		cmd, err := ParsePrefix(m.Content, r.prefix, defs)
		switch {
		case err == nil:
			cmd.ID = m.ID
			cmd.GuildID = m.GuildID
			cmd.ChannelID = m.ChannelID
			cmd.User = msg.Author
			for _, u := range m.Mentions {
				cmd.Usernames[u.ID] = u.Username
			}
			r.replyToMessage(ctx, s, m, r.Dispatch(ctx, cmd))
			return
		case !errors.Is(err, ErrNotACommand):
			var userErr *UserError
			if errors.As(err, &userErr) {
				r.replyToMessage(ctx, s, m, &Response{Content: userErr.Message})
			}
			return
		}
	}

	r.mu.RLock()
	listeners := slices.Clone(r.listeners)
	r.mu.RUnlock()

	for _, l := range listeners {
		events, err := l(ctx, msg)
		if err != nil {
			r.logger.ErrorContext(ctx, "Message listener failed",
				attr.ExtractCorrelationID(ctx),
				attr.UserID(msg.Author.ID),
				attr.Error(err),
			)
			continue
		}
		r.publish(ctx, events)
	}
}

func (r *Router) replyToMessage(ctx context.Context, s Session, m *discordgo.MessageCreate, resp *Response) {
	_, err := s.ChannelMessageSendComplex(m.ChannelID, &discordgo.MessageSend{
		Content:   resp.Content,
		Embeds:    resp.Embeds,
		Files:     resp.Files,
		Reference: m.Reference(),
	}, discordgo.WithContext(ctx))
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to reply to prefix command",
			attr.ExtractCorrelationID(ctx),
			attr.Error(err),
		)
	}
	r.publish(ctx, resp.Events)
}

// CommandFromInteraction flattens an application command interaction.
func CommandFromInteraction(i *discordgo.Interaction) *Command {
	data := i.ApplicationCommandData()
	cmd := &Command{
		ID:        i.ID,
		GuildID:   i.GuildID,
		ChannelID: i.ChannelID,
		Name:      data.Name,
		Source:    SourceSlash,
		Options:   map[string]any{},
		Usernames: map[string]string{},
	}

	switch {
	case i.Member != nil && i.Member.User != nil:
		cmd.User = User{
			ID:          i.Member.User.ID,
			Username:    i.Member.User.Username,
			Roles:       i.Member.Roles,
			Permissions: i.Member.Permissions,
		}
	case i.User != nil:
		cmd.User = User{ID: i.User.ID, Username: i.User.Username}
	}

	opts := data.Options
	if len(opts) == 1 && opts[0].Type == discordgo.ApplicationCommandOptionSubCommand {
		cmd.Sub = opts[0].Name
		opts = opts[0].Options
	}
	for _, o := range opts {
		cmd.Options[o.Name] = optionValue(o)
	}

	if data.Resolved != nil {
		for id, u := range data.Resolved.Users {
			cmd.Usernames[id] = u.Username
		}
	}
	return cmd
}

func optionValue(o *discordgo.ApplicationCommandInteractionDataOption) any {
	switch o.Type {
	case discordgo.ApplicationCommandOptionInteger:
		if f, ok := o.Value.(float64); ok {
			return int64(f)
		}
	case discordgo.ApplicationCommandOptionNumber:
		if f, ok := o.Value.(float64); ok {
			return f
		}
	case discordgo.ApplicationCommandOptionBoolean:
		if b, ok := o.Value.(bool); ok {
			return b
		}
	}
	return fmt.Sprint(o.Value)
}

// MessageFromCreate converts a gateway message.
func MessageFromCreate(m *discordgo.MessageCreate) *Message {
	msg := &Message{
		ID:        m.ID,
		GuildID:   m.GuildID,
		ChannelID: m.ChannelID,
		Content:   m.Content,
	}
	if m.Author != nil {
		msg.Author = User{ID: m.Author.ID, Username: m.Author.Username}
		msg.Bot = m.Author.Bot
	}
	if m.Member != nil {
		msg.Author.Roles = m.Member.Roles
	}
	return msg
}
