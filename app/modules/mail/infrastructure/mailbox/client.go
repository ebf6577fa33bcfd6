// Package mailbox reads application emails over IMAP.
package mailbox

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"time"

	maildomain "github.com/Black-And-White-Club/malta-bot/app/modules/mail/domain"
	"github.com/Black-And-White-Club/malta-bot/internal/observability/attr"
	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
)

// DefaultTimeout bounds every IMAP command.
const DefaultTimeout = 30 * time.Second

// Mailbox is an open, selected mailbox.
type Mailbox interface {
	// Unseen returns unread emails whose subject matches filter. Bodies are
	// fetched with BODY.PEEK so nothing is marked read.
	Unseen(ctx context.Context, filter string) ([]maildomain.Application, error)
	MarkSeen(ctx context.Context, uids []uint32) error
	Close() error
}

// Opener connects and selects the mailbox.
type Opener func(ctx context.Context) (Mailbox, error)

// Config is the connection target.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	Mailbox  string
	Timeout  time.Duration
}

// imapConn is the subset of *client.Client used here.
type imapConn interface {
	UidSearch(criteria *imap.SearchCriteria) ([]uint32, error)
	UidFetch(seqset *imap.SeqSet, items []imap.FetchItem, ch chan *imap.Message) error
	UidStore(seqset *imap.SeqSet, item imap.StoreItem, value interface{}, ch chan *imap.Message) error
	Logout() error
}

// Client wraps a logged-in go-imap client.
type Client struct {
	conn   imapConn
	logger *slog.Logger
}

var _ Mailbox = (*Client)(nil)

// NewOpener returns an Opener dialing cfg over TLS for each poll.
func NewOpener(cfg Config, logger *slog.Logger) Opener {
	return func(ctx context.Context) (Mailbox, error) {
		return Dial(ctx, cfg, logger)
	}
}

// Dial connects over TLS, logs in and selects cfg.Mailbox.
func Dial(ctx context.Context, cfg Config, logger *slog.Logger) (*Client, error) {
	if cfg.Host == "" {
		return nil, errors.New("imap host is not configured")
	}
	if cfg.Port == 0 {
		cfg.Port = 993
	}
	if cfg.Mailbox == "" {
		cfg.Mailbox = "INBOX"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	addr := net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	dialer := &net.Dialer{Timeout: cfg.Timeout}
	c, err := client.DialWithDialerTLS(dialer, addr, &tls.Config{ServerName: cfg.Host, MinVersion: tls.VersionTLS12})
	if err != nil {
		return nil, fmt.Errorf("failed to dial imap %s: %w", addr, err)
	}
	c.Timeout = cfg.Timeout

	if err := c.Login(cfg.Username, cfg.Password); err != nil {
		_ = c.Logout()
		return nil, fmt.Errorf("imap login failed: %w", err)
	}
	if _, err := c.Select(cfg.Mailbox, false); err != nil {
		_ = c.Logout()
		return nil, fmt.Errorf("failed to select mailbox %q: %w", cfg.Mailbox, err)
	}

	logger.DebugContext(ctx, "IMAP mailbox opened",
		attr.String("host", cfg.Host),
		attr.String("mailbox", cfg.Mailbox),
	)
	return &Client{conn: c, logger: logger}, nil
}

func (c *Client) Unseen(ctx context.Context, filter string) ([]maildomain.Application, error) {
	criteria := imap.NewSearchCriteria()
	criteria.WithoutFlags = []string{imap.SeenFlag}
	uids, err := c.conn.UidSearch(criteria)
	if err != nil {
		return nil, fmt.Errorf("imap search failed: %w", err)
	}
	if len(uids) == 0 {
		return nil, nil
	}

	envelopes, err := c.fetch(ctx, uids, []imap.FetchItem{imap.FetchUid, imap.FetchEnvelope})
	if err != nil {
		return nil, err
	}

	var matched []uint32
	apps := map[uint32]maildomain.Application{}
	for _, msg := range envelopes {
		app := fromEnvelope(msg)
		if !maildomain.MatchesSubject(app.Subject, filter) {
			continue
		}
		matched = append(matched, msg.Uid)
		apps[msg.Uid] = app
	}
	if len(matched) == 0 {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	section := &imap.BodySectionName{Peek: true}
	bodies, err := c.fetch(ctx, matched, []imap.FetchItem{imap.FetchUid, section.FetchItem()})
	if err != nil {
		return nil, err
	}
	for _, msg := range bodies {
		app, ok := apps[msg.Uid]
		if !ok {
			continue
		}
		if lit := msg.GetBody(section); lit != nil {
			body, err := ExtractBody(lit)
			if err != nil {
				c.logger.WarnContext(ctx, "Failed to parse email body",
					attr.Int("uid", int(msg.Uid)),
					attr.Error(err),
				)
			}
			app.Body = body
		}
		apps[msg.Uid] = app
	}

	out := make([]maildomain.Application, 0, len(matched))
	for _, uid := range matched {
		out = append(out, apps[uid])
	}
	return out, nil
}

func (c *Client) fetch(ctx context.Context, uids []uint32, items []imap.FetchItem) ([]*imap.Message, error) {
	seqset := new(imap.SeqSet)
	seqset.AddNum(uids...)

	ch := make(chan *imap.Message, 10)
	done := make(chan error, 1)
	go func() {
		done <- c.conn.UidFetch(seqset, items, ch)
	}()

	var out []*imap.Message
	for msg := range ch {
		out = append(out, msg)
	}
	if err := <-done; err != nil {
		return nil, fmt.Errorf("imap fetch failed: %w", err)
	}
	return out, ctx.Err()
}

func (c *Client) MarkSeen(_ context.Context, uids []uint32) error {
	if len(uids) == 0 {
		return nil
	}
	seqset := new(imap.SeqSet)
	seqset.AddNum(uids...)
	item := imap.FormatFlagsOp(imap.AddFlags, true)
	if err := c.conn.UidStore(seqset, item, []interface{}{imap.SeenFlag}, nil); err != nil {
		return fmt.Errorf("failed to mark emails seen: %w", err)
	}
	return nil
}

func (c *Client) Close() error {
	return c.conn.Logout()
}

func fromEnvelope(msg *imap.Message) maildomain.Application {
	app := maildomain.Application{UID: msg.Uid}
	env := msg.Envelope
	if env == nil {
		return app
	}
	app.MessageID = env.MessageId
	app.Subject = env.Subject
	app.Date = env.Date
	if len(env.From) > 0 && env.From[0] != nil {
		from := env.From[0]
		app.From = from.Address()
		if from.PersonalName != "" {
			app.From = fmt.Sprintf("%s <%s>", from.PersonalName, from.Address())
		}
	}
	return app
}
