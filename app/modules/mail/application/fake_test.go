package mailservice

import (
	"context"

	maildomain "github.com/Black-And-White-Club/malta-bot/app/modules/mail/domain"
	"github.com/Black-And-White-Club/malta-bot/app/modules/mail/infrastructure/mailbox"
	maildb "github.com/Black-And-White-Club/malta-bot/app/modules/mail/infrastructure/repositories"
	"github.com/uptrace/bun"
)

// ------------------------
// Fake Mailbox
// ------------------------

type FakeMailbox struct {
	trace []string

	Apps   []maildomain.Application
	Seen   []uint32
	Closed bool

	UnseenFunc   func(ctx context.Context, filter string) ([]maildomain.Application, error)
	MarkSeenFunc func(ctx context.Context, uids []uint32) error
}

func (f *FakeMailbox) Unseen(ctx context.Context, filter string) ([]maildomain.Application, error) {
	f.trace = append(f.trace, "Unseen")
	if f.UnseenFunc != nil {
		return f.UnseenFunc(ctx, filter)
	}
	return f.Apps, nil
}

func (f *FakeMailbox) MarkSeen(ctx context.Context, uids []uint32) error {
	f.trace = append(f.trace, "MarkSeen")
	if f.MarkSeenFunc != nil {
		return f.MarkSeenFunc(ctx, uids)
	}
	f.Seen = append(f.Seen, uids...)
	return nil
}

func (f *FakeMailbox) Close() error {
	f.trace = append(f.trace, "Close")
	f.Closed = true
	return nil
}

func (f *FakeMailbox) Trace() []string { return f.trace }

func (f *FakeMailbox) Opener() mailbox.Opener {
	return func(context.Context) (mailbox.Mailbox, error) { return f, nil }
}

var _ mailbox.Mailbox = (*FakeMailbox)(nil)

// ------------------------
// Fake Mail Repo
// ------------------------

type FakeMailRepo struct {
	Forwards map[string]maildb.Forward

	IsForwardedFunc func(ctx context.Context, db bun.IDB, key string) (bool, error)
}

func NewFakeMailRepo() *FakeMailRepo {
	return &FakeMailRepo{Forwards: map[string]maildb.Forward{}}
}

func (f *FakeMailRepo) IsForwarded(ctx context.Context, db bun.IDB, key string) (bool, error) {
	if f.IsForwardedFunc != nil {
		return f.IsForwardedFunc(ctx, db, key)
	}
	_, ok := f.Forwards[key]
	return ok, nil
}

func (f *FakeMailRepo) RecordForward(_ context.Context, _ bun.IDB, fwd *maildb.Forward) (bool, error) {
	if _, ok := f.Forwards[fwd.MessageKey]; ok {
		return false, nil
	}
	f.Forwards[fwd.MessageKey] = *fwd
	return true, nil
}

var _ maildb.Repository = (*FakeMailRepo)(nil)

// ------------------------
// Fake Forwarder
// ------------------------

type FakeForwarder struct {
	Forwarded   []maildomain.Application
	ForwardFunc func(ctx context.Context, app maildomain.Application) error
}

func (f *FakeForwarder) Forward(ctx context.Context, app maildomain.Application) error {
	if f.ForwardFunc != nil {
		if err := f.ForwardFunc(ctx, app); err != nil {
			return err
		}
	}
	f.Forwarded = append(f.Forwarded, app)
	return nil
}
