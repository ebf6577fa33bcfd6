package mailservice

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	maildomain "github.com/Black-And-White-Club/malta-bot/app/modules/mail/domain"
	"github.com/Black-And-White-Club/malta-bot/app/modules/mail/infrastructure/mailbox"
	maildb "github.com/Black-And-White-Club/malta-bot/app/modules/mail/infrastructure/repositories"
	"github.com/Black-And-White-Club/malta-bot/internal/observability/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace/noop"
)

func newTestService(box *FakeMailbox, repo *FakeMailRepo, fwd *FakeForwarder) *MailService {
	return NewMailService(box.Opener(), repo, fwd, "application", slog.Default(), metrics.NewNoop(), noop.NewTracerProvider().Tracer("test"), nil)
}

func TestMailService_Poll(t *testing.T) {
	apps := []maildomain.Application{
		{UID: 1, MessageID: "<a@x>", Subject: "Application A", From: "a@x"},
		{UID: 2, MessageID: "<b@x>", Subject: "Application B", From: "b@x"},
		{UID: 3, MessageID: "<c@x>", Subject: "Application C", From: "c@x"},
	}

	tests := []struct {
		name          string
		already       []string
		failKey       string
		want          PollResult
		wantSeen      []uint32
		wantForwarded int
	}{
		{
			name:          "forwards all new emails",
			want:          PollResult{Matched: 3, Forwarded: 3},
			wantSeen:      []uint32{1, 2, 3},
			wantForwarded: 3,
		},
		{
			name:          "skips emails already forwarded but marks them read",
			already:       []string{"b@x"},
			want:          PollResult{Matched: 3, Forwarded: 2, Duplicates: 1},
			wantSeen:      []uint32{1, 2, 3},
			wantForwarded: 2,
		},
		{
			name:          "failed forward stays unread",
			failKey:       "c@x",
			want:          PollResult{Matched: 3, Forwarded: 2, Failed: 1},
			wantSeen:      []uint32{1, 2},
			wantForwarded: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			box := &FakeMailbox{Apps: apps}
			repo := NewFakeMailRepo()
			for _, k := range tt.already {
				repo.Forwards[k] = maildb.Forward{MessageKey: k}
			}
			fwd := &FakeForwarder{ForwardFunc: func(_ context.Context, app maildomain.Application) error {
				if app.Key() == tt.failKey {
					return errors.New("discord down")
				}
				return nil
			}}

			res, err := newTestService(box, repo, fwd).Poll(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.want, res)
			assert.Equal(t, tt.wantSeen, box.Seen)
			assert.Len(t, fwd.Forwarded, tt.wantForwarded)
			assert.True(t, box.Closed)
			assert.Equal(t, []string{"Unseen", "MarkSeen", "Close"}, box.Trace())
		})
	}
}

func TestMailService_Poll_RecordsForwards(t *testing.T) {
	box := &FakeMailbox{Apps: []maildomain.Application{{UID: 9, MessageID: "<z@x>", Subject: "Application", From: "z@x"}}}
	repo := NewFakeMailRepo()

	_, err := newTestService(box, repo, &FakeForwarder{}).Poll(context.Background())
	require.NoError(t, err)

	got, ok := repo.Forwards["z@x"]
	require.True(t, ok)
	assert.Equal(t, "Application", got.Subject)
	assert.Equal(t, "z@x", got.Sender)
}

func TestMailService_Poll_Errors(t *testing.T) {
	t.Run("open failure", func(t *testing.T) {
		svc := NewMailService(func(context.Context) (mailbox.Mailbox, error) {
			return nil, errors.New("connection refused")
		}, NewFakeMailRepo(), &FakeForwarder{}, "application", slog.Default(), metrics.NewNoop(), noop.NewTracerProvider().Tracer("test"), nil)
		_, err := svc.Poll(context.Background())
		assert.ErrorContains(t, err, "connection refused")
	})

	t.Run("repo failure closes the mailbox", func(t *testing.T) {
		box := &FakeMailbox{Apps: []maildomain.Application{{UID: 1, MessageID: "<a@x>"}}}
		repo := NewFakeMailRepo()
		repo.IsForwardedFunc = func(context.Context, bun.IDB, string) (bool, error) {
			return false, errors.New("db down")
		}
		_, err := newTestService(box, repo, &FakeForwarder{}).Poll(context.Background())
		assert.Error(t, err)
		assert.True(t, box.Closed)
		assert.Empty(t, box.Seen)
	})
}
