package adminhandlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	adminservice "github.com/Black-And-White-Club/malta-bot/app/modules/admin/application"
	lotteryservice "github.com/Black-And-White-Club/malta-bot/app/modules/lottery/application"
	weatherservice "github.com/Black-And-White-Club/malta-bot/app/modules/weather/application"
	weatherdomain "github.com/Black-And-White-Club/malta-bot/app/modules/weather/domain"
	"github.com/Black-And-White-Club/malta-bot/internal/clock"
	"github.com/Black-And-White-Club/malta-bot/internal/discord"
	"github.com/Black-And-White-Club/malta-bot/internal/discord/discordtest"
	"github.com/Black-And-White-Club/malta-bot/internal/events"
	"github.com/Black-And-White-Club/malta-bot/internal/queue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

type stubService struct {
	adminservice.Service

	copyFunc     func(ctx context.Context, source, messageID, target string) error
	giveFunc     func(ctx context.Context, userID, username string, amount int64) (adminservice.Grant, error)
	scheduleFunc func(ctx context.Context, when, requestedBy string) (adminservice.ScheduledDraw, error)
	jobs         []queue.JobInfo
	draws        int
}

func (s *stubService) CopyMessage(ctx context.Context, source, messageID, target string) error {
	return s.copyFunc(ctx, source, messageID, target)
}

func (s *stubService) Give(ctx context.Context, userID, username string, amount int64) (adminservice.Grant, error) {
	return s.giveFunc(ctx, userID, username, amount)
}

func (s *stubService) ExportPlayers(context.Context) (adminservice.Export, error) {
	return adminservice.Export{Filename: "players.xlsx", Data: []byte("PK"), Players: 3}, nil
}

func (s *stubService) DrawNow(context.Context) (lotteryservice.DrawResult, error) {
	s.draws++
	return lotteryservice.DrawResult{Pot: 700}, nil
}

func (s *stubService) ScheduleDraw(ctx context.Context, when, requestedBy string) (adminservice.ScheduledDraw, error) {
	return s.scheduleFunc(ctx, when, requestedBy)
}

func (s *stubService) ForceWeather(context.Context) (weatherservice.Bulletin, error) {
	return weatherservice.Bulletin{Time: weatherdomain.FromMinutes(60)}, nil
}

func (s *stubService) PendingJobs(context.Context) ([]queue.JobInfo, error) {
	return s.jobs, nil
}

var admin = discord.User{ID: "9", Username: "boss"}

func newHandlers(svc adminservice.Service) Handlers {
	return NewAdminHandlers(svc, slog.Default(), noop.NewTracerProvider().Tracer("test"))
}

func TestHandlePost(t *testing.T) {
	tests := []struct {
		name       string
		options    map[string]any
		err        error
		wantSource string
		wantUser   bool
	}{
		{name: "defaults to the current channel", options: map[string]any{"message_id": "m1", "channel": "dst"}, wantSource: "channel-1"},
		{name: "explicit source", options: map[string]any{"message_id": "m1", "channel": "dst", "source": "src"}, wantSource: "src"},
		{name: "empty message", options: map[string]any{"message_id": "m1", "channel": "dst"}, err: adminservice.ErrEmptyMessage, wantSource: "channel-1", wantUser: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotSource string
			svc := &stubService{copyFunc: func(_ context.Context, source, messageID, target string) error {
				gotSource = source
				assert.Equal(t, "m1", messageID)
				assert.Equal(t, "dst", target)
				return tt.err
			}}

			resp, err := newHandlers(svc).HandlePost(context.Background(), discordtest.SlashCommand("admin", "post", admin, tt.options))
			assert.Equal(t, tt.wantSource, gotSource)
			if tt.err != nil {
				var ue *discord.UserError
				assert.Equal(t, tt.wantUser, errors.As(err, &ue))
				return
			}
			require.NoError(t, err)
			assert.True(t, resp.Ephemeral)
			assert.Contains(t, resp.Content, "<#dst>")
		})
	}
}

func TestHandleGive(t *testing.T) {
	tests := []struct {
		name   string
		amount int64
		grant  adminservice.Grant
		want   string
	}{
		{name: "grant", amount: 50, grant: adminservice.Grant{Requested: 50, Applied: 50, Balance: 150}, want: "<@9> gave 50 gold to <@7>. Balance: 150 gold."},
		{name: "take", amount: -20, grant: adminservice.Grant{Requested: -20, Applied: -20, Balance: 5}, want: "<@9> took 20 gold from <@7>. Balance: 5 gold."},
		{name: "clamped", amount: -99, grant: adminservice.Grant{Requested: -99, Applied: -5, Balance: 0}, want: "<@9> took 5 gold from <@7>. Balance: 0 gold. (clamped at zero)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubService{giveFunc: func(_ context.Context, userID, _ string, amount int64) (adminservice.Grant, error) {
				assert.Equal(t, "7", userID)
				assert.Equal(t, tt.amount, amount)
				return tt.grant, nil
			}}
			cmd := discordtest.SlashCommand("admin", "give", admin, map[string]any{"user": "7", "amount": tt.amount})

			resp, err := newHandlers(svc).HandleGive(context.Background(), cmd)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.Content)
		})
	}
}

func TestHandleExport(t *testing.T) {
	resp, err := newHandlers(&stubService{}).HandleExport(context.Background(), discordtest.SlashCommand("admin", "export", admin, nil))
	require.NoError(t, err)
	require.Len(t, resp.Files, 1)
	assert.Equal(t, "players.xlsx", resp.Files[0].Name)
	assert.Equal(t, xlsxContentType, resp.Files[0].ContentType)
	data, err := io.ReadAll(resp.Files[0].Reader)
	require.NoError(t, err)
	assert.Equal(t, "PK", string(data))
	assert.Contains(t, resp.Content, "3 players")
}

func TestHandleDraw(t *testing.T) {
	at := time.Date(2026, 3, 5, 19, 0, 0, 0, time.UTC)

	t.Run("draws now and emits the result", func(t *testing.T) {
		svc := &stubService{}
		resp, err := newHandlers(svc).HandleDraw(context.Background(), discordtest.SlashCommand("admin", "draw", admin, nil))
		require.NoError(t, err)
		assert.Equal(t, 1, svc.draws)
		require.Len(t, resp.Events, 1)
		assert.Equal(t, events.LotteryDrawnV1, resp.Events[0].Topic)
	})

	tests := []struct {
		name     string
		err      error
		wantUser bool
	}{
		{name: "scheduled"},
		{name: "past", err: fmt.Errorf("%w (parsed)", clock.ErrNotInFuture), wantUser: true},
		{name: "gibberish", err: fmt.Errorf("%w: x", clock.ErrUnrecognized), wantUser: true},
		{name: "queue down", err: queue.ErrNotStarted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubService{scheduleFunc: func(_ context.Context, when, requestedBy string) (adminservice.ScheduledDraw, error) {
				assert.Equal(t, "tomorrow at 8pm", when)
				assert.Equal(t, "9", requestedBy)
				if tt.err != nil {
					return adminservice.ScheduledDraw{}, tt.err
				}
				return adminservice.ScheduledDraw{JobID: 12, At: at}, nil
			}}
			cmd := discordtest.SlashCommand("admin", "draw", admin, map[string]any{"when": "tomorrow at 8pm"})

			resp, err := newHandlers(svc).HandleDraw(context.Background(), cmd)
			if tt.err != nil {
				require.Error(t, err)
				var ue *discord.UserError
				assert.Equal(t, tt.wantUser, errors.As(err, &ue))
				return
			}
			require.NoError(t, err)
			assert.Contains(t, resp.Content, fmt.Sprintf("<t:%d:F>", at.Unix()))
			assert.Empty(t, resp.Events)
			assert.Zero(t, svc.draws)
		})
	}
}

func TestHandleWeather(t *testing.T) {
	resp, err := newHandlers(&stubService{}).HandleWeather(context.Background(), discordtest.SlashCommand("admin", "weather", admin, nil))
	require.NoError(t, err)
	require.Len(t, resp.Events, 1)
	assert.Equal(t, events.WeatherUpdatedV1, resp.Events[0].Topic)
	assert.Contains(t, resp.Content, "01:00")
}

func TestHandleJobs(t *testing.T) {
	svc := &stubService{}
	resp, err := newHandlers(svc).HandleJobs(context.Background(), discordtest.SlashCommand("admin", "jobs", admin, nil))
	require.NoError(t, err)
	assert.Equal(t, "No jobs are queued.", resp.Content)

	svc.jobs = []queue.JobInfo{{ID: 5, Kind: "lottery_draw", State: "scheduled", ScheduledAt: "2026-03-05T19:00:00Z"}}
	resp, err = newHandlers(svc).HandleJobs(context.Background(), discordtest.SlashCommand("admin", "jobs", admin, nil))
	require.NoError(t, err)
	assert.Contains(t, resp.Embeds[0].Description, "`#5` **lottery_draw** · scheduled · 2026-03-05T19:00:00Z")
	assert.True(t, resp.Ephemeral)
}
