package weatherhandlers

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	weatherservice "github.com/Black-And-White-Club/malta-bot/app/modules/weather/application"
	weatherdomain "github.com/Black-And-White-Club/malta-bot/app/modules/weather/domain"
	weatherdb "github.com/Black-And-White-Club/malta-bot/app/modules/weather/infrastructure/repositories"
	"github.com/Black-And-White-Club/malta-bot/internal/discord"
	"github.com/Black-And-White-Club/malta-bot/internal/discord/discordtest"
	"github.com/Black-And-White-Club/malta-bot/internal/events"
	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

type stubService struct {
	weatherservice.Service
	now         weatherdomain.MaltaTime
	currentFunc func(ctx context.Context, region string) (weatherservice.Report, error)
	allFunc     func(ctx context.Context) ([]weatherservice.Report, error)
	historyFunc func(ctx context.Context, region string, limit int) ([]weatherdb.Log, error)
}

func (s *stubService) MaltaTime() weatherdomain.MaltaTime { return s.now }

func (s *stubService) Current(ctx context.Context, region string) (weatherservice.Report, error) {
	return s.currentFunc(ctx, region)
}

func (s *stubService) All(ctx context.Context) ([]weatherservice.Report, error) {
	return s.allFunc(ctx)
}

func (s *stubService) History(ctx context.Context, region string, limit int) ([]weatherdb.Log, error) {
	return s.historyFunc(ctx, region, limit)
}

var player = discord.User{ID: "1", Username: "pawlu"}

func newHandlers(svc weatherservice.Service, m discord.Messenger, channelID string) Handlers {
	return NewWeatherHandlers(svc, m, channelID, 0, slog.Default(), noop.NewTracerProvider().Tracer("test"))
}

func TestHandleNow(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantUser   bool
		wantSubstr string
	}{
		{name: "report", wantSubstr: "Rain"},
		{name: "unknown region", err: weatherdomain.ErrUnknownRegion, wantUser: true},
		{name: "no reading", err: weatherservice.ErrNoReading, wantUser: true},
		{name: "store failure", err: errors.New("db down")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubService{currentFunc: func(_ context.Context, region string) (weatherservice.Report, error) {
				assert.Equal(t, "mdina", region)
				if tt.err != nil {
					return weatherservice.Report{}, tt.err
				}
				return weatherservice.Report{
					State:     weatherdomain.State{Region: "Mdina", Condition: weatherdomain.Rain, Temperature: 9.5, CloudCover: 90, WindSpeed: 20, Narrative: "Wet."},
					MaltaTime: weatherdomain.FromMinutes(600),
				}, nil
			}}

			resp, err := newHandlers(svc, discordtest.NewFakeMessenger(), "").HandleNow(context.Background(),
				discordtest.SlashCommand("weather", "now", player, map[string]any{"region": "mdina"}))
			if tt.err != nil {
				require.Error(t, err)
				var ue *discord.UserError
				assert.Equal(t, tt.wantUser, errors.As(err, &ue))
				return
			}
			require.NoError(t, err)
			require.Len(t, resp.Embeds, 1)
			e := resp.Embeds[0]
			assert.Equal(t, "Wet.", e.Description)
			assert.Equal(t, "Rain", e.Fields[0].Value)
			assert.Equal(t, "9.5°C (cold)", e.Fields[1].Value)
			assert.Equal(t, discord.ColorBlue, e.Color)
		})
	}
}

func TestHandleAll(t *testing.T) {
	svc := &stubService{
		now: weatherdomain.FromMinutes(0),
		allFunc: func(context.Context) ([]weatherservice.Report, error) {
			return []weatherservice.Report{
				{State: weatherdomain.State{Region: "Valletta", Condition: weatherdomain.Clear, Temperature: 14}},
				{State: weatherdomain.State{Region: "Gozo", Condition: weatherdomain.Fog, Temperature: 12}},
			}, nil
		},
	}

	resp, err := newHandlers(svc, nil, "").HandleAll(context.Background(), discordtest.SlashCommand("weather", "all", player, nil))
	require.NoError(t, err)
	require.Len(t, resp.Embeds[0].Fields, 2)
	assert.Contains(t, resp.Embeds[0].Fields[1].Name, "Gozo")
	assert.Contains(t, resp.Embeds[0].Description, "Winter")

	svc.allFunc = func(context.Context) ([]weatherservice.Report, error) { return nil, nil }
	resp, err = newHandlers(svc, nil, "").HandleAll(context.Background(), discordtest.SlashCommand("weather", "all", player, nil))
	require.NoError(t, err)
	assert.True(t, resp.Ephemeral)
}

func TestHandleHistory(t *testing.T) {
	var gotLimit int
	svc := &stubService{historyFunc: func(_ context.Context, region string, limit int) ([]weatherdb.Log, error) {
		gotLimit = limit
		return []weatherdb.Log{
			{Region: "Dingli", Temperature: 10, MaltaMinutes: 0},
			{Region: "Dingli", Temperature: 12, MaltaMinutes: 60},
			{Region: "Dingli", Temperature: 11, MaltaMinutes: 120},
		}, nil
	}}

	resp, err := newHandlers(svc, nil, "").HandleHistory(context.Background(),
		discordtest.SlashCommand("weather", "history", player, map[string]any{"region": "dingli"}))
	require.NoError(t, err)
	assert.Equal(t, weatherservice.DefaultHistoryLen, gotLimit)

	require.Len(t, resp.Files, 1)
	assert.Equal(t, "dingli_temperature.png", resp.Files[0].Name)
	data, err := io.ReadAll(resp.Files[0].Reader)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")))
	assert.Equal(t, "attachment://dingli_temperature.png", resp.Embeds[0].Image.URL)
}

func TestHandleTime(t *testing.T) {
	svc := &stubService{now: weatherdomain.FromMinutes(6*30*weatherdomain.MinutesPerDay + 19*60)}
	resp, err := newHandlers(svc, nil, "").HandleTime(context.Background(), discordtest.SlashCommand("time", "now", player, nil))
	require.NoError(t, err)

	e := resp.Embeds[0]
	assert.Contains(t, e.Description, "1 Lulju 1530, 19:00")
	assert.Equal(t, "Summer", e.Fields[0].Value)
	assert.Equal(t, "Dusk", e.Fields[1].Value)
}

func TestHandleUpdated(t *testing.T) {
	payload := &events.WeatherUpdatedPayloadV1{
		MaltaTime: "It-Tnejn 1 Jannar 1530, 01:00",
		Season:    "Winter",
		Regions: []events.RegionWeatherV1{
			{Region: "Valletta", Condition: "rain", Temperature: 11.2, Narrative: "Rain drums."},
		},
		At: time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC),
	}

	t.Run("posts to the weather channel", func(t *testing.T) {
		m := discordtest.NewFakeMessenger()
		require.NoError(t, newHandlers(&stubService{}, m, "weather-chan").HandleUpdated(context.Background(), payload))
		require.Len(t, m.Sent, 1)
		assert.Equal(t, "weather-chan", m.Sent[0].ChannelID)
		assert.Contains(t, m.Sent[0].Message.Embeds[0].Description, "**Valletta** · 11.2°C")
	})

	t.Run("no channel is not an error", func(t *testing.T) {
		m := discordtest.NewFakeMessenger()
		assert.NoError(t, newHandlers(&stubService{}, m, "").HandleUpdated(context.Background(), payload))
	})

	t.Run("send failure surfaces", func(t *testing.T) {
		m := discordtest.NewFakeMessenger()
		m.SendFunc = func(context.Context, string, *discordgo.MessageSend) (*discordgo.Message, error) {
			return nil, errors.New("rate limited")
		}
		assert.Error(t, newHandlers(&stubService{}, m, "weather-chan").HandleUpdated(context.Background(), payload))
	})
}

func TestWeatherCommand_RegionChoices(t *testing.T) {
	cmd := WeatherCommand(weatherdomain.DefaultRegions)
	require.Len(t, cmd.Options, 3)
	assert.Len(t, cmd.Options[0].Options[0].Choices, 4)
	assert.Equal(t, "now", TimeCommand().Options[0].Name)
}
