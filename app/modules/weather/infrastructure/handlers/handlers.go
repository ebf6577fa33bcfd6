package weatherhandlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	weatherservice "github.com/Black-And-White-Club/malta-bot/app/modules/weather/application"
	weatherdomain "github.com/Black-And-White-Club/malta-bot/app/modules/weather/domain"
	"github.com/Black-And-White-Club/malta-bot/app/modules/weather/infrastructure/charts"
	"github.com/Black-And-White-Club/malta-bot/internal/discord"
	"github.com/Black-And-White-Club/malta-bot/internal/events"
	"github.com/Black-And-White-Club/malta-bot/internal/observability/attr"
	"github.com/bwmarrin/discordgo"
	"go.opentelemetry.io/otel/trace"
)

// Handlers defines the weather command and event handlers.
type Handlers interface {
	HandleNow(ctx context.Context, cmd *discord.Command) (*discord.Response, error)
	HandleAll(ctx context.Context, cmd *discord.Command) (*discord.Response, error)
	HandleHistory(ctx context.Context, cmd *discord.Command) (*discord.Response, error)
	HandleTime(ctx context.Context, cmd *discord.Command) (*discord.Response, error)

	HandleUpdated(ctx context.Context, payload *events.WeatherUpdatedPayloadV1) error
}

// WeatherHandlers implements the Handlers interface.
type WeatherHandlers struct {
	service    weatherservice.Service
	messenger  discord.Messenger
	channelID  string
	historyLen int
	palette    charts.Palette
	logger     *slog.Logger
	tracer     trace.Tracer
}

// NewWeatherHandlers creates a new WeatherHandlers instance. Bulletins are
// posted on channelID.
func NewWeatherHandlers(
	service weatherservice.Service,
	messenger discord.Messenger,
	channelID string,
	historyLen int,
	logger *slog.Logger,
	tracer trace.Tracer,
) Handlers {
	if historyLen <= 0 {
		historyLen = weatherservice.DefaultHistoryLen
	}
	return &WeatherHandlers{
		service:    service,
		messenger:  messenger,
		channelID:  channelID,
		historyLen: historyLen,
		palette:    charts.DefaultPalette,
		logger:     logger,
		tracer:     tracer,
	}
}

func userError(err error, region string) error {
	switch {
	case errors.Is(err, weatherdomain.ErrUnknownRegion):
		return discord.Userf("I don't know a region called %q.", region)
	case errors.Is(err, weatherservice.ErrNoReading):
		return discord.Userf("No weather has been recorded in %s yet.", region)
	}
	return err
}

// HandleNow answers /weather now region.
func (h *WeatherHandlers) HandleNow(ctx context.Context, cmd *discord.Command) (*discord.Response, error) {
	region, _ := cmd.String("region")
	report, err := h.service.Current(ctx, region)
	if err != nil {
		return nil, userError(err, region)
	}
	return discord.EmbedReply(reportEmbed(report.State, report.MaltaTime)), nil
}

// HandleAll answers /weather all.
func (h *WeatherHandlers) HandleAll(ctx context.Context, _ *discord.Command) (*discord.Response, error) {
	reports, err := h.service.All(ctx)
	if err != nil {
		return nil, err
	}
	if len(reports) == 0 {
		return discord.Ephemeral("No weather has been recorded yet."), nil
	}

	mt := h.service.MaltaTime()
	embed := discord.NewEmbed("🗺️ Weather across Malta", mt.String()+" · "+string(mt.Season()), discord.ColorBlue)
	for _, r := range reports {
		embed.Fields = append(embed.Fields, discord.Field(
			fmt.Sprintf("%s %s", r.Condition.Emoji(), r.Region),
			fmt.Sprintf("%s, %.1f°C, wind %d km/h", r.Condition.Label(), r.Temperature, r.WindSpeed),
			true,
		))
	}
	return discord.EmbedReply(embed), nil
}

// HandleHistory answers /weather history region with a PNG chart.
func (h *WeatherHandlers) HandleHistory(ctx context.Context, cmd *discord.Command) (*discord.Response, error) {
	region, _ := cmd.String("region")
	logs, err := h.service.History(ctx, region, h.historyLen)
	if err != nil {
		return nil, userError(err, region)
	}

	name := region
	if len(logs) > 0 {
		name = logs[0].Region
	}
	points := make([]charts.Point, len(logs))
	for i, l := range logs {
		points[i] = charts.Point{MaltaMinutes: l.MaltaMinutes, Temperature: l.Temperature}
	}

	png, err := charts.Temperature(name, points, h.palette)
	if err != nil {
		return nil, err
	}

	filename := strings.ToLower(strings.ReplaceAll(name, " ", "_")) + "_temperature.png"
	embed := discord.NewEmbed("📈 "+name+" temperature", fmt.Sprintf("Last %d readings.", len(logs)), discord.ColorBlue)
	embed.Image = &discordgo.MessageEmbedImage{URL: "attachment://" + filename}
	return &discord.Response{
		Embeds: []*discordgo.MessageEmbed{embed},
		Files: []*discordgo.File{{
			Name:        filename,
			ContentType: "image/png",
			Reader:      bytes.NewReader(png),
		}},
	}, nil
}

// HandleTime answers /time now.
func (h *WeatherHandlers) HandleTime(_ context.Context, _ *discord.Command) (*discord.Response, error) {
	mt := h.service.MaltaTime()
	embed := discord.NewEmbed("🕰️ Malta time", "**"+mt.String()+"**", discord.ColorMaltese)
	embed.Fields = []*discordgo.MessageEmbedField{
		discord.Field("Season", string(mt.Season()), true),
		discord.Field("Time of day", string(mt.Period()), true),
	}
	return discord.EmbedReply(embed), nil
}

// HandleUpdated posts a bulletin on the weather channel.
func (h *WeatherHandlers) HandleUpdated(ctx context.Context, payload *events.WeatherUpdatedPayloadV1) error {
	_, err := h.messenger.Send(ctx, h.channelID, &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{bulletinEmbed(payload)},
	})
	if errors.Is(err, discord.ErrNoChannel) {
		h.logger.WarnContext(ctx, "No weather channel configured, bulletin not posted",
			attr.ExtractCorrelationID(ctx),
			attr.String("malta_time", payload.MaltaTime),
		)
		return nil
	}
	return err
}

func reportEmbed(s weatherdomain.State, mt weatherdomain.MaltaTime) *discordgo.MessageEmbed {
	e := discord.NewEmbed(fmt.Sprintf("%s %s", s.Condition.Emoji(), s.Region), s.Narrative, conditionColor(s.Condition))
	e.Fields = []*discordgo.MessageEmbedField{
		discord.Field("Condition", s.Condition.Label(), true),
		discord.Field("Temperature", fmt.Sprintf("%.1f°C (%s)", s.Temperature, weatherdomain.Feel(s.Temperature)), true),
		discord.Field("Clouds", fmt.Sprintf("%d%%", s.CloudCover), true),
		discord.Field("Wind", fmt.Sprintf("%d km/h", s.WindSpeed), true),
	}
	e.Footer = &discordgo.MessageEmbedFooter{Text: mt.String()}
	return e
}

func bulletinEmbed(p *events.WeatherUpdatedPayloadV1) *discordgo.MessageEmbed {
	var b strings.Builder
	for _, r := range p.Regions {
		cond := weatherdomain.Condition(r.Condition)
		fmt.Fprintf(&b, "%s **%s** · %.1f°C · %s\n", cond.Emoji(), r.Region, r.Temperature, r.Narrative)
	}
	e := discord.NewEmbed("📰 Malta weather bulletin", discord.Truncate(b.String(), 4000), discord.ColorBlue)
	return discord.WithFooter(e, p.MaltaTime+" · "+p.Season, p.At)
}

func conditionColor(c weatherdomain.Condition) int {
	switch {
	case c == weatherdomain.Clear || c == weatherdomain.PartlyCloudy:
		return discord.ColorGold
	case c == weatherdomain.Thunderstorm:
		return discord.ColorPurple
	case c.Wet() || c == weatherdomain.Snow:
		return discord.ColorBlue
	}
	return discord.ColorGrey
}
