package adminservice

import (
	"context"
	"time"

	lotteryservice "github.com/Black-And-White-Club/malta-bot/app/modules/lottery/application"
	weatherservice "github.com/Black-And-White-Club/malta-bot/app/modules/weather/application"
	"github.com/Black-And-White-Club/malta-bot/internal/queue"
)

// Service defines the contract for server administration.
type Service interface {
	// CopyMessage reposts a message's content and embeds into another channel.
	CopyMessage(ctx context.Context, sourceChannelID, messageID, targetChannelID string) error

	// Give adjusts a player's gold by amount, clamping the balance at zero.
	Give(ctx context.Context, userID, username string, amount int64) (Grant, error)

	// ExportPlayers renders every player as an xlsx workbook.
	ExportPlayers(ctx context.Context) (Export, error)

	// DrawNow draws the lottery immediately.
	DrawNow(ctx context.Context) (lotteryservice.DrawResult, error)

	// ScheduleDraw queues a draw at a natural-language time.
	ScheduleDraw(ctx context.Context, when, requestedBy string) (ScheduledDraw, error)

	// ForceWeather runs a weather tick now.
	ForceWeather(ctx context.Context) (weatherservice.Bulletin, error)

	// PendingJobs lists queued background jobs.
	PendingJobs(ctx context.Context) ([]queue.JobInfo, error)
}

// Grant describes an applied gold adjustment.
type Grant struct {
	UserID    string
	Requested int64
	Applied   int64
	Balance   int64
}

// Clamped reports whether the requested debit was reduced.
func (g Grant) Clamped() bool { return g.Applied != g.Requested }

// Export is a generated spreadsheet.
type Export struct {
	Filename string
	Data     []byte
	Players  int
}

// ScheduledDraw is a queued lottery draw.
type ScheduledDraw struct {
	JobID int64
	At    time.Time
}
