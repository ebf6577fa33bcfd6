package queue

import (
	"fmt"
	"strings"
	"time"

	"github.com/riverqueue/river"
	"github.com/robfig/cron/v3"
)

// JobInfo represents information about a queued job (for admin and monitoring views).
type JobInfo struct {
	ID          int64  `json:"id"`
	Kind        string `json:"kind"`
	State       string `json:"state"`
	ScheduledAt string `json:"scheduled_at"`
	CreatedAt   string `json:"created_at"`
	Attempt     int    `json:"attempt"`
	MaxAttempts int    `json:"max_attempts"`
}

type riverJobRow struct {
	ID          int64      `bun:"id"`
	Kind        string     `bun:"kind"`
	State       string     `bun:"state"`
	ScheduledAt *time.Time `bun:"scheduled_at"`
	CreatedAt   time.Time  `bun:"created_at"`
	Attempt     int16      `bun:"attempt"`
	MaxAttempts int16      `bun:"max_attempts"`
}

func (r riverJobRow) toInfo() JobInfo {
	scheduledAt := ""
	if r.ScheduledAt != nil {
		scheduledAt = r.ScheduledAt.Format(time.RFC3339)
	}
	return JobInfo{
		ID:          r.ID,
		Kind:        r.Kind,
		State:       r.State,
		ScheduledAt: scheduledAt,
		CreatedAt:   r.CreatedAt.Format(time.RFC3339),
		Attempt:     int(r.Attempt),
		MaxAttempts: int(r.MaxAttempts),
	}
}

var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// ParseCron parses a five-field cron expression evaluated in loc. The result
// satisfies river.PeriodicSchedule.
func ParseCron(expr string, loc *time.Location) (cron.Schedule, error) {
	expr = strings.TrimSpace(expr)
	if loc != nil && !strings.HasPrefix(expr, "CRON_TZ=") && !strings.HasPrefix(expr, "TZ=") {
		expr = "CRON_TZ=" + loc.String() + " " + expr
	}
	schedule, err := cronParser.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid cron expression %q: %w", expr, err)
	}
	return schedule, nil
}

// Every returns a fixed-interval periodic job.
func Every(interval time.Duration, args river.JobArgs, runOnStart bool) *river.PeriodicJob {
	return river.NewPeriodicJob(
		river.PeriodicInterval(interval),
		func() (river.JobArgs, *river.InsertOpts) {
			return args, &river.InsertOpts{Queue: QueueGame}
		},
		&river.PeriodicJobOpts{RunOnStart: runOnStart},
	)
}

// OnSchedule returns a periodic job driven by a cron schedule.
func OnSchedule(schedule cron.Schedule, args river.JobArgs) *river.PeriodicJob {
	return river.NewPeriodicJob(
		schedule,
		func() (river.JobArgs, *river.InsertOpts) {
			return args, &river.InsertOpts{Queue: QueueGame}
		},
		nil,
	)
}
