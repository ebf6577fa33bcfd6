package metrics

import (
	"context"
	"time"
)

// Noop satisfies every metrics interface and records nothing.
type Noop struct{}

// NewNoop returns a recorder for tests and disabled metrics.
func NewNoop() Noop { return Noop{} }

func (Noop) RecordOperationAttempt(context.Context, string, string)                {}
func (Noop) RecordOperationSuccess(context.Context, string, string)                {}
func (Noop) RecordOperationFailure(context.Context, string, string)                {}
func (Noop) RecordOperationDuration(context.Context, string, string, time.Duration) {}
func (Noop) RecordExpAwarded(context.Context, int64, bool)                         {}
func (Noop) RecordLevelUp(context.Context, int)                                    {}
func (Noop) RecordRetirement(context.Context, int64)                               {}
func (Noop) RecordMultiplierDecay(context.Context, int)                            {}
func (Noop) RecordBet(context.Context, int64, bool)                                {}
func (Noop) RecordTicketsSold(context.Context, int)                                {}
func (Noop) RecordDraw(context.Context, int64, bool)                               {}
func (Noop) RecordPurchase(context.Context, string, int)                           {}
func (Noop) RecordItemUsed(context.Context, string)                                {}
func (Noop) RecordWeatherTick(context.Context, string, string, float64)            {}
func (Noop) RecordMailForwarded(context.Context, int)                              {}

var (
	_ ProgressionMetrics = Noop{}
	_ GamblingMetrics    = Noop{}
	_ LotteryMetrics     = Noop{}
	_ ShopMetrics        = Noop{}
	_ WeatherMetrics     = Noop{}
	_ MailMetrics        = Noop{}

	_ ProgressionMetrics = (*Prometheus)(nil)
	_ GamblingMetrics    = (*Prometheus)(nil)
	_ LotteryMetrics     = (*Prometheus)(nil)
	_ ShopMetrics        = (*Prometheus)(nil)
	_ WeatherMetrics     = (*Prometheus)(nil)
	_ MailMetrics        = (*Prometheus)(nil)
)
