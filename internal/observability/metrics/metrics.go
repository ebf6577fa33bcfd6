package metrics

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// OperationMetrics is implemented by every service-level metrics recorder.
type OperationMetrics interface {
	RecordOperationAttempt(ctx context.Context, operation, service string)
	RecordOperationSuccess(ctx context.Context, operation, service string)
	RecordOperationFailure(ctx context.Context, operation, service string)
	RecordOperationDuration(ctx context.Context, operation, service string, duration time.Duration)
}

// ProgressionMetrics records EXP and level activity.
type ProgressionMetrics interface {
	OperationMetrics
	RecordExpAwarded(ctx context.Context, exp int64, happyHour bool)
	RecordLevelUp(ctx context.Context, level int)
	RecordRetirement(ctx context.Context, heirloom int64)
	RecordMultiplierDecay(ctx context.Context, players int)
}

// GamblingMetrics records coin-flip outcomes.
type GamblingMetrics interface {
	OperationMetrics
	RecordBet(ctx context.Context, amount int64, won bool)
}

// LotteryMetrics records ticket sales and draws.
type LotteryMetrics interface {
	OperationMetrics
	RecordTicketsSold(ctx context.Context, tickets int)
	RecordDraw(ctx context.Context, pot int64, hadWinner bool)
}

// ShopMetrics records purchases and item use.
type ShopMetrics interface {
	OperationMetrics
	RecordPurchase(ctx context.Context, itemID string, quantity int)
	RecordItemUsed(ctx context.Context, itemID string)
}

// WeatherMetrics records simulation ticks.
type WeatherMetrics interface {
	OperationMetrics
	RecordWeatherTick(ctx context.Context, region, condition string, temperature float64)
}

// MailMetrics records forwarded application emails.
type MailMetrics interface {
	OperationMetrics
	RecordMailForwarded(ctx context.Context, count int)
}

// Prometheus implements every metrics interface on one set of collectors.
type Prometheus struct {
	attempts  *prometheus.CounterVec
	successes *prometheus.CounterVec
	failures  *prometheus.CounterVec
	durations *prometheus.HistogramVec

	expAwarded  *prometheus.CounterVec
	levelUps    *prometheus.CounterVec
	retirements prometheus.Counter
	heirloom    prometheus.Counter
	decays      prometheus.Counter

	bets      *prometheus.CounterVec
	wagered   prometheus.Counter
	tickets   prometheus.Counter
	draws     *prometheus.CounterVec
	lastPot   prometheus.Gauge
	purchases *prometheus.CounterVec
	itemsUsed *prometheus.CounterVec
	weather   *prometheus.CounterVec
	temps     *prometheus.GaugeVec
	mailsSent prometheus.Counter
}

// NewPrometheus creates the collectors and registers them on reg.
func NewPrometheus(reg prometheus.Registerer) *Prometheus {
	p := &Prometheus{
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "malta", Name: "operation_attempts_total", Help: "Service operations started.",
		}, []string{"service", "operation"}),
		successes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "malta", Name: "operation_success_total", Help: "Service operations completed without infrastructure errors.",
		}, []string{"service", "operation"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "malta", Name: "operation_failure_total", Help: "Service operations that failed or panicked.",
		}, []string{"service", "operation"}),
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "malta", Name: "operation_duration_seconds", Help: "Service operation latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"service", "operation"}),
		expAwarded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "malta", Subsystem: "progression", Name: "exp_awarded_total", Help: "EXP awarded for messages.",
		}, []string{"happy_hour"}),
		levelUps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "malta", Subsystem: "progression", Name: "level_ups_total", Help: "Levels reached.",
		}, []string{"level"}),
		retirements: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "malta", Subsystem: "progression", Name: "retirements_total", Help: "Player retirements.",
		}),
		heirloom: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "malta", Subsystem: "progression", Name: "heirloom_points_total", Help: "Heirloom points awarded.",
		}),
		decays: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "malta", Subsystem: "progression", Name: "multiplier_decays_total", Help: "Daily multipliers decayed by the sweep.",
		}),
		bets: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "malta", Subsystem: "gambling", Name: "bets_total", Help: "Coin flips by outcome.",
		}, []string{"outcome"}),
		wagered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "malta", Subsystem: "gambling", Name: "gold_wagered_total", Help: "Gold wagered.",
		}),
		tickets: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "malta", Subsystem: "lottery", Name: "tickets_sold_total", Help: "Lottery tickets sold.",
		}),
		draws: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "malta", Subsystem: "lottery", Name: "draws_total", Help: "Lottery draws.",
		}, []string{"winner"}),
		lastPot: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "malta", Subsystem: "lottery", Name: "last_pot_gold", Help: "Pot of the most recent draw.",
		}),
		purchases: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "malta", Subsystem: "shop", Name: "items_purchased_total", Help: "Items bought.",
		}, []string{"item"}),
		itemsUsed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "malta", Subsystem: "shop", Name: "items_used_total", Help: "Consumables used.",
		}, []string{"item"}),
		weather: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "malta", Subsystem: "weather", Name: "ticks_total", Help: "Weather states generated.",
		}, []string{"region", "condition"}),
		temps: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "malta", Subsystem: "weather", Name: "temperature_celsius", Help: "Current simulated temperature.",
		}, []string{"region"}),
		mailsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "malta", Subsystem: "mail", Name: "forwarded_total", Help: "Application emails forwarded.",
		}),
	}

	if reg != nil {
		reg.MustRegister(
			p.attempts, p.successes, p.failures, p.durations,
			p.expAwarded, p.levelUps, p.retirements, p.heirloom, p.decays,
			p.bets, p.wagered, p.tickets, p.draws, p.lastPot,
			p.purchases, p.itemsUsed, p.weather, p.temps, p.mailsSent,
		)
	}
	return p
}

func (p *Prometheus) RecordOperationAttempt(_ context.Context, operation, service string) {
	p.attempts.WithLabelValues(service, operation).Inc()
}

func (p *Prometheus) RecordOperationSuccess(_ context.Context, operation, service string) {
	p.successes.WithLabelValues(service, operation).Inc()
}

func (p *Prometheus) RecordOperationFailure(_ context.Context, operation, service string) {
	p.failures.WithLabelValues(service, operation).Inc()
}

func (p *Prometheus) RecordOperationDuration(_ context.Context, operation, service string, duration time.Duration) {
	p.durations.WithLabelValues(service, operation).Observe(duration.Seconds())
}

func (p *Prometheus) RecordExpAwarded(_ context.Context, exp int64, happyHour bool) {
	label := "false"
	if happyHour {
		label = "true"
	}
	p.expAwarded.WithLabelValues(label).Add(float64(exp))
}

func (p *Prometheus) RecordLevelUp(_ context.Context, level int) {
	p.levelUps.WithLabelValues(strconv.Itoa(level)).Inc()
}

func (p *Prometheus) RecordRetirement(_ context.Context, heirloom int64) {
	p.retirements.Inc()
	p.heirloom.Add(float64(heirloom))
}

func (p *Prometheus) RecordMultiplierDecay(_ context.Context, players int) {
	p.decays.Add(float64(players))
}

func (p *Prometheus) RecordBet(_ context.Context, amount int64, won bool) {
	outcome := "loss"
	if won {
		outcome = "win"
	}
	p.bets.WithLabelValues(outcome).Inc()
	p.wagered.Add(float64(amount))
}

func (p *Prometheus) RecordTicketsSold(_ context.Context, tickets int) {
	p.tickets.Add(float64(tickets))
}

func (p *Prometheus) RecordDraw(_ context.Context, pot int64, hadWinner bool) {
	label := "none"
	if hadWinner {
		label = "drawn"
	}
	p.draws.WithLabelValues(label).Inc()
	p.lastPot.Set(float64(pot))
}

func (p *Prometheus) RecordPurchase(_ context.Context, itemID string, quantity int) {
	p.purchases.WithLabelValues(itemID).Add(float64(quantity))
}

func (p *Prometheus) RecordItemUsed(_ context.Context, itemID string) {
	p.itemsUsed.WithLabelValues(itemID).Inc()
}

func (p *Prometheus) RecordWeatherTick(_ context.Context, region, condition string, temperature float64) {
	p.weather.WithLabelValues(region, condition).Inc()
	p.temps.WithLabelValues(region).Set(temperature)
}

func (p *Prometheus) RecordMailForwarded(_ context.Context, count int) {
	p.mailsSent.Add(float64(count))
}
