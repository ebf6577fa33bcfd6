package observability

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/Black-And-White-Club/malta-bot/internal/observability/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// Config selects logging and metrics behaviour.
type Config struct {
	ServiceName string
	Environment string
	LogLevel    string
}

// Observability bundles the logger, metrics registry and tracer handed to modules.
type Observability struct {
	Logger   *slog.Logger
	Registry *prometheus.Registry
	Metrics  *metrics.Prometheus
	Tracer   trace.Tracer
}

// New builds the observability stack writing logs to stdout.
func New(cfg Config) *Observability {
	return NewWithWriter(cfg, os.Stdout)
}

// NewWithWriter builds the observability stack writing logs to w.
func NewWithWriter(cfg Config, w io.Writer) *Observability {
	logger := NewLogger(cfg, w)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Observability{
		Logger:   logger,
		Registry: registry,
		Metrics:  metrics.NewPrometheus(registry),
		Tracer:   otel.Tracer(cfg.ServiceName),
	}
}

// NewLogger returns a JSON logger, or a text logger in development.
func NewLogger(cfg Config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.LogLevel)}

	var handler slog.Handler
	if strings.EqualFold(cfg.Environment, "development") {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}

	return slog.New(handler).With(
		slog.String("service", cfg.ServiceName),
		slog.String("env", cfg.Environment),
	)
}

// ParseLevel maps a config string to a slog level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
