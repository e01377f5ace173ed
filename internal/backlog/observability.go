package backlog

import (
	"io"
	"log/slog"
)

// FetchEvent records metadata about a single backlog request.
type FetchEvent struct {
	Endpoint   Endpoint
	LatencyMs  int64
	Attempts   int
	StatusCode int
	Success    bool
	ErrorCode  string
}

// Observer receives events about backlog requests for logging and metrics.
type Observer interface {
	OnFetchComplete(event FetchEvent)
}

// LogObserver writes fetch events through slog.
type LogObserver struct {
	logger *slog.Logger
}

// NewLogObserver creates an Observer that logs events to w.
func NewLogObserver(w io.Writer) *LogObserver {
	return &LogObserver{
		logger: slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})),
	}
}

func (o *LogObserver) OnFetchComplete(event FetchEvent) {
	attrs := []any{
		"endpoint", string(event.Endpoint),
		"latency_ms", event.LatencyMs,
		"attempts", event.Attempts,
		"status", event.StatusCode,
	}
	if !event.Success {
		o.logger.Error("backlog_fetch", append(attrs, "error_code", event.ErrorCode)...)
		return
	}
	o.logger.Info("backlog_fetch", attrs...)
}

// NoopObserver discards all events. Useful for tests.
type NoopObserver struct{}

func (NoopObserver) OnFetchComplete(FetchEvent) {}
