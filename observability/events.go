package observability

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"vaultrewards/core/events"
)

type eventMetrics struct {
	emitted *prometheus.CounterVec
}

var (
	eventMetricsOnce sync.Once
	eventRegistry    *eventMetrics
)

// Events returns the metrics registry tracking structured ledger events.
func Events() *eventMetrics {
	eventMetricsOnce.Do(func() {
		eventRegistry = &eventMetrics{
			emitted: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "vaultrewards",
				Subsystem: "events",
				Name:      "emitted_total",
				Help:      "Count of reward ledger events segmented by type.",
			}, []string{"type"}),
		}
		prometheus.MustRegister(eventRegistry.emitted)
	})
	return eventRegistry
}

// RecordEvent increments the counter for the supplied event type.
func (m *eventMetrics) RecordEvent(kind string) {
	if m == nil {
		return
	}
	normalized := strings.TrimSpace(kind)
	if normalized == "" {
		normalized = "unknown"
	}
	m.emitted.WithLabelValues(normalized).Inc()
}

// LoggingEmitter counts every event, writes it to the logger at debug level
// and forwards it to Next when set.
type LoggingEmitter struct {
	Logger *slog.Logger
	Next   events.Emitter
}

// Emit implements events.Emitter.
func (e LoggingEmitter) Emit(evt events.Event) {
	if evt == nil {
		return
	}
	Events().RecordEvent(evt.EventType())
	if e.Logger != nil {
		flat := evt.Event()
		args := make([]any, 0, 2*len(flat.Attributes)+2)
		args = append(args, "height", flat.Height)
		for key, value := range flat.Attributes {
			args = append(args, key, value)
		}
		e.Logger.Debug(flat.Type, args...)
	}
	if e.Next != nil {
		e.Next.Emit(evt)
	}
}
