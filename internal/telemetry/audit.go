package telemetry

import (
	"log/slog"
	"sync"

	"cityeats/internal/domain"
	"cityeats/internal/eventbus"
)

// Audit keeps a log trail and per-session counters of searches and detections
type Audit struct {
	mu     sync.Mutex
	counts map[domain.EventType]int
	logger *slog.Logger
}

// NewAudit creates an audit trail writing to logger
func NewAudit(logger *slog.Logger) *Audit {
	if logger == nil {
		logger = slog.Default()
	}
	return &Audit{
		counts: make(map[domain.EventType]int),
		logger: logger.With(slog.String("component", "audit")),
	}
}

var audited = []domain.EventType{
	domain.EventSearchStarted,
	domain.EventSearchCompleted,
	domain.EventSearchFailed,
	domain.EventNavigateToResults,
	domain.EventLocationDetected,
}

// Attach subscribes to bus and returns a func that detaches again
func (a *Audit) Attach(bus eventbus.EventBus) func() {
	unsubs := make([]func(), 0, len(audited))
	for _, t := range audited {
		unsubs = append(unsubs, bus.Subscribe(t, a.handle))
	}
	return func() {
		for _, u := range unsubs {
			u()
		}
	}
}

// Count returns how many events of type t were seen
func (a *Audit) Count(t domain.EventType) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.counts[t]
}

// LogSummary writes the session counters
func (a *Audit) LogSummary() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.logger.Info("session summary",
		slog.Int("searches", a.counts[domain.EventSearchStarted]),
		slog.Int("completed", a.counts[domain.EventSearchCompleted]),
		slog.Int("failed", a.counts[domain.EventSearchFailed]),
		slog.Int("navigations", a.counts[domain.EventNavigateToResults]),
		slog.Int("detections", a.counts[domain.EventLocationDetected]))
}

func (a *Audit) handle(e eventbus.DomainEvent) {
	a.mu.Lock()
	a.counts[e.Type()]++
	a.mu.Unlock()

	switch e := e.(type) {
	case domain.SearchStartedEvent:
		a.logger.Info("search started", slog.String("id", e.ID), slog.String("city", e.City))
	case domain.SearchCompletedEvent:
		a.logger.Info("search completed", slog.String("id", e.ID), slog.String("city", e.City),
			slog.Int("insights", e.Insights))
	case domain.SearchFailedEvent:
		a.logger.Warn("search failed", slog.String("id", e.ID), slog.String("city", e.City),
			slog.Any("error", e.Err))
	case domain.NavigateToResultsEvent:
		a.logger.Info("showing results", slog.String("city", e.City))
	case domain.LocationDetectedEvent:
		a.logger.Info("location detected", slog.String("outcome", e.Outcome), slog.String("city", e.City))
	}
}
