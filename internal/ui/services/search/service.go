package search

import (
	"context"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"cityeats/internal/api"
	"cityeats/internal/domain"
	"cityeats/internal/eventbus"
	"cityeats/internal/location"
	"cityeats/internal/ui/services/navigation"
	"cityeats/internal/ui/services/suggestions"
)

// Deps wires a Service
type Deps struct {
	Suggestions  *suggestions.Service
	Navigation   *navigation.Service
	Insights     InsightsFetcher
	Detector     LocationDetector
	History      History
	Trending     []string
	Collaborator Collaborator
	Bus          eventbus.EventBus
	Timeout      time.Duration
	Logger       *slog.Logger
	NewID        func() string
}

// Service binds suggestions, navigation, location detection and history into
// the commit protocol
type Service struct {
	state        *State
	fetcher      *suggestions.Service
	nav          *navigation.Service
	insights     InsightsFetcher
	detector     LocationDetector
	history      History
	trending     []string
	collaborator Collaborator
	bus          eventbus.EventBus
	timeout      time.Duration
	logger       *slog.Logger
	newID        func() string
}

// NewService creates a new search service
func NewService(d Deps) *Service {
	if d.Navigation == nil {
		d.Navigation = navigation.NewService()
	}
	if d.Timeout <= 0 {
		d.Timeout = 30 * time.Second
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.NewID == nil {
		d.NewID = uuid.NewString
	}
	return &Service{
		state:        &State{},
		fetcher:      d.Suggestions,
		nav:          d.Navigation,
		insights:     d.Insights,
		detector:     d.Detector,
		history:      d.History,
		trending:     d.Trending,
		collaborator: d.Collaborator,
		bus:          d.Bus,
		timeout:      d.Timeout,
		logger:       d.Logger.With(slog.String("component", "search")),
		newID:        d.NewID,
	}
}

// SetCollaborator attaches the render surface once it exists
func (s *Service) SetCollaborator(c Collaborator) {
	s.collaborator = c
}

// SetQuery records a direct text edit and schedules a suggestion fetch
func (s *Service) SetQuery(text string) tea.Cmd {
	s.state.Query = text
	cmd := s.fetcher.OnTextChanged(text)
	s.nav.SetItems(s.fetcher.Suggestions())
	s.render()
	return cmd
}

// Down moves the suggestion highlight forward
func (s *Service) Down() {
	s.nav.Down()
	s.render()
}

// Up moves the suggestion highlight back
func (s *Service) Up() {
	s.nav.Up()
	s.render()
}

// SetListHeight sets how many suggestions are visible at once
func (s *Service) SetListHeight(rows int) {
	s.nav.SetViewportHeight(rows)
	s.render()
}

// Enter commits the highlighted suggestion, or the typed text when none is highlighted
func (s *Service) Enter() tea.Cmd {
	city, fromList := s.nav.Commit(s.state.Query)
	if fromList {
		return s.Select(city)
	}
	return s.Commit("")
}

// Select commits a chosen city (suggestion or chip) without waiting for the debounce.
// The query text becomes the chosen city.
func (s *Service) Select(city string) tea.Cmd {
	if strings.TrimSpace(city) == "" {
		return nil
	}
	s.state.Query = city
	return s.Commit(city)
}

// Commit resolves the effective city and issues the insights lookup. An empty
// candidate falls back to the query text; if both are blank nothing happens.
func (s *Service) Commit(candidate string) tea.Cmd {
	city := candidate
	if strings.TrimSpace(city) == "" {
		city = s.state.Query
	}
	city = strings.TrimSpace(city)
	if city == "" {
		return nil
	}

	s.state.inflight++
	s.state.Loading.Searching = true
	s.fetcher.Close()
	s.nav.SetItems(nil)

	id := s.newID()
	s.logger.Info("search started", slog.String("id", id), slog.String("city", city))
	s.publish(domain.SearchStartedEvent{ID: id, City: city})
	s.render()

	fetcher, timeout := s.insights, s.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(api.WithRequestID(context.Background(), id), timeout)
		defer cancel()
		result, err := fetcher.Insights(ctx, city)
		return ResultMsg{ID: id, City: city, Result: result, Err: err}
	}
}

// DetectLocation starts a detection. It is rejected while one is running.
func (s *Service) DetectLocation() tea.Cmd {
	if s.state.Loading.Detecting {
		return nil
	}
	s.state.Loading.Detecting = true
	s.render()

	detector, timeout := s.detector, s.timeout
	return func() tea.Msg {
		if detector == nil {
			return DetectMsg{Result: location.Result{Outcome: location.Unavailable, Err: location.ErrUnavailable}}
		}
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return DetectMsg{Result: detector.Detect(ctx)}
	}
}

// CloseSuggestions clears the list and discards any pending fetch.
// It reports whether a list was open.
func (s *Service) CloseSuggestions() bool {
	open := s.nav.Active()
	s.fetcher.Close()
	s.nav.SetItems(nil)
	s.render()
	return open
}

// Update handles the messages produced by this service's commands
func (s *Service) Update(msg tea.Msg) (tea.Cmd, bool) {
	if cmd, handled, changed := s.fetcher.Update(msg); handled {
		if changed {
			s.nav.SetItems(s.fetcher.Suggestions())
			s.render()
		}
		return cmd, true
	}

	switch msg := msg.(type) {
	case ResultMsg:
		s.handleResult(msg)
		return nil, true
	case DetectMsg:
		return s.handleDetect(msg), true
	}
	return nil, false
}

// Snapshot returns the current state
func (s *Service) Snapshot() Snapshot {
	start, end := s.nav.Window()
	var recent []string
	if s.history != nil {
		recent = s.history.Entries()
	}
	return Snapshot{
		Query:          s.state.Query,
		Suggestions:    s.nav.Items(),
		Queried:        s.fetcher.Queried(),
		HighlightIndex: s.nav.Index(),
		WindowStart:    start,
		WindowEnd:      end,
		Loading:        s.state.Loading,
		Recent:         recent,
		Trending:       s.trending,
	}
}

// Loading returns the loading flags
func (s *Service) Loading() domain.LoadingFlags {
	return s.state.Loading
}

func (s *Service) handleResult(msg ResultMsg) {
	s.state.inflight--
	if s.state.inflight < 0 {
		s.state.inflight = 0
	}
	s.state.Loading.Searching = s.state.inflight > 0

	if msg.Err != nil {
		s.logger.Warn("insights lookup failed",
			slog.String("id", msg.ID), slog.String("city", msg.City), slog.Any("error", msg.Err))
		s.publish(domain.SearchFailedEvent{ID: msg.ID, City: msg.City, Err: msg.Err})
		s.render()
		return
	}

	if s.history != nil {
		entries := s.history.Record(msg.City)
		s.publish(domain.HistoryChangedEvent{Entries: entries})
	}
	s.logger.Info("search completed",
		slog.String("id", msg.ID), slog.String("city", msg.City), slog.Int("insights", len(msg.Result.Insights)))
	s.publish(domain.SearchCompletedEvent{ID: msg.ID, City: msg.City, Insights: len(msg.Result.Insights)})
	s.publish(domain.NavigateToResultsEvent{City: msg.City, Result: msg.Result})
	s.render()
	if s.collaborator != nil {
		s.collaborator.Navigate(msg.Result)
	}
}

func (s *Service) handleDetect(msg DetectMsg) tea.Cmd {
	s.state.Loading.Detecting = false
	res := msg.Result
	s.publish(domain.LocationDetectedEvent{Outcome: res.Outcome.String(), City: res.City})

	if advisory := res.Advisory(); advisory != "" && s.collaborator != nil {
		s.collaborator.Advise(advisory)
	}
	if res.City == "" {
		s.render()
		return nil
	}
	return s.SetQuery(res.City)
}

func (s *Service) publish(event domain.DomainEvent) {
	if s.bus != nil {
		s.bus.Publish(event)
	}
}

func (s *Service) render() {
	if s.collaborator != nil {
		s.collaborator.Render(s.Snapshot())
	}
}
