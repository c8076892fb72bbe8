package suggestions

import (
	"context"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
)

const (
	DefaultDebounce  = 400 * time.Millisecond
	DefaultMinLength = 2
)

// Options configures a Service
type Options struct {
	Debounce  time.Duration
	MinLength int
	Timeout   time.Duration
	Logger    *slog.Logger
}

// Service debounces text changes into suggestion queries and keeps the latest result
type Service struct {
	state  *State
	client Suggester
	opts   Options
	cancel context.CancelFunc
	logger *slog.Logger
}

// NewService creates a new suggestion service
func NewService(client Suggester, opts Options) *Service {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.MinLength <= 0 {
		opts.MinLength = DefaultMinLength
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		state:  &State{},
		client: client,
		opts:   opts,
		logger: logger.With(slog.String("component", "suggestions")),
	}
}

// OnTextChanged supersedes any scheduled or in-flight query. Short text clears the
// list right away; otherwise a query is scheduled after the quiet period.
func (s *Service) OnTextChanged(text string) tea.Cmd {
	s.supersede()

	if utf8.RuneCountInString(strings.TrimSpace(text)) < s.opts.MinLength {
		s.clear()
		return nil
	}

	gen := s.state.Generation
	return tea.Tick(s.opts.Debounce, func(time.Time) tea.Msg {
		return DebounceMsg{Generation: gen, Text: text}
	})
}

// Close clears the list and discards anything pending
func (s *Service) Close() {
	s.supersede()
	s.clear()
}

// Update handles the service's own messages. The bool reports whether msg belonged
// to this service; changed reports whether Items was replaced.
func (s *Service) Update(msg tea.Msg) (cmd tea.Cmd, handled bool, changed bool) {
	switch msg := msg.(type) {
	case DebounceMsg:
		return s.handleDebounce(msg), true, false
	case ResultMsg:
		return nil, true, s.handleResult(msg)
	}
	return nil, false, false
}

// Suggestions returns a copy of the current list
func (s *Service) Suggestions() []string {
	out := make([]string, len(s.state.Items))
	copy(out, s.state.Items)
	return out
}

// Queried reports whether the current list came from a response
func (s *Service) Queried() bool {
	return s.state.Queried
}

// Generation returns the current text generation
func (s *Service) Generation() uint64 {
	return s.state.Generation
}

func (s *Service) handleDebounce(msg DebounceMsg) tea.Cmd {
	if msg.Generation != s.state.Generation {
		return nil // superseded during the quiet period
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.opts.Timeout)
	s.cancel = cancel
	client := s.client
	return func() tea.Msg {
		defer cancel()
		items, err := client.Suggestions(ctx, msg.Text)
		return ResultMsg{Generation: msg.Generation, Text: msg.Text, Items: items, Err: err}
	}
}

func (s *Service) handleResult(msg ResultMsg) bool {
	if msg.Generation != s.state.Generation {
		s.logger.Debug("discarding stale suggestions",
			slog.String("query", msg.Text),
			slog.Uint64("generation", msg.Generation),
			slog.Uint64("current", s.state.Generation))
		return false
	}
	s.cancel = nil
	if msg.Err != nil {
		s.logger.Warn("suggestion query failed", slog.String("query", msg.Text), slog.Any("error", msg.Err))
		return false
	}

	items := msg.Items
	if items == nil {
		items = []string{}
	}
	s.state.Items = items
	s.state.Queried = true
	return true
}

func (s *Service) supersede() {
	s.state.Generation++
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (s *Service) clear() {
	s.state.Items = nil
	s.state.Queried = false
}
