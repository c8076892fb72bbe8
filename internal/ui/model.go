package ui

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"cityeats/internal/domain"
	"cityeats/internal/theme"
	"cityeats/internal/ui/services/search"
	"cityeats/internal/ui/views"
)

type screen int

const (
	screenSearch screen = iota
	screenResults
)

// Rows of the search screen outside the suggestion list
const (
	searchChrome = 16
	minListRows  = 3
)

// Options configures a Model
type Options struct {
	Theme       *theme.Preference
	Logger      *slog.Logger
	ReadyMarker bool // print the e2e ready marker in the title line
}

// Model represents the UI state. It is the render surface the search service reports to.
type Model struct {
	search *search.Service
	theme  *theme.Preference
	logger *slog.Logger

	input    textinput.Model
	spinner  spinner.Model
	help     help.Model
	viewport viewport.Model
	keys     keyMap
	renderer *views.Renderer

	snapshot  search.Snapshot
	screen    screen
	result    domain.SearchResult
	advisory  string
	chipFocus int
	spinning  bool

	width       int
	height      int
	inPagerMode bool // tracks if we're currently in pager mode
	readyMarker bool

	// Program reference for terminal management
	program *tea.Program
	pager   *PagerOps
}

// NewModel creates a new UI model and attaches it to svc
func NewModel(svc *search.Service, opts Options) *Model {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	current := domain.ThemeLight
	if opts.Theme != nil {
		current = opts.Theme.Current()
	}

	ti := textinput.New()
	ti.Placeholder = "Search a city, e.g. Hyderabad"
	ti.Prompt = "⌕ "
	ti.CharLimit = 80
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot

	m := &Model{
		search:      svc,
		theme:       opts.Theme,
		logger:      logger.With(slog.String("component", "ui")),
		input:       ti,
		spinner:     sp,
		help:        help.New(),
		viewport:    viewport.New(80, 20),
		keys:        newKeyMap(),
		renderer:    views.NewRenderer(current),
		chipFocus:   -1,
		readyMarker: opts.ReadyMarker,
	}
	m.applyTheme(current)

	svc.SetCollaborator(m)
	m.snapshot = svc.Snapshot()
	return m
}

// SetProgram sets the program reference for terminal management
func (m *Model) SetProgram(p *tea.Program) {
	m.program = p
	m.pager = NewPagerOps(p)
}

// Render implements search.Collaborator
func (m *Model) Render(s search.Snapshot) {
	m.snapshot = s
	if m.input.Value() != s.Query {
		m.input.SetValue(s.Query)
		m.input.CursorEnd()
	}
}

// Navigate implements search.Collaborator by switching to the results screen
func (m *Model) Navigate(result domain.SearchResult) {
	m.result = result
	m.setScreen(screenResults)
	m.refreshResults()
	m.viewport.GotoTop()
}

// Advise implements search.Collaborator; the message stays until the next key
func (m *Model) Advise(message string) {
	m.advisory = message
}

// Init returns an initial command
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		if m.screen == screenResults {
			return m, m.handleResultsKey(msg)
		}
		return m, m.handleSearchKey(msg)

	case spinner.TickMsg:
		if !m.loading() {
			m.spinning = false
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case EventMsg:
		m.handleEvent(msg.Event)
		return m, nil

	case pagerMsg:
		if msg.err != nil {
			m.logger.Warn("pager failed", slog.Any("error", msg.err))
		}
		return m, nil

	case pauseRenderingMsg:
		m.inPagerMode = true
		return m, nil

	case resumeRenderingMsg:
		m.inPagerMode = false
		return m, nil
	}

	if cmd, handled := m.search.Update(msg); handled {
		return m, m.withSpinner(cmd)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the UI
func (m *Model) View() string {
	if m.inPagerMode {
		return ""
	}

	if m.screen == screenResults {
		return m.renderer.RenderResults(views.ResultsScreen{
			Width:  m.width,
			Height: m.height,
			City:   m.result.City,
			Body:   m.viewport.View(),
			Scroll: m.viewport.ScrollPercent(),
			Help:   m.help.View(m.keys),
			Theme:  m.renderer.Theme(),
		})
	}

	return m.renderer.RenderSearch(views.SearchScreen{
		Width:       m.width,
		Height:      m.height,
		Input:       m.input.View(),
		Query:       m.snapshot.Query,
		Suggestions: m.snapshot.Suggestions,
		Queried:     m.snapshot.Queried,
		Highlight:   m.snapshot.HighlightIndex,
		WindowStart: m.snapshot.WindowStart,
		WindowEnd:   m.snapshot.WindowEnd,
		Trending:    m.snapshot.Trending,
		Recent:      m.snapshot.Recent,
		ChipFocus:   m.chipFocus,
		Status:      m.status(),
		Advisory:    m.advisory,
		Help:        m.help.View(m.keys),
		Theme:       m.renderer.Theme(),
		Ready:       m.readyMarker,
	})
}

func (m *Model) handleSearchKey(msg tea.KeyMsg) tea.Cmd {
	m.advisory = ""

	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit

	case key.Matches(msg, m.keys.Theme):
		m.toggleTheme()
		return nil

	case key.Matches(msg, m.keys.Locate):
		return m.withSpinner(m.search.DetectLocation())

	case key.Matches(msg, m.keys.Close):
		if m.search.CloseSuggestions() {
			return nil
		}
		if m.chipFocus >= 0 {
			m.chipFocus = -1
			return nil
		}
		return tea.Quit

	case key.Matches(msg, m.keys.Down):
		if len(m.snapshot.Suggestions) > 0 {
			m.chipFocus = -1
			m.search.Down()
		}
		return nil

	case key.Matches(msg, m.keys.Up):
		if len(m.snapshot.Suggestions) > 0 {
			m.chipFocus = -1
			m.search.Up()
		}
		return nil

	case key.Matches(msg, m.keys.NextChip):
		if len(m.snapshot.Suggestions) == 0 {
			m.moveChip(1)
		}
		return nil

	case key.Matches(msg, m.keys.PrevChip):
		if len(m.snapshot.Suggestions) == 0 {
			m.moveChip(-1)
		}
		return nil

	case key.Matches(msg, m.keys.Enter):
		// a lookup is already running; the search action is disabled until it settles
		if m.snapshot.Loading.Searching {
			return nil
		}
		if city, ok := m.focusedChip(); ok {
			m.chipFocus = -1
			return m.withSpinner(m.search.Select(city))
		}
		return m.withSpinner(m.search.Enter())
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if value := m.input.Value(); value != before {
		m.chipFocus = -1
		return tea.Batch(cmd, m.search.SetQuery(value))
	}
	return cmd
}

func (m *Model) handleResultsKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit), msg.String() == "q":
		return tea.Quit

	case key.Matches(msg, m.keys.Theme):
		m.toggleTheme()
		return nil

	case key.Matches(msg, m.keys.Back):
		m.setScreen(screenSearch)
		return m.input.Focus()

	case key.Matches(msg, m.keys.Pager):
		return m.openPager(m.pagerContent())
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return cmd
}

func (m *Model) handleEvent(event domain.DomainEvent) {
	switch e := event.(type) {
	case domain.ThemeChangedEvent:
		if e.Theme != m.renderer.Theme() {
			m.applyTheme(e.Theme)
		}
	case domain.HistoryChangedEvent:
		m.snapshot.Recent = e.Entries
	}
}

// openPager returns a command that shows content using ov pager
func (m *Model) openPager(content string) tea.Cmd {
	program, pager := m.program, m.pager
	return func() tea.Msg {
		if program == nil || pager == nil {
			return pagerMsg{err: errors.New("program not set")}
		}
		// Send pause message to stop rendering
		program.Send(pauseRenderingMsg{})
		err := pager.Show(content)
		program.Send(resumeRenderingMsg{})
		return pagerMsg{err: err}
	}
}

func (m *Model) pagerContent() string {
	width := m.width
	if width <= 0 {
		width = 80
	}
	heading := m.renderer.Styles().Heading.Render(strings.ToUpper(m.result.City))
	return heading + "\n" + m.renderer.RenderInsights(m.result, width) + "\n"
}

func (m *Model) withSpinner(cmd tea.Cmd) tea.Cmd {
	if !m.loading() || m.spinning {
		return cmd
	}
	m.spinning = true
	return tea.Batch(cmd, m.spinner.Tick)
}

func (m *Model) loading() bool {
	l := m.snapshot.Loading
	return l.Searching || l.Detecting
}

func (m *Model) status() string {
	var parts []string
	if m.snapshot.Loading.Searching {
		parts = append(parts, m.spinner.View()+" Searching…")
	}
	if m.snapshot.Loading.Detecting {
		parts = append(parts, m.spinner.View()+" Detecting…")
	}
	return strings.Join(parts, "  ")
}

func (m *Model) chips() []string {
	out := make([]string, 0, len(m.snapshot.Trending)+len(m.snapshot.Recent))
	out = append(out, m.snapshot.Trending...)
	return append(out, m.snapshot.Recent...)
}

func (m *Model) focusedChip() (string, bool) {
	chips := m.chips()
	if m.chipFocus < 0 || m.chipFocus >= len(chips) {
		return "", false
	}
	return chips[m.chipFocus], true
}

func (m *Model) moveChip(delta int) {
	n := len(m.chips())
	if n == 0 {
		return
	}
	switch {
	case m.chipFocus < 0 && delta > 0:
		m.chipFocus = 0
	case m.chipFocus < 0:
		m.chipFocus = n - 1
	default:
		m.chipFocus = ((m.chipFocus+delta)%n + n) % n
	}
}

func (m *Model) toggleTheme() {
	if m.theme == nil {
		return
	}
	m.applyTheme(m.theme.Toggle())
}

func (m *Model) applyTheme(t domain.Theme) {
	m.renderer.SetTheme(t)
	m.spinner.Style = m.renderer.Styles().Title
	if m.screen == screenResults {
		m.refreshResults()
	}
}

func (m *Model) setScreen(s screen) {
	m.screen = s
	m.keys.screen = s
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width
	m.input.Width = max(width-12, 10)
	// title, heading, help and the container padding
	m.viewport.Width = max(width-4, 20)
	m.viewport.Height = max(height-8, 3)
	m.search.SetListHeight(max(height-searchChrome, minListRows))
	if m.screen == screenResults {
		m.refreshResults()
	}
}

func (m *Model) refreshResults() {
	m.viewport.SetContent(m.renderer.RenderInsights(m.result, m.viewport.Width))
}
