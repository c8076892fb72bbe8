package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"cityeats/internal/domain"
)

const (
	appTitle    = "CityEats Insight"
	appSubtitle = "Discover what locals love to eat, city by city"

	// ReadyMarker is printed in the title line when running under the e2e harness
	ReadyMarker = "__READY__"
)

// SearchScreen contains all the state needed for rendering the search screen
type SearchScreen struct {
	Width       int
	Height      int
	Input       string // rendered text input
	Query       string
	Suggestions []string
	Queried     bool
	Highlight   int
	WindowStart int
	WindowEnd   int
	Trending    []string
	Recent      []string
	ChipFocus   int // index over Trending then Recent, -1 when no chip has focus
	Status      string
	Advisory    string
	Help        string
	Theme       domain.Theme
	Ready       bool
}

// ResultsScreen contains the state needed for rendering the results screen
type ResultsScreen struct {
	Width  int
	Height int
	City   string
	Body   string // scrolled card content
	Scroll float64
	Help   string
	Theme  domain.Theme
}

// Renderer handles all view rendering
type Renderer struct {
	styles *Styles
	theme  domain.Theme
}

// NewRenderer creates a new renderer
func NewRenderer(theme domain.Theme) *Renderer {
	return &Renderer{styles: NewStyles(theme), theme: theme}
}

// SetTheme swaps the palette
func (r *Renderer) SetTheme(theme domain.Theme) {
	r.theme = theme
	r.styles = NewStyles(theme)
}

// Theme returns the active theme
func (r *Renderer) Theme() domain.Theme {
	return r.theme
}

// Styles returns the active styles
func (r *Renderer) Styles() *Styles {
	return r.styles
}

// RenderSearch produces the search screen
func (r *Renderer) RenderSearch(state SearchScreen) string {
	content := &strings.Builder{}

	content.WriteString(r.titleLine(state.Width, state.Ready))
	content.WriteString("\n")
	content.WriteString(r.styles.Subtitle.Render(appSubtitle))
	content.WriteString("\n\n")

	content.WriteString(r.styles.Input.Render(state.Input))
	content.WriteString("\n")

	if list := r.renderSuggestions(state); list != "" {
		content.WriteString(list)
		content.WriteString("\n")
	}

	switch {
	case state.Advisory != "":
		content.WriteString(r.styles.Advisory.Render(state.Advisory))
		content.WriteString("\n")
	case state.Status != "":
		content.WriteString(r.styles.Status.Render(state.Status))
		content.WriteString("\n")
	}

	content.WriteString(r.renderChips("Trending cities", state.Trending, state.ChipFocus))
	if len(state.Recent) > 0 {
		content.WriteString(r.renderChips("Recent searches", state.Recent, state.ChipFocus-len(state.Trending)))
	}

	return r.frame(content.String(), state.Help, state.Height)
}

// RenderResults produces the results screen around an already rendered body
func (r *Renderer) RenderResults(state ResultsScreen) string {
	content := &strings.Builder{}

	content.WriteString(r.titleLine(state.Width, false))
	content.WriteString("\n")
	content.WriteString(r.styles.Heading.Render(strings.ToUpper(state.City)))
	content.WriteString("\n")
	content.WriteString(state.Body)

	help := state.Help
	if state.Scroll > 0 && state.Scroll < 1 {
		help = fmt.Sprintf("%3.f%%  %s", state.Scroll*100, help)
	}
	return r.frame(content.String(), help, state.Height)
}

// RenderInsights renders one card per insight, wrapped to width
func (r *Renderer) RenderInsights(result domain.SearchResult, width int) string {
	if len(result.Insights) == 0 {
		return r.styles.Dim.Render("No insights found for this city yet.")
	}

	cardWidth := width - 6
	if cardWidth < 20 {
		cardWidth = 20
	}
	textWidth := cardWidth - 4

	cards := make([]string, 0, len(result.Insights))
	for _, insight := range result.Insights {
		var card strings.Builder
		card.WriteString(r.styles.CardTitle.Width(textWidth).Render(insight.Title))
		if insight.Score != 0 {
			card.WriteString(r.styles.Dim.Render(fmt.Sprintf("  ▲ %d", insight.Score)))
		}
		card.WriteString("\n")

		if overview := strings.TrimSpace(insight.Summary.CityOverview); overview != "" {
			card.WriteString(lipgloss.NewStyle().Width(textWidth).Render(overview))
			card.WriteString("\n")
		}

		if len(insight.Summary.TopRecommendations) > 0 {
			card.WriteString("\n")
			for _, rec := range insight.Summary.TopRecommendations {
				card.WriteString(lipgloss.NewStyle().Width(textWidth).Render(r.recommendation(rec)))
				card.WriteString("\n")
			}
		}

		if insight.URL != "" {
			card.WriteString(r.styles.Link.Render(insight.URL))
		}
		cards = append(cards, r.styles.Card.Width(cardWidth).Render(strings.TrimRight(card.String(), "\n")))
	}
	return lipgloss.JoinVertical(lipgloss.Left, cards...)
}

func (r *Renderer) recommendation(rec domain.Recommendation) string {
	line := "• " + r.styles.Restaurant.Render(rec.RestaurantName)
	if rec.PopularDish != "" {
		line += " — " + rec.PopularDish
	}
	if rec.Reason != "" {
		line += r.styles.Dim.Render(" (" + rec.Reason + ")")
	}
	return line
}

func (r *Renderer) titleLine(width int, ready bool) string {
	logo := r.styles.Title.Render(appTitle)
	right := "☀ light"
	if r.theme == domain.ThemeDark {
		right = "☾ dark"
	}
	if ready {
		right = ReadyMarker + " " + right
	}
	right = r.styles.Dim.Render(right)

	termWidth := width
	if termWidth <= 0 {
		termWidth = 80
	}
	padding := termWidth - 4 - lipgloss.Width(logo) - lipgloss.Width(right)
	if padding < 2 {
		padding = 2
	}
	return logo + strings.Repeat(" ", padding) + right
}

func (r *Renderer) renderSuggestions(state SearchScreen) string {
	if len(state.Suggestions) == 0 {
		if state.Queried {
			return r.styles.Empty.Render("No matching cities")
		}
		return ""
	}

	start, end := state.WindowStart, state.WindowEnd
	if end <= start || end > len(state.Suggestions) {
		start, end = 0, len(state.Suggestions)
	}

	lines := make([]string, 0, end-start+2)
	if start > 0 {
		lines = append(lines, r.styles.Dim.Render("  ↑ more"))
	}
	for i := start; i < end; i++ {
		if i == state.Highlight {
			lines = append(lines, r.styles.Highlight.Render(state.Suggestions[i]))
		} else {
			lines = append(lines, r.styles.Suggestion.Render(state.Suggestions[i]))
		}
	}
	if end < len(state.Suggestions) {
		lines = append(lines, r.styles.Dim.Render("  ↓ more"))
	}
	return strings.Join(lines, "\n")
}

func (r *Renderer) renderChips(label string, cities []string, focus int) string {
	var b strings.Builder
	b.WriteString(r.styles.Section.Render(label))
	b.WriteString("\n")

	chips := make([]string, 0, len(cities))
	for i, city := range cities {
		if i == focus {
			chips = append(chips, r.styles.ChipFocused.Render(city))
		} else {
			chips = append(chips, r.styles.Chip.Render(city))
		}
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, chips...))
	b.WriteString("\n")
	return b.String()
}

// frame pushes help to the bottom and applies the main container style
func (r *Renderer) frame(body, help string, height int) string {
	content := &strings.Builder{}
	content.WriteString(body)

	if help != "" {
		currentLines := strings.Count(body, "\n") + 1
		availableLines := height - 2
		if availableLines <= 0 {
			availableLines = 22
		}
		if pad := availableLines - currentLines - 1; pad > 0 {
			content.WriteString(strings.Repeat("\n", pad))
		}
		content.WriteString("\n")
		content.WriteString(r.styles.Help.Render(help))
	}

	mainStyle := r.styles.Main
	if height > 0 {
		mainStyle = mainStyle.MaxHeight(height)
	}
	return mainStyle.Render(content.String())
}
