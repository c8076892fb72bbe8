package views

import (
	"github.com/charmbracelet/lipgloss"

	"cityeats/internal/domain"
)

// Palette holds the colours a theme is built from
type Palette struct {
	Accent    lipgloss.Color
	Secondary lipgloss.Color
	Text      lipgloss.Color
	Muted     lipgloss.Color
	Border    lipgloss.Color
	Surface   lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color
}

var (
	lightPalette = Palette{
		Accent:    lipgloss.Color("202"), // orange
		Secondary: lipgloss.Color("33"),  // blue
		Text:      lipgloss.Color("235"),
		Muted:     lipgloss.Color("244"),
		Border:    lipgloss.Color("250"),
		Surface:   lipgloss.Color("255"),
		Warning:   lipgloss.Color("166"),
		Error:     lipgloss.Color("160"),
	}
	darkPalette = Palette{
		Accent:    lipgloss.Color("214"), // yellow
		Secondary: lipgloss.Color("39"),  // cyan
		Text:      lipgloss.Color("252"),
		Muted:     lipgloss.Color("241"),
		Border:    lipgloss.Color("238"),
		Surface:   lipgloss.Color("236"),
		Warning:   lipgloss.Color("214"),
		Error:     lipgloss.Color("203"),
	}
)

// Styles contains all the style definitions for the UI
type Styles struct {
	Title       lipgloss.Style
	Subtitle    lipgloss.Style
	Dim         lipgloss.Style
	Input       lipgloss.Style
	Suggestion  lipgloss.Style
	Highlight   lipgloss.Style
	Empty       lipgloss.Style
	Section     lipgloss.Style
	Chip        lipgloss.Style
	ChipFocused lipgloss.Style
	Status      lipgloss.Style
	Advisory    lipgloss.Style
	Heading     lipgloss.Style
	Card        lipgloss.Style
	CardTitle   lipgloss.Style
	Link        lipgloss.Style
	Restaurant  lipgloss.Style
	Help        lipgloss.Style
	Main        lipgloss.Style
}

// PaletteFor returns the palette of a theme
func PaletteFor(theme domain.Theme) Palette {
	if theme == domain.ThemeDark {
		return darkPalette
	}
	return lightPalette
}

// NewStyles creates the styles for a theme
func NewStyles(theme domain.Theme) *Styles {
	p := PaletteFor(theme)
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Accent),
		Subtitle: lipgloss.NewStyle().Foreground(p.Muted).Italic(true),
		Dim:      lipgloss.NewStyle().Foreground(p.Muted),
		Input: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Accent).
			Padding(0, 1),
		Suggestion: lipgloss.NewStyle().Foreground(p.Text).PaddingLeft(2),
		Highlight: lipgloss.NewStyle().
			Foreground(p.Surface).
			Background(p.Accent).
			Bold(true).
			PaddingLeft(2),
		Empty:   lipgloss.NewStyle().Foreground(p.Muted).Italic(true).PaddingLeft(2),
		Section: lipgloss.NewStyle().Bold(true).Foreground(p.Secondary).MarginTop(1),
		Chip: lipgloss.NewStyle().
			Foreground(p.Text).
			Background(p.Surface).
			Padding(0, 1).
			MarginRight(1),
		ChipFocused: lipgloss.NewStyle().
			Foreground(p.Surface).
			Background(p.Secondary).
			Bold(true).
			Padding(0, 1).
			MarginRight(1),
		Status:   lipgloss.NewStyle().Foreground(p.Muted),
		Advisory: lipgloss.NewStyle().Foreground(p.Warning).Bold(true),
		Heading: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Accent).
			MarginBottom(1),
		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Border).
			Padding(0, 1).
			MarginBottom(1),
		CardTitle:  lipgloss.NewStyle().Bold(true).Foreground(p.Secondary),
		Link:       lipgloss.NewStyle().Foreground(p.Muted).Underline(true),
		Restaurant: lipgloss.NewStyle().Bold(true).Foreground(p.Text),
		Help:       lipgloss.NewStyle().Faint(true),
		Main:       lipgloss.NewStyle().Padding(1, 2),
	}
}
