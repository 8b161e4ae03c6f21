package ui

import "github.com/charmbracelet/lipgloss"

// Color palette.
const (
	colorAccent   = "39"  // blue accent for headers and selection
	colorDir      = "75"  // directories
	colorGray     = "245" // secondary text
	colorDarkGray = "238" // borders, separators
	colorRed      = "196" // errors
	colorYellow   = "220" // warnings
	colorGreen    = "114" // name matches
)

// Styles holds all UI styles for TUI rendering.
type Styles struct {
	Header    lipgloss.Style
	Dir       lipgloss.Style
	File      lipgloss.Style
	Selected  lipgloss.Style
	Dim       lipgloss.Style
	Info      lipgloss.Style
	Warning   lipgloss.Style
	Error     lipgloss.Style
	NameMatch lipgloss.Style
	PathMatch lipgloss.Style
	Panel     lipgloss.Style
	Input     lipgloss.Style
}

// DefaultStyles returns the styled components for color terminals.
func DefaultStyles() Styles {
	return Styles{
		Header:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(colorAccent)),
		Dir:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(colorDir)),
		File:      lipgloss.NewStyle(),
		Selected:  lipgloss.NewStyle().Reverse(true),
		Dim:       lipgloss.NewStyle().Foreground(lipgloss.Color(colorGray)),
		Info:      lipgloss.NewStyle().Foreground(lipgloss.Color(colorGray)),
		Warning:   lipgloss.NewStyle().Foreground(lipgloss.Color(colorYellow)),
		Error:     lipgloss.NewStyle().Foreground(lipgloss.Color(colorRed)),
		NameMatch: lipgloss.NewStyle().Foreground(lipgloss.Color(colorGreen)),
		PathMatch: lipgloss.NewStyle().Foreground(lipgloss.Color(colorYellow)),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(colorDarkGray)).
			Padding(0, 1),
		Input: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(colorAccent)).
			Padding(0, 1),
	}
}

// NoColorStyles returns unstyled components for plain terminals.
func NoColorStyles() Styles {
	plain := lipgloss.NewStyle()
	return Styles{
		Header:    plain,
		Dir:       plain,
		File:      plain,
		Selected:  lipgloss.NewStyle().Reverse(true),
		Dim:       plain,
		Info:      plain,
		Warning:   plain,
		Error:     plain,
		NameMatch: plain,
		PathMatch: plain,
		Panel:     lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(0, 1),
		Input:     lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(0, 1),
	}
}
