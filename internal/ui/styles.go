package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/dstanek/logprobe/internal/classify"
)

// Color palette - using ANSI 256 colors for broad terminal support
var (
	ColorCyan   = lipgloss.Color("6")
	ColorYellow = lipgloss.Color("3")
	ColorRed    = lipgloss.Color("1")
	ColorGreen  = lipgloss.Color("2")
	ColorGray   = lipgloss.Color("8")
	ColorWhite  = lipgloss.Color("15")
	ColorBlack  = lipgloss.Color("0")
)

// Text styles
var (
	// Timestamps in log output
	TimestampStyle = lipgloss.NewStyle().Foreground(ColorCyan)

	// Status messages ("Analyzing...", "Exporting...")
	StatusStyle = lipgloss.NewStyle().Foreground(ColorGray).Italic(true)

	// Error messages and ERROR lines
	ErrorStyle = lipgloss.NewStyle().Foreground(ColorRed).Bold(true)

	// Warning messages and WARNING lines
	WarningStyle = lipgloss.NewStyle().Foreground(ColorYellow)

	// Success messages
	SuccessStyle = lipgloss.NewStyle().Foreground(ColorGreen)

	// Muted/secondary text (line numbers, DEBUG lines, footers)
	MutedStyle = lipgloss.NewStyle().Foreground(ColorGray)

	// Highlighted search matches
	HighlightStyle = lipgloss.NewStyle().
			Background(ColorYellow).
			Foreground(ColorBlack).
			Bold(true)

	// Labels (summary field names, section headers)
	LabelStyle = lipgloss.NewStyle().Foreground(ColorCyan).Bold(true)

	// Section titles
	SectionTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorCyan)

	// Active filter descriptions in the pager status bar
	FilterStyle = lipgloss.NewStyle().Foreground(ColorYellow).Italic(true)
)

// Box styles
var (
	MessageBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorGray).
			Padding(0, 1)

	ErrorBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorRed).
			Padding(0, 1)
)

// severityStyles maps a classified severity to its line style. INFO and
// UNKNOWN lines render unstyled.
var severityStyles = map[classify.Severity]lipgloss.Style{
	classify.SeverityError:   ErrorStyle,
	classify.SeverityWarning: WarningStyle,
	classify.SeverityDebug:   MutedStyle,
}
