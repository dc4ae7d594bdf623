// Package ui handles terminal output styling for both the one-shot
// analyze output and the interactive pager.
package ui

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dstanek/logprobe/internal/classify"
)

// Renderer handles all terminal output with consistent styling.
type Renderer struct {
	out       io.Writer
	err       io.Writer
	noColor   bool
	quiet     bool
	highlight *regexp.Regexp
}

// NewRenderer creates a new Renderer with default settings.
func NewRenderer() *Renderer {
	return &Renderer{
		out: os.Stdout,
		err: os.Stderr,
	}
}

// Option is a functional option for configuring the Renderer.
type Option func(*Renderer)

// WithOutput sets the output writer.
func WithOutput(w io.Writer) Option {
	return func(r *Renderer) {
		r.out = w
	}
}

// WithError sets the error writer.
func WithError(w io.Writer) Option {
	return func(r *Renderer) {
		r.err = w
	}
}

// WithNoColor disables color output.
func WithNoColor(noColor bool) Option {
	return func(r *Renderer) {
		r.noColor = noColor
	}
}

// WithQuiet enables quiet mode (suppresses status messages).
func WithQuiet(quiet bool) Option {
	return func(r *Renderer) {
		r.quiet = quiet
	}
}

// NewRendererWithOptions creates a new Renderer with the given options.
func NewRendererWithOptions(opts ...Option) *Renderer {
	r := NewRenderer()
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SetHighlight sets (or clears, with "") the term highlighted in log lines.
// The term is matched case-insensitively as a literal.
func (r *Renderer) SetHighlight(term string) {
	if term == "" {
		r.highlight = nil
		return
	}
	r.highlight = regexp.MustCompile("(?i)(" + regexp.QuoteMeta(term) + ")")
}

// Out exposes the output writer for callers that stream raw text.
func (r *Renderer) Out() io.Writer {
	return r.out
}

// render applies styling if color is enabled.
func (r *Renderer) render(style lipgloss.Style, text string) string {
	if r.noColor {
		return text
	}
	return style.Render(text)
}

// --- Status and Messages ---

// Status prints a status message (suppressed in quiet mode).
func (r *Renderer) Status(format string, args ...any) {
	if r.quiet {
		return
	}
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(r.err, r.render(StatusStyle, msg))
}

// Info prints an informational message.
func (r *Renderer) Info(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(r.out, msg)
}

// Success prints a success message.
func (r *Renderer) Success(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(r.out, r.render(SuccessStyle, msg))
}

// Warning prints a warning message.
func (r *Renderer) Warning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(r.err, r.render(WarningStyle, "Warning: "+msg))
}

// Error prints an error message.
func (r *Renderer) Error(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(r.err, r.render(ErrorStyle, "Error: "+msg))
}

// Debug prints a debug message (only when verbose).
func (r *Renderer) Debug(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(r.err, r.render(MutedStyle, "[DEBUG] "+msg))
}

// --- Formatted Output ---

// KeyValue prints a key-value pair.
func (r *Renderer) KeyValue(key, value string) {
	label := r.render(LabelStyle, key+":")
	fmt.Fprintf(r.out, "%s %s\n", label, value)
}

// Section prints a section title.
func (r *Renderer) Section(title string) {
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, r.render(SectionTitleStyle, title))
}

// Newline prints a blank line.
func (r *Renderer) Newline() {
	fmt.Fprintln(r.out)
}

// --- Log Line Rendering ---

// StyleLogLine returns the line colored by its classified severity, with
// the active highlight term emphasized. Returns the input unchanged when
// color is disabled.
func (r *Renderer) StyleLogLine(text string) string {
	if r.noColor {
		return text
	}

	styled := text
	if style, ok := severityStyles[classify.ClassifySeverity(text)]; ok {
		styled = style.Render(text)
	}

	if r.highlight != nil {
		styled = r.highlight.ReplaceAllStringFunc(styled, func(match string) string {
			return HighlightStyle.Render(match)
		})
	}
	return styled
}

// LogLine prints a numbered log line.
func (r *Renderer) LogLine(num int, text string) {
	prefix := r.render(MutedStyle, fmt.Sprintf("%6d ", num))
	fmt.Fprintf(r.out, "%s%s\n", prefix, r.StyleLogLine(text))
}

// FilterBar prints the active filter descriptions.
func (r *Renderer) FilterBar(filters []string) {
	if len(filters) == 0 {
		return
	}
	fmt.Fprintln(r.out, r.render(FilterStyle, "Filters: "+strings.Join(filters, " | ")))
}

// NoResults prints a "no results" message.
func (r *Renderer) NoResults() {
	fmt.Fprintln(r.out, r.render(MutedStyle, "No lines match the active filters."))
}
