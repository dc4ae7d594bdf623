package session

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*m`)

const helpText = `Commands:
  n, space   next page            p, b   previous page
  N          forward 5 pages      P      back 5 pages
  g          go to page
  f          text filter          e      toggle errors-only
  t          time-range filter    j      jump to timestamp
  c          clear all filters
  /          search forward       ?      search backward
  s          summary              x      export CSV
  h          this help            q      quit`

func (s *Session) showWelcome() {
	var b strings.Builder
	b.WriteString(clearScreen)
	b.WriteString(crlf(fmt.Sprintf("logprobe — %s (%d lines)\n\n", s.cfg.SourcePath, len(s.all))))
	b.WriteString(crlf(helpText))
	b.WriteString(crlf("\n\nPress any key to begin.\n"))
	s.console.Write(b.String())
}

// renderPage draws the current page of the filtered view with a status
// footer. Lines are truncated to the terminal width.
func (s *Session) renderPage() {
	width, _ := s.console.Size()

	var b strings.Builder
	b.WriteString(clearScreen)

	start := (s.page - 1) * s.cfg.PageSize
	end := start + s.cfg.PageSize
	if end > len(s.filtered) {
		end = len(s.filtered)
	}

	if len(s.filtered) == 0 {
		b.WriteString(crlf("No lines match the active filters.\n"))
	}
	for _, line := range s.filtered[start:end] {
		numbered := fmt.Sprintf("%6d  %s", line.Num, s.render.StyleLogLine(line.Text))
		b.WriteString(truncateToWidth(numbered, width))
		b.WriteString("\r\n")
	}

	b.WriteString("\r\n")
	b.WriteString(fmt.Sprintf("Page %d/%d  (%d of %d lines)", s.page, s.totalPages(), len(s.filtered), len(s.all)))
	if descs := s.filters.Descriptions(); len(descs) > 0 {
		b.WriteString("  [" + strings.Join(descs, " | ") + "]")
	}
	b.WriteString("\r\n")
	b.WriteString("h help  q quit\r\n")

	s.console.Write(b.String())
}

func (s *Session) showHelp() {
	s.state = StateShowingHelp
	s.console.Write(clearScreen + crlf(helpText) + crlf("\n\nPress any key to return.\n"))
	_, _ = s.console.ReadKey()
	s.state = StateViewing
}

// showMessage renders a transient notice and waits for a keypress.
func (s *Session) showMessage(msg string) {
	s.state = StateShowingMessage
	s.console.Write(clearScreen + crlf(msg) + crlf("\n\nPress any key to return.\n"))
	_, _ = s.console.ReadKey()
	s.state = StateViewing
}

// crlf rewrites newlines for raw-mode output.
func crlf(s string) string {
	return strings.ReplaceAll(s, "\n", "\r\n")
}

// truncateToWidth cuts text at the given display width, preserving ANSI
// color sequences so styling survives truncation. Escape sequences after
// the cut point are kept so an open color never bleeds past the line.
func truncateToWidth(text string, width int) string {
	if width <= 0 || visibleWidth(text) <= width {
		return text
	}
	var out strings.Builder
	current := 0

	i := 0
	for i < len(text) {
		if m := ansiPattern.FindStringIndex(text[i:]); m != nil && m[0] == 0 {
			out.WriteString(text[i : i+m[1]])
			i += m[1]
			continue
		}
		r, size := utf8.DecodeRuneInString(text[i:])
		rw := runewidth.RuneWidth(r)
		if current+rw > width {
			break
		}
		out.WriteRune(r)
		current += rw
		i += size
	}

	for _, seq := range ansiPattern.FindAllString(text[i:], -1) {
		out.WriteString(seq)
	}
	return out.String()
}

func visibleWidth(text string) int {
	return runewidth.StringWidth(ansiPattern.ReplaceAllString(text, ""))
}
