// Package summary aggregates a line set into severity counts, a time
// range, and the most frequent error messages. The rendered text block is
// parsed by embedding layers via its literal section headers, so the
// framing must not change.
package summary

import (
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"

	"github.com/dstanek/logprobe/internal/classify"
	"github.com/dstanek/logprobe/internal/loader"
	"github.com/dstanek/logprobe/internal/timestamp"
)

// Section headers consumed by wrapping layers via exact string match.
const (
	HeaderSummary   = "=== Log Summary ==="
	headerTopErrors = "=== Top %d Frequent Errors ==="
	HeaderContent   = "=== Log Content ==="
)

// digitsRe collapses digit runs so messages differing only in ids or
// counters group together.
var digitsRe = regexp.MustCompile(`\d+`)

// ErrorGroup is a normalized error message and its occurrence count.
type ErrorGroup struct {
	Message string `json:"message"`
	Count   int    `json:"count"`
}

// Summary holds the aggregate view of a line set.
type Summary struct {
	Total        int                   `json:"total"`
	ErrorCount   int                   `json:"errorCount"`
	WarningCount int                   `json:"warningCount"`
	InfoCount    int                   `json:"infoCount"`
	DebugCount   int                   `json:"debugCount"`
	UnknownCount int                   `json:"unknownCount"`
	First        *timestamp.Canonical  `json:"first,omitempty"`
	Last         *timestamp.Canonical  `json:"last,omitempty"`
	TopErrors    []ErrorGroup          `json:"topErrors,omitempty"`
}

// Analyze computes a Summary over lines. topN bounds the frequent-error
// list; zero or negative disables it.
func Analyze(lines []loader.Line, profile classify.Profile, norm *timestamp.Normalizer, topN int) Summary {
	s := Summary{Total: len(lines)}
	groups := make(map[string]int)

	for _, line := range lines {
		level := classify.ClassifySeverity(line.Text)
		switch level {
		case classify.SeverityError:
			s.ErrorCount++
		case classify.SeverityWarning:
			s.WarningCount++
		case classify.SeverityInfo:
			s.InfoCount++
		case classify.SeverityDebug:
			s.DebugCount++
		default:
			s.UnknownCount++
		}

		if raw, ok := profile.ExtractTimestamp(line.Text); ok {
			if c, err := norm.Normalize(raw); err == nil {
				if s.First == nil || timestamp.Compare(c, *s.First) < 0 {
					first := c
					s.First = &first
				}
				if s.Last == nil || timestamp.Compare(c, *s.Last) > 0 {
					last := c
					s.Last = &last
				}
			}
		}

		if topN > 0 && level == classify.SeverityError {
			groups[normalizeMessage(profile, line.Text)]++
		}
	}

	if topN > 0 {
		s.TopErrors = rankGroups(groups, topN)
	}

	return s
}

// normalizeMessage strips the timestamp and severity prefix and collapses
// digit runs, so recurring errors bucket together.
func normalizeMessage(profile classify.Profile, text string) string {
	msg := strings.TrimSpace(profile.StripTimestamp(text))
	msg = classify.TrimSeverityPrefix(msg)
	msg = digitsRe.ReplaceAllString(msg, "N")
	return strings.TrimSpace(msg)
}

func rankGroups(groups map[string]int, topN int) []ErrorGroup {
	ranked := make([]ErrorGroup, 0, len(groups))
	for msg, count := range groups {
		ranked = append(ranked, ErrorGroup{Message: msg, Count: count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Message < ranked[j].Message
	})
	if len(ranked) > topN {
		ranked = ranked[:topN]
	}
	return ranked
}

// Render writes the summary section with its literal framing.
func (s Summary) Render(w io.Writer) {
	fmt.Fprintln(w, HeaderSummary)
	fmt.Fprintf(w, "Total lines: %d\n", s.Total)
	fmt.Fprintf(w, "Errors: %d\n", s.ErrorCount)
	fmt.Fprintf(w, "Warnings: %d\n", s.WarningCount)
	fmt.Fprintf(w, "Info: %d\n", s.InfoCount)
	fmt.Fprintf(w, "Debug: %d\n", s.DebugCount)
	fmt.Fprintf(w, "Unclassified: %d\n", s.UnknownCount)
	if s.First != nil && s.Last != nil {
		fmt.Fprintf(w, "Time range: %s to %s\n", s.First.Display, s.Last.Display)
	} else {
		fmt.Fprintln(w, "Time range: unknown")
	}
}

// RenderTopErrors writes the frequent-errors section. n is the requested
// count and appears in the header even when fewer groups exist.
func (s Summary) RenderTopErrors(w io.Writer, n int) {
	fmt.Fprintf(w, headerTopErrors+"\n", n)
	if len(s.TopErrors) == 0 {
		fmt.Fprintln(w, "No errors found.")
		return
	}
	for i, g := range s.TopErrors {
		fmt.Fprintf(w, "%d. (%dx) %s\n", i+1, g.Count, g.Message)
	}
}

// RenderContent writes the log-content section. limit bounds the emitted
// lines; zero or negative means all.
func RenderContent(w io.Writer, lines []loader.Line, limit int) {
	fmt.Fprintln(w, HeaderContent)
	if limit > 0 && len(lines) > limit {
		lines = lines[:limit]
	}
	for _, line := range lines {
		fmt.Fprintf(w, "%6d  %s\n", line.Num, line.Text)
	}
}
