// Package filter implements the narrowing predicates applied to a loaded
// line set: text match, errors-only, time range, and timestamp floor.
package filter

import (
	"fmt"
	"strings"
	"time"

	"github.com/dstanek/logprobe/internal/classify"
	"github.com/dstanek/logprobe/internal/loader"
	"github.com/dstanek/logprobe/internal/timestamp"
	"github.com/dstanek/logprobe/pkg/timeutil"
)

// Kind identifies a filter. The active set holds at most one entry per
// kind; adding a kind already present replaces it.
type Kind string

const (
	KindText           Kind = "text"
	KindErrorsOnly     Kind = "errors-only"
	KindTimeRange      Kind = "time-range"
	KindTimestampFloor Kind = "timestamp-floor"
)

// Predicate reports whether a line stays in the view.
type Predicate func(loader.Line) bool

// Entry is one active filter: its kind, a human-readable description for
// display and export metadata, and the predicate itself.
type Entry struct {
	Kind        Kind
	Description string
	Keep        Predicate
}

// Stack is the ordered, kind-keyed collection of active filters. The
// filtered view is always recomputed as a fold of every active predicate
// over the original dataset, so removing one filter re-applies the rest
// from scratch.
type Stack struct {
	entries []Entry
}

// Upsert adds e, replacing any existing entry of the same kind in place.
func (s *Stack) Upsert(e Entry) {
	for i := range s.entries {
		if s.entries[i].Kind == e.Kind {
			s.entries[i] = e
			return
		}
	}
	s.entries = append(s.entries, e)
}

// Remove deletes the entry of the given kind. Returns false when absent.
func (s *Stack) Remove(kind Kind) bool {
	for i := range s.entries {
		if s.entries[i].Kind == kind {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return true
		}
	}
	return false
}

// Has reports whether a filter of the given kind is active.
func (s *Stack) Has(kind Kind) bool {
	for i := range s.entries {
		if s.entries[i].Kind == kind {
			return true
		}
	}
	return false
}

// Clear empties the stack.
func (s *Stack) Clear() {
	s.entries = nil
}

// Len returns the number of active filters.
func (s *Stack) Len() int {
	return len(s.entries)
}

// Descriptions returns the active filters' display strings, in order.
func (s *Stack) Descriptions() []string {
	out := make([]string, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e.Description)
	}
	return out
}

// Apply folds every active predicate over lines and returns the kept
// subset. Order within the result matches the input.
func (s *Stack) Apply(lines []loader.Line) []loader.Line {
	return Apply(lines, s.entries...)
}

// Apply returns the lines kept by every entry.
func Apply(lines []loader.Line, entries ...Entry) []loader.Line {
	if len(entries) == 0 {
		return lines
	}
	kept := make([]loader.Line, 0, len(lines))
	for _, line := range lines {
		keep := true
		for _, e := range entries {
			if !e.Keep(line) {
				keep = false
				break
			}
		}
		if keep {
			kept = append(kept, line)
		}
	}
	return kept
}

// Text builds a case-insensitive substring filter.
func Text(query string) Entry {
	needle := strings.ToLower(query)
	return Entry{
		Kind:        KindText,
		Description: fmt.Sprintf("text contains %q", query),
		Keep: func(line loader.Line) bool {
			return strings.Contains(strings.ToLower(line.Text), needle)
		},
	}
}

// ErrorsOnly keeps lines classified as ERROR.
func ErrorsOnly() Entry {
	return Entry{
		Kind:        KindErrorsOnly,
		Description: "errors only",
		Keep: func(line loader.Line) bool {
			return classify.ClassifySeverity(line.Text) == classify.SeverityError
		},
	}
}

// TimeRange keeps lines whose timestamp falls inside [from, to],
// inclusive. Lines whose timestamp cannot be extracted or normalized are
// always retained (fail-open). A zero from defaults to epoch 0; a zero to
// defaults to the far-future sentinel.
func TimeRange(profile classify.Profile, norm *timestamp.Normalizer, from, to time.Time) Entry {
	fromEpoch := int64(0)
	if !from.IsZero() {
		fromEpoch = from.Unix()
	}
	toEpoch := timeutil.FarFuture.Unix()
	if !to.IsZero() {
		toEpoch = to.Unix()
	}

	return Entry{
		Kind:        KindTimeRange,
		Description: describeRange(from, to),
		Keep: func(line loader.Line) bool {
			ts, ok := lineEpoch(profile, norm, line)
			if !ok {
				return true
			}
			return ts >= fromEpoch && ts <= toEpoch
		},
	}
}

// Floor keeps lines with timestamp >= target; unknown-timestamp lines pass
// through.
func Floor(profile classify.Profile, norm *timestamp.Normalizer, target timestamp.Canonical) Entry {
	return Entry{
		Kind:        KindTimestampFloor,
		Description: fmt.Sprintf("timestamp >= %s", target.Display),
		Keep: func(line loader.Line) bool {
			ts, ok := lineEpoch(profile, norm, line)
			if !ok {
				return true
			}
			return ts >= target.Epoch
		},
	}
}

func lineEpoch(profile classify.Profile, norm *timestamp.Normalizer, line loader.Line) (int64, bool) {
	raw, ok := profile.ExtractTimestamp(line.Text)
	if !ok {
		return 0, false
	}
	c, err := norm.Normalize(raw)
	if err != nil {
		return 0, false
	}
	return c.Epoch, true
}

func describeRange(from, to time.Time) string {
	switch {
	case from.IsZero() && to.IsZero():
		return "time range (unbounded)"
	case from.IsZero():
		return fmt.Sprintf("time <= %s", to.UTC().Format(timestamp.DisplayLayout))
	case to.IsZero():
		return fmt.Sprintf("time >= %s", from.UTC().Format(timestamp.DisplayLayout))
	default:
		return fmt.Sprintf("time in [%s, %s]",
			from.UTC().Format(timestamp.DisplayLayout),
			to.UTC().Format(timestamp.DisplayLayout))
	}
}
