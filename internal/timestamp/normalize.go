// Package timestamp converts heterogeneous timestamp strings into a single
// canonical, comparable form.
package timestamp

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dstanek/logprobe/internal/errors"
	"github.com/dstanek/logprobe/pkg/lru"
)

// DisplayLayout is the canonical presentation form. Comparison never uses
// it; epoch seconds are authoritative.
const DisplayLayout = "2006-01-02 15:04:05"

// cacheSize bounds the per-run normalization memo. Adjacent log lines
// usually share second-resolution timestamps, so hits are common.
const cacheSize = 4096

// Canonical is a normalized timestamp: epoch seconds plus a display string.
type Canonical struct {
	Epoch   int64
	Display string
}

// Compare orders two canonical timestamps by epoch seconds only.
// Returns -1, 0, or 1.
func Compare(a, b Canonical) int {
	switch {
	case a.Epoch < b.Epoch:
		return -1
	case a.Epoch > b.Epoch:
		return 1
	default:
		return 0
	}
}

// FromTime converts a time.Time into its canonical form.
func FromTime(t time.Time) Canonical {
	t = t.UTC()
	return Canonical{Epoch: t.Unix(), Display: t.Format(DisplayLayout)}
}

// Normalizer recognizes timestamp string forms in a fixed priority order.
// ReferenceYear fills in the missing year of syslog-style timestamps so
// behavior is deterministic and testable; callers typically seed it with
// the current calendar year.
type Normalizer struct {
	ReferenceYear int
	cache         *lru.Cache[Canonical]
}

// New creates a Normalizer with the given reference year.
func New(referenceYear int) *Normalizer {
	return &Normalizer{
		ReferenceYear: referenceYear,
		cache:         lru.New[Canonical](cacheSize),
	}
}

// Recognized forms, in priority order. Each predicate gates its parser so
// the precedence is explicit and testable per form.
var forms = []struct {
	name      string
	predicate *regexp.Regexp
	parse     func(n *Normalizer, raw string) (time.Time, bool)
}{
	{
		name:      "iso8601",
		predicate: regexp.MustCompile(`^\d{4}-\d{2}-\d{2}[T ]\d{2}:\d{2}:\d{2}(?:[.,]\d+)?(?:Z|[+-]\d{2}:?\d{2})?$`),
		parse:     parseISO,
	},
	{
		name:      "syslog",
		predicate: regexp.MustCompile(`^[A-Z][a-z]{2}\s+\d{1,2}\s+\d{2}:\d{2}:\d{2}$`),
		parse:     parseSyslog,
	},
	{
		name:      "us-slash",
		predicate: regexp.MustCompile(`^\d{2}/\d{2}/\d{4} \d{2}:\d{2}:\d{2}$`),
		parse:     parseUSSlash,
	},
	{
		name:      "epoch",
		predicate: regexp.MustCompile(`^\d{10}$|^\d{13}$`),
		parse:     parseEpoch,
	},
}

// Normalize converts raw into canonical form. Unrecognized strings fail
// with an InvalidTimestampError; callers must treat that as "timestamp
// unknown", not as a fatal error.
func (n *Normalizer) Normalize(raw string) (Canonical, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Canonical{}, &errors.InvalidTimestampError{Raw: raw}
	}

	if c, ok := n.cache.Get(trimmed); ok {
		return c, nil
	}

	for _, form := range forms {
		if !form.predicate.MatchString(trimmed) {
			continue
		}
		if t, ok := form.parse(n, trimmed); ok {
			c := FromTime(t)
			n.cache.Add(trimmed, c)
			return c, nil
		}
	}

	return Canonical{}, &errors.InvalidTimestampError{Raw: raw}
}

// ISO-8601 layouts, most specific first. The ".999999999" fragments make
// fractional seconds optional.
var isoLayouts = []string{
	"2006-01-02T15:04:05.999999999Z07:00",
	"2006-01-02T15:04:05.999999999Z0700",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999Z0700",
	"2006-01-02 15:04:05.999999999",
}

func parseISO(_ *Normalizer, raw string) (time.Time, bool) {
	// Log4j-style comma separators before fractional seconds
	raw = strings.Replace(raw, ",", ".", 1)
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

var months = map[string]time.Month{
	"Jan": time.January, "Feb": time.February, "Mar": time.March,
	"Apr": time.April, "May": time.May, "Jun": time.June,
	"Jul": time.July, "Aug": time.August, "Sep": time.September,
	"Oct": time.October, "Nov": time.November, "Dec": time.December,
}

var syslogRe = regexp.MustCompile(`^([A-Z][a-z]{2})\s+(\d{1,2})\s+(\d{2}):(\d{2}):(\d{2})$`)

func parseSyslog(n *Normalizer, raw string) (time.Time, bool) {
	matches := syslogRe.FindStringSubmatch(raw)
	if matches == nil {
		return time.Time{}, false
	}

	month, ok := months[matches[1]]
	if !ok {
		return time.Time{}, false
	}
	day, _ := strconv.Atoi(matches[2])
	hour, _ := strconv.Atoi(matches[3])
	min, _ := strconv.Atoi(matches[4])
	sec, _ := strconv.Atoi(matches[5])

	if day < 1 || day > 31 || hour > 23 || min > 59 || sec > 59 {
		return time.Time{}, false
	}

	// Syslog omits the year; fill in the reference year.
	return time.Date(n.ReferenceYear, month, day, hour, min, sec, 0, time.UTC), true
}

func parseUSSlash(_ *Normalizer, raw string) (time.Time, bool) {
	t, err := time.Parse("01/02/2006 15:04:05", raw)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func parseEpoch(_ *Normalizer, raw string) (time.Time, bool) {
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	if len(raw) == 13 {
		// Milliseconds
		return time.Unix(v/1000, 0), true
	}
	return time.Unix(v, 0), true
}

// String implements fmt.Stringer for diagnostics.
func (c Canonical) String() string {
	if c.Display == "" {
		return fmt.Sprintf("epoch:%d", c.Epoch)
	}
	return c.Display
}
