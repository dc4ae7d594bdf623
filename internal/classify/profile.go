// Package classify infers timestamp and severity extraction patterns from a
// sample of a log file, and classifies individual lines.
package classify

import (
	"regexp"
	"strings"
)

// SampleSize is how many lines are examined when detecting patterns.
const SampleSize = 20

// Profile holds the extraction patterns inferred once per file. It is a
// plain value passed to every classification call; there is no package
// state, so multiple analyses can run side by side.
type Profile struct {
	TimestampPattern *regexp.Regexp // nil when no candidate matched
	SeverityPattern  *regexp.Regexp // nil when no candidate matched
}

// Candidate timestamp patterns, most specific first. The first candidate
// matching any sampled line is adopted for the whole file.
var timestampCandidates = []*regexp.Regexp{
	// ISO-8601 with T or space separator, optional fraction and zone
	regexp.MustCompile(`(\d{4}-\d{2}-\d{2}[T ]\d{2}:\d{2}:\d{2}(?:[.,]\d+)?(?:Z|[+-]\d{2}:?\d{2})?)`),
	// Syslog month-day-time, anchored to the start of the line
	regexp.MustCompile(`^((?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)\s+\d{1,2}\s+\d{2}:\d{2}:\d{2})`),
	// US slash date
	regexp.MustCompile(`(\d{2}/\d{2}/\d{4} \d{2}:\d{2}:\d{2})`),
	// Bare epoch seconds or milliseconds
	regexp.MustCompile(`\b(\d{13}|\d{10})\b`),
}

// Candidate severity patterns: bracketed tokens before bare tokens so
// "[ERROR]" formats keep their brackets out of the captured level.
var severityCandidates = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\[(ERROR|ERR|WARN|WARNING|INFO|NOTICE|DEBUG|TRACE|CRIT|CRITICAL|FATAL)\]`),
	regexp.MustCompile(`(?i)\b(ERROR|ERR|WARN|WARNING|INFO|NOTICE|DEBUG|TRACE|CRIT|CRITICAL|FATAL)\b`),
}

// Detect infers a Profile from sample lines. Candidates are tried in fixed
// order; the first one matching any sampled line wins. A profile with a nil
// TimestampPattern means every line is later treated as "timestamp unknown".
func Detect(sample []string) Profile {
	if len(sample) > SampleSize {
		sample = sample[:SampleSize]
	}

	var p Profile

	for _, candidate := range timestampCandidates {
		if anyMatch(candidate, sample) {
			p.TimestampPattern = candidate
			break
		}
	}

	for _, candidate := range severityCandidates {
		if anyMatch(candidate, sample) {
			p.SeverityPattern = candidate
			break
		}
	}

	return p
}

func anyMatch(re *regexp.Regexp, lines []string) bool {
	for _, line := range lines {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}

// ExtractTimestamp returns the raw timestamp substring of line according to
// the profile. The second return is false when the profile has no timestamp
// pattern or the line does not match.
func (p Profile) ExtractTimestamp(line string) (string, bool) {
	if p.TimestampPattern == nil {
		return "", false
	}
	matches := p.TimestampPattern.FindStringSubmatch(line)
	if matches == nil {
		return "", false
	}
	if len(matches) > 1 {
		return matches[1], true
	}
	return matches[0], true
}

// StripTimestamp removes the recognized timestamp substring from line.
func (p Profile) StripTimestamp(line string) string {
	raw, ok := p.ExtractTimestamp(line)
	if !ok {
		return line
	}
	if pos := strings.Index(line, raw); pos >= 0 {
		return line[:pos] + line[pos+len(raw):]
	}
	return line
}
