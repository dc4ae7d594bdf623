package classify

import "regexp"

// Severity is a log line's classified severity level.
type Severity int

// Detection priority order: ERROR-class keywords are checked first, then
// WARNING, INFO, DEBUG; first match wins. This is detection priority, not
// severity importance.
const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInfo
	SeverityDebug
	SeverityNotice
	SeverityUnknown
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "ERROR"
	case SeverityWarning:
		return "WARNING"
	case SeverityInfo:
		return "INFO"
	case SeverityDebug:
		return "DEBUG"
	case SeverityNotice:
		return "NOTICE"
	default:
		return "UNKNOWN"
	}
}

// Explicit severity tokens, checked with word boundaries before any
// contextual fallback. The ordering and grouping must stay stable; existing
// consumers depend on parity with it.
var severityTokens = []struct {
	level Severity
	re    *regexp.Regexp
}{
	{SeverityError, regexp.MustCompile(`(?i)\b(?:error|err|crit|fatal|exception|emerg|alert)\b`)},
	{SeverityWarning, regexp.MustCompile(`(?i)\b(?:warn|warning)\b`)},
	{SeverityInfo, regexp.MustCompile(`(?i)\b(?:info|notice)\b`)},
	{SeverityDebug, regexp.MustCompile(`(?i)\b(?:debug|trace)\b`)},
}

// Contextual keyword fallback for lines with no explicit severity token.
var contextualKeywords = []struct {
	level Severity
	re    *regexp.Regexp
}{
	{SeverityError, regexp.MustCompile(`(?i)\b(?:failed|failure|cannot|timeout|denied|refused|unreachable)\b`)},
	{SeverityWarning, regexp.MustCompile(`(?i)\b(?:slow|deprecated|retry|retrying)\b`)},
	{SeverityInfo, regexp.MustCompile(`(?i)\b(?:started|starting|completed|success|listening|connected)\b`)},
}

// ClassifySeverity determines a line's severity. Explicit tokens win over
// contextual keywords; lines matching neither are UNKNOWN.
func ClassifySeverity(line string) Severity {
	for _, tok := range severityTokens {
		if tok.re.MatchString(line) {
			return tok.level
		}
	}
	for _, kw := range contextualKeywords {
		if kw.re.MatchString(line) {
			return kw.level
		}
	}
	return SeverityUnknown
}

// leadingSeverityRe matches a severity token (optionally bracketed) at the
// start of a string, with trailing punctuation.
var leadingSeverityRe = regexp.MustCompile(`^\s*[\[(]?(?i:error|err|crit|critical|fatal|emerg|alert|warn|warning|info|notice|debug|trace)[\])]?:?\s*`)

// TrimSeverityPrefix removes a leading severity token from s, if present.
// Used when deriving the message column for export.
func TrimSeverityPrefix(s string) string {
	return leadingSeverityRe.ReplaceAllString(s, "")
}
