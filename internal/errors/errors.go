// Package errors defines the error kinds shared across the analysis engine.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for classification with errors.Is.
var (
	ErrFileNotFound     = errors.New("file not found")
	ErrInvalidPath      = errors.New("invalid path")
	ErrInvalidTimestamp = errors.New("invalid timestamp")
	ErrTerminalState    = errors.New("terminal state error")
)

// FileNotFoundError indicates the given path does not resolve to a regular,
// readable file.
type FileNotFoundError struct {
	Path string
}

func (e *FileNotFoundError) Error() string {
	return fmt.Sprintf("file not found: %s", e.Path)
}

func (e *FileNotFoundError) Unwrap() error { return ErrFileNotFound }

// InvalidPathError indicates a path was rejected before any filesystem
// access (traversal sequences, shell metacharacters).
type InvalidPathError struct {
	Path   string
	Reason string
}

func (e *InvalidPathError) Error() string {
	return fmt.Sprintf("invalid path %q: %s", e.Path, e.Reason)
}

func (e *InvalidPathError) Unwrap() error { return ErrInvalidPath }

// InvalidTimestampError indicates a string could not be normalized into a
// canonical timestamp. Callers treat this as "timestamp unknown", never as
// a fatal condition.
type InvalidTimestampError struct {
	Raw string
}

func (e *InvalidTimestampError) Error() string {
	return fmt.Sprintf("unrecognized timestamp: %q", e.Raw)
}

func (e *InvalidTimestampError) Unwrap() error { return ErrInvalidTimestamp }

// TerminalStateError indicates the terminal could not be switched into or
// out of raw mode. It is logged and recovered with a best-effort reset.
type TerminalStateError struct {
	Op  string
	Err error
}

func (e *TerminalStateError) Error() string {
	return fmt.Sprintf("terminal %s failed: %v", e.Op, e.Err)
}

func (e *TerminalStateError) Unwrap() error { return ErrTerminalState }

// SuggestiveError is an error that includes suggestions for fixing the
// problem.
type SuggestiveError struct {
	Message     string
	Suggestions []string
	HelpCommand string
}

func (e *SuggestiveError) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)

	if len(e.Suggestions) > 0 {
		b.WriteString("\n\nTry one of these:\n")
		for _, s := range e.Suggestions {
			b.WriteString("  ")
			b.WriteString(s)
			b.WriteString("\n")
		}
	}

	if e.HelpCommand != "" {
		b.WriteString("\nRun '")
		b.WriteString(e.HelpCommand)
		b.WriteString("' for more information.")
	}

	return b.String()
}

// FlagConflictError creates an error for mutually exclusive flags.
func FlagConflictError(a, b string) error {
	return &SuggestiveError{
		Message: fmt.Sprintf("--%s and --%s cannot be combined", a, b),
		Suggestions: []string{
			fmt.Sprintf("logprobe analyze <file> --%s", a),
			fmt.Sprintf("logprobe analyze <file> --%s", b),
		},
		HelpCommand: "logprobe analyze --help",
	}
}
