package session

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/dstanek/logprobe/internal/classify"
	"github.com/dstanek/logprobe/internal/loader"
	"github.com/dstanek/logprobe/internal/logging"
	"github.com/dstanek/logprobe/internal/timestamp"
	"github.com/dstanek/logprobe/internal/ui"
)

// fakeConsole scripts terminal input for tests. ReadKey returns 'q' once
// the script is exhausted so dismissable screens never block.
type fakeConsole struct {
	keys  []byte
	lines []string
	out   bytes.Buffer
}

func (f *fakeConsole) ReadKey() (byte, error) {
	if len(f.keys) == 0 {
		return 'q', nil
	}
	k := f.keys[0]
	f.keys = f.keys[1:]
	return k, nil
}

func (f *fakeConsole) ReadLine(prompt string) (string, error) {
	f.out.WriteString(prompt)
	if len(f.lines) == 0 {
		return "", nil
	}
	l := f.lines[0]
	f.lines = f.lines[1:]
	return l, nil
}

func (f *fakeConsole) Write(s string)   { f.out.WriteString(s) }
func (f *fakeConsole) Size() (int, int) { return 80, 24 }
func (f *fakeConsole) Restore()         {}

func newTestSession(t *testing.T, texts []string, pageSize int, console *fakeConsole) *Session {
	t.Helper()
	lines := make([]loader.Line, len(texts))
	for i, text := range texts {
		lines[i] = loader.Line{Num: i + 1, Text: text}
	}
	profile := classify.Detect(texts)
	render := ui.NewRendererWithOptions(ui.WithOutput(io.Discard), ui.WithError(io.Discard), ui.WithNoColor(true))
	cfg := Config{SourcePath: "test.log", ExportDir: t.TempDir(), PageSize: pageSize, TopErrors: 3}
	return New(console, render, logging.NopLogger{}, cfg, lines, profile, timestamp.New(2023))
}

func TestClearAllRestoresAllLines(t *testing.T) {
	texts := []string{
		"2023-09-01 12:00:00 INFO Server started",
		"2023-09-01 12:01:00 ERROR disk full",
		"2023-09-01 12:02:00 INFO heartbeat",
		"2023-09-01 12:03:00 ERROR disk full",
	}
	console := &fakeConsole{lines: []string{"disk"}}
	s := newTestSession(t, texts, 10, console)

	s.HandleKey('f')
	if len(s.Filtered()) != 2 {
		t.Fatalf("after text filter: %d lines, want 2", len(s.Filtered()))
	}
	s.HandleKey('e')
	if len(s.Filtered()) != 2 {
		t.Fatalf("after errors-only: %d lines, want 2", len(s.Filtered()))
	}

	s.HandleKey('c')
	got := s.Filtered()
	if len(got) != len(texts) {
		t.Fatalf("after clear-all: %d lines, want %d", len(got), len(texts))
	}
	for i, line := range got {
		if line.Num != i+1 || line.Text != texts[i] {
			t.Errorf("line %d = %+v, want original", i, line)
		}
	}
}

func TestPaginationClamps(t *testing.T) {
	texts := []string{"one", "two", "three"}
	console := &fakeConsole{}
	s := newTestSession(t, texts, 1, console)

	if s.totalPages() != 3 {
		t.Fatalf("totalPages = %d, want 3", s.totalPages())
	}

	s.HandleKey('p')
	if s.Page() != 1 {
		t.Errorf("prev at first page: page = %d, want 1", s.Page())
	}
	s.HandleKey('N')
	if s.Page() != 3 {
		t.Errorf("multi-jump past end: page = %d, want 3", s.Page())
	}
	s.HandleKey('n')
	if s.Page() != 3 {
		t.Errorf("next at last page: page = %d, want 3", s.Page())
	}
	s.HandleKey('P')
	if s.Page() != 1 {
		t.Errorf("multi-jump past start: page = %d, want 1", s.Page())
	}
}

func TestPromptCancelLeavesViewUntouched(t *testing.T) {
	texts := []string{"alpha", "beta"}
	console := &fakeConsole{lines: []string{""}}
	s := newTestSession(t, texts, 10, console)

	s.HandleKey('f')
	if s.State() != StateViewing {
		t.Errorf("state = %d, want StateViewing", s.State())
	}
	if len(s.Filtered()) != 2 {
		t.Errorf("cancelled prompt changed view: %d lines, want 2", len(s.Filtered()))
	}
	if s.filters.Len() != 0 {
		t.Errorf("cancelled prompt added a filter")
	}
}

func TestGotoPageRejectsOutOfRange(t *testing.T) {
	texts := []string{"one", "two", "three"}
	console := &fakeConsole{lines: []string{"99"}, keys: []byte{'x'}}
	s := newTestSession(t, texts, 1, console)

	s.HandleKey('g')
	if s.Page() != 1 {
		t.Errorf("invalid goto moved page to %d", s.Page())
	}
	if !strings.Contains(console.out.String(), "Invalid page") {
		t.Errorf("expected invalid-page message, got: %s", console.out.String())
	}
}

func TestErrorsOnlyToggle(t *testing.T) {
	texts := []string{
		"INFO all good",
		"ERROR broken",
		"DEBUG noise",
	}
	console := &fakeConsole{}
	s := newTestSession(t, texts, 10, console)

	s.HandleKey('e')
	if len(s.Filtered()) != 1 || !strings.Contains(s.Filtered()[0].Text, "ERROR") {
		t.Fatalf("errors-only view = %+v, want the ERROR line", s.Filtered())
	}

	s.HandleKey('e')
	if len(s.Filtered()) != len(texts) {
		t.Errorf("toggle off: %d lines, want %d", len(s.Filtered()), len(texts))
	}
}

func TestFilterChangeResetsPage(t *testing.T) {
	texts := []string{"aaa", "aab", "aac", "aad", "aae", "aaf"}
	console := &fakeConsole{lines: []string{"aa"}}
	s := newTestSession(t, texts, 2, console)

	s.HandleKey('n')
	if s.Page() != 2 {
		t.Fatalf("page = %d, want 2", s.Page())
	}
	s.HandleKey('f')
	if s.Page() != 1 {
		t.Errorf("filter change left page at %d, want 1", s.Page())
	}
}

func TestSearchJumpsToMatchPage(t *testing.T) {
	texts := []string{"a", "b", "c", "d", "needle here", "f"}
	console := &fakeConsole{lines: []string{"needle"}}
	s := newTestSession(t, texts, 2, console)

	s.HandleKey('/')
	if s.Page() != 3 {
		t.Errorf("search landed on page %d, want 3", s.Page())
	}
	if s.searchPos != 4 {
		t.Errorf("searchPos = %d, want 4", s.searchPos)
	}
}

func TestSearchNoMatchShowsMessage(t *testing.T) {
	texts := []string{"a", "b"}
	console := &fakeConsole{lines: []string{"zzz"}, keys: []byte{'x'}}
	s := newTestSession(t, texts, 2, console)

	s.HandleKey('/')
	if !strings.Contains(console.out.String(), `No match for "zzz"`) {
		t.Errorf("expected no-match message, got: %s", console.out.String())
	}
	if s.State() != StateViewing {
		t.Errorf("state = %d, want StateViewing", s.State())
	}
}

func TestSearchBackward(t *testing.T) {
	texts := []string{"hit one", "miss", "hit two", "miss"}
	console := &fakeConsole{lines: []string{"hit"}}
	s := newTestSession(t, texts, 4, console)

	s.HandleKey('?')
	if s.searchPos != 2 {
		t.Errorf("backward search found index %d, want 2 (last hit)", s.searchPos)
	}
}

func TestExportFromSession(t *testing.T) {
	texts := []string{
		"2023-09-01 12:00:00 INFO started",
		"2023-09-01 12:01:00 ERROR boom",
	}
	console := &fakeConsole{lines: []string{"snap"}, keys: []byte{'x'}}
	s := newTestSession(t, texts, 10, console)

	s.HandleKey('x')
	if !strings.Contains(console.out.String(), "Exported 2 rows") {
		t.Errorf("expected export confirmation, got: %s", console.out.String())
	}
}

func TestTruncateToWidth(t *testing.T) {
	styled := "\x1b[31m" + strings.Repeat("e", 20) + "\x1b[0m"

	got := truncateToWidth(styled, 10)
	if w := visibleWidth(got); w != 10 {
		t.Errorf("visible width = %d, want 10", w)
	}
	if !strings.HasSuffix(got, "\x1b[0m") {
		t.Errorf("truncated line lost its trailing reset: %q", got)
	}

	if got := truncateToWidth("short", 10); got != "short" {
		t.Errorf("truncateToWidth(short) = %q, want unchanged", got)
	}
}

func TestQuitKey(t *testing.T) {
	console := &fakeConsole{}
	s := newTestSession(t, []string{"a"}, 10, console)

	s.HandleKey('q')
	if s.State() != StateExiting {
		t.Errorf("state = %d, want StateExiting", s.State())
	}
}
