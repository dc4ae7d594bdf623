// Package session implements the interactive pager: a single-keystroke
// state machine over an immutable line set, with a kind-keyed filter
// stack, substring search, summary, and CSV export.
package session

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dstanek/logprobe/internal/classify"
	"github.com/dstanek/logprobe/internal/export"
	"github.com/dstanek/logprobe/internal/filter"
	"github.com/dstanek/logprobe/internal/loader"
	"github.com/dstanek/logprobe/internal/logging"
	"github.com/dstanek/logprobe/internal/summary"
	"github.com/dstanek/logprobe/internal/timestamp"
	"github.com/dstanek/logprobe/internal/ui"
	"github.com/dstanek/logprobe/pkg/timeutil"
)

// State is the session's current mode.
type State int

const (
	StateViewing State = iota
	StateAwaitingInput
	StateShowingHelp
	StateShowingMessage
	StateExiting
)

// multiPageJump is how many pages N/P skip at once.
const multiPageJump = 5

// Config carries the session's fixed parameters.
type Config struct {
	SourcePath string
	ExportDir  string
	PageSize   int
	TopErrors  int
}

// Session owns the interactive view state. All mutation happens on the
// goroutine running Run; the line set itself is never modified.
type Session struct {
	console Console
	render  *ui.Renderer
	logger  logging.Logger
	cfg     Config

	all      []loader.Line
	filtered []loader.Line
	filters  filter.Stack
	profile  classify.Profile
	norm     *timestamp.Normalizer

	page       int // 1-based
	searchTerm string
	searchPos  int // index into filtered of the last hit, -1 when unset
	state      State
}

// New builds a session over an already-loaded line set.
func New(console Console, render *ui.Renderer, logger logging.Logger, cfg Config,
	lines []loader.Line, profile classify.Profile, norm *timestamp.Normalizer) *Session {
	if cfg.PageSize <= 0 {
		cfg.PageSize = 25
	}
	if cfg.TopErrors <= 0 {
		cfg.TopErrors = 5
	}
	return &Session{
		console:   console,
		render:    render,
		logger:    logger,
		cfg:       cfg,
		all:       lines,
		filtered:  lines,
		profile:   profile,
		norm:      norm,
		page:      1,
		searchPos: -1,
		state:     StateViewing,
	}
}

// State reports the current session state.
func (s *Session) State() State {
	return s.state
}

// Filtered returns the current filtered view.
func (s *Session) Filtered() []loader.Line {
	return s.filtered
}

// Page returns the current 1-based page.
func (s *Session) Page() int {
	return s.page
}

// Run drives the session until quit. The console is restored before
// returning on every path.
func (s *Session) Run() error {
	defer s.console.Restore()

	s.showWelcome()
	if _, err := s.console.ReadKey(); err != nil {
		return err
	}
	s.state = StateViewing

	for s.state != StateExiting {
		s.renderPage()
		key, err := s.console.ReadKey()
		if err != nil {
			return err
		}
		s.HandleKey(key)
	}
	return nil
}

// HandleKey dispatches one keystroke. Exported so tests can drive the
// machine without a terminal.
func (s *Session) HandleKey(key byte) {
	switch key {
	case 'n', ' ':
		s.movePage(1)
	case 'p', 'b':
		s.movePage(-1)
	case 'N':
		s.movePage(multiPageJump)
	case 'P':
		s.movePage(-multiPageJump)
	case 'g':
		s.promptGotoPage()
	case 'f':
		s.promptTextFilter()
	case 'e':
		s.toggleErrorsOnly()
	case 't':
		s.promptTimeRange()
	case 'j':
		s.promptJump()
	case 'c':
		s.clearFilters()
	case '/':
		s.promptSearch(1)
	case '?':
		s.promptSearch(-1)
	case 's':
		s.showSummary()
	case 'x':
		s.promptExport()
	case 'h':
		s.showHelp()
	case 'q', 0x03: // ctrl-c in raw mode arrives as a byte
		s.state = StateExiting
	}
}

// --- Navigation ---

func (s *Session) totalPages() int {
	n := (len(s.filtered) + s.cfg.PageSize - 1) / s.cfg.PageSize
	if n < 1 {
		n = 1
	}
	return n
}

func (s *Session) movePage(delta int) {
	s.page += delta
	s.clampPage()
}

func (s *Session) clampPage() {
	if s.page < 1 {
		s.page = 1
	}
	if max := s.totalPages(); s.page > max {
		s.page = max
	}
}

func (s *Session) promptGotoPage() {
	input, ok := s.prompt(fmt.Sprintf("Page [1-%d]: ", s.totalPages()))
	if !ok {
		return
	}
	n, err := strconv.Atoi(input)
	if err != nil || n < 1 || n > s.totalPages() {
		s.showMessage(fmt.Sprintf("Invalid page %q: expected 1-%d", input, s.totalPages()))
		return
	}
	s.page = n
}

// --- Filtering ---

// refilter recomputes the view as a fold of every active predicate over
// the original line set, so removing one filter leaves the rest exact.
func (s *Session) refilter() {
	s.filtered = s.filters.Apply(s.all)
	s.page = 1
	s.searchPos = -1
}

func (s *Session) promptTextFilter() {
	input, ok := s.prompt("Filter text (empty cancels): ")
	if !ok {
		return
	}
	s.filters.Upsert(filter.Text(input))
	s.refilter()
}

func (s *Session) toggleErrorsOnly() {
	if s.filters.Has(filter.KindErrorsOnly) {
		s.filters.Remove(filter.KindErrorsOnly)
	} else {
		s.filters.Upsert(filter.ErrorsOnly())
	}
	s.refilter()
}

func (s *Session) promptTimeRange() {
	fromInput, ok := s.prompt("From (YYYY-MM-DD [HH:MM:SS], empty for open): ")
	if !ok {
		fromInput = ""
	}
	toInput, tok := s.prompt("To (YYYY-MM-DD [HH:MM:SS], empty for open): ")
	if !tok {
		toInput = ""
	}
	if fromInput == "" && toInput == "" {
		return
	}

	var from, to time.Time
	var err error
	if fromInput != "" {
		if from, err = timeutil.ParseBound(fromInput, false); err != nil {
			s.showMessage(fmt.Sprintf("Invalid from bound: %v", err))
			return
		}
	}
	if toInput != "" {
		if to, err = timeutil.ParseBound(toInput, true); err != nil {
			s.showMessage(fmt.Sprintf("Invalid to bound: %v", err))
			return
		}
	}

	s.filters.Upsert(filter.TimeRange(s.profile, s.norm, from, to))
	s.refilter()
}

func (s *Session) promptJump() {
	input, ok := s.prompt("Jump to timestamp: ")
	if !ok {
		return
	}
	target, err := s.norm.Normalize(input)
	if err != nil {
		s.showMessage(fmt.Sprintf("Unrecognized timestamp %q", input))
		return
	}
	s.filters.Upsert(filter.Floor(s.profile, s.norm, target))
	s.refilter()
}

func (s *Session) clearFilters() {
	s.filters.Clear()
	s.filtered = s.all
	s.page = 1
	s.searchPos = -1
}

// --- Search ---

// promptSearch runs a case-insensitive literal scan in the given
// direction from the current cursor. No wraparound.
func (s *Session) promptSearch(direction int) {
	input, ok := s.prompt("Search: ")
	if ok && input != "" {
		s.searchTerm = input
		s.searchPos = -1
	}
	if s.searchTerm == "" {
		return
	}
	s.render.SetHighlight(s.searchTerm)

	start := s.searchPos + direction
	if s.searchPos < 0 {
		if direction > 0 {
			start = (s.page - 1) * s.cfg.PageSize
		} else {
			start = len(s.filtered) - 1
		}
	}

	needle := strings.ToLower(s.searchTerm)
	for i := start; i >= 0 && i < len(s.filtered); i += direction {
		if strings.Contains(strings.ToLower(s.filtered[i].Text), needle) {
			s.searchPos = i
			s.page = i/s.cfg.PageSize + 1
			return
		}
	}
	s.showMessage(fmt.Sprintf("No match for %q", s.searchTerm))
}

// --- Actions ---

func (s *Session) showSummary() {
	var b strings.Builder
	sum := summary.Analyze(s.filtered, s.profile, s.norm, s.cfg.TopErrors)
	sum.Render(&b)
	sum.RenderTopErrors(&b, s.cfg.TopErrors)
	s.showMessage(b.String())
}

func (s *Session) promptExport() {
	name, ok := s.prompt("Export name (empty cancels): ")
	if !ok {
		return
	}

	dataset := export.DatasetFull
	if s.filters.Len() > 0 {
		dataset = export.DatasetFiltered
	}
	res, err := export.Export(export.Request{
		Lines:      s.filtered,
		Profile:    s.profile,
		Normalizer: s.norm,
		SourcePath: s.cfg.SourcePath,
		Dataset:    dataset,
		TotalLines: len(s.all),
		Filters:    s.filters.Descriptions(),
		Dir:        s.cfg.ExportDir,
		BaseName:   name,
	})
	if err != nil {
		s.logger.Error("export failed: %v", err)
		s.showMessage(fmt.Sprintf("Export failed: %v", err))
		return
	}
	s.showMessage(fmt.Sprintf("Exported %d rows to %s", res.Rows, res.CSVPath))
}

// prompt asks for one line of input. Empty input cancels.
func (s *Session) prompt(label string) (string, bool) {
	s.state = StateAwaitingInput
	defer func() { s.state = StateViewing }()

	input, err := s.console.ReadLine(label)
	if err != nil {
		s.logger.Error("prompt failed: %v", err)
		return "", false
	}
	if input == "" {
		return "", false
	}
	return input, true
}
