package session

import (
	"bufio"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/mattn/go-isatty"
	"golang.org/x/term"

	apperrors "github.com/dstanek/logprobe/internal/errors"
	"github.com/dstanek/logprobe/internal/logging"
)

// Console abstracts the terminal so the session loop can be driven by a
// scripted fake in tests.
type Console interface {
	// ReadKey blocks for a single keystroke.
	ReadKey() (byte, error)

	// ReadLine switches to line-oriented input for one prompt. An empty
	// answer means the user cancelled.
	ReadLine(prompt string) (string, error)

	// Write sends already-formatted text to the terminal. Callers use
	// \r\n line endings since the terminal is in raw mode.
	Write(s string)

	// Size reports the terminal dimensions.
	Size() (width, height int)

	// Restore returns the terminal to its prior state. Safe to call
	// more than once.
	Restore()
}

const (
	hideCursor  = "\x1b[?25l"
	showCursor  = "\x1b[?25h"
	clearScreen = "\x1b[2J\x1b[H"
)

// RawTerminal owns the terminal for the lifetime of an interactive
// session: raw input mode and hidden cursor on entry, both restored on
// every exit path including SIGINT/SIGTERM.
type RawTerminal struct {
	in          *os.File
	out         *os.File
	reader      *bufio.Reader
	prior       *term.State
	logger      logging.Logger
	sigCh       chan os.Signal
	restoreOnce sync.Once
}

// NewRawTerminal puts the terminal into raw mode and installs the signal
// handler that restores it on forced termination.
func NewRawTerminal(in, out *os.File, logger logging.Logger) (*RawTerminal, error) {
	if !isatty.IsTerminal(in.Fd()) && !isatty.IsCygwinTerminal(in.Fd()) {
		return nil, &apperrors.TerminalStateError{Op: "open", Err: fmt.Errorf("stdin is not a terminal")}
	}

	prior, err := term.MakeRaw(int(in.Fd()))
	if err != nil {
		return nil, &apperrors.TerminalStateError{Op: "raw", Err: err}
	}

	t := &RawTerminal{
		in:     in,
		out:    out,
		reader: bufio.NewReader(in),
		prior:  prior,
		logger: logger,
		sigCh:  make(chan os.Signal, 1),
	}
	fmt.Fprint(out, hideCursor)

	signal.Notify(t.sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		if _, ok := <-t.sigCh; ok {
			t.Restore()
			os.Exit(130)
		}
	}()

	return t, nil
}

// ReadKey blocks for one byte of input.
func (t *RawTerminal) ReadKey() (byte, error) {
	return t.reader.ReadByte()
}

// ReadLine temporarily leaves raw mode so the user gets normal line
// editing, then re-enters it.
func (t *RawTerminal) ReadLine(prompt string) (string, error) {
	fd := int(t.in.Fd())
	if err := term.Restore(fd, t.prior); err != nil {
		return "", &apperrors.TerminalStateError{Op: "cooked", Err: err}
	}
	fmt.Fprint(t.out, showCursor)
	fmt.Fprint(t.out, prompt)

	line, err := t.reader.ReadString('\n')

	fmt.Fprint(t.out, hideCursor)
	if _, rerr := term.MakeRaw(fd); rerr != nil {
		return "", &apperrors.TerminalStateError{Op: "raw", Err: rerr}
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Write sends text to the terminal.
func (t *RawTerminal) Write(s string) {
	fmt.Fprint(t.out, s)
}

// Size reports the terminal dimensions, defaulting to 80x24 when the
// query fails.
func (t *RawTerminal) Size() (width, height int) {
	w, h, err := term.GetSize(int(t.out.Fd()))
	if err != nil || w <= 0 || h <= 0 {
		return 80, 24
	}
	return w, h
}

// Restore puts the terminal back into its prior mode and re-shows the
// cursor. Idempotent; bound to normal quit, error returns, and the
// signal handler alike.
func (t *RawTerminal) Restore() {
	t.restoreOnce.Do(func() {
		signal.Stop(t.sigCh)
		close(t.sigCh)
		fmt.Fprint(t.out, showCursor)
		if err := term.Restore(int(t.in.Fd()), t.prior); err != nil {
			t.logger.Error("terminal restore failed: %v", err)
			// Last resort so the shell is not left unusable.
			cmd := exec.Command("stty", "sane")
			cmd.Stdin = t.in
			if rerr := cmd.Run(); rerr != nil {
				t.logger.Error("stty sane failed: %v", rerr)
			}
		}
	})
}
