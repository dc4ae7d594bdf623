package loader

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	probeerrors "github.com/dstanek/logprobe/internal/errors"
)

func writeFixture(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.log")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeFixture(t, "first line\nsecond line\nthird line\n")

	lines, err := New().Load(path, "")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := []Line{
		{Num: 1, Text: "first line"},
		{Num: 2, Text: "second line"},
		{Num: 3, Text: "third line"},
	}
	if !reflect.DeepEqual(lines, want) {
		t.Errorf("Load() = %v, want %v", lines, want)
	}
}

func TestLoadNoTrailingNewline(t *testing.T) {
	path := writeFixture(t, "first\nsecond")

	lines, err := New().Load(path, "")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(lines) != 2 || lines[1].Text != "second" {
		t.Errorf("Load() = %v, want 2 lines ending in %q", lines, "second")
	}
}

func TestLoadContentFilter(t *testing.T) {
	path := writeFixture(t, "keep this\ndrop that\nkeep also\n")

	lines, err := New().Load(path, "keep")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("Load() kept %d lines, want 2", len(lines))
	}
	// Line numbers still reflect positions in the original file.
	if lines[0].Num != 1 || lines[1].Num != 3 {
		t.Errorf("line numbers = %d, %d; want 1, 3", lines[0].Num, lines[1].Num)
	}
}

func TestLoadBothPathsIdentical(t *testing.T) {
	// The bulk and scanned paths must produce identical output when the
	// threshold is artificially varied.
	var b strings.Builder
	for i := 0; i < 50; i++ {
		b.WriteString("2023-09-01 12:00:00 INFO line\r\n")
		b.WriteString("plain text\n")
	}
	// A line far beyond any internal buffer size must survive both paths.
	b.WriteString("INFO " + strings.Repeat("x", 2*1024*1024) + "\n")
	b.WriteString("final line without newline")
	path := writeFixture(t, b.String())

	tests := []struct {
		name   string
		filter string
	}{
		{"unfiltered", ""},
		{"filtered", "INFO"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scanned, err := NewWithThreshold(1000000).Load(path, tt.filter)
			if err != nil {
				t.Fatalf("scanned Load() error = %v", err)
			}
			bulk, err := NewWithThreshold(1).Load(path, tt.filter)
			if err != nil {
				t.Fatalf("bulk Load() error = %v", err)
			}
			if !reflect.DeepEqual(scanned, bulk) {
				t.Errorf("paths diverge: scanned %d lines, bulk %d lines", len(scanned), len(bulk))
			}
		})
	}
}

func TestLoadScannedLongLine(t *testing.T) {
	long := strings.Repeat("y", 2*1024*1024)
	path := writeFixture(t, "short\n"+long+"\n")

	lines, err := NewWithThreshold(1000000).Load(path, "")
	if err != nil {
		t.Fatalf("scanned Load() error = %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("scanned Load() returned %d lines, want 2", len(lines))
	}
	if lines[1].Text != long {
		t.Errorf("long line truncated: got %d bytes, want %d", len(lines[1].Text), len(long))
	}
}

func TestLoadFileNotFound(t *testing.T) {
	_, err := New().Load(filepath.Join(t.TempDir(), "missing.log"), "")
	if !errors.Is(err, probeerrors.ErrFileNotFound) {
		t.Errorf("error = %v, want ErrFileNotFound", err)
	}
}

func TestLoadDirectoryRejected(t *testing.T) {
	_, err := New().Load(t.TempDir(), "")
	if !errors.Is(err, probeerrors.ErrFileNotFound) {
		t.Errorf("error = %v, want ErrFileNotFound for a directory", err)
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"plain path", "/var/log/app.log", false},
		{"relative path", "app.log", false},
		{"traversal", "../../etc/passwd", true},
		{"embedded traversal", "/var/log/../../etc/shadow", true},
		{"semicolon", "/tmp/x;rm -rf /", true},
		{"pipe", "/tmp/x|cat", true},
		{"backtick", "/tmp/`id`.log", true},
		{"dollar", "/tmp/$HOME.log", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.path)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, probeerrors.ErrInvalidPath) {
				t.Errorf("error %v is not ErrInvalidPath", err)
			}
		})
	}
}

func TestLoadReader(t *testing.T) {
	r := strings.NewReader("one\ntwo\nthree\n")

	lines, err := New().LoadReader(r, "t")
	if err != nil {
		t.Fatalf("LoadReader() error = %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("LoadReader() kept %d lines, want 2", len(lines))
	}
	if lines[0].Text != "two" || lines[1].Text != "three" {
		t.Errorf("unexpected lines: %v", lines)
	}
}

func TestSample(t *testing.T) {
	lines := []Line{{1, "a"}, {2, "b"}, {3, "c"}}

	if got := Sample(lines, 2); len(got) != 2 || got[0] != "a" {
		t.Errorf("Sample(2) = %v", got)
	}
	if got := Sample(lines, 10); len(got) != 3 {
		t.Errorf("Sample(10) = %v, want all 3", got)
	}
}
