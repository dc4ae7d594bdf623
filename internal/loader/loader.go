// Package loader ingests a log file into an in-memory line collection.
package loader

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"strings"

	"github.com/dstanek/logprobe/internal/errors"
)

const (
	// BulkThreshold is the line count above which loading switches to a
	// single bulk read. The threshold is a performance choice only; both
	// paths produce identical output for identical input.
	BulkThreshold = 10000
)

// Line is one raw log line. Lines are never mutated after load.
type Line struct {
	Num  int // 1-based
	Text string
}

// Loader reads log files. The zero value is not usable; use New.
type Loader struct {
	threshold int
}

// New creates a Loader with the default bulk threshold.
func New() *Loader {
	return &Loader{threshold: BulkThreshold}
}

// NewWithThreshold creates a Loader with a custom bulk threshold. Used by
// tests to exercise both paths on small inputs.
func NewWithThreshold(threshold int) *Loader {
	return &Loader{threshold: threshold}
}

// shellMetaChars are refused in paths before any filesystem access.
const shellMetaChars = ";|&$`<>\n"

// ValidatePath rejects paths with traversal sequences or shell
// metacharacters before touching the filesystem.
func ValidatePath(path string) error {
	if path == "" {
		return &errors.InvalidPathError{Path: path, Reason: "empty path"}
	}
	if strings.Contains(path, "..") {
		return &errors.InvalidPathError{Path: path, Reason: "traversal sequence"}
	}
	if strings.ContainsAny(path, shellMetaChars) {
		return &errors.InvalidPathError{Path: path, Reason: "shell metacharacter"}
	}
	return nil
}

// Load reads the file at path into lines. contentFilter, when non-empty,
// keeps only lines containing the substring (case-sensitive); numbering
// still reflects positions in the original file.
//
// Files above the bulk threshold are read in one call and split in memory;
// smaller files are scanned line by line. The two paths are required to
// produce identical output.
func (l *Loader) Load(path, contentFilter string) ([]Line, error) {
	if err := ValidatePath(path); err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return nil, &errors.FileNotFoundError{Path: path}
	}

	count, err := countLines(path)
	if err != nil {
		return nil, err
	}

	if count > l.threshold {
		return l.loadBulk(path, contentFilter)
	}
	return l.loadScanned(path, contentFilter)
}

// LoadReader reads lines from r (typically stdin). Always line-by-line;
// there is no size to inspect up front.
func (l *Loader) LoadReader(r io.Reader, contentFilter string) ([]Line, error) {
	return scanLines(r, contentFilter)
}

// countLines counts newline-delimited lines without materializing them.
func countLines(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, &errors.FileNotFoundError{Path: path}
	}
	defer func() { _ = f.Close() }()

	count := 0
	var lastByte byte = '\n'
	buf := make([]byte, 64*1024)
	for {
		n, err := f.Read(buf)
		if n > 0 {
			for _, b := range buf[:n] {
				if b == '\n' {
					count++
				}
			}
			lastByte = buf[n-1]
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, err
		}
	}
	if lastByte != '\n' {
		// A file not ending in a newline still has a final line.
		count++
	}
	return count, nil
}

// loadBulk reads the whole file at once and splits it in memory. The
// content filter is applied while splitting, before lines materialize
// into the result.
func (l *Loader) loadBulk(path, contentFilter string) ([]Line, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &errors.FileNotFoundError{Path: path}
	}

	var lines []Line
	num := 0
	for len(data) > 0 {
		var raw []byte
		if idx := bytes.IndexByte(data, '\n'); idx >= 0 {
			raw = data[:idx]
			data = data[idx+1:]
		} else {
			raw = data
			data = nil
		}

		num++
		text := strings.TrimRight(string(raw), "\r")
		if contentFilter != "" && !strings.Contains(text, contentFilter) {
			continue
		}
		lines = append(lines, Line{Num: num, Text: text})
	}
	return lines, nil
}

// loadScanned reads and filters one line at a time.
func (l *Loader) loadScanned(path, contentFilter string) ([]Line, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &errors.FileNotFoundError{Path: path}
	}
	defer func() { _ = f.Close() }()

	return scanLines(f, contentFilter)
}

// scanLines reads lines one at a time. Lines of any length are accepted,
// matching the bulk path.
func scanLines(r io.Reader, contentFilter string) ([]Line, error) {
	reader := bufio.NewReader(r)

	var lines []Line
	num := 0
	for {
		text, err := reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, err
		}
		if text == "" && err == io.EOF {
			break
		}
		num++
		text = strings.TrimSuffix(text, "\n")
		text = strings.TrimRight(text, "\r")
		if contentFilter == "" || strings.Contains(text, contentFilter) {
			lines = append(lines, Line{Num: num, Text: text})
		}
		if err == io.EOF {
			break
		}
	}
	return lines, nil
}

// Sample returns up to n line texts from the front of lines, for format
// detection.
func Sample(lines []Line, n int) []string {
	if n > len(lines) {
		n = len(lines)
	}
	sample := make([]string, 0, n)
	for _, line := range lines[:n] {
		sample = append(sample, line.Text)
	}
	return sample
}
