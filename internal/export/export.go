// Package export serializes a line set to CSV with a sidecar metadata
// file describing the filters active at export time.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dstanek/logprobe/internal/classify"
	"github.com/dstanek/logprobe/internal/loader"
	"github.com/dstanek/logprobe/internal/timestamp"
)

// Dataset names which view was exported.
type Dataset string

const (
	DatasetFiltered Dataset = "filtered"
	DatasetFull     Dataset = "full"
)

// Request describes one export operation.
type Request struct {
	Lines      []loader.Line
	Profile    classify.Profile
	Normalizer *timestamp.Normalizer
	SourcePath string   // original log file, recorded in the sidecar
	Dataset    Dataset  // filtered vs full
	TotalLines int      // size of the unfiltered dataset
	Filters    []string // active filter descriptions
	Dir        string   // destination directory
	BaseName   string   // output name without extension; sanitized
}

// Result reports where the export landed.
type Result struct {
	CSVPath  string
	MetaPath string
	Rows     int
}

// Metadata is the sidecar file written alongside every CSV export.
type Metadata struct {
	ExportedAt   string   `yaml:"exported_at"`
	SourcePath   string   `yaml:"source_path"`
	Dataset      string   `yaml:"dataset"`
	TotalLines   int      `yaml:"total_lines"`
	ExportedRows int      `yaml:"exported_rows"`
	Filters      []string `yaml:"filters"`
}

// Export writes req.Lines as CSV plus the sidecar metadata file. Partial
// output is removed on failure.
func Export(req Request) (Result, error) {
	base := SanitizeFilename(req.BaseName)
	if base == "" {
		base = "export"
	}

	csvPath := filepath.Join(req.Dir, base+".csv")
	metaPath := filepath.Join(req.Dir, base+".meta.yaml")

	rows, err := writeCSV(csvPath, req)
	if err != nil {
		_ = os.Remove(csvPath)
		return Result{}, err
	}

	meta := Metadata{
		ExportedAt:   time.Now().UTC().Format(time.RFC3339),
		SourcePath:   req.SourcePath,
		Dataset:      string(req.Dataset),
		TotalLines:   req.TotalLines,
		ExportedRows: rows,
		Filters:      req.Filters,
	}
	if err := writeMetadata(metaPath, meta); err != nil {
		_ = os.Remove(csvPath)
		_ = os.Remove(metaPath)
		return Result{}, err
	}

	return Result{CSVPath: csvPath, MetaPath: metaPath, Rows: rows}, nil
}

func writeCSV(path string, req Request) (int, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create csv: %w", err)
	}
	defer func() { _ = f.Close() }()

	if _, err := fmt.Fprintln(f, "timestamp,severity,message"); err != nil {
		return 0, err
	}

	rows := 0
	for _, line := range req.Lines {
		ts, severity, message := SplitFields(req.Profile, req.Normalizer, line.Text)
		record := quoteField(ts) + "," + quoteField(severity) + "," + quoteField(message)
		if _, err := fmt.Fprintln(f, record); err != nil {
			return 0, err
		}
		rows++
	}

	return rows, f.Sync()
}

// SplitFields derives the three CSV columns from a raw line: the canonical
// timestamp display (empty when unknown), the severity name, and the line
// with the recognized timestamp and leading severity token stripped.
func SplitFields(profile classify.Profile, norm *timestamp.Normalizer, text string) (ts, severity, message string) {
	if raw, ok := profile.ExtractTimestamp(text); ok {
		if c, err := norm.Normalize(raw); err == nil {
			ts = c.Display
		}
	}

	severity = classify.ClassifySeverity(text).String()

	message = strings.TrimSpace(profile.StripTimestamp(text))
	message = classify.TrimSeverityPrefix(message)
	message = strings.TrimSpace(message)
	return ts, severity, message
}

// quoteField wraps a field in quotes, doubling embedded quote characters.
// Every field is quoted regardless of content.
func quoteField(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func writeMetadata(path string, meta Metadata) error {
	data, err := yaml.Marshal(meta)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write metadata: %w", err)
	}
	return nil
}

// SanitizeFilename reduces name to the allow-list of alphanumerics, dot,
// underscore, and hyphen. Anything else becomes an underscore; leading
// dots are dropped so no traversal or hidden file can result.
func SanitizeFilename(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '_' || r == '-':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return strings.TrimLeft(b.String(), ".")
}
