package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/dstanek/logprobe/internal/classify"
	apperrors "github.com/dstanek/logprobe/internal/errors"
	"github.com/dstanek/logprobe/internal/export"
	"github.com/dstanek/logprobe/internal/filter"
	"github.com/dstanek/logprobe/internal/loader"
	"github.com/dstanek/logprobe/internal/logging"
	"github.com/dstanek/logprobe/internal/session"
	"github.com/dstanek/logprobe/internal/summary"
	"github.com/dstanek/logprobe/internal/timestamp"
	"github.com/dstanek/logprobe/pkg/timeutil"
)

var (
	showLogs    bool
	interactive bool
	csvOut      bool
	csvOnly     bool
	errorsOnly  bool
	sampleMode  bool
	limit       int
	topErrors   int
	fromArg     string
	toArg       string
	filterArg   string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Analyze a log file",
	Long: `Analyze infers the file's timestamp and severity format from a sample,
classifies every line, and prints a summary. Reads standard input when no
file is given and input is piped.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().BoolVar(&showLogs, "show-logs", false, "Print classified lines after the summary")
	analyzeCmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Open the interactive pager")
	analyzeCmd.Flags().BoolVar(&csvOut, "csv", false, "Export classified lines to CSV")
	analyzeCmd.Flags().BoolVar(&csvOnly, "csv-only", false, "Export to CSV and skip the text summary")
	analyzeCmd.Flags().BoolVarP(&errorsOnly, "errors-only", "e", false, "Keep only ERROR lines")
	analyzeCmd.Flags().BoolVar(&sampleMode, "sample", false, "Show the detected format profile and sampled lines")
	analyzeCmd.Flags().IntVarP(&limit, "limit", "l", 100, "Maximum lines printed with --show-logs (0 = all)")
	analyzeCmd.Flags().IntVar(&topErrors, "top-errors", 0, "How many frequent error groups to report")
	analyzeCmd.Flags().StringVar(&fromArg, "from", "", "Lower time bound (YYYY-MM-DD [HH:MM:SS], or 2h/30m relative)")
	analyzeCmd.Flags().StringVar(&toArg, "to", "", "Upper time bound")
	analyzeCmd.Flags().StringVarP(&filterArg, "filter", "f", "", "Substring filter applied at load time")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	app := GetApp(cmd)

	if interactive && (csvOut || csvOnly) {
		return apperrors.FlagConflictError("interactive", "csv")
	}

	sourcePath, lines, err := loadInput(args)
	if err != nil {
		return err
	}
	if info, serr := os.Stat(sourcePath); serr == nil {
		app.Debugf("loaded %d lines (%s) from %s", len(lines), timeutil.FormatBytes(info.Size()), sourcePath)
	} else {
		app.Debugf("loaded %d lines from %s", len(lines), sourcePath)
	}

	sampled := loader.Sample(lines, classify.SampleSize)
	profile := classify.Detect(sampled)
	norm := timestamp.New(time.Now().Year())

	if sampleMode {
		printSample(app, profile, norm, sampled)
		return nil
	}

	filtered, descriptions, err := applyFilters(lines, profile, norm)
	if err != nil {
		return err
	}

	if interactive {
		return runInteractive(app, sourcePath, filtered, profile, norm)
	}

	topN := topErrors
	if topN <= 0 {
		topN = app.Config.TopErrors
	}
	if topN <= 0 {
		topN = 5
	}

	if csvOut || csvOnly {
		dataset := export.DatasetFull
		if len(descriptions) > 0 {
			dataset = export.DatasetFiltered
		}
		res, err := export.Export(export.Request{
			Lines:      filtered,
			Profile:    profile,
			Normalizer: norm,
			SourcePath: sourcePath,
			Dataset:    dataset,
			TotalLines: len(lines),
			Filters:    descriptions,
			Dir:        app.Config.ExportDir,
			BaseName:   exportBaseName(sourcePath),
		})
		if err != nil {
			return err
		}
		app.Render.Success("Exported %d rows to %s", res.Rows, res.CSVPath)
		if csvOnly {
			return nil
		}
	}

	sum := summary.Analyze(filtered, profile, norm, topN)
	if sum.First != nil && sum.Last != nil {
		span := time.Duration(sum.Last.Epoch-sum.First.Epoch) * time.Second
		app.Debugf("observed span %s", timeutil.FormatDuration(span))
	}

	if app.GetOutputFormat() == "json" {
		return printJSON(app, sum, filtered, profile, norm)
	}

	out := app.Render.Out()
	app.Render.FilterBar(descriptions)
	sum.Render(out)
	sum.RenderTopErrors(out, topN)
	if showLogs {
		fmt.Fprintln(out, summary.HeaderContent)
		printLines(app, filtered, limit)
	}
	if len(filtered) == 0 {
		app.Render.NoResults()
	}
	return nil
}

// loadInput resolves the line source: the path argument, or standard
// input when none is given and stdin is piped.
func loadInput(args []string) (string, []loader.Line, error) {
	l := loader.New()

	if len(args) == 1 {
		lines, err := l.Load(args[0], filterArg)
		return args[0], lines, err
	}

	if isatty.IsTerminal(os.Stdin.Fd()) {
		return "", nil, &apperrors.SuggestiveError{
			Message:     "no input: give a file path or pipe data in",
			Suggestions: []string{"logprobe analyze /var/log/app.log", "journalctl -u app | logprobe analyze"},
			HelpCommand: "logprobe analyze --help",
		}
	}

	lines, err := l.LoadReader(os.Stdin, filterArg)
	return "stdin", lines, err
}

// applyFilters builds the non-interactive filter set from flags.
func applyFilters(lines []loader.Line, profile classify.Profile, norm *timestamp.Normalizer) ([]loader.Line, []string, error) {
	var stack filter.Stack

	if errorsOnly {
		stack.Upsert(filter.ErrorsOnly())
	}
	if fromArg != "" || toArg != "" {
		var from, to time.Time
		var err error
		if fromArg != "" {
			if from, err = timeutil.ParseBound(fromArg, false); err != nil {
				return nil, nil, fmt.Errorf("invalid --from: %w", err)
			}
		}
		if toArg != "" {
			if to, err = timeutil.ParseBound(toArg, true); err != nil {
				return nil, nil, fmt.Errorf("invalid --to: %w", err)
			}
		}
		stack.Upsert(filter.TimeRange(profile, norm, from, to))
	}

	return stack.Apply(lines), stack.Descriptions(), nil
}

func runInteractive(app *App, sourcePath string, lines []loader.Line, profile classify.Profile, norm *timestamp.Normalizer) error {
	console, err := session.NewRawTerminal(os.Stdin, os.Stdout, logging.Default())
	if err != nil {
		return err
	}

	cfg := session.Config{
		SourcePath: sourcePath,
		ExportDir:  app.Config.ExportDir,
		PageSize:   app.Config.PageSize,
		TopErrors:  app.Config.TopErrors,
	}
	return session.New(console, app.Render, logging.Default(), cfg, lines, profile, norm).Run()
}

func printSample(app *App, profile classify.Profile, norm *timestamp.Normalizer, sampled []string) {
	tsPattern := "(none)"
	if profile.TimestampPattern != nil {
		tsPattern = profile.TimestampPattern.String()
	}
	sevPattern := "(none)"
	if profile.SeverityPattern != nil {
		sevPattern = profile.SeverityPattern.String()
	}
	app.Render.KeyValue("Timestamp pattern", tsPattern)
	app.Render.KeyValue("Severity pattern", sevPattern)
	app.Render.Newline()

	for i, text := range sampled {
		ts, severity, message := export.SplitFields(profile, norm, text)
		if ts == "" {
			ts = "-"
		}
		app.Render.Info("%3d  %-19s  %-7s  %s", i+1, ts, severity, message)
	}
}

func printLines(app *App, lines []loader.Line, limit int) {
	for i, line := range lines {
		if limit > 0 && i >= limit {
			app.Render.Info("... (%d more lines)", len(lines)-limit)
			return
		}
		app.Render.LogLine(line.Num, line.Text)
	}
}

// jsonEntry is one classified line in json output.
type jsonEntry struct {
	Num       int    `json:"num"`
	Timestamp string `json:"timestamp,omitempty"`
	Severity  string `json:"severity"`
	Message   string `json:"message"`
}

type jsonReport struct {
	Summary summary.Summary `json:"summary"`
	Entries []jsonEntry     `json:"entries,omitempty"`
}

func printJSON(app *App, sum summary.Summary, lines []loader.Line, profile classify.Profile, norm *timestamp.Normalizer) error {
	report := jsonReport{Summary: sum}
	if showLogs {
		max := len(lines)
		if limit > 0 && limit < max {
			max = limit
		}
		for _, line := range lines[:max] {
			ts, severity, message := export.SplitFields(profile, norm, line.Text)
			report.Entries = append(report.Entries, jsonEntry{
				Num:       line.Num,
				Timestamp: ts,
				Severity:  severity,
				Message:   message,
			})
		}
	}

	enc := json.NewEncoder(app.Render.Out())
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

// exportBaseName derives the CSV name from the source path.
func exportBaseName(sourcePath string) string {
	base := filepath.Base(sourcePath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" || base == "." {
		base = "logprobe"
	}
	return base + "-" + time.Now().Format("20060102-150405")
}
