package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dstanek/logprobe/internal/logging"
	"github.com/dstanek/logprobe/internal/ui"
)

var (
	cfgFile      string
	outputFormat string
	verbose      bool
	noColor      bool
	quiet        bool

	// render is the global renderer for all output
	render *ui.Renderer
)

var rootCmd = &cobra.Command{
	Use:   "logprobe",
	Short: "Heuristic log file analyzer",
	Long: `logprobe analyzes plain-text log files without being told their format:
it infers timestamp and severity patterns from a sample of the file,
classifies every line, and summarizes what it found.

Examples:
  # Summarize a file
  logprobe analyze /var/log/app.log

  # Summarize plus the first 50 classified lines
  logprobe analyze /var/log/app.log --show-logs --limit 50

  # Only lines between two timestamps
  logprobe analyze app.log --from "2023-09-01 12:00:00" --to "2023-09-01 13:00:00"

  # Page through the file interactively
  logprobe analyze app.log --interactive

  # Export classified lines to CSV with sidecar metadata
  logprobe analyze app.log --csv

  # Read from a pipe
  journalctl -u app | logprobe analyze

Configuration:
  Create ~/.logprobe.yaml (or ~/.logprobe/config.yaml):

    output: pretty    # pretty, json
    page_size: 25
    top_errors: 5
    export_dir: .`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// SetVersion sets the version string for the root command
func SetVersion(v string) {
	rootCmd.Version = v
}

func init() {
	cobra.OnInitialize(initConfig, initRenderer)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.logprobe.yaml)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "", "Output format: pretty, json")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output for debugging")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&quiet, "quiet", false, "Suppress status messages")

	_ = viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// initRenderer initializes the global renderer with current settings.
func initRenderer() {
	render = ui.NewRendererWithOptions(
		ui.WithNoColor(noColor || os.Getenv("NO_COLOR") != ""),
		ui.WithQuiet(quiet),
	)
	if IsVerbose() {
		logging.Default().SetLevel(logging.LevelDebug)
	}
}

// IsVerbose returns true if verbose mode is enabled
func IsVerbose() bool {
	return verbose || viper.GetBool("verbose")
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
			viper.AddConfigPath(home + "/.logprobe")
		}
		viper.AddConfigPath(".")
		viper.SetConfigName(".logprobe")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("LOGPROBE")
	viper.AutomaticEnv()

	viper.SetDefault("output", "pretty")
	viper.SetDefault("page_size", 25)
	viper.SetDefault("top_errors", 5)
	viper.SetDefault("export_dir", ".")

	// Read config file (ignore if not found, warn on other errors)
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintf(os.Stderr, "Warning: error reading config file: %v\n", err)
		}
	}
}

// getOutputFormat returns the output format from flags or config.
func getOutputFormat() string {
	if outputFormat != "" {
		return outputFormat
	}
	return viper.GetString("output")
}
