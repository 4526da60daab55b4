package main

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"jirarecon/pkg/config"
	"jirarecon/pkg/logger"
	"jirarecon/pkg/ui"
)

// exitInterrupted is the conventional status for a SIGINT-terminated process
const exitInterrupted = 130

var (
	// Version information
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	// Global flags
	configFile string
	logLevel   string
	noColor    bool
	quiet      bool
	outputDir  string

	// Run flags
	concurrent int
	timeout    time.Duration
	noSpinner  bool

	// cfg is loaded once per invocation before any command runs
	cfg *config.Config
)

// errInterrupted ends a run the operator cancelled
var errInterrupted = errors.New("interrupted")

var rootCmd = &cobra.Command{
	Use:   "jirarecon",
	Short: "Enumerate publicly shared Jira filters and dashboards",
	Long: `jirarecon lists the filters and dashboards a Jira Cloud site exposes to
anonymous visitors, saves every resource it can reach and collects the
users mentioned in them.

Run without arguments for an interactive session: you will be asked for the
company subdomain (the "acme" in acme.atlassian.net) and which resources to
enumerate. Results are written below the output directory as
<company>_filters/ and <company>_dashboard/.`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup(cmd)
	},
	RunE: runRecon,
}

// Execute runs the root command and maps the outcome to an exit status
func Execute() {
	err := rootCmd.Execute()
	switch {
	case err == nil:
	case errors.Is(err, errInterrupted):
		fmt.Fprintln(os.Stderr, "\nExiting...")
		os.Exit(exitInterrupted)
	default:
		ui.PrintError("Error", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default is ./.jirarecon.yaml or $HOME/.config/jirarecon/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "only log errors")
	rootCmd.PersistentFlags().StringVarP(&outputDir, "output", "o", "", "directory results are written below (default: current directory)")

	rootCmd.Flags().IntVar(&concurrent, "concurrent", 0, "concurrent sub-resource requests per family (default 10)")
	rootCmd.Flags().DurationVar(&timeout, "timeout", 0, "per-request timeout (default 30s)")
	rootCmd.Flags().BoolVar(&noSpinner, "no-spinner", false, "do not animate progress")

	rootCmd.SetVersionTemplate(`jirarecon {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// flagOverrides collects only the flags the operator actually set
func flagOverrides(cmd *cobra.Command) map[string]interface{} {
	flags := make(map[string]interface{})
	changed := func(name string) bool {
		f := cmd.Flags().Lookup(name)
		return f != nil && f.Changed
	}

	if changed("output") {
		flags["output"] = outputDir
	}
	if changed("concurrent") {
		flags["concurrent"] = concurrent
	}
	if changed("timeout") {
		flags["timeout"] = timeout
	}
	if changed("log-level") {
		flags["log-level"] = logLevel
	}
	if quiet {
		flags["log-level"] = "error"
	}
	if noColor {
		flags["no-color"] = true
	}
	if noSpinner {
		flags["spinner"] = false
	}
	return flags
}

func setup(cmd *cobra.Command) error {
	loaded, err := config.Load(configFile, flagOverrides(cmd))
	if err != nil {
		return err
	}
	cfg = loaded

	if cfg.UI.NoColor {
		ui.DisableColor()
	}

	if err := logger.Initialize(&cfg.Logging, logger.Options{NoColor: cfg.UI.NoColor}); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger.WithField("version", version).Debug("jirarecon starting")
	return nil
}
