// Package cmd provides the CLI commands for FilePilot.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/filepilot/filepilot/internal/config"
	"github.com/filepilot/filepilot/internal/explorer"
	"github.com/filepilot/filepilot/internal/logging"
	"github.com/filepilot/filepilot/internal/search"
	"github.com/filepilot/filepilot/internal/ui"
)

// Version is the CLI version, set at build time via ldflags.
var Version = "0.1.0"

var (
	debugMode      bool
	loggingCleanup func()
)

type rootOptions struct {
	path       string
	strategy   string
	configPath string
	search     string
}

// NewRootCmd creates the root command for the filepilot CLI.
func NewRootCmd() *cobra.Command {
	var opts rootOptions

	cmd := &cobra.Command{
		Use:   "filepilot",
		Short: "Interactive terminal file explorer with fast fuzzy search",
		Long: `FilePilot is a terminal file explorer built around search.

Browse directories, then press / and type to search the current
directory tree as you type. Tab cycles search strategies (fast,
comprehensive, local). Enter navigates into the selected entry.

For scripting, use the search subcommand to print ranked matches
without starting the interactive interface.`,
		Version:      Version,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.search != "" {
				strategy := opts.strategy
				if strategy == "" {
					strategy = "comprehensive"
				}
				return runOneShot(cmd.Context(), cmd, &opts,
					searchOptions{limit: 100, strategy: strategy}, opts.search)
			}
			return runInteractive(opts)
		},
	}

	cmd.SetVersionTemplate("filepilot version {{.Version}}\n")

	cmd.Flags().StringVarP(&opts.path, "path", "p", "", "Start directory (default: current directory)")
	cmd.Flags().StringVar(&opts.strategy, "strategy", "", "Initial search strategy: fast, comprehensive, local")
	cmd.Flags().StringVarP(&opts.search, "search", "s", "", "Run a one-shot search and print ranked paths instead of starting the TUI")
	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Config file (default: ~/.config/filepilot/config.yaml)")
	cmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging to ~/.filepilot/logs/")

	cmd.PersistentPreRunE = func(_ *cobra.Command, _ []string) error {
		return startLogging()
	}
	cmd.PersistentPostRun = func(_ *cobra.Command, _ []string) {
		if loggingCleanup != nil {
			loggingCleanup()
		}
	}

	cmd.AddCommand(newSearchCmd(&opts))

	return cmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

func runInteractive(opts rootOptions) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	start := cfg.StartPath
	if opts.path != "" {
		start = opts.path
	}
	if start == "" {
		start, err = os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to determine working directory: %w", err)
		}
	}

	exp, err := explorer.New(start)
	if err != nil {
		return err
	}

	engine := search.NewEngine(search.DefaultConfig())

	slog.Info("session started",
		slog.String("path", exp.CurrentPath()),
		slog.String("strategy", cfg.InitialStrategy().String()))

	return ui.Run(cfg, exp, engine)
}

func loadConfig(opts rootOptions) (config.Config, error) {
	path := opts.configPath
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}
	if opts.strategy != "" {
		cfg.Strategy = opts.strategy
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func startLogging() error {
	logCfg := logging.DefaultConfig()
	if debugMode {
		logCfg.Level = "debug"
	}
	cleanup, err := logging.Setup(logCfg)
	if err != nil {
		// Logging is best effort; the session works without it.
		fmt.Fprintf(os.Stderr, "warning: logging disabled: %v\n", err)
		return nil
	}
	loggingCleanup = cleanup
	return nil
}
