package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"workshopcli/internal/config"
	"workshopcli/internal/errors"
	"workshopcli/internal/exporter"
	"workshopcli/internal/infrastructure"
	"workshopcli/internal/operations"
	"workshopcli/pkg/contracts"
)

// shutdownTimeout bounds the telemetry flush at exit
const shutdownTimeout = 5 * time.Second

// getPaths locates the executable directory; tests point it elsewhere
var getPaths = config.GetPaths

type rootOptions struct {
	configFile      string
	dir             string
	out             string
	logLevel        string
	isolateFailures bool
	printStats      bool
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   config.AppName,
		Short: "Consolidate workshop timing workbooks into one report",
		Long: "Reads every participant workbook in the input directory and writes " +
			config.DefaultOutputFile + " with the Summary, Detail by Activity and Statistics sheets.",
		Args:          cobra.NoArgs,
		Version:       contracts.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd, opts)
		},
	}
	rootCmd.SetVersionTemplate(contracts.GetFullVersionString() + "\n")

	flags := rootCmd.Flags()
	flags.StringVarP(&opts.configFile, "config", "c", "", "Configuration file path (YAML or TOML)")
	flags.StringVar(&opts.dir, "dir", "", "Directory holding the participant workbooks")
	flags.StringVar(&opts.out, "out", "", "Report output path")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flags.BoolVar(&opts.isolateFailures, "isolate-failures", false, "Keep going when a workbook cannot be read")
	flags.BoolVar(&opts.printStats, "print-stats", false, "Print the statistics table after writing the report")

	return rootCmd
}

// loadConfig applies defaults, config file, environment and flags, in
// increasing order of precedence
func loadConfig(cmd *cobra.Command, opts *rootOptions) (*config.Config, *config.Paths, error) {
	paths, err := getPaths()
	if err != nil {
		return nil, nil, err
	}

	cfg, err := config.Load(opts.configFile)
	if err != nil {
		return nil, nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("dir") {
		if cfg.Input.Dir, err = filepath.Abs(opts.dir); err != nil {
			return nil, nil, errors.NewConfigError("invalid --dir", err)
		}
	}
	if flags.Changed("out") {
		if cfg.Output.Path, err = filepath.Abs(opts.out); err != nil {
			return nil, nil, errors.NewConfigError("invalid --out", err)
		}
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = opts.logLevel
	}
	if flags.Changed("isolate-failures") && opts.isolateFailures {
		cfg.Report.FailurePolicy = config.FailureIsolate
	}

	if err := cfg.Validate(); err != nil {
		return nil, nil, errors.NewConfigError("config validation failed", err)
	}
	cfg.ResolvePaths(paths)

	return cfg, paths, nil
}

func runReport(cmd *cobra.Command, opts *rootOptions) error {
	cfg, paths, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer infrastructure.CloseLogFile()
	paths.LogPathResolution(logger)

	telemetry, err := infrastructure.InitializeTelemetry(cfg.Telemetry, contracts.Version, logger)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if shutdownErr := telemetry.Shutdown(shutdownCtx); shutdownErr != nil {
			logger.Warn("Telemetry shutdown failed", slog.String("error", shutdownErr.Error()))
		}
	}()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = infrastructure.EnsureTraceID(ctx)

	logger.InfoContext(ctx, "Starting report run",
		slog.String("version", contracts.Version),
		slog.String("executable_dir", paths.ExecutableDir),
		slog.String("failure_policy", cfg.Report.FailurePolicy),
		slog.String("missing_duration_policy", cfg.Report.MissingDurationPolicy))

	out := cmd.OutOrStdout()
	pipeline, err := operations.NewReportPipeline(cfg, operations.Options{
		BasePath:  paths.ExecutableDir,
		Paths:     paths,
		Logger:    logger,
		Telemetry: telemetry,
		Progress:  out,
	})
	if err != nil {
		return err
	}

	state := operations.NewRunState(infrastructure.GetTraceID(ctx), cfg.Input.Dir, cfg.Output.Path)
	if err := pipeline.Run(ctx, state); err != nil {
		infrastructure.WithError(logger, err).ErrorContext(ctx, "Report run failed")
		return err
	}

	if opts.printStats {
		printStatistics(out, state.Tables)
	}
	return nil
}

// printStatistics renders the statistics sheet for the terminal
func printStatistics(out io.Writer, tables []exporter.Table) {
	for _, table := range tables {
		if table.Name != exporter.SheetStatistics {
			continue
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out, renderTable(table, shouldUseRoundedStyle(out)))
	}
}
