package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harrison/unusedres/internal/config"
	"github.com/harrison/unusedres/internal/detector"
	"github.com/harrison/unusedres/internal/display"
	"github.com/harrison/unusedres/internal/filelock"
	"github.com/harrison/unusedres/internal/history"
	"github.com/harrison/unusedres/internal/logger"
	"github.com/harrison/unusedres/internal/models"
	"github.com/harrison/unusedres/internal/pattern"
)

// maxListedDiagnostics caps the warning printed after a scan.
const maxListedDiagnostics = 10

// NewScanCommand creates the scan command
func NewScanCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [project-dir]",
		Short: "Report resources that no source file references",
		Long: `Scan a project for unused resources.

Configuration is loaded from <project>/.unusedres/config.yaml if present,
or from the file named by --config or $UNUSEDRES_CONFIG.
CLI flags override configuration file settings.

Examples:
  unusedres scan                              # scan the current directory
  unusedres scan ./App --exclude "Pods|build" # skip folders by name
  unusedres scan --suffix png,pdf --similar   # only png/pdf, match icon_%d families
  unusedres scan --format json --output unused.json
  unusedres scan --history                    # also record the run`,
		Args: cobra.MaximumNArgs(1),
		RunE: runScan,
	}

	cmd.Flags().String("config", "", "Path to config file (default: <project>/.unusedres/config.yaml)")
	cmd.Flags().String("exclude", "", `Folder names to skip, separated by "|"`)
	cmd.Flags().StringSlice("suffix", nil, "Resource suffixes to index (e.g. png,jpg)")
	cmd.Flags().Bool("similar", false, "Treat numbered resources as used when a format-string reference matches")
	cmd.Flags().Bool("markdown", true, "Collect image and link targets from markdown files")
	cmd.Flags().String("log-level", "", "Log level: trace, debug, info, warn, error")
	cmd.Flags().String("format", "table", "Output format: table, json, yaml")
	cmd.Flags().String("output", "", "Write the report to this file instead of stdout")
	cmd.Flags().Bool("history", false, "Record this run in the history database")
	cmd.Flags().Bool("no-lock", false, "Do not take the per-project scan lock")

	return cmd
}

// runScan implements the scan command logic
func runScan(cmd *cobra.Command, args []string) error {
	projectArg := "."
	if len(args) == 1 {
		projectArg = args[0]
	}
	project, err := filepath.Abs(projectArg)
	if err != nil {
		return fmt.Errorf("resolve project path: %w", err)
	}

	cfg, configPath, err := loadScanConfig(cmd, project)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	formatFlag, _ := cmd.Flags().GetString("format")
	outputPath, _ := cmd.Flags().GetString("output")
	format, err := display.ParseFormat(formatFlag)
	if err != nil {
		return err
	}
	if outputPath != "" && format == display.FormatTable {
		format = formatForPath(outputPath)
	}

	settings, err := cfg.ToSettings()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if err := settings.Validate(); err != nil {
		return err
	}

	noLock, _ := cmd.Flags().GetBool("no-lock")
	if !noLock {
		lock, err := filelock.AcquireProjectLock(project)
		if err != nil {
			return err
		}
		defer lock.Unlock()
	}

	log, closeLog, err := buildLogger(cmd, cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	if configPath != "" {
		log.LogDebug(fmt.Sprintf("Config: %s", configPath))
	}

	compiler, err := pattern.NewCompiler(cfg.RegexCacheSize)
	if err != nil {
		return err
	}
	engine, err := detector.New(detector.WithLogger(log), detector.WithCompiler(compiler))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	report, err := engine.Detect(ctx, settings)
	if err != nil {
		return err
	}
	log.LogSummary(report)

	if err := writeReport(cmd, report, project, format, outputPath); err != nil {
		return err
	}

	if len(report.Diagnostics) > 0 {
		display.WarnDiagnostics(report.Diagnostics, maxListedDiagnostics).Display(cmd.ErrOrStderr())
	}
	if report.Incomplete {
		display.WarnIncomplete().Display(cmd.ErrOrStderr())
	}

	record, _ := cmd.Flags().GetBool("history")
	if record {
		if err := recordRun(ctx, cfg, project, report, log); err != nil {
			return err
		}
	}

	return nil
}

// loadScanConfig loads the config file and applies changed flags over it.
func loadScanConfig(cmd *cobra.Command, project string) (*config.Config, string, error) {
	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		configPath = os.Getenv(EnvConfig)
	}

	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.LoadConfig(configPath)
		if err != nil {
			return nil, "", fmt.Errorf("failed to load config from %s: %w", configPath, err)
		}
	} else {
		cfg, err = config.LoadConfigFromDir(project)
		if err != nil {
			return nil, "", fmt.Errorf("failed to load config: %w", err)
		}
	}

	var (
		exclude  *string
		suffixes *[]string
		similar  *bool
		markdown *bool
		level    *string
	)
	if cmd.Flags().Changed("exclude") {
		v, _ := cmd.Flags().GetString("exclude")
		exclude = &v
	}
	if cmd.Flags().Changed("suffix") {
		v, _ := cmd.Flags().GetStringSlice("suffix")
		suffixes = &v
	}
	if cmd.Flags().Changed("similar") {
		v, _ := cmd.Flags().GetBool("similar")
		similar = &v
	}
	if cmd.Flags().Changed("markdown") {
		v, _ := cmd.Flags().GetBool("markdown")
		markdown = &v
	}
	if cmd.Flags().Changed("log-level") {
		v, _ := cmd.Flags().GetString("log-level")
		level = &v
	} else if v := os.Getenv(EnvLogLevel); v != "" {
		level = &v
	}

	cfg.MergeWithFlags(&project, exclude, suffixes, similar, markdown, level)
	return cfg, configPath, nil
}

// buildLogger writes to stderr, plus a run log when a log directory is set.
func buildLogger(cmd *cobra.Command, cfg *config.Config) (logger.Logger, func(), error) {
	console := logger.NewConsoleLogger(cmd.ErrOrStderr(), cfg.LogLevel)
	if cfg.LogDir == "" {
		return console, func() {}, nil
	}

	fileLog, err := logger.NewFileLogger(cfg.ResolvePath(cfg.LogDir), cfg.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create file logger: %w", err)
	}
	return logger.NewMultiLogger(console, fileLog), func() { fileLog.Close() }, nil
}

func writeReport(cmd *cobra.Command, report *models.DetectionReport, project string, format display.Format, outputPath string) error {
	if outputPath != "" {
		if err := display.Export(outputPath, report, project, format); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", outputPath)
		return nil
	}

	if format == display.FormatTable {
		return display.WriteTable(cmd.OutOrStdout(), report, project)
	}
	data, err := display.Encode(report, project, format)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

func recordRun(ctx context.Context, cfg *config.Config, project string, report *models.DetectionReport, log logger.Logger) error {
	if cfg.HistoryDB == "" {
		log.LogWarn("history_db is empty; run not recorded")
		return nil
	}
	store, err := history.NewStore(cfg.ResolvePath(cfg.HistoryDB))
	if err != nil {
		return fmt.Errorf("open history store: %w", err)
	}
	defer store.Close()

	// Recording happens after an interrupt too, so use a fresh context.
	id, err := store.RecordRun(context.WithoutCancel(ctx), project, report)
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	log.LogInfo(fmt.Sprintf("Recorded run %s", id))
	return nil
}

// formatForPath picks an export format from the output file extension.
func formatForPath(path string) display.Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return display.FormatYAML
	default:
		return display.FormatJSON
	}
}
