package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harrison/unusedres/internal/config"
	"github.com/harrison/unusedres/internal/history"
)

// NewHistoryCommand creates the 'unusedres history' command
func NewHistoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [project-dir]",
		Short: "List recorded scan runs",
		Long: `List scan runs recorded with 'unusedres scan --history', newest first.
Use --show with a run ID to list the unused resources of that run.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistory,
	}

	cmd.Flags().Int("limit", history.DefaultListLimit, "Maximum number of runs to list")
	cmd.Flags().String("show", "", "Run ID whose unused resources should be listed")

	return cmd
}

func runHistory(cmd *cobra.Command, args []string) error {
	output := cmd.OutOrStdout()

	projectArg := "."
	if len(args) == 1 {
		projectArg = args[0]
	}
	project, err := filepath.Abs(projectArg)
	if err != nil {
		return fmt.Errorf("resolve project path: %w", err)
	}

	cfg, err := config.LoadConfigFromDir(project)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg.ProjectPath = project
	if cfg.HistoryDB == "" {
		fmt.Fprintln(output, "History is disabled (history_db is empty).")
		return nil
	}

	dbPath := cfg.ResolvePath(cfg.HistoryDB)
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		fmt.Fprintf(output, "No scan history found.\nDatabase path: %s\n", dbPath)
		return nil
	}

	store, err := history.NewStore(dbPath)
	if err != nil {
		return fmt.Errorf("open history store: %w", err)
	}
	defer store.Close()

	if id, _ := cmd.Flags().GetString("show"); id != "" {
		unused, err := store.UnusedForRun(cmd.Context(), id)
		if err != nil {
			return err
		}
		if len(unused) == 0 {
			fmt.Fprintf(output, "No unused resources recorded for run %s\n", id)
			return nil
		}
		for _, r := range unused {
			fmt.Fprintf(output, "%s\t%s\t%s\n", r.Name, humanize.IBytes(r.SizeBytes), r.Path)
		}
		return nil
	}

	limit, _ := cmd.Flags().GetInt("limit")
	runs, err := store.ListRuns(cmd.Context(), project, limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintf(output, "No scan history found.\nDatabase path: %s\n", store.Path())
		return nil
	}

	warn := color.New(color.FgYellow)
	for _, run := range runs {
		line := fmt.Sprintf("%s  %s  %d unused (%s) of %d  %s",
			run.ID,
			run.StartedAt.Local().Format("2006-01-02 15:04:05"),
			run.UnusedCount,
			humanize.IBytes(run.UnusedBytes),
			run.ResourceCount,
			humanize.Time(run.StartedAt))
		if run.Incomplete {
			line += "  " + warn.Sprint("[incomplete]")
		}
		fmt.Fprintln(output, line)
	}
	fmt.Fprintf(output, "\nRuns shown: %d\nDatabase path: %s\n", len(runs), store.Path())
	return nil
}
