package cmd

import (
	"fmt"
	"path/filepath"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/harrison/unusedres/internal/config"
	"github.com/harrison/unusedres/internal/models"
	"github.com/harrison/unusedres/internal/pattern"
)

// NewPatternsCommand creates the 'unusedres patterns' command
func NewPatternsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "patterns",
		Short: "Print or edit usage patterns",
		Long: `Without a subcommand, print the usage patterns that are applied when the
config file does not define usage_patterns. The output can be pasted into
.unusedres/config.yaml and edited.

The subcommands edit usage_patterns of a project's config file in place.
The first edit copies the built-in patterns into the file.`,
		Args: cobra.NoArgs,
		RunE: runPatterns,
	}

	cmd.Flags().StringSlice("suffix", nil, "Resource suffixes the patterns are generated for")
	cmd.PersistentFlags().StringP("project", "p", ".", "Project whose config is read or edited")

	cmd.AddCommand(newPatternsListCommand())
	cmd.AddCommand(newPatternsAddCommand())
	cmd.AddCommand(newPatternsUpdateCommand())
	cmd.AddCommand(newPatternsRemoveCommand())
	cmd.AddCommand(newPatternsToggleCommand("enable", "Switch on the usage pattern at INDEX", true))
	cmd.AddCommand(newPatternsToggleCommand("disable", "Switch off the usage pattern at INDEX", false))

	return cmd
}

func runPatterns(cmd *cobra.Command, args []string) error {
	suffixes := config.DefaultResourceSuffixes
	if cmd.Flags().Changed("suffix") {
		suffixes, _ = cmd.Flags().GetStringSlice("suffix")
	}

	doc := struct {
		UsagePatterns []models.UsagePattern `yaml:"usage_patterns"`
	}{
		UsagePatterns: pattern.Defaults(suffixes),
	}

	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode patterns: %w", err)
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

func newPatternsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the project's effective usage patterns with their indexes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			project, err := patternsProject(cmd)
			if err != nil {
				return err
			}
			cfg, err := config.LoadConfigFromDir(project)
			if err != nil {
				return err
			}
			set, err := cfg.PatternSet()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(cfg.UsagePatterns) == 0 {
				fmt.Fprintln(out, "Using built-in patterns (none configured).")
			}
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "#\tSTATE\tSUFFIX\tGROUP\tREGEX")
			for i, p := range set.Patterns() {
				state := "on"
				if !p.Enabled {
					state = "off"
				}
				fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\n", i, state, p.SourceSuffix, p.CaptureGroup, p.Regex)
			}
			return tw.Flush()
		},
	}
}

func newPatternsAddCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Append a usage pattern to the project config",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := models.UsagePattern{Enabled: true}
			p.SourceSuffix, _ = cmd.Flags().GetString("suffix")
			p.Regex, _ = cmd.Flags().GetString("regex")
			p.CaptureGroup, _ = cmd.Flags().GetInt("group")
			if disabled, _ := cmd.Flags().GetBool("disabled"); disabled {
				p.Enabled = false
			}
			return editPatterns(cmd, func(set *pattern.Set) error {
				return set.Add(p)
			})
		},
	}

	cmd.Flags().String("suffix", "", "Source file suffix the pattern applies to (e.g. swift, blade.php)")
	cmd.Flags().String("regex", "", "Regular expression whose capture group yields a resource name")
	cmd.Flags().Int("group", 1, "Capture group holding the name (0 for the whole match)")
	cmd.Flags().Bool("disabled", false, "Add the pattern switched off")
	_ = cmd.MarkFlagRequired("suffix")
	_ = cmd.MarkFlagRequired("regex")

	return cmd
}

func newPatternsUpdateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update INDEX",
		Short: "Change fields of the usage pattern at INDEX",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parseIndex(args[0])
			if err != nil {
				return err
			}
			return editPatterns(cmd, func(set *pattern.Set) error {
				patterns := set.Patterns()
				if index < 0 || index >= len(patterns) {
					return fmt.Errorf("pattern index %d out of range [0,%d)", index, len(patterns))
				}
				p := patterns[index]
				if cmd.Flags().Changed("suffix") {
					p.SourceSuffix, _ = cmd.Flags().GetString("suffix")
				}
				if cmd.Flags().Changed("regex") {
					p.Regex, _ = cmd.Flags().GetString("regex")
				}
				if cmd.Flags().Changed("group") {
					p.CaptureGroup, _ = cmd.Flags().GetInt("group")
				}
				return set.Update(index, p)
			})
		},
	}

	cmd.Flags().String("suffix", "", "New source file suffix")
	cmd.Flags().String("regex", "", "New regular expression")
	cmd.Flags().Int("group", 1, "New capture group")

	return cmd
}

func newPatternsRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "remove INDEX",
		Short: "Delete the usage pattern at INDEX",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parseIndex(args[0])
			if err != nil {
				return err
			}
			return editPatterns(cmd, func(set *pattern.Set) error {
				return set.Remove(index)
			})
		},
	}
}

func newPatternsToggleCommand(name, short string, enabled bool) *cobra.Command {
	return &cobra.Command{
		Use:   name + " INDEX",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parseIndex(args[0])
			if err != nil {
				return err
			}
			return editPatterns(cmd, func(set *pattern.Set) error {
				return set.SetEnabled(index, enabled)
			})
		},
	}
}

// editPatterns applies edit to the project's patterns and reports the result.
func editPatterns(cmd *cobra.Command, edit func(set *pattern.Set) error) error {
	project, err := patternsProject(cmd)
	if err != nil {
		return err
	}
	set, err := config.EditPatterns(project, edit)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Saved %d usage patterns to %s\n", set.Len(), config.PathForDir(project))
	return nil
}

func patternsProject(cmd *cobra.Command) (string, error) {
	project, _ := cmd.Flags().GetString("project")
	abs, err := filepath.Abs(project)
	if err != nil {
		return "", fmt.Errorf("resolve project path: %w", err)
	}
	if err := models.ValidateProjectPath(abs); err != nil {
		return "", err
	}
	return abs, nil
}

func parseIndex(arg string) (int, error) {
	index, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid pattern index %q: %w", arg, err)
	}
	return index, nil
}
