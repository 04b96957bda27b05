package cmd

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// Environment variables read by the commands. They may also come from a
// .env file in the working directory.
const (
	EnvLogLevel = "UNUSEDRES_LOG_LEVEL"
	EnvConfig   = "UNUSEDRES_CONFIG"
)

// NewRootCommand creates and returns the root cobra command for unusedres
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unusedres",
		Short: "Find resource files a project no longer references",
		Long: `unusedres indexes the image and asset files in a project tree, scans
its source files for name references using per-file-type regex patterns,
and reports every resource whose name is never mentioned.

Asset-catalog folders such as Foo.imageset count as one resource.
Numbered families (icon_1.png, icon_2.png) can be matched against
format-string references like "icon_%d" with --similar.`,
		Version: Version,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadDotEnv()
		},
	}

	cmd.AddCommand(NewScanCommand())
	cmd.AddCommand(NewPatternsCommand())
	cmd.AddCommand(NewHistoryCommand())

	return cmd
}

// loadDotEnv reads .env from the working directory when present.
// Variables already set in the environment win.
func loadDotEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}
