package cli

import (
	"github.com/spf13/cobra"

	"github.com/yaklabco/xwikiparse/internal/logging"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewRootCommand creates the root xwikiparse command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	var debug bool
	var configPath string
	var color string

	rootCmd := &cobra.Command{
		Use:   "xwikiparse",
		Short: "An XWiki 2.1 markup parser",
		Long: `xwikiparse tokenizes and parses XWiki 2.1 markup into a stream of
listener events: headers, paragraphs, lists, tables, formatting, links,
images, macros and verbatim blocks.

The events can be printed as a trace, JSON or a tree, rendered to HTML,
or summarised. The tokens and grammar commands expose the lexer for
debugging markup.`,
		Version: info.Version,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			level := "info"
			if debug {
				level = "debug"
				logging.SetLevel(level)
			}
			logger := logging.NewWriter(cmd.ErrOrStderr(), level)
			cmd.SetContext(logging.WithLogger(cmd.Context(), logger))
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&color, "color", "auto",
		"colorize output: auto, always, never")

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return newUsageError(err)
	})

	rootCmd.AddCommand(newParseCommand())
	rootCmd.AddCommand(newCheckCommand())
	rootCmd.AddCommand(newRenderCommand())
	rootCmd.AddCommand(newStatsCommand())
	rootCmd.AddCommand(newTokensCommand())
	rootCmd.AddCommand(newGrammarCommand())
	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newVersionCommand(info))

	// Flags after --help must not be read as its value.
	rootCmd.InitDefaultHelpFlag()
	NewHelpFormatter(color).ApplyToCommand(rootCmd)

	return rootCmd
}
