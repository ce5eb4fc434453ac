package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/xwikiparse/internal/logging"
	"github.com/yaklabco/xwikiparse/pkg/config"
	"github.com/yaklabco/xwikiparse/pkg/reporter"
)

type parseFlags struct {
	runFlags

	format    string
	noSummary bool
	compact   bool
	width     int
	title     string
}

func newParseCommand() *cobra.Command {
	flags := &parseFlags{}

	cmd := &cobra.Command{
		Use:   "parse [paths...]",
		Short: "Parse XWiki 2.1 documents and print their events",
		Long:  parseLongDescription,
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd, args, flags)
		},
	}

	addRunFlags(cmd, &flags.runFlags)
	cmd.Flags().StringVar(&flags.format, "format", "events",
		"output format: events, json, tree, html, summary")
	cmd.Flags().BoolVar(&flags.noSummary, "no-summary", false, "omit the summary line")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "use minified JSON")
	cmd.Flags().IntVar(&flags.width, "width", 0, "line width for truncation (0 = terminal width)")
	cmd.Flags().StringVar(&flags.title, "title", "", "HTML page title")

	return cmd
}

const parseLongDescription = `Parse XWiki 2.1 documents and print the listener events they produce.

By default, parses all .xwiki, .xwiki21 and .wiki files in the current
directory and subdirectories. Pass "-" to read a single document from
standard input.

Examples:
  xwikiparse parse                     # Parse current directory
  xwikiparse parse docs/               # Parse docs directory
  xwikiparse parse Main.xwiki          # Parse a single file
  xwikiparse parse --format tree -     # Print the tree of stdin
  xwikiparse parse --format json       # Output events as JSON`

func runParse(cmd *cobra.Command, args []string, flags *parseFlags) error {
	cliCfg := flags.cliConfig(cmd)
	if cmd.Flags().Changed("format") {
		format, err := reporter.ParseFormat(flags.format)
		if err != nil {
			return newUsageError(fmt.Errorf("invalid format: %w", err))
		}
		cliCfg.Format = config.OutputFormat(format)
	}

	sess, err := newSession(cmd, cliCfg)
	if err != nil {
		return err
	}

	format, err := reporter.ParseFormat(string(sess.cfg.Format))
	if err != nil {
		return newUsageError(fmt.Errorf("invalid format: %w", err))
	}

	result, err := sess.run(args, cmd.InOrStdin(), format.NeedsEvents())
	if err != nil {
		return err
	}

	rep, err := reporter.New(reporter.Options{
		Writer:      cmd.OutOrStdout(),
		ErrorWriter: cmd.ErrOrStderr(),
		Format:      format,
		Color:       sess.color(),
		Compact:     flags.compact,
		Width:       flags.width,
		ShowSummary: !flags.noSummary,
		Title:       flags.title,
		WorkingDir:  sess.workDir,
	})
	if err != nil {
		return fmt.Errorf("create reporter: %w", err)
	}

	failed, err := rep.Report(sess.ctx, result)
	if err != nil {
		sess.logger.Error("report failed", logging.FieldError, err)
		return fmt.Errorf("report results: %w", err)
	}

	if failed > 0 {
		return ErrFailuresFound
	}
	return nil
}
