package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/xwikiparse/pkg/analysis"
	"github.com/yaklabco/xwikiparse/pkg/reporter"
)

type statsFlags struct {
	runFlags

	sortBy string
	asc    bool
	asJSON bool
}

func newStatsCommand() *cobra.Command {
	flags := &statsFlags{}

	cmd := &cobra.Command{
		Use:   "stats [paths...]",
		Short: "Summarise the events, macros and references of documents",
		Long: `Parse documents and print frequency tables of the events, macros,
references and code languages they contain, followed by per-file totals.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(cmd, args, flags)
		},
	}

	addRunFlags(cmd, &flags.runFlags)
	cmd.Flags().StringVar(&flags.sortBy, "sort", string(analysis.SortByCount), "sort tables by: count, alpha")
	cmd.Flags().BoolVar(&flags.asc, "asc", false, "sort counts lowest first")
	cmd.Flags().BoolVar(&flags.asJSON, "json", false, "output as JSON")

	return cmd
}

func runStats(cmd *cobra.Command, args []string, flags *statsFlags) error {
	sortBy := analysis.SortField(flags.sortBy)
	if !sortBy.IsValid() {
		return newUsageError(fmt.Errorf("invalid sort field %q; valid fields: count, alpha", flags.sortBy))
	}

	sess, err := newSession(cmd, flags.cliConfig(cmd))
	if err != nil {
		return err
	}

	result, err := sess.run(args, cmd.InOrStdin(), true)
	if err != nil {
		return err
	}

	opts := analysis.DefaultOptions()
	opts.SortBy = sortBy
	opts.SortDesc = !flags.asc
	opts.WorkingDir = sess.workDir
	report := analysis.Analyze(result, opts)

	if flags.asJSON {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(report); err != nil {
			return fmt.Errorf("encode report: %w", err)
		}
	} else {
		renderer := reporter.NewSummaryRenderer(reporter.Options{
			Writer:     cmd.OutOrStdout(),
			Color:      sess.color(),
			WorkingDir: sess.workDir,
		})
		if err := renderer.Render(sess.ctx, report); err != nil {
			return fmt.Errorf("render report: %w", err)
		}
	}

	if report.Totals.HasFailures() {
		return ErrFailuresFound
	}
	return nil
}
