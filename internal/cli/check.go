package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/xwikiparse/internal/ui/pretty"
)

type checkFlags struct {
	runFlags

	quiet bool
}

func newCheckCommand() *cobra.Command {
	flags := &checkFlags{}

	cmd := &cobra.Command{
		Use:   "check [paths...]",
		Short: "Check that documents parse into well-nested event streams",
		Long: `Parse documents without printing their events and report the files
that could not be read or whose event stream was not well nested.

Exits with status 1 when any file fails, which makes the command suitable
for CI pipelines.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args, flags)
		},
	}

	addRunFlags(cmd, &flags.runFlags)
	cmd.Flags().BoolVarP(&flags.quiet, "quiet", "q", false, "only print failing files")

	return cmd
}

func runCheck(cmd *cobra.Command, args []string, flags *checkFlags) error {
	sess, err := newSession(cmd, flags.cliConfig(cmd))
	if err != nil {
		return err
	}

	result, err := sess.run(args, cmd.InOrStdin(), false)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	styles := pretty.NewStyles(pretty.IsColorEnabled(sess.color(), out))

	var sb strings.Builder
	for _, file := range result.Files {
		sb.WriteString(styles.FormatOutcome(file))
	}
	if !flags.quiet {
		sb.WriteString(styles.FormatSummary(result.Stats))
	}

	if _, err := fmt.Fprint(out, sb.String()); err != nil {
		return fmt.Errorf("write results: %w", err)
	}

	if ExitCodeFromResult(result) != ExitSuccess {
		return ErrFailuresFound
	}
	return nil
}
