package cli

import (
	"encoding/json"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/yaklabco/xwikiparse/internal/logging"
	"github.com/yaklabco/xwikiparse/pkg/analysis"
	"github.com/yaklabco/xwikiparse/pkg/config"
)

func newVersionCommand(info BuildInfo) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print the version, commit hash and build date of xwikiparse, with the markup syntax and report format it supports.`,
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			if asJSON {
				encoder := json.NewEncoder(cmd.OutOrStdout())
				encoder.SetIndent("", "  ")
				if err := encoder.Encode(map[string]string{
					"version":       info.Version,
					"commit":        info.Commit,
					"built":         info.Date,
					"go":            runtime.Version(),
					"syntax":        string(config.SyntaxXWiki21),
					"reportVersion": analysis.ReportVersion,
				}); err != nil {
					return fmt.Errorf("encode version: %w", err)
				}
				return nil
			}

			logger := logging.NewWriter(cmd.OutOrStdout(), "info")
			logger.Info("xwikiparse",
				logging.FieldVersion, info.Version,
				logging.FieldCommit, info.Commit,
				logging.FieldBuilt, info.Date,
				logging.FieldSyntax, config.SyntaxXWiki21,
			)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")

	return cmd
}
