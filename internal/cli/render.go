package cli

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/xwikiparse/internal/logging"
	"github.com/yaklabco/xwikiparse/pkg/analysis"
	"github.com/yaklabco/xwikiparse/pkg/config"
	"github.com/yaklabco/xwikiparse/pkg/fsutil"
	"github.com/yaklabco/xwikiparse/pkg/listener"
	"github.com/yaklabco/xwikiparse/pkg/runner"
	"github.com/yaklabco/xwikiparse/pkg/xdom"
)

type renderFlags struct {
	runFlags

	outDir string
}

func newRenderCommand() *cobra.Command {
	flags := &renderFlags{}

	cmd := &cobra.Command{
		Use:   "render [paths...]",
		Short: "Render documents to standalone HTML pages",
		Long: `Render each document to a standalone HTML page under the output
directory, mirroring the layout of the input files. Pages whose content
did not change are left untouched.

Examples:
  xwikiparse render --out-dir site/ docs/
  xwikiparse render -o site/ - < Main.xwiki   # writes site/stdin.html`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, args, flags)
		},
	}

	addRunFlags(cmd, &flags.runFlags)
	cmd.Flags().StringVarP(&flags.outDir, "out-dir", "o", "", "directory to write HTML pages to")

	return cmd
}

func runRender(cmd *cobra.Command, args []string, flags *renderFlags) error {
	cliCfg := flags.cliConfig(cmd)
	if cmd.Flags().Changed("out-dir") {
		cliCfg.OutputDir = flags.outDir
	}

	sess, err := newSession(cmd, cliCfg)
	if err != nil {
		return err
	}
	if sess.cfg.OutputDir == "" {
		return newUsageError(errors.New("no output directory: pass --out-dir or set output_dir"))
	}

	result, err := sess.run(args, cmd.InOrStdin(), true)
	if err != nil {
		return err
	}

	written := 0
	for _, file := range result.Files {
		if file.Error != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", file.Path, file.Error)
			continue
		}

		target := outputPath(sess.cfg, sess.workDir, file.Path)
		changed, err := renderFile(sess, file, target)
		if err != nil {
			return err
		}
		if changed {
			written++
			sess.logger.Debug("wrote page", logging.FieldOutput, target)
		}
	}

	sess.logger.Info("render finished",
		logging.FieldFilesParsed, result.Stats.FilesParsed,
		logging.FieldFilesWritten, written,
	)

	if ExitCodeFromResult(result) != ExitSuccess {
		return ErrFailuresFound
	}
	return nil
}

func renderFile(sess *session, file runner.FileOutcome, target string) (bool, error) {
	b := xdom.NewBuilder()
	listener.Replay(file.Events, b)

	title := strings.TrimSuffix(filepath.Base(file.Path), filepath.Ext(file.Path))

	var buf bytes.Buffer
	if err := xdom.RenderHTMLPage(&buf, b.Root(), title); err != nil {
		return false, fmt.Errorf("render %s: %w", file.Path, err)
	}

	changed, err := fsutil.WriteOutput(sess.ctx, target, buf.Bytes())
	if err != nil {
		return false, fmt.Errorf("write %s: %w", target, err)
	}
	return changed, nil
}

// outputPath maps an input file to its page under the output directory.
// Files outside the working directory are placed by base name.
func outputPath(cfg *config.Config, workDir, path string) string {
	if path == stdinName {
		return filepath.Join(cfg.OutputDir, "stdin.html")
	}

	rel := analysis.RelativePath(path, workDir)
	if filepath.IsAbs(rel) || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		rel = filepath.Base(path)
	}
	return filepath.Join(cfg.OutputDir, strings.TrimSuffix(rel, filepath.Ext(rel))+".html")
}
