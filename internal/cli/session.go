package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/yaklabco/xwikiparse/internal/configloader"
	"github.com/yaklabco/xwikiparse/internal/logging"
	"github.com/yaklabco/xwikiparse/pkg/config"
	"github.com/yaklabco/xwikiparse/pkg/parser"
	"github.com/yaklabco/xwikiparse/pkg/runner"
)

// stdinPath names standard input on the command line.
const stdinPath = "-"

// stdinName is how standard input appears in output.
const stdinName = "<stdin>"

// runFlags are the parser and discovery flags shared by the commands that
// parse documents.
type runFlags struct {
	jobs           int
	ignore         []string
	extensions     []string
	escape         string
	detectLanguage bool
	maxLookahead   int
}

func addRunFlags(cmd *cobra.Command, flags *runFlags) {
	cmd.Flags().IntVarP(&flags.jobs, "jobs", "j", 0, "number of parallel workers (0 = auto)")
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "glob patterns to ignore")
	cmd.Flags().StringSliceVar(&flags.extensions, "ext", nil,
		"file extensions to parse (default .xwiki, .xwiki21, .wiki)")
	addParserFlags(cmd, flags)
}

func addParserFlags(cmd *cobra.Command, flags *runFlags) {
	cmd.Flags().StringVar(&flags.escape, "escape", "", "escape character (default ~)")
	cmd.Flags().BoolVar(&flags.detectLanguage, "detect-language", false,
		"fill in the language parameter of code macros")
	cmd.Flags().IntVar(&flags.maxLookahead, "max-lookahead", 0,
		"how far macro and parameter markers are scanned (default 4096)")
}

// cliConfig returns a configuration holding only the flags that were set
// on the command line, so that they override the loaded layers.
func (f *runFlags) cliConfig(cmd *cobra.Command) *config.Config {
	cfg := &config.Config{}
	set := cmd.Flags().Changed

	if set("jobs") {
		cfg.Jobs = f.jobs
	}
	if set("ignore") {
		cfg.Ignore = f.ignore
	}
	if set("ext") {
		cfg.Extensions = f.extensions
	}
	if set("escape") {
		cfg.Escape = f.escape
	}
	if set("detect-language") {
		cfg.DetectLanguage = config.Bool(f.detectLanguage)
	}
	if set("max-lookahead") {
		cfg.MaxLookahead = f.maxLookahead
	}
	return cfg
}

// session is the resolved environment of one command invocation.
type session struct {
	ctx     context.Context
	cfg     *config.Config
	workDir string
	logger  *log.Logger
}

// newSession loads the layered configuration with cliCfg on top.
func newSession(cmd *cobra.Command, cliCfg *config.Config) (*session, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	logger := logging.FromContext(ctx)

	if cliCfg == nil {
		cliCfg = &config.Config{}
	}
	if cmd.Flags().Changed("color") {
		color, err := cmd.Flags().GetString("color")
		if err != nil {
			return nil, fmt.Errorf("get color flag: %w", err)
		}
		cliCfg.Color = config.ColorMode(color)
	}

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("get config flag: %w", err)
	}

	workDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}

	loadResult, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: configPath,
		CLIConfig:    cliCfg,
	})
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	for _, warning := range loadResult.Warnings {
		logger.Warn(warning)
	}
	if len(loadResult.LoadedFrom) > 0 {
		logger.Debug("loaded configuration from", logging.FieldFiles, loadResult.LoadedFrom)
	}

	cfg := loadResult.Config
	logger.Debug("configuration loaded",
		logging.FieldSyntax, cfg.Syntax,
		logging.FieldFormat, cfg.Format,
		logging.FieldJobs, cfg.Jobs,
		logging.FieldConfig, configPath,
	)

	return &session{ctx: ctx, cfg: cfg, workDir: workDir, logger: logger}, nil
}

func (s *session) color() string {
	return string(s.cfg.Color)
}

// parserOptions are the configured parser options, plus the block trace
// when debug logging is on.
func (s *session) parserOptions() []parser.Option {
	opts := runner.ParserOptions(s.cfg)
	if s.logger.GetLevel() <= log.DebugLevel {
		opts = append(opts, parser.WithLogger(s.logger))
	}
	return opts
}

// run parses the files named by args, or standard input for "-".
func (s *session) run(args []string, stdin io.Reader, keepEvents bool) (*runner.Result, error) {
	r := runner.New(s.parserOptions()...)
	r.KeepEvents = keepEvents

	if len(args) == 1 && args[0] == stdinPath {
		src, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		s.logger.Debug("parsing standard input", logging.FieldInput, stdinName)
		return runner.NewResult(r.ParseSource(s.ctx, stdinName, string(src))), nil
	}
	for _, arg := range args {
		if arg == stdinPath {
			return nil, newUsageError(errors.New(`"-" must be the only argument`))
		}
	}

	opts := runner.OptionsFromConfig(s.cfg, args)
	opts.WorkingDir = s.workDir

	s.logger.Debug("starting run",
		logging.FieldPaths, args,
		logging.FieldWorkingDir, s.workDir,
		logging.FieldJobs, opts.Jobs,
	)

	result, err := r.Run(s.ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("parse run failed: %w", err)
	}

	s.logger.Debug("run finished",
		logging.FieldFilesDiscovered, result.Stats.FilesDiscovered,
		logging.FieldFilesParsed, result.Stats.FilesParsed,
		logging.FieldFilesFailed, result.Stats.FilesFailed,
		logging.FieldEvents, result.Stats.EventsTotal,
		logging.FieldDuration, result.Stats.Duration,
	)
	return result, nil
}

// readInput reads the file named by args, or standard input when args is
// empty or "-".
func readInput(cmd *cobra.Command, args []string) (string, string, error) {
	if len(args) == 0 || args[0] == stdinPath {
		src, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", "", fmt.Errorf("read stdin: %w", err)
		}
		return stdinName, string(src), nil
	}

	src, err := os.ReadFile(args[0])
	if err != nil {
		return "", "", fmt.Errorf("read input: %w", err)
	}
	return args[0], string(src), nil
}
