// Package runner parses many files concurrently.
package runner

import (
	"github.com/yaklabco/xwikiparse/pkg/config"
	"github.com/yaklabco/xwikiparse/pkg/parser"
)

// Options controls a batch run.
type Options struct {
	// Paths are files or directories to process. Defaults to ".".
	Paths []string

	// WorkingDir resolves relative Paths and is the base of ignore
	// patterns. Defaults to the process working directory.
	WorkingDir string

	// Extensions are the file extensions, with leading dot, treated as
	// XWiki markup. Defaults to config.DefaultExtensions.
	Extensions []string

	// ExcludeGlobs skip matching files and directories. "**" crosses
	// directory boundaries, "*" does not.
	ExcludeGlobs []string

	// FollowSymlinks walks into symlinked directories.
	FollowSymlinks bool

	// Jobs is the number of workers. 0 or less means runtime.NumCPU().
	Jobs int

	// KeepEvents stores each file's events in its outcome. Without it
	// only the event count is kept.
	KeepEvents bool

	// Config supplies parser settings. May be nil.
	Config *config.Config
}

// OptionsFromConfig returns options for paths filled in from cfg.
func OptionsFromConfig(cfg *config.Config, paths []string) Options {
	opts := Options{Paths: paths, Config: cfg}
	if cfg != nil {
		opts.Extensions = cfg.Extensions
		opts.ExcludeGlobs = cfg.Ignore
		opts.Jobs = cfg.Jobs
	}
	return opts
}

// ParserOptions translates cfg into parser options.
func ParserOptions(cfg *config.Config) []parser.Option {
	if cfg == nil {
		return nil
	}
	opts := []parser.Option{
		parser.WithDetectLanguage(cfg.DetectLanguageEnabled()),
	}
	if cfg.Escape != "" {
		opts = append(opts, parser.WithEscape(cfg.EscapeRune()))
	}
	if cfg.MaxLookahead > 0 {
		opts = append(opts, parser.WithMaxLookahead(cfg.MaxLookahead))
	}
	return opts
}

func (o Options) effectiveExtensions() []string {
	if len(o.Extensions) == 0 {
		return config.DefaultExtensions()
	}
	return o.Extensions
}

func (o Options) effectivePaths() []string {
	if len(o.Paths) == 0 {
		return []string{"."}
	}
	return o.Paths
}
