// Package config defines the configuration model of xwikiparse.
// The types are plain data; discovery and layering of configuration
// files live in internal/configloader.
package config

import (
	"unicode/utf8"

	"github.com/yaklabco/xwikiparse/pkg/lexer"
	"github.com/yaklabco/xwikiparse/pkg/params"
)

// Syntax names a markup syntax.
type Syntax string

// SyntaxXWiki21 is the only supported syntax.
const SyntaxXWiki21 Syntax = "xwiki/2.1"

// Config is the root configuration structure.
type Config struct {
	// Syntax is the markup syntax of the input files.
	Syntax Syntax `yaml:"syntax" json:"syntax"`

	// Escape is the escape character, a single code point.
	Escape string `yaml:"escape" json:"escape"`

	// Extensions are the file extensions picked up when walking
	// directories, each with its leading dot.
	Extensions []string `yaml:"extensions" json:"extensions"`

	// Ignore contains glob patterns for files to skip.
	Ignore []string `yaml:"ignore" json:"ignore"`

	// Jobs is the number of parallel workers; 0 means one per CPU.
	Jobs int `yaml:"jobs" json:"jobs"`

	// Format is the output format.
	Format OutputFormat `yaml:"format" json:"format"`

	// Color controls coloured output.
	Color ColorMode `yaml:"color" json:"color"`

	// DetectLanguage fills in the language of code macros. Nil means
	// unset, so a lower layer's value survives a merge.
	DetectLanguage *bool `yaml:"detect_language,omitempty" json:"detect_language,omitempty"`

	// MaxLookahead bounds how far macro and parameter markers are scanned.
	MaxLookahead int `yaml:"max_lookahead" json:"max_lookahead"`

	// OutputDir is where the render command writes HTML files.
	OutputDir string `yaml:"output_dir" json:"output_dir"`
}

// DefaultExtensions returns the extensions of XWiki markup files.
func DefaultExtensions() []string {
	return []string{".xwiki", ".xwiki21", ".wiki"}
}

// NewConfig returns a Config holding the defaults.
func NewConfig() *Config {
	return &Config{
		Syntax:       SyntaxXWiki21,
		Escape:       string(params.DefaultEscape),
		Extensions:   DefaultExtensions(),
		Jobs:         0,
		Format:       FormatEvents,
		Color:        ColorAuto,
		MaxLookahead: lexer.DefaultMaxLookahead,
	}
}

// EscapeRune returns the configured escape character, or the default when
// Escape is not exactly one code point.
func (c *Config) EscapeRune() rune {
	r, size := utf8.DecodeRuneInString(c.Escape)
	if r == utf8.RuneError || size != len(c.Escape) {
		return params.DefaultEscape
	}
	return r
}

// DetectLanguageEnabled reports whether code macro language detection is on.
func (c *Config) DetectLanguageEnabled() bool {
	return c.DetectLanguage != nil && *c.DetectLanguage
}

// Bool returns a pointer to b, for optional settings.
func Bool(b bool) *bool {
	return &b
}
