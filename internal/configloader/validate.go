package configloader

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/yaklabco/xwikiparse/pkg/config"
	"github.com/yaklabco/xwikiparse/pkg/runner"
)

// minUsefulLookahead is the bound below which ordinary macro markers no
// longer fit.
const minUsefulLookahead = 64

// ValidationError is one configuration problem.
type ValidationError struct {
	// Field is the configuration key, e.g. "ignore[2]".
	Field string

	// Value is the offending value.
	Value any

	Message string

	// FilePath is the config file involved, if known.
	FilePath string
}

func (e *ValidationError) Error() string {
	var parts []string
	if e.FilePath != "" {
		parts = append(parts, e.FilePath)
	}
	if e.Field != "" {
		parts = append(parts, e.Field)
	}
	parts = append(parts, e.Message)
	return strings.Join(parts, ": ")
}

// ValidationResult holds all validation findings.
type ValidationResult struct {
	// Errors prevent the configuration from being used.
	Errors []ValidationError

	// Warnings are reported but do not stop the run.
	Warnings []ValidationError
}

// Valid returns true if there are no errors.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// HasWarnings returns true if there are any warnings.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// AllMessages returns errors then warnings, one message each.
func (r *ValidationResult) AllMessages() []string {
	messages := make([]string, 0, len(r.Errors)+len(r.Warnings))
	for _, e := range r.Errors {
		messages = append(messages, "error: "+e.Error())
	}
	for _, w := range r.Warnings {
		messages = append(messages, "warning: "+w.Error())
	}
	return messages
}

func (r *ValidationResult) fail(field string, value any, format string, args ...any) {
	r.Errors = append(r.Errors, ValidationError{Field: field, Value: value, Message: fmt.Sprintf(format, args...)})
}

func (r *ValidationResult) warn(field string, value any, format string, args ...any) {
	r.Warnings = append(r.Warnings, ValidationError{Field: field, Value: value, Message: fmt.Sprintf(format, args...)})
}

// Validate checks a configuration for errors and warnings.
func Validate(cfg *config.Config) *ValidationResult {
	result := &ValidationResult{}
	if cfg == nil {
		return result
	}

	if cfg.Syntax != "" && cfg.Syntax != config.SyntaxXWiki21 {
		result.fail("syntax", cfg.Syntax, "unsupported syntax %q; only %s is supported", cfg.Syntax, config.SyntaxXWiki21)
	}

	validateEscape(cfg.Escape, result)

	if cfg.Format != "" && !cfg.Format.IsValid() {
		result.fail("format", cfg.Format, "invalid format %q; must be one of: %s", cfg.Format, formatList())
	}
	if cfg.Color != "" && !cfg.Color.IsValid() {
		result.fail("color", cfg.Color, "invalid color mode %q; must be one of: auto, always, never", cfg.Color)
	}
	if cfg.Jobs < 0 {
		result.fail("jobs", cfg.Jobs, "jobs must be >= 0 (0 means auto)")
	}

	switch {
	case cfg.MaxLookahead < 0:
		result.fail("max_lookahead", cfg.MaxLookahead, "max_lookahead must be > 0")
	case cfg.MaxLookahead > 0 && cfg.MaxLookahead < minUsefulLookahead:
		result.warn("max_lookahead", cfg.MaxLookahead,
			"max_lookahead %d is very small; longer macro markers will be read as text", cfg.MaxLookahead)
	}

	validateExtensions(cfg.Extensions, result)
	validateIgnorePatterns(cfg.Ignore, result)

	return result
}

func validateEscape(escape string, result *ValidationResult) {
	if escape == "" {
		return
	}
	r, size := utf8.DecodeRuneInString(escape)
	if r == utf8.RuneError || size != len(escape) {
		result.fail("escape", escape, "escape must be a single character")
		return
	}
	if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
		result.warn("escape", escape, "escape %q also appears in ordinary words", escape)
	}
}

func validateExtensions(exts []string, result *ValidationResult) {
	seen := make(map[string]bool, len(exts))
	for i, ext := range exts {
		field := fmt.Sprintf("extensions[%d]", i)
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			result.fail(field, ext, "extension %q must start with a dot", ext)
			continue
		}
		if seen[strings.ToLower(ext)] {
			result.warn(field, ext, "duplicate extension %q", ext)
		}
		seen[strings.ToLower(ext)] = true
	}
}

func validateIgnorePatterns(patterns []string, result *ValidationResult) {
	for i, pattern := range patterns {
		if _, err := runner.CompileIgnore([]string{pattern}); err != nil {
			result.fail(fmt.Sprintf("ignore[%d]", i), pattern, "invalid glob pattern: %v", errors.Unwrap(err))
		}
	}
}

// ValidateWithFile validates cfg and attributes every finding to filePath.
func ValidateWithFile(cfg *config.Config, filePath string) *ValidationResult {
	result := Validate(cfg)
	for i := range result.Errors {
		result.Errors[i].FilePath = filePath
	}
	for i := range result.Warnings {
		result.Warnings[i].FilePath = filePath
	}
	return result
}

func formatList() string {
	names := make([]string, 0, len(config.OutputFormats()))
	for _, f := range config.OutputFormats() {
		names = append(names, string(f))
	}
	return strings.Join(names, ", ")
}
