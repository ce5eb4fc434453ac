package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/muesli/reflow/wordwrap"
	"gopkg.in/yaml.v3"
)

// commentWrapWidth is the maximum width of wrapped comments in templates.
const commentWrapWidth = 70

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Full documents every setting with its default value set. Otherwise
	// only the syntax is set and the rest is commented out.
	Full bool

	// Format is "yaml" (default) or "json". JSON templates carry no
	// comments.
	Format string
}

type templateField struct {
	key   string
	doc   string
	value func(c *Config) any
}

//nolint:gochecknoglobals // static template description
var templateFields = []templateField{
	{
		key:   "syntax",
		doc:   "Markup syntax of the input files. Only xwiki/2.1 is supported.",
		value: func(c *Config) any { return c.Syntax },
	},
	{
		key:   "escape",
		doc:   "Escape character. The character after it is always taken literally.",
		value: func(c *Config) any { return c.Escape },
	},
	{
		key:   "extensions",
		doc:   "File extensions picked up when a directory is given on the command line.",
		value: func(c *Config) any { return c.Extensions },
	},
	{
		key:   "ignore",
		doc:   "Glob patterns of files to skip, matched against paths relative to the working directory.",
		value: func(*Config) any { return []string{"drafts/**"} },
	},
	{
		key:   "jobs",
		doc:   "Number of files parsed in parallel (0 = one per CPU core).",
		value: func(c *Config) any { return c.Jobs },
	},
	{
		key:   "format",
		doc:   "Output format of the parse command: events, json, tree, html or summary.",
		value: func(c *Config) any { return c.Format },
	},
	{
		key:   "color",
		doc:   "Coloured output: auto, always or never.",
		value: func(c *Config) any { return c.Color },
	},
	{
		key:   "detect_language",
		doc:   "Guess the language of code macros that have no language parameter.",
		value: func(c *Config) any { return c.DetectLanguageEnabled() },
	},
	{
		key:   "max_lookahead",
		doc:   "How many characters a macro or parameter marker may span before it is treated as text.",
		value: func(c *Config) any { return c.MaxLookahead },
	},
	{
		key:   "output_dir",
		doc:   "Directory the render command writes HTML files to.",
		value: func(*Config) any { return "site" },
	},
}

// GenerateTemplate creates a configuration file template holding the
// defaults.
func GenerateTemplate(opts TemplateOptions) ([]byte, error) {
	defaults := NewConfig()

	if opts.Format == "json" {
		data, err := json.MarshalIndent(defaults, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshal JSON: %w", err)
		}
		return append(data, '\n'), nil
	}

	var buf bytes.Buffer
	buf.WriteString(DefaultTemplateHeader())
	buf.WriteString("\n")

	for i, field := range templateFields {
		entry, err := yaml.Marshal(map[string]any{field.key: field.value(defaults)})
		if err != nil {
			return nil, fmt.Errorf("marshal %s: %w", field.key, err)
		}

		buf.WriteString("\n")
		buf.WriteString(comment(field.doc))

		if opts.Full || i == 0 {
			buf.Write(entry)
			continue
		}
		for _, line := range strings.Split(strings.TrimRight(string(entry), "\n"), "\n") {
			buf.WriteString("# " + line + "\n")
		}
	}

	return buf.Bytes(), nil
}

// comment turns text into YAML comment lines wrapped at commentWrapWidth.
func comment(text string) string {
	var sb strings.Builder
	for _, line := range strings.Split(wordwrap.String(text, commentWrapWidth), "\n") {
		sb.WriteString(strings.TrimRight("# "+line, " "))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// DefaultTemplateHeader returns the header comment of generated configs.
func DefaultTemplateHeader() string {
	return `# xwikiparse configuration
# See: https://github.com/yaklabco/xwikiparse
`
}
