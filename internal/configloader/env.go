package configloader

import (
	"fmt"
	"maps"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/yaklabco/xwikiparse/pkg/config"
)

// envVarPrefix is the prefix of every environment variable read.
const envVarPrefix = "XWIKIPARSE_"

type envMapping struct {
	description string
	apply       func(cfg *config.Config, value string) error
}

func stringField(set func(*config.Config, string)) func(*config.Config, string) error {
	return func(cfg *config.Config, value string) error {
		set(cfg, value)
		return nil
	}
}

func intField(set func(*config.Config, int)) func(*config.Config, string) error {
	return func(cfg *config.Config, value string) error {
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("invalid integer %q", value)
		}
		set(cfg, n)
		return nil
	}
}

func boolField(set func(*config.Config, bool)) func(*config.Config, string) error {
	return func(cfg *config.Config, value string) error {
		b, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("invalid boolean %q (expected true/false/1/0)", value)
		}
		set(cfg, b)
		return nil
	}
}

func sliceField(set func(*config.Config, []string)) func(*config.Config, string) error {
	return func(cfg *config.Config, value string) error {
		set(cfg, parseSliceValue(value))
		return nil
	}
}

// envMappings maps variable names, without the prefix, to config fields.
//
//nolint:gochecknoglobals // read-only lookup table
var envMappings = map[string]envMapping{
	"SYNTAX": {
		description: "Markup syntax (xwiki/2.1)",
		apply:       stringField(func(c *config.Config, v string) { c.Syntax = config.Syntax(v) }),
	},
	"ESCAPE": {
		description: "Escape character",
		apply:       stringField(func(c *config.Config, v string) { c.Escape = v }),
	},
	"EXTENSIONS": {
		description: "Comma-separated file extensions to parse",
		apply:       sliceField(func(c *config.Config, v []string) { c.Extensions = v }),
	},
	"IGNORE": {
		description: "Comma-separated glob patterns of files to skip",
		apply:       sliceField(func(c *config.Config, v []string) { c.Ignore = v }),
	},
	"JOBS": {
		description: "Number of parallel workers (0 = auto)",
		apply:       intField(func(c *config.Config, v int) { c.Jobs = v }),
	},
	"FORMAT": {
		description: "Output format: events, json, tree, html or summary",
		apply:       stringField(func(c *config.Config, v string) { c.Format = config.OutputFormat(v) }),
	},
	"COLOR": {
		description: "Coloured output: auto, always or never",
		apply:       stringField(func(c *config.Config, v string) { c.Color = config.ColorMode(v) }),
	},
	"DETECT_LANGUAGE": {
		description: "Guess the language of code macros: true or false",
		apply:       boolField(func(c *config.Config, v bool) { c.DetectLanguage = config.Bool(v) }),
	},
	"MAX_LOOKAHEAD": {
		description: "Longest macro or parameter marker, in characters",
		apply:       intField(func(c *config.Config, v int) { c.MaxLookahead = v }),
	},
	"OUTPUT_DIR": {
		description: "Directory for rendered HTML",
		apply:       stringField(func(c *config.Config, v string) { c.OutputDir = v }),
	},
}

// LoadFromEnv applies XWIKIPARSE_* environment variables to cfg. Empty
// variables are ignored.
func LoadFromEnv(cfg *config.Config) error {
	if cfg == nil {
		return nil
	}

	for _, suffix := range slices.Sorted(maps.Keys(envMappings)) {
		name := envVarPrefix + suffix
		value := os.Getenv(name)
		if value == "" {
			continue
		}
		if err := envMappings[suffix].apply(cfg, value); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

// parseSliceValue splits a comma-separated list, trimming blanks and
// dropping empty elements.
func parseSliceValue(value string) []string {
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// ListEnvVars returns every supported variable with its description.
func ListEnvVars() map[string]string {
	vars := make(map[string]string, len(envMappings))
	for suffix, m := range envMappings {
		vars[envVarPrefix+suffix] = m.description
	}
	return vars
}
