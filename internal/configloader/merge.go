package configloader

import (
	"slices"

	"github.com/yaklabco/xwikiparse/pkg/config"
)

// merge layers override over base and returns a new configuration:
//   - scalars replace base when they are non-zero;
//   - slices replace base when they are non-nil;
//   - optional booleans replace base when they are set.
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override.Clone()
	}
	if override == nil {
		return base.Clone()
	}

	result := base.Clone()

	if override.Syntax != "" {
		result.Syntax = override.Syntax
	}
	if override.Escape != "" {
		result.Escape = override.Escape
	}
	if override.Jobs != 0 {
		result.Jobs = override.Jobs
	}
	if override.Format != "" {
		result.Format = override.Format
	}
	if override.Color != "" {
		result.Color = override.Color
	}
	if override.MaxLookahead != 0 {
		result.MaxLookahead = override.MaxLookahead
	}
	if override.OutputDir != "" {
		result.OutputDir = override.OutputDir
	}
	if override.DetectLanguage != nil {
		result.DetectLanguage = config.Bool(*override.DetectLanguage)
	}

	if override.Extensions != nil {
		result.Extensions = slices.Clone(override.Extensions)
	}
	if override.Ignore != nil {
		result.Ignore = slices.Clone(override.Ignore)
	}

	return result
}

// MergeAll merges configurations in order, later ones taking precedence.
func MergeAll(configs ...*config.Config) *config.Config {
	if len(configs) == 0 {
		return nil
	}

	result := configs[0].Clone()
	for _, cfg := range configs[1:] {
		result = merge(result, cfg)
	}
	return result
}
