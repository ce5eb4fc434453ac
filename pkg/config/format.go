package config

// OutputFormat selects how parse results are printed.
type OutputFormat string

// Output formats.
const (
	FormatEvents  OutputFormat = "events"
	FormatJSON    OutputFormat = "json"
	FormatTree    OutputFormat = "tree"
	FormatHTML    OutputFormat = "html"
	FormatSummary OutputFormat = "summary"
)

// OutputFormats returns every output format in display order.
func OutputFormats() []OutputFormat {
	return []OutputFormat{FormatEvents, FormatJSON, FormatTree, FormatHTML, FormatSummary}
}

// IsValid reports whether f is a known output format.
func (f OutputFormat) IsValid() bool {
	for _, known := range OutputFormats() {
		if f == known {
			return true
		}
	}
	return false
}

// ColorMode controls coloured output.
type ColorMode string

// Colour modes.
const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// IsValid reports whether m is a known colour mode.
func (m ColorMode) IsValid() bool {
	switch m {
	case ColorAuto, ColorAlways, ColorNever:
		return true
	default:
		return false
	}
}
