package reporter

import (
	"fmt"
	"strings"
)

// Format represents an output format.
type Format string

// Output formats supported by the reporter.
const (
	FormatEvents  Format = "events"
	FormatJSON    Format = "json"
	FormatTree    Format = "tree"
	FormatHTML    Format = "html"
	FormatSummary Format = "summary"
)

// Formats returns every format in display order.
func Formats() []Format {
	return []Format{FormatEvents, FormatJSON, FormatTree, FormatHTML, FormatSummary}
}

// ParseFormat parses a format string, returning an error for unknown formats.
// The empty string selects the event trace.
func ParseFormat(formatStr string) (Format, error) {
	if formatStr == "" {
		return FormatEvents, nil
	}
	format := Format(strings.ToLower(formatStr))
	if !format.IsValid() {
		names := make([]string, 0, len(Formats()))
		for _, f := range Formats() {
			names = append(names, string(f))
		}
		return "", fmt.Errorf("unknown format %q; valid formats: %s", formatStr, strings.Join(names, ", "))
	}
	return format, nil
}

// String returns the string representation of the format.
func (f Format) String() string {
	return string(f)
}

// IsValid returns true if the format is a known valid format.
func (f Format) IsValid() bool {
	switch f {
	case FormatEvents, FormatJSON, FormatTree, FormatHTML, FormatSummary:
		return true
	default:
		return false
	}
}

// NeedsEvents reports whether the format prints the recorded events, so
// the runner has to keep them.
func (f Format) NeedsEvents() bool {
	return f != FormatSummary
}
