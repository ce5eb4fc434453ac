package pretty

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/yaklabco/xwikiparse/pkg/runner"
)

const (
	summaryDividerWidth = 40
	wordFile            = "file"
	wordFiles           = "files"
)

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// FormatSummaryOneLine formats run statistics as a single line.
// Example: "12 files parsed, 2 malformed, 1 failed (1834 events)".
func (s *Styles) FormatSummaryOneLine(stats runner.Stats) string {
	if stats.FilesDiscovered == 0 {
		return s.Dim.Render("No files found") + "\n"
	}

	parts := []string{fmt.Sprintf("%d %s parsed", stats.FilesParsed, plural(stats.FilesParsed, wordFile, wordFiles))}
	if stats.FilesMalformed > 0 {
		parts = append(parts, s.Warning.Render(fmt.Sprintf("%d malformed", stats.FilesMalformed)))
	}
	if stats.FilesFailed > 0 {
		parts = append(parts, s.Error.Render(fmt.Sprintf("%d failed", stats.FilesFailed)))
	}

	line := strings.Join(parts, ", ")
	if stats.FilesFailed == 0 && stats.FilesMalformed == 0 {
		line = s.Success.Render(line)
	}
	return line + s.Dim.Render(fmt.Sprintf(" (%d events)", stats.EventsTotal)) + "\n"
}

// FormatSummary formats run statistics as a summary block.
func (s *Styles) FormatSummary(stats runner.Stats) string {
	var builder strings.Builder

	row := func(label, value string) {
		builder.WriteString(fmt.Sprintf("  %-18s %s\n", label+":", value))
	}

	builder.WriteString("\n")
	builder.WriteString(s.SummaryTitle.Render("Summary"))
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat("-", summaryDividerWidth))
	builder.WriteString("\n")

	row("Files discovered", s.SummaryValue.Render(strconv.Itoa(stats.FilesDiscovered)))
	row("Files parsed", s.SummaryValue.Render(strconv.Itoa(stats.FilesParsed)))
	if stats.FilesMalformed > 0 {
		row("Files malformed", s.Warning.Render(strconv.Itoa(stats.FilesMalformed)))
	}
	if stats.FilesFailed > 0 {
		row("Files failed", s.Error.Render(strconv.Itoa(stats.FilesFailed)))
	}
	row("Events", s.SummaryValue.Render(strconv.Itoa(stats.EventsTotal)))
	row("Bytes", s.SummaryValue.Render(strconv.Itoa(stats.BytesTotal)))
	if stats.Duration > 0 {
		row("Duration", s.SummaryValue.Render(stats.Duration.Round(time.Millisecond).String()))
	}

	builder.WriteString("\n")
	switch {
	case stats.FilesFailed > 0:
		builder.WriteString(s.Failure.Render("Some files could not be parsed"))
	case stats.FilesMalformed > 0:
		builder.WriteString(s.Warning.Render("Some event streams were not well nested"))
	default:
		builder.WriteString(s.Success.Render("All files parsed"))
	}
	builder.WriteString("\n")

	return builder.String()
}
