package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/truncate"

	"github.com/yaklabco/xwikiparse/pkg/analysis"
)

const (
	heavySeparator = "="
	minNameWidth   = 12
	countWidth     = 8
	shareWidth     = 7
	tablePadding   = 2
	ellipsis       = "…"
)

// TableFormatter formats frequency tables.
type TableFormatter struct {
	styles    *Styles
	termWidth int
}

// NewTableFormatter creates a table formatter. A width of 0 or less uses
// the default terminal width.
func NewTableFormatter(styles *Styles, termWidth int) *TableFormatter {
	if termWidth <= 0 {
		termWidth = defaultTermWidth
	}
	return &TableFormatter{styles: styles, termWidth: termWidth}
}

// FormatCounts renders rows under a title with a share-of-total column.
// Names longer than the terminal allows are truncated.
func (t *TableFormatter) FormatCounts(title string, rows []analysis.NamedCount) string {
	if len(rows) == 0 {
		return ""
	}

	total := 0
	nameWidth := max(minNameWidth, ansi.PrintableRuneWidth(title))
	for _, row := range rows {
		total += row.Count
		nameWidth = max(nameWidth, ansi.PrintableRuneWidth(row.Name))
	}
	nameWidth = min(nameWidth, t.termWidth-countWidth-shareWidth-2*tablePadding)
	nameWidth = max(nameWidth, minNameWidth)

	width := nameWidth + countWidth + shareWidth + 2*tablePadding
	pad := strings.Repeat(" ", tablePadding)

	var builder strings.Builder
	builder.WriteString(t.styles.TableHeader.Render(
		padRight(strings.ToUpper(title), nameWidth) + pad +
			padLeft("COUNT", countWidth) + pad + padLeft("SHARE", shareWidth)))
	builder.WriteString("\n")
	builder.WriteString(t.styles.TableSeparator.Render(strings.Repeat(heavySeparator, width)))
	builder.WriteString("\n")

	for _, row := range rows {
		name := truncate.StringWithTail(row.Name, uint(nameWidth), ellipsis) //nolint:gosec // width is positive
		share := fmt.Sprintf("%.1f%%", 100*float64(row.Count)/float64(total))
		builder.WriteString(padRight(name, nameWidth) + pad +
			t.styles.SummaryValue.Render(padLeft(strconv.Itoa(row.Count), countWidth)) + pad +
			t.styles.Dim.Render(padLeft(share, shareWidth)))
		builder.WriteString("\n")
	}

	return builder.String()
}

// padRight pads s to width printable cells. Call it before styling.
func padRight(s string, width int) string {
	if n := ansi.PrintableRuneWidth(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}

// padLeft pads s on the left to width printable cells.
func padLeft(s string, width int) string {
	if n := ansi.PrintableRuneWidth(s); n < width {
		return strings.Repeat(" ", width-n) + s
	}
	return s
}
