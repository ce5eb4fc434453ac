package reporter

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/yaklabco/xwikiparse/internal/ui/pretty"
	"github.com/yaklabco/xwikiparse/pkg/analysis"
)

// SummaryRenderer formats a report as frequency tables followed by a
// per-file listing and the totals.
type SummaryRenderer struct {
	opts   Options
	styles *pretty.Styles
	tables *pretty.TableFormatter
	out    io.Writer
}

// NewSummaryRenderer creates a new summary renderer.
func NewSummaryRenderer(opts Options) *SummaryRenderer {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	styles := pretty.NewStyles(colorEnabled)
	width := opts.Width
	if width <= 0 {
		width = pretty.TerminalWidth(opts.Writer)
	}
	return &SummaryRenderer{
		opts:   opts,
		styles: styles,
		tables: pretty.NewTableFormatter(styles, width),
		out:    opts.Writer,
	}
}

// Render implements Renderer.
func (r *SummaryRenderer) Render(_ context.Context, report *analysis.Report) error {
	var sb strings.Builder

	if report.Totals.Files == 0 {
		sb.WriteString(r.styles.Success.Render("No files found"))
		sb.WriteString("\n")
		return r.flush(sb.String())
	}

	sections := []struct {
		title string
		rows  []analysis.NamedCount
	}{
		{"Event", report.Events},
		{"Macro", report.Macros},
		{"Reference", report.References},
		{"Language", report.Languages},
	}
	for _, section := range sections {
		table := r.tables.FormatCounts(section.title, section.rows)
		if table == "" {
			continue
		}
		sb.WriteString(table)
		sb.WriteString("\n")
	}

	r.writeFiles(&sb, report.ByFile)
	r.writeTotals(&sb, report.Totals)

	return r.flush(sb.String())
}

func (r *SummaryRenderer) flush(s string) error {
	if _, err := io.WriteString(r.out, s); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	return nil
}

func (r *SummaryRenderer) writeFiles(sb *strings.Builder, files []analysis.FileAnalysis) {
	failed := 0
	for _, file := range files {
		if file.Error != "" || file.Nesting != "" {
			failed++
		}
	}
	if failed == 0 {
		return
	}

	sb.WriteString(r.styles.Bold.Render("Problems"))
	sb.WriteString("\n")
	for _, file := range files {
		switch {
		case file.Error != "":
			fmt.Fprintf(sb, "  %s %s\n", r.styles.FilePath.Render(file.Path), r.styles.Error.Render(file.Error))
		case file.Nesting != "":
			fmt.Fprintf(sb, "  %s %s\n", r.styles.FilePath.Render(file.Path), r.styles.Warning.Render(file.Nesting))
		}
	}
	sb.WriteString("\n")
}

func (r *SummaryRenderer) writeTotals(sb *strings.Builder, totals analysis.Totals) {
	parts := []string{
		countOf(totals.Files, "file", "files"),
		countOf(totals.Events, "event", "events"),
		"max depth " + strconv.Itoa(totals.MaxDepth),
	}

	var problems []string
	if totals.FilesFailed > 0 {
		problems = append(problems, r.styles.Error.Render(strconv.Itoa(totals.FilesFailed)+" failed"))
	}
	if totals.FilesMalformed > 0 {
		problems = append(problems, r.styles.Warning.Render(strconv.Itoa(totals.FilesMalformed)+" malformed"))
	}

	line := r.styles.Bold.Render("Total: ") + strings.Join(parts, ", ")
	if len(problems) > 0 {
		line += " (" + strings.Join(problems, ", ") + ")"
	}
	sb.WriteString(line)
	sb.WriteString("\n")
}

func countOf(n int, one, many string) string {
	if n == 1 {
		return "1 " + one
	}
	return strconv.Itoa(n) + " " + many
}
