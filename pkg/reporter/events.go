package reporter

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"

	"github.com/yaklabco/xwikiparse/internal/ui/pretty"
	"github.com/yaklabco/xwikiparse/pkg/analysis"
	"github.com/yaklabco/xwikiparse/pkg/listener"
	"github.com/yaklabco/xwikiparse/pkg/runner"
)

const (
	indentUnit = "  "
	ellipsis   = "…"
)

// EventsReporter prints the event stream of each file, one event per
// line, indented by nesting depth.
type EventsReporter struct {
	opts   Options
	styles *pretty.Styles
	width  int
	bw     *bufio.Writer
}

// NewEventsReporter creates a new event trace reporter.
func NewEventsReporter(opts Options) *EventsReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	width := opts.Width
	if width <= 0 {
		width = pretty.TerminalWidth(opts.Writer)
	}
	return &EventsReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		width:  width,
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *EventsReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil || len(result.Files) == 0 {
		if r.opts.ShowSummary {
			fmt.Fprint(r.bw, r.styles.FormatSummaryOneLine(runner.Stats{}))
		}
		return 0, nil
	}

	grouped := len(result.Files) > 1
	for i, file := range result.Files {
		if grouped {
			if i > 0 {
				fmt.Fprintln(r.bw)
			}
			fmt.Fprintln(r.bw, r.styles.FormatFileHeader(
				analysis.RelativePath(file.Path, r.opts.WorkingDir), file.EventCount))
		}
		r.writeEvents(file.Events)
		writeOutcome(r.opts.ErrorWriter, r.styles, file, r.opts.WorkingDir)
	}

	if r.opts.ShowSummary {
		if grouped {
			fmt.Fprintln(r.bw)
		}
		fmt.Fprint(r.bw, r.styles.FormatSummaryOneLine(result.Stats))
	}

	return failures(result), nil
}

func (r *EventsReporter) writeEvents(events []listener.Event) {
	depth := 0
	for _, e := range events {
		if e.Type.IsEnd() && depth > 0 {
			depth--
		}

		line := strings.Repeat(indentUnit, depth) + e.String()
		if r.width > 0 {
			line = truncate.StringWithTail(line, uint(r.width), ellipsis) //nolint:gosec // width is positive
		}
		fmt.Fprintln(r.bw, eventStyle(r.styles, e.Type).Render(line))

		if e.Type.IsBegin() {
			depth++
		}
	}
}

func eventStyle(s *pretty.Styles, typ listener.EventType) lipgloss.Style {
	switch {
	case typ.IsBegin():
		return s.Begin
	case typ.IsEnd():
		return s.End
	}
	switch typ {
	case listener.EventVerbatim:
		return s.Verbatim
	case listener.EventReference, listener.EventMacro:
		return s.Inline
	default:
		return s.Text
	}
}

// writeOutcome reports a failed or malformed file on w.
func writeOutcome(w io.Writer, s *pretty.Styles, file runner.FileOutcome, workDir string) {
	if file.OK() || w == nil {
		return
	}
	file.Path = analysis.RelativePath(file.Path, workDir)
	fmt.Fprint(w, s.FormatOutcome(file))
}
