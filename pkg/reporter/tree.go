package reporter

import (
	"bufio"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/wordwrap"

	"github.com/yaklabco/xwikiparse/internal/ui/pretty"
	"github.com/yaklabco/xwikiparse/pkg/analysis"
	"github.com/yaklabco/xwikiparse/pkg/listener"
	"github.com/yaklabco/xwikiparse/pkg/runner"
	"github.com/yaklabco/xwikiparse/pkg/xdom"
)

const (
	branchMid  = "├── "
	branchLast = "└── "
	pipeMid    = "│   "
	pipeLast   = "    "

	// minWrapWidth keeps deeply nested labels readable on narrow terminals.
	minWrapWidth = 20
)

// TreeReporter prints each file as its document tree.
type TreeReporter struct {
	opts   Options
	styles *pretty.Styles
	width  int
	bw     *bufio.Writer
}

// NewTreeReporter creates a new tree reporter.
func NewTreeReporter(opts Options) *TreeReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	width := opts.Width
	if width <= 0 {
		width = pretty.TerminalWidth(opts.Writer)
	}
	return &TreeReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		width:  width,
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *TreeReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil {
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
		if len(file.Events) > 0 {
			b := xdom.NewBuilder()
			listener.Replay(file.Events, b)
			r.writeNode(b.Root(), "", "")
		}
		writeOutcome(r.opts.ErrorWriter, r.styles, file, r.opts.WorkingDir)
	}

	if r.opts.ShowSummary {
		fmt.Fprintln(r.bw)
		fmt.Fprint(r.bw, r.styles.FormatSummaryOneLine(result.Stats))
	}

	return failures(result), nil
}

// writeNode prints n after branch, then its children. prefix is the
// indentation shared by n's children and by wrapped label lines.
func (r *TreeReporter) writeNode(n *xdom.Node, branch, prefix string) {
	if n == nil {
		return
	}

	style := eventStyle(r.styles, n.Event.Type)
	if n.IsContainer() {
		style = r.styles.Begin
	}

	limit := max(r.width-ansi.PrintableRuneWidth(prefix)-len(pipeMid), minWrapWidth)
	lines := strings.Split(wordwrap.String(nodeLabel(n), limit), "\n")
	for i, line := range lines {
		lead := branch
		if i > 0 {
			lead = prefix + pipeLast
			if n.HasChildren() {
				lead = prefix + pipeMid
			}
		}
		fmt.Fprintln(r.bw, r.styles.Branch.Render(lead)+style.Render(line))
	}

	for c := n.FirstChild; c != nil; c = c.Next {
		if c.Next == nil {
			r.writeNode(c, prefix+branchLast, prefix+pipeLast)
		} else {
			r.writeNode(c, prefix+branchMid, prefix+pipeMid)
		}
	}
}

// nodeLabel describes n on one line: its kind, then its attributes.
func nodeLabel(n *xdom.Node) string {
	e := n.Event
	parts := []string{n.Kind.String()}

	switch n.Kind {
	case xdom.NodeHeader:
		parts = append(parts, "level="+strconv.Itoa(e.Level))
	case xdom.NodeList:
		if e.Ordered {
			parts = append(parts, "ordered")
		}
	case xdom.NodeTableCell:
		if e.Header {
			parts = append(parts, "header")
		}
	case xdom.NodeFormat:
		parts = append(parts, e.Format.String())
	case xdom.NodeText:
		parts = append(parts, strconv.Quote(e.Text))
	case xdom.NodeVerbatim:
		parts = append(parts, strconv.Quote(e.Text))
		if e.Inline {
			parts = append(parts, "inline")
		}
	case xdom.NodeEmptyLines:
		parts = append(parts, strconv.Itoa(e.Count))
	case xdom.NodeReference:
		if e.Target != nil {
			parts = append(parts, string(e.Target.Type), strconv.Quote(e.Target.String()))
			if e.Target.Label != "" {
				parts = append(parts, "label="+strconv.Quote(e.Target.Label))
			}
		}
	case xdom.NodeMacro:
		if e.Macro != nil {
			parts = append(parts, e.Macro.Name)
			if e.Macro.Inline {
				parts = append(parts, "inline")
			}
		}
	}

	if len(e.Params) > 0 {
		parts = append(parts, e.Params.String())
	}
	if n.Kind == xdom.NodeMacro && e.Macro != nil && len(e.Macro.Parameters) > 0 {
		parts = append(parts, e.Macro.Parameters.String())
	}

	return strings.Join(parts, " ")
}
