package reporter

import (
	"bufio"
	"context"
	"fmt"
	"path/filepath"

	"github.com/yaklabco/xwikiparse/internal/ui/pretty"
	"github.com/yaklabco/xwikiparse/pkg/analysis"
	"github.com/yaklabco/xwikiparse/pkg/listener"
	"github.com/yaklabco/xwikiparse/pkg/params"
	"github.com/yaklabco/xwikiparse/pkg/runner"
	"github.com/yaklabco/xwikiparse/pkg/xdom"
)

const defaultHTMLTitle = "xwikiparse"

// HTMLReporter renders the parsed files as one HTML page. With several
// files each document becomes a div tagged with its path.
type HTMLReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewHTMLReporter creates a new HTML reporter.
func NewHTMLReporter(opts Options) *HTMLReporter {
	return &HTMLReporter{
		opts:   opts,
		styles: pretty.NewStyles(pretty.IsColorEnabled(opts.Color, opts.ErrorWriter)),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *HTMLReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	var files []runner.FileOutcome
	if result != nil {
		files = result.Files
	}

	var root *xdom.Node
	for _, file := range files {
		writeOutcome(r.opts.ErrorWriter, r.styles, file, r.opts.WorkingDir)
		if file.Error != nil {
			continue
		}
		root = r.appendFile(root, file, len(files) > 1)
	}
	if root == nil {
		root = &xdom.Node{Kind: xdom.NodeDocument}
	}

	if err := xdom.RenderHTMLPage(r.bw, root, r.title(files)); err != nil {
		return 0, err
	}
	return failures(result), nil
}

// appendFile adds the tree of file to page and returns the page.
func (r *HTMLReporter) appendFile(page *xdom.Node, file runner.FileOutcome, wrap bool) *xdom.Node {
	b := xdom.NewBuilder()
	listener.Replay(file.Events, b)
	doc := b.Root()
	if doc == nil {
		return page
	}
	if !wrap {
		return doc
	}

	if page == nil {
		page = &xdom.Node{Kind: xdom.NodeDocument}
	}
	section := xdom.NewNode(listener.Event{
		Type: listener.EventBeginGroup,
		Params: params.Params{
			"class":     "xwiki-document",
			"data-path": filepath.ToSlash(analysis.RelativePath(file.Path, r.opts.WorkingDir)),
		},
	})
	for c := doc.FirstChild; c != nil; {
		next := c.Next
		xdom.AppendChild(section, c)
		c = next
	}
	xdom.AppendChild(page, section)
	return page
}

func (r *HTMLReporter) title(files []runner.FileOutcome) string {
	switch {
	case r.opts.Title != "":
		return r.opts.Title
	case len(files) == 1:
		return filepath.Base(files[0].Path)
	default:
		return fmt.Sprintf("%s (%d files)", defaultHTMLTitle, len(files))
	}
}
