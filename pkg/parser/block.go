package parser

import (
	"strings"

	"github.com/yaklabco/xwikiparse/internal/logging"
	"github.com/yaklabco/xwikiparse/pkg/blockctx"
	"github.com/yaklabco/xwikiparse/pkg/listener"
	"github.com/yaklabco/xwikiparse/pkg/params"
	"github.com/yaklabco/xwikiparse/pkg/token"
)

const maxHeaderLevel = 6

// startBlock marks the current line as holding block content. The pending
// line break of the previous line is dropped.
func (r *run) startBlock() {
	if !r.atLineStart {
		return
	}
	r.atLineStart = false
	r.pendingNewline = false
	r.emitEmptyLines()
}

// startInline marks the current line as holding inline content. If the
// previous line ended inside a container this line continues, the pending
// line break is reported; otherwise the containers are closed so that a
// new paragraph opens.
func (r *run) startInline() {
	if !r.atLineStart {
		return
	}
	r.atLineStart = false
	r.emitEmptyLines()

	if !r.pendingNewline {
		return
	}
	r.pendingNewline = false

	if r.blocks.TopKind().Continues() {
		r.out.OnNewLine()
		r.fresh = true
		if p := r.takeBlockParams(); p != nil {
			r.beginFormat(listener.FormatNone, p)
		}
		return
	}
	r.closeSegment()
}

func (r *run) emitEmptyLines() {
	n := r.emptyRun
	r.emptyRun = 0
	if r.blockSeen {
		n--
	}
	if n > 0 {
		r.out.OnEmptyLines(n)
	}
}

func (r *run) takeBlockParams() params.Params {
	p := r.blockParams
	r.blockParams = nil
	return p
}

func (r *run) newline() {
	r.flush(true)

	if r.fragment {
		r.out.OnNewLine()
		r.fresh = true
		return
	}

	if !r.atLineStart && r.blocks.TopKind().IsInline() {
		r.pendingNewline = true
	}
	r.atLineStart = true
}

// emptyLine handles a blank line. On a soft line it only ends the line;
// block parameters alone on their line still end the current block.
func (r *run) emptyLine(soft bool) {
	r.atLineStart = true

	if soft {
		if r.blockParams != nil {
			r.pendingNewline = false
			r.closeSegment()
		}
		return
	}

	r.pendingNewline = false
	r.closeSegment()
	r.emptyRun++
}

func (r *run) structural(tok token.Token) {
	r.startBlock()
	r.flush(true)

	switch tok.Kind {
	case token.HorizontalLine:
		r.closeSegment()
		r.out.OnHorizontalLine(r.takeBlockParams())
		r.blockSeen = true
	case token.HeaderBegin:
		r.reconcile([]blockctx.Want{{Kind: blockctx.Header, Level: headerLevel(tok.Text), Fresh: true}})
	case token.ListMarker:
		r.reconcile(listWant(tok.Text))
	case token.QuoteMarker:
		r.reconcile(quoteWant(tok.Text))
	case token.TableCell, token.TableHeaderCell:
		r.reconcile([]blockctx.Want{
			{Kind: blockctx.Table},
			{Kind: blockctx.TableRow, Fresh: true},
			{Kind: blockctx.TableCell, HeaderCell: tok.Kind == token.TableHeaderCell, Fresh: true},
		})
	}
}

func headerLevel(marker string) int {
	return min(strings.Count(marker, "="), maxHeaderLevel)
}

// listWant translates a list marker such as "*1." or ";:" into nesting,
// one level per marker character.
func listWant(marker string) []blockctx.Want {
	marker = strings.TrimRight(strings.TrimSpace(marker), ".")

	want := make([]blockctx.Want, 0, 2*len(marker))
	for _, c := range marker {
		switch c {
		case '*':
			want = append(want, blockctx.Want{Kind: blockctx.List}, blockctx.Want{Kind: blockctx.ListItem})
		case '1':
			want = append(want, blockctx.Want{Kind: blockctx.List, Ordered: true}, blockctx.Want{Kind: blockctx.ListItem})
		case ';':
			want = append(want, blockctx.Want{Kind: blockctx.DefinitionList}, blockctx.Want{Kind: blockctx.DefinitionTerm})
		case ':':
			want = append(want, blockctx.Want{Kind: blockctx.DefinitionList}, blockctx.Want{Kind: blockctx.DefinitionDescription})
		}
	}
	if len(want) > 0 {
		want[len(want)-1].Fresh = true
	}
	return want
}

func quoteWant(marker string) []blockctx.Want {
	depth := strings.Count(marker, ">")
	want := make([]blockctx.Want, 0, depth+1)
	for range depth {
		want = append(want, blockctx.Want{Kind: blockctx.Quotation})
	}
	return append(want, blockctx.Want{Kind: blockctx.QuotationLine, Fresh: true})
}

// reconcile brings the block stack in line with want and reports the
// difference. Block parameters go to the outermost context opened.
func (r *run) reconcile(want []blockctx.Want) {
	depth := r.blocks.Len()
	toClose, toOpen, err := r.blocks.Reconcile(want, r.line)

	r.ended(depth, toClose)
	if err != nil {
		r.fail(err)
		return
	}

	bp := r.takeBlockParams()
	for i, c := range toOpen {
		if i == 0 && bp != nil {
			c.Params = bp
		}
		if i == len(toOpen)-1 && c.Kind == blockctx.TableCell {
			if p := r.cellParams(); p != nil {
				c.Params = p
			}
		}
		r.begin(c)
	}
	r.blockSeen = true

	if r.p.logger != nil {
		r.debug("reconcile", logging.FieldLine, r.line, "closed", describe(toClose), "opened", describe(toOpen))
	}
}

func describe(cs []blockctx.Context) string {
	names := make([]string, len(cs))
	for i, c := range cs {
		names[i] = c.String()
	}
	return strings.Join(names, " ")
}

// cell handles a cell marker in the middle of a table row.
func (r *run) cell(tok token.Token) {
	i, ok := r.blocks.Innermost(blockctx.TableCell)
	if !ok {
		r.word(tok.Text)
		return
	}
	// A marker that ends the row does not open an empty cell.
	if r.lineEndsHere() {
		r.flush(true)
		return
	}

	r.closeAbove(i)
	r.open(blockctx.Context{
		Kind:       blockctx.TableCell,
		HeaderCell: tok.Kind == token.TableHeaderCell,
		Params:     r.cellParams(),
	})
}

func (r *run) cellParams() params.Params {
	if r.peek().Kind != token.Parameters {
		return nil
	}
	return r.parseParams(r.next().Text)
}

// ensureInline makes sure the innermost context takes inline content,
// opening a paragraph when needed.
func (r *run) ensureInline() {
	if r.fragment {
		return
	}
	for {
		top := r.blocks.TopKind()
		if top.IsInline() {
			return
		}
		if blockctx.CanContain(top, blockctx.Paragraph) {
			break
		}
		r.closeAbove(r.blocks.Len() - 1)
	}

	if r.open(blockctx.Context{Kind: blockctx.Paragraph, Params: r.takeBlockParams()}) {
		r.blockSeen = true
	}
}

func (r *run) openGroup() {
	r.startBlock()
	r.flush(true)

	for !blockctx.CanContain(r.blocks.TopKind(), blockctx.Group) {
		r.closeAbove(r.blocks.Len() - 1)
	}
	if !r.open(blockctx.Context{Kind: blockctx.Group, Params: r.takeBlockParams()}) {
		return
	}

	r.blockSeen = false
	r.emptyRun = 0
	r.pendingNewline = false
	r.atLineStart = true
	r.softLine = true
}

func (r *run) closeGroup(tok token.Token) {
	if r.fragment || !r.blocks.InGroup() {
		r.word(tok.Text)
		return
	}

	r.startBlock()
	r.flush(true)
	depth := r.blocks.Len()
	closed, _ := r.blocks.CloseGroup()
	r.ended(depth, closed)
	r.pop()
	r.blockSeen = true
	r.fresh = true
}

func (r *run) open(c blockctx.Context) bool {
	c.OpenedAtLine = r.line
	c, err := r.blocks.Push(c)
	if err != nil {
		r.fail(err)
		return false
	}
	r.begin(c)
	return true
}

func (r *run) closeSegment() {
	if r.blocks.SegmentBase() >= r.blocks.Len() {
		return
	}
	r.flush(true)
	r.ended(r.blocks.Len(), r.blocks.CloseSegment())
}

// closeAbove ends every context above depth n.
func (r *run) closeAbove(n int) {
	if n >= r.blocks.Len() {
		return
	}
	r.flush(true)
	r.ended(r.blocks.Len(), r.blocks.CloseAbove(n))
}

// ended reports contexts popped, innermost first, from a stack that was
// depth deep. Each one ends after the formats it owns.
func (r *run) ended(depth int, closed []blockctx.Context) {
	for i, c := range closed {
		r.endFormats(depth - 1 - i)
		r.end(c)
	}
}

func (r *run) begin(c blockctx.Context) {
	switch c.Kind {
	case blockctx.Paragraph:
		r.out.BeginParagraph(c.Params)
	case blockctx.Header:
		r.out.BeginHeader(c.Level, c.Params)
	case blockctx.List:
		r.out.BeginList(c.Ordered, c.Params)
	case blockctx.ListItem:
		r.out.BeginListItem(c.Params)
	case blockctx.DefinitionList:
		r.out.BeginDefinitionList(c.Params)
	case blockctx.DefinitionTerm:
		r.out.BeginDefinitionTerm()
	case blockctx.DefinitionDescription:
		r.out.BeginDefinitionDescription()
	case blockctx.Table:
		r.out.BeginTable(c.Params)
	case blockctx.TableRow:
		r.out.BeginTableRow(c.Params)
	case blockctx.TableCell:
		r.out.BeginTableCell(c.HeaderCell, c.Params)
	case blockctx.Quotation:
		r.out.BeginQuotation(c.Params)
	case blockctx.QuotationLine:
		r.out.BeginQuotationLine()
	case blockctx.Group:
		r.out.BeginGroup(c.Params)
	}
	if c.Kind.IsInline() {
		r.fresh = true
	}
}

func (r *run) end(c blockctx.Context) {
	switch c.Kind {
	case blockctx.Paragraph:
		r.out.EndParagraph()
	case blockctx.Header:
		r.out.EndHeader(c.Level)
	case blockctx.List:
		r.out.EndList(c.Ordered)
	case blockctx.ListItem:
		r.out.EndListItem()
	case blockctx.DefinitionList:
		r.out.EndDefinitionList()
	case blockctx.DefinitionTerm:
		r.out.EndDefinitionTerm()
	case blockctx.DefinitionDescription:
		r.out.EndDefinitionDescription()
	case blockctx.Table:
		r.out.EndTable()
	case blockctx.TableRow:
		r.out.EndTableRow()
	case blockctx.TableCell:
		r.out.EndTableCell()
	case blockctx.Quotation:
		r.out.EndQuotation()
	case blockctx.QuotationLine:
		r.out.EndQuotationLine()
	case blockctx.Group:
		r.out.EndGroup()
	}
}
