package parser

import (
	"context"
	"fmt"
	"strings"

	"github.com/yaklabco/xwikiparse/pkg/blockctx"
	"github.com/yaklabco/xwikiparse/pkg/codestream"
	"github.com/yaklabco/xwikiparse/pkg/lexer"
	"github.com/yaklabco/xwikiparse/pkg/listener"
	"github.com/yaklabco/xwikiparse/pkg/params"
	"github.com/yaklabco/xwikiparse/pkg/token"
)

// lookahead is a token that has been lexed but not consumed.
type lookahead struct {
	tok  token.Token
	tr   token.Transition
	mark codestream.Mark
	ok   bool
}

type format struct {
	kind   listener.FormatKind
	params params.Params

	// owner is the block stack depth of the container the format lives in.
	owner int
}

// run holds the state of one parse.
type run struct {
	p   *Parser
	ctx context.Context
	out listener.Listener
	lx  *lexer.Lexer

	state token.State
	base  token.State
	saved []token.State
	la    lookahead

	consumed  int
	checkedAt int
	line      int
	err       error

	// fragment is set for inline-only parses.
	fragment bool

	blocks  *blockctx.Stack
	formats []format
	text    strings.Builder

	// fresh is set while the innermost inline container has no content,
	// so leading blanks are dropped.
	fresh bool

	// atLineStart is set until the first content token of a line.
	atLineStart bool

	// softLine is set when the lexer is back in LINE_START on a line that
	// already had a group opener or block parameters.
	softLine bool

	// pendingNewline is the line break that ended the previous line inside
	// an inline container. It becomes onNewLine only if the next line
	// continues that container.
	pendingNewline bool

	blockParams params.Params
	emptyRun    int

	// blockSeen is set once a block was emitted in the current group or
	// document, after which the first blank line only separates blocks.
	blockSeen bool
}

func (r *run) fail(err error) {
	if r.err == nil {
		r.err = err
	}
}

func (r *run) debug(msg string, keyvals ...any) {
	if r.p.logger != nil {
		r.p.logger.Debug(msg, keyvals...)
	}
}

// peek returns the next token without consuming it. A token peeked in a
// different lexical state is lexed again.
func (r *run) peek() token.Token {
	if r.la.ok && r.la.tok.State == r.state {
		return r.la.tok
	}
	r.unread()

	mark := r.lx.Mark()
	tok, tr := r.lx.Next(r.state)
	r.la = lookahead{tok: tok, tr: tr, mark: mark, ok: true}
	return tok
}

// unread drops the peeked token, if any.
func (r *run) unread() {
	if r.la.ok {
		r.lx.Reset(r.la.mark)
		r.la.ok = false
	}
}

// next consumes a token and applies the transition it requests.
func (r *run) next() token.Token {
	tok := r.peek()
	tr := r.la.tr
	r.la.ok = false

	switch tr.Op {
	case token.Goto:
		r.state = tr.State
	case token.Push:
		r.saved = append(r.saved, r.state)
		r.state = tr.State
	case token.Stay:
	}

	r.consumed++
	r.line = tok.Line()
	return tok
}

// pop restores the lexical state saved by the last push. Content that
// follows a closing marker is never at the start of a line.
func (r *run) pop() {
	if n := len(r.saved); n > 0 {
		r.state = r.saved[n-1]
		r.saved = r.saved[:n-1]
	} else {
		r.state = r.base
	}
	if r.state == token.StateLineStart {
		r.state = token.StateDefault
	}
}

// lineEndsHere reports whether only blanks remain on the current line.
func (r *run) lineEndsHere() bool {
	r.unread()
	mark := r.lx.Mark()
	defer r.lx.Reset(mark)

	for {
		tok, _ := r.lx.Next(r.state)
		switch tok.Kind {
		case token.Space:
		case token.Newline, token.EmptyLine, token.EOF:
			return true
		default:
			return false
		}
	}
}

func (r *run) loop() error {
	if err := r.ctx.Err(); err != nil {
		return fmt.Errorf("parse interrupted: %w", err)
	}

	for {
		if r.consumed-r.checkedAt >= cancelCheckInterval {
			r.checkedAt = r.consumed
			if err := r.ctx.Err(); err != nil {
				return fmt.Errorf("parse interrupted: %w", err)
			}
		}

		tok := r.next()
		if tok.Kind == token.EOF {
			return r.err
		}
		r.handle(tok)
		if r.err != nil {
			return r.err
		}
	}
}

func (r *run) handle(tok token.Token) {
	soft := r.softLine
	r.softLine = false

	switch tok.Kind {
	case token.EmptyLine:
		r.emptyLine(soft)
	case token.Newline:
		r.newline()
	case token.HeaderBegin, token.HorizontalLine, token.ListMarker, token.QuoteMarker:
		r.structural(tok)
	case token.TableCell, token.TableHeaderCell:
		if tok.State == token.StateLineStart {
			r.structural(tok)
		} else {
			r.cell(tok)
		}
	case token.HeaderEnd:
		r.flush(true)
	case token.Parameters:
		if tok.State == token.StateLineStart && !r.fragment {
			r.lineParams(tok)
		} else {
			r.inlineParams(tok)
		}
	case token.ParametersReset:
		r.resetParams()
	case token.GroupOpen:
		r.openGroup()
	case token.GroupClose:
		r.closeGroup(tok)
	case token.VerbatimOpen:
		r.verbatim()
	case token.MacroOpen, token.MacroSelfClose:
		r.macro(tok)
	case token.Link, token.Image, token.Attachment:
		r.reference(tok)
	case token.FreeStandingURL, token.FreeStandingImage:
		r.freeReference(tok)
	case token.LineBreak:
		r.lineBreak()
	case token.Space:
		r.space(tok)
	case token.Escaped:
		r.escaped(tok)
	default:
		if kind, ok := formatKinds[tok.Kind]; ok {
			r.toggle(kind)
			return
		}
		r.word(tok.Text)
	}
}

// finish closes everything that is still open.
func (r *run) finish() {
	r.flush(true)
	r.pendingNewline = false

	if r.fragment {
		r.endFormats(-1)
		return
	}

	r.emitEmptyLines()
	if err := r.blocks.Validate(); err != nil {
		r.fail(err)
	}
	r.flush(true)
	r.ended(r.blocks.Len(), r.blocks.FlushAll())
}
