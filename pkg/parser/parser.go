// Package parser turns XWiki 2.1 markup into listener events.
//
// The parser pulls tokens from the lexer with one token of lookahead and
// keeps three stacks of its own: the open block contexts, the open inline
// formats and the lexical states saved around verbatim blocks, macros and
// groups. Malformed markup never fails a parse; it degrades into text or
// is closed implicitly at the end of the input. The only error is a
// broken internal invariant, reported as blockctx.ErrInternalInconsistency.
package parser

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/xwikiparse/pkg/blockctx"
	"github.com/yaklabco/xwikiparse/pkg/lexer"
	"github.com/yaklabco/xwikiparse/pkg/listener"
	"github.com/yaklabco/xwikiparse/pkg/params"
	"github.com/yaklabco/xwikiparse/pkg/token"
)

// cancelCheckInterval is the number of tokens between two checks of the
// context passed to ParseContext.
const cancelCheckInterval = 512

// Option configures a Parser.
type Option func(*Parser)

// WithEscape sets the escape character (default '~').
func WithEscape(r rune) Option {
	return func(p *Parser) {
		p.escape = r
	}
}

// WithMaxLookahead bounds how far macro and parameter markers are scanned
// for their closing braces.
func WithMaxLookahead(n int) Option {
	return func(p *Parser) {
		p.maxLookahead = n
	}
}

// WithDetectLanguage fills in the language parameter of code macros that
// have none, based on their content.
func WithDetectLanguage(enabled bool) Option {
	return func(p *Parser) {
		p.detectLanguage = enabled
	}
}

// WithLogger enables a debug trace of block reconciliation.
func WithLogger(logger *log.Logger) Option {
	return func(p *Parser) {
		p.logger = logger
	}
}

// Parser reports documents to a listener.
// A Parser may be reused but is not safe for concurrent use.
type Parser struct {
	listener       listener.Listener
	escape         rune
	maxLookahead   int
	detectLanguage bool
	logger         *log.Logger
}

// New creates a parser reporting to l. A nil listener discards events.
func New(l listener.Listener, opts ...Option) *Parser {
	if l == nil {
		l = listener.Base{}
	}
	p := &Parser{
		listener:     l,
		escape:       params.DefaultEscape,
		maxLookahead: lexer.DefaultMaxLookahead,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse is a convenience wrapper for New(l, opts...).Parse(src).
func Parse(src string, l listener.Listener, opts ...Option) error {
	return New(l, opts...).Parse(src)
}

// Parse reports src as a complete document.
func (p *Parser) Parse(src string) error {
	return p.ParseContext(context.Background(), src)
}

// ParseContext reports src as a complete document, checking ctx
// periodically. When ctx is done the open constructs are closed, the
// document is ended and the context error is returned.
func (p *Parser) ParseContext(ctx context.Context, src string) error {
	r := p.newRun(ctx, src, token.StateLineStart)

	r.out.BeginDocument()
	err := r.loop()
	if errors.Is(err, blockctx.ErrInternalInconsistency) {
		return fmt.Errorf("parse: %w", err)
	}

	r.finish()
	r.out.EndDocument()
	if err == nil && r.err != nil {
		return fmt.Errorf("parse: %w", r.err)
	}
	return err
}

// ParseInline reports src as inline content only: no document, paragraph
// or other block events. Line breaks become new lines.
func (p *Parser) ParseInline(src string) error {
	r := p.newRun(context.Background(), src, token.StateInline)
	r.fragment = true
	r.atLineStart = false

	if err := r.loop(); err != nil {
		return fmt.Errorf("parse inline: %w", err)
	}
	r.finish()
	return nil
}

func (p *Parser) newRun(ctx context.Context, src string, state token.State) *run {
	if ctx == nil {
		ctx = context.Background()
	}
	return &run{
		p:   p,
		ctx: ctx,
		out: p.listener,
		lx: lexer.New(src,
			lexer.WithEscape(p.escape),
			lexer.WithMaxLookahead(p.maxLookahead),
		),
		state:       state,
		base:        state,
		blocks:      blockctx.New(),
		atLineStart: true,
	}
}
