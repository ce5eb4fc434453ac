// Package lexer turns XWiki 2.1 markup into tokens.
//
// The lexer is table driven: every lexical state owns an ordered list of
// rules. At each position all rules of the active state are tried without
// consuming input, the longest match wins and ties go to the rule declared
// first. Input that no rule accepts becomes a one-character fallback token,
// so Next always makes progress and never fails.
package lexer

import (
	"github.com/yaklabco/xwikiparse/pkg/codestream"
	"github.com/yaklabco/xwikiparse/pkg/params"
	"github.com/yaklabco/xwikiparse/pkg/token"
)

// DefaultMaxLookahead bounds how far macro and parameter markers may be
// scanned for their closing braces.
const DefaultMaxLookahead = 4096

// Lexer produces tokens from a single source text.
// A Lexer is not safe for concurrent use.
type Lexer struct {
	s            *codestream.Stream
	table        *Table
	escape       rune
	maxLookahead int
}

// Option configures a Lexer.
type Option func(*Lexer)

// WithEscape sets the escape character (default '~').
func WithEscape(r rune) Option {
	return func(l *Lexer) {
		l.escape = r
	}
}

// WithMaxLookahead bounds marker scans to n code points.
func WithMaxLookahead(n int) Option {
	return func(l *Lexer) {
		if n > 0 {
			l.maxLookahead = n
		}
	}
}

// WithTable replaces the rule tables.
func WithTable(t *Table) Option {
	return func(l *Lexer) {
		l.table = t
	}
}

// New creates a lexer over src.
func New(src string, opts ...Option) *Lexer {
	l := &Lexer{
		s:            codestream.New(src),
		table:        DefaultTable(),
		escape:       params.DefaultEscape,
		maxLookahead: DefaultMaxLookahead,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Next returns the token at the current position recognised with the rules
// of state, and the transition that token requests. At end of input it
// returns an EOF token and leaves the position unchanged.
func (l *Lexer) Next(state token.State) (token.Token, token.Transition) {
	start := l.s.Position()
	if l.s.AtEnd() {
		return token.Token{Kind: token.EOF, State: state, Pos: start, End: start}, token.Transition{}
	}

	st := l.table.state(state)

	best, bestLen := -1, 0
	for i := range st.rules {
		if n := st.rules[i].match(l); n > bestLen {
			best, bestLen = i, n
		}
	}

	chosen := st.fallback
	if best >= 0 {
		chosen = st.rules[best]
	} else {
		bestLen = 1
	}

	text := l.s.Skip(bestLen)
	return token.Token{
		Kind:  chosen.Kind,
		Text:  text,
		State: state,
		Pos:   start,
		End:   l.s.Position(),
	}, chosen.Next
}

// Mark captures the current position.
func (l *Lexer) Mark() codestream.Mark {
	return l.s.Mark()
}

// Reset rewinds to m. Lexing again from m in the same state yields the same
// token.
func (l *Lexer) Reset(m codestream.Mark) {
	l.s.Reset(m)
}

// Position returns the current position.
func (l *Lexer) Position() codestream.Position {
	return l.s.Position()
}

// AtEnd reports whether all input has been consumed.
func (l *Lexer) AtEnd() bool {
	return l.s.AtEnd()
}

// Escape returns the configured escape character.
func (l *Lexer) Escape() rune {
	return l.escape
}
