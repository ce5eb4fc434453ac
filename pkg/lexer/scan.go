package lexer

import "github.com/yaklabco/xwikiparse/pkg/token"

// Scan tokenizes src from state without a parser. Pushed states are
// followed, and the marker that closes a verbatim block, a macro body or
// a group returns to the state saved by the push. The parser re-lexes
// some regions in other states, so Scan is a diagnostic view of the
// token stream rather than the exact sequence a parse consumes.
func Scan(src string, state token.State, opts ...Option) []token.Token {
	l := New(src, opts...)

	var saved []token.State
	var out []token.Token

	pop := func() token.State {
		n := len(saved)
		if n == 0 {
			return token.StateDefault
		}
		prev := saved[n-1]
		saved = saved[:n-1]
		if prev == token.StateLineStart {
			return token.StateDefault
		}
		return prev
	}

	// Every token consumes at least one code point.
	for range len(src) + 1 {
		tok, tr := l.Next(state)
		if tok.Kind == token.EOF {
			break
		}
		out = append(out, tok)

		switch {
		case tr.Op == token.Push:
			saved = append(saved, state)
			state = tr.State
		case tok.Kind == token.VerbatimClose && state == token.StateVerbatim,
			tok.Kind == token.MacroClose && state == token.StateMacro:
			state = pop()
		case tok.Kind == token.GroupClose && len(saved) > 0:
			state = pop()
		default:
			state = tr.Apply(state)
		}
	}

	return out
}
