package lexer

import (
	"sync"

	"github.com/yaklabco/xwikiparse/pkg/token"
)

// matcher reports how many code points it accepts at the current position,
// or -1. It must not consume input.
type matcher func(l *Lexer) int

// Rule is one candidate pattern of a lexical state.
type Rule struct {
	// Kind is the kind of token produced.
	Kind token.Kind

	// Pattern is a human-readable description of what the rule accepts.
	Pattern string

	// Next is the transition requested when the rule wins.
	Next token.Transition

	match matcher
}

type stateRules struct {
	rules    []Rule
	fallback Rule
}

// Table holds the ordered rule lists of every lexical state.
type Table struct {
	states map[token.State]*stateRules
}

// Rules returns the rules of state in precedence order.
func (t *Table) Rules(state token.State) []Rule {
	return t.state(state).rules
}

// Fallback returns the rule used when nothing else matches in state.
func (t *Table) Fallback(state token.State) Rule {
	return t.state(state).fallback
}

func (t *Table) state(s token.State) *stateRules {
	if st, ok := t.states[s]; ok {
		return st
	}
	return t.states[token.StateDefault]
}

//nolint:gochecknoglobals // built once, read-only afterwards
var (
	defaultTableOnce sync.Once
	defaultTable     *Table
)

// DefaultTable returns the XWiki 2.1 rule tables.
func DefaultTable() *Table {
	defaultTableOnce.Do(func() {
		defaultTable = buildTable()
	})
	return defaultTable
}

func rule(kind token.Kind, pattern string, m matcher) Rule {
	return Rule{Kind: kind, Pattern: pattern, match: m}
}

func (r Rule) then(t token.Transition) Rule {
	r.Next = t
	return r
}

func goTo(s token.State) token.Transition {
	return token.Transition{Op: token.Goto, State: s}
}

func push(s token.State) token.Transition {
	return token.Transition{Op: token.Push, State: s}
}

func buildTable() *Table {
	special := rule(token.Special, "any single character", nil)

	table := &Table{states: map[token.State]*stateRules{
		token.StateDefault: {
			rules:    inlineRules(),
			fallback: special,
		},
		token.StateInline: {
			rules:    fragmentRules(),
			fallback: special,
		},
		token.StateTable: {
			rules: append([]Rule{
				rule(token.TableHeaderCell, `("|=" | "!=") [ \t]*`, matchHeaderCell(false)),
				rule(token.TableCell, `"|" [ \t]*`, matchCell(false)),
			}, inlineRules()...),
			fallback: special,
		},
		token.StateHeader: {
			rules: append([]Rule{
				rule(token.HeaderEnd, `[ \t]* "="+ [ \t]* <end of line>`, matchHeaderEnd),
			}, inlineRules()...),
			fallback: special,
		},
		token.StateLineStart: {
			rules:    lineStartRules(),
			fallback: special.then(goTo(token.StateDefault)),
		},
		token.StateVerbatim: {
			rules: []Rule{
				rule(token.VerbatimOpen, `"{{{"`, literal("{{{")),
				rule(token.VerbatimClose, `"}}}"`, literal("}}}")),
				rule(token.VerbatimText, `[^{}]+`, runOf(notIn('{', '}'))),
			},
			fallback: rule(token.VerbatimText, "any single character", nil),
		},
		token.StateMacro: {
			rules: []Rule{
				rule(token.MacroClose, `"{{/" name "}}"`, matchMacroClose),
				rule(token.MacroSelfClose, `"{{" name params "/}}"`, matchMacroMarker(true)),
				rule(token.MacroOpen, `"{{" name params "}}"`, matchMacroMarker(false)),
				rule(token.MacroText, `[^{]+`, runOf(notIn('{'))),
			},
			fallback: rule(token.MacroText, "any single character", nil),
		},
	}}

	return table
}

// inlineRules are shared by every state that carries formatted text.
func inlineRules() []Rule {
	return []Rule{
		rule(token.Escaped, `escape <char>`, matchEscaped),
		rule(token.LineBreak, `"\\"`, literal(`\\`)),
		rule(token.Image, `"[[image:" ... "]]"`, matchReference("image:")),
		rule(token.Attachment, `"[[attach:" ... "]]"`, matchReference("attach:")),
		rule(token.Link, `"[[" ... "]]"`, matchReference("")),
		rule(token.VerbatimOpen, `"{{{"`, literal("{{{")).then(push(token.StateVerbatim)),
		rule(token.MacroSelfClose, `"{{" name params "/}}"`, matchMacroMarker(true)),
		rule(token.MacroOpen, `"{{" name params "}}"`, matchMacroMarker(false)).then(push(token.StateMacro)),
		rule(token.MacroClose, `"{{/" name "}}"`, matchMacroClose),
		rule(token.ParametersReset, `"(%%)"`, literal("(%%)")),
		rule(token.Parameters, `"(%" params "%)"`, matchParameters),
		rule(token.GroupOpen, `"((("`, literal("(((")).then(push(token.StateLineStart)),
		rule(token.GroupClose, `")))"`, literal(")))")),
		rule(token.Bold, `"**"`, literal("**")),
		rule(token.Italic, `"//"`, literal("//")),
		rule(token.Underline, `"__"`, literal("__")),
		rule(token.Strikeout, `"--"`, literal("--")),
		rule(token.Superscript, `"^^"`, literal("^^")),
		rule(token.Subscript, `",,"`, literal(",,")),
		rule(token.Monospace, `"##"`, literal("##")),
		rule(token.FreeStandingURL, `scheme "://" ...`, matchURL),
		rule(token.FreeStandingImage, `"image:" ...`, matchFreeImage),
		rule(token.Newline, `"\r\n" | "\r" | "\n"`, matchNewline).then(goTo(token.StateLineStart)),
		rule(token.Word, `letters and digits`, runOf(isWordRune)),
		rule(token.Space, `[ \t]+`, runOf(isBlank)),
	}
}

// fragmentRules are the inline rules without block-level escapes: line
// breaks stay in the fragment and groups are plain text.
func fragmentRules() []Rule {
	base := inlineRules()
	out := make([]Rule, 0, len(base))
	for _, r := range base {
		switch r.Kind {
		case token.GroupOpen, token.GroupClose:
			continue
		case token.Newline:
			r.Next = token.Transition{}
		}
		out = append(out, r)
	}
	return out
}

// lineStartRules put the line-structural markers ahead of the inline rules.
// Inline rules that would stay in LINE_START move on to DEFAULT instead, so
// markers are only recognised as the first token of a line. Parameters stay
// so that a following marker still counts as the start of the line.
func lineStartRules() []Rule {
	rules := []Rule{
		rule(token.EmptyLine, `[ \t]* <line break>`, matchEmptyLine),
		rule(token.HorizontalLine, `[ \t]* "----" "-"* [ \t]* <end of line>`, matchHorizontalLine).
			then(goTo(token.StateDefault)),
		rule(token.HeaderBegin, `[ \t]* "="+ [ \t]*`, matchHeaderBegin).then(goTo(token.StateHeader)),
		rule(token.ListMarker, `[ \t]* [*1;:]+ "."? [ \t]+`, matchListMarker).then(goTo(token.StateDefault)),
		rule(token.QuoteMarker, `">"+ [ \t]*`, matchQuoteMarker).then(goTo(token.StateDefault)),
		rule(token.TableHeaderCell, `[ \t]* ("|=" | "!=") [ \t]*`, matchHeaderCell(true)).
			then(goTo(token.StateTable)),
		rule(token.TableCell, `[ \t]* "|" [ \t]*`, matchCell(true)).then(goTo(token.StateTable)),
	}

	for _, r := range inlineRules() {
		switch {
		case r.Kind == token.Parameters:
		case r.Next.Op == token.Stay:
			r.Next = goTo(token.StateDefault)
		}
		rules = append(rules, r)
	}

	return rules
}
