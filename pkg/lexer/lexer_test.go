package lexer_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/xwikiparse/pkg/lexer"
	"github.com/yaklabco/xwikiparse/pkg/token"
)

type lexed struct {
	Kind token.Kind
	Text string
}

// lexAll drives the lexer the way a parser would, minus block structure:
// pushes are followed, and the closing marker of a raw block returns to the
// state that was active before it.
func lexAll(t *testing.T, src string, state token.State) []lexed {
	t.Helper()

	l := lexer.New(src)
	var saved []token.State
	var out []lexed

	for range len(src) + 1 {
		tok, tr := l.Next(state)
		if tok.Kind == token.EOF {
			return out
		}
		out = append(out, lexed{Kind: tok.Kind, Text: tok.Text})

		switch {
		case tr.Op == token.Push:
			saved = append(saved, state)
			state = tr.State
		case (tok.Kind == token.VerbatimClose && state == token.StateVerbatim) ||
			(tok.Kind == token.MacroClose && state == token.StateMacro):
			state = token.StateDefault
			if n := len(saved); n > 0 {
				state = saved[n-1]
				saved = saved[:n-1]
			}
			if state == token.StateLineStart {
				state = token.StateDefault
			}
		default:
			state = tr.Apply(state)
		}
	}

	t.Fatalf("lexer made no progress on %q", src)
	return nil
}

func TestNext_LineStart(t *testing.T) {
	t.Parallel()

	type testCase struct {
		name  string
		input string
		want  []lexed
	}

	tests := []testCase{
		{
			name:  "header",
			input: "= Title =",
			want: []lexed{
				{token.HeaderBegin, "= "},
				{token.Word, "Title"},
				{token.HeaderEnd, " ="},
			},
		},
		{
			name:  "header without closing marker",
			input: "=== Deep",
			want:  []lexed{{token.HeaderBegin, "=== "}, {token.Word, "Deep"}},
		},
		{
			name:  "list marker beats bold at line start",
			input: "** b",
			want:  []lexed{{token.ListMarker, "** "}, {token.Word, "b"}},
		},
		{
			name:  "bold at line start",
			input: "**b**",
			want:  []lexed{{token.Bold, "**"}, {token.Word, "b"}, {token.Bold, "**"}},
		},
		{
			name:  "ordered marker",
			input: "11. x",
			want:  []lexed{{token.ListMarker, "11. "}, {token.Word, "x"}},
		},
		{
			name:  "number is not a marker",
			input: "1.5",
			want:  []lexed{{token.Word, "1"}, {token.Special, "."}, {token.Word, "5"}},
		},
		{
			name:  "horizontal line beats strikeout",
			input: "-----\n--s--",
			want: []lexed{
				{token.HorizontalLine, "-----"},
				{token.Newline, "\n"},
				{token.Strikeout, "--"},
				{token.Word, "s"},
				{token.Strikeout, "--"},
			},
		},
		{
			name:  "table row",
			input: "|=H|c",
			want: []lexed{
				{token.TableHeaderCell, "|="},
				{token.Word, "H"},
				{token.TableCell, "|"},
				{token.Word, "c"},
			},
		},
		{
			name:  "quote",
			input: ">> q",
			want:  []lexed{{token.QuoteMarker, ">> "}, {token.Word, "q"}},
		},
		{
			name:  "empty line",
			input: "  \r\nx",
			want:  []lexed{{token.EmptyLine, "  \r\n"}, {token.Word, "x"}},
		},
		{
			name:  "markers only at line start",
			input: "a * b",
			want: []lexed{
				{token.Word, "a"},
				{token.Space, " "},
				{token.Special, "*"},
				{token.Space, " "},
				{token.Word, "b"},
			},
		},
		{
			name:  "parameters keep line start",
			input: `(% class="x" %)* item`,
			want: []lexed{
				{token.Parameters, `(% class="x" %)`},
				{token.ListMarker, "* "},
				{token.Word, "item"},
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, lexAll(t, tc.input, token.StateLineStart))
		})
	}
}

func TestNext_Inline(t *testing.T) {
	t.Parallel()

	type testCase struct {
		name  string
		input string
		want  []lexed
	}

	tests := []testCase{
		{
			name:  "url beats italic",
			input: "see http://xwiki.org.",
			want: []lexed{
				{token.Word, "see"},
				{token.Space, " "},
				{token.FreeStandingURL, "http://xwiki.org"},
				{token.Special, "."},
			},
		},
		{
			name:  "italic",
			input: "//i//",
			want:  []lexed{{token.Italic, "//"}, {token.Word, "i"}, {token.Italic, "//"}},
		},
		{
			name:  "link",
			input: "[[Label|Page?x=1#frag]]",
			want:  []lexed{{token.Link, "[[Label|Page?x=1#frag]]"}},
		},
		{
			name:  "image before link",
			input: "[[image:a.png]]",
			want:  []lexed{{token.Image, "[[image:a.png]]"}},
		},
		{
			name:  "nested image in label",
			input: "[[[[image:a.png]]>>Page]]!",
			want:  []lexed{{token.Link, "[[[[image:a.png]]>>Page]]"}, {token.Special, "!"}},
		},
		{
			name:  "unterminated link runs to the end",
			input: "[[Page\nmore",
			want:  []lexed{{token.Link, "[[Page\nmore"}},
		},
		{
			name:  "escaped close inside link",
			input: "[[a~]]b]]",
			want:  []lexed{{token.Link, "[[a~]]b]]"}},
		},
		{
			name:  "escape",
			input: "~**",
			want:  []lexed{{token.Escaped, "~*"}, {token.Special, "*"}},
		},
		{
			name:  "dangling escape",
			input: "a~",
			want:  []lexed{{token.Word, "a"}, {token.Special, "~"}},
		},
		{
			name:  "line break",
			input: `a\\b`,
			want:  []lexed{{token.Word, "a"}, {token.LineBreak, `\\`}, {token.Word, "b"}},
		},
		{
			name:  "parameters and reset",
			input: `(% style="a%)b" %)x(%%)`,
			want: []lexed{
				{token.Parameters, `(% style="a%)b" %)`},
				{token.Word, "x"},
				{token.ParametersReset, "(%%)"},
			},
		},
		{
			name:  "self closing macro",
			input: "{{toc/}}",
			want:  []lexed{{token.MacroSelfClose, "{{toc/}}"}},
		},
		{
			name:  "macro with body",
			input: `{{code lang="x}}"}}a{b{{/code}}`,
			want: []lexed{
				{token.MacroOpen, `{{code lang="x}}"}}`},
				{token.MacroText, "a"},
				{token.MacroText, "{"},
				{token.MacroText, "b"},
				{token.MacroClose, "{{/code}}"},
			},
		},
		{
			name:  "not a macro",
			input: "{{ x}}",
			want: []lexed{
				{token.Special, "{"},
				{token.Special, "{"},
				{token.Space, " "},
				{token.Word, "x"},
				{token.Special, "}"},
				{token.Special, "}"},
			},
		},
		{
			name:  "verbatim",
			input: "{{{**raw**}}}x",
			want: []lexed{
				{token.VerbatimOpen, "{{{"},
				{token.VerbatimText, "**raw**"},
				{token.VerbatimClose, "}}}"},
				{token.Word, "x"},
			},
		},
		{
			name:  "free standing image",
			input: "image:cat.png",
			want:  []lexed{{token.FreeStandingImage, "image:cat.png"}},
		},
		{
			name:  "groups",
			input: "((()))",
			want:  []lexed{{token.GroupOpen, "((("}, {token.GroupClose, ")))"}},
		},
		{
			name:  "formats",
			input: "__^^,,##",
			want: []lexed{
				{token.Underline, "__"},
				{token.Superscript, "^^"},
				{token.Subscript, ",,"},
				{token.Monospace, "##"},
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, lexAll(t, tc.input, token.StateDefault))
		})
	}
}

func TestNext_HeaderEnd(t *testing.T) {
	t.Parallel()

	l := lexer.New(" == \nx")
	tok, tr := l.Next(token.StateHeader)
	assert.Equal(t, token.HeaderEnd, tok.Kind)
	assert.Equal(t, " == ", tok.Text)
	assert.Equal(t, token.Stay, tr.Op)

	l = lexer.New(" = b")
	tok, _ = l.Next(token.StateHeader)
	assert.Equal(t, token.Space, tok.Kind, "'=' followed by more text does not end a header")
}

func TestNext_InlineStateKeepsNewlines(t *testing.T) {
	t.Parallel()

	l := lexer.New("a\n* b")
	_, _ = l.Next(token.StateInline)
	tok, tr := l.Next(token.StateInline)
	require.Equal(t, token.Newline, tok.Kind)
	assert.Equal(t, token.StateInline, tr.Apply(token.StateInline))

	tok, _ = l.Next(token.StateInline)
	assert.Equal(t, token.Special, tok.Kind)
}

func TestNext_Positions(t *testing.T) {
	t.Parallel()

	l := lexer.New("ab\r\ncd")
	tok, _ := l.Next(token.StateDefault)
	assert.Equal(t, 1, tok.Line())
	assert.Equal(t, 1, tok.Column())

	tok, tr := l.Next(token.StateDefault)
	require.Equal(t, token.Newline, tok.Kind)
	assert.Equal(t, "\r\n", tok.Text)

	tok, _ = l.Next(tr.Apply(token.StateDefault))
	assert.Equal(t, 2, tok.Line())
	assert.Equal(t, 1, tok.Column())
	assert.Equal(t, 4, tok.Pos.Offset)
	assert.Equal(t, 6, tok.End.Offset)
}

func TestNext_EOF(t *testing.T) {
	t.Parallel()

	l := lexer.New("")
	for _, state := range token.States() {
		tok, tr := l.Next(state)
		assert.Equal(t, token.EOF, tok.Kind)
		assert.Equal(t, token.Stay, tr.Op)
	}
}

func TestNext_IdempotentRelex(t *testing.T) {
	t.Parallel()

	src := "= H =\n* [[a|b]] **x** {{m p=1}}y{{/m}} {{{v}}} http://a.b\n|c|d"
	for _, state := range token.States() {
		l := lexer.New(src)
		for !l.AtEnd() {
			m := l.Mark()
			first, tr1 := l.Next(state)
			end := l.Mark()

			l.Reset(m)
			second, tr2 := l.Next(state)

			require.Equal(t, first, second, "state %s", state)
			require.Equal(t, tr1, tr2, "state %s", state)
			l.Reset(end)
		}
	}
}

func TestNext_MaxLookahead(t *testing.T) {
	t.Parallel()

	src := "{{m p=\"" + strings.Repeat("x", 100) + "\"}}"

	tok, _ := lexer.New(src).Next(token.StateDefault)
	assert.Equal(t, token.MacroOpen, tok.Kind)

	tok, _ = lexer.New(src, lexer.WithMaxLookahead(16)).Next(token.StateDefault)
	assert.Equal(t, token.Special, tok.Kind, "marker longer than the lookahead bound is not a macro")
}

func TestNext_URLCandidateWords(t *testing.T) {
	t.Parallel()

	src := strings.Repeat("http ", 64000)

	start := time.Now()
	toks := lexAll(t, src, token.StateDefault)
	assert.Less(t, time.Since(start), 3*time.Second)

	words := 0
	for _, tok := range toks {
		require.NotEqual(t, token.FreeStandingURL, tok.Kind)
		if tok.Text == "http" {
			words++
		}
	}
	assert.Equal(t, 64000, words)
}

func TestNext_URLEndsAtWhitespace(t *testing.T) {
	t.Parallel()

	toks := lexAll(t, "mailto:a@b.org\nimage:x.png y", token.StateDefault)
	require.GreaterOrEqual(t, len(toks), 3)
	assert.Equal(t, lexed{token.FreeStandingURL, "mailto:a@b.org"}, toks[0])
	assert.Equal(t, lexed{token.FreeStandingImage, "image:x.png"}, toks[2])
}

func TestNext_CustomEscape(t *testing.T) {
	t.Parallel()

	l := lexer.New(`\*`, lexer.WithEscape('\\'))
	assert.Equal(t, '\\', l.Escape())

	tok, _ := l.Next(token.StateDefault)
	assert.Equal(t, token.Escaped, tok.Kind)
	assert.Equal(t, `\*`, tok.Text)
}

func TestDefaultTable_EveryStateHasRules(t *testing.T) {
	t.Parallel()

	table := lexer.DefaultTable()
	for _, state := range token.States() {
		assert.NotEmpty(t, table.Rules(state), "state %s", state)
		assert.NotEmpty(t, table.Fallback(state).Pattern, "state %s", state)
	}
}
