package parser_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/xwikiparse/pkg/linktarget"
	"github.com/yaklabco/xwikiparse/pkg/listener"
	"github.com/yaklabco/xwikiparse/pkg/macro"
	"github.com/yaklabco/xwikiparse/pkg/params"
	"github.com/yaklabco/xwikiparse/pkg/parser"
)

// parse runs src through a validating recorder and returns the events.
func parse(t *testing.T, src string, opts ...parser.Option) []listener.Event {
	t.Helper()

	rec := listener.NewRecorder()
	v := listener.NewValidator(rec)
	require.NoError(t, parser.Parse(src, v, opts...))
	require.NoError(t, v.Err(), "events:\n%s", rec)
	return rec.Events()
}

// document records the events of body wrapped in a document.
func document(body func(l listener.Listener)) []listener.Event {
	rec := listener.NewRecorder()
	rec.BeginDocument()
	body(rec)
	rec.EndDocument()
	return rec.Events()
}

// paragraph records a document holding one paragraph.
func paragraph(body func(l listener.Listener)) []listener.Event {
	return document(func(l listener.Listener) {
		l.BeginParagraph(nil)
		body(l)
		l.EndParagraph()
	})
}

func ptr(s string) *string { return &s }

func assertEvents(t *testing.T, want, got []listener.Event) {
	t.Helper()
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s\ngot:\n%s", diff, listener.Trace(got))
	}
}

func TestParse_Blocks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want []listener.Event
	}{
		{
			name: "empty input",
			src:  "",
			want: document(func(listener.Listener) {}),
		},
		{
			name: "header",
			src:  "= Title =",
			want: document(func(l listener.Listener) {
				l.BeginHeader(1, nil)
				l.OnText("Title")
				l.EndHeader(1)
			}),
		},
		{
			name: "header level is capped",
			src:  "======= deep",
			want: document(func(l listener.Listener) {
				l.BeginHeader(6, nil)
				l.OnText("deep")
				l.EndHeader(6)
			}),
		},
		{
			name: "header then paragraph",
			src:  "== a ==\nb",
			want: document(func(l listener.Listener) {
				l.BeginHeader(2, nil)
				l.OnText("a")
				l.EndHeader(2)
				l.BeginParagraph(nil)
				l.OnText("b")
				l.EndParagraph()
			}),
		},
		{
			name: "paragraph continues",
			src:  "a\nb",
			want: paragraph(func(l listener.Listener) {
				l.OnText("a")
				l.OnNewLine()
				l.OnText("b")
			}),
		},
		{
			name: "blank lines separate paragraphs",
			src:  "a\n\n\nb",
			want: document(func(l listener.Listener) {
				l.BeginParagraph(nil)
				l.OnText("a")
				l.EndParagraph()
				l.OnEmptyLines(1)
				l.BeginParagraph(nil)
				l.OnText("b")
				l.EndParagraph()
			}),
		},
		{
			name: "leading blank lines",
			src:  "\n\na",
			want: document(func(l listener.Listener) {
				l.OnEmptyLines(2)
				l.BeginParagraph(nil)
				l.OnText("a")
				l.EndParagraph()
			}),
		},
		{
			name: "nested list",
			src:  "* a\n** b\n* c",
			want: document(func(l listener.Listener) {
				l.BeginList(false, nil)
				l.BeginListItem(nil)
				l.OnText("a")
				l.BeginList(false, nil)
				l.BeginListItem(nil)
				l.OnText("b")
				l.EndListItem()
				l.EndList(false)
				l.EndListItem()
				l.BeginListItem(nil)
				l.OnText("c")
				l.EndListItem()
				l.EndList(false)
			}),
		},
		{
			name: "ordered lists and definitions",
			src:  "1. one\n11. two\n; term\n: def",
			want: document(func(l listener.Listener) {
				l.BeginList(true, nil)
				l.BeginListItem(nil)
				l.OnText("one")
				l.BeginList(true, nil)
				l.BeginListItem(nil)
				l.OnText("two")
				l.EndListItem()
				l.EndList(true)
				l.EndListItem()
				l.EndList(true)
				l.BeginDefinitionList(nil)
				l.BeginDefinitionTerm()
				l.OnText("term")
				l.EndDefinitionTerm()
				l.BeginDefinitionDescription()
				l.OnText("def")
				l.EndDefinitionDescription()
				l.EndDefinitionList()
			}),
		},
		{
			name: "list item continues on next line",
			src:  "* a\n*b",
			want: document(func(l listener.Listener) {
				l.BeginList(false, nil)
				l.BeginListItem(nil)
				l.OnText("a")
				l.OnNewLine()
				l.OnText("*b")
				l.EndListItem()
				l.EndList(false)
			}),
		},
		{
			name: "table",
			src:  "|=a|b\n|c|d",
			want: document(func(l listener.Listener) {
				l.BeginTable(nil)
				l.BeginTableRow(nil)
				l.BeginTableCell(true, nil)
				l.OnText("a")
				l.EndTableCell()
				l.BeginTableCell(false, nil)
				l.OnText("b")
				l.EndTableCell()
				l.EndTableRow()
				l.BeginTableRow(nil)
				l.BeginTableCell(false, nil)
				l.OnText("c")
				l.EndTableCell()
				l.BeginTableCell(false, nil)
				l.OnText("d")
				l.EndTableCell()
				l.EndTableRow()
				l.EndTable()
			}),
		},
		{
			name: "cell parameters and trailing bar",
			src:  `|(% class="x" %)a|b|`,
			want: document(func(l listener.Listener) {
				l.BeginTable(nil)
				l.BeginTableRow(nil)
				l.BeginTableCell(false, params.Params{"class": "x"})
				l.OnText("a")
				l.EndTableCell()
				l.BeginTableCell(false, nil)
				l.OnText("b")
				l.EndTableCell()
				l.EndTableRow()
				l.EndTable()
			}),
		},
		{
			name: "cell continues on next line",
			src:  "|a\nb",
			want: document(func(l listener.Listener) {
				l.BeginTable(nil)
				l.BeginTableRow(nil)
				l.BeginTableCell(false, nil)
				l.OnText("a")
				l.OnNewLine()
				l.OnText("b")
				l.EndTableCell()
				l.EndTableRow()
				l.EndTable()
			}),
		},
		{
			name: "quotations",
			src:  "> a\n>> b\nc",
			want: document(func(l listener.Listener) {
				l.BeginQuotation(nil)
				l.BeginQuotationLine()
				l.OnText("a")
				l.EndQuotationLine()
				l.BeginQuotation(nil)
				l.BeginQuotationLine()
				l.OnText("b")
				l.EndQuotationLine()
				l.EndQuotation()
				l.EndQuotation()
				l.BeginParagraph(nil)
				l.OnText("c")
				l.EndParagraph()
			}),
		},
		{
			name: "horizontal line with parameters",
			src:  "(% class=\"sep\" %)\n----\ntext",
			want: document(func(l listener.Listener) {
				l.OnHorizontalLine(params.Params{"class": "sep"})
				l.BeginParagraph(nil)
				l.OnText("text")
				l.EndParagraph()
			}),
		},
		{
			name: "paragraph parameters",
			src:  `(% class="x" %)para`,
			want: document(func(l listener.Listener) {
				l.BeginParagraph(params.Params{"class": "x"})
				l.OnText("para")
				l.EndParagraph()
			}),
		},
		{
			name: "list parameters go to the list",
			src:  "(% class=\"todo\" %)\n* a",
			want: document(func(l listener.Listener) {
				l.BeginList(false, params.Params{"class": "todo"})
				l.BeginListItem(nil)
				l.OnText("a")
				l.EndListItem()
				l.EndList(false)
			}),
		},
		{
			name: "group",
			src:  "(((\n= H =\n)))",
			want: document(func(l listener.Listener) {
				l.BeginGroup(nil)
				l.BeginHeader(1, nil)
				l.OnText("H")
				l.EndHeader(1)
				l.EndGroup()
			}),
		},
		{
			name: "group inside list item",
			src:  "* a (((b))) c",
			want: document(func(l listener.Listener) {
				l.BeginList(false, nil)
				l.BeginListItem(nil)
				l.OnText("a")
				l.BeginGroup(nil)
				l.BeginParagraph(nil)
				l.OnText("b")
				l.EndParagraph()
				l.EndGroup()
				l.OnText("c")
				l.EndListItem()
				l.EndList(false)
			}),
		},
		{
			name: "stray group close is text",
			src:  "a )))",
			want: paragraph(func(l listener.Listener) {
				l.OnText("a )))")
			}),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assertEvents(t, tc.want, parse(t, tc.src))
		})
	}
}

func TestParse_Inline(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		opts []parser.Option
		want []listener.Event
	}{
		{
			name: "bold",
			src:  "**a**",
			want: paragraph(func(l listener.Listener) {
				l.BeginFormat(listener.FormatBold, nil)
				l.OnText("a")
				l.EndFormat(listener.FormatBold)
			}),
		},
		{
			name: "crossed formats are reopened",
			src:  "**a //b** c//",
			want: paragraph(func(l listener.Listener) {
				l.BeginFormat(listener.FormatBold, nil)
				l.OnText("a ")
				l.BeginFormat(listener.FormatItalic, nil)
				l.OnText("b")
				l.EndFormat(listener.FormatItalic)
				l.EndFormat(listener.FormatBold)
				l.BeginFormat(listener.FormatItalic, nil)
				l.OnText(" c")
				l.EndFormat(listener.FormatItalic)
			}),
		},
		{
			name: "unclosed format ends with paragraph",
			src:  "__a",
			want: paragraph(func(l listener.Listener) {
				l.BeginFormat(listener.FormatUnderline, nil)
				l.OnText("a")
				l.EndFormat(listener.FormatUnderline)
			}),
		},
		{
			name: "inline parameters and reset",
			src:  `a (% class="x" %)b(%%) c`,
			want: paragraph(func(l listener.Listener) {
				l.OnText("a ")
				l.BeginFormat(listener.FormatNone, params.Params{"class": "x"})
				l.OnText("b")
				l.EndFormat(listener.FormatNone)
				l.OnText(" c")
			}),
		},
		{
			name: "escape",
			src:  "~**a",
			want: paragraph(func(l listener.Listener) {
				l.OnText("**a")
			}),
		},
		{
			name: "custom escape",
			src:  "$**a",
			opts: []parser.Option{parser.WithEscape('$')},
			want: paragraph(func(l listener.Listener) {
				l.OnText("**a")
			}),
		},
		{
			name: "line break",
			src:  `a\\b`,
			want: paragraph(func(l listener.Listener) {
				l.OnText("a")
				l.OnNewLine()
				l.OnText("b")
			}),
		},
		{
			name: "link with label query and anchor",
			src:  "[[Label|Page?x=1#frag]]",
			want: paragraph(func(l listener.Listener) {
				l.OnReference(linktarget.Target{
					Label:       "Label",
					Reference:   "Page",
					QueryString: "x=1",
					Anchor:      "frag",
					Type:        linktarget.TypeDocument,
				}, false, false)
			}),
		},
		{
			name: "image with parameters",
			src:  `[[image:logo.png||width="10"]]`,
			want: paragraph(func(l listener.Listener) {
				l.OnReference(linktarget.Target{
					Reference:  "logo.png",
					Parameters: params.Params{"width": "10"},
					Type:       linktarget.TypeImage,
				}, true, false)
			}),
		},
		{
			name: "malformed target falls back",
			src:  "[[abc~]]",
			want: paragraph(func(l listener.Listener) {
				l.OnReference(linktarget.Target{Reference: "abc~", Type: linktarget.TypeDocument}, false, false)
			}),
		},
		{
			name: "free standing url",
			src:  "see http://x.org/a.",
			want: paragraph(func(l listener.Listener) {
				l.OnText("see ")
				l.OnReference(linktarget.Target{Reference: "http://x.org/a", Type: linktarget.TypeURL}, false, true)
				l.OnText(".")
			}),
		},
		{
			name: "free standing image",
			src:  "image:logo.png",
			want: paragraph(func(l listener.Listener) {
				l.OnReference(linktarget.Target{Reference: "logo.png", Type: linktarget.TypeImage}, true, true)
			}),
		},
		{
			name: "inline verbatim",
			src:  "a {{{b}}} c",
			want: paragraph(func(l listener.Listener) {
				l.OnText("a ")
				l.OnVerbatim("b", true, nil)
				l.OnText(" c")
			}),
		},
		{
			name: "inline macro",
			src:  "a {{b/}} c",
			want: paragraph(func(l listener.Listener) {
				l.OnText("a ")
				l.OnMacro(macro.Invocation{Name: "b", Inline: true})
				l.OnText(" c")
			}),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assertEvents(t, tc.want, parse(t, tc.src, tc.opts...))
		})
	}
}

func TestParse_Bodies(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want []listener.Event
	}{
		{
			name: "block macro",
			src:  "{{note}}hi{{/note}}",
			want: document(func(l listener.Listener) {
				l.OnMacro(macro.Invocation{Name: "note", Content: ptr("hi")})
			}),
		},
		{
			name: "unterminated macro runs to the end",
			src:  "{{code}}unfinished",
			want: document(func(l listener.Listener) {
				l.OnMacro(macro.Invocation{Name: "code", Content: ptr("unfinished")})
			}),
		},
		{
			name: "nested macros of the same name",
			src:  `{{box title="t"}}x{{box}}y{{/box}}z{{/box}}`,
			want: document(func(l listener.Listener) {
				l.OnMacro(macro.Invocation{
					Name:       "box",
					Parameters: params.Params{"title": "t"},
					Content:    ptr("x{{box}}y{{/box}}z"),
				})
			}),
		},
		{
			name: "block verbatim keeps markup",
			src:  "{{{**x**}}}\nnext",
			want: document(func(l listener.Listener) {
				l.OnVerbatim("**x**", false, nil)
				l.BeginParagraph(nil)
				l.OnText("next")
				l.EndParagraph()
			}),
		},
		{
			name: "nested verbatim",
			src:  "{{{a{{{b}}}c}}}",
			want: document(func(l listener.Listener) {
				l.OnVerbatim("a{{{b}}}c", false, nil)
			}),
		},
		{
			name: "macro after text is inline",
			src:  "text {{info}}x{{/info}}",
			want: paragraph(func(l listener.Listener) {
				l.OnText("text ")
				l.OnMacro(macro.Invocation{Name: "info", Content: ptr("x"), Inline: true})
			}),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assertEvents(t, tc.want, parse(t, tc.src))
		})
	}
}

func TestParse_DetectLanguage(t *testing.T) {
	t.Parallel()

	src := "{{code}}package main\n\nfunc main() {}\n{{/code}}"

	events := parse(t, src, parser.WithDetectLanguage(true))
	require.Len(t, events, 3)
	require.NotNil(t, events[1].Macro)
	lang, ok := events[1].Macro.Parameters.Get("language")
	require.True(t, ok)
	assert.Equal(t, "go", lang)

	events = parse(t, src)
	require.NotNil(t, events[1].Macro)
	assert.Empty(t, events[1].Macro.Parameters)

	events = parse(t, `{{code language="text"}}package main{{/code}}`, parser.WithDetectLanguage(true))
	lang, _ = events[1].Macro.Parameters.Get("language")
	assert.Equal(t, "text", lang)
}

func TestParseInline(t *testing.T) {
	t.Parallel()

	rec := listener.NewRecorder()
	v := listener.NewValidator(rec, listener.AsFragment())
	require.NoError(t, parser.New(v).ParseInline("a **b**\nc"))
	require.NoError(t, v.Err())

	want := []listener.Event{
		{Type: listener.EventText, Text: "a "},
		{Type: listener.EventBeginFormat, Format: listener.FormatBold},
		{Type: listener.EventText, Text: "b"},
		{Type: listener.EventEndFormat, Format: listener.FormatBold},
		{Type: listener.EventNewLine},
		{Type: listener.EventText, Text: "c"},
	}
	assertEvents(t, want, rec.Events())
}

func TestParseInline_NoBlocks(t *testing.T) {
	t.Parallel()

	rec := listener.NewRecorder()
	require.NoError(t, parser.New(rec).ParseInline("= a =\n* b\n(((c)))"))

	for _, e := range rec.Events() {
		assert.Contains(t, []listener.EventType{listener.EventText, listener.EventNewLine}, e.Type, "%v", e)
	}
}

func TestParseContext_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rec := listener.NewRecorder()
	v := listener.NewValidator(rec)
	err := parser.New(v).ParseContext(ctx, "= a =")

	require.ErrorIs(t, err, context.Canceled)
	require.NoError(t, v.Err())
	assertEvents(t, document(func(listener.Listener) {}), rec.Events())
}

func TestParseContext_CancelledMidway(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	texts := 0
	rec := listener.NewRecorder()
	stop := listener.Func(func(e listener.Event) {
		if e.Type == listener.EventText {
			texts++
			if texts == 10 {
				cancel()
			}
		}
	})
	v := listener.NewValidator(listener.Tee(rec, stop))

	src := strings.Repeat("* item **bold**\n", 2000)
	err := parser.New(v).ParseContext(ctx, src)

	require.ErrorIs(t, err, context.Canceled)
	require.NoError(t, v.Err())
	assert.Less(t, texts, 2000)

	events := rec.Events()
	assert.Equal(t, listener.EventEndDocument, events[len(events)-1].Type)
}

func TestParse_NilListener(t *testing.T) {
	t.Parallel()

	require.NoError(t, parser.New(nil).Parse("* a\n|b|c"))
}

func TestParse_WellNested(t *testing.T) {
	t.Parallel()

	inputs := []string{
		" ", "\n\n", "**", "[[", "{{", "{{{", "(((", ")))", "(%", "|", "* ", "> ", "= ", "----",
		"{{a}}{{a}}", "{{/a}}", "(((* a\n|b|c\n> d)))", "**a\n\nb**", "|**a (((b))) c**|d",
		"= a **b\nc** =", "; a\n: b (((\n* c\n)))\n:: d", "(% a=\"1\" %)(% b=\"2\" %)(((\nx\n)))",
		"|a|(((\n|b|c\n)))|d", "> a (((b\n\nc)))", "((((((x)))", "{{x}}{{{y}}}{{/x}}",
		"**//__--^^,,##x", "(%%)(%%)", "[[a>>b||c]]", "~", "a~", "\r\n\r\n\ra",
	}

	for _, src := range inputs {
		t.Run(src, func(t *testing.T) {
			t.Parallel()

			events := parse(t, src)
			require.NotEmpty(t, events)
			assert.Equal(t, listener.EventBeginDocument, events[0].Type)
			assert.Equal(t, listener.EventEndDocument, events[len(events)-1].Type)
		})
	}
}

func TestParse_DeepMarkerRuns(t *testing.T) {
	t.Parallel()

	const depth = 50000

	tests := []struct {
		name   string
		src    string
		begins listener.EventType
	}{
		{"list", strings.Repeat("*", depth) + " a\n", listener.EventBeginList},
		{"quotation", strings.Repeat(">", depth) + " a\n", listener.EventBeginQuotation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			count := 0
			sink := listener.Func(func(e listener.Event) {
				if e.Type == tt.begins {
					count++
				}
			})

			start := time.Now()
			require.NoError(t, parser.Parse(tt.src, sink))
			assert.Less(t, time.Since(start), 3*time.Second)
			assert.Equal(t, depth, count)
		})
	}
}

const benchDoc = `= Title =

Some **bold** and //italic// text with a [[link>>Main.WebHome||class="x"]].

* one
** two
*** three

|=A|=B
|x|(((nested **group**)))

{{code language="java"}}
class A {}
{{/code}}

> quoted {{{verbatim}}} line
`

func BenchmarkParse(b *testing.B) {
	src := strings.Repeat(benchDoc, 20)
	sink := listener.Func(func(listener.Event) {})

	b.SetBytes(int64(len(src)))
	for b.Loop() {
		if err := parser.Parse(src, sink); err != nil {
			b.Fatal(err)
		}
	}
}
