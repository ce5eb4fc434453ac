package xdom_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/xwikiparse/pkg/listener"
	"github.com/yaklabco/xwikiparse/pkg/parser"
	"github.com/yaklabco/xwikiparse/pkg/xdom"
)

const sampleDoc = `= Intro =

Some **bold** text with a [[link>>Main.WebHome]].

* one
** two
|=h|c
> quoted
{{toc/}}
`

func TestParse_Shape(t *testing.T) {
	t.Parallel()

	root, err := xdom.Parse(sampleDoc)
	require.NoError(t, err)
	require.NotNil(t, root)

	assert.Equal(t, xdom.NodeDocument, root.Kind)

	var kinds []xdom.NodeKind
	for _, c := range root.Children() {
		kinds = append(kinds, c.Kind)
	}
	assert.Equal(t, []xdom.NodeKind{
		xdom.NodeHeader,
		xdom.NodeParagraph,
		xdom.NodeList,
		xdom.NodeTable,
		xdom.NodeQuotation,
		xdom.NodeMacro,
	}, kinds)

	header := root.FirstChild
	assert.Equal(t, 1, header.Event.Level)
	assert.Equal(t, "Intro", header.Text())

	para := header.Next
	assert.Equal(t, "Some bold text with a link.", para.Text())

	lists := xdom.FindByKind(root, xdom.NodeList)
	assert.Len(t, lists, 2)
	assert.Same(t, root, lists[1].Parent.Parent.Parent)
}

func TestEmit_RoundTrip(t *testing.T) {
	t.Parallel()

	sources := []string{
		sampleDoc,
		"",
		"(% class=\"a\" %)\n(((\n|x|(((y)))\n)))",
		"**a //b** c//\n\n\n1. x",
		"{{code language=\"go\"}}x{{/code}}",
	}

	for _, src := range sources {
		t.Run(src, func(t *testing.T) {
			t.Parallel()

			direct := listener.NewRecorder()
			require.NoError(t, parser.Parse(src, direct))

			root, err := xdom.Parse(src)
			require.NoError(t, err)

			replayed := listener.NewRecorder()
			xdom.Emit(root, replayed)

			if diff := cmp.Diff(direct.Events(), replayed.Events()); diff != "" {
				t.Errorf("emitted events differ (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseInline_Tree(t *testing.T) {
	t.Parallel()

	root, err := xdom.ParseInline("a **b**")
	require.NoError(t, err)

	require.Equal(t, 2, root.ChildCount())
	assert.Equal(t, xdom.NodeText, root.FirstChild.Kind)
	assert.Equal(t, xdom.NodeFormat, root.LastChild.Kind)
	assert.Equal(t, listener.FormatBold, root.LastChild.Event.Format)
	assert.Equal(t, "a b", root.Text())

	rec := listener.NewRecorder()
	xdom.Emit(root, rec)
	assert.Equal(t, "onText(\"a \")\nbeginFormat(BOLD)\nonText(\"b\")\nendFormat(BOLD)\n", rec.String())

	empty, err := xdom.ParseInline("")
	require.NoError(t, err)
	assert.False(t, empty.HasChildren())
}

func TestBuilder_Root(t *testing.T) {
	t.Parallel()

	b := xdom.NewBuilder()
	assert.Nil(t, b.Root())

	b.BeginDocument()
	b.BeginParagraph(nil)
	b.OnText("x")
	b.EndParagraph()
	b.EndDocument()

	root := b.Root()
	require.NotNil(t, root)
	assert.Equal(t, xdom.NodeDocument, root.Kind)
	assert.Equal(t, "x", root.Text())
}
