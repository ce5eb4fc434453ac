package xdom_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/xwikiparse/pkg/listener"
	"github.com/yaklabco/xwikiparse/pkg/macro"
	"github.com/yaklabco/xwikiparse/pkg/xdom"
)

func TestNewNode(t *testing.T) {
	t.Parallel()

	for _, typ := range listener.EventTypes() {
		n := xdom.NewNode(listener.Event{Type: typ})
		if typ.IsEnd() {
			assert.Nil(t, n, "%v", typ)
			continue
		}
		require.NotNil(t, n, "%v", typ)
		assert.Equal(t, typ.IsBegin(), n.IsContainer(), "%v", typ)
		assert.NotEqual(t, "NodeKind(?)", n.Kind.String())
	}
}

func TestNode_Classes(t *testing.T) {
	t.Parallel()

	para := xdom.NewNode(listener.Event{Type: listener.EventBeginParagraph})
	assert.True(t, para.IsBlock())
	assert.False(t, para.IsInline())

	text := xdom.NewNode(listener.Event{Type: listener.EventText})
	assert.False(t, text.IsBlock())
	assert.True(t, text.IsInline())

	block := xdom.NewNode(listener.Event{Type: listener.EventMacro, Macro: &macro.Invocation{Name: "toc"}})
	assert.False(t, block.IsInline())

	inline := xdom.NewNode(listener.Event{Type: listener.EventVerbatim, Inline: true})
	assert.True(t, inline.IsInline())
}

func TestAppendChild_Moves(t *testing.T) {
	t.Parallel()

	a := xdom.NewNode(listener.Event{Type: listener.EventBeginGroup})
	b := xdom.NewNode(listener.Event{Type: listener.EventBeginGroup})
	x := xdom.NewNode(listener.Event{Type: listener.EventText, Text: "x"})
	y := xdom.NewNode(listener.Event{Type: listener.EventText, Text: "y"})

	xdom.AppendChild(a, x)
	xdom.AppendChild(a, y)
	assert.Equal(t, 2, a.ChildCount())
	assert.Same(t, y, x.Next)
	assert.Same(t, x, y.Prev)
	assert.Equal(t, "xy", a.Text())

	xdom.AppendChild(b, x)
	assert.Equal(t, 1, a.ChildCount())
	assert.Same(t, y, a.FirstChild)
	assert.Nil(t, y.Prev)
	assert.Same(t, b, x.Parent)

	xdom.RemoveChild(a, x)
	assert.Same(t, b, x.Parent, "removing from the wrong parent is a no-op")

	xdom.RemoveChild(b, x)
	assert.False(t, b.HasChildren())
	assert.Nil(t, b.LastChild)
	assert.Nil(t, x.Parent)

	xdom.AppendChild(nil, x)
	xdom.AppendChild(a, nil)
	assert.Equal(t, 1, a.ChildCount())
}
