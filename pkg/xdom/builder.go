package xdom

import (
	"fmt"

	"github.com/yaklabco/xwikiparse/pkg/listener"
	"github.com/yaklabco/xwikiparse/pkg/parser"
)

// Builder is a listener that assembles the events it receives into a tree.
type Builder struct {
	listener.Func

	root *Node
	cur  *Node
}

// NewBuilder returns a builder with an empty tree.
func NewBuilder() *Builder {
	b := &Builder{}
	b.Func = b.add
	return b
}

func (b *Builder) add(e listener.Event) {
	if e.Type.IsEnd() {
		if b.cur != nil {
			b.cur = b.cur.Parent
		}
		return
	}

	n := NewNode(e)
	if n == nil {
		return
	}

	switch {
	case b.cur != nil:
		AppendChild(b.cur, n)
	case b.root == nil && n.Kind == NodeDocument:
		b.root = n
	default:
		// Events outside a document are collected under a synthetic one.
		if b.root == nil {
			b.root = &Node{Kind: NodeDocument}
		}
		AppendChild(b.root, n)
	}

	if e.Type.IsBegin() {
		b.cur = n
	}
}

// Root returns the tree built so far, or nil if no event was received.
func (b *Builder) Root() *Node {
	return b.root
}

// Parse builds the tree of a complete document.
func Parse(src string, opts ...parser.Option) (*Node, error) {
	b := NewBuilder()
	if err := parser.Parse(src, b, opts...); err != nil {
		return nil, fmt.Errorf("build tree: %w", err)
	}
	return b.Root(), nil
}

// ParseInline builds the tree of an inline fragment. The fragment's nodes
// are the children of a synthetic document node.
func ParseInline(src string, opts ...parser.Option) (*Node, error) {
	b := NewBuilder()
	if err := parser.New(b, opts...).ParseInline(src); err != nil {
		return nil, fmt.Errorf("build tree: %w", err)
	}
	if b.root == nil {
		return &Node{Kind: NodeDocument}, nil
	}
	return b.root, nil
}

// Emit reports the tree below n to l, reproducing the events it was built
// from. A synthetic document node only emits its children.
func Emit(n *Node, l listener.Listener) {
	if n == nil {
		return
	}

	synthetic := n.Kind == NodeDocument && n.Event.Type == 0
	if !synthetic {
		listener.Emit(l, n.Event)
	}
	for child := n.FirstChild; child != nil; child = child.Next {
		Emit(child, l)
	}
	if !synthetic && n.IsContainer() {
		listener.Emit(l, listener.Event{
			Type:    n.Event.Type.End(),
			Level:   n.Event.Level,
			Ordered: n.Event.Ordered,
			Format:  n.Event.Format,
		})
	}
}
