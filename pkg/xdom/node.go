// Package xdom builds an in-memory tree from parser events.
//
// The tree mirrors the event stream one to one: every begin/end pair
// becomes a node holding the nodes reported in between, and every other
// event becomes a leaf. Emitting a tree reproduces the events it was
// built from.
package xdom

import (
	"strings"

	"github.com/yaklabco/xwikiparse/pkg/listener"
)

// NodeKind classifies a node.
type NodeKind uint8

// Node kinds, one per container or leaf event.
const (
	NodeDocument NodeKind = iota

	// Block containers.
	NodeGroup
	NodeHeader
	NodeParagraph
	NodeList
	NodeListItem
	NodeDefinitionList
	NodeDefinitionTerm
	NodeDefinitionDescription
	NodeTable
	NodeTableRow
	NodeTableCell
	NodeQuotation
	NodeQuotationLine

	// Inline containers.
	NodeFormat

	// Leaves.
	NodeText
	NodeVerbatim
	NodeNewLine
	NodeEmptyLines
	NodeHorizontalLine
	NodeReference
	NodeMacro
)

//nolint:gochecknoglobals // static lookup table
var kindNames = [...]string{
	NodeDocument:              "Document",
	NodeGroup:                 "Group",
	NodeHeader:                "Header",
	NodeParagraph:             "Paragraph",
	NodeList:                  "List",
	NodeListItem:              "ListItem",
	NodeDefinitionList:        "DefinitionList",
	NodeDefinitionTerm:        "DefinitionTerm",
	NodeDefinitionDescription: "DefinitionDescription",
	NodeTable:                 "Table",
	NodeTableRow:              "TableRow",
	NodeTableCell:             "TableCell",
	NodeQuotation:             "Quotation",
	NodeQuotationLine:         "QuotationLine",
	NodeFormat:                "Format",
	NodeText:                  "Text",
	NodeVerbatim:              "Verbatim",
	NodeNewLine:               "NewLine",
	NodeEmptyLines:            "EmptyLines",
	NodeHorizontalLine:        "HorizontalLine",
	NodeReference:             "Reference",
	NodeMacro:                 "Macro",
}

func (k NodeKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "NodeKind(?)"
}

//nolint:gochecknoglobals // static lookup table
var eventKinds = map[listener.EventType]NodeKind{
	listener.EventBeginDocument:              NodeDocument,
	listener.EventBeginGroup:                 NodeGroup,
	listener.EventBeginHeader:                NodeHeader,
	listener.EventBeginParagraph:             NodeParagraph,
	listener.EventBeginList:                  NodeList,
	listener.EventBeginListItem:              NodeListItem,
	listener.EventBeginDefinitionList:        NodeDefinitionList,
	listener.EventBeginDefinitionTerm:        NodeDefinitionTerm,
	listener.EventBeginDefinitionDescription: NodeDefinitionDescription,
	listener.EventBeginTable:                 NodeTable,
	listener.EventBeginTableRow:              NodeTableRow,
	listener.EventBeginTableCell:             NodeTableCell,
	listener.EventBeginQuotation:             NodeQuotation,
	listener.EventBeginQuotationLine:         NodeQuotationLine,
	listener.EventBeginFormat:                NodeFormat,
	listener.EventText:                       NodeText,
	listener.EventVerbatim:                   NodeVerbatim,
	listener.EventNewLine:                    NodeNewLine,
	listener.EventEmptyLines:                 NodeEmptyLines,
	listener.EventHorizontalLine:             NodeHorizontalLine,
	listener.EventReference:                  NodeReference,
	listener.EventMacro:                      NodeMacro,
}

// Node is one element of the tree.
type Node struct {
	Kind NodeKind

	// Event is the begin or leaf event the node was built from. Its
	// fields carry the node's attributes: level, parameters, text,
	// reference target, macro invocation and so on.
	Event listener.Event

	Parent     *Node
	FirstChild *Node
	LastChild  *Node
	Prev       *Node
	Next       *Node
}

// NewNode creates a detached node for e. It returns nil for end events.
func NewNode(e listener.Event) *Node {
	kind, ok := eventKinds[e.Type]
	if !ok {
		return nil
	}
	return &Node{Kind: kind, Event: e}
}

// IsBlock reports whether n is a block container.
func (n *Node) IsBlock() bool {
	return n.Kind >= NodeGroup && n.Kind <= NodeQuotationLine
}

// IsInline reports whether n may appear inside inline content.
func (n *Node) IsInline() bool {
	switch n.Kind {
	case NodeFormat, NodeText, NodeNewLine, NodeReference:
		return true
	case NodeVerbatim, NodeMacro:
		return n.Event.Inline || (n.Event.Macro != nil && n.Event.Macro.Inline)
	default:
		return false
	}
}

// IsContainer reports whether n was built from a begin/end pair.
func (n *Node) IsContainer() bool {
	return n.Event.Type.IsBegin()
}

// HasChildren returns true if n has any children.
func (n *Node) HasChildren() bool {
	return n.FirstChild != nil
}

// ChildCount returns the number of direct children.
func (n *Node) ChildCount() int {
	count := 0
	for child := n.FirstChild; child != nil; child = child.Next {
		count++
	}
	return count
}

// Children returns the direct children in order.
func (n *Node) Children() []*Node {
	var children []*Node
	for child := n.FirstChild; child != nil; child = child.Next {
		children = append(children, child)
	}
	return children
}

// Text concatenates the text, verbatim content and link labels below n.
// New lines become "\n".
func (n *Node) Text() string {
	var sb strings.Builder
	//nolint:errcheck,revive // the callback never fails
	Walk(n, func(c *Node) error {
		switch c.Kind {
		case NodeText, NodeVerbatim:
			sb.WriteString(c.Event.Text)
		case NodeNewLine:
			sb.WriteByte('\n')
		case NodeReference:
			if c.Event.Target != nil {
				sb.WriteString(c.Event.Target.Label)
			}
		}
		return nil
	})
	return sb.String()
}

// AppendChild appends child to parent, detaching it from its previous
// parent first.
func AppendChild(parent, child *Node) {
	if parent == nil || child == nil {
		return
	}
	if child.Parent != nil {
		RemoveChild(child.Parent, child)
	}

	child.Parent = parent
	child.Prev = parent.LastChild
	child.Next = nil

	if parent.LastChild != nil {
		parent.LastChild.Next = child
	} else {
		parent.FirstChild = child
	}
	parent.LastChild = child
}

// RemoveChild detaches child from parent.
func RemoveChild(parent, child *Node) {
	if parent == nil || child == nil || child.Parent != parent {
		return
	}

	if child.Prev != nil {
		child.Prev.Next = child.Next
	} else {
		parent.FirstChild = child.Next
	}
	if child.Next != nil {
		child.Next.Prev = child.Prev
	} else {
		parent.LastChild = child.Prev
	}

	child.Parent = nil
	child.Prev = nil
	child.Next = nil
}
