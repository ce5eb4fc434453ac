// Package blockctx tracks the block constructs that are currently open
// while a document is parsed.
//
// The stack mirrors the listener: reading it bottom to top gives exactly
// the begin events that have not been ended yet. Line-structural markers
// are turned into a request (a list of wanted contexts); Reconcile closes
// whatever no longer matches that request and opens what is missing, with
// an explicit loop so that nesting depth never grows the call stack.
package blockctx

import (
	"errors"
	"fmt"

	"github.com/yaklabco/xwikiparse/pkg/params"
)

// ErrInternalInconsistency signals a broken nesting invariant. It means the
// parser has a bug, not that the input is malformed.
var ErrInternalInconsistency = errors.New("internal inconsistency in block context stack")

// Kind identifies a block construct.
type Kind uint8

// Block construct kinds.
const (
	Paragraph Kind = iota + 1
	Header
	List
	ListItem
	DefinitionList
	DefinitionTerm
	DefinitionDescription
	Table
	TableRow
	TableCell
	Quotation
	QuotationLine
	Group
)

var kindNames = map[Kind]string{
	Paragraph:             "Paragraph",
	Header:                "Header",
	List:                  "List",
	ListItem:              "ListItem",
	DefinitionList:        "DefinitionList",
	DefinitionTerm:        "DefinitionTerm",
	DefinitionDescription: "DefinitionDescription",
	Table:                 "Table",
	TableRow:              "TableRow",
	TableCell:             "TableCell",
	Quotation:             "Quotation",
	QuotationLine:         "QuotationLine",
	Group:                 "Group",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	if k == 0 {
		return "Document"
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// IsInline reports whether contexts of this kind hold inline content
// directly.
func (k Kind) IsInline() bool {
	switch k {
	case Paragraph, Header, ListItem, DefinitionTerm, DefinitionDescription, TableCell, QuotationLine:
		return true
	default:
		return false
	}
}

// Continues reports whether a plain line following a line of this kind
// continues it rather than starting a new paragraph.
func (k Kind) Continues() bool {
	switch k {
	case Paragraph, ListItem, DefinitionTerm, DefinitionDescription, TableCell:
		return true
	default:
		return false
	}
}

// allowedChildren lists which kinds may sit directly on top of another.
// The zero Kind stands for the document itself.
//
//nolint:gochecknoglobals // static lookup table
var allowedChildren = map[Kind][]Kind{
	0:                     {Paragraph, Header, List, DefinitionList, Table, Quotation, Group},
	Group:                 {Paragraph, Header, List, DefinitionList, Table, Quotation, Group},
	List:                  {ListItem},
	ListItem:              {List, DefinitionList, Group},
	DefinitionList:        {DefinitionTerm, DefinitionDescription},
	DefinitionTerm:        {List, DefinitionList, Group},
	DefinitionDescription: {List, DefinitionList, Group},
	Table:                 {TableRow},
	TableRow:              {TableCell},
	TableCell:             {Group},
	Quotation:             {QuotationLine, Quotation},
	QuotationLine:         {Group},
}

// CanContain reports whether child may be opened directly inside parent.
func CanContain(parent, child Kind) bool {
	for _, k := range allowedChildren[parent] {
		if k == child {
			return true
		}
	}
	return false
}

// Context is one open block construct.
type Context struct {
	Kind Kind

	// Ordered is set on ordered lists.
	Ordered bool

	// HeaderCell is set on table header cells.
	HeaderCell bool

	// Level is the header level for headers and the nesting depth for
	// lists and quotations, counted within the enclosing group.
	Level int

	// Params are the parameters the construct was opened with.
	Params params.Params

	// OpenedAtLine is the source line that opened the construct.
	OpenedAtLine int
}

func (c Context) String() string {
	switch c.Kind {
	case List:
		return fmt.Sprintf("List(depth=%d, ordered=%t)", c.Level, c.Ordered)
	case Quotation:
		return fmt.Sprintf("Quotation(depth=%d)", c.Level)
	case Header:
		return fmt.Sprintf("Header(level=%d)", c.Level)
	case TableCell:
		return fmt.Sprintf("TableCell(header=%t)", c.HeaderCell)
	default:
		return c.Kind.String()
	}
}

// Want describes one level of requested nesting.
type Want struct {
	Kind       Kind
	Ordered    bool
	HeaderCell bool
	Level      int
	Params     params.Params

	// Fresh forces a new context even when a matching one is open, as for
	// the item a list marker starts.
	Fresh bool
}

func (w Want) matches(c Context) bool {
	if w.Fresh || w.Kind != c.Kind {
		return false
	}
	switch w.Kind {
	case List:
		return w.Ordered == c.Ordered
	case Header:
		return w.Level == c.Level
	default:
		return true
	}
}

// InconsistencyError reports a context that cannot be opened where it was
// requested.
type InconsistencyError struct {
	Parent Kind
	Child  Kind
	Line   int
}

func (e *InconsistencyError) Error() string {
	return fmt.Sprintf("%v: %v cannot be opened inside %v (line %d)",
		ErrInternalInconsistency, e.Child, e.Parent, e.Line)
}

func (e *InconsistencyError) Unwrap() error {
	return ErrInternalInconsistency
}
