// Package listener defines the events a parsed document is reported
// through, together with a few ready-made listeners: a no-op base for
// embedding, a recorder, a nesting validator and a fan-out.
//
// Every Begin call is eventually followed by exactly one matching End
// call, and calls are always properly nested.
package listener

import (
	"fmt"
	"strings"

	"github.com/yaklabco/xwikiparse/pkg/linktarget"
	"github.com/yaklabco/xwikiparse/pkg/macro"
	"github.com/yaklabco/xwikiparse/pkg/params"
)

// Listener receives the structure of a document in reading order.
type Listener interface {
	BeginDocument()
	EndDocument()

	BeginGroup(p params.Params)
	EndGroup()

	BeginHeader(level int, p params.Params)
	EndHeader(level int)

	BeginParagraph(p params.Params)
	EndParagraph()

	BeginList(ordered bool, p params.Params)
	EndList(ordered bool)
	BeginListItem(p params.Params)
	EndListItem()

	BeginDefinitionList(p params.Params)
	EndDefinitionList()
	BeginDefinitionTerm()
	EndDefinitionTerm()
	BeginDefinitionDescription()
	EndDefinitionDescription()

	BeginTable(p params.Params)
	EndTable()
	BeginTableRow(p params.Params)
	EndTableRow()
	BeginTableCell(header bool, p params.Params)
	EndTableCell()

	BeginQuotation(p params.Params)
	EndQuotation()
	BeginQuotationLine()
	EndQuotationLine()

	BeginFormat(kind FormatKind, p params.Params)
	EndFormat(kind FormatKind)

	OnText(text string)
	OnVerbatim(content string, inline bool, p params.Params)
	OnNewLine()
	OnEmptyLines(count int)
	OnHorizontalLine(p params.Params)
	OnReference(target linktarget.Target, image, freeStanding bool)
	OnMacro(inv macro.Invocation)
}

// FormatKind identifies an inline format.
type FormatKind uint8

// Inline formats. FormatNone is a span that only carries parameters.
const (
	FormatNone FormatKind = iota
	FormatBold
	FormatItalic
	FormatUnderline
	FormatStrikeout
	FormatSuperscript
	FormatSubscript
	FormatMonospace
)

//nolint:gochecknoglobals // static lookup table
var formatNames = [...]string{
	FormatNone:        "NONE",
	FormatBold:        "BOLD",
	FormatItalic:      "ITALIC",
	FormatUnderline:   "UNDERLINE",
	FormatStrikeout:   "STRIKEOUT",
	FormatSuperscript: "SUPERSCRIPT",
	FormatSubscript:   "SUBSCRIPT",
	FormatMonospace:   "MONOSPACE",
}

func (k FormatKind) String() string {
	if int(k) < len(formatNames) {
		return formatNames[k]
	}
	return fmt.Sprintf("FormatKind(%d)", k)
}

// MarshalText implements encoding.TextMarshaler.
func (k FormatKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *FormatKind) UnmarshalText(text []byte) error {
	for i, name := range formatNames {
		if strings.EqualFold(name, string(text)) {
			*k = FormatKind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown format %q", text)
}
