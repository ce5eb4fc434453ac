package listener

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/xwikiparse/pkg/linktarget"
	"github.com/yaklabco/xwikiparse/pkg/macro"
	"github.com/yaklabco/xwikiparse/pkg/params"
)

// EventType identifies a listener call.
type EventType uint8

// Event types, one per Listener method.
const (
	EventBeginDocument EventType = iota + 1
	EventEndDocument
	EventBeginGroup
	EventEndGroup
	EventBeginHeader
	EventEndHeader
	EventBeginParagraph
	EventEndParagraph
	EventBeginList
	EventEndList
	EventBeginListItem
	EventEndListItem
	EventBeginDefinitionList
	EventEndDefinitionList
	EventBeginDefinitionTerm
	EventEndDefinitionTerm
	EventBeginDefinitionDescription
	EventEndDefinitionDescription
	EventBeginTable
	EventEndTable
	EventBeginTableRow
	EventEndTableRow
	EventBeginTableCell
	EventEndTableCell
	EventBeginQuotation
	EventEndQuotation
	EventBeginQuotationLine
	EventEndQuotationLine
	EventBeginFormat
	EventEndFormat
	EventText
	EventVerbatim
	EventNewLine
	EventEmptyLines
	EventHorizontalLine
	EventReference
	EventMacro

	eventTypeCount
)

//nolint:gochecknoglobals // static lookup table
var eventNames = [...]string{
	EventBeginDocument:              "beginDocument",
	EventEndDocument:                "endDocument",
	EventBeginGroup:                 "beginGroup",
	EventEndGroup:                   "endGroup",
	EventBeginHeader:                "beginHeader",
	EventEndHeader:                  "endHeader",
	EventBeginParagraph:             "beginParagraph",
	EventEndParagraph:               "endParagraph",
	EventBeginList:                  "beginList",
	EventEndList:                    "endList",
	EventBeginListItem:              "beginListItem",
	EventEndListItem:                "endListItem",
	EventBeginDefinitionList:        "beginDefinitionList",
	EventEndDefinitionList:          "endDefinitionList",
	EventBeginDefinitionTerm:        "beginDefinitionTerm",
	EventEndDefinitionTerm:          "endDefinitionTerm",
	EventBeginDefinitionDescription: "beginDefinitionDescription",
	EventEndDefinitionDescription:   "endDefinitionDescription",
	EventBeginTable:                 "beginTable",
	EventEndTable:                   "endTable",
	EventBeginTableRow:              "beginTableRow",
	EventEndTableRow:                "endTableRow",
	EventBeginTableCell:             "beginTableCell",
	EventEndTableCell:               "endTableCell",
	EventBeginQuotation:             "beginQuotation",
	EventEndQuotation:               "endQuotation",
	EventBeginQuotationLine:         "beginQuotationLine",
	EventEndQuotationLine:           "endQuotationLine",
	EventBeginFormat:                "beginFormat",
	EventEndFormat:                  "endFormat",
	EventText:                       "onText",
	EventVerbatim:                   "onVerbatim",
	EventNewLine:                    "onNewLine",
	EventEmptyLines:                 "onEmptyLines",
	EventHorizontalLine:             "onHorizontalLine",
	EventReference:                  "onReference",
	EventMacro:                      "onMacro",
}

func (t EventType) String() string {
	if t > 0 && t < eventTypeCount {
		return eventNames[t]
	}
	return fmt.Sprintf("EventType(%d)", t)
}

// EventTypes returns every event type in declaration order.
func EventTypes() []EventType {
	out := make([]EventType, 0, eventTypeCount-1)
	for t := EventBeginDocument; t < eventTypeCount; t++ {
		out = append(out, t)
	}
	return out
}

// MarshalText implements encoding.TextMarshaler.
func (t EventType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *EventType) UnmarshalText(text []byte) error {
	for i := EventBeginDocument; i < eventTypeCount; i++ {
		if eventNames[i] == string(text) {
			*t = i
			return nil
		}
	}
	return fmt.Errorf("unknown event type %q", text)
}

// IsBegin reports whether t opens a construct.
func (t EventType) IsBegin() bool {
	return t < EventText && (t-EventBeginDocument)%2 == 0
}

// IsEnd reports whether t closes a construct.
func (t EventType) IsEnd() bool {
	return t < EventText && t > EventBeginDocument && (t-EventBeginDocument)%2 == 1
}

// End returns the event type that closes t, or 0 when t is not a begin.
func (t EventType) End() EventType {
	if !t.IsBegin() {
		return 0
	}
	return t + 1
}

// Event is a recorded listener call. Only the fields relevant to Type are
// set.
type Event struct {
	Type EventType `json:"type"`

	Level        int        `json:"level,omitempty"`
	Count        int        `json:"count,omitempty"`
	Ordered      bool       `json:"ordered,omitempty"`
	Header       bool       `json:"header,omitempty"`
	Inline       bool       `json:"inline,omitempty"`
	Image        bool       `json:"image,omitempty"`
	FreeStanding bool       `json:"freeStanding,omitempty"`
	Format       FormatKind `json:"format,omitempty"`
	Text         string     `json:"text,omitempty"`

	Params params.Params      `json:"params,omitempty"`
	Target *linktarget.Target `json:"target,omitempty"`
	Macro  *macro.Invocation  `json:"macro,omitempty"`
}

// String renders the event as a compact call, e.g. beginHeader(1) or
// onText("a").
func (e Event) String() string {
	var args []string
	switch e.Type {
	case EventBeginHeader, EventEndHeader:
		args = append(args, strconv.Itoa(e.Level))
	case EventBeginList, EventEndList:
		args = append(args, strconv.FormatBool(e.Ordered))
	case EventBeginTableCell:
		args = append(args, strconv.FormatBool(e.Header))
	case EventBeginFormat, EventEndFormat:
		args = append(args, e.Format.String())
	case EventText:
		args = append(args, strconv.Quote(e.Text))
	case EventVerbatim:
		args = append(args, strconv.Quote(e.Text), "inline="+strconv.FormatBool(e.Inline))
	case EventEmptyLines:
		args = append(args, strconv.Itoa(e.Count))
	case EventReference:
		args = append(args, referenceArgs(e)...)
	case EventMacro:
		args = append(args, macroArgs(e)...)
	}

	if len(e.Params) > 0 {
		args = append(args, e.Params.String())
	}

	if len(args) == 0 {
		return e.Type.String()
	}
	return e.Type.String() + "(" + strings.Join(args, ", ") + ")"
}

func referenceArgs(e Event) []string {
	if e.Target == nil {
		return nil
	}
	args := []string{string(e.Target.Type), strconv.Quote(e.Target.String())}
	if e.Target.Label != "" {
		args = append(args, "label="+strconv.Quote(e.Target.Label))
	}
	if len(e.Target.Parameters) > 0 {
		args = append(args, e.Target.Parameters.String())
	}
	if e.Image {
		args = append(args, "image")
	}
	if e.FreeStanding {
		args = append(args, "free")
	}
	return args
}

func macroArgs(e Event) []string {
	if e.Macro == nil {
		return nil
	}
	args := []string{e.Macro.Name}
	if len(e.Macro.Parameters) > 0 {
		args = append(args, e.Macro.Parameters.String())
	}
	if e.Macro.Content != nil {
		args = append(args, "content="+strconv.Quote(*e.Macro.Content))
	}
	return append(args, "inline="+strconv.FormatBool(e.Macro.Inline))
}
