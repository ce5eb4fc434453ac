package listener

import (
	"github.com/yaklabco/xwikiparse/pkg/linktarget"
	"github.com/yaklabco/xwikiparse/pkg/macro"
	"github.com/yaklabco/xwikiparse/pkg/params"
)

// Func adapts a function receiving events to the Listener interface.
type Func func(Event)

var _ Listener = Func(nil)

func (f Func) BeginDocument() { f(Event{Type: EventBeginDocument}) }
func (f Func) EndDocument()   { f(Event{Type: EventEndDocument}) }

func (f Func) BeginGroup(p params.Params) { f(Event{Type: EventBeginGroup, Params: p}) }
func (f Func) EndGroup()                  { f(Event{Type: EventEndGroup}) }

func (f Func) BeginHeader(level int, p params.Params) {
	f(Event{Type: EventBeginHeader, Level: level, Params: p})
}
func (f Func) EndHeader(level int) { f(Event{Type: EventEndHeader, Level: level}) }

func (f Func) BeginParagraph(p params.Params) { f(Event{Type: EventBeginParagraph, Params: p}) }
func (f Func) EndParagraph()                  { f(Event{Type: EventEndParagraph}) }

func (f Func) BeginList(ordered bool, p params.Params) {
	f(Event{Type: EventBeginList, Ordered: ordered, Params: p})
}
func (f Func) EndList(ordered bool)          { f(Event{Type: EventEndList, Ordered: ordered}) }
func (f Func) BeginListItem(p params.Params) { f(Event{Type: EventBeginListItem, Params: p}) }
func (f Func) EndListItem()                  { f(Event{Type: EventEndListItem}) }

func (f Func) BeginDefinitionList(p params.Params) {
	f(Event{Type: EventBeginDefinitionList, Params: p})
}
func (f Func) EndDefinitionList()          { f(Event{Type: EventEndDefinitionList}) }
func (f Func) BeginDefinitionTerm()        { f(Event{Type: EventBeginDefinitionTerm}) }
func (f Func) EndDefinitionTerm()          { f(Event{Type: EventEndDefinitionTerm}) }
func (f Func) BeginDefinitionDescription() { f(Event{Type: EventBeginDefinitionDescription}) }
func (f Func) EndDefinitionDescription()   { f(Event{Type: EventEndDefinitionDescription}) }

func (f Func) BeginTable(p params.Params)    { f(Event{Type: EventBeginTable, Params: p}) }
func (f Func) EndTable()                     { f(Event{Type: EventEndTable}) }
func (f Func) BeginTableRow(p params.Params) { f(Event{Type: EventBeginTableRow, Params: p}) }
func (f Func) EndTableRow()                  { f(Event{Type: EventEndTableRow}) }
func (f Func) BeginTableCell(header bool, p params.Params) {
	f(Event{Type: EventBeginTableCell, Header: header, Params: p})
}
func (f Func) EndTableCell() { f(Event{Type: EventEndTableCell}) }

func (f Func) BeginQuotation(p params.Params) { f(Event{Type: EventBeginQuotation, Params: p}) }
func (f Func) EndQuotation()                  { f(Event{Type: EventEndQuotation}) }
func (f Func) BeginQuotationLine()            { f(Event{Type: EventBeginQuotationLine}) }
func (f Func) EndQuotationLine()              { f(Event{Type: EventEndQuotationLine}) }

func (f Func) BeginFormat(kind FormatKind, p params.Params) {
	f(Event{Type: EventBeginFormat, Format: kind, Params: p})
}
func (f Func) EndFormat(kind FormatKind) { f(Event{Type: EventEndFormat, Format: kind}) }

func (f Func) OnText(text string) { f(Event{Type: EventText, Text: text}) }
func (f Func) OnVerbatim(content string, inline bool, p params.Params) {
	f(Event{Type: EventVerbatim, Text: content, Inline: inline, Params: p})
}
func (f Func) OnNewLine()                       { f(Event{Type: EventNewLine}) }
func (f Func) OnEmptyLines(count int)           { f(Event{Type: EventEmptyLines, Count: count}) }
func (f Func) OnHorizontalLine(p params.Params) { f(Event{Type: EventHorizontalLine, Params: p}) }

func (f Func) OnReference(target linktarget.Target, image, freeStanding bool) {
	f(Event{Type: EventReference, Target: &target, Image: image, FreeStanding: freeStanding})
}

func (f Func) OnMacro(inv macro.Invocation) { f(Event{Type: EventMacro, Macro: &inv}) }

// Emit delivers e to l as the corresponding method call.
func Emit(l Listener, e Event) {
	switch e.Type {
	case EventBeginDocument:
		l.BeginDocument()
	case EventEndDocument:
		l.EndDocument()
	case EventBeginGroup:
		l.BeginGroup(e.Params)
	case EventEndGroup:
		l.EndGroup()
	case EventBeginHeader:
		l.BeginHeader(e.Level, e.Params)
	case EventEndHeader:
		l.EndHeader(e.Level)
	case EventBeginParagraph:
		l.BeginParagraph(e.Params)
	case EventEndParagraph:
		l.EndParagraph()
	case EventBeginList:
		l.BeginList(e.Ordered, e.Params)
	case EventEndList:
		l.EndList(e.Ordered)
	case EventBeginListItem:
		l.BeginListItem(e.Params)
	case EventEndListItem:
		l.EndListItem()
	case EventBeginDefinitionList:
		l.BeginDefinitionList(e.Params)
	case EventEndDefinitionList:
		l.EndDefinitionList()
	case EventBeginDefinitionTerm:
		l.BeginDefinitionTerm()
	case EventEndDefinitionTerm:
		l.EndDefinitionTerm()
	case EventBeginDefinitionDescription:
		l.BeginDefinitionDescription()
	case EventEndDefinitionDescription:
		l.EndDefinitionDescription()
	case EventBeginTable:
		l.BeginTable(e.Params)
	case EventEndTable:
		l.EndTable()
	case EventBeginTableRow:
		l.BeginTableRow(e.Params)
	case EventEndTableRow:
		l.EndTableRow()
	case EventBeginTableCell:
		l.BeginTableCell(e.Header, e.Params)
	case EventEndTableCell:
		l.EndTableCell()
	case EventBeginQuotation:
		l.BeginQuotation(e.Params)
	case EventEndQuotation:
		l.EndQuotation()
	case EventBeginQuotationLine:
		l.BeginQuotationLine()
	case EventEndQuotationLine:
		l.EndQuotationLine()
	case EventBeginFormat:
		l.BeginFormat(e.Format, e.Params)
	case EventEndFormat:
		l.EndFormat(e.Format)
	case EventText:
		l.OnText(e.Text)
	case EventVerbatim:
		l.OnVerbatim(e.Text, e.Inline, e.Params)
	case EventNewLine:
		l.OnNewLine()
	case EventEmptyLines:
		l.OnEmptyLines(e.Count)
	case EventHorizontalLine:
		l.OnHorizontalLine(e.Params)
	case EventReference:
		var target linktarget.Target
		if e.Target != nil {
			target = *e.Target
		}
		l.OnReference(target, e.Image, e.FreeStanding)
	case EventMacro:
		var inv macro.Invocation
		if e.Macro != nil {
			inv = *e.Macro
		}
		l.OnMacro(inv)
	}
}

// Replay delivers events to l in order.
func Replay(events []Event, l Listener) {
	for _, e := range events {
		Emit(l, e)
	}
}
