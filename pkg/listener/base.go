package listener

import (
	"github.com/yaklabco/xwikiparse/pkg/linktarget"
	"github.com/yaklabco/xwikiparse/pkg/macro"
	"github.com/yaklabco/xwikiparse/pkg/params"
)

// Base ignores every event. Embed it to implement only the events of
// interest.
type Base struct{}

var _ Listener = Base{}

func (Base) BeginDocument()                            {}
func (Base) EndDocument()                              {}
func (Base) BeginGroup(params.Params)                  {}
func (Base) EndGroup()                                 {}
func (Base) BeginHeader(int, params.Params)            {}
func (Base) EndHeader(int)                             {}
func (Base) BeginParagraph(params.Params)              {}
func (Base) EndParagraph()                             {}
func (Base) BeginList(bool, params.Params)             {}
func (Base) EndList(bool)                              {}
func (Base) BeginListItem(params.Params)               {}
func (Base) EndListItem()                              {}
func (Base) BeginDefinitionList(params.Params)         {}
func (Base) EndDefinitionList()                        {}
func (Base) BeginDefinitionTerm()                      {}
func (Base) EndDefinitionTerm()                        {}
func (Base) BeginDefinitionDescription()               {}
func (Base) EndDefinitionDescription()                 {}
func (Base) BeginTable(params.Params)                  {}
func (Base) EndTable()                                 {}
func (Base) BeginTableRow(params.Params)               {}
func (Base) EndTableRow()                              {}
func (Base) BeginTableCell(bool, params.Params)        {}
func (Base) EndTableCell()                             {}
func (Base) BeginQuotation(params.Params)              {}
func (Base) EndQuotation()                             {}
func (Base) BeginQuotationLine()                       {}
func (Base) EndQuotationLine()                         {}
func (Base) BeginFormat(FormatKind, params.Params)     {}
func (Base) EndFormat(FormatKind)                      {}
func (Base) OnText(string)                             {}
func (Base) OnVerbatim(string, bool, params.Params)    {}
func (Base) OnNewLine()                                {}
func (Base) OnEmptyLines(int)                          {}
func (Base) OnHorizontalLine(params.Params)            {}
func (Base) OnReference(linktarget.Target, bool, bool) {}
func (Base) OnMacro(macro.Invocation)                  {}
