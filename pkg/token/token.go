// Package token defines the lexical vocabulary shared by the lexer and the
// document parser: token kinds, lexical states and state transitions.
package token

import (
	"fmt"

	"github.com/yaklabco/xwikiparse/pkg/codestream"
)

// Kind classifies a token.
type Kind uint16

// Token kinds. Every input character ends up in exactly one token.
const (
	EOF Kind = iota

	// Plain text fallbacks.
	Word    // run of letters and digits
	Space   // run of blanks
	Special // any other single character
	Escaped // '~' followed by the escaped character

	// Line breaks.
	Newline   // "\n", "\r\n" or "\r"
	EmptyLine // blank line at line start, including its break
	LineBreak // explicit "\\"

	// Line-structural markers.
	HeaderBegin     // "= " .. "====== "
	HeaderEnd       // trailing " ==" before the end of the line
	HorizontalLine  // "----"
	ListMarker      // "* ", "1. ", "; ", ": " and combinations
	QuoteMarker     // ">" run
	TableCell       // "|"
	TableHeaderCell // "|=" or "!="

	// Inline format toggles.
	Bold        // "**"
	Italic      // "//"
	Underline   // "__"
	Strikeout   // "--"
	Superscript // "^^"
	Subscript   // ",,"
	Monospace   // "##"

	// Parameters and groups.
	Parameters      // "(% ... %)"
	ParametersReset // "(%%)"
	GroupOpen       // "((("
	GroupClose      // ")))"

	// Verbatim.
	VerbatimOpen  // "{{{"
	VerbatimClose // "}}}"
	VerbatimText  // raw text inside a verbatim block

	// Macros.
	MacroOpen      // "{{name params}}"
	MacroSelfClose // "{{name params/}}"
	MacroClose     // "{{/name}}"
	MacroText      // raw text inside a macro body

	// References.
	Link              // "[[...]]"
	Image             // "[[image:...]]"
	Attachment        // "[[attach:...]]"
	FreeStandingURL   // "https://..." outside brackets
	FreeStandingImage // "image:..." outside brackets
	kindCount
)

var kindNames = [...]string{
	EOF:               "EOF",
	Word:              "Word",
	Space:             "Space",
	Special:           "Special",
	Escaped:           "Escaped",
	Newline:           "Newline",
	EmptyLine:         "EmptyLine",
	LineBreak:         "LineBreak",
	HeaderBegin:       "HeaderBegin",
	HeaderEnd:         "HeaderEnd",
	HorizontalLine:    "HorizontalLine",
	ListMarker:        "ListMarker",
	QuoteMarker:       "QuoteMarker",
	TableCell:         "TableCell",
	TableHeaderCell:   "TableHeaderCell",
	Bold:              "Bold",
	Italic:            "Italic",
	Underline:         "Underline",
	Strikeout:         "Strikeout",
	Superscript:       "Superscript",
	Subscript:         "Subscript",
	Monospace:         "Monospace",
	Parameters:        "Parameters",
	ParametersReset:   "ParametersReset",
	GroupOpen:         "GroupOpen",
	GroupClose:        "GroupClose",
	VerbatimOpen:      "VerbatimOpen",
	VerbatimClose:     "VerbatimClose",
	VerbatimText:      "VerbatimText",
	MacroOpen:         "MacroOpen",
	MacroSelfClose:    "MacroSelfClose",
	MacroClose:        "MacroClose",
	MacroText:         "MacroText",
	Link:              "Link",
	Image:             "Image",
	Attachment:        "Attachment",
	FreeStandingURL:   "FreeStandingURL",
	FreeStandingImage: "FreeStandingImage",
}

func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// Kinds returns every defined kind in declaration order.
func Kinds() []Kind {
	kinds := make([]Kind, 0, kindCount)
	for k := range kindCount {
		kinds = append(kinds, k)
	}
	return kinds
}

// IsText reports whether tokens of this kind contribute to a text run.
func (k Kind) IsText() bool {
	switch k {
	case Word, Space, Special, Escaped:
		return true
	default:
		return false
	}
}

// IsFormat reports whether k is an inline format toggle.
func (k Kind) IsFormat() bool {
	return k >= Bold && k <= Monospace
}

// IsLineStructural reports whether k only occurs at the start of a line
// and changes the block structure of the document.
func (k Kind) IsLineStructural() bool {
	switch k {
	case HeaderBegin, HorizontalLine, ListMarker, QuoteMarker:
		return true
	default:
		return false
	}
}

// IsReference reports whether k produces an onReference event.
func (k Kind) IsReference() bool {
	return k >= Link && k <= FreeStandingImage
}

// Token is one lexeme produced by the lexer.
type Token struct {
	// Kind classifies the lexeme.
	Kind Kind

	// Text is the raw lexeme as it appears in the source.
	Text string

	// State is the lexical state the token was recognised in.
	State State

	// Pos is where the lexeme starts.
	Pos codestream.Position

	// End is the position just past the lexeme.
	End codestream.Position
}

// Line returns the 1-based line the token starts on.
func (t Token) Line() int { return t.Pos.Line }

// Column returns the 1-based column the token starts on.
func (t Token) Column() int { return t.Pos.Column }

func (t Token) String() string {
	return fmt.Sprintf("%d:%d %s %s %q", t.Pos.Line, t.Pos.Column, t.State, t.Kind, t.Text)
}
