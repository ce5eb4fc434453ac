// Package macro parses the syntax of macro invocations:
//
//	{{name param="value" ...}}content{{/name}}
//	{{name param="value" .../}}
//
// Macros are never executed; the name, parameters and raw content are
// handed to the listener as they are.
package macro

import (
	"strings"
	"unicode"

	"github.com/yaklabco/xwikiparse/pkg/params"
)

// Invocation is one parsed macro.
type Invocation struct {
	Name       string        `json:"name"`
	Parameters params.Params `json:"parameters,omitempty"`

	// Content is the raw body, nil for self-closing macros.
	Content *string `json:"content,omitempty"`

	// Inline is true when the macro sits inside inline content.
	Inline bool `json:"inline"`
}

// Body returns the content, or "" when the macro has none.
func (inv Invocation) Body() string {
	if inv.Content == nil {
		return ""
	}
	return *inv.Content
}

// WithContent returns a copy of inv carrying content.
func (inv Invocation) WithContent(content string) Invocation {
	inv.Content = &content
	return inv
}

// IsNameStart reports whether r may begin a macro name.
func IsNameStart(r rune) bool {
	return unicode.IsLetter(r)
}

// IsNameChar reports whether r may continue a macro name.
func IsNameChar(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' || r == '.' || r == ':'
}

// Parse reads the macro name and parameters from inner, the marker text
// between "{{" and "}}" with any self-closing '/' already removed.
func Parse(inner string, escape rune) Invocation {
	inner = strings.TrimLeftFunc(inner, unicode.IsSpace)

	end := strings.IndexFunc(inner, func(r rune) bool { return !IsNameChar(r) })
	if end < 0 {
		end = len(inner)
	}

	return Invocation{
		Name:       inner[:end],
		Parameters: params.Parse(inner[end:], escape),
	}
}

// SplitMarker strips the braces from an opening marker and reports whether
// it is self-closing.
func SplitMarker(marker string) (inner string, selfClosing bool) {
	inner = strings.TrimPrefix(marker, "{{")
	inner = strings.TrimSuffix(inner, "}}")
	trimmed := strings.TrimRightFunc(inner, unicode.IsSpace)
	if strings.HasSuffix(trimmed, "/") {
		return strings.TrimSuffix(trimmed, "/"), true
	}
	return inner, false
}

// ParseMarker parses a complete opening marker as produced by the lexer.
func ParseMarker(marker string, escape rune) (inv Invocation, selfClosing bool) {
	inner, selfClosing := SplitMarker(marker)
	return Parse(inner, escape), selfClosing
}

// NameOf returns the macro name of an opening marker.
func NameOf(marker string) string {
	inner, _ := SplitMarker(marker)
	return Parse(inner, params.DefaultEscape).Name
}

// CloseName returns the macro name of a closing marker "{{/name}}".
func CloseName(marker string) string {
	inner := strings.TrimPrefix(marker, "{{/")
	inner = strings.TrimSuffix(inner, "}}")
	return strings.TrimSpace(inner)
}
