// Package params implements the key="value" parameter grammar shared by
// link references, macro invocations and "(% %)" parameter blocks.
package params

import (
	"slices"
	"strings"
	"unicode"
)

// DefaultEscape is the escape character of XWiki 2.1 markup.
const DefaultEscape = '~'

// Params maps parameter names to values.
type Params map[string]string

// Keys returns the parameter names in sorted order.
func (p Params) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Get returns the value for key.
func (p Params) Get(key string) (string, bool) {
	v, ok := p[key]
	return v, ok
}

// Clone returns an independent copy. Cloning nil yields nil.
func (p Params) Clone() Params {
	if p == nil {
		return nil
	}
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Merge returns a copy of p overlaid with other.
func (p Params) Merge(other Params) Params {
	if len(other) == 0 {
		return p.Clone()
	}
	out := make(Params, len(p)+len(other))
	for k, v := range p {
		out[k] = v
	}
	for k, v := range other {
		out[k] = v
	}
	return out
}

// String renders the parameters in markup form with sorted keys,
// e.g. `class="note" id="x"`.
func (p Params) String() string {
	var sb strings.Builder
	for i, k := range p.Keys() {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(k)
		sb.WriteString(`="`)
		for _, r := range p[k] {
			if r == '"' || r == DefaultEscape {
				sb.WriteRune(DefaultEscape)
			}
			sb.WriteRune(r)
		}
		sb.WriteByte('"')
	}
	return sb.String()
}

// Parse reads a run of parameters separated by unescaped blanks. Each
// parameter is key=value, key="quoted value" or a bare key, which gets the
// value "true". Inside quotes the escape character and a backslash both
// make the following character literal. Parse never fails; malformed
// fragments are kept as best-effort values. It returns nil for an input
// without parameters.
func Parse(s string, escape rune) Params {
	var out Params
	sc := scanner{src: []rune(s), escape: escape}

	for {
		sc.skipBlanks()
		if sc.done() {
			return out
		}

		key := sc.key()
		if key == "" {
			// A lone '=' or quote with no key: drop the character.
			sc.pos++
			continue
		}

		value := "true"
		if sc.peek() == '=' {
			sc.pos++
			value = sc.value()
		}

		if out == nil {
			out = make(Params)
		}
		out[key] = value
	}
}

type scanner struct {
	src    []rune
	pos    int
	escape rune
}

func (s *scanner) done() bool { return s.pos >= len(s.src) }

func (s *scanner) peek() rune {
	if s.done() {
		return 0
	}
	return s.src[s.pos]
}

func (s *scanner) skipBlanks() {
	for !s.done() && unicode.IsSpace(s.src[s.pos]) {
		s.pos++
	}
}

func (s *scanner) key() string {
	var sb strings.Builder
	for !s.done() {
		r := s.src[s.pos]
		if r == '=' || r == '"' || unicode.IsSpace(r) {
			break
		}
		if r == s.escape && s.pos+1 < len(s.src) {
			s.pos++
			r = s.src[s.pos]
		}
		sb.WriteRune(r)
		s.pos++
	}
	return sb.String()
}

func (s *scanner) value() string {
	if s.peek() == '"' {
		s.pos++
		return s.quoted()
	}

	var sb strings.Builder
	for !s.done() {
		r := s.src[s.pos]
		if unicode.IsSpace(r) {
			break
		}
		if r == s.escape && s.pos+1 < len(s.src) {
			s.pos++
			r = s.src[s.pos]
		}
		sb.WriteRune(r)
		s.pos++
	}
	return sb.String()
}

// quoted reads up to the closing quote. An unterminated value runs to the
// end of the input.
func (s *scanner) quoted() string {
	var sb strings.Builder
	for !s.done() {
		r := s.src[s.pos]
		s.pos++

		switch {
		case r == '"':
			return sb.String()
		case (r == s.escape || r == '\\') && !s.done():
			next := s.src[s.pos]
			if r == '\\' && next != '"' && next != '\\' {
				sb.WriteRune(r)
				continue
			}
			sb.WriteRune(next)
			s.pos++
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// IndexUnescaped returns the rune index of the first occurrence of sep in
// src that is not preceded by an unescaped escape character, or -1.
func IndexUnescaped(src []rune, sep []rune, escape rune) int {
	for i := 0; i < len(src); i++ {
		if src[i] == escape {
			i++
			continue
		}
		if hasRunePrefix(src[i:], sep) {
			return i
		}
	}
	return -1
}

// Unescape removes escape characters, keeping the characters they protect.
// A trailing escape with nothing to protect is kept literally.
func Unescape(src []rune, escape rune) string {
	var sb strings.Builder
	sb.Grow(len(src))
	for i := 0; i < len(src); i++ {
		if src[i] == escape && i+1 < len(src) {
			i++
		}
		sb.WriteRune(src[i])
	}
	return sb.String()
}

// DanglingEscape reports whether src ends with an escape character that
// protects nothing.
func DanglingEscape(src []rune, escape rune) bool {
	n := 0
	for i := len(src) - 1; i >= 0 && src[i] == escape; i-- {
		n++
	}
	return n%2 == 1
}

func hasRunePrefix(s, prefix []rune) bool {
	if len(prefix) > len(s) {
		return false
	}
	for i, r := range prefix {
		if s[i] != r {
			return false
		}
	}
	return true
}
