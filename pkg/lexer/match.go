package lexer

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/yaklabco/xwikiparse/pkg/macro"
)

const maxURLLength = 2048

//nolint:gochecknoglobals // compiled once
var (
	urlPattern   = regexp.MustCompile(`^(?i:(?:https?|ftps?|file)://|mailto:)[^\s\[\]|{}"<>]+`)
	imagePattern = regexp.MustCompile(`^(?i:image:)[^\s\[\]|{}"<>]+`)
)

func literal(lit string) matcher {
	runes := []rune(lit)
	return func(l *Lexer) int {
		for i, r := range runes {
			if !l.s.PeekIs(i, r) {
				return -1
			}
		}
		return len(runes)
	}
}

func runOf(pred func(rune) bool) matcher {
	return func(l *Lexer) int {
		n := l.count(0, pred)
		if n == 0 {
			return -1
		}
		return n
	}
}

func isBlank(r rune) bool { return r == ' ' || r == '\t' }

func isWordRune(r rune) bool { return unicode.IsLetter(r) || unicode.IsDigit(r) }

func notIn(set ...rune) func(rune) bool {
	return func(r rune) bool {
		for _, c := range set {
			if r == c {
				return false
			}
		}
		return true
	}
}

// count returns how many consecutive code points from offset k satisfy pred.
func (l *Lexer) count(k int, pred func(rune) bool) int {
	n := 0
	for {
		r, ok := l.s.Peek(k + n)
		if !ok || !pred(r) {
			return n
		}
		n++
	}
}

func (l *Lexer) blanks(k int) int {
	return l.count(k, isBlank)
}

// lineBreakAt returns the width of the line break at offset k, or 0.
func (l *Lexer) lineBreakAt(k int) int {
	r, ok := l.s.Peek(k)
	switch {
	case !ok:
		return 0
	case r == '\n':
		return 1
	case r == '\r':
		if l.s.PeekIs(k+1, '\n') {
			return 2
		}
		return 1
	default:
		return 0
	}
}

func (l *Lexer) atLineEnd(k int) bool {
	_, ok := l.s.Peek(k)
	return !ok || l.lineBreakAt(k) > 0
}

func matchNewline(l *Lexer) int {
	if n := l.lineBreakAt(0); n > 0 {
		return n
	}
	return -1
}

func matchEmptyLine(l *Lexer) int {
	b := l.blanks(0)
	if n := l.lineBreakAt(b); n > 0 {
		return b + n
	}
	return -1
}

func matchEscaped(l *Lexer) int {
	if !l.s.PeekIs(0, l.escape) {
		return -1
	}
	if _, ok := l.s.Peek(1); !ok || l.lineBreakAt(1) > 0 {
		return -1
	}
	return 2
}

func matchHorizontalLine(l *Lexer) int {
	k := l.blanks(0)
	dashes := l.count(k, func(r rune) bool { return r == '-' })
	if dashes < 4 {
		return -1
	}
	k += dashes
	k += l.blanks(k)
	if !l.atLineEnd(k) {
		return -1
	}
	return k
}

func matchHeaderBegin(l *Lexer) int {
	k := l.blanks(0)
	eq := l.count(k, func(r rune) bool { return r == '=' })
	if eq == 0 {
		return -1
	}
	k += eq
	k += l.blanks(k)
	if l.atLineEnd(k) {
		return -1
	}
	return k
}

func matchHeaderEnd(l *Lexer) int {
	k := l.blanks(0)
	eq := l.count(k, func(r rune) bool { return r == '=' })
	if eq == 0 {
		return -1
	}
	k += eq
	k += l.blanks(k)
	if !l.atLineEnd(k) {
		return -1
	}
	return k
}

func isListMarkerRune(r rune) bool {
	return r == '*' || r == '1' || r == ';' || r == ':'
}

// matchListMarker accepts a run of '*', '1', ';' and ':' followed by
// blanks. A run ending in '1' needs a trailing '.', any other run must not
// have one.
func matchListMarker(l *Lexer) int {
	k := l.blanks(0)
	n := l.count(k, isListMarkerRune)
	if n == 0 {
		return -1
	}
	k += n

	last, _ := l.s.Peek(k - 1)
	dot := l.s.PeekIs(k, '.')
	if (last == '1') != dot {
		return -1
	}
	if dot {
		k++
	}

	b := l.blanks(k)
	if b == 0 {
		return -1
	}
	return k + b
}

func matchQuoteMarker(l *Lexer) int {
	n := l.count(0, func(r rune) bool { return r == '>' })
	if n == 0 {
		return -1
	}
	return n + l.blanks(n)
}

func matchCell(lineStart bool) matcher {
	return func(l *Lexer) int {
		k := 0
		if lineStart {
			k = l.blanks(0)
		}
		if !l.s.PeekIs(k, '|') {
			return -1
		}
		k++
		return k + l.blanks(k)
	}
}

func matchHeaderCell(lineStart bool) matcher {
	return func(l *Lexer) int {
		k := 0
		if lineStart {
			k = l.blanks(0)
		}
		r, ok := l.s.Peek(k)
		if !ok || (r != '|' && r != '!') || !l.s.PeekIs(k+1, '=') {
			return -1
		}
		k += 2
		return k + l.blanks(k)
	}
}

// matchParameters accepts "(%" ... "%)" on a single line. Quoted values
// may contain "%)"; the escape character protects the next character.
func matchParameters(l *Lexer) int {
	if !l.s.PeekIs(0, '(') || !l.s.PeekIs(1, '%') {
		return -1
	}

	inQuote := false
	for k := 2; k < l.maxLookahead; k++ {
		r, ok := l.s.Peek(k)
		if !ok || r == '\n' || r == '\r' {
			return -1
		}
		switch {
		case r == l.escape || (inQuote && r == '\\'):
			k++
		case r == '"':
			inQuote = !inQuote
		case !inQuote && r == '%' && l.s.PeekIs(k+1, ')'):
			return k + 2
		}
	}
	return -1
}

// scanMacroMarker measures "{{name ...}}". Quoted parameter values may
// contain braces. A second "{{" outside quotes means this is not a marker.
func (l *Lexer) scanMacroMarker() int {
	if !l.s.PeekIs(0, '{') || !l.s.PeekIs(1, '{') {
		return -1
	}
	if r, ok := l.s.Peek(2); !ok || !macro.IsNameStart(r) {
		return -1
	}

	k := 3 + l.count(3, macro.IsNameChar)
	if r, ok := l.s.Peek(k); ok && !unicode.IsSpace(r) && r != '/' && r != '}' {
		return -1
	}

	inQuote := false
	for ; k < l.maxLookahead; k++ {
		r, ok := l.s.Peek(k)
		if !ok {
			return -1
		}
		switch {
		case r == l.escape || (inQuote && r == '\\'):
			k++
		case r == '"':
			inQuote = !inQuote
		case inQuote:
		case r == '}' && l.s.PeekIs(k+1, '}'):
			return k + 2
		case r == '{' && l.s.PeekIs(k+1, '{'):
			return -1
		}
	}
	return -1
}

func matchMacroMarker(selfClosing bool) matcher {
	return func(l *Lexer) int {
		n := l.scanMacroMarker()
		if n < 0 {
			return -1
		}
		if _, sc := macro.SplitMarker(l.s.Window(n)); sc != selfClosing {
			return -1
		}
		return n
	}
}

func matchMacroClose(l *Lexer) int {
	if !l.s.PeekIs(0, '{') || !l.s.PeekIs(1, '{') || !l.s.PeekIs(2, '/') {
		return -1
	}
	if r, ok := l.s.Peek(3); !ok || !macro.IsNameStart(r) {
		return -1
	}
	k := 4 + l.count(4, macro.IsNameChar)
	k += l.blanks(k)
	if !l.s.PeekIs(k, '}') || !l.s.PeekIs(k+1, '}') {
		return -1
	}
	return k + 2
}

// matchReference accepts "[[" ... "]]" whose content starts with prefix.
// Nested "[[ ]]" pairs are balanced. A reference that is never closed runs
// to the end of the input.
func matchReference(prefix string) matcher {
	pre := []rune(prefix)
	return func(l *Lexer) int {
		if !l.s.PeekIs(0, '[') || !l.s.PeekIs(1, '[') {
			return -1
		}
		for i, r := range pre {
			c, ok := l.s.Peek(2 + i)
			if !ok || unicode.ToLower(c) != r {
				return -1
			}
		}

		depth := 1
		k := 2
		for {
			r, ok := l.s.Peek(k)
			if !ok {
				return min(k, l.s.Remaining())
			}
			switch {
			case r == l.escape:
				k++
			case r == '[' && l.s.PeekIs(k+1, '['):
				depth++
				k++
			case r == ']' && l.s.PeekIs(k+1, ']'):
				depth--
				k++
				if depth == 0 {
					return k + 1
				}
			}
			k++
		}
	}
}

func matchURL(l *Lexer) int {
	r, ok := l.s.Peek(0)
	if !ok || !strings.ContainsRune("hHfFmM", r) {
		return -1
	}
	return l.matchPattern(urlPattern)
}

func matchFreeImage(l *Lexer) int {
	r, ok := l.s.Peek(0)
	if !ok || (r != 'i' && r != 'I') {
		return -1
	}
	return l.matchPattern(imagePattern)
}

// isURLRune reports whether r may appear in a free-standing URL.
func isURLRune(r rune) bool {
	return !strings.ContainsRune(" \t\n\f\r[]|{}\"<>", r)
}

// urlRun returns the length of the run of URL code points ahead, capped at
// maxURLLength, and whether it holds a colon.
func (l *Lexer) urlRun() (int, bool) {
	n, colon := 0, false
	for n < maxURLLength {
		r, ok := l.s.Peek(n)
		if !ok || !isURLRune(r) {
			break
		}
		colon = colon || r == ':'
		n++
	}
	return n, colon
}

// matchPattern runs re against the URL run ahead and drops trailing
// sentence punctuation from the match.
func (l *Lexer) matchPattern(re *regexp.Regexp) int {
	n, colon := l.urlRun()
	if !colon {
		return -1
	}
	window := l.s.Window(n)
	loc := re.FindStringIndex(window)
	if loc == nil {
		return -1
	}
	m := strings.TrimRight(window[:loc[1]], ".,;:!?)'")
	colon := strings.Index(m, ":")
	if colon < 0 || !strings.ContainsFunc(m[colon+1:], isWordRune) {
		return -1
	}
	return len([]rune(m))
}
