// Package codestream provides the character source used by the lexer.
// It wraps fully resident source text, hands out code points one at a time,
// tracks line and column, and supports marking and rewinding to any earlier
// position so the lexer can try a candidate match without committing to it.
package codestream

import (
	"errors"
	"unicode/utf8"
)

// ErrEndOfInput is returned by Advance when the stream is exhausted.
var ErrEndOfInput = errors.New("end of input")

// Position identifies a location in the source.
// Line and Column are 1-based; Offset is the byte offset into the source.
type Position struct {
	Line   int
	Column int
	Offset int
}

// Mark is an opaque snapshot of the stream position, restored with Reset.
type Mark struct {
	index  int
	line   int
	column int
	offset int
}

// Stream is a code point reader over an in-memory source.
// A Stream is not safe for concurrent use.
type Stream struct {
	runes  []rune
	widths []uint8

	index  int
	line   int
	column int
	offset int
}

// New creates a stream over src. Invalid UTF-8 bytes decode to
// utf8.RuneError but keep their original byte width for offsets.
func New(src string) *Stream {
	runes := make([]rune, 0, len(src))
	widths := make([]uint8, 0, len(src))

	for i := 0; i < len(src); {
		r, size := utf8.DecodeRuneInString(src[i:])
		runes = append(runes, r)
		widths = append(widths, uint8(size)) //nolint:gosec // size is at most utf8.UTFMax
		i += size
	}

	return &Stream{
		runes:  runes,
		widths: widths,
		line:   1,
		column: 1,
	}
}

// Peek returns the code point k positions ahead of the current one
// (k == 0 is the current code point). It reports false past the end.
func (s *Stream) Peek(k int) (rune, bool) {
	i := s.index + k
	if k < 0 || i >= len(s.runes) {
		return 0, false
	}
	return s.runes[i], true
}

// PeekIs reports whether the code point k positions ahead equals r.
func (s *Stream) PeekIs(k int, r rune) bool {
	c, ok := s.Peek(k)
	return ok && c == r
}

// HasPrefix reports whether the unread input starts with prefix.
func (s *Stream) HasPrefix(prefix string) bool {
	k := 0
	for _, r := range prefix {
		if !s.PeekIs(k, r) {
			return false
		}
		k++
	}
	return true
}

// Advance consumes and returns the current code point.
// "\r\n", "\r" and "\n" each count as a single line break.
func (s *Stream) Advance() (rune, error) {
	if s.index >= len(s.runes) {
		return 0, ErrEndOfInput
	}

	r := s.runes[s.index]
	s.offset += int(s.widths[s.index])
	s.index++

	switch r {
	case '\r':
		s.line++
		s.column = 1
	case '\n':
		if s.index < 2 || s.runes[s.index-2] != '\r' {
			s.line++
		}
		s.column = 1
	default:
		s.column++
	}

	return r, nil
}

// Skip consumes n code points and returns them as a string.
// It stops early at end of input.
func (s *Stream) Skip(n int) string {
	start := s.index
	for range n {
		if _, err := s.Advance(); err != nil {
			break
		}
	}
	return string(s.runes[start:s.index])
}

// Window returns up to n unread code points without consuming them.
func (s *Stream) Window(n int) string {
	end := min(s.index+n, len(s.runes))
	return string(s.runes[s.index:end])
}

// Position returns the current position.
func (s *Stream) Position() Position {
	return Position{Line: s.line, Column: s.column, Offset: s.offset}
}

// Mark captures the current position.
func (s *Stream) Mark() Mark {
	return Mark{index: s.index, line: s.line, column: s.column, offset: s.offset}
}

// Reset rewinds (or fast-forwards) the stream to m.
func (s *Stream) Reset(m Mark) {
	s.index = m.index
	s.line = m.line
	s.column = m.column
	s.offset = m.offset
}

// AtEnd reports whether every code point has been consumed.
func (s *Stream) AtEnd() bool {
	return s.index >= len(s.runes)
}

// Remaining returns the number of unread code points.
func (s *Stream) Remaining() int {
	return len(s.runes) - s.index
}

// AtLineStart reports whether the current code point is the first of a line.
func (s *Stream) AtLineStart() bool {
	if s.index == 0 {
		return true
	}
	prev := s.runes[s.index-1]
	return prev == '\n' || prev == '\r'
}
