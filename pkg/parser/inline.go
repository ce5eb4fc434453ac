package parser

import (
	"strings"
	"unicode/utf8"

	"github.com/yaklabco/xwikiparse/internal/logging"
	"github.com/yaklabco/xwikiparse/pkg/langdetect"
	"github.com/yaklabco/xwikiparse/pkg/linktarget"
	"github.com/yaklabco/xwikiparse/pkg/listener"
	"github.com/yaklabco/xwikiparse/pkg/macro"
	"github.com/yaklabco/xwikiparse/pkg/params"
	"github.com/yaklabco/xwikiparse/pkg/token"
)

//nolint:gochecknoglobals // static lookup table
var formatKinds = map[token.Kind]listener.FormatKind{
	token.Bold:        listener.FormatBold,
	token.Italic:      listener.FormatItalic,
	token.Underline:   listener.FormatUnderline,
	token.Strikeout:   listener.FormatStrikeout,
	token.Superscript: listener.FormatSuperscript,
	token.Subscript:   listener.FormatSubscript,
	token.Monospace:   listener.FormatMonospace,
}

// inline prepares for inline content at the current position.
func (r *run) inline() {
	r.startInline()
	r.ensureInline()
}

func (r *run) word(text string) {
	r.inline()
	r.addText(text)
}

func (r *run) escaped(tok token.Token) {
	r.inline()
	r.fresh = false
	_, size := utf8.DecodeRuneInString(tok.Text)
	r.text.WriteString(tok.Text[size:])
}

// space keeps blanks only inside inline content; blanks before the first
// content of a line or outside any container carry no meaning.
func (r *run) space(tok token.Token) {
	if r.atLineStart || (!r.fragment && !r.blocks.TopKind().IsInline()) {
		return
	}
	r.addText(tok.Text)
}

func (r *run) addText(s string) {
	if r.fresh {
		s = strings.TrimLeft(s, " \t")
		if s == "" {
			return
		}
		r.fresh = false
	}
	r.text.WriteString(s)
}

// flush reports the text collected so far, optionally without trailing
// blanks.
func (r *run) flush(trimRight bool) {
	if r.text.Len() == 0 {
		return
	}
	s := r.text.String()
	r.text.Reset()
	if trimRight {
		s = strings.TrimRight(s, " \t")
	}
	if s != "" {
		r.out.OnText(s)
	}
}

func (r *run) lineBreak() {
	r.inline()
	r.flush(true)
	r.out.OnNewLine()
	r.fresh = true
}

func (r *run) owner() int {
	return r.blocks.Len()
}

// openFormat returns the index of the innermost open format of kind in
// the current container, or -1.
func (r *run) openFormat(kind listener.FormatKind) int {
	owner := r.owner()
	for i := len(r.formats) - 1; i >= 0 && r.formats[i].owner == owner; i-- {
		if r.formats[i].kind == kind {
			return i
		}
	}
	return -1
}

func (r *run) beginFormat(kind listener.FormatKind, p params.Params) {
	r.formats = append(r.formats, format{kind: kind, params: p, owner: r.owner()})
	r.out.BeginFormat(kind, p)
}

// closeFormat ends the format at index i. Formats opened after it are
// ended first and opened again afterwards.
func (r *run) closeFormat(i int) {
	reopen := append([]format(nil), r.formats[i+1:]...)
	for j := len(r.formats) - 1; j >= i; j-- {
		r.out.EndFormat(r.formats[j].kind)
	}
	r.formats = r.formats[:i]
	for _, f := range reopen {
		r.beginFormat(f.kind, f.params)
	}
}

// endFormats ends the formats owned by contexts deeper than n.
func (r *run) endFormats(n int) {
	for len(r.formats) > 0 {
		f := r.formats[len(r.formats)-1]
		if f.owner <= n {
			return
		}
		r.formats = r.formats[:len(r.formats)-1]
		r.out.EndFormat(f.kind)
	}
}

func (r *run) toggle(kind listener.FormatKind) {
	r.inline()
	r.flush(false)
	if i := r.openFormat(kind); i >= 0 {
		r.closeFormat(i)
	} else {
		r.beginFormat(kind, nil)
	}
	r.fresh = false
}

func (r *run) parseParams(text string) params.Params {
	inner := strings.TrimPrefix(text, "(%")
	inner = strings.TrimSuffix(inner, "%)")
	return params.Parse(inner, r.p.escape)
}

// lineParams keeps parameters found at the start of a line for the next
// block that opens.
func (r *run) lineParams(tok token.Token) {
	r.blockParams = r.blockParams.Merge(r.parseParams(tok.Text))
	r.softLine = true
}

func (r *run) inlineParams(tok token.Token) {
	r.inline()
	r.flush(false)
	r.beginFormat(listener.FormatNone, r.parseParams(tok.Text))
	r.fresh = false
}

func (r *run) resetParams() {
	i := r.openFormat(listener.FormatNone)
	if i < 0 {
		return
	}
	r.flush(false)
	r.closeFormat(i)
}

func (r *run) reference(tok token.Token) {
	raw := strings.TrimPrefix(tok.Text, "[[")
	raw = strings.TrimSuffix(raw, "]]")

	target, err := linktarget.Parse(raw, r.p.escape)
	if err != nil {
		r.debug("unparsable link target", logging.FieldLine, r.line, logging.FieldError, err)
		target = linktarget.Fallback(raw)
	}

	r.inline()
	r.flush(false)
	r.out.OnReference(target, tok.Kind == token.Image, false)
	r.fresh = false
}

func (r *run) freeReference(tok token.Token) {
	ref, typ := linktarget.Classify(tok.Text)

	r.inline()
	r.flush(false)
	r.out.OnReference(linktarget.Target{Reference: ref, Type: typ}, tok.Kind == token.FreeStandingImage, true)
	r.fresh = false
}

// verbatim reads a verbatim block after its opening marker. It is a block
// when it starts a line outside inline content and its closing marker
// ends the line.
func (r *run) verbatim() {
	lineStart := r.atLineStart && !r.fragment
	content := r.scanVerbatim()
	r.pop()

	if lineStart && r.lineEndsHere() {
		r.startBlock()
		r.closeSegment()
		r.out.OnVerbatim(content, false, r.takeBlockParams())
		r.blockSeen = true
		return
	}

	r.inline()
	r.flush(false)
	r.out.OnVerbatim(content, true, nil)
	r.fresh = false
}

// scanVerbatim collects raw text up to the matching closing marker or the
// end of the input.
func (r *run) scanVerbatim() string {
	var sb strings.Builder
	depth := 1
	for {
		tok := r.next()
		switch tok.Kind {
		case token.EOF:
			return sb.String()
		case token.VerbatimOpen:
			depth++
		case token.VerbatimClose:
			depth--
			if depth == 0 {
				return sb.String()
			}
		}
		sb.WriteString(tok.Text)
	}
}

// macro reads a macro invocation. Block and inline macros are told apart
// the same way as verbatim blocks.
func (r *run) macro(tok token.Token) {
	lineStart := r.atLineStart && !r.fragment

	inv, selfClosing := macro.ParseMarker(tok.Text, r.p.escape)
	if !selfClosing {
		inv = inv.WithContent(r.scanMacro(inv.Name))
		r.pop()
	}
	r.detectLanguage(&inv)

	if lineStart && r.lineEndsHere() {
		r.startBlock()
		r.closeSegment()
		r.blockParams = nil
		inv.Inline = false
		r.out.OnMacro(inv)
		r.blockSeen = true
		return
	}

	r.inline()
	r.flush(false)
	inv.Inline = true
	r.out.OnMacro(inv)
	r.fresh = false
}

// scanMacro collects the raw body of the macro name up to its matching
// closing marker or the end of the input. Nested macros of the same name
// must be closed first.
func (r *run) scanMacro(name string) string {
	var sb strings.Builder
	depth := 1
	for {
		tok := r.next()
		switch tok.Kind {
		case token.EOF:
			return sb.String()
		case token.MacroOpen:
			if macro.NameOf(tok.Text) == name {
				depth++
			}
		case token.MacroClose:
			if macro.CloseName(tok.Text) == name {
				depth--
				if depth == 0 {
					return sb.String()
				}
			}
		}
		sb.WriteString(tok.Text)
	}
}

const codeMacro = "code"

func (r *run) detectLanguage(inv *macro.Invocation) {
	if !r.p.detectLanguage || inv.Name != codeMacro || inv.Content == nil {
		return
	}
	if _, ok := inv.Parameters.Get("language"); ok {
		return
	}
	lang := langdetect.Detect([]byte(*inv.Content))
	inv.Parameters = inv.Parameters.Merge(params.Params{"language": lang})
}
