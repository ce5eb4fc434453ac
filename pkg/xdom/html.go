package xdom

import (
	"fmt"
	"html"
	"io"
	"strconv"
	"strings"

	"github.com/yaklabco/xwikiparse/pkg/linktarget"
	"github.com/yaklabco/xwikiparse/pkg/listener"
	"github.com/yaklabco/xwikiparse/pkg/params"
)

// blockTags maps block containers to their HTML element.
//
//nolint:gochecknoglobals // static lookup table
var blockTags = map[NodeKind]string{
	NodeGroup:                 "div",
	NodeParagraph:             "p",
	NodeListItem:              "li",
	NodeDefinitionList:        "dl",
	NodeDefinitionTerm:        "dt",
	NodeDefinitionDescription: "dd",
	NodeTable:                 "table",
	NodeTableRow:              "tr",
	NodeQuotation:             "blockquote",
}

//nolint:gochecknoglobals // static lookup table
var formatTags = [...]string{
	listener.FormatNone:        "span",
	listener.FormatBold:        "strong",
	listener.FormatItalic:      "em",
	listener.FormatUnderline:   "ins",
	listener.FormatStrikeout:   "del",
	listener.FormatSuperscript: "sup",
	listener.FormatSubscript:   "sub",
	listener.FormatMonospace:   "tt",
}

type htmlWriter struct {
	w   io.Writer
	err error
}

func (hw *htmlWriter) write(parts ...string) {
	for _, s := range parts {
		if hw.err != nil {
			return
		}
		_, hw.err = io.WriteString(hw.w, s)
	}
}

// RenderHTML writes the tree below root as an HTML fragment. Parameters
// become attributes; macros are not executed and keep their raw content.
func RenderHTML(w io.Writer, root *Node) error {
	hw := &htmlWriter{w: w}
	hw.node(root)
	if hw.err != nil {
		return fmt.Errorf("render html: %w", hw.err)
	}
	return nil
}

// RenderHTMLPage writes a complete HTML document around the fragment.
func RenderHTMLPage(w io.Writer, root *Node, title string) error {
	hw := &htmlWriter{w: w}
	hw.write("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>",
		html.EscapeString(title), "</title>\n</head>\n<body>\n")
	hw.node(root)
	hw.write("</body>\n</html>\n")
	if hw.err != nil {
		return fmt.Errorf("render html: %w", hw.err)
	}
	return nil
}

func (hw *htmlWriter) children(n *Node) {
	for c := n.FirstChild; c != nil; c = c.Next {
		hw.node(c)
	}
}

func (hw *htmlWriter) element(tag string, p params.Params, n *Node, block bool) {
	hw.write("<", tag, attributes(p), ">")
	hw.children(n)
	hw.write("</", tag, ">")
	if block {
		hw.write("\n")
	}
}

func (hw *htmlWriter) node(n *Node) {
	if n == nil {
		return
	}
	e := n.Event

	switch n.Kind {
	case NodeDocument:
		hw.children(n)
	case NodeHeader:
		hw.element("h"+strconv.Itoa(min(max(e.Level, 1), 6)), e.Params, n, true)
	case NodeList:
		tag := "ul"
		if e.Ordered {
			tag = "ol"
		}
		hw.element(tag, e.Params, n, true)
	case NodeTableCell:
		tag := "td"
		if e.Header {
			tag = "th"
		}
		hw.element(tag, e.Params, n, false)
	case NodeQuotationLine:
		hw.children(n)
		if n.Next != nil {
			hw.write("<br/>\n")
		}
	case NodeFormat:
		tag := "span"
		if int(e.Format) < len(formatTags) {
			tag = formatTags[e.Format]
		}
		hw.element(tag, e.Params, n, false)
	case NodeText:
		hw.write(html.EscapeString(e.Text))
	case NodeNewLine:
		hw.write("<br/>")
	case NodeEmptyLines:
		for range e.Count {
			hw.write("<div class=\"wikimodel-emptyline\"></div>\n")
		}
	case NodeHorizontalLine:
		hw.write("<hr", attributes(e.Params), "/>\n")
	case NodeVerbatim:
		if e.Inline {
			hw.write("<tt class=\"wikimodel-verbatim\"", attributes(e.Params), ">", html.EscapeString(e.Text), "</tt>")
			return
		}
		hw.write("<pre", attributes(e.Params), ">", html.EscapeString(e.Text), "</pre>\n")
	case NodeReference:
		hw.reference(e)
	case NodeMacro:
		hw.macro(e)
	default:
		if tag, ok := blockTags[n.Kind]; ok {
			hw.element(tag, e.Params, n, true)
			return
		}
		hw.children(n)
	}
}

func (hw *htmlWriter) reference(e listener.Event) {
	if e.Target == nil {
		return
	}
	t := e.Target

	if e.Image || t.Type == linktarget.TypeImage {
		alt := t.Label
		if alt == "" {
			alt = t.Reference
		}
		hw.write("<img src=\"", html.EscapeString(t.String()), "\" alt=\"", html.EscapeString(alt), "\"",
			attributes(t.Parameters), "/>")
		return
	}

	href := t.String()
	if t.Type == linktarget.TypeMailto {
		href = "mailto:" + href
	}
	label := t.Label
	if label == "" {
		label = t.String()
	}
	hw.write("<a href=\"", html.EscapeString(href), "\"", attributes(t.Parameters), ">", html.EscapeString(label), "</a>")
}

func (hw *htmlWriter) macro(e listener.Event) {
	if e.Macro == nil {
		return
	}
	inv := e.Macro

	tag := "div"
	if inv.Inline {
		tag = "span"
	}
	hw.write("<", tag, " class=\"macro\" data-macro=\"", html.EscapeString(inv.Name), "\"", attributes(dataParams(inv.Parameters)), ">")
	if inv.Content != nil {
		if inv.Inline {
			hw.write("<code>", html.EscapeString(*inv.Content), "</code>")
		} else {
			hw.write("<pre>", html.EscapeString(*inv.Content), "</pre>")
		}
	}
	hw.write("</", tag, ">")
	if !inv.Inline {
		hw.write("\n")
	}
}

// dataParams prefixes macro parameters with "data-" so that they cannot
// collide with real attributes.
func dataParams(p params.Params) params.Params {
	if len(p) == 0 {
		return nil
	}
	out := make(params.Params, len(p))
	for k, v := range p {
		out["data-"+k] = v
	}
	return out
}

// attributes renders p in key order. Keys that are not valid attribute
// names are dropped.
func attributes(p params.Params) string {
	if len(p) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, k := range p.Keys() {
		if !validAttribute(k) {
			continue
		}
		sb.WriteString(" ")
		sb.WriteString(strings.ToLower(k))
		sb.WriteString("=\"")
		sb.WriteString(html.EscapeString(p[k]))
		sb.WriteString("\"")
	}
	return sb.String()
}

func validAttribute(name string) bool {
	if name == "" || strings.HasPrefix(strings.ToLower(name), "on") {
		return false
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == ':':
		default:
			return false
		}
	}
	return true
}
