// Package linktarget parses the bracketed content of link, image and
// attachment references.
//
// Two separator styles are accepted. The native XWiki 2.1 form is
//
//	label>>reference||parameters
//
// and the compact form splits on the first two unescaped '|':
//
//	label|reference|parameters
//
// The native form is used whenever the text contains an unescaped ">>" or
// "||". In both forms the reference is further split into its query string
// (after the first unescaped '?') and anchor (after the first unescaped
// '#'). The escape character, '~' by default, escapes itself and any
// separator.
package linktarget

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yaklabco/xwikiparse/pkg/params"
)

// ErrMalformedTarget is returned when the text ends with an escape
// character that protects nothing.
var ErrMalformedTarget = errors.New("malformed link target")

// ResourceType classifies what a reference points at.
type ResourceType string

// Resource types, derived from the reference prefix.
const (
	TypeDocument   ResourceType = "doc"
	TypeSpace      ResourceType = "space"
	TypeURL        ResourceType = "url"
	TypeMailto     ResourceType = "mailto"
	TypeAttachment ResourceType = "attach"
	TypeImage      ResourceType = "image"
	TypePath       ResourceType = "path"
	TypeInterWiki  ResourceType = "interwiki"
)

// Target is the parsed form of a reference.
// Optional parts that are absent are empty strings.
type Target struct {
	Label       string        `json:"label,omitempty"`
	Reference   string        `json:"reference"`
	QueryString string        `json:"queryString,omitempty"`
	Anchor      string        `json:"anchor,omitempty"`
	Parameters  params.Params `json:"parameters,omitempty"`
	Type        ResourceType  `json:"type"`
}

// String reassembles the reference with its query string and anchor.
func (t Target) String() string {
	var sb strings.Builder
	sb.WriteString(t.Reference)
	if t.QueryString != "" {
		sb.WriteByte('?')
		sb.WriteString(t.QueryString)
	}
	if t.Anchor != "" {
		sb.WriteByte('#')
		sb.WriteString(t.Anchor)
	}
	return sb.String()
}

type prefixRule struct {
	prefix string
	typ    ResourceType
	keep   bool // keep the prefix as part of the reference
}

// Ordered so that longer prefixes are tried first where they overlap.
//
//nolint:gochecknoglobals // static lookup table
var prefixRules = []prefixRule{
	{prefix: "https://", typ: TypeURL, keep: true},
	{prefix: "http://", typ: TypeURL, keep: true},
	{prefix: "ftps://", typ: TypeURL, keep: true},
	{prefix: "ftp://", typ: TypeURL, keep: true},
	{prefix: "file://", typ: TypeURL, keep: true},
	{prefix: "url:", typ: TypeURL},
	{prefix: "mailto:", typ: TypeMailto},
	{prefix: "attach:", typ: TypeAttachment},
	{prefix: "image:", typ: TypeImage},
	{prefix: "doc:", typ: TypeDocument},
	{prefix: "space:", typ: TypeSpace},
	{prefix: "path:", typ: TypePath},
	{prefix: "interwiki:", typ: TypeInterWiki},
}

// Classify derives the resource type of ref and strips a typing prefix.
// References without a known prefix are documents.
func Classify(ref string) (string, ResourceType) {
	for _, rule := range prefixRules {
		n := len(rule.prefix)
		if len(ref) >= n && strings.EqualFold(ref[:n], rule.prefix) {
			if rule.keep {
				return ref, rule.typ
			}
			return ref[n:], rule.typ
		}
	}
	return ref, TypeDocument
}

// Parse splits raw into a Target using escape as the escape character.
// It fails only with ErrMalformedTarget.
func Parse(raw string, escape rune) (Target, error) {
	src := []rune(raw)
	if params.DanglingEscape(src, escape) {
		return Target{}, fmt.Errorf("%w: %q ends with a dangling %q", ErrMalformedTarget, raw, escape)
	}

	label, ref, paramSeg, hasLabel := split(src, escape)

	target := Target{}
	if hasLabel {
		target.Label = params.Unescape(label, escape)
	}
	if paramSeg != nil {
		target.Parameters = params.Parse(string(paramSeg), escape)
	}

	reference, query, anchor := splitReference(ref, escape)
	target.Reference, target.Type = Classify(strings.TrimSpace(reference))
	target.QueryString = query
	target.Anchor = anchor

	return target, nil
}

// Fallback builds the target used when raw cannot be parsed: the whole
// text becomes the reference, with no label or parameters.
func Fallback(raw string) Target {
	ref, typ := Classify(raw)
	return Target{Reference: ref, Type: typ}
}

// split separates label, reference and parameter segments.
// A nil paramSeg means there were no parameters.
func split(src []rune, escape rune) (label, ref, paramSeg []rune, hasLabel bool) {
	labelSep := params.IndexUnescaped(src, []rune(">>"), escape)
	paramSep := params.IndexUnescaped(src, []rune("||"), escape)

	if labelSep >= 0 || paramSep >= 0 {
		rest := src
		if labelSep >= 0 && (paramSep < 0 || labelSep < paramSep) {
			label, rest, hasLabel = src[:labelSep], src[labelSep+2:], true
			paramSep = params.IndexUnescaped(rest, []rune("||"), escape)
		}
		if paramSep >= 0 {
			return label, rest[:paramSep], rest[paramSep+2:], hasLabel
		}
		return label, rest, nil, hasLabel
	}

	first := params.IndexUnescaped(src, []rune("|"), escape)
	if first < 0 {
		return nil, src, nil, false
	}
	rest := src[first+1:]
	second := params.IndexUnescaped(rest, []rune("|"), escape)
	if second < 0 {
		return src[:first], rest, nil, true
	}
	return src[:first], rest[:second], rest[second+1:], true
}

// splitReference separates the query string and anchor from ref.
// A '?' that follows the anchor belongs to the anchor.
func splitReference(ref []rune, escape rune) (reference, query, anchor string) {
	hash := params.IndexUnescaped(ref, []rune("#"), escape)
	head := ref
	if hash >= 0 {
		head = ref[:hash]
		anchor = params.Unescape(ref[hash+1:], escape)
	}

	q := params.IndexUnescaped(head, []rune("?"), escape)
	if q >= 0 {
		query = params.Unescape(head[q+1:], escape)
		head = head[:q]
	}

	return params.Unescape(head, escape), query, anchor
}
