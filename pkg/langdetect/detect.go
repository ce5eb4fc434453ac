// Package langdetect guesses the language of {{code}} macro bodies. The
// names it returns are the lexer names accepted by the code macro's
// language parameter.
package langdetect

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// None is returned when no language could be determined. The code macro
// renders it as plain text.
const None = "none"

// Language names, as used in {{code language="..."}}.
const (
	langBash       = "bash"
	langCSS        = "css"
	langGo         = "go"
	langGroovy     = "groovy"
	langHTML       = "html"
	langJava       = "java"
	langJavaScript = "javascript"
	langJSON       = "json"
	langPython     = "python"
	langSQL        = "sql"
	langVelocity   = "velocity"
	langXML        = "xml"
	langYAML       = "yaml"
)

// classifierCandidates limits the enry classifier to languages commonly
// embedded in wiki pages.
//
//nolint:gochecknoglobals // read-only lookup table
var classifierCandidates = []string{
	"Java", "Groovy", "Python", "JavaScript", "Go", "Shell", "SQL",
	"HTML", "XML", "CSS", "JSON", "YAML", "Velocity Template Language",
}

// enryNames maps enry language names that differ from the code macro's.
//
//nolint:gochecknoglobals // read-only lookup table
var enryNames = map[string]string{
	"Shell":                      langBash,
	"Velocity Template Language": langVelocity,
}

type rule struct {
	lang  string
	match func(src string, trimmed string) bool
}

//nolint:gochecknoglobals // compiled once
var (
	velocityDirective = regexp.MustCompile(`(?m)^\s*#(set|if|foreach|macro|elseif)\s*\(`)
	xwikiBinding      = regexp.MustCompile(`\$(xwiki|doc|request|services|xcontext)\b`)
	javaClass         = regexp.MustCompile(`\b(public|private|protected)\s+(static\s+)?(final\s+)?(class|interface|void|enum)\b`)
	groovyDef         = regexp.MustCompile(`(?m)^\s*(def\s+\w+|import\s+[\w.]+\s*$)`)
	sqlStatement      = regexp.MustCompile(`(?i)^(select|insert|update|delete|create|alter|drop|with)\s`)
	yamlKey           = regexp.MustCompile(`^[\w.-]+:(\s|$)`)
)

// rules are tried in order; the first match wins. Wiki scripting
// languages come first since their markers also look like other code.
//
//nolint:gochecknoglobals // read-only lookup table
var rules = []rule{
	{langVelocity, func(src, _ string) bool {
		return velocityDirective.MatchString(src) || xwikiBinding.MatchString(src)
	}},
	{langGo, func(_, trimmed string) bool {
		return strings.HasPrefix(trimmed, "package ") && !strings.Contains(trimmed, ";")
	}},
	{langJava, func(src, _ string) bool {
		return javaClass.MatchString(src) && strings.Contains(src, ";")
	}},
	{langGroovy, func(src, _ string) bool {
		return groovyDef.MatchString(src) && !strings.Contains(src, "):")
	}},
	{langPython, func(src, _ string) bool {
		return (strings.Contains(src, "def ") && strings.Contains(src, "):")) ||
			strings.Contains(src, "__name__") ||
			(strings.Contains(src, "from ") && strings.Contains(src, " import "))
	}},
	{langHTML, func(_, trimmed string) bool {
		lower := strings.ToLower(trimmed)
		return strings.HasPrefix(lower, "<!doctype html") || strings.Contains(lower, "<html") ||
			strings.Contains(lower, "<body") || strings.Contains(lower, "<div")
	}},
	{langXML, func(_, trimmed string) bool {
		return strings.HasPrefix(trimmed, "<?xml") ||
			(strings.HasPrefix(trimmed, "<") && strings.HasSuffix(trimmed, ">") && strings.Contains(trimmed, "</"))
	}},
	{langJSON, func(_, trimmed string) bool {
		object := strings.HasPrefix(trimmed, "{") && strings.HasSuffix(trimmed, "}")
		array := strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]")
		return (object || array) && strings.Contains(trimmed, `":`)
	}},
	{langSQL, func(_, trimmed string) bool {
		return sqlStatement.MatchString(trimmed)
	}},
	{langJavaScript, func(src, _ string) bool {
		return strings.Contains(src, "=>") || strings.Contains(src, "console.log") ||
			(strings.Contains(src, "function ") && strings.Contains(src, "{"))
	}},
	{langCSS, func(_, trimmed string) bool {
		open := strings.IndexByte(trimmed, '{')
		return open > 0 && strings.Contains(trimmed[open:], ":") &&
			strings.Contains(trimmed[open:], ";") && !strings.Contains(trimmed[:open], "(")
	}},
	{langYAML, func(src, _ string) bool {
		keys := 0
		for line := range strings.Lines(src) {
			line = strings.TrimSpace(line)
			if yamlKey.MatchString(line) || strings.HasPrefix(line, "- ") {
				keys++
			}
		}
		return keys >= 2
	}},
}

// Detect returns the language of content, or None.
func Detect(content []byte) string {
	trimmed := bytes.TrimSpace(content)
	if len(trimmed) == 0 {
		return None
	}

	if lang, safe := enry.GetLanguageByShebang(trimmed); safe && lang != "" {
		return normalize(lang)
	}

	src := string(content)
	trimmedSrc := string(trimmed)
	for _, r := range rules {
		if r.match(src, trimmedSrc) {
			return r.lang
		}
	}

	if lang, safe := enry.GetLanguageByClassifier(trimmed, classifierCandidates); safe && lang != "" {
		return normalize(lang)
	}
	return None
}

func normalize(lang string) string {
	if name, ok := enryNames[lang]; ok {
		return name
	}
	return strings.ToLower(lang)
}
