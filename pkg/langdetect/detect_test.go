package langdetect_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/xwikiparse/pkg/langdetect"
)

func TestDetect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{name: "empty", content: "", want: langdetect.None},
		{name: "blank", content: " \n\t\n", want: langdetect.None},
		{name: "shebang bash", content: "#!/bin/bash\necho hello", want: "bash"},
		{name: "shebang python", content: "#!/usr/bin/env python3\nprint('hello')", want: "python"},
		{
			name:    "velocity directive",
			content: "#set ($pages = $services.query.xwql('').execute())\n#foreach ($p in $pages)\n* $p\n#end",
			want:    "velocity",
		},
		{name: "velocity binding", content: "Hello $xwiki.getUserName($xcontext.user)", want: "velocity"},
		{name: "go", content: "package main\n\nfunc main() {\n\tprintln(\"hi\")\n}", want: "go"},
		{
			name:    "java",
			content: "public class Hello {\n  public static void main(String[] args) {\n    System.out.println(\"hi\");\n  }\n}",
			want:    "java",
		},
		{name: "groovy", content: "def greet(name) {\n  println \"Hello ${name}\"\n}\ngreet('wiki')", want: "groovy"},
		{
			name:    "python",
			content: "def foo():\n    pass\n\nif __name__ == '__main__':\n    foo()",
			want:    "python",
		},
		{name: "html", content: "<div class=\"box\">\n  <p>Hi</p>\n</div>", want: "html"},
		{name: "xml", content: "<?xml version=\"1.0\"?>\n<page><title>Home</title></page>", want: "xml"},
		{name: "json", content: `{"name": "Main", "version": 1}`, want: "json"},
		{name: "sql", content: "SELECT doc.fullName FROM XWikiDocument doc WHERE doc.space = 'Main'", want: "sql"},
		{name: "javascript", content: "const x = () => 42;\nconsole.log(x());", want: "javascript"},
		{name: "css", content: ".box {\n  color: red;\n}", want: "css"},
		{name: "yaml", content: "name: xwiki\nversion: 16\nitems:\n  - a\n", want: "yaml"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, langdetect.Detect([]byte(tc.content)))
		})
	}
}

func FuzzDetect(f *testing.F) {
	f.Add([]byte("package main"))
	f.Add([]byte("#set ($x = 1)"))
	f.Add([]byte("{\"a\":"))
	f.Add([]byte("{"))

	f.Fuzz(func(t *testing.T, content []byte) {
		if langdetect.Detect(content) == "" {
			t.Fatal("Detect returned an empty language")
		}
	})
}

func BenchmarkDetect(b *testing.B) {
	code := []byte("#set ($doc = $xwiki.getDocument('Main.WebHome'))\n$doc.title")
	for b.Loop() {
		langdetect.Detect(code)
	}
}
