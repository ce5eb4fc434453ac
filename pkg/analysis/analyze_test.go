package analysis_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/xwikiparse/pkg/analysis"
	"github.com/yaklabco/xwikiparse/pkg/listener"
	"github.com/yaklabco/xwikiparse/pkg/parser"
	"github.com/yaklabco/xwikiparse/pkg/runner"
)

const page = `= Title =

See [[Main.WebHome]] and [[https://xwiki.org]] or mail [[mailto:a@b.c]].

{{toc/}}

{{code language="java"}}class A {}{{/code}}

* a
** b
*** [[Sandbox.Test]]

{{code}}plain{{/code}}
`

func outcome(t *testing.T, path, src string) runner.FileOutcome {
	t.Helper()
	r := runner.New()
	r.KeepEvents = true
	o := r.ParseSource(context.Background(), path, src)
	require.NoError(t, o.Error)
	return o
}

func countOf(counts []analysis.NamedCount, name string) int {
	for _, c := range counts {
		if c.Name == name {
			return c.Count
		}
	}
	return 0
}

func TestAnalyze(t *testing.T) {
	t.Parallel()

	result := &runner.Result{Files: []runner.FileOutcome{
		outcome(t, "/wiki/b/Page.xwiki", page),
		outcome(t, "/wiki/a/Short.xwiki", "hello"),
		{Path: "/wiki/c/Broken.xwiki", Error: errors.New("read file: denied")},
	}}

	report := analysis.Analyze(result, analysis.Options{
		IncludeByFile: true,
		SortBy:        analysis.SortByCount,
		SortDesc:      true,
		WorkingDir:    "/wiki",
	})

	assert.Equal(t, analysis.ReportVersion, report.Version)
	assert.Equal(t, 3, report.Totals.Files)
	assert.Equal(t, 2, report.Totals.FilesParsed)
	assert.Equal(t, 1, report.Totals.FilesFailed)
	assert.True(t, report.Totals.HasFailures())
	assert.Equal(t, len(page)+len("hello"), report.Totals.Bytes)

	assert.Equal(t, 2, countOf(report.Macros, "code"))
	assert.Equal(t, 1, countOf(report.Macros, "toc"))
	assert.Equal(t, "code", report.Macros[0].Name, "highest count first")

	assert.Equal(t, 2, countOf(report.References, "doc"))
	assert.Equal(t, 1, countOf(report.References, "url"))
	assert.Equal(t, 1, countOf(report.References, "mailto"))

	assert.Equal(t, []analysis.NamedCount{{Name: "java", Count: 1}, {Name: "none", Count: 1}}, report.Languages)

	assert.Equal(t, 2, countOf(report.Events, "beginHeader")+countOf(report.Events, "endHeader"))

	// list > item > list > item > list > item
	assert.Equal(t, 6, report.Totals.MaxDepth)

	require.Len(t, report.ByFile, 3)
	assert.Equal(t, filepath.Join("a", "Short.xwiki"), report.ByFile[0].Path)
	assert.Equal(t, filepath.Join("b", "Page.xwiki"), report.ByFile[1].Path)
	assert.Equal(t, 3, report.ByFile[1].Macros)
	assert.Equal(t, 4, report.ByFile[1].References)
	assert.Equal(t, "read file: denied", report.ByFile[2].Error)
}

func TestAnalyze_Nil(t *testing.T) {
	t.Parallel()

	report := analysis.Analyze(nil, analysis.DefaultOptions())
	require.NotNil(t, report)
	assert.Zero(t, report.Totals.Files)
	assert.Empty(t, report.Events)
}

func TestAnalyze_SortAlpha(t *testing.T) {
	t.Parallel()

	result := &runner.Result{Files: []runner.FileOutcome{
		outcome(t, "x.xwiki", "{{b/}}\n{{a/}}\n{{b/}}"),
	}}

	report := analysis.Analyze(result, analysis.Options{SortBy: analysis.SortByAlpha})
	assert.Equal(t, []analysis.NamedCount{{Name: "a", Count: 1}, {Name: "b", Count: 2}}, report.Macros)
	assert.Empty(t, report.ByFile)

	report = analysis.Analyze(result, analysis.Options{SortBy: analysis.SortByCount})
	assert.Equal(t, []analysis.NamedCount{{Name: "a", Count: 1}, {Name: "b", Count: 2}}, report.Macros, "ascending")
}

func TestCounter_AsListener(t *testing.T) {
	t.Parallel()

	c := analysis.NewCounter()
	require.NoError(t, parser.Parse("(((\n|**x**|y\n)))", c))

	// group > table > row > cell
	assert.Equal(t, 4, c.MaxDepth)
	assert.Equal(t, 2, c.Events[listener.EventBeginTableCell.String()])
	assert.Equal(t, 1, c.Events[listener.EventBeginFormat.String()])
}

func TestSortField_IsValid(t *testing.T) {
	t.Parallel()

	assert.True(t, analysis.SortByCount.IsValid())
	assert.True(t, analysis.SortByAlpha.IsValid())
	assert.False(t, analysis.SortField("severity").IsValid())
}
