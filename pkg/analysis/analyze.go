// Package analysis computes document statistics over the outcome of a run.
package analysis

import (
	"cmp"
	"maps"
	"path/filepath"
	"slices"
	"time"

	"github.com/yaklabco/xwikiparse/pkg/listener"
	"github.com/yaklabco/xwikiparse/pkg/runner"
)

// ReportVersion is the current report format version.
const ReportVersion = "1.0.0"

const (
	codeMacro     = "code"
	languageParam = "language"
	noLanguage    = "none"
)

// Counter accumulates statistics from an event stream. It can be used as
// a listener directly or fed recorded events with Add.
type Counter struct {
	listener.Func

	Events     map[string]int
	Macros     map[string]int
	References map[string]int
	Languages  map[string]int

	Total    int
	MaxDepth int

	depth int
}

// NewCounter returns an empty counter.
func NewCounter() *Counter {
	c := &Counter{
		Events:     make(map[string]int),
		Macros:     make(map[string]int),
		References: make(map[string]int),
		Languages:  make(map[string]int),
	}
	c.Func = c.Add
	return c
}

// Add counts one event.
func (c *Counter) Add(e listener.Event) {
	c.Total++
	c.Events[e.Type.String()]++

	switch e.Type {
	case listener.EventMacro:
		if e.Macro == nil {
			break
		}
		c.Macros[e.Macro.Name]++
		if e.Macro.Name == codeMacro {
			lang, ok := e.Macro.Parameters.Get(languageParam)
			if !ok || lang == "" {
				lang = noLanguage
			}
			c.Languages[lang]++
		}
	case listener.EventReference:
		if e.Target != nil {
			c.References[string(e.Target.Type)]++
		}
	}

	// Document and format events do not nest blocks.
	if e.Type == listener.EventBeginDocument || e.Type == listener.EventEndDocument ||
		e.Type == listener.EventBeginFormat || e.Type == listener.EventEndFormat {
		return
	}
	switch {
	case e.Type.IsBegin():
		c.depth++
		c.MaxDepth = max(c.MaxDepth, c.depth)
	case e.Type.IsEnd():
		c.depth--
	}
}

func sumOf(m map[string]int) int {
	total := 0
	for _, n := range m {
		total += n
	}
	return total
}

// RelativePath returns path relative to workDir, or path unchanged when
// workDir is empty or no relative form exists.
func RelativePath(path, workDir string) string {
	if workDir == "" {
		return path
	}
	rel, err := filepath.Rel(workDir, path)
	if err != nil {
		return path
	}
	return rel
}

func merge(dst, src map[string]int) {
	for k, n := range src {
		dst[k] += n
	}
}

// Analyze summarises result. Outcomes must carry their events, see
// runner.Options.KeepEvents; outcomes without events only contribute
// to the totals.
func Analyze(result *runner.Result, opts Options) *Report {
	report := &Report{
		Version:   ReportVersion,
		Timestamp: time.Now(),
	}
	if result == nil {
		return report
	}

	all := NewCounter()

	for _, file := range result.Files {
		report.Totals.Files++

		fa := FileAnalysis{
			Path:   RelativePath(file.Path, opts.WorkingDir),
			Events: file.EventCount,
		}

		if file.Error != nil {
			report.Totals.FilesFailed++
			fa.Error = file.Error.Error()
		} else {
			report.Totals.FilesParsed++
			report.Totals.Events += file.EventCount
			report.Totals.Bytes += file.Size
		}
		if file.Nesting != nil {
			report.Totals.FilesMalformed++
			fa.Nesting = file.Nesting.Error()
		}

		c := NewCounter()
		for _, e := range file.Events {
			c.Add(e)
		}
		fa.MaxDepth = c.MaxDepth
		fa.Macros = sumOf(c.Macros)
		fa.References = sumOf(c.References)
		report.Totals.MaxDepth = max(report.Totals.MaxDepth, c.MaxDepth)

		merge(all.Events, c.Events)
		merge(all.Macros, c.Macros)
		merge(all.References, c.References)
		merge(all.Languages, c.Languages)

		if opts.IncludeByFile {
			report.ByFile = append(report.ByFile, fa)
		}
	}

	report.Events = sortedCounts(all.Events, opts)
	report.Macros = sortedCounts(all.Macros, opts)
	report.References = sortedCounts(all.References, opts)
	report.Languages = sortedCounts(all.Languages, opts)

	slices.SortStableFunc(report.ByFile, func(a, b FileAnalysis) int {
		return cmp.Compare(a.Path, b.Path)
	})

	return report
}

func sortedCounts(m map[string]int, opts Options) []NamedCount {
	if len(m) == 0 {
		return nil
	}

	counts := make([]NamedCount, 0, len(m))
	for _, name := range slices.Sorted(maps.Keys(m)) {
		counts = append(counts, NamedCount{Name: name, Count: m[name]})
	}

	if opts.SortBy == SortByCount {
		slices.SortStableFunc(counts, func(a, b NamedCount) int {
			if opts.SortDesc {
				return cmp.Compare(b.Count, a.Count)
			}
			return cmp.Compare(a.Count, b.Count)
		})
	}
	return counts
}
