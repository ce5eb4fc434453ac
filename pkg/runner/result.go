package runner

import (
	"time"

	"github.com/yaklabco/xwikiparse/pkg/listener"
)

// FileOutcome is the result of parsing one file.
type FileOutcome struct {
	Path string

	// Size is the length of the source in bytes.
	Size int

	// Events holds the reported events when Options.KeepEvents is set.
	Events []listener.Event

	// EventCount is the number of events reported.
	EventCount int

	// Nesting is set when the event stream was not well nested.
	Nesting error

	// Error is set when the file could not be read or parsed.
	Error error

	Duration time.Duration
}

// OK reports whether the file was parsed into a well-nested stream.
func (o FileOutcome) OK() bool {
	return o.Error == nil && o.Nesting == nil
}

// Stats aggregates a run.
type Stats struct {
	FilesDiscovered int
	FilesParsed     int
	FilesFailed     int

	// FilesMalformed counts parsed files whose stream was not well nested.
	FilesMalformed int

	EventsTotal int
	BytesTotal  int
	Duration    time.Duration
}

// Result is the outcome of a run, ordered by path.
type Result struct {
	Files []FileOutcome
	Stats Stats
}

// HasFailures reports whether any file failed to parse or produced a
// malformed stream.
func (r *Result) HasFailures() bool {
	if r == nil {
		return false
	}
	return r.Stats.FilesFailed > 0 || r.Stats.FilesMalformed > 0
}

func (r *Result) accumulate(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)

	if outcome.Error != nil {
		r.Stats.FilesFailed++
		return
	}

	r.Stats.FilesParsed++
	r.Stats.EventsTotal += outcome.EventCount
	r.Stats.BytesTotal += outcome.Size
	if outcome.Nesting != nil {
		r.Stats.FilesMalformed++
	}
}

// NewResult collects outcomes produced outside Run, such as a document
// read from standard input.
func NewResult(outcomes ...FileOutcome) *Result {
	result := &Result{Files: make([]FileOutcome, 0, len(outcomes))}
	result.Stats.FilesDiscovered = len(outcomes)
	for _, outcome := range outcomes {
		result.accumulate(outcome)
		result.Stats.Duration += outcome.Duration
	}
	return result
}
