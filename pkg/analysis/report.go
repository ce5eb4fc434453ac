package analysis

import "time"

// Report summarises the documents of a run.
type Report struct {
	Version   string    `json:"version"`
	Timestamp time.Time `json:"timestamp"`

	Totals Totals `json:"summary"`

	// Events counts events by type name, e.g. "beginParagraph".
	Events []NamedCount `json:"events,omitempty"`

	// Macros counts macro invocations by macro name.
	Macros []NamedCount `json:"macros,omitempty"`

	// References counts references by resource type.
	References []NamedCount `json:"references,omitempty"`

	// Languages counts code macros by language parameter.
	Languages []NamedCount `json:"languages,omitempty"`

	ByFile []FileAnalysis `json:"byFile,omitempty"`
}

// NamedCount is one line of a frequency table.
type NamedCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Totals are aggregated over all files.
type Totals struct {
	Files          int `json:"files"`
	FilesParsed    int `json:"filesParsed"`
	FilesFailed    int `json:"filesFailed"`
	FilesMalformed int `json:"filesMalformed"`
	Events         int `json:"events"`
	Bytes          int `json:"bytes"`

	// MaxDepth is the deepest block nesting seen in any file.
	MaxDepth int `json:"maxDepth"`
}

// HasFailures returns true if any file failed or was malformed.
func (t Totals) HasFailures() bool {
	return t.FilesFailed > 0 || t.FilesMalformed > 0
}

// FileAnalysis describes one file.
type FileAnalysis struct {
	Path       string `json:"path"`
	Events     int    `json:"events"`
	MaxDepth   int    `json:"maxDepth"`
	Macros     int    `json:"macros"`
	References int    `json:"references"`

	// Error is the read or parse failure, if any.
	Error string `json:"error,omitempty"`

	// Nesting describes a malformed event stream, if any.
	Nesting string `json:"nesting,omitempty"`
}
