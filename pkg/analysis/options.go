package analysis

// SortField specifies how named counts are ordered.
type SortField string

const (
	// SortByCount sorts by count, ties broken by name.
	SortByCount SortField = "count"
	// SortByAlpha sorts by name.
	SortByAlpha SortField = "alpha"
)

// IsValid returns true if the sort field is valid.
func (s SortField) IsValid() bool {
	switch s {
	case SortByCount, SortByAlpha:
		return true
	default:
		return false
	}
}

// Options configures Analyze.
type Options struct {
	// IncludeByFile adds the per-file breakdown.
	IncludeByFile bool

	// SortBy orders the event, macro, reference and language counts.
	SortBy SortField

	// SortDesc sorts counts highest first. Names always sort ascending.
	SortDesc bool

	// WorkingDir makes file paths relative. Empty keeps them as they are.
	WorkingDir string
}

// DefaultOptions returns the options used by the stats command.
func DefaultOptions() Options {
	return Options{
		IncludeByFile: true,
		SortBy:        SortByCount,
		SortDesc:      true,
	}
}
