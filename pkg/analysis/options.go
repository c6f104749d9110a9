package analysis

// SortField specifies how to sort analysis results.
type SortField string

const (
	// SortByCount sorts by target count (descending by default).
	SortByCount SortField = "count"
	// SortByAlpha sorts alphabetically.
	SortByAlpha SortField = "alpha"
	// SortByFailures sorts by failed targets, most first.
	SortByFailures SortField = "failures"
)

// IsValid returns true if the sort field is valid.
func (s SortField) IsValid() bool {
	switch s {
	case SortByCount, SortByAlpha, SortByFailures:
		return true
	default:
		return false
	}
}

// Options configures the Analyze function.
type Options struct {
	// IncludeByFile includes the per-file analysis.
	IncludeByFile bool

	// IncludeByProvider includes the per-provider analysis.
	IncludeByProvider bool

	// SortBy specifies how to sort ByFile and ByProvider.
	SortBy SortField

	// SortDesc sorts counts in descending order (highest first).
	SortDesc bool

	// WorkingDir is the directory to make paths relative to.
	// If empty, paths are kept as-is (typically absolute).
	WorkingDir string
}

// DefaultOptions returns Options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		IncludeByFile:     true,
		IncludeByProvider: true,
		SortBy:            SortByCount,
		SortDesc:          true,
	}
}
