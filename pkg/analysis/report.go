package analysis

// Report contains pre-computed views of a refactoring run.
// Computed once by Analyze and shared by the renderers.
type Report struct {
	// ByProvider groups targets by the provider that handled them.
	ByProvider []ProviderAnalysis `json:"byProvider,omitempty"`

	// ByFile groups targets by file path.
	ByFile []FileAnalysis `json:"byFile,omitempty"`

	// Totals contains aggregate counts.
	Totals Totals `json:"totals"`
}

// Counts tallies target outcomes.
type Counts struct {
	Targets  int `json:"targets"`
	Applied  int `json:"applied"`
	Declined int `json:"declined"`
	Failed   int `json:"failed"`
	Edits    int `json:"edits"`
}

// Totals contains aggregate counts for the report.
type Totals struct {
	Counts

	Files         int `json:"files"`
	FilesModified int `json:"filesModified"`
	Providers     int `json:"providers"`
}

// HasFailures returns true if any target failed.
func (t Totals) HasFailures() bool {
	return t.Failed > 0
}

// FileAnalysis contains aggregated data for a single file.
type FileAnalysis struct {
	Counts

	Path      string   `json:"path"`
	Modified  bool     `json:"modified"`
	Providers []string `json:"providers,omitempty"`
}

// ProviderAnalysis contains aggregated data for a single provider.
type ProviderAnalysis struct {
	Counts

	Provider string   `json:"provider"`
	Files    []string `json:"files,omitempty"`
}
