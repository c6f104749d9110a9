package logging

// Field name constants for structured logging.
const (
	// Common fields.
	FieldError      = "error"
	FieldPath       = "path"
	FieldWorkingDir = "working_dir"
	FieldDuration   = "duration"

	// Configuration fields.
	FieldFlavor     = "flavor"
	FieldDryRun     = "dry_run"
	FieldJobs       = "jobs"
	FieldConfigFile = "config_file"

	// Transaction fields.
	FieldProvider  = "provider"
	FieldPosition  = "position"
	FieldEdits     = "edits"
	FieldActions   = "actions"
	FieldVersion   = "version"
	FieldSelection = "selection"
	FieldDeclined  = "declined"

	// Runner fields.
	FieldTargets  = "targets"
	FieldApplied  = "applied"
	FieldFailed   = "failed"
	FieldModified = "modified"

	// Build fields.
	FieldCommit = "commit"
	FieldBuilt  = "built"

	// MCP fields.
	FieldTool = "tool"
)
