package logging

// Structured field names shared by the commands.
const (
	FieldError      = "error"
	FieldPath       = "path"
	FieldPaths      = "paths"
	FieldFiles      = "files"
	FieldInput      = "input"
	FieldOutput     = "output"
	FieldWorkingDir = "working_dir"
	FieldConfig     = "config"

	// Parsing.
	FieldSyntax = "syntax"
	FieldFormat = "format"
	FieldJobs   = "jobs"
	FieldLine   = "line"
	FieldState  = "state"
	FieldEvents = "events"

	// Run totals.
	FieldFilesDiscovered = "files_discovered"
	FieldFilesParsed     = "files_parsed"
	FieldFilesFailed     = "files_failed"
	FieldFilesWritten    = "files_written"
	FieldDuration        = "duration"

	// Build information.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
