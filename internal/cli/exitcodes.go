package cli

import (
	"errors"
	"io/fs"

	"github.com/spf13/cobra"

	"github.com/yaklabco/xwikiparse/internal/configloader"
	"github.com/yaklabco/xwikiparse/pkg/runner"
)

// Exit codes for xwikiparse.
const (
	// ExitSuccess indicates successful execution with every file parsed
	// into a well-nested stream.
	ExitSuccess = 0

	// ExitFailures indicates some files failed or were malformed.
	ExitFailures = 1

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitDataError indicates invalid configuration or input data.
	ExitDataError = 65

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74
)

// ErrFailuresFound is returned when some files failed to parse or
// produced a malformed event stream. It only signals the exit code.
var ErrFailuresFound = errors.New("parse failures found")

// usageError marks err as a command-line usage problem.
type usageError struct{ err error }

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func newUsageError(err error) error {
	return &usageError{err: err}
}

// ExitCodeFromResult determines the exit code of a run.
func ExitCodeFromResult(result *runner.Result) int {
	if result.HasFailures() {
		return ExitFailures
	}
	return ExitSuccess
}

// ExitCode maps an error returned by a command to a process exit code.
func ExitCode(err error) int {
	var usage *usageError
	var validation *configloader.ValidationError

	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrFailuresFound):
		return ExitFailures
	case errors.As(err, &usage):
		return ExitInvalidUsage
	case errors.As(err, &validation):
		return ExitDataError
	case errors.Is(err, fs.ErrNotExist), errors.Is(err, fs.ErrPermission), errors.Is(err, fs.ErrExist):
		return ExitIOError
	default:
		return ExitInternalError
	}
}

// usageArgs marks argument validation failures as usage errors.
func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return newUsageError(err)
		}
		return nil
	}
}
