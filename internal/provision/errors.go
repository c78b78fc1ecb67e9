// SPDX-License-Identifier: MPL-2.0

package provision

import (
	"errors"
	"fmt"

	"sourceup-cli/internal/buildrun"
)

// ErrBuildFailed is the sentinel error wrapped by BuildError.
var ErrBuildFailed = errors.New("build step failed")

// BuildError reports a build step that exited non-zero or could not be
// started. Code carries the step's exit status for propagation to the CLI.
type BuildError struct {
	Step  string
	Code  buildrun.ExitCode
	Cause error
}

// Error implements the error interface.
func (e *BuildError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("step %q failed: %v", e.Step, e.Cause)
	}
	return fmt.Sprintf("step %q failed with exit code %d", e.Step, e.Code)
}

// Unwrap returns the error chain: the underlying cause when present,
// otherwise ErrBuildFailed for errors.Is detection.
func (e *BuildError) Unwrap() error {
	if e.Cause != nil {
		return e.Cause
	}
	return ErrBuildFailed
}

// Is reports whether target is ErrBuildFailed, so both cause-carrying and
// plain exit failures match errors.Is(err, ErrBuildFailed).
func (e *BuildError) Is(target error) bool {
	return target == ErrBuildFailed
}
