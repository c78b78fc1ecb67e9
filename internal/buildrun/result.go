// SPDX-License-Identifier: MPL-2.0

package buildrun

// Result is the outcome of running one step.
type Result struct {
	// ExitCode is the step's process exit status.
	ExitCode ExitCode
	// Error is set only for infrastructure failures (step could not be
	// started, shell missing, parse error), never for a plain non-zero exit.
	Error error
}

// NewErrorResult creates a Result with the given exit code and error.
func NewErrorResult(code ExitCode, err error) *Result {
	return &Result{ExitCode: code, Error: err}
}

// NewSuccessResult creates a Result with exit code 0 and no error.
func NewSuccessResult() *Result {
	return &Result{}
}

// NewExitCodeResult creates a Result with the given exit code and no error.
// Use this for non-zero exits that represent normal process termination
// rather than infrastructure failures.
func NewExitCodeResult(code ExitCode) *Result {
	return &Result{ExitCode: code}
}
