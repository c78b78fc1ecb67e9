// SPDX-License-Identifier: MPL-2.0

package buildrun

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"syscall"
)

// NativeRunner executes build steps as host processes via os/exec. This is
// the default runner: configure scripts and make are run exactly as a shell
// would run them, with the step's argv passed through unmodified.
type NativeRunner struct{}

// NewNativeRunner creates a new native runner.
func NewNativeRunner() *NativeRunner {
	return &NativeRunner{}
}

// Name returns the runner name.
func (r *NativeRunner) Name() string { return RunnerNative }

// Available reports whether steps can run on this host. Native execution
// needs nothing beyond os/exec, so it is always available; whether the build
// tooling itself exists is checked per step at run time.
func (r *NativeRunner) Available() bool { return true }

// Run executes one step inside dir. The step's exit status is propagated
// through the Result; only failures to start the process at all surface as
// Result.Error.
func (r *NativeRunner) Run(ctx context.Context, step Step, dir string, env map[string]string, stdio IO) *Result {
	if len(step.Argv) == 0 {
		return NewErrorResult(1, fmt.Errorf("step %q has no command", step.Name))
	}

	cmd := exec.CommandContext(ctx, step.Argv[0], step.Argv[1:]...)
	cmd.Dir = dir
	cmd.Env = mergedEnv(env)
	cmd.Stdin = stdio.Stdin
	cmd.Stdout = stdio.Stdout
	cmd.Stderr = stdio.Stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return NewExitCodeResult(exitCodeFrom(exitErr))
		}
		return NewErrorResult(1, fmt.Errorf("starting step %q: %w", step.Name, err))
	}

	return NewSuccessResult()
}

// exitCodeFrom extracts the step's exit status. A process killed by a signal
// reports -1 through os/exec, which is outside the 0-255 contract; such
// deaths are mapped to the shell convention 128+signal.
func exitCodeFrom(exitErr *exec.ExitError) ExitCode {
	code := exitErr.ExitCode()
	if code >= 0 {
		return ExitCode(code)
	}
	if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return ExitCode(128 + int(ws.Signal()))
	}
	return ExitCode(1)
}
