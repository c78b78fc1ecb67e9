// SPDX-License-Identifier: MPL-2.0

package buildrun

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// VirtualRunner executes build steps through an embedded POSIX shell
// interpreter (mvdan/sh). External programs invoked by the step (configure,
// make) still run as host processes, but the shell layer itself needs no
// /bin/sh, which keeps step execution uniform across platforms.
type VirtualRunner struct{}

// NewVirtualRunner creates a new virtual runner.
func NewVirtualRunner() *VirtualRunner {
	return &VirtualRunner{}
}

// Name returns the runner name.
func (r *VirtualRunner) Name() string { return RunnerVirtual }

// Available returns whether this runner is available. The interpreter is
// built in, so it always is.
func (r *VirtualRunner) Available() bool { return true }

// Run executes one step inside dir by parsing its shell form and running it
// in the embedded interpreter. The script's exit status is propagated
// through the Result.
func (r *VirtualRunner) Run(ctx context.Context, step Step, dir string, env map[string]string, stdio IO) *Result {
	if len(step.Argv) == 0 {
		return NewErrorResult(1, fmt.Errorf("step %q has no command", step.Name))
	}

	script := step.Script()
	prog, err := syntax.NewParser().Parse(strings.NewReader(script), step.Name)
	if err != nil {
		return NewErrorResult(1, fmt.Errorf("parsing step %q: %w", step.Name, err))
	}

	runner, err := interp.New(
		interp.Dir(dir),
		interp.Env(expand.ListEnviron(mergedEnv(env)...)),
		interp.StdIO(stdio.Stdin, stdio.Stdout, stdio.Stderr),
	)
	if err != nil {
		return NewErrorResult(1, fmt.Errorf("creating interpreter: %w", err))
	}

	if err := runner.Run(ctx, prog); err != nil {
		var exitStatus interp.ExitStatus
		if errors.As(err, &exitStatus) {
			return NewExitCodeResult(ExitCode(exitStatus))
		}
		return NewErrorResult(1, fmt.Errorf("running step %q: %w", step.Name, err))
	}

	return NewSuccessResult()
}
