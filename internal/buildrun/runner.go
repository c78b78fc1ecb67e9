// SPDX-License-Identifier: MPL-2.0

package buildrun

import (
	"context"
	"fmt"
	"os"
	"sort"
)

const (
	// RunnerNative executes steps via the host's os/exec.
	RunnerNative = "native"
	// RunnerVirtual executes steps via the embedded mvdan/sh interpreter.
	RunnerVirtual = "virtual"
)

type (
	// Runner executes a single build step inside dir with the given extra
	// environment. Implementations block until the step's process finishes
	// or ctx is canceled.
	Runner interface {
		// Name returns the runner name for logs and config matching.
		Name() string
		// Available reports whether the runner can execute steps on this host.
		Available() bool
		// Run executes one step. A non-zero exit is reported through the
		// Result, not the error.
		Run(ctx context.Context, step Step, dir string, env map[string]string, io IO) *Result
	}
)

// NewRunner returns the runner for the given name, or an error for an
// unknown name.
func NewRunner(name string) (Runner, error) {
	switch name {
	case RunnerNative, "":
		return NewNativeRunner(), nil
	case RunnerVirtual:
		return NewVirtualRunner(), nil
	default:
		return nil, fmt.Errorf("unknown runner %q (want %q or %q)", name, RunnerNative, RunnerVirtual)
	}
}

// mergedEnv combines the inherited process environment with the step's extra
// env, extra entries winning. The result is sorted for deterministic output.
func mergedEnv(extra map[string]string) []string {
	merged := map[string]string{}
	for _, kv := range os.Environ() {
		for i := 0; i < len(kv); i++ {
			if kv[i] == '=' {
				merged[kv[:i]] = kv[i+1:]
				break
			}
		}
	}
	for k, v := range extra {
		merged[k] = v
	}

	out := make([]string, 0, len(merged))
	for k, v := range merged {
		out = append(out, k+"="+v)
	}
	sort.Strings(out)
	return out
}
