// SPDX-License-Identifier: MPL-2.0

package buildrun

import (
	"fmt"
	"io"
	"strings"

	"sourceup-cli/pkg/recipe"
)

type (
	// Step is one build sub-step: a name for reporting plus the argv to run.
	// Script is the shell form of the same step, used by VirtualRunner.
	Step struct {
		Name string
		Argv []string
	}

	// IO bundles the standard streams attached to a step.
	IO struct {
		Stdin  io.Reader
		Stdout io.Writer
		Stderr io.Writer
	}
)

// Script returns the step rendered as a single shell command line, quoting
// arguments that contain whitespace.
func (s Step) Script() string {
	parts := make([]string, 0, len(s.Argv))
	for _, a := range s.Argv {
		if strings.ContainsAny(a, " \t\n'\"") {
			parts = append(parts, fmt.Sprintf("%q", a))
			continue
		}
		parts = append(parts, a)
	}
	return strings.Join(parts, " ")
}

// PlanSteps derives the build step sequence for a recipe: configure, make,
// and (unless skipped) make install, in that order. The prefix and jobs
// settings of the recipe are reflected in the argv.
func PlanSteps(r *recipe.Recipe) []Step {
	configure := []string{"./configure"}
	if r.Build.Prefix != "" {
		configure = append(configure, "--prefix="+r.Build.Prefix)
	}
	configure = append(configure, r.Build.ConfigureArgs...)

	build := []string{"make"}
	if r.Build.Jobs > 0 {
		build = append(build, fmt.Sprintf("-j%d", r.Build.Jobs))
	}

	steps := []Step{
		{Name: "configure", Argv: configure},
		{Name: "compile", Argv: build},
	}

	if !r.Build.SkipInstall {
		steps = append(steps, Step{Name: "install", Argv: []string{"make", "install"}})
	}

	return steps
}
