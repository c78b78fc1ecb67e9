// SPDX-License-Identifier: MPL-2.0

// Package provision orchestrates a complete source package installation:
// download the release archive, verify its checksum, extract it, and run the
// configure/make/make install sequence, stopping at the first failure.
//
// Progress is modeled as a linear state machine (Start, Fetched, Extracted,
// Configured, Built, Installed); the Result of a run reports the last state
// reached and, for build failures, the failing step's exit code.
//
// The main entry point is the Provisioner interface, implemented by
// SourceProvisioner:
//
//	p := provision.NewSourceProvisioner(provision.Options{WorkDir: dir})
//	result, err := p.Provision(ctx, recipe.Libsodium())
//	// result.State tells how far the run got
package provision
