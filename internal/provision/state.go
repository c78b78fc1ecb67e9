// SPDX-License-Identifier: MPL-2.0

package provision

// State is one point in the linear provisioning progression. A run either
// walks the full chain Start through Installed or stops at the state it last
// completed.
type State int

const (
	// StateStart is the initial state before anything has happened.
	StateStart State = iota
	// StateFetched means the archive was downloaded (and, when a digest was
	// available, verified).
	StateFetched
	// StateExtracted means the source tree was unpacked into the work dir.
	StateExtracted
	// StateConfigured means ./configure finished successfully.
	StateConfigured
	// StateBuilt means make finished successfully.
	StateBuilt
	// StateInstalled means make install finished successfully.
	StateInstalled
)

// String returns the state name for logs and error messages.
func (s State) String() string {
	switch s {
	case StateStart:
		return "start"
	case StateFetched:
		return "fetched"
	case StateExtracted:
		return "extracted"
	case StateConfigured:
		return "configured"
	case StateBuilt:
		return "built"
	case StateInstalled:
		return "installed"
	default:
		return "unknown"
	}
}

// stateAfterStep maps a completed build step to the state it establishes.
func stateAfterStep(stepName string) State {
	switch stepName {
	case "configure":
		return StateConfigured
	case "compile":
		return StateBuilt
	case "install":
		return StateInstalled
	default:
		return StateExtracted
	}
}
