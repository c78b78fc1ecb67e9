// SPDX-License-Identifier: MPL-2.0

// Package platform provides cross-platform compatibility utilities.
//
// This package centralizes OS name constants used for runtime.GOOS
// comparisons and detects application sandboxes (Flatpak, Snap) whose
// filesystem isolation affects where 'make install' can write.
package platform
