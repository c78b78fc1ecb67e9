// SPDX-License-Identifier: MPL-2.0

// Package buildrun executes the configure/compile/install steps of a source
// package build. Steps run strictly in sequence inside the extracted source
// tree; the first non-zero exit status stops the sequence and its code is
// propagated to the process exit.
//
// Two runners are provided: NativeRunner delegates to the host via os/exec,
// and VirtualRunner interprets script-form steps with the embedded POSIX
// shell (mvdan.cc/sh) for hosts without a usable /bin/sh.
package buildrun
