// SPDX-License-Identifier: MPL-2.0

// Package fetch retrieves source archives over HTTP(S). It performs a single
// attempt per download, with no retries or mirrors, and classifies every
// transport or status failure as a *NetworkError so the provisioner can halt
// before extraction runs.
package fetch
