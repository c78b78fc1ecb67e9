// SPDX-License-Identifier: MPL-2.0

// Package recipe defines the source-package recipe model: where to download a
// package's source archive, how to verify it, and which build steps turn the
// extracted tree into an installed library.
//
// Recipes are written in CUE and validated against the embedded #Recipe
// schema. A built-in recipe for libsodium is used when no recipe file is
// given, so `sourceup install` works out of the box in CI images.
package recipe
