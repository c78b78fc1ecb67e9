// SPDX-License-Identifier: MPL-2.0

package recipe

// Libsodium returns the built-in recipe: libsodium 1.0.11 from the upstream
// release server. This is the default package provisioned when no recipe file
// is given on the command line.
func Libsodium() *Recipe {
	return &Recipe{
		Name:    "libsodium",
		Version: "1.0.11",
		Source: Source{
			URL: "https://download.libsodium.org/libsodium/releases/libsodium-{version}.tar.gz",
		},
	}
}
