// SPDX-License-Identifier: MPL-2.0

package main

import cmd "sourceup-cli/cmd/sourceup"

func main() {
	cmd.Execute()
}
