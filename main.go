// SPDX-License-Identifier: MPL-2.0

// Command aperture manages the local modules of a working tree.
package main

import cmd "aperture-cli/cmd/aperture"

func main() {
	cmd.Execute()
}
