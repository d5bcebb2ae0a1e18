// SPDX-License-Identifier: MPL-2.0

package main

import cmd "quarterdeck/cmd/quarterdeck"

func main() {
	cmd.Execute()
}
