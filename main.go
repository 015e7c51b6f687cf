// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/jrunhq/jrun/cmd/jrun"

func main() {
	cmd.Execute()
}
