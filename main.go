// SPDX-License-Identifier: MPL-2.0

// robolab provisions robotics research workspaces and packages their
// containers into Apptainer images for HPC clusters.
package main

import cmd "robolab-cli/cmd/robolab"

func main() {
	cmd.Execute()
}
