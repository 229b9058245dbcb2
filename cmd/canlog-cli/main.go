// canlog-cli - command-line only build of the canlog client, without the
// desktop GUI and its OpenGL dependencies.
package main

import (
	"fmt"
	"os"
	"slices"

	"github.com/canlog/canlog-client/internal/cli"
)

func main() {
	if slices.Contains(os.Args, "--gui") {
		fmt.Fprintf(os.Stderr, "Error: --gui is not available in the CLI-only binary.\n")
		fmt.Fprintf(os.Stderr, "Use canlog for the graphical interface, or canlog-cli tui for the terminal one.\n")
		os.Exit(1)
	}

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
