// canlog - CLI, terminal and desktop client for the CAN log file store.
//
// Mode selection:
//   - No args + display available → GUI mode
//   - No args + no display → CLI help
//   - --gui → GUI mode
//   - --cli → CLI mode (force)
//   - CLI subcommands/flags → CLI mode
package main

import (
	"fmt"
	"os"
	"slices"

	"github.com/joho/godotenv"

	"github.com/canlog/canlog-client/internal/cli"
	"github.com/canlog/canlog-client/internal/config"
	"github.com/canlog/canlog-client/internal/gui"
)

func main() {
	cli.LaunchGUI = gui.Run

	if isCLIMode(os.Args[1:], gui.HasDisplay()) {
		os.Args = slices.DeleteFunc(os.Args, func(a string) bool { return a == "--cli" })
		if err := cli.Execute(); err != nil {
			os.Exit(1)
		}
		return
	}

	// Same precedence as the CLI: .env, then config file, then environment.
	_ = godotenv.Load()
	cfg := config.LoadOrDefault(config.DefaultConfigPath())
	cfg.MergeWithFlags("", "", "", 0)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid configuration: %v\n", err)
		fmt.Fprintf(os.Stderr, "Run 'canlog config init' to fix it.\n")
		os.Exit(1)
	}

	if err := gui.Run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// isCLIMode determines whether to run in CLI mode based on arguments.
//
// CLI mode when:
//   - --cli is present
//   - any subcommand or flag is present
//   - there are no arguments and no display
//
// GUI mode when:
//   - --gui is present
//   - there are no arguments and a display is available
func isCLIMode(args []string, hasDisplay bool) bool {
	if slices.Contains(args, "--cli") {
		return true
	}
	if slices.Contains(args, "--gui") {
		return false
	}
	if len(args) == 0 {
		return !hasDisplay
	}
	// Unknown arguments go to cobra so typos print help instead of opening a window.
	return true
}
