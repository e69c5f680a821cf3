// Command pressctl is a command line client for a pressroom server.
package main

import (
	"os"

	"github.com/eringen/pressroom/internal/cli"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	if err := cli.Execute(version); err != nil {
		os.Stderr.WriteString("Error: " + err.Error() + "\n")
		os.Exit(1)
	}
}
