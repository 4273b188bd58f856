package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/jenian/langkeys/internal/cli"
)

// Version is set at build time via -ldflags
var Version = "dev"

func main() {
	if err := cli.NewRootCmd(Version).Execute(); err != nil {
		// The report already explains the issues
		if !errors.Is(err, cli.ErrIssuesFound) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
