// cmd/health-journal/main.go
package main

import (
	"fmt"
	"os"

	"mcp-health-journal/internal/cli"
)

// Set via ldflags during build.
var version = "1.0.0"

func main() {
	if err := cli.NewRootCmd(version).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
