// Package main provides the entry point for the filepilot CLI.
package main

import (
	"os"

	"github.com/filepilot/filepilot/cmd/filepilot/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
