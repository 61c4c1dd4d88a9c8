// ABOUTME: Entry point for the care4u CLI.
// ABOUTME: Invokes the root Cobra command.
package main

import (
	"os"

	"github.com/fatih/color"
)

func main() {
	if err := Execute(); err != nil {
		color.New(color.FgRed).Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
