// Package main provides the entry point for the partseek CLI.
package main

import (
	"os"

	"github.com/partseek/partseek/cmd/partseek/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
