// Package main is the entry point for the examtopics command-line tool.
package main

import (
	"os"

	"github.com/Shimizu-Technology/exam-topics-api/internal/cli"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	if err := cli.Execute(Version); err != nil {
		os.Exit(1)
	}
}
