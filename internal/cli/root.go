// Package cli implements the examtopics command-line tool, which runs the
// same analysis as the HTTP API against local PDF files.
package cli

import (
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "examtopics",
	Short: "Find the most important topics in past exam papers",
	Long: `examtopics extracts the text of one or more previous-year exam papers,
asks Gemini for the ten most important topics, and prints them as a
Markdown bullet list.

Configuration is read from the environment or a .env file, the same way
the API server reads it.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output to stderr")
}

// Execute runs the root command with the given build version.
func Execute(v string) error {
	version = v
	return rootCmd.Execute()
}
