// Command pygram parses a project's source tree, builds an n-gram
// language model over the token sequences extracted from it, and reports
// the sequences that model finds least probable — the fragments most
// worth a human's attention.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "pygram",
	Short: "Statistical surprise detector for a source tree",
	Long: `pygram tokenizes a project into abstracted per-function token
sequences, builds an n-gram language model over them, and reports the
sequences the model assigns the lowest probability.`,
}

func main() {
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(sweepCmd)
	rootCmd.AddCommand(dupesCmd)

	rootCmd.PersistentFlags().Bool("quiet", false, "suppress informational logging")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
