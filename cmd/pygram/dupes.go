package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pygram-go/pygram/internal/runner"
)

var dupesCmd = &cobra.Command{
	Use:   "dupes <project-path>",
	Short: "List function names declared more than once in a project",
	Args:  cobra.ExactArgs(1),
	RunE:  runDupes,
}

func init() {
	dupesCmd.Flags().Bool("typed", false, "resolve call targets' return types while scanning")
}

func runDupes(cmd *cobra.Command, args []string) error {
	logger := newLogger(cmd)
	typed, _ := cmd.Flags().GetBool("typed")

	r := &runner.Runner{Files: defaultFileLister(), Logger: logger}
	result, err := r.TokenizeProject(args[0], typed)
	if err != nil {
		return err
	}

	if len(result.Duplicates) == 0 {
		fmt.Println("no duplicate function names found")
		return nil
	}
	for _, d := range result.Duplicates {
		fmt.Println(d)
	}
	return nil
}
