// Command packtree reads a git repository's packfile, walks its
// commit history, and prints a tree of every file and directory
// annotated with how many commits changed it.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "packtree",
		Short:         "inspect a git packfile's change history",
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	cmd.AddCommand(newChangesCmd())
	return cmd
}
