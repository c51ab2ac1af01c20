package main

import (
	"github.com/spf13/cobra"

	"github.com/sirkon/smpath/internal/fixture"
)

var dumpCmd = &cobra.Command{
	Use:   "dump <scenario>",
	Short: "Print transitions of a scenario point by point",
	Args:  cobra.ExactArgs(1),
	RunE:  runDump,
}

func runDump(cmd *cobra.Command, args []string) error {
	f, err := fixture.LoadFile(args[0])
	if err != nil {
		return err
	}

	name := f.Name
	if name == "" {
		name = args[0]
	}

	return f.Solution.Dump(cmd.OutOrStdout(), name, f.Graph)
}
