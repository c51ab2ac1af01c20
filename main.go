// Package main provides the smpath CLI: it reconstructs counterexample paths of a
// state machine checker over scenario files.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version is the current smpath version.
var Version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:   "smpath",
	Short: "Counterexample path reconstruction for state machine checkers",
	Long: `smpath takes a solved state machine check over a supergraph, builds an error graph
backwards from every violation, prunes what facts over edge conditions prove impossible
and prints the shortest path from an entry to each violation that survives.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(traceCmd)
	rootCmd.AddCommand(dumpCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
