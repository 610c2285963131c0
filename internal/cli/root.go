// Package cli wires up the repick command line interface.
package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root cobra command
func NewRootCmd(version, commit, date string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "repick",
		Short: "Repick propagates a merged change to release branches by cherry-picking it",
		Long: `Repick propagates a merged change to one or more release branches by
cherry-picking it onto a fresh branch per target and opening a follow-up
change request for each.`,
		SilenceUsage: true,
	}

	// Add subcommands
	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newVersionCmd(version, commit, date))

	return rootCmd
}
