package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/litescript/ls-obstars/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "ls-obstars v%s\n", version.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
