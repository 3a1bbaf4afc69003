package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/litescript/ls-obstars/internal/state"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print star counts per spectral class",
	Args:  cobra.NoArgs,
	RunE:  runSummary,
}

func init() {
	summaryCmd.Flags().Bool("only-spectra", false, "count only stars with IUE spectra")
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(cmd *cobra.Command, _ []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	e, err := load(ctx, os.Stderr)
	if err != nil {
		return err
	}
	e.ctrl.SetFilter(filterFromFlags(cmd))
	state.WriteSummaryTable(cmd.OutOrStdout(), e.ctrl.State().Snapshot(), time.Now())
	return nil
}
