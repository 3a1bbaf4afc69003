package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/litescript/ls-obstars/internal/state"
)

var exportCmd = &cobra.Command{
	Use:   "export --star NAME [--star NAME...]",
	Short: "Write the named stars as CSV",
	Long: `Select the named stars in order and write them in the download
format: MAIN_ID, SP_TYPE, m_V, GAL_LAT, GAL_LON. Repeated names are
written once.`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringArray("star", nil, "star to select (repeatable)")
	exportCmd.Flags().StringP("output", "o", "selected_stars.csv", "destination file, - for stdout")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, _ []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	e, err := load(ctx, os.Stderr)
	if err != nil {
		return err
	}

	names, _ := cmd.Flags().GetStringArray("star")
	for _, name := range names {
		if _, err := e.ctrl.Click(name); err != nil {
			return err
		}
	}

	out, _ := cmd.Flags().GetString("output")
	var buf bytes.Buffer
	n, err := e.ctrl.Export(&buf, out)
	if errors.Is(err, state.ErrNothingSelected) {
		return errors.New(state.NothingSelectedNotice)
	}
	if err != nil {
		return err
	}

	if out == "-" {
		_, err = cmd.OutOrStdout().Write(buf.Bytes())
		return err
	}
	if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d stars to %s\n", n, out)
	return nil
}
