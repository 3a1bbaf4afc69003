package main

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/litescript/ls-obstars/internal/ui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Interactive galactic sky view",
	Long: `Open the interactive sky view. Arrow keys move between stars, enter
selects one and loads its IUE spectrum, x writes the selection to CSV.

With watch enabled and a local data directory, the catalog reloads when
its files change.`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	tuiCmd.Flags().StringP("output", "o", ui.DefaultExportPath, "CSV destination for the export key")
	tuiCmd.Flags().Bool("watch", false, "reload when data files change")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	// The TUI owns the terminal; logs go to log_file or nowhere.
	e, err := setup(io.Discard)
	if err != nil {
		return err
	}
	if e.cfg.LogFile != "" {
		f, err := os.OpenFile(e.cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		e.log.SetOutput(f)
	}

	opts := []ui.Option{ui.WithContext(ctx)}
	if out, _ := cmd.Flags().GetString("output"); out != "" {
		opts = append(opts, ui.WithExportPath(out))
	}

	watchFlag, _ := cmd.Flags().GetBool("watch")
	if watchFlag || e.cfg.Watch {
		w, err := startWatcher(e)
		if err != nil {
			return err
		}
		if w != nil {
			defer w.Stop()
			opts = append(opts, ui.WithChanges(w.Changes))
		}
	}

	p := tea.NewProgram(ui.New(e.ctrl, opts...), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run TUI: %w", err)
	}
	return nil
}
