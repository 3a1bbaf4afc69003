package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/litescript/ls-obstars/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the page and its JSON API",
	Long: `Serve the visualizer page and the JSON API it calls. The page
state (toggles, current star, selection) lives in this process and is
shared by every browser tab.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("listen", ":8080", "listen address")
	serveCmd.Flags().Bool("watch", false, "reload when data files change")
	_ = viper.BindPFlag("listen", serveCmd.Flags().Lookup("listen"))
	_ = viper.BindPFlag("watch", serveCmd.Flags().Lookup("watch"))
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	e, err := setup(os.Stderr)
	if err != nil {
		return err
	}
	// A missing catalog still serves the page with its placeholders.
	_ = e.ctrl.Load(ctx)

	if e.cfg.Watch {
		w, err := startWatcher(e)
		if err != nil {
			return err
		}
		if w != nil {
			defer w.Stop()
			go reloadOnChange(ctx, e, w.Changes)
		}
	}

	srv := server.New(e.ctrl,
		server.WithLogger(e.log.With("server")),
		server.WithTimeout(e.cfg.Timeout),
	)
	return srv.ListenAndServe(ctx, e.cfg.Listen)
}
