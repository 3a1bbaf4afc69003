package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/litescript/ls-obstars/internal/app"
	"github.com/litescript/ls-obstars/internal/config"
	"github.com/litescript/ls-obstars/internal/logging"
	"github.com/litescript/ls-obstars/internal/source"
)

var rootCmd = &cobra.Command{
	Use:           "ls-obstars",
	Short:         "SiMBAD OB star catalog visualizer",
	Long:          "ls-obstars plots O and B stars in galactic coordinates with their IUE spectra and the integrated H2 emission map.",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runRootDefault,
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default .ls-obstars.yaml)")
	pf.String("data-dir", "", "local data directory")
	pf.String("data-url", "", "static HTTP root serving the data files")
	pf.String("log-level", "", "log level (debug, info, warn, error)")

	_ = viper.BindPFlag("data_dir", pf.Lookup("data-dir"))
	_ = viper.BindPFlag("data_url", pf.Lookup("data-url"))
	_ = viper.BindPFlag("log_level", pf.Lookup("log-level"))
}

func initConfig() {
	if cfgFile, _ := rootCmd.PersistentFlags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".ls-obstars")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home)
		}
	}

	viper.SetEnvPrefix("OBSTARS")
	viper.AutomaticEnv()

	// No config file is fine; defaults apply.
	_ = viper.ReadInConfig()
}

// runRootDefault starts the TUI on a terminal and prints the summary
// otherwise.
func runRootDefault(cmd *cobra.Command, args []string) error {
	if term.IsTerminal(int(os.Stdout.Fd())) {
		return runTUI(tuiCmd, args)
	}
	return runSummary(summaryCmd, args)
}

// env is what every subcommand needs.
type env struct {
	cfg  config.Config
	log  *logging.Logger
	ctrl *app.Controller
	src  source.Source
}

// setup loads configuration and builds the controller. Logs go to logOut.
func setup(logOut io.Writer) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log := logging.New(logging.ParseLevel(cfg.LogLevel))
	log.SetOutput(logOut)

	ctrl, src := app.NewFromConfig(cfg, log)
	return &env{cfg: cfg, log: log, ctrl: ctrl, src: src}, nil
}

// load is setup followed by a catalog load. A failed load is an error.
func load(ctx context.Context, logOut io.Writer) (*env, error) {
	e, err := setup(logOut)
	if err != nil {
		return nil, err
	}
	if err := e.ctrl.Load(ctx); err != nil {
		return nil, fmt.Errorf("load catalog from %s: %w", e.src.Describe(), err)
	}
	return e, nil
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
