package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/litescript/ls-obstars/internal/figure"
	"github.com/litescript/ls-obstars/internal/series"
)

var figureCmd = &cobra.Command{
	Use:   "figure sky|spectrum|night",
	Short: "Print a figure as Plotly-compatible JSON",
	Long: `Print one figure of the page as JSON with data, layout and config
keys. spectrum and night describe the star named by --star; without it
they print the placeholder figure.`,
	ValidArgs: []string{"sky", "spectrum", "night"},
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE:      runFigure,
}

func init() {
	addFilterFlags(figureCmd)
	figureCmd.Flags().String("star", "", "star to describe (spectrum, night)")
	rootCmd.AddCommand(figureCmd)
}

func runFigure(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	e, err := load(ctx, os.Stderr)
	if err != nil {
		return err
	}
	e.ctrl.SetFilter(filterFromFlags(cmd))

	if name, _ := cmd.Flags().GetString("star"); name != "" {
		switch args[0] {
		case "spectrum":
			err = e.ctrl.ClickAndResolve(ctx, name)
		default:
			_, err = e.ctrl.Click(name)
		}
		if err != nil {
			return err
		}
	}

	v := e.ctrl.View()
	var fig figure.Figure
	switch args[0] {
	case "sky":
		fig = v.Sky
	case "spectrum":
		fig = v.Spectrum
	case "night":
		fig = v.Night
	default:
		return fmt.Errorf("unknown figure %q", args[0])
	}
	return fig.WriteJSON(cmd.OutOrStdout())
}

// addFilterFlags registers the four page toggles on cmd.
func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("only-spectra", false, "show only stars with IUE spectra")
	cmd.Flags().Bool("heatmap", false, "overlay the H2 emission map")
	cmd.Flags().Bool("normalize", false, "divide flux by its median")
	cmd.Flags().Bool("continuum", false, "overlay the fitted continuum")
}

// filterFromFlags reads whichever toggles cmd defines.
func filterFromFlags(cmd *cobra.Command) series.FilterState {
	get := func(name string) bool {
		v, _ := cmd.Flags().GetBool(name)
		return v
	}
	return series.FilterState{
		ShowOnlyWithSpectra: get("only-spectra"),
		ShowHeatmap:         get("heatmap"),
		Normalize:           get("normalize"),
		ShowContinuum:       get("continuum"),
	}
}
