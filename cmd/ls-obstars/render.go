package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/litescript/ls-obstars/internal/render"
	"github.com/litescript/ls-obstars/internal/series"
	"github.com/litescript/ls-obstars/internal/spectrum"
)

var renderCmd = &cobra.Command{
	Use:       "render spectrum|sky",
	Short:     "Render a figure to PNG",
	ValidArgs: []string{"spectrum", "sky"},
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE:      runRender,
}

func init() {
	addFilterFlags(renderCmd)
	renderCmd.Flags().String("star", "", "star whose spectrum to render")
	renderCmd.Flags().StringP("output", "o", "", "PNG destination (default <figure>.png)")
	renderCmd.Flags().Int("width", 1024, "image width in pixels")
	renderCmd.Flags().Int("height", 600, "image height in pixels")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	e, err := load(ctx, os.Stderr)
	if err != nil {
		return err
	}

	width, _ := cmd.Flags().GetInt("width")
	height, _ := cmd.Flags().GetInt("height")
	size := render.WithSize(width, height)
	filter := filterFromFlags(cmd)

	var buf bytes.Buffer
	switch args[0] {
	case "spectrum":
		name, _ := cmd.Flags().GetString("star")
		if name == "" {
			return fmt.Errorf("render spectrum needs --star")
		}
		r, err := e.ctrl.Spectrum(ctx, name, spectrum.Options{
			Normalize:     filter.Normalize,
			ShowContinuum: filter.ShowContinuum,
		})
		if err != nil {
			return err
		}
		if err := render.Spectrum(&buf, r, size); err != nil {
			return err
		}
	case "sky":
		ss := series.Build(e.ctrl.State().Catalog().Stars, filter)
		if err := render.Sky(&buf, ss, size); err != nil {
			return err
		}
	}

	out, _ := cmd.Flags().GetString("output")
	if out == "" {
		out = args[0] + ".png"
	}
	if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", out)
	return nil
}
