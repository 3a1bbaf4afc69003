// Command ls-obstars explores a catalog of O and B stars: a galactic sky
// map, IUE spectra, and H2 emission, as a terminal UI, an HTTP API, or
// one-shot CLI output.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
