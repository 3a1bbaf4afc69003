package figure

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/litescript/ls-obstars/internal/catalog"
	"github.com/litescript/ls-obstars/internal/emission"
)

// Panel prompts.
const (
	InfoPrompt     = "Click on a star to see its information"
	PixelPrompt    = "Click on a star to see the emission beneath it"
	SelectionEmpty = "No stars selected."
)

// Panel is a titled block of preformatted text lines.
type Panel struct {
	Title       string   `json:"title"`
	Lines       []string `json:"lines"`
	Placeholder bool     `json:"placeholder,omitempty"`
}

// Text joins the panel lines.
func (p Panel) Text() string {
	return strings.Join(p.Lines, "\n")
}

// InfoPanel describes the clicked star.
func InfoPanel(star *catalog.Star) Panel {
	if star == nil {
		return Panel{Title: "Star", Lines: []string{InfoPrompt}, Placeholder: true}
	}
	return Panel{
		Title: star.Name,
		Lines: []string{
			fmt.Sprintf("SP_TYPE:   %s", star.SpectralType),
			fmt.Sprintf("m_V:       %.2f", star.ApparentMagnitude),
			fmt.Sprintf("GAL_LAT:   %.4f°", star.GalacticLatitude),
			fmt.Sprintf("GAL_LON:   %.4f°", star.GalacticLongitude),
		},
	}
}

// selection column widths
var selectionWidths = []int{35, 14, 12, 27, 0}

// SelectionPanel lists the selected stars as a fixed-width table.
func SelectionPanel(stars []catalog.Star) Panel {
	title := fmt.Sprintf("Selected stars (%d)", len(stars))
	if len(stars) == 0 {
		return Panel{Title: title, Lines: []string{SelectionEmpty}, Placeholder: true}
	}

	lines := make([]string, 0, len(stars)+1)
	lines = append(lines, padRow([]string{"MAIN_ID:", "SP_TYPE:", "m_V:", "GAL_LAT:", "GAL_LON:"}))
	for _, s := range stars {
		lines = append(lines, padRow([]string{
			s.Name,
			s.SpectralType,
			strconv.FormatFloat(s.ApparentMagnitude, 'f', -1, 64),
			fmt.Sprintf("%.4f", s.GalacticLatitude),
			fmt.Sprintf("%.4f", s.GalacticLongitude),
		}))
	}
	return Panel{Title: title, Lines: lines}
}

func padRow(cols []string) string {
	var b strings.Builder
	for i, c := range cols {
		w := selectionWidths[i]
		b.WriteString(c)
		if pad := w - len([]rune(c)); pad > 0 {
			b.WriteString(strings.Repeat(" ", pad))
		} else if w > 0 {
			b.WriteByte(' ')
		}
	}
	return strings.TrimRight(b.String(), " ")
}

// PixelPanel reports the emission map value nearest the clicked star.
func PixelPanel(grid *emission.Grid, star *catalog.Star) Panel {
	const title = "H2 emission"
	if grid == nil {
		return Panel{Title: title, Lines: []string{NoEmissionMap}, Placeholder: true}
	}
	if star == nil {
		return Panel{Title: title, Lines: []string{PixelPrompt}, Placeholder: true}
	}

	cell, ok := grid.Lookup(star.GalacticLongitude, star.GalacticLatitude)
	if !ok {
		return Panel{Title: title, Lines: []string{NoEmissionMap}, Placeholder: true}
	}
	return Panel{
		Title: title,
		Lines: []string{
			fmt.Sprintf("Pixel:     lon %.2f°, lat %.2f°", cell.Lon, cell.Lat),
			fmt.Sprintf("Index:     [%d][%d]", cell.LatIdx, cell.LonIdx),
			fmt.Sprintf("Value:     %.4g", cell.Value),
		},
	}
}
