package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-obstars/internal/catalog"
	"github.com/litescript/ls-obstars/internal/emission"
	"github.com/litescript/ls-obstars/internal/figure"
	"github.com/litescript/ls-obstars/internal/series"
)

const (
	// Star glyphs by size hint
	glyphStarLarge  = '✶' // size >= 50
	glyphStarMedium = '✸' // size >= 10
	glyphStarSmall  = '•'
	glyphFocused    = '◆'
	glyphCurrent    = '◉'

	colorFocused    = "229" // bright gold
	colorGrid       = "238"
	colorBackground = "236"

	gridStep = 30.0
)

// heatRamp approximates Viridis in the xterm-256 palette, low to high.
var heatRamp = []lipgloss.Color{"53", "54", "60", "24", "30", "36", "35", "71", "113", "185", "227"}

// skyStar is a plotted star with its series color.
type skyStar struct {
	catalog.Star
	color lipgloss.Color
}

// SkyViewModel renders the galactic plane with one glyph per shown star.
// Stars are ordered by longitude so focus moves left to right.
type SkyViewModel struct {
	width  int
	height int

	stars    []skyStar
	focusIdx int
	current  string

	grid        *emission.Grid
	showHeatmap bool
	zmin, zmax  float64
}

// NewSkyViewModel creates an empty sky view.
func NewSkyViewModel() SkyViewModel {
	return SkyViewModel{zmin: 0, zmax: 5e5}
}

// SetSize sets the canvas size.
func (m SkyViewModel) SetSize(width, height int) SkyViewModel {
	m.width = width
	m.height = height
	return m
}

// UpdateData replaces the plotted stars. Focus stays on the same star when it
// is still shown.
func (m SkyViewModel) UpdateData(ss []series.Series, grid *emission.Grid, filter series.FilterState, opts figure.SkyOptions, current *catalog.Star) SkyViewModel {
	var focusedName string
	if s, ok := m.Focused(); ok {
		focusedName = s.Name
	}

	stars := make([]skyStar, 0, series.Count(ss))
	for _, s := range ss {
		for _, p := range s.Points {
			stars = append(stars, skyStar{Star: p, color: lipgloss.Color(s.Color)})
		}
	}
	sort.SliceStable(stars, func(i, j int) bool {
		return stars[i].GalacticLongitude < stars[j].GalacticLongitude
	})

	m.stars = stars
	m.grid = grid
	m.showHeatmap = filter.ShowHeatmap
	m.zmin, m.zmax = opts.ZMin, opts.ZMax
	m.current = ""
	if current != nil {
		m.current = current.Name
	}

	m.focusIdx = 0
	for i, s := range stars {
		if s.Name == focusedName {
			m.focusIdx = i
			break
		}
	}
	return m
}

// Focused returns the star under the cursor.
func (m SkyViewModel) Focused() (catalog.Star, bool) {
	if m.focusIdx < 0 || m.focusIdx >= len(m.stars) {
		return catalog.Star{}, false
	}
	return m.stars[m.focusIdx].Star, true
}

// FocusNext moves the cursor to the next star east.
func (m SkyViewModel) FocusNext() SkyViewModel {
	if len(m.stars) == 0 {
		return m
	}
	m.focusIdx = (m.focusIdx + 1) % len(m.stars)
	return m
}

// FocusPrev moves the cursor to the previous star.
func (m SkyViewModel) FocusPrev() SkyViewModel {
	if len(m.stars) == 0 {
		return m
	}
	m.focusIdx--
	if m.focusIdx < 0 {
		m.focusIdx = len(m.stars) - 1
	}
	return m
}

// View renders the canvas and a one-line status for the focused star.
func (m SkyViewModel) View() string {
	if m.width < 20 || m.height < 6 {
		return "Sky view requires larger terminal"
	}

	var b strings.Builder
	b.WriteString(m.renderSkyCanvas(m.width, m.height-1))
	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	return b.String()
}

func (m SkyViewModel) renderStatus() string {
	s, ok := m.Focused()
	if !ok {
		return dimStyle.Render("No stars shown")
	}
	line := fmt.Sprintf(">>> %s  %s  m_V %.2f  l=%.2f° b=%.2f°",
		s.Name, s.SpectralType, s.ApparentMagnitude, s.GalacticLongitude, s.GalacticLatitude)
	if !s.HasSpectra {
		line += "  (no IUE spectrum)"
	}
	return accentStyle.Render(line)
}

func (m SkyViewModel) renderSkyCanvas(width, height int) string {
	canvas := make([][]rune, height)
	colors := make([][]lipgloss.Color, height)
	bg := make([][]lipgloss.Color, height)
	for y := 0; y < height; y++ {
		canvas[y] = make([]rune, width)
		colors[y] = make([]lipgloss.Color, width)
		bg[y] = make([]lipgloss.Color, width)
		for x := 0; x < width; x++ {
			canvas[y][x] = ' '
			colors[y][x] = colorBackground
		}
	}

	if m.showHeatmap && m.grid != nil {
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				lon, lat := screenToSky(x, y, width, height)
				if cell, ok := m.grid.Lookup(lon, lat); ok {
					bg[y][x] = heatColor(cell.Value, m.zmin, m.zmax)
				}
			}
		}
	}

	// Grid lines every 30 degrees
	for lat := -90.0 + gridStep; lat < 90; lat += gridStep {
		_, y := projectToScreen(0, lat, width, height)
		for x := 0; x < width; x++ {
			canvas[y][x] = '─'
			colors[y][x] = colorGrid
		}
	}
	for lon := gridStep; lon < 360; lon += gridStep {
		x, _ := projectToScreen(lon, 0, width, height)
		for y := 0; y < height; y++ {
			if canvas[y][x] == '─' {
				canvas[y][x] = '┼'
			} else {
				canvas[y][x] = '│'
			}
			colors[y][x] = colorGrid
		}
	}

	// Fainter stars first so bright ones win shared cells
	order := make([]int, len(m.stars))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return m.stars[order[a]].SizeHint < m.stars[order[b]].SizeHint
	})
	for _, i := range order {
		s := m.stars[i]
		x, y := projectToScreen(s.GalacticLongitude, s.GalacticLatitude, width, height)
		canvas[y][x] = starGlyph(s.SizeHint)
		colors[y][x] = s.color
		if s.Name == m.current {
			canvas[y][x] = glyphCurrent
		}
	}
	if s, ok := m.Focused(); ok {
		x, y := projectToScreen(s.GalacticLongitude, s.GalacticLatitude, width, height)
		canvas[y][x] = glyphFocused
		colors[y][x] = colorFocused
	}

	var b strings.Builder
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			style := lipgloss.NewStyle().Foreground(colors[y][x])
			if bg[y][x] != "" {
				style = style.Background(bg[y][x])
			}
			b.WriteString(style.Render(string(canvas[y][x])))
		}
		if y < height-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func starGlyph(size float64) rune {
	switch {
	case size >= 50:
		return glyphStarLarge
	case size >= 10:
		return glyphStarMedium
	default:
		return glyphStarSmall
	}
}

// projectToScreen maps galactic coordinates onto the canvas: longitude 0
// at the left edge, latitude +90 at the top.
func projectToScreen(lon, lat float64, width, height int) (int, int) {
	x := int(lon / 360 * float64(width))
	y := int((90 - lat) / 180 * float64(height))
	return clampInt(x, 0, width-1), clampInt(y, 0, height-1)
}

// screenToSky returns the galactic coordinates at the center of a cell.
func screenToSky(x, y, width, height int) (lon, lat float64) {
	lon = (float64(x) + 0.5) / float64(width) * 360
	lat = 90 - (float64(y)+0.5)/float64(height)*180
	return lon, lat
}

// heatColor picks the ramp color for v within [zmin, zmax].
func heatColor(v, zmin, zmax float64) lipgloss.Color {
	if zmax <= zmin {
		return heatRamp[0]
	}
	t := (v - zmin) / (zmax - zmin)
	idx := int(t * float64(len(heatRamp)-1))
	return heatRamp[clampInt(idx, 0, len(heatRamp)-1)]
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
