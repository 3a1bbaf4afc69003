package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-obstars/internal/figure"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("135"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("60"))

	accentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("229"))

	toggleOnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("46"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("60")).
			Padding(0, 1)
)

var sparkLevels = []rune("▁▂▃▄▅▆▇█")

// renderBox draws a titled panel box width cells wide.
func renderBox(title string, body []string, width int) string {
	inner := width - 4
	if inner < 8 {
		inner = 8
	}
	clip := lipgloss.NewStyle().MaxWidth(inner)
	lines := make([]string, 0, len(body)+1)
	lines = append(lines, clip.Render(titleStyle.Render(title)))
	for _, l := range body {
		lines = append(lines, clip.Render(l))
	}
	return boxStyle.Width(inner + 2).Render(strings.Join(lines, "\n"))
}

// renderPanel draws a text panel.
func renderPanel(p figure.Panel, width, maxLines int) string {
	lines := p.Lines
	if maxLines > 0 && len(lines) > maxLines {
		// keep the header row and the most recent entries
		lines = append([]string{lines[0], "…"}, lines[len(lines)-maxLines+2:]...)
	}
	if p.Placeholder {
		dimmed := make([]string, len(lines))
		for i, l := range lines {
			dimmed[i] = dimStyle.Render(l)
		}
		lines = dimmed
	}
	return renderBox(p.Title, lines, width)
}

// renderSpectrum draws the first line trace of a spectrum figure as a
// sparkline, with the shaded windows marked underneath.
func renderSpectrum(fig figure.Figure, width int) string {
	title := "Spectrum"
	if fig.Layout.Title != nil {
		title = fig.Layout.Title.Text
	}
	if fig.IsPlaceholder() {
		return renderBox(title, []string{dimStyle.Render("—")}, width)
	}

	inner := width - 4
	var lines []figure.Trace
	var windows []figure.Trace
	for _, t := range fig.Data {
		if t.Fill != "" {
			windows = append(windows, t)
		} else {
			lines = append(lines, t)
		}
	}
	if len(lines) == 0 {
		return renderBox(title, []string{dimStyle.Render("—")}, width)
	}

	first := lines[0]
	body := []string{sparkline(first.Y, inner)}
	body = append(body, windowMarks(first.X, windows, inner))

	legend := make([]string, 0, len(lines))
	for _, l := range lines {
		legend = append(legend, l.Name)
	}
	body = append(body, dimStyle.Render(strings.Join(legend, " · ")))
	for _, a := range fig.Layout.Annotations {
		body = append(body, dimStyle.Render(a.Text))
	}
	return renderBox(title, body, width)
}

// sparkline downsamples values into width columns.
func sparkline(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return ""
	}
	cols := bucketMeans(values, width)

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range cols {
		if math.IsNaN(v) {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}

	var b strings.Builder
	for _, v := range cols {
		if math.IsNaN(v) {
			b.WriteRune(' ')
			continue
		}
		level := 0
		if hi > lo {
			level = int((v - lo) / (hi - lo) * float64(len(sparkLevels)-1))
		}
		b.WriteRune(sparkLevels[clampInt(level, 0, len(sparkLevels)-1)])
	}
	return b.String()
}

// bucketMeans averages values into n columns; empty columns are NaN.
func bucketMeans(values []float64, n int) []float64 {
	if n > len(values) {
		n = len(values)
	}
	out := make([]float64, n)
	for c := 0; c < n; c++ {
		from := c * len(values) / n
		to := (c + 1) * len(values) / n
		if to <= from {
			out[c] = math.NaN()
			continue
		}
		var sum float64
		for _, v := range values[from:to] {
			sum += v
		}
		out[c] = sum / float64(to-from)
	}
	return out
}

// windowMarks underlines the sparkline columns that fall in a window.
func windowMarks(x []float64, windows []figure.Trace, width int) string {
	if len(x) == 0 {
		return ""
	}
	n := width
	if n > len(x) {
		n = len(x)
	}
	var b strings.Builder
	for c := 0; c < n; c++ {
		w := x[c*len(x)/n]
		mark := ' '
		for _, win := range windows {
			if len(win.X) >= 2 && w >= win.X[0] && w <= win.X[1] {
				mark = '▔'
			}
		}
		b.WriteRune(mark)
	}
	return accentStyle.Render(b.String())
}

// renderNight draws one bar per sampled date.
func renderNight(fig figure.Figure, width int) string {
	const title = "Night above horizon"
	if fig.IsPlaceholder() {
		return renderBox(title, []string{dimStyle.Render("—")}, width)
	}

	t := fig.Data[0]
	barWidth := width - 4 - 17
	if barWidth < 4 {
		barWidth = 4
	}
	body := make([]string, 0, len(t.Y))
	for i, v := range t.Y {
		label := fmt.Sprintf("#%d", i+1)
		if i < len(t.Text) {
			label = t.Text[i]
		}
		filled := int(math.Round(v / 100 * float64(barWidth)))
		filled = clampInt(filled, 0, barWidth)
		bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
		body = append(body, fmt.Sprintf("%-10s %s %3.0f%%", label, bar, v))
	}
	return renderBox(title, body, width)
}
