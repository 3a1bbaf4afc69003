// Package figure builds declarative, Plotly-compatible figure descriptions
// and text panels from application state. Nothing here draws; the browser
// page, the PNG renderer and the TUI consume these values.
package figure

import (
	"encoding/json"
	"io"
)

// Figure is a complete plot: traces, layout and display config.
type Figure struct {
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
	Config *Config `json:"config,omitempty"`
}

// Trace is one Plotly trace. Only the attributes this tool emits are modeled.
type Trace struct {
	Type          string      `json:"type"`
	Name          string      `json:"name,omitempty"`
	Mode          string      `json:"mode,omitempty"`
	X             []float64   `json:"x,omitempty"`
	Y             []float64   `json:"y,omitempty"`
	Z             [][]float64 `json:"z,omitempty"`
	Text          []string    `json:"text,omitempty"`
	ZMin          *float64    `json:"zmin,omitempty"`
	ZMax          *float64    `json:"zmax,omitempty"`
	Colorscale    string      `json:"colorscale,omitempty"`
	ShowScale     *bool       `json:"showscale,omitempty"`
	Marker        *Marker     `json:"marker,omitempty"`
	Line          *Line       `json:"line,omitempty"`
	Fill          string      `json:"fill,omitempty"`
	FillColor     string      `json:"fillcolor,omitempty"`
	CustomData    [][]any     `json:"customdata,omitempty"`
	HoverTemplate string      `json:"hovertemplate,omitempty"`
	HoverInfo     string      `json:"hoverinfo,omitempty"`
	ShowLegend    *bool       `json:"showlegend,omitempty"`
}

// Marker styles scatter points.
type Marker struct {
	Color    string    `json:"color,omitempty"`
	Size     []float64 `json:"size,omitempty"`
	SizeMode string    `json:"sizemode,omitempty"`
	SizeRef  float64   `json:"sizeref,omitempty"`
	SizeMin  float64   `json:"sizemin,omitempty"`
	Line     *Line     `json:"line,omitempty"`
}

// Line styles a polyline or outline.
type Line struct {
	Color string   `json:"color,omitempty"`
	Width *float64 `json:"width,omitempty"`
	Dash  string   `json:"dash,omitempty"`
}

// Layout is the figure layout.
type Layout struct {
	Title        *Title       `json:"title,omitempty"`
	XAxis        *Axis        `json:"xaxis,omitempty"`
	YAxis        *Axis        `json:"yaxis,omitempty"`
	Shapes       []Shape      `json:"shapes,omitempty"`
	Annotations  []Annotation `json:"annotations,omitempty"`
	Legend       *Legend      `json:"legend,omitempty"`
	Margin       *Margin      `json:"margin,omitempty"`
	PlotBGColor  string       `json:"plot_bgcolor,omitempty"`
	PaperBGColor string       `json:"paper_bgcolor,omitempty"`
	ShowLegend   *bool        `json:"showlegend,omitempty"`
	DragMode     string       `json:"dragmode,omitempty"`
}

// Title is a plot or axis title.
type Title struct {
	Text string `json:"text"`
}

// Axis configures one axis.
type Axis struct {
	Title          *Title    `json:"title,omitempty"`
	Range          []float64 `json:"range,omitempty"`
	Side           string    `json:"side,omitempty"`
	ShowGrid       *bool     `json:"showgrid,omitempty"`
	Visible        *bool     `json:"visible,omitempty"`
	ShowTickLabels *bool     `json:"showticklabels,omitempty"`
	ZeroLine       *bool     `json:"zeroline,omitempty"`
	Dtick          float64   `json:"dtick,omitempty"`
}

// Shape is a layout shape such as a grid line.
type Shape struct {
	Type  string  `json:"type"`
	XRef  string  `json:"xref"`
	YRef  string  `json:"yref"`
	X0    float64 `json:"x0"`
	X1    float64 `json:"x1"`
	Y0    float64 `json:"y0"`
	Y1    float64 `json:"y1"`
	Line  *Line   `json:"line,omitempty"`
	Layer string  `json:"layer,omitempty"`
}

// Annotation is free text placed on the figure.
type Annotation struct {
	Text      string  `json:"text"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	XRef      string  `json:"xref"`
	YRef      string  `json:"yref"`
	ShowArrow bool    `json:"showarrow"`
}

// Legend configures the legend box.
type Legend struct {
	Title   *Title  `json:"title,omitempty"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	XAnchor string  `json:"xanchor,omitempty"`
	YAnchor string  `json:"yanchor,omitempty"`
}

// Margin is the plot margin in pixels.
type Margin struct {
	L int `json:"l"`
	R int `json:"r"`
	T int `json:"t"`
	B int `json:"b"`
}

// Config holds display options.
type Config struct {
	Responsive  bool `json:"responsive"`
	DisplayLogo bool `json:"displaylogo"`
}

var defaultConfig = &Config{Responsive: true}

// WriteJSON writes the figure as indented JSON.
func (f Figure) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(f)
}

// IsPlaceholder reports whether the figure carries no data traces.
func (f Figure) IsPlaceholder() bool {
	return len(f.Data) == 0
}

func boolPtr(b bool) *bool { return &b }

func floatPtr(f float64) *float64 { return &f }

func hiddenAxis() *Axis {
	return &Axis{Visible: boolPtr(false)}
}

// placeholder is an empty figure showing only a title.
func placeholder(title string) Figure {
	return Figure{
		Data: []Trace{},
		Layout: Layout{
			Title:  &Title{Text: title},
			XAxis:  hiddenAxis(),
			YAxis:  hiddenAxis(),
			Margin: &Margin{L: 10, R: 10, T: 35, B: 35},
		},
		Config: defaultConfig,
	}
}
