package figure

import (
	"math"

	"github.com/litescript/ls-obstars/internal/emission"
	"github.com/litescript/ls-obstars/internal/series"
)

// Sky figure text.
const (
	SkyTitle             = "SiMBAD OB Stars Visualizer"
	CatalogUnavailable   = "Catalog unavailable"
	NoEmissionMap        = "No emission map configured"
	starHoverTemplate    = "Main_ID: %{customdata[0]}<br>SP_TYPE: %{customdata[1]}<br>m_V: %{customdata[2]:.2f}<br>GAL_LAT: %{y:.4f}<br>GAL_LON: %{x:.4f}<extra></extra>"
	heatmapHoverTemplate = "GAL_LAT: %{y}<br>GAL_LON: %{x}<br>Value: %{z}<extra></extra>"
	gridStep             = 30.0
	maxMarkerPx          = 40.0
)

// SkyOptions controls the heatmap color range.
type SkyOptions struct {
	ZMin float64
	ZMax float64
}

// DefaultSkyOptions matches the published map range.
func DefaultSkyOptions() SkyOptions {
	return SkyOptions{ZMin: 0, ZMax: 5e5}
}

// Sky builds the galactic sky map: an optional emission heatmap underneath
// one scatter trace per series.
func Sky(ss []series.Series, grid *emission.Grid, filter series.FilterState, opts SkyOptions) Figure {
	fig := skyFrame(SkyTitle)

	if filter.ShowHeatmap {
		if grid != nil {
			fig.Data = append(fig.Data, Trace{
				Type:          "heatmap",
				X:             grid.Lon,
				Y:             grid.Lat,
				Z:             grid.Z,
				ZMin:          floatPtr(opts.ZMin),
				ZMax:          floatPtr(opts.ZMax),
				Colorscale:    "Viridis",
				ShowScale:     boolPtr(false),
				HoverTemplate: heatmapHoverTemplate,
			})
		} else {
			fig.Layout.Annotations = append(fig.Layout.Annotations, Annotation{
				Text: NoEmissionMap, X: 0.5, Y: 1.08, XRef: "paper", YRef: "paper",
			})
		}
	}

	sizeRef := markerSizeRef(ss)
	for _, s := range ss {
		t := Trace{
			Type:          "scatter",
			Name:          s.Bucket,
			Mode:          "markers",
			X:             make([]float64, len(s.Points)),
			Y:             make([]float64, len(s.Points)),
			CustomData:    make([][]any, len(s.Points)),
			HoverTemplate: starHoverTemplate,
			Marker: &Marker{
				Color:    s.Color,
				Size:     make([]float64, len(s.Points)),
				SizeMode: "area",
				SizeRef:  sizeRef,
				SizeMin:  1,
				Line:     &Line{Width: floatPtr(0)},
			},
		}
		for i, p := range s.Points {
			t.X[i] = p.GalacticLongitude
			t.Y[i] = p.GalacticLatitude
			t.CustomData[i] = []any{p.Name, p.SpectralType, p.ApparentMagnitude}
			t.Marker.Size[i] = p.SizeHint
		}
		fig.Data = append(fig.Data, t)
	}

	return fig
}

// SkyUnavailable is the sky map shown when no catalog could be loaded.
func SkyUnavailable() Figure {
	fig := skyFrame(CatalogUnavailable)
	fig.Layout.Annotations = append(fig.Layout.Annotations, Annotation{
		Text: CatalogUnavailable, X: 180, Y: 0, XRef: "x", YRef: "y",
	})
	return fig
}

// skyFrame returns the axes, grid and legend shared by every sky figure.
func skyFrame(title string) Figure {
	return Figure{
		Data: []Trace{},
		Layout: Layout{
			Title: &Title{Text: title},
			XAxis: &Axis{
				Title:    &Title{Text: "Galactic Longitude (°)"},
				Range:    []float64{0, 360},
				Side:     "top",
				ShowGrid: boolPtr(false),
			},
			YAxis: &Axis{
				Title:    &Title{Text: "Galactic Latitude (°)"},
				Range:    []float64{-90, 90},
				ShowGrid: boolPtr(false),
			},
			Shapes: GridLines(),
			Legend: &Legend{
				Title:   &Title{Text: "Stars"},
				X:       1.03,
				Y:       1,
				XAnchor: "left",
				YAnchor: "top",
			},
			PlotBGColor:  "white",
			PaperBGColor: "white",
			DragMode:     "select",
		},
		Config: defaultConfig,
	}
}

// GridLines returns latitude and longitude lines every 30 degrees.
func GridLines() []Shape {
	style := &Line{Color: "gray", Width: floatPtr(0.5)}
	var shapes []Shape
	for lat := -90.0; lat <= 90; lat += gridStep {
		shapes = append(shapes, Shape{Type: "line", XRef: "x", YRef: "y", X0: 0, X1: 360, Y0: lat, Y1: lat, Line: style, Layer: "below"})
	}
	for lon := 0.0; lon <= 360; lon += gridStep {
		shapes = append(shapes, Shape{Type: "line", XRef: "x", YRef: "y", X0: lon, X1: lon, Y0: -90, Y1: 90, Line: style, Layer: "below"})
	}
	return shapes
}

// markerSizeRef scales sizes so the largest marker is maxMarkerPx across.
func markerSizeRef(ss []series.Series) float64 {
	var largest float64
	for _, s := range ss {
		for _, p := range s.Points {
			largest = math.Max(largest, p.SizeHint)
		}
	}
	if largest <= 0 {
		return 1
	}
	return 2 * largest / (maxMarkerPx * maxMarkerPx)
}
