package ui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/litescript/ls-obstars/internal/app"
	"github.com/litescript/ls-obstars/internal/catalog"
	"github.com/litescript/ls-obstars/internal/source"
	"github.com/litescript/ls-obstars/internal/spectrum"
	"github.com/litescript/ls-obstars/internal/state"
	"github.com/litescript/ls-obstars/internal/watch"
)

type memSource map[string]string

func (m memSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	v, ok := m[name]
	if !ok {
		return nil, fmt.Errorf("read %s: %w", name, source.ErrNotFound)
	}
	return []byte(v), nil
}

func (m memSource) Describe() string { return "memory" }

func newTestModel(t *testing.T, opts ...Option) Model {
	t.Helper()
	src := memSource{
		"plot_data.json": `[
		  {"Name":"HD 1","Galactic Longitude":10,"Galactic Latitude":5,"Spectral Type":"O9V","Apparent Magnitude":6.2,"Size":3,"Color":"O-type","HasSpectra":true},
		  {"Name":"HD 2","Galactic Longitude":200,"Galactic Latitude":-12,"Spectral Type":"B1III","Apparent Magnitude":7.0,"Size":2,"Color":"B-type","HasSpectra":false}
		]`,
		"spectra/HD_1.json": `{"wavelength":[1300,1350,1500],"flux":[2,4,6]}`,
	}
	ctrl := app.New(
		catalog.NewLoader(src, catalog.Files{Stars: "plot_data.json"}),
		spectrum.NewResolver(src),
	)
	return New(ctrl, opts...)
}

// run executes cmd and feeds every resulting message back into m. Animation
// ticks are skipped. It reports whether a quit was requested.
func run(t *testing.T, m Model, cmd tea.Cmd) (Model, bool) {
	t.Helper()
	if cmd == nil {
		return m, false
	}
	switch msg := cmd().(type) {
	case nil, AnimTickMsg:
		return m, false
	case tea.QuitMsg:
		return m, true
	case tea.BatchMsg:
		quit := false
		for _, c := range msg {
			var q bool
			m, q = run(t, m, c)
			quit = quit || q
		}
		return m, quit
	default:
		next, c := m.Update(msg)
		return run(t, next.(Model), c)
	}
}

func press(t *testing.T, m Model, k string) (Model, bool) {
	t.Helper()
	var msg tea.KeyMsg
	switch k {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "right":
		msg = tea.KeyMsg{Type: tea.KeyRight}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
	next, cmd := m.Update(msg)
	return run(t, next.(Model), cmd)
}

func load(t *testing.T, m Model) Model {
	t.Helper()
	m, _ = run(t, m, m.loadCmd(false))
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return next.(Model)
}

func TestModel_LoadAndClick(t *testing.T) {
	m := newTestModel(t)
	if got := m.View(); got != "Initializing..." {
		t.Errorf("view before size = %q", got)
	}

	m = load(t, m)
	if m.loading {
		t.Error("still loading after catalog load")
	}
	if !m.view.Status.CatalogLoaded || m.view.Status.Stars != 2 {
		t.Fatalf("status = %+v", m.view.Status)
	}

	m, _ = press(t, m, "enter")
	if m.view.Status.Selected != 1 {
		t.Errorf("selected = %d, want 1", m.view.Status.Selected)
	}
	if m.view.Status.Spectrum != "ready" {
		t.Errorf("spectrum status = %s, want ready", m.view.Status.Spectrum)
	}
	if !strings.Contains(m.View(), "Star: HD_1") {
		t.Error("view does not show the info panel for HD 1")
	}

	// HD 2 has no spectrum
	m, _ = press(t, m, "right")
	m, _ = press(t, m, "enter")
	if m.view.Status.Selected != 2 || m.view.Status.Spectrum != "unavailable" {
		t.Errorf("status after second click = %+v", m.view.Status)
	}
}

func TestModel_Toggles(t *testing.T) {
	m := load(t, newTestModel(t))
	m, _ = press(t, m, "enter")

	m, _ = press(t, m, "n")
	if !m.view.Filter.Normalize {
		t.Fatal("normalize not toggled")
	}
	if y := m.view.Spectrum.Data[0].Y; len(y) != 3 || y[1] != 1 {
		t.Errorf("normalized y = %v", y)
	}

	m, _ = press(t, m, "s")
	if m.view.Status.Shown != 1 {
		t.Errorf("shown with only-IUE = %d, want 1", m.view.Status.Shown)
	}
	if !strings.Contains(m.View(), "● [s] only IUE") {
		t.Error("toggle row does not show only-IUE as on")
	}
}

func TestModel_ExportAndClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	m := load(t, newTestModel(t, WithExportPath(path)))

	m, _ = press(t, m, "x")
	if m.StatusMessage() != state.NothingSelectedNotice {
		t.Errorf("status = %q, want %q", m.StatusMessage(), state.NothingSelectedNotice)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("empty export wrote a file: %v", err)
	}

	m, _ = press(t, m, "enter")
	m, _ = press(t, m, "x")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	want := "MAIN_ID,SP_TYPE,m_V,GAL_LAT,GAL_LON\nHD 1,O9V,6.2,5.0000,10.0000\n"
	if string(data) != want {
		t.Errorf("export =\n%s", data)
	}
	if !strings.HasPrefix(m.StatusMessage(), "Exported 1 stars") {
		t.Errorf("status = %q", m.StatusMessage())
	}

	m, _ = press(t, m, "X")
	if m.view.Status.Selected != 0 {
		t.Errorf("selected after clear = %d", m.view.Status.Selected)
	}
}

func TestModel_DataChangeReloads(t *testing.T) {
	ch := make(chan watch.Change, 1)
	m := load(t, newTestModel(t, WithChanges(ch)))
	m, _ = press(t, m, "enter")

	ch <- watch.Change{Files: []string{"plot_data.json"}}
	close(ch) // the re-armed wait returns once the buffered change is drained
	m, _ = run(t, m, m.waitForChange())

	if !strings.HasPrefix(m.StatusMessage(), "Data changed: plot_data.json") {
		t.Errorf("status = %q", m.StatusMessage())
	}
	if m.loading {
		t.Error("still loading after reload")
	}
	// The current star's spectrum was requested again and resolved.
	if m.view.Status.Spectrum != "ready" {
		t.Errorf("spectrum status after reload = %s", m.view.Status.Spectrum)
	}

	if msg := m.waitForChange()(); msg != nil {
		t.Errorf("closed channel produced %T", msg)
	}
}

func TestModel_Quit(t *testing.T) {
	m := load(t, newTestModel(t))
	if _, quit := press(t, m, "q"); !quit {
		t.Error("q did not quit")
	}
}

func TestGradientColor(t *testing.T) {
	if got := gradientColor(0, 10); got != "#3B82F6" {
		t.Errorf("start = %s", got)
	}
	if got := gradientColor(9, 10); got != "#EC4899" {
		t.Errorf("end = %s", got)
	}
}
