// Package ui provides the terminal user interface using Bubble Tea.
package ui

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-obstars/internal/app"
	"github.com/litescript/ls-obstars/internal/figure"
	"github.com/litescript/ls-obstars/internal/series"
	"github.com/litescript/ls-obstars/internal/spectrum"
	"github.com/litescript/ls-obstars/internal/state"
	"github.com/litescript/ls-obstars/internal/version"
	"github.com/litescript/ls-obstars/internal/watch"
)

// DefaultExportPath is where the selection CSV is written.
const DefaultExportPath = "selected_stars.csv"

// Msg types for Bubble Tea
type (
	// AnimTickMsg drives the loading spinner.
	AnimTickMsg time.Time

	// catalogLoadedMsg reports a finished (re)load.
	catalogLoadedMsg struct {
		err    error
		req    app.SpectrumRequest
		hasReq bool
	}

	// spectrumMsg carries a resolved spectrum back to the model.
	spectrumMsg struct {
		req app.SpectrumRequest
		r   *spectrum.Renderable
		err error
	}

	// exportedMsg reports the result of writing the selection CSV.
	exportedMsg struct {
		n    int
		path string
		err  error
	}

	// dataChangedMsg signals that files in the data directory changed.
	dataChangedMsg struct {
		change watch.Change
	}
)

// Model is the root Bubble Tea model.
type Model struct {
	ctrl *app.Controller
	ctx  context.Context
	keys KeyMap

	width     int
	height    int
	ready     bool
	loading   bool
	animTick  int
	statusMsg string
	statusErr bool

	exportPath string
	changes    <-chan watch.Change

	sky  SkyViewModel
	view figure.View
}

// Option configures a Model.
type Option func(*Model)

// WithExportPath sets the CSV destination for the export key.
func WithExportPath(path string) Option {
	return func(m *Model) {
		m.exportPath = path
	}
}

// WithChanges reloads the catalog whenever a change arrives on ch.
func WithChanges(ch <-chan watch.Change) Option {
	return func(m *Model) {
		m.changes = ch
	}
}

// WithContext sets the context used for loads and spectrum fetches.
func WithContext(ctx context.Context) Option {
	return func(m *Model) {
		m.ctx = ctx
	}
}

// New creates a new root UI model.
func New(ctrl *app.Controller, opts ...Option) Model {
	m := Model{
		ctrl:       ctrl,
		ctx:        context.Background(),
		keys:       DefaultKeyMap(),
		exportPath: DefaultExportPath,
		sky:        NewSkyViewModel(),
		loading:    true,
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.refresh()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.loadCmd(false),
		animTickCmd(),
		m.waitForChange(),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		cmds = append(cmds, m.handleKey(msg))

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.sky = m.sky.SetSize(msg.Width, m.skyHeight())

	case AnimTickMsg:
		if m.loading {
			m.animTick++
			cmds = append(cmds, animTickCmd())
		}

	case catalogLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.setStatus(fmt.Sprintf("Load failed: %v", msg.err), true)
		} else if m.statusErr {
			m.setStatus("", false)
		}
		if msg.hasReq {
			cmds = append(cmds, m.fetchCmd(msg.req))
		}

	case spectrumMsg:
		m.ctrl.Apply(msg.req, msg.r, msg.err)

	case exportedMsg:
		switch {
		case errors.Is(msg.err, state.ErrNothingSelected):
			m.setStatus(state.NothingSelectedNotice, true)
		case msg.err != nil:
			m.setStatus(fmt.Sprintf("Export failed: %v", msg.err), true)
		default:
			m.setStatus(fmt.Sprintf("Exported %d stars to %s", msg.n, msg.path), false)
		}

	case dataChangedMsg:
		m.setStatus("Data changed: "+strings.Join(msg.change.Files, ", "), false)
		m.loading = true
		cmds = append(cmds, m.loadCmd(true), animTickCmd(), m.waitForChange())
	}

	m.refresh()
	return m, tea.Batch(cmds...)
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit

	case key.Matches(msg, m.keys.Next):
		m.sky = m.sky.FocusNext()
	case key.Matches(msg, m.keys.Prev):
		m.sky = m.sky.FocusPrev()

	case key.Matches(msg, m.keys.Click):
		s, ok := m.sky.Focused()
		if !ok {
			return nil
		}
		req, err := m.ctrl.Click(s.Name)
		if err != nil {
			m.setStatus(err.Error(), true)
			return nil
		}
		return m.fetchCmd(req)

	case key.Matches(msg, m.keys.Spectra):
		return m.toggle(func(f *series.FilterState) { f.ShowOnlyWithSpectra = !f.ShowOnlyWithSpectra })
	case key.Matches(msg, m.keys.Heatmap):
		return m.toggle(func(f *series.FilterState) { f.ShowHeatmap = !f.ShowHeatmap })
	case key.Matches(msg, m.keys.Normalize):
		return m.toggle(func(f *series.FilterState) { f.Normalize = !f.Normalize })
	case key.Matches(msg, m.keys.Continuum):
		return m.toggle(func(f *series.FilterState) { f.ShowContinuum = !f.ShowContinuum })

	case key.Matches(msg, m.keys.Export):
		return m.exportCmd()
	case key.Matches(msg, m.keys.Clear):
		m.ctrl.ClearSelection()
		m.setStatus("Selection cleared", false)
	case key.Matches(msg, m.keys.Reload):
		m.loading = true
		return tea.Batch(m.loadCmd(true), animTickCmd())
	}
	return nil
}

func (m *Model) toggle(fn func(*series.FilterState)) tea.Cmd {
	if req, ok := m.ctrl.Toggle(fn); ok {
		return m.fetchCmd(req)
	}
	return nil
}

func (m *Model) setStatus(s string, isErr bool) {
	m.statusMsg = s
	m.statusErr = isErr
}

// refresh rebuilds the view and pushes it into the sky sub-model.
func (m *Model) refresh() {
	m.view = m.ctrl.View()
	snap := m.ctrl.State().Snapshot()

	if snap.Catalog != nil {
		ss := series.Build(snap.Catalog.Stars, snap.Filter)
		m.sky = m.sky.UpdateData(ss, snap.Catalog.Emission, snap.Filter, m.ctrl.FigureOptions().Sky, snap.Current)
		return
	}
	m.sky = m.sky.UpdateData(nil, nil, snap.Filter, m.ctrl.FigureOptions().Sky, nil)
}

func (m Model) skyHeight() int {
	// header 2, panel rows ~16, footer 2
	h := m.height - 20
	if h < 8 {
		h = 8
	}
	return h
}

func (m Model) loadCmd(reload bool) tea.Cmd {
	ctrl, ctx := m.ctrl, m.ctx
	return func() tea.Msg {
		if !reload {
			return catalogLoadedMsg{err: ctrl.Load(ctx)}
		}
		req, ok, err := ctrl.Reload(ctx)
		return catalogLoadedMsg{err: err, req: req, hasReq: ok}
	}
}

func (m Model) fetchCmd(req app.SpectrumRequest) tea.Cmd {
	ctrl, ctx := m.ctrl, m.ctx
	return func() tea.Msg {
		r, err := ctrl.Fetch(ctx, req)
		return spectrumMsg{req: req, r: r, err: err}
	}
}

func (m Model) exportCmd() tea.Cmd {
	ctrl, path := m.ctrl, m.exportPath
	return func() tea.Msg {
		var buf bytes.Buffer
		n, err := ctrl.Export(&buf, path)
		if err != nil {
			return exportedMsg{err: err}
		}
		if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
			return exportedMsg{err: err}
		}
		return exportedMsg{n: n, path: path}
	}
}

func (m Model) waitForChange() tea.Cmd {
	if m.changes == nil {
		return nil
	}
	ch := m.changes
	return func() tea.Msg {
		c, ok := <-ch
		if !ok {
			return nil
		}
		return dataChangedMsg{change: c}
	}
}

func animTickCmd() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return AnimTickMsg(t)
	})
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	if !m.view.Status.CatalogLoaded {
		b.WriteString(m.renderUnavailable())
	} else {
		b.WriteString(m.sky.View())
	}
	b.WriteString("\n")
	b.WriteString(m.renderPanels())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m Model) renderHeader() string {
	title := gradientText("  SiMBAD OB STARS")
	s := m.view.Status
	var info string
	if s.CatalogLoaded {
		info = fmt.Sprintf("%d/%d stars · %s · %d selected · spectrum %s",
			s.Shown, s.Stars, s.Source, s.Selected, s.Spectrum)
	} else {
		info = figure.CatalogUnavailable
	}
	return title + "  " + dimStyle.Render(info) + "\n" + "  " + m.renderToggles()
}

func (m Model) renderToggles() string {
	f := m.view.Filter
	toggles := []struct {
		label string
		on    bool
	}{
		{"[s] only IUE", f.ShowOnlyWithSpectra},
		{"[b] H2 map", f.ShowHeatmap},
		{"[n] normalize", f.Normalize},
		{"[c] continuum", f.ShowContinuum},
	}
	parts := make([]string, 0, len(toggles))
	for _, t := range toggles {
		if t.on {
			parts = append(parts, toggleOnStyle.Render("● "+t.label))
		} else {
			parts = append(parts, dimStyle.Render("○ "+t.label))
		}
	}
	return strings.Join(parts, "  ")
}

func (m Model) renderUnavailable() string {
	msg := figure.CatalogUnavailable
	if m.view.Status.LoadError != "" {
		msg += ": " + m.view.Status.LoadError
	}
	if m.loading {
		frames := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
		msg = frames[m.animTick%len(frames)] + " Loading catalog..."
	}
	return lipgloss.Place(m.width, m.skyHeight(), lipgloss.Center, lipgloss.Center, dimStyle.Render(msg))
}

func (m Model) renderPanels() string {
	col := m.width / 4
	if col < 24 {
		col = 24
	}
	top := lipgloss.JoinHorizontal(lipgloss.Top,
		renderPanel(m.view.Info, col, 8),
		renderPanel(m.view.Pixel, col, 8),
		renderSpectrum(m.view.Spectrum, col),
		renderNight(m.view.Night, col),
	)
	return top + "\n" + renderPanel(m.view.Selection, m.width, 6)
}

func (m Model) renderFooter() string {
	var help []string
	for _, b := range m.keys.HelpBindings() {
		h := b.Help()
		help = append(help, h.Key+" "+h.Desc)
	}
	footer := "  " + dimStyle.Render(strings.Join(help, " · "))
	if m.statusMsg != "" {
		style := accentStyle
		if m.statusErr {
			style = errorStyle
		}
		footer += "\n  " + style.Render(m.statusMsg)
	}
	footer += dimStyle.Render(fmt.Sprintf("  v%s", version.Version))
	return footer
}

// StatusMessage returns the last status line, for tests and callers.
func (m Model) StatusMessage() string {
	return m.statusMsg
}

// gradientText renders s with a horizontal blue to pink gradient.
func gradientText(s string) string {
	runes := []rune(s)
	var b strings.Builder
	for i, r := range runes {
		style := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(gradientColor(i, len(runes))))
		b.WriteString(style.Render(string(r)))
	}
	return b.String()
}

// gradientColor returns a hex color for column col of width.
// Blue (#3B82F6) -> Purple (#8B5CF6) -> Pink (#EC4899)
func gradientColor(col, width int) string {
	x := 0.0
	if width > 1 {
		x = float64(col) / float64(width-1)
	}
	var r, g, b float64
	if x < 0.5 {
		t := x / 0.5
		r = 59 + t*(139-59)
		g = 130 + t*(92-130)
		b = 246
	} else {
		t := (x - 0.5) / 0.5
		r = 139 + t*(236-139)
		g = 92 + t*(72-92)
		b = 246 + t*(153-246)
	}
	return fmt.Sprintf("#%02X%02X%02X", int(r), int(g), int(b))
}
