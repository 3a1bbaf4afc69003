package state

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/litescript/ls-obstars/internal/catalog"
	"github.com/litescript/ls-obstars/internal/series"
	"github.com/litescript/ls-obstars/internal/spectrum"
)

func testCatalog(names ...string) *catalog.Catalog {
	cat := &catalog.Catalog{Source: "test"}
	for i, n := range names {
		cat.Stars = append(cat.Stars, catalog.Star{
			Name:              n,
			GalacticLongitude: float64(10 * i),
			ColorBucket:       catalog.BucketB,
			HasSpectra:        i%2 == 0,
		})
	}
	return cat
}

func selectedNames(stars []catalog.Star) []string {
	var out []string
	for _, s := range stars {
		out = append(out, s.Name)
	}
	return out
}

func TestNewManager(t *testing.T) {
	m := NewManager(DefaultConfig())

	if m.HasData() {
		t.Error("HasData should be false initially")
	}
	snap := m.Snapshot()
	if snap.Current != nil || len(snap.Selected) != 0 {
		t.Errorf("initial selection = %+v / %v, want empty", snap.Current, snap.Selected)
	}
	if snap.Spectrum.Status != SpectrumIdle {
		t.Errorf("Spectrum.Status = %v, want idle", snap.Spectrum.Status)
	}
}

func TestManager_SetCatalog(t *testing.T) {
	m := NewManager(DefaultConfig())
	cat := testCatalog("A", "B")

	m.SetCatalog(cat, 20*time.Millisecond, nil)

	if !m.HasData() {
		t.Fatal("HasData should be true after SetCatalog")
	}
	snap := m.Snapshot()
	if snap.Catalog != cat || snap.LoadDuration != 20*time.Millisecond || snap.LoadError != nil {
		t.Errorf("snapshot = %+v", snap)
	}
	if len(snap.Events) != 1 || snap.Events[0].Type != EventCatalogLoaded {
		t.Errorf("events = %+v, want one CATALOG_LOADED", snap.Events)
	}
}

func TestManager_FailedReloadKeepsCatalog(t *testing.T) {
	m := NewManager(DefaultConfig())
	cat := testCatalog("A")
	m.SetCatalog(cat, 0, nil)

	loadErr := errors.New("boom")
	m.SetCatalog(nil, 0, loadErr)

	snap := m.Snapshot()
	if snap.Catalog != cat {
		t.Error("failed reload should keep previous catalog")
	}
	if snap.LoadError != loadErr {
		t.Errorf("LoadError = %v, want %v", snap.LoadError, loadErr)
	}
}

func TestManager_ReloadRebindsSelection(t *testing.T) {
	m := NewManager(DefaultConfig())
	m.SetCatalog(testCatalog("A", "B", "C"), 0, nil)

	cat := m.Catalog()
	a, _ := cat.Find("A")
	b, _ := cat.Find("B")
	m.SetCurrent(b)
	m.AddSelected(a)
	m.AddSelected(b)

	// B vanishes, A moves.
	next := testCatalog("A", "C")
	next.Stars[0].GalacticLongitude = 123
	m.SetCatalog(next, 0, nil)

	snap := m.Snapshot()
	if snap.Current != nil {
		t.Errorf("Current = %+v, want nil after star vanished", snap.Current)
	}
	if diff := cmp.Diff([]string{"A"}, selectedNames(snap.Selected)); diff != "" {
		t.Errorf("selection mismatch (-want +got):\n%s", diff)
	}
	if snap.Selected[0].GalacticLongitude != 123 {
		t.Errorf("selection not re-bound to new record: %+v", snap.Selected[0])
	}

	dropped := false
	for _, e := range snap.Events {
		if e.Type == EventSelectionDropped && e.Star == "B" {
			dropped = true
		}
	}
	if !dropped {
		t.Errorf("expected SELECTION_DROPPED for B, events: %+v", snap.Events)
	}
}

func TestManager_AddSelected_Idempotent(t *testing.T) {
	m := NewManager(DefaultConfig())
	a := catalog.Star{Name: "A"}
	b := catalog.Star{Name: "B"}

	if !m.AddSelected(a) {
		t.Error("first AddSelected(A) should add")
	}
	if !m.AddSelected(b) {
		t.Error("AddSelected(B) should add")
	}
	if m.AddSelected(catalog.Star{Name: "A", SpectralType: "changed"}) {
		t.Error("second AddSelected(A) should be a no-op")
	}

	got := m.Selected()
	if diff := cmp.Diff([]string{"A", "B"}, selectedNames(got)); diff != "" {
		t.Errorf("selection mismatch (-want +got):\n%s", diff)
	}
	if got[0].SpectralType != "" {
		t.Error("duplicate add must not replace the stored record")
	}
}

func TestManager_Click(t *testing.T) {
	m := NewManager(Config{Filter: series.FilterState{Normalize: true}})
	a := catalog.Star{Name: "A"}

	tok1, added, f := m.Click(a)
	if !added || !f.Normalize {
		t.Errorf("first Click = added %v, filter %+v", added, f)
	}
	tok2, added, _ := m.Click(a)
	if added {
		t.Error("second Click(A) should not select again")
	}
	if tok2 <= tok1 {
		t.Errorf("token %d not after %d", tok2, tok1)
	}

	snap := m.Snapshot()
	if snap.Current == nil || snap.Current.Name != "A" {
		t.Errorf("current = %v, want A", snap.Current)
	}
	if diff := cmp.Diff([]string{"A"}, selectedNames(snap.Selected)); diff != "" {
		t.Errorf("selection mismatch (-want +got):\n%s", diff)
	}
	if snap.Spectrum.Status != SpectrumLoading || snap.Spectrum.Token != tok2 {
		t.Errorf("spectrum = %+v, want loading with token %d", snap.Spectrum, tok2)
	}
}

func TestManager_ConcurrentClicks(t *testing.T) {
	m := NewManager(DefaultConfig())
	cat := testCatalog("A", "B", "C", "D")

	var wg sync.WaitGroup
	for _, s := range cat.Stars {
		wg.Add(1)
		go func(s catalog.Star) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				m.Click(s)
			}
		}(s)
	}
	wg.Wait()

	// The pending spectrum always belongs to the current star.
	snap := m.Snapshot()
	if snap.Current == nil || snap.Spectrum.Star != snap.Current.Name {
		t.Errorf("spectrum for %q, current %v", snap.Spectrum.Star, snap.Current)
	}
	if len(snap.Selected) != len(cat.Stars) {
		t.Errorf("selected %d stars, want %d", len(snap.Selected), len(cat.Stars))
	}
}

func TestManager_ClearSelected(t *testing.T) {
	m := NewManager(DefaultConfig())
	m.AddSelected(catalog.Star{Name: "A"})
	m.ClearSelected()

	if got := m.Selected(); len(got) != 0 {
		t.Errorf("Selected = %v, want empty", got)
	}
}

func TestManager_Filter(t *testing.T) {
	m := NewManager(Config{Filter: series.FilterState{ShowHeatmap: true}})
	if !m.Filter().ShowHeatmap {
		t.Error("initial filter not applied")
	}

	got := m.UpdateFilter(func(f *series.FilterState) { f.ShowOnlyWithSpectra = !f.ShowOnlyWithSpectra })
	if !got.ShowOnlyWithSpectra || !got.ShowHeatmap {
		t.Errorf("UpdateFilter = %+v", got)
	}

	m.SetFilter(series.FilterState{Normalize: true})
	if f := m.Filter(); f.ShowHeatmap || !f.Normalize {
		t.Errorf("SetFilter = %+v", f)
	}
}

func TestManager_SpectrumStaleDiscard(t *testing.T) {
	m := NewManager(DefaultConfig())

	first := m.BeginSpectrum("A")
	second := m.BeginSpectrum("B")

	if m.ApplySpectrum(first, &spectrum.Renderable{Star: "A"}, nil) {
		t.Error("stale response should be discarded")
	}
	panel := m.Spectrum()
	if panel.Status != SpectrumLoading || panel.Star != "B" {
		t.Errorf("panel after stale apply = %+v", panel)
	}

	if !m.ApplySpectrum(second, &spectrum.Renderable{Star: "B"}, nil) {
		t.Error("latest response should apply")
	}
	panel = m.Spectrum()
	if panel.Status != SpectrumReady || panel.Renderable.Star != "B" {
		t.Errorf("panel after apply = %+v", panel)
	}
}

func TestManager_SpectrumKeepsPreviousWhileLoading(t *testing.T) {
	m := NewManager(DefaultConfig())

	tok := m.BeginSpectrum("A")
	m.ApplySpectrum(tok, &spectrum.Renderable{Star: "A"}, nil)

	tok = m.BeginSpectrum("B")
	panel := m.Spectrum()
	if panel.Renderable == nil || panel.Renderable.Star != "A" {
		t.Errorf("previous spectrum should stay while loading, got %+v", panel.Renderable)
	}

	m.ApplySpectrum(tok, nil, spectrum.ErrUnavailable)
	panel = m.Spectrum()
	if panel.Status != SpectrumUnavailable || panel.Renderable != nil {
		t.Errorf("panel after failure = %+v", panel)
	}
	if !errors.Is(panel.Err, spectrum.ErrUnavailable) {
		t.Errorf("Err = %v, want ErrUnavailable", panel.Err)
	}
}

func TestManager_Snapshot_IsCopy(t *testing.T) {
	m := NewManager(DefaultConfig())
	m.SetCurrent(catalog.Star{Name: "A"})
	m.AddSelected(catalog.Star{Name: "A"})

	snap := m.Snapshot()
	snap.Current.Name = "mutated"
	snap.Selected[0].Name = "mutated"

	snap2 := m.Snapshot()
	if snap2.Current.Name != "A" || snap2.Selected[0].Name != "A" {
		t.Error("Snapshot modification affected manager state")
	}
}

func TestManager_EventRingBuffer(t *testing.T) {
	m := NewManager(Config{MaxEvents: 3})
	for _, n := range []string{"A", "B", "C", "D", "E"} {
		m.AddSelected(catalog.Star{Name: n})
	}

	got := m.RecentEvents(10)
	var stars []string
	for _, e := range got {
		stars = append(stars, e.Star)
	}
	if diff := cmp.Diff([]string{"C", "D", "E"}, stars); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}

	if last := m.RecentEvents(1); len(last) != 1 || last[0].Star != "E" {
		t.Errorf("RecentEvents(1) = %+v", last)
	}
}

func TestManager_ConcurrentAccess(t *testing.T) {
	m := NewManager(DefaultConfig())
	cat := testCatalog("A", "B", "C")

	var wg sync.WaitGroup
	iterations := 100

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < iterations; i++ {
			m.SetCatalog(cat, time.Duration(i)*time.Millisecond, nil)
			s := cat.Stars[i%len(cat.Stars)]
			m.SetCurrent(s)
			m.AddSelected(s)
			tok := m.BeginSpectrum(s.Name)
			m.ApplySpectrum(tok, &spectrum.Renderable{Star: s.Name}, nil)
		}
	}()

	for r := 0; r < 5; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < iterations; i++ {
				_ = m.Snapshot()
				_ = m.HasData()
				_ = m.Filter()
				_ = m.RecentEvents(5)
			}
		}()
	}

	wg.Wait()
}
