// Package state provides thread-safe state management for the application.
package state

import (
	"sync"
	"time"

	"github.com/litescript/ls-obstars/internal/catalog"
	"github.com/litescript/ls-obstars/internal/series"
	"github.com/litescript/ls-obstars/internal/spectrum"
)

// EventType represents the type of state change event.
type EventType string

const (
	EventCatalogLoaded       EventType = "CATALOG_LOADED"
	EventCatalogFailed       EventType = "CATALOG_FAILED"
	EventStarClicked         EventType = "STAR_CLICKED"
	EventStarSelected        EventType = "STAR_SELECTED"
	EventSelectionDropped    EventType = "SELECTION_DROPPED"
	EventSelectionCleared    EventType = "SELECTION_CLEARED"
	EventSpectrumLoaded      EventType = "SPECTRUM_LOADED"
	EventSpectrumUnavailable EventType = "SPECTRUM_UNAVAILABLE"
	EventExported            EventType = "EXPORTED"
)

// Event represents a state change.
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Star      string    `json:"star,omitempty"`
	Detail    string    `json:"detail,omitempty"`
}

// SpectrumStatus is the state of the spectrum panel.
type SpectrumStatus int

const (
	SpectrumIdle SpectrumStatus = iota
	SpectrumLoading
	SpectrumReady
	SpectrumUnavailable
)

func (s SpectrumStatus) String() string {
	switch s {
	case SpectrumIdle:
		return "idle"
	case SpectrumLoading:
		return "loading"
	case SpectrumReady:
		return "ready"
	case SpectrumUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// SpectrumPanel is what the spectrum panel shows. While a request is in
// flight, Renderable still holds the previously resolved spectrum.
type SpectrumPanel struct {
	Star       string
	Status     SpectrumStatus
	Renderable *spectrum.Renderable
	Err        error
	Token      uint64
}

// Manager handles all shared application state with thread-safe access.
type Manager struct {
	mu sync.RWMutex

	// Catalog
	catalog      *catalog.Catalog
	loadedAt     time.Time
	loadError    error
	loadDuration time.Duration

	filter series.FilterState

	// Selection
	current  *catalog.Star
	selected []catalog.Star

	// Spectrum panel and request tagging
	spectrum   SpectrumPanel
	requestSeq uint64

	// Event log (ring buffer)
	events       []Event
	maxEvents    int
	eventWriteAt int
}

// Config holds configuration for the state manager.
type Config struct {
	MaxEvents int
	Filter    series.FilterState
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{
		MaxEvents: 50,
	}
}

// NewManager creates a new state manager.
func NewManager(cfg Config) *Manager {
	maxEvents := cfg.MaxEvents
	if maxEvents <= 0 {
		maxEvents = 50
	}
	return &Manager{
		maxEvents: maxEvents,
		events:    make([]Event, 0, maxEvents),
		filter:    cfg.Filter,
	}
}

// SetCatalog records the result of a catalog load. A failed reload keeps the
// previously loaded catalog. After a successful load the current star and
// the selection are re-bound by name; stars that vanished are dropped.
func (m *Manager) SetCatalog(cat *catalog.Catalog, loadDuration time.Duration, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	m.loadedAt = now
	m.loadError = err
	m.loadDuration = loadDuration

	if err != nil {
		m.addEvent(Event{Type: EventCatalogFailed, Timestamp: now, Detail: err.Error()})
		return
	}
	if cat == nil {
		return
	}

	m.catalog = cat
	m.addEvent(Event{Type: EventCatalogLoaded, Timestamp: now, Detail: cat.Source})

	if m.current != nil {
		if s, ok := cat.Find(m.current.Name); ok {
			m.current = &s
		} else {
			m.current = nil
		}
	}

	kept := m.selected[:0:0]
	for _, old := range m.selected {
		s, ok := cat.Find(old.Name)
		if !ok {
			m.addEvent(Event{Type: EventSelectionDropped, Timestamp: now, Star: old.Name, Detail: "no longer in catalog"})
			continue
		}
		kept = append(kept, s)
	}
	m.selected = kept
}

// Catalog returns the loaded catalog or nil.
func (m *Manager) Catalog() *catalog.Catalog {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.catalog
}

// HasData returns true once a catalog has loaded successfully.
func (m *Manager) HasData() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.catalog != nil
}

// Filter returns the current toggles.
func (m *Manager) Filter() series.FilterState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.filter
}

// SetFilter replaces the toggles.
func (m *Manager) SetFilter(f series.FilterState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.filter = f
}

// UpdateFilter applies fn to the toggles and returns the result.
func (m *Manager) UpdateFilter(fn func(*series.FilterState)) series.FilterState {
	m.mu.Lock()
	defer m.mu.Unlock()
	fn(&m.filter)
	return m.filter
}

// SetCurrent makes star the clicked star.
func (m *Manager) SetCurrent(star catalog.Star) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setCurrent(star)
}

func (m *Manager) setCurrent(star catalog.Star) {
	m.current = &star
	m.addEvent(Event{Type: EventStarClicked, Timestamp: time.Now(), Star: star.Name})
}

// Click makes star current, adds it to the selection and starts a spectrum
// request for it in one step, so concurrent clicks cannot interleave. It
// returns the request token, whether the star was newly selected and the
// filter in effect.
func (m *Manager) Click(star catalog.Star) (token uint64, added bool, f series.FilterState) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.setCurrent(star)
	added = m.addSelected(star)
	return m.beginSpectrum(star.Name), added, m.filter
}

// AddSelected appends star to the selection unless a star with the same
// name is already present. It reports whether the star was added.
func (m *Manager) AddSelected(star catalog.Star) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.addSelected(star)
}

func (m *Manager) addSelected(star catalog.Star) bool {
	for _, s := range m.selected {
		if s.Name == star.Name {
			return false
		}
	}
	m.selected = append(m.selected, star)
	m.addEvent(Event{Type: EventStarSelected, Timestamp: time.Now(), Star: star.Name})
	return true
}

// ClearSelected empties the selection.
func (m *Manager) ClearSelected() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.selected) == 0 {
		return
	}
	m.selected = nil
	m.addEvent(Event{Type: EventSelectionCleared, Timestamp: time.Now()})
}

// Selected returns a copy of the selection in insertion order.
func (m *Manager) Selected() []catalog.Star {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return copyStars(m.selected)
}

// BeginSpectrum starts a spectrum request for star and returns its token.
// Only the result carrying the latest token will be applied.
func (m *Manager) BeginSpectrum(star string) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.beginSpectrum(star)
}

func (m *Manager) beginSpectrum(star string) uint64 {
	m.requestSeq++
	m.spectrum.Star = star
	m.spectrum.Status = SpectrumLoading
	m.spectrum.Err = nil
	m.spectrum.Token = m.requestSeq
	return m.requestSeq
}

// ApplySpectrum stores the result of the request tagged token. Results from
// superseded requests are discarded and false is returned.
func (m *Manager) ApplySpectrum(token uint64, r *spectrum.Renderable, err error) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if token != m.requestSeq {
		return false
	}

	now := time.Now()
	if err != nil {
		m.spectrum.Status = SpectrumUnavailable
		m.spectrum.Renderable = nil
		m.spectrum.Err = err
		m.addEvent(Event{Type: EventSpectrumUnavailable, Timestamp: now, Star: m.spectrum.Star, Detail: err.Error()})
		return true
	}

	m.spectrum.Status = SpectrumReady
	m.spectrum.Renderable = r
	m.spectrum.Err = nil
	m.addEvent(Event{Type: EventSpectrumLoaded, Timestamp: now, Star: m.spectrum.Star})
	return true
}

// Spectrum returns the spectrum panel state.
func (m *Manager) Spectrum() SpectrumPanel {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.spectrum
}

// RecordExport logs a completed export.
func (m *Manager) RecordExport(n int, dest string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.addEvent(Event{Type: EventExported, Timestamp: time.Now(), Detail: pluralStars(n) + " to " + dest})
}

// addEvent adds an event to the ring buffer.
func (m *Manager) addEvent(e Event) {
	if len(m.events) < m.maxEvents {
		m.events = append(m.events, e)
	} else {
		m.events[m.eventWriteAt] = e
		m.eventWriteAt = (m.eventWriteAt + 1) % m.maxEvents
	}
}

// Snapshot represents an immutable snapshot of current state.
type Snapshot struct {
	Catalog      *catalog.Catalog
	LoadedAt     time.Time
	LoadError    error
	LoadDuration time.Duration
	Filter       series.FilterState
	Current      *catalog.Star
	Selected     []catalog.Star
	Spectrum     SpectrumPanel
	Events       []Event
}

// Snapshot returns a consistent snapshot of current state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var current *catalog.Star
	if m.current != nil {
		c := *m.current
		current = &c
	}

	return Snapshot{
		Catalog:      m.catalog,
		LoadedAt:     m.loadedAt,
		LoadError:    m.loadError,
		LoadDuration: m.loadDuration,
		Filter:       m.filter,
		Current:      current,
		Selected:     copyStars(m.selected),
		Spectrum:     m.spectrum,
		Events:       m.getEventsOrdered(),
	}
}

// getEventsOrdered returns events in chronological order.
func (m *Manager) getEventsOrdered() []Event {
	if len(m.events) == 0 {
		return nil
	}

	if len(m.events) < m.maxEvents {
		result := make([]Event, len(m.events))
		copy(result, m.events)
		return result
	}

	// Ring buffer is full, reorder from oldest to newest
	result := make([]Event, m.maxEvents)
	for i := 0; i < m.maxEvents; i++ {
		idx := (m.eventWriteAt + i) % m.maxEvents
		result[i] = m.events[idx]
	}
	return result
}

// RecentEvents returns the last n events.
func (m *Manager) RecentEvents(n int) []Event {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := m.getEventsOrdered()
	if len(all) <= n {
		return all
	}
	return all[len(all)-n:]
}

func copyStars(in []catalog.Star) []catalog.Star {
	if in == nil {
		return nil
	}
	out := make([]catalog.Star, len(in))
	copy(out, in)
	return out
}
