package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/litescript/ls-obstars/internal/app"
	"github.com/litescript/ls-obstars/internal/figure"
	"github.com/litescript/ls-obstars/internal/series"
	"github.com/litescript/ls-obstars/internal/spectrum"
	"github.com/litescript/ls-obstars/internal/state"
)

type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON encodes v before touching the response so an encoding failure
// can still be reported as a 500.
func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		status = http.StatusInternalServerError
		body, _ = json.Marshal(errorResponse{Error: "encode response: " + err.Error()})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	page, err := staticFS.ReadFile("static/index.html")
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(page)
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.ctrl.View())
}

// handleFilter replaces the toggles and re-resolves the spectrum when a
// spectrum transform changed.
func (s *Server) handleFilter(w http.ResponseWriter, r *http.Request) {
	var f series.FilterState
	if err := json.NewDecoder(r.Body).Decode(&f); err != nil {
		writeError(w, http.StatusBadRequest, "invalid filter: "+err.Error())
		return
	}
	if req, ok := s.ctrl.SetFilter(f); ok {
		s.ctrl.Resolve(r.Context(), req)
	}
	writeJSON(w, http.StatusOK, s.ctrl.View())
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	req, ok, err := s.ctrl.Reload(r.Context())
	if err != nil {
		s.log.Warn("reload: %v", err)
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	if ok {
		s.ctrl.Resolve(r.Context(), req)
	}
	writeJSON(w, http.StatusOK, s.ctrl.View())
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	n := 20
	if v := r.URL.Query().Get("n"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			writeError(w, http.StatusBadRequest, "n must be a positive integer")
			return
		}
		n = parsed
	}
	events := s.ctrl.State().RecentEvents(n)
	if events == nil {
		events = []state.Event{}
	}
	writeJSON(w, http.StatusOK, events)
}

func (s *Server) handleClick(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	err := s.ctrl.ClickAndResolve(r.Context(), name)
	switch {
	case errors.Is(err, app.ErrNoCatalog):
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	case errors.Is(err, app.ErrUnknownStar):
		writeError(w, http.StatusNotFound, err.Error())
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.ctrl.View())
}

// handleSpectrum returns one star's spectrum figure without changing the
// selection. Transform flags default to the current toggles.
func (s *Server) handleSpectrum(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	f := s.ctrl.State().Filter()
	opts := spectrum.Options{Normalize: f.Normalize, ShowContinuum: f.ShowContinuum}

	q := r.URL.Query()
	for key, dst := range map[string]*bool{"normalize": &opts.Normalize, "continuum": &opts.ShowContinuum} {
		v := q.Get(key)
		if v == "" {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, key+" must be a boolean")
			return
		}
		*dst = b
	}

	rend, err := s.ctrl.Spectrum(r.Context(), name, opts)
	switch {
	case errors.Is(err, app.ErrNoCatalog):
		writeJSON(w, http.StatusOK, figure.SpectrumPlaceholder(figure.SpectrumPrompt))
	case errors.Is(err, app.ErrUnknownStar):
		writeError(w, http.StatusNotFound, err.Error())
	case err != nil:
		writeJSON(w, http.StatusOK, figure.SpectrumPlaceholder(figure.SpectrumUnavailable))
	default:
		writeJSON(w, http.StatusOK, figure.Spectrum(rend))
	}
}

func (s *Server) handleSelectionCSV(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	_, err := s.ctrl.Export(&buf, "http download")
	if errors.Is(err, state.ErrNothingSelected) {
		writeError(w, http.StatusConflict, state.NothingSelectedNotice)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+state.CSVFilename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleClearSelection(w http.ResponseWriter, r *http.Request) {
	s.ctrl.ClearSelection()
	writeJSON(w, http.StatusOK, s.ctrl.View())
}
