package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/roomgrid/pkg/buildinfo"
	apperr "github.com/matzehuels/roomgrid/pkg/errors"
	"github.com/matzehuels/roomgrid/pkg/pipeline"
	"github.com/matzehuels/roomgrid/pkg/store"
)

// Public format names per endpoint mapped to pipeline formats.
var (
	gridFormats = map[string]string{
		"text":   pipeline.FormatText,
		"simple": pipeline.FormatSimple,
		"json":   pipeline.FormatJSON,
	}
	graphFormats = map[string]string{
		"text": pipeline.FormatTree,
		"json": pipeline.FormatJSON,
		"dot":  pipeline.FormatDOT,
		"svg":  pipeline.FormatGraphSVG,
	}
)

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": buildinfo.Version})
}

// getGrid handles GET /grid.
func (s *Server) getGrid(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req, err := s.parseRequest(q)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	format, err := formatParam(q, "text", gridFormats)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	opts, err := s.parseRenderOptions(q, format)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	opts.Logger = s.logger
	// Grid JSON is the bare grid, not the map document.
	opts.SkipRender = format == pipeline.FormatJSON
	if opts.SkipRender {
		opts.Formats = []string{pipeline.FormatText}
	}

	res, err := s.runner.Execute(r.Context(), req, opts)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	setSeed(w, res.Request)
	if format == pipeline.FormatJSON {
		respondJSON(w, http.StatusOK, res.Grid)
		return
	}
	respondArtifact(w, format, res.Artifacts[format])
}

// getGraph handles GET /graph.
func (s *Server) getGraph(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req, err := s.parseRequest(q)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	format, err := formatParam(q, "text", graphFormats)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	opts, err := s.parseRenderOptions(q, format)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	opts.Logger = s.logger
	// Graph JSON is the bare graph; the tree format forces the graph stage.
	opts.SkipRender = format == pipeline.FormatJSON
	if opts.SkipRender {
		opts.Formats = []string{pipeline.FormatTree}
	}

	res, err := s.runner.Execute(r.Context(), req, opts)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	setSeed(w, res.Request)
	if format == pipeline.FormatJSON {
		respondJSON(w, http.StatusOK, res.Graph)
		return
	}
	respondArtifact(w, format, res.Artifacts[format])
}

// createMap handles POST /maps.
func (s *Server) createMap(w http.ResponseWriter, r *http.Request) {
	req, err := s.decodeRequest(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	res, err := s.runner.Execute(r.Context(), req, pipeline.Options{
		Formats:    []string{pipeline.FormatTree},
		SkipRender: true,
		Logger:     s.logger,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	rec := store.NewRecord(res)
	if err := s.store.Save(r.Context(), &rec); err != nil {
		s.respondError(w, r, err)
		return
	}
	s.logger.Info("archived map", "id", rec.ID, "seed", rec.Seed())
	setSeed(w, rec.Request)
	w.Header().Set("Location", "/maps/"+rec.ID)
	respondJSON(w, http.StatusCreated, rec)
}

// listMaps handles GET /maps.
func (s *Server) listMaps(w http.ResponseWriter, r *http.Request) {
	limit, err := intParam(r.URL.Query(), "limit", store.DefaultListLimit)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if limit < 0 {
		s.respondError(w, r, apperr.New(apperr.ErrCodeInvalidInput, "limit must not be negative, got %d", limit))
		return
	}
	recs, err := s.store.List(r.Context(), limit)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if recs == nil {
		recs = []store.Record{}
	}
	respondJSON(w, http.StatusOK, recs)
}

// getMap handles GET /maps/{id}.
func (s *Server) getMap(w http.ResponseWriter, r *http.Request) {
	rec, err := s.lookup(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, rec)
}

// deleteMap handles DELETE /maps/{id}.
func (s *Server) deleteMap(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := store.ValidateID(id); err != nil {
		s.respondError(w, r, err)
		return
	}
	if err := s.store.Delete(r.Context(), id); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// renderMap handles GET /maps/{id}/render. Any pipeline format is accepted.
func (s *Server) renderMap(w http.ResponseWriter, r *http.Request) {
	rec, err := s.lookup(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	q := r.URL.Query()
	format := q.Get("format")
	if format == "" {
		format = pipeline.FormatText
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		s.respondError(w, r, err)
		return
	}
	opts, err := s.parseRenderOptions(q, format)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	g, err := rec.Map()
	if err != nil {
		s.respondError(w, r, apperr.Wrap(apperr.ErrCodeInternal, err, "stored map %s is corrupt", rec.ID))
		return
	}
	gr := rec.Graph
	if gr == nil && opts.NeedsGraph() {
		if gr, err = s.runner.BuildGraph(r.Context(), g, rec.Seed(), opts); err != nil {
			s.respondError(w, r, err)
			return
		}
	}
	artifacts, err := s.runner.Render(r.Context(), g, gr, rec.Seed(), opts)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	setSeed(w, rec.Request)
	respondArtifact(w, format, artifacts[format])
}

func (s *Server) lookup(r *http.Request) (*store.Record, error) {
	id := chi.URLParam(r, "id")
	if err := store.ValidateID(id); err != nil {
		return nil, err
	}
	return s.store.Get(r.Context(), id)
}

func setSeed(w http.ResponseWriter, req pipeline.Request) {
	if req.Seed != nil {
		w.Header().Set(SeedHeader, strconv.FormatUint(*req.Seed, 10))
	}
}
