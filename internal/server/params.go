package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/matzehuels/roomgrid/pkg/cellgen"
	apperr "github.com/matzehuels/roomgrid/pkg/errors"
	"github.com/matzehuels/roomgrid/pkg/pipeline"
)

const maxBodyBytes = 1 << 20

// parseRequest builds a generation request from query parameters, falling
// back to the server defaults for omitted ones.
func (s *Server) parseRequest(q url.Values) (pipeline.Request, error) {
	req := s.defaults
	var err error
	if req.Width, err = intParam(q, "width", req.Width); err != nil {
		return req, err
	}
	if req.Height, err = intParam(q, "height", req.Height); err != nil {
		return req, err
	}
	if req.RoomCount, err = intParam(q, "roomCount", req.RoomCount); err != nil {
		return req, err
	}
	if v := q.Get("seed"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return req, apperr.New(apperr.ErrCodeInvalidInput, "seed must be a non-negative integer, got %q", v)
		}
		req.Seed = &seed
	}
	if q.Has("pickMethod") {
		if req.PickMethod, err = cellgen.ParsePickMethod(q.Get("pickMethod")); err != nil {
			return req, err
		}
	}
	if q.Has("method") {
		if req.Method, err = cellgen.ParseMethod(q.Get("method")); err != nil {
			return req, err
		}
	}
	return req, s.checkRequest(req)
}

// decodeRequest reads a JSON request body over the server defaults. An
// empty body yields the defaults.
func (s *Server) decodeRequest(r *http.Request) (pipeline.Request, error) {
	req := s.defaults
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		if apperr.GetCode(err) != "" {
			return req, err
		}
		return req, apperr.Wrap(apperr.ErrCodeInvalidInput, err, "invalid request body: %v", err)
	}
	return req, s.checkRequest(req)
}

func (s *Server) checkRequest(req pipeline.Request) error {
	if err := req.Validate(); err != nil {
		return err
	}
	if req.Cells() > s.maxCells {
		return apperr.New(apperr.ErrCodeInvalidInput,
			"grid of %dx%d has %d cells, the server allows at most %d", req.Width, req.Height, req.Cells(), s.maxCells)
	}
	return nil
}

// parseRenderOptions reads the text and graph render parameters.
func (s *Server) parseRenderOptions(q url.Values, format string) (pipeline.Options, error) {
	opts := pipeline.Options{Formats: []string{format}}
	padding := s.padding
	if q.Has("padding") {
		padding = q.Get("padding")
	}
	opts.Padding = &padding

	var err error
	if opts.Color, err = boolParam(q, "color"); err != nil {
		return opts, err
	}
	if opts.MapOnly, err = boolParam(q, "mapOnly"); err != nil {
		return opts, err
	}
	if opts.Detailed, err = boolParam(q, "detailed"); err != nil {
		return opts, err
	}
	if opts.Adjacency, err = boolParam(q, "adjacency"); err != nil {
		return opts, err
	}
	if opts.Labels, err = boolParam(q, "labels"); err != nil {
		return opts, err
	}
	return opts, opts.Validate()
}

func intParam(q url.Values, name string, def int) (int, error) {
	v := q.Get(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, apperr.New(apperr.ErrCodeInvalidInput, "%s must be an integer, got %q", name, v)
	}
	return n, nil
}

func boolParam(q url.Values, name string) (bool, error) {
	v := q.Get(name)
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, apperr.New(apperr.ErrCodeInvalidInput, "%s must be a boolean, got %q", name, v)
	}
	return b, nil
}

// formatParam returns the format query parameter translated through
// allowed, or def when it is omitted.
func formatParam(q url.Values, def string, allowed map[string]string) (string, error) {
	v := q.Get("format")
	if v == "" {
		v = def
	}
	f, ok := allowed[v]
	if !ok {
		return "", apperr.New(apperr.ErrCodeInvalidFormat, "unsupported format %q", v)
	}
	return f, nil
}
