package server

import (
	"encoding/json"
	"net/http"

	apperr "github.com/matzehuels/roomgrid/pkg/errors"
	"github.com/matzehuels/roomgrid/pkg/observability"
	"github.com/matzehuels/roomgrid/pkg/pipeline"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

var contentTypes = map[string]string{
	pipeline.FormatText:     "text/plain; charset=utf-8",
	pipeline.FormatSimple:   "text/plain; charset=utf-8",
	pipeline.FormatTree:     "text/plain; charset=utf-8",
	pipeline.FormatJSON:     "application/json",
	pipeline.FormatDOT:      "text/vnd.graphviz; charset=utf-8",
	pipeline.FormatSVG:      "image/svg+xml",
	pipeline.FormatGraphSVG: "image/svg+xml",
	pipeline.FormatPDF:      "application/pdf",
	pipeline.FormatPNG:      "image/png",
}

// statusFor maps an error code to an HTTP status.
func statusFor(err error) int {
	switch {
	case apperr.IsInvalid(err):
		return http.StatusBadRequest
	case apperr.IsGeneration(err):
		return http.StatusUnprocessableEntity
	case apperr.Is(err, apperr.ErrCodeNotFound):
		return http.StatusNotFound
	case apperr.Is(err, apperr.ErrCodeUnsupported):
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func respondArtifact(w http.ResponseWriter, format string, data []byte) {
	ct, ok := contentTypes[format]
	if !ok {
		ct = "application/octet-stream"
	}
	w.Header().Set("Content-Type", ct)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	s.respondErrorStatus(w, r, statusFor(err), err)
}

func (s *Server) respondErrorStatus(w http.ResponseWriter, r *http.Request, status int, err error) {
	code := apperr.GetCode(err)
	if code == "" {
		code = apperr.ErrCodeInternal
	}
	msg := apperr.UserMessage(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	} else {
		s.logger.Debug("request rejected", "method", r.Method, "path", r.URL.Path, "code", code, "err", err)
	}
	observability.HTTP().OnError(r.Context(), r.Method, r.URL.Path, string(code), err)
	respondJSON(w, status, errorBody{Code: string(code), Message: msg})
}

func errRouteNotFound(r *http.Request) error {
	return apperr.New(apperr.ErrCodeNotFound, "no route for %s %s", r.Method, r.URL.Path)
}

func errMethodNotAllowed(r *http.Request) error {
	return apperr.New(apperr.ErrCodeUnsupported, "method %s not allowed on %s", r.Method, r.URL.Path)
}
