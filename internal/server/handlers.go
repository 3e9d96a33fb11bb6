package server

import (
	"encoding/json"
	"errors"
	"net/http"

	lgerrors "github.com/matzehuels/liegraph/pkg/errors"
	"github.com/matzehuels/liegraph/pkg/pipeline"
	"github.com/matzehuels/liegraph/pkg/snapshot"
)

// CacheHeader reports whether a Graphviz artifact came from the cache.
const CacheHeader = "X-Liegraph-Cache"

type errorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	d := s.cfg.Defaults
	opts := pipeline.Options{
		Formats:   []string{s.defaultFormat()},
		ColorMode: d.ColorMode,
		RankDir:   d.RankDir,
		CacheTTL:  d.CacheTTL,
	}
	if v := q.Get("format"); v != "" {
		opts.Formats = []string{v}
	}
	if v := q.Get("color_mode"); v != "" {
		opts.ColorMode = v
	}
	if v := q.Get("rankdir"); v != "" {
		opts.RankDir = v
	}
	opts.Logger = s.logger.With("request_id", RequestID(r.Context()))
	if err := opts.ValidateAndSetDefaults(); err != nil {
		s.fail(w, r, err)
		return
	}

	body := http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	snap, err := snapshot.Decode(body, snapshot.FormatFromContentType(r.Header.Get("Content-Type")))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, r, http.StatusRequestEntityTooLarge, string(lgerrors.ErrCodeInvalidSnapshot),
				"snapshot exceeds the request size limit")
			return
		}
		s.fail(w, r, err)
		return
	}

	result, err := s.runner.Execute(r.Context(), snap, opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	format := opts.Formats[0]
	w.Header().Set("Content-Type", pipeline.ContentTypes[format])
	if isGraphviz(format) {
		if result.CacheInfo.RenderHit() {
			w.Header().Set(CacheHeader, "hit")
		} else {
			w.Header().Set(CacheHeader, "miss")
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Artifacts[format])
}

func (s *Server) defaultFormat() string {
	if len(s.cfg.Defaults.Formats) > 0 {
		return s.cfg.Defaults.Formats[0]
	}
	return pipeline.FormatDOT
}

// fail maps a pipeline error onto a status code: inconsistent snapshots are
// 422, unreadable requests 400, everything else 500.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	code := lgerrors.GetCode(err)
	if code == "" {
		code = lgerrors.ErrCodeInternal
	}
	msg := lgerrors.UserMessage(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("render failed", "request_id", RequestID(r.Context()), "error", err)
		msg = "internal server error"
	} else {
		s.logger.Debug("render rejected", "request_id", RequestID(r.Context()), "error", err)
	}
	writeError(w, r, status, string(code), msg)
}

// StatusFor returns the HTTP status for a pipeline error.
func StatusFor(err error) int {
	switch {
	case lgerrors.IsViolation(err):
		return http.StatusUnprocessableEntity
	case lgerrors.Is(err, lgerrors.ErrCodeInvalidSnapshot),
		lgerrors.Is(err, lgerrors.ErrCodeInvalidFormat):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorResponse{
		Code:      code,
		Message:   msg,
		RequestID: RequestID(r.Context()),
	})
}

func isGraphviz(format string) bool {
	return format == pipeline.FormatSVG || format == pipeline.FormatPNG
}
