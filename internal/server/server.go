// Package server exposes the conversion pipeline over HTTP.
//
// Routes:
//
//	POST /v1/render?format=svg|json&scale=0.2&grid=true&shadow=false&routes=true
//	GET  /healthz
//
// The health response carries the build stamp and, with [WithCounters],
// conversion and cache tallies.
//
// The render endpoint takes a network document as the request body and
// returns the rendering. Errors are JSON objects carrying the error code.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/fbnet/pkg/buildinfo"
	fberrors "github.com/matzehuels/fbnet/pkg/errors"
	"github.com/matzehuels/fbnet/pkg/fonts"
	"github.com/matzehuels/fbnet/pkg/observability"
	"github.com/matzehuels/fbnet/pkg/pipeline"
	"github.com/matzehuels/fbnet/pkg/render/network/layout"
	"github.com/matzehuels/fbnet/pkg/typelib"
)

// DefaultMaxBody bounds the size of a posted document.
const DefaultMaxBody = 8 << 20

// Server renders posted networks. Create one with [New].
type Server struct {
	runner   *pipeline.Runner
	logger   *log.Logger
	library  *typelib.Library
	settings *layout.Settings
	measurer fonts.Measurer
	counters *observability.Counters
	maxBody  int64
}

// Option configures a [Server].
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l *log.Logger) Option { return func(s *Server) { s.logger = l } }

// WithLibrary sets the type library shared by every request. It must be
// indexed before the server starts handling requests.
func WithLibrary(lib *typelib.Library) Option { return func(s *Server) { s.library = lib } }

// WithSettings sets the block size settings applied to every rendering.
func WithSettings(settings layout.Settings) Option {
	return func(s *Server) { s.settings = &settings }
}

// WithMeasurer sets the text measurer. Without one the embedded fonts are used.
func WithMeasurer(m fonts.Measurer) Option { return func(s *Server) { s.measurer = m } }

// WithCounters reports c in the health response. Register c with
// [observability.Use] for it to see events.
func WithCounters(c *observability.Counters) Option { return func(s *Server) { s.counters = c } }

// WithMaxBody sets the largest accepted request body in bytes.
func WithMaxBody(n int64) Option { return func(s *Server) { s.maxBody = n } }

// New creates a server running conversions on runner.
func New(runner *pipeline.Runner, opts ...Option) *Server {
	s := &Server{runner: runner, maxBody: DefaultMaxBody}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}
	if s.measurer == nil {
		// Parsing the embedded fonts once serves every request.
		if m, err := fonts.Default(); err == nil {
			s.measurer = m
		} else {
			s.measurer = fonts.Estimator{}
		}
	}
	return s
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestID)
	r.Use(s.observe)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/render", s.handleRender)
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then drains
// in-flight requests for up to shutdownTimeout.
func (s *Server) ListenAndServe(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down", "timeout", shutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

// =============================================================================
// Handlers
// =============================================================================

type healthResponse struct {
	Status string                  `json:"status"`
	Build  buildinfo.Info          `json:"build"`
	Stats  *observability.Snapshot `json:"stats,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok", Build: buildinfo.Current()}
	if s.counters != nil {
		snap := s.counters.Snapshot()
		resp.Stats = &snap
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	opts, err := s.renderOptions(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, r, fberrors.Wrap(fberrors.ErrCodeInvalidInput, err, "document exceeds %d bytes", s.maxBody))
			return
		}
		s.writeError(w, r, fberrors.Wrap(fberrors.ErrCodeInvalidInput, err, "read request body"))
		return
	}
	if len(body) == 0 {
		s.writeError(w, r, fberrors.New(fberrors.ErrCodeInvalidInput, "request body is empty"))
		return
	}
	opts.Input = body
	opts.Logger = s.logger.With("request_id", RequestID(r.Context()))

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	format := opts.Formats[0]
	w.Header().Set("Content-Type", contentType(format))
	w.Header().Set("X-Job-ID", result.JobID.String())
	if result.CacheInfo.RenderHit {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Artifacts[format])
}

// renderOptions builds pipeline options from the query string.
func (s *Server) renderOptions(r *http.Request) (pipeline.Options, error) {
	q := r.URL.Query()
	opts := pipeline.Options{
		Formats:  []string{pipeline.DefaultFormat},
		Settings: s.settings,
		Library:  s.library,
		Measurer: s.measurer,
	}
	if f := q.Get("format"); f != "" {
		opts.Formats = []string{f}
	}
	if v := q.Get("scale"); v != "" {
		scale, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return opts, fberrors.Wrap(fberrors.ErrCodeInvalidScale, err, "scale %q is not a number", v)
		}
		opts.Scale = scale
	}

	var err error
	if opts.Grid, err = boolParam(q.Get("grid"), "grid", false); err != nil {
		return opts, err
	}
	shadow, err := boolParam(q.Get("shadow"), "shadow", true)
	if err != nil {
		return opts, err
	}
	opts.NoShadow = !shadow
	if opts.Routes, err = boolParam(q.Get("routes"), "routes", false); err != nil {
		return opts, err
	}
	return opts, nil
}

func boolParam(v, name string, def bool) (bool, error) {
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def, fberrors.Wrap(fberrors.ErrCodeInvalidInput, err, "%s must be a boolean", name)
	}
	return b, nil
}

func contentType(format string) string {
	if format == pipeline.FormatJSON {
		return "application/json"
	}
	return "image/svg+xml"
}

// =============================================================================
// Responses
// =============================================================================

type errorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := fberrors.HTTPStatus(err)
	code := fberrors.GetCode(err)
	if code == "" {
		code = fberrors.ErrCodeInternal
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("render failed", "request_id", RequestID(r.Context()), "err", err)
	} else {
		s.logger.Debug("render rejected", "request_id", RequestID(r.Context()), "code", code, "err", err)
	}
	writeJSON(w, status, errorResponse{
		Error:     string(code),
		Message:   fberrors.UserMessage(err),
		RequestID: RequestID(r.Context()),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
