// Package server exposes the render pipeline over HTTP.
//
// Routes:
//
//	GET  /healthz                        liveness and build info
//	GET  /v1/templates                   template catalog
//	GET  /v1/templates/{id}              one template with its resolved style
//	GET  /v1/elements                    content element registry
//	GET  /v1/density                     scale factors for ?count=&strategy=&preset=
//	POST /v1/render                      render pipeline.Options
//	GET  /v1/documents/{owner}/{template} load a saved document
//	PUT  /v1/documents/{owner}/{template} save a document
//	POST /v1/uploads                     store a logo or background image
//	GET  /metrics                        Prometheus metrics, when enabled
//
// Errors are JSON objects {"error": {"code": ..., "message": ...}} with the
// HTTP status derived from the error code.
package server

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/storyboard/pkg/observability/prom"
	"github.com/matzehuels/storyboard/pkg/pipeline"
	"github.com/matzehuels/storyboard/pkg/upload"
)

const (
	// MaxBodySize caps JSON request bodies.
	MaxBodySize = 4 << 20

	// MaxUploadSize caps multipart image uploads.
	MaxUploadSize = 16 << 20

	requestTimeout  = 60 * time.Second
	shutdownTimeout = 10 * time.Second
)

// Options configures a Server.
type Options struct {
	// Runner renders stories. Its Store serves the document routes; a nil
	// Store disables them.
	Runner *pipeline.Runner

	// Uploader stores images posted to /v1/uploads. Nil disables the route.
	Uploader upload.Uploader

	// Metrics, when set, is served on /metrics and records request metrics.
	Metrics *prom.Metrics

	Logger *log.Logger
}

// Server is the storyboard HTTP API.
type Server struct {
	runner   *pipeline.Runner
	uploader upload.Uploader
	metrics  *prom.Metrics
	logger   *log.Logger
	router   chi.Router
}

// New builds the server and its routes.
func New(opts Options) *Server {
	if opts.Runner == nil {
		opts.Runner = pipeline.NewRunner(nil, nil, nil, opts.Logger)
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	s := &Server{
		runner:   opts.Runner,
		uploader: opts.Uploader,
		metrics:  opts.Metrics,
		logger:   opts.Logger,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))

	r.Get("/healthz", s.handleHealth)
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics.Handler())
	}

	r.Route("/v1", func(r chi.Router) {
		r.Get("/templates", s.handleTemplates)
		r.Get("/templates/{id}", s.handleTemplate)
		r.Get("/elements", s.handleElements)
		r.Get("/density", s.handleDensity)
		r.Post("/render", s.handleRender)
		r.Get("/documents/{owner}/{template}", s.handleGetDocument)
		r.Put("/documents/{owner}/{template}", s.handlePutDocument)
		r.Post("/uploads", s.handleUpload)
	})
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      requestTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.logger.Info("server stopped")
	return nil
}

// observe logs every request and records it in the metrics. The route label
// is the chi pattern, so path parameters do not explode cardinality.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		dur := time.Since(start)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		if s.metrics != nil {
			s.metrics.ObserveRequest(route, status, dur)
		}
		s.logger.Debug("request",
			"method", r.Method,
			"route", route,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", dur,
			"request_id", middleware.GetReqID(r.Context()))
	})
}
