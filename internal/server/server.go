// Package server exposes trending searches over HTTP
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"

	"github.com/rohankatakam/startrend/internal/models"
)

// SearchService runs one trending search
type SearchService interface {
	Search(ctx context.Context, req models.SearchRequest) (*models.SearchResponse, error)
}

// Options configures a Server
type Options struct {
	Addr           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	AllowedOrigins []string
	Logger         *logrus.Logger
}

// Server is chi routing on top of a stdlib http.Server
type Server struct {
	addr   string
	mux    *chi.Mux
	srv    *http.Server
	logger *logrus.Logger
}

// New creates a Server with routes mounted
func New(svc SearchService, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	if opts.Addr == "" {
		opts.Addr = ":8080"
	}

	m := chi.NewRouter()
	m.Use(chimw.RealIP, chimw.RequestID, requestLogger(opts.Logger), chimw.Recoverer)
	if len(opts.AllowedOrigins) > 0 {
		m.Use(cors.Handler(cors.Options{
			AllowedOrigins: opts.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "X-Request-ID"},
			MaxAge:         300,
		}))
	}
	m.Use(chimw.Heartbeat("/healthz"))

	h := &handlers{svc: svc, logger: opts.Logger}
	m.Route("/api", func(r chi.Router) {
		r.Get("/search", h.search)
		r.Get("/languages", h.languages)
	})

	return &Server{
		addr:   opts.Addr,
		mux:    m,
		logger: opts.Logger,
		srv: &http.Server{
			Addr:              opts.Addr,
			Handler:           m,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       opts.ReadTimeout,
			WriteTimeout:      opts.WriteTimeout,
		},
	}
}

// Handler returns the routed mux
func (s *Server) Handler() http.Handler { return s.mux }

// Addr returns the listening address
func (s *Server) Addr() string { return s.addr }

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.WithField("addr", s.addr).Info("http listening")
		errCh <- s.srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		s.logger.Info("http shutting down")
		return s.srv.Shutdown(shutdownCtx)
	}
}

// requestLogger logs one line per request through logrus
func requestLogger(logger *logrus.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.WithFields(logrus.Fields{
				"method":     r.Method,
				"path":       r.URL.Path,
				"status":     ww.Status(),
				"bytes":      ww.BytesWritten(),
				"duration":   time.Since(start).String(),
				"request_id": chimw.GetReqID(r.Context()),
			}).Info("http request")
		})
	}
}
