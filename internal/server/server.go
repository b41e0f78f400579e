// Package server implements the nodewire HTTP API using chi.
//
// Every handler works on a fresh in-memory graph, so requests never
// share mutable state; the document store is the only cross-request
// surface and its backends synchronize internally.
package server

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"github.com/nodewire/nodewire/pkg/cache"
	"github.com/nodewire/nodewire/pkg/store"
)

// Server holds the API dependencies.
type Server struct {
	store    store.Store
	cache    cache.Cache
	logger   *log.Logger
	maxItems int
}

// Option configures a Server.
type Option func(*Server)

// WithMaxReportItems caps how many warnings per category appear in
// rebuild summaries returned by the API.
func WithMaxReportItems(n int) Option {
	return func(s *Server) { s.maxItems = n }
}

// WithRenderCache memoizes rendered SVG artifacts keyed by document
// digest.
func WithRenderCache(c cache.Cache) Option {
	return func(s *Server) { s.cache = c }
}

// New creates a Server backed by st. A nil logger discards output.
func New(st store.Store, logger *log.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	s := &Server{
		store:    st,
		cache:    cache.NewNullCache(),
		logger:   logger,
		maxItems: 5,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router mounts all API routes.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(requestLogger(s.logger))

	r.Get("/health/live", s.handleHealthLive)
	r.Get("/health/ready", s.handleHealthReady)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/validate", s.handleValidate)
		r.Post("/normalize", s.handleNormalize)
		r.Post("/describe", s.handleDescribe)
		r.Post("/import", s.handleImport)
		r.Post("/render", s.handleRender)

		r.Route("/documents", func(r chi.Router) {
			r.Get("/", s.handleListDocuments)
			r.Get("/{key}", s.handleGetDocument)
			r.Put("/{key}", s.handlePutDocument)
			r.Delete("/{key}", s.handleDeleteDocument)
		})
	})

	return r
}
