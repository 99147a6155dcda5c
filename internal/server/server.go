package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/leadgen/lead-extractor-service/internal/config"
	"github.com/leadgen/lead-extractor-service/internal/export"
	"github.com/leadgen/lead-extractor-service/internal/models"
	"github.com/leadgen/lead-extractor-service/internal/storage"
)

// LeadIngestor runs a batch ingestion for the given search filters
type LeadIngestor interface {
	IngestBatch(ctx context.Context, filters models.SearchFilters) ([]models.Lead, error)
}

// Options carries the server dependencies
type Options struct {
	Config   config.ServerConfig
	Login    config.LoginConfig
	Storage  storage.Storage
	Ingestor LeadIngestor
	Archiver export.Archiver // optional
	Logger   *logrus.Logger
}

// Server handles HTTP requests
type Server struct {
	config   config.ServerConfig
	login    config.LoginConfig
	storage  storage.Storage
	ingestor LeadIngestor
	archiver export.Archiver
	logger   *logrus.Entry
	router   chi.Router
	server   *http.Server
}

// NewServer creates a new HTTP server
func NewServer(opts Options) *Server {
	s := &Server{
		config:   opts.Config,
		login:    opts.Login,
		storage:  opts.Storage,
		ingestor: opts.Ingestor,
		archiver: opts.Archiver,
		logger:   opts.Logger.WithField("component", "server"),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.requestLogger)
	r.Use(s.recoverer)

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/status", s.handleStatus)

		r.Route("/leads", func(r chi.Router) {
			r.Get("/", s.handleListLeads)
			r.Post("/", s.handleCreateLead)
			r.Delete("/", s.handleClearLeads)
			r.Post("/batch", s.handleBatchLeads)
		})

		r.Post("/export/csv", s.handleExportCSV)
		r.Post("/export/excel", s.handleExportExcel)

		r.Route("/extractions", func(r chi.Router) {
			r.Get("/", s.handleListExtractions)
			r.Post("/", s.handleCreateExtraction)
			r.Patch("/{id}", s.handleUpdateExtraction)
		})

		r.Get("/settings", s.handleGetSettings)
		r.Patch("/settings", s.handleUpdateSettings)

		r.Get("/login/credentials", s.handleLoginRedirect)
		r.Post("/login/credentials", s.handleLoginCredentials)
		r.Post("/login/cookies", s.handleLoginCookies)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, http.StatusNotFound, "Not Found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	s.router = r
	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", opts.Config.Port),
		Handler:      r,
		ReadTimeout:  opts.Config.ReadTimeout,
		WriteTimeout: opts.Config.WriteTimeout,
	}

	return s
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the HTTP server. It returns nil after a graceful shutdown.
func (s *Server) Start() error {
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// handleStatus reports the outcome of the last batch ingestion
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	status, err := s.storage.GetIngestionStatus(r.Context())
	if err != nil {
		s.internalError(w, r, "Failed to retrieve status", err)
		return
	}

	writeJSON(w, http.StatusOK, status)
}

// requestLogger logs every /api request once it has been served
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		if !strings.HasPrefix(r.URL.Path, "/api") {
			return
		}
		s.logger.WithFields(logrus.Fields{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      ww.Status(),
			"duration_ms": time.Since(start).Milliseconds(),
			"request_id":  middleware.GetReqID(r.Context()),
		}).Info("Request served")
	})
}

// recoverer turns a handler panic into a JSON 500 and logs the stack
func (s *Server) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			s.logger.WithFields(logrus.Fields{
				"panic":      rec,
				"path":       r.URL.Path,
				"request_id": middleware.GetReqID(r.Context()),
				"stack":      string(debug.Stack()),
			}).Error("Handler panicked")
			writeMessage(w, http.StatusInternalServerError, "Internal Server Error")
		}()

		next.ServeHTTP(w, r)
	})
}
