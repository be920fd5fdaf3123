// Package server exposes the extraction pipeline, the chatbot responder and
// the lead store over HTTP. Handlers are thin: they validate input, call
// into the domain packages and shape JSON.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"leadscout/worker/config"
	"leadscout/worker/internal/extractor"
	"leadscout/worker/internal/leads"
	"leadscout/worker/internal/validator"
	"leadscout/worker/logger"
	"leadscout/worker/services/metrics"
	"leadscout/worker/services/publisher"
)

type contextKey string

const tenantContextKey contextKey = "tenant"

// Tenant identifies the API key a request authenticated with.
type Tenant struct {
	Key  string
	Data config.APIKeyData
}

// Server is the HTTP front of the worker.
type Server struct {
	cfg        config.Config
	pipeline   *extractor.Pipeline
	validator  *validator.Validator
	registry   *leads.Registry
	metricsSvc *metrics.Service
	publisher  publisher.Publisher
	log        *logger.Logger
	httpServer *http.Server
}

// New wires a server from the shared services.
func New(cfg config.Config, pipeline *extractor.Pipeline, registry *leads.Registry,
	metricsSvc *metrics.Service, pub publisher.Publisher) *Server {
	s := &Server{
		cfg:        cfg,
		pipeline:   pipeline,
		validator:  validator.New(),
		registry:   registry,
		metricsSvc: metricsSvc,
		publisher:  pub,
		log:        logger.ForServer(),
	}
	s.httpServer = &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler builds the route table. Exposed separately so tests can drive the
// server through httptest without binding a port.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)

	mux.Handle("POST /api/extract", s.requireAPIKey(s.handleExtract))
	mux.Handle("POST /api/extract-enhanced", s.requireAPIKey(s.handleExtractEnhanced))
	mux.Handle("POST /api/chat", s.requireAPIKey(s.handleChat))
	mux.Handle("POST /api/capture-lead", s.requireAPIKey(s.handleCaptureLead))

	mux.Handle("GET /admin/leads", s.requireAPIKey(s.handleListLeads))
	mux.Handle("GET /admin/leads/{id}", s.requireAPIKey(s.handleGetLead))
	mux.Handle("GET /admin/backups", s.requireAPIKey(s.handleListBackups))
	mux.Handle("POST /admin/backups", s.requireAPIKey(s.handleCreateBackup))
	mux.Handle("POST /admin/backups/restore", s.requireAPIKey(s.handleRestoreBackup))

	return s.withMetrics(mux)
}

// Start blocks serving HTTP until Shutdown or a listener error.
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.httpServer.Addr).Msg("HTTP server listening")
	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// statusRecorder captures the response status for metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) withMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		s.metricsSvc.RequestStarted()

		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)

		s.metricsSvc.RequestFinished(time.Since(start), recorder.status >= http.StatusInternalServerError)
	})
}

// requireAPIKey authenticates a request against the configured tenant keys.
// The key comes from X-API-Key or an Authorization bearer token.
func (s *Server) requireAPIKey(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get("X-API-Key")
		if key == "" {
			auth := r.Header.Get("Authorization")
			if strings.HasPrefix(auth, "Bearer ") {
				key = strings.TrimPrefix(auth, "Bearer ")
			}
		}

		data, ok := s.cfg.APIKeys[key]
		if key == "" || !ok {
			s.writeError(w, http.StatusUnauthorized, "API key inválida ou ausente")
			return
		}
		if data.Active != nil && !*data.Active {
			s.writeError(w, http.StatusUnauthorized, "API key desativada")
			return
		}

		ctx := context.WithValue(r.Context(), tenantContextKey, Tenant{Key: key, Data: data})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func tenantFrom(r *http.Request) Tenant {
	tenant, _ := r.Context().Value(tenantContextKey).(Tenant)
	return tenant
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]any{
		"success": false,
		"error":   message,
	})
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.writeError(w, http.StatusBadRequest, "corpo da requisição inválido")
		return false
	}
	return true
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"services": map[string]any{
			"headlessRender": s.pipeline.HeadlessAvailable(),
			"events":         s.cfg.EventsEnabled,
			"cacheBackend":   s.cfg.CacheBackend,
		},
		"metrics": s.metricsSvc.Snapshot(),
	})
}
