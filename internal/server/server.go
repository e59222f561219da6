// Package server provides the Gizbox dev inspector: an HTTP API and a
// WebSocket stream over the scanner, fed by a source watcher.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/gizbox-lang/gizbox/gizbox"
	"github.com/gizbox-lang/gizbox/internal/config"
)

// maxSourceBytes bounds POST /api/scan bodies.
const maxSourceBytes = 1 << 20

// Server is the dev inspector server.
type Server struct {
	config  *config.Config
	scanner *gizbox.Scanner
	router  *chi.Mux
	hub     *Hub
	logger  *slog.Logger
	watcher *SourceWatcher

	// Latest scan of each watched file
	files   map[string]*gizbox.ScanResult
	filesMu sync.RWMutex
}

// New creates a new Server. A nil logger selects a JSON logger on stdout at
// the configured level.
func New(cfg *config.Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = config.LogConfig{Level: cfg.Log.Level, Format: "json"}.NewLogger(os.Stdout)
	}

	s := &Server{
		config:  cfg,
		scanner: gizbox.NewScanner(cfg.TypeNames()),
		router:  chi.NewRouter(),
		logger:  logger,
		files:   make(map[string]*gizbox.ScanResult),
	}
	s.hub = NewHub(s.scanner.Scan, logger)

	s.setupRoutes()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupRoutes() {
	r := s.router

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	// CORS
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, X-Request-ID")
			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}
			next.ServeHTTP(w, r)
		})
	})

	// Health check
	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.With(middleware.Timeout(30*time.Second)).Post("/scan", s.handleScan)
		r.Get("/types", s.handleGetTypes)
		r.Put("/types", s.handlePutTypes)
		r.Get("/tokens", s.handleTokenNames)
		r.Get("/files", s.handleFiles)
		r.Get("/file", s.handleFile)
	})

	// WebSocket
	r.Get("/ws", s.handleWebSocket)
}

// requestLogger logs each request through slog.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("http.request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	go s.hub.Run()
	defer s.hub.Stop()

	s.ScanAll()
	s.startWatcher()
	defer s.Close()

	srv := &http.Server{
		Addr:    s.config.Server.Addr,
		Handler: s.router,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting inspector", "addr", srv.Addr, "version", gizbox.Version)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down inspector")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}

// Close stops the source watcher.
func (s *Server) Close() error {
	if s.watcher != nil {
		s.watcher.Stop()
	}
	return nil
}

// ScanAll scans every source file under the watched paths.
func (s *Server) ScanAll() {
	for _, root := range s.config.Watch.Paths {
		err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != root && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if s.config.HasSourceExt(path) {
				s.rescan(path)
			}
			return nil
		})
		if err != nil {
			s.logger.Warn("failed to scan sources", "root", root, "error", err)
		}
	}
}

// rescan scans path and publishes the result. A file that no longer exists
// is forgotten.
func (s *Server) rescan(path string) {
	path = filepath.Clean(path)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		s.filesMu.Lock()
		delete(s.files, path)
		s.filesMu.Unlock()
		s.logger.Info("source removed", "file", path)
		s.hub.BroadcastToAll("removed", map[string]string{"file": path})
		return
	}

	result := s.scanner.ScanFile(path)

	s.filesMu.Lock()
	s.files[path] = result
	s.filesMu.Unlock()

	if result.HasErrors {
		s.logger.Warn("scan failed", "file", path, "diagnostic", result.Diagnostics[0].String())
	} else {
		s.logger.Info("scanned", "file", path, "tokens", len(result.Tokens))
	}
	s.hub.PublishResult(result)
}

// startWatcher starts the source watcher.
func (s *Server) startWatcher() {
	delay := time.Duration(s.config.Watch.DebounceMS) * time.Millisecond
	s.watcher = NewSourceWatcher(s.config.Watch.Paths, s.config.HasSourceExt, s.rescan, delay, s.logger)
	if err := s.watcher.Start(); err != nil {
		s.logger.Warn("failed to start source watcher", "error", err)
		s.watcher = nil
	}
}

// Response types

// APIResponse is the standard API response.
type APIResponse struct {
	Status   string       `json:"status"`
	Data     interface{}  `json:"data,omitempty"`
	Messages []APIMessage `json:"messages,omitempty"`
}

// APIMessage represents an error/info message.
type APIMessage struct {
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
}

func (s *Server) respond(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(APIResponse{
		Status: "ok",
		Data:   data,
	})
}

func (s *Server) respondError(w http.ResponseWriter, status int, data interface{}, messages ...APIMessage) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(APIResponse{
		Status:   "error",
		Data:     data,
		Messages: messages,
	})
}

// Handlers

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respond(w, http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"version": gizbox.Version,
		"clients": s.hub.ClientCount(),
	})
}

// ScanRequest is the body of POST /api/scan.
type ScanRequest struct {
	Filename  string   `json:"filename"`
	Source    string   `json:"source"`
	TypeNames []string `json:"type_names"`
}

func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	var req ScanRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxSourceBytes)).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, nil, APIMessage{Code: "bad_request", Message: "invalid request body"})
		return
	}

	var result *gizbox.ScanResult
	if req.TypeNames != nil {
		// Per-request type names do not touch the shared set.
		result = gizbox.NewScanner(req.TypeNames).Scan(req.Filename, req.Source)
	} else {
		result = s.scanner.Scan(req.Filename, req.Source)
	}

	if result.HasErrors {
		messages := make([]APIMessage, 0, len(result.Diagnostics))
		for _, d := range result.Diagnostics {
			messages = append(messages, APIMessage{Code: d.Code, Message: d.String()})
		}
		s.respondError(w, http.StatusUnprocessableEntity, result, messages...)
		return
	}
	s.respond(w, http.StatusOK, result)
}

func (s *Server) handleGetTypes(w http.ResponseWriter, r *http.Request) {
	s.respond(w, http.StatusOK, s.scanner.TypeNames())
}

func (s *Server) handlePutTypes(w http.ResponseWriter, r *http.Request) {
	var names []string
	if err := json.NewDecoder(r.Body).Decode(&names); err != nil {
		s.respondError(w, http.StatusBadRequest, nil, APIMessage{Code: "bad_request", Message: "expected a JSON array of names"})
		return
	}

	s.scanner.SetTypeNames(names)
	s.logger.Info("type names replaced", "count", len(names))

	// Classification changed; refresh every known file.
	for _, path := range s.knownFiles() {
		s.rescan(path)
	}
	s.respond(w, http.StatusOK, s.scanner.TypeNames())
}

func (s *Server) handleTokenNames(w http.ResponseWriter, r *http.Request) {
	s.respond(w, http.StatusOK, gizbox.TokenNames())
}

// FileSummary describes the latest scan of one watched file.
type FileSummary struct {
	File      string `json:"file"`
	Tokens    int    `json:"tokens"`
	HasErrors bool   `json:"has_errors"`
}

func (s *Server) handleFiles(w http.ResponseWriter, r *http.Request) {
	s.filesMu.RLock()
	summaries := make([]FileSummary, 0, len(s.files))
	for path, result := range s.files {
		summaries = append(summaries, FileSummary{File: path, Tokens: len(result.Tokens), HasErrors: result.HasErrors})
	}
	s.filesMu.RUnlock()

	sort.Slice(summaries, func(i, j int) bool { return summaries[i].File < summaries[j].File })
	s.respond(w, http.StatusOK, summaries)
}

func (s *Server) handleFile(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		s.respondError(w, http.StatusBadRequest, nil, APIMessage{Code: "bad_request", Message: "missing path parameter"})
		return
	}
	path = filepath.Clean(path)

	s.filesMu.RLock()
	result, ok := s.files[path]
	s.filesMu.RUnlock()

	if !ok {
		s.respondError(w, http.StatusNotFound, nil, APIMessage{Code: "not_found", Message: "file not watched: " + path})
		return
	}
	s.respond(w, http.StatusOK, result)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	ServeWs(s.hub, w, r)
}

func (s *Server) knownFiles() []string {
	s.filesMu.RLock()
	defer s.filesMu.RUnlock()

	paths := make([]string, 0, len(s.files))
	for path := range s.files {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}
