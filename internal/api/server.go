package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/kumarlokesh/anu-converter/internal/mapping"
	"github.com/kumarlokesh/anu-converter/internal/storage"
	"github.com/kumarlokesh/anu-converter/internal/tables"
)

// DefaultMaxBodyBytes bounds request bodies when no limit is configured.
const DefaultMaxBodyBytes = 4 << 20

// Server represents the HTTP API server
type Server struct {
	registry *tables.Registry
	store    storage.Store
	logger   zerolog.Logger
	server   *http.Server
	addr     string
	maxBody  int64
}

// Option configures a Server.
type Option func(*Server)

// WithMaxBodyBytes limits the size of request bodies.
func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxBody = n
		}
	}
}

// NewServer creates a new API server
func NewServer(addr string, reg *tables.Registry, store storage.Store, logger zerolog.Logger, opts ...Option) *Server {
	s := &Server{
		registry: reg,
		store:    store,
		logger:   logger.With().Str("component", "api").Logger(),
		addr:     addr,
		maxBody:  DefaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(s)
	}

	r := mux.NewRouter()
	r.Use(s.logRequests)

	r.HandleFunc("/health", s.health).Methods("GET")
	r.HandleFunc("/convert", s.convert).Methods("POST")
	r.HandleFunc("/tables", s.listTables).Methods("GET")
	r.HandleFunc("/tables/{version}/{direction}", s.putTable).Methods("PUT")
	r.HandleFunc("/tables/{version}/{direction}/cache", s.invalidateTable).Methods("DELETE")

	s.server = &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

// Handler returns the HTTP handler for the server
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Addr returns the address the server is configured to listen on
func (s *Server) Addr() string {
	return s.addr
}

// Start listens on the configured address and serves until Shutdown.
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.server.Addr, err)
	}
	return s.Serve(listener)
}

// Serve serves on an existing listener until Shutdown.
func (s *Server) Serve(listener net.Listener) error {
	s.logger.Info().Str("addr", listener.Addr().String()).Msg("Server listening")
	if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("Shutting down server")
	return s.server.Shutdown(ctx)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("Handled request")
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Helper functions for HTTP responses
func (s *Server) respond(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, err error) {
	s.respond(w, status, map[string]string{"error": err.Error()})
}

// readBody reads at most maxBody bytes of the request body.
func (s *Server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, int, error) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, http.StatusRequestEntityTooLarge, fmt.Errorf("request body exceeds %d bytes", tooLarge.Limit)
		}
		return nil, http.StatusBadRequest, fmt.Errorf("failed to read request body: %w", err)
	}
	return data, 0, nil
}

func (s *Server) selection(r *http.Request) (tables.Selection, error) {
	vars := mux.Vars(r)
	return tables.ParseSelection(vars["version"], vars["direction"])
}

// HTTP Handlers
func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		s.respondError(w, http.StatusServiceUnavailable, err)
		return
	}
	s.respond(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ConvertRequest is the body of POST /convert.
type ConvertRequest struct {
	Version   string `json:"version"`
	Direction string `json:"direction"`
	Text      string `json:"text"`
}

// ConvertResponse is the reply to POST /convert.
type ConvertResponse struct {
	Output    string `json:"output"`
	Version   string `json:"version"`
	Direction string `json:"direction"`
	// Degraded means the table was missing or empty and Output equals the input.
	Degraded bool `json:"degraded"`
}

func (s *Server) convert(w http.ResponseWriter, r *http.Request) {
	data, status, err := s.readBody(w, r)
	if err != nil {
		s.respondError(w, status, err)
		return
	}

	var req ConvertRequest
	if err := json.Unmarshal(data, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, fmt.Errorf("invalid request: %w", err))
		return
	}

	sel, err := tables.ParseSelection(req.Version, req.Direction)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err)
		return
	}

	table, err := s.registry.Table(r.Context(), sel)
	if err != nil {
		s.logger.Error().Err(err).Stringer("selection", sel).Msg("Failed to load table")
		s.respondError(w, http.StatusInternalServerError, err)
		return
	}

	s.respond(w, http.StatusOK, ConvertResponse{
		Output:    table.Convert(req.Text),
		Version:   sel.Version.String(),
		Direction: sel.Direction.String(),
		Degraded:  table.Degraded,
	})
}

// TableInfo describes one loaded table.
type TableInfo struct {
	Version   string         `json:"version"`
	Direction string         `json:"direction"`
	Asset     string         `json:"asset"`
	Rules     int            `json:"rules"`
	MaxKeyLen int            `json:"max_key_len"`
	Degraded  bool           `json:"degraded"`
	Report    mapping.Report `json:"report"`
}

func tableInfo(t *tables.Table) TableInfo {
	return TableInfo{
		Version:   t.Selection.Version.String(),
		Direction: t.Selection.Direction.String(),
		Asset:     t.Asset,
		Rules:     t.Engine.Len(),
		MaxKeyLen: t.Engine.MaxKeyLen(),
		Degraded:  t.Degraded,
		Report:    t.Report,
	}
}

func (s *Server) listTables(w http.ResponseWriter, r *http.Request) {
	loaded, err := s.registry.Preload(r.Context())
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err)
		return
	}

	assets, err := s.store.ListAssets(r.Context())
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err)
		return
	}

	infos := make([]TableInfo, 0, len(loaded))
	for _, t := range loaded {
		infos = append(infos, tableInfo(t))
	}
	s.respond(w, http.StatusOK, map[string]interface{}{
		"tables": infos,
		"assets": assets,
	})
}

func isYAML(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	switch mediaType {
	case "application/yaml", "application/x-yaml", "text/yaml":
		return true
	}
	return false
}

// putTable stores a new asset for a selection and rebuilds its table.
func (s *Server) putTable(w http.ResponseWriter, r *http.Request) {
	sel, err := s.selection(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err)
		return
	}

	data, status, err := s.readBody(w, r)
	if err != nil {
		s.respondError(w, status, err)
		return
	}

	name := sel.AssetName() + ".json"
	if isYAML(r.Header.Get("Content-Type")) {
		name = sel.AssetName() + ".yaml"
	}

	// Only one representation per selection may exist.
	for _, ext := range storage.Extensions {
		if other := sel.AssetName() + ext; other != name {
			if err := s.store.DeleteAsset(r.Context(), other); err != nil && !errors.Is(err, storage.ErrAssetNotFound) {
				s.respondError(w, http.StatusInternalServerError, err)
				return
			}
		}
	}

	if err := s.store.PutAsset(r.Context(), name, data); err != nil {
		s.respondError(w, http.StatusInternalServerError, err)
		return
	}
	s.registry.Invalidate(sel)

	table, err := s.registry.Table(r.Context(), sel)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err)
		return
	}

	s.logger.Info().Stringer("selection", sel).Str("asset", name).Int("rules", table.Engine.Len()).Msg("Table replaced")
	s.respond(w, http.StatusOK, tableInfo(table))
}

func (s *Server) invalidateTable(w http.ResponseWriter, r *http.Request) {
	sel, err := s.selection(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err)
		return
	}

	s.registry.Invalidate(sel)
	w.WriteHeader(http.StatusNoContent)
}
