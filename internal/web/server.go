// Package web serves the shopping list to browsers. Every request loads the
// caller's list from the KV store, runs at most one command against it and
// renders the result.
package web

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/Makepad-fr/shoplist/internal/store"
)

// Config holds server configuration options.
type Config struct {
	Addr           string        // Listen address (e.g. ":8080" or ":0" for a random port)
	ReadTimeout    time.Duration // HTTP read timeout
	WriteTimeout   time.Duration // HTTP write timeout
	CookieName     string        // profile cookie
	AllowedOrigins []string      // CORS origins for /api
}

// DefaultConfig binds a random port, which suits tests.
func DefaultConfig() Config {
	return Config{
		Addr:           ":0",
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   15 * time.Second,
		CookieName:     DefaultCookieName,
		AllowedOrigins: []string{"*"},
	}
}

type Server struct {
	handler    http.Handler
	httpServer *http.Server
	log        *zap.Logger

	mu       sync.Mutex
	listener net.Listener
	addr     string
	running  bool
}

// NewServer wires the router. The server is not started until Start is
// called.
func NewServer(cfg Config, kv store.KV, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.CookieName == "" {
		cfg.CookieName = DefaultCookieName
	}
	app := NewApp(kv, cfg.CookieName, logger)

	router := mux.NewRouter()
	router.HandleFunc("/healthz", handleHealth).Methods(http.MethodGet)
	router.HandleFunc("/", app.handlePage).Methods(http.MethodGet)
	router.HandleFunc("/items", app.handleAdd).Methods(http.MethodPost)
	router.HandleFunc("/items/{id}/toggle", app.handleToggle).Methods(http.MethodPost)
	router.HandleFunc("/items/{id}/delete", app.handleRemove).Methods(http.MethodPost)

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
	})
	api := router.PathPrefix("/api").Subrouter()
	api.Use(c.Handler)
	api.HandleFunc("/items", app.apiList).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/items", app.apiAdd).Methods(http.MethodPost)
	api.HandleFunc("/items/{id}/toggle", app.apiToggle).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/items/{id}", app.apiRemove).Methods(http.MethodDelete, http.MethodOptions)

	handler := requestLogger(logger)(router)

	return &Server{
		handler: handler,
		log:     logger,
		httpServer: &http.Server{
			Addr:         cfg.Addr,
			Handler:      handler,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
	}
}

// Handler exposes the routed handler for in-process tests.
func (s *Server) Handler() http.Handler { return s.handler }

// Start begins listening and returns the bound address. It does not block.
func (s *Server) Start() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return s.addr, nil
	}

	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return "", fmt.Errorf("failed to listen: %w", err)
	}
	s.listener = ln
	s.addr = ln.Addr().String()
	s.running = true

	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("server stopped", zap.Error(err))
		}
	}()

	s.log.Info("listening", zap.String("addr", s.addr))
	return s.addr, nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}
	s.running = false
	return s.httpServer.Shutdown(ctx)
}

// Addr returns the listening address, or "" when not running.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
