package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"wordduel/internal/app"
	"wordduel/internal/config"
	"wordduel/internal/transport/ws"
)

// Server represents the HTTP server
type Server struct {
	server     *http.Server
	router     *chi.Mux
	dispatcher *app.Dispatcher
	config     *config.Config
	logger     *slog.Logger
}

// NewServer creates a new HTTP server
func NewServer(cfg *config.Config, dispatcher *app.Dispatcher, logger *slog.Logger) *Server {
	s := &Server{
		router:     chi.NewRouter(),
		dispatcher: dispatcher,
		config:     cfg,
		logger:     logger,
	}

	s.setupRoutes()

	s.server = &http.Server{
		Addr:         cfg.GetAddr(),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupRoutes configures middleware and all HTTP routes
func (s *Server) setupRoutes() {
	r := s.router

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(s.requestLogger)
	r.Use(chimw.Recoverer)
	r.Use(cors)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/stats", s.handleStats)

		r.Route("/rooms/{roomCode}", func(r chi.Router) {
			r.Get("/", s.handleGetRoom)
			r.Get("/exists", s.handleRoomExists)
			r.Get("/qr", s.handleRoomQR)
		})
	})

	// invite links and QR codes point here
	r.Get("/join/{roomCode}", s.handleGetRoom)

	r.Method(http.MethodGet, "/ws", ws.NewHandler(s.dispatcher, ws.Options{
		MessageRate:  s.config.Limits.MessageRate,
		MessageBurst: s.config.Limits.MessageBurst,
		StrictOrigin: s.config.IsProduction(),
	}, s.logger))

	if s.config.Server.Profile {
		r.Mount("/debug", chimw.Profiler())
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.sendError(w, http.StatusNotFound, "NOT_FOUND", "Not found")
	})
}

// Handler returns the routed handler, for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// requestLogger logs each request once it completes
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		attrs := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"duration", time.Since(start),
			"requestId", chimw.GetReqID(r.Context()),
		}
		if s.config.IsDevelopment() {
			s.logger.Info("request", attrs...)
		} else {
			s.logger.Debug("request", attrs...)
		}
	})
}

// cors adds permissive CORS headers and answers preflight requests
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info("server starting", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("server shutting down")
	return s.server.Shutdown(ctx)
}
