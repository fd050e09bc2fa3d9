package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/eslsoft/vocquiz/internal/entity"
	"github.com/eslsoft/vocquiz/internal/infrastructure/config"
	"github.com/eslsoft/vocquiz/internal/usecase"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

// Server is the status HTTP server: health, leaderboard and metrics.
type Server struct {
	config     *config.Config
	httpServer *http.Server
	logger     *logrus.Logger
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config, logger *logrus.Logger, board usecase.ScoreBoard, registry *prometheus.Registry) *Server {
	return &Server{
		config: cfg,
		httpServer: &http.Server{
			Addr:              cfg.HTTP.Addr,
			Handler:           NewHandler(cfg, logger, board, registry),
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: logger,
	}
}

// NewHandler builds the routed, CORS-wrapped, h2c-capable handler.
func NewHandler(cfg *config.Config, logger logrus.FieldLogger, board usecase.ScoreBoard, registry *prometheus.Registry) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("GET /v1/rankings", func(w http.ResponseWriter, r *http.Request) {
		rankings, err := board.Rankings(r.Context())
		if err != nil {
			logger.WithError(err).Error("list rankings")
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "rankings unavailable"})
			return
		}
		if rankings == nil {
			rankings = []entity.RatingEntry{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"rankings": rankings})
	})
	mux.Handle("GET /metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: cfg.HTTP.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	}).Handler(AccessLog(logger, mux))

	return h2c.NewHandler(corsHandler, &http2.Server{})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	s.logger.Infof("HTTP server starting on %s", s.httpServer.Addr)

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server...")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Errorf("Failed to shutdown HTTP server: %v", err)
		return err
	}

	s.logger.Info("Server shutdown complete")
	return nil
}
