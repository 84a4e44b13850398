// Package server exposes the checking pipeline over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/Kavirubc/tplcheck/internal/config"
	"github.com/Kavirubc/tplcheck/internal/logging"
	"github.com/Kavirubc/tplcheck/internal/pipeline"
	"github.com/Kavirubc/tplcheck/internal/storage"
)

// Server serves uploads, result downloads and progress streams.
type Server struct {
	cfg        *config.Config
	store      storage.Store
	proc       pipeline.Processor
	logger     *zap.Logger
	locks      *keyedMutex
	httpServer *http.Server
}

// New creates a server; proc is shared by every run.
func New(cfg *config.Config, store storage.Store, proc pipeline.Processor, logger *zap.Logger) *Server {
	s := &Server{
		cfg:    cfg,
		store:  store,
		proc:   proc,
		logger: logging.OrNop(logger),
		locks:  newKeyedMutex(),
	}
	s.httpServer = &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the routed handler wrapped in CORS.
func (s *Server) Handler() http.Handler {
	return cors(s.cfg.Server.AllowedOrigins, s.routes())
}

// Start listens until Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("starting server", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /uploadfile/", s.handleUpload)
	mux.HandleFunc("GET /downloadfile/{filename}", s.handleDownload)
	mux.HandleFunc("GET /plot", s.handlePlot)
	mux.HandleFunc("GET /files/", s.handleListFiles)
	mux.HandleFunc("GET /uploads/{filename}", s.handleRawUpload)
	mux.HandleFunc("GET /ws/process/{filename}", s.handleProcessWS)

	return mux
}
