package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"github.com/scythe504/sketchparty/internal/config"
	"github.com/scythe504/sketchparty/internal/game"
	"github.com/scythe504/sketchparty/internal/store"
)

const shutdownTimeout = 10 * time.Second

// ResultsSource serves archived games. It is nil when no database is set up.
type ResultsSource interface {
	RecentResults(ctx context.Context, limit int) ([]store.GameRecord, error)
}

type Server struct {
	cfg      config.Config
	router   *game.Router
	results  ResultsSource
	origins  OriginPolicy
	upgrader *websocket.Upgrader
	started  time.Time
}

func NewServer(cfg config.Config, router *game.Router, results ResultsSource) *Server {
	origins := NewOriginPolicy(cfg.AllowedOrigins, cfg.AllowedOriginSuffix)
	return &Server{
		cfg:     cfg,
		router:  router,
		results: results,
		origins: origins,
		upgrader: &websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return origins.Allowed(r.Header.Get("Origin"))
			},
		},
		started: time.Now(),
	}
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              ":" + s.cfg.Port,
		Handler:           s.RegisterRoutes(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("[Server] listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("[Server] shutdown signal received, shutting down gracefully")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("[Server] HTTP server shutdown")
		return err
	}
	return nil
}
