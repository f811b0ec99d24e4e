package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/nijaru/yt-summary/config"
	"github.com/nijaru/yt-summary/handlers"
	"github.com/nijaru/yt-summary/middleware"
	"github.com/nijaru/yt-summary/static"
)

const janitorInterval = time.Minute

type Server struct {
	handler *handlers.Handler
	config  *config.Config
	logger  *logrus.Logger
	server  *http.Server
	ctx     context.Context
	cancel  context.CancelFunc
}

type ServerOption func(*Server)

func WithLogger(logger *logrus.Logger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

func NewServer(cfg *config.Config, handler *handlers.Handler, opts ...ServerOption) *Server {
	s := &Server{
		handler: handler,
		config:  cfg,
		logger:  logrus.StandardLogger(),
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())
	for _, opt := range opts {
		opt(s)
	}

	s.server = &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      s.routes(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return s
}

// Start runs the session janitor and serves until Shutdown.
func (s *Server) Start() error {
	go s.handler.RunJanitor(s.ctx, janitorInterval)

	s.logger.WithField("port", s.config.ServerPort).Info("Starting server")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops accepting requests, waits for in-flight ones and cancels
// any submission still pending.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server...")
	err := s.server.Shutdown(ctx)
	s.cancel()
	s.handler.Sessions().Close()
	return err
}

func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logging(s.logger))
	r.Use(middleware.Recovery(s.logger))
	r.Use(chimiddleware.Compress(5, "text/html", "text/css", "application/javascript", "application/json"))

	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static.FS))))

	r.Get("/", s.handler.LandingPage)
	r.Post("/transcript", s.handler.SubmitTranscript)
	r.Get("/health", s.handler.Health)

	return r
}
