// Package server exposes keyword analysis over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/DINAL11/3D-Word-Cloud-Dinal/internal/config"
	"github.com/DINAL11/3D-Word-Cloud-Dinal/internal/logger"
	"github.com/DINAL11/3D-Word-Cloud-Dinal/internal/service"
)

const (
	// Version is reported by the info endpoint.
	Version = "1.0.0"

	shutdownTimeout = 5 * time.Second
	idleTimeout     = 60 * time.Second

	// bodyOverhead leaves room for JSON escaping and the other request
	// fields on top of the text limit.
	bodyOverhead = 64 << 10
)

type Server struct {
	cfg    config.ServerConfig
	svc    *service.Service
	log    logger.Logger
	router *gin.Engine
}

// New builds the router. svc handles analyses and log receives request logs.
func New(cfg *config.Config, svc *service.Service, log logger.Logger) *Server {
	s := &Server{cfg: cfg.Server, svc: svc, log: log}
	s.router = s.buildRouter(int64(cfg.Analysis.MaxInputBytes)*2 + bodyOverhead)
	return s
}

func (s *Server) buildRouter(bodyLimit int64) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestIDMiddleware(s.log))
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(s.cfg.CORS))

	router.GET("/", s.handleInfo)
	router.GET("/health", s.handleHealth)
	router.POST("/analyze", BodySizeLimiter(bodyLimit), s.handleAnalyze)
	router.GET("/metrics", gin.WrapH(s.svc.Metrics().Handler()))
	return router
}

// Handler returns the HTTP handler serving the API.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Addr is the configured listen address.
func (s *Server) Addr() string {
	return net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))
}

// Run listens on the configured address and serves until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.Addr())
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.Addr(), err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       s.cfg.Timeout,
		WriteTimeout:      s.cfg.Timeout,
		IdleTimeout:       idleTimeout,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	s.log.Info("Starting HTTP server", "address", "http://"+ln.Addr().String())
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	s.log.Debug("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.log.Info("Server shutdown completed")
	return nil
}
