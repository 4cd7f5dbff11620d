package http

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/DRSN-tech/go-marketplace/internal/cfg"
)

const (
	readHeaderTimeout = 2 * time.Second
	maxHeaderBytes    = 64 << 10
)

// Server — HTTP API маркетплейса.
type Server struct {
	httpServer *http.Server
}

func NewServer(handler http.Handler, cfg *cfg.HTTPConfig) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           handler,
			ReadHeaderTimeout: min(readHeaderTimeout, cfg.ReadTimeout),
			ReadTimeout:       cfg.ReadTimeout,
			WriteTimeout:      cfg.WriteTimeout,
			IdleTimeout:       cfg.IdleTimeout,
			MaxHeaderBytes:    maxHeaderBytes,
		},
	}
}

// Run слушает порт из конфигурации. После Stop возвращает http.ErrServerClosed.
func (s *Server) Run() error {
	lis, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}

	return s.Serve(lis)
}

// Serve обслуживает запросы на готовом listener.
func (s *Server) Serve(lis net.Listener) error {
	return s.httpServer.Serve(lis)
}

// Stop перестаёт принимать соединения и ждёт завершения текущих запросов до истечения ctx.
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
