// Package server hosts the atlas serving lifecycle: HTTP API, gRPC health,
// and storage setup behind one graceful shutdown path.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ravencote/lorekeep/internal/platform/config"
	platformgrpc "github.com/ravencote/lorekeep/internal/platform/grpc"
	"github.com/ravencote/lorekeep/internal/services/atlas/api/rest"
	"github.com/ravencote/lorekeep/internal/services/atlas/service"
	atlassqlite "github.com/ravencote/lorekeep/internal/services/atlas/storage/sqlite"
	gogrpc "google.golang.org/grpc"
)

const shutdownTimeout = 10 * time.Second

type serverEnv struct {
	DBPath      string `env:"LOREKEEP_ATLAS_DB_PATH"`
	TokenSecret string `env:"LOREKEEP_ATLAS_TOKEN_SECRET"`
}

func loadServerEnv() serverEnv {
	var cfg serverEnv
	_ = config.ParseEnv(&cfg)
	if strings.TrimSpace(cfg.DBPath) == "" {
		cfg.DBPath = filepath.Join("data", "atlas.db")
	}
	return cfg
}

// Server hosts the atlas HTTP API, the health endpoint, and storage lifecycle.
type Server struct {
	listener       net.Listener
	healthListener net.Listener
	healthServer   *gogrpc.Server
	httpServer     *http.Server
	store          *atlassqlite.Store
}

// New creates a configured atlas server listening on the provided ports.
func New(port, healthPort int) (*Server, error) {
	return NewWithAddrs(fmt.Sprintf(":%d", port), fmt.Sprintf(":%d", healthPort))
}

// NewWithAddrs creates a configured atlas server for the provided addresses.
func NewWithAddrs(addr, healthAddr string) (*Server, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}
	healthListener, err := net.Listen("tcp", healthAddr)
	if err != nil {
		_ = listener.Close()
		return nil, fmt.Errorf("listen on %s: %w", healthAddr, err)
	}

	env := loadServerEnv()
	store, err := openAtlasStore(env.DBPath)
	if err != nil {
		_ = listener.Close()
		_ = healthListener.Close()
		return nil, err
	}

	svc := service.NewService(store)
	httpServer := &http.Server{
		Handler:           rest.NewHandler(svc, []byte(env.TokenSecret)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &Server{
		listener:       listener,
		healthListener: healthListener,
		healthServer:   platformgrpc.NewHealthServer(),
		httpServer:     httpServer,
		store:          store,
	}, nil
}

// Addr returns the HTTP listener address for the server.
func (s *Server) Addr() string {
	if s == nil || s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// HealthAddr returns the gRPC health listener address.
func (s *Server) HealthAddr() string {
	if s == nil || s.healthListener == nil {
		return ""
	}
	return s.healthListener.Addr().String()
}

// Run creates and serves an atlas server until context cancellation.
func Run(ctx context.Context, port, healthPort int) error {
	srv, err := New(port, healthPort)
	if err != nil {
		return err
	}
	return srv.Serve(ctx)
}

// Serve starts the HTTP and health servers until context cancellation.
func (s *Server) Serve(ctx context.Context) error {
	if s == nil {
		return errors.New("server is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	defer s.Close()

	log.Printf("atlas server listening at %v (health at %v)", s.listener.Addr(), s.healthListener.Addr())

	serveErr := make(chan error, 2)
	go func() {
		serveErr <- s.httpServer.Serve(s.listener)
	}()
	go func() {
		serveErr <- s.healthServer.Serve(s.healthListener)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("atlas http shutdown: %v", err)
		}
		s.healthServer.GracefulStop()
		err := <-serveErr
		if err == nil || errors.Is(err, http.ErrServerClosed) || errors.Is(err, gogrpc.ErrServerStopped) {
			return nil
		}
		return fmt.Errorf("serve atlas: %w", err)
	case err := <-serveErr:
		if err == nil || errors.Is(err, http.ErrServerClosed) || errors.Is(err, gogrpc.ErrServerStopped) {
			return nil
		}
		return fmt.Errorf("serve atlas: %w", err)
	}
}

// Close releases atlas server resources.
func (s *Server) Close() {
	if s == nil {
		return
	}
	if s.httpServer != nil {
		_ = s.httpServer.Close()
	}
	if s.healthServer != nil {
		s.healthServer.Stop()
	}
	if s.listener != nil {
		_ = s.listener.Close()
	}
	if s.healthListener != nil {
		_ = s.healthListener.Close()
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			log.Printf("close atlas store: %v", err)
		}
	}
}

func openAtlasStore(path string) (*atlassqlite.Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}
	store, err := atlassqlite.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open atlas sqlite store: %w", err)
	}
	return store, nil
}
