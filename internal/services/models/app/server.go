// Package server wires the models runtime and HTTP lifecycle.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/louisbranch/herowiki/internal/services/models/loader"
	modelsqlite "github.com/louisbranch/herowiki/internal/services/models/storage/sqlite"
	"golang.org/x/sync/errgroup"
)

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 10 * time.Second
)

// Config selects where the server reads catalogs from. DBPath wins over
// DataDir when both are set.
type Config struct {
	Addr       string
	DataDir    string
	DBPath     string
	LabelsPath string
}

// Server hosts the models HTTP API.
type Server struct {
	listener   net.Listener
	httpServer *http.Server
	closer     io.Closer
}

// New creates a configured models server listening on cfg.Addr.
func New(cfg Config) (*Server, error) {
	source, closer, err := OpenSource(cfg)
	if err != nil {
		return nil, err
	}
	srv, err := NewWithSource(cfg.Addr, source)
	if err != nil {
		if closer != nil {
			_ = closer.Close()
		}
		return nil, err
	}
	srv.closer = closer
	return srv, nil
}

// NewWithSource creates a server for addr serving source.
func NewWithSource(addr string, source loader.Source) (*Server, error) {
	if source == nil {
		return nil, errors.New("model source is required")
	}
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}
	return &Server{
		listener: listener,
		httpServer: &http.Server{
			Handler:           NewHandler(source),
			ReadHeaderTimeout: readHeaderTimeout,
		},
	}, nil
}

// Addr returns the listener address for the server.
func (s *Server) Addr() string {
	if s == nil || s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Run creates and serves a models server until context cancellation.
func Run(ctx context.Context, cfg Config) error {
	server, err := New(cfg)
	if err != nil {
		return err
	}
	return server.Serve(ctx)
}

// Serve runs the HTTP server until context cancellation, then drains
// in-flight requests.
func (s *Server) Serve(ctx context.Context) error {
	if s == nil {
		return errors.New("server is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	defer s.Close()

	log.Printf("models server listening at %v", s.listener.Addr())
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := s.httpServer.Serve(s.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve http: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http: %w", err)
		}
		return nil
	})
	return g.Wait()
}

// Close releases server resources.
func (s *Server) Close() {
	if s == nil {
		return
	}
	if s.listener != nil {
		_ = s.listener.Close()
	}
	if s.closer != nil {
		if err := s.closer.Close(); err != nil {
			log.Printf("close model store: %v", err)
		}
		s.closer = nil
	}
}

// OpenSource opens the catalog source cfg selects. The closer is nil for the
// data lake.
func OpenSource(cfg Config) (loader.Source, io.Closer, error) {
	if path := strings.TrimSpace(cfg.DBPath); path != "" {
		store, err := openModelStore(path)
		if err != nil {
			return nil, nil, err
		}
		log.Printf("reading models from %s", path)
		return store, store, nil
	}

	labels, err := loader.LoadLabels(cfg.LabelsPath)
	if err != nil {
		return nil, nil, err
	}
	lake, err := loader.OpenLake(cfg.DataDir, labels)
	if err != nil {
		return nil, nil, err
	}
	log.Printf("reading models from data lake %s (%d label overrides)", cfg.DataDir, labels.Len())
	return lake, nil, nil
}

func openModelStore(path string) (*modelsqlite.Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}
	store, err := modelsqlite.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open model sqlite store: %w", err)
	}
	return store, nil
}
