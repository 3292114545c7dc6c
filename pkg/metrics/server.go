package metrics

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/marmos91/mountattr/internal/logger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server exposes resolver metrics over HTTP.
//
//   - GET /metrics: Prometheus exposition, or 503 when collection is off
//   - GET /status: the loaded mount table summary, if ServerConfig.Status is set
//   - GET /: plain-text list of the endpoints above
type Server struct {
	server       *http.Server
	port         int
	shutdownOnce sync.Once
}

// ServerConfig configures the metrics HTTP server.
type ServerConfig struct {
	// Port to listen on. Default: 9090
	Port int

	// Status, when set, is served as JSON at /status
	Status func() any
}

// NewServer builds a stopped server; call Start to serve.
func NewServer(config ServerConfig) *Server {
	if config.Port <= 0 {
		config.Port = 9090
	}

	mux := http.NewServeMux()
	endpoints := []string{"/metrics"}

	if registry := GetRegistry(); IsEnabled() && registry != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{
			EnableOpenMetrics: true,
		}))
	} else {
		mux.HandleFunc("/metrics", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "resolver metrics are disabled", http.StatusServiceUnavailable)
		})
	}

	if config.Status != nil {
		endpoints = append(endpoints, "/status")
		mux.HandleFunc("/status", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			if err := json.NewEncoder(w).Encode(config.Status()); err != nil {
				logger.Debug("Failed to encode mount table status: %v", err)
			}
		})
	}

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		for _, ep := range endpoints {
			_, _ = fmt.Fprintln(w, ep)
		}
	})

	return &Server{
		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", config.Port),
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
			WriteTimeout:      10 * time.Second,
		},
		port: config.Port,
	}
}

// Start serves until ctx is done, then shuts down. It returns nil after a
// clean shutdown.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("Serving resolver metrics on :%d", s.port)
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.Stop(shutdownCtx)
	case err := <-errCh:
		return fmt.Errorf("metrics server failed: %w", err)
	}
}

// Stop shuts the server down. Only the first call has any effect.
func (s *Server) Stop(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		if err = s.server.Shutdown(ctx); err != nil {
			err = fmt.Errorf("metrics server shutdown: %w", err)
		}
	})
	return err
}

func (s *Server) Port() int {
	return s.port
}
