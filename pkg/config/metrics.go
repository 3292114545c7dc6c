package config

import (
	"github.com/marmos91/mountattr/pkg/metrics"
	promMetrics "github.com/marmos91/mountattr/pkg/metrics/prometheus"
)

// MetricsResult contains all metrics-related components created from configuration.
type MetricsResult struct {
	// Server is the HTTP server exposing Prometheus metrics (nil if disabled)
	Server *metrics.Server

	// ResolverMetrics is the collector for table loads and resolutions
	// (never nil, uses noop if disabled)
	ResolverMetrics metrics.ResolverMetrics
}

// InitializeMetrics creates metrics components based on configuration.
//
// When enabled it initializes the global Prometheus registry and creates the
// HTTP server; otherwise it returns a nil server and no-op collectors.
// status, when non-nil, is served at /status.
func InitializeMetrics(cfg *Config, status func() any) *MetricsResult {
	if !cfg.Metrics.Enabled {
		return &MetricsResult{
			ResolverMetrics: metrics.NewNoopResolverMetrics(),
		}
	}

	metrics.InitRegistry()

	server := metrics.NewServer(metrics.ServerConfig{
		Port:   cfg.Metrics.Port,
		Status: status,
	})

	return &MetricsResult{
		Server:          server,
		ResolverMetrics: promMetrics.NewResolverMetrics(),
	}
}
