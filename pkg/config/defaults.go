package config

import (
	"strings"

	"github.com/marmos91/mountattr/pkg/mounttable"
)

// DefaultMetricsPort is the metrics HTTP port when none is configured.
const DefaultMetricsPort = 9090

// ApplyDefaults sets default values for any unspecified configuration fields.
//
// Zero values are replaced with defaults; explicit values are preserved.
func ApplyDefaults(cfg *Config) {
	applyLoggingDefaults(&cfg.Logging)
	applyMountTableDefaults(&cfg.MountTable)
	applyResolverDefaults(&cfg.Resolver)
	applyMetricsDefaults(&cfg.Metrics)
}

// applyLoggingDefaults sets logging defaults and normalizes values.
func applyLoggingDefaults(cfg *LoggingConfig) {
	if cfg.Level == "" {
		cfg.Level = "INFO"
	}
	// Normalize log level to uppercase for consistent internal representation
	cfg.Level = strings.ToUpper(cfg.Level)

	if cfg.Format == "" {
		cfg.Format = "text"
	}
	if cfg.Output == "" {
		cfg.Output = "stderr"
	}
}

func applyMountTableDefaults(cfg *MountTableConfig) {
	applySourceDefaults(&cfg.Primary, mounttable.ProcMountsPath)
	applySourceDefaults(&cfg.Fallback, mounttable.MtabPath)
}

func applySourceDefaults(cfg *SourceConfig, path string) {
	if cfg.Type == "" {
		cfg.Type = "mntent"
	}
	if cfg.Options == nil {
		cfg.Options = make(map[string]any)
	}
	if cfg.Type == "mntent" {
		if _, ok := cfg.Options["path"]; !ok {
			cfg.Options["path"] = path
		}
	}
}

func applyResolverDefaults(cfg *ResolverConfig) {
	if cfg.Index == "" {
		cfg.Index = "trie"
	}
	cfg.Index = strings.ToLower(cfg.Index)
}

func applyMetricsDefaults(cfg *MetricsConfig) {
	if cfg.Port == 0 {
		cfg.Port = DefaultMetricsPort
	}
}

// GetDefaultConfig returns a Config struct with all default values applied.
//
// This is useful for generating sample configuration files and for tests.
func GetDefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}
