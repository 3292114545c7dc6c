package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the complete mountattr configuration.
//
// Configuration sources (in order of precedence):
//  1. CLI flags (highest priority)
//  2. Environment variables (MOUNTATTR_*)
//  3. Configuration file (YAML)
//  4. Default values (lowest priority)
//
// Mount table sources follow a type + options pattern: each source type
// decodes its own options map, and only the map matching the selected type
// is used.
type Config struct {
	// Logging controls log output behavior
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging" json:"logging"`

	// MountTable selects where mount entries are read from
	MountTable MountTableConfig `mapstructure:"mount_table" yaml:"mount_table" json:"mount_table"`

	// Hostname controls how the local node's canonical name is obtained
	Hostname HostnameConfig `mapstructure:"hostname" yaml:"hostname" json:"hostname"`

	// Resolver tunes path resolution
	Resolver ResolverConfig `mapstructure:"resolver" yaml:"resolver" json:"resolver"`

	// Metrics controls Prometheus metrics collection
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics" json:"metrics"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	// Level is the minimum log level to output
	// Valid values: DEBUG, INFO, WARN, ERROR (case-insensitive, normalized to uppercase)
	Level string `mapstructure:"level" yaml:"level" json:"level" validate:"required,oneof=DEBUG INFO WARN ERROR debug info warn error"`

	// Format specifies the log output format
	// Valid values: text, json
	Format string `mapstructure:"format" yaml:"format" json:"format" validate:"required,oneof=text json"`

	// Output specifies where logs are written
	// Valid values: stdout, stderr, or a file path
	Output string `mapstructure:"output" yaml:"output" json:"output" validate:"required"`

	// Verbosity enables extra diagnostics (duplicate mount points, rootfs
	// replacement, rejected paths) at levels >= 1
	Verbosity int `mapstructure:"verbosity" yaml:"verbosity" json:"verbosity" validate:"gte=0,lte=5"`
}

// MountTableConfig selects the primary and fallback mount table sources.
type MountTableConfig struct {
	// Primary is read first
	Primary SourceConfig `mapstructure:"primary" yaml:"primary" json:"primary"`

	// Fallback is read when the primary cannot be. Type "none" disables it.
	Fallback SourceConfig `mapstructure:"fallback" yaml:"fallback" json:"fallback"`
}

// SourceConfig configures one mount table source.
type SourceConfig struct {
	// Type selects the implementation
	// Valid values: mntent, mountinfo, partitions, none
	Type string `mapstructure:"type" yaml:"type" json:"type" validate:"required,oneof=mntent mountinfo partitions none"`

	// Options holds type-specific settings:
	//   mntent:     path (string)
	//   mountinfo:  pid (int, 0 = self)
	//   partitions: all (bool)
	Options map[string]any `mapstructure:"options" yaml:"options,omitempty" json:"options,omitempty"`
}

// HostnameConfig controls canonical hostname resolution.
type HostnameConfig struct {
	// Override replaces the system hostname entirely
	Override string `mapstructure:"override" yaml:"override" json:"override"`

	// DisableLookup skips the DNS canonicalization of the system hostname
	DisableLookup bool `mapstructure:"disable_lookup" yaml:"disable_lookup" json:"disable_lookup"`
}

// ResolverConfig tunes path resolution.
type ResolverConfig struct {
	// Index selects the longest-prefix lookup strategy
	// Valid values: trie, truncate
	Index string `mapstructure:"index" yaml:"index" json:"index" validate:"required,oneof=trie truncate"`
}

// MetricsConfig controls the Prometheus metrics endpoint.
type MetricsConfig struct {
	// Enabled turns on metrics collection and the HTTP endpoint
	Enabled bool `mapstructure:"enabled" yaml:"enabled" json:"enabled"`

	// Port is the HTTP port for /metrics
	Port int `mapstructure:"port" yaml:"port" json:"port" validate:"min=1,max=65535"`
}

// Load loads configuration from file, environment, and defaults.
//
// Configuration precedence (highest to lowest):
//  1. Environment variables (MOUNTATTR_*)
//  2. Configuration file
//  3. Default values
//
// An empty configPath uses the default location.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setupViper(v, configPath)

	if err := readConfigFile(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// setupViper configures viper with environment variables and config file settings.
func setupViper(v *viper.Viper, configPath string) {
	// Example: MOUNTATTR_LOGGING_LEVEL=DEBUG
	v.SetEnvPrefix("MOUNTATTR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// $XDG_CONFIG_HOME/mountattr/config.yaml
		v.AddConfigPath(getConfigDir())
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
}

// readConfigFile reads the configuration file if it exists.
func readConfigFile(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found is acceptable - use defaults
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}

	return nil
}

// getConfigDir returns the configuration directory path.
//
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config, or falls back to the
// current directory if the home directory cannot be determined.
func getConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "mountattr")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}

	return filepath.Join(home, ".config", "mountattr")
}

// GetDefaultConfigPath returns the default configuration file path.
func GetDefaultConfigPath() string {
	return filepath.Join(getConfigDir(), "config.yaml")
}

// ConfigExists checks if a config file exists at the default location.
func ConfigExists() bool {
	_, err := os.Stat(GetDefaultConfigPath())
	return err == nil
}

// GetConfigDir returns the configuration directory path.
func GetConfigDir() string {
	return getConfigDir()
}
