package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_DefaultConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
logging:
  level: "debug"

resolver:
  index: "truncate"
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Logging.Level != "DEBUG" {
		t.Errorf("Expected normalized level 'DEBUG', got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "text" {
		t.Errorf("Expected default format 'text', got %q", cfg.Logging.Format)
	}
	if cfg.Resolver.Index != "truncate" {
		t.Errorf("Expected index 'truncate', got %q", cfg.Resolver.Index)
	}
	if cfg.MountTable.Primary.Options["path"] != "/proc/mounts" {
		t.Errorf("Expected primary path /proc/mounts, got %v", cfg.MountTable.Primary.Options["path"])
	}
	if cfg.MountTable.Fallback.Options["path"] != "/etc/mtab" {
		t.Errorf("Expected fallback path /etc/mtab, got %v", cfg.MountTable.Fallback.Options["path"])
	}
	if cfg.Metrics.Port != DefaultMetricsPort {
		t.Errorf("Expected default metrics port %d, got %d", DefaultMetricsPort, cfg.Metrics.Port)
	}
}

func TestLoad_NoConfigFile(t *testing.T) {
	// Point XDG at an empty directory so the user's own config is not read
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Expected defaults without a config file, got error: %v", err)
	}
	if cfg.Logging.Level != "INFO" {
		t.Errorf("Expected default level INFO, got %q", cfg.Logging.Level)
	}
	if cfg.MountTable.Primary.Type != "mntent" {
		t.Errorf("Expected default primary type mntent, got %q", cfg.MountTable.Primary.Type)
	}
}

func TestLoad_SourceOptions(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
mount_table:
  primary:
    type: mountinfo
    options:
      pid: 1
  fallback:
    type: none
hostname:
  override: node7.cluster
metrics:
  enabled: true
  port: 9191
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.MountTable.Primary.Type != "mountinfo" {
		t.Errorf("Expected mountinfo primary, got %q", cfg.MountTable.Primary.Type)
	}
	if cfg.MountTable.Fallback.Type != "none" {
		t.Errorf("Expected fallback none, got %q", cfg.MountTable.Fallback.Type)
	}
	if cfg.Hostname.Override != "node7.cluster" {
		t.Errorf("Expected hostname override, got %q", cfg.Hostname.Override)
	}
	if !cfg.Metrics.Enabled || cfg.Metrics.Port != 9191 {
		t.Errorf("Expected metrics enabled on 9191, got %+v", cfg.Metrics)
	}
}

func TestLoad_EnvironmentOverride(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	if err := os.WriteFile(configPath, []byte("logging:\n  level: INFO\n"), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	t.Setenv("MOUNTATTR_LOGGING_LEVEL", "WARN")

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Logging.Level != "WARN" {
		t.Errorf("Expected env override WARN, got %q", cfg.Logging.Level)
	}
}

func TestLoad_InvalidConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	if err := os.WriteFile(configPath, []byte("resolver:\n  index: btree\n"), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	if _, err := Load(configPath); err == nil {
		t.Fatal("Expected validation error for unknown index")
	}
}

func TestGetConfigDir_XDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")

	if got := GetConfigDir(); got != "/xdg/mountattr" {
		t.Errorf("Expected /xdg/mountattr, got %q", got)
	}
	if got := GetDefaultConfigPath(); got != "/xdg/mountattr/config.yaml" {
		t.Errorf("Expected /xdg/mountattr/config.yaml, got %q", got)
	}
	if ConfigExists() {
		t.Error("Expected no config at /xdg")
	}
}
