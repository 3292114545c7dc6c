package config

import (
	"strings"
	"testing"
)

func TestValidate_DefaultConfigIsValid(t *testing.T) {
	if err := Validate(GetDefaultConfig()); err != nil {
		t.Fatalf("Default config should be valid: %v", err)
	}
}

func TestValidate_Failures(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Logging.Level = "TRACE" },
			wantErr: "Level",
		},
		{
			name:    "bad log format",
			mutate:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: "Format",
		},
		{
			name:    "negative verbosity",
			mutate:  func(c *Config) { c.Logging.Verbosity = -1 },
			wantErr: "Verbosity",
		},
		{
			name:    "unknown source type",
			mutate:  func(c *Config) { c.MountTable.Primary.Type = "fstab" },
			wantErr: "Type",
		},
		{
			name:    "primary none",
			mutate:  func(c *Config) { c.MountTable.Primary.Type = "none" },
			wantErr: "only valid for the fallback",
		},
		{
			name:    "mntent without path",
			mutate:  func(c *Config) { c.MountTable.Primary.Options = map[string]any{} },
			wantErr: "path is required",
		},
		{
			name: "unknown source option",
			mutate: func(c *Config) {
				c.MountTable.Fallback.Options["depth"] = 3
			},
			wantErr: "fallback",
		},
		{
			name:    "bad port",
			mutate:  func(c *Config) { c.Metrics.Port = 70000 },
			wantErr: "Port",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := GetDefaultConfig()
			tt.mutate(cfg)

			err := Validate(cfg)
			if err == nil {
				t.Fatal("Expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}
