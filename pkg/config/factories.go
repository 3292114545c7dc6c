package config

import (
	"fmt"

	"github.com/marmos91/mountattr/pkg/metrics"
	"github.com/marmos91/mountattr/pkg/mounttable"
	"github.com/marmos91/mountattr/pkg/resolver"
	"github.com/mitchellh/mapstructure"
)

// CreateSource creates a mount table source from its configuration.
//
// Supported types:
//   - "mntent": fstab(5)-formatted file (path)
//   - "mountinfo": /proc/<pid>/mountinfo via procfs (pid)
//   - "partitions": gopsutil partition listing (all)
//   - "none": no source; returns nil
func CreateSource(cfg *SourceConfig) (mounttable.Source, error) {
	switch cfg.Type {
	case "mntent":
		var opts struct {
			Path string `mapstructure:"path"`
		}
		if err := decodeOptions(cfg.Options, &opts); err != nil {
			return nil, fmt.Errorf("failed to decode mntent source config: %w", err)
		}
		if opts.Path == "" {
			return nil, fmt.Errorf("mntent source: path is required")
		}
		return mounttable.MntentFile{Path: opts.Path}, nil

	case "mountinfo":
		var opts struct {
			PID int `mapstructure:"pid"`
		}
		if err := decodeOptions(cfg.Options, &opts); err != nil {
			return nil, fmt.Errorf("failed to decode mountinfo source config: %w", err)
		}
		if opts.PID < 0 {
			return nil, fmt.Errorf("mountinfo source: pid must be >= 0")
		}
		return mounttable.MountinfoSource{PID: opts.PID}, nil

	case "partitions":
		var opts struct {
			All bool `mapstructure:"all"`
		}
		if err := decodeOptions(cfg.Options, &opts); err != nil {
			return nil, fmt.Errorf("failed to decode partitions source config: %w", err)
		}
		return mounttable.PartitionsSource{All: opts.All}, nil

	case "none":
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown mount table source type: %q", cfg.Type)
	}
}

// decodeOptions decodes a loosely typed options map. Values coming from
// environment variables arrive as strings, hence weak typing.
func decodeOptions(options map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(options)
}

// CreateHostnameProvider returns the configured hostname provider.
func CreateHostnameProvider(cfg *HostnameConfig) mounttable.HostnameProvider {
	if cfg.Override != "" {
		return mounttable.StaticHostname(cfg.Override)
	}
	return mounttable.SystemHostname{Resolve: !cfg.DisableLookup}
}

// CreateLoader builds a mount table loader from configuration.
//
// m may be nil, in which case load metrics are discarded.
func CreateLoader(cfg *Config, m metrics.ResolverMetrics) (*mounttable.Loader, error) {
	primary, err := CreateSource(&cfg.MountTable.Primary)
	if err != nil {
		return nil, fmt.Errorf("mount_table.primary: %w", err)
	}
	if primary == nil {
		return nil, fmt.Errorf("mount_table.primary: a source is required")
	}

	fallback, err := CreateSource(&cfg.MountTable.Fallback)
	if err != nil {
		return nil, fmt.Errorf("mount_table.fallback: %w", err)
	}

	return &mounttable.Loader{
		Primary:   primary,
		Fallback:  fallback,
		Hostnames: CreateHostnameProvider(&cfg.Hostname),
		Metrics:   m,
	}, nil
}

// CreateResolver builds a resolver that follows the table published by h.
func CreateResolver(cfg *Config, h *mounttable.Holder, m metrics.ResolverMetrics) (*resolver.Resolver, error) {
	kind, err := resolver.ParseIndexKind(cfg.Resolver.Index)
	if err != nil {
		return nil, err
	}
	return resolver.NewWithHolder(h, resolver.WithIndex(kind), resolver.WithMetrics(m)), nil
}
