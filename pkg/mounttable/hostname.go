package mounttable

import (
	"context"
	"fmt"
	"net"
	"os"
	"strings"
)

// HostnameProvider yields the canonical name of the local node.
type HostnameProvider interface {
	CanonicalHostname(ctx context.Context) (string, error)
}

// StaticHostname is a fixed hostname, typically from configuration.
type StaticHostname string

func (h StaticHostname) CanonicalHostname(ctx context.Context) (string, error) {
	if h == "" {
		return "", fmt.Errorf("empty hostname override")
	}
	return string(h), nil
}

// SystemHostname reads the kernel hostname and, when Resolve is set,
// canonicalizes it through the system resolver. Resolver failures fall back
// to the raw hostname.
type SystemHostname struct {
	Resolve  bool
	Resolver *net.Resolver
}

func (h SystemHostname) CanonicalHostname(ctx context.Context) (string, error) {
	name, err := os.Hostname()
	if err != nil {
		return "", fmt.Errorf("failed to read hostname: %w", err)
	}
	if name == "" {
		return "", fmt.Errorf("hostname is empty")
	}
	if !h.Resolve {
		return name, nil
	}

	r := h.Resolver
	if r == nil {
		r = net.DefaultResolver
	}

	if cname, err := r.LookupCNAME(ctx, name); err == nil {
		if c := strings.TrimSuffix(cname, "."); c != "" {
			return c, nil
		}
	}

	addrs, err := r.LookupHost(ctx, name)
	if err != nil || len(addrs) == 0 {
		return name, nil
	}
	names, err := r.LookupAddr(ctx, addrs[0])
	if err != nil || len(names) == 0 {
		return name, nil
	}
	if c := strings.TrimSuffix(names[0], "."); c != "" {
		return c, nil
	}
	return name, nil
}
