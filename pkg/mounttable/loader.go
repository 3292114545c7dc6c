package mounttable

import (
	"context"
	"time"

	"github.com/marmos91/mountattr/internal/logger"
	"github.com/marmos91/mountattr/pkg/metrics"
	"github.com/marmos91/mountattr/pkg/mounterr"
)

// Loader reads a mount table from Primary, falling back to Fallback when the
// primary cannot be read, and stamps it with the local hostname.
type Loader struct {
	Primary   Source
	Fallback  Source
	Hostnames HostnameProvider
	Metrics   metrics.ResolverMetrics
}

// NewLoader returns a loader reading /proc/mounts, then /etc/mtab, with the
// resolved system hostname.
func NewLoader() *Loader {
	return &Loader{
		Primary:   MntentFile{Path: ProcMountsPath},
		Fallback:  MntentFile{Path: MtabPath},
		Hostnames: SystemHostname{Resolve: true},
	}
}

// Load builds a new Table.
//
// A hostname failure is not fatal: the table is returned with an empty
// Hostname and local origins built from it fail with a StateError.
// Failure to read every configured source is a ParseError.
func (l *Loader) Load(ctx context.Context) (*Table, error) {
	m := metrics.OrNoop(l.Metrics)
	start := time.Now()

	hostname := ""
	if l.Hostnames != nil {
		h, err := l.Hostnames.CanonicalHostname(ctx)
		if err != nil {
			logger.Say(component, true, "cannot determine local hostname: %v", err)
		} else {
			hostname = h
		}
	}

	var lastErr error
	for _, src := range []Source{l.Primary, l.Fallback} {
		if src == nil {
			continue
		}

		entries, err := src.Entries(ctx)
		if err != nil {
			m.RecordTableLoad(src.Name(), 0, err)
			logger.Say(component, true, "cannot read mount table %s: %v", src.Name(), err)
			lastErr = err
			continue
		}

		t := buildTable(hostname, src.Name(), entries)
		m.RecordTableLoad(src.Name(), t.Len(), nil)
		m.RecordOperation("load", time.Since(start), nil)
		logger.Debug("Loaded mount table %s from %s: %d mount points", t.ID, src.Name(), t.Len())
		return t, nil
	}

	err := mounterr.Wrap(mounterr.ErrParse, lastErr, "no readable mount table", "")
	m.RecordOperation("load", time.Since(start), err)
	return nil, err
}
