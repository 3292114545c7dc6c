// Package origin holds the resolved identity of a file: which host serves it,
// from which export, and where inside that export it lives.
package origin

import (
	"github.com/marmos91/mountattr/pkg/uri"
)

// FileOrigin is the identity tuple of a file plus the scheme that renders it.
//
// The tuple is globally comparable: two processes on different nodes that
// resolve the same file produce the same URI. A FileOrigin is created fresh
// by each resolution and never shared.
type FileOrigin struct {
	// HostAddr uniquely identifies the file server (or the local node for local files)
	HostAddr string

	// ExportDir is the exported directory on the server; empty for local
	// files and for sources without a host:export convention
	ExportDir string

	// PathFromExportDir is where the file lives below ExportDir
	PathFromExportDir string

	// MountPoint is the local mount point corresponding to ExportDir
	MountPoint string

	scheme uri.Scheme
}

// New builds a FileOrigin.
func New(hostAddr, exportDir, pathFromExportDir, mountPoint string, scheme uri.Scheme) *FileOrigin {
	return &FileOrigin{
		HostAddr:          hostAddr,
		ExportDir:         exportDir,
		PathFromExportDir: pathFromExportDir,
		MountPoint:        mountPoint,
		scheme:            scheme,
	}
}

// Scheme returns the rendering scheme, or nil if none was set.
func (o *FileOrigin) Scheme() uri.Scheme {
	return o.scheme
}

// URI renders the canonical URI. ok is false when the origin has no scheme.
func (o *FileOrigin) URI() (u string, ok bool) {
	if o == nil || o.scheme == nil {
		return "", false
	}
	return o.scheme.Render(o.HostAddr, o.ExportDir, o.PathFromExportDir, o.MountPoint), true
}

// Equal reports whether both origins render the same URI.
func (o *FileOrigin) Equal(other *FileOrigin) bool {
	a, okA := o.URI()
	b, okB := other.URI()
	return okA && okB && a == b
}

func (o *FileOrigin) String() string {
	if u, ok := o.URI(); ok {
		return u
	}
	return "<unresolved>"
}
