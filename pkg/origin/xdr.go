package origin

import (
	"bytes"
	"fmt"

	"github.com/marmos91/mountattr/pkg/uri"
	xdr "github.com/rasky/go-xdr/xdr2"
)

// wireOrigin is the XDR layout of a FileOrigin: five XDR strings in order.
type wireOrigin struct {
	Scheme            string
	HostAddr          string
	ExportDir         string
	PathFromExportDir string
	MountPoint        string
}

// MarshalXDR encodes the origin so that it can be shipped to peers over
// whatever transport the caller uses.
func (o *FileOrigin) MarshalXDR() ([]byte, error) {
	if o.scheme == nil {
		return nil, fmt.Errorf("origin has no scheme")
	}

	w := wireOrigin{
		Scheme:            o.scheme.Name(),
		HostAddr:          o.HostAddr,
		ExportDir:         o.ExportDir,
		PathFromExportDir: o.PathFromExportDir,
		MountPoint:        o.MountPoint,
	}

	var buf bytes.Buffer
	if _, err := xdr.Marshal(&buf, &w); err != nil {
		return nil, fmt.Errorf("failed to encode origin: %w", err)
	}
	return buf.Bytes(), nil
}

// UnmarshalXDR decodes an origin produced by MarshalXDR.
func UnmarshalXDR(data []byte) (*FileOrigin, error) {
	var w wireOrigin
	if _, err := xdr.Unmarshal(bytes.NewReader(data), &w); err != nil {
		return nil, fmt.Errorf("failed to decode origin: %w", err)
	}

	scheme, ok := uri.ByName(w.Scheme)
	if !ok {
		return nil, fmt.Errorf("unknown uri scheme %q", w.Scheme)
	}

	return New(w.HostAddr, w.ExportDir, w.PathFromExportDir, w.MountPoint, scheme), nil
}
