package resolver

import (
	"strings"
	"time"

	"github.com/marmos91/mountattr/internal/logger"
	"github.com/marmos91/mountattr/pkg/mounterr"
	"github.com/marmos91/mountattr/pkg/origin"
	"github.com/marmos91/mountattr/pkg/uri"
)

// BuildOrigin describes where p physically lives. Remote files are
// identified by the server named in the mount's fsname; local files by the
// table's canonical hostname. Where the origin carries the full path, p is
// used exactly as given.
func (r *Resolver) BuildOrigin(p string) (o *origin.FileOrigin, err error) {
	start := time.Now()
	defer func() { r.finish("origin", start, err) }()

	s, err := r.current()
	if err != nil {
		return nil, err
	}

	loc, e, err := r.classify(s, p, 0)
	if err != nil {
		return nil, err
	}

	if loc == Local {
		if s.table.Hostname == "" {
			return nil, mounterr.New(mounterr.ErrState, "canonical hostname is unavailable", p)
		}
		return origin.New(s.table.Hostname, "", p, e.DirMaster, uri.Local), nil
	}

	host, exportDir, rel, err := splitFSName(e.FSName, p, e.DirMaster)
	if err != nil {
		return nil, err
	}

	scheme, ok := uri.ForType(e.Type())
	if !ok {
		logger.Say(component, true, "remote filesystem %q at %s has no uri scheme, using %s",
			e.FSType, e.DirMaster, scheme.Name())
	}
	return origin.New(host, exportDir, rel, e.DirMaster, scheme), nil
}

// splitFSName applies the host:exportDir convention to fsname.
//
//	server             host=server, path unchanged
//	panfs://10.0.0.1   host=fsname, path unchanged
//	server:/export     host=server, export=/export, path relative to mountPoint
func splitFSName(fsname, p, mountPoint string) (host, exportDir, rel string, err error) {
	i := strings.IndexByte(fsname, ':')
	if i < 0 {
		return fsname, "", p, nil
	}

	rest := fsname[i+1:]
	if rest == "" {
		return "", "", "", mounterr.New(mounterr.ErrFormat, "fsname ends with a bare colon", fsname)
	}
	if strings.HasPrefix(rest, "//") {
		return fsname, "", p, nil
	}
	if i == 0 {
		return "", "", "", mounterr.New(mounterr.ErrFormat, "fsname has an empty host", fsname)
	}

	trimmed := trimPath(p)
	if !strings.HasPrefix(trimmed, mountPoint) {
		return "", "", "", mounterr.New(mounterr.ErrFormat, "path is not under its mount point "+mountPoint, p)
	}
	rel = trimmed[len(mountPoint):]
	if !strings.HasSuffix(mountPoint, "/") {
		rel = strings.TrimPrefix(rel, "/")
	}

	return fsname[:i], rest, rel, nil
}
