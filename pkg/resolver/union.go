package resolver

import (
	"strings"

	"github.com/marmos91/mountattr/internal/logger"
	"github.com/marmos91/mountattr/pkg/mounterr"
	"github.com/marmos91/mountattr/pkg/mounttable"
)

// maxUnionDepth bounds union-of-union recursion.
const maxUnionDepth = 8

// Branch permissions.
const (
	PermReadWrite   = "rw"
	PermReadOnly    = "ro"
	PermReadReadish = "rr"
)

// UnionBranch is one member of a union mount's branch list.
type UnionBranch struct {
	Path       string
	Permission string
}

// perm strips attribute suffixes such as "+wh" from the permission.
func (b UnionBranch) perm() string {
	p, _, _ := strings.Cut(b.Permission, "+")
	return p
}

// ParseUnionBranches extracts the branch list from a union mount option
// string. The list is the "br:" option, a colon-separated sequence of
// path=permission tokens.
func ParseUnionBranches(options string) ([]UnionBranch, error) {
	var field string
	found := false
	for _, opt := range strings.Split(options, ",") {
		if v, ok := strings.CutPrefix(opt, "br:"); ok {
			field, found = v, true
			break
		}
	}
	if !found {
		return nil, mounterr.New(mounterr.ErrFormat, "union mount has no branch field", options)
	}
	if field == "" {
		return nil, mounterr.New(mounterr.ErrFormat, "union mount branch field is empty", options)
	}

	tokens := strings.Split(field, ":")
	branches := make([]UnionBranch, 0, len(tokens))
	for _, tok := range tokens {
		p, perm, ok := strings.Cut(tok, "=")
		if !ok || p == "" {
			return nil, mounterr.New(mounterr.ErrFormat, "malformed union branch "+tok, options)
		}
		branches = append(branches, UnionBranch{Path: p, Permission: perm})
	}
	return branches, nil
}

// resolveUnionMount classifies p through the branch that serves it. When p
// exists under the rw branch that branch decides; otherwise the first ro or
// rr branch does. The returned entry is the branch's entry with DirMaster
// replaced by the union mount point.
func (r *Resolver) resolveUnionMount(s *snapshot, p string, union mounttable.Entry, depth int) (Locality, mounttable.Entry, error) {
	if depth >= maxUnionDepth {
		return Local, mounttable.Entry{}, mounterr.New(mounterr.ErrFormat, "union mounts nested too deeply", p)
	}

	branches, err := ParseUnionBranches(union.Options)
	if err != nil {
		return Local, mounttable.Entry{}, err
	}
	if len(branches) != 2 {
		logger.Say(component, false, "%s: union mount has %d branches, only one rw and one ro branch are consulted",
			union.DirMaster, len(branches))
	}

	suffix := strings.TrimPrefix(strings.TrimPrefix(trimPath(p), union.DirMaster), "/")

	var rw, ro *UnionBranch
	for i := range branches {
		b := &branches[i]
		switch b.perm() {
		case PermReadWrite:
			if rw == nil {
				rw = b
			}
		case PermReadOnly, PermReadReadish:
			if ro == nil {
				ro = b
			}
		default:
			logger.Say(component, true, "%s: unknown branch permission %q", union.DirMaster, b.Permission)
		}
	}

	active := ro
	if rw != nil && r.exists(branchPath(rw.Path, suffix)) {
		active = rw
	}
	if active == nil {
		return Local, mounttable.Entry{}, mounterr.New(mounterr.ErrFormat, "union mount has no usable branch", union.DirMaster)
	}

	loc, e, err := r.classify(s, active.Path, depth+1)
	if err != nil {
		return Local, mounttable.Entry{}, err
	}
	e.DirMaster = union.DirMaster
	return loc, e, nil
}

// branchPath places suffix below the branch directory without folding dot
// components.
func branchPath(branch, suffix string) string {
	if suffix == "" {
		return branch
	}
	return strings.TrimSuffix(branch, "/") + "/" + suffix
}
