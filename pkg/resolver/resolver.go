// Package resolver answers per-path questions against a mount table: which
// mount entry serves a path, whether the path is backed by a local or a
// remote filesystem, and what globally comparable URI identifies it.
//
// Resolution is a pure string operation over the table keys. Repeated and
// trailing slashes are dropped, but "." and ".." components are matched as
// written and symlinks are not followed; callers must pass canonical paths. The only filesystem
// access is the single existence check used to pick a union mount branch.
//
// A Resolver holds no mutable state of its own and is safe for concurrent use.
package resolver

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/marmos91/mountattr/internal/logger"
	"github.com/marmos91/mountattr/pkg/fstype"
	"github.com/marmos91/mountattr/pkg/metrics"
	"github.com/marmos91/mountattr/pkg/mounterr"
	"github.com/marmos91/mountattr/pkg/mounttable"
	"golang.org/x/sys/unix"
)

const component = "resolver"

// Locality is the outcome of classification.
type Locality int

const (
	Local Locality = iota
	Remote
)

func (l Locality) String() string {
	if l == Remote {
		return "remote"
	}
	return "local"
}

// IndexKind selects the longest-prefix lookup strategy.
type IndexKind int

const (
	// IndexTrie walks a path-component trie built once per table.
	IndexTrie IndexKind = iota
	// IndexTruncate repeatedly truncates the path to its parent directory
	// and probes the table map.
	IndexTruncate
)

// ParseIndexKind maps "trie" or "truncate" to an IndexKind.
func ParseIndexKind(s string) (IndexKind, error) {
	switch strings.ToLower(s) {
	case "", "trie":
		return IndexTrie, nil
	case "truncate":
		return IndexTruncate, nil
	default:
		return IndexTrie, fmt.Errorf("unknown resolver index %q", s)
	}
}

func (k IndexKind) String() string {
	if k == IndexTruncate {
		return "truncate"
	}
	return "trie"
}

// ExistsFunc reports whether path exists.
type ExistsFunc func(path string) bool

// Option configures a Resolver.
type Option func(*Resolver)

// WithMetrics records operation metrics. nil disables metrics.
func WithMetrics(m metrics.ResolverMetrics) Option {
	return func(r *Resolver) { r.metrics = metrics.OrNoop(m) }
}

// WithExistsFunc replaces the existence check used for union branches.
func WithExistsFunc(fn ExistsFunc) Option {
	return func(r *Resolver) {
		if fn != nil {
			r.exists = fn
		}
	}
}

// WithIndex selects the lookup strategy.
func WithIndex(k IndexKind) Option {
	return func(r *Resolver) { r.index = k }
}

// Resolver resolves paths against a fixed table or against whatever table
// a mounttable.Holder currently publishes.
type Resolver struct {
	table   *mounttable.Table
	holder  *mounttable.Holder
	metrics metrics.ResolverMetrics
	exists  ExistsFunc
	index   IndexKind

	snap atomic.Pointer[snapshot]
}

// snapshot pairs a table with the index built from it.
type snapshot struct {
	table *mounttable.Table
	idx   lookupIndex
}

// New returns a Resolver over table.
func New(table *mounttable.Table, opts ...Option) *Resolver {
	r := &Resolver{table: table}
	r.apply(opts)
	return r
}

// NewWithHolder returns a Resolver that always consults the table currently
// published by h. Reloads are picked up on the next call.
func NewWithHolder(h *mounttable.Holder, opts ...Option) *Resolver {
	r := &Resolver{holder: h}
	r.apply(opts)
	return r
}

func (r *Resolver) apply(opts []Option) {
	r.metrics = metrics.NewNoopResolverMetrics()
	r.exists = accessExists
	for _, opt := range opts {
		opt(r)
	}
}

func accessExists(p string) bool {
	return unix.Access(p, unix.F_OK) == nil
}

func (r *Resolver) current() (*snapshot, error) {
	if r == nil {
		return nil, mounterr.New(mounterr.ErrState, "resolver is not initialized", "")
	}

	t := r.table
	if r.holder != nil {
		t = r.holder.Current()
	}
	if t == nil {
		return nil, mounterr.New(mounterr.ErrState, "mount table is not loaded", "")
	}

	if s := r.snap.Load(); s != nil && s.table == t {
		return s, nil
	}

	s := &snapshot{table: t}
	if r.index == IndexTruncate {
		s.idx = truncateIndex{table: t}
	} else {
		s.idx = newTrieIndex(t)
	}
	r.snap.Store(s)
	return s, nil
}

// Table returns the table resolutions currently run against.
func (r *Resolver) Table() (*mounttable.Table, error) {
	s, err := r.current()
	if err != nil {
		return nil, err
	}
	return s.table, nil
}

func checkPath(p string) (string, error) {
	if p == "" {
		return "", mounterr.New(mounterr.ErrInput, "the given path is empty", "")
	}
	if !strings.HasPrefix(p, "/") {
		return "", mounterr.New(mounterr.ErrInput, "the given path is not absolute", p)
	}
	return trimPath(p), nil
}

func (r *Resolver) finish(op string, start time.Time, err error) {
	if r == nil || r.metrics == nil {
		return
	}
	r.metrics.RecordOperation(op, time.Since(start), err)
	if err != nil && logger.Verbose(1) {
		logger.Say(component, true, "%s: %v", op, err)
	}
}

// ResolveMountEntry returns the entry whose mount directory is the longest
// prefix of p, falling back to the root entry.
func (r *Resolver) ResolveMountEntry(p string) (e mounttable.Entry, err error) {
	start := time.Now()
	defer func() { r.finish("resolve", start, err) }()

	s, err := r.current()
	if err != nil {
		return mounttable.Entry{}, err
	}
	return s.resolve(p)
}

func (s *snapshot) resolve(p string) (mounttable.Entry, error) {
	clean, err := checkPath(p)
	if err != nil {
		return mounttable.Entry{}, err
	}

	e, ok := s.idx.lookup(clean)
	if !ok {
		return mounttable.Entry{}, mounterr.New(mounterr.ErrNotFound, "no mount entry found", p)
	}
	return e, nil
}

// Classify reports whether p lives on a remote filesystem, along with the
// entry that decided it. For union mounts the entry is the active branch's
// entry with DirMaster set to the union mount point.
func (r *Resolver) Classify(p string) (loc Locality, e mounttable.Entry, err error) {
	start := time.Now()
	defer func() { r.finish("classify", start, err) }()

	s, err := r.current()
	if err != nil {
		return Local, mounttable.Entry{}, err
	}

	loc, e, err = r.classify(s, p, 0)
	if err == nil {
		r.metrics.RecordClassification(e.FSType, loc.String())
	}
	return loc, e, err
}

func (r *Resolver) classify(s *snapshot, p string, depth int) (Locality, mounttable.Entry, error) {
	e, err := s.resolve(p)
	if err != nil {
		return Local, mounttable.Entry{}, err
	}

	t := e.Type()
	switch {
	case fstype.IsRemote(t):
		return Remote, e, nil
	case t == fstype.AUFS:
		return r.resolveUnionMount(s, p, e, depth)
	default:
		return Local, e, nil
	}
}

// IsRemote reports whether p is served by a remote filesystem.
func (r *Resolver) IsRemote(p string) (bool, mounttable.Entry, error) {
	loc, e, err := r.Classify(p)
	return err == nil && loc == Remote, e, err
}

// IsLocal reports whether p is served by a local device. On error the
// result is false and the error is returned unchanged.
func (r *Resolver) IsLocal(p string) (bool, mounttable.Entry, error) {
	remote, e, err := r.IsRemote(p)
	if err != nil {
		return false, e, err
	}
	return !remote, e, nil
}
