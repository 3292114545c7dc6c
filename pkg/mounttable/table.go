package mounttable

import (
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/marmos91/mountattr/internal/logger"
	"github.com/marmos91/mountattr/pkg/fstype"
)

const component = "mounttable"

// Table maps mount directories to entries.
//
// A Table is immutable once built: concurrent readers need no locking.
// Reloading produces a new Table (see Holder); a Table is never mutated in place.
type Table struct {
	// ID identifies this load generation
	ID uuid.UUID

	// Hostname is the canonical name of the local node, resolved at load
	// time. Empty when resolution failed.
	Hostname string

	// Source names the location the entries were read from
	Source string

	entries map[string]Entry
}

// NewTable builds a table from entries in order, applying the duplicate
// mount point policy.
func NewTable(hostname string, entries ...Entry) *Table {
	return buildTable(hostname, "", entries)
}

func buildTable(hostname, source string, entries []Entry) *Table {
	t := &Table{
		ID:       uuid.New(),
		Hostname: hostname,
		Source:   source,
		entries:  make(map[string]Entry, len(entries)),
	}
	for _, e := range entries {
		t.insert(e)
	}
	return t
}

// insert adds e keyed by its DirMaster. On a duplicate key a root-type
// entry is overwritten (filesystems are commonly stacked on rootfs, which
// therefore has to appear first); any other existing entry wins and e is
// dropped.
func (t *Table) insert(e Entry) bool {
	if !strings.HasPrefix(e.DirMaster, "/") {
		logger.Say(component, true, "ignoring mount entry with non-absolute directory %q", e.DirMaster)
		return false
	}
	if e.DirBranch == "" {
		e.DirBranch = e.DirMaster
	}

	if existing, ok := t.entries[e.DirMaster]; ok {
		if fstype.FromName(existing.FSType) != fstype.RootFS {
			if logger.Verbose(1) {
				logger.Say(component, false, "%s: double mount point entries, ignoring: %s: %s",
					t.Hostname, t.Source, e.DirMaster)
			}
			return false
		}
		if logger.Verbose(1) {
			logger.Say(component, false, "an entry rootfs is about to be replaced with %s", e.FSType)
		}
	}

	t.entries[e.DirMaster] = e
	return true
}

// Lookup returns the entry mounted exactly at dir.
func (t *Table) Lookup(dir string) (Entry, bool) {
	e, ok := t.entries[dir]
	return e, ok
}

// Len returns the number of mount points.
func (t *Table) Len() int {
	return len(t.entries)
}

// Dirs returns all mount directories, sorted.
func (t *Table) Dirs() []string {
	dirs := make([]string, 0, len(t.entries))
	for d := range t.entries {
		dirs = append(dirs, d)
	}
	sort.Strings(dirs)
	return dirs
}

// Entries returns a copy of all entries sorted by mount directory.
func (t *Table) Entries() []Entry {
	out := make([]Entry, 0, len(t.entries))
	for _, d := range t.Dirs() {
		out = append(out, t.entries[d])
	}
	return out
}
