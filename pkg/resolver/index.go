package resolver

import (
	"strings"

	"github.com/marmos91/mountattr/pkg/mounttable"
)

// lookupIndex finds the entry with the longest mount directory prefix of a
// trimmed absolute path (see trimPath).
type lookupIndex interface {
	lookup(clean string) (mounttable.Entry, bool)
}

// truncateIndex probes the table with p, then its parent, and so on up to "/".
type truncateIndex struct {
	table *mounttable.Table
}

func (ix truncateIndex) lookup(clean string) (mounttable.Entry, bool) {
	for dir := clean; ; dir = parentDir(dir) {
		if e, ok := ix.table.Lookup(dir); ok {
			return e, true
		}
		if dir == "/" {
			return mounttable.Entry{}, false
		}
	}
}

type trieNode struct {
	children map[string]*trieNode
	entry    mounttable.Entry
	mounted  bool
}

// trieIndex is a path-component trie over the table keys. Keys that are not
// in trimmed form can never equal a trimmed query and are left out.
type trieIndex struct {
	root *trieNode
}

func newTrieIndex(t *mounttable.Table) *trieIndex {
	ix := &trieIndex{root: &trieNode{}}
	for _, e := range t.Entries() {
		if trimPath(e.DirMaster) != e.DirMaster {
			continue
		}

		n := ix.root
		for _, c := range components(e.DirMaster) {
			child, ok := n.children[c]
			if !ok {
				child = &trieNode{}
				if n.children == nil {
					n.children = make(map[string]*trieNode)
				}
				n.children[c] = child
			}
			n = child
		}
		n.entry = e
		n.mounted = true
	}
	return ix
}

func (ix *trieIndex) lookup(clean string) (mounttable.Entry, bool) {
	var best *trieNode
	n := ix.root
	if n.mounted {
		best = n
	}

	for _, c := range components(clean) {
		n = n.children[c]
		if n == nil {
			break
		}
		if n.mounted {
			best = n
		}
	}

	if best == nil {
		return mounttable.Entry{}, false
	}
	return best.entry, true
}

// components splits a trimmed absolute path; "/" has none.
func components(clean string) []string {
	if clean == "/" {
		return nil
	}
	return strings.Split(strings.TrimPrefix(clean, "/"), "/")
}

// trimPath collapses runs of slashes and drops a trailing slash. Dot and
// dot-dot components are kept verbatim: "/mnt/nfs/../x" is below "/mnt/nfs".
func trimPath(p string) string {
	if !strings.Contains(p, "//") && (len(p) <= 1 || !strings.HasSuffix(p, "/")) {
		return p
	}

	var b strings.Builder
	b.Grow(len(p))
	for i := 0; i < len(p); i++ {
		if p[i] == '/' && i > 0 && p[i-1] == '/' {
			continue
		}
		b.WriteByte(p[i])
	}

	out := b.String()
	if len(out) > 1 {
		out = strings.TrimSuffix(out, "/")
	}
	return out
}

// parentDir drops the last component of a trimmed absolute path, like
// dirname(3) without any cleaning.
func parentDir(p string) string {
	i := strings.LastIndexByte(p, '/')
	if i <= 0 {
		return "/"
	}
	return p[:i]
}
