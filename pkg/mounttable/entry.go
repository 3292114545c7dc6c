package mounttable

import (
	"strings"

	"github.com/marmos91/mountattr/pkg/fstype"
)

// Entry is one record of the mount table.
type Entry struct {
	// FSName is the device or server for the filesystem (e.g. "host:/export")
	FSName string

	// DirMaster is the canonical directory the filesystem is mounted on
	DirMaster string

	// DirBranch is the real directory backing DirMaster. It differs from
	// DirMaster only for entries produced by union mount resolution, where it
	// points to the branch mount hidden below the union.
	DirBranch string

	// FSType is the filesystem type string (e.g. "nfs", "ext4")
	FSType string

	// Options is the comma-separated mount option string
	Options string

	// DumpFrequency is the dump frequency in days
	DumpFrequency int

	// FsckPass is the fsck pass number
	FsckPass int
}

// Equal reports structural equality over all fields.
func (e Entry) Equal(other Entry) bool {
	return e == other
}

// RealMountPointDir returns the directory that physically backs the entry.
func (e Entry) RealMountPointDir() string {
	return e.DirBranch
}

// Type maps FSType through the filesystem type registry.
func (e Entry) Type() fstype.Type {
	return fstype.FromName(e.FSType)
}

// Option returns the value of a mount option. Flag options (no '=') return
// an empty value and ok == true.
func (e Entry) Option(key string) (value string, ok bool) {
	for _, opt := range strings.Split(e.Options, ",") {
		k, v, _ := strings.Cut(opt, "=")
		if k == key {
			return v, true
		}
	}
	return "", false
}
