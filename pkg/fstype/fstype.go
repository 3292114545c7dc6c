// Package fstype maps filesystem type names found in the mount table to a
// closed enumeration and to relative performance weights.
//
// The table is compiled in. Supporting a new filesystem family means adding
// a constant, a row in registry, and (if it is served remotely) a case in
// IsRemote and in the uri package's scheme factory.
package fstype

// Type enumerates the filesystem families the resolver knows about.
type Type int

const (
	NFS        Type = iota // network file system v3, remote
	NFS4                   // network file system v4, remote
	Lustre                 // parallel file system, remote
	GPFS                   // parallel file system, remote
	PanFS                  // Panasas, remote
	PLFS                   // PLFS checkpoint file system (FUSE), remote
	CIFS                   // common internet file system, remote
	SMBFS                  // server message block, remote
	DVS                    // Cray data virtualization service, remote
	Ext                    // local disk
	Ext2                   // local disk
	Ext3                   // local disk
	Ext4                   // local disk
	JFS                    // local disk
	XFS                    // local disk
	ReiserFS               // local disk
	HPFS                   // local disk
	ISO9660                // local optical media
	AUFS                   // union file system, locality depends on the active branch
	RamFS                  // memory
	TmpFS                  // memory
	RootFS                 // memory, other filesystems are usually overlaid on it
	Proc                   // memory
	FuseCtl                // memory
	SysFS                  // memory
	USBFS                  // usb memory
	DebugFS                // memory
	DevPts                 // memory
	SecurityFS             // memory
	BinfmtMisc             // memory
	CPUSet                 // memory
	RPCPipeFS              // memory
	AutoFS                 // automount root, memory
	SELinux                // pseudo file system, memory
	NFSD                   // /proc/fs/nfsd pseudo file system, memory
	Cgroup                 // memory
	Unknown                // catch all
)

const (
	// BaseSpeed is the unit of the speed weight.
	BaseSpeed = 1

	// BaseScalability is the unit of the scalability weight.
	BaseScalability = 1

	// Indirection marks weights that depend on another filesystem (the active
	// branch of a union mount) rather than on a fixed constant.
	Indirection = -1
)

type info struct {
	t           Type
	speed       int
	scalability int
	name        string
}

// registry is indexed by Type; lookups verify the row's t field.
var registry = [...]info{
	{NFS, BaseSpeed, BaseScalability, "nfs"},
	{NFS4, BaseSpeed, BaseScalability, "nfs4"},
	{Lustre, BaseSpeed, 6 * BaseScalability, "lustre"},
	{GPFS, BaseSpeed, 6 * BaseScalability, "gpfs"},
	{PanFS, BaseSpeed, 6 * BaseScalability, "panfs"},
	{PLFS, BaseSpeed, BaseScalability, "plfs"},
	{CIFS, BaseSpeed, BaseScalability, "cifs"},
	{SMBFS, BaseSpeed, BaseScalability, "smbfs"},
	{DVS, BaseSpeed, 2 * BaseScalability, "dvs"},
	{Ext, 2 * BaseSpeed, BaseScalability, "ext"},
	{Ext2, 2 * BaseSpeed, BaseScalability, "ext2"},
	{Ext3, 2 * BaseSpeed, BaseScalability, "ext3"},
	{Ext4, 2 * BaseSpeed, BaseScalability, "ext4"},
	{JFS, 2 * BaseSpeed, BaseScalability, "jfs"},
	{XFS, 2 * BaseSpeed, BaseScalability, "xfs"},
	{ReiserFS, 2 * BaseSpeed, BaseScalability, "reiserfs"},
	{HPFS, 2 * BaseSpeed, BaseScalability, "hpfs"},
	{ISO9660, 2 * BaseSpeed, BaseScalability, "iso9660"},
	{AUFS, Indirection, Indirection, "aufs"},
	{RamFS, 10 * BaseSpeed, BaseScalability, "ramfs"},
	{TmpFS, 10 * BaseSpeed, BaseScalability, "tmpfs"},
	{RootFS, 10 * BaseSpeed, BaseScalability, "rootfs"},
	{Proc, 10 * BaseSpeed, BaseScalability, "proc"},
	{FuseCtl, 2 * BaseSpeed, BaseScalability, "fusectl"},
	{SysFS, 10 * BaseSpeed, BaseScalability, "sysfs"},
	{USBFS, 5 * BaseSpeed, BaseScalability, "usbfs"},
	{DebugFS, 10 * BaseSpeed, BaseScalability, "debugfs"},
	{DevPts, 10 * BaseSpeed, BaseScalability, "devpts"},
	{SecurityFS, 10 * BaseSpeed, BaseScalability, "securityfs"},
	{BinfmtMisc, 10 * BaseSpeed, BaseScalability, "binfmt_misc"},
	{CPUSet, 10 * BaseSpeed, BaseScalability, "cpuset"},
	{RPCPipeFS, 10 * BaseSpeed, BaseScalability, "rpc_pipefs"},
	{AutoFS, 10 * BaseSpeed, BaseScalability, "autofs"},
	{SELinux, 10 * BaseSpeed, BaseScalability, "selinux"},
	{NFSD, 10 * BaseSpeed, BaseScalability, "nfsd"},
	{Cgroup, 10 * BaseSpeed, BaseScalability, "cgroup"},
	{Unknown, BaseSpeed, BaseScalability, "unknown"},
}

// byName maps mount table type strings to types. Most match the registry
// name; PLFS is mounted through FUSE and shows up as "fuse.plfs".
var byName = func() map[string]Type {
	m := make(map[string]Type, len(registry))
	for _, row := range registry {
		if row.t == Unknown || row.t == PLFS {
			continue
		}
		m[row.name] = row.t
	}
	m["fuse.plfs"] = PLFS
	return m
}()

func lookup(t Type) (info, bool) {
	if t < 0 || int(t) >= len(registry) || registry[t].t != t {
		return info{}, false
	}
	return registry[t], true
}

// FromName resolves a mount table type string. Unmapped names yield Unknown.
func FromName(name string) Type {
	if t, ok := byName[name]; ok {
		return t
	}
	return Unknown
}

// Valid reports whether t is a member of the enumeration.
func (t Type) Valid() bool {
	_, ok := lookup(t)
	return ok
}

// Name returns the registry name of t, or "" if t is invalid.
func Name(t Type) string {
	row, _ := lookup(t)
	return row.name
}

// Speed returns the speed weight of t, or 0 if t is invalid.
func Speed(t Type) int {
	row, _ := lookup(t)
	return row.speed
}

// Scalability returns the scalability weight of t, or 0 if t is invalid.
func Scalability(t Type) int {
	row, _ := lookup(t)
	return row.scalability
}

func (t Type) String() string {
	if name := Name(t); name != "" {
		return name
	}
	return "invalid"
}

// IsRemote reports whether t is a network or parallel filesystem served by
// another host. AUFS is not remote by itself; its locality comes from the
// branch that backs a given file.
func IsRemote(t Type) bool {
	switch t {
	case NFS, NFS4, Lustre, GPFS, PanFS, PLFS, DVS, CIFS, SMBFS:
		return true
	default:
		return false
	}
}

// EffectiveWeights returns speed and scalability for t, substituting the
// weights of active when t carries the Indirection sentinel.
func EffectiveWeights(t, active Type) (speed, scalability int) {
	speed, scalability = Speed(t), Scalability(t)
	if speed == Indirection || scalability == Indirection {
		if active == t {
			return 0, 0
		}
		return Speed(active), Scalability(active)
	}
	return speed, scalability
}

// All returns every valid type in enumeration order.
func All() []Type {
	out := make([]Type, 0, len(registry))
	for _, row := range registry {
		out = append(out, row.t)
	}
	return out
}
