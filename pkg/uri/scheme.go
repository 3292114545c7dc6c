// Package uri renders canonical file URIs, one strategy per filesystem family.
package uri

import "github.com/marmos91/mountattr/pkg/fstype"

// Scheme renders a URI from the identity tuple of a file. Implementations
// are stateless and must not perform I/O.
type Scheme interface {
	// Render concatenates the inputs according to the family's rule.
	// mountPoint is part of the contract but no current family uses it.
	Render(host, exportDir, pathFromExportDir, mountPoint string) string

	// Name identifies the scheme (used when encoding origins).
	Name() string
}

// exportScheme renders prefix + host + exportDir + "/" + pathFromExportDir.
// exportDir is expected to start with '/' and pathFromExportDir to be relative.
type exportScheme struct {
	name   string
	prefix string
}

func (s exportScheme) Render(host, exportDir, pathFromExportDir, _ string) string {
	return s.prefix + host + exportDir + "/" + pathFromExportDir
}

func (s exportScheme) Name() string { return s.name }

// pathScheme renders prefix + host + pathFromExportDir; pathFromExportDir is absolute.
type pathScheme struct {
	name   string
	prefix string
}

func (s pathScheme) Render(host, _, pathFromExportDir, _ string) string {
	return s.prefix + host + pathFromExportDir
}

func (s pathScheme) Name() string { return s.name }

var (
	// NFS follows RFC 2224.
	NFS Scheme = exportScheme{name: "nfs", prefix: "nfs://"}

	// Lustre has no standard scheme.
	Lustre Scheme = exportScheme{name: "lustre", prefix: "ah_lustre://"}

	GPFS Scheme = pathScheme{name: "gpfs", prefix: "ah_gpfs://"}

	// PanFS sources are already URI shaped (panfs://addr), so no prefix is added.
	PanFS Scheme = pathScheme{name: "panfs", prefix: ""}

	PLFS Scheme = pathScheme{name: "plfs", prefix: "ah_plfs://"}

	DVS Scheme = pathScheme{name: "dvs", prefix: "ah_dvs://"}

	// CIFS and SMB follow draft-crhertel-smb-url.
	CIFS Scheme = exportScheme{name: "cifs", prefix: "cifs://"}
	SMB  Scheme = exportScheme{name: "smb", prefix: "smb://"}

	// Local follows RFC 1738; host must be the canonical name of the local node.
	Local Scheme = pathScheme{name: "file", prefix: "file://"}
)

var byType = map[fstype.Type]Scheme{
	fstype.NFS:  NFS,
	fstype.NFS4: NFS,
	// A union mount only reaches the factory after it has been classified
	// remote through its branch.
	fstype.AUFS:   NFS,
	fstype.Lustre: Lustre,
	fstype.GPFS:   GPFS,
	fstype.PanFS:  PanFS,
	fstype.PLFS:   PLFS,
	fstype.DVS:    DVS,
	fstype.CIFS:   CIFS,
	fstype.SMBFS:  SMB,
}

var byName = map[string]Scheme{
	NFS.Name():    NFS,
	Lustre.Name(): Lustre,
	GPFS.Name():   GPFS,
	PanFS.Name():  PanFS,
	PLFS.Name():   PLFS,
	DVS.Name():    DVS,
	CIFS.Name():   CIFS,
	SMB.Name():    SMB,
	Local.Name():  Local,
}

// ForType returns the scheme for a filesystem type. Types without a
// dedicated scheme get Local and ok == false; callers building a remote
// origin must treat that as an invariant violation.
func ForType(t fstype.Type) (s Scheme, ok bool) {
	if s, ok := byType[t]; ok {
		return s, true
	}
	return Local, false
}

// ByName returns the scheme registered under name.
func ByName(name string) (Scheme, bool) {
	s, ok := byName[name]
	return s, ok
}
