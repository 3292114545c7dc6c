package mounttable

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/marmos91/mountattr/internal/logger"
	"github.com/marmos91/mountattr/pkg/fstype"
	"github.com/prometheus/procfs"
	"github.com/shirou/gopsutil/v4/disk"
)

// Default mount table locations.
const (
	ProcMountsPath = "/proc/mounts"
	MtabPath       = "/etc/mtab"
)

// Source produces raw mount entries, in table order.
type Source interface {
	// Name identifies the source in logs and metrics
	Name() string

	// Entries reads the mount entries
	Entries(ctx context.Context) ([]Entry, error)
}

// MntentFile reads an fstab(5)-formatted file such as /proc/mounts or /etc/mtab.
type MntentFile struct {
	Path string
}

func (s MntentFile) Name() string { return s.Path }

func (s MntentFile) Entries(ctx context.Context) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.Path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	return ParseMntent(f, s.Path)
}

// TextSource parses mntent records held in memory. Used by tests and by
// callers that obtained the table by other means.
type TextSource struct {
	Label string
	Text  string
}

func (s TextSource) Name() string {
	if s.Label == "" {
		return "text"
	}
	return s.Label
}

func (s TextSource) Entries(ctx context.Context) ([]Entry, error) {
	return ParseMntent(strings.NewReader(s.Text), s.Name())
}

// MountinfoSource reads /proc/<pid>/mountinfo through procfs. A zero PID
// means the calling process.
type MountinfoSource struct {
	PID int
}

func (s MountinfoSource) Name() string {
	if s.PID == 0 {
		return "/proc/self/mountinfo"
	}
	return fmt.Sprintf("/proc/%d/mountinfo", s.PID)
}

func (s MountinfoSource) Entries(ctx context.Context) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		infos []*procfs.MountInfo
		err   error
	)
	if s.PID == 0 {
		infos, err = procfs.GetMounts()
	} else {
		infos, err = procfs.GetProcMounts(s.PID)
	}
	if err != nil {
		return nil, err
	}

	// procfs splits every option at its first '=' and keeps only the second
	// field, which mangles union branch lists such as br:/rw=rw:/ro=ro.
	// Those are taken from the raw superblock options instead.
	var raw map[int]string
	for _, mi := range infos {
		if fstype.FromName(mi.FSType) == fstype.AUFS {
			if raw, err = readSuperOptions(s.Name()); err != nil {
				logger.Say(component, true, "%s: cannot read raw union options: %v", s.Name(), err)
			}
			break
		}
	}

	entries := make([]Entry, 0, len(infos))
	for _, mi := range infos {
		dir := unescapeOctal(mi.MountPoint)
		entries = append(entries, Entry{
			FSName:    unescapeOctal(mi.Source),
			DirMaster: dir,
			DirBranch: dir,
			FSType:    mi.FSType,
			Options:   joinOptions(mi.Options, mi.SuperOptions, raw[mi.MountID]),
		})
	}
	return entries, nil
}

// readSuperOptions maps mount IDs to the unparsed superblock option field
// of a mountinfo file:
//
//	36 35 98:0 /mnt1 /mnt2 rw,noatime master:1 - ext3 /dev/root rw,errors=continue
func readSuperOptions(path string) (map[int]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	out := make(map[int]string)
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 4096), maxLineSize)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		id, err := strconv.Atoi(fields[0])
		if err != nil {
			continue
		}
		for i, fld := range fields {
			if fld == "-" && i+3 < len(fields) {
				out[id] = fields[i+3]
				break
			}
		}
	}
	return out, scanner.Err()
}

// joinOptions renders per-mount and superblock options as a single
// mntent-style option string. Per-mount options come first; superblock
// options that repeat a key are dropped. A token of rawSuper replaces the
// parsed option with the same key, so values containing '=' survive. Branch
// lists with no raw token are dropped rather than passed on truncated.
func joinOptions(mount, super map[string]string, rawSuper string) string {
	rawByKey := make(map[string]string)
	if rawSuper != "" {
		for _, tok := range strings.Split(rawSuper, ",") {
			k, _, _ := strings.Cut(tok, "=")
			rawByKey[k] = tok
		}
	}

	var parts []string
	seen := make(map[string]bool, len(mount))

	for _, opts := range []map[string]string{mount, super} {
		keys := make([]string, 0, len(opts))
		for k := range opts {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, k := range keys {
			if seen[k] {
				continue
			}
			seen[k] = true
			if tok, ok := rawByKey[k]; ok {
				parts = append(parts, tok)
				continue
			}
			if strings.HasPrefix(k, "br:") {
				continue
			}
			if v := opts[k]; v != "" {
				parts = append(parts, k+"="+v)
			} else {
				parts = append(parts, k)
			}
		}
	}
	return strings.Join(parts, ",")
}

// PartitionsSource lists mounts through gopsutil. With All unset only
// physical devices are returned, which hides network and pseudo filesystems.
type PartitionsSource struct {
	All bool
}

func (s PartitionsSource) Name() string { return "partitions" }

func (s PartitionsSource) Entries(ctx context.Context) ([]Entry, error) {
	parts, err := disk.PartitionsWithContext(ctx, s.All)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(parts))
	for _, p := range parts {
		entries = append(entries, Entry{
			FSName:    p.Device,
			DirMaster: p.Mountpoint,
			DirBranch: p.Mountpoint,
			FSType:    p.Fstype,
			Options:   strings.Join(p.Opts, ","),
		})
	}
	return entries, nil
}
