package resolver

import (
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/marmos91/mountattr/internal/logger"
	"github.com/marmos91/mountattr/pkg/mounterr"
	"github.com/marmos91/mountattr/pkg/mounttable"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func fixtureTable() *mounttable.Table {
	return mounttable.NewTable("node1.example.com",
		mounttable.Entry{FSName: "rootfs", DirMaster: "/", FSType: "rootfs"},
		mounttable.Entry{FSName: "/dev/sda1", DirMaster: "/", FSType: "ext4", Options: "rw"},
		mounttable.Entry{FSName: "proc", DirMaster: "/proc", FSType: "proc"},
		mounttable.Entry{FSName: "host:/export", DirMaster: "/mnt", FSType: "nfs"},
		mounttable.Entry{FSName: "host:/export/deep", DirMaster: "/mnt/sub/deep", FSType: "nfs4"},
		mounttable.Entry{FSName: "myfs", DirMaster: "/gpfs", FSType: "gpfs"},
		mounttable.Entry{FSName: "panfs://10.1.1.1", DirMaster: "/panfs", FSType: "panfs"},
		mounttable.Entry{FSName: "broken:", DirMaster: "/broken", FSType: "lustre"},
		mounttable.Entry{FSName: ":/nohost", DirMaster: "/nohost", FSType: "cifs"},
		mounttable.Entry{FSName: "/dev/sdc1", DirMaster: "/local/rw", FSType: "xfs"},
		mounttable.Entry{FSName: "none", DirMaster: "/union", FSType: "aufs",
			Options: "rw,relatime,br:/local/rw=rw:/mnt/ro=ro"},
	)
}

func TestResolveMountEntryLongestPrefix(t *testing.T) {
	r := New(fixtureTable())

	tests := []struct {
		path string
		want string
	}{
		{"/", "/"},
		{"/etc/passwd", "/"},
		{"/proc", "/proc"},
		{"/proc/1/status", "/proc"},
		{"/mnt", "/mnt"},
		{"/mnt/sub/file", "/mnt"},
		{"/mnt/sub/deep", "/mnt/sub/deep"},
		{"/mnt/sub/deep/x/y", "/mnt/sub/deep"},
		{"/mnt/sub/deeper", "/mnt"},
		{"/mntx/file", "/"},
		{"/nonexistence/x/y", "/"},
		{"/mnt//sub/deep/", "/mnt/sub/deep"},
		{"/mnt/sub/./deep", "/mnt"},
		{"/mnt/sub/deep/../x", "/mnt/sub/deep"},
		{"/proc/../etc/passwd", "/proc"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			e, err := r.ResolveMountEntry(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, e.DirMaster)
		})
	}
}

func TestResolveRootReplacesRootfs(t *testing.T) {
	e, err := New(fixtureTable()).ResolveMountEntry("/tmp/file")
	require.NoError(t, err)
	assert.Equal(t, "ext4", e.FSType)
}

func TestResolveIsIdempotent(t *testing.T) {
	r := New(fixtureTable())

	first, err := r.ResolveMountEntry("/mnt/sub/file")
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := r.ResolveMountEntry("/mnt/sub/file")
		require.NoError(t, err)
		assert.True(t, first.Equal(again))
	}
}

func TestInvalidPathIsInputErrorEverywhere(t *testing.T) {
	r := New(fixtureTable())

	for _, p := range []string{"", "./invalid", "relative/path"} {
		_, err := r.ResolveMountEntry(p)
		assert.True(t, mounterr.Is(err, mounterr.ErrInput), "resolve %q", p)

		_, _, err = r.Classify(p)
		assert.True(t, mounterr.Is(err, mounterr.ErrInput), "classify %q", p)

		_, _, err = r.IsRemote(p)
		assert.True(t, mounterr.Is(err, mounterr.ErrInput), "isRemote %q", p)

		local, _, err := r.IsLocal(p)
		assert.False(t, local)
		assert.True(t, mounterr.Is(err, mounterr.ErrInput), "isLocal %q", p)

		_, err = r.BuildOrigin(p)
		assert.True(t, mounterr.Is(err, mounterr.ErrInput), "origin %q", p)
	}
}

func TestMissingRootIsNotFound(t *testing.T) {
	r := New(mounttable.NewTable("n", mounttable.Entry{DirMaster: "/data", FSType: "ext4"}))

	_, err := r.ResolveMountEntry("/etc/hosts")
	assert.True(t, mounterr.Is(err, mounterr.ErrNotFound))

	e, err := r.ResolveMountEntry("/data/x")
	require.NoError(t, err)
	assert.Equal(t, "/data", e.DirMaster)
}

func TestUnloadedTableIsStateError(t *testing.T) {
	_, err := New(nil).ResolveMountEntry("/x")
	assert.True(t, mounterr.Is(err, mounterr.ErrState))

	var nilResolver *Resolver
	_, err = nilResolver.ResolveMountEntry("/x")
	assert.True(t, mounterr.Is(err, mounterr.ErrState))

	_, err = NewWithHolder(mounttable.NewHolder(nil)).BuildOrigin("/x")
	assert.True(t, mounterr.Is(err, mounterr.ErrState))
}

func TestHardlinksResolveToSameEntry(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a")
	b := filepath.Join(dir, "sub", "b")
	require.NoError(t, os.WriteFile(a, []byte("x"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))
	if err := os.Link(a, b); err != nil {
		t.Skipf("hardlinks unsupported: %v", err)
	}

	ia, err := os.Stat(a)
	require.NoError(t, err)
	ib, err := os.Stat(b)
	require.NoError(t, err)
	require.True(t, os.SameFile(ia, ib))

	table := mounttable.NewTable("n",
		mounttable.Entry{FSName: "/dev/sda1", DirMaster: "/", FSType: "ext4"},
		mounttable.Entry{FSName: "/dev/sdb1", DirMaster: dir, FSType: "xfs"},
	)
	for _, kind := range []IndexKind{IndexTrie, IndexTruncate} {
		r := New(table, WithIndex(kind))
		ea, err := r.ResolveMountEntry(a)
		require.NoError(t, err)
		eb, err := r.ResolveMountEntry(b)
		require.NoError(t, err)
		assert.True(t, ea.Equal(eb), kind.String())
		assert.Equal(t, dir, ea.DirMaster)
	}
}

func TestHolderReloadIsPickedUp(t *testing.T) {
	h := mounttable.NewHolder(fixtureTable())
	r := NewWithHolder(h)

	e, err := r.ResolveMountEntry("/mnt/file")
	require.NoError(t, err)
	assert.Equal(t, "/mnt", e.DirMaster)

	h.Store(mounttable.NewTable("n", mounttable.Entry{DirMaster: "/", FSType: "xfs"}))

	e, err = r.ResolveMountEntry("/mnt/file")
	require.NoError(t, err)
	assert.Equal(t, "/", e.DirMaster)
	assert.Equal(t, "xfs", e.FSType)
}

func TestConcurrentResolution(t *testing.T) {
	r := New(fixtureTable())

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				e, err := r.ResolveMountEntry("/mnt/sub/deep/f")
				assert.NoError(t, err)
				assert.Equal(t, "/mnt/sub/deep", e.DirMaster)
			}
		}()
	}
	wg.Wait()
}

func TestParseIndexKind(t *testing.T) {
	k, err := ParseIndexKind("truncate")
	require.NoError(t, err)
	assert.Equal(t, IndexTruncate, k)

	k, err = ParseIndexKind("")
	require.NoError(t, err)
	assert.Equal(t, IndexTrie, k)

	_, err = ParseIndexKind("btree")
	assert.Error(t, err)
}

type recordingMetrics struct {
	mu     sync.Mutex
	ops    map[string]int
	errors int
	locs   map[string]int
}

func (m *recordingMetrics) RecordOperation(op string, d time.Duration, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ops[op]++
	if err != nil {
		m.errors++
	}
}

func (m *recordingMetrics) RecordClassification(fsType, locality string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.locs[fsType+"/"+locality]++
}

func (m *recordingMetrics) RecordTableLoad(string, int, error) {}

func TestMetricsAreRecorded(t *testing.T) {
	m := &recordingMetrics{ops: map[string]int{}, locs: map[string]int{}}
	r := New(fixtureTable(), WithMetrics(m))

	_, _ = r.ResolveMountEntry("/mnt/x")
	_, _, _ = r.Classify("/mnt/x")
	_, _, _ = r.Classify("/tmp")
	_, _ = r.BuildOrigin("relative")

	assert.Equal(t, 1, m.ops["resolve"])
	assert.Equal(t, 2, m.ops["classify"])
	assert.Equal(t, 1, m.ops["origin"])
	assert.Equal(t, 1, m.errors)
	assert.Equal(t, 1, m.locs["nfs/remote"])
	assert.Equal(t, 1, m.locs["ext4/local"])
}
