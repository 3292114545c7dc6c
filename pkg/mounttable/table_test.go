package mounttable

import (
	"io"
	"os"
	"testing"

	"github.com/marmos91/mountattr/internal/logger"
	"github.com/marmos91/mountattr/pkg/fstype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func TestNewTableRootfsIsReplaced(t *testing.T) {
	table := NewTable("node1",
		Entry{FSName: "rootfs", DirMaster: "/", FSType: "rootfs"},
		Entry{FSName: "/dev/sda1", DirMaster: "/", FSType: "ext4"},
	)

	e, ok := table.Lookup("/")
	require.True(t, ok)
	assert.Equal(t, "ext4", e.FSType)
	assert.Equal(t, 1, table.Len())
}

func TestNewTableFirstNonRootEntryWins(t *testing.T) {
	table := NewTable("node1",
		Entry{FSName: "/dev/sda1", DirMaster: "/data", FSType: "ext4"},
		Entry{FSName: "server:/x", DirMaster: "/data", FSType: "nfs"},
		Entry{FSName: "rootfs", DirMaster: "/data", FSType: "rootfs"},
	)

	e, ok := table.Lookup("/data")
	require.True(t, ok)
	assert.Equal(t, "/dev/sda1", e.FSName)
}

func TestNewTableDefaultsAndRejects(t *testing.T) {
	table := NewTable("",
		Entry{FSName: "a", DirMaster: "relative", FSType: "ext4"},
		Entry{FSName: "b", DirMaster: "/b", FSType: "ext4"},
	)

	assert.Equal(t, 1, table.Len())
	e, ok := table.Lookup("/b")
	require.True(t, ok)
	assert.Equal(t, "/b", e.DirBranch)
	assert.Equal(t, "/b", e.RealMountPointDir())
	assert.NotEqual(t, table.ID, NewTable("").ID)
}

func TestTableOrdering(t *testing.T) {
	table := NewTable("n",
		Entry{DirMaster: "/z", FSType: "ext4"},
		Entry{DirMaster: "/a", FSType: "ext4"},
		Entry{DirMaster: "/", FSType: "ext4"},
	)

	assert.Equal(t, []string{"/", "/a", "/z"}, table.Dirs())
	entries := table.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, "/a", entries[1].DirMaster)
}

func TestEntryAccessors(t *testing.T) {
	e := Entry{FSType: "nfs4", Options: "rw,vers=4.1,br:/a=rw:/b=ro"}

	assert.Equal(t, fstype.NFS4, e.Type())

	v, ok := e.Option("vers")
	assert.True(t, ok)
	assert.Equal(t, "4.1", v)

	v, ok = e.Option("rw")
	assert.True(t, ok)
	assert.Empty(t, v)

	v, ok = e.Option("br:/a")
	assert.True(t, ok)
	assert.Equal(t, "rw:/b=ro", v)

	_, ok = e.Option("ro")
	assert.False(t, ok)

	assert.True(t, e.Equal(e))
	assert.False(t, e.Equal(Entry{}))
}
