package netops

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSysctlPath(t *testing.T) {
	assert.Equal(t, "/proc/sys/net/ipv4/ip_forward", sysctlPath("net.ipv4.ip_forward"))
	assert.Equal(t, "/proc/sys/net/ipv4/ip_forward", sysctlPath("/proc/sys/net/ipv4/ip_forward"))
}

func TestReadWriteSysctl(t *testing.T) {
	// Absolute paths pass straight through, so a temp file stands in
	// for a /proc/sys entry.
	path := filepath.Join(t.TempDir(), "ip_forward")
	sys := &RealSystemController{}

	require.NoError(t, sys.WriteSysctl(path, "1"))

	v, err := sys.ReadSysctl(path)
	require.NoError(t, err)
	assert.Equal(t, "1", v)
}

func TestReadSysctlMissing(t *testing.T) {
	sys := &RealSystemController{}
	_, err := sys.ReadSysctl(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}
