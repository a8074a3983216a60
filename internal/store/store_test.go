package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPutGet(t *testing.T) {
	s := New(t.TempDir())

	require.NoError(t, s.Put("net1", "CIDR", "10.5.0.0/16"))
	require.NoError(t, s.Put("net1", "BRIDGE", "br-net1"))

	v, ok := s.Get("net1", "CIDR")
	assert.True(t, ok)
	assert.Equal(t, "10.5.0.0/16", v)

	v, ok = s.Get("net1", "BRIDGE")
	assert.True(t, ok)
	assert.Equal(t, "br-net1", v)
}

func TestPutReplacesInPlace(t *testing.T) {
	s := New(t.TempDir())

	require.NoError(t, s.Put("net1", "SUBNETS", "a"))
	require.NoError(t, s.Put("net1", "CIDR", "10.5.0.0/16"))
	require.NoError(t, s.Put("net1", "SUBNETS", "a,b"))

	v, ok := s.Get("net1", "SUBNETS")
	assert.True(t, ok)
	assert.Equal(t, "a,b", v)

	// Replacement keeps line position, no duplicate keys
	data, err := os.ReadFile(filepath.Join(s.Dir(), "net1.conf"))
	require.NoError(t, err)
	assert.Equal(t, "SUBNETS=a,b\nCIDR=10.5.0.0/16\n", string(data))
}

func TestGetAbsent(t *testing.T) {
	s := New(t.TempDir())

	// Missing record
	v, ok := s.Get("nope", "CIDR")
	assert.False(t, ok)
	assert.Empty(t, v)

	// Missing key in existing record
	require.NoError(t, s.Put("net1", "CIDR", "10.0.0.0/16"))
	v, ok = s.Get("net1", "GATEWAY")
	assert.False(t, ok)
	assert.Empty(t, v)
}

func TestGetDistinguishesKeyPrefixes(t *testing.T) {
	s := New(t.TempDir())

	require.NoError(t, s.Put("net1", "SUBNET_a_CIDR", "10.5.1.0/24"))
	require.NoError(t, s.Put("net1", "SUBNET_ab_CIDR", "10.5.2.0/24"))

	v, ok := s.Get("net1", "SUBNET_a_CIDR")
	assert.True(t, ok)
	assert.Equal(t, "10.5.1.0/24", v)
}

func TestExists(t *testing.T) {
	s := New(t.TempDir())
	assert.False(t, s.Exists("net1"))

	require.NoError(t, s.Put("net1", "CIDR", "10.0.0.0/16"))
	assert.True(t, s.Exists("net1"))
}

func TestUnset(t *testing.T) {
	s := New(t.TempDir())
	require.NoError(t, s.Put("net1", "CIDR", "10.0.0.0/16"))
	require.NoError(t, s.Put("net1", "GATEWAY", "10.0.0.1"))

	require.NoError(t, s.Unset("net1", "GATEWAY"))
	_, ok := s.Get("net1", "GATEWAY")
	assert.False(t, ok)

	// Other keys survive
	v, ok := s.Get("net1", "CIDR")
	assert.True(t, ok)
	assert.Equal(t, "10.0.0.0/16", v)

	// Unsetting an absent key is a no-op
	require.NoError(t, s.Unset("net1", "GATEWAY"))
}

func TestUnsetPrefix(t *testing.T) {
	s := New(t.TempDir())
	require.NoError(t, s.Put("net1", "CIDR", "10.0.0.0/16"))
	require.NoError(t, s.Put("net1", "SUBNET_a_CIDR", "10.0.1.0/24"))
	require.NoError(t, s.Put("net1", "SUBNET_a_TYPE", "public"))
	require.NoError(t, s.Put("net1", "SUBNET_b_CIDR", "10.0.2.0/24"))

	require.NoError(t, s.UnsetPrefix("net1", "SUBNET_a_"))

	_, ok := s.Get("net1", "SUBNET_a_CIDR")
	assert.False(t, ok)
	_, ok = s.Get("net1", "SUBNET_a_TYPE")
	assert.False(t, ok)

	v, ok := s.Get("net1", "SUBNET_b_CIDR")
	assert.True(t, ok)
	assert.Equal(t, "10.0.2.0/24", v)
	v, ok = s.Get("net1", "CIDR")
	assert.True(t, ok)
	assert.Equal(t, "10.0.0.0/16", v)
}

func TestDelete(t *testing.T) {
	s := New(t.TempDir())
	require.NoError(t, s.Put("net1", "CIDR", "10.0.0.0/16"))

	require.NoError(t, s.Delete("net1"))
	assert.False(t, s.Exists("net1"))

	// Second delete reports a missing record
	assert.ErrorIs(t, s.Delete("net1"), ErrNotFound)
}

func TestList(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "vpcs"))

	// Absent store directory means no VPCs
	names, err := s.List()
	require.NoError(t, err)
	assert.Empty(t, names)

	require.NoError(t, s.Put("net2", "CIDR", "10.2.0.0/16"))
	require.NoError(t, s.Put("net1", "CIDR", "10.1.0.0/16"))

	names, err = s.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"net1", "net2"}, names)
}

func TestListSkipsForeignFiles(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)
	require.NoError(t, s.Put("net1", "CIDR", "10.1.0.0/16"))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "net2.conf.tmp"), []byte("CIDR=x\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README"), []byte("not a record\n"), 0644))

	names, err := s.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"net1"}, names)
}

func TestPutSurvivesReload(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)
	require.NoError(t, s.Put("net1", "CIDR", "10.5.0.0/16"))

	// A fresh Store over the same directory sees the same data
	s2 := New(dir)
	v, ok := s2.Get("net1", "CIDR")
	assert.True(t, ok)
	assert.Equal(t, "10.5.0.0/16", v)
}
