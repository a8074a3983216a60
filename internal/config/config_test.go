package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, DefaultHostInterface, cfg.HostInterface)
	assert.NoError(t, cfg.Validate())
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.hcl"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadHCL(t *testing.T) {
	src := `
state_dir      = "/tmp/floe-test"
log_level      = "debug"
log_json       = true
host_interface = "ens3"
`
	cfg, err := LoadHCL([]byte(src), "test.hcl")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/floe-test", cfg.StateDir)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.LogJSON)
	assert.Equal(t, "ens3", cfg.HostInterface)
}

func TestLoadHCLBadLevel(t *testing.T) {
	_, err := LoadHCL([]byte(`log_level = "loud"`), "test.hcl")
	assert.Error(t, err)
}

func TestLoadHCLParseError(t *testing.T) {
	_, err := LoadHCL([]byte(`state_dir = `), "test.hcl")
	assert.Error(t, err)
}

func TestLoadJSON(t *testing.T) {
	cfg, err := LoadJSON([]byte(`{"state_dir": "/srv/floe", "log_level": "warn"}`))
	require.NoError(t, err)
	assert.Equal(t, "/srv/floe", cfg.StateDir)
	assert.Equal(t, "warn", cfg.LogLevel)
	// Unset fields keep their defaults
	assert.Equal(t, DefaultHostInterface, cfg.HostInterface)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "floe.hcl")

	want := &Config{
		StateDir:      "/var/lib/floe-alt",
		LogLevel:      "error",
		LogJSON:       true,
		HostInterface: "eth1",
	}
	require.NoError(t, SaveFile(want, path))

	got, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestSaveJSONRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "floe.json")

	want := &Config{StateDir: "/opt/floe", LogLevel: "debug"}
	require.NoError(t, SaveFile(want, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	got, err := LoadJSON(data)
	require.NoError(t, err)
	assert.Equal(t, "/opt/floe", got.StateDir)
	assert.Equal(t, "debug", got.LogLevel)
}

func TestEffectiveStateDir(t *testing.T) {
	t.Setenv("FLOE_STATE_DIR", "")
	t.Setenv("FLOE_PREFIX", "")

	cfg := &Config{StateDir: "/explicit"}
	assert.Equal(t, "/explicit", cfg.EffectiveStateDir())
	assert.Equal(t, "/explicit/vpcs", cfg.VPCDir())
	assert.Equal(t, "/explicit/audit.db", cfg.AuditPath())

	t.Setenv("FLOE_STATE_DIR", "/from-env")
	empty := &Config{}
	assert.Equal(t, "/from-env", empty.EffectiveStateDir())
	// An explicit config value still wins over the environment
	assert.Equal(t, "/explicit", cfg.EffectiveStateDir())
}

func TestEgressInterface(t *testing.T) {
	assert.Equal(t, "eth0", (&Config{}).EgressInterface())
	assert.Equal(t, "wlan0", (&Config{HostInterface: "wlan0"}).EgressInterface())
}

func TestValidateHostInterfaceLength(t *testing.T) {
	cfg := Default()
	cfg.HostInterface = "interface-name-way-too-long"
	assert.Error(t, cfg.Validate())
}
