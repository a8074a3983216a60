package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"grimm.is/floe/internal/store"
)

// writeTestConfig writes a config file pointing the state dir at a
// temp directory and returns the config path and the state dir.
func writeTestConfig(t *testing.T) (string, string) {
	t.Helper()
	stateDir := t.TempDir()
	configPath := filepath.Join(t.TempDir(), "floe.hcl")
	content := "state_dir = \"" + stateDir + "\"\n"
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return configPath, stateDir
}

func TestRunListVPCs_Empty(t *testing.T) {
	configPath, _ := writeTestConfig(t)

	if err := RunListVPCs(configPath); err != nil {
		t.Errorf("RunListVPCs() error = %v, want nil", err)
	}
}

func TestRunListVPCs_WithRecords(t *testing.T) {
	configPath, stateDir := writeTestConfig(t)

	st := store.New(filepath.Join(stateDir, "vpcs"))
	for k, v := range map[string]string{
		"CIDR":            "10.0.0.0/16",
		"GATEWAY":         "10.0.0.1",
		"SUBNETS":         "web",
		"SUBNET_web_CIDR": "10.0.1.0/24",
		"SUBNET_web_TYPE": "public",
	} {
		if err := st.Put("net1", k, v); err != nil {
			t.Fatalf("failed to seed record: %v", err)
		}
	}

	if err := RunListVPCs(configPath); err != nil {
		t.Errorf("RunListVPCs() error = %v, want nil", err)
	}
}

func TestRunListVPCs_BadConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "floe.hcl")
	if err := os.WriteFile(configPath, []byte("state_dir = {"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	if err := RunListVPCs(configPath); err == nil {
		t.Error("RunListVPCs() error = nil, want parse error")
	}
}
