package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "floe.hcl")

	if err := RunConfigInit(path, false); err != nil {
		t.Fatalf("RunConfigInit() error = %v, want nil", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read generated config: %v", err)
	}
	for _, want := range []string{"state_dir", "log_level", "host_interface"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("generated config missing %q", want)
		}
	}

	// A second init must refuse to clobber the file.
	if err := RunConfigInit(path, false); err == nil {
		t.Error("RunConfigInit() on existing file: error = nil, want error")
	}
	if err := RunConfigInit(path, true); err != nil {
		t.Errorf("RunConfigInit(force) error = %v, want nil", err)
	}
}

func TestRunConfigShow(t *testing.T) {
	configPath, _ := writeTestConfig(t)

	if err := RunConfigShow(configPath); err != nil {
		t.Errorf("RunConfigShow() error = %v, want nil", err)
	}
}

func TestRunConfig_Dispatch(t *testing.T) {
	if err := RunConfig(nil); err == nil {
		t.Error("RunConfig(nil) error = nil, want usage error")
	}
	if err := RunConfig([]string{"bogus"}); err == nil {
		t.Error("RunConfig(bogus) error = nil, want error")
	}

	path := filepath.Join(t.TempDir(), "floe.hcl")
	if err := RunConfig([]string{"init", "-file", path}); err != nil {
		t.Errorf("RunConfig(init) error = %v, want nil", err)
	}
}
