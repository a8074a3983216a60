package cmd

import (
	"path/filepath"
	"testing"

	"grimm.is/floe/internal/audit"
)

func TestRunAudit_Empty(t *testing.T) {
	configPath, _ := writeTestConfig(t)

	if err := RunAudit(configPath, 20, 0); err != nil {
		t.Errorf("RunAudit() error = %v, want nil", err)
	}
}

func TestRunAudit_ListsAndPrunes(t *testing.T) {
	configPath, stateDir := writeTestConfig(t)

	j, err := audit.Open(filepath.Join(stateDir, "audit.db"))
	if err != nil {
		t.Fatalf("failed to open journal: %v", err)
	}
	if err := j.Record(audit.Event{Op: "create-vpc", VPC: "net1", Detail: "10.0.0.0/16"}); err != nil {
		t.Fatalf("failed to record event: %v", err)
	}
	if err := j.Record(audit.Event{Op: "delete-vpc", VPC: "net1", Status: 1}); err != nil {
		t.Fatalf("failed to record event: %v", err)
	}
	j.Close()

	if err := RunAudit(configPath, 1, 0); err != nil {
		t.Errorf("RunAudit() error = %v, want nil", err)
	}
	if err := RunAudit(configPath, 20, 7); err != nil {
		t.Errorf("RunAudit() prune error = %v, want nil", err)
	}
}
