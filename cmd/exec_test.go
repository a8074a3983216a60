package cmd

import "testing"

func TestRunExec_NoCommand(t *testing.T) {
	status, err := RunExec("", "net1", "web", nil)
	if err == nil {
		t.Error("RunExec() error = nil, want usage error")
	}
	if status != 1 {
		t.Errorf("RunExec() status = %d, want 1", status)
	}
}
