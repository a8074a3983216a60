package testutil

import (
	"os"
	"testing"
)

// RequireVM skips the test if the FLOE_VM_TEST environment variable is
// not set. This ensures that tests requiring real kernel capabilities
// (namespaces, bridges, nftables) are only run in the proper
// environment, as root.
func RequireVM(t *testing.T) {
	t.Helper()
	if os.Getenv("FLOE_VM_TEST") == "" {
		t.Skip("Skipping test: requires FLOE_VM_TEST environment")
	}
	if os.Geteuid() != 0 {
		t.Skip("Skipping test: requires root")
	}
}
