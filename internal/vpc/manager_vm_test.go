//go:build linux

package vpc

import (
	"testing"

	"github.com/vishvananda/netlink"

	"grimm.is/floe/internal/store"
	"grimm.is/floe/internal/testutil"
)

// TestManagerLifecycle_Integration exercises the real kernel path:
// bridge, namespace, veth pair, in-namespace exec, teardown.
func TestManagerLifecycle_Integration(t *testing.T) {
	testutil.RequireVM(t)

	st := store.New(t.TempDir())
	m := NewManager(st)

	if _, err := m.Create("floetest", "10.77.0.0/16"); err != nil {
		t.Fatalf("create vpc failed: %v", err)
	}
	defer m.Delete("floetest")

	link, err := netlink.LinkByName("br-floetest")
	if err != nil {
		t.Fatalf("bridge not created: %v", err)
	}
	if _, ok := link.(*netlink.Bridge); !ok {
		t.Fatalf("br-floetest is not a bridge: %T", link)
	}

	if _, err := m.Subnets().Create("floetest", "a", "10.77.1.0/24", SubnetPrivate); err != nil {
		t.Fatalf("create subnet failed: %v", err)
	}

	status, err := m.Subnets().Exec("floetest", "a", []string{"ip", "link", "show", "lo"})
	if err != nil {
		t.Fatalf("exec failed: %v", err)
	}
	if status != 0 {
		t.Errorf("exec exit status = %d, want 0", status)
	}

	if err := m.Delete("floetest"); err != nil {
		t.Fatalf("delete vpc failed: %v", err)
	}
	if _, err := netlink.LinkByName("br-floetest"); err == nil {
		t.Error("bridge still present after delete")
	}
}
