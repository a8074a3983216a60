//go:build !linux
// +build !linux

package firewall

import (
	"fmt"
	"runtime"

	"grimm.is/floe/internal/store"
)

// ErrNotSupported is returned when firewall operations are attempted on non-Linux systems.
var ErrNotSupported = fmt.Errorf("firewall operations not supported on %s", runtime.GOOS)

// Manager handles NAT and filter rules (stub for non-Linux).
type Manager struct{}

// NewManager creates a new firewall manager (stub for non-Linux).
func NewManager(st *store.Store) *Manager {
	return &Manager{}
}

// SetupNAT configures the egress path for a VPC (stub for non-Linux).
func (m *Manager) SetupNAT(vpcName, publicSubnet, hostIface string) error {
	return ErrNotSupported
}

// Apply rebuilds a subnet's filter policy (stub for non-Linux).
func (m *Manager) Apply(vpcName, subnetName, rulesPath string) error {
	return ErrNotSupported
}

// RemoveVPC deletes a VPC's NAT table (stub for non-Linux).
func (m *Manager) RemoveVPC(vpcName string) error {
	return ErrNotSupported
}

// Teardown deletes every NAT table this system owns (stub for non-Linux).
func (m *Manager) Teardown() error {
	return ErrNotSupported
}
