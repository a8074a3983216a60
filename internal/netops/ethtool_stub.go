//go:build !linux
// +build !linux

package netops

// DefaultEthtooler is the default RealEthtooler instance (stub).
var DefaultEthtooler Ethtooler = &RealEthtooler{}

// RealEthtooler is a stub implementation of Ethtooler.
type RealEthtooler struct{}

func (e *RealEthtooler) DisableTxOffload(iface string) error {
	return nil
}
