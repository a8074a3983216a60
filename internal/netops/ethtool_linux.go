//go:build linux
// +build linux

package netops

import (
	"fmt"

	"github.com/safchain/ethtool"
)

// DefaultEthtooler is the default RealEthtooler instance.
var DefaultEthtooler Ethtooler = &RealEthtooler{}

// txOffloadFeatures are the kernel feature names covering TX checksum
// and segmentation offload. Not every kernel exposes all of them.
var txOffloadFeatures = []string{
	"tx-checksum-ip-generic",
	"tx-checksum-ipv4",
	"tx-checksum-ipv6",
	"tx-tcp-segmentation",
	"tx-tcp6-segmentation",
	"tx-generic-segmentation",
}

// RealEthtooler toggles NIC features via the ethtool ioctl interface.
type RealEthtooler struct{}

// DisableTxOffload turns off TX checksum and segmentation offload on
// an interface. Only features the interface actually exposes are
// touched.
func (e *RealEthtooler) DisableTxOffload(iface string) error {
	handle, err := ethtool.NewEthtool()
	if err != nil {
		return fmt.Errorf("failed to open ethtool handle: %w", err)
	}
	defer handle.Close()

	features, err := handle.Features(iface)
	if err != nil {
		return fmt.Errorf("failed to read features for %s: %w", iface, err)
	}

	updates := make(map[string]bool)
	for _, name := range txOffloadFeatures {
		if _, ok := features[name]; ok {
			updates[name] = false
		}
	}
	if len(updates) == 0 {
		return nil
	}

	if err := handle.Change(iface, updates); err != nil {
		return fmt.Errorf("failed to disable TX offload on %s: %w", iface, err)
	}
	return nil
}
