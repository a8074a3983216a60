package vpc

import (
	"fmt"
	"iter"

	"github.com/vishvananda/netlink"

	"grimm.is/floe/internal/logging"
	"grimm.is/floe/internal/netops"
	"grimm.is/floe/internal/store"
)

// Record keys. Subnet-scoped attributes live under SUBNET_<name>_.
const (
	keyCIDR    = "CIDR"
	keyBridge  = "BRIDGE"
	keyGateway = "GATEWAY"
	keySubnets = "SUBNETS"
)

func subnetKey(subnet, attr string) string {
	return "SUBNET_" + subnet + "_" + attr
}

// Manager creates, lists, and destroys VPCs. All mutations go through
// the store record plus the netops adapter; there is no rollback on
// partial failure, the cleanup reconciler is the recovery path.
type Manager struct {
	store   *store.Store
	nl      netops.Netlinker
	subnets *SubnetManager
	logger  *logging.Logger
}

// NewManager returns a Manager wired to the real network stack.
func NewManager(st *store.Store) *Manager {
	return NewManagerWithDeps(st, netops.DefaultNetlinker, netops.DefaultNamespaceController, netops.DefaultEthtooler)
}

// NewManagerWithDeps returns a Manager with explicit dependencies,
// used by tests to inject mocks.
func NewManagerWithDeps(st *store.Store, nl netops.Netlinker, ns netops.NamespaceController, eth netops.Ethtooler) *Manager {
	return &Manager{
		store:   st,
		nl:      nl,
		subnets: NewSubnetManagerWithDeps(st, nl, ns, eth),
		logger:  logging.WithComponent("vpc"),
	}
}

// Subnets returns the subnet manager sharing this Manager's store and
// adapter.
func (m *Manager) Subnets() *SubnetManager {
	return m.subnets
}

// Create creates a VPC: a bridge named after the VPC, the first usable
// address of cidr assigned to it as gateway, and a store record.
//
// If the bridge exists but a later step fails, the record is not
// written and the bridge is leaked; "floe cleanup" recovers it.
func (m *Manager) Create(name, cidr string) (*VPC, error) {
	if err := ValidateVPCName(name); err != nil {
		return nil, err
	}
	if err := ValidateCIDR(cidr); err != nil {
		return nil, err
	}
	if m.store.Exists(name) {
		return nil, fmt.Errorf("VPC %s: %w", name, ErrAlreadyExists)
	}

	gwIP, gwCIDR, err := GatewayFor(cidr)
	if err != nil {
		return nil, err
	}
	bridgeName := BridgeNameFor(name)

	bridge := &netlink.Bridge{LinkAttrs: netlink.LinkAttrs{Name: bridgeName}}
	if err := m.nl.LinkAdd(bridge); err != nil {
		return nil, fmt.Errorf("failed to create bridge %s: %w", bridgeName, err)
	}

	addr, err := m.nl.ParseAddr(gwCIDR)
	if err != nil {
		return nil, fmt.Errorf("failed to parse gateway address %s: %w", gwCIDR, err)
	}
	if err := m.nl.AddrAdd(bridge, addr); err != nil {
		m.logger.Warn("bridge left without record, run cleanup", "bridge", bridgeName)
		return nil, fmt.Errorf("failed to assign gateway %s to %s: %w", gwCIDR, bridgeName, err)
	}
	if err := m.nl.LinkSetUp(bridge); err != nil {
		m.logger.Warn("bridge left without record, run cleanup", "bridge", bridgeName)
		return nil, fmt.Errorf("failed to bring up bridge %s: %w", bridgeName, err)
	}

	// Record writes come last so a half-built VPC never has a record.
	if err := m.store.Put(name, keyCIDR, cidr); err != nil {
		return nil, err
	}
	if err := m.store.Put(name, keyBridge, bridgeName); err != nil {
		return nil, err
	}
	if err := m.store.Put(name, keyGateway, gwIP); err != nil {
		return nil, err
	}
	if err := m.store.Put(name, keySubnets, ""); err != nil {
		return nil, err
	}

	m.logger.Info("created VPC", "name", name, "cidr", cidr, "bridge", bridgeName, "gateway", gwIP)
	return &VPC{Name: name, CIDR: cidr, BridgeName: bridgeName, GatewayIP: gwIP}, nil
}

// Delete tears down a VPC: every member subnet in stored order, then
// the bridge, then the record. Safe to re-invoke after a partial
// failure; remaining subnets are retried before the bridge and record
// go away.
func (m *Manager) Delete(name string) error {
	if !m.store.Exists(name) {
		return fmt.Errorf("VPC %s: %w", name, ErrNotFound)
	}

	for _, sub := range subnetNames(m.store, name) {
		if err := m.subnets.Delete(name, sub); err != nil {
			return fmt.Errorf("failed to delete subnet %s: %w", sub, err)
		}
	}

	bridgeName, ok := m.store.Get(name, keyBridge)
	if !ok {
		bridgeName = BridgeNameFor(name)
	}
	bridge, err := m.nl.LinkByName(bridgeName)
	if err != nil {
		// Missing bridge is a reconcilable inconsistency, not fatal
		m.logger.Warn("bridge not present, skipping", "bridge", bridgeName)
	} else {
		if err := m.nl.LinkSetDown(bridge); err != nil {
			m.logger.Warn("failed to bring down bridge", "bridge", bridgeName, "error", err)
		}
		if err := m.nl.LinkDel(bridge); err != nil {
			return fmt.Errorf("failed to delete bridge %s: %w", bridgeName, err)
		}
	}

	if err := m.store.Delete(name); err != nil {
		return err
	}

	m.logger.Info("deleted VPC", "name", name)
	return nil
}

// Get loads one VPC record.
func (m *Manager) Get(name string) (*VPC, error) {
	if !m.store.Exists(name) {
		return nil, fmt.Errorf("VPC %s: %w", name, ErrNotFound)
	}
	return m.load(name), nil
}

// VPCs iterates over all VPC records in name order, reading each
// lazily from the store. The sequence is restartable: every range
// re-reads the store. An absent store directory yields an empty
// sequence.
func (m *Manager) VPCs() iter.Seq2[*VPC, error] {
	return func(yield func(*VPC, error) bool) {
		names, err := m.store.List()
		if err != nil {
			yield(nil, err)
			return
		}
		for _, name := range names {
			if !yield(m.load(name), nil) {
				return
			}
		}
	}
}

// load assembles a VPC from its record. Missing keys fall back to
// derived values so a hand-damaged record still lists.
func (m *Manager) load(name string) *VPC {
	v := &VPC{Name: name}
	v.CIDR, _ = m.store.Get(name, keyCIDR)
	if v.BridgeName, _ = m.store.Get(name, keyBridge); v.BridgeName == "" {
		v.BridgeName = BridgeNameFor(name)
	}
	v.GatewayIP, _ = m.store.Get(name, keyGateway)

	for _, sub := range subnetNames(m.store, name) {
		v.Subnets = append(v.Subnets, m.loadSubnet(name, sub))
	}
	return v
}

func (m *Manager) loadSubnet(vpcName, name string) Subnet {
	s := Subnet{Name: name}
	s.CIDR, _ = m.store.Get(vpcName, subnetKey(name, "CIDR"))
	typ, _ := m.store.Get(vpcName, subnetKey(name, "TYPE"))
	s.Type = SubnetType(typ)
	if s.Namespace, _ = m.store.Get(vpcName, subnetKey(name, "NS")); s.Namespace == "" {
		s.Namespace = NamespaceNameFor(vpcName, name)
	}
	if s.VethHost, _ = m.store.Get(vpcName, subnetKey(name, "VETH_HOST")); s.VethHost == "" {
		s.VethHost = VethHostNameFor(name)
	}
	if s.VethPeer, _ = m.store.Get(vpcName, subnetKey(name, "VETH_NS")); s.VethPeer == "" {
		s.VethPeer = VethPeerNameFor(name)
	}
	return s
}
