package vpc

import (
	"fmt"
	"net"
	"slices"
	"strings"

	"github.com/vishvananda/netlink"

	"grimm.is/floe/internal/logging"
	"grimm.is/floe/internal/netops"
	"grimm.is/floe/internal/store"
)

// SubnetManager creates and destroys subnets inside a VPC and keeps
// the VPC record's subnet membership current.
type SubnetManager struct {
	store  *store.Store
	nl     netops.Netlinker
	ns     netops.NamespaceController
	eth    netops.Ethtooler
	logger *logging.Logger
}

// NewSubnetManagerWithDeps returns a SubnetManager with explicit
// dependencies, used by tests to inject mocks.
func NewSubnetManagerWithDeps(st *store.Store, nl netops.Netlinker, ns netops.NamespaceController, eth netops.Ethtooler) *SubnetManager {
	return &SubnetManager{
		store:  st,
		nl:     nl,
		ns:     ns,
		eth:    eth,
		logger: logging.WithComponent("subnet"),
	}
}

// Create builds a subnet: namespace, veth pair with the peer end moved
// inside, host end enslaved to the VPC bridge, addressing and a default
// route via the VPC gateway. The record is updated only after every
// step succeeded; a mid-sequence failure leaks the partial build for
// the cleanup reconciler.
func (m *SubnetManager) Create(vpcName, name, cidr string, typ SubnetType) (*Subnet, error) {
	if !m.store.Exists(vpcName) {
		return nil, fmt.Errorf("VPC %s: %w", vpcName, ErrNotFound)
	}
	if err := ValidateSubnetName(name); err != nil {
		return nil, err
	}
	if err := ValidateCIDR(cidr); err != nil {
		return nil, err
	}
	if typ == "" {
		typ = SubnetPrivate
	}
	if slices.Contains(subnetNames(m.store, vpcName), name) {
		return nil, fmt.Errorf("subnet %s: %w", name, ErrAlreadyExists)
	}

	gwIP, ok := m.store.Get(vpcName, keyGateway)
	if !ok {
		vpcCIDR, _ := m.store.Get(vpcName, keyCIDR)
		var err error
		if gwIP, _, err = GatewayFor(vpcCIDR); err != nil {
			return nil, fmt.Errorf("VPC %s has no usable gateway: %w", vpcName, err)
		}
	}

	nsName := NamespaceNameFor(vpcName, name)
	vethHost := VethHostNameFor(name)
	vethPeer := VethPeerNameFor(name)

	// An unregistered leftover namespace is reused, not fatal
	if m.ns.Exists(nsName) {
		m.logger.Warn("namespace already exists, reusing", "namespace", nsName)
	} else if err := m.ns.Create(nsName); err != nil {
		return nil, fmt.Errorf("failed to create namespace %s: %w", nsName, err)
	}

	veth := &netlink.Veth{LinkAttrs: netlink.LinkAttrs{Name: vethHost}, PeerName: vethPeer}
	if err := m.nl.LinkAdd(veth); err != nil {
		return nil, fmt.Errorf("failed to create veth pair %s/%s: %w", vethHost, vethPeer, err)
	}

	peer, err := m.nl.LinkByName(vethPeer)
	if err != nil {
		return nil, fmt.Errorf("failed to find veth peer %s: %w", vethPeer, err)
	}
	nsh, err := m.ns.Handle(nsName)
	if err != nil {
		return nil, err
	}
	err = m.nl.LinkSetNsFd(peer, int(nsh))
	nsh.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to move %s into %s: %w", vethPeer, nsName, err)
	}

	bridgeName, ok := m.store.Get(vpcName, keyBridge)
	if !ok {
		bridgeName = BridgeNameFor(vpcName)
	}
	bridge, err := m.nl.LinkByName(bridgeName)
	if err != nil {
		return nil, fmt.Errorf("failed to find bridge %s: %w", bridgeName, err)
	}
	host, err := m.nl.LinkByName(vethHost)
	if err != nil {
		return nil, fmt.Errorf("failed to find veth %s: %w", vethHost, err)
	}
	if err := m.nl.LinkSetMaster(host, bridge); err != nil {
		return nil, fmt.Errorf("failed to attach %s to %s: %w", vethHost, bridgeName, err)
	}
	if err := m.nl.LinkSetUp(host); err != nil {
		return nil, fmt.Errorf("failed to bring up %s: %w", vethHost, err)
	}
	// Best effort: checksum offload on veths corrupts in-namespace traffic
	if err := m.eth.DisableTxOffload(vethHost); err != nil {
		m.logger.Warn("failed to disable TX offload", "link", vethHost, "error", err)
	}

	err = m.ns.RunIn(nsName, func() error {
		lo, err := m.nl.LinkByName("lo")
		if err != nil {
			return fmt.Errorf("failed to find loopback: %w", err)
		}
		if err := m.nl.LinkSetUp(lo); err != nil {
			return fmt.Errorf("failed to bring up loopback: %w", err)
		}

		peer, err := m.nl.LinkByName(vethPeer)
		if err != nil {
			return fmt.Errorf("failed to find %s inside namespace: %w", vethPeer, err)
		}
		if err := m.nl.LinkSetUp(peer); err != nil {
			return fmt.Errorf("failed to bring up %s: %w", vethPeer, err)
		}

		addr, err := m.nl.ParseAddr(cidr)
		if err != nil {
			return fmt.Errorf("failed to parse %s: %w", cidr, err)
		}
		if err := m.nl.AddrAdd(peer, addr); err != nil {
			return fmt.Errorf("failed to assign %s to %s: %w", cidr, vethPeer, err)
		}

		// The gateway is the bridge address outside this subnet's
		// block; onlink makes the kernel accept it as directly
		// reachable over the veth.
		route := &netlink.Route{
			LinkIndex: peer.Attrs().Index,
			Scope:     netlink.SCOPE_UNIVERSE,
			Gw:        net.ParseIP(gwIP),
			Flags:     int(netlink.FLAG_ONLINK),
		}
		if err := m.nl.RouteAdd(route); err != nil {
			return fmt.Errorf("failed to add default route via %s: %w", gwIP, err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to configure namespace %s: %w", nsName, err)
	}

	// Register the subnet only now that all steps succeeded
	if err := m.store.Put(vpcName, subnetKey(name, "CIDR"), cidr); err != nil {
		return nil, err
	}
	if err := m.store.Put(vpcName, subnetKey(name, "TYPE"), string(typ)); err != nil {
		return nil, err
	}
	if err := m.store.Put(vpcName, subnetKey(name, "NS"), nsName); err != nil {
		return nil, err
	}
	if err := m.store.Put(vpcName, subnetKey(name, "VETH_HOST"), vethHost); err != nil {
		return nil, err
	}
	if err := m.store.Put(vpcName, subnetKey(name, "VETH_NS"), vethPeer); err != nil {
		return nil, err
	}
	if err := m.appendSubnetName(vpcName, name); err != nil {
		return nil, err
	}

	m.logger.Info("created subnet", "vpc", vpcName, "name", name, "cidr", cidr, "type", string(typ), "namespace", nsName)
	return &Subnet{Name: name, CIDR: cidr, Type: typ, Namespace: nsName, VethHost: vethHost, VethPeer: vethPeer}, nil
}

// Delete removes a subnet: namespace first (taking the contained veth
// end with it), then the host-side veth end if it survived, then the
// record entries. Tolerates resources that are already gone so a
// partial teardown can be retried.
func (m *SubnetManager) Delete(vpcName, name string) error {
	if !m.store.Exists(vpcName) {
		return fmt.Errorf("VPC %s: %w", vpcName, ErrNotFound)
	}
	if !slices.Contains(subnetNames(m.store, vpcName), name) {
		return fmt.Errorf("subnet %s: %w", name, ErrNotFound)
	}

	nsName, ok := m.store.Get(vpcName, subnetKey(name, "NS"))
	if !ok {
		nsName = NamespaceNameFor(vpcName, name)
	}
	if m.ns.Exists(nsName) {
		if err := m.ns.Delete(nsName); err != nil {
			return err
		}
	} else {
		m.logger.Warn("namespace already gone", "namespace", nsName)
	}

	vethHost, ok := m.store.Get(vpcName, subnetKey(name, "VETH_HOST"))
	if !ok {
		vethHost = VethHostNameFor(name)
	}
	// Some kernels tear down both veth ends with the namespace
	if link, err := m.nl.LinkByName(vethHost); err == nil {
		if err := m.nl.LinkDel(link); err != nil {
			return fmt.Errorf("failed to delete %s: %w", vethHost, err)
		}
	} else {
		m.logger.Debug("host veth already gone", "link", vethHost)
	}

	if err := m.removeSubnetName(vpcName, name); err != nil {
		return err
	}
	if err := m.store.UnsetPrefix(vpcName, "SUBNET_"+name+"_"); err != nil {
		return err
	}

	m.logger.Info("deleted subnet", "vpc", vpcName, "name", name)
	return nil
}

// Exec runs a command with its network context bound to the subnet's
// namespace. Stdio is passed through; the returned int is the
// command's exit status.
func (m *SubnetManager) Exec(vpcName, subnetName string, argv []string) (int, error) {
	if !m.store.Exists(vpcName) {
		return 1, fmt.Errorf("VPC %s: %w", vpcName, ErrNotFound)
	}
	if !slices.Contains(subnetNames(m.store, vpcName), subnetName) {
		return 1, fmt.Errorf("subnet %s: %w", subnetName, ErrNotFound)
	}

	nsName, ok := m.store.Get(vpcName, subnetKey(subnetName, "NS"))
	if !ok {
		nsName = NamespaceNameFor(vpcName, subnetName)
	}
	return m.ns.ExecIn(nsName, argv)
}

func (m *SubnetManager) appendSubnetName(vpcName, name string) error {
	names := subnetNames(m.store, vpcName)
	if slices.Contains(names, name) {
		return nil
	}
	names = append(names, name)
	return m.store.Put(vpcName, keySubnets, strings.Join(names, ","))
}

func (m *SubnetManager) removeSubnetName(vpcName, name string) error {
	names := subnetNames(m.store, vpcName)
	kept := slices.DeleteFunc(names, func(s string) bool { return s == name })
	return m.store.Put(vpcName, keySubnets, strings.Join(kept, ","))
}

// subnetNames returns a VPC's subnet list in stored (creation) order.
func subnetNames(st *store.Store, vpcName string) []string {
	raw, _ := st.Get(vpcName, keySubnets)
	if raw == "" {
		return nil
	}
	return strings.Split(raw, ",")
}
