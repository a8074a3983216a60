//go:build linux
// +build linux

package firewall

import (
	"fmt"
	"net"
	"strings"

	"github.com/google/nftables"
	"github.com/google/nftables/binaryutil"
	"github.com/google/nftables/expr"
	"golang.org/x/sys/unix"

	"grimm.is/floe/internal/logging"
	"grimm.is/floe/internal/netops"
	"grimm.is/floe/internal/store"
	"grimm.is/floe/internal/vpc"
)

const (
	natTablePrefix  = "floe-nat-"
	filterTableName = "filter"
	ipForwardSysctl = "/proc/sys/net/ipv4/ip_forward"
)

// Manager programs NAT and subnet filter policy from recorded VPC
// state.
type Manager struct {
	store  *store.Store
	sys    netops.SystemController
	logger *logging.Logger

	// Connection factories, replaceable in tests. The closer must be
	// called once the connection is no longer needed.
	openConn   func() (NFTablesConn, func(), error)
	openNSConn func(ns string) (NFTablesConn, func(), error)
}

// NewManager creates a firewall manager with the real nftables and
// sysctl bindings.
func NewManager(st *store.Store) *Manager {
	return &Manager{
		store:      st,
		sys:        netops.DefaultSystemController,
		logger:     logging.Default().WithComponent("firewall"),
		openConn:   newHostConn,
		openNSConn: newNamespaceConn,
	}
}

// NewManagerWithConn creates a manager whose operations all run on the
// given connection, host and namespace alike. Used in tests.
func NewManagerWithConn(st *store.Store, sys netops.SystemController, conn NFTablesConn) *Manager {
	m := NewManager(st)
	m.sys = sys
	m.openConn = func() (NFTablesConn, func(), error) { return conn, func() {}, nil }
	m.openNSConn = func(string) (NFTablesConn, func(), error) { return conn, func() {}, nil }
	return m
}

// SetupNAT enables IP forwarding and installs the egress path for a
// VPC in its own table: masquerade the whole VPC prefix out hostIface,
// accept bridge-to-iface forwarding, accept established return
// traffic. publicSubnet must exist but does not narrow the rules; the
// masquerade covers the full VPC prefix.
func (m *Manager) SetupNAT(vpcName, publicSubnet, hostIface string) error {
	if !m.store.Exists(vpcName) {
		return fmt.Errorf("vpc %s: %w", vpcName, vpc.ErrNotFound)
	}
	if !m.subnetRegistered(vpcName, publicSubnet) {
		return fmt.Errorf("subnet %s in vpc %s: %w", publicSubnet, vpcName, vpc.ErrNotFound)
	}
	if hostIface == "" {
		return fmt.Errorf("host interface is required")
	}

	cidr, ok := m.store.Get(vpcName, "CIDR")
	if !ok {
		return fmt.Errorf("vpc %s record has no CIDR", vpcName)
	}
	_, ipNet, err := net.ParseCIDR(cidr)
	if err != nil {
		return fmt.Errorf("vpc %s has invalid recorded cidr %s: %w", vpcName, cidr, err)
	}
	bridge, ok := m.store.Get(vpcName, "BRIDGE")
	if !ok {
		bridge = vpc.BridgeNameFor(vpcName)
	}

	// Forwarding is a host-wide switch; there is no per-VPC variant.
	if err := m.sys.WriteSysctl(ipForwardSysctl, "1"); err != nil {
		return fmt.Errorf("failed to enable ip forwarding: %w", err)
	}

	conn, closeConn, err := m.openConn()
	if err != nil {
		return err
	}
	defer closeConn()

	// Ensure the per-VPC table exists before flushing it; flushing a
	// table the kernel does not know fails the whole batch.
	table := conn.AddTable(&nftables.Table{
		Family: nftables.TableFamilyIPv4,
		Name:   natTablePrefix + vpcName,
	})
	if err := conn.Flush(); err != nil {
		return fmt.Errorf("failed to create nat table: %w", err)
	}

	conn.FlushTable(table)

	post := conn.AddChain(&nftables.Chain{
		Name:     "postrouting",
		Table:    table,
		Type:     nftables.ChainTypeNAT,
		Hooknum:  nftables.ChainHookPostrouting,
		Priority: nftables.ChainPriorityNATSource,
	})
	acceptPolicy := nftables.ChainPolicyAccept
	forward := conn.AddChain(&nftables.Chain{
		Name:     "forward",
		Table:    table,
		Type:     nftables.ChainTypeFilter,
		Hooknum:  nftables.ChainHookForward,
		Priority: nftables.ChainPriorityFilter,
		Policy:   &acceptPolicy,
	})

	// ip saddr <cidr> oifname <hostIface> masquerade
	conn.AddRule(&nftables.Rule{
		Table: table,
		Chain: post,
		Exprs: []expr.Any{
			&expr.Payload{
				DestRegister: 1,
				Base:         expr.PayloadBaseNetworkHeader,
				Offset:       12, // IPv4 src offset
				Len:          4,
			},
			&expr.Bitwise{
				SourceRegister: 1,
				DestRegister:   1,
				Len:            4,
				Mask:           ipNet.Mask,
				Xor:            []byte{0, 0, 0, 0},
			},
			&expr.Cmp{
				Op:       expr.CmpOpEq,
				Register: 1,
				Data:     ipNet.IP.To4(),
			},
			&expr.Meta{Key: expr.MetaKeyOIFNAME, Register: 1},
			&expr.Cmp{
				Op:       expr.CmpOpEq,
				Register: 1,
				Data:     ifname(hostIface),
			},
			&expr.Masq{},
		},
		UserData: []byte("masq_" + vpcName),
	})

	// iifname <bridge> oifname <hostIface> accept
	conn.AddRule(&nftables.Rule{
		Table: table,
		Chain: forward,
		Exprs: []expr.Any{
			&expr.Meta{Key: expr.MetaKeyIIFNAME, Register: 1},
			&expr.Cmp{Op: expr.CmpOpEq, Register: 1, Data: ifname(bridge)},
			&expr.Meta{Key: expr.MetaKeyOIFNAME, Register: 1},
			&expr.Cmp{Op: expr.CmpOpEq, Register: 1, Data: ifname(hostIface)},
			&expr.Verdict{Kind: expr.VerdictAccept},
		},
		UserData: []byte("fwd_out_" + vpcName),
	})

	// iifname <hostIface> oifname <bridge> ct state established,related accept
	returnExprs := []expr.Any{
		&expr.Meta{Key: expr.MetaKeyIIFNAME, Register: 1},
		&expr.Cmp{Op: expr.CmpOpEq, Register: 1, Data: ifname(hostIface)},
		&expr.Meta{Key: expr.MetaKeyOIFNAME, Register: 1},
		&expr.Cmp{Op: expr.CmpOpEq, Register: 1, Data: ifname(bridge)},
	}
	returnExprs = append(returnExprs, ctEstablishedRelated()...)
	returnExprs = append(returnExprs, &expr.Verdict{Kind: expr.VerdictAccept})
	conn.AddRule(&nftables.Rule{
		Table:    table,
		Chain:    forward,
		Exprs:    returnExprs,
		UserData: []byte("fwd_return_" + vpcName),
	})

	if err := conn.Flush(); err != nil {
		return fmt.Errorf("failed to apply nat rules: %w", err)
	}

	m.logger.Info("NAT configured", "vpc", vpcName, "cidr", cidr, "interface", hostIface)
	return nil
}

// Apply rebuilds the filter policy inside a subnet's namespace: drop
// inbound and forwarded traffic, allow outbound, loopback and
// established flows, then append the ingress rules in file order. An
// empty rulesPath means the default allow-list.
func (m *Manager) Apply(vpcName, subnetName, rulesPath string) error {
	if !m.store.Exists(vpcName) {
		return fmt.Errorf("vpc %s: %w", vpcName, vpc.ErrNotFound)
	}
	if !m.subnetRegistered(vpcName, subnetName) {
		return fmt.Errorf("subnet %s in vpc %s: %w", subnetName, vpcName, vpc.ErrNotFound)
	}

	rules, err := LoadRulesOrDefault(rulesPath)
	if err != nil {
		return err
	}

	nsName, ok := m.store.Get(vpcName, "SUBNET_"+subnetName+"_NS")
	if !ok {
		nsName = vpc.NamespaceNameFor(vpcName, subnetName)
	}

	conn, closeConn, err := m.openNSConn(nsName)
	if err != nil {
		return err
	}
	defer closeConn()

	// The namespace ruleset is wholly ours: rebuild it from scratch
	// in one atomic commit.
	conn.FlushRuleset()

	table := conn.AddTable(&nftables.Table{
		Family: nftables.TableFamilyIPv4,
		Name:   filterTableName,
	})

	dropPolicy := nftables.ChainPolicyDrop
	acceptPolicy := nftables.ChainPolicyAccept
	input := conn.AddChain(&nftables.Chain{
		Name:     "input",
		Table:    table,
		Type:     nftables.ChainTypeFilter,
		Hooknum:  nftables.ChainHookInput,
		Priority: nftables.ChainPriorityFilter,
		Policy:   &dropPolicy,
	})
	conn.AddChain(&nftables.Chain{
		Name:     "forward",
		Table:    table,
		Type:     nftables.ChainTypeFilter,
		Hooknum:  nftables.ChainHookForward,
		Priority: nftables.ChainPriorityFilter,
		Policy:   &dropPolicy,
	})
	conn.AddChain(&nftables.Chain{
		Name:     "output",
		Table:    table,
		Type:     nftables.ChainTypeFilter,
		Hooknum:  nftables.ChainHookOutput,
		Priority: nftables.ChainPriorityFilter,
		Policy:   &acceptPolicy,
	})

	// Base policy: established flows and loopback always pass.
	estExprs := append(ctEstablishedRelated(), &expr.Verdict{Kind: expr.VerdictAccept})
	conn.AddRule(&nftables.Rule{
		Table:    table,
		Chain:    input,
		Exprs:    estExprs,
		UserData: []byte("established"),
	})
	conn.AddRule(&nftables.Rule{
		Table: table,
		Chain: input,
		Exprs: []expr.Any{
			&expr.Meta{Key: expr.MetaKeyIIFNAME, Register: 1},
			&expr.Cmp{Op: expr.CmpOpEq, Register: 1, Data: ifname("lo")},
			&expr.Verdict{Kind: expr.VerdictAccept},
		},
		UserData: []byte("loopback"),
	})

	for _, r := range rules {
		conn.AddRule(&nftables.Rule{
			Table:    table,
			Chain:    input,
			Exprs:    ingressExprs(r),
			UserData: []byte(fmt.Sprintf("ingress_%s_%s_%d", r.Action, r.Protocol, r.Port)),
		})
	}

	if err := conn.Flush(); err != nil {
		return fmt.Errorf("failed to apply filter rules: %w", err)
	}

	m.logger.Info("firewall applied", "vpc", vpcName, "subnet", subnetName, "namespace", nsName, "rules", len(rules))
	return nil
}

// RemoveVPC deletes a VPC's NAT table if present. Called after the
// VPC itself is gone so a reused prefix cannot inherit stale rules.
func (m *Manager) RemoveVPC(vpcName string) error {
	return m.removeTables(func(name string) bool { return name == natTablePrefix+vpcName })
}

// Teardown deletes every NAT table this system owns.
func (m *Manager) Teardown() error {
	return m.removeTables(func(name string) bool { return strings.HasPrefix(name, natTablePrefix) })
}

func (m *Manager) removeTables(match func(string) bool) error {
	conn, closeConn, err := m.openConn()
	if err != nil {
		return err
	}
	defer closeConn()

	tables, err := conn.ListTables()
	if err != nil {
		return fmt.Errorf("failed to list nftables tables: %w", err)
	}
	removed := 0
	for _, t := range tables {
		if t.Family == nftables.TableFamilyIPv4 && match(t.Name) {
			conn.DelTable(t)
			removed++
		}
	}
	if removed == 0 {
		return nil
	}
	if err := conn.Flush(); err != nil {
		return fmt.Errorf("failed to delete nat tables: %w", err)
	}
	m.logger.Debug("nat tables removed", "count", removed)
	return nil
}

func (m *Manager) subnetRegistered(vpcName, subnet string) bool {
	if subnet == "" {
		return false
	}
	raw, _ := m.store.Get(vpcName, "SUBNETS")
	for _, s := range strings.Split(raw, ",") {
		if s == subnet {
			return true
		}
	}
	return false
}

// ifname encodes an interface name the way nftables expects: 16 bytes,
// zero padded.
func ifname(name string) []byte {
	b := make([]byte, 16)
	copy(b, name)
	return b
}

// ctEstablishedRelated matches packets belonging to established or
// related conntrack flows.
func ctEstablishedRelated() []expr.Any {
	return []expr.Any{
		&expr.Ct{Key: expr.CtKeySTATE, Register: 1},
		&expr.Bitwise{
			SourceRegister: 1,
			DestRegister:   1,
			Len:            4,
			Mask:           binaryutil.NativeEndian.PutUint32(expr.CtStateBitESTABLISHED | expr.CtStateBitRELATED),
			Xor:            []byte{0, 0, 0, 0},
		},
		&expr.Cmp{
			Op:       expr.CmpOpNeq,
			Register: 1,
			Data:     []byte{0, 0, 0, 0},
		},
	}
}

func ingressExprs(r Rule) []expr.Any {
	proto := byte(unix.IPPROTO_TCP)
	if r.Protocol == "udp" {
		proto = unix.IPPROTO_UDP
	}
	verdict := expr.VerdictAccept
	if r.Action == ActionDeny {
		verdict = expr.VerdictDrop
	}
	return []expr.Any{
		&expr.Meta{Key: expr.MetaKeyL4PROTO, Register: 1},
		&expr.Cmp{Op: expr.CmpOpEq, Register: 1, Data: []byte{proto}},
		// Transport header bytes 2-3 hold the destination port
		&expr.Payload{
			DestRegister: 1,
			Base:         expr.PayloadBaseTransportHeader,
			Offset:       2,
			Len:          2,
		},
		&expr.Cmp{
			Op:       expr.CmpOpEq,
			Register: 1,
			Data:     binaryutil.BigEndian.PutUint16(uint16(r.Port)),
		},
		&expr.Verdict{Kind: verdict},
	}
}
