// Package cleanup tears down floe-owned resources by scanning live OS
// state. It never consults the store: after a partial failure the
// records and the kernel can disagree, and this pass is the one that
// trusts only what actually exists. Resources are selected purely by
// the floe naming conventions.
package cleanup

import (
	"strings"

	"github.com/vishvananda/netlink"

	"grimm.is/floe/internal/logging"
	"grimm.is/floe/internal/netops"
	"grimm.is/floe/internal/vpc"
)

// NATSweeper removes every NAT table this system owns. Satisfied by
// firewall.Manager.
type NATSweeper interface {
	Teardown() error
}

// Report counts what one sweep removed and how many removals failed.
type Report struct {
	Namespaces int
	Veths      int
	Bridges    int
	Failures   int
}

// Reconciler removes leftover namespaces, veth pairs, bridges and NAT
// tables.
type Reconciler struct {
	nl     netops.Netlinker
	ns     netops.NamespaceController
	nat    NATSweeper
	logger *logging.Logger
}

// New creates a reconciler with the real network bindings.
func New(nat NATSweeper) *Reconciler {
	return NewWithDeps(netops.DefaultNetlinker, netops.DefaultNamespaceController, nat)
}

// NewWithDeps creates a reconciler with injected dependencies.
func NewWithDeps(nl netops.Netlinker, ns netops.NamespaceController, nat NATSweeper) *Reconciler {
	return &Reconciler{
		nl:     nl,
		ns:     ns,
		nat:    nat,
		logger: logging.Default().WithComponent("cleanup"),
	}
}

// Sweep removes everything matching the floe naming conventions:
// namespaces first, then veth host ends, then bridges, then NAT
// tables. Failures are logged and counted, never fatal; the sweep
// always visits every candidate.
func (r *Reconciler) Sweep() Report {
	var rep Report

	names, err := r.ns.List()
	if err != nil {
		r.logger.Error("failed to list namespaces", "error", err)
		rep.Failures++
	}
	for _, name := range names {
		if !strings.HasPrefix(name, vpc.NamespacePrefix) {
			continue
		}
		if err := r.ns.Delete(name); err != nil {
			r.logger.Warn("failed to delete namespace", "namespace", name, "error", err)
			rep.Failures++
			continue
		}
		r.logger.Info("removed namespace", "namespace", name)
		rep.Namespaces++
	}

	links, err := r.nl.LinkList()
	if err != nil {
		r.logger.Error("failed to list links", "error", err)
		rep.Failures++
	}

	// Deleting the host end of a veth pair removes both ends, so only
	// host ends are matched here. Peer ends still inside a namespace
	// died with it above.
	for _, link := range links {
		name := link.Attrs().Name
		if !strings.HasPrefix(name, vpc.VethPrefix) || !strings.HasSuffix(name, vpc.VethHostSuffix) {
			continue
		}
		if _, ok := link.(*netlink.Veth); !ok {
			continue
		}
		if err := r.nl.LinkDel(link); err != nil {
			r.logger.Warn("failed to delete veth", "link", name, "error", err)
			rep.Failures++
			continue
		}
		r.logger.Info("removed veth", "link", name)
		rep.Veths++
	}

	for _, link := range links {
		name := link.Attrs().Name
		if !strings.HasPrefix(name, vpc.BridgePrefix) {
			continue
		}
		if _, ok := link.(*netlink.Bridge); !ok {
			continue
		}
		if err := r.nl.LinkSetDown(link); err != nil {
			r.logger.Warn("failed to bring down bridge", "bridge", name, "error", err)
		}
		if err := r.nl.LinkDel(link); err != nil {
			r.logger.Warn("failed to delete bridge", "bridge", name, "error", err)
			rep.Failures++
			continue
		}
		r.logger.Info("removed bridge", "bridge", name)
		rep.Bridges++
	}

	if r.nat != nil {
		if err := r.nat.Teardown(); err != nil {
			r.logger.Warn("failed to remove nat tables", "error", err)
			rep.Failures++
		}
	}

	return rep
}
