// Package netops is the thin adapter between the VPC managers and the
// kernel's networking primitives: links and bridges via netlink, named
// network namespaces, sysctl knobs, and NIC offload settings.
//
// Every capability is an interface with a Real* implementation and a
// testify mock, so the managers above can be tested without touching
// live network state.
package netops

import (
	"github.com/vishvananda/netlink"
	"github.com/vishvananda/netns"
)

// Netlinker abstracts netlink operations for testing.
type Netlinker interface {
	LinkByName(name string) (netlink.Link, error)
	LinkList() ([]netlink.Link, error)
	LinkAdd(link netlink.Link) error
	LinkDel(link netlink.Link) error
	LinkSetUp(link netlink.Link) error
	LinkSetDown(link netlink.Link) error
	LinkSetMaster(slave, master netlink.Link) error
	LinkSetNsFd(link netlink.Link, fd int) error
	AddrAdd(link netlink.Link, addr *netlink.Addr) error
	AddrList(link netlink.Link, family int) ([]netlink.Addr, error)
	RouteAdd(route *netlink.Route) error
	ParseAddr(s string) (*netlink.Addr, error)
}

// NamespaceController abstracts named network namespace management.
type NamespaceController interface {
	// Exists reports whether a named namespace is present.
	Exists(name string) bool
	// Create creates a named namespace. The calling thread's namespace
	// is restored before Create returns.
	Create(name string) error
	// Delete removes a named namespace.
	Delete(name string) error
	// Handle opens the namespace and returns its handle. The caller
	// closes it.
	Handle(name string) (netns.NsHandle, error)
	// List returns the names of all named namespaces.
	List() ([]string, error)
	// RunIn executes fn with the calling thread switched into the
	// namespace, then switches back.
	RunIn(name string, fn func() error) error
	// ExecIn runs a command inside the namespace with stdio passed
	// through, returning the command's exit status.
	ExecIn(name string, argv []string) (int, error)
}

// SystemController abstracts sysctl reads and writes.
type SystemController interface {
	ReadSysctl(path string) (string, error)
	WriteSysctl(path, value string) error
}

// Ethtooler abstracts NIC feature toggling.
type Ethtooler interface {
	// DisableTxOffload turns off TX checksum and segmentation offloads
	// on an interface. Checksum offload on veth devices produces
	// packets the peer namespace rejects.
	DisableTxOffload(iface string) error
}
