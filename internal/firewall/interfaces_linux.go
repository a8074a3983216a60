//go:build linux
// +build linux

package firewall

import (
	"fmt"

	"github.com/google/nftables"
	"github.com/vishvananda/netns"
)

// NFTablesConn abstracts nftables.Conn operations for testing.
// This interface allows mocking nftables operations on non-Linux systems.
type NFTablesConn interface {
	// Table operations
	AddTable(t *nftables.Table) *nftables.Table
	DelTable(t *nftables.Table)
	FlushTable(t *nftables.Table)
	ListTables() ([]*nftables.Table, error)

	// Chain operations
	AddChain(c *nftables.Chain) *nftables.Chain

	// Rule operations
	AddRule(r *nftables.Rule) *nftables.Rule

	// Ruleset operations
	FlushRuleset()

	// Commit changes
	Flush() error
}

// RealNFTablesConn wraps the actual nftables.Conn.
// This is used in production on Linux systems.
type RealNFTablesConn struct {
	conn *nftables.Conn
}

// NewRealNFTablesConn creates a new RealNFTablesConn wrapping an nftables.Conn.
func NewRealNFTablesConn(conn *nftables.Conn) *RealNFTablesConn {
	return &RealNFTablesConn{conn: conn}
}

func (r *RealNFTablesConn) AddTable(t *nftables.Table) *nftables.Table {
	return r.conn.AddTable(t)
}

func (r *RealNFTablesConn) DelTable(t *nftables.Table) {
	r.conn.DelTable(t)
}

func (r *RealNFTablesConn) FlushTable(t *nftables.Table) {
	r.conn.FlushTable(t)
}

func (r *RealNFTablesConn) ListTables() ([]*nftables.Table, error) {
	return r.conn.ListTables()
}

func (r *RealNFTablesConn) AddChain(c *nftables.Chain) *nftables.Chain {
	return r.conn.AddChain(c)
}

func (r *RealNFTablesConn) AddRule(rule *nftables.Rule) *nftables.Rule {
	return r.conn.AddRule(rule)
}

func (r *RealNFTablesConn) FlushRuleset() {
	r.conn.FlushRuleset()
}

func (r *RealNFTablesConn) Flush() error {
	return r.conn.Flush()
}

// newHostConn opens an nftables connection in the host namespace.
func newHostConn() (NFTablesConn, func(), error) {
	conn, err := nftables.New()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open nftables connection: %w", err)
	}
	return NewRealNFTablesConn(conn), func() {}, nil
}

// newNamespaceConn opens an nftables connection inside the named
// network namespace. The returned closer releases the namespace
// handle and must be called once the connection is no longer needed.
func newNamespaceConn(name string) (NFTablesConn, func(), error) {
	nsh, err := netns.GetFromName(name)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open namespace %s: %w", name, err)
	}
	conn, err := nftables.New(nftables.WithNetNSFd(int(nsh)))
	if err != nil {
		nsh.Close()
		return nil, nil, fmt.Errorf("failed to open nftables connection in %s: %w", name, err)
	}
	return NewRealNFTablesConn(conn), func() { nsh.Close() }, nil
}
