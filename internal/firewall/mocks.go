//go:build linux
// +build linux

package firewall

import (
	"sync"

	"github.com/google/nftables"
	"github.com/stretchr/testify/mock"
)

// MockNFTablesConn is a mock implementation of NFTablesConn for testing.
type MockNFTablesConn struct {
	mock.Mock
	mu sync.Mutex

	// In-memory state for tracking operations
	tables map[string]*nftables.Table
	chains map[string]*nftables.Chain
	rules  map[string][]*nftables.Rule
}

// NewMockNFTablesConn creates a new mock nftables connection.
func NewMockNFTablesConn() *MockNFTablesConn {
	return &MockNFTablesConn{
		tables: make(map[string]*nftables.Table),
		chains: make(map[string]*nftables.Chain),
		rules:  make(map[string][]*nftables.Rule),
	}
}

func (m *MockNFTablesConn) AddTable(t *nftables.Table) *nftables.Table {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Called(t)
	m.tables[t.Name] = t
	return t
}

func (m *MockNFTablesConn) DelTable(t *nftables.Table) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Called(t)
	delete(m.tables, t.Name)
	for key := range m.chains {
		if m.chains[key].Table.Name == t.Name {
			delete(m.chains, key)
		}
	}
}

func (m *MockNFTablesConn) FlushTable(t *nftables.Table) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Called(t)
	for key, chain := range m.chains {
		if chain.Table.Name == t.Name {
			delete(m.rules, key)
		}
	}
}

func (m *MockNFTablesConn) ListTables() ([]*nftables.Table, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	args := m.Called()
	if args.Get(0) != nil {
		return args.Get(0).([]*nftables.Table), args.Error(1)
	}
	// Return in-memory tables
	tables := make([]*nftables.Table, 0, len(m.tables))
	for _, t := range m.tables {
		tables = append(tables, t)
	}
	return tables, args.Error(1)
}

func (m *MockNFTablesConn) AddChain(c *nftables.Chain) *nftables.Chain {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Called(c)
	key := c.Table.Name + "/" + c.Name
	m.chains[key] = c
	return c
}

func (m *MockNFTablesConn) AddRule(r *nftables.Rule) *nftables.Rule {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Called(r)
	key := r.Table.Name + "/" + r.Chain.Name
	m.rules[key] = append(m.rules[key], r)
	return r
}

func (m *MockNFTablesConn) FlushRuleset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Called()
	m.tables = make(map[string]*nftables.Table)
	m.chains = make(map[string]*nftables.Chain)
	m.rules = make(map[string][]*nftables.Rule)
}

func (m *MockNFTablesConn) Flush() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	args := m.Called()
	return args.Error(0)
}

// Tables returns the in-memory tables, for assertions.
func (m *MockNFTablesConn) Tables() map[string]*nftables.Table {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]*nftables.Table, len(m.tables))
	for k, v := range m.tables {
		out[k] = v
	}
	return out
}

// Chains returns the in-memory chains keyed by table/chain, for assertions.
func (m *MockNFTablesConn) Chains() map[string]*nftables.Chain {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]*nftables.Chain, len(m.chains))
	for k, v := range m.chains {
		out[k] = v
	}
	return out
}

// Rules returns the in-memory rules of one chain, in insertion order.
func (m *MockNFTablesConn) Rules(table, chain string) []*nftables.Rule {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*nftables.Rule(nil), m.rules[table+"/"+chain]...)
}
