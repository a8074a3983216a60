package netops

import (
	"github.com/stretchr/testify/mock"
	"github.com/vishvananda/netlink"
	"github.com/vishvananda/netns"
)

// MockNetlinker is a mock implementation of Netlinker for testing.
type MockNetlinker struct {
	mock.Mock
}

func (m *MockNetlinker) LinkByName(name string) (netlink.Link, error) {
	args := m.Called(name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(netlink.Link), args.Error(1)
}

func (m *MockNetlinker) LinkList() ([]netlink.Link, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]netlink.Link), args.Error(1)
}

func (m *MockNetlinker) LinkAdd(link netlink.Link) error {
	args := m.Called(link)
	return args.Error(0)
}

func (m *MockNetlinker) LinkDel(link netlink.Link) error {
	args := m.Called(link)
	return args.Error(0)
}

func (m *MockNetlinker) LinkSetUp(link netlink.Link) error {
	args := m.Called(link)
	return args.Error(0)
}

func (m *MockNetlinker) LinkSetDown(link netlink.Link) error {
	args := m.Called(link)
	return args.Error(0)
}

func (m *MockNetlinker) LinkSetMaster(slave, master netlink.Link) error {
	args := m.Called(slave, master)
	return args.Error(0)
}

func (m *MockNetlinker) LinkSetNsFd(link netlink.Link, fd int) error {
	args := m.Called(link, fd)
	return args.Error(0)
}

func (m *MockNetlinker) AddrAdd(link netlink.Link, addr *netlink.Addr) error {
	args := m.Called(link, addr)
	return args.Error(0)
}

func (m *MockNetlinker) AddrList(link netlink.Link, family int) ([]netlink.Addr, error) {
	args := m.Called(link, family)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]netlink.Addr), args.Error(1)
}

func (m *MockNetlinker) RouteAdd(route *netlink.Route) error {
	args := m.Called(route)
	return args.Error(0)
}

func (m *MockNetlinker) ParseAddr(s string) (*netlink.Addr, error) {
	args := m.Called(s)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*netlink.Addr), args.Error(1)
}

// MockNamespaceController is a mock implementation of NamespaceController.
type MockNamespaceController struct {
	mock.Mock
}

func (m *MockNamespaceController) Exists(name string) bool {
	args := m.Called(name)
	return args.Bool(0)
}

func (m *MockNamespaceController) Create(name string) error {
	args := m.Called(name)
	return args.Error(0)
}

func (m *MockNamespaceController) Delete(name string) error {
	args := m.Called(name)
	return args.Error(0)
}

func (m *MockNamespaceController) Handle(name string) (netns.NsHandle, error) {
	args := m.Called(name)
	return args.Get(0).(netns.NsHandle), args.Error(1)
}

func (m *MockNamespaceController) List() ([]string, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// RunIn records the call; use .Run on the expectation to execute fn
// when the test needs the namespace-scoped steps to happen.
func (m *MockNamespaceController) RunIn(name string, fn func() error) error {
	args := m.Called(name, fn)
	return args.Error(0)
}

func (m *MockNamespaceController) ExecIn(name string, argv []string) (int, error) {
	args := m.Called(name, argv)
	return args.Int(0), args.Error(1)
}

// MockSystemController is a mock implementation of SystemController.
type MockSystemController struct {
	mock.Mock
}

func (m *MockSystemController) ReadSysctl(path string) (string, error) {
	args := m.Called(path)
	return args.String(0), args.Error(1)
}

func (m *MockSystemController) WriteSysctl(path, value string) error {
	args := m.Called(path, value)
	return args.Error(0)
}

// MockEthtooler is a mock implementation of Ethtooler.
type MockEthtooler struct {
	mock.Mock
}

func (m *MockEthtooler) DisableTxOffload(iface string) error {
	args := m.Called(iface)
	return args.Error(0)
}
