package cleanup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/vishvananda/netlink"

	"grimm.is/floe/internal/netops"
)

type mockNATSweeper struct {
	mock.Mock
}

func (m *mockNATSweeper) Teardown() error {
	return m.Called().Error(0)
}

func TestSweep(t *testing.T) {
	mockNl := new(netops.MockNetlinker)
	mockNS := new(netops.MockNamespaceController)
	mockNAT := new(mockNATSweeper)
	r := NewWithDeps(mockNl, mockNS, mockNAT)

	hostVeth := &netlink.Veth{LinkAttrs: netlink.LinkAttrs{Name: "veth-a-h", Index: 5}}
	bridge := &netlink.Bridge{LinkAttrs: netlink.LinkAttrs{Name: "br-net1", Index: 2}}
	eth0 := &netlink.Device{LinkAttrs: netlink.LinkAttrs{Name: "eth0", Index: 3}}

	var order []string
	mockNS.On("List").Return([]string{"ns-net1-a", "ns-net1-b", "mynetns"}, nil).Once()
	mockNS.On("Delete", "ns-net1-a").Run(func(mock.Arguments) {
		order = append(order, "ns-net1-a")
	}).Return(nil).Once()
	mockNS.On("Delete", "ns-net1-b").Run(func(mock.Arguments) {
		order = append(order, "ns-net1-b")
	}).Return(nil).Once()

	mockNl.On("LinkList").Return([]netlink.Link{eth0, bridge, hostVeth}, nil).Once()
	mockNl.On("LinkDel", hostVeth).Run(func(mock.Arguments) {
		order = append(order, "veth-a-h")
	}).Return(nil).Once()
	mockNl.On("LinkSetDown", bridge).Return(nil).Once()
	mockNl.On("LinkDel", bridge).Run(func(mock.Arguments) {
		order = append(order, "br-net1")
	}).Return(nil).Once()

	mockNAT.On("Teardown").Return(nil).Once()

	rep := r.Sweep()
	assert.Equal(t, Report{Namespaces: 2, Veths: 1, Bridges: 1}, rep)
	// Namespaces go first, bridges last
	assert.Equal(t, []string{"ns-net1-a", "ns-net1-b", "veth-a-h", "br-net1"}, order)

	mockNl.AssertExpectations(t)
	mockNS.AssertExpectations(t)
	mockNAT.AssertExpectations(t)
}

func TestSweepSkipsForeignResources(t *testing.T) {
	mockNl := new(netops.MockNetlinker)
	mockNS := new(netops.MockNamespaceController)
	r := NewWithDeps(mockNl, mockNS, nil)

	// Names that merely resemble ours must survive: a veth peer end, a
	// non-bridge link wearing the bridge prefix, unrelated interfaces.
	peerVeth := &netlink.Veth{LinkAttrs: netlink.LinkAttrs{Name: "veth-a-n", Index: 5}}
	fakeBridge := &netlink.Device{LinkAttrs: netlink.LinkAttrs{Name: "br-fake", Index: 6}}
	eth0 := &netlink.Device{LinkAttrs: netlink.LinkAttrs{Name: "eth0", Index: 3}}

	mockNS.On("List").Return([]string{"sandbox"}, nil).Once()
	mockNl.On("LinkList").Return([]netlink.Link{peerVeth, fakeBridge, eth0}, nil).Once()

	rep := r.Sweep()
	assert.Equal(t, Report{}, rep)
	mockNS.AssertNotCalled(t, "Delete", mock.Anything)
	mockNl.AssertNotCalled(t, "LinkDel", mock.Anything)
}

func TestSweepContinuesPastFailures(t *testing.T) {
	mockNl := new(netops.MockNetlinker)
	mockNS := new(netops.MockNamespaceController)
	mockNAT := new(mockNATSweeper)
	r := NewWithDeps(mockNl, mockNS, mockNAT)

	bridge := &netlink.Bridge{LinkAttrs: netlink.LinkAttrs{Name: "br-net1", Index: 2}}

	mockNS.On("List").Return([]string{"ns-net1-a", "ns-net1-b"}, nil).Once()
	mockNS.On("Delete", "ns-net1-a").Return(assert.AnError).Once()
	mockNS.On("Delete", "ns-net1-b").Return(nil).Once()
	mockNl.On("LinkList").Return([]netlink.Link{bridge}, nil).Once()
	mockNl.On("LinkSetDown", bridge).Return(assert.AnError).Once()
	mockNl.On("LinkDel", bridge).Return(nil).Once()
	mockNAT.On("Teardown").Return(assert.AnError).Once()

	rep := r.Sweep()
	// One namespace failed, the nat sweep failed; the bridge still went
	// down despite the setdown error
	assert.Equal(t, Report{Namespaces: 1, Bridges: 1, Failures: 2}, rep)
	mockNS.AssertExpectations(t)
	mockNl.AssertExpectations(t)
}

func TestSweepListErrors(t *testing.T) {
	mockNl := new(netops.MockNetlinker)
	mockNS := new(netops.MockNamespaceController)
	r := NewWithDeps(mockNl, mockNS, nil)

	mockNS.On("List").Return(nil, assert.AnError).Once()
	mockNl.On("LinkList").Return(nil, assert.AnError).Once()

	rep := r.Sweep()
	assert.Equal(t, Report{Failures: 2}, rep)
}
