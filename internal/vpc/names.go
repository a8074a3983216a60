package vpc

// Derived object names. The prefixes are load-bearing: the reconciler
// discovers leaked resources by matching them, independent of any
// record (see internal/cleanup).
//
// Kernel interface names are capped at 15 bytes (IFNAMSIZ minus NUL),
// which is where the name length limits in validate.go come from:
// "br-" + 12-char VPC name and "veth-" + 8-char subnet name + "-h"
// both land exactly on the cap.
const (
	BridgePrefix    = "br-"
	NamespacePrefix = "ns-"
	VethPrefix      = "veth-"
	VethHostSuffix  = "-h"
	VethPeerSuffix  = "-n"
)

// BridgeNameFor returns the bridge name backing a VPC.
func BridgeNameFor(vpcName string) string {
	return BridgePrefix + vpcName
}

// NamespaceNameFor returns the namespace name realizing a subnet.
func NamespaceNameFor(vpcName, subnetName string) string {
	return NamespacePrefix + vpcName + "-" + subnetName
}

// VethHostNameFor returns the host-side veth name for a subnet.
// Subnet names are unique per VPC, not globally; reusing a subnet name
// across VPCs collides here and the second createSubnet fails.
func VethHostNameFor(subnetName string) string {
	return VethPrefix + subnetName + VethHostSuffix
}

// VethPeerNameFor returns the namespace-side veth name for a subnet.
func VethPeerNameFor(subnetName string) string {
	return VethPrefix + subnetName + VethPeerSuffix
}
