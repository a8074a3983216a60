package vpc

import "fmt"

// SubnetType tags a subnet's intended role. Advisory only: it does not
// gate connectivity, NAT and firewall configuration enforce behavior.
type SubnetType string

const (
	SubnetPublic  SubnetType = "public"
	SubnetPrivate SubnetType = "private"
)

// ParseSubnetType validates a subnet type string. Empty defaults to
// private.
func ParseSubnetType(s string) (SubnetType, error) {
	switch SubnetType(s) {
	case "":
		return SubnetPrivate, nil
	case SubnetPublic, SubnetPrivate:
		return SubnetType(s), nil
	default:
		return "", fmt.Errorf("subnet type %q (want public or private): %w", s, ErrInvalidType)
	}
}

// Subnet describes one subnet of a VPC as recorded in the store.
type Subnet struct {
	Name      string
	CIDR      string
	Type      SubnetType
	Namespace string
	VethHost  string
	VethPeer  string
}

// VPC describes a VPC record: its address block, the bridge realizing
// it, the gateway assigned to that bridge, and its subnets in creation
// order.
type VPC struct {
	Name       string
	CIDR       string
	BridgeName string
	GatewayIP  string
	Subnets    []Subnet
}
