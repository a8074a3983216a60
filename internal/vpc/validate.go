package vpc

import (
	"encoding/binary"
	"fmt"
	"net"
	"regexp"
)

var (
	vpcNameRe    = regexp.MustCompile(`^[A-Za-z0-9_-]{1,12}$`)
	subnetNameRe = regexp.MustCompile(`^[A-Za-z0-9_-]{1,8}$`)
)

// ValidateVPCName checks a VPC name: alphanumeric, hyphen, underscore,
// at most 12 characters so the derived bridge name fits IFNAMSIZ.
func ValidateVPCName(name string) error {
	if !vpcNameRe.MatchString(name) {
		return fmt.Errorf("VPC name %q: %w", name, ErrInvalidName)
	}
	return nil
}

// ValidateSubnetName checks a subnet name: same charset, at most 8
// characters so the derived veth names fit IFNAMSIZ.
func ValidateSubnetName(name string) error {
	if !subnetNameRe.MatchString(name) {
		return fmt.Errorf("subnet name %q: %w", name, ErrInvalidName)
	}
	return nil
}

// ValidateCIDR checks that s is a syntactically valid IPv4 CIDR:
// dotted-quad octets 0-255 and a prefix length 0-32.
func ValidateCIDR(s string) error {
	ip, _, err := net.ParseCIDR(s)
	if err != nil {
		return fmt.Errorf("%q: %w", s, ErrInvalidCIDR)
	}
	if ip.To4() == nil {
		return fmt.Errorf("%q is not IPv4: %w", s, ErrInvalidCIDR)
	}
	return nil
}

// GatewayFor computes the VPC gateway: the first usable address of the
// CIDR. It returns the bare IP and the IP in CIDR form with the VPC's
// prefix length, ready to assign to the bridge.
func GatewayFor(cidr string) (ip string, withPrefix string, err error) {
	_, ipnet, perr := net.ParseCIDR(cidr)
	if perr != nil {
		return "", "", fmt.Errorf("%q: %w", cidr, ErrInvalidCIDR)
	}
	v4 := ipnet.IP.To4()
	if v4 == nil {
		return "", "", fmt.Errorf("%q is not IPv4: %w", cidr, ErrInvalidCIDR)
	}

	gw := make(net.IP, net.IPv4len)
	binary.BigEndian.PutUint32(gw, binary.BigEndian.Uint32(v4)+1)

	ones, _ := ipnet.Mask.Size()
	return gw.String(), fmt.Sprintf("%s/%d", gw, ones), nil
}
