package vpc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateVPCName(t *testing.T) {
	valid := []string{"net1", "a", "prod-web", "my_vpc", "A1-b_2"}
	for _, name := range valid {
		assert.NoError(t, ValidateVPCName(name), "name %q", name)
	}

	invalid := []string{"", "net 1", "net.1", "net/1", "thirteen-chars", "net1!", "ütopia"}
	for _, name := range invalid {
		err := ValidateVPCName(name)
		assert.ErrorIs(t, err, ErrInvalidName, "name %q", name)
	}
}

func TestValidateSubnetName(t *testing.T) {
	assert.NoError(t, ValidateSubnetName("a"))
	assert.NoError(t, ValidateSubnetName("web-1"))
	assert.NoError(t, ValidateSubnetName("eight_ch"))

	assert.ErrorIs(t, ValidateSubnetName(""), ErrInvalidName)
	assert.ErrorIs(t, ValidateSubnetName("ninechars"), ErrInvalidName)
	assert.ErrorIs(t, ValidateSubnetName("has space"), ErrInvalidName)
}

func TestValidateCIDR(t *testing.T) {
	accept := []string{"192.168.1.0/24", "10.0.0.0/16", "10.0.0.0/0", "10.0.0.0/32", "0.0.0.0/0"}
	for _, cidr := range accept {
		assert.NoError(t, ValidateCIDR(cidr), "cidr %q", cidr)
	}

	reject := []string{"10.0.0.0/33", "999.0.0.0/16", "10.0.0/16", "10.0.0.0", "", "10.0.0.0/-1", "fe80::/64", "10.0.0.0/16/24"}
	for _, cidr := range reject {
		assert.ErrorIs(t, ValidateCIDR(cidr), ErrInvalidCIDR, "cidr %q", cidr)
	}
}

func TestGatewayFor(t *testing.T) {
	cases := []struct {
		cidr       string
		wantIP     string
		wantPrefix string
	}{
		{"10.5.0.0/16", "10.5.0.1", "10.5.0.1/16"},
		{"192.168.1.0/24", "192.168.1.1", "192.168.1.1/24"},
		{"10.0.0.128/25", "10.0.0.129", "10.0.0.129/25"},
		// Host bits are masked off before the increment
		{"10.5.77.200/16", "10.5.0.1", "10.5.0.1/16"},
	}
	for _, tc := range cases {
		ip, withPrefix, err := GatewayFor(tc.cidr)
		require.NoError(t, err, "cidr %q", tc.cidr)
		assert.Equal(t, tc.wantIP, ip, "cidr %q", tc.cidr)
		assert.Equal(t, tc.wantPrefix, withPrefix, "cidr %q", tc.cidr)
	}

	_, _, err := GatewayFor("10.0.0/16")
	assert.ErrorIs(t, err, ErrInvalidCIDR)
}

func TestDerivedNames(t *testing.T) {
	assert.Equal(t, "br-net1", BridgeNameFor("net1"))
	assert.Equal(t, "ns-net1-a", NamespaceNameFor("net1", "a"))
	assert.Equal(t, "veth-a-h", VethHostNameFor("a"))
	assert.Equal(t, "veth-a-n", VethPeerNameFor("a"))

	// Longest legal names stay within the 15-byte interface cap
	assert.LessOrEqual(t, len(BridgeNameFor("twelve-chars")), 15)
	assert.LessOrEqual(t, len(VethHostNameFor("eight_ch")), 15)
	assert.LessOrEqual(t, len(VethPeerNameFor("eight_ch")), 15)
}

func TestParseSubnetType(t *testing.T) {
	typ, err := ParseSubnetType("")
	require.NoError(t, err)
	assert.Equal(t, SubnetPrivate, typ)

	typ, err = ParseSubnetType("public")
	require.NoError(t, err)
	assert.Equal(t, SubnetPublic, typ)

	_, err = ParseSubnetType("dmz")
	assert.ErrorIs(t, err, ErrInvalidType)
}
