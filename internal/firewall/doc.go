// Package firewall programs the packet-filter side of a VPC: NAT
// masquerade for internet egress and per-subnet ingress policy.
//
// Egress rules live on the host in one nftables table per VPC
// (floe-nat-<vpc>), so tearing down or reapplying one VPC's NAT never
// disturbs another's. Subnet policy is written inside the subnet's
// network namespace, where a flush-and-rebuild is safe because the
// namespace ruleset belongs entirely to us.
package firewall
