// Package vpc implements the VPC resource model and its lifecycle:
// VPCs as Linux bridges, subnets as network namespaces joined to the
// bridge by veth pairs, with one flat record per VPC as the source of
// truth.
//
// Operations are synchronous and single-operator: the store has no
// locking, and two concurrent invocations against the same VPC can
// interleave record writes. Multi-step operations never roll back on
// failure; completed primitives stay behind as leaks that the cleanup
// reconciler removes by naming convention.
package vpc
