package cmd

import (
	"grimm.is/floe/internal/store"
	"grimm.is/floe/internal/vpc"
)

// RunCreateSubnet creates a subnet inside a VPC: a namespace wired to
// the VPC bridge through a veth pair.
func RunCreateSubnet(configFile, vpcName, name, cidr, typeStr string) error {
	if err := requireRoot(); err != nil {
		return err
	}
	cfg, err := loadConfig(configFile)
	if err != nil {
		return err
	}

	typ, err := vpc.ParseSubnetType(typeStr)
	if err != nil {
		auditOp(cfg, "create-subnet", vpcName, name, cidr, err)
		return err
	}

	mgr := vpc.NewManager(store.New(cfg.VPCDir()))
	sn, err := mgr.Subnets().Create(vpcName, name, cidr, typ)
	auditOp(cfg, "create-subnet", vpcName, name, cidr, err)
	if err != nil {
		return err
	}

	Printer.Printf("Created %s subnet %s in VPC %s (%s)\n", sn.Type, sn.Name, vpcName, sn.CIDR)
	Printer.Printf("  namespace: %s\n", sn.Namespace)
	Printer.Printf("  veth:      %s <-> %s\n", sn.VethHost, sn.VethPeer)
	return nil
}

// RunDeleteSubnet removes a subnet and its plumbing.
func RunDeleteSubnet(configFile, vpcName, name string) error {
	if err := requireRoot(); err != nil {
		return err
	}
	cfg, err := loadConfig(configFile)
	if err != nil {
		return err
	}

	mgr := vpc.NewManager(store.New(cfg.VPCDir()))
	err = mgr.Subnets().Delete(vpcName, name)
	auditOp(cfg, "delete-subnet", vpcName, name, "", err)
	if err != nil {
		return err
	}

	Printer.Printf("Deleted subnet %s from VPC %s\n", name, vpcName)
	return nil
}
