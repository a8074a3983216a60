package cmd

import (
	"grimm.is/floe/internal/firewall"
	"grimm.is/floe/internal/store"
)

// RunSetupNAT enables internet egress for a VPC through a host
// interface. An empty iface falls back to the configured default.
func RunSetupNAT(configFile, vpcName, subnetName, iface string) error {
	if err := requireRoot(); err != nil {
		return err
	}
	cfg, err := loadConfig(configFile)
	if err != nil {
		return err
	}
	if iface == "" {
		iface = cfg.EgressInterface()
	}

	fw := firewall.NewManager(store.New(cfg.VPCDir()))
	err = fw.SetupNAT(vpcName, subnetName, iface)
	auditOp(cfg, "setup-nat", vpcName, subnetName, iface, err)
	if err != nil {
		return err
	}

	Printer.Printf("NAT configured for VPC %s via %s\n", vpcName, iface)
	return nil
}
