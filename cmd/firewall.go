package cmd

import (
	"grimm.is/floe/internal/firewall"
	"grimm.is/floe/internal/store"
)

// RunApplyFirewall installs the ingress policy inside a subnet's
// namespace. An empty rulesFile applies the built-in allow-list.
func RunApplyFirewall(configFile, vpcName, subnetName, rulesFile string) error {
	if err := requireRoot(); err != nil {
		return err
	}
	cfg, err := loadConfig(configFile)
	if err != nil {
		return err
	}

	fw := firewall.NewManager(store.New(cfg.VPCDir()))
	err = fw.Apply(vpcName, subnetName, rulesFile)
	auditOp(cfg, "apply-firewall", vpcName, subnetName, rulesFile, err)
	if err != nil {
		return err
	}

	if rulesFile == "" {
		Printer.Printf("Applied default firewall policy to %s/%s\n", vpcName, subnetName)
	} else {
		Printer.Printf("Applied firewall rules from %s to %s/%s\n", rulesFile, vpcName, subnetName)
	}
	return nil
}
