package cmd

import (
	"os"
	"strings"
	"text/tabwriter"

	"grimm.is/floe/internal/firewall"
	"grimm.is/floe/internal/logging"
	"grimm.is/floe/internal/store"
	"grimm.is/floe/internal/vpc"
)

// RunCreateVPC creates a VPC: a bridge carrying the VPC gateway
// address.
func RunCreateVPC(configFile, name, cidr string) error {
	if err := requireRoot(); err != nil {
		return err
	}
	cfg, err := loadConfig(configFile)
	if err != nil {
		return err
	}

	mgr := vpc.NewManager(store.New(cfg.VPCDir()))
	v, err := mgr.Create(name, cidr)
	auditOp(cfg, "create-vpc", name, "", cidr, err)
	if err != nil {
		return err
	}

	Printer.Printf("Created VPC %s (%s)\n", v.Name, v.CIDR)
	Printer.Printf("  bridge:  %s\n", v.BridgeName)
	Printer.Printf("  gateway: %s\n", v.GatewayIP)
	return nil
}

// RunDeleteVPC deletes a VPC, its subnets, and its NAT table.
func RunDeleteVPC(configFile, name string) error {
	if err := requireRoot(); err != nil {
		return err
	}
	cfg, err := loadConfig(configFile)
	if err != nil {
		return err
	}

	st := store.New(cfg.VPCDir())
	err = vpc.NewManager(st).Delete(name)
	if err == nil {
		// Best effort: drop the VPC's NAT table so a reused prefix
		// cannot inherit stale masquerade rules.
		if ferr := firewall.NewManager(st).RemoveVPC(name); ferr != nil {
			logging.Warn("NAT table removal failed", "vpc", name, "error", ferr)
		}
	}
	auditOp(cfg, "delete-vpc", name, "", "", err)
	if err != nil {
		return err
	}

	Printer.Printf("Deleted VPC %s\n", name)
	return nil
}

// RunListVPCs prints a table of VPC records with their subnets.
func RunListVPCs(configFile string) error {
	cfg, err := loadConfig(configFile)
	if err != nil {
		return err
	}

	mgr := vpc.NewManager(store.New(cfg.VPCDir()))
	var vpcs []*vpc.VPC
	for v, err := range mgr.VPCs() {
		if err != nil {
			return err
		}
		vpcs = append(vpcs, v)
	}
	if len(vpcs) == 0 {
		Printer.Println("No VPCs defined")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	Printer.Fprintln(w, "VPC\tCIDR\tBRIDGE\tGATEWAY\tSUBNETS")
	for _, v := range vpcs {
		names := make([]string, len(v.Subnets))
		for i, s := range v.Subnets {
			names[i] = Printer.Sprintf("%s %s (%s)", s.Name, s.CIDR, s.Type)
		}
		Printer.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			v.Name, v.CIDR, v.BridgeName, v.GatewayIP, orDash(strings.Join(names, ", ")))
	}
	return w.Flush()
}
