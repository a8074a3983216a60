package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	probing "github.com/prometheus-community/pro-bing"
	"github.com/vishvananda/netlink"

	"grimm.is/floe/internal/netops"
	"grimm.is/floe/internal/store"
	"grimm.is/floe/internal/vpc"
)

// CheckPingFunc probes one address with a single ICMP echo.
// Swappable for tests.
var CheckPingFunc = func(ip string) error {
	pinger, err := probing.NewPinger(ip)
	if err != nil {
		return fmt.Errorf("failed to create pinger: %w", err)
	}

	pinger.Count = 1
	pinger.Timeout = 1 * time.Second
	// Raw ICMP sockets; the command already requires root.
	pinger.SetPrivileged(true)

	if err := pinger.Run(); err != nil {
		return err
	}
	if pinger.Statistics().PacketsRecv == 0 {
		return fmt.Errorf("packet loss")
	}
	return nil
}

// RunCheck verifies a subnet's plumbing: the VPC bridge exists and
// carries the gateway address, forwarding is on, and the gateway
// answers pings from inside the subnet's namespace.
func RunCheck(configFile, vpcName, subnetName string) error {
	if err := requireRoot(); err != nil {
		return err
	}
	cfg, err := loadConfig(configFile)
	if err != nil {
		return err
	}

	v, err := vpc.NewManager(store.New(cfg.VPCDir())).Get(vpcName)
	if err != nil {
		return err
	}
	var sn *vpc.Subnet
	for i := range v.Subnets {
		if v.Subnets[i].Name == subnetName {
			sn = &v.Subnets[i]
			break
		}
	}
	if sn == nil {
		return fmt.Errorf("subnet %s: %w", subnetName, vpc.ErrNotFound)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	Printer.Fprintln(w, "CHECK\tRESULT\tDETAIL")
	failed, total := 0, 0
	report := func(check, detail string, err error) {
		total++
		result := "ok"
		if err != nil {
			result = "FAIL"
			detail = err.Error()
			failed++
		}
		Printer.Fprintf(w, "%s\t%s\t%s\n", check, result, detail)
	}

	nl := netops.DefaultNetlinker
	link, err := nl.LinkByName(v.BridgeName)
	report("bridge", v.BridgeName, err)

	if err == nil {
		addrs, aerr := nl.AddrList(link, netlink.FAMILY_V4)
		if aerr == nil && !hasAddr(addrs, v.GatewayIP) {
			aerr = fmt.Errorf("%s not assigned to %s", v.GatewayIP, v.BridgeName)
		}
		report("gateway", v.GatewayIP+" on "+v.BridgeName, aerr)
	}

	fwd, ferr := netops.DefaultSystemController.ReadSysctl("/proc/sys/net/ipv4/ip_forward")
	if ferr == nil && fwd != "1" {
		ferr = fmt.Errorf("ip_forward is %s", fwd)
	}
	report("forwarding", "enabled", ferr)

	perr := netops.DefaultNamespaceController.RunIn(sn.Namespace, func() error {
		return CheckPingFunc(v.GatewayIP)
	})
	report("ping", v.GatewayIP+" from "+sn.Namespace, perr)

	if err := w.Flush(); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d checks failed", failed, total)
	}
	return nil
}

func hasAddr(addrs []netlink.Addr, ip string) bool {
	for _, a := range addrs {
		if a.IP.String() == ip {
			return true
		}
	}
	return false
}
