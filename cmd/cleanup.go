package cmd

import (
	"fmt"

	"grimm.is/floe/internal/cleanup"
	"grimm.is/floe/internal/firewall"
	"grimm.is/floe/internal/logging"
	"grimm.is/floe/internal/store"
)

// RunCleanup sweeps away every managed namespace, veth, bridge and
// NAT table found on the host, then clears the stored records. The
// sweep works from live OS state, so it recovers from partial
// failures the records know nothing about.
func RunCleanup(configFile string) error {
	if err := requireRoot(); err != nil {
		return err
	}
	cfg, err := loadConfig(configFile)
	if err != nil {
		return err
	}

	st := store.New(cfg.VPCDir())
	report := cleanup.New(firewall.NewManager(st)).Sweep()

	records := 0
	var recErr error
	names, err := st.List()
	if err != nil {
		recErr = err
	}
	for _, name := range names {
		if err := st.Delete(name); err != nil {
			logging.Warn("record delete failed", "vpc", name, "error", err)
			recErr = err
			continue
		}
		records++
	}

	if report.Failures > 0 && recErr == nil {
		recErr = fmt.Errorf("%d resources could not be removed (see log)", report.Failures)
	}
	detail := fmt.Sprintf("namespaces=%d veths=%d bridges=%d records=%d failures=%d",
		report.Namespaces, report.Veths, report.Bridges, records, report.Failures)
	auditOp(cfg, "cleanup", "", "", detail, recErr)

	Printer.Printf("Removed %d namespaces, %d veth pairs, %d bridges, %d records\n",
		report.Namespaces, report.Veths, report.Bridges, records)
	return recErr
}
