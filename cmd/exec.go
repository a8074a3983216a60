package cmd

import (
	"fmt"

	"grimm.is/floe/internal/brand"
	"grimm.is/floe/internal/store"
	"grimm.is/floe/internal/vpc"
)

// RunExec runs a command inside a subnet's namespace with stdio
// passed through. The returned int is the exit status for main to
// propagate.
func RunExec(configFile, vpcName, subnetName string, argv []string) (int, error) {
	if len(argv) == 0 {
		return 1, fmt.Errorf("no command given\nExample: %s exec net1 web ip addr", brand.BinaryName)
	}
	if err := requireRoot(); err != nil {
		return 1, err
	}
	cfg, err := loadConfig(configFile)
	if err != nil {
		return 1, err
	}

	mgr := vpc.NewManager(store.New(cfg.VPCDir()))
	return mgr.Subnets().Exec(vpcName, subnetName, argv)
}
