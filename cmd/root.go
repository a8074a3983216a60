// Package cmd implements the CLI commands. Each RunX function loads
// the tool config, performs one operation through the internal
// managers, and returns an error for main to report. Mutating
// commands append an event to the audit journal whether they succeed
// or fail.
package cmd

import (
	"fmt"
	"os"

	"grimm.is/floe/internal/audit"
	"grimm.is/floe/internal/brand"
	"grimm.is/floe/internal/config"
	"grimm.is/floe/internal/i18n"
	"grimm.is/floe/internal/logging"
)

// Printer renders all CLI output with locale-aware formatting.
var Printer = i18n.NewCLIPrinter()

// loadConfig reads the tool config and applies its logging settings.
// An empty path means the branded default; a missing file yields the
// built-in defaults.
func loadConfig(configFile string) (*config.Config, error) {
	if configFile == "" {
		configFile = brand.GetConfigPath()
	}
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	logging.SetDefault(logging.New(cfg.LogConfig()))
	return cfg, nil
}

// requireRoot gates the commands that touch namespaces, bridges or
// nftables.
func requireRoot() error {
	if os.Geteuid() != 0 {
		return fmt.Errorf("must run as root")
	}
	return nil
}

// auditOp appends one event to the operation journal. Journal
// problems are logged and swallowed: auditing never fails a command.
func auditOp(cfg *config.Config, op, vpcName, subnetName, detail string, opErr error) {
	evt := audit.Event{Op: op, VPC: vpcName, Subnet: subnetName, Detail: detail}
	if opErr != nil {
		evt.Status = 1
		if evt.Detail == "" {
			evt.Detail = opErr.Error()
		}
	}

	j, err := audit.Open(cfg.AuditPath())
	if err != nil {
		logging.Warn("audit journal unavailable", "error", err)
		return
	}
	defer j.Close()
	if err := j.Record(evt); err != nil {
		logging.Warn("audit record failed", "op", op, "error", err)
	}
}

// orDash substitutes "-" for empty table cells.
func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
