// Package config loads and saves the tool configuration.
//
// The config file lives at /etc/floe/floe.hcl by default and is written
// in HCL. A JSON rendering of the same schema is accepted for generated
// configs. Every field is optional; zero values fall back to built-in
// defaults so a missing file is a valid configuration.
package config

import (
	"fmt"
	"path/filepath"

	"grimm.is/floe/internal/brand"
	"grimm.is/floe/internal/logging"
)

// DefaultHostInterface is used for NAT egress when the config does not
// name one.
const DefaultHostInterface = "eth0"

// Config is the on-disk configuration schema.
type Config struct {
	// StateDir overrides the directory holding VPC records and the
	// audit journal. Empty means the branded default (or env override).
	StateDir string `hcl:"state_dir,optional" json:"state_dir,omitempty"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `hcl:"log_level,optional" json:"log_level,omitempty"`

	// LogJSON switches log output from console format to JSON lines.
	LogJSON bool `hcl:"log_json,optional" json:"log_json,omitempty"`

	// HostInterface is the default egress interface for NAT setup.
	HostInterface string `hcl:"host_interface,optional" json:"host_interface,omitempty"`
}

// Default returns a config with all fields at their built-in defaults.
func Default() *Config {
	return &Config{
		LogLevel:      "info",
		HostInterface: DefaultHostInterface,
	}
}

// Validate checks field values. It returns the first problem found.
func (c *Config) Validate() error {
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	// IFNAMSIZ allows 15 bytes plus NUL
	if len(c.HostInterface) > 15 {
		return fmt.Errorf("host_interface %q exceeds 15 characters", c.HostInterface)
	}
	return nil
}

// EffectiveStateDir resolves the state directory.
// Priority: config file > FLOE_STATE_DIR env > branded default.
func (c *Config) EffectiveStateDir() string {
	if c.StateDir != "" {
		return c.StateDir
	}
	return brand.GetStateDir()
}

// VPCDir returns the directory holding VPC records.
func (c *Config) VPCDir() string {
	return filepath.Join(c.EffectiveStateDir(), "vpcs")
}

// AuditPath returns the path of the audit journal database.
func (c *Config) AuditPath() string {
	return filepath.Join(c.EffectiveStateDir(), "audit.db")
}

// EgressInterface returns the configured NAT egress interface, or the
// default when unset.
func (c *Config) EgressInterface() string {
	if c.HostInterface != "" {
		return c.HostInterface
	}
	return DefaultHostInterface
}

// LogConfig converts the config into logger settings.
func (c *Config) LogConfig() logging.Config {
	cfg := logging.DefaultConfig()
	if lvl, err := logging.ParseLevel(c.LogLevel); err == nil {
		cfg.Level = lvl
	}
	cfg.JSON = c.LogJSON
	return cfg
}
