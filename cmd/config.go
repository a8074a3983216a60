package cmd

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"grimm.is/floe/internal/brand"
	"grimm.is/floe/internal/config"
)

// RunConfig dispatches the config subcommands.
func RunConfig(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: %s config <init|show>", brand.BinaryName)
	}

	switch args[0] {
	case "init":
		flags := flag.NewFlagSet("config init", flag.ExitOnError)
		file := flags.String("file", "", "Target path (default "+brand.GetConfigPath()+")")
		flags.StringVar(file, "f", "", "Target path (short)")
		force := flags.Bool("force", false, "Overwrite an existing file")
		flags.Parse(args[1:])
		return RunConfigInit(*file, *force)
	case "show":
		flags := flag.NewFlagSet("config show", flag.ExitOnError)
		file := flags.String("file", "", "Config file to read")
		flags.StringVar(file, "f", "", "Config file (short)")
		flags.Parse(args[1:])
		return RunConfigShow(*file)
	default:
		return fmt.Errorf("unknown config command %q (want init or show)", args[0])
	}
}

// RunConfigInit writes a default config file so every knob is visible
// and documented in one place.
func RunConfigInit(path string, force bool) error {
	if path == "" {
		path = brand.GetConfigPath()
	}
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use -force to overwrite)", path)
		}
	}

	header := fmt.Sprintf("# %s configuration. Every attribute is optional;\n# unset values fall back to built-in defaults.\n\n", brand.Name)
	data := append([]byte(header), config.GenerateHCL(config.Default())...)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	Printer.Printf("Wrote default configuration to %s\n", path)
	return nil
}

// RunConfigShow prints the effective configuration and the paths
// derived from it.
func RunConfigShow(configFile string) error {
	cfg, err := loadConfig(configFile)
	if err != nil {
		return err
	}

	Printer.Printf("%s", config.GenerateHCL(cfg))
	Printer.Println()
	Printer.Printf("state dir:     %s\n", cfg.EffectiveStateDir())
	Printer.Printf("vpc records:   %s\n", cfg.VPCDir())
	Printer.Printf("audit journal: %s\n", cfg.AuditPath())
	return nil
}
