package main

import (
	"flag"
	"os"

	"grimm.is/floe/cmd"
	"grimm.is/floe/internal/brand"
	"grimm.is/floe/internal/i18n"
)

var printer = i18n.NewCLIPrinter()

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "create-vpc":
		flags := flag.NewFlagSet("create-vpc", flag.ExitOnError)
		configFile := flags.String("config", brand.GetConfigPath(), "Configuration file")
		flags.StringVar(configFile, "c", brand.GetConfigPath(), "Configuration file (short)")
		flags.Parse(os.Args[2:])
		if flags.NArg() != 2 {
			printer.Fprintf(os.Stderr, "Usage: %s create-vpc [options] <name> <cidr>\n", brand.BinaryName)
			os.Exit(1)
		}
		if err := cmd.RunCreateVPC(*configFile, flags.Arg(0), flags.Arg(1)); err != nil {
			printer.Fprintf(os.Stderr, "create-vpc failed: %v\n", err)
			os.Exit(1)
		}

	case "delete-vpc":
		flags := flag.NewFlagSet("delete-vpc", flag.ExitOnError)
		configFile := flags.String("config", brand.GetConfigPath(), "Configuration file")
		flags.StringVar(configFile, "c", brand.GetConfigPath(), "Configuration file (short)")
		flags.Parse(os.Args[2:])
		if flags.NArg() != 1 {
			printer.Fprintf(os.Stderr, "Usage: %s delete-vpc [options] <name>\n", brand.BinaryName)
			os.Exit(1)
		}
		if err := cmd.RunDeleteVPC(*configFile, flags.Arg(0)); err != nil {
			printer.Fprintf(os.Stderr, "delete-vpc failed: %v\n", err)
			os.Exit(1)
		}

	case "list-vpcs":
		flags := flag.NewFlagSet("list-vpcs", flag.ExitOnError)
		configFile := flags.String("config", brand.GetConfigPath(), "Configuration file")
		flags.StringVar(configFile, "c", brand.GetConfigPath(), "Configuration file (short)")
		flags.Parse(os.Args[2:])
		if err := cmd.RunListVPCs(*configFile); err != nil {
			printer.Fprintf(os.Stderr, "list-vpcs failed: %v\n", err)
			os.Exit(1)
		}

	case "create-subnet":
		flags := flag.NewFlagSet("create-subnet", flag.ExitOnError)
		configFile := flags.String("config", brand.GetConfigPath(), "Configuration file")
		flags.StringVar(configFile, "c", brand.GetConfigPath(), "Configuration file (short)")
		subnetType := flags.String("type", "private", "Subnet type: public or private")
		flags.StringVar(subnetType, "t", "private", "Subnet type (short)")
		flags.Parse(os.Args[2:])
		if flags.NArg() != 3 {
			printer.Fprintf(os.Stderr, "Usage: %s create-subnet [options] <vpc> <name> <cidr>\n", brand.BinaryName)
			os.Exit(1)
		}
		if err := cmd.RunCreateSubnet(*configFile, flags.Arg(0), flags.Arg(1), flags.Arg(2), *subnetType); err != nil {
			printer.Fprintf(os.Stderr, "create-subnet failed: %v\n", err)
			os.Exit(1)
		}

	case "delete-subnet":
		flags := flag.NewFlagSet("delete-subnet", flag.ExitOnError)
		configFile := flags.String("config", brand.GetConfigPath(), "Configuration file")
		flags.StringVar(configFile, "c", brand.GetConfigPath(), "Configuration file (short)")
		flags.Parse(os.Args[2:])
		if flags.NArg() != 2 {
			printer.Fprintf(os.Stderr, "Usage: %s delete-subnet [options] <vpc> <name>\n", brand.BinaryName)
			os.Exit(1)
		}
		if err := cmd.RunDeleteSubnet(*configFile, flags.Arg(0), flags.Arg(1)); err != nil {
			printer.Fprintf(os.Stderr, "delete-subnet failed: %v\n", err)
			os.Exit(1)
		}

	case "setup-nat":
		flags := flag.NewFlagSet("setup-nat", flag.ExitOnError)
		configFile := flags.String("config", brand.GetConfigPath(), "Configuration file")
		flags.StringVar(configFile, "c", brand.GetConfigPath(), "Configuration file (short)")
		iface := flags.String("interface", "", "Host egress interface (default from config)")
		flags.StringVar(iface, "i", "", "Host egress interface (short)")
		flags.Parse(os.Args[2:])
		if flags.NArg() != 2 {
			printer.Fprintf(os.Stderr, "Usage: %s setup-nat [options] <vpc> <public-subnet>\n", brand.BinaryName)
			os.Exit(1)
		}
		if err := cmd.RunSetupNAT(*configFile, flags.Arg(0), flags.Arg(1), *iface); err != nil {
			printer.Fprintf(os.Stderr, "setup-nat failed: %v\n", err)
			os.Exit(1)
		}

	case "apply-firewall":
		flags := flag.NewFlagSet("apply-firewall", flag.ExitOnError)
		configFile := flags.String("config", brand.GetConfigPath(), "Configuration file")
		flags.StringVar(configFile, "c", brand.GetConfigPath(), "Configuration file (short)")
		rulesFile := flags.String("rules-file", "", "YAML/JSON rules file (default: built-in allow-list)")
		flags.StringVar(rulesFile, "r", "", "Rules file (short)")
		flags.Parse(os.Args[2:])
		if flags.NArg() != 2 {
			printer.Fprintf(os.Stderr, "Usage: %s apply-firewall [options] <vpc> <subnet>\n", brand.BinaryName)
			os.Exit(1)
		}
		if err := cmd.RunApplyFirewall(*configFile, flags.Arg(0), flags.Arg(1), *rulesFile); err != nil {
			printer.Fprintf(os.Stderr, "apply-firewall failed: %v\n", err)
			os.Exit(1)
		}

	case "exec":
		flags := flag.NewFlagSet("exec", flag.ExitOnError)
		configFile := flags.String("config", brand.GetConfigPath(), "Configuration file")
		flags.StringVar(configFile, "c", brand.GetConfigPath(), "Configuration file (short)")
		flags.Parse(os.Args[2:])
		if flags.NArg() < 3 {
			printer.Fprintf(os.Stderr, "Usage: %s exec [options] <vpc> <subnet> <command> [args...]\n", brand.BinaryName)
			os.Exit(1)
		}
		args := flags.Args()
		status, err := cmd.RunExec(*configFile, args[0], args[1], args[2:])
		if err != nil {
			printer.Fprintf(os.Stderr, "exec failed: %v\n", err)
		}
		os.Exit(status)

	case "check":
		flags := flag.NewFlagSet("check", flag.ExitOnError)
		configFile := flags.String("config", brand.GetConfigPath(), "Configuration file")
		flags.StringVar(configFile, "c", brand.GetConfigPath(), "Configuration file (short)")
		flags.Parse(os.Args[2:])
		if flags.NArg() != 2 {
			printer.Fprintf(os.Stderr, "Usage: %s check [options] <vpc> <subnet>\n", brand.BinaryName)
			os.Exit(1)
		}
		if err := cmd.RunCheck(*configFile, flags.Arg(0), flags.Arg(1)); err != nil {
			printer.Fprintf(os.Stderr, "check failed: %v\n", err)
			os.Exit(1)
		}

	case "cleanup":
		flags := flag.NewFlagSet("cleanup", flag.ExitOnError)
		configFile := flags.String("config", brand.GetConfigPath(), "Configuration file")
		flags.StringVar(configFile, "c", brand.GetConfigPath(), "Configuration file (short)")
		flags.Parse(os.Args[2:])
		if err := cmd.RunCleanup(*configFile); err != nil {
			printer.Fprintf(os.Stderr, "cleanup failed: %v\n", err)
			os.Exit(1)
		}

	case "audit":
		flags := flag.NewFlagSet("audit", flag.ExitOnError)
		configFile := flags.String("config", brand.GetConfigPath(), "Configuration file")
		flags.StringVar(configFile, "c", brand.GetConfigPath(), "Configuration file (short)")
		limit := flags.Int("n", 20, "Number of events to show")
		prune := flags.Int("prune", 0, "Delete events older than this many days")
		flags.Parse(os.Args[2:])
		if err := cmd.RunAudit(*configFile, *limit, *prune); err != nil {
			printer.Fprintf(os.Stderr, "audit failed: %v\n", err)
			os.Exit(1)
		}

	case "config":
		if err := cmd.RunConfig(os.Args[2:]); err != nil {
			printer.Fprintf(os.Stderr, "config failed: %v\n", err)
			os.Exit(1)
		}

	case "version":
		// Print version info
		printer.Printf("%s version %s\n", brand.Name, brand.Version)
		printer.Printf("Build: %s\n", brand.BuildTime)

	case "help", "-h", "--help":
		printUsage()

	default:
		printer.Printf("Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	printer.Printf(`%s - %s

Usage:
  %s <command> [options]

VPC Commands:
  create-vpc      Create a VPC: a bridge carrying the gateway address
                  Usage: create-vpc <name> <cidr>
  delete-vpc      Delete a VPC, its subnets, and its NAT table
                  Usage: delete-vpc <name>
  list-vpcs       List VPCs and their subnets

Subnet Commands:
  create-subnet   Create a subnet: a namespace wired to the VPC bridge
                  Usage: create-subnet [--type public|private] <vpc> <name> <cidr>
  delete-subnet   Delete a subnet and its plumbing
                  Usage: delete-subnet <vpc> <name>
  exec            Run a command inside a subnet's namespace
                  Usage: exec <vpc> <subnet> <command> [args...]

Network Commands:
  setup-nat       Enable internet egress for a VPC via masquerade
                  Usage: setup-nat [--interface (-i) <iface>] <vpc> <public-subnet>
  apply-firewall  Install the ingress policy inside a subnet
                  Usage: apply-firewall [--rules-file (-r) <file>] <vpc> <subnet>
  check           Verify a subnet's plumbing end to end
                  Usage: check <vpc> <subnet>
  cleanup         Remove every managed namespace, veth, bridge and NAT table

Utility Commands:
  audit           Show recent operations
                  Options: -n <count>, --prune <days>
  config          Manage the tool configuration
                  Subcommands: init, show
  version         Show version information

Global Options:
  --config (-c) <file>   Configuration file (default %s)

Examples:
  %s create-vpc net1 10.0.0.0/16
  %s create-subnet --type public net1 web 10.0.1.0/24
  %s setup-nat --interface eth0 net1 web
  %s apply-firewall --rules-file rules.yaml net1 web
  %s exec net1 web ip addr
  %s check net1 web
  %s cleanup
`,
		brand.Name, brand.Description,
		brand.BinaryName,
		brand.GetConfigPath(),
		brand.BinaryName, brand.BinaryName, brand.BinaryName, brand.BinaryName,
		brand.BinaryName, brand.BinaryName, brand.BinaryName)
}
