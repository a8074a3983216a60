package firewall

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v2"
)

// Rule actions. Anything else in a rules file is dropped during
// normalization.
const (
	ActionAllow = "allow"
	ActionDeny  = "deny"
)

// Rule is one ingress entry: open or close a single port for one
// protocol inside a subnet's namespace.
type Rule struct {
	Port     int    `yaml:"port" json:"port"`
	Protocol string `yaml:"protocol" json:"protocol"`
	Action   string `yaml:"action" json:"action"`
}

type rulesFile struct {
	Ingress []Rule `yaml:"ingress" json:"ingress"`
}

// DefaultRules is the allow-list applied when no rules file is given.
func DefaultRules() []Rule {
	return []Rule{
		{Port: 22, Protocol: "tcp", Action: ActionAllow},
		{Port: 80, Protocol: "tcp", Action: ActionAllow},
		{Port: 443, Protocol: "tcp", Action: ActionAllow},
	}
}

// LoadRules reads an ingress rules file. The file is YAML (JSON is
// valid YAML) with a single top-level "ingress" list. Entries that
// cannot become filter rules are silently skipped; an unreadable or
// unparseable file is an error.
func LoadRules(path string) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file %s: %w", path, err)
	}
	var f rulesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse rules file %s: %w", path, err)
	}
	return normalizeRules(f.Ingress), nil
}

// LoadRulesOrDefault returns DefaultRules when path is empty.
func LoadRulesOrDefault(path string) ([]Rule, error) {
	if path == "" {
		return DefaultRules(), nil
	}
	return LoadRules(path)
}

// normalizeRules keeps order and drops unusable entries: missing or
// out-of-range port, protocol other than tcp/udp, unknown action.
// A missing action means allow.
func normalizeRules(in []Rule) []Rule {
	out := make([]Rule, 0, len(in))
	for _, r := range in {
		if r.Port <= 0 || r.Port > 65535 {
			continue
		}
		proto := strings.ToLower(r.Protocol)
		if proto != "tcp" && proto != "udp" {
			continue
		}
		action := strings.ToLower(r.Action)
		if action == "" {
			action = ActionAllow
		}
		if action != ActionAllow && action != ActionDeny {
			continue
		}
		out = append(out, Rule{Port: r.Port, Protocol: proto, Action: action})
	}
	return out
}
