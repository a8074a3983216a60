package netops

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultSystemController is the default RealSystemController instance.
var DefaultSystemController SystemController = &RealSystemController{}

// RealSystemController reads and writes sysctls through /proc/sys.
type RealSystemController struct{}

// sysctlPath accepts either dotted form ("net.ipv4.ip_forward") or an
// explicit /proc/sys path and returns the file path.
func sysctlPath(path string) string {
	if strings.HasPrefix(path, "/") {
		return path
	}
	return filepath.Join("/proc/sys", strings.ReplaceAll(path, ".", "/"))
}

// ReadSysctl returns the trimmed value of a sysctl.
func (r *RealSystemController) ReadSysctl(path string) (string, error) {
	data, err := os.ReadFile(sysctlPath(path))
	if err != nil {
		return "", fmt.Errorf("failed to read sysctl %s: %w", path, err)
	}
	return strings.TrimSpace(string(data)), nil
}

// WriteSysctl sets a sysctl value.
func (r *RealSystemController) WriteSysctl(path, value string) error {
	if err := os.WriteFile(sysctlPath(path), []byte(value), 0644); err != nil {
		return fmt.Errorf("failed to write sysctl %s: %w", path, err)
	}
	return nil
}
