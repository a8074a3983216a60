//go:build linux
// +build linux

package netops

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/vishvananda/netns"
)

// netnsRunDir is where iproute2-compatible named namespaces live.
const netnsRunDir = "/run/netns"

// DefaultNamespaceController is the default RealNamespaceController instance.
var DefaultNamespaceController NamespaceController = &RealNamespaceController{}

// RealNamespaceController manages named network namespaces via the
// netns library. Namespace switches are thread-scoped, so every
// operation that changes namespace pins its goroutine to the OS thread
// and restores the original namespace before returning.
type RealNamespaceController struct{}

// Exists reports whether a named namespace is present.
func (c *RealNamespaceController) Exists(name string) bool {
	ns, err := netns.GetFromName(name)
	if err != nil {
		return false
	}
	ns.Close()
	return true
}

// Create creates a named namespace and restores the calling thread's
// original namespace.
func (c *RealNamespaceController) Create(name string) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	origns, err := netns.Get()
	if err != nil {
		return fmt.Errorf("failed to get current namespace: %w", err)
	}
	defer origns.Close()

	// NewNamed switches the calling thread into the new namespace
	newns, err := netns.NewNamed(name)
	if err != nil {
		return fmt.Errorf("failed to create namespace %s: %w", name, err)
	}
	newns.Close()

	if err := netns.Set(origns); err != nil {
		return fmt.Errorf("failed to restore original namespace: %w", err)
	}
	return nil
}

// Delete removes a named namespace.
func (c *RealNamespaceController) Delete(name string) error {
	if err := netns.DeleteNamed(name); err != nil {
		return fmt.Errorf("failed to delete namespace %s: %w", name, err)
	}
	return nil
}

// Handle opens the namespace and returns its handle. The caller closes it.
func (c *RealNamespaceController) Handle(name string) (netns.NsHandle, error) {
	ns, err := netns.GetFromName(name)
	if err != nil {
		return netns.None(), fmt.Errorf("failed to open namespace %s: %w", name, err)
	}
	return ns, nil
}

// List returns the names of all named namespaces. A missing run
// directory means no namespaces exist.
func (c *RealNamespaceController) List() ([]string, error) {
	entries, err := os.ReadDir(netnsRunDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", netnsRunDir, err)
	}

	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names, nil
}

// RunIn executes fn with the calling thread switched into the
// namespace, restoring the original namespace afterwards.
func (c *RealNamespaceController) RunIn(name string, fn func() error) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	origns, err := netns.Get()
	if err != nil {
		return fmt.Errorf("failed to get current namespace: %w", err)
	}
	defer origns.Close()

	ns, err := netns.GetFromName(name)
	if err != nil {
		return fmt.Errorf("failed to open namespace %s: %w", name, err)
	}
	defer ns.Close()

	if err := netns.Set(ns); err != nil {
		return fmt.Errorf("failed to enter namespace %s: %w", name, err)
	}
	defer netns.Set(origns)

	return fn()
}

// ExecIn runs a command inside the namespace with stdio passed through.
// The returned int is the command's exit status; a non-zero status is
// not an error here, callers propagate it as their own exit code.
func (c *RealNamespaceController) ExecIn(name string, argv []string) (int, error) {
	if len(argv) == 0 {
		return 1, fmt.Errorf("no command given")
	}

	status := 0
	err := c.RunIn(name, func() error {
		// The child process is forked from the pinned thread and
		// inherits its network namespace.
		cmd := exec.Command(argv[0], argv[1:]...)
		cmd.Stdin = os.Stdin
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		if err := cmd.Run(); err != nil {
			var exitErr *exec.ExitError
			if errors.As(err, &exitErr) {
				status = exitErr.ExitCode()
				return nil
			}
			return fmt.Errorf("failed to run command: %w", err)
		}
		return nil
	})
	if err != nil {
		return 1, err
	}
	return status, nil
}
