//go:build !linux
// +build !linux

package netops

import (
	"fmt"

	"github.com/vishvananda/netns"
)

// DefaultNamespaceController is the default RealNamespaceController instance (stub).
var DefaultNamespaceController NamespaceController = &RealNamespaceController{}

// RealNamespaceController is a stub implementation of NamespaceController.
type RealNamespaceController struct{}

func (c *RealNamespaceController) Exists(name string) bool {
	return false
}

func (c *RealNamespaceController) Create(name string) error {
	return fmt.Errorf("network namespaces not supported on this platform")
}

func (c *RealNamespaceController) Delete(name string) error {
	return fmt.Errorf("network namespaces not supported on this platform")
}

func (c *RealNamespaceController) Handle(name string) (netns.NsHandle, error) {
	return netns.None(), fmt.Errorf("network namespaces not supported on this platform")
}

func (c *RealNamespaceController) List() ([]string, error) {
	return nil, nil
}

func (c *RealNamespaceController) RunIn(name string, fn func() error) error {
	return fmt.Errorf("network namespaces not supported on this platform")
}

func (c *RealNamespaceController) ExecIn(name string, argv []string) (int, error) {
	return 1, fmt.Errorf("network namespaces not supported on this platform")
}
