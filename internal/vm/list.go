package vm

import (
	"context"
	"errors"
	"os"
)

// List returns the VMs in the registry, sorted by name.
//
// The address of each VM is read from its output file when one exists; a
// missing or unreadable output file leaves Address empty. A missing registry
// folder is an error wrapping registry.ErrRegistryMissing.
func (c *Controller) List(_ context.Context) ([]VMInfo, error) {
	names, err := c.registry.List()
	if err != nil {
		return nil, err
	}

	vms := make([]VMInfo, 0, len(names))
	for _, name := range names {
		info := VMInfo{
			Name:      name,
			Directory: c.registry.PathFor(name),
		}
		ip, err := c.address(name)
		switch {
		case err == nil:
			info.Address = ip
		case errors.Is(err, os.ErrNotExist):
		default:
			c.logger.Debugw("no address for VM", "vm", name, "error", err)
		}
		vms = append(vms, info)
	}
	return vms, nil
}

// Names returns the names of the VMs in the registry
func (c *Controller) Names(_ context.Context) ([]string, error) {
	return c.registry.List()
}
