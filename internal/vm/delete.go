package vm

import (
	"context"
	"errors"
	"fmt"

	"github.com/jbweber/tscale/internal/config"
	"github.com/jbweber/tscale/internal/registry"
)

// Delete destroys a VM's resources and removes its directory.
//
// If the provisioner fails the directory is kept, so the delete can be
// retried once the cause is fixed.
func (c *Controller) Delete(ctx context.Context, name string) error {
	if err := config.ValidateName(name); err != nil {
		return err
	}
	return c.delete(ctx, name, false)
}

// delete is shared with Create. When overwrite is set, a provisioner failure
// is logged and the directory is removed anyway.
func (c *Controller) delete(ctx context.Context, name string, overwrite bool) error {
	// Step 1: Existence. Without a registry folder there is nothing to delete.
	exists, err := c.registry.Exists(name)
	if errors.Is(err, registry.ErrRegistryMissing) {
		exists, err = false, nil
	}
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("VM %s %w", name, ErrNotFound)
	}

	// Step 2: Destroy
	dir := c.registry.PathFor(name)
	c.logger.Infow("destroying VM", "vm", name, "dir", dir)
	if err := c.provisioner.Destroy(ctx, dir); err != nil {
		if !overwrite {
			return fmt.Errorf("failed to destroy VM %s: %w", name, err)
		}
		c.logger.Warnw("failed to destroy VM, removing its directory anyway", "vm", name, "error", err)
	}

	// Step 3: Remove directory
	if err := c.registry.RemoveVMDirectory(name); err != nil {
		return err
	}
	c.logger.Infow("VM deleted", "vm", name)
	return nil
}
