package vm

import (
	"context"
	"fmt"

	"github.com/jbweber/tscale/internal/config"
	"github.com/jbweber/tscale/internal/descriptor"
	"github.com/jbweber/tscale/internal/naming"
	"github.com/jbweber/tscale/internal/provisioner"
)

// Create creates a new VM from cfg.
//
// The steps are:
//  1. Normalize and validate cfg
//  2. Check provider credentials
//  3. Read the SSH public key and playbook
//  4. Render the infrastructure descriptor
//  5. Handle an existing VM of the same name (fail, or delete it when
//     cfg.Overwrite is set)
//  6. Write the VM directory
//  7. Run the provisioner in the VM directory
//
// Nothing is written before step 5. If step 6 fails, the partial directory
// is removed. If step 7 fails, the directory is kept so the VM can be
// deleted.
func (c *Controller) Create(ctx context.Context, cfg *config.VMConfig) error {
	if cfg == nil {
		return fmt.Errorf("VM configuration cannot be nil")
	}

	// Step 1: Validate
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return err
	}

	// Step 2: Credentials
	if err := config.CheckCredentials(c.lookupEnv); err != nil {
		return err
	}

	// Step 3: Inputs
	inputs, err := config.LoadInputs(c.inputs, cfg)
	if err != nil {
		return err
	}

	c.logger.Debugw("resolved parameters",
		"name", cfg.Name,
		"image", cfg.Image,
		"flavor", cfg.Flavor,
		"tags", cfg.Tags,
		"zone", cfg.Zone,
		"region", cfg.Region,
		"sshKey", cfg.SSHKeyPath,
		"keyFingerprint", inputs.KeyFingerprint,
		"playbook", cfg.PlaybookPath,
		"overwrite", cfg.Overwrite,
	)

	// Step 4: Render descriptor
	rendered, err := descriptor.RenderTerraform(cfg, inputs)
	if err != nil {
		return err
	}

	// Step 5: Existing VM
	if err := c.registry.EnsureRoot(); err != nil {
		return err
	}
	exists, err := c.registry.Exists(cfg.Name)
	if err != nil {
		return err
	}
	if exists {
		if !cfg.Overwrite {
			return fmt.Errorf("VM %s %w", cfg.Name, ErrAlreadyExists)
		}
		_, _ = fmt.Fprintf(c.out, "VM %s already exists, overwriting...\n", cfg.Name)
		if err := c.delete(ctx, cfg.Name, true); err != nil {
			return err
		}
	}

	// Step 6: Write VM directory
	if err := c.writeVMDirectory(cfg.Name, rendered, inputs); err != nil {
		return err
	}

	// Step 7: Provision
	dir := c.registry.PathFor(cfg.Name)
	c.logger.Infow("provisioning VM", "vm", cfg.Name, "dir", dir)
	if err := c.provisioner.Apply(ctx, dir); err != nil {
		c.logger.Warnw("provisioning failed, VM directory kept", "vm", cfg.Name, "dir", dir)
		return fmt.Errorf("failed to provision VM %s (run delete to clean up): %w", cfg.Name, err)
	}
	c.logger.Infow("VM created", "vm", cfg.Name)

	if c.verbose {
		c.printConnectionHint(cfg)
	}
	return nil
}

// writeVMDirectory creates the VM directory and its three input files. On
// failure the directory is removed again.
func (c *Controller) writeVMDirectory(name, rendered string, inputs *config.Inputs) error {
	if err := c.registry.CreateVMDirectory(name); err != nil {
		return err
	}

	var writeErr error
	defer func() {
		if writeErr != nil {
			if err := c.registry.RemoveVMDirectory(name); err != nil {
				c.logger.Warnw("failed to clean up VM directory", "vm", name, "error", err)
			}
		}
	}()

	files := []struct {
		name string
		data string
	}{
		{naming.DescriptorFile, rendered},
		{naming.PlaybookFile, inputs.PlaybookContent},
		{naming.KeyFile, inputs.KeyContent},
	}
	for _, f := range files {
		if writeErr = c.registry.WriteFile(name, f.name, []byte(f.data)); writeErr != nil {
			return writeErr
		}
	}
	return nil
}

// printConnectionHint prints how to reach a freshly created VM. Failing to
// determine the address is reported but does not fail the create.
func (c *Controller) printConnectionHint(cfg *config.VMConfig) {
	_, _ = fmt.Fprintln(c.out, "VM created successfully")

	ip, err := c.address(cfg.Name)
	if err != nil {
		c.logger.Warnw("failed to read VM address", "vm", cfg.Name, "error", err)
		_, _ = fmt.Fprintf(c.out, "Failed to get VM IP because of the following error: %v\n", err)
		return
	}

	_, _ = fmt.Fprintln(c.out, "You can now connect to the VM using the following command:")
	_, _ = fmt.Fprintf(c.out, "ssh -i %s root@%s\n", naming.PrivateKeyPath(cfg.SSHKeyPath), ip)
}

// address returns the public IP recorded in a VM's output file
func (c *Controller) address(name string) (string, error) {
	data, err := c.registry.ReadFile(name, naming.OutputFile)
	if err != nil {
		return "", err
	}
	outputs, err := provisioner.ParseOutputs(data)
	if err != nil {
		return "", err
	}
	return outputs.PublicIP()
}
