package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jbweber/tscale/internal/config"
	"github.com/jbweber/tscale/internal/output"
	"github.com/jbweber/tscale/internal/vm"
)

// Subcommand flags
var (
	vmFlags      config.VMConfig
	deleteName   string
	outputFormat string
	noHeaders    bool
)

var createCmd = &cobra.Command{
	Use:   "create --name <vm-name>",
	Short: "Create a VM",
	Long: `Create a new VM.

This will:
- Check the Scaleway credentials (SCW_* environment variables)
- Render the Terraform descriptor into <registry>/<name>/
- Copy the playbook and SSH public key next to it
- Run terraform init, apply and output in that directory

With --overwrite, an existing VM of the same name is deleted first.

Tags may be given as --tags web prod, --tags "web prod" or --tags web --tags prod.`,
	Args: tagArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := resolveVMConfig(cmd.Flags(), vmFlags, args, current.settings)
		return current.controller.Create(cmd.Context(), cfg)
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete --name <vm-name>",
	Short: "Delete a VM",
	Long: `Delete a VM by name.

This will:
- Run terraform init and destroy in the VM directory
- Remove the VM directory

If terraform fails, the directory is kept so the delete can be retried.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return current.controller.Delete(cmd.Context(), deleteName)
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List VMs",
	Long: `List the VMs in the registry folder.

Output formats:
  -o name   One name per line (default)
  -o table  Name, address and directory
  -o yaml   YAML list
  -o json   JSON list`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Validate output format
		if err := output.ValidateFormat(outputFormat); err != nil {
			return err
		}

		vms, err := listVMs(cmd, output.Format(outputFormat))
		if err != nil {
			return err
		}

		formatter, err := output.NewFormatter(output.Options{
			Format:    output.Format(outputFormat),
			NoHeaders: noHeaders,
		})
		if err != nil {
			return err
		}

		result, err := formatter.FormatVMList(vms)
		if err != nil {
			return fmt.Errorf("failed to format output: %w", err)
		}

		fmt.Fprint(cmd.OutOrStdout(), result)
		return nil
	},
}

// listVMs reads only the registry for the name format; the other formats
// also need each VM's recorded address.
func listVMs(cmd *cobra.Command, format output.Format) ([]vm.VMInfo, error) {
	if format != output.FormatName {
		return current.controller.List(cmd.Context())
	}

	names, err := current.controller.Names(cmd.Context())
	if err != nil {
		return nil, err
	}
	vms := make([]vm.VMInfo, len(names))
	for i, name := range names {
		vms[i] = vm.VMInfo{Name: name}
	}
	return vms, nil
}

// tagArgs accepts positional arguments only as extra values of --tags
func tagArgs(cmd *cobra.Command, args []string) error {
	if len(args) > 0 && !cmd.Flags().Changed("tags") {
		return fmt.Errorf("unexpected arguments %v: only --tags takes more than one value", args)
	}
	return nil
}
