package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jbweber/tscale/internal/config"
	"github.com/jbweber/tscale/internal/loader"
	"github.com/jbweber/tscale/internal/output"
	"github.com/jbweber/tscale/internal/registry"
)

var (
	version = "dev"
	commit  = "unknown"
)

// Global flags
var (
	configPath string
	envFile    string
	registryFl string
	verbose    bool
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if current != nil {
		_ = current.logger.Sync()
	}
	if err != nil {
		// Errors go to standard output so they interleave with tool output.
		fmt.Println(err)
		os.Exit(exitCode(err))
	}
}

var rootCmd = &cobra.Command{
	Use:   "tscale",
	Short: "tscale - Scaleway VM management tool",
	Long: `tscale creates, deletes and lists Scaleway VMs.

Each VM lives in its own directory under the registry folder. The directory
holds a rendered Terraform descriptor, a copy of the Ansible playbook and
the SSH public key. terraform and ansible-playbook must be on the PATH.`,
	Version:           fmt.Sprintf("%s (commit: %s)", version, commit),
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", loader.DefaultPath(), "Settings file")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "File to load environment variables from")
	rootCmd.PersistentFlags().StringVar(&registryFl, "registry", registry.DefaultRoot, "Folder holding one directory per VM")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print debug logs and connection details")

	createCmd.Flags().StringVar(&vmFlags.Name, "name", "", "Name of the VM")
	createCmd.Flags().StringVar(&vmFlags.Image, "image", config.DefaultImage, "Image of the VM")
	createCmd.Flags().StringVar(&vmFlags.Flavor, "flavor", config.DefaultFlavor, "Commercial type of the VM")
	createCmd.Flags().StringArrayVar(&vmFlags.Tags, "tags", nil, "Tags of the VM, space separated or repeated")
	createCmd.Flags().StringVar(&vmFlags.Zone, "zone", config.DefaultZone, "Zone of the VM")
	createCmd.Flags().StringVar(&vmFlags.Region, "region", config.DefaultRegion, "Region of the VM")
	createCmd.Flags().StringVar(&vmFlags.SSHKeyPath, "ssh-key", "~/.ssh/id_rsa.pub", "SSH public key installed on the VM")
	createCmd.Flags().StringVar(&vmFlags.PlaybookPath, "playbook", config.DefaultPlaybook, "Ansible playbook run against the VM")
	createCmd.Flags().BoolVar(&vmFlags.Overwrite, "overwrite", false, "Delete an existing VM of the same name first")
	_ = createCmd.MarkFlagRequired("name")

	deleteCmd.Flags().StringVar(&deleteName, "name", "", "Name of the VM")
	_ = deleteCmd.MarkFlagRequired("name")

	listCmd.Flags().StringVarP(&outputFormat, "output", "o", string(output.FormatName), "Output format: name, table, json, yaml")
	listCmd.Flags().BoolVar(&noHeaders, "no-headers", false, "Omit the table header")

	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(listCmd)
}
