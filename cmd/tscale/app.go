package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/jbweber/tscale/internal/config"
	"github.com/jbweber/tscale/internal/descriptor"
	"github.com/jbweber/tscale/internal/executor"
	"github.com/jbweber/tscale/internal/loader"
	"github.com/jbweber/tscale/internal/logging"
	"github.com/jbweber/tscale/internal/provisioner"
	"github.com/jbweber/tscale/internal/registry"
	"github.com/jbweber/tscale/internal/vm"
)

// app holds what every subcommand needs, built once per invocation
type app struct {
	settings   *config.Settings
	logger     *zap.Logger
	controller *vm.Controller
}

var current *app

// setup runs before every subcommand: it loads the env file and settings,
// builds the logger and checks that the external tools are installed.
func setup(cmd *cobra.Command, _ []string) error {
	if err := loadEnvFile(envFile, cmd.Flags().Changed("env-file")); err != nil {
		return err
	}

	settings, err := loader.LoadFromFile(afero.NewOsFs(), configPath)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	logger, err := logging.New(logging.Options{
		Level:   settings.Log.Level,
		Format:  settings.Log.Format,
		Verbose: verbose,
	})
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	logger = logger.With(zap.String("op", uuid.NewString()), zap.String("command", cmd.Name()))

	if err := executor.RequireTools(settings.Provisioner, descriptor.ConfigurationRunner); err != nil {
		return err
	}

	root := settings.Registry
	if cmd.Flags().Changed("registry") {
		root = loader.ExpandPath(registryFl)
	}

	reg := registry.NewManager(root)
	runner := executor.NewRunner(settings.Provisioner, logger)
	runner.Env = []string{"TF_IN_AUTOMATION=1"}

	current = &app{
		settings: settings,
		logger:   logger,
		controller: vm.NewController(
			reg,
			provisioner.NewTerraform(runner),
			vm.Options{
				Logger:  logger,
				Verbose: verbose,
			},
		),
	}
	logger.Debug("settings loaded", zap.String("path", configPath), zap.String("registry", reg.Root()))
	return nil
}

// loadEnvFile loads variables from path without overriding ones already set.
// A missing file is only an error when it was asked for explicitly.
func loadEnvFile(path string, explicit bool) error {
	err := godotenv.Load(path)
	if err == nil {
		return nil
	}
	if errors.Is(err, os.ErrNotExist) && !explicit {
		return nil
	}
	return fmt.Errorf("failed to load env file %s: %w", path, err)
}

// resolveVMConfig merges the create flags with the settings file. Flags the
// user did not set fall back to settings, then to built-in defaults.
// extraTags are positional arguments following --tags.
func resolveVMConfig(flags *pflag.FlagSet, fromFlags config.VMConfig, extraTags []string, settings *config.Settings) *config.VMConfig {
	cfg := &config.VMConfig{
		Name:      fromFlags.Name,
		Overwrite: fromFlags.Overwrite,
	}
	if flags.Changed("image") {
		cfg.Image = fromFlags.Image
	}
	if flags.Changed("flavor") {
		cfg.Flavor = fromFlags.Flavor
	}
	if flags.Changed("tags") {
		cfg.Tags = append(append([]string(nil), fromFlags.Tags...), extraTags...)
	}
	if flags.Changed("zone") {
		cfg.Zone = fromFlags.Zone
	}
	if flags.Changed("region") {
		cfg.Region = fromFlags.Region
	}
	if flags.Changed("ssh-key") {
		cfg.SSHKeyPath = loader.ExpandPath(fromFlags.SSHKeyPath)
	}
	if flags.Changed("playbook") {
		cfg.PlaybookPath = loader.ExpandPath(fromFlags.PlaybookPath)
	}

	settings.Apply(cfg)
	cfg.Normalize()
	return cfg
}
