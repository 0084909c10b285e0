package vm

import (
	"errors"
	"io"
	"os"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/jbweber/tscale/internal/config"
	"github.com/jbweber/tscale/internal/provisioner"
	"github.com/jbweber/tscale/internal/registry"
)

var (
	// ErrAlreadyExists is returned when creating a VM whose directory exists
	// and overwrite was not requested.
	ErrAlreadyExists = errors.New("already exists")

	// ErrNotFound is returned when deleting a VM that has no directory
	ErrNotFound = errors.New("does not exist")
)

// VMInfo describes one VM in the registry
type VMInfo struct {
	Name      string `json:"name" yaml:"name"`
	Directory string `json:"directory" yaml:"directory"`
	// Address is the public IP recorded by the last successful create, if any
	Address string `json:"address,omitempty" yaml:"address,omitempty"`
}

// Options configure a Controller. Zero values select the defaults.
type Options struct {
	// Inputs is the filesystem the SSH key and playbook are read from
	Inputs afero.Fs

	// LookupEnv resolves provider credentials
	LookupEnv config.LookupFunc

	// Out receives user-facing messages
	Out io.Writer

	Logger  *zap.Logger
	Verbose bool
}

// Controller sequences VM lifecycle operations over a registry and a
// provisioner.
type Controller struct {
	registry    vmRegistry
	provisioner vmProvisioner

	inputs    afero.Fs
	lookupEnv config.LookupFunc
	out       io.Writer
	logger    *zap.SugaredLogger
	verbose   bool
}

// NewController creates a Controller
func NewController(reg *registry.Manager, prov *provisioner.Terraform, opts Options) *Controller {
	return newControllerWithDeps(reg, prov, opts)
}

func newControllerWithDeps(reg vmRegistry, prov vmProvisioner, opts Options) *Controller {
	c := &Controller{
		registry:    reg,
		provisioner: prov,
		inputs:      opts.Inputs,
		lookupEnv:   opts.LookupEnv,
		out:         opts.Out,
		verbose:     opts.Verbose,
	}
	if c.inputs == nil {
		c.inputs = afero.NewOsFs()
	}
	if c.lookupEnv == nil {
		c.lookupEnv = os.LookupEnv
	}
	if c.out == nil {
		c.out = os.Stdout
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	c.logger = logger.Sugar()
	return c
}
