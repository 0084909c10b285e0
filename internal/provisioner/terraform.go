// Package provisioner drives the external infrastructure provisioner
// (Terraform) inside a VM directory.
package provisioner

import (
	"context"

	"github.com/jbweber/tscale/internal/executor"
	"github.com/jbweber/tscale/internal/naming"
)

// DefaultBinary is the provisioner executable
const DefaultBinary = "terraform"

// stepRunner runs tool steps in a directory. *executor.Runner satisfies it.
type stepRunner interface {
	Run(ctx context.Context, dir string, steps []executor.Step) error
}

// Terraform runs the provisioner's apply and destroy sequences
type Terraform struct {
	runner stepRunner
}

// NewTerraform creates a provisioner that runs its steps through r
func NewTerraform(r stepRunner) *Terraform {
	return &Terraform{runner: r}
}

// ApplySteps are the steps run on create: init, apply without prompting,
// then capture outputs as JSON into the output file.
func ApplySteps() []executor.Step {
	return []executor.Step{
		{Args: []string{"init"}},
		{Args: []string{"apply", "-auto-approve"}},
		{Args: []string{"output", "-json"}, OutputFile: naming.OutputFile},
	}
}

// DestroySteps are the steps run on delete
func DestroySteps() []executor.Step {
	return []executor.Step{
		{Args: []string{"init"}},
		{Args: []string{"destroy", "-auto-approve"}},
	}
}

// Apply provisions the resources described in dir
func (t *Terraform) Apply(ctx context.Context, dir string) error {
	return t.runner.Run(ctx, dir, ApplySteps())
}

// Destroy tears down the resources described in dir
func (t *Terraform) Destroy(ctx context.Context, dir string) error {
	return t.runner.Run(ctx, dir, DestroySteps())
}
