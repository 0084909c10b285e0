package vm

import "context"

// vmRegistry defines the registry operations needed for VM management.
//
// In production, this is satisfied by *registry.Manager.
// In tests, it is usually a *registry.Manager over an in-memory filesystem,
// optionally wrapped to inject failures.
type vmRegistry interface {
	// EnsureRoot creates the registry folder if needed
	EnsureRoot() error

	// List returns the names of all VMs
	List() ([]string, error)

	// Exists reports whether a VM directory exists
	Exists(name string) (bool, error)

	// PathFor returns the directory of a VM
	PathFor(name string) string

	// CreateVMDirectory creates a new, empty VM directory
	CreateVMDirectory(name string) error

	// WriteFile writes a file into a VM directory
	WriteFile(name, file string, data []byte) error

	// ReadFile reads a file from a VM directory
	ReadFile(name, file string) ([]byte, error)

	// RemoveVMDirectory removes a VM directory and its managed entries
	RemoveVMDirectory(name string) error
}

// vmProvisioner applies and destroys the resources described by a VM
// directory.
//
// In production, this is satisfied by *provisioner.Terraform.
type vmProvisioner interface {
	Apply(ctx context.Context, dir string) error
	Destroy(ctx context.Context, dir string) error
}
