// Package vm provides high-level VM lifecycle management operations.
//
// This package sequences the low-level components (config, descriptor,
// registry, provisioner) into the three operations exposed by the CLI:
//   - Create: render a VM directory and provision it
//   - Delete: destroy the provisioned resources and remove the VM directory
//   - List: report the VMs present in the registry
//
// Error Handling:
//
// Every precondition (name, credentials, input files, descriptor rendering)
// is checked before the registry is touched. If writing the VM directory
// fails, the partial directory is removed. If the provisioner fails, the
// directory is kept so the VM can be deleted afterwards.
//
// Context Support:
//
// All operations accept a context.Context. Cancelling it stops the running
// external command.
package vm
