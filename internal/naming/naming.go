// Package naming provides the file naming conventions used inside a VM's
// registry directory. Every component that reads or writes an entry goes
// through these helpers so the layout is defined in one place.
//
// Layout of vms/<name>/:
//
//	main.tf        rendered infrastructure descriptor
//	playbook.yml   copy of the configuration playbook
//	ssh-key.pub    copy of the public key
//	output.json    provisioner output snapshot (after create)
package naming

import "strings"

const (
	// DescriptorFile is the rendered infrastructure descriptor
	DescriptorFile = "main.tf"

	// PlaybookFile is the copy of the configuration playbook
	PlaybookFile = "playbook.yml"

	// KeyFile is the copy of the SSH public key
	KeyFile = "ssh-key.pub"

	// OutputFile holds the provisioner's JSON output captured after apply
	OutputFile = "output.json"
)

// EntryFiles returns the files the controller itself writes into a VM directory
func EntryFiles() []string {
	return []string{DescriptorFile, PlaybookFile, KeyFile, OutputFile}
}

// ProvisionerArtifacts returns the working files the provisioner leaves in a
// VM directory. They are owned by the entry and removed together with it.
func ProvisionerArtifacts() []string {
	return []string{
		".terraform",
		".terraform.lock.hcl",
		"terraform.tfstate",
		"terraform.tfstate.backup",
	}
}

// IsManaged reports whether a directory entry name belongs to a registry entry
func IsManaged(entry string) bool {
	for _, f := range EntryFiles() {
		if entry == f {
			return true
		}
	}
	for _, f := range ProvisionerArtifacts() {
		if entry == f {
			return true
		}
	}
	return false
}

// PrivateKeyPath derives the private key path from a public key path.
//
// Example: ~/.ssh/id_rsa.pub → ~/.ssh/id_rsa
func PrivateKeyPath(publicKeyPath string) string {
	return strings.TrimSuffix(publicKeyPath, ".pub")
}
