package config

import (
	"fmt"
	"regexp"
	"strings"
)

// Default VM parameters.
const (
	DefaultImage    = "ubuntu_focal"
	DefaultFlavor   = "DEV1-S"
	DefaultZone     = "fr-par-1"
	DefaultRegion   = "fr-par"
	DefaultPlaybook = "playbook.yml"

	// maxNameLength keeps names usable both as directory names and as
	// instance hostnames.
	maxNameLength = 63
)

var namePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// VMConfig describes one VM as requested on the command line.
type VMConfig struct {
	Name         string   `yaml:"name"`
	Image        string   `yaml:"image"`
	Flavor       string   `yaml:"flavor"`
	Tags         []string `yaml:"tags,omitempty"`
	Zone         string   `yaml:"zone"`
	Region       string   `yaml:"region"`
	SSHKeyPath   string   `yaml:"sshKey"`
	PlaybookPath string   `yaml:"playbook"`
	Overwrite    bool     `yaml:"overwrite,omitempty"`
}

// Normalize trims user input and expands space-separated tag values.
func (c *VMConfig) Normalize() {
	c.Name = strings.TrimSpace(c.Name)
	c.Image = strings.TrimSpace(c.Image)
	c.Flavor = strings.TrimSpace(c.Flavor)
	c.Zone = strings.TrimSpace(c.Zone)
	c.Region = strings.TrimSpace(c.Region)

	var tags []string
	for _, t := range c.Tags {
		tags = append(tags, strings.Fields(t)...)
	}
	c.Tags = tags

	if c.Image == "" {
		c.Image = DefaultImage
	}
	if c.Flavor == "" {
		c.Flavor = DefaultFlavor
	}
	if c.Zone == "" {
		c.Zone = DefaultZone
	}
	if c.Region == "" {
		c.Region = DefaultRegion
	}
	if c.PlaybookPath == "" {
		c.PlaybookPath = DefaultPlaybook
	}
}

// Validate checks the configuration for errors.
// Only the structure is validated; input files are checked by LoadInputs.
func (c *VMConfig) Validate() error {
	if err := ValidateName(c.Name); err != nil {
		return err
	}
	if c.Image == "" {
		return &InvalidInputError{Kind: "image", Reason: "image is required"}
	}
	if c.Flavor == "" {
		return &InvalidInputError{Kind: "flavor", Reason: "flavor is required"}
	}
	if c.Zone == "" {
		return &InvalidInputError{Kind: "zone", Reason: "zone is required"}
	}
	if c.Region == "" {
		return &InvalidInputError{Kind: "region", Reason: "region is required"}
	}
	for i, tag := range c.Tags {
		if tag == "" {
			return &InvalidInputError{Kind: "tag", Reason: fmt.Sprintf("tags[%d] is empty", i)}
		}
	}
	if c.SSHKeyPath == "" {
		return &MissingInputError{Kind: InputSSHKey}
	}
	if c.PlaybookPath == "" {
		return &MissingInputError{Kind: InputPlaybook}
	}
	return nil
}

// ValidateName checks that a VM name is safe to use as a registry directory.
// Names must start with an alphanumeric character and contain only
// alphanumerics, dots, hyphens and underscores.
func ValidateName(name string) error {
	if name == "" {
		return &InvalidInputError{Kind: "name", Reason: "name is required"}
	}
	if len(name) > maxNameLength {
		return &InvalidInputError{
			Kind:   "name",
			Reason: fmt.Sprintf("name must be at most %d characters, got %d", maxNameLength, len(name)),
		}
	}
	if !namePattern.MatchString(name) {
		return &InvalidInputError{
			Kind:   "name",
			Reason: fmt.Sprintf("name must start with an alphanumeric character and contain only alphanumerics, dots, hyphens or underscores, got %q", name),
		}
	}
	return nil
}
