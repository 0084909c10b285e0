// Package loader loads tscale settings from a YAML file.
package loader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/jbweber/tscale/internal/config"
	"github.com/jbweber/tscale/internal/provisioner"
	"github.com/jbweber/tscale/internal/registry"
)

// DefaultPath returns the settings file location: $XDG_CONFIG_HOME/tscale/config.yaml
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, "tscale", "config.yaml")
}

// DefaultSSHKeyPath returns ~/.ssh/id_rsa.pub
func DefaultSSHKeyPath() string {
	return filepath.Join(xdg.Home, ".ssh", "id_rsa.pub")
}

// ExpandPath replaces a leading "~" with the user's home directory
func ExpandPath(path string) string {
	if path == "~" {
		return xdg.Home
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(xdg.Home, path[2:])
	}
	return path
}

// LoadFromFile loads settings from path. A missing file yields defaults.
func LoadFromFile(fs afero.Fs, path string) (*config.Settings, error) {
	data, err := afero.ReadFile(fs, path)
	if errors.Is(err, os.ErrNotExist) {
		return LoadFromYAML(nil)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}

	settings, err := LoadFromYAML(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return settings, nil
}

// LoadFromYAML loads settings from YAML bytes. Unknown fields are rejected.
func LoadFromYAML(data []byte) (*config.Settings, error) {
	var s config.Settings

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to unmarshal YAML: %w", err)
	}

	applyDefaults(&s)

	if err := validateSettings(&s); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	return &s, nil
}

// applyDefaults sets default values for optional fields
func applyDefaults(s *config.Settings) {
	if s.Registry == "" {
		s.Registry = registry.DefaultRoot
	}
	if s.Provisioner == "" {
		s.Provisioner = provisioner.DefaultBinary
	}
	if s.SSHKey == "" {
		s.SSHKey = DefaultSSHKeyPath()
	}
	s.SSHKey = ExpandPath(s.SSHKey)
	s.Playbook = ExpandPath(s.Playbook)
	s.Registry = ExpandPath(s.Registry)
}

// validateSettings checks values that would otherwise fail late
func validateSettings(s *config.Settings) error {
	switch s.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error, got %q", s.Log.Level)
	}
	switch s.Log.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("log.format must be console or json, got %q", s.Log.Format)
	}
	for i, tag := range s.Tags {
		if strings.TrimSpace(tag) == "" {
			return fmt.Errorf("tags[%d] is empty", i)
		}
	}
	return nil
}
