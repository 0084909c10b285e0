// Package registry keeps track of VMs on disk.
//
// The registry root is a directory whose immediate subdirectories are VM
// names. A subdirectory existing is the only record that a VM exists; there
// is no index file that could drift from the filesystem.
//
// Operations are not safe for concurrent use on the same VM name, from one
// process or several. Callers must serialize them.
package registry

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"

	"github.com/jbweber/tscale/internal/naming"
)

const (
	// DefaultRoot is the registry root, relative to the working directory
	DefaultRoot = "vms"

	// DirPermissions are the permissions for the root and VM directories
	DirPermissions = 0755

	// FilePermissions are the permissions for files written into a VM directory
	FilePermissions = 0644
)

var (
	// ErrRegistryMissing is returned when the registry root does not exist
	ErrRegistryMissing = errors.New("registry does not exist")

	// ErrDirectoryNotEmpty is returned when a VM directory holds entries
	// the registry does not own.
	ErrDirectoryNotEmpty = errors.New("VM directory is not empty")
)

// Manager handles the registry root and the VM directories below it
type Manager struct {
	fs   afero.Fs
	root string
}

// NewManager creates a registry on the host filesystem
func NewManager(root string) *Manager {
	return NewManagerWithFs(afero.NewOsFs(), root)
}

// NewManagerWithFs creates a registry on the given filesystem
func NewManagerWithFs(fs afero.Fs, root string) *Manager {
	if root == "" {
		root = DefaultRoot
	}
	return &Manager{fs: fs, root: root}
}

// Root returns the registry root directory
func (m *Manager) Root() string {
	return m.root
}

// EnsureRoot creates the registry root if it does not exist
func (m *Manager) EnsureRoot() error {
	if err := m.fs.MkdirAll(m.root, DirPermissions); err != nil {
		return fmt.Errorf("failed to create registry %s: %w", m.root, err)
	}
	return nil
}

// List returns the names of all VMs in the registry, sorted
func (m *Manager) List() ([]string, error) {
	info, err := m.fs.Stat(m.root)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("folder %s: %w", m.root, ErrRegistryMissing)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to check registry %s: %w", m.root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("registry %s is not a directory", m.root)
	}

	entries, err := afero.ReadDir(m.fs, m.root)
	if err != nil {
		return nil, fmt.Errorf("failed to read registry %s: %w", m.root, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// Exists reports whether name is one of the names returned by List
func (m *Manager) Exists(name string) (bool, error) {
	names, err := m.List()
	if err != nil {
		return false, err
	}
	for _, n := range names {
		if n == name {
			return true, nil
		}
	}
	return false, nil
}

// PathFor returns the directory of a VM. It does not imply the VM exists.
func (m *Manager) PathFor(name string) string {
	return filepath.Join(m.root, name)
}

// CreateVMDirectory creates the directory for a new VM. It fails if the
// directory already exists.
func (m *Manager) CreateVMDirectory(name string) error {
	dir := m.PathFor(name)
	if err := m.fs.Mkdir(dir, DirPermissions); err != nil {
		return fmt.Errorf("cannot create folder %s: %w", dir, err)
	}
	return nil
}

// WriteFile writes one file into a VM directory
func (m *Manager) WriteFile(name, file string, data []byte) error {
	path := filepath.Join(m.PathFor(name), file)
	if err := afero.WriteFile(m.fs, path, data, FilePermissions); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// ReadFile reads one file from a VM directory
func (m *Manager) ReadFile(name, file string) ([]byte, error) {
	path := filepath.Join(m.PathFor(name), file)
	data, err := afero.ReadFile(m.fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

// RemoveVMDirectory removes a VM directory.
//
// Only entries the registry owns (see naming.IsManaged) are removed. If the
// directory holds anything else, nothing is removed and the error wraps
// ErrDirectoryNotEmpty. A directory that does not exist is not an error.
func (m *Manager) RemoveVMDirectory(name string) error {
	dir := m.PathFor(name)

	entries, err := afero.ReadDir(m.fs, dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read VM directory %s: %w", dir, err)
	}

	var unknown []string
	for _, e := range entries {
		if !naming.IsManaged(e.Name()) {
			unknown = append(unknown, e.Name())
		}
	}
	if len(unknown) > 0 {
		return fmt.Errorf("%w: %s contains %s", ErrDirectoryNotEmpty, dir, strings.Join(unknown, ", "))
	}

	for _, e := range entries {
		path := filepath.Join(dir, e.Name())
		if err := m.fs.RemoveAll(path); err != nil {
			return fmt.Errorf("failed to remove %s: %w", path, err)
		}
	}

	if err := m.fs.Remove(dir); err != nil {
		return fmt.Errorf("failed to delete VM directory %s: %w", dir, err)
	}
	return nil
}
