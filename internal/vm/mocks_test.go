package vm

import (
	"bytes"
	"context"
	"sync"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/jbweber/tscale/internal/config"
	"github.com/jbweber/tscale/internal/registry"
)

const (
	testKey      = "ssh-ed25519 AAAAC3NzaC1lZDI1NTE5AAAAIIbJKZscbOLzBsgY5y2QupKW4A2kSDjMBQGPb1dChr+S test@example.com"
	testKeyPath  = "/home/user/.ssh/id_rsa.pub"
	testPlaybook = "- hosts: all\n  tasks:\n    - ping:\n"
	testBookPath = "/work/playbook.yml"
)

// mockProvisioner is a mock implementation of the vmProvisioner interface for testing.
type mockProvisioner struct {
	mu sync.Mutex

	// Configurable behavior
	applyFunc   func(ctx context.Context, dir string) error
	destroyFunc func(ctx context.Context, dir string) error

	// Call tracking, in order, formatted as "apply <dir>" or "destroy <dir>"
	calls []string
}

func newMockProvisioner() *mockProvisioner {
	return &mockProvisioner{
		applyFunc: func(ctx context.Context, dir string) error {
			return nil
		},
		destroyFunc: func(ctx context.Context, dir string) error {
			return nil
		},
	}
}

func (m *mockProvisioner) Apply(ctx context.Context, dir string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, "apply "+dir)
	return m.applyFunc(ctx, dir)
}

func (m *mockProvisioner) Destroy(ctx context.Context, dir string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, "destroy "+dir)
	return m.destroyFunc(ctx, dir)
}

// faultyRegistry wraps a real registry and lets a test fail WriteFile.
type faultyRegistry struct {
	*registry.Manager
	writeFileFunc func(name, file string, data []byte) error
}

func (r *faultyRegistry) WriteFile(name, file string, data []byte) error {
	if r.writeFileFunc != nil {
		if err := r.writeFileFunc(name, file, data); err != nil {
			return err
		}
	}
	return r.Manager.WriteFile(name, file, data)
}

// testEnv bundles a controller with the in-memory state behind it.
type testEnv struct {
	fs   afero.Fs
	reg  *faultyRegistry
	prov *mockProvisioner
	env  map[string]string
	out  *bytes.Buffer
	ctrl *Controller
}

func newTestEnv(t *testing.T, verbose bool) *testEnv {
	t.Helper()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, testKeyPath, []byte(testKey+"\n"), 0o600))
	require.NoError(t, afero.WriteFile(fs, testBookPath, []byte(testPlaybook), 0o644))

	e := &testEnv{
		fs:   fs,
		reg:  &faultyRegistry{Manager: registry.NewManagerWithFs(fs, "vms")},
		prov: newMockProvisioner(),
		env: map[string]string{
			"SCW_ACCESS_KEY":              "SCWXXXXXXXXXXXXXXXXX",
			"SCW_SECRET_KEY":              "11111111-2222-3333-4444-555555555555",
			"SCW_DEFAULT_ORGANIZATION_ID": "org",
			"SCW_DEFAULT_PROJECT_ID":      "project",
		},
		out: &bytes.Buffer{},
	}
	e.ctrl = newControllerWithDeps(e.reg, e.prov, Options{
		Inputs: fs,
		LookupEnv: func(key string) (string, bool) {
			v, ok := e.env[key]
			return v, ok
		},
		Out:     e.out,
		Verbose: verbose,
	})
	return e
}

// seedVM creates a VM directory as a previous create would have left it.
func (e *testEnv) seedVM(t *testing.T, name string, extra ...string) {
	t.Helper()
	dir := "vms/" + name
	require.NoError(t, e.fs.MkdirAll(dir, 0o755))
	for _, f := range append([]string{"main.tf", "playbook.yml", "ssh-key.pub"}, extra...) {
		require.NoError(t, afero.WriteFile(e.fs, dir+"/"+f, []byte("old "+f), 0o644))
	}
}

func testConfig(name string) *config.VMConfig {
	return &config.VMConfig{
		Name:         name,
		SSHKeyPath:   testKeyPath,
		PlaybookPath: testBookPath,
	}
}
