package vm

import (
	"context"
	"errors"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jbweber/tscale/internal/config"
	"github.com/jbweber/tscale/internal/executor"
	"github.com/jbweber/tscale/internal/registry"
)

func TestCreate_WritesDirectoryAndProvisions(t *testing.T) {
	e := newTestEnv(t, false)

	cfg := testConfig("web1")
	cfg.Tags = []string{"web", "prod"}
	require.NoError(t, e.ctrl.Create(context.Background(), cfg))

	assert.Equal(t, []string{"apply vms/web1"}, e.prov.calls)

	tf, err := afero.ReadFile(e.fs, "vms/web1/main.tf")
	require.NoError(t, err)
	assert.Contains(t, string(tf), `name = "web1"`)
	assert.Contains(t, string(tf), `type = "DEV1-S"`)
	assert.Contains(t, string(tf), `image = "ubuntu_focal"`)
	assert.Contains(t, string(tf), `zone = "fr-par-1"`)
	assert.Contains(t, string(tf), `region = "fr-par"`)
	assert.Contains(t, string(tf), `tags = ["web", "prod"]`)
	assert.Contains(t, string(tf), `public_key = "`+testKey+`"`)
	assert.NotContains(t, string(tf), "{{")

	book, err := afero.ReadFile(e.fs, "vms/web1/playbook.yml")
	require.NoError(t, err)
	assert.Equal(t, testPlaybook, string(book))

	key, err := afero.ReadFile(e.fs, "vms/web1/ssh-key.pub")
	require.NoError(t, err)
	assert.Equal(t, testKey, string(key))

	assert.Empty(t, e.out.String(), "quiet create prints nothing")
}

func TestCreate_AlreadyExists(t *testing.T) {
	e := newTestEnv(t, false)
	e.seedVM(t, "web1")

	err := e.ctrl.Create(context.Background(), testConfig("web1"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAlreadyExists)
	assert.Equal(t, "VM web1 already exists", err.Error())

	assert.Empty(t, e.prov.calls)
	data, err := afero.ReadFile(e.fs, "vms/web1/main.tf")
	require.NoError(t, err)
	assert.Equal(t, "old main.tf", string(data), "existing VM must not be touched")
}

func TestCreate_Overwrite(t *testing.T) {
	e := newTestEnv(t, false)
	e.seedVM(t, "web1")

	cfg := testConfig("web1")
	cfg.Overwrite = true
	require.NoError(t, e.ctrl.Create(context.Background(), cfg))

	assert.Equal(t, []string{"destroy vms/web1", "apply vms/web1"}, e.prov.calls)
	assert.Contains(t, e.out.String(), "VM web1 already exists, overwriting...")

	data, err := afero.ReadFile(e.fs, "vms/web1/main.tf")
	require.NoError(t, err)
	assert.Contains(t, string(data), `name = "web1"`)
}

func TestCreate_OverwriteIgnoresDestroyFailure(t *testing.T) {
	e := newTestEnv(t, false)
	e.seedVM(t, "web1")
	e.prov.destroyFunc = func(ctx context.Context, dir string) error {
		return &executor.ExternalCommandFailedError{Command: "destroy -auto-approve", ExitCode: 1}
	}

	cfg := testConfig("web1")
	cfg.Overwrite = true
	require.NoError(t, e.ctrl.Create(context.Background(), cfg))

	assert.Equal(t, []string{"destroy vms/web1", "apply vms/web1"}, e.prov.calls)
}

func TestCreate_OverwriteStopsOnForeignFiles(t *testing.T) {
	e := newTestEnv(t, false)
	e.seedVM(t, "web1", "notes.txt")

	cfg := testConfig("web1")
	cfg.Overwrite = true
	err := e.ctrl.Create(context.Background(), cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, registry.ErrDirectoryNotEmpty)
	assert.Equal(t, []string{"destroy vms/web1"}, e.prov.calls)
}

func TestCreate_PreconditionsLeaveRegistryUntouched(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(e *testEnv, cfg *config.VMConfig)
		checkFn func(t *testing.T, err error)
	}{
		{
			name:  "invalid name",
			setup: func(e *testEnv, cfg *config.VMConfig) { cfg.Name = "../etc" },
			checkFn: func(t *testing.T, err error) {
				var target *config.InvalidInputError
				assert.ErrorAs(t, err, &target)
			},
		},
		{
			name:  "missing credential",
			setup: func(e *testEnv, cfg *config.VMConfig) { delete(e.env, "SCW_SECRET_KEY") },
			checkFn: func(t *testing.T, err error) {
				var target *config.MissingCredentialError
				require.ErrorAs(t, err, &target)
				assert.Equal(t, "SCW_SECRET_KEY", target.Key)
			},
		},
		{
			name:  "empty credential",
			setup: func(e *testEnv, cfg *config.VMConfig) { e.env["SCW_ACCESS_KEY"] = "" },
			checkFn: func(t *testing.T, err error) {
				var target *config.MissingCredentialError
				require.ErrorAs(t, err, &target)
				assert.Equal(t, "SCW_ACCESS_KEY", target.Key)
			},
		},
		{
			name:  "missing ssh key",
			setup: func(e *testEnv, cfg *config.VMConfig) { cfg.SSHKeyPath = "/nope.pub" },
			checkFn: func(t *testing.T, err error) {
				var target *config.MissingInputError
				require.ErrorAs(t, err, &target)
				assert.Equal(t, config.InputSSHKey, target.Kind)
			},
		},
		{
			name:  "missing playbook",
			setup: func(e *testEnv, cfg *config.VMConfig) { cfg.PlaybookPath = "/nope.yml" },
			checkFn: func(t *testing.T, err error) {
				var target *config.MissingInputError
				require.ErrorAs(t, err, &target)
				assert.Equal(t, config.InputPlaybook, target.Kind)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEnv(t, false)
			cfg := testConfig("web1")
			tt.setup(e, cfg)

			err := e.ctrl.Create(context.Background(), cfg)
			require.Error(t, err)
			tt.checkFn(t, err)

			assert.Empty(t, e.prov.calls)
			exists, _ := afero.DirExists(e.fs, "vms")
			assert.False(t, exists, "registry must not be created")
		})
	}
}

func TestCreate_WriteFailureRemovesDirectory(t *testing.T) {
	e := newTestEnv(t, false)
	e.reg.writeFileFunc = func(name, file string, data []byte) error {
		if file == "ssh-key.pub" {
			return errors.New("disk full")
		}
		return nil
	}

	err := e.ctrl.Create(context.Background(), testConfig("web1"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")

	assert.Empty(t, e.prov.calls)
	exists, err := afero.DirExists(e.fs, "vms/web1")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestCreate_ProvisionFailureKeepsDirectory(t *testing.T) {
	e := newTestEnv(t, false)
	e.prov.applyFunc = func(ctx context.Context, dir string) error {
		return &executor.ExternalCommandFailedError{Command: "apply -auto-approve", ExitCode: 1}
	}

	err := e.ctrl.Create(context.Background(), testConfig("web1"))
	require.Error(t, err)

	var cmdErr *executor.ExternalCommandFailedError
	assert.ErrorAs(t, err, &cmdErr)
	assert.Contains(t, err.Error(), "run delete")

	exists, err := afero.DirExists(e.fs, "vms/web1")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestCreate_VerbosePrintsConnectionHint(t *testing.T) {
	e := newTestEnv(t, true)
	e.prov.applyFunc = func(ctx context.Context, dir string) error {
		return afero.WriteFile(e.fs, dir+"/output.json",
			[]byte(`{"public_ip":{"sensitive":false,"type":"string","value":"51.15.1.2"}}`), 0o644)
	}

	require.NoError(t, e.ctrl.Create(context.Background(), testConfig("web1")))

	out := e.out.String()
	assert.Contains(t, out, "VM created successfully")
	assert.Contains(t, out, "ssh -i /home/user/.ssh/id_rsa root@51.15.1.2")
}

func TestCreate_VerboseWithoutAddress(t *testing.T) {
	e := newTestEnv(t, true)
	e.prov.applyFunc = func(ctx context.Context, dir string) error {
		return afero.WriteFile(e.fs, dir+"/output.json", []byte(`{}`), 0o644)
	}

	require.NoError(t, e.ctrl.Create(context.Background(), testConfig("web1")))

	out := e.out.String()
	assert.Contains(t, out, "VM created successfully")
	assert.Contains(t, out, "Failed to get VM IP")
	assert.NotContains(t, out, "ssh -i")
}

func TestCreate_EscapesValues(t *testing.T) {
	e := newTestEnv(t, false)

	cfg := testConfig("web1")
	cfg.Tags = []string{`a"b`}
	require.NoError(t, e.ctrl.Create(context.Background(), cfg))

	tf, err := afero.ReadFile(e.fs, "vms/web1/main.tf")
	require.NoError(t, err)
	assert.Contains(t, string(tf), `tags = ["a\"b"]`)
}

func TestCreate_NilConfig(t *testing.T) {
	e := newTestEnv(t, false)
	require.Error(t, e.ctrl.Create(context.Background(), nil))
}
