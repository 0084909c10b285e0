package vm

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jbweber/tscale/internal/executor"
	"github.com/jbweber/tscale/internal/provisioner"
	"github.com/jbweber/tscale/internal/registry"
)

// fakeTerraform records "<cwd>|<args>" into $FAKE_TOOL_LOG and answers
// "output -json" with a public_ip output.
const fakeTerraform = `#!/bin/sh
echo "$(pwd -P)|$*" >> "$FAKE_TOOL_LOG"
if [ "$1" = "output" ]; then
  echo '{"public_ip":{"sensitive":false,"type":"string","value":"51.15.1.2"}}'
fi
`

func TestCreateAndDelete_RunTerraformInVMDirectory(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("fake terraform requires a POSIX shell")
	}

	binDir := t.TempDir()
	binary := filepath.Join(binDir, "terraform")
	require.NoError(t, os.WriteFile(binary, []byte(fakeTerraform), 0o755))
	toolLog := filepath.Join(binDir, "calls.log")

	work, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	keyPath := filepath.Join(work, "id_rsa.pub")
	bookPath := filepath.Join(work, "playbook.yml")
	require.NoError(t, os.WriteFile(keyPath, []byte(testKey+"\n"), 0o600))
	require.NoError(t, os.WriteFile(bookPath, []byte(testPlaybook), 0o644))

	runner := executor.NewRunner(binary, nil)
	runner.Stdout = &bytes.Buffer{}
	runner.Stderr = &bytes.Buffer{}
	runner.Env = []string{"FAKE_TOOL_LOG=" + toolLog}

	root := filepath.Join(work, "vms")
	var out bytes.Buffer
	ctrl := NewController(registry.NewManager(root), provisioner.NewTerraform(runner), Options{
		Inputs: afero.NewOsFs(),
		LookupEnv: func(string) (string, bool) {
			return "set", true
		},
		Out:     &out,
		Verbose: true,
	})

	cfg := testConfig("web1")
	cfg.SSHKeyPath = keyPath
	cfg.PlaybookPath = bookPath
	require.NoError(t, ctrl.Create(context.Background(), cfg))

	vmDir := filepath.Join(root, "web1")
	for _, f := range []string{"main.tf", "playbook.yml", "ssh-key.pub", "output.json"} {
		assert.FileExists(t, filepath.Join(vmDir, f))
	}
	tf, err := os.ReadFile(filepath.Join(vmDir, "main.tf"))
	require.NoError(t, err)
	assert.Contains(t, string(tf), `name = "web1"`)
	assert.Contains(t, out.String(), "root@51.15.1.2")

	vms, err := ctrl.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []VMInfo{{Name: "web1", Directory: vmDir, Address: "51.15.1.2"}}, vms)

	require.NoError(t, ctrl.Delete(context.Background(), "web1"))
	assert.NoDirExists(t, vmDir)

	data, err := os.ReadFile(toolLog)
	require.NoError(t, err)
	assert.Equal(t, []string{
		vmDir + "|init",
		vmDir + "|apply -auto-approve",
		vmDir + "|output -json",
		vmDir + "|init",
		vmDir + "|destroy -auto-approve",
	}, strings.Split(strings.TrimSpace(string(data)), "\n"))
}
