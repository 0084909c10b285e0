//go:build unix

package executor

import (
	"os/exec"
	"syscall"
)

// detachFromTerminalSignals starts the child in a new process group
func detachFromTerminalSignals(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}
