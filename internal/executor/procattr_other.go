//go:build !unix

package executor

import "os/exec"

func detachFromTerminalSignals(_ *exec.Cmd) {}
