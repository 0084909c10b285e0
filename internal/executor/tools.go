package executor

import (
	"fmt"
	"os/exec"
)

// MissingToolError is returned when a required binary is not on PATH
type MissingToolError struct {
	Name string
}

func (e *MissingToolError) Error() string {
	return fmt.Sprintf("%s is not installed, please install it", e.Name)
}

// lookPath is replaced in tests
var lookPath = exec.LookPath

// RequireTools checks that every named binary can be found on PATH
func RequireTools(names ...string) error {
	for _, name := range names {
		if _, err := lookPath(name); err != nil {
			return &MissingToolError{Name: name}
		}
	}
	return nil
}
