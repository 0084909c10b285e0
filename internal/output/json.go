package output

import (
	"encoding/json"
	"fmt"

	"github.com/jbweber/tscale/internal/vm"
)

// JSONFormatter formats VMs as a JSON array
type JSONFormatter struct{}

// FormatVMList formats a list of VMs as JSON
func (f *JSONFormatter) FormatVMList(vms []vm.VMInfo) (string, error) {
	if len(vms) == 0 {
		return "[]\n", nil
	}

	data, err := json.MarshalIndent(vms, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal VMs to JSON: %w", err)
	}

	return string(data) + "\n", nil
}
