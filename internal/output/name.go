package output

import (
	"strings"

	"github.com/jbweber/tscale/internal/vm"
)

// NameFormatter prints bare VM names, one per line
type NameFormatter struct{}

// FormatVMList formats a list of VMs as names
func (f *NameFormatter) FormatVMList(vms []vm.VMInfo) (string, error) {
	if len(vms) == 0 {
		return "", nil
	}

	var b strings.Builder
	for _, v := range vms {
		b.WriteString(v.Name)
		b.WriteByte('\n')
	}
	return b.String(), nil
}
