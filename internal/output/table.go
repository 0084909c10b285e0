package output

import (
	"bytes"
	"fmt"
	"text/tabwriter"

	"github.com/jbweber/tscale/internal/vm"
)

// TableFormatter formats VMs as a human-readable table
type TableFormatter struct {
	// NoHeaders omits the header row
	NoHeaders bool
}

// FormatVMList formats a list of VMs as a table
func (f *TableFormatter) FormatVMList(vms []vm.VMInfo) (string, error) {
	if len(vms) == 0 {
		return "No VMs found\n", nil
	}

	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)

	if !f.NoHeaders {
		_, _ = fmt.Fprintln(w, "NAME\tADDRESS\tDIRECTORY")
	}

	for _, v := range vms {
		address := v.Address
		if address == "" {
			address = "-"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", v.Name, address, v.Directory)
	}

	_ = w.Flush()
	return buf.String(), nil
}
