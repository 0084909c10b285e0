// Package output provides formatters for displaying registry listings
// in various formats (name, table, YAML, JSON).
package output

import (
	"fmt"

	"github.com/jbweber/tscale/internal/vm"
)

// Format represents an output format type
type Format string

const (
	// FormatName prints one VM name per line
	FormatName Format = "name"
	// FormatTable is a human-readable table format
	FormatTable Format = "table"
	// FormatYAML is a YAML format
	FormatYAML Format = "yaml"
	// FormatJSON is a JSON format for machine consumption
	FormatJSON Format = "json"
)

// Formatter formats VM listings for output
type Formatter interface {
	// FormatVMList formats a list of VMs.
	FormatVMList(vms []vm.VMInfo) (string, error)
}

// Options contains options for formatting output
type Options struct {
	// Format specifies the output format
	Format Format
	// NoHeaders omits headers in table format
	NoHeaders bool
}

// NewFormatter creates a new Formatter based on the specified format
func NewFormatter(opts Options) (Formatter, error) {
	switch opts.Format {
	case FormatName, "":
		return &NameFormatter{}, nil
	case FormatTable:
		return &TableFormatter{NoHeaders: opts.NoHeaders}, nil
	case FormatYAML:
		return &YAMLFormatter{}, nil
	case FormatJSON:
		return &JSONFormatter{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s (supported: name, table, yaml, json)", opts.Format)
	}
}

// ValidateFormat checks if a format string is valid
func ValidateFormat(format string) error {
	switch Format(format) {
	case FormatName, FormatTable, FormatYAML, FormatJSON:
		return nil
	default:
		return fmt.Errorf("invalid format: %s (valid formats: name, table, yaml, json)", format)
	}
}
