package provisioner

import (
	"encoding/json"
	"fmt"
)

// PublicIPOutput is the output holding the VM's public address
const PublicIPOutput = "public_ip"

// Output is one entry of `terraform output -json`
type Output struct {
	Sensitive bool            `json:"sensitive"`
	Type      json.RawMessage `json:"type,omitempty"`
	Value     json.RawMessage `json:"value"`
}

// Outputs maps output names to their values
type Outputs map[string]Output

// OutputParseError is returned when captured outputs cannot be used.
// Callers treat it as a warning.
type OutputParseError struct {
	Reason string
	Err    error
}

func (e *OutputParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("failed to read provisioner output: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("failed to read provisioner output: %s", e.Reason)
}

func (e *OutputParseError) Unwrap() error { return e.Err }

// ParseOutputs decodes the JSON captured from `terraform output -json`
func ParseOutputs(data []byte) (Outputs, error) {
	var outputs Outputs
	if err := json.Unmarshal(data, &outputs); err != nil {
		return nil, &OutputParseError{Reason: "invalid JSON", Err: err}
	}
	if outputs == nil {
		return nil, &OutputParseError{Reason: "no outputs"}
	}
	return outputs, nil
}

// PublicIP returns the VM's public address
func (o Outputs) PublicIP() (string, error) {
	out, ok := o[PublicIPOutput]
	if !ok {
		return "", &OutputParseError{Reason: fmt.Sprintf("output %q not found", PublicIPOutput)}
	}

	var ip string
	if err := json.Unmarshal(out.Value, &ip); err != nil {
		return "", &OutputParseError{Reason: fmt.Sprintf("output %q is not a string", PublicIPOutput), Err: err}
	}
	if ip == "" {
		return "", &OutputParseError{Reason: fmt.Sprintf("output %q is empty", PublicIPOutput)}
	}
	return ip, nil
}
