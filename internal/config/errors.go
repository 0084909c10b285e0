package config

import "fmt"

// Input kinds reported by MissingInputError and InvalidInputError.
const (
	InputSSHKey   = "ssh key"
	InputPlaybook = "playbook"
)

// MissingCredentialError is returned when a provider credential is not set.
type MissingCredentialError struct {
	Key string
	URL string
}

func (e *MissingCredentialError) Error() string {
	return fmt.Sprintf("environment variable %s is not set, please refer to %s", e.Key, e.URL)
}

// MissingInputError is returned when an input file cannot be read or is empty.
type MissingInputError struct {
	Kind string
	Path string
	Err  error
}

func (e *MissingInputError) Error() string {
	msg := fmt.Sprintf("%s does not exist", e.Kind)
	if e.Path != "" {
		msg = fmt.Sprintf("%s %s does not exist", e.Kind, e.Path)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *MissingInputError) Unwrap() error { return e.Err }

// InvalidInputError is returned when a parameter or input file is present
// but unusable.
type InvalidInputError struct {
	Kind   string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Kind, e.Reason)
}
