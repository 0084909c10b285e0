package config

import (
	"fmt"
	"strings"

	"github.com/spf13/afero"
	"golang.org/x/crypto/ssh"
	"gopkg.in/yaml.v3"
)

// Inputs holds the contents of the files a VM is created from.
type Inputs struct {
	// KeyContent is the public key with surrounding whitespace removed.
	KeyContent string

	// KeyFingerprint is the SHA256 fingerprint of the public key.
	KeyFingerprint string

	// PlaybookContent is the playbook exactly as read.
	PlaybookContent string
}

// LoadInputs reads and checks the SSH public key and playbook referenced by cfg.
//
// Unreadable or empty files yield a MissingInputError; a key that does not
// parse as an authorized_keys line or a playbook that is not a YAML list of
// plays yields an InvalidInputError.
func LoadInputs(fs afero.Fs, cfg *VMConfig) (*Inputs, error) {
	if cfg == nil {
		return nil, fmt.Errorf("VM configuration cannot be nil")
	}

	keyData, err := afero.ReadFile(fs, cfg.SSHKeyPath)
	if err != nil {
		return nil, &MissingInputError{Kind: InputSSHKey, Path: cfg.SSHKeyPath, Err: err}
	}
	key := strings.TrimSpace(string(keyData))
	if key == "" {
		return nil, &MissingInputError{Kind: InputSSHKey, Path: cfg.SSHKeyPath}
	}

	pub, _, _, _, err := ssh.ParseAuthorizedKey([]byte(key))
	if err != nil {
		return nil, &InvalidInputError{
			Kind:   InputSSHKey,
			Reason: fmt.Sprintf("%s is not a valid SSH public key: %v", cfg.SSHKeyPath, err),
		}
	}

	playbookData, err := afero.ReadFile(fs, cfg.PlaybookPath)
	if err != nil {
		return nil, &MissingInputError{Kind: InputPlaybook, Path: cfg.PlaybookPath, Err: err}
	}
	if strings.TrimSpace(string(playbookData)) == "" {
		return nil, &MissingInputError{Kind: InputPlaybook, Path: cfg.PlaybookPath}
	}
	if err := checkPlaybook(playbookData); err != nil {
		return nil, &InvalidInputError{
			Kind:   InputPlaybook,
			Reason: fmt.Sprintf("%s: %v", cfg.PlaybookPath, err),
		}
	}

	return &Inputs{
		KeyContent:      key,
		KeyFingerprint:  ssh.FingerprintSHA256(pub),
		PlaybookContent: string(playbookData),
	}, nil
}

// checkPlaybook verifies the playbook is a YAML sequence of plays.
func checkPlaybook(data []byte) error {
	var plays []map[string]any
	if err := yaml.Unmarshal(data, &plays); err != nil {
		return fmt.Errorf("playbook must be a YAML list of plays: %w", err)
	}
	if len(plays) == 0 {
		return fmt.Errorf("playbook contains no plays")
	}
	return nil
}
