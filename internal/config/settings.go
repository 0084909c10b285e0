package config

// Settings are user defaults read from the settings file. Every field is
// optional; explicit command-line flags take precedence.
type Settings struct {
	Registry    string      `yaml:"registry,omitempty"`
	Image       string      `yaml:"image,omitempty"`
	Flavor      string      `yaml:"flavor,omitempty"`
	Zone        string      `yaml:"zone,omitempty"`
	Region      string      `yaml:"region,omitempty"`
	Tags        []string    `yaml:"tags,omitempty"`
	SSHKey      string      `yaml:"sshKey,omitempty"`
	Playbook    string      `yaml:"playbook,omitempty"`
	Provisioner string      `yaml:"provisioner,omitempty"`
	Log         LogSettings `yaml:"log,omitempty"`
}

// LogSettings configure logging.
type LogSettings struct {
	Level  string `yaml:"level,omitempty"`
	Format string `yaml:"format,omitempty"`
}

// Apply copies settings into the fields of cfg that are still empty.
func (s *Settings) Apply(cfg *VMConfig) {
	if cfg.Image == "" {
		cfg.Image = s.Image
	}
	if cfg.Flavor == "" {
		cfg.Flavor = s.Flavor
	}
	if cfg.Zone == "" {
		cfg.Zone = s.Zone
	}
	if cfg.Region == "" {
		cfg.Region = s.Region
	}
	if len(cfg.Tags) == 0 && len(s.Tags) > 0 {
		cfg.Tags = append([]string(nil), s.Tags...)
	}
	if cfg.SSHKeyPath == "" {
		cfg.SSHKeyPath = s.SSHKey
	}
	if cfg.PlaybookPath == "" {
		cfg.PlaybookPath = s.Playbook
	}
}
