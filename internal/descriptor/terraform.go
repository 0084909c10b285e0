package descriptor

import (
	_ "embed"
	"strings"

	"github.com/jbweber/tscale/internal/config"
	"github.com/jbweber/tscale/internal/naming"
)

// Placeholder keys used by the Terraform template.
const (
	KeyZone       = "ZONE"
	KeyRegion     = "REGION"
	KeyFlavor     = "FLAVOR"
	KeyImage      = "IMAGE"
	KeyTags       = "TAGS"
	KeyName       = "NAME"
	KeyKeyContent = "KEY_CONTENT"
	KeyPlaybook   = "PLAYBOOK"
)

// ConfigurationRunner is the executable the template's local-exec
// provisioner invokes once the server is up.
const ConfigurationRunner = "ansible-playbook"

//go:embed main.tf.tmpl
var terraformTemplate string

// TerraformParams builds the placeholder values for one VM.
//
// Values that land inside quoted strings are escaped for HCL; TAGS is
// rendered as a complete list literal. PLAYBOOK refers to the playbook copy
// inside the VM directory so the provisioner's working directory is
// self-contained.
func TerraformParams(cfg *config.VMConfig, in *config.Inputs) Params {
	return Params{
		KeyZone:       escapeHCL(cfg.Zone),
		KeyRegion:     escapeHCL(cfg.Region),
		KeyFlavor:     escapeHCL(cfg.Flavor),
		KeyImage:      escapeHCL(cfg.Image),
		KeyTags:       TagsLiteral(cfg.Tags),
		KeyName:       escapeHCL(cfg.Name),
		KeyKeyContent: escapeHCL(in.KeyContent),
		KeyPlaybook:   naming.PlaybookFile,
	}
}

// RenderTerraform renders the descriptor for one VM.
func RenderTerraform(cfg *config.VMConfig, in *config.Inputs) (string, error) {
	return Render(terraformTemplate, TerraformParams(cfg, in))
}

// TagsLiteral serializes tags as an HCL list of strings.
//
// Example: [web prod] → ["web", "prod"]
func TagsLiteral(tags []string) string {
	quoted := make([]string, len(tags))
	for i, t := range tags {
		quoted[i] = `"` + escapeHCL(t) + `"`
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

var hclEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
	"${", "$${",
	"%{", "%%{",
)

// escapeHCL escapes s for use between double quotes in an HCL template string.
func escapeHCL(s string) string {
	return hclEscaper.Replace(s)
}
