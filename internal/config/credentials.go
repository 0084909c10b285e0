package config

// Credential names an environment variable the provider needs and where to
// obtain its value.
type Credential struct {
	Key string
	URL string
}

// ScalewayCredentials are required for create.
var ScalewayCredentials = []Credential{
	{Key: "SCW_ACCESS_KEY", URL: "https://console.scaleway.com/iam/api-keys"},
	{Key: "SCW_SECRET_KEY", URL: "https://console.scaleway.com/iam/api-keys"},
	{Key: "SCW_DEFAULT_ORGANIZATION_ID", URL: "https://console.scaleway.com/organization/settings"},
	{Key: "SCW_DEFAULT_PROJECT_ID", URL: "https://console.scaleway.com/project/settings"},
}

// LookupFunc resolves an environment variable. os.LookupEnv satisfies it.
type LookupFunc func(key string) (string, bool)

// CheckCredentials returns a MissingCredentialError for the first credential
// that is unset or empty.
func CheckCredentials(lookup LookupFunc) error {
	for _, c := range ScalewayCredentials {
		if v, ok := lookup(c.Key); !ok || v == "" {
			return &MissingCredentialError{Key: c.Key, URL: c.URL}
		}
	}
	return nil
}
