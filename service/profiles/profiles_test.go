package profiles

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const configFile = `[default]
region = us-east-1

[profile prod]
sso_session = corp
sso_account_id = 111111111111
sso_role_name = Audit
region = eu-west-1

[profile legacy-sso]
sso_start_url = https://corp.awsapps.com/start
sso_region = us-east-1

[profile ops]
role_arn = arn:aws:iam::222222222222:role/ops
source_profile = default

[sso-session corp]
sso_start_url = https://corp.awsapps.com/start
sso_region = us-east-1
`

const credentialsFile = `[default]
aws_access_key_id = AKIAEXAMPLE
aws_secret_access_key = secret

[ci]
aws_access_key_id = AKIAEXAMPLE2
aws_secret_access_key = secret2
`

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	inv, err := Discover(writeFile(t, dir, "config", configFile), writeFile(t, dir, "credentials", credentialsFile))
	require.NoError(t, err)

	assert.True(t, inv.ConfigFound)
	assert.True(t, inv.CredentialsFound)
	assert.Equal(t, []string{"ci", "default", "legacy-sso", "ops", "prod"}, inv.Names())
	assert.Equal(t, []string{"legacy-sso", "prod"}, inv.SSOProfiles())
	assert.Equal(t, []string{"corp"}, inv.SSOSessions)

	for _, p := range inv.Profiles {
		switch p.Name {
		case "default":
			assert.True(t, p.InConfig)
			assert.True(t, p.HasCredentials)
		case "prod":
			assert.Equal(t, "corp", p.SSOSession)
			assert.Equal(t, "eu-west-1", p.Region)
		case "ci":
			assert.False(t, p.InConfig)
		}
	}
}

func TestDiscoverMissingFiles(t *testing.T) {
	dir := t.TempDir()
	inv, err := Discover(filepath.Join(dir, "config"), filepath.Join(dir, "credentials"))
	require.NoError(t, err)
	assert.False(t, inv.ConfigFound)
	assert.False(t, inv.CredentialsFound)
	assert.Empty(t, inv.Profiles)
}

func TestPathsHonorEnvironment(t *testing.T) {
	t.Setenv("AWS_CONFIG_FILE", "/tmp/custom-config")
	t.Setenv("AWS_SHARED_CREDENTIALS_FILE", "/tmp/custom-credentials")
	assert.Equal(t, "/tmp/custom-config", ConfigPath())
	assert.Equal(t, "/tmp/custom-credentials", CredentialsPath())
}
