package env

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadEnvironment(t *testing.T) {
	dir := t.TempDir()
	envFile := writeFile(t, dir, "http-client.env.json", `{
  "dev": {"host": "localhost:8080", "retries": 3, "secure": false, "empty": null},
  "prod": {"host": "api.example.com"}
}`)

	vars, err := LoadEnvironment(envFile, "dev")
	require.NoError(t, err)
	assert.Equal(t, "localhost:8080", vars["host"])
	assert.Equal(t, "3", vars["retries"])
	assert.Equal(t, "false", vars["secure"])
	assert.Equal(t, "", vars["empty"])
}

func TestLoadEnvironment_UnknownNameListsAvailable(t *testing.T) {
	dir := t.TempDir()
	envFile := writeFile(t, dir, "http-client.env.json", `{"dev": {}, "prod": {}}`)

	_, err := LoadEnvironment(envFile, "staging")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"staging"`)
	assert.Contains(t, err.Error(), "dev, prod")
}

func TestLoadEnvironment_PrivateOverride(t *testing.T) {
	dir := t.TempDir()
	envFile := writeFile(t, dir, "http-client.env.json", `{
  "dev": {"host": "localhost", "token": "public"}
}`)
	writeFile(t, dir, "http-client.private.env.json", `{
  "dev": {"token": "secret"}
}`)

	vars, err := LoadEnvironment(envFile, "dev")
	require.NoError(t, err)
	assert.Equal(t, "localhost", vars["host"])
	assert.Equal(t, "secret", vars["token"])
}

func TestLoadEnvironment_NoNameSelected(t *testing.T) {
	// Without an environment name the file is never read, so a missing
	// file is fine.
	vars, err := LoadEnvironment(filepath.Join(t.TempDir(), "nope.json"), "")
	require.NoError(t, err)
	assert.Empty(t, vars)
}

func TestLoadEnvironment_MissingFile(t *testing.T) {
	_, err := LoadEnvironment(filepath.Join(t.TempDir(), "nope.json"), "dev")
	require.Error(t, err)
}

func TestListEnvironments(t *testing.T) {
	dir := t.TempDir()
	envFile := writeFile(t, dir, "http-client.env.json", `{"prod": {}, "dev": {}}`)

	names, err := ListEnvironments(envFile)
	require.NoError(t, err)
	assert.Equal(t, []string{"dev", "prod"}, names)

	names, err = ListEnvironments(filepath.Join(dir, "missing.json"))
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestPrivateEnvPath(t *testing.T) {
	assert.Equal(t,
		filepath.Join("a", "http-client.private.env.json"),
		PrivateEnvPath(filepath.Join("a", "http-client.env.json")))
	assert.Equal(t,
		filepath.Join("a", "custom.private.json"),
		PrivateEnvPath(filepath.Join("a", "custom.json")))
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, ".env", `# comment
HOST=localhost
TOKEN="quoted value"
NAME='single'
BROKEN LINE
=nokey
`)

	vars, err := LoadDotEnv(path)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"HOST":  "localhost",
		"TOKEN": "quoted value",
		"NAME":  "single",
	}, vars)
}
