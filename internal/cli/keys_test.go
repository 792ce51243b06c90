package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeys_Default(t *testing.T) {
	stdout, _, err := executeCommand("keys")
	require.NoError(t, err)
	assert.Equal(t, "children\ndesc\nid\ntext\n", stdout)
}

func TestKeys_ExplicitKeysWinOverProfile(t *testing.T) {
	stdout, _, err := executeCommand("keys", "--keys", "text,id", "--profile", "inspect")
	require.NoError(t, err)
	assert.Equal(t, "id\ntext\n", stdout)
}

func TestKeys_ProfileFromConfigFile(t *testing.T) {
	cfg := writeFile(t, t.TempDir(), "cfg.yaml", "profile: inspect\n")

	stdout, _, err := executeCommand("--config", cfg, "keys")
	require.NoError(t, err)
	assert.Contains(t, stdout, "bounds\n")
	assert.Contains(t, stdout, "longClickable\n")
}

func TestKeys_ListProfiles(t *testing.T) {
	cfg := writeFile(t, t.TempDir(), "cfg.yaml", `profiles:
  mini:
    keys: [id]
  layout:
    keys: [ignored]
`)

	stdout, _, err := executeCommand("--config", cfg, "keys", "--profiles")
	require.NoError(t, err)

	assert.Contains(t, stdout, "layout: children, desc, id, text\n")
	assert.Contains(t, stdout, "inspect: ")
	assert.Contains(t, stdout, "mini (custom): id\n")
	assert.NotContains(t, stdout, "ignored")
}

func TestKeys_UnknownProfile(t *testing.T) {
	_, _, err := executeCommand("keys", "--profile", "missing")
	requireExitCode(t, err, exitUsage)
}

func TestKeys_MalformedProfiles(t *testing.T) {
	cfg := writeFile(t, t.TempDir(), "cfg.yaml", "profiles: [a, b]\n")

	_, _, err := executeCommand("--config", cfg, "keys", "--profiles")
	requireExitCode(t, err, exitUsage)
	assert.Contains(t, err.Error(), "parsing profiles")
}
