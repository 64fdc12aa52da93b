package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv(EnvAPIDomain, "")
	t.Setenv(EnvAPIToken, "")
	t.Setenv(EnvDebug, "")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultAPIDomain, cfg.APIDomain)
	assert.Empty(t, cfg.APIToken)
	assert.False(t, cfg.Debug)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".opsbeacon")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(
		"apiDomain: file.example.com\napiToken: file-token\ndebug: true\n"), 0o644))

	t.Setenv(EnvAPIDomain, "env.example.com")
	t.Setenv(EnvAPIToken, "")
	t.Setenv(EnvDebug, "")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "env.example.com", cfg.APIDomain, "env wins over file")
	assert.Equal(t, "file-token", cfg.APIToken, "file value survives when env unset")
	assert.True(t, cfg.Debug)
}

func TestLoad_EnvFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv(EnvAPIDomain, "")
	// t.Setenv registers restoration; unset so the dotenv values apply
	// (godotenv never overrides variables already present).
	t.Setenv(EnvAPIToken, "")
	os.Unsetenv(EnvAPIToken)
	t.Setenv(EnvDebug, "")
	os.Unsetenv(EnvDebug)

	envFile := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte(
		EnvAPIToken+"=dotenv-token\n"+EnvDebug+"=true\n"), 0o644))

	cfg, err := Load(envFile)
	require.NoError(t, err)
	assert.Equal(t, "dotenv-token", cfg.APIToken)
	assert.True(t, cfg.Debug)
}

func TestLoad_MissingEnvFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	_, err := Load(filepath.Join(t.TempDir(), "absent.env"))
	require.Error(t, err)
}

func TestLoad_MalformedConfigFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(EnvAPIDomain, "")
	t.Setenv(EnvAPIToken, "")
	t.Setenv(EnvDebug, "")

	dir := filepath.Join(home, ".opsbeacon")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("{not yaml:"), 0o644))

	_, err := Load("")
	require.Error(t, err)
}
