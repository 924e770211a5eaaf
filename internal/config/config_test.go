package config

import (
	"os"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdirTemp(t *testing.T) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)
	unsetForTest(t, "FABRICALC_BACKEND", "FABRICALC_CONFIG_PATH", "FABRICALC_DB_PATH", "FABRICALC_PORT", "FABRICALC_LOG_LEVEL", "FABRICALC_LOG_FORMAT")

	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, "config.json", cfg.ConfigPath)
	assert.Equal(t, BackendJSON, cfg.Backend)
	assert.Equal(t, "fabricalc.db", cfg.DBPath)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "INFO", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	chdirTemp(t)
	t.Setenv("FABRICALC_BACKEND", "SQLite")
	t.Setenv("FABRICALC_DB_PATH", "/tmp/costs.db")

	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, BackendSQLite, cfg.Backend)
	assert.Equal(t, "/tmp/costs.db", cfg.DBPath)
}

func TestLoadFlagsOverrideEnv(t *testing.T) {
	chdirTemp(t)
	t.Setenv("FABRICALC_PORT", "9000")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("port", "8080", "")
	flags.String("config-path", "config.json", "")
	require.NoError(t, flags.Parse([]string{"--port", "9100", "--config-path", "shop.json"}))

	cfg, err := Load(flags)
	require.NoError(t, err)

	assert.Equal(t, "9100", cfg.Port)
	assert.Equal(t, "shop.json", cfg.ConfigPath)
}

func TestLoadReadsDotEnvFromWorkingDirectory(t *testing.T) {
	chdirTemp(t)
	unsetForTest(t, "FABRICALC_LOG_FORMAT")
	require.NoError(t, os.WriteFile(".env", []byte("FABRICALC_LOG_FORMAT=json\n"), 0o600))

	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	chdirTemp(t)
	t.Setenv("FABRICALC_BACKEND", "postgres")

	_, err := Load(nil)
	assert.Error(t, err)
}
