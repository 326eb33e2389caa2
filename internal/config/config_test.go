package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String(KeyLogLevel, "info", "")
	fs.String(KeyGraphDir, "", "")
	fs.Duration(KeyPacing, DefaultPacing, "")
	fs.String(KeyConfigFile, "", "")
	return fs
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, Config{
		LogLevel:     "info",
		Pacing:       800 * time.Millisecond,
		Addr:         ":8080",
		MaxInputSize: 4096,
	}, cfg)
}

func TestLoad_Precedence(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "guidebot.yaml")
	require.NoError(t, os.WriteFile(file, []byte("addr: \":9090\"\npacing: 2s\nfallback-message: Say again?\nmax-input-size: 100\n"), 0644))

	t.Setenv("GUIDEBOT_PACING", "1s")
	t.Setenv("GUIDEBOT_GRAPH_DIR", "/srv/graph")

	fs := testFlags()
	require.NoError(t, fs.Parse([]string{"--config", file, "--log-level", "debug", "--graph-dir", "./nodes"}))

	cfg, err := Load(fs)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel, "flag")
	assert.Equal(t, "./nodes", cfg.GraphDir, "flag beats env")
	assert.Equal(t, time.Second, cfg.Pacing, "env beats file")
	assert.Equal(t, ":9090", cfg.Addr, "file beats default")
	assert.Equal(t, "Say again?", cfg.FallbackMessage)
	assert.Equal(t, 100, cfg.MaxInputSize)
}

func TestLoad_UnsetFlagKeepsEnv(t *testing.T) {
	t.Setenv("GUIDEBOT_LOG_LEVEL", "warn")

	fs := testFlags()
	require.NoError(t, fs.Parse(nil))

	cfg, err := Load(fs)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("GUIDEBOT_MAX_INPUT_SIZE", "0")
	t.Setenv("GUIDEBOT_PACING", "-1s")

	_, err := Load(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), KeyPacing)
	assert.Contains(t, err.Error(), KeyMaxInputSize)
}

func TestLoad_MissingConfigFile(t *testing.T) {
	fs := testFlags()
	require.NoError(t, fs.Parse([]string{"--config", filepath.Join(t.TempDir(), "absent.yaml")}))

	_, err := Load(fs)
	assert.ErrorContains(t, err, "reading config")
}
