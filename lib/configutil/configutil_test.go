package configutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	DataDir string            `json:"data_dir"`
	Prefix  string            `json:"prefix"`
	Verbose bool              `json:"verbose"`
	Headers map[string]string `json:"headers"`
}

func TestReadConfigWithLocalOverride(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "sso.json5")
	require.Equal(t, filepath.Join(dir, "sso.local.json5"), LocalName(name))

	_, err := ReadConfig[testConfig](name)
	require.True(t, os.IsNotExist(err))

	require.NoError(t, os.WriteFile(name, []byte(`{
		// comments and trailing commas are fine
		data_dir: "calendars",
		prefix: "sso",
	}`), 0o644))
	require.NoError(t, os.WriteFile(LocalName(name), []byte(`{prefix: "test", verbose: true}`), 0o644))

	cfg, err := ReadConfig[testConfig](name)
	require.NoError(t, err)
	require.Equal(t, testConfig{DataDir: "calendars", Prefix: "test", Verbose: true}, cfg)
}

func TestReadConfigParseError(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "sso.json5")
	require.NoError(t, os.WriteFile(name, []byte(`{data_dir: `), 0o644))

	_, err := ReadConfig[testConfig](name)
	require.Error(t, err)
	require.False(t, os.IsNotExist(err))
}

func TestReadRecursivelyAbsolute(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "sso.json5")
	require.NoError(t, os.WriteFile(name, []byte(`{prefix: "abs"}`), 0o644))

	cfg, err := ReadRecursively[testConfig](name)
	require.NoError(t, err)
	require.Equal(t, "abs", cfg.Prefix)
}

func TestFillDefaults(t *testing.T) {
	cfg := testConfig{Prefix: "mine"}
	require.NoError(t, FillDefaults(&cfg, testConfig{DataDir: ".", Prefix: "sso"}))
	require.Equal(t, testConfig{DataDir: ".", Prefix: "mine"}, cfg)
}
