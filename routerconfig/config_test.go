package routerconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v2"
)

func TestConfigYamlOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("address: :8080\nfixed-body: hello\n"), 0o600))

	cfg := &Config{ConfigFile: path, Address: defaultAddress, ApplicationLog: defaultLogLevel}
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	require.NoError(t, yaml.Unmarshal(data, cfg))
	assert.Equal(t, ":8080", cfg.Address)
	assert.Equal(t, "hello", cfg.FixedBody)
}

func TestConfigDefaults(t *testing.T) {
	cfg := &Config{Address: defaultAddress, ApplicationLog: defaultLogLevel}
	assert.Equal(t, ":9090", cfg.Address)
	assert.Equal(t, "info", cfg.ApplicationLog)
}
