package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "flow-engine.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestConfig(t *testing.T) {
	t.Run("DefaultIsValid", func(t *testing.T) {
		cfg := Default()
		assert.NoError(t, cfg.Validate())
		assert.Equal(t, "mainnet", cfg.Network)
		assert.Equal(t, "polkadot", cfg.DefaultChain)
		assert.Equal(t, BackendMemory, cfg.Storage.Backend)
		assert.Equal(t, 2*time.Second, cfg.Execution.Delay)
	})

	t.Run("LoadAppliesDefaults", func(t *testing.T) {
		path := writeConfig(t, "network: testnet\ndefault_chain: acala\n")

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "testnet", cfg.Network)
		assert.Equal(t, "acala", cfg.DefaultChain)
		assert.Equal(t, BackendMemory, cfg.Storage.Backend)
		assert.Equal(t, "info", cfg.LogLevel)
	})

	t.Run("LoadFullConfig", func(t *testing.T) {
		path := writeConfig(t, `
network: local
default_chain: moonbeam
log_level: debug
storage:
  backend: redis
  redis:
    addr: localhost:6379
    db: 3
execution:
  delay: 500ms
`)
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, BackendRedis, cfg.Storage.Backend)
		assert.Equal(t, "localhost:6379", cfg.Storage.Redis.Addr)
		assert.Equal(t, 3, cfg.Storage.Redis.DB)
		assert.Equal(t, 500*time.Millisecond, cfg.Execution.Delay)
	})

	t.Run("LoadMissingFile", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.Error(t, err)
	})

	t.Run("LoadMalformedYAML", func(t *testing.T) {
		path := writeConfig(t, "network: [unterminated")
		_, err := Load(path)
		assert.Error(t, err)
	})

	t.Run("RejectsUnknownNetwork", func(t *testing.T) {
		path := writeConfig(t, "network: moonbase\ndefault_chain: polkadot\n")
		_, err := Load(path)
		assert.Error(t, err)
	})

	t.Run("FileBackendRequiresPath", func(t *testing.T) {
		cfg := Default()
		cfg.Storage.Backend = BackendFile
		cfg.Storage.Path = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("RedisBackendRequiresAddr", func(t *testing.T) {
		cfg := Default()
		cfg.Storage.Backend = BackendRedis
		assert.Error(t, cfg.Validate())
	})

	t.Run("NegativeDelay", func(t *testing.T) {
		cfg := Default()
		cfg.Execution.Delay = -time.Second
		assert.Error(t, cfg.Validate())
	})
}
