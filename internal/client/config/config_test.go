package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "127.0.0.1:50051", c.ServerEndpointAddr)
	assert.Equal(t, 10*time.Second, c.RequestTimeout)
	assert.Equal(t, ".accounts", c.SessionDir)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("overlays present keys", func(t *testing.T) {
		path := filepath.Join(dir, "full.json")
		require.NoError(t, os.WriteFile(path, []byte(`{
			"server_endpoint_addr": "example:9000",
			"request_timeout": "3s"
		}`), 0o600))

		var c Config
		c.LoadDefaults()
		require.NoError(t, c.LoadFile(path))

		assert.Equal(t, Config{
			ServerEndpointAddr: "example:9000",
			RequestTimeout:     3 * time.Second,
			SessionDir:         ".accounts",
		}, c)
	})

	t.Run("numeric duration", func(t *testing.T) {
		path := filepath.Join(dir, "ns.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"request_timeout": 2000000000}`), 0o600))

		var c Config
		require.NoError(t, c.LoadFile(path))
		assert.Equal(t, 2*time.Second, c.RequestTimeout)
	})

	t.Run("missing file", func(t *testing.T) {
		var c Config
		assert.Error(t, c.LoadFile(filepath.Join(dir, "nope.json")))
	})

	t.Run("invalid json", func(t *testing.T) {
		path := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(path, []byte(`{ nope`), 0o600))

		var c Config
		assert.Error(t, c.LoadFile(path))
	})
}
