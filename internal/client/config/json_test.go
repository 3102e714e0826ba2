package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "client.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestParseJSON(t *testing.T) {
	var cfg Config
	cfg.LoadDefaults()

	require.NoError(t, parseJSON(&cfg, writeFile(t, `{
		"server_endpoint_addr": "reports.city.test:443",
		"online_check_interval": "30s",
		"auto_connectivity": true
	}`)))

	assert.Equal(t, "reports.city.test:443", cfg.ServerEndpointAddr)
	assert.Equal(t, 30*time.Second, cfg.OnlineCheckInterval)
	assert.True(t, cfg.AutoConnectivity)
	assert.Equal(t, "citycare-data", cfg.DataDir)
	assert.Equal(t, 10*time.Second, cfg.SyncCallTimeout)
}

func TestParseJSON_FalseOverridesTrue(t *testing.T) {
	cfg := Config{AutoConnectivity: true, DataDir: "keep"}
	require.NoError(t, parseJSON(&cfg, writeFile(t, `{"auto_connectivity": false, "sync_call_timeout": 2000000000}`)))

	assert.False(t, cfg.AutoConnectivity)
	assert.Equal(t, "keep", cfg.DataDir)
	assert.Equal(t, 2*time.Second, cfg.SyncCallTimeout)
}

func TestParseJSON_Errors(t *testing.T) {
	require.NoError(t, parseJSON(&Config{}, ""))
	assert.Error(t, parseJSON(&Config{}, filepath.Join(t.TempDir(), "absent.json")))
	assert.Error(t, parseJSON(&Config{}, writeFile(t, `{ not json`)))
}
