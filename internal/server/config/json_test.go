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
	path := filepath.Join(t.TempDir(), "citycare.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestParseJSON(t *testing.T) {
	path := writeFile(t, `{
		"endpoint_addr_grpc": ":7000",
		"endpoint_addr_http": ":7001",
		"database_dsn": "postgres://json",
		"secret_key": "from-file",
		"access_token_validity_duration": "5m",
		"refresh_token_validity_duration": 3600000000000,
		"s3_bucket": "json-bucket",
		"s3_public_url": "https://img.city.test",
		"admin_emails": ["chief@city.test"],
		"contact_recipient": "desk@city.test",
		"contact_rate_limit": 20,
		"contact_rate_window": "10m"
	}`)

	var cfg Config
	cfg.LoadDefaults()
	require.NoError(t, parseJSON(&cfg, path))

	assert.Equal(t, ":7000", cfg.EndpointAddrGRPC)
	assert.Equal(t, ":7001", cfg.EndpointAddrHTTP)
	assert.Equal(t, "postgres://json", cfg.DatabaseDSN)
	assert.Equal(t, "from-file", cfg.SecretKey)
	assert.Equal(t, 5*time.Minute, cfg.AccessTokenValidityDuration)
	assert.Equal(t, time.Hour, cfg.RefreshTokenValidityDuration)
	assert.Equal(t, "json-bucket", cfg.S3Bucket)
	assert.Equal(t, "https://img.city.test", cfg.S3PublicURL)
	assert.Equal(t, []string{"chief@city.test"}, cfg.AdminEmails)
	assert.Equal(t, "desk@city.test", cfg.Mail.ContactRecipient)
	assert.Equal(t, 20, cfg.ContactRateLimit)
	assert.Equal(t, 10*time.Minute, cfg.ContactRateWindow)

	// untouched by the file
	assert.Equal(t, "us-east-1", cfg.S3Region)
	assert.Equal(t, 587, cfg.Mail.SMTPPort)
}

func TestParseJSON_NoPath(t *testing.T) {
	cfg := &Config{SecretKey: "kept"}
	require.NoError(t, parseJSON(cfg, ""))
	assert.Equal(t, "kept", cfg.SecretKey)
}

func TestParseJSON_Errors(t *testing.T) {
	assert.Error(t, parseJSON(&Config{}, filepath.Join(t.TempDir(), "absent.json")))
	assert.Error(t, parseJSON(&Config{}, writeFile(t, `{"secret_key": `)))
	assert.Error(t, parseJSON(&Config{}, writeFile(t, `{"contact_rate_window": true}`)))
}
