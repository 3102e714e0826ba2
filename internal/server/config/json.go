package config

import (
	"encoding/json"
	"os"

	"github.com/citycare/citycare/internal/timex"
)

// fileConfig mirrors the JSON configuration file. Durations accept "90s"
// style strings or integer nanoseconds.
type fileConfig struct {
	GRPCAddr          string         `json:"endpoint_addr_grpc"`
	HTTPAddr          string         `json:"endpoint_addr_http"`
	DSN               string         `json:"database_dsn"`
	Secret            string         `json:"secret_key"`
	AccessTTL         timex.Duration `json:"access_token_validity_duration"`
	RefreshTTL        timex.Duration `json:"refresh_token_validity_duration"`
	S3User            string         `json:"s3_root_user"`
	S3Password        string         `json:"s3_root_password"`
	S3Bucket          string         `json:"s3_bucket"`
	S3Region          string         `json:"s3_region"`
	S3Endpoint        string         `json:"s3_base_endpoint"`
	S3PublicURL       string         `json:"s3_public_url"`
	AdminEmails       []string       `json:"admin_emails"`
	ContactRecipient  string         `json:"contact_recipient"`
	ContactRateLimit  int            `json:"contact_rate_limit"`
	ContactRateWindow timex.Duration `json:"contact_rate_window"`
}

// parseJSON overlays cfg with the file at path. An empty path is a no-op;
// zero values in the file keep what cfg already has.
func parseJSON(cfg *Config, path string) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var f fileConfig
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}

	overlay(&cfg.EndpointAddrGRPC, f.GRPCAddr)
	overlay(&cfg.EndpointAddrHTTP, f.HTTPAddr)
	overlay(&cfg.DatabaseDSN, f.DSN)
	overlay(&cfg.SecretKey, f.Secret)
	overlay(&cfg.AccessTokenValidityDuration, f.AccessTTL.Duration)
	overlay(&cfg.RefreshTokenValidityDuration, f.RefreshTTL.Duration)
	overlay(&cfg.S3RootUser, f.S3User)
	overlay(&cfg.S3RootPassword, f.S3Password)
	overlay(&cfg.S3Bucket, f.S3Bucket)
	overlay(&cfg.S3Region, f.S3Region)
	overlay(&cfg.S3BaseEndpoint, f.S3Endpoint)
	overlay(&cfg.S3PublicURL, f.S3PublicURL)
	overlay(&cfg.Mail.ContactRecipient, f.ContactRecipient)
	overlay(&cfg.ContactRateLimit, f.ContactRateLimit)
	overlay(&cfg.ContactRateWindow, f.ContactRateWindow.Duration)
	if len(f.AdminEmails) > 0 {
		cfg.AdminEmails = f.AdminEmails
	}
	return nil
}

func overlay[T comparable](dst *T, v T) {
	var zero T
	if v != zero {
		*dst = v
	}
}
