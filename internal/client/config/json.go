package config

import (
	"encoding/json"
	"os"

	"github.com/citycare/citycare/internal/timex"
)

type fileConfig struct {
	Server        string         `json:"server_endpoint_addr"`
	CheckInterval timex.Duration `json:"online_check_interval"`
	DataDir       string         `json:"data_dir"`
	SyncTimeout   timex.Duration `json:"sync_call_timeout"`
	AutoConnect   *bool          `json:"auto_connectivity"`
}

// parseJSON overlays cfg with the non-empty fields of the file at path.
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

	if f.Server != "" {
		cfg.ServerEndpointAddr = f.Server
	}
	if f.CheckInterval.Duration > 0 {
		cfg.OnlineCheckInterval = f.CheckInterval.Duration
	}
	if f.DataDir != "" {
		cfg.DataDir = f.DataDir
	}
	if f.SyncTimeout.Duration > 0 {
		cfg.SyncCallTimeout = f.SyncTimeout.Duration
	}
	if f.AutoConnect != nil {
		cfg.AutoConnectivity = *f.AutoConnect
	}
	return nil
}
