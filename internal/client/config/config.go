package config

import (
	"fmt"
	"time"

	"github.com/citycare/citycare/internal/flagx"
)

// Config holds runtime settings for the CityCare CLI.
//
// Fields:
//   - ServerEndpointAddr: host:port of the report server's gRPC endpoint.
//   - OnlineCheckInterval: how often the client probes server reachability
//     when AutoConnectivity is on.
//   - DataDir: directory holding the local SQLite database.
//   - SyncCallTimeout: bound of each create call while draining the queue.
//   - AutoConnectivity: follow server reachability instead of waiting for
//     the user's online/offline commands.
type Config struct {
	ServerEndpointAddr  string
	OnlineCheckInterval time.Duration
	DataDir             string
	SyncCallTimeout     time.Duration
	AutoConnectivity    bool
}

// DatabaseFile is the name of the local database inside DataDir.
const DatabaseFile = "citycare.db"

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.OnlineCheckInterval = 3 * time.Second
	c.DataDir = "citycare-data"
	c.SyncCallTimeout = 10 * time.Second
	c.AutoConnectivity = false
}

// LoadConfig applies defaults, then the JSON file named by -c/-config (or
// CITYCARE_CONFIG), then the flags in args.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJSON(cfg, flagx.ConfigFile(args)); err != nil {
		return nil, fmt.Errorf("config file: %w", err)
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, fmt.Errorf("flags: %w", err)
	}
	return cfg, nil
}
