package config

import (
	"flag"
	"io"

	"github.com/citycare/citycare/internal/flagx"
)

// parseFlags overlays cfg with -a (server address), -i (reachability probe
// interval), -d (data directory), -t (per-report upload timeout) and -w
// (follow server reachability). Intervals are Go durations such as "5s".
func parseFlags(cfg *Config, args []string) error {
	fs := flag.NewFlagSet("citycare", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "report server address")
	fs.DurationVar(&cfg.OnlineCheckInterval, "i", cfg.OnlineCheckInterval, "reachability probe interval")
	fs.StringVar(&cfg.DataDir, "d", cfg.DataDir, "local data directory")
	fs.DurationVar(&cfg.SyncCallTimeout, "t", cfg.SyncCallTimeout, "upload timeout per queued report")
	fs.BoolVar(&cfg.AutoConnectivity, "w", cfg.AutoConnectivity, "switch online/offline automatically")

	return fs.Parse(flagx.FilterArgs(args, []string{"-a", "-i", "-d", "-t", "-w"}))
}
