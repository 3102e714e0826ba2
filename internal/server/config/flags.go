package config

import (
	"flag"
	"io"

	"github.com/citycare/citycare/internal/flagx"
)

var serverFlags = []string{"-a", "-l", "-d", "-s", "-t", "-r", "-u", "-p", "-b", "-g", "-e", "-o", "-m"}

// parseFlags overlays cfg with the server flags found in args:
//
//	-a  gRPC bind address          -l  HTTP bind address
//	-d  PostgreSQL DSN             -s  JWT secret
//	-t  access token lifetime      -r  refresh token lifetime (e.g. 15m, 168h)
//	-u  S3 user                    -p  S3 password
//	-b  S3 bucket                  -g  S3 region
//	-e  S3 endpoint                -o  public photo URL prefix
//	-m  administrator emails, comma separated
//
// Anything else in args is dropped by flagx.FilterArgs first.
func parseFlags(cfg *Config, args []string) error {
	fs := flag.NewFlagSet("citycare-server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.EndpointAddrGRPC, "a", cfg.EndpointAddrGRPC, "gRPC bind address")
	fs.StringVar(&cfg.EndpointAddrHTTP, "l", cfg.EndpointAddrHTTP, "HTTP bind address")
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "PostgreSQL DSN")
	fs.StringVar(&cfg.SecretKey, "s", cfg.SecretKey, "JWT secret")
	fs.DurationVar(&cfg.AccessTokenValidityDuration, "t", cfg.AccessTokenValidityDuration, "access token lifetime")
	fs.DurationVar(&cfg.RefreshTokenValidityDuration, "r", cfg.RefreshTokenValidityDuration, "refresh token lifetime")
	fs.StringVar(&cfg.S3RootUser, "u", cfg.S3RootUser, "S3 user")
	fs.StringVar(&cfg.S3RootPassword, "p", cfg.S3RootPassword, "S3 password")
	fs.StringVar(&cfg.S3Bucket, "b", cfg.S3Bucket, "S3 bucket")
	fs.StringVar(&cfg.S3Region, "g", cfg.S3Region, "S3 region")
	fs.StringVar(&cfg.S3BaseEndpoint, "e", cfg.S3BaseEndpoint, "S3 endpoint")
	fs.StringVar(&cfg.S3PublicURL, "o", cfg.S3PublicURL, "public photo URL prefix")
	fs.Func("m", "administrator emails, comma separated", func(v string) error {
		cfg.AdminEmails = splitList(v)
		return nil
	})

	return fs.Parse(flagx.FilterArgs(args, serverFlags))
}
