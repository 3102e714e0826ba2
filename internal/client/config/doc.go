// Package config loads runtime configuration for the CityCare CLI.
//
// Values are layered: built-in defaults, then the JSON file given by -c or
// -config (or the CITYCARE_CONFIG variable), then command-line flags.
//
//	-a string     address:port of the report server
//	-i duration   reachability probe interval
//	-d string     data directory for the local database
//	-t duration   upload timeout per queued report
//	-w            follow server reachability automatically
//
// The JSON file uses the same settings:
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "online_check_interval": "3s",
//	  "data_dir": "citycare-data",
//	  "sync_call_timeout": "10s",
//	  "auto_connectivity": false
//	}
package config
