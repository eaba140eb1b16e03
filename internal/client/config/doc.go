// Package config loads runtime configuration for the Snapgram CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// # JSON schema
//
// Durations use timex.Duration, so they can be strings like "3s" or integer
// nanoseconds. Keys left out keep their default:
//
//	{
//	  "gateway_dsn": "postgres://snapgram:snapgram@db:5432/snapgram",
//	  "local_db_path": "/var/lib/snapgram/snapgram.db",
//	  "session_secret": "...",
//	  "session_ttl": "720h",
//	  "s3_bucket": "images",
//	  "s3_base_endpoint": "http://minio:9000",
//	  "request_timeout": "10s",
//	  "search_debounce": "300ms",
//	  "log_backend": "zerolog"
//	}
package config
