// Package config loads runtime configuration for the SenseLib client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file selected with -c or -config. Files ending in
//     .yaml/.yml are decoded as YAML, everything else as JSON.
//  3. Environment variables prefixed with SENSELIB_. A dotenv file given with
//     -env is read first; real environment variables win over it.
//  4. Command-line flags.
//
// Supported flags
//
//	-a string   backend base URL
//	-d string   local database DSN (SQLite path or postgres:// URL)
//	-o string   download directory
//	-m string   metrics listen address
//	-l string   log level
//	-t int      request timeout in seconds (0 = transport default)
//
// # File schema
//
// Durations accept Go duration strings or integer nanoseconds:
//
//	{
//	  "backend_url": "https://lib.example.com/api",
//	  "database_dsn": "senselib.db",
//	  "cache_ttl": "5m",
//	  "request_timeout": "30s"
//	}
package config
