// Package config loads runtime configuration for the admin console.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. An optional .env file in the working directory (godotenv).
//  3. Environment variables (CONSOLE_*, plus the standard OTEL_EXPORTER_OTLP_* pair).
//  4. Optional JSON file selected via -c or -config.
//  5. Command-line flags, which override everything else.
//
// Supported flags
//
//	-a string   listen address of the console (e.g. ":8080")
//	-u string   base URL of the admin API
//	-t int      API request timeout in seconds (0 disables it)
//	-d string   storage driver: sqlite, postgres or memory
//	-s string   storage DSN
//	-k string   secret used to seal stored tokens
//	-x string   CSRF key (32 bytes); empty disables CSRF protection
//	-z string   IANA time zone for dates
//	-l string   log level
//	-o string   OTLP gRPC endpoint
//
// # JSON schema
//
// Durations use timex.Duration, so they may be strings like "15s" or integer
// nanoseconds:
//
//	{
//	  "listen_addr": ":8080",
//	  "api_base_url": "http://127.0.0.1:8000",
//	  "api_timeout": "15s",
//	  "storage_driver": "sqlite",
//	  "storage_dsn": "console.db",
//	  "time_zone": "Europe/Riga",
//	  "shutdown_timeout": "10s"
//	}
package config
