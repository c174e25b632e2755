// Package config loads runtime configuration for the HexSocial CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJSON) selected via flags: -c or -config.
//  3. Environment variables prefixed with HEXSOCIAL_, optionally loaded
//     from a .env file in the working directory (see parseEnv).
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string     base URL of the HexSocial API
//	-d string     data directory for the durable token store
//	-b string     durable backend: sqlite or redis
//	-r string     redis address (host:port)
//	-t duration   per-request timeout
//	-l string     log level: debug, info, warn, error
//	-m string     serve Prometheus metrics on host:port/metrics
//
// # JSON schema
//
// The JSON loader uses timex.Duration for intervals, so values can be either
// strings like "30s" or integer nanoseconds:
//
//	{
//	  "api_base_url": "http://localhost:8000",
//	  "durable_backend": "sqlite",
//	  "request_timeout": "15s",
//	  "cache_ttl": "30s"
//	}
//
// # Environment
//
//	HEXSOCIAL_API_URL, HEXSOCIAL_DATA_DIR, HEXSOCIAL_DURABLE_BACKEND,
//	HEXSOCIAL_REDIS_ADDR, HEXSOCIAL_REDIS_PASSWORD, HEXSOCIAL_REDIS_DB,
//	HEXSOCIAL_REQUEST_TIMEOUT, HEXSOCIAL_CACHE_TTL,
//	HEXSOCIAL_WATCH_INTERVAL, HEXSOCIAL_LOG_LEVEL,
//	HEXSOCIAL_METRICS_ADDR
package config
