// Package config loads runtime configuration for the reputation CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON or YAML file selected via -c or -config. The format is
//     picked by extension: .yaml and .yml are YAML, anything else JSON.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string        address:port of the ledger gRPC endpoint
//	-contract string reputation contract address
//	-seed string     development account name used as query origin
//	-k string        ledger API key
//	-t duration      per request timeout
//	-rps float       ledger requests per second, 0 disables limiting
//	-d string        local cache database path
//	-l string        log format: text, json or zap
//	-debug           debug logging
//	-bucket string   S3 bucket for exports
//	-i int           online status check interval (seconds)
//
// # File schema
//
//	{
//	  "ledger_endpoint": "127.0.0.1:9944",
//	  "contract_address": "0x5fa1...",
//	  "request_timeout": "10s",
//	  "requests_per_second": 5,
//	  "database_path": "mark3t-rep.db",
//	  "log_format": "zap",
//	  "s3_bucket": "ratings",
//	  "s3_endpoint": "http://127.0.0.1:9000",
//	  "online_check_interval": "3s"
//	}
//
// The package does not read environment variables directly; S3 credentials
// fall back to the default AWS chain when no access key is configured.
package config
