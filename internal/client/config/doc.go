// Package config loads runtime configuration for the memodo client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON or YAML file selected with -c or -config.
//  3. Command-line flags, which override earlier values.
//
// # File schema
//
//	{
//	  "db_path": "memodo.db",
//	  "auth_addr": "127.0.0.1:50051",
//	  "auth_required": true,
//	  "reorder_timeout": "5s",
//	  "lock_hash": "argon2",
//	  "log_level": "info",
//	  "backup": {"bucket": "memodo", "endpoint": "http://127.0.0.1:9000", "region": "us-east-1"}
//	}
package config
