// Package config provides application configuration management from environment variables.
//
// # Overview
//
// This package loads and validates configuration from environment variables with
// sensible defaults for all settings.
//
// # Configuration Structure
//
// Server settings:
//
//	GATEHOUSE_HOST="0.0.0.0"
//	GATEHOUSE_PORT="8080"
//	GATEHOUSE_READ_TIMEOUT="15s"
//	GATEHOUSE_WRITE_TIMEOUT="15s"
//	GATEHOUSE_SHUTDOWN_TIMEOUT="30s"
//
// Role source settings:
//
//	GATEHOUSE_ROLES_FILE="/etc/gatehouse/roles.yaml"  # optional, layered over defaults
//	GATEHOUSE_ROLES_WATCH="true"                      # reload the file on change
//	GATEHOUSE_CLOSURE_CACHE_SIZE="256"
//
// Observability settings:
//
//	GATEHOUSE_LOG_LEVEL="info"  # debug, info, warn, error
//	GATEHOUSE_METRICS_ENABLED="true"
//	GATEHOUSE_AUDIT_DB_PATH="/var/lib/gatehouse/audit.db"  # empty keeps the trail in memory
//
// # Usage Example
//
// Load configuration:
//
//	cfg, err := config.LoadConfig()
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	fmt.Printf("Server: %s:%s\n", cfg.Server.Host, cfg.Server.Port)
//	fmt.Printf("Roles file: %s\n", cfg.Roles.File)
//	fmt.Printf("Log level: %s\n", cfg.Observability.LogLevel)
//
// # Related Packages
//
//   - pkg/registry: Uses role source configuration
//   - pkg/observability: Uses observability configuration
package config
