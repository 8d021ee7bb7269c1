package config

import (
	"os"
	"time"
)

// Config holds runtime settings for the memodo terminal client.
//
// Units: ReorderTimeout and OnlineCheckInterval are time.Duration values.
type Config struct {
	DBPath string

	// AuthAddr is host:port of the auth server; empty disables sign-in.
	AuthAddr     string
	AuthRequired bool

	// OnlineCheckInterval is how often the client pings the auth server.
	OnlineCheckInterval time.Duration

	ReorderTimeout time.Duration
	LockHash       string

	LogLevel  string
	LogFormat string

	Backup BackupConfig
}

// BackupConfig points at the S3-compatible bucket for snapshots.
type BackupConfig struct {
	Bucket   string
	Endpoint string
	Region   string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DBPath = "memodo.db"
	c.AuthAddr = ""
	c.AuthRequired = false
	c.OnlineCheckInterval = 30 * time.Second
	c.ReorderTimeout = 5 * time.Second
	c.LockHash = "argon2"
	c.LogLevel = "warn"
	c.LogFormat = "text"
	c.Backup = BackupConfig{Region: "us-east-1"}
}

// LoadConfig constructs a Config from defaults, then the config file named
// by -c/-config (if present), then command-line flags. Later sources take
// precedence over earlier ones.
func LoadConfig() (*Config, error) {
	return load(os.Args[1:])
}

func load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseFile(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}
