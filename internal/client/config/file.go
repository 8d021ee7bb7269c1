package config

import (
	"github.com/dmitrijs2005/memodo/internal/configx"
	"github.com/dmitrijs2005/memodo/internal/flagx"
	"github.com/dmitrijs2005/memodo/internal/timex"
)

// fileConfig is the on-disk shape of Config (JSON or YAML). Durations use
// timex.Duration so files can say "5s" or integer nanoseconds. Absent
// fields keep their current value.
type fileConfig struct {
	DBPath         string          `json:"db_path" yaml:"db_path"`
	AuthAddr       string          `json:"auth_addr" yaml:"auth_addr"`
	AuthRequired   *bool           `json:"auth_required" yaml:"auth_required"`
	ReorderTimeout *timex.Duration `json:"reorder_timeout" yaml:"reorder_timeout"`
	OnlineCheck    *timex.Duration `json:"online_check_interval" yaml:"online_check_interval"`
	LockHash       string          `json:"lock_hash" yaml:"lock_hash"`
	LogLevel       string          `json:"log_level" yaml:"log_level"`
	LogFormat      string          `json:"log_format" yaml:"log_format"`
	Backup         struct {
		Bucket   string `json:"bucket" yaml:"bucket"`
		Endpoint string `json:"endpoint" yaml:"endpoint"`
		Region   string `json:"region" yaml:"region"`
	} `json:"backup" yaml:"backup"`
}

// parseFile overlays cfg with the file given by -c or -config.
func parseFile(cfg *Config, args []string) error {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return nil
	}

	var fc fileConfig
	if err := configx.Decode(path, &fc); err != nil {
		return err
	}

	setString(&cfg.DBPath, fc.DBPath)
	setString(&cfg.AuthAddr, fc.AuthAddr)
	if fc.AuthRequired != nil {
		cfg.AuthRequired = *fc.AuthRequired
	}
	if fc.ReorderTimeout != nil {
		cfg.ReorderTimeout = fc.ReorderTimeout.Duration
	}
	if fc.OnlineCheck != nil {
		cfg.OnlineCheckInterval = fc.OnlineCheck.Duration
	}
	setString(&cfg.LockHash, fc.LockHash)
	setString(&cfg.LogLevel, fc.LogLevel)
	setString(&cfg.LogFormat, fc.LogFormat)
	setString(&cfg.Backup.Bucket, fc.Backup.Bucket)
	setString(&cfg.Backup.Endpoint, fc.Backup.Endpoint)
	setString(&cfg.Backup.Region, fc.Backup.Region)
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
