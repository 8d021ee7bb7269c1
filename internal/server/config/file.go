package config

import (
	"github.com/dmitrijs2005/memodo/internal/configx"
	"github.com/dmitrijs2005/memodo/internal/flagx"
	"github.com/dmitrijs2005/memodo/internal/timex"
)

// fileConfig is the on-disk DTO. Durations use timex.Duration so a file can
// say "15m" or integer nanoseconds. Absent fields keep their value.
type fileConfig struct {
	EndpointAddrGRPC             string          `json:"endpoint_addr_grpc" yaml:"endpoint_addr_grpc"`
	DatabaseDSN                  string          `json:"database_dsn" yaml:"database_dsn"`
	SecretKey                    string          `json:"secret_key" yaml:"secret_key"`
	AccessTokenValidityDuration  *timex.Duration `json:"access_token_validity_duration" yaml:"access_token_validity_duration"`
	RefreshTokenValidityDuration *timex.Duration `json:"refresh_token_validity_duration" yaml:"refresh_token_validity_duration"`
	RateLimitRPS                 *float64        `json:"rate_limit_rps" yaml:"rate_limit_rps"`
	RateLimitBurst               *int            `json:"rate_limit_burst" yaml:"rate_limit_burst"`
	LogLevel                     string          `json:"log_level" yaml:"log_level"`
	LogFormat                    string          `json:"log_format" yaml:"log_format"`
}

// parseFile overlays config with the file given by -c or -config.
func parseFile(config *Config, args []string) error {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return nil
	}

	c := &fileConfig{}
	if err := configx.Decode(path, c); err != nil {
		return err
	}

	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	if c.AccessTokenValidityDuration != nil {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.RefreshTokenValidityDuration != nil {
		config.RefreshTokenValidityDuration = c.RefreshTokenValidityDuration.Duration
	}
	if c.RateLimitRPS != nil {
		config.RateLimitRPS = *c.RateLimitRPS
	}
	if c.RateLimitBurst != nil {
		config.RateLimitBurst = *c.RateLimitBurst
	}
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.LogFormat, c.LogFormat)
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
