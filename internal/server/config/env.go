package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Environment variables read by parseEnv.
const (
	EnvAddr       = "MEMODO_ADDR"
	EnvDSN        = "MEMODO_DATABASE_DSN"
	EnvSecretKey  = "MEMODO_SECRET_KEY"
	EnvAccessTTL  = "MEMODO_ACCESS_TTL"
	EnvRefreshTTL = "MEMODO_REFRESH_TTL"
	EnvRPS        = "MEMODO_RATE_LIMIT_RPS"
	EnvBurst      = "MEMODO_RATE_LIMIT_BURST"
	EnvLogLevel   = "MEMODO_LOG_LEVEL"
)

// parseEnv overlays config with MEMODO_* variables. Values from envFile
// (a .env file, optional) are used when the process environment lacks them.
func parseEnv(config *Config, envFile string, lookup func(string) (string, bool)) error {
	dotenv := map[string]string{}
	if envFile != "" {
		m, err := godotenv.Read(envFile)
		switch {
		case err == nil:
			dotenv = m
		case errors.Is(err, fs.ErrNotExist):
		default:
			return fmt.Errorf("read %s: %w", envFile, err)
		}
	}

	get := func(key string) (string, bool) {
		if v, ok := lookup(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}

	if v, ok := get(EnvAddr); ok {
		config.EndpointAddrGRPC = v
	}
	if v, ok := get(EnvDSN); ok {
		config.DatabaseDSN = v
	}
	if v, ok := get(EnvSecretKey); ok {
		config.SecretKey = v
	}
	if v, ok := get(EnvLogLevel); ok {
		config.LogLevel = v
	}

	var err error
	if v, ok := get(EnvAccessTTL); ok {
		config.AccessTokenValidityDuration, err = time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvAccessTTL, err)
		}
	}
	if v, ok := get(EnvRefreshTTL); ok {
		config.RefreshTokenValidityDuration, err = time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvRefreshTTL, err)
		}
	}
	if v, ok := get(EnvRPS); ok {
		config.RateLimitRPS, err = strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvRPS, err)
		}
	}
	if v, ok := get(EnvBurst); ok {
		config.RateLimitBurst, err = strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvBurst, err)
		}
	}
	return nil
}
