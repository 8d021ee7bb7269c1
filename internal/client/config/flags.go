package config

import (
	"flag"
	"fmt"
	"time"

	"github.com/dmitrijs2005/memodo/internal/flagx"
)

var knownFlags = []string{
	"-d", "-a", "-auth", "-i", "-reorder-timeout", "-lock-hash", "-log-level", "-b", "-e", "-g",
}

// parseFlags populates Config fields from command-line flags.
//
//	-d string              path to the local database
//	-a string              auth server address
//	-auth                  require sign-in before the lists are shown
//	-i int                 online check interval (seconds)
//	-reorder-timeout int   reorder write timeout (seconds)
//	-lock-hash string      lock password storage: argon2 or plain
//	-log-level string      debug, info, warn or error
//	-b string              backup bucket
//	-e string              backup S3 endpoint
//	-g string              backup region
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, knownFlags)

	fs := flag.NewFlagSet("memodo", flag.ContinueOnError)

	fs.StringVar(&cfg.DBPath, "d", cfg.DBPath, "path to the local database")
	fs.StringVar(&cfg.AuthAddr, "a", cfg.AuthAddr, "auth server address")
	fs.BoolVar(&cfg.AuthRequired, "auth", cfg.AuthRequired, "require sign-in")
	interval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	timeout := fs.Int("reorder-timeout", int(cfg.ReorderTimeout.Seconds()), "reorder write timeout (in seconds)")
	fs.StringVar(&cfg.LockHash, "lock-hash", cfg.LockHash, "lock password storage: argon2 or plain")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.Backup.Bucket, "b", cfg.Backup.Bucket, "backup bucket")
	fs.StringVar(&cfg.Backup.Endpoint, "e", cfg.Backup.Endpoint, "backup S3 endpoint")
	fs.StringVar(&cfg.Backup.Region, "g", cfg.Backup.Region, "backup region")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}

	var err error
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "reorder-timeout":
			if *timeout <= 0 {
				err = fmt.Errorf("reorder timeout must be positive, got %d", *timeout)
				return
			}
			cfg.ReorderTimeout = time.Duration(*timeout) * time.Second
		case "i":
			if *interval <= 0 {
				err = fmt.Errorf("online check interval must be positive, got %d", *interval)
				return
			}
			cfg.OnlineCheckInterval = time.Duration(*interval) * time.Second
		}
	})
	return err
}
