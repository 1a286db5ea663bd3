// Package config loads process configuration via viper, following the
// teacher's own config.LoadConfig shape: environment variables and an
// optional config file, bound through pflag so the CLI and the config file
// agree on field names.
package config

import (
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config is the full set of spec §6 configuration knobs plus the ambient
// connection/credential settings the Go rendition needs to actually run.
type Config struct {
	HTTP struct {
		Addr string
	}

	Unlock struct {
		MinUnlockMinutes       int
		MaxUnlockYears         int
		EarlyViewThresholdDays int
		CheckIntervalSeconds   int
	}

	Paging struct {
		DefaultPageSize int
		MaxPageSize     int
		MinPageSize     int
	}

	Postgres struct {
		DSN          string
		MaxOpenConns int
		MaxIdleConns int
	}

	AMQP struct {
		URL      string
		Exchange string
	}

	JWT struct {
		SigningKey      string
		AccessTokenTTL  time.Duration
		RefreshTokenTTL time.Duration
	}

	Cache struct {
		CapsuleLRUSize int
	}

	RateLimit struct {
		RequestsPerMinute int
		Burst             int
	}

	Log struct {
		Level      string
		FilePath   string
		MaxSizeMB  int
		MaxBackups int
		MaxAgeDays int
	}
}

// Load reads configuration from (in ascending priority) defaults, an
// optional config file, environment variables prefixed TIMECAPSULE_, and
// finally the provided flag set.
func Load(flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("timecapsule")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/timecapsule")
	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return nil, err
		}
	}

	if flags != nil {
		bindings := map[string]string{
			"http-addr":       "http.addr",
			"postgres-dsn":    "postgres.dsn",
			"amqp-url":        "amqp.url",
			"jwt-signing-key": "jwt.signing_key",
		}
		for flagName, key := range bindings {
			if flag := flags.Lookup(flagName); flag != nil {
				if err := v.BindPFlag(key, flag); err != nil {
					return nil, err
				}
			}
		}
	}

	cfg := &Config{}
	cfg.HTTP.Addr = v.GetString("http.addr")

	cfg.Unlock.MinUnlockMinutes = v.GetInt("unlock.min_unlock_minutes")
	cfg.Unlock.MaxUnlockYears = v.GetInt("unlock.max_unlock_years")
	cfg.Unlock.EarlyViewThresholdDays = v.GetInt("unlock.early_view_threshold_days")
	cfg.Unlock.CheckIntervalSeconds = v.GetInt("unlock.worker_check_interval_seconds")

	cfg.Paging.DefaultPageSize = v.GetInt("paging.default_page_size")
	cfg.Paging.MaxPageSize = v.GetInt("paging.max_page_size")
	cfg.Paging.MinPageSize = v.GetInt("paging.min_page_size")

	cfg.Postgres.DSN = v.GetString("postgres.dsn")
	cfg.Postgres.MaxOpenConns = v.GetInt("postgres.max_open_conns")
	cfg.Postgres.MaxIdleConns = v.GetInt("postgres.max_idle_conns")

	cfg.AMQP.URL = v.GetString("amqp.url")
	cfg.AMQP.Exchange = v.GetString("amqp.exchange")

	cfg.JWT.SigningKey = v.GetString("jwt.signing_key")
	cfg.JWT.AccessTokenTTL = v.GetDuration("jwt.access_token_ttl")
	cfg.JWT.RefreshTokenTTL = v.GetDuration("jwt.refresh_token_ttl")

	cfg.Cache.CapsuleLRUSize = v.GetInt("cache.capsule_lru_size")

	cfg.RateLimit.RequestsPerMinute = v.GetInt("rate_limit.requests_per_minute")
	cfg.RateLimit.Burst = v.GetInt("rate_limit.burst")

	cfg.Log.Level = v.GetString("log.level")
	cfg.Log.FilePath = v.GetString("log.file_path")
	cfg.Log.MaxSizeMB = v.GetInt("log.max_size_mb")
	cfg.Log.MaxBackups = v.GetInt("log.max_backups")
	cfg.Log.MaxAgeDays = v.GetInt("log.max_age_days")

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http.addr", ":8080")

	v.SetDefault("unlock.min_unlock_minutes", 1)
	v.SetDefault("unlock.max_unlock_years", 5)
	v.SetDefault("unlock.early_view_threshold_days", 3)
	v.SetDefault("unlock.worker_check_interval_seconds", 60)

	v.SetDefault("paging.default_page_size", 20)
	v.SetDefault("paging.max_page_size", 100)
	v.SetDefault("paging.min_page_size", 1)

	v.SetDefault("postgres.dsn", "postgres://localhost:5432/timecapsule?sslmode=disable")
	v.SetDefault("postgres.max_open_conns", 20)
	v.SetDefault("postgres.max_idle_conns", 5)

	v.SetDefault("amqp.url", "")
	v.SetDefault("amqp.exchange", "capsule.events")

	v.SetDefault("jwt.signing_key", "")
	v.SetDefault("jwt.access_token_ttl", 15*time.Minute)
	v.SetDefault("jwt.refresh_token_ttl", 7*24*time.Hour)

	v.SetDefault("cache.capsule_lru_size", 4096)

	v.SetDefault("rate_limit.requests_per_minute", 120)
	v.SetDefault("rate_limit.burst", 20)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.file_path", "")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 5)
	v.SetDefault("log.max_age_days", 30)
}

// Flags registers the pflag set Load binds against; config.Module passes it
// to Load without parsing any command-line arguments into it.
func Flags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("timecapsule", pflag.ContinueOnError)
	fs.String("http-addr", ":8080", "HTTP listen address")
	fs.String("postgres-dsn", "", "Postgres connection string")
	fs.String("amqp-url", "", "AMQP broker URL (empty disables the notifier's queued transport)")
	fs.String("jwt-signing-key", "", "HMAC signing key for bearer tokens")
	return fs
}
