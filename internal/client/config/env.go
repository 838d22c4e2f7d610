package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/senselib/f8client/internal/flagx"
)

const envPrefix = "SENSELIB_"

// lookupEnv is a test seam for os.LookupEnv.
var lookupEnv = os.LookupEnv

// parseEnv overlays cfg with SENSELIB_* variables. Values from the dotenv
// file named by -env are used only when the variable is not set in the real
// environment.
func parseEnv(cfg *Config, args []string) error {
	dotenv := map[string]string{}
	if path := flagx.EnvFileFlag(args); path != "" {
		m, err := godotenv.Read(path)
		if err != nil {
			return fmt.Errorf("read env file: %w", err)
		}
		dotenv = m
	}

	get := func(name string) (string, bool) {
		key := envPrefix + name
		if v, ok := lookupEnv(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}

	strs := map[string]*string{
		"BACKEND_URL":   &cfg.BackendURL,
		"DATABASE_DSN":  &cfg.DatabaseDSN,
		"DOWNLOAD_DIR":  &cfg.DownloadDir,
		"LOG_LEVEL":     &cfg.LogLevel,
		"LOG_FORMAT":    &cfg.LogFormat,
		"METRICS_ADDR":  &cfg.MetricsAddr,
		"S3_REGION":     &cfg.S3Region,
		"S3_ENDPOINT":   &cfg.S3Endpoint,
		"S3_ACCESS_KEY": &cfg.S3AccessKey,
		"S3_SECRET_KEY": &cfg.S3SecretKey,
	}
	for name, dst := range strs {
		if v, ok := get(name); ok {
			*dst = v
		}
	}

	durations := map[string]*time.Duration{
		"REQUEST_TIMEOUT": &cfg.RequestTimeout,
		"CACHE_TTL":       &cfg.CacheTTL,
	}
	for name, dst := range durations {
		v, ok := get(name)
		if !ok {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s%s: %w", envPrefix, name, err)
		}
		*dst = d
	}

	if v, ok := get("REFUND_ON_FETCH_FAILURE"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sREFUND_ON_FETCH_FAILURE: %w", envPrefix, err)
		}
		cfg.RefundOnFetchFailure = b
	}
	return nil
}
