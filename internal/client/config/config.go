package config

import (
	"time"
)

// Config holds runtime settings for the SenseLib client.
//
// Fields:
//   - BackendURL: base URL of the SenseLib REST backend.
//   - DatabaseDSN: local store; a SQLite path or a postgres:// URL.
//   - DownloadDir: where released documents are written.
//   - RequestTimeout: per-request timeout; zero keeps the transport default.
//   - CacheTTL: lifetime of cached profile and document descriptors.
//   - LogLevel / LogFormat: see logging.New.
//   - MetricsAddr: listen address for the Prometheus endpoint; empty disables it.
//   - S3*: access to s3:// content URLs.
//   - RefundOnFetchFailure: give the points back when a paid transfer fails.
type Config struct {
	BackendURL           string
	DatabaseDSN          string
	DownloadDir          string
	RequestTimeout       time.Duration
	CacheTTL             time.Duration
	LogLevel             string
	LogFormat            string
	MetricsAddr          string
	S3Region             string
	S3Endpoint           string
	S3AccessKey          string
	S3SecretKey          string
	RefundOnFetchFailure bool
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.BackendURL = "http://127.0.0.1:8080/api"
	c.DatabaseDSN = "senselib.db"
	c.DownloadDir = "downloads"
	c.RequestTimeout = 0
	c.CacheTTL = 5 * time.Minute
	c.LogLevel = "info"
	c.LogFormat = "text"
	c.MetricsAddr = ""
	c.S3Region = "us-east-1"
	c.S3Endpoint = ""
	c.RefundOnFetchFailure = true
}

// LoadConfig builds a Config from, in increasing precedence: defaults, the
// config file named by -c/-config (JSON or YAML), SENSELIB_* environment
// variables (optionally seeded from the dotenv file named by -env), and the
// command-line flags in args.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseFile(cfg, args); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}
