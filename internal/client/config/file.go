package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/senselib/f8client/internal/flagx"
	"github.com/senselib/f8client/internal/timex"
	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk representation. Pointer fields distinguish
// "absent" from zero values so a file can switch RefundOnFetchFailure off.
type FileConfig struct {
	BackendURL           string          `json:"backend_url" yaml:"backend_url"`
	DatabaseDSN          string          `json:"database_dsn" yaml:"database_dsn"`
	DownloadDir          string          `json:"download_dir" yaml:"download_dir"`
	RequestTimeout       *timex.Duration `json:"request_timeout" yaml:"request_timeout"`
	CacheTTL             *timex.Duration `json:"cache_ttl" yaml:"cache_ttl"`
	LogLevel             string          `json:"log_level" yaml:"log_level"`
	LogFormat            string          `json:"log_format" yaml:"log_format"`
	MetricsAddr          string          `json:"metrics_addr" yaml:"metrics_addr"`
	S3Region             string          `json:"s3_region" yaml:"s3_region"`
	S3Endpoint           string          `json:"s3_endpoint" yaml:"s3_endpoint"`
	S3AccessKey          string          `json:"s3_access_key" yaml:"s3_access_key"`
	S3SecretKey          string          `json:"s3_secret_key" yaml:"s3_secret_key"`
	RefundOnFetchFailure *bool           `json:"refund_on_fetch_failure" yaml:"refund_on_fetch_failure"`
}

// parseFile overlays cfg with the file named by -c/-config, if any.
func parseFile(cfg *Config, args []string) error {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var fc FileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	fc.apply(cfg)
	return nil
}

func (fc *FileConfig) apply(cfg *Config) {
	setString(&cfg.BackendURL, fc.BackendURL)
	setString(&cfg.DatabaseDSN, fc.DatabaseDSN)
	setString(&cfg.DownloadDir, fc.DownloadDir)
	setString(&cfg.LogLevel, fc.LogLevel)
	setString(&cfg.LogFormat, fc.LogFormat)
	setString(&cfg.MetricsAddr, fc.MetricsAddr)
	setString(&cfg.S3Region, fc.S3Region)
	setString(&cfg.S3Endpoint, fc.S3Endpoint)
	setString(&cfg.S3AccessKey, fc.S3AccessKey)
	setString(&cfg.S3SecretKey, fc.S3SecretKey)
	if fc.RequestTimeout != nil {
		cfg.RequestTimeout = fc.RequestTimeout.Duration
	}
	if fc.CacheTTL != nil {
		cfg.CacheTTL = fc.CacheTTL.Duration
	}
	if fc.RefundOnFetchFailure != nil {
		cfg.RefundOnFetchFailure = *fc.RefundOnFetchFailure
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
