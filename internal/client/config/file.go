package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/mark3t-rep/internal/flagx"
	"github.com/dmitrijs2005/mark3t-rep/internal/timex"
	"gopkg.in/yaml.v3"
)

// fileConfig is the on-disk shape shared by the JSON and YAML loaders.
// Durations accept "3s" style strings or integer nanoseconds.
type fileConfig struct {
	LedgerEndpoint      string         `json:"ledger_endpoint" yaml:"ledger_endpoint"`
	ContractAddress     string         `json:"contract_address" yaml:"contract_address"`
	OriginSeed          string         `json:"origin_seed" yaml:"origin_seed"`
	APIKey              string         `json:"api_key" yaml:"api_key"`
	RequestTimeout      timex.Duration `json:"request_timeout" yaml:"request_timeout"`
	RequestsPerSecond   float64        `json:"requests_per_second" yaml:"requests_per_second"`
	RequestBurst        int            `json:"request_burst" yaml:"request_burst"`
	DatabasePath        string         `json:"database_path" yaml:"database_path"`
	LogFormat           string         `json:"log_format" yaml:"log_format"`
	Debug               bool           `json:"debug" yaml:"debug"`
	S3Bucket            string         `json:"s3_bucket" yaml:"s3_bucket"`
	S3Region            string         `json:"s3_region" yaml:"s3_region"`
	S3Endpoint          string         `json:"s3_endpoint" yaml:"s3_endpoint"`
	S3AccessKey         string         `json:"s3_access_key" yaml:"s3_access_key"`
	S3SecretKey         string         `json:"s3_secret_key" yaml:"s3_secret_key"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval" yaml:"online_check_interval"`
}

// parseFile overlays cfg with the file named by -c/-config. Files ending in
// .yaml or .yml are read as YAML, anything else as JSON. Only keys present
// with a non-zero value override cfg. Read and decode errors panic.
func parseFile(cfg *Config) {
	path := flagx.ConfigFileFlags()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var fc fileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		panic(err)
	}

	fc.apply(cfg)
}

func (fc *fileConfig) apply(cfg *Config) {
	setString(&cfg.LedgerEndpoint, fc.LedgerEndpoint)
	setString(&cfg.ContractAddress, fc.ContractAddress)
	setString(&cfg.OriginSeed, fc.OriginSeed)
	setString(&cfg.APIKey, fc.APIKey)
	setString(&cfg.DatabasePath, fc.DatabasePath)
	setString(&cfg.LogFormat, fc.LogFormat)
	setString(&cfg.S3Bucket, fc.S3Bucket)
	setString(&cfg.S3Region, fc.S3Region)
	setString(&cfg.S3Endpoint, fc.S3Endpoint)
	setString(&cfg.S3AccessKey, fc.S3AccessKey)
	setString(&cfg.S3SecretKey, fc.S3SecretKey)

	if fc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = fc.RequestTimeout.Duration
	}
	if fc.OnlineCheckInterval.Duration > 0 {
		cfg.OnlineCheckInterval = fc.OnlineCheckInterval.Duration
	}
	if fc.RequestsPerSecond > 0 {
		cfg.RequestsPerSecond = fc.RequestsPerSecond
	}
	if fc.RequestBurst > 0 {
		cfg.RequestBurst = fc.RequestBurst
	}
	if fc.Debug {
		cfg.Debug = true
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
