package config

import "time"

// Config holds runtime settings for the reputation CLI.
//
// Units: RequestTimeout and OnlineCheckInterval are time.Duration values;
// RequestsPerSecond of zero disables client side rate limiting.
type Config struct {
	LedgerEndpoint      string
	ContractAddress     string
	OriginSeed          string
	APIKey              string
	RequestTimeout      time.Duration
	RequestsPerSecond   float64
	RequestBurst        int
	DatabasePath        string
	LogFormat           string
	Debug               bool
	S3Bucket            string
	S3Region            string
	S3Endpoint          string
	S3AccessKey         string
	S3SecretKey         string
	OnlineCheckInterval time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.LedgerEndpoint = "127.0.0.1:9944"
	c.OriginSeed = "Alice"
	c.RequestTimeout = 10 * time.Second
	c.RequestsPerSecond = 5
	c.RequestBurst = 5
	c.DatabasePath = "mark3t-rep.db"
	c.LogFormat = "text"
	c.S3Region = "us-east-1"
	c.OnlineCheckInterval = 3 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// a JSON or YAML file (if given) and command-line flags (if present). Later
// sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseFile(cfg)
	parseFlags(cfg)
	return cfg
}
