package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/mark3t-rep/internal/flagx"
)

var knownFlags = []string{"-a", "-contract", "-seed", "-k", "-t", "-rps", "-d", "-l", "-debug", "-bucket", "-i"}

// parseFlags populates Config fields from command-line flags. Only the
// flags listed in knownFlags are looked at; invalid values panic.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], knownFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.LedgerEndpoint, "a", cfg.LedgerEndpoint, "address and port of the ledger gRPC endpoint")
	fs.StringVar(&cfg.ContractAddress, "contract", cfg.ContractAddress, "reputation contract address")
	fs.StringVar(&cfg.OriginSeed, "seed", cfg.OriginSeed, "development account used as query origin")
	fs.StringVar(&cfg.APIKey, "k", cfg.APIKey, "ledger API key")
	fs.DurationVar(&cfg.RequestTimeout, "t", cfg.RequestTimeout, "per request timeout")
	fs.Float64Var(&cfg.RequestsPerSecond, "rps", cfg.RequestsPerSecond, "ledger requests per second (0 disables limiting)")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "local cache database path")
	fs.StringVar(&cfg.LogFormat, "l", cfg.LogFormat, "log format: text, json or zap")
	fs.BoolVar(&cfg.Debug, "debug", cfg.Debug, "enable debug logging")
	fs.StringVar(&cfg.S3Bucket, "bucket", cfg.S3Bucket, "bucket for rating exports")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
}
