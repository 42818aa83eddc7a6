package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/adminconsole/internal/flagx"
)

var knownFlags = []string{"-a", "-u", "-t", "-d", "-s", "-k", "-x", "-z", "-l", "-o"}

// parseFlags overlays Config with command-line flags. os.Args is filtered
// through flagx.FilterArgs first so -c and unrelated flags do not trip the
// FlagSet. The timeout flag is whole seconds and only applies when given.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], knownFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ListenAddr, "a", cfg.ListenAddr, "address and port to serve the console on")
	fs.StringVar(&cfg.APIBaseURL, "u", cfg.APIBaseURL, "admin API base URL")
	apiTimeout := fs.Int("t", int(cfg.APITimeout.Seconds()), "API request timeout (in seconds, 0 = none)")
	fs.StringVar(&cfg.StorageDriver, "d", cfg.StorageDriver, "storage driver (sqlite, postgres, memory)")
	fs.StringVar(&cfg.StorageDSN, "s", cfg.StorageDSN, "storage DSN")
	fs.StringVar(&cfg.StorageSecret, "k", cfg.StorageSecret, "secret for sealing stored tokens")
	fs.StringVar(&cfg.CSRFKey, "x", cfg.CSRFKey, "32 byte CSRF key")
	fs.StringVar(&cfg.TimeZone, "z", cfg.TimeZone, "time zone for dates")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.OTLPEndpoint, "o", cfg.OTLPEndpoint, "OTLP gRPC endpoint")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			cfg.APITimeout = time.Duration(*apiTimeout) * time.Second
		}
	})
}
