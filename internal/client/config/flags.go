package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/snapgram/internal/flagx"
)

// parseFlags populates selected fields from command-line flags:
//
//	-d string   gateway PostgreSQL DSN
//	-l string   path of the local SQLite database
//	-i int      online check interval (seconds)
//	-m string   listen address for /metrics (empty disables it)
//	-b string   log backend: slog, logrus or zerolog
//	-v string   log level
//
// os.Args is filtered with flagx.FilterArgs first, so -c/-config and
// anything else is left alone.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-l", "-i", "-m", "-b", "-v"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.GatewayDSN, "d", cfg.GatewayDSN, "gateway database DSN")
	fs.StringVar(&cfg.LocalDBPath, "l", cfg.LocalDBPath, "local database path")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	fs.StringVar(&cfg.MetricsAddr, "m", cfg.MetricsAddr, "metrics listen address")
	fs.StringVar(&cfg.LogBackend, "b", cfg.LogBackend, "log backend (slog, logrus, zerolog)")
	fs.StringVar(&cfg.LogLevel, "v", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
}
