package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/hexsocial/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string     API base URL
//	-d string     data directory
//	-b string     durable backend (sqlite|redis)
//	-r string     redis address
//	-t duration   request timeout
//	-l string     log level
//	-m string     metrics listen address
//
// Note: args are filtered with flagx.FilterArgs first so flags meant for
// other components (such as -c) do not cause parse errors.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-d", "-b", "-r", "-t", "-l", "-m"})

	fs := flag.NewFlagSet("hexsocial", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "base URL of the HexSocial API")
	fs.StringVar(&cfg.DataDir, "d", cfg.DataDir, "data directory")
	fs.StringVar(&cfg.DurableBackend, "b", cfg.DurableBackend, "durable token backend (sqlite|redis)")
	fs.StringVar(&cfg.RedisAddr, "r", cfg.RedisAddr, "redis address")
	fs.DurationVar(&cfg.RequestTimeout, "t", cfg.RequestTimeout, "request timeout")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.MetricsAddr, "m", cfg.MetricsAddr, "serve Prometheus metrics on this address")

	return fs.Parse(args)
}
