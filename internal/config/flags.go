package config

import (
	"flag"
	"io"
	"time"
)

type flagValues struct {
	configFile      string
	driver          string
	dsn             string
	logLevel        string
	logFormat       string
	maxOpenConns    int
	maxIdleConns    int
	connMaxLifetime time.Duration
}

// newFlagSet declares the global flags.
//
// Supported flags:
//
//	-c string          JSON config file
//	-driver string     sqlite or postgres
//	-d string          database DSN
//	-log-level string  debug, info, warn or error
//	-log-format string text or json
//	-max-open int      pool size limit
//	-max-idle int      idle connection limit
//	-max-lifetime dur  connection lifetime, e.g. "5m"
//
// Only flags given on the command line override earlier layers.
func newFlagSet() (*flag.FlagSet, *flagValues) {
	v := &flagValues{}
	fs := flag.NewFlagSet("bookshelf", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&v.configFile, "c", "", "JSON config file")
	fs.StringVar(&v.driver, "driver", "", "database driver: sqlite or postgres")
	fs.StringVar(&v.dsn, "d", "", "database DSN")
	fs.StringVar(&v.logLevel, "log-level", "", "log level")
	fs.StringVar(&v.logFormat, "log-format", "", "log format: text or json")
	fs.IntVar(&v.maxOpenConns, "max-open", 0, "maximum open connections")
	fs.IntVar(&v.maxIdleConns, "max-idle", 0, "maximum idle connections")
	fs.DurationVar(&v.connMaxLifetime, "max-lifetime", 0, "maximum connection lifetime")

	return fs, v
}

func (v *flagValues) apply(fs *flag.FlagSet, config *Config) {
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "driver":
			config.Driver = v.driver
		case "d":
			config.DSN = v.dsn
		case "log-level":
			config.LogLevel = v.logLevel
		case "log-format":
			config.LogFormat = v.logFormat
		case "max-open":
			config.MaxOpenConns = v.maxOpenConns
		case "max-idle":
			config.MaxIdleConns = v.maxIdleConns
		case "max-lifetime":
			config.ConnMaxLifetime = v.connMaxLifetime
		}
	})
}
