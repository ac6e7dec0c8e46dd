package config

import "time"

// Defaults.
const (
	DefaultDir          = ".tvmdbg"
	ConfigFile          = "config.yaml"
	DefaultGDBPath      = "gdb"
	DefaultEvalTimeout  = 10 * time.Second
	DefaultNamespace    = "tvm::runtime::"
	DefaultDumpFunction = "tvm::Dump"
	DefaultLogLevel     = "warn"
)

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		GDB: GDBConfig{
			Path:        DefaultGDBPath,
			EvalTimeout: DefaultEvalTimeout,
		},
		Runtime: RuntimeConfig{
			Namespace:    DefaultNamespace,
			DumpFunction: DefaultDumpFunction,
		},
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Pretty: true,
		},
	}
}
