// Package config provides configuration loading for tvmdbg.
//
// Values are layered: built-in defaults, then ~/.tvmdbg/config.yaml, then
// TVMDBG_* environment variables, then command-line flags.
package config

import "time"

// Config is the effective tvmdbg configuration.
type Config struct {
	GDB     GDBConfig     `yaml:"gdb" json:"gdb"`
	Runtime RuntimeConfig `yaml:"runtime" json:"runtime"`
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// GDBConfig describes the debugger session.
type GDBConfig struct {
	// Path is the gdb executable.
	Path string `yaml:"path" json:"path" env:"TVMDBG_GDB"`
	// Binary is the program whose symbols are loaded.
	Binary string `yaml:"binary,omitempty" json:"binary,omitempty" env:"TVMDBG_BINARY"`
	// Core is a core dump to inspect.
	Core string `yaml:"core,omitempty" json:"core,omitempty" env:"TVMDBG_CORE"`
	// PID is a live process to attach to.
	PID int `yaml:"pid,omitempty" json:"pid,omitempty" env:"TVMDBG_PID"`
	// InitCommands run once the session is up, e.g. "frame 3".
	InitCommands []string `yaml:"init_commands,omitempty" json:"init_commands,omitempty" env:"TVMDBG_INIT_COMMANDS"`
	// EvalTimeout bounds every debugger round trip.
	EvalTimeout time.Duration `yaml:"eval_timeout" json:"eval_timeout" env:"TVMDBG_EVAL_TIMEOUT"`
}

// RuntimeConfig describes the inspected object runtime.
type RuntimeConfig struct {
	// Namespace prefixes the allocator handlers whose deleters carry types.
	Namespace string `yaml:"namespace" json:"namespace" env:"TVMDBG_RUNTIME_NAMESPACE"`
	// DumpFunction is called on values for rich printing.
	DumpFunction string `yaml:"dump_function" json:"dump_function" env:"TVMDBG_DUMP_FUNCTION"`
	// Synonyms map recovered type names to the names used for field lookup,
	// on top of the built-in ones.
	Synonyms map[string]string `yaml:"synonyms,omitempty" json:"synonyms,omitempty" env:"TVMDBG_SYNONYMS"`
}

// LoggingConfig configures diagnostics on stderr.
type LoggingConfig struct {
	Level  string `yaml:"level" json:"level" env:"TVMDBG_LOG_LEVEL"`
	Pretty bool   `yaml:"pretty" json:"pretty" env:"TVMDBG_LOG_PRETTY"`
}
