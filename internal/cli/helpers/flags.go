package helpers

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/tvmtools/tvmdbg/internal/config"
	"github.com/tvmtools/tvmdbg/internal/logging"
)

// LogLevels lists the accepted --log-level values.
var LogLevels = logging.Levels()

// SessionFlags holds the debugger session flags shared by every command.
// Only flags set explicitly on the command line override the configuration.
type SessionFlags struct {
	GDB          string
	Binary       string
	Core         string
	PID          int
	InitCommands []string
	Timeout      time.Duration
	DumpFunction string
	Namespace    string
	LogLevel     string
}

// Bind registers the session flags on fs.
func (f *SessionFlags) Bind(fs *pflag.FlagSet) {
	fs.StringVar(&f.GDB, "gdb", config.DefaultGDBPath, "gdb executable")
	fs.StringVarP(&f.Binary, "binary", "b", "", "Program whose symbols are loaded")
	fs.StringVarP(&f.Core, "core", "c", "", "Core dump to inspect")
	fs.IntVarP(&f.PID, "pid", "p", 0, "Live process to attach to")
	fs.StringArrayVar(&f.InitCommands, "ex", nil, "gdb command to run after startup (repeatable), e.g. --ex 'frame 3'")
	fs.DurationVar(&f.Timeout, "timeout", config.DefaultEvalTimeout, "Timeout for each debugger round trip")
	fs.StringVar(&f.DumpFunction, "dump-func", config.DefaultDumpFunction, "Function called to dump values")
	fs.StringVar(&f.Namespace, "runtime-namespace", config.DefaultNamespace, "Namespace of the allocator handlers carrying object types")
	fs.StringVar(&f.LogLevel, "log-level", config.DefaultLogLevel, fmt.Sprintf("Diagnostic log level (%s)", strings.Join(LogLevels, ", ")))
}

// Apply overlays the explicitly set flags of fs onto cfg.
func (f *SessionFlags) Apply(fs *pflag.FlagSet, cfg *config.Config) {
	if fs.Changed("gdb") {
		cfg.GDB.Path = f.GDB
	}
	if fs.Changed("binary") {
		cfg.GDB.Binary = f.Binary
	}
	if fs.Changed("core") {
		cfg.GDB.Core = f.Core
	}
	if fs.Changed("pid") {
		cfg.GDB.PID = f.PID
	}
	if fs.Changed("ex") {
		cfg.GDB.InitCommands = append(cfg.GDB.InitCommands, f.InitCommands...)
	}
	if fs.Changed("timeout") {
		cfg.GDB.EvalTimeout = f.Timeout
	}
	if fs.Changed("dump-func") {
		cfg.Runtime.DumpFunction = f.DumpFunction
	}
	if fs.Changed("runtime-namespace") {
		cfg.Runtime.Namespace = f.Namespace
	}
	if fs.Changed("log-level") {
		cfg.Logging.Level = f.LogLevel
	}
}

// RegisterCompletions adds shell completion for enumerated session flags.
func (f *SessionFlags) RegisterCompletions(cmd *cobra.Command) {
	_ = cmd.RegisterFlagCompletionFunc("log-level", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return LogLevels, cobra.ShellCompDirectiveNoFileComp
	})
}

// AddFormatFlag adds a standard --format/-o flag to a command.
func AddFormatFlag(cmd *cobra.Command, formatVar *string, defaultFormat OutputFormat, supportedFormats []OutputFormat) {
	formatNames := make([]string, len(supportedFormats))
	for i, f := range supportedFormats {
		formatNames[i] = string(f)
	}

	description := fmt.Sprintf("Output format (%s)", strings.Join(formatNames, ", "))
	cmd.Flags().StringVarP(formatVar, "format", "o", string(defaultFormat), description)

	_ = cmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return formatNames, cobra.ShellCompDirectiveNoFileComp
	})
}

// ValidateFormat checks if the format is in the supported list.
func ValidateFormat(format string, supported []OutputFormat) error {
	for _, s := range supported {
		if format == string(s) {
			return nil
		}
	}

	supportedNames := make([]string, len(supported))
	for i, s := range supported {
		supportedNames[i] = string(s)
	}

	return fmt.Errorf("unsupported format %q, must be one of: %s",
		format, strings.Join(supportedNames, ", "))
}
