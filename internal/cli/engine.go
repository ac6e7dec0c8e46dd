package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/tvmtools/tvmdbg/internal/cli/helpers"
	"github.com/tvmtools/tvmdbg/internal/commands"
	"github.com/tvmtools/tvmdbg/internal/config"
	tverrors "github.com/tvmtools/tvmdbg/internal/errors"
	"github.com/tvmtools/tvmdbg/internal/evaluator"
	"github.com/tvmtools/tvmdbg/internal/evaluator/gdbmi"
	"github.com/tvmtools/tvmdbg/internal/fields"
	"github.com/tvmtools/tvmdbg/internal/logging"
	"github.com/tvmtools/tvmdbg/internal/normalize"
	"github.com/tvmtools/tvmdbg/internal/present"
	"github.com/tvmtools/tvmdbg/internal/typeoracle"
)

// engine is a running gdb session with the command set bound to it.
type engine struct {
	cfg      *config.Config
	logger   zerolog.Logger
	eval     evaluator.Evaluator
	set      *commands.Set
	closer   io.Closer
	synonyms *normalize.Table
}

// loadConfig resolves the effective configuration for cmd.
func loadConfig(cmd *cobra.Command, flags *helpers.SessionFlags) (*config.Config, error) {
	cfg, err := config.NewLoader().Load()
	if err != nil {
		return nil, err
	}
	flags.Apply(cmd.Flags(), cfg)
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func newLogger(cmd *cobra.Command, cfg *config.Config) zerolog.Logger {
	return logging.New(logging.Config{
		Level:  cfg.Logging.Level,
		Pretty: cfg.Logging.Pretty,
		Output: cmd.ErrOrStderr(),
	})
}

// openEngine starts gdb according to the configuration and flags of cmd.
func openEngine(ctx context.Context, cmd *cobra.Command, flags *helpers.SessionFlags) (*engine, error) {
	cfg, err := loadConfig(cmd, flags)
	if err != nil {
		return nil, err
	}
	logger := newLogger(cmd, cfg)

	session, err := gdbmi.Start(ctx, gdbmi.StartConfig{
		Path:         cfg.GDB.Path,
		Binary:       cfg.GDB.Binary,
		Core:         cfg.GDB.Core,
		PID:          cfg.GDB.PID,
		InitCommands: cfg.GDB.InitCommands,
		Timeout:      cfg.GDB.EvalTimeout,
		Output:       cmd.OutOrStdout(),
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to start gdb session: %w", err)
	}

	e, err := newEngine(cfg, session, cmd.OutOrStdout(), logger)
	if err != nil {
		tverrors.DeferClose(logger, session, "failed to close gdb session")
		return nil, err
	}
	e.closer = session
	return e, nil
}

// newEngine binds the command set to eval.
func newEngine(cfg *config.Config, eval evaluator.Evaluator, out io.Writer, logger zerolog.Logger) (*engine, error) {
	synonyms, err := normalize.NewBuilder().AddMap(cfg.Runtime.Synonyms).Build()
	if err != nil {
		return nil, fmt.Errorf("invalid synonyms: %w", err)
	}

	oracle := typeoracle.NewDeleterOracle(eval, cfg.Runtime.Namespace, logger)
	enum := fields.NewEnumerator(eval, oracle, synonyms, logger)
	pres := present.New(eval, oracle, out, cfg.Runtime.DumpFunction, logger)

	return &engine{
		cfg:      cfg,
		logger:   logger,
		eval:     eval,
		set:      commands.New(eval, oracle, enum, pres, logger),
		synonyms: synonyms,
	}, nil
}

// Close shuts gdb down.
func (e *engine) Close() {
	tverrors.DeferClose(e.logger, e.closer, "failed to close gdb session")
}
