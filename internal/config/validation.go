package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tvmtools/tvmdbg/internal/logging"
)

// Validate checks cfg for inconsistent settings and returns all problems
// joined together.
func Validate(cfg *Config) error {
	var errs []error

	if strings.TrimSpace(cfg.GDB.Path) == "" {
		errs = append(errs, errors.New("gdb.path must not be empty"))
	}
	if cfg.GDB.Core != "" && cfg.GDB.PID != 0 {
		errs = append(errs, errors.New("gdb.core and gdb.pid are mutually exclusive"))
	}
	if cfg.GDB.PID < 0 {
		errs = append(errs, fmt.Errorf("gdb.pid must be positive, got %d", cfg.GDB.PID))
	}
	if cfg.GDB.EvalTimeout <= 0 {
		errs = append(errs, fmt.Errorf("gdb.eval_timeout must be positive, got %s", cfg.GDB.EvalTimeout))
	}
	if strings.TrimSpace(cfg.Runtime.DumpFunction) == "" {
		errs = append(errs, errors.New("runtime.dump_function must not be empty"))
	}
	if strings.TrimSpace(cfg.Runtime.Namespace) == "" {
		errs = append(errs, errors.New("runtime.namespace must not be empty"))
	}
	for from, to := range cfg.Runtime.Synonyms {
		if strings.TrimSpace(from) == "" || strings.TrimSpace(to) == "" {
			errs = append(errs, fmt.Errorf("runtime.synonyms has an empty side: %q -> %q", from, to))
		}
	}
	if _, err := logging.ParseLevel(cfg.Logging.Level); err != nil {
		errs = append(errs, fmt.Errorf("logging.level: %w", err))
	}

	return errors.Join(errs...)
}
